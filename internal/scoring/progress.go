package scoring

import (
	"time"

	"github.com/evalyhq/evaly-backend/internal/model"
	"github.com/google/uuid"
)

// ParticipantProgress bundles one participant's attempts and computed
// result as input to the cross-participant progress rollup.
type ParticipantProgress struct {
	ParticipantID uuid.UUID
	Name          string
	Attempts      []model.TestAttempt
	Result        *PersonalResult
}

// TestProgress is the organizer-facing summary of a test (Contract B).
type TestProgress struct {
	WorkingInProgress  int                `json:"working_in_progress"`
	Submissions        int                `json:"submissions"`
	AverageTimeSeconds float64            `json:"average_time_seconds"`
	CompletitionRate   int                `json:"completition_rate"`
	Leaderboard        []LeaderboardEntry `json:"leaderboard"`
}

// BuildProgress computes the cross-participant summary for a test.
//
//   - WorkingInProgress counts participants with at least one unfinished
//     attempt and no completed full set.
//   - Submissions counts participants who finished every section.
//   - AverageTimeSeconds is the mean attempt duration across finished
//     attempts of participants who completed the entire test; participants
//     who never finish are excluded, not counted as zero.
//   - CompletitionRate is submissions over participants with any attempt,
//     as a rounded percentage.
func BuildProgress(participants []ParticipantProgress) TestProgress {
	progress := TestProgress{Leaderboard: []LeaderboardEntry{}}

	var totalDuration time.Duration
	var finishedAttempts int
	var attempted int

	for i := range participants {
		p := &participants[i]
		if len(p.Attempts) == 0 {
			continue
		}
		attempted++

		completed := p.Result != nil && p.Result.IsCompleted
		if completed {
			progress.Submissions++
			for j := range p.Attempts {
				a := &p.Attempts[j]
				if a.FinishedAt != nil {
					totalDuration += a.FinishedAt.Sub(a.StartedAt)
					finishedAttempts++
				}
			}
		} else {
			for j := range p.Attempts {
				if p.Attempts[j].FinishedAt == nil {
					progress.WorkingInProgress++
					break
				}
			}
		}

		if p.Result != nil {
			progress.Leaderboard = append(progress.Leaderboard, LeaderboardEntry{
				ParticipantID: p.ParticipantID,
				Name:          p.Name,
				TotalScore:    p.Result.TotalScore,
				MaxScore:      p.Result.MaxPossibleScore,
				Percentage:    p.Result.Percentage,
				Grade:         p.Result.Grade,
				CompletedAt:   p.Result.CompletedAt,
				Completed:     p.Result.IsCompleted,
			})
		}
	}

	if finishedAttempts > 0 {
		progress.AverageTimeSeconds = totalDuration.Seconds() / float64(finishedAttempts)
	}
	if attempted > 0 {
		progress.CompletitionRate = Percentage(float64(progress.Submissions), float64(attempted))
	}

	progress.Leaderboard = RankLeaderboard(progress.Leaderboard)
	return progress
}
