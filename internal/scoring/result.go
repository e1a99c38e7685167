package scoring

import (
	"time"

	"github.com/evalyhq/evaly-backend/internal/model"
	"github.com/google/uuid"
)

// PersonalResult is a participant's own rollup across all sections of a test.
type PersonalResult struct {
	ParticipantID    uuid.UUID       `json:"participant_id"`
	TotalScore       float64         `json:"total_score"`
	MaxPossibleScore float64         `json:"max_possible_score"`
	Percentage       int             `json:"percentage"`
	Grade            string          `json:"grade"`
	IsCompleted      bool            `json:"is_completed"`
	CompletedAt      *time.Time      `json:"completed_at,omitempty"`
	Sections         []SectionResult `json:"sections"`
}

// BuildPersonalResult rolls up a participant's section results into a
// test-level total. Returns nil when the participant has no attempts.
//
// Only finished attempts contribute to the totals; an in-progress section
// is excluded from the sums but still blocks completion. IsCompleted
// requires every non-deleted section to have an attempt and every attempt
// to be finished. CompletedAt is the latest section finish time and is
// only set once the whole test is complete.
func BuildPersonalResult(participantID uuid.UUID, sections []SectionResult, totalSections int) *PersonalResult {
	if len(sections) == 0 {
		return nil
	}

	res := &PersonalResult{
		ParticipantID: participantID,
		Sections:      sections,
	}

	allFinished := true
	var completedAt *time.Time
	for i := range sections {
		s := &sections[i]
		if !s.Finished {
			allFinished = false
			continue
		}
		res.TotalScore += s.Score
		res.MaxPossibleScore += s.MaxScore
		if s.FinishedAt != nil && (completedAt == nil || s.FinishedAt.After(*completedAt)) {
			completedAt = s.FinishedAt
		}
	}

	res.IsCompleted = allFinished && len(sections) == totalSections
	if res.IsCompleted {
		res.CompletedAt = completedAt
	}
	res.Percentage = Percentage(res.TotalScore, res.MaxPossibleScore)
	res.Grade = LetterGrade(res.Percentage)
	return res
}

// SectionResultsFor computes one SectionResult per attempt from the
// question and answer sets keyed by section and attempt.
func SectionResultsFor(attempts []model.TestAttempt, questionsBySection map[uuid.UUID][]model.Question, answersByAttempt map[uuid.UUID][]model.TestAttemptAnswer) []SectionResult {
	results := make([]SectionResult, 0, len(attempts))
	for i := range attempts {
		a := &attempts[i]
		if a.DeletedAt != nil {
			continue
		}
		results = append(results, AggregateSection(a, questionsBySection[a.TestSectionID], answersByAttempt[a.ID]))
	}
	return results
}
