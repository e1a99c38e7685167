package scoring

import (
	"math"
	"sort"
	"time"

	"github.com/evalyhq/evaly-backend/internal/model"
	"github.com/google/uuid"
)

// QuestionResult is the graded outcome of one question within a section.
type QuestionResult struct {
	QuestionID     uuid.UUID `json:"question_id"`
	OrderNum       int       `json:"order_num"`
	Answered       bool      `json:"answered"`
	IsCorrect      *bool     `json:"is_correct"`
	PointsEarned   float64   `json:"points_earned"`
	PointsPossible float64   `json:"points_possible"`
}

// SectionResult is the rollup of one attempt over one section.
type SectionResult struct {
	AttemptID       uuid.UUID        `json:"attempt_id"`
	TestSectionID   uuid.UUID        `json:"test_section_id"`
	Score           float64          `json:"score"`
	MaxScore        float64          `json:"max_score"`
	Percentage      int              `json:"percentage"`
	Finished        bool             `json:"finished"`
	FinishedAt      *time.Time       `json:"finished_at,omitempty"`
	QuestionResults []QuestionResult `json:"question_results"`
}

// AggregateSection rolls up all answers of one attempt into a section score.
//
// Questions are graded in ascending order_num so output is stable across
// calls regardless of store iteration order. Soft-deleted questions are
// excluded entirely; answers referencing them (or no known question) are
// skipped rather than failing the rollup. MaxScore counts every live
// question whether or not it was answered.
func AggregateSection(attempt *model.TestAttempt, questions []model.Question, answers []model.TestAttemptAnswer) SectionResult {
	res := SectionResult{}
	if attempt != nil {
		res.AttemptID = attempt.ID
		res.TestSectionID = attempt.TestSectionID
		res.Finished = attempt.FinishedAt != nil
		res.FinishedAt = attempt.FinishedAt
	}

	live := make([]model.Question, 0, len(questions))
	for _, q := range questions {
		if q.DeletedAt == nil {
			live = append(live, q)
		}
	}
	sort.SliceStable(live, func(i, j int) bool { return live[i].OrderNum < live[j].OrderNum })

	byQuestion := make(map[uuid.UUID]*model.TestAttemptAnswer, len(answers))
	for i := range answers {
		if answers[i].DeletedAt != nil {
			continue
		}
		byQuestion[answers[i].QuestionID] = &answers[i]
	}

	for i := range live {
		q := &live[i]
		ans := byQuestion[q.ID]
		ev := Evaluate(q, ans)

		res.Score += ev.PointsEarned
		res.MaxScore += PointsPossible(q)
		res.QuestionResults = append(res.QuestionResults, QuestionResult{
			QuestionID:     q.ID,
			OrderNum:       q.OrderNum,
			Answered:       ans != nil,
			IsCorrect:      ev.IsCorrect,
			PointsEarned:   ev.PointsEarned,
			PointsPossible: PointsPossible(q),
		})
	}

	res.Percentage = Percentage(res.Score, res.MaxScore)
	return res
}

// Percentage computes round-half-up(score/max*100), or 0 when max is 0.
// This is a display quantity, never an input to further arithmetic.
func Percentage(score, max float64) int {
	if max <= 0 {
		return 0
	}
	return int(math.Floor(score/max*100 + 0.5))
}
