package scoring

import (
	"github.com/evalyhq/evaly-backend/internal/model"
)

// Evaluation is the outcome of grading one answer against one question.
// IsCorrect is nil when the answer cannot be graded automatically
// (free-text/media types, unknown types) and awaits manual review.
type Evaluation struct {
	IsCorrect    *bool   `json:"is_correct"`
	PointsEarned float64 `json:"points_earned"`
}

// PointsPossible returns the point value a question contributes to the
// maximum score. An unset point value defaults to 1; this default must
// match everywhere earned points are computed, or percentages drift.
func PointsPossible(q *model.Question) float64 {
	if q.PointValue != nil {
		return *q.PointValue
	}
	return 1
}

// Evaluate grades a stored answer against its question definition.
//
// Option-based questions are correct iff the selected option-id set is
// exactly the set of options flagged correct. Order and duplicates are
// ignored, and any mismatch (missing, extra, or empty selection) is
// incorrect with no partial credit. Non-option and unknown types are
// never guessed at: they evaluate to needs-verify (nil IsCorrect).
// A nil answer means the question was never answered.
func Evaluate(q *model.Question, a *model.TestAttemptAnswer) Evaluation {
	if q == nil || !q.Type.AutoScoreable() {
		return Evaluation{}
	}

	correct := make(map[string]struct{})
	for _, opt := range q.Options {
		if opt.IsCorrect {
			correct[opt.ID] = struct{}{}
		}
	}

	result := false
	if a != nil && len(a.AnswerOptions) > 0 {
		selected := make(map[string]struct{}, len(a.AnswerOptions))
		for _, id := range a.AnswerOptions {
			selected[id] = struct{}{}
		}
		result = setsEqual(selected, correct)
	}

	ev := Evaluation{IsCorrect: &result}
	if result {
		ev.PointsEarned = PointsPossible(q)
	}
	return ev
}

func setsEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
