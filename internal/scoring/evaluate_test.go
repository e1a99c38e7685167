package scoring

import (
	"testing"

	"github.com/evalyhq/evaly-backend/internal/model"
	"github.com/google/uuid"
)

func optionQuestion(t model.QuestionType, points *float64, options ...model.QuestionOption) *model.Question {
	return &model.Question{
		ID:          uuid.New(),
		ReferenceID: uuid.New(),
		Type:        t,
		Options:     options,
		PointValue:  points,
	}
}

func answerWith(options ...string) *model.TestAttemptAnswer {
	return &model.TestAttemptAnswer{
		ID:            uuid.New(),
		QuestionID:    uuid.New(),
		AnswerOptions: options,
	}
}

func floatPtr(v float64) *float64 { return &v }

func TestEvaluate_ExactSetMatch(t *testing.T) {
	q := optionQuestion(model.QuestionTypeMultipleChoice, nil,
		model.QuestionOption{ID: "A", IsCorrect: true},
		model.QuestionOption{ID: "B"},
		model.QuestionOption{ID: "C"},
	)

	tests := []struct {
		name      string
		answer    *model.TestAttemptAnswer
		isCorrect *bool
		earned    float64
	}{
		{name: "exact match", answer: answerWith("A"), isCorrect: boolPtr(true), earned: 1},
		{name: "extra option selected", answer: answerWith("A", "B"), isCorrect: boolPtr(false), earned: 0},
		{name: "wrong option only", answer: answerWith("B"), isCorrect: boolPtr(false), earned: 0},
		{name: "empty selection", answer: answerWith(), isCorrect: boolPtr(false), earned: 0},
		{name: "no answer record", answer: nil, isCorrect: boolPtr(false), earned: 0},
		{name: "duplicate ids collapse", answer: answerWith("A", "A"), isCorrect: boolPtr(true), earned: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(q, tc.answer)
			assertEvaluation(t, got, tc.isCorrect, tc.earned)
		})
	}
}

func TestEvaluate_MultiCorrectRequiresAll(t *testing.T) {
	q := optionQuestion(model.QuestionTypeMultipleChoice, floatPtr(4),
		model.QuestionOption{ID: "A", IsCorrect: true},
		model.QuestionOption{ID: "B"},
		model.QuestionOption{ID: "C", IsCorrect: true},
	)
	q.AllowMultipleAnswers = true

	tests := []struct {
		name      string
		answer    *model.TestAttemptAnswer
		isCorrect *bool
		earned    float64
	}{
		{name: "both correct any order", answer: answerWith("C", "A"), isCorrect: boolPtr(true), earned: 4},
		{name: "missing one", answer: answerWith("A"), isCorrect: boolPtr(false), earned: 0},
		{name: "all plus wrong", answer: answerWith("A", "C", "B"), isCorrect: boolPtr(false), earned: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(q, tc.answer)
			assertEvaluation(t, got, tc.isCorrect, tc.earned)
		})
	}
}

func TestEvaluate_NeedsVerifyTypes(t *testing.T) {
	text := "my essay"
	answer := &model.TestAttemptAnswer{AnswerText: &text}

	for _, qt := range []model.QuestionType{
		model.QuestionTypeTextField,
		model.QuestionTypeFillTheBlank,
		model.QuestionTypeMatchingPairs,
		model.QuestionTypeSlideScale,
		model.QuestionTypeFileUpload,
		model.QuestionTypeAudioResponse,
		model.QuestionTypeVideoResponse,
	} {
		t.Run(string(qt), func(t *testing.T) {
			got := Evaluate(optionQuestion(qt, floatPtr(5)), answer)
			assertEvaluation(t, got, nil, 0)
		})
	}
}

func TestEvaluate_UnknownTypeNeverThrows(t *testing.T) {
	q := optionQuestion(model.QuestionType("hologram"), floatPtr(2),
		model.QuestionOption{ID: "A", IsCorrect: true},
	)
	got := Evaluate(q, answerWith("A"))
	assertEvaluation(t, got, nil, 0)
}

func TestEvaluate_PointDefault(t *testing.T) {
	q := optionQuestion(model.QuestionTypeYesOrNo, nil,
		model.QuestionOption{ID: "yes", IsCorrect: true},
		model.QuestionOption{ID: "no"},
	)
	got := Evaluate(q, answerWith("yes"))
	assertEvaluation(t, got, boolPtr(true), 1)

	if pts := PointsPossible(q); pts != 1 {
		t.Fatalf("expected default point value 1, got %v", pts)
	}

	q.PointValue = floatPtr(3)
	got = Evaluate(q, answerWith("yes"))
	assertEvaluation(t, got, boolPtr(true), 3)
}

func assertEvaluation(t *testing.T, got Evaluation, isCorrect *bool, earned float64) {
	t.Helper()
	if got.PointsEarned != earned {
		t.Fatalf("expected earned=%v, got=%v", earned, got.PointsEarned)
	}
	if isCorrect == nil {
		if got.IsCorrect != nil {
			t.Fatalf("expected is_correct=nil, got=%v", *got.IsCorrect)
		}
		return
	}
	if got.IsCorrect == nil {
		t.Fatalf("expected is_correct=%v, got=nil", *isCorrect)
	}
	if *got.IsCorrect != *isCorrect {
		t.Fatalf("expected is_correct=%v, got=%v", *isCorrect, *got.IsCorrect)
	}
}

func boolPtr(v bool) *bool { return &v }
