package scoring

import (
	"reflect"
	"testing"
	"time"

	"github.com/evalyhq/evaly-backend/internal/model"
	"github.com/google/uuid"
)

func sectionQuestion(ref uuid.UUID, order int, points *float64, correctID string) model.Question {
	return model.Question{
		ID:          uuid.New(),
		ReferenceID: ref,
		Type:        model.QuestionTypeMultipleChoice,
		OrderNum:    order,
		PointValue:  points,
		Options: []model.QuestionOption{
			{ID: correctID, IsCorrect: true},
			{ID: "wrong"},
		},
	}
}

func attemptAnswer(attemptID, questionID uuid.UUID, selected ...string) model.TestAttemptAnswer {
	return model.TestAttemptAnswer{
		ID:            uuid.New(),
		TestAttemptID: attemptID,
		QuestionID:    questionID,
		AnswerOptions: selected,
	}
}

func TestAggregateSection_Basic(t *testing.T) {
	section := uuid.New()
	attempt := &model.TestAttempt{ID: uuid.New(), TestSectionID: section, StartedAt: time.Now()}

	q1 := sectionQuestion(section, 1, nil, "A")
	q2 := sectionQuestion(section, 2, floatPtr(3), "B")
	q3 := sectionQuestion(section, 3, nil, "C") // unanswered

	answers := []model.TestAttemptAnswer{
		attemptAnswer(attempt.ID, q1.ID, "A"),     // correct
		attemptAnswer(attempt.ID, q2.ID, "wrong"), // wrong
	}

	res := AggregateSection(attempt, []model.Question{q1, q2, q3}, answers)

	if res.Score != 1 {
		t.Fatalf("expected score 1, got %v", res.Score)
	}
	if res.MaxScore != 5 {
		t.Fatalf("expected max score 5 (1+3+1), got %v", res.MaxScore)
	}
	if res.Percentage != 20 {
		t.Fatalf("expected 20%%, got %d", res.Percentage)
	}
	if len(res.QuestionResults) != 3 {
		t.Fatalf("expected 3 question results, got %d", len(res.QuestionResults))
	}
	if res.QuestionResults[2].Answered {
		t.Fatal("unanswered question reported as answered")
	}
	if res.Finished {
		t.Fatal("attempt without finished_at must not be finished")
	}
}

func TestAggregateSection_SortsByOrder(t *testing.T) {
	section := uuid.New()
	attempt := &model.TestAttempt{ID: uuid.New(), TestSectionID: section}

	q3 := sectionQuestion(section, 3, nil, "A")
	q1 := sectionQuestion(section, 1, nil, "A")
	q2 := sectionQuestion(section, 2, nil, "A")

	res := AggregateSection(attempt, []model.Question{q3, q1, q2}, nil)

	var orders []int
	for _, qr := range res.QuestionResults {
		orders = append(orders, qr.OrderNum)
	}
	if !reflect.DeepEqual(orders, []int{1, 2, 3}) {
		t.Fatalf("expected ascending order, got %v", orders)
	}
}

func TestAggregateSection_SkipsDeletedAndOrphans(t *testing.T) {
	section := uuid.New()
	attempt := &model.TestAttempt{ID: uuid.New(), TestSectionID: section}

	now := time.Now()
	deleted := sectionQuestion(section, 1, floatPtr(10), "A")
	deleted.DeletedAt = &now
	live := sectionQuestion(section, 2, nil, "A")

	answers := []model.TestAttemptAnswer{
		attemptAnswer(attempt.ID, deleted.ID, "A"),    // references deleted question
		attemptAnswer(attempt.ID, uuid.New(), "A"),    // orphan answer
		attemptAnswer(attempt.ID, live.ID, "A"),       // correct
	}

	res := AggregateSection(attempt, []model.Question{deleted, live}, answers)

	if res.MaxScore != 1 {
		t.Fatalf("deleted question leaked into max score: %v", res.MaxScore)
	}
	if res.Score != 1 {
		t.Fatalf("expected score 1, got %v", res.Score)
	}
	if len(res.QuestionResults) != 1 {
		t.Fatalf("expected 1 question result, got %d", len(res.QuestionResults))
	}
}

func TestAggregateSection_NeedsVerifyContributesZero(t *testing.T) {
	section := uuid.New()
	attempt := &model.TestAttempt{ID: uuid.New(), TestSectionID: section}

	essay := model.Question{
		ID:          uuid.New(),
		ReferenceID: section,
		Type:        model.QuestionTypeTextField,
		OrderNum:    1,
		PointValue:  floatPtr(5),
	}
	text := "free response"
	answers := []model.TestAttemptAnswer{{
		TestAttemptID: attempt.ID,
		QuestionID:    essay.ID,
		AnswerText:    &text,
	}}

	res := AggregateSection(attempt, []model.Question{essay}, answers)

	if res.Score != 0 {
		t.Fatalf("needs-verify answer must score 0, got %v", res.Score)
	}
	if res.MaxScore != 5 {
		t.Fatalf("expected max 5, got %v", res.MaxScore)
	}
	if res.QuestionResults[0].IsCorrect != nil {
		t.Fatal("needs-verify answer must have nil is_correct")
	}
	if !res.QuestionResults[0].Answered {
		t.Fatal("text answer must count as answered")
	}
}

func TestAggregateSection_Idempotent(t *testing.T) {
	section := uuid.New()
	attempt := &model.TestAttempt{ID: uuid.New(), TestSectionID: section}

	q1 := sectionQuestion(section, 1, nil, "A")
	q2 := sectionQuestion(section, 2, floatPtr(2), "B")
	questions := []model.Question{q1, q2}
	answers := []model.TestAttemptAnswer{
		attemptAnswer(attempt.ID, q1.ID, "A"),
		attemptAnswer(attempt.ID, q2.ID, "B"),
	}

	first := AggregateSection(attempt, questions, answers)
	second := AggregateSection(attempt, questions, answers)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated aggregation differs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestPercentage_RoundHalfUp(t *testing.T) {
	tests := []struct {
		score, max float64
		want       int
	}{
		{0, 0, 0},
		{1, 0, 0},
		{1, 2, 50},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13},  // 12.5 rounds up
		{3, 4, 75},
		{4, 4, 100},
	}
	for _, tc := range tests {
		if got := Percentage(tc.score, tc.max); got != tc.want {
			t.Errorf("Percentage(%v, %v) = %d, want %d", tc.score, tc.max, got, tc.want)
		}
	}
}
