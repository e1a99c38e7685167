package scoring

import (
	"testing"
	"time"

	"github.com/evalyhq/evaly-backend/internal/model"
	"github.com/google/uuid"
)

// buildTwoSectionFixture builds the canonical two-section test: two
// questions per section worth 1 point each. The participant gets 1/2 in
// section A and 2/2 in section B.
func buildTwoSectionFixture(t *testing.T, finishB bool) (uuid.UUID, []model.TestAttempt, []SectionResult) {
	t.Helper()

	participant := uuid.New()
	sectionA, sectionB := uuid.New(), uuid.New()
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	finishA := start.Add(10 * time.Minute)
	finishBAt := start.Add(25 * time.Minute)

	attemptA := model.TestAttempt{
		ID: uuid.New(), ParticipantID: participant, TestSectionID: sectionA,
		StartedAt: start, FinishedAt: &finishA,
	}
	attemptB := model.TestAttempt{
		ID: uuid.New(), ParticipantID: participant, TestSectionID: sectionB,
		StartedAt: start,
	}
	if finishB {
		attemptB.FinishedAt = &finishBAt
	}

	qA1 := sectionQuestion(sectionA, 1, nil, "A")
	qA2 := sectionQuestion(sectionA, 2, nil, "B")
	qB1 := sectionQuestion(sectionB, 1, nil, "C")
	qB2 := sectionQuestion(sectionB, 2, nil, "D")

	answers := map[uuid.UUID][]model.TestAttemptAnswer{
		attemptA.ID: {
			attemptAnswer(attemptA.ID, qA1.ID, "A"),     // correct
			attemptAnswer(attemptA.ID, qA2.ID, "wrong"), // wrong
		},
		attemptB.ID: {
			attemptAnswer(attemptB.ID, qB1.ID, "C"),
			attemptAnswer(attemptB.ID, qB2.ID, "D"),
		},
	}
	questions := map[uuid.UUID][]model.Question{
		sectionA: {qA1, qA2},
		sectionB: {qB1, qB2},
	}

	attempts := []model.TestAttempt{attemptA, attemptB}
	return participant, attempts, SectionResultsFor(attempts, questions, answers)
}

func TestBuildPersonalResult_CompletedTest(t *testing.T) {
	participant, _, sections := buildTwoSectionFixture(t, true)

	res := BuildPersonalResult(participant, sections, 2)
	if res == nil {
		t.Fatal("expected a result")
	}

	if res.TotalScore != 3 {
		t.Fatalf("expected total 3, got %v", res.TotalScore)
	}
	if res.MaxPossibleScore != 4 {
		t.Fatalf("expected max 4, got %v", res.MaxPossibleScore)
	}
	if res.Percentage != 75 {
		t.Fatalf("expected 75%%, got %d", res.Percentage)
	}
	if res.Grade != "C" {
		t.Fatalf("expected grade C, got %s", res.Grade)
	}
	if !res.IsCompleted {
		t.Fatal("expected completed test")
	}
	if res.CompletedAt == nil {
		t.Fatal("expected completed_at to be set")
	}
}

func TestBuildPersonalResult_UnfinishedSectionExcluded(t *testing.T) {
	participant, _, sections := buildTwoSectionFixture(t, false)

	res := BuildPersonalResult(participant, sections, 2)
	if res == nil {
		t.Fatal("expected a result")
	}

	// Section B is in progress: only section A (1/2) counts.
	if res.TotalScore != 1 || res.MaxPossibleScore != 2 {
		t.Fatalf("expected 1/2 over finished sections, got %v/%v", res.TotalScore, res.MaxPossibleScore)
	}
	if res.IsCompleted {
		t.Fatal("test with an unfinished section must not be completed")
	}
	if res.CompletedAt != nil {
		t.Fatal("completed_at must be unset while in progress")
	}
}

func TestBuildPersonalResult_NoAttempts(t *testing.T) {
	if res := BuildPersonalResult(uuid.New(), nil, 2); res != nil {
		t.Fatalf("expected nil result without attempts, got %+v", res)
	}
}

func TestBuildPersonalResult_MissingSectionBlocksCompletion(t *testing.T) {
	participant, _, sections := buildTwoSectionFixture(t, true)

	// All attempted sections are finished, but the test has a third section
	// the participant never started.
	res := BuildPersonalResult(participant, sections, 3)
	if res.IsCompleted {
		t.Fatal("completion requires an attempt for every section")
	}

	// Dropping one finished section flips completion off for the 2-section test.
	partial := BuildPersonalResult(participant, sections[:1], 2)
	if partial.IsCompleted {
		t.Fatal("one finished attempt out of two sections must not complete")
	}
}
