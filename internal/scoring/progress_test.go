package scoring

import (
	"math"
	"testing"
	"time"

	"github.com/evalyhq/evaly-backend/internal/model"
	"github.com/google/uuid"
)

func finishedAttempt(participant uuid.UUID, start time.Time, d time.Duration) model.TestAttempt {
	end := start.Add(d)
	return model.TestAttempt{
		ID: uuid.New(), ParticipantID: participant,
		StartedAt: start, FinishedAt: &end,
	}
}

func completedParticipant(name string, pct int, completedAt time.Time, attempts ...model.TestAttempt) ParticipantProgress {
	id := uuid.New()
	return ParticipantProgress{
		ParticipantID: id,
		Name:          name,
		Attempts:      attempts,
		Result: &PersonalResult{
			ParticipantID: id,
			Percentage:    pct,
			Grade:         LetterGrade(pct),
			IsCompleted:   true,
			CompletedAt:   &completedAt,
		},
	}
}

func TestBuildProgress_Counts(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	// Alice completed both sections (10m + 20m).
	alice := completedParticipant("Alice", 80, start.Add(20*time.Minute),
		finishedAttempt(uuid.Nil, start, 10*time.Minute),
		finishedAttempt(uuid.Nil, start, 20*time.Minute),
	)

	// Bob has one finished and one open attempt: working in progress.
	bobID := uuid.New()
	bob := ParticipantProgress{
		ParticipantID: bobID,
		Name:          "Bob",
		Attempts: []model.TestAttempt{
			finishedAttempt(bobID, start, 15*time.Minute),
			{ID: uuid.New(), ParticipantID: bobID, StartedAt: start},
		},
		Result: &PersonalResult{ParticipantID: bobID, Percentage: 50, Grade: "F"},
	}

	// Carol never attempted anything.
	carol := ParticipantProgress{ParticipantID: uuid.New(), Name: "Carol"}

	progress := BuildProgress([]ParticipantProgress{alice, bob, carol})

	if progress.Submissions != 1 {
		t.Fatalf("expected 1 submission, got %d", progress.Submissions)
	}
	if progress.WorkingInProgress != 1 {
		t.Fatalf("expected 1 working in progress, got %d", progress.WorkingInProgress)
	}
	// Two participants attempted, one completed: 50%.
	if progress.CompletitionRate != 50 {
		t.Fatalf("expected completition rate 50, got %d", progress.CompletitionRate)
	}
	// Average over Alice's attempts only: (600+1200)/2 = 900s. Bob never
	// finished the whole test and is excluded, not counted as zero.
	if math.Abs(progress.AverageTimeSeconds-900) > 1e-9 {
		t.Fatalf("expected average 900s, got %v", progress.AverageTimeSeconds)
	}
	if len(progress.Leaderboard) != 2 {
		t.Fatalf("expected 2 leaderboard rows, got %d", len(progress.Leaderboard))
	}
	if progress.Leaderboard[0].Name != "Alice" {
		t.Fatalf("expected Alice first, got %s", progress.Leaderboard[0].Name)
	}
}

func TestBuildProgress_Empty(t *testing.T) {
	progress := BuildProgress(nil)

	if progress.CompletitionRate != 0 || progress.Submissions != 0 || progress.WorkingInProgress != 0 {
		t.Fatalf("expected zero counts, got %+v", progress)
	}
	if progress.AverageTimeSeconds != 0 {
		t.Fatalf("expected zero average time, got %v", progress.AverageTimeSeconds)
	}
	if progress.Leaderboard == nil || len(progress.Leaderboard) != 0 {
		t.Fatalf("expected empty leaderboard, got %v", progress.Leaderboard)
	}
}
