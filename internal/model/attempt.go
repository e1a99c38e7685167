package model

import (
	"time"

	"github.com/google/uuid"
)

// AttemptStatus enumerates test attempt states.
type AttemptStatus string

const (
	AttemptStatusInProgress AttemptStatus = "in-progress"
	AttemptStatusFinished   AttemptStatus = "finished"
)

// TestAttempt represents one participant's pass through one section.
// At most one attempt exists per (participant, section); the attempt is
// terminal once FinishedAt is set.
type TestAttempt struct {
	ID            uuid.UUID  `json:"id"`
	ParticipantID uuid.UUID  `json:"participant_id"`
	TestID        uuid.UUID  `json:"test_id"`
	TestSectionID uuid.UUID  `json:"test_section_id"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
	// Score and MaxScore are denormalized caches filled in after finish;
	// the source of truth is always the answer rows.
	Score     *float64   `json:"score,omitempty"`
	MaxScore  *float64   `json:"max_score,omitempty"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Status derives the attempt state from FinishedAt.
func (a *TestAttempt) Status() AttemptStatus {
	if a.FinishedAt != nil {
		return AttemptStatusFinished
	}
	return AttemptStatusInProgress
}

// AttemptState is the resumable state of an in-progress attempt:
// autosaved draft answers plus the remaining time on the section clock.
type AttemptState struct {
	AttemptID     uuid.UUID         `json:"attempt_id"`
	TestSectionID uuid.UUID         `json:"test_section_id"`
	DraftAnswers  map[string]string `json:"draft_answers"`
	RemainingTime *float64          `json:"remaining_time_seconds,omitempty"`
}
