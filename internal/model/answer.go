package model

import (
	"time"

	"github.com/google/uuid"
)

// TestAttemptAnswer is a participant's stored answer to one question.
// Rows are upserted by (test_attempt_id, question_id). IsCorrect is a
// cache computed by the evaluator on submit — never supplied by the
// client, and left NULL for drafts and needs-verify answers. SubmittedAt
// marks rows that came through explicit submission; autosaved drafts
// leave it NULL and must never replace a submitted row.
type TestAttemptAnswer struct {
	ID            uuid.UUID  `json:"id"`
	TestAttemptID uuid.UUID  `json:"test_attempt_id"`
	QuestionID    uuid.UUID  `json:"question_id"`
	AnswerText    *string    `json:"answer_text,omitempty"`
	AnswerOptions []string   `json:"answer_options,omitempty"`
	IsCorrect     *bool      `json:"is_correct,omitempty"`
	SubmittedAt   *time.Time `json:"submitted_at,omitempty"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`
}

// SubmitAnswerRequest is the payload for submitting one answer.
type SubmitAnswerRequest struct {
	QuestionID    uuid.UUID `json:"question_id" binding:"required"`
	AnswerText    *string   `json:"answer_text" binding:"omitempty,max=10000"`
	AnswerOptions []string  `json:"answer_options" binding:"omitempty,dive,min=1,max=64"`
}

// DraftAnswerRequest is the payload for autosaving a draft answer.
// Drafts live in Redis and are flushed to PostgreSQL unscored.
type DraftAnswerRequest struct {
	QuestionID uuid.UUID `json:"question_id" binding:"required"`
	Answer     string    `json:"answer" binding:"required,max=10000"`
}
