package model

import (
	"time"

	"github.com/google/uuid"
)

// TestSection is a timed or untimed sub-group of questions within a test.
// OrderNum is unique among non-deleted sections of the same test.
type TestSection struct {
	ID              uuid.UUID  `json:"id"`
	TestID          uuid.UUID  `json:"test_id"`
	Title           string     `json:"title"`
	OrderNum        int        `json:"order_num"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty"`
}

// CreateSectionRequest is the payload for adding a section to a test.
type CreateSectionRequest struct {
	Title           string `json:"title" binding:"required,min=1,max=255"`
	DurationMinutes *int   `json:"duration_minutes" binding:"omitempty,min=1,max=480"`
}
