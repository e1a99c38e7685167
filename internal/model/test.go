package model

import (
	"time"

	"github.com/google/uuid"
)

// TestType enumerates how a test is administered.
type TestType string

const (
	TestTypeLive      TestType = "live"
	TestTypeSelfPaced TestType = "self-paced"
)

// TestAccess enumerates who may take a test.
type TestAccess string

const (
	TestAccessPublic     TestAccess = "public"
	TestAccessInviteOnly TestAccess = "invite-only"
)

// Test represents a test entity owned by an organization.
type Test struct {
	ID                    uuid.UUID  `json:"id"`
	Title                 string     `json:"title"`
	Type                  TestType   `json:"type"`
	Access                TestAccess `json:"access"`
	OrganizationID        uuid.UUID  `json:"organization_id"`
	IsPublished           bool       `json:"is_published"`
	ShowResultImmediately bool       `json:"show_result_immediately"`
	FinishedAt            *time.Time `json:"finished_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
	DeletedAt             *time.Time `json:"deleted_at,omitempty"`
}

// CreateTestRequest is the payload for creating a new test.
type CreateTestRequest struct {
	Title  string `json:"title" binding:"required,min=1,max=255"`
	Type   string `json:"type" binding:"required,oneof=live self-paced"`
	Access string `json:"access" binding:"omitempty,oneof=public invite-only"`
}
