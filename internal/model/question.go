package model

import (
	"time"

	"github.com/google/uuid"
)

// QuestionType enumerates the supported question variants.
type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "multiple-choice"
	QuestionTypeYesOrNo        QuestionType = "yes-or-no"
	QuestionTypeDropdown       QuestionType = "dropdown"
	QuestionTypeTextField      QuestionType = "text-field"
	QuestionTypeFillTheBlank   QuestionType = "fill-the-blank"
	QuestionTypeMatchingPairs  QuestionType = "matching-pairs"
	QuestionTypeSlideScale     QuestionType = "slide-scale"
	QuestionTypeFileUpload     QuestionType = "file-upload"
	QuestionTypeAudioResponse  QuestionType = "audio-response"
	QuestionTypeVideoResponse  QuestionType = "video-response"
)

// AutoScoreable reports whether answers of this type can be graded
// automatically from the option key. Everything else needs manual review.
func (t QuestionType) AutoScoreable() bool {
	switch t {
	case QuestionTypeMultipleChoice, QuestionTypeYesOrNo, QuestionTypeDropdown:
		return true
	}
	return false
}

// QuestionOption is one selectable choice on an option-based question.
type QuestionOption struct {
	ID         string   `json:"id"`
	Text       string   `json:"text"`
	IsCorrect  bool     `json:"is_correct"`
	PointValue *float64 `json:"point_value,omitempty"`
}

// Question represents a single question owned by a reference container
// (a test section or a question library).
type Question struct {
	ID                   uuid.UUID        `json:"id"`
	ReferenceID          uuid.UUID        `json:"reference_id"`
	QuestionText         string           `json:"question_text"`
	Type                 QuestionType     `json:"type"`
	Options              []QuestionOption `json:"options,omitempty"`
	PointValue           *float64         `json:"point_value,omitempty"`
	OrderNum             int              `json:"order_num"`
	AllowMultipleAnswers bool             `json:"allow_multiple_answers"`
	DeletedAt            *time.Time       `json:"deleted_at,omitempty"`
}

// QuestionForParticipant is a question stripped of the answer key,
// safe to send to a participant during an active attempt.
type QuestionForParticipant struct {
	ID                   uuid.UUID              `json:"id"`
	QuestionText         string                 `json:"question_text"`
	Type                 QuestionType           `json:"type"`
	Options              []OptionForParticipant `json:"options,omitempty"`
	OrderNum             int                    `json:"order_num"`
	AllowMultipleAnswers bool                   `json:"allow_multiple_answers"`
}

// OptionForParticipant is an option without its is_correct flag.
type OptionForParticipant struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// ForParticipant strips the answer key from a question.
func (q *Question) ForParticipant() QuestionForParticipant {
	out := QuestionForParticipant{
		ID:                   q.ID,
		QuestionText:         q.QuestionText,
		Type:                 q.Type,
		OrderNum:             q.OrderNum,
		AllowMultipleAnswers: q.AllowMultipleAnswers,
	}
	for _, opt := range q.Options {
		out.Options = append(out.Options, OptionForParticipant{ID: opt.ID, Text: opt.Text})
	}
	return out
}

// AddQuestionRequest is the payload for adding a question to a section.
type AddQuestionRequest struct {
	QuestionText         string           `json:"question_text" binding:"required,min=1,max=2000"`
	Type                 string           `json:"type" binding:"required,oneof=multiple-choice yes-or-no dropdown text-field fill-the-blank matching-pairs slide-scale file-upload audio-response video-response"`
	Options              []QuestionOption `json:"options" binding:"omitempty,dive"`
	PointValue           *float64         `json:"point_value" binding:"omitempty,min=0"`
	OrderNum             int              `json:"order_num" binding:"min=0"`
	AllowMultipleAnswers bool             `json:"allow_multiple_answers"`
}

// ReorderQuestionsRequest is the payload for moving a question to a new position.
type ReorderQuestionsRequest struct {
	QuestionID uuid.UUID `json:"question_id" binding:"required"`
	NewOrder   int       `json:"new_order" binding:"min=1"`
}
