package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/evalyhq/evaly-backend/internal/model"
	"github.com/evalyhq/evaly-backend/internal/repository"
	"github.com/google/uuid"
)

// ErrQuestionNotFound is returned when reordering references an unknown question.
var ErrQuestionNotFound = errors.New("question not found in reference")

// QuestionService handles question authoring and ordering.
type QuestionService struct {
	questionRepo *repository.QuestionRepository
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(questionRepo *repository.QuestionRepository) *QuestionService {
	return &QuestionService{questionRepo: questionRepo}
}

// AddQuestion appends a question to a reference container and renumbers
// the scope so order_num stays gapless and unique among live questions.
func (s *QuestionService) AddQuestion(ctx context.Context, referenceID uuid.UUID, req *model.AddQuestionRequest) (*model.Question, error) {
	q := &model.Question{
		ReferenceID:          referenceID,
		QuestionText:         req.QuestionText,
		Type:                 model.QuestionType(req.Type),
		Options:              req.Options,
		PointValue:           req.PointValue,
		AllowMultipleAnswers: req.AllowMultipleAnswers,
	}

	if err := s.questionRepo.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}

	if err := s.renumber(ctx, referenceID, nil); err != nil {
		return nil, err
	}
	return q, nil
}

// Reorder moves a question to a new 1-based position and renumbers the
// whole scope in one pass.
func (s *QuestionService) Reorder(ctx context.Context, referenceID uuid.UUID, req *model.ReorderQuestionsRequest) error {
	return s.renumber(ctx, referenceID, func(ids []uuid.UUID) ([]uuid.UUID, error) {
		return moveQuestion(ids, req.QuestionID, req.NewOrder)
	})
}

// moveQuestion returns ids with questionID moved to the 1-based position
// newOrder, clamped to the slice bounds. The result is a permutation of
// the input, so a sequential rewrite of order_num stays gapless.
func moveQuestion(ids []uuid.UUID, questionID uuid.UUID, newOrder int) ([]uuid.UUID, error) {
	from := -1
	for i, id := range ids {
		if id == questionID {
			from = i
			break
		}
	}
	if from == -1 {
		return nil, ErrQuestionNotFound
	}

	to := newOrder - 1
	if to < 0 {
		to = 0
	}
	if to >= len(ids) {
		to = len(ids) - 1
	}

	moved := ids[from]
	ids = append(ids[:from], ids[from+1:]...)
	ids = append(ids[:to], append([]uuid.UUID{moved}, ids[to:]...)...)
	return ids, nil
}

// DeleteQuestion tombstones a question and closes the order gap it leaves.
func (s *QuestionService) DeleteQuestion(ctx context.Context, referenceID, questionID uuid.UUID) error {
	if err := s.questionRepo.SoftDelete(ctx, questionID); err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	return s.renumber(ctx, referenceID, nil)
}

// renumber loads the live question order and rewrites order_num 1..n,
// optionally rearranging via the supplied transform.
func (s *QuestionService) renumber(ctx context.Context, referenceID uuid.UUID, rearrange func([]uuid.UUID) ([]uuid.UUID, error)) error {
	questions, err := s.questionRepo.ListByReference(ctx, referenceID)
	if err != nil {
		return fmt.Errorf("list questions: %w", err)
	}

	ids := make([]uuid.UUID, len(questions))
	for i := range questions {
		ids[i] = questions[i].ID
	}

	if rearrange != nil {
		if ids, err = rearrange(ids); err != nil {
			return err
		}
	}

	if err := s.questionRepo.Renumber(ctx, referenceID, ids); err != nil {
		return fmt.Errorf("renumber questions: %w", err)
	}
	return nil
}
