package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/evalyhq/evaly-backend/internal/model"
	"github.com/evalyhq/evaly-backend/internal/repository"
	"github.com/evalyhq/evaly-backend/internal/scoring"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ResultService computes a participant's own test results.
type ResultService struct {
	attemptRepo  *repository.AttemptRepository
	answerRepo   *repository.AnswerRepository
	questionRepo *repository.QuestionRepository
	sectionRepo  *repository.SectionRepository
	testRepo     *repository.TestRepository
}

// NewResultService creates a new ResultService.
func NewResultService(
	attemptRepo *repository.AttemptRepository,
	answerRepo *repository.AnswerRepository,
	questionRepo *repository.QuestionRepository,
	sectionRepo *repository.SectionRepository,
	testRepo *repository.TestRepository,
) *ResultService {
	return &ResultService{
		attemptRepo:  attemptRepo,
		answerRepo:   answerRepo,
		questionRepo: questionRepo,
		sectionRepo:  sectionRepo,
		testRepo:     testRepo,
	}
}

// GetMyResults rolls up a participant's attempts across all sections of a
// test. Returns nil (not an error) when the participant has no attempts.
// Per-question correctness is withheld while the test is still running
// unless the test shows results immediately; hiding is a presentation
// filter over the evaluation, not a change to it.
func (s *ResultService) GetMyResults(ctx context.Context, participantID, testID uuid.UUID) (*scoring.PersonalResult, error) {
	test, err := s.testRepo.GetByID(ctx, testID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("get test: %w", err)
	}

	attempts, err := s.attemptRepo.ListByParticipantAndTest(ctx, participantID, testID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	if len(attempts) == 0 {
		return nil, nil
	}

	totalSections, err := s.sectionRepo.CountByTest(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("count sections: %w", err)
	}

	sectionResults, err := s.aggregateAttempts(ctx, attempts)
	if err != nil {
		return nil, err
	}

	result := scoring.BuildPersonalResult(participantID, sectionResults, totalSections)
	if result == nil {
		return nil, nil
	}

	if !test.ShowResultImmediately && test.FinishedAt == nil {
		redactQuestionResults(result)
	}
	return result, nil
}

// aggregateAttempts computes one SectionResult per attempt, batching the
// question and answer fetches.
func (s *ResultService) aggregateAttempts(ctx context.Context, attempts []model.TestAttempt) ([]scoring.SectionResult, error) {
	sectionIDs := make([]uuid.UUID, 0, len(attempts))
	attemptIDs := make([]uuid.UUID, 0, len(attempts))
	for i := range attempts {
		sectionIDs = append(sectionIDs, attempts[i].TestSectionID)
		attemptIDs = append(attemptIDs, attempts[i].ID)
	}

	questions, err := s.questionRepo.ListBySections(ctx, sectionIDs)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	answers, err := s.answerRepo.ListByAttempts(ctx, attemptIDs)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}

	return scoring.SectionResultsFor(attempts, questions, answers), nil
}

// redactQuestionResults strips per-question verdicts so correct answers
// cannot be reverse-engineered during a live test.
func redactQuestionResults(result *scoring.PersonalResult) {
	for i := range result.Sections {
		result.Sections[i].QuestionResults = nil
	}
}
