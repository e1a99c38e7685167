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

// ProgressService computes organizer-facing cross-participant progress.
type ProgressService struct {
	attemptRepo     *repository.AttemptRepository
	answerRepo      *repository.AnswerRepository
	questionRepo    *repository.QuestionRepository
	sectionRepo     *repository.SectionRepository
	testRepo        *repository.TestRepository
	participantRepo *repository.ParticipantRepository
}

// NewProgressService creates a new ProgressService.
func NewProgressService(
	attemptRepo *repository.AttemptRepository,
	answerRepo *repository.AnswerRepository,
	questionRepo *repository.QuestionRepository,
	sectionRepo *repository.SectionRepository,
	testRepo *repository.TestRepository,
	participantRepo *repository.ParticipantRepository,
) *ProgressService {
	return &ProgressService{
		attemptRepo:     attemptRepo,
		answerRepo:      answerRepo,
		questionRepo:    questionRepo,
		sectionRepo:     sectionRepo,
		testRepo:        testRepo,
		participantRepo: participantRepo,
	}
}

// GetProgress computes the test-level summary and leaderboard for an
// organizer. The organization check belongs to the caller; this only
// verifies the test exists.
func (s *ProgressService) GetProgress(ctx context.Context, testID uuid.UUID) (*scoring.TestProgress, error) {
	if _, err := s.testRepo.GetByID(ctx, testID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("get test: %w", err)
	}

	attempts, err := s.attemptRepo.ListByTest(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}

	totalSections, err := s.sectionRepo.CountByTest(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("count sections: %w", err)
	}

	byParticipant := make(map[uuid.UUID][]model.TestAttempt)
	participantIDs := make([]uuid.UUID, 0)
	for i := range attempts {
		pid := attempts[i].ParticipantID
		if _, seen := byParticipant[pid]; !seen {
			participantIDs = append(participantIDs, pid)
		}
		byParticipant[pid] = append(byParticipant[pid], attempts[i])
	}

	participants, err := s.participantRepo.ListByIDs(ctx, participantIDs)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}

	// Batch-fetch questions and answers once for the whole test.
	sectionIDs := make([]uuid.UUID, 0)
	attemptIDs := make([]uuid.UUID, 0, len(attempts))
	seenSections := make(map[uuid.UUID]struct{})
	for i := range attempts {
		attemptIDs = append(attemptIDs, attempts[i].ID)
		if _, ok := seenSections[attempts[i].TestSectionID]; !ok {
			seenSections[attempts[i].TestSectionID] = struct{}{}
			sectionIDs = append(sectionIDs, attempts[i].TestSectionID)
		}
	}

	questions, err := s.questionRepo.ListBySections(ctx, sectionIDs)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	answers, err := s.answerRepo.ListByAttempts(ctx, attemptIDs)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}

	// Participant iteration order follows first appearance in the attempt
	// list, which is itself ordered — output is deterministic.
	inputs := make([]scoring.ParticipantProgress, 0, len(participantIDs))
	for _, pid := range participantIDs {
		partAttempts := byParticipant[pid]
		sectionResults := scoring.SectionResultsFor(partAttempts, questions, answers)

		name := pid.String()
		if p, ok := participants[pid]; ok {
			name = p.Name
		}

		inputs = append(inputs, scoring.ParticipantProgress{
			ParticipantID: pid,
			Name:          name,
			Attempts:      partAttempts,
			Result:        scoring.BuildPersonalResult(pid, sectionResults, totalSections),
		})
	}

	progress := scoring.BuildProgress(inputs)
	return &progress, nil
}
