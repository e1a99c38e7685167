package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/evalyhq/evaly-backend/internal/config"
	"github.com/evalyhq/evaly-backend/internal/model"
	"github.com/evalyhq/evaly-backend/internal/repository"
	"github.com/evalyhq/evaly-backend/internal/scoring"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Attempt lifecycle errors surfaced to handlers.
var (
	ErrTestNotAvailable   = errors.New("test is not available")
	ErrAttemptNotFound    = errors.New("attempt not found")
	ErrAttemptFinished    = errors.New("attempt is already finished")
	ErrNotAttemptOwner    = errors.New("attempt belongs to another participant")
	ErrQuestionNotInScope = errors.New("question does not belong to the attempt's section")
)

// ProgressEvent is published on the test's Redis channel whenever a write
// changes what an aggregation over the test would return.
type ProgressEvent struct {
	TestID        uuid.UUID `json:"test_id"`
	ParticipantID uuid.UUID `json:"participant_id"`
	Kind          string    `json:"kind"` // "answer" | "finish" | "start"
}

// AttemptService handles the attempt lifecycle: start, autosave drafts,
// submit answers, finish, and resumable state.
type AttemptService struct {
	attemptRepo  *repository.AttemptRepository
	answerRepo   *repository.AnswerRepository
	questionRepo *repository.QuestionRepository
	sectionRepo  *repository.SectionRepository
	testRepo     *repository.TestRepository
	rdb          *redis.Client
	log          zerolog.Logger
}

// NewAttemptService creates a new AttemptService.
func NewAttemptService(
	attemptRepo *repository.AttemptRepository,
	answerRepo *repository.AnswerRepository,
	questionRepo *repository.QuestionRepository,
	sectionRepo *repository.SectionRepository,
	testRepo *repository.TestRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *AttemptService {
	return &AttemptService{
		attemptRepo:  attemptRepo,
		answerRepo:   answerRepo,
		questionRepo: questionRepo,
		sectionRepo:  sectionRepo,
		testRepo:     testRepo,
		rdb:          rdb,
		log:          log.With().Str("component", "attempt_service").Logger(),
	}
}

// StartAttempt creates an attempt for the participant on a section, or
// returns the existing one; starting is idempotent per (participant,
// section). A concurrent double-create resolves by refetching, where the
// most recent attempt wins.
func (s *AttemptService) StartAttempt(ctx context.Context, participantID, sectionID uuid.UUID) (*model.TestAttempt, error) {
	section, err := s.sectionRepo.GetByID(ctx, sectionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("get section: %w", err)
	}

	test, err := s.testRepo.GetByID(ctx, section.TestID)
	if err != nil {
		return nil, fmt.Errorf("get test: %w", err)
	}
	if !test.IsPublished || test.FinishedAt != nil {
		return nil, ErrTestNotAvailable
	}

	existing, err := s.attemptRepo.GetByParticipantAndSection(ctx, participantID, sectionID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check existing attempt: %w", err)
	}
	if existing != nil {
		s.cacheStart(ctx, existing, section)
		return existing, nil
	}

	attempt := &model.TestAttempt{
		ParticipantID: participantID,
		TestID:        section.TestID,
		TestSectionID: sectionID,
		StartedAt:     time.Now(),
	}

	if err := s.attemptRepo.Create(ctx, attempt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Concurrent start detected; the other writer won.
			existing, fetchErr := s.attemptRepo.GetByParticipantAndSection(ctx, participantID, sectionID)
			if fetchErr != nil {
				return nil, fmt.Errorf("concurrent start detected, but fetch failed: %w", fetchErr)
			}
			return existing, nil
		}
		return nil, fmt.Errorf("create attempt: %w", err)
	}

	s.cacheStart(ctx, attempt, section)
	s.publish(ctx, ProgressEvent{TestID: attempt.TestID, ParticipantID: participantID, Kind: "start"})

	return attempt, nil
}

// cacheStart stores the attempt start time and section duration in Redis
// so GetAttemptState stays off PostgreSQL on the hot path.
func (s *AttemptService) cacheStart(ctx context.Context, attempt *model.TestAttempt, section *model.TestSection) {
	startKey := config.CacheKey.AttemptStartKey(section.ID.String(), attempt.ParticipantID.String())
	if err := s.rdb.Set(ctx, startKey, attempt.StartedAt.Unix(), 0).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Failed to cache attempt start time")
	}
	if section.DurationMinutes != nil {
		durKey := config.CacheKey.SectionDurationKey(section.ID.String())
		if err := s.rdb.Set(ctx, durKey, *section.DurationMinutes, 0).Err(); err != nil {
			s.log.Warn().Err(err).Msg("Failed to cache section duration")
		}
	}
}

// SaveDraft autosaves one answer into the attempt's Redis draft hash and
// queues it for unscored persistence. Drafts never touch is_correct.
func (s *AttemptService) SaveDraft(ctx context.Context, participantID, attemptID uuid.UUID, req *model.DraftAnswerRequest) error {
	if _, err := s.ownedOpenAttempt(ctx, participantID, attemptID); err != nil {
		return err
	}

	draftKey := config.CacheKey.AttemptDraftAnswersKey(attemptID.String())
	if err := s.rdb.HSet(ctx, draftKey, req.QuestionID.String(), req.Answer).Err(); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}

	payload, _ := json.Marshal(map[string]any{
		"attempt_id":  attemptID.String(),
		"question_id": req.QuestionID.String(),
		"answer":      req.Answer,
	})
	s.rdb.RPush(ctx, config.WorkerKey.PersistAnswersQueue, payload)

	return nil
}

// SubmitAnswer upserts a participant's answer with the evaluator's verdict
// cached onto the row. Submission is what triggers evaluation; drafts are
// never scored.
func (s *AttemptService) SubmitAnswer(ctx context.Context, participantID, attemptID uuid.UUID, req *model.SubmitAnswerRequest) (*model.TestAttemptAnswer, error) {
	attempt, err := s.ownedOpenAttempt(ctx, participantID, attemptID)
	if err != nil {
		return nil, err
	}

	question, err := s.questionRepo.GetByID(ctx, req.QuestionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuestionNotInScope
		}
		return nil, fmt.Errorf("get question: %w", err)
	}
	if question.ReferenceID != attempt.TestSectionID {
		return nil, ErrQuestionNotInScope
	}

	answer := &model.TestAttemptAnswer{
		TestAttemptID: attemptID,
		QuestionID:    req.QuestionID,
		AnswerText:    req.AnswerText,
		AnswerOptions: req.AnswerOptions,
	}

	ev := scoring.Evaluate(question, answer)
	answer.IsCorrect = ev.IsCorrect

	if err := s.answerRepo.Upsert(ctx, answer); err != nil {
		return nil, fmt.Errorf("upsert answer: %w", err)
	}

	// The stored draft for this question is now stale.
	draftKey := config.CacheKey.AttemptDraftAnswersKey(attemptID.String())
	s.rdb.HDel(ctx, draftKey, req.QuestionID.String())

	s.publish(ctx, ProgressEvent{TestID: attempt.TestID, ParticipantID: participantID, Kind: "answer"})

	return answer, nil
}

// FinishAttempt marks the attempt finished, queues the section score for
// denormalized persistence, and publishes a progress event. Finishing a
// missing attempt is a hard error; finishing twice is rejected.
func (s *AttemptService) FinishAttempt(ctx context.Context, participantID, attemptID uuid.UUID) (*scoring.SectionResult, error) {
	attempt, err := s.attemptRepo.GetByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("get attempt: %w", err)
	}
	if attempt.ParticipantID != participantID {
		return nil, ErrNotAttemptOwner
	}
	if attempt.FinishedAt != nil {
		return nil, ErrAttemptFinished
	}

	finished, err := s.attemptRepo.Finish(ctx, attemptID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Raced with another finish for the same attempt.
			return nil, ErrAttemptFinished
		}
		return nil, fmt.Errorf("finish attempt: %w", err)
	}

	questions, err := s.questionRepo.ListByReference(ctx, finished.TestSectionID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	answers, err := s.answerRepo.ListByAttempt(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}

	result := scoring.AggregateSection(finished, questions, answers)

	payload, _ := json.Marshal(map[string]any{
		"attempt_id": attemptID.String(),
		"score":      result.Score,
		"max_score":  result.MaxScore,
	})
	s.rdb.RPush(ctx, config.WorkerKey.PersistScoresQueue, payload)

	s.publish(ctx, ProgressEvent{TestID: finished.TestID, ParticipantID: participantID, Kind: "finish"})

	return &result, nil
}

// GetAttemptState returns the resumable state of an in-progress attempt:
// draft answers and remaining section time. The start time is read from
// Redis with a PostgreSQL fallback that self-heals the cache.
func (s *AttemptService) GetAttemptState(ctx context.Context, participantID, attemptID uuid.UUID) (*model.AttemptState, error) {
	attempt, err := s.ownedOpenAttempt(ctx, participantID, attemptID)
	if err != nil {
		return nil, err
	}

	draftKey := config.CacheKey.AttemptDraftAnswersKey(attemptID.String())
	drafts, err := s.rdb.HGetAll(ctx, draftKey).Result()
	if err != nil {
		return nil, fmt.Errorf("get drafts: %w", err)
	}

	state := &model.AttemptState{
		AttemptID:     attemptID,
		TestSectionID: attempt.TestSectionID,
		DraftAnswers:  drafts,
	}

	section, err := s.sectionRepo.GetByID(ctx, attempt.TestSectionID)
	if err != nil {
		return nil, fmt.Errorf("get section: %w", err)
	}
	if section.DurationMinutes == nil {
		return state, nil // Untimed section.
	}

	startKey := config.CacheKey.AttemptStartKey(section.ID.String(), participantID.String())
	var startUnix int64

	val, err := s.rdb.Get(ctx, startKey).Result()
	switch {
	case errors.Is(err, redis.Nil):
		// Cache miss (evicted or legacy attempt): PostgreSQL is the
		// source of truth; put it back so the next read is fast.
		startUnix = attempt.StartedAt.Unix()
		_ = s.rdb.Set(ctx, startKey, startUnix, 0)
	case err != nil:
		return nil, fmt.Errorf("redis error getting start time: %w", err)
	default:
		startUnix, err = strconv.ParseInt(val, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid start time format in cache: %w", err)
		}
	}

	endTime := time.Unix(startUnix, 0).Add(time.Duration(*section.DurationMinutes) * time.Minute)
	remaining := time.Until(endTime).Seconds()
	if remaining < 0 {
		remaining = 0
	}
	state.RemainingTime = &remaining

	return state, nil
}

// SectionQuestions returns the section's live questions with answer keys
// stripped, for rendering inside a running attempt.
func (s *AttemptService) SectionQuestions(ctx context.Context, participantID, attemptID uuid.UUID) ([]model.QuestionForParticipant, error) {
	attempt, err := s.ownedOpenAttempt(ctx, participantID, attemptID)
	if err != nil {
		return nil, err
	}

	questions, err := s.questionRepo.ListByReference(ctx, attempt.TestSectionID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	out := make([]model.QuestionForParticipant, 0, len(questions))
	for i := range questions {
		out = append(out, questions[i].ForParticipant())
	}
	return out, nil
}

// ownedOpenAttempt loads an attempt and verifies ownership and that it is
// still in progress.
func (s *AttemptService) ownedOpenAttempt(ctx context.Context, participantID, attemptID uuid.UUID) (*model.TestAttempt, error) {
	attempt, err := s.attemptRepo.GetByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("get attempt: %w", err)
	}
	if attempt.ParticipantID != participantID {
		return nil, ErrNotAttemptOwner
	}
	if attempt.FinishedAt != nil {
		return nil, ErrAttemptFinished
	}
	return attempt, nil
}

func (s *AttemptService) publish(ctx context.Context, ev ProgressEvent) {
	payload, _ := json.Marshal(ev)
	if err := s.rdb.Publish(ctx, config.CacheKey.TestProgressChannel(ev.TestID.String()), payload).Err(); err != nil {
		s.log.Warn().Err(err).Str("test_id", ev.TestID.String()).Msg("Progress publish failed")
	}
}
