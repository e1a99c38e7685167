package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/evalyhq/evaly-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AnswerRepository handles attempt answer data access.
type AnswerRepository struct {
	pool *pgxpool.Pool
}

// NewAnswerRepository creates a new AnswerRepository.
func NewAnswerRepository(pool *pgxpool.Pool) *AnswerRepository {
	return &AnswerRepository{pool: pool}
}

// Upsert creates or replaces the submitted answer for (attempt, question).
// Two rapid submissions race last-writer-wins; only the final state before
// finish matters. is_correct carries the evaluator's verdict, or NULL for
// needs-verify answers. submitted_at is stamped so the draft flush worker
// can tell submissions apart from autosaves even when both are unscored.
func (r *AnswerRepository) Upsert(ctx context.Context, a *model.TestAttemptAnswer) error {
	var rawOptions []byte
	if len(a.AnswerOptions) > 0 {
		var err error
		rawOptions, err = json.Marshal(a.AnswerOptions)
		if err != nil {
			return fmt.Errorf("encode answer options: %w", err)
		}
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO test_attempt_answers (test_attempt_id, question_id, answer_text, answer_options, is_correct, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, NOW())
		 ON CONFLICT (test_attempt_id, question_id)
		 DO UPDATE SET answer_text = EXCLUDED.answer_text,
		               answer_options = EXCLUDED.answer_options,
		               is_correct = EXCLUDED.is_correct,
		               submitted_at = NOW(),
		               updated_at = NOW(),
		               deleted_at = NULL
		 RETURNING id, updated_at`,
		a.TestAttemptID, a.QuestionID, a.AnswerText, rawOptions, a.IsCorrect,
	).Scan(&a.ID, &a.UpdatedAt)
}

// ListByAttempt retrieves all live answers of one attempt.
func (r *AnswerRepository) ListByAttempt(ctx context.Context, attemptID uuid.UUID) ([]model.TestAttemptAnswer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, test_attempt_id, question_id, answer_text, answer_options, is_correct, submitted_at, updated_at
		 FROM test_attempt_answers
		 WHERE test_attempt_id = $1 AND deleted_at IS NULL`, attemptID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAnswers(rows)
}

// ListByAttempts retrieves live answers of many attempts in one query,
// keyed by attempt id.
func (r *AnswerRepository) ListByAttempts(ctx context.Context, attemptIDs []uuid.UUID) (map[uuid.UUID][]model.TestAttemptAnswer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, test_attempt_id, question_id, answer_text, answer_options, is_correct, submitted_at, updated_at
		 FROM test_attempt_answers
		 WHERE test_attempt_id = ANY($1) AND deleted_at IS NULL`, attemptIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	answers, err := scanAnswers(rows)
	if err != nil {
		return nil, err
	}

	byAttempt := make(map[uuid.UUID][]model.TestAttemptAnswer, len(attemptIDs))
	for _, a := range answers {
		byAttempt[a.TestAttemptID] = append(byAttempt[a.TestAttemptID], a)
	}
	return byAttempt, nil
}

func scanAnswers(rows pgx.Rows) ([]model.TestAttemptAnswer, error) {
	var answers []model.TestAttemptAnswer
	for rows.Next() {
		var a model.TestAttemptAnswer
		var rawOptions []byte
		if err := rows.Scan(&a.ID, &a.TestAttemptID, &a.QuestionID, &a.AnswerText, &rawOptions, &a.IsCorrect, &a.SubmittedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		if len(rawOptions) > 0 {
			if err := json.Unmarshal(rawOptions, &a.AnswerOptions); err != nil {
				return nil, fmt.Errorf("decode answer options for %s: %w", a.ID, err)
			}
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}
