package repository

import (
	"context"

	"github.com/evalyhq/evaly-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AttemptRepository handles test attempt data access.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

const attemptColumns = `id, participant_id, test_id, test_section_id, started_at, finished_at, score, max_score`

// GetByID retrieves a live attempt by id.
func (r *AttemptRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.TestAttempt, error) {
	a := &model.TestAttempt{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+attemptColumns+`
		 FROM test_attempts
		 WHERE id = $1 AND deleted_at IS NULL`, id,
	).Scan(&a.ID, &a.ParticipantID, &a.TestID, &a.TestSectionID, &a.StartedAt, &a.FinishedAt, &a.Score, &a.MaxScore)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetByParticipantAndSection retrieves the attempt for one participant on
// one section. If a race ever produced duplicates, the most recent wins.
func (r *AttemptRepository) GetByParticipantAndSection(ctx context.Context, participantID, sectionID uuid.UUID) (*model.TestAttempt, error) {
	a := &model.TestAttempt{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+attemptColumns+`
		 FROM test_attempts
		 WHERE participant_id = $1 AND test_section_id = $2 AND deleted_at IS NULL
		 ORDER BY started_at DESC
		 LIMIT 1`, participantID, sectionID,
	).Scan(&a.ID, &a.ParticipantID, &a.TestID, &a.TestSectionID, &a.StartedAt, &a.FinishedAt, &a.Score, &a.MaxScore)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Create inserts a new attempt. Returns pgx.ErrNoRows when a concurrent
// create for the same (participant, section) already won.
func (r *AttemptRepository) Create(ctx context.Context, a *model.TestAttempt) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO test_attempts (participant_id, test_id, test_section_id)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (participant_id, test_section_id) WHERE deleted_at IS NULL DO NOTHING
		 RETURNING id, started_at`,
		a.ParticipantID, a.TestID, a.TestSectionID,
	).Scan(&a.ID, &a.StartedAt)
}

// Finish marks an attempt as finished. Returns pgx.ErrNoRows if the
// attempt does not exist, was deleted, or is already finished — finishing
// is terminal, there is no way back to in-progress.
func (r *AttemptRepository) Finish(ctx context.Context, id uuid.UUID) (*model.TestAttempt, error) {
	a := &model.TestAttempt{}
	err := r.pool.QueryRow(ctx,
		`UPDATE test_attempts
		 SET finished_at = NOW()
		 WHERE id = $1 AND finished_at IS NULL AND deleted_at IS NULL
		 RETURNING `+attemptColumns, id,
	).Scan(&a.ID, &a.ParticipantID, &a.TestID, &a.TestSectionID, &a.StartedAt, &a.FinishedAt, &a.Score, &a.MaxScore)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListByParticipantAndTest retrieves a participant's attempts across all
// sections of a test.
func (r *AttemptRepository) ListByParticipantAndTest(ctx context.Context, participantID, testID uuid.UUID) ([]model.TestAttempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+attemptColumns+`
		 FROM test_attempts
		 WHERE participant_id = $1 AND test_id = $2 AND deleted_at IS NULL
		 ORDER BY started_at`, participantID, testID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAttempts(rows)
}

// ListByTest retrieves every live attempt on a test across all participants.
func (r *AttemptRepository) ListByTest(ctx context.Context, testID uuid.UUID) ([]model.TestAttempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+attemptColumns+`
		 FROM test_attempts
		 WHERE test_id = $1 AND deleted_at IS NULL
		 ORDER BY participant_id, started_at`, testID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAttempts(rows)
}

func scanAttempts(rows pgx.Rows) ([]model.TestAttempt, error) {
	var attempts []model.TestAttempt
	for rows.Next() {
		var a model.TestAttempt
		if err := rows.Scan(&a.ID, &a.ParticipantID, &a.TestID, &a.TestSectionID, &a.StartedAt, &a.FinishedAt, &a.Score, &a.MaxScore); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
