package repository

import (
	"context"

	"github.com/evalyhq/evaly-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ParticipantRepository handles participant data access.
type ParticipantRepository struct {
	pool *pgxpool.Pool
}

// NewParticipantRepository creates a new ParticipantRepository.
func NewParticipantRepository(pool *pgxpool.Pool) *ParticipantRepository {
	return &ParticipantRepository{pool: pool}
}

// GetByID retrieves a live participant by id.
func (r *ParticipantRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Participant, error) {
	p := &model.Participant{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, name, password_hash, created_at
		 FROM participants
		 WHERE id = $1 AND deleted_at IS NULL`, id,
	).Scan(&p.ID, &p.Email, &p.Name, &p.PasswordHash, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetByEmail retrieves a live participant by email.
func (r *ParticipantRepository) GetByEmail(ctx context.Context, email string) (*model.Participant, error) {
	p := &model.Participant{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, name, password_hash, created_at
		 FROM participants
		 WHERE email = $1 AND deleted_at IS NULL`, email,
	).Scan(&p.ID, &p.Email, &p.Name, &p.PasswordHash, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListByIDs retrieves participants by id, keyed by id for overlaying onto
// attempt rollups.
func (r *ParticipantRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.Participant, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, email, name, password_hash, created_at
		 FROM participants
		 WHERE id = ANY($1) AND deleted_at IS NULL`, ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[uuid.UUID]model.Participant, len(ids))
	for rows.Next() {
		var p model.Participant
		if err := rows.Scan(&p.ID, &p.Email, &p.Name, &p.PasswordHash, &p.CreatedAt); err != nil {
			return nil, err
		}
		byID[p.ID] = p
	}
	return byID, rows.Err()
}

// Create inserts a new participant.
func (r *ParticipantRepository) Create(ctx context.Context, p *model.Participant) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO participants (email, name, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		p.Email, p.Name, p.PasswordHash,
	).Scan(&p.ID, &p.CreatedAt)
}
