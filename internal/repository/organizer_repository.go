package repository

import (
	"context"

	"github.com/evalyhq/evaly-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OrganizerRepository handles organizer data access.
type OrganizerRepository struct {
	pool *pgxpool.Pool
}

// NewOrganizerRepository creates a new OrganizerRepository.
func NewOrganizerRepository(pool *pgxpool.Pool) *OrganizerRepository {
	return &OrganizerRepository{pool: pool}
}

// GetByID retrieves a live organizer by id.
func (r *OrganizerRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Organizer, error) {
	o := &model.Organizer{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, organization_id, email, name, password_hash, created_at
		 FROM organizers
		 WHERE id = $1 AND deleted_at IS NULL`, id,
	).Scan(&o.ID, &o.OrganizationID, &o.Email, &o.Name, &o.PasswordHash, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// GetByEmail retrieves a live organizer by email.
func (r *OrganizerRepository) GetByEmail(ctx context.Context, email string) (*model.Organizer, error) {
	o := &model.Organizer{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, organization_id, email, name, password_hash, created_at
		 FROM organizers
		 WHERE email = $1 AND deleted_at IS NULL`, email,
	).Scan(&o.ID, &o.OrganizationID, &o.Email, &o.Name, &o.PasswordHash, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// Create inserts a new organizer.
func (r *OrganizerRepository) Create(ctx context.Context, o *model.Organizer) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO organizers (organization_id, email, name, password_hash)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		o.OrganizationID, o.Email, o.Name, o.PasswordHash,
	).Scan(&o.ID, &o.CreatedAt)
}
