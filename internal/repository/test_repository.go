package repository

import (
	"context"

	"github.com/evalyhq/evaly-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TestRepository handles test data access.
type TestRepository struct {
	pool *pgxpool.Pool
}

// NewTestRepository creates a new TestRepository.
func NewTestRepository(pool *pgxpool.Pool) *TestRepository {
	return &TestRepository{pool: pool}
}

// GetByID retrieves a test by id. Soft-deleted tests are not returned.
func (r *TestRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Test, error) {
	t := &model.Test{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, type, access, organization_id, is_published, show_result_immediately, finished_at, created_at, updated_at
		 FROM tests
		 WHERE id = $1 AND deleted_at IS NULL`, id,
	).Scan(&t.ID, &t.Title, &t.Type, &t.Access, &t.OrganizationID, &t.IsPublished, &t.ShowResultImmediately, &t.FinishedAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Create inserts a new test.
func (r *TestRepository) Create(ctx context.Context, t *model.Test) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO tests (title, type, access, organization_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		t.Title, t.Type, t.Access, t.OrganizationID,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

// ListByOrganization retrieves all live tests of an organization.
func (r *TestRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]model.Test, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, type, access, organization_id, is_published, show_result_immediately, finished_at, created_at, updated_at
		 FROM tests
		 WHERE organization_id = $1 AND deleted_at IS NULL
		 ORDER BY created_at DESC`, orgID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tests []model.Test
	for rows.Next() {
		var t model.Test
		if err := rows.Scan(&t.ID, &t.Title, &t.Type, &t.Access, &t.OrganizationID, &t.IsPublished, &t.ShowResultImmediately, &t.FinishedAt, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tests = append(tests, t)
	}
	return tests, rows.Err()
}

// SetPublished flips the publish flag on a test.
func (r *TestRepository) SetPublished(ctx context.Context, id uuid.UUID, published bool) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE tests SET is_published = $1, updated_at = NOW()
		 WHERE id = $2 AND deleted_at IS NULL`,
		published, id)
	return err
}

// SetFinished marks a test as closed. Closing also unlocks result
// visibility for tests that withhold results while running.
func (r *TestRepository) SetFinished(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE tests SET finished_at = NOW(), updated_at = NOW()
		 WHERE id = $1 AND finished_at IS NULL AND deleted_at IS NULL`, id)
	return err
}

// SoftDelete tombstones a test.
func (r *TestRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE tests SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	return err
}
