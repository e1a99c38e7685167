package repository

import (
	"context"

	"github.com/evalyhq/evaly-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SectionRepository handles test section data access.
type SectionRepository struct {
	pool *pgxpool.Pool
}

// NewSectionRepository creates a new SectionRepository.
func NewSectionRepository(pool *pgxpool.Pool) *SectionRepository {
	return &SectionRepository{pool: pool}
}

// GetByID retrieves a live section by id.
func (r *SectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.TestSection, error) {
	s := &model.TestSection{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, test_id, title, order_num, duration_minutes
		 FROM test_sections
		 WHERE id = $1 AND deleted_at IS NULL`, id,
	).Scan(&s.ID, &s.TestID, &s.Title, &s.OrderNum, &s.DurationMinutes)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ListByTest retrieves all live sections of a test ordered by order_num.
func (r *SectionRepository) ListByTest(ctx context.Context, testID uuid.UUID) ([]model.TestSection, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, test_id, title, order_num, duration_minutes
		 FROM test_sections
		 WHERE test_id = $1 AND deleted_at IS NULL
		 ORDER BY order_num`, testID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []model.TestSection
	for rows.Next() {
		var s model.TestSection
		if err := rows.Scan(&s.ID, &s.TestID, &s.Title, &s.OrderNum, &s.DurationMinutes); err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

// CountByTest returns the number of live sections of a test.
func (r *SectionRepository) CountByTest(ctx context.Context, testID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM test_sections
		 WHERE test_id = $1 AND deleted_at IS NULL`, testID,
	).Scan(&count)
	return count, err
}

// Create appends a section at the end of the test's section order.
func (r *SectionRepository) Create(ctx context.Context, s *model.TestSection) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO test_sections (test_id, title, order_num, duration_minutes)
		 VALUES ($1, $2,
		         (SELECT COALESCE(MAX(order_num), 0) + 1 FROM test_sections WHERE test_id = $1 AND deleted_at IS NULL),
		         $3)
		 RETURNING id, order_num`,
		s.TestID, s.Title, s.DurationMinutes,
	).Scan(&s.ID, &s.OrderNum)
}

// SoftDelete tombstones a section.
func (r *SectionRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE test_sections SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	return err
}
