package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/evalyhq/evaly-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QuestionRepository handles question data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// ListByReference retrieves all live questions of a reference container
// (section or library), ordered by order_num.
func (r *QuestionRepository) ListByReference(ctx context.Context, referenceID uuid.UUID) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, reference_id, question_text, type, options, point_value, order_num, allow_multiple_answers
		 FROM questions
		 WHERE reference_id = $1 AND deleted_at IS NULL
		 ORDER BY order_num`, referenceID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		var rawOptions []byte
		if err := rows.Scan(&q.ID, &q.ReferenceID, &q.QuestionText, &q.Type, &rawOptions, &q.PointValue, &q.OrderNum, &q.AllowMultipleAnswers); err != nil {
			return nil, err
		}
		if len(rawOptions) > 0 {
			if err := json.Unmarshal(rawOptions, &q.Options); err != nil {
				return nil, fmt.Errorf("decode options for question %s: %w", q.ID, err)
			}
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// ListBySections retrieves live questions of multiple sections in one query.
// Returns a map keyed by reference (section) id, each slice ordered by order_num.
func (r *QuestionRepository) ListBySections(ctx context.Context, sectionIDs []uuid.UUID) (map[uuid.UUID][]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, reference_id, question_text, type, options, point_value, order_num, allow_multiple_answers
		 FROM questions
		 WHERE reference_id = ANY($1) AND deleted_at IS NULL
		 ORDER BY reference_id, order_num`, sectionIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bySection := make(map[uuid.UUID][]model.Question, len(sectionIDs))
	for rows.Next() {
		var q model.Question
		var rawOptions []byte
		if err := rows.Scan(&q.ID, &q.ReferenceID, &q.QuestionText, &q.Type, &rawOptions, &q.PointValue, &q.OrderNum, &q.AllowMultipleAnswers); err != nil {
			return nil, err
		}
		if len(rawOptions) > 0 {
			if err := json.Unmarshal(rawOptions, &q.Options); err != nil {
				return nil, fmt.Errorf("decode options for question %s: %w", q.ID, err)
			}
		}
		bySection[q.ReferenceID] = append(bySection[q.ReferenceID], q)
	}
	return bySection, rows.Err()
}

// GetByID retrieves a live question by id.
func (r *QuestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	q := &model.Question{}
	var rawOptions []byte
	err := r.pool.QueryRow(ctx,
		`SELECT id, reference_id, question_text, type, options, point_value, order_num, allow_multiple_answers
		 FROM questions
		 WHERE id = $1 AND deleted_at IS NULL`, id,
	).Scan(&q.ID, &q.ReferenceID, &q.QuestionText, &q.Type, &rawOptions, &q.PointValue, &q.OrderNum, &q.AllowMultipleAnswers)
	if err != nil {
		return nil, err
	}
	if len(rawOptions) > 0 {
		if err := json.Unmarshal(rawOptions, &q.Options); err != nil {
			return nil, fmt.Errorf("decode options for question %s: %w", q.ID, err)
		}
	}
	return q, nil
}

// Create inserts a new question at the end of the reference's order.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	rawOptions, err := json.Marshal(q.Options)
	if err != nil {
		return fmt.Errorf("encode options: %w", err)
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO questions (reference_id, question_text, type, options, point_value, order_num, allow_multiple_answers)
		 VALUES ($1, $2, $3, $4, $5,
		         (SELECT COALESCE(MAX(order_num), 0) + 1 FROM questions WHERE reference_id = $1 AND deleted_at IS NULL),
		         $6)
		 RETURNING id, order_num`,
		q.ReferenceID, q.QuestionText, q.Type, rawOptions, q.PointValue, q.AllowMultipleAnswers,
	).Scan(&q.ID, &q.OrderNum)
}

// Renumber rewrites order_num for every live question of a reference in a
// single transaction, closing gaps left by deletes and applying moves.
// Order is 1-based and unique within the reference once this returns.
func (r *QuestionRepository) Renumber(ctx context.Context, referenceID uuid.UUID, orderedIDs []uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	orders := make([]int, len(orderedIDs))
	for i := range orderedIDs {
		orders[i] = i + 1
	}

	_, err = tx.Exec(ctx,
		`UPDATE questions AS q
		 SET order_num = t.order_num
		 FROM (
		     SELECT u.id, u.order_num
		     FROM UNNEST($1::uuid[], $2::int[]) AS u (id, order_num)
		 ) AS t
		 WHERE q.id = t.id AND q.reference_id = $3 AND q.deleted_at IS NULL`,
		orderedIDs, orders, referenceID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// SoftDelete tombstones a question.
func (r *QuestionRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE questions SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	return err
}
