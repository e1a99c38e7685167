package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/evalyhq/evaly-backend/internal/config"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// AnswerFlushWorker consumes persist_answers_queue and UPSERTs draft
// answers to PostgreSQL. Drafts land unscored (is_correct stays NULL) —
// evaluation happens only on explicit submission.
type AnswerFlushWorker struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
	log  zerolog.Logger
}

// NewAnswerFlushWorker creates a new AnswerFlushWorker.
func NewAnswerFlushWorker(pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) *AnswerFlushWorker {
	return &AnswerFlushWorker{
		pool: pool,
		rdb:  rdb,
		log:  log.With().Str("component", "answer_flush_worker").Logger(),
	}
}

type draftPayload struct {
	AttemptID  string `json:"attempt_id"`
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *AnswerFlushWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			// Drain remaining items before exit.
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *AnswerFlushWorker) processNext(ctx context.Context) {
	// BLPop blocks until an item is available or timeout (1 second).
	result, err := w.rdb.BLPop(ctx, time.Second, config.WorkerKey.PersistAnswersQueue).Result()
	if err != nil {
		if err != redis.Nil && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}

	if len(result) < 2 {
		return
	}

	var payload draftPayload
	if err := json.Unmarshal([]byte(result[1]), &payload); err != nil {
		w.log.Error().Err(err).Msg("Unmarshal error")
		return
	}

	if err := w.persistDraft(ctx, &payload); err != nil {
		w.log.Error().Err(err).
			Str("attempt_id", payload.AttemptID).
			Str("question_id", payload.QuestionID).
			Msg("Persist error, retrying in 5s")
		// Push back to queue for retry.
		w.rdb.RPush(ctx, config.WorkerKey.PersistAnswersQueue, result[1])
		time.Sleep(5 * time.Second)
	}
}

func (w *AnswerFlushWorker) persistDraft(ctx context.Context, p *draftPayload) error {
	attemptID, err := uuid.Parse(p.AttemptID)
	if err != nil {
		return err
	}

	questionID, err := uuid.Parse(p.QuestionID)
	if err != nil {
		return err
	}

	// UPSERT the draft text without touching a submitted row. A stale
	// draft queued before submission but flushed after it must not erase
	// the final answer, and needs-verify submissions look exactly like
	// drafts on is_correct alone, so the guard keys on submitted_at.
	_, err = w.pool.Exec(ctx,
		`INSERT INTO test_attempt_answers (test_attempt_id, question_id, answer_text)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (test_attempt_id, question_id) DO UPDATE
		 SET answer_text = EXCLUDED.answer_text, updated_at = NOW()
		 WHERE test_attempt_answers.submitted_at IS NULL`,
		attemptID, questionID, p.Answer,
	)
	return err
}

// drain processes all remaining items in the queue before shutdown.
func (w *AnswerFlushWorker) drain(ctx context.Context) {
	drained := 0
	for {
		result, err := w.rdb.LPop(ctx, config.WorkerKey.PersistAnswersQueue).Result()
		if err != nil {
			break
		}

		var payload draftPayload
		if err := json.Unmarshal([]byte(result), &payload); err != nil {
			w.log.Error().Err(err).Msg("Drain unmarshal error")
			continue
		}

		if err := w.persistDraft(ctx, &payload); err != nil {
			w.log.Error().Err(err).Msg("Drain persist error")
			w.rdb.RPush(ctx, config.WorkerKey.PersistAnswersQueue, result)
			break
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining items")
	}
}
