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

const (
	ScoreBatchSize    = 50
	ScoreBatchTimeout = 2 * time.Second
	ScorePollTimeout  = 1 * time.Second
)

// ScoreWorker consumes persist_scores_queue and writes the denormalized
// score/max_score cache onto finished attempt rows. The authoritative
// result is always recomputed from answers; these columns exist so list
// views and exports stay off the per-answer tables.
type ScoreWorker struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
	log  zerolog.Logger
}

// NewScoreWorker creates a new ScoreWorker.
func NewScoreWorker(pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) *ScoreWorker {
	return &ScoreWorker{
		pool: pool,
		rdb:  rdb,
		log:  log.With().Str("component", "score_worker").Logger(),
	}
}

type scorePayload struct {
	AttemptID string  `json:"attempt_id"`
	Score     float64 `json:"score"`
	MaxScore  float64 `json:"max_score"`
}

// Start begins the worker loop with batching. Call in a goroutine.
func (w *ScoreWorker) Start(ctx context.Context) {
	w.log.Info().Msg("ScoreWorker started")

	batch := make([]*scorePayload, 0, ScoreBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= ScoreBatchSize || time.Since(lastFlush) >= ScoreBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, ScorePollTimeout, config.WorkerKey.PersistScoresQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var p scorePayload
			if err := json.Unmarshal([]byte(item[1]), &p); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, &p)
		}
	}
}

func (w *ScoreWorker) flushSafe(ctx context.Context, batch []*scorePayload) {
	if len(batch) == 0 {
		return
	}

	if err := w.bulkUpdateScores(ctx, batch); err != nil {
		w.log.Warn().Err(err).Msg("Bulk score update failed, using fallback")

		for _, p := range batch {
			if err := w.persistSingle(ctx, p); err != nil {
				w.log.Error().Err(err).Str("attempt_id", p.AttemptID).Msg("persistSingle failed, requeueing")
				raw, _ := json.Marshal(p)
				w.rdb.RPush(ctx, config.WorkerKey.PersistScoresQueue, raw)
			}
		}
		return
	}

	// Scores are persisted; the attempt's draft buffer is no longer needed.
	w.bulkClearDrafts(ctx, batch)
}

// bulkUpdateScores writes the whole batch in one UPDATE via UNNEST.
func (w *ScoreWorker) bulkUpdateScores(ctx context.Context, batch []*scorePayload) error {
	n := len(batch)

	attemptIDs := make([]uuid.UUID, 0, n)
	scores := make([]float64, 0, n)
	maxScores := make([]float64, 0, n)

	for _, p := range batch {
		aID, err := uuid.Parse(p.AttemptID)
		if err != nil {
			return err
		}
		attemptIDs = append(attemptIDs, aID)
		scores = append(scores, p.Score)
		maxScores = append(maxScores, p.MaxScore)
	}

	query := `
		UPDATE test_attempts AS a
		SET score = t.score,
		    max_score = t.max_score
		FROM (
			SELECT
				u.attempt_id,
				u.score,
				u.max_score
			FROM UNNEST(
				$1::uuid[],
				$2::float8[],
				$3::float8[]
			) AS u (attempt_id, score, max_score)
		) AS t
		WHERE a.id = t.attempt_id
		  AND a.finished_at IS NOT NULL
	`

	_, err := w.pool.Exec(ctx, query, attemptIDs, scores, maxScores)
	return err
}

func (w *ScoreWorker) bulkClearDrafts(ctx context.Context, batch []*scorePayload) {
	pipe := w.rdb.Pipeline()

	for _, p := range batch {
		pipe.Del(ctx, config.CacheKey.AttemptDraftAnswersKey(p.AttemptID))
	}

	_, _ = pipe.Exec(ctx)
}

// persistSingle is the fallback when the bulk path fails.
func (w *ScoreWorker) persistSingle(ctx context.Context, p *scorePayload) error {
	aID, err := uuid.Parse(p.AttemptID)
	if err != nil {
		return err
	}

	_, err = w.pool.Exec(ctx,
		`UPDATE test_attempts
		 SET score = $1,
		     max_score = $2
		 WHERE id = $3 AND finished_at IS NOT NULL`,
		p.Score, p.MaxScore, aID,
	)

	return err
}
