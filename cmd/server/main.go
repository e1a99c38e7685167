package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/evalyhq/evaly-backend/internal/config"
	"github.com/evalyhq/evaly-backend/internal/database"
	"github.com/evalyhq/evaly-backend/internal/handler"
	"github.com/evalyhq/evaly-backend/internal/logger"
	"github.com/evalyhq/evaly-backend/internal/repository"
	"github.com/evalyhq/evaly-backend/internal/router"
	"github.com/evalyhq/evaly-backend/internal/service"
	"github.com/evalyhq/evaly-backend/internal/validator"
	"github.com/evalyhq/evaly-backend/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Evaly Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	testRepo := repository.NewTestRepository(pool)
	sectionRepo := repository.NewSectionRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	attemptRepo := repository.NewAttemptRepository(pool)
	answerRepo := repository.NewAnswerRepository(pool)
	participantRepo := repository.NewParticipantRepository(pool)
	organizerRepo := repository.NewOrganizerRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb)
	testService := service.NewTestService(testRepo, sectionRepo)
	questionService := service.NewQuestionService(questionRepo)
	attemptService := service.NewAttemptService(attemptRepo, answerRepo, questionRepo, sectionRepo, testRepo, rdb, log)
	resultService := service.NewResultService(attemptRepo, answerRepo, questionRepo, sectionRepo, testRepo)
	progressService := service.NewProgressService(attemptRepo, answerRepo, questionRepo, sectionRepo, testRepo, participantRepo)
	exportService := service.NewExportService(progressService)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:     handler.NewAuthHandler(authService, participantRepo, organizerRepo),
		Portal:   handler.NewPortalHandler(attemptService, resultService),
		Test:     handler.NewTestHandler(testService, questionService),
		Progress: handler.NewProgressHandler(testService, progressService, exportService),
		WS:       handler.NewWSHandler(rdb, testService, progressService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	answerFlushWorker := worker.NewAnswerFlushWorker(pool, rdb, log)
	scoreWorker := worker.NewScoreWorker(pool, rdb, log)

	go answerFlushWorker.Start(workerCtx)
	go scoreWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for queues to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow workers to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
