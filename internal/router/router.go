package router

import (
	"net/http"
	"time"

	"github.com/evalyhq/evaly-backend/internal/config"
	"github.com/evalyhq/evaly-backend/internal/handler"
	"github.com/evalyhq/evaly-backend/internal/middleware"
	"github.com/evalyhq/evaly-backend/internal/response"
	"github.com/evalyhq/evaly-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	Portal   *handler.PortalHandler
	Test     *handler.TestHandler
	Progress *handler.ProgressHandler
	WS       *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── 1. Auth Group (Public) ────────────────────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/participant/login", handlers.Auth.ParticipantLogin)
		auth.POST("/organizer/login", handlers.Auth.OrganizerLogin)

		// Authenticated profile routes
		auth.GET("/participant/me", middleware.RequireParticipantJWT(authService), handlers.Auth.GetParticipantProfile)
		auth.GET("/organizer/me", middleware.RequireOrganizerJWT(authService), handlers.Auth.GetOrganizerProfile)
	}

	// ─── 2. Participant Portal Group (JWT + Session) ───────────────────
	portalAPI := router.Group("/api/v1/portal")
	portalAPI.Use(
		middleware.RequireParticipantJWT(authService),
		middleware.CheckParticipantSession(authService),
	)
	{
		portalAPI.POST("/sections/:section_id/attempts", handlers.Portal.StartAttempt)
		portalAPI.GET("/attempts/:attempt_id/questions", handlers.Portal.GetAttemptQuestions)
		portalAPI.GET("/attempts/:attempt_id/state", handlers.Portal.GetAttemptState)
		portalAPI.PUT("/attempts/:attempt_id/draft", handlers.Portal.SaveDraft)
		portalAPI.POST("/attempts/:attempt_id/answers", handlers.Portal.SubmitAnswer)
		portalAPI.POST("/attempts/:attempt_id/finish", handlers.Portal.FinishAttempt)
		portalAPI.GET("/tests/:test_id/results", handlers.Portal.GetMyResults)
	}

	// ─── 3. WebSocket Group (Organizer WS Auth) ────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireOrganizerWSAuth(authService))
	{
		ws.GET("/organizer/tests/:test_id/progress", handlers.WS.ProgressStream)
	}

	// ─── 4. Organizer Group (JWT) ──────────────────────────────────────
	organizerAPI := router.Group("/api/v1/organizer")
	organizerAPI.Use(middleware.RequireOrganizerJWT(authService))
	{
		// Test lifecycle
		organizerAPI.GET("/tests", handlers.Test.ListTests)
		organizerAPI.POST("/tests", handlers.Test.CreateTest)
		organizerAPI.GET("/tests/:test_id", handlers.Test.GetTest)
		organizerAPI.DELETE("/tests/:test_id", handlers.Test.DeleteTest)
		organizerAPI.POST("/tests/:test_id/publish", handlers.Test.PublishTest)
		organizerAPI.POST("/tests/:test_id/unpublish", handlers.Test.UnpublishTest)
		organizerAPI.POST("/tests/:test_id/finish", handlers.Test.FinishTest)

		// Section management
		organizerAPI.GET("/tests/:test_id/sections", handlers.Test.ListSections)
		organizerAPI.POST("/tests/:test_id/sections", handlers.Test.AddSection)
		organizerAPI.DELETE("/tests/:test_id/sections/:section_id", handlers.Test.DeleteSection)

		// Question management
		organizerAPI.POST("/sections/:section_id/questions", handlers.Test.AddQuestion)
		organizerAPI.PUT("/sections/:section_id/questions/order", handlers.Test.ReorderQuestions)
		organizerAPI.DELETE("/sections/:section_id/questions/:question_id", handlers.Test.DeleteQuestion)

		// Progress and exports
		organizerAPI.GET("/tests/:test_id/progress", handlers.Progress.GetProgress)
		organizerAPI.GET("/tests/:test_id/leaderboard.csv", handlers.Progress.ExportLeaderboardCSV)
	}

	return router
}
