package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/evalyhq/evaly-backend/internal/config"
	"github.com/evalyhq/evaly-backend/internal/middleware"
	"github.com/evalyhq/evaly-backend/internal/service"
	ws "github.com/evalyhq/evaly-backend/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams live progress to organizer dashboards.
type WSHandler struct {
	rdb             *redis.Client
	testService     *service.TestService
	progressService *service.ProgressService
	log             zerolog.Logger
	upgrader        websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(
	rdb *redis.Client,
	testService *service.TestService,
	progressService *service.ProgressService,
	log zerolog.Logger,
	allowedOrigins []string,
) *WSHandler {
	return &WSHandler{
		rdb:             rdb,
		testService:     testService,
		progressService: progressService,
		log:             log.With().Str("component", "ws_handler").Logger(),
		upgrader:        buildUpgrader(allowedOrigins),
	}
}

// ProgressStream godoc
// WS /ws/v1/organizer/tests/:test_id/progress
// Upgrades to WebSocket and pushes a fresh progress snapshot whenever a
// participant write changes the test's aggregation. The snapshot is
// recomputed on demand — the connection carries invalidations, not state.
func (h *WSHandler) ProgressStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	testID, err := uuid.Parse(c.Param("test_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid test ID"})
		return
	}

	if _, err := h.testService.GetOwnedTest(c.Request.Context(), claims.OrganizationID, testID); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	raw, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	conn := ws.NewConn(raw)
	defer conn.Close()

	wsLog := h.log.With().
		Str("organizer_id", claims.UserID.String()).
		Str("test_id", testID.String()).
		Logger()

	wsLog.Info().Msg("Organizer connected")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubsub := h.rdb.Subscribe(ctx, config.CacheKey.TestProgressChannel(testID.String()))
	defer pubsub.Close()

	// Reader goroutine: pings, explicit refreshes, and close detection.
	// Pong replies share the connection's write lock with snapshot pushes
	// from the select loop below.
	refresh := make(chan struct{}, 1)
	go func() {
		defer cancel()
		for {
			var msg ws.RequestEnvelope
			if err := conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					wsLog.Warn().Err(err).Msg("Unexpected close")
				} else {
					wsLog.Debug().Msg("Connection closed")
				}
				return
			}
			switch msg.Action {
			case ws.ActionPing:
				conn.WriteTyped(ws.PongResponse{Event: ws.EventPong})
			case ws.ActionRefresh:
				select {
				case refresh <- struct{}{}:
				default:
				}
			}
		}
	}()

	// Initial snapshot so the dashboard renders without waiting for the
	// first event.
	if err := h.pushSnapshot(ctx, conn, testID); err != nil {
		return
	}

	events := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-events:
			if !ok {
				return
			}
			if err := h.pushSnapshot(ctx, conn, testID); err != nil {
				wsLog.Debug().Err(err).Msg("Push failed, closing stream")
				return
			}
		case <-refresh:
			if err := h.pushSnapshot(ctx, conn, testID); err != nil {
				wsLog.Debug().Err(err).Msg("Push failed, closing stream")
				return
			}
		}
	}
}

func (h *WSHandler) pushSnapshot(ctx context.Context, conn *ws.Conn, testID uuid.UUID) error {
	progress, err := h.progressService.GetProgress(ctx, testID)
	if err != nil {
		conn.WriteError("failed to compute progress")
		return err
	}
	return conn.WriteTyped(ws.ProgressResponse{Event: ws.EventProgress, Progress: progress})
}
