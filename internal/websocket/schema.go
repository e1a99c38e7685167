package websocket

import "github.com/evalyhq/evaly-backend/internal/scoring"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing    Action = "ping"
	ActionRefresh Action = "refresh"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError    Event = "error"
	EventProgress Event = "progress"
	EventPong     Event = "pong"
)

// ProgressResponse carries a fresh progress snapshot, pushed after every
// participant write on the test and on explicit refresh requests.
type ProgressResponse struct {
	Event    Event                 `json:"event"`
	Progress *scoring.TestProgress `json:"progress"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
