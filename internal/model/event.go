package model

import "time"

// Event type constants.
const (
	EventProgress  = "progress"
	EventCompleted = "completed"
)

// Event records a single callback dispatched by a session's timeline: either
// a per-range progress change or the timeline completion edge. Events are
// published to live subscribers and persisted as a diagnostics audit log; the
// timeline engine itself persists nothing.
type Event struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Seq       int       `json:"seq"`
	Type      string    `json:"type"`
	Range     string    `json:"range,omitempty"`
	Progress  float64   `json:"progress"`
	AtTime    float64   `json:"at_time"`
	CreatedAt time.Time `json:"created_at"`
}
