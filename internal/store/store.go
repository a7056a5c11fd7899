package store

import (
	"context"

	"github.com/seantiz/choreo/internal/model"
)

// EventStats holds aggregate statistics over the recorded event log.
type EventStats struct {
	Total       int            `json:"total"`
	CountByType map[string]int `json:"count_by_type"`
	Sessions    int            `json:"sessions"`
}

// EventStore defines the persistence operations for the timeline event audit
// log. Timeline state itself is never persisted; only dispatched events are.
type EventStore interface {
	InsertEvent(ctx context.Context, e *model.Event) error
	GetEvents(ctx context.Context, sessionID string) ([]model.Event, error)
	GetEventStats(ctx context.Context) (*EventStats, error)
	Close() error
}
