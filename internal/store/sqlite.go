package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/seantiz/choreo/internal/model"

	_ "modernc.org/sqlite"
)

const createEventsTable = `
CREATE TABLE IF NOT EXISTS events (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT NOT NULL,
    seq        INTEGER NOT NULL,
    type       TEXT NOT NULL,
    range_name TEXT,
    progress   REAL NOT NULL,
    at_time    REAL NOT NULL,
    created_at DATETIME NOT NULL
)`

const createEventsIndex = `
CREATE INDEX IF NOT EXISTS idx_events_session_seq ON events (session_id, seq)`

// Compile-time interface satisfaction check.
var _ EventStore = (*SQLiteStore)(nil)

// SQLiteStore implements EventStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the SQLite database at dbPath and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if _, err := db.Exec(createEventsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create events table: %w", err)
	}

	if _, err := db.Exec(createEventsIndex); err != nil {
		db.Close()
		return nil, fmt.Errorf("create events index: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// InsertEvent appends a dispatched event to the audit log.
func (s *SQLiteStore) InsertEvent(ctx context.Context, e *model.Event) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (session_id, seq, type, range_name, progress, at_time, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.SessionID, e.Seq, e.Type, e.Range, e.Progress, e.AtTime, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// GetEvents returns a session's events in dispatch (sequence) order.
func (s *SQLiteStore) GetEvents(ctx context.Context, sessionID string) ([]model.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, seq, type, range_name, progress, at_time, created_at
		FROM events WHERE session_id = ? ORDER BY seq ASC`, sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(
			&e.ID, &e.SessionID, &e.Seq, &e.Type, &e.Range,
			&e.Progress, &e.AtTime, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// GetEventStats aggregates the event log: total count, count by event type,
// and the number of distinct sessions that have dispatched events.
func (s *SQLiteStore) GetEventStats(ctx context.Context) (*EventStats, error) {
	stats := &EventStats{CountByType: make(map[string]int)}

	rows, err := s.db.QueryContext(ctx, "SELECT type, COUNT(*) FROM events GROUP BY type")
	if err != nil {
		return nil, fmt.Errorf("count events by type: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var typ string
		var count int
		if err := rows.Scan(&typ, &count); err != nil {
			return nil, fmt.Errorf("scan event count: %w", err)
		}
		stats.CountByType[typ] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event counts: %w", err)
	}

	err = s.db.QueryRowContext(ctx, "SELECT COUNT(DISTINCT session_id) FROM events").
		Scan(&stats.Sessions)
	if err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}

	return stats, nil
}
