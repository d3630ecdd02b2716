package event

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/ftahirops/validatord/model"
)

// SQLiteStore is the default Store: a single local file, no cgo (grounded
// on modernc.org/sqlite, already present — but unused — in the teacher's
// go.mod).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the event database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite event store: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite event store: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS events (
	id         TEXT PRIMARY KEY,
	service    TEXT NOT NULL,
	kind       INTEGER NOT NULL,
	state      INTEGER NOT NULL,
	action     TEXT,
	message    TEXT,
	timestamp  DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_service ON events(service, timestamp);
`

// Append inserts one event row.
func (s *SQLiteStore) Append(e model.Event) error {
	_, err := s.db.Exec(
		`INSERT INTO events (id, service, kind, state, action, message, timestamp) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Service, int(e.Kind), int(e.State), string(e.Action), e.Message, e.Timestamp,
	)
	return err
}

// Recent returns the most recent n events for a service, newest first.
func (s *SQLiteStore) Recent(service string, n int) ([]model.Event, error) {
	rows, err := s.db.Query(
		`SELECT id, service, kind, state, action, message, timestamp FROM events
		 WHERE service = ? ORDER BY timestamp DESC LIMIT ?`, service, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		var e model.Event
		var kind, state int
		var action string
		if err := rows.Scan(&e.ID, &e.Service, &kind, &state, &action, &e.Message, &e.Timestamp); err != nil {
			return nil, err
		}
		e.Kind = model.EventKind(kind)
		e.State = model.State(state)
		e.Action = model.ActionRef(action)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }
