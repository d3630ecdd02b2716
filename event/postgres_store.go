package event

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ftahirops/validatord/model"
)

// PostgresStore is an alternate Store for deployments that centralize
// events in a shared Postgres instance rather than a per-host sqlite file.
// Same Store contract as SQLiteStore; selected by config (event_store.driver:
// postgres, event_store.dsn: ...).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to dsn and ensures the events table exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres event store: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate postgres event store: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresSchemaSQL = `
CREATE TABLE IF NOT EXISTS validatord_events (
	id         TEXT PRIMARY KEY,
	service    TEXT NOT NULL,
	kind       INTEGER NOT NULL,
	state      INTEGER NOT NULL,
	action     TEXT,
	message    TEXT,
	timestamp  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_validatord_events_service ON validatord_events(service, timestamp);
`

// Append inserts one event row.
func (s *PostgresStore) Append(e model.Event) error {
	_, err := s.pool.Exec(context.Background(),
		`INSERT INTO validatord_events (id, service, kind, state, action, message, timestamp)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.Service, int(e.Kind), int(e.State), string(e.Action), e.Message, e.Timestamp,
	)
	return err
}

// Recent returns the most recent n events for a service, newest first.
func (s *PostgresStore) Recent(service string, n int) ([]model.Event, error) {
	rows, err := s.pool.Query(context.Background(),
		`SELECT id, service, kind, state, action, message, timestamp FROM validatord_events
		 WHERE service = $1 ORDER BY timestamp DESC LIMIT $2`, service, n)
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

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
