package analytics

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/syncuphq/syncup-analytics/internal/domain"
)

// Engine runs the grouped aggregations over an in-memory SQLite
// database materialized from the two flat tables. All queries are
// stateless and idempotent; the engine holds no mutable state beyond
// the loaded snapshot.
type Engine struct {
	db *sql.DB
}

// NewEngine loads both tables into a fresh in-memory database.
func NewEngine(ctx context.Context, users []domain.User, events []domain.Event) (*Engine, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open in-memory db: %w", err)
	}
	// A single :memory: connection is one database; more connections
	// would each see an empty schema.
	db.SetMaxOpenConns(1)

	e := &Engine{db: db}
	if err := e.load(ctx, users, events); err != nil {
		db.Close()
		return nil, err
	}
	return e, nil
}

func (e *Engine) Close() error {
	return e.db.Close()
}

func (e *Engine) load(ctx context.Context, users []domain.User, events []domain.Event) error {
	const schema = `
CREATE TABLE users (
	user_id       INTEGER PRIMARY KEY,
	sign_up_date  TEXT NOT NULL,
	plan_type     TEXT NOT NULL,
	ab_test_group TEXT NOT NULL
);
CREATE TABLE events (
	event_id        INTEGER PRIMARY KEY,
	user_id         INTEGER NOT NULL,
	event_timestamp TEXT NOT NULL,
	event_name      TEXT NOT NULL
);
CREATE INDEX idx_events_user ON events(user_id);
CREATE INDEX idx_events_name ON events(event_name);`

	if _, err := e.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin load: %w", err)
	}
	defer tx.Rollback()

	insertUser, err := tx.PrepareContext(ctx, "INSERT INTO users VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer insertUser.Close()
	for _, u := range users {
		if _, err := insertUser.ExecContext(ctx, u.ID, u.SignUpDate.Format(domain.DateLayout), string(u.Plan), string(u.Group)); err != nil {
			return fmt.Errorf("insert user %d: %w", u.ID, err)
		}
	}

	insertEvent, err := tx.PrepareContext(ctx, "INSERT INTO events VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer insertEvent.Close()
	for _, ev := range events {
		if _, err := insertEvent.ExecContext(ctx, ev.ID, ev.UserID, ev.Timestamp.Format(domain.DateTimeLayout), string(ev.Name)); err != nil {
			return fmt.Errorf("insert event %d: %w", ev.ID, err)
		}
	}

	return tx.Commit()
}

// rate returns 100*num/den, or nil when the denominator is zero.
// Denominator-zero is an undefined rate, never an error.
func rate(num, den int64) *float64 {
	if den == 0 {
		return nil
	}
	r := 100 * float64(num) / float64(den)
	return &r
}
