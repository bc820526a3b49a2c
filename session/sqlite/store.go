// Package sqlite provides a durable core.SessionStore backed by SQLite.
// Each session is one row holding the full history as a JSON array; Save
// replaces the row.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/dialogmesh/core"

	_ "modernc.org/sqlite"
)

// Store is a session history store backed by SQLite. All public methods are
// safe for concurrent use (SQLite serializes writes).
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ core.SessionStore = (*Store)(nil)

// NewStore opens (or creates) the database at dbPath. The schema is created
// automatically on first use. Use ":memory:" for a private in-memory database.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS session_history (
		id         TEXT PRIMARY KEY,
		messages   TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load implements core.SessionStore.
func (s *Store) Load(ctx context.Context, sessionID string) ([]core.Message, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT messages FROM session_history WHERE id = ?`, sessionID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	var history []core.Message
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		return nil, false, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	return history, true, nil
}

// Save implements core.SessionStore.
func (s *Store) Save(ctx context.Context, sessionID string, history []core.Message) error {
	if history == nil {
		history = []core.Message{}
	}
	raw, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sessionID, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO session_history (id, messages, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET messages = excluded.messages, updated_at = excluded.updated_at`,
		sessionID, string(raw), s.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save session %s: %w", sessionID, err)
	}
	return nil
}

// Prune deletes sessions not updated since before. It returns the number of
// removed sessions.
func (s *Store) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM session_history WHERE updated_at < ?`, before.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("prune sessions: %w", err)
	}
	return res.RowsAffected()
}
