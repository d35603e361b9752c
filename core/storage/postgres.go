// Package storage persists user sessions in Postgres.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"log/slog"

	"github.com/jmoiron/sqlx"

	"mafiabot/core/flow"
	"mafiabot/core/logger"
)

// SessionStore is the Postgres-backed flow.SessionStore.
type SessionStore struct {
	db *sqlx.DB
}

// NewSessionStore wraps an open database handle.
func NewSessionStore(db *sqlx.DB) *SessionStore {
	return &SessionStore{db: db}
}

// Get returns the session or flow.ErrSessionNotFound.
func (s *SessionStore) Get(ctx context.Context, userID int64) (flow.Session, error) {
	var sess flow.Session
	err := s.db.GetContext(ctx, &sess,
		`SELECT id, username, stage FROM users WHERE id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return flow.Session{}, flow.ErrSessionNotFound
	}
	if err != nil {
		return flow.Session{}, fmt.Errorf("storage: get session: %w", err)
	}
	return sess, nil
}

// Create inserts a session for a first-contact user; an existing row is left
// untouched so a /start does not wipe the stored username.
func (s *SessionStore) Create(ctx context.Context, userID int64, username string, stage flow.Stage) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, stage) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO NOTHING`,
		userID, username, stage)
	if err != nil {
		return fmt.Errorf("storage: create session: %w", err)
	}
	logger.Debug(ctx, "db", "session.create",
		slog.Int64("user_id", userID),
		slog.String("stage", string(stage)),
	)
	return nil
}

// SetStage updates the user's current stage.
func (s *SessionStore) SetStage(ctx context.Context, userID int64, stage flow.Stage) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET stage = $2 WHERE id = $1`, userID, stage)
	if err != nil {
		return fmt.Errorf("storage: set stage: %w", err)
	}
	return nil
}

var _ flow.SessionStore = (*SessionStore)(nil)
