package flow

import (
	"context"
	"errors"
	"io"
)

// ErrSessionNotFound is returned by SessionStore.Get for users without a
// persisted session yet.
var ErrSessionNotFound = errors.New("flow: session not found")

// Session is a user's persisted position in the script.
type Session struct {
	ID       int64  `db:"id"`
	Username string `db:"username"`
	Stage    Stage  `db:"stage"`
}

// SessionStore persists per-user sessions. Implementations must be durable
// across restarts.
type SessionStore interface {
	// Get returns the session or ErrSessionNotFound.
	Get(ctx context.Context, userID int64) (Session, error)
	// Create inserts a session if the user is unknown; an existing session is
	// left untouched.
	Create(ctx context.Context, userID int64, username string, stage Stage) error
	// SetStage updates the user's current stage.
	SetStage(ctx context.Context, userID int64, stage Stage) error
}

// Keyboard describes the reply keyboard attached to an outbound message.
// A zero Keyboard attaches nothing; Remove clears a previously shown one.
type Keyboard struct {
	Buttons []string
	Remove  bool
}

// Upload carries the media payload for a send: either a previously issued
// remote file ID or a fresh reader to upload.
type Upload struct {
	FileID string
	Reader io.Reader
	Name   string
}

// Sender delivers messages to a user. SendMedia reports the remote file ID
// issued by the transport so uploads can be cached.
type Sender interface {
	SendText(ctx context.Context, userID int64, text string, kb Keyboard) error
	SendMedia(ctx context.Context, userID int64, kind MediaKind, media Upload, caption string, kb Keyboard) (string, error)
}

// ContentLoader reads script content. Texts follow the
// "{stage}{suffix}.txt" naming convention.
type ContentLoader interface {
	Text(stage Stage, suffix string) (string, error)
	Asset(kind MediaKind, name string) (io.ReadCloser, error)
}
