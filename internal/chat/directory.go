package chat

import (
	"context"
	"errors"

	"ragify/internal/gateway"
)

// ErrNoSessionID means a session-creating response exposed an id under
// neither of the two keys the backend is known to use.
var ErrNoSessionID = errors.New("chat: response carried no session id")

// newSessionPlaceholder is the message content the backend receives when the
// user explicitly starts a new chat. Session creation has no endpoint of its
// own; posting a first message is how a session comes to exist.
const newSessionPlaceholder = "New session"

// Directory tracks the list of known sessions. The backend owns ordering
// (created_at descending) and the client preserves it as-is, tie-breaks
// included.
type Directory struct {
	gw *gateway.Client
}

// NewDirectory wraps the gateway for session-list calls.
func NewDirectory(gw *gateway.Client) *Directory {
	return &Directory{gw: gw}
}

// List fetches the known sessions in server order.
func (d *Directory) List(ctx context.Context) ([]Session, error) {
	var sessions []Session
	if _, err := d.gw.Get(ctx, "/chat/sessions", &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// Create opens a new session by posting a placeholder message and returns the
// assigned id. The backend exposes the id under two keys: an explicit session
// reference in the envelope and the created record's own id. The explicit
// reference takes precedence when both are present.
func (d *Directory) Create(ctx context.Context) (int64, error) {
	var record struct {
		ID int64 `json:"id"`
	}
	meta, err := d.gw.Post(ctx, "/chat/messages/", map[string]any{"content": newSessionPlaceholder}, &record)
	if err != nil {
		return 0, err
	}
	if meta.SessionID > 0 {
		return meta.SessionID, nil
	}
	if record.ID > 0 {
		return record.ID, nil
	}
	return 0, ErrNoSessionID
}
