// Package chat holds the session directory, the conversation transcript, and
// the orchestrator that keeps them consistent while requests are in flight.
package chat

import (
	"fmt"
	"time"
)

// Role identifies who produced a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Session is a server-identified conversation thread. IDs are assigned by the
// backend only; the client never invents one.
type Session struct {
	ID        int64     `json:"id"`
	Name      string    `json:"session_name"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayName returns the session name, or a generated label when unnamed.
func (s Session) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("Session %d", s.ID)
}

// Provenance is the retrieval metadata attached to a grounded answer.
type Provenance struct {
	FileName   string
	PageNumber int
	Score      float64
}

// Message is one transcript entry. Provenance is nil for user messages and
// for ungrounded or fallback answers.
type Message struct {
	Role       Role
	Content    string
	Provenance *Provenance
}
