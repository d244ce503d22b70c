// Package chat runs conversation turns: it builds the prompt, calls the LLM and keeps the
// caller's session history.
package chat

import (
	"github.com/google/uuid"

	"github.com/karolswdev/campuscare/internal/prompt"
)

// Display roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one completed exchange. Turns are appended after a successful completion and
// never edited.
type Turn = prompt.Turn

// DisplayMessage is one role-tagged line of the flattened history.
type DisplayMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session is the caller-owned conversation state for one user.
type Session struct {
	ID      string
	UserID  string
	History []Turn
}

// NewSession starts an empty session bound to userID.
func NewSession(userID string) *Session {
	return &Session{ID: uuid.NewString(), UserID: userID, History: []Turn{}}
}

// Clear drops the session history. Calling it on an empty session is a no-op.
func Clear(s *Session) {
	s.History = []Turn{}
}

// Flatten expands turns into user/assistant display records in chronological order.
func Flatten(history []Turn) []DisplayMessage {
	out := make([]DisplayMessage, 0, len(history)*2)
	for _, turn := range history {
		out = append(out,
			DisplayMessage{Role: RoleUser, Content: turn.User},
			DisplayMessage{Role: RoleAssistant, Content: turn.Assistant},
		)
	}
	return out
}
