package history

import (
	"context"
	"time"
)

// Turn is one prior user-message/bot-response exchange in a session, as
// seen by the execution engine. Role is "user" or "assistant".
type Turn struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// Store provides bounded, ordered access to prior turns of a session.
// The engine only reads; Append exists for the delivery layer that owns
// conversation persistence.
type Store interface {
	// Recent returns up to n most recent turns for the session, oldest
	// first.
	Recent(ctx context.Context, sessionID string, n int) ([]Turn, error)
	// Append records turns at the end of the session's history.
	Append(ctx context.Context, sessionID string, turns ...Turn) error
}
