package driven

import (
	"context"
	"time"
)

// Turn is one persisted conversation message.
type Turn struct {
	Role      string
	Content   string
	CreatedAt time.Time
}

// HistoryStore persists conversation turns across chat invocations. Only
// the most recent turns are ever read back; the generation step's history
// window is bounded.
type HistoryStore interface {
	// Append records one turn at the end of a session's history.
	Append(ctx context.Context, sessionID string, turn Turn) error

	// Recent returns up to limit most recent turns, oldest first.
	Recent(ctx context.Context, sessionID string, limit int) ([]Turn, error)

	// Close releases resources.
	Close() error
}
