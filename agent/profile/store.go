package profile

import (
	"context"
	"errors"
	"time"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrNilMessage   = errors.New("chat message is nil")
)

// ChatMessage is one persisted conversation turn. Messages are append-only
// and immutable once written.
type ChatMessage struct {
	UserID    int64
	AgentType string
	SessionID string
	Role      string
	Content   string
	CreatedAt time.Time
}

// Store is the persistence contract consumed by the orchestrator and the
// HTTP surface. Reads and writes are short and independent; no transaction
// spans an agent call.
type Store interface {
	GetUserContextSnapshot(ctx context.Context, userID int64) (*Snapshot, error)
	AppendChatMessage(ctx context.Context, msg *ChatMessage) error
	GetChatHistory(ctx context.Context, userID int64, agentType string, limit int) ([]ChatMessage, error)
}
