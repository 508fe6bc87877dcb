// Package conversation persists chat transcripts exchanged with agents.
package conversation

import (
	"context"
	"errors"
	"time"
)

// RoleType is the author of a message.
type RoleType string

const (
	RoleUser      RoleType = "user"
	RoleAssistant RoleType = "assistant"
)

// Valid reports whether the role is a known message author.
func (r RoleType) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Conversation is one chat thread between a user and an agent, keyed by
// the client-supplied session id. The (user, agent, session) triple is
// unique per thread.
type Conversation struct {
	ID        uint
	PublicID  string
	UserID    uint
	AgentID   string
	SessionID string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
	Messages  []*Message
}

// Message is a single turn within a conversation. Seq is a dense
// per-conversation counter starting at 1 and defines transcript order.
type Message struct {
	ID             uint
	PublicID       string
	ConversationID uint
	Seq            int
	Role           RoleType
	Content        string
	CreatedAt      time.Time
}

// Key identifies a conversation thread.
type Key struct {
	UserID    uint
	AgentID   string
	SessionID string
}

// ErrDuplicateKey is returned by CreateWithFirstMessage when another
// writer created the same triple first.
var ErrDuplicateKey = errors.New("conversation already exists for key")

// ErrNotFound indicates no conversation matches the lookup.
var ErrNotFound = errors.New("conversation not found")

// Repository defines storage operations for conversations and messages.
type Repository interface {
	FindByKey(ctx context.Context, key Key) (*Conversation, error)
	// CreateWithFirstMessage inserts the conversation row and its first
	// message in one transaction. Returns ErrDuplicateKey when the
	// unique triple already exists.
	CreateWithFirstMessage(ctx context.Context, conv *Conversation, msg *Message) (*Conversation, error)
	// AppendMessage inserts a message with seq = current max + 1.
	AppendMessage(ctx context.Context, conversationID uint, msg *Message) (*Message, error)
	ListByUser(ctx context.Context, userID uint) ([]*Conversation, error)
	// GetWithMessages loads a conversation and its messages ordered by seq.
	GetWithMessages(ctx context.Context, key Key) (*Conversation, error)
	Delete(ctx context.Context, key Key) error
	// DeleteOlderThan removes conversations (and their messages) whose
	// last activity predates the cutoff. Returns the number removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
