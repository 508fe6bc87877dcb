package responses

import (
	"time"

	"github.com/Jobly-Solutions/lente-ai-sub001/internal/domain/conversation"
)

// MessageResponse is one transcript turn.
type MessageResponse struct {
	ID        string    `json:"id"`
	Seq       int       `json:"seq"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ConversationResponse is a thread, with messages when loaded.
type ConversationResponse struct {
	ID        string            `json:"id"`
	AgentID   string            `json:"agent_id"`
	SessionID string            `json:"session_id"`
	Title     string            `json:"title,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Messages  []MessageResponse `json:"messages,omitempty"`
}

// AppendMessageResponse confirms a persisted turn.
type AppendMessageResponse struct {
	Conversation ConversationResponse `json:"conversation"`
	Message      MessageResponse      `json:"message"`
}

// ConversationListResponse wraps the caller's threads.
type ConversationListResponse struct {
	Conversations []ConversationResponse `json:"conversations"`
}

// NewMessageResponse maps a domain message.
func NewMessageResponse(m *conversation.Message) MessageResponse {
	return MessageResponse{
		ID:        m.PublicID,
		Seq:       m.Seq,
		Role:      string(m.Role),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

// NewConversationResponse maps a domain conversation with its messages.
func NewConversationResponse(c *conversation.Conversation) ConversationResponse {
	resp := ConversationResponse{
		ID:        c.PublicID,
		AgentID:   c.AgentID,
		SessionID: c.SessionID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	for _, m := range c.Messages {
		resp.Messages = append(resp.Messages, NewMessageResponse(m))
	}
	return resp
}
