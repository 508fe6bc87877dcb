package dbschema

import (
	"gorm.io/datatypes"

	"github.com/Jobly-Solutions/lente-ai-sub001/internal/domain/conversation"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(Conversation{}, Message{})
}

// Conversation is one chat thread. The (user_id, agent_id, session_id)
// triple is unique so concurrent first-turn writers collide on insert
// instead of creating duplicate threads.
type Conversation struct {
	BaseModel
	PublicID  string         `gorm:"type:varchar(64);not null;uniqueIndex:ux_conversations_public_id"`
	UserID    uint           `gorm:"not null;uniqueIndex:ux_conversations_key;index:ix_conversations_user"`
	AgentID   string         `gorm:"type:varchar(255);not null;uniqueIndex:ux_conversations_key"`
	SessionID string         `gorm:"type:varchar(255);not null;uniqueIndex:ux_conversations_key"`
	Title     string         `gorm:"type:varchar(255)"`
	Metadata  datatypes.JSON `gorm:"type:jsonb"`
	User      *User          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Messages  []Message      `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
}

// Message is a single transcript turn. Seq is unique per conversation
// and defines ordering.
type Message struct {
	BaseModel
	PublicID       string `gorm:"type:varchar(64);not null;uniqueIndex:ux_messages_public_id"`
	ConversationID uint   `gorm:"not null;uniqueIndex:ux_messages_conversation_seq;index:ix_messages_conversation"`
	Seq            int    `gorm:"not null;uniqueIndex:ux_messages_conversation_seq"`
	Role           string `gorm:"type:varchar(20);not null"`
	Content        string `gorm:"type:text;not null"`
}

// NewSchemaConversation converts a domain conversation into a schema instance.
func NewSchemaConversation(c *conversation.Conversation) *Conversation {
	if c == nil {
		return nil
	}

	out := &Conversation{
		BaseModel: BaseModel{
			ID:        c.ID,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		},
		PublicID:  c.PublicID,
		UserID:    c.UserID,
		AgentID:   c.AgentID,
		SessionID: c.SessionID,
		Title:     c.Title,
	}
	for _, m := range c.Messages {
		out.Messages = append(out.Messages, *NewSchemaMessage(m))
	}
	return out
}

// EtoD converts a schema conversation back to the domain representation.
func (c *Conversation) EtoD() *conversation.Conversation {
	if c == nil {
		return nil
	}

	out := &conversation.Conversation{
		ID:        c.ID,
		PublicID:  c.PublicID,
		UserID:    c.UserID,
		AgentID:   c.AgentID,
		SessionID: c.SessionID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	for i := range c.Messages {
		out.Messages = append(out.Messages, c.Messages[i].EtoD())
	}
	return out
}

// NewSchemaMessage converts a domain message into a schema instance.
func NewSchemaMessage(m *conversation.Message) *Message {
	if m == nil {
		return nil
	}

	return &Message{
		BaseModel: BaseModel{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
		},
		PublicID:       m.PublicID,
		ConversationID: m.ConversationID,
		Seq:            m.Seq,
		Role:           string(m.Role),
		Content:        m.Content,
	}
}

// EtoD converts a schema message back to the domain representation.
func (m *Message) EtoD() *conversation.Message {
	if m == nil {
		return nil
	}

	return &conversation.Message{
		ID:             m.ID,
		PublicID:       m.PublicID,
		ConversationID: m.ConversationID,
		Seq:            m.Seq,
		Role:           conversation.RoleType(m.Role),
		Content:        m.Content,
		CreatedAt:      m.CreatedAt,
	}
}
