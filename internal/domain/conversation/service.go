package conversation

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Jobly-Solutions/lente-ai-sub001/internal/infrastructure/observability"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/utils/idgen"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/utils/stringutils"
)

const (
	conversationIDPrefix = "conv"
	messageIDPrefix      = "msg"
	publicIDLength       = 24
	maxTitleLength       = 80
	lockStripes          = 64
)

// Service implements the append workflow. Appends for the same
// (user, agent, session) triple are serialized through a striped mutex
// so concurrent turns cannot interleave their find-or-create and seq
// assignment. The stripe count is fixed, so memory stays constant no
// matter how many triples the process has seen; distinct triples that
// hash to the same stripe only cost contention, never correctness.
type Service struct {
	repo Repository

	locks [lockStripes]sync.Mutex
}

// NewService constructs a Service with required dependencies.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) lockFor(key Key) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(strconv.FormatUint(uint64(key.UserID), 10)))
	h.Write([]byte{0})
	h.Write([]byte(key.AgentID))
	h.Write([]byte{0})
	h.Write([]byte(key.SessionID))
	return &s.locks[h.Sum32()%lockStripes]
}

// AppendMessage records one turn. It finds the conversation for the
// triple, creating it on the first turn, and appends the message with
// the next sequence number. A create race against another process is
// recovered by re-reading the winner's row and appending to it.
func (s *Service) AppendMessage(ctx context.Context, key Key, role RoleType, content string) (*Conversation, *Message, error) {
	if key.AgentID == "" || key.SessionID == "" {
		return nil, nil, errors.New("agent id and session id are required")
	}
	if !role.Valid() {
		return nil, nil, fmt.Errorf("invalid message role %q", role)
	}
	if content == "" {
		return nil, nil, errors.New("message content is required")
	}

	ctx, span := observability.StartSpan(ctx, "conversation.append")
	defer span.End()
	observability.SpanAttributes(ctx,
		attribute.String("agent.id", key.AgentID),
		attribute.String("session.id", key.SessionID),
	)

	lock := s.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	conv, err := s.repo.FindByKey(ctx, key)
	if err != nil && !errors.Is(err, ErrNotFound) {
		observability.RecordError(ctx, err)
		return nil, nil, err
	}

	msg := &Message{Role: role, Content: content}
	msg.PublicID, err = idgen.GenerateSecureID(messageIDPrefix, publicIDLength)
	if err != nil {
		return nil, nil, fmt.Errorf("generate message id: %w", err)
	}

	if conv == nil {
		conv, err = s.createWithRecovery(ctx, key, msg)
		if err != nil {
			observability.RecordError(ctx, err)
			return nil, nil, err
		}
		if len(conv.Messages) > 0 {
			return conv, conv.Messages[len(conv.Messages)-1], nil
		}
		return conv, msg, nil
	}

	appended, err := s.repo.AppendMessage(ctx, conv.ID, msg)
	if err != nil {
		observability.RecordError(ctx, err)
		return nil, nil, err
	}
	return conv, appended, nil
}

// createWithRecovery inserts the conversation with its first message.
// When another process won the create race, the duplicate-key error is
// swallowed and the message is appended to the winner's row instead.
func (s *Service) createWithRecovery(ctx context.Context, key Key, msg *Message) (*Conversation, error) {
	publicID, err := idgen.GenerateSecureID(conversationIDPrefix, publicIDLength)
	if err != nil {
		return nil, fmt.Errorf("generate conversation id: %w", err)
	}

	conv := &Conversation{
		PublicID:  publicID,
		UserID:    key.UserID,
		AgentID:   key.AgentID,
		SessionID: key.SessionID,
		Title:     stringutils.GenerateTitle(msg.Content, maxTitleLength),
	}

	created, err := s.repo.CreateWithFirstMessage(ctx, conv, msg)
	if err == nil {
		return created, nil
	}
	if !errors.Is(err, ErrDuplicateKey) {
		return nil, err
	}

	existing, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	appended, err := s.repo.AppendMessage(ctx, existing.ID, msg)
	if err != nil {
		return nil, err
	}
	existing.Messages = append(existing.Messages, appended)
	return existing, nil
}

// ListForUser returns the user's conversation threads without messages.
func (s *Service) ListForUser(ctx context.Context, userID uint) ([]*Conversation, error) {
	return s.repo.ListByUser(ctx, userID)
}

// GetTranscript loads a conversation with its messages in seq order.
func (s *Service) GetTranscript(ctx context.Context, key Key) (*Conversation, error) {
	return s.repo.GetWithMessages(ctx, key)
}

// Delete removes a conversation and its messages.
func (s *Service) Delete(ctx context.Context, key Key) error {
	return s.repo.Delete(ctx, key)
}

// PruneInactiveBefore removes threads whose last activity predates the
// cutoff, returning how many were removed.
func (s *Service) PruneInactiveBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.repo.DeleteOlderThan(ctx, cutoff)
}
