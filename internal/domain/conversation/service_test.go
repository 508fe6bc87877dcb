package conversation

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

// memRepo is an in-memory Repository with the same uniqueness and seq
// semantics as the database-backed implementation.
type memRepo struct {
	mu     sync.Mutex
	convs  map[Key]*Conversation
	nextID uint
	// when set, the first create fails with ErrDuplicateKey after
	// registering the row, simulating a cross-process race.
	raceOnCreate bool
}

func newMemRepo() *memRepo {
	return &memRepo{convs: map[Key]*Conversation{}}
}

func (m *memRepo) FindByKey(_ context.Context, key Key) (*Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.convs[key]; ok {
		return &Conversation{ID: c.ID, PublicID: c.PublicID, UserID: c.UserID, AgentID: c.AgentID, SessionID: c.SessionID, Title: c.Title}, nil
	}
	return nil, ErrNotFound
}

func (m *memRepo) CreateWithFirstMessage(_ context.Context, conv *Conversation, msg *Message) (*Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := Key{UserID: conv.UserID, AgentID: conv.AgentID, SessionID: conv.SessionID}
	if _, ok := m.convs[key]; ok {
		return nil, ErrDuplicateKey
	}
	m.nextID++
	conv.ID = m.nextID
	msg.ConversationID = conv.ID
	msg.Seq = 1
	conv.Messages = []*Message{msg}
	m.convs[key] = conv
	if m.raceOnCreate {
		m.raceOnCreate = false
		return nil, ErrDuplicateKey
	}
	return conv, nil
}

func (m *memRepo) AppendMessage(_ context.Context, conversationID uint, msg *Message) (*Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.convs {
		if c.ID == conversationID {
			msg.ConversationID = conversationID
			msg.Seq = len(c.Messages) + 1
			c.Messages = append(c.Messages, msg)
			return msg, nil
		}
	}
	return nil, fmt.Errorf("conversation %d not found", conversationID)
}

func (m *memRepo) ListByUser(_ context.Context, userID uint) ([]*Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Conversation
	for _, c := range m.convs {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memRepo) GetWithMessages(_ context.Context, key Key) (*Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.convs[key]; ok {
		return c, nil
	}
	return nil, ErrNotFound
}

func (m *memRepo) Delete(_ context.Context, key Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.convs[key]; !ok {
		return ErrNotFound
	}
	delete(m.convs, key)
	return nil
}

func (m *memRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed int64
	for key, c := range m.convs {
		if c.UpdatedAt.Before(cutoff) {
			delete(m.convs, key)
			removed++
		}
	}
	return removed, nil
}

func TestAppendMessageCreatesConversation(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	key := Key{UserID: 1, AgentID: "agent-a", SessionID: "sess-1"}

	conv, msg, err := svc.AppendMessage(context.Background(), key, RoleUser, "hello")
	if err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}
	if conv.ID == 0 {
		t.Error("expected conversation to be persisted")
	}
	if msg.Seq != 1 {
		t.Errorf("expected first message seq 1, got %d", msg.Seq)
	}
	if msg.PublicID == "" || msg.PublicID[:4] != "msg_" {
		t.Errorf("expected msg_ public id, got %q", msg.PublicID)
	}
	if conv.PublicID[:5] != "conv_" {
		t.Errorf("expected conv_ public id, got %q", conv.PublicID)
	}
}

func TestAppendMessageOrdering(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	key := Key{UserID: 1, AgentID: "agent-a", SessionID: "sess-1"}
	ctx := context.Background()

	const turns = 10
	for i := 0; i < turns; i++ {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		if _, _, err := svc.AppendMessage(ctx, key, role, fmt.Sprintf("turn %d", i)); err != nil {
			t.Fatalf("AppendMessage %d failed: %v", i, err)
		}
	}

	conv, err := svc.GetTranscript(ctx, key)
	if err != nil {
		t.Fatalf("GetTranscript failed: %v", err)
	}
	if len(conv.Messages) != turns {
		t.Fatalf("expected %d messages, got %d", turns, len(conv.Messages))
	}
	for i, m := range conv.Messages {
		if m.Seq != i+1 {
			t.Errorf("message %d: expected seq %d, got %d", i, i+1, m.Seq)
		}
	}
}

func TestAppendMessageConcurrentAppendsAreSerialized(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	key := Key{UserID: 1, AgentID: "agent-a", SessionID: "sess-1"}

	const writers = 50
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, err := svc.AppendMessage(context.Background(), key, RoleUser, fmt.Sprintf("msg %d", i))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent AppendMessage failed: %v", err)
		}
	}

	conv, err := svc.GetTranscript(context.Background(), key)
	if err != nil {
		t.Fatalf("GetTranscript failed: %v", err)
	}
	if len(conv.Messages) != writers {
		t.Fatalf("expected %d messages, got %d", writers, len(conv.Messages))
	}
	seen := map[int]bool{}
	for _, m := range conv.Messages {
		if seen[m.Seq] {
			t.Errorf("duplicate seq %d", m.Seq)
		}
		seen[m.Seq] = true
	}
	for i := 1; i <= writers; i++ {
		if !seen[i] {
			t.Errorf("missing seq %d", i)
		}
	}
}

func TestAppendMessageRecoversCreateRace(t *testing.T) {
	repo := newMemRepo()
	repo.raceOnCreate = true
	svc := NewService(repo)
	key := Key{UserID: 1, AgentID: "agent-a", SessionID: "sess-1"}

	conv, msg, err := svc.AppendMessage(context.Background(), key, RoleUser, "hello")
	if err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}
	if conv == nil || msg == nil {
		t.Fatal("expected conversation and message after race recovery")
	}
	if msg.Seq != 2 {
		t.Errorf("expected message appended after winner's first message, seq 2, got %d", msg.Seq)
	}
}

func TestAppendMessageSeparateSessionsAreIndependent(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()

	k1 := Key{UserID: 1, AgentID: "agent-a", SessionID: "sess-1"}
	k2 := Key{UserID: 1, AgentID: "agent-a", SessionID: "sess-2"}

	if _, _, err := svc.AppendMessage(ctx, k1, RoleUser, "one"); err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}
	if _, _, err := svc.AppendMessage(ctx, k2, RoleUser, "two"); err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}

	list, err := svc.ListForUser(ctx, 1)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("expected 2 conversations, got %d", len(list))
	}
}

// The stripe set is fixed, so the lock table holds no more than
// lockStripes mutexes no matter how many triples append, and the same
// triple always resolves to the same stripe.
func TestLockForIsStableAndBounded(t *testing.T) {
	svc := NewService(newMemRepo())

	key := Key{UserID: 1, AgentID: "agent-a", SessionID: "sess-1"}
	if svc.lockFor(key) != svc.lockFor(key) {
		t.Error("expected the same key to map to the same stripe")
	}

	stripes := map[*sync.Mutex]struct{}{}
	for i := 0; i < 10_000; i++ {
		k := Key{UserID: uint(i), AgentID: fmt.Sprintf("agent-%d", i), SessionID: fmt.Sprintf("sess-%d", i)}
		stripes[svc.lockFor(k)] = struct{}{}
	}
	if len(stripes) > lockStripes {
		t.Errorf("expected at most %d stripes, got %d", lockStripes, len(stripes))
	}
}

func TestAppendMessageValidation(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()
	key := Key{UserID: 1, AgentID: "agent-a", SessionID: "sess-1"}

	if _, _, err := svc.AppendMessage(ctx, key, RoleType("system"), "x"); err == nil {
		t.Error("expected invalid role to be rejected")
	}
	if _, _, err := svc.AppendMessage(ctx, key, RoleUser, ""); err == nil {
		t.Error("expected empty content to be rejected")
	}
	if _, _, err := svc.AppendMessage(ctx, Key{UserID: 1}, RoleUser, "x"); err == nil {
		t.Error("expected missing agent/session to be rejected")
	}
}

func TestAppendMessageDerivesTitleFromFirstTurn(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()
	key := Key{UserID: 1, AgentID: "agent-a", SessionID: "sess-1"}

	conv, _, err := svc.AppendMessage(ctx, key, RoleUser, "How do I rotate the API key? See https://example.com/docs")
	if err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}
	if conv.Title != "How do I rotate the API key? See" {
		t.Errorf("unexpected title %q", conv.Title)
	}

	// A later turn must not retitle the thread.
	conv, _, err = svc.AppendMessage(ctx, key, RoleAssistant, "Open the settings page.")
	if err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}
	if conv.Title != "How do I rotate the API key? See" {
		t.Errorf("title changed on second turn: %q", conv.Title)
	}
}

func TestPruneInactiveBefore(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()

	if _, _, err := svc.AppendMessage(ctx, Key{UserID: 1, AgentID: "agent-a", SessionID: "stale"}, RoleUser, "old"); err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}
	stale := repo.convs[Key{UserID: 1, AgentID: "agent-a", SessionID: "stale"}]
	stale.UpdatedAt = time.Now().Add(-48 * time.Hour)

	if _, _, err := svc.AppendMessage(ctx, Key{UserID: 1, AgentID: "agent-a", SessionID: "fresh"}, RoleUser, "new"); err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}
	fresh := repo.convs[Key{UserID: 1, AgentID: "agent-a", SessionID: "fresh"}]
	fresh.UpdatedAt = time.Now()

	removed, err := svc.PruneInactiveBefore(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("PruneInactiveBefore failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 pruned conversation, got %d", removed)
	}
	if _, ok := repo.convs[Key{UserID: 1, AgentID: "agent-a", SessionID: "fresh"}]; !ok {
		t.Error("fresh conversation was pruned")
	}
}
