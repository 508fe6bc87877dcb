package assignment

import (
	"context"
	"testing"
)

type mockAssignmentRepo struct {
	rows   []*Assignment
	nextID uint
}

func (m *mockAssignmentRepo) Create(_ context.Context, a *Assignment) (*Assignment, error) {
	for _, row := range m.rows {
		if row.UserID == a.UserID && row.AgentID == a.AgentID {
			return nil, ErrDuplicate
		}
	}
	m.nextID++
	a.ID = m.nextID
	m.rows = append(m.rows, a)
	return a, nil
}

func (m *mockAssignmentRepo) Delete(_ context.Context, userID uint, agentID string) error {
	for i, row := range m.rows {
		if row.UserID == userID && row.AgentID == agentID {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *mockAssignmentRepo) ListByUser(_ context.Context, userID uint) ([]*Assignment, error) {
	var out []*Assignment
	for _, row := range m.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *mockAssignmentRepo) Exists(_ context.Context, userID uint, agentID string) (bool, error) {
	for _, row := range m.rows {
		if row.UserID == userID && row.AgentID == agentID {
			return true, nil
		}
	}
	return false, nil
}

func TestAssignAndList(t *testing.T) {
	svc := NewService(&mockAssignmentRepo{})
	ctx := context.Background()

	if _, err := svc.Assign(ctx, 1, "agent-a"); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	if _, err := svc.Assign(ctx, 1, "agent-b"); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	if _, err := svc.Assign(ctx, 2, "agent-a"); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	list, err := svc.ListForUser(ctx, 1)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("expected 2 assignments for user 1, got %d", len(list))
	}
}

func TestAssignDuplicate(t *testing.T) {
	svc := NewService(&mockAssignmentRepo{})
	ctx := context.Background()

	if _, err := svc.Assign(ctx, 1, "agent-a"); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	if _, err := svc.Assign(ctx, 1, "agent-a"); err != ErrDuplicate {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestAssignRequiresAgentID(t *testing.T) {
	svc := NewService(&mockAssignmentRepo{})

	if _, err := svc.Assign(context.Background(), 1, ""); err == nil {
		t.Error("expected error for empty agent id")
	}
}

func TestUnassign(t *testing.T) {
	repo := &mockAssignmentRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	if _, err := svc.Assign(ctx, 1, "agent-a"); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	if err := svc.Unassign(ctx, 1, "agent-a"); err != nil {
		t.Fatalf("Unassign failed: %v", err)
	}
	if err := svc.Unassign(ctx, 1, "agent-a"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound on second unassign, got %v", err)
	}

	ok, err := svc.HasAgent(ctx, 1, "agent-a")
	if err != nil {
		t.Fatalf("HasAgent failed: %v", err)
	}
	if ok {
		t.Error("expected assignment removed")
	}
}
