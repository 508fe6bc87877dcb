// Package assignment links console profiles to the agents they may use.
package assignment

import (
	"context"
	"errors"
	"time"
)

// Assignment grants a user access to a single agent.
type Assignment struct {
	ID         uint
	UserID     uint
	AgentID    string
	AssignedAt time.Time
}

// ErrDuplicate indicates the user already has the agent assigned.
var ErrDuplicate = errors.New("agent already assigned to user")

// ErrNotFound indicates no such assignment exists.
var ErrNotFound = errors.New("assignment not found")

// Repository defines storage operations for assignments.
type Repository interface {
	Create(ctx context.Context, a *Assignment) (*Assignment, error)
	Delete(ctx context.Context, userID uint, agentID string) error
	ListByUser(ctx context.Context, userID uint) ([]*Assignment, error)
	Exists(ctx context.Context, userID uint, agentID string) (bool, error)
}

// Service manages agent assignments.
type Service struct {
	repo Repository
}

// NewService constructs a Service with required dependencies.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Assign grants an agent to a user. Assigning the same agent twice
// returns ErrDuplicate.
func (s *Service) Assign(ctx context.Context, userID uint, agentID string) (*Assignment, error) {
	if agentID == "" {
		return nil, errors.New("agent id is required")
	}
	return s.repo.Create(ctx, &Assignment{UserID: userID, AgentID: agentID})
}

// Unassign removes an agent grant from a user.
func (s *Service) Unassign(ctx context.Context, userID uint, agentID string) error {
	return s.repo.Delete(ctx, userID, agentID)
}

// ListForUser returns all agents granted to a user.
func (s *Service) ListForUser(ctx context.Context, userID uint) ([]*Assignment, error) {
	return s.repo.ListByUser(ctx, userID)
}

// HasAgent reports whether the user has the given agent assigned.
func (s *Service) HasAgent(ctx context.Context, userID uint, agentID string) (bool, error) {
	return s.repo.Exists(ctx, userID, agentID)
}
