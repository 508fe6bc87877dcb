// Package user provides the user profile domain model and behaviors.
package user

import (
	"context"
	"errors"
	"time"
)

// Role is the console role attached to a profile.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether the role is one of the known console roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User models a console profile backed by an external identity record.
// Subject is the identity provider's UUID for the account.
type User struct {
	ID        uint
	Subject   string
	Email     string
	FullName  *string
	Company   *string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin reports whether the profile carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Identity encapsulates the externally provided identity attributes.
type Identity struct {
	Subject  string
	Email    string
	FullName *string
}

// Filter narrows profile lookups.
type Filter struct {
	ID      *uint
	Subject *string
	Email   *string
	Role    *Role
}

// Repository defines storage operations for profiles.
type Repository interface {
	FindBySubject(ctx context.Context, subject string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByFilter(ctx context.Context, filter Filter) ([]*User, error)
	Upsert(ctx context.Context, user *User) (*User, error)
	UpdateRole(ctx context.Context, id uint, role Role) error
	Delete(ctx context.Context, id uint) error
}

// ErrInvalidIdentity indicates a missing subject on the identity payload.
var ErrInvalidIdentity = errors.New("invalid identity: subject is required")

// ErrInvalidRole indicates an unknown role value.
var ErrInvalidRole = errors.New("invalid role: must be admin or user")

// Service persists and resolves profiles from external identities.
type Service struct {
	repo Repository
}

// NewService constructs a Service with required dependencies.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// EnsureUser persists the given identity and returns the profile record.
// New profiles default to the user role; an existing profile keeps its role.
func (s *Service) EnsureUser(ctx context.Context, identity Identity) (*User, error) {
	if identity.Subject == "" {
		return nil, ErrInvalidIdentity
	}

	return s.repo.Upsert(ctx, &User{
		Subject:  identity.Subject,
		Email:    identity.Email,
		FullName: identity.FullName,
		Role:     RoleUser,
	})
}

// Create registers a profile for an identity record provisioned by an admin.
// Role defaults to user when unset.
func (s *Service) Create(ctx context.Context, identity Identity, role Role) (*User, error) {
	if identity.Subject == "" {
		return nil, ErrInvalidIdentity
	}
	if role == "" {
		role = RoleUser
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	return s.repo.Upsert(ctx, &User{
		Subject:  identity.Subject,
		Email:    identity.Email,
		FullName: identity.FullName,
		Role:     role,
	})
}

// SetRole changes the role on an existing profile.
func (s *Service) SetRole(ctx context.Context, id uint, role Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}
	return s.repo.UpdateRole(ctx, id, role)
}

// Get returns a profile by internal id.
func (s *Service) Get(ctx context.Context, id uint) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

// GetBySubject returns a profile by identity provider subject.
func (s *Service) GetBySubject(ctx context.Context, subject string) (*User, error) {
	return s.repo.FindBySubject(ctx, subject)
}

// List returns profiles matching the filter.
func (s *Service) List(ctx context.Context, filter Filter) ([]*User, error) {
	return s.repo.FindByFilter(ctx, filter)
}

// Delete removes a profile row. The identity record is deleted separately
// through the identity provider.
func (s *Service) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}
