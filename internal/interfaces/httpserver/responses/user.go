package responses

import (
	"time"

	"github.com/Jobly-Solutions/lente-ai-sub001/internal/domain/assignment"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/domain/user"
)

// UserResponse is the console profile surfaced to the admin UI.
type UserResponse struct {
	ID        uint      `json:"id"`
	Subject   string    `json:"subject"`
	Email     string    `json:"email"`
	FullName  *string   `json:"full_name,omitempty"`
	Company   *string   `json:"company,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserListResponse wraps the profile listing.
type UserListResponse struct {
	Users []UserResponse `json:"users"`
}

// AssignmentResponse is one agent grant.
type AssignmentResponse struct {
	AgentID    string    `json:"agent_id"`
	AssignedAt time.Time `json:"assigned_at"`
}

// AssignmentListResponse wraps a user's agent grants.
type AssignmentListResponse struct {
	UserID      uint                 `json:"user_id"`
	Assignments []AssignmentResponse `json:"assignments"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Subject:   u.Subject,
		Email:     u.Email,
		FullName:  u.FullName,
		Company:   u.Company,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// NewAssignmentResponse maps a domain assignment.
func NewAssignmentResponse(a *assignment.Assignment) AssignmentResponse {
	return AssignmentResponse{
		AgentID:    a.AgentID,
		AssignedAt: a.AssignedAt,
	}
}
