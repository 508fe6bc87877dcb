// Package requests holds the request DTOs bound by the HTTP layer.
package requests

// AppendMessageRequest records one transcript turn for the caller.
type AppendMessageRequest struct {
	AgentID   string `json:"agent_id" binding:"required"`
	SessionID string `json:"session_id" binding:"required"`
	Role      string `json:"role" binding:"required,oneof=user assistant"`
	Content   string `json:"content" binding:"required"`
}

// QueryAgentRequest carries the user's query to a deployed agent. The
// fields are forwarded to the platform verbatim, streaming flag
// included.
type QueryAgentRequest struct {
	Query          string `json:"query" binding:"required"`
	ConversationID string `json:"conversationId"`
	Streaming      bool   `json:"streaming"`
}

// CreateUserRequest provisions an identity account plus console profile.
type CreateUserRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	FullName *string `json:"full_name"`
	Company  *string `json:"company"`
	Role     string  `json:"role" binding:"omitempty,oneof=admin user"`
}

// UpdateRoleRequest changes a profile's console role.
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin user"`
}

// AssignAgentRequest grants an agent to a user.
type AssignAgentRequest struct {
	AgentID string `json:"agent_id" binding:"required"`
}

// CreateDatastoreRequest is forwarded to the platform as-is.
type CreateDatastoreRequest struct {
	Name   string         `json:"name" binding:"required"`
	Config map[string]any `json:"config"`
}

// CreateDatasourceRequest is forwarded to the platform as-is.
type CreateDatasourceRequest struct {
	DatastoreID string         `json:"datastore_id" binding:"required"`
	Name        string         `json:"name" binding:"required"`
	Type        string         `json:"type" binding:"required"`
	Config      map[string]any `json:"config"`
}
