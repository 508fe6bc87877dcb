// Package admin exposes the console administration endpoints: profile
// management and agent assignments. The whole group sits behind the
// admin gate middleware.
package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Jobly-Solutions/lente-ai-sub001/internal/application/audit"
	assigndomain "github.com/Jobly-Solutions/lente-ai-sub001/internal/domain/assignment"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/domain/user"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/infrastructure/identity"
	middleware "github.com/Jobly-Solutions/lente-ai-sub001/internal/interfaces/httpserver/middlewares"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/interfaces/httpserver/requests"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/interfaces/httpserver/responses"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/utils/apperrors"
)

type AdminRoute struct {
	users       *user.Service
	assignments *assigndomain.Service
	accounts    *identity.Client
	auditor     *audit.Logger
	logger      zerolog.Logger
}

func NewAdminRoute(
	users *user.Service,
	assignments *assigndomain.Service,
	accounts *identity.Client,
	auditor *audit.Logger,
	logger zerolog.Logger,
) *AdminRoute {
	return &AdminRoute{
		users:       users,
		assignments: assignments,
		accounts:    accounts,
		auditor:     auditor,
		logger:      logger,
	}
}

// recordAudit captures who did what from the request context. Reads are
// not audited, only mutations.
func (route *AdminRoute) recordAudit(c *gin.Context, action, resource, resourceID string, payload any, status int, actionErr error) {
	entry := audit.Entry{
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Payload:    payload,
		StatusCode: status,
		IPAddress:  c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		Err:        actionErr,
	}
	if principal, ok := middleware.PrincipalFromContext(c); ok {
		entry.ActorSubject = principal.Subject
		entry.ActorEmail = principal.Email
	}
	route.auditor.Record(c.Request.Context(), entry)
}

func (route *AdminRoute) RegisterRouter(router gin.IRouter) {
	admin := router.Group("/admin")
	users := admin.Group("/users")
	users.GET("", route.listUsers)
	users.POST("", route.createUser)
	users.GET("/:user_id", route.getUser)
	users.PATCH("/:user_id/role", route.updateRole)
	users.DELETE("/:user_id", route.deleteUser)
	users.GET("/:user_id/assignments", route.listAssignments)
	users.POST("/:user_id/assignments", route.assignAgent)
	users.DELETE("/:user_id/assignments/:agent_id", route.unassignAgent)
}

func parseUserID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		responses.HandleNewError(c, apperrors.ErrorTypeValidation, "invalid user id", "1d3f5b7d-9f1b-4d3f-8b5d-3f5b7d9f1b3d")
		return 0, false
	}
	return uint(id), true
}

// listUsers godoc
// @Summary List console profiles
// @Tags Admin API
// @Security BearerAuth
// @Produce json
// @Param role query string false "Filter by role (admin or user)"
// @Success 200 {object} responses.UserListResponse "Profiles"
// @Failure 403 {object} responses.ErrorResponse "Admin access required"
// @Router /v1/admin/users [get]
func (route *AdminRoute) listUsers(c *gin.Context) {
	var filter user.Filter
	if roleParam := c.Query("role"); roleParam != "" {
		role := user.Role(roleParam)
		if !role.Valid() {
			responses.HandleNewError(c, apperrors.ErrorTypeValidation, "invalid role filter", "3f5b7d9f-1b3d-4f5b-9d7f-5b7d9f1b3d5f")
			return
		}
		filter.Role = &role
	}

	list, err := route.users.List(c.Request.Context(), filter)
	if err != nil {
		responses.HandleError(c, err, "failed to list users")
		return
	}

	resp := responses.UserListResponse{Users: []responses.UserResponse{}}
	for _, u := range list {
		resp.Users = append(resp.Users, responses.NewUserResponse(u))
	}
	c.JSON(http.StatusOK, resp)
}

// createUser godoc
// @Summary Create a console user
// @Description Provisions the identity provider account and the console profile in one step.
// @Tags Admin API
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body requests.CreateUserRequest true "New user"
// @Success 201 {object} responses.UserResponse "Created profile"
// @Failure 400 {object} responses.ErrorResponse "Invalid request body"
// @Failure 403 {object} responses.ErrorResponse "Admin access required"
// @Router /v1/admin/users [post]
func (route *AdminRoute) createUser(c *gin.Context) {
	var req requests.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, apperrors.ErrorTypeValidation, "invalid request body", "5b7d9f1b-3d5f-4b7d-8f9b-7d9f1b3d5f7b")
		return
	}

	ctx := c.Request.Context()
	metadata := map[string]any{}
	if req.FullName != nil {
		metadata["full_name"] = *req.FullName
	}
	account, err := route.accounts.CreateAccount(ctx, identity.CreateAccountParams{
		Email:    req.Email,
		Password: req.Password,
		Confirm:  true,
		Metadata: metadata,
	})
	if err != nil {
		responses.HandleError(c, err, "failed to create identity account")
		return
	}

	profile, err := route.users.Create(ctx, user.Identity{
		Subject:  account.ID,
		Email:    req.Email,
		FullName: req.FullName,
	}, user.Role(req.Role))
	if err != nil {
		// The identity account exists but the profile write failed.
		// Roll the account back so the admin can retry cleanly.
		if delErr := route.accounts.DeleteAccount(ctx, account.ID); delErr != nil {
			route.logger.Error().
				Err(delErr).
				Str("subject", account.ID).
				Msg("failed to roll back identity account after profile create failure")
		}
		responses.HandleError(c, err, "failed to create profile")
		return
	}

	route.recordAudit(c, "user.create", "user", strconv.FormatUint(uint64(profile.ID), 10),
		gin.H{"email": req.Email, "role": string(profile.Role)}, http.StatusCreated, nil)
	c.JSON(http.StatusCreated, responses.NewUserResponse(profile))
}

// getUser godoc
// @Summary Get one console profile
// @Tags Admin API
// @Security BearerAuth
// @Produce json
// @Param user_id path int true "Profile id"
// @Success 200 {object} responses.UserResponse "Profile"
// @Failure 404 {object} responses.ErrorResponse "Profile not found"
// @Router /v1/admin/users/{user_id} [get]
func (route *AdminRoute) getUser(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	profile, err := route.users.Get(c.Request.Context(), id)
	if err != nil {
		responses.HandleError(c, err, "failed to load user")
		return
	}
	if profile == nil {
		responses.HandleNewError(c, apperrors.ErrorTypeNotFound, "user not found", "7d9f1b3d-5f7b-4d9f-9b1d-9f1b3d5f7b9d")
		return
	}
	c.JSON(http.StatusOK, responses.NewUserResponse(profile))
}

// updateRole godoc
// @Summary Change a profile's console role
// @Tags Admin API
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param user_id path int true "Profile id"
// @Param request body requests.UpdateRoleRequest true "New role"
// @Success 200 {object} responses.UserResponse "Updated profile"
// @Failure 404 {object} responses.ErrorResponse "Profile not found"
// @Router /v1/admin/users/{user_id}/role [patch]
func (route *AdminRoute) updateRole(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	var req requests.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, apperrors.ErrorTypeValidation, "invalid request body", "9f1b3d5f-7b9d-4f1b-8d3f-1b3d5f7b9d1f")
		return
	}

	ctx := c.Request.Context()
	if err := route.users.SetRole(ctx, id, user.Role(req.Role)); err != nil {
		if errors.Is(err, user.ErrInvalidRole) {
			responses.HandleNewError(c, apperrors.ErrorTypeValidation, err.Error(), "b1d3f5b7-d9f1-4b3d-9f5b-3d5f7b9d1f3b")
			return
		}
		responses.HandleError(c, err, "failed to update role")
		return
	}

	profile, err := route.users.Get(ctx, id)
	if err != nil || profile == nil {
		responses.HandleError(c, err, "failed to reload user")
		return
	}
	route.recordAudit(c, "user.role.update", "user", c.Param("user_id"),
		gin.H{"role": req.Role}, http.StatusOK, nil)
	c.JSON(http.StatusOK, responses.NewUserResponse(profile))
}

// deleteUser godoc
// @Summary Delete a console user
// @Description Removes the profile row and the identity provider account.
// @Tags Admin API
// @Security BearerAuth
// @Produce json
// @Param user_id path int true "Profile id"
// @Success 204 "User removed"
// @Failure 404 {object} responses.ErrorResponse "Profile not found"
// @Router /v1/admin/users/{user_id} [delete]
func (route *AdminRoute) deleteUser(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	profile, err := route.users.Get(ctx, id)
	if err != nil {
		responses.HandleError(c, err, "failed to load user")
		return
	}
	if profile == nil {
		responses.HandleNewError(c, apperrors.ErrorTypeNotFound, "user not found", "d3f5b7d9-f1b3-4d5f-8b7d-5f7b9d1f3b5d")
		return
	}

	if err := route.users.Delete(ctx, id); err != nil {
		responses.HandleError(c, err, "failed to delete user")
		return
	}

	// Remove the provider account after the profile row: a dangling
	// account can be cleaned up later, a dangling profile cannot log in.
	if err := route.accounts.DeleteAccount(ctx, profile.Subject); err != nil {
		route.logger.Error().
			Err(err).
			Str("subject", profile.Subject).
			Msg("profile removed but identity account deletion failed")
	}
	route.recordAudit(c, "user.delete", "user", c.Param("user_id"),
		gin.H{"subject": profile.Subject, "email": profile.Email}, http.StatusNoContent, nil)
	c.Status(http.StatusNoContent)
}

// listAssignments godoc
// @Summary List a user's agent assignments
// @Tags Admin API
// @Security BearerAuth
// @Produce json
// @Param user_id path int true "Profile id"
// @Success 200 {object} responses.AssignmentListResponse "Agent grants"
// @Router /v1/admin/users/{user_id}/assignments [get]
func (route *AdminRoute) listAssignments(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	list, err := route.assignments.ListForUser(c.Request.Context(), id)
	if err != nil {
		responses.HandleError(c, err, "failed to list assignments")
		return
	}

	resp := responses.AssignmentListResponse{UserID: id, Assignments: []responses.AssignmentResponse{}}
	for _, a := range list {
		resp.Assignments = append(resp.Assignments, responses.NewAssignmentResponse(a))
	}
	c.JSON(http.StatusOK, resp)
}

// assignAgent godoc
// @Summary Grant an agent to a user
// @Tags Admin API
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param user_id path int true "Profile id"
// @Param request body requests.AssignAgentRequest true "Agent to grant"
// @Success 200 {object} responses.AssignmentResponse "Created grant"
// @Failure 400 {object} responses.ErrorResponse "Agent already assigned"
// @Router /v1/admin/users/{user_id}/assignments [post]
func (route *AdminRoute) assignAgent(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	var req requests.AssignAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, apperrors.ErrorTypeValidation, "invalid request body", "f5b7d9f1-b3d5-4f7b-9d1f-7b9d1f3b5d7f")
		return
	}

	created, err := route.assignments.Assign(c.Request.Context(), id, req.AgentID)
	if err != nil {
		if errors.Is(err, assigndomain.ErrDuplicate) {
			responses.HandleNewError(c, apperrors.ErrorTypeValidation, "agent already assigned to user", "b7d9f1b3-d5f7-4b9d-8f3b-9d1f3b5d7f9b")
			return
		}
		responses.HandleError(c, err, "failed to assign agent")
		return
	}
	route.recordAudit(c, "assignment.create", "assignment", req.AgentID,
		gin.H{"user_id": id}, http.StatusOK, nil)
	c.JSON(http.StatusOK, responses.NewAssignmentResponse(created))
}

// unassignAgent godoc
// @Summary Revoke an agent grant
// @Tags Admin API
// @Security BearerAuth
// @Produce json
// @Param user_id path int true "Profile id"
// @Param agent_id path string true "Platform agent id"
// @Success 200 {object} map[string]string "Grant removed"
// @Failure 404 {object} responses.ErrorResponse "No such grant"
// @Router /v1/admin/users/{user_id}/assignments/{agent_id} [delete]
func (route *AdminRoute) unassignAgent(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	err := route.assignments.Unassign(c.Request.Context(), id, c.Param("agent_id"))
	if err != nil {
		if errors.Is(err, assigndomain.ErrNotFound) {
			responses.HandleNewError(c, apperrors.ErrorTypeNotFound, "assignment not found", "d9f1b3d5-f7b9-4d1f-9b5d-1f3b5d7f9b1d")
			return
		}
		responses.HandleError(c, err, "failed to remove assignment")
		return
	}
	route.recordAudit(c, "assignment.delete", "assignment", c.Param("agent_id"),
		gin.H{"user_id": id}, http.StatusOK, nil)
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
