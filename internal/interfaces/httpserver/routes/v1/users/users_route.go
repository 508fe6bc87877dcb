// Package users exposes the caller's own profile.
package users

import (
	"net/http"

	"github.com/gin-gonic/gin"

	assigndomain "github.com/Jobly-Solutions/lente-ai-sub001/internal/domain/assignment"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/interfaces/httpserver/middlewares"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/interfaces/httpserver/responses"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/utils/apperrors"
)

type UsersRoute struct {
	assignments *assigndomain.Service
}

func NewUsersRoute(assignments *assigndomain.Service) *UsersRoute {
	return &UsersRoute{assignments: assignments}
}

func (route *UsersRoute) RegisterRouter(router gin.IRouter) {
	users := router.Group("/users")
	users.GET("/me", route.getMe)
	users.GET("/me/assignments", route.getMyAssignments)
}

// getMe godoc
// @Summary Get the caller's profile
// @Tags Users API
// @Security BearerAuth
// @Produce json
// @Success 200 {object} responses.UserResponse "Profile"
// @Failure 401 {object} responses.ErrorResponse "Unauthorized"
// @Router /v1/users/me [get]
func (route *UsersRoute) getMe(c *gin.Context) {
	profile, ok := middlewares.ProfileFromContext(c)
	if !ok || profile == nil {
		responses.HandleNewError(c, apperrors.ErrorTypeUnauthorized, "authentication required", "f1b3d5f7-b9d1-4f3b-8d5f-3b5d7f9b1d3f")
		return
	}
	c.JSON(http.StatusOK, responses.NewUserResponse(profile))
}

// getMyAssignments godoc
// @Summary List the caller's agent grants
// @Tags Users API
// @Security BearerAuth
// @Produce json
// @Success 200 {object} responses.AssignmentListResponse "Agent grants"
// @Failure 401 {object} responses.ErrorResponse "Unauthorized"
// @Router /v1/users/me/assignments [get]
func (route *UsersRoute) getMyAssignments(c *gin.Context) {
	profile, ok := middlewares.ProfileFromContext(c)
	if !ok || profile == nil {
		responses.HandleNewError(c, apperrors.ErrorTypeUnauthorized, "authentication required", "b3d5f7b9-d1f3-4b5d-9f7b-5d7f9b1d3f5b")
		return
	}

	list, err := route.assignments.ListForUser(c.Request.Context(), profile.ID)
	if err != nil {
		responses.HandleError(c, err, "failed to list assignments")
		return
	}

	resp := responses.AssignmentListResponse{UserID: profile.ID, Assignments: []responses.AssignmentResponse{}}
	for _, a := range list {
		resp.Assignments = append(resp.Assignments, responses.NewAssignmentResponse(a))
	}
	c.JSON(http.StatusOK, resp)
}
