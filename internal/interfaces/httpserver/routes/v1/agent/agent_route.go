// Package agent exposes the agent proxy endpoints: listing, querying,
// and platform-side chat session history.
package agent

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Jobly-Solutions/lente-ai-sub001/internal/domain/assignment"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/infrastructure/agentplatform"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/interfaces/httpserver/middlewares"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/interfaces/httpserver/requests"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/interfaces/httpserver/responses"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/utils/apperrors"
)

// QueryFallbackAnswer is returned with a 200 when the platform reports
// the deployment missing, so the chat UI shows a message instead of an
// error page.
const QueryFallbackAnswer = "The agent is not available right now. Please try again later."

type AgentRoute struct {
	platform    *agentplatform.Client
	assignments *assignment.Service
}

func NewAgentRoute(platform *agentplatform.Client, assignments *assignment.Service) *AgentRoute {
	return &AgentRoute{
		platform:    platform,
		assignments: assignments,
	}
}

func (route *AgentRoute) RegisterRouter(router gin.IRouter) {
	agents := router.Group("/agents")
	agents.GET("", route.listAgents)
	agents.GET("/:agent_id", route.getAgent)
	agents.POST("/:agent_id/query", route.queryAgent)
	agents.POST("/:agent_id/chat-sessions", route.createChatSession)
	agents.GET("/:agent_id/chat-sessions", route.listChatSessions)
	agents.GET("/:agent_id/chat-sessions/:session_id", route.getChatSession)
}

// RegisterAdminRouter mounts the agent management endpoints that sit
// behind the admin gate.
func (route *AgentRoute) RegisterAdminRouter(router gin.IRouter) {
	router.POST("/agents/:agent_id", route.updateAgent)
}

// requireAgentAccess verifies the caller may use the agent: admins see
// every agent, other users only their assigned ones. Returns false
// after writing the error response.
func (route *AgentRoute) requireAgentAccess(c *gin.Context, agentID string) bool {
	profile, ok := middlewares.ProfileFromContext(c)
	if !ok || profile == nil {
		responses.HandleNewError(c, apperrors.ErrorTypeUnauthorized, "authentication required", "5b7d9f1b-3d5f-4a7c-9e1b-6c8e0a2c4e6a")
		return false
	}
	if profile.IsAdmin() {
		return true
	}

	allowed, err := route.assignments.HasAgent(c.Request.Context(), profile.ID, agentID)
	if err != nil {
		responses.HandleError(c, err, "failed to check agent access")
		return false
	}
	if !allowed {
		responses.HandleNewError(c, apperrors.ErrorTypeForbidden, "agent not assigned to user", "7d9f1b3d-5f7b-4c9e-8a0c-1e3a5c7e9b1d")
		return false
	}
	return true
}

// listAgents godoc
// @Summary List accessible agents
// @Description Returns the platform agents visible to the caller. Admins see every org agent; other users see only their assigned agents.
// @Tags Agents API
// @Security BearerAuth
// @Produce json
// @Success 200 {array} map[string]any "Agents from the platform"
// @Failure 401 {object} responses.ErrorResponse "Unauthorized"
// @Failure 500 {object} responses.ErrorResponse "Configuration or internal error"
// @Router /v1/agents [get]
func (route *AgentRoute) listAgents(c *gin.Context) {
	profile, ok := middlewares.ProfileFromContext(c)
	if !ok || profile == nil {
		responses.HandleNewError(c, apperrors.ErrorTypeUnauthorized, "authentication required", "9f1b3d5f-7b9d-4e1b-8c2e-3a5c7e9b1d3f")
		return
	}

	resp, err := route.platform.ListAgents(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "failed to list agents")
		return
	}
	if !resp.IsSuccess() {
		responses.WriteUpstream(c, resp.StatusCode, resp.ContentType, resp.Body)
		return
	}

	if profile.IsAdmin() {
		responses.WriteUpstream(c, resp.StatusCode, resp.ContentType, resp.Body)
		return
	}

	assigned, err := route.assignments.ListForUser(c.Request.Context(), profile.ID)
	if err != nil {
		responses.HandleError(c, err, "failed to list assignments")
		return
	}
	filtered, err := filterAgentsByAssignment(resp.Body, assigned)
	if err != nil {
		responses.HandleError(c, err, "failed to filter agents")
		return
	}
	c.JSON(http.StatusOK, filtered)
}

// getAgent godoc
// @Summary Get one agent
// @Description Returns a single platform agent, subject to the caller's assignments.
// @Tags Agents API
// @Security BearerAuth
// @Produce json
// @Param agent_id path string true "Platform agent id"
// @Success 200 {object} map[string]any "Agent from the platform"
// @Failure 403 {object} responses.ErrorResponse "Agent not assigned"
// @Failure 404 {object} responses.ErrorResponse "Agent not found upstream"
// @Router /v1/agents/{agent_id} [get]
func (route *AgentRoute) getAgent(c *gin.Context) {
	agentID := c.Param("agent_id")
	if !route.requireAgentAccess(c, agentID) {
		return
	}

	resp, err := route.platform.GetAgent(c.Request.Context(), agentID)
	if err != nil {
		responses.HandleError(c, err, "failed to get agent")
		return
	}
	responses.WriteUpstream(c, resp.StatusCode, resp.ContentType, resp.Body)
}

// updateAgent godoc
// @Summary Update an agent definition
// @Description Forwards the updated definition to the platform. Admin only.
// @Tags Agents API
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param agent_id path string true "Platform agent id"
// @Param request body map[string]any true "Agent definition forwarded to the platform"
// @Success 200 {object} map[string]any "Updated agent from the platform"
// @Failure 400 {object} responses.ErrorResponse "Invalid request body"
// @Failure 403 {object} responses.ErrorResponse "Admin access required"
// @Router /v1/agents/{agent_id} [post]
func (route *AgentRoute) updateAgent(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		responses.HandleNewError(c, apperrors.ErrorTypeValidation, "invalid request body", "3a5c7e9b-1d3f-4a5c-9e7b-0d2f4b6a8c0e")
		return
	}

	resp, err := route.platform.UpdateAgent(c.Request.Context(), c.Param("agent_id"), payload)
	if err != nil {
		responses.HandleError(c, err, "failed to update agent")
		return
	}
	responses.WriteUpstream(c, resp.StatusCode, resp.ContentType, resp.Body)
}

// queryAgent godoc
// @Summary Query a deployed agent
// @Description Forwards the query to the platform. A platform 404 for the deployment returns 200 with a fallback answer so the chat UI degrades gracefully.
// @Tags Agents API
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param agent_id path string true "Platform agent id"
// @Param request body requests.QueryAgentRequest true "Query inputs"
// @Success 200 {object} map[string]any "Platform answer or fallback"
// @Failure 400 {object} responses.ErrorResponse "Invalid request body"
// @Failure 403 {object} responses.ErrorResponse "Agent not assigned"
// @Router /v1/agents/{agent_id}/query [post]
func (route *AgentRoute) queryAgent(c *gin.Context) {
	agentID := c.Param("agent_id")
	if !route.requireAgentAccess(c, agentID) {
		return
	}

	var req requests.QueryAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, apperrors.ErrorTypeValidation, "invalid request body", "1b3d5f7b-9d1f-4b3d-9e5f-4c6e8a0c2e4f")
		return
	}

	resp, err := route.platform.QueryAgent(c.Request.Context(), agentID, req)
	if err != nil {
		responses.HandleError(c, err, "agent query failed")
		return
	}
	if resp.StatusCode == http.StatusNotFound {
		c.JSON(http.StatusOK, gin.H{"answer": QueryFallbackAnswer})
		return
	}
	responses.WriteUpstream(c, resp.StatusCode, resp.ContentType, resp.Body)
}

// createChatSession godoc
// @Summary Open a platform chat session for an agent
// @Tags Agents API
// @Security BearerAuth
// @Produce json
// @Param agent_id path string true "Platform agent id"
// @Success 200 {object} map[string]any "Session created by the platform"
// @Failure 403 {object} responses.ErrorResponse "Agent not assigned"
// @Router /v1/agents/{agent_id}/chat-sessions [post]
func (route *AgentRoute) createChatSession(c *gin.Context) {
	agentID := c.Param("agent_id")
	if !route.requireAgentAccess(c, agentID) {
		return
	}

	resp, err := route.platform.CreateChatSession(c.Request.Context(), agentID)
	if err != nil {
		responses.HandleError(c, err, "failed to create chat session")
		return
	}
	responses.WriteUpstream(c, resp.StatusCode, resp.ContentType, resp.Body)
}

// listChatSessions godoc
// @Summary List platform chat sessions for an agent
// @Tags Agents API
// @Security BearerAuth
// @Produce json
// @Param agent_id path string true "Platform agent id"
// @Success 200 {array} map[string]any "Chat sessions from the platform"
// @Failure 403 {object} responses.ErrorResponse "Agent not assigned"
// @Router /v1/agents/{agent_id}/chat-sessions [get]
func (route *AgentRoute) listChatSessions(c *gin.Context) {
	agentID := c.Param("agent_id")
	if !route.requireAgentAccess(c, agentID) {
		return
	}

	resp, err := route.platform.ListChatSessions(c.Request.Context(), agentID)
	if err != nil {
		responses.HandleError(c, err, "failed to list chat sessions")
		return
	}
	responses.WriteUpstream(c, resp.StatusCode, resp.ContentType, resp.Body)
}

// getChatSession godoc
// @Summary Get one platform chat session transcript
// @Tags Agents API
// @Security BearerAuth
// @Produce json
// @Param agent_id path string true "Platform agent id"
// @Param session_id path string true "Platform session id"
// @Success 200 {object} map[string]any "Chat session from the platform"
// @Failure 403 {object} responses.ErrorResponse "Agent not assigned"
// @Router /v1/agents/{agent_id}/chat-sessions/{session_id} [get]
func (route *AgentRoute) getChatSession(c *gin.Context) {
	agentID := c.Param("agent_id")
	if !route.requireAgentAccess(c, agentID) {
		return
	}

	resp, err := route.platform.GetChatSession(c.Request.Context(), agentID, c.Param("session_id"))
	if err != nil {
		responses.HandleError(c, err, "failed to get chat session")
		return
	}
	responses.WriteUpstream(c, resp.StatusCode, resp.ContentType, resp.Body)
}
