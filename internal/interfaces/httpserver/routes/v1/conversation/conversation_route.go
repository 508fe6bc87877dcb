// Package conversation exposes the persisted chat transcript endpoints.
package conversation

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	convdomain "github.com/Jobly-Solutions/lente-ai-sub001/internal/domain/conversation"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/infrastructure/metrics"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/interfaces/httpserver/middlewares"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/interfaces/httpserver/requests"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/interfaces/httpserver/responses"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/utils/apperrors"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/utils/functional"
)

type ConversationRoute struct {
	conversations *convdomain.Service
}

func NewConversationRoute(conversations *convdomain.Service) *ConversationRoute {
	return &ConversationRoute{conversations: conversations}
}

func (route *ConversationRoute) RegisterRouter(router gin.IRouter) {
	conversations := router.Group("/conversations")
	conversations.POST("/messages", route.appendMessage)
	conversations.GET("", route.listConversations)
	conversations.GET("/:agent_id/:session_id", route.getTranscript)
	conversations.DELETE("/:agent_id/:session_id", route.deleteConversation)
}

// appendMessage godoc
// @Summary Append a transcript turn
// @Description Records one message against the caller's (agent, session) thread, creating the thread on the first turn. Messages within a thread are strictly ordered.
// @Tags Conversations API
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body requests.AppendMessageRequest true "Message to record"
// @Success 200 {object} responses.AppendMessageResponse "Persisted turn"
// @Failure 400 {object} responses.ErrorResponse "Invalid request body"
// @Failure 401 {object} responses.ErrorResponse "Unauthorized"
// @Router /v1/conversations/messages [post]
func (route *ConversationRoute) appendMessage(c *gin.Context) {
	profile, ok := middlewares.ProfileFromContext(c)
	if !ok || profile == nil {
		responses.HandleNewError(c, apperrors.ErrorTypeUnauthorized, "authentication required", "7b9d1f3b-5d7f-4b9d-8f2a-9c1e3a5c7e9b")
		return
	}

	var req requests.AppendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, apperrors.ErrorTypeValidation, "invalid request body", "9d1f3b5d-7f9b-4d1f-9a4c-1e3a5c7e9b1d")
		return
	}

	key := convdomain.Key{UserID: profile.ID, AgentID: req.AgentID, SessionID: req.SessionID}
	conv, msg, err := route.conversations.AppendMessage(c.Request.Context(), key, convdomain.RoleType(req.Role), req.Content)
	if err != nil {
		responses.HandleError(c, err, "failed to append message")
		return
	}

	metrics.RecordMessageAppended(string(msg.Role), msg.Seq == 1)
	c.JSON(http.StatusOK, responses.AppendMessageResponse{
		Conversation: responses.NewConversationResponse(&convdomain.Conversation{
			ID:        conv.ID,
			PublicID:  conv.PublicID,
			UserID:    conv.UserID,
			AgentID:   conv.AgentID,
			SessionID: conv.SessionID,
			Title:     conv.Title,
			CreatedAt: conv.CreatedAt,
			UpdatedAt: conv.UpdatedAt,
		}),
		Message: responses.NewMessageResponse(msg),
	})
}

// listConversations godoc
// @Summary List the caller's conversation threads
// @Tags Conversations API
// @Security BearerAuth
// @Produce json
// @Param agent_id query string false "Restrict to threads with this agent"
// @Success 200 {object} responses.ConversationListResponse "Threads without messages"
// @Failure 401 {object} responses.ErrorResponse "Unauthorized"
// @Router /v1/conversations [get]
func (route *ConversationRoute) listConversations(c *gin.Context) {
	profile, ok := middlewares.ProfileFromContext(c)
	if !ok || profile == nil {
		responses.HandleNewError(c, apperrors.ErrorTypeUnauthorized, "authentication required", "1f3b5d7f-9b1d-4f3b-8c5e-3a5c7e9b1d3f")
		return
	}

	list, err := route.conversations.ListForUser(c.Request.Context(), profile.ID)
	if err != nil {
		responses.HandleError(c, err, "failed to list conversations")
		return
	}

	if agentFilter := c.Query("agent_id"); agentFilter != "" {
		list = functional.Filter(list, func(conv *convdomain.Conversation) bool {
			return conv.AgentID == agentFilter
		})
	}
	c.JSON(http.StatusOK, responses.ConversationListResponse{
		Conversations: functional.Map(list, responses.NewConversationResponse),
	})
}

// getTranscript godoc
// @Summary Get a conversation transcript
// @Description Returns the caller's thread for the agent/session pair with messages in order.
// @Tags Conversations API
// @Security BearerAuth
// @Produce json
// @Param agent_id path string true "Platform agent id"
// @Param session_id path string true "Client session id"
// @Success 200 {object} responses.ConversationResponse "Thread with ordered messages"
// @Failure 404 {object} responses.ErrorResponse "No such thread"
// @Router /v1/conversations/{agent_id}/{session_id} [get]
func (route *ConversationRoute) getTranscript(c *gin.Context) {
	profile, ok := middlewares.ProfileFromContext(c)
	if !ok || profile == nil {
		responses.HandleNewError(c, apperrors.ErrorTypeUnauthorized, "authentication required", "3b5d7f9b-1d3f-4b5d-9e7a-5c7e9b1d3f5b")
		return
	}

	key := convdomain.Key{UserID: profile.ID, AgentID: c.Param("agent_id"), SessionID: c.Param("session_id")}
	conv, err := route.conversations.GetTranscript(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, convdomain.ErrNotFound) {
			responses.HandleNewError(c, apperrors.ErrorTypeNotFound, "conversation not found", "5d7f9b1d-3f5b-4d7f-8a9c-7e9b1d3f5b7d")
			return
		}
		responses.HandleError(c, err, "failed to load conversation")
		return
	}
	c.JSON(http.StatusOK, responses.NewConversationResponse(conv))
}

// deleteConversation godoc
// @Summary Delete a conversation thread
// @Tags Conversations API
// @Security BearerAuth
// @Produce json
// @Param agent_id path string true "Platform agent id"
// @Param session_id path string true "Client session id"
// @Success 204 "Thread removed"
// @Failure 404 {object} responses.ErrorResponse "No such thread"
// @Router /v1/conversations/{agent_id}/{session_id} [delete]
func (route *ConversationRoute) deleteConversation(c *gin.Context) {
	profile, ok := middlewares.ProfileFromContext(c)
	if !ok || profile == nil {
		responses.HandleNewError(c, apperrors.ErrorTypeUnauthorized, "authentication required", "7f9b1d3f-5b7d-4f9b-9c1e-9b1d3f5b7d9f")
		return
	}

	key := convdomain.Key{UserID: profile.ID, AgentID: c.Param("agent_id"), SessionID: c.Param("session_id")}
	if err := route.conversations.Delete(c.Request.Context(), key); err != nil {
		if errors.Is(err, convdomain.ErrNotFound) {
			responses.HandleNewError(c, apperrors.ErrorTypeNotFound, "conversation not found", "9b1d3f5b-7d9f-4b1d-8e3a-1d3f5b7d9f1b")
			return
		}
		responses.HandleError(c, err, "failed to delete conversation")
		return
	}
	c.Status(http.StatusNoContent)
}
