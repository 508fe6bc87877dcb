package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Jobly-Solutions/lente-ai-sub001/internal/config"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/interfaces/httpserver/routes/v1/admin"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/interfaces/httpserver/routes/v1/agent"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/interfaces/httpserver/routes/v1/conversation"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/interfaces/httpserver/routes/v1/datastore"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/interfaces/httpserver/routes/v1/users"
)

type V1Route struct {
	agent        *agent.AgentRoute
	datastore    *datastore.DatastoreRoute
	conversation *conversation.ConversationRoute
	users        *users.UsersRoute
	admin        *admin.AdminRoute
	authMW       gin.HandlerFunc
	adminGateMW  gin.HandlerFunc
	ready        func() bool
}

func NewV1Route(
	agentRoute *agent.AgentRoute,
	datastoreRoute *datastore.DatastoreRoute,
	conversationRoute *conversation.ConversationRoute,
	usersRoute *users.UsersRoute,
	adminRoute *admin.AdminRoute,
	authMW gin.HandlerFunc,
	adminGateMW gin.HandlerFunc,
	ready func() bool,
) *V1Route {
	return &V1Route{
		agent:        agentRoute,
		datastore:    datastoreRoute,
		conversation: conversationRoute,
		users:        usersRoute,
		admin:        adminRoute,
		authMW:       authMW,
		adminGateMW:  adminGateMW,
		ready:        ready,
	}
}

func (v1Route *V1Route) RegisterRouter(router gin.IRouter) {
	v1Router := router.Group("/v1")
	v1Router.GET("/version", GetVersion)
	v1Router.GET("/healthz", GetHealthz)
	v1Router.GET("/readyz", v1Route.GetReadyz)

	authed := v1Router.Group("", v1Route.authMW)
	v1Route.agent.RegisterRouter(authed)
	v1Route.datastore.RegisterRouter(authed)
	v1Route.conversation.RegisterRouter(authed)
	v1Route.users.RegisterRouter(authed)

	// Admin gate applies to the admin API and the platform write
	// surface (agent updates, datastore/datasource mutations).
	gated := authed.Group("", v1Route.adminGateMW)
	v1Route.admin.RegisterRouter(gated)
	v1Route.agent.RegisterAdminRouter(gated)
	v1Route.datastore.RegisterAdminRouter(gated)
}

// GetVersion godoc
// @Summary Get API build version
// @Description Returns the current build version of the API server.
// @Tags Server API
// @Produce json
// @Success 200 {object} map[string]string "Version information"
// @Router /v1/version [get]
func GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"version": config.Version})
}

// GetHealthz godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API server. Used by orchestrators and monitoring systems.
// @Tags Server API
// @Produce json
// @Success 200 {object} map[string]string "Health status OK"
// @Router /v1/healthz [get]
func GetHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetReadyz godoc
// @Summary Readiness check endpoint
// @Description Reports ready once the token validator has loaded signing keys.
// @Tags Server API
// @Produce json
// @Success 200 {object} map[string]string "Readiness status ready"
// @Failure 503 {object} map[string]string "Still warming up"
// @Router /v1/readyz [get]
func (v1Route *V1Route) GetReadyz(c *gin.Context) {
	if v1Route.ready != nil && !v1Route.ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
