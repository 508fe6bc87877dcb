// Package datastore proxies the platform datastore and datasource
// endpoints. Reads and retrieval queries are open to any authenticated
// user; creating and deleting are admin-gated.
package datastore

import (
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Jobly-Solutions/lente-ai-sub001/internal/infrastructure/agentplatform"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/interfaces/httpserver/requests"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/interfaces/httpserver/responses"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/utils/apperrors"
)

type DatastoreRoute struct {
	platform *agentplatform.Client
}

func NewDatastoreRoute(platform *agentplatform.Client) *DatastoreRoute {
	return &DatastoreRoute{platform: platform}
}

func (route *DatastoreRoute) RegisterRouter(router gin.IRouter) {
	datastores := router.Group("/datastores")
	datastores.GET("", route.listDatastores)
	datastores.POST("/:datastore_id/query", route.queryDatastore)
	datastores.GET("/:datastore_id/datasources", route.listDatasources)

	datasources := router.Group("/datasources")
	datasources.GET("/:datasource_id", route.getDatasource)
}

// RegisterAdminRouter registers the mutating routes on an admin-gated
// group.
func (route *DatastoreRoute) RegisterAdminRouter(router gin.IRouter) {
	datastores := router.Group("/datastores")
	datastores.POST("", route.createDatastore)
	datastores.DELETE("/:datastore_id", route.deleteDatastore)

	datasources := router.Group("/datasources")
	datasources.POST("", route.createDatasource)
	datasources.DELETE("/:datasource_id", route.deleteDatasource)
}

// listDatastores godoc
// @Summary List datastores
// @Tags Datastores API
// @Security BearerAuth
// @Produce json
// @Success 200 {array} map[string]any "Datastores from the platform"
// @Router /v1/datastores [get]
func (route *DatastoreRoute) listDatastores(c *gin.Context) {
	resp, err := route.platform.ListDatastores(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "failed to list datastores")
		return
	}
	responses.WriteUpstream(c, resp.StatusCode, resp.ContentType, resp.Body)
}

// createDatastore godoc
// @Summary Create a datastore
// @Tags Datastores API
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body requests.CreateDatastoreRequest true "Datastore definition"
// @Success 200 {object} map[string]any "Created datastore from the platform"
// @Failure 400 {object} responses.ErrorResponse "Invalid request body"
// @Router /v1/datastores [post]
func (route *DatastoreRoute) createDatastore(c *gin.Context) {
	var req requests.CreateDatastoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, apperrors.ErrorTypeValidation, "invalid request body", "3d5f7b9d-1f3b-4d5f-8c0e-5e7a9c1e3a5c")
		return
	}

	resp, err := route.platform.CreateDatastore(c.Request.Context(), req)
	if err != nil {
		responses.HandleError(c, err, "failed to create datastore")
		return
	}
	responses.WriteUpstream(c, resp.StatusCode, resp.ContentType, resp.Body)
}

// deleteDatastore godoc
// @Summary Delete a datastore
// @Tags Datastores API
// @Security BearerAuth
// @Produce json
// @Param datastore_id path string true "Platform datastore id"
// @Success 200 {object} map[string]any "Deletion result from the platform"
// @Router /v1/datastores/{datastore_id} [delete]
func (route *DatastoreRoute) deleteDatastore(c *gin.Context) {
	resp, err := route.platform.DeleteDatastore(c.Request.Context(), c.Param("datastore_id"))
	if err != nil {
		responses.HandleError(c, err, "failed to delete datastore")
		return
	}
	responses.WriteUpstream(c, resp.StatusCode, resp.ContentType, resp.Body)
}

// queryDatastore godoc
// @Summary Run a retrieval query against a datastore
// @Tags Datastores API
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param datastore_id path string true "Platform datastore id"
// @Param request body map[string]any true "Query payload forwarded to the platform"
// @Success 200 {object} map[string]any "Query result from the platform"
// @Failure 400 {object} responses.ErrorResponse "Invalid request body"
// @Router /v1/datastores/{datastore_id}/query [post]
func (route *DatastoreRoute) queryDatastore(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		responses.HandleNewError(c, apperrors.ErrorTypeValidation, "invalid request body", "9d1f3b5d-7f9b-4d3f-8b5d-9f1b3d5f7b9d")
		return
	}

	resp, err := route.platform.QueryDatastore(c.Request.Context(), c.Param("datastore_id"), payload)
	if err != nil {
		responses.HandleError(c, err, "datastore query failed")
		return
	}
	responses.WriteUpstream(c, resp.StatusCode, resp.ContentType, resp.Body)
}

// listDatasources godoc
// @Summary List datasources of a datastore
// @Tags Datastores API
// @Security BearerAuth
// @Produce json
// @Param datastore_id path string true "Platform datastore id"
// @Success 200 {array} map[string]any "Datasources from the platform"
// @Router /v1/datastores/{datastore_id}/datasources [get]
func (route *DatastoreRoute) listDatasources(c *gin.Context) {
	resp, err := route.platform.ListDatasources(c.Request.Context(), c.Param("datastore_id"))
	if err != nil {
		responses.HandleError(c, err, "failed to list datasources")
		return
	}
	responses.WriteUpstream(c, resp.StatusCode, resp.ContentType, resp.Body)
}

// createDatasource godoc
// @Summary Attach a datasource to a datastore
// @Tags Datastores API
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body requests.CreateDatasourceRequest true "Datasource definition, or a multipart file upload"
// @Success 200 {object} map[string]any "Created datasource from the platform"
// @Failure 400 {object} responses.ErrorResponse "Invalid request body"
// @Router /v1/datasources [post]
func (route *DatastoreRoute) createDatasource(c *gin.Context) {
	// File uploads arrive as multipart and are relayed byte-for-byte;
	// everything else is a JSON definition.
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			responses.HandleNewError(c, apperrors.ErrorTypeValidation, "failed to read upload body", "7b9d1f3b-5d7f-4b9d-8f1b-9c1e3a5c7e9b")
			return
		}
		resp, err := route.platform.UploadDatasource(c.Request.Context(), c.ContentType(), body)
		if err != nil {
			responses.HandleError(c, err, "failed to upload datasource")
			return
		}
		responses.WriteUpstream(c, resp.StatusCode, resp.ContentType, resp.Body)
		return
	}

	var req requests.CreateDatasourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, apperrors.ErrorTypeValidation, "invalid request body", "5f7b9d1f-3b5d-4f7b-9e1f-7a9c1e3a5c7e")
		return
	}

	resp, err := route.platform.CreateDatasource(c.Request.Context(), req)
	if err != nil {
		responses.HandleError(c, err, "failed to create datasource")
		return
	}
	responses.WriteUpstream(c, resp.StatusCode, resp.ContentType, resp.Body)
}

// getDatasource godoc
// @Summary Get one datasource
// @Tags Datastores API
// @Security BearerAuth
// @Produce json
// @Param datasource_id path string true "Platform datasource id"
// @Success 200 {object} map[string]any "Datasource from the platform"
// @Router /v1/datasources/{datasource_id} [get]
func (route *DatastoreRoute) getDatasource(c *gin.Context) {
	resp, err := route.platform.GetDatasource(c.Request.Context(), c.Param("datasource_id"))
	if err != nil {
		responses.HandleError(c, err, "failed to get datasource")
		return
	}
	responses.WriteUpstream(c, resp.StatusCode, resp.ContentType, resp.Body)
}

// deleteDatasource godoc
// @Summary Delete a datasource
// @Tags Datastores API
// @Security BearerAuth
// @Produce json
// @Param datasource_id path string true "Platform datasource id"
// @Success 200 {object} map[string]any "Deletion result from the platform"
// @Router /v1/datasources/{datasource_id} [delete]
func (route *DatastoreRoute) deleteDatasource(c *gin.Context) {
	resp, err := route.platform.DeleteDatasource(c.Request.Context(), c.Param("datasource_id"))
	if err != nil {
		responses.HandleError(c, err, "failed to delete datasource")
		return
	}
	responses.WriteUpstream(c, resp.StatusCode, resp.ContentType, resp.Body)
}
