package agents

import (
	"github.com/gin-gonic/gin"

	"agenthub/services/agent-api/internal/interfaces/httpserver/handlers/authhandler"
	"agenthub/services/agent-api/internal/interfaces/httpserver/handlers/versionhandler"
	"agenthub/services/agent-api/internal/interfaces/httpserver/requests"
	"agenthub/services/agent-api/internal/interfaces/httpserver/requests/versionreq"
	"agenthub/services/agent-api/internal/interfaces/httpserver/responses"
	"agenthub/services/agent-api/internal/utils/platformerrors"
)

type VersionRoute struct {
	handler     *versionhandler.VersionHandler
	authHandler *authhandler.AuthHandler
}

func NewVersionRoute(handler *versionhandler.VersionHandler, authHandler *authhandler.AuthHandler) *VersionRoute {
	return &VersionRoute{
		handler:     handler,
		authHandler: authHandler,
	}
}

// RegisterRoutes registers the publish / rollback / versioning routes
func (r *VersionRoute) RegisterRoutes(rg *gin.RouterGroup) {
	agents := rg.Group("/agents")
	agents.GET("/published", r.authHandler.WithIdentityChain(r.publishedList)...)
	agents.POST("/:agent_id/publish", r.authHandler.WithIdentityChain(r.publish)...)
	agents.GET("/:agent_id/versions", r.authHandler.WithIdentityChain(r.listVersions)...)
	agents.GET("/:agent_id/versions/compare", r.authHandler.WithIdentityChain(r.compare)...)
	agents.GET("/:agent_id/versions/:version_no", r.authHandler.WithIdentityChain(r.getVersion)...)
	agents.GET("/:agent_id/versions/:version_no/detail", r.authHandler.WithIdentityChain(r.versionDetail)...)
	agents.POST("/:agent_id/versions/:version_no/rollback", r.authHandler.WithIdentityChain(r.rollback)...)
	agents.PATCH("/:agent_id/versions/:version_no/status", r.authHandler.WithIdentityChain(r.updateStatus)...)
	agents.PUT("/:agent_id/versions/:version_no", r.authHandler.WithIdentityChain(r.updateMetadata)...)
	agents.DELETE("/:agent_id/versions/:version_no", r.authHandler.WithIdentityChain(r.deleteVersion)...)
	agents.GET("/:agent_id/current_version", r.authHandler.WithIdentityChain(r.currentVersion)...)
}

// publishedList godoc
// @Summary List published agents
// @Description List agents with a published version visible to the caller
// @Tags Versions API
// @Security BearerAuth
// @Produce json
// @Success 200 {object} versionres.PublishedListResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/agents/published [get]
func (r *VersionRoute) publishedList(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	identity, ok := authhandler.GetIdentityFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "version-published-001")
		return
	}

	response, err := r.handler.PublishedList(ctx, identity.TenantID, identity.UserID)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to list published agents")
		return
	}

	reqCtx.JSON(200, response)
}

// publish godoc
// @Summary Publish agent version
// @Description Snapshot the agent draft into a new released version
// @Tags Versions API
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param agent_id path int true "Agent ID"
// @Param request body versionreq.PublishRequest false "Version name and release note"
// @Success 201 {object} agent.PublishResult
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/agents/{agent_id}/publish [post]
func (r *VersionRoute) publish(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	identity, ok := authhandler.GetIdentityFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "version-publish-001")
		return
	}

	agentID, err := requests.UintParam(reqCtx, "agent_id")
	if err != nil {
		responses.HandleError(reqCtx, err, "Invalid agent id")
		return
	}

	var req versionreq.PublishRequest
	if reqCtx.Request.ContentLength > 0 {
		if err := reqCtx.ShouldBindJSON(&req); err != nil {
			responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid request body", "version-publish-002")
			return
		}
	}

	response, err := r.handler.Publish(ctx, agentID, identity.TenantID, identity.UserID, req)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to publish version")
		return
	}

	reqCtx.JSON(201, response)
}

// listVersions godoc
// @Summary List versions
// @Description List the version registry rows of one agent, newest first
// @Tags Versions API
// @Security BearerAuth
// @Produce json
// @Param agent_id path int true "Agent ID"
// @Success 200 {object} versionres.VersionListResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/agents/{agent_id}/versions [get]
func (r *VersionRoute) listVersions(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	identity, ok := authhandler.GetIdentityFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "version-list-001")
		return
	}

	agentID, err := requests.UintParam(reqCtx, "agent_id")
	if err != nil {
		responses.HandleError(reqCtx, err, "Invalid agent id")
		return
	}

	response, err := r.handler.ListVersions(ctx, agentID, identity.TenantID)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to list versions")
		return
	}

	reqCtx.JSON(200, response)
}

// compare godoc
// @Summary Compare versions
// @Description Diff two versions of one agent field by field; version 0 means the draft
// @Tags Versions API
// @Security BearerAuth
// @Produce json
// @Param agent_id path int true "Agent ID"
// @Param version_a query int true "First version number"
// @Param version_b query int true "Second version number"
// @Success 200 {object} agent.Comparison
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/agents/{agent_id}/versions/compare [get]
func (r *VersionRoute) compare(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	identity, ok := authhandler.GetIdentityFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "version-compare-001")
		return
	}

	agentID, err := requests.UintParam(reqCtx, "agent_id")
	if err != nil {
		responses.HandleError(reqCtx, err, "Invalid agent id")
		return
	}

	versionA, err := requests.IntQuery(reqCtx, "version_a", -1)
	if err != nil {
		responses.HandleError(reqCtx, err, "Invalid version_a")
		return
	}
	versionB, err := requests.IntQuery(reqCtx, "version_b", -1)
	if err != nil {
		responses.HandleError(reqCtx, err, "Invalid version_b")
		return
	}
	if versionA < 0 || versionB < 0 {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "version_a and version_b are required", "version-compare-002")
		return
	}

	response, err := r.handler.Compare(ctx, agentID, identity.TenantID, versionA, versionB)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to compare versions")
		return
	}

	reqCtx.JSON(200, response)
}

// getVersion godoc
// @Summary Get version
// @Description Get one version registry row
// @Tags Versions API
// @Security BearerAuth
// @Produce json
// @Param agent_id path int true "Agent ID"
// @Param version_no path int true "Version number"
// @Success 200 {object} versionres.VersionResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/agents/{agent_id}/versions/{version_no} [get]
func (r *VersionRoute) getVersion(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	identity, ok := authhandler.GetIdentityFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "version-get-001")
		return
	}

	agentID, err := requests.UintParam(reqCtx, "agent_id")
	if err != nil {
		responses.HandleError(reqCtx, err, "Invalid agent id")
		return
	}

	versionNo, err := requests.UintParam(reqCtx, "version_no")
	if err != nil {
		responses.HandleError(reqCtx, err, "Invalid version number")
		return
	}

	response, err := r.handler.GetVersion(ctx, agentID, identity.TenantID, int(versionNo))
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to get version")
		return
	}

	reqCtx.JSON(200, response)
}

// versionDetail godoc
// @Summary Version detail
// @Description Resolve the full snapshot content behind one version
// @Tags Versions API
// @Security BearerAuth
// @Produce json
// @Param agent_id path int true "Agent ID"
// @Param version_no path int true "Version number"
// @Success 200 {object} agent.VersionDetail
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/agents/{agent_id}/versions/{version_no}/detail [get]
func (r *VersionRoute) versionDetail(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	identity, ok := authhandler.GetIdentityFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "version-detail-001")
		return
	}

	agentID, err := requests.UintParam(reqCtx, "agent_id")
	if err != nil {
		responses.HandleError(reqCtx, err, "Invalid agent id")
		return
	}

	versionNo, err := requests.UintParam(reqCtx, "version_no")
	if err != nil {
		responses.HandleError(reqCtx, err, "Invalid version number")
		return
	}

	response, err := r.handler.VersionDetail(ctx, agentID, identity.TenantID, int(versionNo))
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to get version detail")
		return
	}

	reqCtx.JSON(200, response)
}

// rollback godoc
// @Summary Rollback version
// @Description Repoint the agent draft at an older released version
// @Tags Versions API
// @Security BearerAuth
// @Produce json
// @Param agent_id path int true "Agent ID"
// @Param version_no path int true "Target version number"
// @Success 200 {object} agent.RollbackResult
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/agents/{agent_id}/versions/{version_no}/rollback [post]
func (r *VersionRoute) rollback(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	identity, ok := authhandler.GetIdentityFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "version-rollback-001")
		return
	}

	agentID, err := requests.UintParam(reqCtx, "agent_id")
	if err != nil {
		responses.HandleError(reqCtx, err, "Invalid agent id")
		return
	}

	versionNo, err := requests.UintParam(reqCtx, "version_no")
	if err != nil {
		responses.HandleError(reqCtx, err, "Invalid version number")
		return
	}

	response, err := r.handler.Rollback(ctx, agentID, identity.TenantID, int(versionNo))
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to rollback version")
		return
	}

	reqCtx.JSON(200, response)
}

// updateStatus godoc
// @Summary Update version status
// @Description Disable or archive a published version
// @Tags Versions API
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param agent_id path int true "Agent ID"
// @Param version_no path int true "Version number"
// @Param request body versionreq.UpdateStatusRequest true "Target status"
// @Success 200 {object} versionres.VersionUpdatedResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/agents/{agent_id}/versions/{version_no}/status [patch]
func (r *VersionRoute) updateStatus(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	identity, ok := authhandler.GetIdentityFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "version-status-001")
		return
	}

	agentID, err := requests.UintParam(reqCtx, "agent_id")
	if err != nil {
		responses.HandleError(reqCtx, err, "Invalid agent id")
		return
	}

	versionNo, err := requests.UintParam(reqCtx, "version_no")
	if err != nil {
		responses.HandleError(reqCtx, err, "Invalid version number")
		return
	}

	var req versionreq.UpdateStatusRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid request body", "version-status-002")
		return
	}

	response, err := r.handler.UpdateStatus(ctx, agentID, identity.TenantID, identity.UserID, int(versionNo), req)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to update version status")
		return
	}

	reqCtx.JSON(200, response)
}

// updateMetadata godoc
// @Summary Update version metadata
// @Description Edit the name and release note of a published version
// @Tags Versions API
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param agent_id path int true "Agent ID"
// @Param version_no path int true "Version number"
// @Param request body versionreq.UpdateMetadataRequest true "Version name and release note"
// @Success 200 {object} versionres.VersionUpdatedResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/agents/{agent_id}/versions/{version_no} [put]
func (r *VersionRoute) updateMetadata(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	identity, ok := authhandler.GetIdentityFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "version-meta-001")
		return
	}

	agentID, err := requests.UintParam(reqCtx, "agent_id")
	if err != nil {
		responses.HandleError(reqCtx, err, "Invalid agent id")
		return
	}

	versionNo, err := requests.UintParam(reqCtx, "version_no")
	if err != nil {
		responses.HandleError(reqCtx, err, "Invalid version number")
		return
	}

	var req versionreq.UpdateMetadataRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid request body", "version-meta-002")
		return
	}

	response, err := r.handler.UpdateMetadata(ctx, agentID, identity.TenantID, identity.UserID, int(versionNo), req)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to update version")
		return
	}

	reqCtx.JSON(200, response)
}

// deleteVersion godoc
// @Summary Delete version
// @Description Soft-delete a version registry row and its snapshot
// @Tags Versions API
// @Security BearerAuth
// @Produce json
// @Param agent_id path int true "Agent ID"
// @Param version_no path int true "Version number"
// @Success 200 {object} versionres.VersionDeletedResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/agents/{agent_id}/versions/{version_no} [delete]
func (r *VersionRoute) deleteVersion(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	identity, ok := authhandler.GetIdentityFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "version-delete-001")
		return
	}

	agentID, err := requests.UintParam(reqCtx, "agent_id")
	if err != nil {
		responses.HandleError(reqCtx, err, "Invalid agent id")
		return
	}

	versionNo, err := requests.UintParam(reqCtx, "version_no")
	if err != nil {
		responses.HandleError(reqCtx, err, "Invalid version number")
		return
	}

	response, err := r.handler.DeleteVersion(ctx, agentID, identity.TenantID, identity.UserID, int(versionNo))
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to delete version")
		return
	}

	reqCtx.JSON(200, response)
}

// currentVersion godoc
// @Summary Current version
// @Description Report which released version the draft currently points at
// @Tags Versions API
// @Security BearerAuth
// @Produce json
// @Param agent_id path int true "Agent ID"
// @Success 200 {object} agent.CurrentVersion
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/agents/{agent_id}/current_version [get]
func (r *VersionRoute) currentVersion(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	identity, ok := authhandler.GetIdentityFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "version-current-001")
		return
	}

	agentID, err := requests.UintParam(reqCtx, "agent_id")
	if err != nil {
		responses.HandleError(reqCtx, err, "Invalid agent id")
		return
	}

	response, err := r.handler.CurrentVersion(ctx, agentID, identity.TenantID)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to get current version")
		return
	}

	reqCtx.JSON(200, response)
}
