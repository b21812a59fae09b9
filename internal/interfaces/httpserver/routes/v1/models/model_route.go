package models

import (
	"github.com/gin-gonic/gin"

	"agenthub/services/agent-api/internal/interfaces/httpserver/handlers/authhandler"
	"agenthub/services/agent-api/internal/interfaces/httpserver/handlers/modelhandler"
	"agenthub/services/agent-api/internal/interfaces/httpserver/responses"
	"agenthub/services/agent-api/internal/utils/platformerrors"
)

type ModelRoute struct {
	handler     *modelhandler.ModelHandler
	authHandler *authhandler.AuthHandler
}

func NewModelRoute(handler *modelhandler.ModelHandler, authHandler *authhandler.AuthHandler) *ModelRoute {
	return &ModelRoute{
		handler:     handler,
		authHandler: authHandler,
	}
}

// RegisterRoutes registers the tenant model registry routes
func (r *ModelRoute) RegisterRoutes(rg *gin.RouterGroup) {
	models := rg.Group("/models")
	models.GET("", r.authHandler.WithIdentityChain(r.listModels)...)
}

// listModels godoc
// @Summary List models
// @Description List the workspace's model endpoints; api keys are never returned
// @Tags Models API
// @Security BearerAuth
// @Produce json
// @Success 200 {object} modelres.ModelListResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/models [get]
func (r *ModelRoute) listModels(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	identity, ok := authhandler.GetIdentityFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "model-list-001")
		return
	}

	response, err := r.handler.ListModels(ctx, identity.TenantID)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to list models")
		return
	}

	reqCtx.JSON(200, response)
}
