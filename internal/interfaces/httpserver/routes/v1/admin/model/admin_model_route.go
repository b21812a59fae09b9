package model

import (
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"agenthub/services/agent-api/internal/interfaces/httpserver/handlers/authhandler"
	"agenthub/services/agent-api/internal/interfaces/httpserver/handlers/modelhandler"
	"agenthub/services/agent-api/internal/interfaces/httpserver/requests/modelreq"
	"agenthub/services/agent-api/internal/interfaces/httpserver/responses"
	"agenthub/services/agent-api/internal/utils/idgen"
	"agenthub/services/agent-api/internal/utils/platformerrors"
)

type AdminModelRoute struct {
	handler     *modelhandler.ModelHandler
	authHandler *authhandler.AuthHandler
	validate    *validator.Validate
}

func NewAdminModelRoute(handler *modelhandler.ModelHandler, authHandler *authhandler.AuthHandler) *AdminModelRoute {
	return &AdminModelRoute{
		handler:     handler,
		authHandler: authHandler,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRouter registers the admin model registry routes
func (r *AdminModelRoute) RegisterRouter(router *gin.RouterGroup) {
	models := router.Group("/models")
	models.POST("", r.authHandler.WithIdentityChain(r.registerModel)...)
	models.POST("/:model_id/check", r.authHandler.WithIdentityChain(r.checkConnectivity)...)
}

// registerModel godoc
// @Summary Register model
// @Description Register a model endpoint for the workspace, or patch the existing config with the same name
// @Tags Admin Model API
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body modelreq.UpsertModelConfigRequest true "Model endpoint definition"
// @Success 200 {object} modelres.ModelConfigResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/admin/models [post]
func (r *AdminModelRoute) registerModel(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	identity, ok := authhandler.GetIdentityFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "admin-model-001")
		return
	}

	var req modelreq.UpsertModelConfigRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid request body", "admin-model-002")
		return
	}
	if err := r.validate.Struct(req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, err.Error(), "admin-model-003")
		return
	}

	response, err := r.handler.RegisterModel(ctx, identity.TenantID, identity.UserID, req)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to register model")
		return
	}

	reqCtx.JSON(200, response)
}

// checkConnectivity godoc
// @Summary Check model connectivity
// @Description Probe a model endpoint and persist the resulting status
// @Tags Admin Model API
// @Security BearerAuth
// @Produce json
// @Param model_id path string true "Model ID"
// @Success 200 {object} modelres.ConnectivityResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/admin/models/{model_id}/check [post]
func (r *AdminModelRoute) checkConnectivity(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	identity, ok := authhandler.GetIdentityFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "admin-check-001")
		return
	}

	modelID := reqCtx.Param("model_id")
	if !idgen.ValidateIDFormat(modelID, "model") {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid model id", "admin-check-002")
		return
	}

	response, err := r.handler.CheckConnectivity(ctx, modelID, identity.TenantID)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to check model connectivity")
		return
	}

	reqCtx.JSON(200, response)
}
