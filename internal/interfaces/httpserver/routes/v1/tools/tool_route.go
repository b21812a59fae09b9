package tools

import (
	"github.com/gin-gonic/gin"

	"agenthub/services/agent-api/internal/domain/tool"
	"agenthub/services/agent-api/internal/interfaces/httpserver/handlers/authhandler"
	"agenthub/services/agent-api/internal/interfaces/httpserver/handlers/toolhandler"
	"agenthub/services/agent-api/internal/interfaces/httpserver/requests"
	"agenthub/services/agent-api/internal/interfaces/httpserver/responses"
	"agenthub/services/agent-api/internal/utils/platformerrors"
)

type ToolRoute struct {
	handler     *toolhandler.ToolHandler
	authHandler *authhandler.AuthHandler
}

func NewToolRoute(handler *toolhandler.ToolHandler, authHandler *authhandler.AuthHandler) *ToolRoute {
	return &ToolRoute{
		handler:     handler,
		authHandler: authHandler,
	}
}

// RegisterRoutes registers the tool catalog routes
func (r *ToolRoute) RegisterRoutes(rg *gin.RouterGroup) {
	tools := rg.Group("/tools")
	tools.GET("", r.authHandler.WithIdentityChain(r.listTools)...)
}

// listTools godoc
// @Summary List tools
// @Description List the tool catalog visible to the caller's workspace
// @Tags Tools API
// @Security BearerAuth
// @Produce json
// @Param source query string false "Filter by tool source (local, mcp, langchain)"
// @Param is_available query bool false "Filter by availability"
// @Success 200 {object} toolres.ToolListResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/tools [get]
func (r *ToolRoute) listTools(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	identity, ok := authhandler.GetIdentityFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "tool-list-001")
		return
	}

	var source *tool.Source
	if raw := reqCtx.Query("source"); raw != "" {
		s := tool.Source(raw)
		source = &s
	}

	isAvailable, err := requests.BoolQuery(reqCtx, "is_available")
	if err != nil {
		responses.HandleError(reqCtx, err, "Invalid is_available")
		return
	}

	response, err := r.handler.ListTools(ctx, identity.TenantID, source, isAvailable)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to list tools")
		return
	}

	reqCtx.JSON(200, response)
}
