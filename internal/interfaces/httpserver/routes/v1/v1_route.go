package v1

import (
	"net/http"

	"agenthub/services/agent-api/internal/config"
	"agenthub/services/agent-api/internal/interfaces/httpserver/routes/v1/admin"
	"agenthub/services/agent-api/internal/interfaces/httpserver/routes/v1/agents"
	"agenthub/services/agent-api/internal/interfaces/httpserver/routes/v1/invitations"
	"agenthub/services/agent-api/internal/interfaces/httpserver/routes/v1/models"
	"agenthub/services/agent-api/internal/interfaces/httpserver/routes/v1/tools"

	"github.com/gin-gonic/gin"
)

type V1Route struct {
	agent      *agents.AgentRoute
	version    *agents.VersionRoute
	tool       *tools.ToolRoute
	model      *models.ModelRoute
	invitation *invitations.InvitationRoute
	adminRoute *admin.AdminRoute
}

func NewV1Route(
	agent *agents.AgentRoute,
	version *agents.VersionRoute,
	tool *tools.ToolRoute,
	model *models.ModelRoute,
	invitation *invitations.InvitationRoute,
	adminRoute *admin.AdminRoute,
) *V1Route {
	return &V1Route{
		agent,
		version,
		tool,
		model,
		invitation,
		adminRoute,
	}
}

func (v1Route *V1Route) RegisterRouter(router gin.IRouter) {
	v1Router := router.Group("/v1")
	v1Router.GET("/version", GetVersion)

	v1Route.agent.RegisterRoutes(v1Router)
	v1Route.version.RegisterRoutes(v1Router)
	v1Route.tool.RegisterRoutes(v1Router)
	v1Route.model.RegisterRoutes(v1Router)
	v1Route.invitation.RegisterRoutes(v1Router)
	v1Route.adminRoute.RegisterRouter(v1Router)
}

// RegisterPublicRouter registers endpoints that do not require authentication
func (v1Route *V1Route) RegisterPublicRouter(router gin.IRouter) {
	v1Router := router.Group("/v1")

	// Invitation lookups used by signup pages before a token exists
	v1Route.invitation.RegisterPublicRoutes(v1Router)
}

// GetVersion godoc
// @Summary Get API build version
// @Description Returns the current build version of the API server and environment reload timestamp.
// @Tags Server API
// @Produce json
// @Success 200 {object} map[string]string "Version information including version number and environment reload timestamp"
// @Router /v1/version [get]
func GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version":         config.Version,
		"env_reloaded_at": config.GetEnvReloadedAt().Format("2006-01-02T15:04:05Z07:00"),
	})
}
