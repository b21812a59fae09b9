package admin

import (
	"github.com/gin-gonic/gin"

	"agenthub/services/agent-api/internal/domain/tenant"
	"agenthub/services/agent-api/internal/interfaces/httpserver/middlewares"
	adminmodel "agenthub/services/agent-api/internal/interfaces/httpserver/routes/v1/admin/model"
)

// AdminRoute aggregates all admin sub-routes behind the admin role gate
type AdminRoute struct {
	adminModelRoute *adminmodel.AdminModelRoute
	memberService   *tenant.Service
}

// NewAdminRoute creates a new AdminRoute
func NewAdminRoute(
	adminModelRoute *adminmodel.AdminModelRoute,
	memberService *tenant.Service,
) *AdminRoute {
	return &AdminRoute{
		adminModelRoute: adminModelRoute,
		memberService:   memberService,
	}
}

// RegisterRouter registers admin routes under /admin prefix
func (r *AdminRoute) RegisterRouter(router gin.IRouter) {
	adminGroup := router.Group("/admin")
	adminGroup.Use(middlewares.RequireAdmin(r.memberService))
	{
		r.adminModelRoute.RegisterRouter(adminGroup)
	}
}
