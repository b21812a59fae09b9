package routes

import (
	v1 "agenthub/services/agent-api/internal/interfaces/httpserver/routes/v1"
	"agenthub/services/agent-api/internal/interfaces/httpserver/routes/v1/admin"
	adminModel "agenthub/services/agent-api/internal/interfaces/httpserver/routes/v1/admin/model"
	"agenthub/services/agent-api/internal/interfaces/httpserver/routes/v1/agents"
	"agenthub/services/agent-api/internal/interfaces/httpserver/routes/v1/invitations"
	"agenthub/services/agent-api/internal/interfaces/httpserver/routes/v1/models"
	"agenthub/services/agent-api/internal/interfaces/httpserver/routes/v1/tools"

	"github.com/google/wire"
)

var RouteProvider = wire.NewSet(
	v1.NewV1Route,
	admin.NewAdminRoute,
	adminModel.NewAdminModelRoute,
	agents.NewAgentRoute,
	agents.NewVersionRoute,
	tools.NewToolRoute,
	models.NewModelRoute,
	invitations.NewInvitationRoute,
)
