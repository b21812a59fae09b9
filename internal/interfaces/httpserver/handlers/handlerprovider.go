package handlers

import (
	"github.com/google/wire"

	"agenthub/services/agent-api/internal/interfaces/httpserver/handlers/agenthandler"
	"agenthub/services/agent-api/internal/interfaces/httpserver/handlers/authhandler"
	"agenthub/services/agent-api/internal/interfaces/httpserver/handlers/invitationhandler"
	"agenthub/services/agent-api/internal/interfaces/httpserver/handlers/modelhandler"
	"agenthub/services/agent-api/internal/interfaces/httpserver/handlers/toolhandler"
	"agenthub/services/agent-api/internal/interfaces/httpserver/handlers/versionhandler"
)

var HandlerProvider = wire.NewSet(
	authhandler.NewAuthHandler,
	agenthandler.NewAgentHandler,
	versionhandler.NewVersionHandler,
	toolhandler.NewToolHandler,
	modelhandler.NewModelHandler,
	invitationhandler.NewInvitationHandler,
)
