package repository

import (
	"agenthub/services/agent-api/internal/infrastructure/database/repository/agentrepo"
	"agenthub/services/agent-api/internal/infrastructure/database/repository/invitationrepo"
	"agenthub/services/agent-api/internal/infrastructure/database/repository/modelconfigrepo"
	"agenthub/services/agent-api/internal/infrastructure/database/repository/tenantrepo"
	"agenthub/services/agent-api/internal/infrastructure/database/repository/toolrepo"

	"github.com/google/wire"
)

var RepositoryProvider = wire.NewSet(
	agentrepo.NewAgentGormRepository,
	agentrepo.NewAgentVersionGormRepository,
	toolrepo.NewToolGormRepository,
	modelconfigrepo.NewModelConfigGormRepository,
	tenantrepo.NewTenantGormRepository,
	invitationrepo.NewInvitationGormRepository,
)
