package domain

import (
	"github.com/google/wire"

	"agenthub/services/agent-api/internal/config"
	"agenthub/services/agent-api/internal/domain/agent"
	"agenthub/services/agent-api/internal/domain/invitation"
	"agenthub/services/agent-api/internal/domain/modelregistry"
	"agenthub/services/agent-api/internal/domain/tenant"
	"agenthub/services/agent-api/internal/domain/tool"
)

// ServiceProvider provides all domain services
var ServiceProvider = wire.NewSet(
	// Tenant membership
	tenant.NewService,

	// Tool catalog
	tool.NewService,

	// Model registry
	ProvideModelRegistryConfig,
	modelregistry.NewService,

	// Agents and versions
	agent.NewAgentService,
	agent.NewVersionService,

	// Invitations
	invitation.NewService,

	// Cross-service ports
	ProvideToolCatalog,
	ProvideModelResolver,
	ProvideAgentMemberDirectory,
	ProvideInvitationMemberDirectory,
)

func ProvideModelRegistryConfig(cfg *config.Config) modelregistry.Config {
	return modelregistry.Config{
		KeySecret: cfg.ModelKeySecret,
	}
}

func ProvideToolCatalog(svc *tool.Service) agent.ToolCatalog {
	return svc
}

func ProvideModelResolver(svc *modelregistry.Service) agent.ModelResolver {
	return svc
}

func ProvideAgentMemberDirectory(svc *tenant.Service) agent.MemberDirectory {
	return svc
}

func ProvideInvitationMemberDirectory(svc *tenant.Service) invitation.MemberDirectory {
	return svc
}
