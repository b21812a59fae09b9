package agenthandler

import (
	"context"
	"strings"

	"agenthub/services/agent-api/internal/domain/agent"
	"agenthub/services/agent-api/internal/infrastructure/metrics"
	"agenthub/services/agent-api/internal/interfaces/httpserver/requests/agentreq"
	"agenthub/services/agent-api/internal/interfaces/httpserver/responses/agentres"
	"agenthub/services/agent-api/internal/utils/platformerrors"
)

type AgentHandler struct {
	agentService *agent.AgentService
}

func NewAgentHandler(agentService *agent.AgentService) *AgentHandler {
	return &AgentHandler{
		agentService: agentService,
	}
}

// CreateAgent creates a new draft agent in the caller's tenant
func (h *AgentHandler) CreateAgent(
	ctx context.Context,
	tenantID string,
	userID string,
	req agentreq.CreateAgentRequest,
) (*agentres.AgentResponse, error) {
	// Trim and validate input
	req.Name = strings.TrimSpace(req.Name)
	req.DisplayName = strings.TrimSpace(req.DisplayName)

	created, err := h.agentService.Create(ctx, tenantID, userID, req.ToUpsertInput())
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to create agent")
	}

	return agentres.NewAgentResponse(created), nil
}

// UpdateAgent updates the draft revision of an agent
func (h *AgentHandler) UpdateAgent(
	ctx context.Context,
	agentID uint,
	tenantID string,
	userID string,
	req agentreq.UpdateAgentRequest,
) (*agentres.AgentResponse, error) {
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
	}
	if req.DisplayName != nil {
		trimmed := strings.TrimSpace(*req.DisplayName)
		req.DisplayName = &trimmed
	}

	updated, err := h.agentService.Update(ctx, agentID, tenantID, userID, req.ToUpsertInput())
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to update agent")
	}

	return agentres.NewAgentResponse(updated), nil
}

// GetAgent retrieves the draft detail of one agent with caller permission
func (h *AgentHandler) GetAgent(
	ctx context.Context,
	agentID uint,
	tenantID string,
	userID string,
) (*agent.Info, error) {
	info, err := h.agentService.SearchInfo(ctx, agentID, tenantID, userID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to get agent")
	}

	return info, nil
}

// DeleteAgent soft deletes an agent together with its revisions and bindings
func (h *AgentHandler) DeleteAgent(
	ctx context.Context,
	agentID uint,
	tenantID string,
	userID string,
) (*agentres.AgentDeletedResponse, error) {
	if err := h.agentService.Delete(ctx, agentID, tenantID, userID); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to delete agent")
	}

	return &agentres.AgentDeletedResponse{
		AgentID: agentID,
		Deleted: true,
	}, nil
}

// ListAgents lists the tenant's agents visible to the caller
func (h *AgentHandler) ListAgents(
	ctx context.Context,
	tenantID string,
	userID string,
) (*agentres.AgentListResponse, error) {
	summaries, err := h.agentService.List(ctx, tenantID, userID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to list agents")
	}

	return &agentres.AgentListResponse{
		Agents: summaries,
		Total:  len(summaries),
	}, nil
}

// ClearNewFlags clears the new-version badge on an agent's tool bindings
func (h *AgentHandler) ClearNewFlags(
	ctx context.Context,
	agentID uint,
	tenantID string,
	userID string,
) (*agentres.ClearNewResponse, error) {
	updated, err := h.agentService.ClearNew(ctx, agentID, tenantID, userID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to clear new flags")
	}

	return &agentres.ClearNewResponse{
		AgentID: agentID,
		Updated: updated,
	}, nil
}

// CheckNames checks a batch of candidate agent names for conflicts
func (h *AgentHandler) CheckNames(
	ctx context.Context,
	tenantID string,
	req agentreq.CheckNameRequest,
) (*agentres.CheckNameResponse, error) {
	results, err := h.agentService.CheckNames(ctx, tenantID, req.Agents)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to check agent names")
	}

	return &agentres.CheckNameResponse{Results: results}, nil
}

// SuggestNames produces conflict-free replacement names for a batch of agents
func (h *AgentHandler) SuggestNames(
	ctx context.Context,
	tenantID string,
	req agentreq.NameSuggestRequest,
) (*agentres.NameSuggestResponse, error) {
	results, err := h.agentService.RegenerateNames(ctx, tenantID, req.Agents)
	if err != nil {
		metrics.RecordSuggestion("error")
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to suggest agent names")
	}
	metrics.RecordSuggestion("ok")

	return &agentres.NameSuggestResponse{Results: results}, nil
}

// Relationship resolves the recursive sub-agent call tree of an agent
func (h *AgentHandler) Relationship(
	ctx context.Context,
	agentID uint,
	tenantID string,
) (*agent.CallNode, error) {
	node, err := h.agentService.CallRelationship(ctx, agentID, tenantID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to resolve agent relationships")
	}

	return node, nil
}

// ToolBindings lists the tools bound to an agent's draft revision
func (h *AgentHandler) ToolBindings(
	ctx context.Context,
	agentID uint,
	tenantID string,
) (*agentres.ToolBindingsResponse, error) {
	tools, err := h.agentService.ToolBindings(ctx, agentID, tenantID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to list tool bindings")
	}

	return &agentres.ToolBindingsResponse{
		AgentID: agentID,
		Tools:   tools,
	}, nil
}

// BindTool attaches or reconfigures one tool on an agent's draft revision
func (h *AgentHandler) BindTool(
	ctx context.Context,
	agentID uint,
	toolID uint,
	tenantID string,
	userID string,
	req agentreq.BindToolRequest,
) (*agentres.BindToolResponse, error) {
	if err := h.agentService.BindTool(ctx, agentID, toolID, tenantID, userID, req.Enabled, req.Params); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to bind tool")
	}

	return &agentres.BindToolResponse{
		AgentID: agentID,
		ToolID:  toolID,
		Enabled: req.Enabled,
	}, nil
}

// CreatingAgent returns a placeholder agent id for in-progress sub-agent edits
func (h *AgentHandler) CreatingAgent(
	ctx context.Context,
	tenantID string,
	userID string,
) (*agentres.CreatingAgentResponse, error) {
	agentID, err := h.agentService.CreatingSubAgentID(ctx, tenantID, userID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to reserve creating agent")
	}

	return &agentres.CreatingAgentResponse{AgentID: agentID}, nil
}

// ExportAgent serializes an agent and its sub-agents for transfer
func (h *AgentHandler) ExportAgent(
	ctx context.Context,
	agentID uint,
	tenantID string,
) (*agent.ExportPayload, error) {
	payload, err := h.agentService.Export(ctx, agentID, tenantID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to export agent")
	}

	return payload, nil
}

// ImportAgent recreates an exported agent tree inside the caller's tenant
func (h *AgentHandler) ImportAgent(
	ctx context.Context,
	tenantID string,
	userID string,
	req agentreq.ImportAgentRequest,
) (*agentres.ImportAgentResponse, error) {
	payload := &agent.ExportPayload{
		AgentID:   req.AgentID,
		AgentInfo: req.AgentInfo,
	}

	agentID, err := h.agentService.Import(ctx, tenantID, userID, payload, req.ForceImport)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to import agent")
	}

	return &agentres.ImportAgentResponse{AgentID: agentID}, nil
}
