package toolhandler

import (
	"context"

	"agenthub/services/agent-api/internal/domain/tool"
	"agenthub/services/agent-api/internal/interfaces/httpserver/responses/toolres"
	"agenthub/services/agent-api/internal/utils/platformerrors"
)

type ToolHandler struct {
	toolService *tool.Service
}

func NewToolHandler(toolService *tool.Service) *ToolHandler {
	return &ToolHandler{
		toolService: toolService,
	}
}

// ListTools lists the tool catalog visible to a tenant, with optional
// source and availability filters
func (h *ToolHandler) ListTools(
	ctx context.Context,
	tenantID string,
	source *tool.Source,
	isAvailable *bool,
) (*toolres.ToolListResponse, error) {
	filter := tool.Filter{
		TenantID:    &tenantID,
		Source:      source,
		IsAvailable: isAvailable,
	}

	tools, err := h.toolService.List(ctx, filter)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to list tools")
	}

	return toolres.NewToolListResponse(tools), nil
}
