package modelhandler

import (
	"context"
	"strings"

	"agenthub/services/agent-api/internal/domain/modelregistry"
	"agenthub/services/agent-api/internal/infrastructure/metrics"
	"agenthub/services/agent-api/internal/interfaces/httpserver/requests/modelreq"
	"agenthub/services/agent-api/internal/interfaces/httpserver/responses/modelres"
	"agenthub/services/agent-api/internal/utils/platformerrors"
)

type ModelHandler struct {
	modelService *modelregistry.Service
}

func NewModelHandler(modelService *modelregistry.Service) *ModelHandler {
	return &ModelHandler{
		modelService: modelService,
	}
}

// ListModels lists the tenant's model endpoints. API keys are never echoed.
func (h *ModelHandler) ListModels(
	ctx context.Context,
	tenantID string,
) (*modelres.ModelListResponse, error) {
	configs, err := h.modelService.List(ctx, modelregistry.ModelConfigFilter{TenantID: &tenantID})
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to list models")
	}

	return modelres.NewModelListResponse(configs), nil
}

// RegisterModel registers a model endpoint, or patches the existing one when
// the tenant already has a config under the same name
func (h *ModelHandler) RegisterModel(
	ctx context.Context,
	tenantID string,
	userID string,
	req modelreq.UpsertModelConfigRequest,
) (*modelres.ModelConfigResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.BaseURL = strings.TrimSpace(req.BaseURL)

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	mc := &modelregistry.ModelConfig{
		TenantID:      tenantID,
		CreatedBy:     userID,
		Repo:          req.Repo,
		Name:          req.Name,
		DisplayName:   req.DisplayName,
		ModelType:     req.ModelType,
		BaseURL:       req.BaseURL,
		APIKey:        req.APIKey,
		MaxTokens:     req.MaxTokens,
		Enabled:       enabled,
		ParamDefaults: req.ParamDefaults,
	}

	existing, err := h.modelService.List(ctx, modelregistry.ModelConfigFilter{
		TenantID: &tenantID,
		Name:     &req.Name,
	})
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to look up model config")
	}

	var saved *modelregistry.ModelConfig
	if len(existing) > 0 {
		mc.PublicID = existing[0].PublicID
		saved, err = h.modelService.Update(ctx, mc)
	} else {
		saved, err = h.modelService.Create(ctx, mc)
	}
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to register model")
	}

	return modelres.NewModelConfigResponse(saved), nil
}

// CheckConnectivity probes a model endpoint and reports the persisted status
func (h *ModelHandler) CheckConnectivity(
	ctx context.Context,
	modelID string,
	tenantID string,
) (*modelres.ConnectivityResponse, error) {
	mc, err := h.modelService.Get(ctx, modelID, tenantID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "model not found")
	}

	status, err := h.modelService.CheckConnectivity(ctx, modelID, tenantID)
	if err != nil {
		metrics.RecordModelProbe("error")
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to check model connectivity")
	}

	metrics.RecordModelProbe("ok")
	metrics.SetModelEndpointHealth(mc.Name, status == modelregistry.ConnectStatusAvailable)

	return &modelres.ConnectivityResponse{
		ModelID:       modelID,
		ConnectStatus: status,
	}, nil
}
