package modelres

import (
	decimal "github.com/shopspring/decimal"

	"agenthub/services/agent-api/internal/domain/modelregistry"
)

// ModelConfigResponse is the wire view of a tenant model endpoint. The api
// key never leaves the service.
type ModelConfigResponse struct {
	ModelID       string                      `json:"model_id"`
	Repo          string                      `json:"repo,omitempty"`
	Name          string                      `json:"name"`
	DisplayName   string                      `json:"display_name"`
	ModelType     string                      `json:"model_type"`
	BaseURL       string                      `json:"base_url"`
	MaxTokens     int                         `json:"max_tokens"`
	Enabled       bool                        `json:"enabled"`
	ConnectStatus string                      `json:"connect_status"`
	ParamDefaults map[string]*decimal.Decimal `json:"param_defaults,omitempty"`
	CreatedAt     int64                       `json:"create_time"`
	UpdatedAt     int64                       `json:"update_time"`
}

// NewModelConfigResponse creates a response from a domain model config
func NewModelConfigResponse(mc *modelregistry.ModelConfig) *ModelConfigResponse {
	return &ModelConfigResponse{
		ModelID:       mc.PublicID,
		Repo:          mc.Repo,
		Name:          mc.Name,
		DisplayName:   mc.DisplayName,
		ModelType:     mc.ModelType,
		BaseURL:       mc.BaseURL,
		MaxTokens:     mc.MaxTokens,
		Enabled:       mc.Enabled,
		ConnectStatus: string(mc.ConnectStatus),
		ParamDefaults: mc.ParamDefaults,
		CreatedAt:     mc.CreatedAt.Unix(),
		UpdatedAt:     mc.UpdatedAt.Unix(),
	}
}

// ModelListResponse lists the tenant's model endpoints
type ModelListResponse struct {
	Models []*ModelConfigResponse `json:"models"`
	Total  int                    `json:"total"`
}

// NewModelListResponse creates a list response from domain model configs
func NewModelListResponse(configs []*modelregistry.ModelConfig) *ModelListResponse {
	out := make([]*ModelConfigResponse, 0, len(configs))
	for _, mc := range configs {
		out = append(out, NewModelConfigResponse(mc))
	}
	return &ModelListResponse{Models: out, Total: len(out)}
}

// ConnectivityResponse reports the outcome of a connectivity probe
type ConnectivityResponse struct {
	ModelID       string `json:"model_id"`
	ConnectStatus string `json:"connect_status"`
}
