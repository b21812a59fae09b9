package modelreq

import (
	decimal "github.com/shopspring/decimal"
)

// UpsertModelConfigRequest represents the request to register or patch a
// tenant model endpoint. The api key is stored encrypted and never echoed.
type UpsertModelConfigRequest struct {
	Repo          string                      `json:"repo,omitempty"`
	Name          string                      `json:"name" validate:"required"`
	DisplayName   string                      `json:"display_name,omitempty"`
	ModelType     string                      `json:"model_type,omitempty"`
	BaseURL       string                      `json:"base_url" validate:"required,url"`
	APIKey        string                      `json:"api_key,omitempty"`
	MaxTokens     int                         `json:"max_tokens,omitempty" validate:"omitempty,gte=0"`
	Enabled       *bool                       `json:"enabled,omitempty"`
	ParamDefaults map[string]*decimal.Decimal `json:"param_defaults,omitempty"`
}
