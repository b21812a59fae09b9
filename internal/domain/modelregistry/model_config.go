// Package modelregistry manages the per-tenant catalog of LLM endpoints
// agents run against.
package modelregistry

import (
	"context"
	"time"

	decimal "github.com/shopspring/decimal"
)

// ConnectStatus tracks the last connectivity probe result for a model.
type ConnectStatus string

const (
	ConnectStatusNotDetected ConnectStatus = "not_detected"
	ConnectStatusDetecting   ConnectStatus = "detecting"
	ConnectStatusAvailable   ConnectStatus = "available"
	ConnectStatusUnavailable ConnectStatus = "unavailable"
)

// ModelConfig is a tenant-scoped model endpoint definition. APIKey is held
// decrypted in memory only; the repository stores it encrypted.
type ModelConfig struct {
	ID            uint
	PublicID      string
	TenantID      string
	CreatedBy     string
	Repo          string
	Name          string
	DisplayName   string
	ModelType     string
	BaseURL       string
	APIKey        string
	MaxTokens     int
	Enabled       bool
	ConnectStatus ConnectStatus
	// ParamDefaults carries sampling defaults (temperature, top_p, ...)
	// applied when an agent omits them. Null values mean "provider default".
	ParamDefaults map[string]*decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ModelConfigFilter narrows repository lookups.
type ModelConfigFilter struct {
	TenantID      *string
	Name          *string
	ModelType     *string
	Enabled       *bool
	ConnectStatus *ConnectStatus
}

// Repository defines storage operations for model configs.
type Repository interface {
	Create(ctx context.Context, mc *ModelConfig) error
	Update(ctx context.Context, mc *ModelConfig) error
	Delete(ctx context.Context, publicID, tenantID string) error
	FindByPublicID(ctx context.Context, publicID, tenantID string) (*ModelConfig, error)
	FindByID(ctx context.Context, id uint) (*ModelConfig, error)
	FindByFilter(ctx context.Context, filter ModelConfigFilter) ([]*ModelConfig, error)
	UpdateConnectStatus(ctx context.Context, id uint, status ConnectStatus) error
}

// ConnectivityChecker probes whether a model endpoint answers.
type ConnectivityChecker interface {
	Check(ctx context.Context, mc *ModelConfig) error
}
