package dbschema

import (
	"encoding/json"
	"time"

	decimal "github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"agenthub/services/agent-api/internal/domain/modelregistry"
	"agenthub/services/agent-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchema(ModelConfig{})
}

// ===============================================
// ModelConfig Schema
// ===============================================

// ModelConfig is a tenant-scoped model endpoint definition. APIKey is stored
// encrypted; the service layer seals and opens it.
type ModelConfig struct {
	BaseModel
	PublicID      string         `gorm:"uniqueIndex;size:64;not null"`
	TenantID      string         `gorm:"index:idx_model_configs_tenant;size:64;not null"`
	CreatedBy     string         `gorm:"size:64;not null;default:''"`
	Repo          string         `gorm:"size:255;not null;default:''"`
	Name          string         `gorm:"size:255;not null"`
	DisplayName   string         `gorm:"size:255;not null;default:''"`
	ModelType     string         `gorm:"size:64;not null;default:'llm'"`
	BaseURL       string         `gorm:"size:512;not null;default:''"`
	APIKey        string         `gorm:"type:text;not null;default:''"`
	MaxTokens     int            `gorm:"not null;default:0"`
	Enabled       bool           `gorm:"not null;default:true"`
	ConnectStatus string         `gorm:"size:32;not null;default:'not_detected'"`
	ParamDefaults datatypes.JSON `gorm:"type:jsonb"`
	DeletedAt     *time.Time     `gorm:"index"`
}

// TableName specifies the table name for ModelConfig
func (ModelConfig) TableName() string {
	return "agent_api.model_configs"
}

// ===============================================
// Conversion Methods
// ===============================================

// EtoD converts database schema to domain model config (Entity to Domain)
func (mc *ModelConfig) EtoD() (*modelregistry.ModelConfig, error) {
	var paramDefaults map[string]*decimal.Decimal
	if len(mc.ParamDefaults) > 0 {
		if err := json.Unmarshal(mc.ParamDefaults, &paramDefaults); err != nil {
			return nil, err
		}
	}

	return &modelregistry.ModelConfig{
		ID:            mc.ID,
		PublicID:      mc.PublicID,
		TenantID:      mc.TenantID,
		CreatedBy:     mc.CreatedBy,
		Repo:          mc.Repo,
		Name:          mc.Name,
		DisplayName:   mc.DisplayName,
		ModelType:     mc.ModelType,
		BaseURL:       mc.BaseURL,
		APIKey:        mc.APIKey,
		MaxTokens:     mc.MaxTokens,
		Enabled:       mc.Enabled,
		ConnectStatus: modelregistry.ConnectStatus(mc.ConnectStatus),
		ParamDefaults: paramDefaults,
		CreatedAt:     mc.CreatedAt,
		UpdatedAt:     mc.UpdatedAt,
	}, nil
}

// NewSchemaModelConfig creates a database schema from a domain model config
func NewSchemaModelConfig(mc *modelregistry.ModelConfig) (*ModelConfig, error) {
	var paramDefaults datatypes.JSON
	if len(mc.ParamDefaults) > 0 {
		data, err := json.Marshal(mc.ParamDefaults)
		if err != nil {
			return nil, err
		}
		paramDefaults = datatypes.JSON(data)
	}

	return &ModelConfig{
		BaseModel: BaseModel{
			ID:        mc.ID,
			CreatedAt: mc.CreatedAt,
			UpdatedAt: mc.UpdatedAt,
		},
		PublicID:      mc.PublicID,
		TenantID:      mc.TenantID,
		CreatedBy:     mc.CreatedBy,
		Repo:          mc.Repo,
		Name:          mc.Name,
		DisplayName:   mc.DisplayName,
		ModelType:     mc.ModelType,
		BaseURL:       mc.BaseURL,
		APIKey:        mc.APIKey,
		MaxTokens:     mc.MaxTokens,
		Enabled:       mc.Enabled,
		ConnectStatus: string(mc.ConnectStatus),
		ParamDefaults: paramDefaults,
	}, nil
}
