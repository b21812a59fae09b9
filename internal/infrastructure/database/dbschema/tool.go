package dbschema

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"agenthub/services/agent-api/internal/domain/tool"
	"agenthub/services/agent-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchema(Tool{})
}

// ===============================================
// Tool Schema
// ===============================================

// Tool represents one catalog entry agents can bind to. Params holds the
// declared parameter schema as jsonb.
type Tool struct {
	BaseModel
	TenantID    string         `gorm:"uniqueIndex:ux_tools_tenant_name;size:64;not null"`
	Name        string         `gorm:"uniqueIndex:ux_tools_tenant_name;size:255;not null"`
	ClassName   string         `gorm:"size:255;not null;default:''"`
	Description string         `gorm:"type:text;not null;default:''"`
	Source      string         `gorm:"size:32;not null;default:'local'"`
	Inputs      string         `gorm:"type:text;not null;default:''"`
	OutputType  string         `gorm:"size:64;not null;default:''"`
	Usage       *string        `gorm:"type:text"`
	OriginName  *string        `gorm:"size:255"`
	Category    *string        `gorm:"size:128"`
	Params      datatypes.JSON `gorm:"type:jsonb"`
	IsAvailable bool           `gorm:"not null;default:true"`
	CreatedBy   string         `gorm:"size:64;not null;default:''"`
	UpdatedBy   string         `gorm:"size:64;not null;default:''"`
	DeletedAt   *time.Time     `gorm:"index"`
}

// TableName specifies the table name for Tool
func (Tool) TableName() string {
	return "agent_api.tools"
}

// ===============================================
// Conversion Methods
// ===============================================

// EtoD converts database schema to domain tool (Entity to Domain)
func (t *Tool) EtoD() (*tool.Tool, error) {
	var params []tool.Param
	if len(t.Params) > 0 {
		if err := json.Unmarshal(t.Params, &params); err != nil {
			return nil, err
		}
	}

	return &tool.Tool{
		ID:          t.ID,
		TenantID:    t.TenantID,
		Name:        t.Name,
		ClassName:   t.ClassName,
		Description: t.Description,
		Source:      tool.Source(t.Source),
		Inputs:      t.Inputs,
		OutputType:  t.OutputType,
		Usage:       t.Usage,
		OriginName:  t.OriginName,
		Category:    t.Category,
		Params:      params,
		IsAvailable: t.IsAvailable,
		CreatedBy:   t.CreatedBy,
		UpdatedBy:   t.UpdatedBy,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}, nil
}

// NewSchemaTool creates a database schema from a domain tool
func NewSchemaTool(t *tool.Tool) (*Tool, error) {
	var params datatypes.JSON
	if len(t.Params) > 0 {
		data, err := json.Marshal(t.Params)
		if err != nil {
			return nil, err
		}
		params = datatypes.JSON(data)
	}

	return &Tool{
		BaseModel: BaseModel{
			ID:        t.ID,
			CreatedAt: t.CreatedAt,
			UpdatedAt: t.UpdatedAt,
		},
		TenantID:    t.TenantID,
		Name:        t.Name,
		ClassName:   t.ClassName,
		Description: t.Description,
		Source:      string(t.Source),
		Inputs:      t.Inputs,
		OutputType:  t.OutputType,
		Usage:       t.Usage,
		OriginName:  t.OriginName,
		Category:    t.Category,
		Params:      params,
		IsAvailable: t.IsAvailable,
		CreatedBy:   t.CreatedBy,
		UpdatedBy:   t.UpdatedBy,
	}, nil
}
