package dbschema

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"agenthub/services/agent-api/internal/domain/agent"
	"agenthub/services/agent-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchema(ToolInstance{})
}

// ===============================================
// ToolInstance Schema
// ===============================================

// ToolInstance binds a tool to one copy of an agent. Params holds the
// per-agent parameter overrides as jsonb.
type ToolInstance struct {
	BaseModel
	AgentID   uint           `gorm:"uniqueIndex:ux_tool_instances_binding;not null"`
	ToolID    uint           `gorm:"uniqueIndex:ux_tool_instances_binding;not null"`
	TenantID  string         `gorm:"uniqueIndex:ux_tool_instances_binding;size:64;not null"`
	UserID    string         `gorm:"size:64;not null;default:''"`
	VersionNo int            `gorm:"uniqueIndex:ux_tool_instances_binding;not null;default:0"`
	Enabled   bool           `gorm:"not null;default:true"`
	Params    datatypes.JSON `gorm:"type:jsonb"`
	CreatedBy string         `gorm:"size:64;not null;default:''"`
	UpdatedBy string         `gorm:"size:64;not null;default:''"`
	DeletedAt *time.Time     `gorm:"index"`
}

// TableName specifies the table name for ToolInstance
func (ToolInstance) TableName() string {
	return "agent_api.tool_instances"
}

// ===============================================
// Conversion Methods
// ===============================================

// EtoD converts database schema to domain tool instance (Entity to Domain)
func (ti *ToolInstance) EtoD() (*agent.ToolInstance, error) {
	var params map[string]any
	if len(ti.Params) > 0 {
		if err := json.Unmarshal(ti.Params, &params); err != nil {
			return nil, err
		}
	}

	return &agent.ToolInstance{
		ID:        ti.ID,
		AgentID:   ti.AgentID,
		ToolID:    ti.ToolID,
		TenantID:  ti.TenantID,
		UserID:    ti.UserID,
		Revision:  agent.RevisionFromNumber(ti.VersionNo),
		Enabled:   ti.Enabled,
		Params:    params,
		CreatedBy: ti.CreatedBy,
		UpdatedBy: ti.UpdatedBy,
		CreatedAt: ti.CreatedAt,
		UpdatedAt: ti.UpdatedAt,
	}, nil
}

// NewSchemaToolInstance creates a database schema from a domain tool instance
func NewSchemaToolInstance(ti *agent.ToolInstance) (*ToolInstance, error) {
	var params datatypes.JSON
	if len(ti.Params) > 0 {
		data, err := json.Marshal(ti.Params)
		if err != nil {
			return nil, err
		}
		params = datatypes.JSON(data)
	}

	return &ToolInstance{
		BaseModel: BaseModel{
			ID:        ti.ID,
			CreatedAt: ti.CreatedAt,
			UpdatedAt: ti.UpdatedAt,
		},
		AgentID:   ti.AgentID,
		ToolID:    ti.ToolID,
		TenantID:  ti.TenantID,
		UserID:    ti.UserID,
		VersionNo: ti.Revision.Number(),
		Enabled:   ti.Enabled,
		Params:    params,
		CreatedBy: ti.CreatedBy,
		UpdatedBy: ti.UpdatedBy,
	}, nil
}
