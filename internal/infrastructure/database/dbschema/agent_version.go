package dbschema

import (
	"time"

	"agenthub/services/agent-api/internal/domain/agent"
	"agenthub/services/agent-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchema(AgentVersion{})
}

// ===============================================
// AgentVersion Schema
// ===============================================

// AgentVersion is one row of the append-only version registry: a single
// publish event for an agent.
type AgentVersion struct {
	BaseModel
	AgentID         uint       `gorm:"uniqueIndex:ux_agent_versions_publish;not null"`
	TenantID        string     `gorm:"uniqueIndex:ux_agent_versions_publish;size:64;not null"`
	VersionNo       int        `gorm:"uniqueIndex:ux_agent_versions_publish;not null"`
	VersionName     *string    `gorm:"size:255"`
	ReleaseNote     *string    `gorm:"type:text"`
	SourceType      string     `gorm:"size:16;not null;default:'NORMAL'"`
	SourceVersionNo *int       `gorm:""`
	Status          string     `gorm:"size:16;not null;default:'RELEASED'"`
	CreatedBy       string     `gorm:"size:64;not null;default:''"`
	UpdatedBy       string     `gorm:"size:64;not null;default:''"`
	DeletedAt       *time.Time `gorm:"index"`
}

// TableName specifies the table name for AgentVersion
func (AgentVersion) TableName() string {
	return "agent_api.agent_versions"
}

// ===============================================
// Conversion Methods
// ===============================================

// EtoD converts database schema to domain version (Entity to Domain)
func (v *AgentVersion) EtoD() *agent.Version {
	return &agent.Version{
		ID:              v.ID,
		AgentID:         v.AgentID,
		TenantID:        v.TenantID,
		VersionNo:       v.VersionNo,
		VersionName:     v.VersionName,
		ReleaseNote:     v.ReleaseNote,
		SourceType:      agent.SourceType(v.SourceType),
		SourceVersionNo: v.SourceVersionNo,
		Status:          agent.VersionStatus(v.Status),
		CreatedBy:       v.CreatedBy,
		UpdatedBy:       v.UpdatedBy,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
}

// NewSchemaAgentVersion creates a database schema from a domain version
func NewSchemaAgentVersion(v *agent.Version) *AgentVersion {
	return &AgentVersion{
		BaseModel: BaseModel{
			ID:        v.ID,
			CreatedAt: v.CreatedAt,
			UpdatedAt: v.UpdatedAt,
		},
		AgentID:         v.AgentID,
		TenantID:        v.TenantID,
		VersionNo:       v.VersionNo,
		VersionName:     v.VersionName,
		ReleaseNote:     v.ReleaseNote,
		SourceType:      string(v.SourceType),
		SourceVersionNo: v.SourceVersionNo,
		Status:          string(v.Status),
		CreatedBy:       v.CreatedBy,
		UpdatedBy:       v.UpdatedBy,
	}
}
