package dbschema

import (
	"time"

	"github.com/lib/pq"

	"agenthub/services/agent-api/internal/domain/agent"
	"agenthub/services/agent-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchema(AgentInfo{})
}

// ===============================================
// AgentInfo Schema
// ===============================================

// AgentInfo represents one stored copy of an agent definition. VersionNo 0 is
// the mutable draft; positive numbers are immutable published snapshots.
type AgentInfo struct {
	BaseModel
	AgentID              uint          `gorm:"index:idx_agents_tenant_version;not null;default:0"`
	PublicID             string        `gorm:"size:64;not null;default:''"`
	TenantID             string        `gorm:"index:idx_agents_tenant_version;size:64;not null"`
	VersionNo            int           `gorm:"index:idx_agents_tenant_version;not null;default:0"`
	CurrentVersionNo     *int          `gorm:""`
	Name                 string        `gorm:"size:255;not null;default:''"`
	DisplayName          string        `gorm:"size:255;not null;default:''"`
	Description          *string       `gorm:"type:text"`
	BusinessDescription  *string       `gorm:"type:text"`
	Author               *string       `gorm:"size:255"`
	ModelID              *uint         `gorm:""`
	BusinessLogicModelID *uint         `gorm:""`
	MaxSteps             int           `gorm:"not null;default:5"`
	ProvideRunSummary    bool          `gorm:"not null;default:false"`
	DutyPrompt           *string       `gorm:"type:text"`
	ConstraintPrompt     *string       `gorm:"type:text"`
	FewShotsPrompt       *string       `gorm:"type:text"`
	Enabled              bool          `gorm:"not null;default:true"`
	IsNew                bool          `gorm:"not null;default:true"`
	GroupIDs             pq.Int64Array `gorm:"type:bigint[]"`
	CreatedBy            string        `gorm:"size:64;not null;default:''"`
	UpdatedBy            string        `gorm:"size:64;not null;default:''"`
	DeletedAt            *time.Time    `gorm:"index"`
}

// TableName specifies the table name for AgentInfo
func (AgentInfo) TableName() string {
	return "agent_api.agents"
}

// ===============================================
// Conversion Methods
// ===============================================

// EtoD converts database schema to domain agent (Entity to Domain)
func (a *AgentInfo) EtoD() *agent.Agent {
	return &agent.Agent{
		ID:                   a.ID,
		AgentID:              a.AgentID,
		PublicID:             a.PublicID,
		TenantID:             a.TenantID,
		Revision:             agent.RevisionFromNumber(a.VersionNo),
		CurrentVersionNo:     a.CurrentVersionNo,
		Name:                 a.Name,
		DisplayName:          a.DisplayName,
		Description:          a.Description,
		BusinessDescription:  a.BusinessDescription,
		Author:               a.Author,
		ModelID:              a.ModelID,
		BusinessLogicModelID: a.BusinessLogicModelID,
		MaxSteps:             a.MaxSteps,
		ProvideRunSummary:    a.ProvideRunSummary,
		DutyPrompt:           a.DutyPrompt,
		ConstraintPrompt:     a.ConstraintPrompt,
		FewShotsPrompt:       a.FewShotsPrompt,
		Enabled:              a.Enabled,
		IsNew:                a.IsNew,
		GroupIDs:             []int64(a.GroupIDs),
		CreatedBy:            a.CreatedBy,
		UpdatedBy:            a.UpdatedBy,
		CreatedAt:            a.CreatedAt,
		UpdatedAt:            a.UpdatedAt,
	}
}

// NewSchemaAgentInfo creates a database schema from a domain agent
func NewSchemaAgentInfo(a *agent.Agent) *AgentInfo {
	return &AgentInfo{
		BaseModel: BaseModel{
			ID:        a.ID,
			CreatedAt: a.CreatedAt,
			UpdatedAt: a.UpdatedAt,
		},
		AgentID:              a.AgentID,
		PublicID:             a.PublicID,
		TenantID:             a.TenantID,
		VersionNo:            a.Revision.Number(),
		CurrentVersionNo:     a.CurrentVersionNo,
		Name:                 a.Name,
		DisplayName:          a.DisplayName,
		Description:          a.Description,
		BusinessDescription:  a.BusinessDescription,
		Author:               a.Author,
		ModelID:              a.ModelID,
		BusinessLogicModelID: a.BusinessLogicModelID,
		MaxSteps:             a.MaxSteps,
		ProvideRunSummary:    a.ProvideRunSummary,
		DutyPrompt:           a.DutyPrompt,
		ConstraintPrompt:     a.ConstraintPrompt,
		FewShotsPrompt:       a.FewShotsPrompt,
		Enabled:              a.Enabled,
		IsNew:                a.IsNew,
		GroupIDs:             pq.Int64Array(a.GroupIDs),
		CreatedBy:            a.CreatedBy,
		UpdatedBy:            a.UpdatedBy,
	}
}
