package dbschema

import (
	"time"

	"agenthub/services/agent-api/internal/domain/agent"
	"agenthub/services/agent-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchema(AgentRelation{})
}

// ===============================================
// AgentRelation Schema
// ===============================================

// AgentRelation is a directed parent to sub-agent edge on one copy of an
// agent.
type AgentRelation struct {
	BaseModel
	ParentAgentID uint       `gorm:"uniqueIndex:ux_agent_relations_edge;not null"`
	SubAgentID    uint       `gorm:"uniqueIndex:ux_agent_relations_edge;not null"`
	TenantID      string     `gorm:"uniqueIndex:ux_agent_relations_edge;size:64;not null"`
	VersionNo     int        `gorm:"uniqueIndex:ux_agent_relations_edge;not null;default:0"`
	CreatedBy     string     `gorm:"size:64;not null;default:''"`
	DeletedAt     *time.Time `gorm:"index"`
}

// TableName specifies the table name for AgentRelation
func (AgentRelation) TableName() string {
	return "agent_api.agent_relations"
}

// ===============================================
// Conversion Methods
// ===============================================

// EtoD converts database schema to domain relation (Entity to Domain)
func (r *AgentRelation) EtoD() *agent.Relation {
	return &agent.Relation{
		ID:            r.ID,
		ParentAgentID: r.ParentAgentID,
		SubAgentID:    r.SubAgentID,
		TenantID:      r.TenantID,
		Revision:      agent.RevisionFromNumber(r.VersionNo),
		CreatedBy:     r.CreatedBy,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// NewSchemaAgentRelation creates a database schema from a domain relation
func NewSchemaAgentRelation(r *agent.Relation) *AgentRelation {
	return &AgentRelation{
		BaseModel: BaseModel{
			ID:        r.ID,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		},
		ParentAgentID: r.ParentAgentID,
		SubAgentID:    r.SubAgentID,
		TenantID:      r.TenantID,
		VersionNo:     r.Revision.Number(),
		CreatedBy:     r.CreatedBy,
	}
}
