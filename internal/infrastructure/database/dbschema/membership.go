package dbschema

import (
	"github.com/lib/pq"

	"agenthub/services/agent-api/internal/domain/tenant"
	"agenthub/services/agent-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchema(Membership{})
}

// Membership ties a user to a tenant with a role and group assignments.
type Membership struct {
	BaseModel
	UserID   string        `gorm:"uniqueIndex;size:64;not null"`
	TenantID string        `gorm:"index:idx_memberships_tenant;size:64;not null"`
	Role     string        `gorm:"size:16;not null;default:'USER'"`
	GroupIDs pq.Int64Array `gorm:"type:bigint[]"`
}

// TableName specifies the table name for Membership
func (Membership) TableName() string {
	return "agent_api.memberships"
}

// EtoD converts database schema to domain membership (Entity to Domain)
func (m *Membership) EtoD() *tenant.Membership {
	return &tenant.Membership{
		ID:        m.ID,
		UserID:    m.UserID,
		TenantID:  m.TenantID,
		Role:      tenant.Role(m.Role),
		GroupIDs:  []int64(m.GroupIDs),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// NewSchemaMembership creates a database schema from a domain membership
func NewSchemaMembership(m *tenant.Membership) *Membership {
	return &Membership{
		BaseModel: BaseModel{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		UserID:   m.UserID,
		TenantID: m.TenantID,
		Role:     string(m.Role),
		GroupIDs: pq.Int64Array(m.GroupIDs),
	}
}
