package dbschema

import (
	"time"

	"agenthub/services/agent-api/internal/domain/tenant"
	"agenthub/services/agent-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchema(Group{})
}

// Group partitions members of a tenant for resource visibility. Group ids
// are referenced from bigint[] columns, so the key is int64 rather than the
// shared BaseModel.
type Group struct {
	ID        int64     `gorm:"primaryKey"`
	TenantID  string    `gorm:"uniqueIndex:ux_groups_tenant_name;size:64;not null"`
	Name      string    `gorm:"uniqueIndex:ux_groups_tenant_name;size:255;not null"`
	IsDefault bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for Group
func (Group) TableName() string {
	return "agent_api.groups"
}

// EtoD converts database schema to domain group (Entity to Domain)
func (g *Group) EtoD() *tenant.Group {
	return &tenant.Group{
		ID:        g.ID,
		TenantID:  g.TenantID,
		Name:      g.Name,
		IsDefault: g.IsDefault,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

// NewSchemaGroup creates a database schema from a domain group
func NewSchemaGroup(g *tenant.Group) *Group {
	return &Group{
		ID:        g.ID,
		TenantID:  g.TenantID,
		Name:      g.Name,
		IsDefault: g.IsDefault,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}
