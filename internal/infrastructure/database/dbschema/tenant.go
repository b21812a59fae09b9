package dbschema

import (
	"agenthub/services/agent-api/internal/domain/tenant"
	"agenthub/services/agent-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchema(Tenant{})
}

// Tenant is one workspace row. TenantID is the external identifier carried
// in tokens and requests.
type Tenant struct {
	BaseModel
	TenantID string `gorm:"uniqueIndex;size:64;not null"`
	Name     string `gorm:"size:255;not null;default:''"`
}

// TableName specifies the table name for Tenant
func (Tenant) TableName() string {
	return "agent_api.tenants"
}

// EtoD converts database schema to domain tenant (Entity to Domain)
func (t *Tenant) EtoD() *tenant.Tenant {
	return &tenant.Tenant{
		ID:        t.ID,
		TenantID:  t.TenantID,
		Name:      t.Name,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// NewSchemaTenant creates a database schema from a domain tenant
func NewSchemaTenant(t *tenant.Tenant) *Tenant {
	return &Tenant{
		BaseModel: BaseModel{
			ID:        t.ID,
			CreatedAt: t.CreatedAt,
			UpdatedAt: t.UpdatedAt,
		},
		TenantID: t.TenantID,
		Name:     t.Name,
	}
}
