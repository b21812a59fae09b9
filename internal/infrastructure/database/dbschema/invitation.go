package dbschema

import (
	"time"

	"github.com/lib/pq"

	"agenthub/services/agent-api/internal/domain/invitation"
	"agenthub/services/agent-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchema(Invitation{})
}

// ===============================================
// Invitation Schema
// ===============================================

// Invitation is one onboarding code. Status holds the last persisted state;
// the service derives the effective state from expiry and usage on read.
type Invitation struct {
	BaseModel
	TenantID   string        `gorm:"index:idx_invitations_tenant;size:64;not null"`
	Code       string        `gorm:"column:invitation_code;uniqueIndex;size:32;not null"`
	CodeType   string        `gorm:"size:32;not null"`
	GroupIDs   pq.Int64Array `gorm:"type:bigint[]"`
	Capacity   int           `gorm:"not null;default:1"`
	ExpiryDate *time.Time    `gorm:"column:expiry_date"`
	Status     string        `gorm:"size:16;not null;default:'IN_USE'"`
	CreatedBy  string        `gorm:"size:64;not null;default:''"`
	UpdatedBy  string        `gorm:"size:64;not null;default:''"`
	DeletedAt  *time.Time    `gorm:"index"`
}

// TableName specifies the table name for Invitation
func (Invitation) TableName() string {
	return "agent_api.invitations"
}

// ===============================================
// Conversion Methods
// ===============================================

// EtoD converts database schema to domain invitation (Entity to Domain)
func (i *Invitation) EtoD() *invitation.Invitation {
	return &invitation.Invitation{
		ID:        i.ID,
		TenantID:  i.TenantID,
		Code:      i.Code,
		CodeType:  invitation.CodeType(i.CodeType),
		GroupIDs:  []int64(i.GroupIDs),
		Capacity:  i.Capacity,
		ExpiresAt: i.ExpiryDate,
		Status:    invitation.Status(i.Status),
		CreatedBy: i.CreatedBy,
		UpdatedBy: i.UpdatedBy,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

// NewSchemaInvitation creates a database schema from a domain invitation
func NewSchemaInvitation(i *invitation.Invitation) *Invitation {
	return &Invitation{
		BaseModel: BaseModel{
			ID:        i.ID,
			CreatedAt: i.CreatedAt,
			UpdatedAt: i.UpdatedAt,
		},
		TenantID:   i.TenantID,
		Code:       i.Code,
		CodeType:   string(i.CodeType),
		GroupIDs:   pq.Int64Array(i.GroupIDs),
		Capacity:   i.Capacity,
		ExpiryDate: i.ExpiresAt,
		Status:     string(i.Status),
		CreatedBy:  i.CreatedBy,
		UpdatedBy:  i.UpdatedBy,
	}
}
