package dbschema

import (
	"time"

	"agenthub/services/agent-api/internal/domain/invitation"
	"agenthub/services/agent-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchema(InvitationRecord{})
}

// InvitationRecord is one successful use of an invitation code.
type InvitationRecord struct {
	ID           uint      `gorm:"primaryKey"`
	InvitationID uint      `gorm:"index:idx_invitation_records_invitation;not null"`
	UserID       string    `gorm:"size:64;not null"`
	CreatedBy    string    `gorm:"size:64;not null;default:''"`
	CreatedAt    time.Time `gorm:"not null"`
}

// TableName specifies the table name for InvitationRecord
func (InvitationRecord) TableName() string {
	return "agent_api.invitation_records"
}

// EtoD converts database schema to domain record (Entity to Domain)
func (r *InvitationRecord) EtoD() *invitation.Record {
	return &invitation.Record{
		ID:           r.ID,
		InvitationID: r.InvitationID,
		UserID:       r.UserID,
		CreatedBy:    r.CreatedBy,
		CreatedAt:    r.CreatedAt,
	}
}

// NewSchemaInvitationRecord creates a database schema from a domain record
func NewSchemaInvitationRecord(r *invitation.Record) *InvitationRecord {
	return &InvitationRecord{
		ID:           r.ID,
		InvitationID: r.InvitationID,
		UserID:       r.UserID,
		CreatedBy:    r.CreatedBy,
		CreatedAt:    r.CreatedAt,
	}
}
