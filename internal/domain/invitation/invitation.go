// Package invitation implements invitation-code onboarding: code issuance
// with role gates, capacity and expiry tracking, redemption records and
// derived lifecycle status.
package invitation

import (
	"context"
	"time"

	"agenthub/services/agent-api/internal/domain/tenant"
)

// CodeType is the kind of membership an invitation grants.
type CodeType string

const (
	CodeTypeAdmin CodeType = "ADMIN_INVITE"
	CodeTypeDev   CodeType = "DEV_INVITE"
	CodeTypeUser  CodeType = "USER_INVITE"
)

// ValidCodeTypes lists the accepted invitation code types in gate order.
var ValidCodeTypes = []CodeType{CodeTypeAdmin, CodeTypeDev, CodeTypeUser}

// IsValid reports whether ct is an accepted code type.
func (ct CodeType) IsValid() bool {
	for _, valid := range ValidCodeTypes {
		if ct == valid {
			return true
		}
	}
	return false
}

// RoleGranted maps a code type to the membership role redeeming it grants.
func (ct CodeType) RoleGranted() tenant.Role {
	switch ct {
	case CodeTypeAdmin:
		return tenant.RoleAdmin
	case CodeTypeDev:
		return tenant.RoleDev
	default:
		return tenant.RoleUser
	}
}

// Status is the lifecycle state of an invitation. EXPIRE takes priority
// over RUN_OUT; both can recover to IN_USE when capacity is raised or the
// expiry extended.
type Status string

const (
	StatusInUse  Status = "IN_USE"
	StatusExpire Status = "EXPIRE"
	StatusRunOut Status = "RUN_OUT"
)

// Invitation is one invitation code. Codes are stored uppercase and unique
// across tenants.
type Invitation struct {
	ID        uint
	TenantID  string
	Code      string
	CodeType  CodeType
	GroupIDs  []int64
	Capacity  int
	ExpiresAt *time.Time
	Status    Status
	CreatedBy string
	UpdatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Record is one redemption of an invitation code.
type Record struct {
	ID           uint
	InvitationID uint
	UserID       string
	CreatedBy    string
	CreatedAt    time.Time
}

// ListFilter narrows and pages the invitation listing.
type ListFilter struct {
	TenantID  *string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// ListResult is one page of invitations with pagination totals.
type ListResult struct {
	Items      []*Invitation `json:"items"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
}

// UseResult reports a successful redemption.
type UseResult struct {
	InvitationRecordID uint     `json:"invitation_record_id"`
	InvitationCode     string   `json:"invitation_code"`
	UserID             string   `json:"user_id"`
	InvitationID       uint     `json:"invitation_id"`
	TenantID           string   `json:"tenant_id"`
	CodeType           CodeType `json:"code_type"`
	GroupIDs           []int64  `json:"group_ids"`
}

// Repository defines storage operations for invitations and their
// redemption records. Implementations filter soft-deleted rows.
type Repository interface {
	Create(ctx context.Context, inv *Invitation) error
	Update(ctx context.Context, inv *Invitation) error
	UpdateStatus(ctx context.Context, id uint, status Status, updatedBy string) error
	Delete(ctx context.Context, id uint, deletedBy string) error
	GetByID(ctx context.Context, id uint) (*Invitation, error)
	// GetByCode looks a code up case-sensitively; callers uppercase first.
	GetByCode(ctx context.Context, code string) (*Invitation, error)
	List(ctx context.Context, filter ListFilter) ([]*Invitation, int64, error)
	ListByStatus(ctx context.Context, status Status) ([]*Invitation, error)
	CountUsage(ctx context.Context, invitationID uint) (int64, error)
	CreateRecord(ctx context.Context, rec *Record) error
}
