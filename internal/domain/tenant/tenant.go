// Package tenant provides workspace, group and membership domain models.
package tenant

import (
	"context"
	"time"
)

// Role is the platform-wide role a member holds inside a tenant.
type Role string

const (
	RoleSuper Role = "SU"
	RoleAdmin Role = "ADMIN"
	RoleDev   Role = "DEV"
	RoleUser  Role = "USER"
	// RoleSpeed is the implicit role of the single-workspace deployment mode
	// where auth is disabled.
	RoleSpeed Role = "SPEED"
)

// Permission levels reported by list endpoints.
const (
	PermissionEdit     = "EDIT"
	PermissionReadOnly = "READ_ONLY"
)

// CanEditAll reports whether the role may edit resources it does not own.
func (r Role) CanEditAll() bool {
	switch r {
	case RoleSuper, RoleAdmin, RoleSpeed:
		return true
	}
	return false
}

// PermissionFor resolves the permission a member has over a resource created
// by creatorID.
func PermissionFor(role Role, userID, creatorID string) string {
	if role.CanEditAll() || userID == creatorID {
		return PermissionEdit
	}
	return PermissionReadOnly
}

// Tenant is a workspace. TenantID is the external identifier carried in
// tokens and requests; ID is the internal surrogate key.
type Tenant struct {
	ID        uint
	TenantID  string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Group partitions members of a tenant for resource visibility. Default
// groups are the ones new invitation codes bind to when the creator has no
// groups of their own.
type Group struct {
	ID        int64
	TenantID  string
	Name      string
	IsDefault bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Membership ties a user to a tenant with a role and group assignments.
type Membership struct {
	ID        uint
	UserID    string
	TenantID  string
	Role      Role
	GroupIDs  []int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository defines storage operations for tenants, groups and memberships.
type Repository interface {
	GetTenant(ctx context.Context, tenantID string) (*Tenant, error)
	UpsertTenant(ctx context.Context, t *Tenant) (*Tenant, error)
	ListGroups(ctx context.Context, tenantID string) ([]*Group, error)
	ListDefaultGroups(ctx context.Context, tenantID string) ([]*Group, error)
	UpsertGroup(ctx context.Context, g *Group) (*Group, error)
	GetMembershipByUserID(ctx context.Context, userID string) (*Membership, error)
	UpsertMembership(ctx context.Context, m *Membership) (*Membership, error)
}
