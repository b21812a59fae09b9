package tenant

import (
	"context"
	"fmt"

	"agenthub/services/agent-api/internal/utils/platformerrors"
)

// Service resolves member identity and group visibility for the rest of the
// platform.
type Service struct {
	repo Repository
}

// NewService constructs a Service with required dependencies.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ResolveMember returns the membership record for userID. Callers decide
// whether an unknown user is a not-found or an authorization failure.
func (s *Service) ResolveMember(ctx context.Context, userID string) (*Membership, error) {
	member, err := s.repo.GetMembershipByUserID(ctx, userID)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("User %s not found", userID), err, "0f3e9c21-46a1-4d38-8f24-2a5d5ab61c01")
	}
	return member, nil
}

// RoleOf returns the role of userID, RoleUser when the member has none set.
func (s *Service) RoleOf(ctx context.Context, userID string) (Role, error) {
	member, err := s.ResolveMember(ctx, userID)
	if err != nil {
		return "", err
	}
	if member.Role == "" {
		return RoleUser, nil
	}
	return member.Role, nil
}

// GroupIDsOf returns the group assignments of userID within their tenant.
func (s *Service) GroupIDsOf(ctx context.Context, userID string) ([]int64, error) {
	member, err := s.ResolveMember(ctx, userID)
	if err != nil {
		return nil, err
	}
	return member.GroupIDs, nil
}

// DefaultGroupIDs returns the ids of the tenant's default groups, empty when
// the tenant has none.
func (s *Service) DefaultGroupIDs(ctx context.Context, tenantID string) ([]int64, error) {
	groups, err := s.repo.ListDefaultGroups(ctx, tenantID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list default groups")
	}
	ids := make([]int64, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.ID)
	}
	return ids, nil
}

// EnsureTenant upserts a tenant row, used by startup seeding.
func (s *Service) EnsureTenant(ctx context.Context, tenantID, name string) (*Tenant, error) {
	t, err := s.repo.UpsertTenant(ctx, &Tenant{TenantID: tenantID, Name: name})
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to ensure tenant")
	}
	return t, nil
}

// EnsureGroup upserts a group row by (tenant, name), used by startup seeding.
func (s *Service) EnsureGroup(ctx context.Context, tenantID, name string, isDefault bool) (*Group, error) {
	g, err := s.repo.UpsertGroup(ctx, &Group{TenantID: tenantID, Name: name, IsDefault: isDefault})
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to ensure group")
	}
	return g, nil
}

// EnsureMembership upserts a membership row, used by invitation redemption
// and startup seeding.
func (s *Service) EnsureMembership(ctx context.Context, userID, tenantID string, role Role, groupIDs []int64) (*Membership, error) {
	m, err := s.repo.UpsertMembership(ctx, &Membership{
		UserID:   userID,
		TenantID: tenantID,
		Role:     role,
		GroupIDs: groupIDs,
	})
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to ensure membership")
	}
	return m, nil
}
