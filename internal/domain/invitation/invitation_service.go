package invitation

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"agenthub/services/agent-api/internal/domain/tenant"
	"agenthub/services/agent-api/internal/utils/platformerrors"
)

const (
	codeAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength      = 6
	maxCodeAttempts = 100

	defaultPage     = 1
	defaultPageSize = 20
	maxPageSize     = 100
)

// sortFields whitelists the listing sort keys (wire names).
var sortFields = map[string]bool{
	"create_time":     true,
	"update_time":     true,
	"expiry_date":     true,
	"invitation_code": true,
}

// MemberDirectory exposes the membership facts invitation flows need.
type MemberDirectory interface {
	ResolveMember(ctx context.Context, userID string) (*tenant.Membership, error)
	DefaultGroupIDs(ctx context.Context, tenantID string) ([]int64, error)
}

// CreateInput carries a new invitation. Zero Capacity defaults to 1; nil
// GroupIDs derive from the code type.
type CreateInput struct {
	TenantID  string
	CodeType  CodeType
	Code      string
	GroupIDs  []int64
	Capacity  int
	ExpiresAt *time.Time
}

// UpdateInput is a partial invitation patch; nil fields are left untouched.
type UpdateInput struct {
	Capacity  *int
	ExpiresAt *time.Time
	GroupIDs  []int64
}

// Service implements invitation issuance, redemption and lifecycle.
type Service struct {
	repo    Repository
	members MemberDirectory
}

// NewService constructs an invitation Service.
func NewService(repo Repository, members MemberDirectory) *Service {
	return &Service{repo: repo, members: members}
}

// Create issues an invitation code. ADMIN_INVITE requires the SU role;
// DEV_INVITE and USER_INVITE require SU or ADMIN. Provided codes are
// uppercased and must be unique; absent codes are generated. Absent group
// ids derive from the code type: tenant default groups for ADMIN_INVITE,
// the creator's groups otherwise.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*Invitation, error) {
	if !in.CodeType.IsValid() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("Invalid code_type: %s. Must be one of %v", in.CodeType, ValidCodeTypes), nil,
			"0a1b2c3d-4e5f-4061-8293-a4b5c6d7e8f9")
	}

	member, err := s.members.ResolveMember(ctx, userID)
	if err != nil {
		return nil, err
	}
	role := roleOrDefault(member.Role)

	switch {
	case in.CodeType == CodeTypeAdmin && role != tenant.RoleSuper:
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnauthorized,
			fmt.Sprintf("User role %s not authorized to create ADMIN_INVITE codes", role), nil,
			"1b2c3d4e-5f60-4172-93a4-b5c6d7e8f90a")
	case in.CodeType != CodeTypeAdmin && role != tenant.RoleSuper && role != tenant.RoleAdmin:
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnauthorized,
			fmt.Sprintf("User role %s not authorized to create %s codes", role, in.CodeType), nil,
			"2c3d4e5f-6071-4283-a4b5-c6d7e8f90a1b")
	}

	groupIDs := in.GroupIDs
	if groupIDs == nil {
		if in.CodeType == CodeTypeAdmin {
			groupIDs, err = s.members.DefaultGroupIDs(ctx, in.TenantID)
			if err != nil {
				groupIDs = []int64{}
			}
		} else {
			groupIDs = member.GroupIDs
		}
		if groupIDs == nil {
			groupIDs = []int64{}
		}
	}

	code := strings.ToUpper(strings.TrimSpace(in.Code))
	if code == "" {
		code, err = s.generateUniqueCode(ctx)
		if err != nil {
			return nil, err
		}
	} else if existing, err := s.repo.GetByCode(ctx, code); err == nil && existing != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict,
			fmt.Sprintf("Invitation code '%s' already exists", code), nil,
			"3d4e5f60-7182-4394-b5c6-d7e8f90a1b2c")
	}

	capacity := in.Capacity
	if capacity <= 0 {
		capacity = 1
	}

	inv := &Invitation{
		TenantID:  in.TenantID,
		Code:      code,
		CodeType:  in.CodeType,
		GroupIDs:  groupIDs,
		Capacity:  capacity,
		ExpiresAt: in.ExpiresAt,
		Status:    StatusInUse,
		CreatedBy: userID,
		UpdatedBy: userID,
	}
	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create invitation")
	}

	// Expiry or capacity may be invalid from the start; persist the
	// derived status right away.
	if _, err := s.RefreshStatus(ctx, inv.ID); err == nil {
		if fresh, err := s.repo.GetByID(ctx, inv.ID); err == nil {
			inv = fresh
		}
	}
	return inv, nil
}

// Update patches capacity, expiry or groups of a code. SU or ADMIN only;
// at least one field must be provided. The persisted status is recomputed
// afterwards.
func (s *Service) Update(ctx context.Context, code, userID string, in UpdateInput) error {
	inv, err := s.getByCodeOrNotFound(ctx, code)
	if err != nil {
		return err
	}

	if err := s.requireAdmin(ctx, userID, "update"); err != nil {
		return err
	}

	if in.Capacity == nil && in.ExpiresAt == nil && in.GroupIDs == nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"No valid fields provided for update", nil, "4e5f6071-8293-44a5-86d7-e8f90a1b2c3d")
	}

	if in.Capacity != nil {
		if *in.Capacity < 1 {
			return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
				"capacity must be at least 1", nil, "5f607182-93a4-45b6-97e8-f90a1b2c3d4e")
		}
		inv.Capacity = *in.Capacity
	}
	if in.ExpiresAt != nil {
		inv.ExpiresAt = in.ExpiresAt
	}
	if in.GroupIDs != nil {
		inv.GroupIDs = in.GroupIDs
	}
	inv.UpdatedBy = userID

	if err := s.repo.Update(ctx, inv); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to update invitation")
	}

	_, _ = s.RefreshStatus(ctx, inv.ID)
	return nil
}

// Delete soft-deletes a code. SU or ADMIN only.
func (s *Service) Delete(ctx context.Context, code, userID string) error {
	inv, err := s.getByCodeOrNotFound(ctx, code)
	if err != nil {
		return err
	}

	if err := s.requireAdmin(ctx, userID, "delete"); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, inv.ID, userID); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to delete invitation")
	}
	return nil
}

// GetByCode returns the invitation with its status derived from the
// current expiry and usage, without persisting the derivation.
func (s *Service) GetByCode(ctx context.Context, code string) (*Invitation, error) {
	inv, err := s.getByCodeOrNotFound(ctx, code)
	if err != nil {
		return nil, err
	}
	inv.Status = s.deriveStatus(ctx, inv)
	return inv, nil
}

// Check reports whether a code exists at all.
func (s *Service) Check(ctx context.Context, code string) (bool, error) {
	inv, err := s.repo.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil || inv == nil {
		return false, nil
	}
	return true, nil
}

// Available reports whether a code can still be redeemed: stored status
// IN_USE and usage below capacity.
func (s *Service) Available(ctx context.Context, code string) (bool, error) {
	inv, err := s.repo.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil || inv == nil {
		return false, nil
	}
	if inv.Status != StatusInUse {
		return false, nil
	}
	usage, err := s.repo.CountUsage(ctx, inv.ID)
	if err != nil {
		return false, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to count invitation usage")
	}
	return usage < int64(inv.Capacity), nil
}

// Use redeems a code for a user: availability check, usage record, status
// recompute.
func (s *Service) Use(ctx context.Context, code, userID string) (*UseResult, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))

	available, err := s.Available(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("Invitation code %s is not available", normalized), nil,
			"60718293-a4b5-46c7-98f9-0a1b2c3d4e5f")
	}

	inv, err := s.repo.GetByCode(ctx, normalized)
	if err != nil || inv == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("Invitation code %s not found", normalized), err,
			"718293a4-b5c6-47d8-a90a-1b2c3d4e5f60")
	}

	rec := &Record{
		InvitationID: inv.ID,
		UserID:       userID,
		CreatedBy:    userID,
	}
	if err := s.repo.CreateRecord(ctx, rec); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to record invitation usage")
	}

	_, _ = s.RefreshStatus(ctx, inv.ID)

	return &UseResult{
		InvitationRecordID: rec.ID,
		InvitationCode:     normalized,
		UserID:             userID,
		InvitationID:       inv.ID,
		TenantID:           inv.TenantID,
		CodeType:           inv.CodeType,
		GroupIDs:           inv.GroupIDs,
	}, nil
}

// List pages the invitation registry. With a tenant filter SU or ADMIN may
// list; without one (all tenants) only SU may. Items carry derived status.
func (s *Service) List(ctx context.Context, userID string, filter ListFilter) (*ListResult, error) {
	member, err := s.members.ResolveMember(ctx, userID)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnauthorized,
			fmt.Sprintf("User %s not found", userID), err, "8293a4b5-c6d7-48e9-ba1b-2c3d4e5f6071")
	}
	role := roleOrDefault(member.Role)

	if filter.TenantID != nil && *filter.TenantID != "" {
		if role != tenant.RoleSuper && role != tenant.RoleAdmin {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnauthorized,
				fmt.Sprintf("User role %s not authorized to view invitation lists", role), nil,
				"93a4b5c6-d7e8-49f0-8b2c-3d4e5f607182")
		}
	} else if role != tenant.RoleSuper {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnauthorized,
			fmt.Sprintf("User role %s not authorized to view all tenant invitations", role), nil,
			"a4b5c6d7-e8f9-4a01-9c3d-4e5f60718293")
	}

	if filter.Page < 1 {
		filter.Page = defaultPage
	}
	if filter.PageSize < 1 {
		filter.PageSize = defaultPageSize
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}
	if filter.SortBy != "" && !sortFields[filter.SortBy] {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("Invalid sort_by field: %s", filter.SortBy), nil,
			"b5c6d7e8-f90a-4b12-8d4e-5f6071829304")
	}
	if filter.SortOrder != "" && filter.SortOrder != "asc" && filter.SortOrder != "desc" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("Invalid sort_order: %s", filter.SortOrder), nil,
			"c6d7e8f9-0a1b-4c23-9e5f-607182930415")
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list invitations")
	}

	for _, inv := range items {
		inv.Status = s.deriveStatus(ctx, inv)
	}

	totalPages := int((total + int64(filter.PageSize) - 1) / int64(filter.PageSize))
	return &ListResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	}, nil
}

// RefreshStatus recomputes an invitation's status from expiry and usage
// and persists it when it changed. Returns whether a write happened.
func (s *Service) RefreshStatus(ctx context.Context, invitationID uint) (bool, error) {
	inv, err := s.repo.GetByID(ctx, invitationID)
	if err != nil || inv == nil {
		return false, nil
	}

	next := s.deriveStatus(ctx, inv)
	if next == inv.Status {
		return false, nil
	}

	if err := s.repo.UpdateStatus(ctx, inv.ID, next, "system"); err != nil {
		return false, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to update invitation status")
	}
	return true, nil
}

// SweepStatuses refreshes every IN_USE invitation; run by the crontab.
// Per-invitation failures do not abort the sweep.
func (s *Service) SweepStatuses(ctx context.Context) (int, error) {
	active, err := s.repo.ListByStatus(ctx, StatusInUse)
	if err != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list active invitations")
	}

	changed := 0
	for _, inv := range active {
		updated, err := s.RefreshStatus(ctx, inv.ID)
		if err != nil {
			continue
		}
		if updated {
			changed++
		}
	}
	return changed, nil
}

// deriveStatus computes the current status: EXPIRE beats RUN_OUT, and a
// previously exhausted or expired code recovers to IN_USE when the
// condition no longer holds.
func (s *Service) deriveStatus(ctx context.Context, inv *Invitation) Status {
	status := StatusInUse
	if inv.ExpiresAt != nil && time.Now().After(*inv.ExpiresAt) {
		status = StatusExpire
	}
	if status == StatusInUse {
		if usage, err := s.repo.CountUsage(ctx, inv.ID); err == nil && usage >= int64(inv.Capacity) {
			status = StatusRunOut
		}
	}
	return status
}

// generateUniqueCode draws 6-character A-Z0-9 codes until one is free,
// giving up after 100 attempts.
func (s *Service) generateUniqueCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		buf := make([]byte, codeLength)
		if _, err := rand.Read(buf); err != nil {
			return "", platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to generate invitation code")
		}
		code := make([]byte, codeLength)
		for i, b := range buf {
			code[i] = codeAlphabet[int(b)%len(codeAlphabet)]
		}

		if existing, err := s.repo.GetByCode(ctx, string(code)); err != nil || existing == nil {
			return string(code), nil
		}
	}
	return "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
		fmt.Sprintf("Failed to generate unique invitation code after %d attempts", maxCodeAttempts), nil,
		"d7e8f90a-1b2c-4d34-8f60-718293041526")
}

// getByCodeOrNotFound uppercases and resolves a code.
func (s *Service) getByCodeOrNotFound(ctx context.Context, code string) (*Invitation, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	inv, err := s.repo.GetByCode(ctx, normalized)
	if err != nil || inv == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("Invitation code %s not found", normalized), err,
			"e8f90a1b-2c3d-4e45-a071-829304152637")
	}
	return inv, nil
}

// requireAdmin resolves the caller and enforces the SU/ADMIN gate shared
// by update and delete.
func (s *Service) requireAdmin(ctx context.Context, userID, action string) error {
	member, err := s.members.ResolveMember(ctx, userID)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnauthorized,
			fmt.Sprintf("User %s not found", userID), err, "f90a1b2c-3d4e-4f56-b182-930415263748")
	}
	role := roleOrDefault(member.Role)
	if role != tenant.RoleSuper && role != tenant.RoleAdmin {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnauthorized,
			fmt.Sprintf("User role %s not authorized to %s invitation codes", role, action), nil,
			"0a1b2c3d-4e5f-4667-92a4-051627384950")
	}
	return nil
}

func roleOrDefault(role tenant.Role) tenant.Role {
	if role == "" {
		return tenant.RoleUser
	}
	return role
}
