package invitation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"agenthub/services/agent-api/internal/domain/tenant"
	"agenthub/services/agent-api/internal/utils/platformerrors"
)

// fakeInvitationRepo is an in-memory Repository. Missing rows read as
// (nil, nil); listings keep insertion order.
type fakeInvitationRepo struct {
	nextID      uint
	invitations []*Invitation
	records     []*Record
	deleted     map[uint]bool
}

func newFakeInvitationRepo() *fakeInvitationRepo {
	return &fakeInvitationRepo{deleted: make(map[uint]bool)}
}

func (f *fakeInvitationRepo) Create(ctx context.Context, inv *Invitation) error {
	f.nextID++
	inv.ID = f.nextID
	inv.CreatedAt = time.Now()
	inv.UpdatedAt = inv.CreatedAt
	f.invitations = append(f.invitations, inv)
	return nil
}

func (f *fakeInvitationRepo) Update(ctx context.Context, inv *Invitation) error {
	stored, _ := f.GetByID(ctx, inv.ID)
	if stored == nil {
		return fmt.Errorf("invitation %d not found", inv.ID)
	}
	if stored != inv {
		*stored = *inv
	}
	return nil
}

func (f *fakeInvitationRepo) UpdateStatus(ctx context.Context, id uint, status Status, updatedBy string) error {
	stored, _ := f.GetByID(ctx, id)
	if stored == nil {
		return fmt.Errorf("invitation %d not found", id)
	}
	stored.Status = status
	stored.UpdatedBy = updatedBy
	return nil
}

func (f *fakeInvitationRepo) Delete(ctx context.Context, id uint, deletedBy string) error {
	f.deleted[id] = true
	return nil
}

func (f *fakeInvitationRepo) GetByID(ctx context.Context, id uint) (*Invitation, error) {
	for _, inv := range f.invitations {
		if inv.ID == id && !f.deleted[inv.ID] {
			return inv, nil
		}
	}
	return nil, nil
}

func (f *fakeInvitationRepo) GetByCode(ctx context.Context, code string) (*Invitation, error) {
	for _, inv := range f.invitations {
		if inv.Code == code && !f.deleted[inv.ID] {
			return inv, nil
		}
	}
	return nil, nil
}

func (f *fakeInvitationRepo) List(ctx context.Context, filter ListFilter) ([]*Invitation, int64, error) {
	var matched []*Invitation
	for _, inv := range f.invitations {
		if f.deleted[inv.ID] {
			continue
		}
		if filter.TenantID != nil && *filter.TenantID != "" && inv.TenantID != *filter.TenantID {
			continue
		}
		matched = append(matched, inv)
	}
	total := int64(len(matched))

	offset := (filter.Page - 1) * filter.PageSize
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + filter.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (f *fakeInvitationRepo) ListByStatus(ctx context.Context, status Status) ([]*Invitation, error) {
	var out []*Invitation
	for _, inv := range f.invitations {
		if !f.deleted[inv.ID] && inv.Status == status {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (f *fakeInvitationRepo) CountUsage(ctx context.Context, invitationID uint) (int64, error) {
	var count int64
	for _, rec := range f.records {
		if rec.InvitationID == invitationID {
			count++
		}
	}
	return count, nil
}

func (f *fakeInvitationRepo) CreateRecord(ctx context.Context, rec *Record) error {
	f.nextID++
	rec.ID = f.nextID
	rec.CreatedAt = time.Now()
	f.records = append(f.records, rec)
	return nil
}

// fakeDirectory resolves memberships from a fixed map.
type fakeDirectory struct {
	members       map[string]*tenant.Membership
	defaultGroups []int64
}

func (f *fakeDirectory) ResolveMember(ctx context.Context, userID string) (*tenant.Membership, error) {
	m, ok := f.members[userID]
	if !ok {
		return nil, fmt.Errorf("membership for %s not found", userID)
	}
	return m, nil
}

func (f *fakeDirectory) DefaultGroupIDs(ctx context.Context, tenantID string) ([]int64, error) {
	return f.defaultGroups, nil
}

func newTestService() (*Service, *fakeInvitationRepo, *fakeDirectory) {
	repo := newFakeInvitationRepo()
	dir := &fakeDirectory{
		members: map[string]*tenant.Membership{
			"su-1":    {UserID: "su-1", TenantID: "ws-1", Role: tenant.RoleSuper, GroupIDs: []int64{3, 4}},
			"admin-1": {UserID: "admin-1", TenantID: "ws-1", Role: tenant.RoleAdmin, GroupIDs: []int64{5}},
			"user-1":  {UserID: "user-1", TenantID: "ws-1", Role: tenant.RoleUser},
		},
		defaultGroups: []int64{1, 2},
	}
	return NewService(repo, dir), repo, dir
}

func expectErrorType(t *testing.T, err error, want platformerrors.ErrorType) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	var perr *platformerrors.PlatformError
	if !errors.As(err, &perr) {
		t.Fatalf("expected platform error, got %v", err)
	}
	if perr.Type != want {
		t.Fatalf("expected error type %s, got %s: %v", want, perr.Type, err)
	}
}

func timePtr(tm time.Time) *time.Time { return &tm }

func intPtr(i int) *int { return &i }

func TestCreateGeneratesCode(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	inv, err := svc.Create(ctx, "su-1", CreateInput{TenantID: "ws-1", CodeType: CodeTypeDev})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(inv.Code) != 6 {
		t.Fatalf("expected 6-character code, got %q", inv.Code)
	}
	for _, r := range inv.Code {
		if !strings.ContainsRune(codeAlphabet, r) {
			t.Fatalf("unexpected character %q in code %q", r, inv.Code)
		}
	}
	if inv.Status != StatusInUse {
		t.Fatalf("expected IN_USE, got %s", inv.Status)
	}
	if inv.Capacity != 1 {
		t.Fatalf("expected capacity default 1, got %d", inv.Capacity)
	}
	// DEV_INVITE groups follow the creator.
	if len(inv.GroupIDs) != 2 || inv.GroupIDs[0] != 3 || inv.GroupIDs[1] != 4 {
		t.Fatalf("expected creator groups, got %v", inv.GroupIDs)
	}
	if inv.CreatedBy != "su-1" {
		t.Fatalf("expected creator recorded, got %q", inv.CreatedBy)
	}
}

func TestCreateRoleGates(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "admin-1", CreateInput{TenantID: "ws-1", CodeType: CodeTypeAdmin})
	expectErrorType(t, err, platformerrors.ErrorTypeUnauthorized)

	inv, err := svc.Create(ctx, "su-1", CreateInput{TenantID: "ws-1", CodeType: CodeTypeAdmin})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// ADMIN_INVITE groups default to the tenant's default groups.
	if len(inv.GroupIDs) != 2 || inv.GroupIDs[0] != 1 || inv.GroupIDs[1] != 2 {
		t.Fatalf("expected tenant default groups, got %v", inv.GroupIDs)
	}

	_, err = svc.Create(ctx, "user-1", CreateInput{TenantID: "ws-1", CodeType: CodeTypeUser})
	expectErrorType(t, err, platformerrors.ErrorTypeUnauthorized)

	if _, err := svc.Create(ctx, "admin-1", CreateInput{TenantID: "ws-1", CodeType: CodeTypeUser}); err != nil {
		t.Fatalf("unexpected error for admin USER_INVITE: %v", err)
	}

	_, err = svc.Create(ctx, "su-1", CreateInput{TenantID: "ws-1", CodeType: "PARTY_INVITE"})
	expectErrorType(t, err, platformerrors.ErrorTypeValidation)
}

func TestCreateNormalizesAndRejectsDuplicateCodes(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	inv, err := svc.Create(ctx, "su-1", CreateInput{
		TenantID: "ws-1",
		CodeType: CodeTypeUser,
		Code:     "  welcome1 ",
		GroupIDs: []int64{9},
		Capacity: 10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.Code != "WELCOME1" {
		t.Fatalf("expected uppercased code, got %q", inv.Code)
	}
	if len(inv.GroupIDs) != 1 || inv.GroupIDs[0] != 9 {
		t.Fatalf("expected explicit groups kept, got %v", inv.GroupIDs)
	}
	if inv.Capacity != 10 {
		t.Fatalf("expected capacity 10, got %d", inv.Capacity)
	}

	_, err = svc.Create(ctx, "su-1", CreateInput{TenantID: "ws-1", CodeType: CodeTypeUser, Code: "welcome1"})
	expectErrorType(t, err, platformerrors.ErrorTypeConflict)
}

func TestCreateAlreadyExpired(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	inv, err := svc.Create(ctx, "su-1", CreateInput{
		TenantID:  "ws-1",
		CodeType:  CodeTypeUser,
		ExpiresAt: timePtr(time.Now().Add(-time.Hour)),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.Status != StatusExpire {
		t.Fatalf("expected EXPIRE persisted on creation, got %s", inv.Status)
	}
}

func TestUpdateValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, _ := svc.Create(ctx, "su-1", CreateInput{TenantID: "ws-1", CodeType: CodeTypeUser})

	err := svc.Update(ctx, "NOSUCH", "su-1", UpdateInput{Capacity: intPtr(2)})
	expectErrorType(t, err, platformerrors.ErrorTypeNotFound)

	err = svc.Update(ctx, created.Code, "user-1", UpdateInput{Capacity: intPtr(2)})
	expectErrorType(t, err, platformerrors.ErrorTypeUnauthorized)

	err = svc.Update(ctx, created.Code, "su-1", UpdateInput{})
	expectErrorType(t, err, platformerrors.ErrorTypeValidation)

	err = svc.Update(ctx, created.Code, "su-1", UpdateInput{Capacity: intPtr(0)})
	expectErrorType(t, err, platformerrors.ErrorTypeValidation)
}

func TestUpdateRecoversExhaustedCode(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	created, _ := svc.Create(ctx, "su-1", CreateInput{TenantID: "ws-1", CodeType: CodeTypeUser, Capacity: 1})

	if _, err := svc.Use(ctx, created.Code, "newcomer-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored, _ := repo.GetByID(ctx, created.ID)
	if stored.Status != StatusRunOut {
		t.Fatalf("expected RUN_OUT after exhausting capacity, got %s", stored.Status)
	}

	// Raising capacity brings the code back.
	if err := svc.Update(ctx, created.Code, "admin-1", UpdateInput{Capacity: intPtr(5)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored, _ = repo.GetByID(ctx, created.ID)
	if stored.Status != StatusInUse {
		t.Fatalf("expected IN_USE after raising capacity, got %s", stored.Status)
	}
	if stored.Capacity != 5 {
		t.Fatalf("expected capacity 5, got %d", stored.Capacity)
	}
}

func TestDelete(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, _ := svc.Create(ctx, "su-1", CreateInput{TenantID: "ws-1", CodeType: CodeTypeUser})

	err := svc.Delete(ctx, created.Code, "user-1")
	expectErrorType(t, err, platformerrors.ErrorTypeUnauthorized)

	if err := svc.Delete(ctx, created.Code, "admin-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.GetByCode(ctx, created.Code)
	expectErrorType(t, err, platformerrors.ErrorTypeNotFound)
}

func TestCheckAndAvailable(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, _ := svc.Create(ctx, "su-1", CreateInput{TenantID: "ws-1", CodeType: CodeTypeUser, Capacity: 1})

	exists, err := svc.Check(ctx, strings.ToLower(created.Code))
	if err != nil || !exists {
		t.Fatalf("expected code to exist, got %v (%v)", exists, err)
	}
	exists, _ = svc.Check(ctx, "NOSUCH")
	if exists {
		t.Fatalf("expected missing code to report false")
	}

	available, err := svc.Available(ctx, created.Code)
	if err != nil || !available {
		t.Fatalf("expected fresh code available, got %v (%v)", available, err)
	}

	if _, err := svc.Use(ctx, created.Code, "newcomer-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	available, _ = svc.Available(ctx, created.Code)
	if available {
		t.Fatalf("expected exhausted code unavailable")
	}

	expired, _ := svc.Create(ctx, "su-1", CreateInput{
		TenantID:  "ws-1",
		CodeType:  CodeTypeUser,
		ExpiresAt: timePtr(time.Now().Add(-time.Minute)),
	})
	available, _ = svc.Available(ctx, expired.Code)
	if available {
		t.Fatalf("expected expired code unavailable")
	}
}

func TestUseRecordsRedemption(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	created, _ := svc.Create(ctx, "su-1", CreateInput{
		TenantID: "ws-1",
		CodeType: CodeTypeDev,
		Capacity: 1,
		GroupIDs: []int64{7},
	})

	result, err := svc.Use(ctx, strings.ToLower(created.Code), "newcomer-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.InvitationRecordID == 0 || result.InvitationID != created.ID {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.TenantID != "ws-1" || result.CodeType != CodeTypeDev {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(result.GroupIDs) != 1 || result.GroupIDs[0] != 7 {
		t.Fatalf("unexpected groups: %v", result.GroupIDs)
	}
	if len(repo.records) != 1 || repo.records[0].UserID != "newcomer-1" {
		t.Fatalf("expected usage record, got %+v", repo.records)
	}

	// Capacity 1 is now exhausted.
	_, err = svc.Use(ctx, created.Code, "newcomer-2")
	expectErrorType(t, err, platformerrors.ErrorTypeNotFound)
}

func TestListPermissions(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	ws := "ws-1"

	svc.Create(ctx, "su-1", CreateInput{TenantID: "ws-1", CodeType: CodeTypeUser})

	_, err := svc.List(ctx, "user-1", ListFilter{TenantID: &ws})
	expectErrorType(t, err, platformerrors.ErrorTypeUnauthorized)

	if _, err := svc.List(ctx, "admin-1", ListFilter{TenantID: &ws}); err != nil {
		t.Fatalf("unexpected error for admin with tenant filter: %v", err)
	}

	// Only SU may list across all tenants.
	_, err = svc.List(ctx, "admin-1", ListFilter{})
	expectErrorType(t, err, platformerrors.ErrorTypeUnauthorized)

	if _, err := svc.List(ctx, "su-1", ListFilter{}); err != nil {
		t.Fatalf("unexpected error for SU without filter: %v", err)
	}

	_, err = svc.List(ctx, "ghost", ListFilter{})
	expectErrorType(t, err, platformerrors.ErrorTypeUnauthorized)
}

func TestListPaginationAndSorting(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		if _, err := svc.Create(ctx, "su-1", CreateInput{TenantID: "ws-1", CodeType: CodeTypeUser}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	result, err := svc.List(ctx, "su-1", ListFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Page != 1 || result.PageSize != 20 {
		t.Fatalf("expected default paging, got page=%d size=%d", result.Page, result.PageSize)
	}
	if result.Total != 25 || result.TotalPages != 2 {
		t.Fatalf("expected 25 total over 2 pages, got %d over %d", result.Total, result.TotalPages)
	}
	if len(result.Items) != 20 {
		t.Fatalf("expected 20 items on page 1, got %d", len(result.Items))
	}

	result, err = svc.List(ctx, "su-1", ListFilter{Page: 2, PageSize: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Items) != 5 {
		t.Fatalf("expected 5 items on page 2, got %d", len(result.Items))
	}

	_, err = svc.List(ctx, "su-1", ListFilter{SortBy: "capacity"})
	expectErrorType(t, err, platformerrors.ErrorTypeValidation)

	_, err = svc.List(ctx, "su-1", ListFilter{SortBy: "expiry_date", SortOrder: "sideways"})
	expectErrorType(t, err, platformerrors.ErrorTypeValidation)

	if _, err := svc.List(ctx, "su-1", ListFilter{SortBy: "expiry_date", SortOrder: "desc"}); err != nil {
		t.Fatalf("unexpected error for valid sort: %v", err)
	}
}

func TestListDerivesStatuses(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	ws := "ws-1"

	fresh, _ := svc.Create(ctx, "su-1", CreateInput{TenantID: "ws-1", CodeType: CodeTypeUser})
	expired, _ := svc.Create(ctx, "su-1", CreateInput{
		TenantID:  "ws-1",
		CodeType:  CodeTypeUser,
		ExpiresAt: timePtr(time.Now().Add(-time.Hour)),
	})

	result, err := svc.List(ctx, "su-1", ListFilter{TenantID: &ws})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	byCode := make(map[string]Status, len(result.Items))
	for _, item := range result.Items {
		byCode[item.Code] = item.Status
	}
	if byCode[fresh.Code] != StatusInUse {
		t.Fatalf("expected fresh code IN_USE, got %s", byCode[fresh.Code])
	}
	if byCode[expired.Code] != StatusExpire {
		t.Fatalf("expected expired code EXPIRE, got %s", byCode[expired.Code])
	}
}

func TestSweepStatuses(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	healthy, _ := svc.Create(ctx, "su-1", CreateInput{TenantID: "ws-1", CodeType: CodeTypeUser})

	// Insert an IN_USE code whose expiry has passed, as if time moved on
	// after creation.
	stale := &Invitation{
		TenantID:  "ws-1",
		Code:      "STALE1",
		CodeType:  CodeTypeUser,
		Capacity:  1,
		ExpiresAt: timePtr(time.Now().Add(-time.Hour)),
		Status:    StatusInUse,
	}
	repo.Create(ctx, stale)

	changed, err := svc.SweepStatuses(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if changed != 1 {
		t.Fatalf("expected 1 status change, got %d", changed)
	}

	swept, _ := repo.GetByID(ctx, stale.ID)
	if swept.Status != StatusExpire {
		t.Fatalf("expected stale code EXPIRE, got %s", swept.Status)
	}
	kept, _ := repo.GetByID(ctx, healthy.ID)
	if kept.Status != StatusInUse {
		t.Fatalf("expected healthy code untouched, got %s", kept.Status)
	}
}

func TestCodeTypeRoleGranted(t *testing.T) {
	tests := []struct {
		codeType CodeType
		want     tenant.Role
	}{
		{CodeTypeAdmin, tenant.RoleAdmin},
		{CodeTypeDev, tenant.RoleDev},
		{CodeTypeUser, tenant.RoleUser},
	}
	for _, tt := range tests {
		if got := tt.codeType.RoleGranted(); got != tt.want {
			t.Fatalf("RoleGranted(%s) = %s, want %s", tt.codeType, got, tt.want)
		}
	}
}
