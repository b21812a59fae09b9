package modelregistry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"agenthub/services/agent-api/internal/utils/crypto"
	"agenthub/services/agent-api/internal/utils/platformerrors"
)

const testKeySecret = "unit-test-secret"

// fakeModelConfigRepo is an in-memory Repository. Lookups return copies the
// way a row scan would, and missing rows surface as NotFound errors.
type fakeModelConfigRepo struct {
	nextID    uint
	rows      []*ModelConfig
	statusLog []ConnectStatus
}

func (f *fakeModelConfigRepo) Create(ctx context.Context, mc *ModelConfig) error {
	f.nextID++
	mc.ID = f.nextID
	mc.CreatedAt = time.Now()
	mc.UpdatedAt = mc.CreatedAt
	row := *mc
	f.rows = append(f.rows, &row)
	return nil
}

func (f *fakeModelConfigRepo) Update(ctx context.Context, mc *ModelConfig) error {
	for _, row := range f.rows {
		if row.ID == mc.ID {
			updated := *mc
			updated.CreatedAt = row.CreatedAt
			*row = updated
			return nil
		}
	}
	return f.notFound(ctx, fmt.Sprintf("model config %d not found", mc.ID))
}

func (f *fakeModelConfigRepo) Delete(ctx context.Context, publicID, tenantID string) error {
	for i, row := range f.rows {
		if row.PublicID == publicID && row.TenantID == tenantID {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return f.notFound(ctx, fmt.Sprintf("model config %s not found", publicID))
}

func (f *fakeModelConfigRepo) FindByPublicID(ctx context.Context, publicID, tenantID string) (*ModelConfig, error) {
	for _, row := range f.rows {
		if row.PublicID == publicID && row.TenantID == tenantID {
			c := *row
			return &c, nil
		}
	}
	return nil, f.notFound(ctx, fmt.Sprintf("model config %s not found", publicID))
}

func (f *fakeModelConfigRepo) FindByID(ctx context.Context, id uint) (*ModelConfig, error) {
	for _, row := range f.rows {
		if row.ID == id {
			c := *row
			return &c, nil
		}
	}
	return nil, f.notFound(ctx, fmt.Sprintf("model config %d not found", id))
}

func (f *fakeModelConfigRepo) FindByFilter(ctx context.Context, filter ModelConfigFilter) ([]*ModelConfig, error) {
	var out []*ModelConfig
	for _, row := range f.rows {
		if filter.TenantID != nil && row.TenantID != *filter.TenantID {
			continue
		}
		if filter.Name != nil && row.Name != *filter.Name {
			continue
		}
		if filter.ModelType != nil && row.ModelType != *filter.ModelType {
			continue
		}
		if filter.Enabled != nil && row.Enabled != *filter.Enabled {
			continue
		}
		if filter.ConnectStatus != nil && row.ConnectStatus != *filter.ConnectStatus {
			continue
		}
		c := *row
		out = append(out, &c)
	}
	return out, nil
}

func (f *fakeModelConfigRepo) UpdateConnectStatus(ctx context.Context, id uint, status ConnectStatus) error {
	for _, row := range f.rows {
		if row.ID == id {
			row.ConnectStatus = status
			f.statusLog = append(f.statusLog, status)
			return nil
		}
	}
	return f.notFound(ctx, fmt.Sprintf("model config %d not found", id))
}

func (f *fakeModelConfigRepo) notFound(ctx context.Context, msg string) error {
	return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, msg, nil, "")
}

func (f *fakeModelConfigRepo) stored(publicID string) *ModelConfig {
	for _, row := range f.rows {
		if row.PublicID == publicID {
			return row
		}
	}
	return nil
}

// fakeChecker fails probes for the configured model names and records the
// API key it was handed.
type fakeChecker struct {
	failFor  map[string]bool
	lastKeys []string
}

func (f *fakeChecker) Check(ctx context.Context, mc *ModelConfig) error {
	f.lastKeys = append(f.lastKeys, mc.APIKey)
	if f.failFor[mc.Name] {
		return errors.New("connection refused")
	}
	return nil
}

func newTestService() (*Service, *fakeModelConfigRepo, *fakeChecker) {
	repo := &fakeModelConfigRepo{}
	checker := &fakeChecker{failFor: map[string]bool{}}
	return NewService(repo, checker, Config{KeySecret: testKeySecret}), repo, checker
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

func TestCreateAppliesDefaults(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	mc, err := svc.Create(ctx, &ModelConfig{
		TenantID: "ws-1",
		Repo:     "qwen/qwen3-30b",
		BaseURL:  "http://models.internal/v1",
		APIKey:   "sk-live",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(mc.PublicID, "model_") {
		t.Fatalf("expected model_ public id, got %q", mc.PublicID)
	}
	if mc.Name != "qwen/qwen3-30b" {
		t.Fatalf("expected name from repo, got %q", mc.Name)
	}
	if mc.DisplayName != mc.Name {
		t.Fatalf("expected display name from name, got %q", mc.DisplayName)
	}
	if mc.ModelType != "llm" {
		t.Fatalf("expected llm default, got %q", mc.ModelType)
	}
	if mc.ConnectStatus != ConnectStatusNotDetected {
		t.Fatalf("expected not_detected default, got %s", mc.ConnectStatus)
	}
	// The returned config keeps the plaintext key; storage only ever sees
	// the ciphertext.
	if mc.APIKey != "sk-live" {
		t.Fatalf("expected plaintext key returned, got %q", mc.APIKey)
	}
	row := repo.stored(mc.PublicID)
	if row.APIKey == "" || row.APIKey == "sk-live" {
		t.Fatalf("expected sealed key in storage, got %q", row.APIKey)
	}
	opened, err := crypto.DecryptString(testKeySecret, row.APIKey)
	if err != nil || opened != "sk-live" {
		t.Fatalf("expected stored key to decrypt, got %q (%v)", opened, err)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, &ModelConfig{TenantID: "ws-1", BaseURL: "http://models.internal/v1"})
	expectErrorType(t, err, platformerrors.ErrorTypeValidation)

	_, err = svc.Create(ctx, &ModelConfig{TenantID: "ws-1", Name: "qwen3-30b"})
	expectErrorType(t, err, platformerrors.ErrorTypeValidation)
}

func TestGetDecryptsKey(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	created, _ := svc.Create(ctx, &ModelConfig{
		TenantID: "ws-1",
		Name:     "qwen3-30b",
		BaseURL:  "http://models.internal/v1",
		APIKey:   "sk-live",
	})

	got, err := svc.Get(ctx, created.PublicID, "ws-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.APIKey != "sk-live" {
		t.Fatalf("expected decrypted key, got %q", got.APIKey)
	}
	// Reading must not unseal the stored row.
	if row := repo.stored(created.PublicID); row.APIKey == "sk-live" {
		t.Fatalf("stored key was replaced with plaintext")
	}

	_, err = svc.Get(ctx, "model_missing", "ws-1")
	expectErrorType(t, err, platformerrors.ErrorTypeNotFound)
}

func TestListStripsKeys(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	ws := "ws-1"

	svc.Create(ctx, &ModelConfig{TenantID: "ws-1", Name: "a", BaseURL: "http://a/v1", APIKey: "sk-a"})
	svc.Create(ctx, &ModelConfig{TenantID: "ws-1", Name: "b", BaseURL: "http://b/v1", APIKey: "sk-b"})
	svc.Create(ctx, &ModelConfig{TenantID: "ws-2", Name: "c", BaseURL: "http://c/v1"})

	configs, err := svc.List(ctx, ModelConfigFilter{TenantID: &ws})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(configs) != 2 {
		t.Fatalf("expected 2 configs, got %d", len(configs))
	}
	for _, mc := range configs {
		if mc.APIKey != "" {
			t.Fatalf("expected key stripped from listing, got %q", mc.APIKey)
		}
	}
}

func TestUpdateKeepsSealedKeyWhenOmitted(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	created, _ := svc.Create(ctx, &ModelConfig{
		TenantID: "ws-1",
		Name:     "qwen3-30b",
		BaseURL:  "http://models.internal/v1",
		APIKey:   "sk-first",
	})
	sealedBefore := repo.stored(created.PublicID).APIKey

	_, err := svc.Update(ctx, &ModelConfig{
		PublicID:    created.PublicID,
		TenantID:    "ws-1",
		Name:        "qwen3-30b",
		DisplayName: "Qwen3 30B",
		BaseURL:     "http://models.internal/v1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	row := repo.stored(created.PublicID)
	if row.APIKey != sealedBefore {
		t.Fatalf("expected ciphertext untouched on empty key")
	}
	if row.DisplayName != "Qwen3 30B" {
		t.Fatalf("expected display name updated, got %q", row.DisplayName)
	}

	// A supplied key is re-encrypted.
	if _, err := svc.Update(ctx, &ModelConfig{
		PublicID: created.PublicID,
		TenantID: "ws-1",
		Name:     "qwen3-30b",
		BaseURL:  "http://models.internal/v1",
		APIKey:   "sk-second",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	opened, err := crypto.DecryptString(testKeySecret, repo.stored(created.PublicID).APIKey)
	if err != nil || opened != "sk-second" {
		t.Fatalf("expected rotated key, got %q (%v)", opened, err)
	}

	_, err = svc.Update(ctx, &ModelConfig{PublicID: "model_missing", TenantID: "ws-1", Name: "x", BaseURL: "http://x/v1"})
	expectErrorType(t, err, platformerrors.ErrorTypeNotFound)
}

func TestDelete(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, _ := svc.Create(ctx, &ModelConfig{TenantID: "ws-1", Name: "a", BaseURL: "http://a/v1"})

	if err := svc.Delete(ctx, created.PublicID, "ws-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := svc.Get(ctx, created.PublicID, "ws-1")
	expectErrorType(t, err, platformerrors.ErrorTypeNotFound)

	err = svc.Delete(ctx, created.PublicID, "ws-1")
	expectErrorType(t, err, platformerrors.ErrorTypeNotFound)
}

func TestResolvers(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, _ := svc.Create(ctx, &ModelConfig{
		TenantID:    "ws-1",
		Name:        "qwen3-30b",
		DisplayName: "Qwen3 30B",
		BaseURL:     "http://models.internal/v1",
	})

	if got := svc.DisplayNameByID(ctx, created.ID); got != "Qwen3 30B" {
		t.Fatalf("unexpected display name: %q", got)
	}
	if got := svc.DisplayNameByID(ctx, 999); got != "" {
		t.Fatalf("expected empty for unknown id, got %q", got)
	}

	name, display, found := svc.ModelInfoByID(ctx, created.ID)
	if !found || name != "qwen3-30b" || display != "Qwen3 30B" {
		t.Fatalf("unexpected info: %q %q %v", name, display, found)
	}
	if _, _, found := svc.ModelInfoByID(ctx, 999); found {
		t.Fatalf("expected not found for unknown id")
	}

	id, found := svc.ModelIDByName(ctx, "ws-1", "qwen3-30b")
	if !found || id != created.ID {
		t.Fatalf("unexpected id: %d %v", id, found)
	}
	if _, found := svc.ModelIDByName(ctx, "ws-1", ""); found {
		t.Fatalf("expected empty name to resolve nothing")
	}
	if _, found := svc.ModelIDByName(ctx, "ws-2", "qwen3-30b"); found {
		t.Fatalf("expected no cross-tenant resolution")
	}
}

func TestCheckConnectivity(t *testing.T) {
	svc, repo, checker := newTestService()
	ctx := context.Background()

	created, _ := svc.Create(ctx, &ModelConfig{
		TenantID: "ws-1",
		Name:     "qwen3-30b",
		BaseURL:  "http://models.internal/v1",
		APIKey:   "sk-live",
	})

	status, err := svc.CheckConnectivity(ctx, created.PublicID, "ws-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != ConnectStatusAvailable {
		t.Fatalf("expected available, got %s", status)
	}
	// The probe transitions through detecting before landing.
	if len(repo.statusLog) != 2 || repo.statusLog[0] != ConnectStatusDetecting || repo.statusLog[1] != ConnectStatusAvailable {
		t.Fatalf("unexpected status transitions: %v", repo.statusLog)
	}
	if repo.stored(created.PublicID).ConnectStatus != ConnectStatusAvailable {
		t.Fatalf("expected persisted status")
	}
	// The checker gets the decrypted key.
	if len(checker.lastKeys) != 1 || checker.lastKeys[0] != "sk-live" {
		t.Fatalf("expected plaintext key handed to checker, got %v", checker.lastKeys)
	}

	checker.failFor["qwen3-30b"] = true
	status, err = svc.CheckConnectivity(ctx, created.PublicID, "ws-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != ConnectStatusUnavailable {
		t.Fatalf("expected unavailable, got %s", status)
	}

	_, err = svc.CheckConnectivity(ctx, "model_missing", "ws-1")
	expectErrorType(t, err, platformerrors.ErrorTypeNotFound)
}

func TestSweepConnectivity(t *testing.T) {
	svc, repo, checker := newTestService()
	ctx := context.Background()

	healthy, _ := svc.Create(ctx, &ModelConfig{
		TenantID: "ws-1", Name: "healthy", BaseURL: "http://a/v1", Enabled: true,
	})
	failing, _ := svc.Create(ctx, &ModelConfig{
		TenantID: "ws-1", Name: "failing", BaseURL: "http://b/v1", Enabled: true,
	})
	dormant, _ := svc.Create(ctx, &ModelConfig{
		TenantID: "ws-1", Name: "dormant", BaseURL: "http://c/v1",
	})
	checker.failFor["failing"] = true

	checked, err := svc.SweepConnectivity(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if checked != 2 {
		t.Fatalf("expected 2 models probed, got %d", checked)
	}
	if repo.stored(healthy.PublicID).ConnectStatus != ConnectStatusAvailable {
		t.Fatalf("expected healthy model available")
	}
	if repo.stored(failing.PublicID).ConnectStatus != ConnectStatusUnavailable {
		t.Fatalf("expected failing model unavailable")
	}
	if repo.stored(dormant.PublicID).ConnectStatus != ConnectStatusNotDetected {
		t.Fatalf("expected disabled model untouched, got %s", repo.stored(dormant.PublicID).ConnectStatus)
	}
}
