package agent

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"testing"
	"time"

	"agenthub/services/agent-api/internal/domain/tenant"
	"agenthub/services/agent-api/internal/domain/tool"
	"agenthub/services/agent-api/internal/utils/platformerrors"
)

// fakeAgentRepo is an in-memory Repository mirroring the GORM
// implementation's contracts: not-found reads return (nil, nil), drafts list
// in id order and writes assign fresh row ids.
type fakeAgentRepo struct {
	nextID    uint
	agents    []*Agent
	tools     []*ToolInstance
	relations []*Relation
}

func newFakeAgentRepo() *fakeAgentRepo {
	return &fakeAgentRepo{}
}

func (f *fakeAgentRepo) Create(ctx context.Context, a *Agent) error {
	f.nextID++
	a.ID = f.nextID
	if a.AgentID == 0 {
		a.AgentID = a.ID
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	f.agents = append(f.agents, a)
	return nil
}

func (f *fakeAgentRepo) Update(ctx context.Context, a *Agent) error {
	stored, _ := f.GetByRevision(ctx, a.AgentID, a.TenantID, a.Revision)
	if stored == nil {
		return fmt.Errorf("agent %d not found", a.AgentID)
	}
	if stored != a {
		*stored = *a
	}
	return nil
}

func (f *fakeAgentRepo) Delete(ctx context.Context, agentID uint, tenantID, deletedBy string) error {
	agents := f.agents[:0]
	for _, a := range f.agents {
		if a.AgentID == agentID && a.TenantID == tenantID {
			continue
		}
		agents = append(agents, a)
	}
	f.agents = agents

	tools := f.tools[:0]
	for _, ti := range f.tools {
		if ti.AgentID == agentID && ti.TenantID == tenantID {
			continue
		}
		tools = append(tools, ti)
	}
	f.tools = tools

	relations := f.relations[:0]
	for _, rel := range f.relations {
		if rel.TenantID == tenantID && (rel.ParentAgentID == agentID || rel.SubAgentID == agentID) {
			continue
		}
		relations = append(relations, rel)
	}
	f.relations = relations
	return nil
}

func (f *fakeAgentRepo) GetByRevision(ctx context.Context, agentID uint, tenantID string, rev Revision) (*Agent, error) {
	for _, a := range f.agents {
		if a.AgentID == agentID && a.TenantID == tenantID && a.Revision == rev {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeAgentRepo) ListDrafts(ctx context.Context, filter AgentFilter) ([]*Agent, error) {
	var out []*Agent
	for _, a := range f.agents {
		if !a.Revision.IsDraft() {
			continue
		}
		if filter.TenantID != nil && a.TenantID != *filter.TenantID {
			continue
		}
		if filter.Enabled != nil && a.Enabled != *filter.Enabled {
			continue
		}
		if filter.IsNew != nil && a.IsNew != *filter.IsNew {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAgentRepo) MaxSnapshotNumber(ctx context.Context, agentID uint, tenantID string) (int, error) {
	max := 0
	for _, a := range f.agents {
		if a.AgentID == agentID && a.TenantID == tenantID && a.Revision.Number() > max {
			max = a.Revision.Number()
		}
	}
	return max, nil
}

func (f *fakeAgentRepo) UpdateCurrentVersion(ctx context.Context, agentID uint, tenantID string, versionNo int) error {
	draft, _ := f.GetByRevision(ctx, agentID, tenantID, DraftRevision())
	if draft == nil {
		return fmt.Errorf("agent draft %d not found", agentID)
	}
	draft.CurrentVersionNo = &versionNo
	return nil
}

func (f *fakeAgentRepo) NamesExist(ctx context.Context, tenantID string, names []string, excludeAgentID *uint) ([]string, error) {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		if n != "" {
			want[n] = true
		}
	}
	taken := make(map[string]bool)
	for _, a := range f.agents {
		if !a.Revision.IsDraft() || a.TenantID != tenantID {
			continue
		}
		if excludeAgentID != nil && a.AgentID == *excludeAgentID {
			continue
		}
		if want[a.Name] {
			taken[a.Name] = true
		}
		if want[a.DisplayName] {
			taken[a.DisplayName] = true
		}
	}
	out := make([]string, 0, len(taken))
	for _, n := range names {
		if taken[n] {
			out = append(out, n)
			delete(taken, n)
		}
	}
	return out, nil
}

func (f *fakeAgentRepo) ClearNewFlag(ctx context.Context, agentID uint, tenantID, updatedBy string) (int64, error) {
	draft, _ := f.GetByRevision(ctx, agentID, tenantID, DraftRevision())
	if draft == nil {
		return 0, nil
	}
	draft.IsNew = false
	draft.UpdatedBy = updatedBy
	return 1, nil
}

func (f *fakeAgentRepo) UpsertToolInstance(ctx context.Context, ti *ToolInstance) error {
	if ti.ID != 0 {
		for i, existing := range f.tools {
			if existing.ID == ti.ID {
				f.tools[i] = ti
				return nil
			}
		}
		return fmt.Errorf("tool binding %d not found", ti.ID)
	}
	for _, existing := range f.tools {
		if existing.AgentID == ti.AgentID && existing.ToolID == ti.ToolID &&
			existing.TenantID == ti.TenantID && existing.Revision == ti.Revision {
			ti.ID = existing.ID
			*existing = *ti
			return nil
		}
	}
	f.nextID++
	ti.ID = f.nextID
	f.tools = append(f.tools, ti)
	return nil
}

func (f *fakeAgentRepo) GetToolInstance(ctx context.Context, agentID, toolID uint, tenantID string, rev Revision) (*ToolInstance, error) {
	for _, ti := range f.tools {
		if ti.AgentID == agentID && ti.ToolID == toolID && ti.TenantID == tenantID && ti.Revision == rev {
			return ti, nil
		}
	}
	return nil, nil
}

func (f *fakeAgentRepo) ListToolInstances(ctx context.Context, agentID uint, tenantID string, rev Revision) ([]*ToolInstance, error) {
	var out []*ToolInstance
	for _, ti := range f.tools {
		if ti.AgentID == agentID && ti.TenantID == tenantID && ti.Revision == rev {
			out = append(out, ti)
		}
	}
	return out, nil
}

func (f *fakeAgentRepo) DeleteToolInstances(ctx context.Context, agentID uint, tenantID string, rev Revision) error {
	tools := f.tools[:0]
	for _, ti := range f.tools {
		if ti.AgentID == agentID && ti.TenantID == tenantID && ti.Revision == rev {
			continue
		}
		tools = append(tools, ti)
	}
	f.tools = tools
	return nil
}

func (f *fakeAgentRepo) ReplaceRelations(ctx context.Context, agentID uint, tenantID string, rev Revision, subAgentIDs []uint, createdBy string) error {
	relations := f.relations[:0]
	for _, rel := range f.relations {
		if rel.ParentAgentID == agentID && rel.TenantID == tenantID && rel.Revision == rev {
			continue
		}
		relations = append(relations, rel)
	}
	f.relations = relations
	for _, subID := range subAgentIDs {
		f.nextID++
		f.relations = append(f.relations, &Relation{
			ID:            f.nextID,
			ParentAgentID: agentID,
			SubAgentID:    subID,
			TenantID:      tenantID,
			Revision:      rev,
			CreatedBy:     createdBy,
		})
	}
	return nil
}

func (f *fakeAgentRepo) ListRelations(ctx context.Context, agentID uint, tenantID string, rev Revision) ([]*Relation, error) {
	var out []*Relation
	for _, rel := range f.relations {
		if rel.ParentAgentID == agentID && rel.TenantID == tenantID && rel.Revision == rev {
			out = append(out, rel)
		}
	}
	return out, nil
}

func (f *fakeAgentRepo) ListRelationsBySubAgent(ctx context.Context, subAgentID uint, tenantID string, rev Revision) ([]*Relation, error) {
	var out []*Relation
	for _, rel := range f.relations {
		if rel.SubAgentID == subAgentID && rel.TenantID == tenantID && rel.Revision == rev {
			out = append(out, rel)
		}
	}
	return out, nil
}

func (f *fakeAgentRepo) DeleteRelation(ctx context.Context, parentAgentID, subAgentID uint, tenantID string) error {
	for i, rel := range f.relations {
		if rel.ParentAgentID == parentAgentID && rel.SubAgentID == subAgentID &&
			rel.TenantID == tenantID && rel.Revision.IsDraft() {
			f.relations = append(f.relations[:i], f.relations[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("relation %d -> %d not found", parentAgentID, subAgentID)
}

func (f *fakeAgentRepo) GetSnapshot(ctx context.Context, agentID uint, tenantID string, rev Revision) (*Snapshot, error) {
	a, _ := f.GetByRevision(ctx, agentID, tenantID, rev)
	if a == nil {
		return nil, nil
	}
	tools, _ := f.ListToolInstances(ctx, agentID, tenantID, rev)
	relations, _ := f.ListRelations(ctx, agentID, tenantID, rev)
	return &Snapshot{Agent: a, Tools: tools, Relations: relations}, nil
}

func (f *fakeAgentRepo) WriteSnapshot(ctx context.Context, snap *Snapshot) error {
	f.nextID++
	snap.Agent.ID = f.nextID
	f.agents = append(f.agents, snap.Agent)
	for _, ti := range snap.Tools {
		f.nextID++
		ti.ID = f.nextID
		f.tools = append(f.tools, ti)
	}
	for _, rel := range snap.Relations {
		f.nextID++
		rel.ID = f.nextID
		f.relations = append(f.relations, rel)
	}
	return nil
}

// fakeVersionRepo is an in-memory VersionRepository. Missing rows read as
// (nil, nil); listings come back newest first.
type fakeVersionRepo struct {
	nextID  uint
	rows    []*Version
	deleted map[uint]bool
}

func newFakeVersionRepo() *fakeVersionRepo {
	return &fakeVersionRepo{deleted: make(map[uint]bool)}
}

func (f *fakeVersionRepo) Insert(ctx context.Context, v *Version) error {
	f.nextID++
	v.ID = f.nextID
	v.CreatedAt = time.Now()
	v.UpdatedAt = v.CreatedAt
	f.rows = append(f.rows, v)
	return nil
}

func (f *fakeVersionRepo) GetByVersionNo(ctx context.Context, agentID uint, tenantID string, versionNo int) (*Version, error) {
	for _, v := range f.rows {
		if f.deleted[v.ID] {
			continue
		}
		if v.AgentID == agentID && v.TenantID == tenantID && v.VersionNo == versionNo {
			return v, nil
		}
	}
	return nil, nil
}

func (f *fakeVersionRepo) List(ctx context.Context, agentID uint, tenantID string) ([]*Version, error) {
	var out []*Version
	for _, v := range f.rows {
		if f.deleted[v.ID] {
			continue
		}
		if v.AgentID == agentID && v.TenantID == tenantID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VersionNo > out[j].VersionNo })
	return out, nil
}

func (f *fakeVersionRepo) UpdateStatus(ctx context.Context, agentID uint, tenantID string, versionNo int, status VersionStatus, updatedBy string) error {
	v, _ := f.GetByVersionNo(ctx, agentID, tenantID, versionNo)
	if v == nil {
		return fmt.Errorf("version %d not found", versionNo)
	}
	v.Status = status
	v.UpdatedBy = updatedBy
	return nil
}

func (f *fakeVersionRepo) UpdateMetadata(ctx context.Context, agentID uint, tenantID string, versionNo int, versionName, releaseNote *string, updatedBy string) error {
	v, _ := f.GetByVersionNo(ctx, agentID, tenantID, versionNo)
	if v == nil {
		return fmt.Errorf("version %d not found", versionNo)
	}
	if versionName != nil {
		v.VersionName = versionName
	}
	if releaseNote != nil {
		v.ReleaseNote = releaseNote
	}
	v.UpdatedBy = updatedBy
	return nil
}

func (f *fakeVersionRepo) SoftDelete(ctx context.Context, agentID uint, tenantID string, versionNo int, deletedBy string) error {
	v, _ := f.GetByVersionNo(ctx, agentID, tenantID, versionNo)
	if v == nil {
		return fmt.Errorf("version %d not found", versionNo)
	}
	f.deleted[v.ID] = true
	return nil
}

// fakeToolCatalog serves tool definitions from a fixed set.
type fakeToolCatalog struct {
	defs []*tool.Tool
}

func (f *fakeToolCatalog) add(t *tool.Tool) {
	f.defs = append(f.defs, t)
}

func (f *fakeToolCatalog) NamesByID(ctx context.Context, tenantID string, ids []uint) (map[uint]string, error) {
	names := make(map[uint]string)
	for _, id := range ids {
		for _, t := range f.defs {
			if t.ID == id && t.TenantID == tenantID {
				names[id] = t.Name
			}
		}
	}
	return names, nil
}

func (f *fakeToolCatalog) GetByName(ctx context.Context, name, tenantID string) (*tool.Tool, error) {
	for _, t := range f.defs {
		if t.Name == name && t.TenantID == tenantID {
			return t, nil
		}
	}
	return nil, fmt.Errorf("tool %s not found", name)
}

// fakeModelResolver resolves model ids from a fixed registry.
type fakeModelResolver struct {
	names    map[uint]string
	displays map[uint]string
}

func newFakeModelResolver() *fakeModelResolver {
	return &fakeModelResolver{names: make(map[uint]string), displays: make(map[uint]string)}
}

func (f *fakeModelResolver) add(id uint, name, display string) {
	f.names[id] = name
	f.displays[id] = display
}

func (f *fakeModelResolver) DisplayNameByID(ctx context.Context, id uint) string {
	return f.displays[id]
}

func (f *fakeModelResolver) ModelInfoByID(ctx context.Context, id uint) (string, string, bool) {
	name, ok := f.names[id]
	return name, f.displays[id], ok
}

func (f *fakeModelResolver) ModelIDByName(ctx context.Context, tenantID, name string) (uint, bool) {
	for id, n := range f.names {
		if n == name {
			return id, true
		}
	}
	return 0, false
}

// fakeMembers answers role and group questions with fixed values.
type fakeMembers struct {
	role   tenant.Role
	groups []int64
}

func (f *fakeMembers) RoleOf(ctx context.Context, userID string) (tenant.Role, error) {
	return f.role, nil
}

func (f *fakeMembers) GroupIDsOf(ctx context.Context, userID string) ([]int64, error) {
	return f.groups, nil
}

// fakeSuggester returns canned suggestions or a canned failure.
type fakeSuggester struct {
	names []string
	err   error
}

func (f *fakeSuggester) SuggestNames(ctx context.Context, description string, count int) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.names, nil
}

// passTx runs the callback without any transaction machinery.
type passTx struct{}

func (passTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fixture wires an AgentService and a VersionService over shared fakes.
type fixture struct {
	repo      *fakeAgentRepo
	versions  *fakeVersionRepo
	catalog   *fakeToolCatalog
	models    *fakeModelResolver
	members   *fakeMembers
	suggester *fakeSuggester
	agents    *AgentService
	publisher *VersionService
}

func newFixture() *fixture {
	f := &fixture{
		repo:      newFakeAgentRepo(),
		versions:  newFakeVersionRepo(),
		catalog:   &fakeToolCatalog{},
		models:    newFakeModelResolver(),
		members:   &fakeMembers{role: tenant.RoleUser},
		suggester: &fakeSuggester{},
	}
	f.agents = NewAgentService(f.repo, f.catalog, f.models, f.members, f.suggester, passTx{})
	f.publisher = NewVersionService(f.repo, f.versions, f.models, f.members, passTx{})
	return f
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

func strPtr(s string) *string { return &s }

func uintPtr(u uint) *uint { return &u }

func intPtr(i int) *int { return &i }

func boolPtr(b bool) *bool { return &b }

func TestCreateAppliesDefaults(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a, err := f.agents.Create(ctx, "ws-1", "user-1", UpsertInput{Name: strPtr("helper")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.AgentID == 0 {
		t.Fatalf("expected agent id to be assigned")
	}
	if a.PublicID == "" || a.PublicID[:6] != "agent_" {
		t.Fatalf("expected agent_ public id, got %q", a.PublicID)
	}
	if a.MaxSteps != 5 {
		t.Fatalf("expected default max steps 5, got %d", a.MaxSteps)
	}
	if !a.Enabled || !a.IsNew {
		t.Fatalf("expected enabled new draft, got enabled=%v is_new=%v", a.Enabled, a.IsNew)
	}
	if !a.Revision.IsDraft() {
		t.Fatalf("expected draft revision, got %s", a.Revision)
	}
	if a.CreatedBy != "user-1" || a.UpdatedBy != "user-1" {
		t.Fatalf("unexpected audit fields: %q %q", a.CreatedBy, a.UpdatedBy)
	}
}

func TestCreateRejectsEnabledWithoutName(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.agents.Create(ctx, "ws-1", "user-1", UpsertInput{})
	expectErrorType(t, err, platformerrors.ErrorTypeValidation)

	// A disabled draft may start out blank.
	a, err := f.agents.Create(ctx, "ws-1", "user-1", UpsertInput{Enabled: boolPtr(false)})
	if err != nil {
		t.Fatalf("unexpected error for blank disabled draft: %v", err)
	}
	if a.Enabled {
		t.Fatalf("expected disabled draft")
	}
}

func TestCreateBindsToolsAndSubAgents(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	sub, err := f.agents.Create(ctx, "ws-1", "user-1", UpsertInput{Name: strPtr("worker")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a, err := f.agents.Create(ctx, "ws-1", "user-1", UpsertInput{
		Name:            strPtr("lead"),
		EnabledToolIDs:  []uint{10, 11},
		RelatedAgentIDs: []uint{sub.AgentID},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bindings, _ := f.repo.ListToolInstances(ctx, a.AgentID, "ws-1", DraftRevision())
	if len(bindings) != 2 {
		t.Fatalf("expected 2 tool bindings, got %d", len(bindings))
	}
	for _, ti := range bindings {
		if !ti.Enabled {
			t.Fatalf("expected binding for tool %d to be enabled", ti.ToolID)
		}
	}

	relations, _ := f.repo.ListRelations(ctx, a.AgentID, "ws-1", DraftRevision())
	if len(relations) != 1 || relations[0].SubAgentID != sub.AgentID {
		t.Fatalf("unexpected relations: %+v", relations)
	}
}

func TestUpdatePatchesOnlyProvidedFields(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a, err := f.agents.Create(ctx, "ws-1", "user-1", UpsertInput{
		Name:           strPtr("original"),
		EnabledToolIDs: []uint{10},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := f.agents.Update(ctx, a.AgentID, "ws-1", "user-2", UpsertInput{
		Description: strPtr("does research"),
		MaxSteps:    intPtr(8),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.Name != "original" {
		t.Fatalf("expected name untouched, got %q", updated.Name)
	}
	if updated.Description == nil || *updated.Description != "does research" {
		t.Fatalf("expected description patched, got %v", updated.Description)
	}
	if updated.MaxSteps != 8 {
		t.Fatalf("expected max steps 8, got %d", updated.MaxSteps)
	}
	if updated.UpdatedBy != "user-2" {
		t.Fatalf("expected updated_by user-2, got %q", updated.UpdatedBy)
	}

	// Nil tool slice leaves the bindings alone.
	bindings, _ := f.repo.ListToolInstances(ctx, a.AgentID, "ws-1", DraftRevision())
	if len(bindings) != 1 || !bindings[0].Enabled {
		t.Fatalf("expected binding untouched, got %+v", bindings)
	}
}

func TestUpdateMissingAgent(t *testing.T) {
	f := newFixture()

	_, err := f.agents.Update(context.Background(), 99, "ws-1", "user-1", UpsertInput{Name: strPtr("x")})
	expectErrorType(t, err, platformerrors.ErrorTypeNotFound)
}

func TestUpdateReconcilesToolBindings(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a, err := f.agents.Create(ctx, "ws-1", "user-1", UpsertInput{
		Name:           strPtr("toolful"),
		EnabledToolIDs: []uint{10, 11},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.agents.Update(ctx, a.AgentID, "ws-1", "user-1", UpsertInput{
		EnabledToolIDs: []uint{11, 12},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bindings, _ := f.repo.ListToolInstances(ctx, a.AgentID, "ws-1", DraftRevision())
	enabled := make(map[uint]bool, len(bindings))
	for _, ti := range bindings {
		enabled[ti.ToolID] = ti.Enabled
	}

	if len(bindings) != 3 {
		t.Fatalf("expected 3 bindings after reconcile, got %d", len(bindings))
	}
	if enabled[10] {
		t.Fatalf("expected tool 10 disabled")
	}
	if !enabled[11] || !enabled[12] {
		t.Fatalf("expected tools 11 and 12 enabled, got %+v", enabled)
	}
}

func TestBindTool(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.catalog.add(&tool.Tool{ID: 10, TenantID: "ws-1", Name: "web_search", IsAvailable: true})

	a, err := f.agents.Create(ctx, "ws-1", "user-1", UpsertInput{Name: strPtr("binder")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = f.agents.BindTool(ctx, a.AgentID, 99, "ws-1", "user-1", true, nil)
	expectErrorType(t, err, platformerrors.ErrorTypeNotFound)

	if err := f.agents.BindTool(ctx, a.AgentID, 10, "ws-1", "user-1", true, map[string]any{"depth": 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ti, _ := f.repo.GetToolInstance(ctx, a.AgentID, 10, "ws-1", DraftRevision())
	if ti == nil || !ti.Enabled {
		t.Fatalf("expected enabled binding, got %+v", ti)
	}
	firstID := ti.ID

	// Rebinding updates the existing row instead of creating another.
	if err := f.agents.BindTool(ctx, a.AgentID, 10, "ws-1", "user-2", false, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ti, _ = f.repo.GetToolInstance(ctx, a.AgentID, 10, "ws-1", DraftRevision())
	if ti.ID != firstID {
		t.Fatalf("expected binding row reuse, got id %d want %d", ti.ID, firstID)
	}
	if ti.Enabled {
		t.Fatalf("expected binding disabled after rebind")
	}
	if ti.Params["depth"] != 2 {
		t.Fatalf("expected params preserved on nil patch, got %+v", ti.Params)
	}
	if ti.UpdatedBy != "user-2" {
		t.Fatalf("expected updated_by user-2, got %q", ti.UpdatedBy)
	}
}

func TestToolBindingsMergesCatalogDefaults(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.catalog.add(&tool.Tool{
		ID: 10, TenantID: "ws-1", Name: "web_search", ClassName: "WebSearchTool",
		Source: tool.SourceLocal, IsAvailable: true,
		Params: []tool.Param{
			{Name: "depth", Type: "int", Default: 1},
			{Name: "lang", Type: "string", Default: "en"},
		},
	})

	a, err := f.agents.Create(ctx, "ws-1", "user-1", UpsertInput{Name: strPtr("searcher")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.agents.BindTool(ctx, a.AgentID, 10, "ws-1", "user-1", true, map[string]any{"depth": 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// A binding for a tool that has left the catalog is skipped.
	f.repo.UpsertToolInstance(ctx, &ToolInstance{
		AgentID: a.AgentID, ToolID: 77, TenantID: "ws-1", Revision: DraftRevision(), Enabled: true,
	})

	bound, err := f.agents.ToolBindings(ctx, a.AgentID, "ws-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bound) != 1 {
		t.Fatalf("expected 1 bound tool, got %d", len(bound))
	}

	bt := bound[0]
	if bt.Name != "web_search" || bt.ClassName != "WebSearchTool" {
		t.Fatalf("unexpected catalog merge: %+v", bt)
	}
	if bt.Params["depth"] != 3 {
		t.Fatalf("expected binding value to win, got %v", bt.Params["depth"])
	}
	if bt.Params["lang"] != "en" {
		t.Fatalf("expected catalog default filled, got %v", bt.Params["lang"])
	}
}

func TestDeleteRemovesEveryTrace(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	sub, _ := f.agents.Create(ctx, "ws-1", "user-1", UpsertInput{Name: strPtr("worker")})
	a, _ := f.agents.Create(ctx, "ws-1", "user-1", UpsertInput{
		Name:            strPtr("lead"),
		EnabledToolIDs:  []uint{10},
		RelatedAgentIDs: []uint{sub.AgentID},
	})

	if err := f.agents.Delete(ctx, sub.AgentID, "ws-1", "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The parent's dangling edge to the deleted sub-agent is gone too.
	relations, _ := f.repo.ListRelations(ctx, a.AgentID, "ws-1", DraftRevision())
	if len(relations) != 0 {
		t.Fatalf("expected dangling relations removed, got %+v", relations)
	}

	err := f.agents.Delete(ctx, sub.AgentID, "ws-1", "user-1")
	expectErrorType(t, err, platformerrors.ErrorTypeNotFound)
}

func TestListAnnotatesPermissions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.members.role = tenant.RoleUser

	mine, _ := f.agents.Create(ctx, "ws-1", "user-1", UpsertInput{Name: strPtr("mine")})
	theirs, _ := f.agents.Create(ctx, "ws-1", "user-2", UpsertInput{Name: strPtr("theirs")})

	summaries, err := f.agents.List(ctx, "ws-1", "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 agents, got %d", len(summaries))
	}

	byID := make(map[uint]*Summary, len(summaries))
	for _, s := range summaries {
		byID[s.AgentID] = s
	}
	if byID[mine.AgentID].Permission != tenant.PermissionEdit {
		t.Fatalf("expected EDIT on own agent, got %s", byID[mine.AgentID].Permission)
	}
	if byID[theirs.AgentID].Permission != tenant.PermissionReadOnly {
		t.Fatalf("expected READ_ONLY on foreign agent, got %s", byID[theirs.AgentID].Permission)
	}

	// Admins edit everything.
	f.members.role = tenant.RoleAdmin
	summaries, _ = f.agents.List(ctx, "ws-1", "user-1")
	for _, s := range summaries {
		if s.Permission != tenant.PermissionEdit {
			t.Fatalf("expected EDIT for admin on agent %d, got %s", s.AgentID, s.Permission)
		}
	}
}

func TestCheckNames(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a, _ := f.agents.Create(ctx, "ws-1", "user-1", UpsertInput{
		Name:        strPtr("taken"),
		DisplayName: strPtr("Taken Display"),
	})

	_, err := f.agents.CheckNames(ctx, "ws-1", nil)
	expectErrorType(t, err, platformerrors.ErrorTypeValidation)

	results, err := f.agents.CheckNames(ctx, "ws-1", []NameCheckItem{
		{Name: "taken", DisplayName: "fresh"},
		{Name: "fresh", DisplayName: "Taken Display"},
		{Name: "fresh", DisplayName: "also fresh"},
		// Excluding the owning agent clears its own conflicts.
		{AgentID: uintPtr(a.AgentID), Name: "taken", DisplayName: "Taken Display"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !results[0].NameConflict || results[0].DisplayNameConflict {
		t.Fatalf("unexpected result 0: %+v", results[0])
	}
	if results[1].NameConflict || !results[1].DisplayNameConflict {
		t.Fatalf("unexpected result 1: %+v", results[1])
	}
	if results[2].NameConflict || results[2].DisplayNameConflict {
		t.Fatalf("unexpected result 2: %+v", results[2])
	}
	if results[3].NameConflict || results[3].DisplayNameConflict {
		t.Fatalf("expected self-exclusion to clear conflicts: %+v", results[3])
	}
}

func TestRegenerateNames(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.suggester.names = []string{"atlas", "beacon", "cairn"}

	results, err := f.agents.RegenerateNames(ctx, "ws-1", []NameRegenItem{
		{Name: "old_name", TaskDescription: "summarizes research papers"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].UsedFallback {
		t.Fatalf("expected suggester names, got fallback")
	}
	if len(results[0].SuggestedNames) != 3 || results[0].SuggestedNames[0] != "atlas" {
		t.Fatalf("unexpected suggestions: %+v", results[0].SuggestedNames)
	}
	if results[0].SuggestedDisplayName != "atlas" {
		t.Fatalf("expected first suggestion as display name, got %q", results[0].SuggestedDisplayName)
	}
}

func TestRegenerateNamesFallsBackOnSuggesterFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.suggester.err = errors.New("model unavailable")

	// old_name_1 is already taken, so the fallback walks to _2.
	f.agents.Create(ctx, "ws-1", "user-1", UpsertInput{Name: strPtr("old_name_1")})

	results, err := f.agents.RegenerateNames(ctx, "ws-1", []NameRegenItem{{Name: "old_name"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !results[0].UsedFallback {
		t.Fatalf("expected fallback on suggester failure")
	}
	if len(results[0].SuggestedNames) != 1 || results[0].SuggestedNames[0] != "old_name_2" {
		t.Fatalf("unexpected fallback names: %+v", results[0].SuggestedNames)
	}
}

func TestClearNew(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a, _ := f.agents.Create(ctx, "ws-1", "user-1", UpsertInput{Name: strPtr("shiny")})

	rows, err := f.agents.ClearNew(ctx, a.AgentID, "ws-1", "user-1")
	if err != nil || rows != 1 {
		t.Fatalf("expected 1 row cleared, got %d (%v)", rows, err)
	}
	draft, _ := f.repo.GetByRevision(ctx, a.AgentID, "ws-1", DraftRevision())
	if draft.IsNew {
		t.Fatalf("expected is_new cleared")
	}

	_, err = f.agents.ClearNew(ctx, 99, "ws-1", "user-1")
	expectErrorType(t, err, platformerrors.ErrorTypeNotFound)
}

func TestCreatingSubAgentIDReusesBlankDraft(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.agents.CreatingSubAgentID(ctx, "ws-1", "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	blank, _ := f.repo.GetByRevision(ctx, first, "ws-1", DraftRevision())
	if blank.Enabled {
		t.Fatalf("expected blank placeholder to be disabled")
	}

	second, err := f.agents.CreatingSubAgentID(ctx, "ws-1", "user-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second != first {
		t.Fatalf("expected placeholder reuse, got %d and %d", first, second)
	}

	// Once claimed with a name it no longer counts as blank.
	if _, err := f.agents.Update(ctx, first, "ws-1", "user-1", UpsertInput{Name: strPtr("claimed")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	third, err := f.agents.CreatingSubAgentID(ctx, "ws-1", "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if third == first {
		t.Fatalf("expected a fresh placeholder after the old one was claimed")
	}
}

func TestCallRelationshipCutsCycles(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.catalog.add(&tool.Tool{ID: 10, TenantID: "ws-1", Name: "web_search"})

	c, _ := f.agents.Create(ctx, "ws-1", "user-1", UpsertInput{Name: strPtr("c")})
	b, _ := f.agents.Create(ctx, "ws-1", "user-1", UpsertInput{
		Name:            strPtr("b"),
		RelatedAgentIDs: []uint{c.AgentID},
	})
	a, _ := f.agents.Create(ctx, "ws-1", "user-1", UpsertInput{
		Name:            strPtr("a"),
		EnabledToolIDs:  []uint{10},
		RelatedAgentIDs: []uint{b.AgentID},
	})
	// Close the loop: c points back up at a.
	f.repo.ReplaceRelations(ctx, c.AgentID, "ws-1", DraftRevision(), []uint{a.AgentID}, "user-1")

	node, err := f.agents.CallRelationship(ctx, a.AgentID, "ws-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if node.Name != "a" || len(node.Tools) != 1 || node.Tools[0].Name != "web_search" {
		t.Fatalf("unexpected root node: %+v", node)
	}
	if len(node.SubAgents) != 1 || node.SubAgents[0].Name != "b" {
		t.Fatalf("unexpected children of a: %+v", node.SubAgents)
	}
	bNode := node.SubAgents[0]
	if len(bNode.SubAgents) != 1 || bNode.SubAgents[0].Name != "c" {
		t.Fatalf("unexpected children of b: %+v", bNode.SubAgents)
	}
	cNode := bNode.SubAgents[0]
	if len(cNode.SubAgents) != 0 {
		t.Fatalf("expected cycle back to a to be cut, got %+v", cNode.SubAgents)
	}

	_, err = f.agents.CallRelationship(ctx, 99, "ws-1")
	expectErrorType(t, err, platformerrors.ErrorTypeNotFound)
}

func TestExportBuildsSelfContainedPayload(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.catalog.add(&tool.Tool{ID: 10, TenantID: "ws-1", Name: "web_search", ClassName: "WebSearchTool", Source: tool.SourceLocal})
	f.models.add(5, "qwen3-30b", "Qwen3 30B")

	sub, _ := f.agents.Create(ctx, "ws-1", "user-1", UpsertInput{Name: strPtr("worker")})
	root, _ := f.agents.Create(ctx, "ws-1", "user-1", UpsertInput{
		Name:            strPtr("lead"),
		ModelID:         uintPtr(5),
		EnabledToolIDs:  []uint{10},
		RelatedAgentIDs: []uint{sub.AgentID},
	})

	payload, err := f.agents.Export(ctx, root.AgentID, "ws-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if payload.AgentID != root.AgentID || len(payload.AgentInfo) != 2 {
		t.Fatalf("unexpected payload shape: root=%d agents=%d", payload.AgentID, len(payload.AgentInfo))
	}

	rootInfo := payload.AgentInfo[strconv.FormatUint(uint64(root.AgentID), 10)]
	if rootInfo == nil {
		t.Fatalf("expected root agent in payload")
	}
	if rootInfo.ModelName == nil || *rootInfo.ModelName != "qwen3-30b" {
		t.Fatalf("expected model referenced by registry name, got %v", rootInfo.ModelName)
	}
	if len(rootInfo.Tools) != 1 || rootInfo.Tools[0].Name != "web_search" {
		t.Fatalf("expected tool referenced by catalog name, got %+v", rootInfo.Tools)
	}
	if len(rootInfo.ManagedAgents) != 1 || rootInfo.ManagedAgents[0] != sub.AgentID {
		t.Fatalf("unexpected managed agents: %+v", rootInfo.ManagedAgents)
	}

	_, err = f.agents.Export(ctx, 99, "ws-1")
	expectErrorType(t, err, platformerrors.ErrorTypeNotFound)
}

func TestImportRecreatesTree(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.catalog.add(&tool.Tool{ID: 10, TenantID: "ws-1", Name: "web_search", ClassName: "WebSearchTool", Source: tool.SourceLocal})
	f.models.add(5, "qwen3-30b", "Qwen3 30B")

	payload := &ExportPayload{
		AgentID: 100,
		AgentInfo: map[string]*ExportAgentInfo{
			"100": {
				AgentID: 100, Name: "lead", MaxSteps: 7, Enabled: true,
				ModelName:     strPtr("qwen3-30b"),
				ManagedAgents: []uint{200},
				Tools: []ExportToolConfig{
					{Name: "web_search", Source: tool.SourceLocal, Enabled: true, Params: map[string]any{"depth": 2}},
					{Name: "never_installed", Source: tool.SourceLocal, Enabled: true},
				},
			},
			"200": {AgentID: 200, Name: "worker", Enabled: true},
		},
	}

	rootID, err := f.agents.Import(ctx, "ws-1", "user-1", payload, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	root, _ := f.repo.GetByRevision(ctx, rootID, "ws-1", DraftRevision())
	if root == nil || root.Name != "lead" {
		t.Fatalf("expected imported root, got %+v", root)
	}
	if root.ModelID == nil || *root.ModelID != 5 {
		t.Fatalf("expected model remapped by name, got %v", root.ModelID)
	}
	if root.MaxSteps != 7 {
		t.Fatalf("expected max steps carried over, got %d", root.MaxSteps)
	}

	// Unknown tools are dropped, known ones rebound to local catalog ids.
	bindings, _ := f.repo.ListToolInstances(ctx, rootID, "ws-1", DraftRevision())
	if len(bindings) != 1 || bindings[0].ToolID != 10 {
		t.Fatalf("unexpected bindings: %+v", bindings)
	}

	relations, _ := f.repo.ListRelations(ctx, rootID, "ws-1", DraftRevision())
	if len(relations) != 1 {
		t.Fatalf("expected 1 relation, got %d", len(relations))
	}
	worker, _ := f.repo.GetByRevision(ctx, relations[0].SubAgentID, "ws-1", DraftRevision())
	if worker == nil || worker.Name != "worker" {
		t.Fatalf("expected imported worker, got %+v", worker)
	}
}

func TestImportNameConflicts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.agents.Create(ctx, "ws-1", "user-1", UpsertInput{Name: strPtr("lead")})

	payload := &ExportPayload{
		AgentID: 100,
		AgentInfo: map[string]*ExportAgentInfo{
			"100": {AgentID: 100, Name: "lead", Enabled: true},
		},
	}

	_, err := f.agents.Import(ctx, "ws-1", "user-1", payload, false)
	expectErrorType(t, err, platformerrors.ErrorTypeConflict)

	rootID, err := f.agents.Import(ctx, "ws-1", "user-1", payload, true)
	if err != nil {
		t.Fatalf("unexpected error with force: %v", err)
	}
	imported, _ := f.repo.GetByRevision(ctx, rootID, "ws-1", DraftRevision())
	if imported.Name != "lead_1" {
		t.Fatalf("expected suffixed rename, got %q", imported.Name)
	}
}

func TestImportRejectsBadPayloads(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.agents.Import(ctx, "ws-1", "user-1", nil, false)
	expectErrorType(t, err, platformerrors.ErrorTypeValidation)

	_, err = f.agents.Import(ctx, "ws-1", "user-1", &ExportPayload{
		AgentID:   100,
		AgentInfo: map[string]*ExportAgentInfo{"200": {AgentID: 200, Name: "orphan"}},
	}, false)
	expectErrorType(t, err, platformerrors.ErrorTypeValidation)
}

func TestSearchInfoHydratesDraft(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.models.add(5, "qwen3-30b", "Qwen3 30B")

	a, _ := f.agents.Create(ctx, "ws-1", "user-1", UpsertInput{
		Name:           strPtr("lookup"),
		ModelID:        uintPtr(5),
		EnabledToolIDs: []uint{10},
	})

	info, err := f.agents.SearchInfo(ctx, a.AgentID, "ws-1", "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if info.Version.VersionStatus != VersionStatusDraft {
		t.Fatalf("expected synthetic draft metadata, got %s", info.Version.VersionStatus)
	}
	if info.ModelName == nil || *info.ModelName != "Qwen3 30B" {
		t.Fatalf("expected resolved model display name, got %v", info.ModelName)
	}
	if info.Permission != tenant.PermissionEdit {
		t.Fatalf("expected EDIT for creator, got %s", info.Permission)
	}
	if !info.IsAvailable {
		t.Fatalf("expected draft with model and enabled tool to be available, reasons %v", info.UnavailableReasons)
	}

	_, err = f.agents.SearchInfo(ctx, 99, "ws-1", "user-1")
	expectErrorType(t, err, platformerrors.ErrorTypeNotFound)
}
