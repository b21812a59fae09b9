package tool

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"agenthub/services/agent-api/internal/utils/platformerrors"
)

// fakeToolRepo is an in-memory Repository; missing rows read as (nil, nil).
type fakeToolRepo struct {
	nextID uint
	rows   []*Tool
}

func (f *fakeToolRepo) Create(ctx context.Context, t *Tool) error {
	f.nextID++
	t.ID = f.nextID
	t.CreatedAt = time.Now()
	f.rows = append(f.rows, t)
	return nil
}

func (f *fakeToolRepo) Update(ctx context.Context, t *Tool) error {
	for i, row := range f.rows {
		if row.ID == t.ID {
			f.rows[i] = t
			return nil
		}
	}
	return fmt.Errorf("tool %d not found", t.ID)
}

func (f *fakeToolRepo) Delete(ctx context.Context, id uint, tenantID string) error {
	for i, row := range f.rows {
		if row.ID == id && row.TenantID == tenantID {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("tool %d not found", id)
}

func (f *fakeToolRepo) FindByID(ctx context.Context, id uint, tenantID string) (*Tool, error) {
	for _, row := range f.rows {
		if row.ID == id && row.TenantID == tenantID {
			return row, nil
		}
	}
	return nil, nil
}

func (f *fakeToolRepo) FindByName(ctx context.Context, name, tenantID string) (*Tool, error) {
	for _, row := range f.rows {
		if row.Name == name && row.TenantID == tenantID {
			return row, nil
		}
	}
	return nil, nil
}

func (f *fakeToolRepo) FindByFilter(ctx context.Context, filter Filter) ([]*Tool, error) {
	var out []*Tool
	for _, row := range f.rows {
		if filter.TenantID != nil && row.TenantID != *filter.TenantID {
			continue
		}
		if filter.Source != nil && row.Source != *filter.Source {
			continue
		}
		if filter.IsAvailable != nil && row.IsAvailable != *filter.IsAvailable {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (f *fakeToolRepo) UpdateAvailability(ctx context.Context, id uint, tenantID string, available bool) error {
	for _, row := range f.rows {
		if row.ID == id && row.TenantID == tenantID {
			row.IsAvailable = available
			return nil
		}
	}
	return fmt.Errorf("tool %d not found", id)
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

func TestRegisterUpsertsByName(t *testing.T) {
	repo := &fakeToolRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, &Tool{TenantID: "ws-1", Name: "  "})
	expectErrorType(t, err, platformerrors.ErrorTypeValidation)

	created, err := svc.Register(ctx, &Tool{TenantID: "ws-1", Name: "web_search", ClassName: "WebSearchTool"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected id assigned")
	}
	if created.Source != SourceLocal {
		t.Fatalf("expected local source default, got %s", created.Source)
	}

	// Same name refreshes the existing entry instead of adding another.
	refreshed, err := svc.Register(ctx, &Tool{
		TenantID:    "ws-1",
		Name:        "web_search",
		ClassName:   "WebSearchToolV2",
		Source:      SourceMCP,
		IsAvailable: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if refreshed.ID != created.ID {
		t.Fatalf("expected upsert to keep id %d, got %d", created.ID, refreshed.ID)
	}
	if len(repo.rows) != 1 {
		t.Fatalf("expected 1 catalog row, got %d", len(repo.rows))
	}
	if repo.rows[0].ClassName != "WebSearchToolV2" || repo.rows[0].Source != SourceMCP {
		t.Fatalf("expected fields refreshed, got %+v", repo.rows[0])
	}

	// The same name in another tenant is a separate entry.
	other, err := svc.Register(ctx, &Tool{TenantID: "ws-2", Name: "web_search"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if other.ID == created.ID {
		t.Fatalf("expected separate row per tenant")
	}
}

func TestGetNotFound(t *testing.T) {
	repo := &fakeToolRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	created, _ := svc.Register(ctx, &Tool{TenantID: "ws-1", Name: "web_search"})

	got, err := svc.Get(ctx, created.ID, "ws-1")
	if err != nil || got.Name != "web_search" {
		t.Fatalf("unexpected result: %+v (%v)", got, err)
	}

	_, err = svc.Get(ctx, 99, "ws-1")
	expectErrorType(t, err, platformerrors.ErrorTypeNotFound)

	_, err = svc.Get(ctx, created.ID, "ws-2")
	expectErrorType(t, err, platformerrors.ErrorTypeNotFound)

	got, err = svc.GetByName(ctx, "web_search", "ws-1")
	if err != nil || got.ID != created.ID {
		t.Fatalf("unexpected result: %+v (%v)", got, err)
	}
	_, err = svc.GetByName(ctx, "missing_tool", "ws-1")
	expectErrorType(t, err, platformerrors.ErrorTypeNotFound)
}

func TestListFilters(t *testing.T) {
	repo := &fakeToolRepo{}
	svc := NewService(repo)
	ctx := context.Background()
	ws := "ws-1"

	svc.Register(ctx, &Tool{TenantID: "ws-1", Name: "web_search", IsAvailable: true})
	svc.Register(ctx, &Tool{TenantID: "ws-1", Name: "notion_sync", Source: SourceMCP, IsAvailable: true})
	svc.Register(ctx, &Tool{TenantID: "ws-1", Name: "broken_tool"})

	all, err := svc.List(ctx, Filter{TenantID: &ws})
	if err != nil || len(all) != 3 {
		t.Fatalf("expected 3 tools, got %d (%v)", len(all), err)
	}

	mcp := SourceMCP
	byMCP, _ := svc.List(ctx, Filter{TenantID: &ws, Source: &mcp})
	if len(byMCP) != 1 || byMCP[0].Name != "notion_sync" {
		t.Fatalf("unexpected mcp filter result: %+v", byMCP)
	}

	available := true
	avail, _ := svc.List(ctx, Filter{TenantID: &ws, IsAvailable: &available})
	if len(avail) != 2 {
		t.Fatalf("expected 2 available tools, got %d", len(avail))
	}
}

func TestSetAvailability(t *testing.T) {
	repo := &fakeToolRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	created, _ := svc.Register(ctx, &Tool{TenantID: "ws-1", Name: "web_search", IsAvailable: true})

	if err := svc.SetAvailability(ctx, created.ID, "ws-1", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.rows[0].IsAvailable {
		t.Fatalf("expected availability off")
	}
}

func TestNamesByID(t *testing.T) {
	repo := &fakeToolRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	a, _ := svc.Register(ctx, &Tool{TenantID: "ws-1", Name: "web_search"})
	b, _ := svc.Register(ctx, &Tool{TenantID: "ws-1", Name: "notion_sync"})

	names, err := svc.NamesByID(ctx, "ws-1", []uint{a.ID, b.ID, 99})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != 2 || names[a.ID] != "web_search" || names[b.ID] != "notion_sync" {
		t.Fatalf("unexpected names: %v", names)
	}
	if _, ok := names[99]; ok {
		t.Fatalf("expected unknown id absent")
	}

	empty, err := svc.NamesByID(ctx, "ws-1", nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty map for no ids, got %v (%v)", empty, err)
	}
}

func TestMergeParamDefaults(t *testing.T) {
	def := &Tool{
		Name: "web_search",
		Params: []Param{
			{Name: "depth", Type: "int", Default: 1},
			{Name: "lang", Type: "string", Default: "en"},
			{Name: "freeform", Type: "string"},
		},
	}

	tests := []struct {
		name   string
		tool   *Tool
		params map[string]any
		want   map[string]any
	}{
		{
			name:   "defaults only",
			tool:   def,
			params: nil,
			want:   map[string]any{"depth": 1, "lang": "en"},
		},
		{
			name:   "binding values win",
			tool:   def,
			params: map[string]any{"depth": 3},
			want:   map[string]any{"depth": 3, "lang": "en"},
		},
		{
			name:   "undeclared binding values kept",
			tool:   def,
			params: map[string]any{"region": "eu"},
			want:   map[string]any{"depth": 1, "lang": "en", "region": "eu"},
		},
		{
			name:   "nil tool leaves params alone",
			tool:   nil,
			params: map[string]any{"depth": 3},
			want:   map[string]any{"depth": 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeParamDefaults(tt.tool, tt.params)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d params, got %v", len(tt.want), got)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Fatalf("expected %s=%v, got %v", k, v, got[k])
				}
			}
		})
	}
}
