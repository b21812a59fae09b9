package authhandler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"agenthub/services/agent-api/internal/domain"
	"agenthub/services/agent-api/internal/domain/tenant"
)

type fakeMemberRepo struct {
	memberships map[string]*tenant.Membership
}

func (f *fakeMemberRepo) GetTenant(ctx context.Context, tenantID string) (*tenant.Tenant, error) {
	return nil, errors.New("tenant not found")
}

func (f *fakeMemberRepo) UpsertTenant(ctx context.Context, t *tenant.Tenant) (*tenant.Tenant, error) {
	return t, nil
}

func (f *fakeMemberRepo) ListGroups(ctx context.Context, tenantID string) ([]*tenant.Group, error) {
	return nil, nil
}

func (f *fakeMemberRepo) ListDefaultGroups(ctx context.Context, tenantID string) ([]*tenant.Group, error) {
	return nil, nil
}

func (f *fakeMemberRepo) UpsertGroup(ctx context.Context, g *tenant.Group) (*tenant.Group, error) {
	return g, nil
}

func (f *fakeMemberRepo) GetMembershipByUserID(ctx context.Context, userID string) (*tenant.Membership, error) {
	m, ok := f.memberships[userID]
	if !ok {
		return nil, errors.New("membership not found")
	}
	return m, nil
}

func (f *fakeMemberRepo) UpsertMembership(ctx context.Context, m *tenant.Membership) (*tenant.Membership, error) {
	return m, nil
}

func identityProbe(t *testing.T, memberships map[string]*tenant.Membership, principal *domain.Principal) (*Identity, int) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewAuthHandler(tenant.NewService(&fakeMemberRepo{memberships: memberships}), zerolog.Nop())

	var resolved *Identity
	probe := func(c *gin.Context) {
		resolved, _ = GetIdentityFromContext(c)
		c.Status(http.StatusNoContent)
	}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if principal != nil {
			c.Set("principal", *principal)
		}
		c.Next()
	})
	r.GET("/probe", h.WithIdentityChain(probe)...)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))
	return resolved, w.Code
}

func TestEnsureIdentityRequiresPrincipal(t *testing.T) {
	identity, code := identityProbe(t, nil, nil)
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without principal, got %d", code)
	}
	if identity != nil {
		t.Fatalf("expected no identity, got %+v", identity)
	}
}

func TestEnsureIdentityUsesTokenTenant(t *testing.T) {
	// No membership rows: a tenant claim on the token must be enough.
	identity, code := identityProbe(t, nil, &domain.Principal{UserID: "u-1", TenantID: "t-9", Language: "en"})
	if code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", code)
	}
	if identity == nil || identity.TenantID != "t-9" || identity.UserID != "u-1" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
	if identity.Language != "en" {
		t.Fatalf("expected language carried over, got %q", identity.Language)
	}
}

func TestEnsureIdentityFallsBackToMembership(t *testing.T) {
	memberships := map[string]*tenant.Membership{
		"u-2": {UserID: "u-2", TenantID: "t-main", Role: tenant.RoleDev},
	}
	identity, code := identityProbe(t, memberships, &domain.Principal{UserID: "u-2"})
	if code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", code)
	}
	if identity == nil || identity.TenantID != "t-main" {
		t.Fatalf("expected tenant from membership, got %+v", identity)
	}
}

func TestEnsureIdentityRejectsWithoutMembership(t *testing.T) {
	identity, code := identityProbe(t, nil, &domain.Principal{UserID: "u-3"})
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for tenantless principal without membership, got %d", code)
	}
	if identity != nil {
		t.Fatalf("expected no identity, got %+v", identity)
	}
}

func TestGetIdentityFromContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())

	if _, ok := GetIdentityFromContext(ctx); ok {
		t.Fatalf("expected no identity on a fresh context")
	}

	ctx.Set(identityContextKey, &Identity{UserID: "u-4", TenantID: "t-4"})
	identity, ok := GetIdentityFromContext(ctx)
	if !ok || identity.UserID != "u-4" {
		t.Fatalf("expected stored identity, got %+v ok=%v", identity, ok)
	}
}
