package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

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

func TestRequireAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	members := tenant.NewService(&fakeMemberRepo{
		memberships: map[string]*tenant.Membership{
			"admin-1": {UserID: "admin-1", TenantID: "t-1", Role: tenant.RoleAdmin},
			"dev-1":   {UserID: "dev-1", TenantID: "t-1", Role: tenant.RoleDev},
		},
	})

	cases := []struct {
		name      string
		principal *domain.Principal
		wantCode  int
	}{
		{name: "no principal", principal: nil, wantCode: http.StatusUnauthorized},
		{
			name:      "dev identity bypasses membership lookup",
			principal: &domain.Principal{UserID: "anyone", AuthMethod: domain.AuthMethodDev},
			wantCode:  http.StatusNoContent,
		},
		{
			name:      "admin member",
			principal: &domain.Principal{UserID: "admin-1", AuthMethod: domain.AuthMethodJWT},
			wantCode:  http.StatusNoContent,
		},
		{
			name:      "non-admin member",
			principal: &domain.Principal{UserID: "dev-1", AuthMethod: domain.AuthMethodJWT},
			wantCode:  http.StatusForbidden,
		},
		{
			name:      "unknown member",
			principal: &domain.Principal{UserID: "ghost", AuthMethod: domain.AuthMethodJWT},
			wantCode:  http.StatusUnauthorized,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.Use(func(c *gin.Context) {
				if tc.principal != nil {
					c.Set(principalContextKey, *tc.principal)
				}
				c.Next()
			})
			r.Use(RequireAdmin(members))
			r.GET("/probe", func(c *gin.Context) { c.Status(http.StatusNoContent) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))

			if w.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, w.Code)
			}
		})
	}
}
