package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"agenthub/services/agent-api/internal/domain"
)

func TestRateKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	ctx.Request.RemoteAddr = "10.0.0.7:1234"

	if key := rateKey(ctx); key != "ip:10.0.0.7" {
		t.Fatalf("expected ip key, got %q", key)
	}

	ctx.Set(principalContextKey, domain.Principal{UserID: "u-9"})
	if key := rateKey(ctx); key != "pid:u-9" {
		t.Fatalf("expected principal key, got %q", key)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(principalContextKey, domain.Principal{UserID: "burst"})
		c.Next()
	})
	r.Use(RateLimitMiddleware(2))
	r.GET("/probe", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	fire := func() int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))
		return w.Code
	}

	if code := fire(); code != http.StatusNoContent {
		t.Fatalf("first request should pass, got %d", code)
	}
	if code := fire(); code != http.StatusNoContent {
		t.Fatalf("second request should pass, got %d", code)
	}
	if code := fire(); code != http.StatusTooManyRequests {
		t.Fatalf("third request should be limited, got %d", code)
	}
}

func TestRateLimitKeysAreIndependent(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if uid := c.GetHeader("X-Test-User"); uid != "" {
			c.Set(principalContextKey, domain.Principal{UserID: uid})
		}
		c.Next()
	})
	r.Use(RateLimitMiddleware(1))
	r.GET("/probe", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	fire := func(user string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("X-Test-User", user)
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := fire("alice"); code != http.StatusNoContent {
		t.Fatalf("alice first request should pass, got %d", code)
	}
	if code := fire("alice"); code != http.StatusTooManyRequests {
		t.Fatalf("alice second request should be limited, got %d", code)
	}
	if code := fire("bob"); code != http.StatusNoContent {
		t.Fatalf("bob must get a separate bucket, got %d", code)
	}
}
