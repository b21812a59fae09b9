package requests

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"agenthub/services/agent-api/internal/utils/platformerrors"
)

func testContext(t *testing.T, target string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	ctx.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return ctx
}

func TestUintParam(t *testing.T) {
	ctx := testContext(t, "/agents/12")
	ctx.Params = gin.Params{{Key: "agent_id", Value: "12"}}

	got, err := UintParam(ctx, "agent_id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 12 {
		t.Fatalf("expected 12, got %d", got)
	}

	ctx.Params = gin.Params{{Key: "agent_id", Value: "twelve"}}
	if _, err := UintParam(ctx, "agent_id"); err == nil {
		t.Fatalf("expected error for non-numeric value")
	} else {
		var perr *platformerrors.PlatformError
		if !errors.As(err, &perr) || perr.Type != platformerrors.ErrorTypeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	}

	ctx.Params = gin.Params{{Key: "agent_id", Value: "-3"}}
	if _, err := UintParam(ctx, "agent_id"); err == nil {
		t.Fatalf("expected error for negative value")
	}
}

func TestIntQuery(t *testing.T) {
	ctx := testContext(t, "/invitations?page=3")

	got, err := IntQuery(ctx, "page", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}

	got, err = IntQuery(ctx, "page_size", 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 20 {
		t.Fatalf("expected default 20, got %d", got)
	}

	ctx = testContext(t, "/invitations?page=lots")
	if _, err := IntQuery(ctx, "page", 1); err == nil {
		t.Fatalf("expected error for non-numeric value")
	}
}

func TestBoolQuery(t *testing.T) {
	ctx := testContext(t, "/tools?is_available=true")

	got, err := BoolQuery(ctx, "is_available")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || !*got {
		t.Fatalf("expected true, got %v", got)
	}

	got, err = BoolQuery(ctx, "enabled")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for absent parameter, got %v", *got)
	}

	ctx = testContext(t, "/tools?is_available=maybe")
	if _, err := BoolQuery(ctx, "is_available"); err == nil {
		t.Fatalf("expected error for malformed boolean")
	}
}
