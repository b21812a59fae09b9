// Package authhandler resolves the authenticated principal into the tenant
// identity the resource handlers operate on.
package authhandler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"agenthub/services/agent-api/internal/domain/tenant"
)

const identityContextKey = "identity"

// Identity is the resolved caller identity: who is calling and which
// workspace they act in.
type Identity struct {
	UserID   string
	TenantID string
	Language string
}

// AuthHandler coordinates per-request identity resolution helpers.
type AuthHandler struct {
	members *tenant.Service
	logger  zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(members *tenant.Service, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		members: members,
		logger:  logger,
	}
}

// WithIdentityChain resolves the caller's tenant identity before executing
// handlers. Routes that must serve callers without a membership yet (such
// as invitation redemption) read the principal directly instead.
func (h *AuthHandler) WithIdentityChain(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	chain := []gin.HandlerFunc{h.ensureIdentity()}
	return append(chain, handlers...)
}
