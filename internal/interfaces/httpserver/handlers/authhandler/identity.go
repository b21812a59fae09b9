package authhandler

import (
	"github.com/gin-gonic/gin"

	middleware "agenthub/services/agent-api/internal/interfaces/httpserver/middlewares"
	"agenthub/services/agent-api/internal/interfaces/httpserver/responses"
	"agenthub/services/agent-api/internal/utils/platformerrors"
)

// GetIdentityFromContext returns the resolved identity from the request context.
func GetIdentityFromContext(c *gin.Context) (*Identity, bool) {
	val, ok := c.Get(identityContextKey)
	if !ok || val == nil {
		return nil, false
	}
	identity, ok := val.(*Identity)
	return identity, ok && identity != nil
}

func (h *AuthHandler) ensureIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetIdentityFromContext(c); ok {
			c.Next()
			return
		}

		principal, ok := middleware.PrincipalFromContext(c)
		if !ok || principal.UserID == "" {
			responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "auth-identity-001")
			c.Abort()
			return
		}

		identity := &Identity{
			UserID:   principal.UserID,
			TenantID: principal.TenantID,
			Language: principal.Language,
		}

		// Tokens without a tenant claim fall back to the membership record.
		if identity.TenantID == "" {
			member, err := h.members.ResolveMember(c.Request.Context(), principal.UserID)
			if err != nil {
				h.logger.Warn().Err(err).Str("user_id", principal.UserID).Msg("principal has no workspace membership")
				responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "no workspace membership", "auth-identity-002")
				c.Abort()
				return
			}
			identity.TenantID = member.TenantID
		}

		c.Set(identityContextKey, identity)
		c.Next()
	}
}
