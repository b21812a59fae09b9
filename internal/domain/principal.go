package domain

// AuthMethod describes how a caller authenticated with the API.
type AuthMethod string

const (
	AuthMethodJWT AuthMethod = "jwt"
	// AuthMethodDev is the tokenless fallback of dev builds: requests
	// without a bearer token run as the configured default identity.
	AuthMethodDev AuthMethod = "dev"
)

// Principal captures normalized caller identity independent of auth
// mechanism. TenantID may be empty when the token carries no tenant
// claim; the identity chain then resolves it from the membership store.
type Principal struct {
	UserID      string
	TenantID    string
	Language    string
	AuthMethod  AuthMethod
	Subject     string
	Issuer      string
	Username    string
	Email       string
	Name        string
	Roles       []string
	Scopes      []string
	Credentials map[string]string
}

// HasScope checks if the principal possesses a scope.
func (p Principal) HasScope(scope string) bool {
	for _, s := range p.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}
