package auth

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// PrincipalClaims is the subset of token claims the platform consumes.
// TenantID and Language are custom claims issued alongside the standard
// set; both may be empty, in which case the caller resolves them from
// the membership record.
type PrincipalClaims struct {
	Subject           string
	Issuer            string
	Audience          []string
	PreferredUsername string
	Email             string
	Name              string
	TenantID          string
	Language          string
	Roles             []string
	Scopes            []string
	ExpiresAt         time.Time
	IssuedAt          time.Time
	NotBefore         time.Time
	TokenID           string
	AuthorizedParty   string
}

// KeycloakValidator checks bearer tokens against the realm JWKS.
type KeycloakValidator struct {
	issuer          string
	audience        string
	authorizedParty string
	jwksURL         string
	logger          zerolog.Logger
	refreshEvery    time.Duration
	clockSkew       time.Duration
	jwks            atomic.Pointer[keyfunc.JWKS]
	lastErr         atomic.Value // stores lastErrWrap
}

// lastErrWrap keeps atomic.Value happy: it never stores a bare nil.
type lastErrWrap struct{ Err error }

const (
	jwksInitialRetryInterval   = time.Second
	jwksInitialRetryMaxBackoff = 10 * time.Second
	jwksInitialRetryTimeout    = 2 * time.Minute
)

// NewKeycloakValidator fetches the JWKS and returns a validator that keeps
// refreshing it in the background.
func NewKeycloakValidator(
	ctx context.Context,
	jwksURL,
	issuer,
	audience,
	authorizedParty string,
	refreshEvery,
	clockSkew time.Duration,
	logger zerolog.Logger,
) (*KeycloakValidator, error) {
	if jwksURL == "" {
		return nil, errors.New("jwks url is required")
	}

	validator := &KeycloakValidator{
		issuer:          issuer,
		audience:        audience,
		authorizedParty: authorizedParty,
		jwksURL:         jwksURL,
		logger:          logger,
		refreshEvery:    refreshEvery,
		clockSkew:       clockSkew,
	}
	validator.lastErr.Store(lastErrWrap{Err: nil})

	if err := validator.initJWKS(ctx); err != nil {
		return nil, err
	}

	return validator, nil
}

func (v *KeycloakValidator) initJWKS(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	options := keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   v.refreshEvery,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			v.lastErr.Store(lastErrWrap{Err: err})
			if err != nil {
				v.logger.Error().Err(err).Msg("jwks refresh failed")
			}
		},
	}

	// The IdP often starts alongside this service, so the first fetch
	// retries with backoff instead of failing the boot outright.
	deadline := time.Now().Add(jwksInitialRetryTimeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	backoff := jwksInitialRetryInterval
	for attempt := 1; ; attempt++ {
		jwks, err := keyfunc.Get(v.jwksURL, options)
		if err == nil {
			v.lastErr.Store(lastErrWrap{Err: nil})
			v.jwks.Store(jwks)
			return nil
		}

		if time.Now().Add(backoff).After(deadline) {
			return fmt.Errorf("fetch jwks: %w", err)
		}

		v.logger.Warn().
			Err(err).
			Str("jwks_url", v.jwksURL).
			Int("attempt", attempt).
			Msg("initial jwks fetch failed, retrying")

		select {
		case <-ctx.Done():
			return fmt.Errorf("fetch jwks: %w", ctx.Err())
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, jwksInitialRetryMaxBackoff)
	}
}

// Validate parses rawToken, verifies signature and registered claims, and
// maps the result onto PrincipalClaims.
func (v *KeycloakValidator) Validate(_ context.Context, rawToken string) (*PrincipalClaims, error) {
	jwks := v.jwks.Load()
	if jwks == nil {
		return nil, errors.New("jwks not initialised")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithLeeway(v.clockSkew),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := jwt.MapClaims{}
	if _, err := jwt.NewParser(opts...).ParseWithClaims(rawToken, claims, jwks.Keyfunc); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return nil, errors.New("sub claim missing")
	}

	audience, err := claims.GetAudience()
	if err != nil {
		return nil, fmt.Errorf("aud claim: %w", err)
	}
	if v.audience != "" && len(audience) > 0 && !slices.Contains(audience, v.audience) {
		return nil, errors.New("audience mismatch")
	}

	authorizedParty := claimString(claims["azp"])
	if v.authorizedParty != "" && authorizedParty != "" && authorizedParty != v.authorizedParty {
		return nil, errors.New("authorized party mismatch")
	}

	issuer, _ := claims.GetIssuer()
	expiresAt, _ := claims.GetExpirationTime()
	issuedAt, _ := claims.GetIssuedAt()
	notBefore, _ := claims.GetNotBefore()

	language := claimString(claims["locale"])
	if language == "" {
		language = claimString(claims["language"])
	}

	var scopes []string
	if scope := claimString(claims["scope"]); scope != "" {
		scopes = strings.Split(scope, " ")
	}

	return &PrincipalClaims{
		Subject:           subject,
		Issuer:            issuer,
		Audience:          audience,
		PreferredUsername: claimString(claims["preferred_username"]),
		Email:             claimString(claims["email"]),
		Name:              claimString(claims["name"]),
		TenantID:          claimString(claims["tenant_id"]),
		Language:          language,
		Roles:             tokenRoles(claims, authorizedParty),
		Scopes:            scopes,
		ExpiresAt:         numericTime(expiresAt),
		IssuedAt:          numericTime(issuedAt),
		NotBefore:         numericTime(notBefore),
		TokenID:           claimString(claims["jti"]),
		AuthorizedParty:   authorizedParty,
	}, nil
}

// Ready reports whether the JWKS is loaded and the last refresh succeeded.
func (v *KeycloakValidator) Ready() bool {
	if v.jwks.Load() == nil {
		return false
	}
	if val := v.lastErr.Load(); val != nil {
		if wrap, ok := val.(lastErrWrap); ok && wrap.Err != nil {
			return false
		}
	}
	return true
}

// tokenRoles merges realm roles with the client roles issued for the
// requesting party.
func tokenRoles(claims jwt.MapClaims, clientID string) []string {
	var roles []string
	if realm, ok := claims["realm_access"].(map[string]any); ok {
		roles = append(roles, stringSlice(realm["roles"])...)
	}
	if byClient, ok := claims["resource_access"].(map[string]any); ok && clientID != "" {
		if client, ok := byClient[clientID].(map[string]any); ok {
			roles = append(roles, stringSlice(client["roles"])...)
		}
	}
	return roles
}

func stringSlice(value any) []string {
	items, ok := value.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func numericTime(date *jwt.NumericDate) time.Time {
	if date == nil {
		return time.Time{}
	}
	return date.Time.UTC()
}

func claimString(value any) string {
	if str, ok := value.(string); ok {
		return str
	}
	return ""
}
