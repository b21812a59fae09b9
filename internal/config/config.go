package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Global singleton for backwards compatibility with envs package
var globalConfig *Config

// Config holds all environment backed configuration for agent-api.
type Config struct {
	// HTTP Server
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8080"`
	MetricsPort int    `env:"METRICS_PORT" envDefault:"9091"`
	DatabaseURL string `env:"DATABASE_URL,notEmpty"`

	// Auth
	JWKSURL             string        `env:"JWKS_URL"`
	OIDCDiscoveryURL    string        `env:"OIDC_DISCOVERY_URL"`
	Issuer              string        `env:"ISSUER,notEmpty"`
	Audience            string        `env:"AUDIENCE,notEmpty"`
	AuthorizedParty     string        `env:"AUTHORIZED_PARTY"`
	RefreshJWKSInterval time.Duration `env:"JWKS_REFRESH_INTERVAL" envDefault:"5m"`
	AuthClockSkew       time.Duration `env:"AUTH_CLOCK_SKEW" envDefault:"30s"`

	// Dev-mode identity fallback used when a request carries no token and
	// the build is a dev build.
	DefaultUserID   string `env:"DEFAULT_USER_ID" envDefault:"user_id"`
	DefaultTenantID string `env:"DEFAULT_TENANT_ID" envDefault:"tenant_id"`

	// PostgreSQL
	DBPostgresqlWriteDSN string `env:"DB_POSTGRESQL_WRITE_DSN"`
	DBPostgresqlRead1DSN string `env:"DB_POSTGRESQL_READ1_DSN"`

	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"1h"`

	// Model registry
	ModelKeySecret       string           `env:"MODEL_KEY_SECRET" envDefault:"agenthub-model-key-secret-2025"`
	BootstrapEnabled     bool             `env:"AGENT_BOOTSTRAP" envDefault:"false"`
	BootstrapConfigSet   string           `env:"AGENT_BOOTSTRAP_SET" envDefault:"default"`
	BootstrapConfigFile  string           `env:"AGENT_BOOTSTRAP_FILE"`
	Bootstrap            *BootstrapConfig `env:"-"`
	ConnectivityTimeout  time.Duration    `env:"MODEL_CONNECTIVITY_TIMEOUT" envDefault:"10s"`
	ConnectivityEnabled  bool             `env:"MODEL_CONNECTIVITY_ENABLED" envDefault:"true"`
	ConnectivityInterval int              `env:"MODEL_CONNECTIVITY_INTERVAL_MINUTES" envDefault:"60"`

	// Invitation sweep
	InvitationSweepEnabled  bool `env:"INVITATION_SWEEP_ENABLED" envDefault:"true"`
	InvitationSweepInterval int  `env:"INVITATION_SWEEP_INTERVAL_MINUTES" envDefault:"30"`

	// Name suggestions (OpenAI-compatible endpoint)
	SuggestionBaseURL string `env:"SUGGESTION_API_BASE_URL"`
	SuggestionAPIKey  string `env:"SUGGESTION_API_KEY"`
	SuggestionModel   string `env:"SUGGESTION_MODEL" envDefault:"gpt-4o-mini"`

	// Observability / Logging
	HTTPTimeout      time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
	OTLPEndpoint     string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPHeaders      string        `env:"OTEL_EXPORTER_OTLP_HEADERS"`
	ServiceName      string        `env:"SERVICE_NAME" envDefault:"agent-api"`
	ServiceNamespace string        `env:"SERVICE_NAMESPACE" envDefault:"agenthub"`
	Environment      string        `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat        string        `env:"LOG_FORMAT" envDefault:"console"`

	// Features
	AutoMigrate   bool `env:"AUTO_MIGRATE" envDefault:"true"`
	EnableSwagger bool `env:"ENABLE_SWAGGER" envDefault:"true"`

	// Browser origins allowed to call the API with credentials
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost,http://localhost:3000,http://localhost:8080,http://127.0.0.1"`

	// Rate limit for unauthenticated invitation lookups, per client per minute
	PublicRateLimitPerMinute float64 `env:"PUBLIC_RATE_LIMIT_PER_MINUTE" envDefault:"60"`

	// Internal
	EnvReloadedAt time.Time
}

// Load parses environment variables into Config and performs minimal validation.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.BootstrapConfigSet = strings.TrimSpace(cfg.BootstrapConfigSet)
	if cfg.BootstrapConfigSet == "" {
		cfg.BootstrapConfigSet = "default"
	}

	if cfg.BootstrapEnabled {
		configFile := strings.TrimSpace(cfg.BootstrapConfigFile)
		if configFile == "" {
			configFile = DefaultBootstrapConfigFile
		}
		bootstrap, err := LoadBootstrapConfig(configFile)
		if err != nil {
			return nil, fmt.Errorf("load bootstrap configs: %w", err)
		}
		cfg.Bootstrap = bootstrap
		if len(bootstrap.ModelsForSet(cfg.BootstrapConfigSet)) == 0 {
			return nil, fmt.Errorf("bootstrap config set %q is missing or empty in %s", cfg.BootstrapConfigSet, configFile)
		}
	}

	if cfg.JWKSURL == "" && cfg.OIDCDiscoveryURL == "" {
		return nil, errors.New("either JWKS_URL or OIDC_DISCOVERY_URL must be provided")
	}

	if cfg.JWKSURL != "" {
		if _, err := url.ParseRequestURI(cfg.JWKSURL); err != nil {
			return nil, fmt.Errorf("invalid JWKS_URL: %w", err)
		}
	}

	if cfg.OIDCDiscoveryURL != "" {
		if _, err := url.ParseRequestURI(cfg.OIDCDiscoveryURL); err != nil {
			return nil, fmt.Errorf("invalid OIDC_DISCOVERY_URL: %w", err)
		}
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.EnvReloadedAt = time.Now()

	// Update global singletons for backwards compatibility
	globalConfig = cfg

	return cfg, nil
}

// GetDatabaseWriteDSN returns the write DSN, falling back to DATABASE_URL.
func (c *Config) GetDatabaseWriteDSN() string {
	if strings.TrimSpace(c.DBPostgresqlWriteDSN) != "" {
		return c.DBPostgresqlWriteDSN
	}
	return c.DatabaseURL
}

// GetDatabaseReadDSN returns the replica DSN, empty when no replica is configured.
func (c *Config) GetDatabaseReadDSN() string {
	return strings.TrimSpace(c.DBPostgresqlRead1DSN)
}

// ResolveJWKSURL returns the JWKS endpoint using either the explicit JWKS_URL or the OIDC discovery document.
func (c *Config) ResolveJWKSURL(ctx context.Context) (string, error) {
	if c.JWKSURL != "" {
		return c.JWKSURL, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.OIDCDiscoveryURL, nil)
	if err != nil {
		return "", fmt.Errorf("oidc discovery request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch oidc discovery: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("oidc discovery unexpected status: %s", resp.Status)
	}

	var doc struct {
		JWKSURL string `json:"jwks_uri"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return "", fmt.Errorf("decode oidc discovery: %w", err)
	}

	if doc.JWKSURL == "" {
		return "", errors.New("jwks_uri not found in discovery document")
	}

	return doc.JWKSURL, nil
}

// GetGlobal returns the global config instance for backwards compatibility.
// Deprecated: Use dependency injection with Load() instead.
func GetGlobal() *Config {
	return globalConfig
}

// GetEnvReloadedAt returns when the environment was last reloaded
// Deprecated: Use GetGlobal().EnvReloadedAt instead
func GetEnvReloadedAt() time.Time {
	if globalConfig != nil {
		return globalConfig.EnvReloadedAt
	}
	return time.Time{}
}

// BootstrapModelEntries returns the configured model definitions for the active set.
func (c *Config) BootstrapModelEntries() []ModelBootstrapEntry {
	if c == nil || c.Bootstrap == nil {
		return nil
	}
	return c.Bootstrap.ModelsForSet(c.BootstrapConfigSet)
}

// BootstrapTenantEntries returns the configured tenant seeds for the active set.
func (c *Config) BootstrapTenantEntries() []TenantBootstrapEntry {
	if c == nil || c.Bootstrap == nil {
		return nil
	}
	return c.Bootstrap.TenantsForSet(c.BootstrapConfigSet)
}

var Version = "dev"

func IsDev() bool {
	return strings.HasPrefix(Version, "dev")
}
