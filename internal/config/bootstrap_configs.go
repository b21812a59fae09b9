package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"agenthub/services/agent-api/internal/infrastructure/logger"
)

const DefaultBootstrapConfigFile = "config/bootstrap.yml"

// ModelBootstrapEntry describes a model configuration seeded on startup.
type ModelBootstrapEntry struct {
	Repo          string
	Name          string
	DisplayName   string
	ModelType     string
	BaseURL       string
	APIKey        string
	MaxTokens     int
	Enabled       bool
	ParamDefaults map[string]*decimal.Decimal
}

// TenantBootstrapEntry describes a tenant and its default groups seeded on startup.
type TenantBootstrapEntry struct {
	TenantID      string
	Name          string
	DefaultGroups []string
}

// BootstrapConfig maintains all configured bootstrap sets.
type BootstrapConfig struct {
	modelSets  map[string][]ModelBootstrapEntry
	tenantSets map[string][]TenantBootstrapEntry
}

// ModelsForSet returns a copy of the models defined for the requested set.
func (c *BootstrapConfig) ModelsForSet(name string) []ModelBootstrapEntry {
	if c == nil {
		return nil
	}
	set := strings.TrimSpace(name)
	if set == "" {
		set = "default"
	}
	list := c.modelSets[set]
	if len(list) == 0 {
		return nil
	}
	result := make([]ModelBootstrapEntry, len(list))
	copy(result, list)
	return result
}

// TenantsForSet returns a copy of the tenant seeds defined for the requested set.
func (c *BootstrapConfig) TenantsForSet(name string) []TenantBootstrapEntry {
	if c == nil {
		return nil
	}
	set := strings.TrimSpace(name)
	if set == "" {
		set = "default"
	}
	list := c.tenantSets[set]
	if len(list) == 0 {
		return nil
	}
	result := make([]TenantBootstrapEntry, len(list))
	copy(result, list)
	return result
}

// LoadBootstrapConfig parses the yaml file at the provided path.
func LoadBootstrapConfig(path string) (*BootstrapConfig, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("bootstrap config path is empty")
	}

	log := logger.GetLogger()
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !filepath.IsAbs(cleanPath) {
			altPath := filepath.Clean(filepath.Join("services", "agent-api", cleanPath))
			altData, altErr := os.ReadFile(altPath)
			if altErr != nil {
				return nil, fmt.Errorf("read bootstrap config %q: %w", altPath, altErr)
			}
			data = altData
			cleanPath = altPath
		} else {
			return nil, fmt.Errorf("read bootstrap config %q: %w", cleanPath, err)
		}
	}
	log.Info().Str("path", cleanPath).Msg("loading bootstrap config file")

	var doc bootstrapConfigDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse bootstrap config %q: %w", cleanPath, err)
	}

	if len(doc.Models) == 0 && len(doc.Tenants) == 0 {
		return nil, fmt.Errorf("bootstrap config %q has no models or tenants defined", cleanPath)
	}

	result := &BootstrapConfig{
		modelSets:  make(map[string][]ModelBootstrapEntry),
		tenantSets: make(map[string][]TenantBootstrapEntry),
	}

	for rawSet, entries := range doc.Models {
		setName := strings.TrimSpace(rawSet)
		if setName == "" || len(entries) == 0 {
			continue
		}
		for idx, entry := range entries {
			entryLogger := log.With().Str("set", setName).Int("index", idx).Str("repo", entry.Repo).Logger()
			enabled, err := parseEnabled(entry.EnableRaw)
			if err != nil {
				return nil, fmt.Errorf("models.%s[%d]: %w", setName, idx, err)
			}
			if !enabled {
				entryLogger.Info().Msg("skipping model (enable=false)")
				continue
			}
			normalized, err := normalizeModelEntry(entry)
			if err != nil {
				return nil, fmt.Errorf("models.%s[%d]: %w", setName, idx, err)
			}
			entryLogger.Info().
				Str("type", normalized.ModelType).
				Str("base_url", normalized.BaseURL).
				Str("display_name", normalized.DisplayName).
				Msg("including model for bootstrap")
			result.modelSets[setName] = append(result.modelSets[setName], normalized)
		}
	}

	for rawSet, entries := range doc.Tenants {
		setName := strings.TrimSpace(rawSet)
		if setName == "" || len(entries) == 0 {
			continue
		}
		for idx, entry := range entries {
			normalized, err := normalizeTenantEntry(entry)
			if err != nil {
				return nil, fmt.Errorf("tenants.%s[%d]: %w", setName, idx, err)
			}
			result.tenantSets[setName] = append(result.tenantSets[setName], normalized)
		}
	}

	if len(result.modelSets) == 0 && len(result.tenantSets) == 0 {
		return nil, fmt.Errorf("bootstrap config %q has no valid entries", cleanPath)
	}

	return result, nil
}

type bootstrapConfigDocument struct {
	Models  map[string][]modelConfigEntry  `yaml:"models"`
	Tenants map[string][]tenantConfigEntry `yaml:"tenants"`
}

type modelConfigEntry struct {
	EnableRaw   string            `yaml:"enable"`
	Repo        string            `yaml:"repo"`
	Name        string            `yaml:"name"`
	DisplayName string            `yaml:"display_name"`
	Type        string            `yaml:"type"`
	URL         string            `yaml:"url"`
	BaseURL     string            `yaml:"base_url"`
	APIKey      string            `yaml:"api_key"`
	Key         string            `yaml:"key"`
	MaxTokens   int               `yaml:"max_tokens"`
	Params      map[string]string `yaml:"params"`
}

type tenantConfigEntry struct {
	TenantID string   `yaml:"tenant_id"`
	Name     string   `yaml:"name"`
	Groups   []string `yaml:"groups"`
}

func normalizeModelEntry(entry modelConfigEntry) (ModelBootstrapEntry, error) {
	modelType := strings.TrimSpace(entry.Type)
	if modelType == "" {
		modelType = "llm"
	}

	repo := strings.TrimSpace(os.ExpandEnv(entry.Repo))
	name := strings.TrimSpace(os.ExpandEnv(entry.Name))
	if repo == "" && name == "" {
		return ModelBootstrapEntry{}, errors.New("model repo or name is required")
	}
	if name == "" {
		name = repo
	}

	baseURL := firstNonEmpty(entry.URL, entry.BaseURL)
	baseURL = strings.TrimSpace(os.ExpandEnv(baseURL))
	if baseURL == "" {
		return ModelBootstrapEntry{}, errors.New("model url is required")
	}

	displayName := strings.TrimSpace(os.ExpandEnv(entry.DisplayName))
	if displayName == "" {
		displayName = name
	}

	apiKey := strings.TrimSpace(firstNonEmpty(entry.APIKey, entry.Key))
	if apiKey != "" {
		apiKey = os.ExpandEnv(apiKey)
	}

	var params map[string]*decimal.Decimal
	for k, v := range entry.Params {
		key := strings.TrimSpace(k)
		val := strings.TrimSpace(os.ExpandEnv(v))
		if key == "" || val == "" {
			continue
		}
		dec, err := decimal.NewFromString(val)
		if err != nil {
			return ModelBootstrapEntry{}, fmt.Errorf("params.%s: %w", key, err)
		}
		if params == nil {
			params = make(map[string]*decimal.Decimal)
		}
		params[key] = &dec
	}

	return ModelBootstrapEntry{
		Repo:          repo,
		Name:          name,
		DisplayName:   displayName,
		ModelType:     modelType,
		BaseURL:       baseURL,
		APIKey:        apiKey,
		MaxTokens:     entry.MaxTokens,
		Enabled:       true,
		ParamDefaults: params,
	}, nil
}

func normalizeTenantEntry(entry tenantConfigEntry) (TenantBootstrapEntry, error) {
	tenantID := strings.TrimSpace(os.ExpandEnv(entry.TenantID))
	if tenantID == "" {
		return TenantBootstrapEntry{}, errors.New("tenant_id is required")
	}

	name := strings.TrimSpace(os.ExpandEnv(entry.Name))
	if name == "" {
		name = tenantID
	}

	groups := make([]string, 0, len(entry.Groups))
	for _, g := range entry.Groups {
		group := strings.TrimSpace(os.ExpandEnv(g))
		if group == "" {
			continue
		}
		groups = append(groups, group)
	}

	return TenantBootstrapEntry{
		TenantID:      tenantID,
		Name:          name,
		DefaultGroups: groups,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func parseEnabled(raw string) (bool, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return true, nil
	}

	resolved := expandWithDefault(value)
	resolved = strings.TrimSpace(resolved)
	if resolved == "" {
		return true, nil
	}

	parsed, err := strconv.ParseBool(resolved)
	if err != nil {
		return false, fmt.Errorf("enable: %w", err)
	}
	return parsed, nil
}

// expandWithDefault expands ${VAR} and ${VAR:-default} syntax using os envs.
func expandWithDefault(raw string) string {
	if !strings.Contains(raw, "${") {
		return os.ExpandEnv(raw)
	}
	start := strings.Index(raw, "${")
	end := strings.Index(raw[start:], "}")
	if start == -1 || end == -1 {
		return os.ExpandEnv(raw)
	}
	end = start + end
	expr := raw[start+2 : end]
	defaultVal := ""
	varName := expr
	if strings.Contains(expr, ":-") {
		parts := strings.SplitN(expr, ":-", 2)
		varName = parts[0]
		defaultVal = parts[1]
	}
	val := os.Getenv(varName)
	if val == "" {
		val = defaultVal
	}
	resolved := raw[:start] + val + raw[end+1:]
	return os.ExpandEnv(resolved)
}
