package modelregistry

import (
	"context"
	"strings"

	"agenthub/services/agent-api/internal/utils/crypto"
	"agenthub/services/agent-api/internal/utils/idgen"
	"agenthub/services/agent-api/internal/utils/platformerrors"
)

// Config carries registry-level settings injected from the environment.
type Config struct {
	// KeySecret encrypts model API keys at rest.
	KeySecret string
}

// Service handles business logic for the model registry.
type Service struct {
	repo    Repository
	checker ConnectivityChecker
	cfg     Config
}

// NewService constructs a Service with required dependencies.
func NewService(repo Repository, checker ConnectivityChecker, cfg Config) *Service {
	return &Service{repo: repo, checker: checker, cfg: cfg}
}

// Create registers a model endpoint for a tenant. The API key is encrypted
// before it reaches storage.
func (s *Service) Create(ctx context.Context, mc *ModelConfig) (*ModelConfig, error) {
	if strings.TrimSpace(mc.Name) == "" && strings.TrimSpace(mc.Repo) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"model name or repo is required", nil, "8d21f6aa-3b17-4f0e-9c7d-64f1a2d0b3e5")
	}
	if strings.TrimSpace(mc.BaseURL) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"model base url is required", nil, "c4a90d77-52e8-4b63-a1f2-9e07c3d8b6a4")
	}

	if mc.PublicID == "" {
		publicID, err := idgen.GenerateSecureID("model", 16)
		if err != nil {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
				"failed to generate model id", err, "5b7e1f30-9a44-4c82-bd16-08d2e7f5c9a3")
		}
		mc.PublicID = publicID
	}
	if mc.Name == "" {
		mc.Name = mc.Repo
	}
	if mc.DisplayName == "" {
		mc.DisplayName = mc.Name
	}
	if mc.ModelType == "" {
		mc.ModelType = "llm"
	}
	if mc.ConnectStatus == "" {
		mc.ConnectStatus = ConnectStatusNotDetected
	}

	stored := *mc
	if err := s.sealKey(ctx, &stored); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, &stored); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create model config")
	}
	mc.ID = stored.ID
	mc.CreatedAt = stored.CreatedAt
	mc.UpdatedAt = stored.UpdatedAt
	return mc, nil
}

// Get returns a model config with its API key decrypted.
func (s *Service) Get(ctx context.Context, publicID, tenantID string) (*ModelConfig, error) {
	mc, err := s.repo.FindByPublicID(ctx, publicID, tenantID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "model config not found")
	}
	if err := s.openKey(ctx, mc); err != nil {
		return nil, err
	}
	return mc, nil
}

// GetByID returns a model config by internal id with its API key decrypted.
func (s *Service) GetByID(ctx context.Context, id uint) (*ModelConfig, error) {
	mc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "model config not found")
	}
	if err := s.openKey(ctx, mc); err != nil {
		return nil, err
	}
	return mc, nil
}

// List returns the tenant's model configs. API keys stay sealed; list
// surfaces never need them.
func (s *Service) List(ctx context.Context, filter ModelConfigFilter) ([]*ModelConfig, error) {
	configs, err := s.repo.FindByFilter(ctx, filter)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list model configs")
	}
	for _, mc := range configs {
		mc.APIKey = ""
	}
	return configs, nil
}

// Update re-encrypts the API key when the caller supplied a new one,
// otherwise keeps the stored ciphertext untouched.
func (s *Service) Update(ctx context.Context, mc *ModelConfig) (*ModelConfig, error) {
	existing, err := s.repo.FindByPublicID(ctx, mc.PublicID, mc.TenantID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "model config not found")
	}

	stored := *mc
	stored.ID = existing.ID
	if stored.APIKey == "" {
		stored.APIKey = existing.APIKey
	} else if err := s.sealKey(ctx, &stored); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, &stored); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to update model config")
	}
	return mc, nil
}

// Delete removes a model config from the tenant's registry.
func (s *Service) Delete(ctx context.Context, publicID, tenantID string) error {
	if err := s.repo.Delete(ctx, publicID, tenantID); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to delete model config")
	}
	return nil
}

// DisplayNameByID resolves the display name agents show for a model id.
// Unknown ids resolve to an empty string rather than an error so agent
// detail pages render with a missing-model availability hint instead of
// failing outright.
func (s *Service) DisplayNameByID(ctx context.Context, id uint) string {
	mc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ""
	}
	return mc.DisplayName
}

// ModelInfoByID resolves both the registry name and display name for a
// model id. found is false for unknown ids.
func (s *Service) ModelInfoByID(ctx context.Context, id uint) (string, string, bool) {
	mc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", "", false
	}
	return mc.Name, mc.DisplayName, true
}

// ModelIDByName resolves a registry name back to its id within a tenant.
// Used when re-linking imported agents to local model configs.
func (s *Service) ModelIDByName(ctx context.Context, tenantID, name string) (uint, bool) {
	if name == "" {
		return 0, false
	}
	configs, err := s.repo.FindByFilter(ctx, ModelConfigFilter{TenantID: &tenantID, Name: &name})
	if err != nil || len(configs) == 0 {
		return 0, false
	}
	return configs[0].ID, true
}

// CheckConnectivity probes the endpoint and persists the resulting status.
func (s *Service) CheckConnectivity(ctx context.Context, publicID, tenantID string) (ConnectStatus, error) {
	mc, err := s.Get(ctx, publicID, tenantID)
	if err != nil {
		return "", err
	}

	if err := s.repo.UpdateConnectStatus(ctx, mc.ID, ConnectStatusDetecting); err != nil {
		return "", platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to update connect status")
	}

	status := ConnectStatusAvailable
	if err := s.checker.Check(ctx, mc); err != nil {
		status = ConnectStatusUnavailable
	}
	if err := s.repo.UpdateConnectStatus(ctx, mc.ID, status); err != nil {
		return "", platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to update connect status")
	}
	return status, nil
}

// SweepConnectivity re-probes every enabled model. Called from the cron
// schedule; failures on individual models do not abort the sweep.
func (s *Service) SweepConnectivity(ctx context.Context) (int, error) {
	enabled := true
	configs, err := s.repo.FindByFilter(ctx, ModelConfigFilter{Enabled: &enabled})
	if err != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list models for sweep")
	}

	checked := 0
	for _, mc := range configs {
		full, err := s.GetByID(ctx, mc.ID)
		if err != nil {
			continue
		}
		status := ConnectStatusAvailable
		if err := s.checker.Check(ctx, full); err != nil {
			status = ConnectStatusUnavailable
		}
		if err := s.repo.UpdateConnectStatus(ctx, mc.ID, status); err != nil {
			continue
		}
		checked++
	}
	return checked, nil
}

func (s *Service) sealKey(ctx context.Context, mc *ModelConfig) error {
	if mc.APIKey == "" {
		return nil
	}
	sealed, err := crypto.EncryptString(s.cfg.KeySecret, mc.APIKey)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"failed to encrypt model api key", err, "e2f8c1a9-7d63-4b05-8a42-1c9f0d6e5b37")
	}
	mc.APIKey = sealed
	return nil
}

func (s *Service) openKey(ctx context.Context, mc *ModelConfig) error {
	if mc.APIKey == "" {
		return nil
	}
	opened, err := crypto.DecryptString(s.cfg.KeySecret, mc.APIKey)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"failed to decrypt model api key", err, "91c3b7f4-2e58-4d06-b1a9-7f0e4c8d2a61")
	}
	mc.APIKey = opened
	return nil
}
