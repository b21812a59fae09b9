package main

import (
	"context"
	"fmt"

	"agenthub/services/agent-api/internal/config"
	"agenthub/services/agent-api/internal/domain/modelregistry"
	"agenthub/services/agent-api/internal/domain/tenant"
	"agenthub/services/agent-api/internal/utils/platformerrors"
)

type DataInitializer struct {
	members *tenant.Service
	models  *modelregistry.Service
}

func (d *DataInitializer) Install(ctx context.Context) error {
	cfg := config.GetGlobal()

	if entries := cfg.BootstrapTenantEntries(); len(entries) > 0 {
		if err := d.setupConfiguredTenants(ctx, entries); err != nil {
			return err
		}
	}

	if err := d.setupDefaultIdentity(ctx, cfg); err != nil {
		return err
	}

	if entries := cfg.BootstrapModelEntries(); len(entries) > 0 {
		if err := d.setupConfiguredModels(ctx, cfg, entries); err != nil {
			return err
		}
	}

	return nil
}

func (d *DataInitializer) setupConfiguredTenants(ctx context.Context, entries []config.TenantBootstrapEntry) error {
	for i := range entries {
		entry := entries[i]
		if err := d.bootstrapTenant(ctx, entry); err != nil {
			return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, fmt.Sprintf("failed to bootstrap tenant %q", entry.TenantID))
		}
	}
	return nil
}

func (d *DataInitializer) bootstrapTenant(ctx context.Context, entry config.TenantBootstrapEntry) error {
	if _, err := d.members.EnsureTenant(ctx, entry.TenantID, entry.Name); err != nil {
		return err
	}
	for _, group := range entry.DefaultGroups {
		if _, err := d.members.EnsureGroup(ctx, entry.TenantID, group, true); err != nil {
			return err
		}
	}
	return nil
}

// setupDefaultIdentity seeds the fallback identity so a fresh install is
// usable before the first invitation is redeemed.
func (d *DataInitializer) setupDefaultIdentity(ctx context.Context, cfg *config.Config) error {
	if cfg.DefaultUserID == "" || cfg.DefaultTenantID == "" {
		return nil
	}

	if _, err := d.members.EnsureTenant(ctx, cfg.DefaultTenantID, cfg.DefaultTenantID); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to ensure default tenant")
	}
	groupIDs, err := d.members.DefaultGroupIDs(ctx, cfg.DefaultTenantID)
	if err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to resolve default groups")
	}
	if _, err := d.members.EnsureMembership(ctx, cfg.DefaultUserID, cfg.DefaultTenantID, tenant.RoleSuper, groupIDs); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to ensure default membership")
	}
	return nil
}

func (d *DataInitializer) setupConfiguredModels(ctx context.Context, cfg *config.Config, entries []config.ModelBootstrapEntry) error {
	for i := range entries {
		entry := entries[i]
		if err := d.bootstrapModel(ctx, cfg.DefaultTenantID, entry); err != nil {
			return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, fmt.Sprintf("failed to bootstrap model %q", entry.Name))
		}
	}
	return nil
}

func (d *DataInitializer) bootstrapModel(ctx context.Context, tenantID string, entry config.ModelBootstrapEntry) error {
	mc := &modelregistry.ModelConfig{
		TenantID:      tenantID,
		CreatedBy:     "system",
		Repo:          entry.Repo,
		Name:          entry.Name,
		DisplayName:   entry.DisplayName,
		ModelType:     entry.ModelType,
		BaseURL:       entry.BaseURL,
		APIKey:        entry.APIKey,
		MaxTokens:     entry.MaxTokens,
		Enabled:       entry.Enabled,
		ParamDefaults: entry.ParamDefaults,
	}

	existing, err := d.models.List(ctx, modelregistry.ModelConfigFilter{TenantID: &tenantID, Name: &entry.Name})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		mc.PublicID = existing[0].PublicID
		_, err = d.models.Update(ctx, mc)
		return err
	}
	_, err = d.models.Create(ctx, mc)
	return err
}
