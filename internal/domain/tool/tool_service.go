package tool

import (
	"context"
	"strings"

	"agenthub/services/agent-api/internal/utils/functional"
	"agenthub/services/agent-api/internal/utils/platformerrors"
)

// Service handles business logic for the tool catalog.
type Service struct {
	repo Repository
}

// NewService constructs a Service with required dependencies.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register adds or refreshes a catalog entry, matching on (tenant, name).
// Used by catalog sync and by admin creation.
func (s *Service) Register(ctx context.Context, t *Tool) (*Tool, error) {
	if strings.TrimSpace(t.Name) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"tool name is required", nil, "3a1f8e05-62d9-4c7b-a840-5f1e9d2c6b38")
	}
	if t.Source == "" {
		t.Source = SourceLocal
	}

	existing, err := s.repo.FindByName(ctx, t.Name, t.TenantID)
	if err == nil && existing != nil {
		t.ID = existing.ID
		if err := s.repo.Update(ctx, t); err != nil {
			return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to update tool")
		}
		return t, nil
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create tool")
	}
	return t, nil
}

// Get returns one catalog entry.
func (s *Service) Get(ctx context.Context, id uint, tenantID string) (*Tool, error) {
	t, err := s.repo.FindByID(ctx, id, tenantID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to find tool")
	}
	if t == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"Tool not found", nil, "8b4d2f61-a7c9-4e03-b5d8-1f6a9c3e7250")
	}
	return t, nil
}

// GetByName returns one catalog entry looked up by its unique name within
// the tenant.
func (s *Service) GetByName(ctx context.Context, name, tenantID string) (*Tool, error) {
	t, err := s.repo.FindByName(ctx, name, tenantID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to find tool")
	}
	if t == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"Tool not found", nil, "9c5e3a72-b8d0-4f14-a6e9-20b7ad4f8361")
	}
	return t, nil
}

// List returns the tenant's catalog.
func (s *Service) List(ctx context.Context, filter Filter) ([]*Tool, error) {
	tools, err := s.repo.FindByFilter(ctx, filter)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list tools")
	}
	return tools, nil
}

// SetAvailability flips the available flag of a catalog entry.
func (s *Service) SetAvailability(ctx context.Context, id uint, tenantID string, available bool) error {
	if err := s.repo.UpdateAvailability(ctx, id, tenantID, available); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to update tool availability")
	}
	return nil
}

// NamesByID resolves tool names in bulk for relation trees and detail pages.
// Missing ids are simply absent from the result.
func (s *Service) NamesByID(ctx context.Context, tenantID string, ids []uint) (map[uint]string, error) {
	if len(ids) == 0 {
		return map[uint]string{}, nil
	}
	tools, err := s.repo.FindByFilter(ctx, Filter{TenantID: &tenantID})
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to resolve tool names")
	}
	want := functional.ToSet(ids)
	names := make(map[uint]string, len(ids))
	for _, t := range tools {
		if _, ok := want[t.ID]; ok {
			names[t.ID] = t.Name
		}
	}
	return names, nil
}

// MergeParamDefaults fills missing binding params from the catalog entry's
// declared defaults. Values already set by the agent owner win.
func MergeParamDefaults(t *Tool, params map[string]any) map[string]any {
	if t == nil {
		return params
	}
	merged := make(map[string]any, len(t.Params)+len(params))
	for _, p := range t.Params {
		if p.Default != nil {
			merged[p.Name] = p.Default
		}
	}
	for k, v := range params {
		merged[k] = v
	}
	return merged
}
