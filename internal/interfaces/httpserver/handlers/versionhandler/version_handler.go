package versionhandler

import (
	"context"

	"agenthub/services/agent-api/internal/domain/agent"
	"agenthub/services/agent-api/internal/infrastructure/metrics"
	"agenthub/services/agent-api/internal/interfaces/httpserver/requests/versionreq"
	"agenthub/services/agent-api/internal/interfaces/httpserver/responses/versionres"
	"agenthub/services/agent-api/internal/utils/platformerrors"
)

type VersionHandler struct {
	versionService *agent.VersionService
}

func NewVersionHandler(versionService *agent.VersionService) *VersionHandler {
	return &VersionHandler{
		versionService: versionService,
	}
}

// Publish snapshots the agent draft into a new released version
func (h *VersionHandler) Publish(
	ctx context.Context,
	agentID uint,
	tenantID string,
	userID string,
	req versionreq.PublishRequest,
) (*agent.PublishResult, error) {
	result, err := h.versionService.Publish(ctx, agentID, tenantID, userID, req.VersionName, req.ReleaseNote)
	if err != nil {
		metrics.RecordPublish("", "error")
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to publish version")
	}
	metrics.RecordPublish(string(result.SourceType), "ok")

	return result, nil
}

// ListVersions lists the version registry rows of one agent
func (h *VersionHandler) ListVersions(
	ctx context.Context,
	agentID uint,
	tenantID string,
) (*versionres.VersionListResponse, error) {
	versions, total, err := h.versionService.VersionList(ctx, agentID, tenantID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to list versions")
	}

	return versionres.NewVersionListResponse(versions, total), nil
}

// GetVersion retrieves one version registry row
func (h *VersionHandler) GetVersion(
	ctx context.Context,
	agentID uint,
	tenantID string,
	versionNo int,
) (*versionres.VersionResponse, error) {
	version, err := h.versionService.GetVersion(ctx, agentID, tenantID, versionNo)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to get version")
	}

	return versionres.NewVersionResponse(version), nil
}

// UpdateMetadata edits the name and release note of a published version
func (h *VersionHandler) UpdateMetadata(
	ctx context.Context,
	agentID uint,
	tenantID string,
	userID string,
	versionNo int,
	req versionreq.UpdateMetadataRequest,
) (*versionres.VersionUpdatedResponse, error) {
	err := h.versionService.UpdateVersionMetadata(ctx, agentID, tenantID, userID, versionNo, req.VersionName, req.ReleaseNote)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to update version")
	}

	return &versionres.VersionUpdatedResponse{
		AgentID:   agentID,
		VersionNo: versionNo,
		Updated:   true,
	}, nil
}

// VersionDetail resolves the full snapshot content behind one version
func (h *VersionHandler) VersionDetail(
	ctx context.Context,
	agentID uint,
	tenantID string,
	versionNo int,
) (*agent.VersionDetail, error) {
	detail, err := h.versionService.VersionDetail(ctx, agentID, tenantID, versionNo)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to get version detail")
	}

	return detail, nil
}

// Rollback repoints the draft at an older released version
func (h *VersionHandler) Rollback(
	ctx context.Context,
	agentID uint,
	tenantID string,
	targetVersionNo int,
) (*agent.RollbackResult, error) {
	result, err := h.versionService.Rollback(ctx, agentID, tenantID, targetVersionNo)
	if err != nil {
		metrics.RecordRollback("error")
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to rollback version")
	}
	metrics.RecordRollback("ok")

	return result, nil
}

// UpdateStatus disables or archives a published version
func (h *VersionHandler) UpdateStatus(
	ctx context.Context,
	agentID uint,
	tenantID string,
	userID string,
	versionNo int,
	req versionreq.UpdateStatusRequest,
) (*versionres.VersionUpdatedResponse, error) {
	err := h.versionService.UpdateStatus(ctx, agentID, tenantID, userID, versionNo, agent.VersionStatus(req.Status))
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to update version status")
	}

	return &versionres.VersionUpdatedResponse{
		AgentID:   agentID,
		VersionNo: versionNo,
		Updated:   true,
	}, nil
}

// DeleteVersion soft deletes a version registry row and its snapshot
func (h *VersionHandler) DeleteVersion(
	ctx context.Context,
	agentID uint,
	tenantID string,
	userID string,
	versionNo int,
) (*versionres.VersionDeletedResponse, error) {
	if err := h.versionService.DeleteVersion(ctx, agentID, tenantID, userID, versionNo); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to delete version")
	}

	return &versionres.VersionDeletedResponse{
		AgentID:   agentID,
		VersionNo: versionNo,
		Deleted:   true,
	}, nil
}

// CurrentVersion reports which version the draft currently points at
func (h *VersionHandler) CurrentVersion(
	ctx context.Context,
	agentID uint,
	tenantID string,
) (*agent.CurrentVersion, error) {
	current, err := h.versionService.Current(ctx, agentID, tenantID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to get current version")
	}

	return current, nil
}

// Compare diffs two versions of one agent field by field
func (h *VersionHandler) Compare(
	ctx context.Context,
	agentID uint,
	tenantID string,
	versionNoA int,
	versionNoB int,
) (*agent.Comparison, error) {
	comparison, err := h.versionService.Compare(ctx, agentID, tenantID, versionNoA, versionNoB)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to compare versions")
	}

	return comparison, nil
}

// PublishedList lists agents with a published version visible to the caller
func (h *VersionHandler) PublishedList(
	ctx context.Context,
	tenantID string,
	userID string,
) (*versionres.PublishedListResponse, error) {
	agents, err := h.versionService.PublishedList(ctx, tenantID, userID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to list published agents")
	}

	return &versionres.PublishedListResponse{
		Agents: agents,
		Total:  len(agents),
	}, nil
}
