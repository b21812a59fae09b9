package agentrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"agenthub/services/agent-api/internal/domain/agent"
	"agenthub/services/agent-api/internal/infrastructure/database/dbschema"
	"agenthub/services/agent-api/internal/infrastructure/database/transaction"
	"agenthub/services/agent-api/internal/utils/functional"
	"agenthub/services/agent-api/internal/utils/platformerrors"
)

// AgentVersionGormRepository implements agent.VersionRepository using GORM.
type AgentVersionGormRepository struct {
	db *transaction.Database
}

var _ agent.VersionRepository = (*AgentVersionGormRepository)(nil)

func NewAgentVersionGormRepository(db *transaction.Database) agent.VersionRepository {
	return &AgentVersionGormRepository{db: db}
}

// Insert implements agent.VersionRepository.
func (repo *AgentVersionGormRepository) Insert(ctx context.Context, v *agent.Version) error {
	entity := dbschema.NewSchemaAgentVersion(v)
	if err := repo.db.GetTx(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to insert agent version", err, "f4b8d2e6-3a91-4c57-8e20-b6d9f1a3c785")
	}
	v.ID = entity.ID
	v.CreatedAt = entity.CreatedAt
	v.UpdatedAt = entity.UpdatedAt
	return nil
}

// GetByVersionNo implements agent.VersionRepository.
func (repo *AgentVersionGormRepository) GetByVersionNo(ctx context.Context, agentID uint, tenantID string, versionNo int) (*agent.Version, error) {
	var entity dbschema.AgentVersion
	err := repo.db.GetTx(ctx).
		Where("agent_id = ? AND tenant_id = ? AND version_no = ? AND deleted_at IS NULL",
			agentID, tenantID, versionNo).
		First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to find agent version", err, "2c7e9a15-d843-4f60-b9c2-5a1f8e3d7046")
	}
	return entity.EtoD(), nil
}

// List implements agent.VersionRepository. Versions come back newest first.
func (repo *AgentVersionGormRepository) List(ctx context.Context, agentID uint, tenantID string) ([]*agent.Version, error) {
	var rows []dbschema.AgentVersion
	err := repo.db.GetTx(ctx).
		Where("agent_id = ? AND tenant_id = ? AND deleted_at IS NULL", agentID, tenantID).
		Order("version_no DESC").
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list agent versions", err, "8d3f6c29-1e75-4a08-9b4d-c2e8a5f17360")
	}

	return functional.Map(rows, func(item dbschema.AgentVersion) *agent.Version {
		return item.EtoD()
	}), nil
}

// UpdateStatus implements agent.VersionRepository.
func (repo *AgentVersionGormRepository) UpdateStatus(ctx context.Context, agentID uint, tenantID string, versionNo int, status agent.VersionStatus, updatedBy string) error {
	result := repo.db.GetTx(ctx).Model(&dbschema.AgentVersion{}).
		Where("agent_id = ? AND tenant_id = ? AND version_no = ? AND deleted_at IS NULL",
			agentID, tenantID, versionNo).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_by": updatedBy,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to update version status", result.Error, "b1e5c8f3-a627-4d94-8c0b-f9d2e6a35178")
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("version %d not found", versionNo), nil, "")
	}
	return nil
}

// UpdateMetadata implements agent.VersionRepository. Nil fields are left
// untouched.
func (repo *AgentVersionGormRepository) UpdateMetadata(ctx context.Context, agentID uint, tenantID string, versionNo int, versionName, releaseNote *string, updatedBy string) error {
	updates := map[string]interface{}{
		"updated_by": updatedBy,
		"updated_at": time.Now(),
	}
	if versionName != nil {
		updates["version_name"] = *versionName
	}
	if releaseNote != nil {
		updates["release_note"] = *releaseNote
	}

	result := repo.db.GetTx(ctx).Model(&dbschema.AgentVersion{}).
		Where("agent_id = ? AND tenant_id = ? AND version_no = ? AND deleted_at IS NULL",
			agentID, tenantID, versionNo).
		Updates(updates)
	if result.Error != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to update version metadata", result.Error, "e9a2d7c4-58f1-4b36-a0d8-3c6f9e2b5417")
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("version %d not found", versionNo), nil, "")
	}
	return nil
}

// SoftDelete implements agent.VersionRepository.
func (repo *AgentVersionGormRepository) SoftDelete(ctx context.Context, agentID uint, tenantID string, versionNo int, deletedBy string) error {
	result := repo.db.GetTx(ctx).Model(&dbschema.AgentVersion{}).
		Where("agent_id = ? AND tenant_id = ? AND version_no = ? AND deleted_at IS NULL",
			agentID, tenantID, versionNo).
		Updates(map[string]interface{}{
			"deleted_at": time.Now(),
			"updated_by": deletedBy,
		})
	if result.Error != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to delete agent version", result.Error, "6f2c8e91-b5d4-4a70-93e6-d8a1c4f72b05")
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("version %d not found", versionNo), nil, "")
	}
	return nil
}
