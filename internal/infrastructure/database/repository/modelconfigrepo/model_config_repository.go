package modelconfigrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"agenthub/services/agent-api/internal/domain/modelregistry"
	"agenthub/services/agent-api/internal/infrastructure/database/dbschema"
	"agenthub/services/agent-api/internal/infrastructure/database/transaction"
	"agenthub/services/agent-api/internal/utils/platformerrors"
)

// ModelConfigGormRepository implements modelregistry.Repository using GORM.
type ModelConfigGormRepository struct {
	db *transaction.Database
}

var _ modelregistry.Repository = (*ModelConfigGormRepository)(nil)

func NewModelConfigGormRepository(db *transaction.Database) modelregistry.Repository {
	return &ModelConfigGormRepository{db: db}
}

// Create implements modelregistry.Repository.
func (repo *ModelConfigGormRepository) Create(ctx context.Context, mc *modelregistry.ModelConfig) error {
	entity, err := dbschema.NewSchemaModelConfig(mc)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeInternal,
			"failed to encode model param defaults", err, "1e8c4f72-a9d5-4b30-86e2-c7f3a1d98546")
	}
	if err := repo.db.GetTx(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to create model config", err, "f6a2d8c1-5e94-4073-b8f6-2d9c5e7a1b40")
	}
	mc.ID = entity.ID
	mc.CreatedAt = entity.CreatedAt
	mc.UpdatedAt = entity.UpdatedAt
	return nil
}

// Update implements modelregistry.Repository.
func (repo *ModelConfigGormRepository) Update(ctx context.Context, mc *modelregistry.ModelConfig) error {
	entity, err := dbschema.NewSchemaModelConfig(mc)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeInternal,
			"failed to encode model param defaults", err, "8b5f1d93-c2e7-4a48-90d6-e4a8c3f26157")
	}
	now := time.Now()

	err = repo.db.GetTx(ctx).Model(&dbschema.ModelConfig{}).
		Where("id = ? AND deleted_at IS NULL", mc.ID).
		Updates(map[string]interface{}{
			"repo":           entity.Repo,
			"name":           entity.Name,
			"display_name":   entity.DisplayName,
			"model_type":     entity.ModelType,
			"base_url":       entity.BaseURL,
			"api_key":        entity.APIKey,
			"max_tokens":     entity.MaxTokens,
			"enabled":        entity.Enabled,
			"param_defaults": entity.ParamDefaults,
			"updated_at":     now,
		}).Error
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to update model config", err, "3d9e6a14-f7c2-4b85-a1d0-68f4c2e97b53")
	}

	mc.UpdatedAt = now
	return nil
}

// Delete implements modelregistry.Repository.
func (repo *ModelConfigGormRepository) Delete(ctx context.Context, publicID, tenantID string) error {
	result := repo.db.GetTx(ctx).Model(&dbschema.ModelConfig{}).
		Where("public_id = ? AND tenant_id = ? AND deleted_at IS NULL", publicID, tenantID).
		Update("deleted_at", time.Now())
	if result.Error != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to delete model config", result.Error, "c7e1f5a8-2d96-4430-b9c7-5a3e8d1f6204")
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("model config %s not found", publicID), nil, "")
	}
	return nil
}

// FindByPublicID implements modelregistry.Repository.
func (repo *ModelConfigGormRepository) FindByPublicID(ctx context.Context, publicID, tenantID string) (*modelregistry.ModelConfig, error) {
	var entity dbschema.ModelConfig
	err := repo.db.GetTx(ctx).
		Where("public_id = ? AND tenant_id = ? AND deleted_at IS NULL", publicID, tenantID).
		First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("model config %s not found", publicID), err, "")
	}
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to find model config", err, "92d4c8f6-e1a3-4b57-80f9-d6c2a5e31748")
	}
	return repo.toDomain(ctx, &entity)
}

// FindByID implements modelregistry.Repository.
func (repo *ModelConfigGormRepository) FindByID(ctx context.Context, id uint) (*modelregistry.ModelConfig, error) {
	var entity dbschema.ModelConfig
	err := repo.db.GetTx(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("model config %d not found", id), err, "")
	}
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to find model config by ID", err, "a5f8e2c9-7b14-4d60-93a5-1c8f6d4e2b07")
	}
	return repo.toDomain(ctx, &entity)
}

// FindByFilter implements modelregistry.Repository.
func (repo *ModelConfigGormRepository) FindByFilter(ctx context.Context, filter modelregistry.ModelConfigFilter) ([]*modelregistry.ModelConfig, error) {
	query := repo.db.GetTx(ctx).Where("deleted_at IS NULL")
	if filter.TenantID != nil {
		query = query.Where("tenant_id = ?", *filter.TenantID)
	}
	if filter.Name != nil {
		query = query.Where("name = ?", *filter.Name)
	}
	if filter.ModelType != nil {
		query = query.Where("model_type = ?", *filter.ModelType)
	}
	if filter.Enabled != nil {
		query = query.Where("enabled = ?", *filter.Enabled)
	}
	if filter.ConnectStatus != nil {
		query = query.Where("connect_status = ?", string(*filter.ConnectStatus))
	}

	var rows []dbschema.ModelConfig
	if err := query.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list model configs", err, "64b9d1e7-3f82-4c05-a6d3-e9f1c7a58240")
	}

	result := make([]*modelregistry.ModelConfig, 0, len(rows))
	for i := range rows {
		mc, err := repo.toDomain(ctx, &rows[i])
		if err != nil {
			return nil, err
		}
		result = append(result, mc)
	}
	return result, nil
}

// UpdateConnectStatus implements modelregistry.Repository.
func (repo *ModelConfigGormRepository) UpdateConnectStatus(ctx context.Context, id uint, status modelregistry.ConnectStatus) error {
	err := repo.db.GetTx(ctx).Model(&dbschema.ModelConfig{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]interface{}{"connect_status": string(status), "updated_at": time.Now()}).Error
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to update connect status", err, "dc3a7e51-8f26-4940-b2e8-7a5d9c1f3682")
	}
	return nil
}

func (repo *ModelConfigGormRepository) toDomain(ctx context.Context, entity *dbschema.ModelConfig) (*modelregistry.ModelConfig, error) {
	mc, err := entity.EtoD()
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeInternal,
			"failed to decode model param defaults", err, "0f6e9c24-b5a8-4d71-8e03-c1d7f4a2b596")
	}
	return mc, nil
}
