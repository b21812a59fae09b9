package toolrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"agenthub/services/agent-api/internal/domain/tool"
	"agenthub/services/agent-api/internal/infrastructure/database/dbschema"
	"agenthub/services/agent-api/internal/infrastructure/database/transaction"
	"agenthub/services/agent-api/internal/utils/platformerrors"
)

// ToolGormRepository implements tool.Repository using GORM.
type ToolGormRepository struct {
	db *transaction.Database
}

var _ tool.Repository = (*ToolGormRepository)(nil)

func NewToolGormRepository(db *transaction.Database) tool.Repository {
	return &ToolGormRepository{db: db}
}

// Create implements tool.Repository.
func (repo *ToolGormRepository) Create(ctx context.Context, t *tool.Tool) error {
	entity, err := dbschema.NewSchemaTool(t)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeInternal,
			"failed to encode tool params", err, "5d8f2a63-c194-4e07-b3a8-76e1d9c2f504")
	}
	if err := repo.db.GetTx(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to create tool", err, "91c4e7a2-f5d8-4b36-80c1-3e9a6d2f5b74")
	}
	t.ID = entity.ID
	t.CreatedAt = entity.CreatedAt
	t.UpdatedAt = entity.UpdatedAt
	return nil
}

// Update implements tool.Repository.
func (repo *ToolGormRepository) Update(ctx context.Context, t *tool.Tool) error {
	entity, err := dbschema.NewSchemaTool(t)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeInternal,
			"failed to encode tool params", err, "a3e6d1f8-29c5-4b70-8d4e-f2a7c9e15036")
	}
	now := time.Now()

	err = repo.db.GetTx(ctx).Model(&dbschema.Tool{}).
		Where("id = ? AND tenant_id = ? AND deleted_at IS NULL", t.ID, t.TenantID).
		Updates(map[string]interface{}{
			"name":         entity.Name,
			"class_name":   entity.ClassName,
			"description":  entity.Description,
			"source":       entity.Source,
			"inputs":       entity.Inputs,
			"output_type":  entity.OutputType,
			"usage":        entity.Usage,
			"origin_name":  entity.OriginName,
			"category":     entity.Category,
			"params":       entity.Params,
			"is_available": entity.IsAvailable,
			"updated_by":   entity.UpdatedBy,
			"updated_at":   now,
		}).Error
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to update tool", err, "c8f1a5d3-6e92-4b48-a7d0-15c3e8f9b260")
	}

	t.UpdatedAt = now
	return nil
}

// Delete implements tool.Repository.
func (repo *ToolGormRepository) Delete(ctx context.Context, id uint, tenantID string) error {
	result := repo.db.GetTx(ctx).Model(&dbschema.Tool{}).
		Where("id = ? AND tenant_id = ? AND deleted_at IS NULL", id, tenantID).
		Update("deleted_at", time.Now())
	if result.Error != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to delete tool", result.Error, "e2b9c6f4-8d17-4a53-92e8-c5f0a3d6b187")
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("tool %d not found", id), nil, "")
	}
	return nil
}

// FindByID implements tool.Repository.
func (repo *ToolGormRepository) FindByID(ctx context.Context, id uint, tenantID string) (*tool.Tool, error) {
	var entity dbschema.Tool
	err := repo.db.GetTx(ctx).
		Where("id = ? AND tenant_id = ? AND deleted_at IS NULL", id, tenantID).
		First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to find tool by ID", err, "4f7a3c58-b2e6-4d91-8c05-a9f2d7e1c643")
	}
	return repo.toDomain(ctx, &entity)
}

// FindByName implements tool.Repository.
func (repo *ToolGormRepository) FindByName(ctx context.Context, name, tenantID string) (*tool.Tool, error) {
	var entity dbschema.Tool
	err := repo.db.GetTx(ctx).
		Where("name = ? AND tenant_id = ? AND deleted_at IS NULL", name, tenantID).
		First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to find tool by name", err, "7c2e8f16-a4d9-4b35-90a7-e3c5f8d2b461")
	}
	return repo.toDomain(ctx, &entity)
}

// FindByFilter implements tool.Repository.
func (repo *ToolGormRepository) FindByFilter(ctx context.Context, filter tool.Filter) ([]*tool.Tool, error) {
	query := repo.db.GetTx(ctx).Where("deleted_at IS NULL")
	if filter.TenantID != nil {
		query = query.Where("tenant_id = ?", *filter.TenantID)
	}
	if filter.Source != nil {
		query = query.Where("source = ?", string(*filter.Source))
	}
	if filter.IsAvailable != nil {
		query = query.Where("is_available = ?", *filter.IsAvailable)
	}

	var rows []dbschema.Tool
	if err := query.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list tools", err, "0a5d9e27-c8f3-4612-b4d9-68e1a3c7f520")
	}

	result := make([]*tool.Tool, 0, len(rows))
	for i := range rows {
		t, err := repo.toDomain(ctx, &rows[i])
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, nil
}

// UpdateAvailability implements tool.Repository.
func (repo *ToolGormRepository) UpdateAvailability(ctx context.Context, id uint, tenantID string, available bool) error {
	result := repo.db.GetTx(ctx).Model(&dbschema.Tool{}).
		Where("id = ? AND tenant_id = ? AND deleted_at IS NULL", id, tenantID).
		Updates(map[string]interface{}{"is_available": available, "updated_at": time.Now()})
	if result.Error != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to update tool availability", result.Error, "b7f4c2a9-1d68-4e05-83f2-9c6a5e8d1b34")
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("tool %d not found", id), nil, "")
	}
	return nil
}

func (repo *ToolGormRepository) toDomain(ctx context.Context, entity *dbschema.Tool) (*tool.Tool, error) {
	t, err := entity.EtoD()
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeInternal,
			"failed to decode tool params", err, "d9e3a7f5-42c8-4b16-a0d5-7f2c9e6b3810")
	}
	return t, nil
}
