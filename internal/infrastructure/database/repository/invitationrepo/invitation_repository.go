package invitationrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"agenthub/services/agent-api/internal/domain/invitation"
	"agenthub/services/agent-api/internal/infrastructure/database/dbschema"
	"agenthub/services/agent-api/internal/infrastructure/database/transaction"
	"agenthub/services/agent-api/internal/utils/functional"
	"agenthub/services/agent-api/internal/utils/platformerrors"
)

// sortColumns maps the wire sort field names accepted by the API onto the
// actual invitation columns.
var sortColumns = map[string]string{
	"create_time":     "created_at",
	"update_time":     "updated_at",
	"expiry_date":     "expiry_date",
	"invitation_code": "invitation_code",
}

// InvitationGormRepository implements invitation.Repository using GORM.
type InvitationGormRepository struct {
	db *transaction.Database
}

var _ invitation.Repository = (*InvitationGormRepository)(nil)

func NewInvitationGormRepository(db *transaction.Database) invitation.Repository {
	return &InvitationGormRepository{db: db}
}

// Create implements invitation.Repository.
func (repo *InvitationGormRepository) Create(ctx context.Context, inv *invitation.Invitation) error {
	entity := dbschema.NewSchemaInvitation(inv)
	if err := repo.db.GetTx(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to create invitation", err, "4d7f2a96-c8e1-4b53-a0f4-9e6c3d8b1572")
	}
	inv.ID = entity.ID
	inv.CreatedAt = entity.CreatedAt
	inv.UpdatedAt = entity.UpdatedAt
	return nil
}

// Update implements invitation.Repository. Only the mutable fields are
// written; status transitions go through UpdateStatus.
func (repo *InvitationGormRepository) Update(ctx context.Context, inv *invitation.Invitation) error {
	entity := dbschema.NewSchemaInvitation(inv)
	now := time.Now()

	err := repo.db.GetTx(ctx).Model(&dbschema.Invitation{}).
		Where("id = ? AND deleted_at IS NULL", inv.ID).
		Updates(map[string]interface{}{
			"group_ids":   entity.GroupIDs,
			"capacity":    entity.Capacity,
			"expiry_date": entity.ExpiryDate,
			"updated_by":  entity.UpdatedBy,
			"updated_at":  now,
		}).Error
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to update invitation", err, "9a4e8d21-f6c3-4b70-85a9-d2c7f1e53086")
	}

	inv.UpdatedAt = now
	return nil
}

// UpdateStatus implements invitation.Repository.
func (repo *InvitationGormRepository) UpdateStatus(ctx context.Context, id uint, status invitation.Status, updatedBy string) error {
	err := repo.db.GetTx(ctx).Model(&dbschema.Invitation{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_by": updatedBy,
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to update invitation status", err, "e8c2f5a1-3d97-4640-b2e8-71a9c4f5d306")
	}
	return nil
}

// Delete implements invitation.Repository.
func (repo *InvitationGormRepository) Delete(ctx context.Context, id uint, deletedBy string) error {
	result := repo.db.GetTx(ctx).Model(&dbschema.Invitation{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]interface{}{"deleted_at": time.Now(), "updated_by": deletedBy})
	if result.Error != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to delete invitation", result.Error, "b1f6d9c4-a2e8-4573-90b1-5c8e2a7f3d64")
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("invitation %d not found", id), nil, "")
	}
	return nil
}

// GetByID implements invitation.Repository.
func (repo *InvitationGormRepository) GetByID(ctx context.Context, id uint) (*invitation.Invitation, error) {
	var entity dbschema.Invitation
	err := repo.db.GetTx(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to find invitation", err, "6c3a9e57-d1f4-4b82-8c60-f7e2d5a91b34")
	}
	return entity.EtoD(), nil
}

// GetByCode implements invitation.Repository.
func (repo *InvitationGormRepository) GetByCode(ctx context.Context, code string) (*invitation.Invitation, error) {
	var entity dbschema.Invitation
	err := repo.db.GetTx(ctx).
		Where("invitation_code = ? AND deleted_at IS NULL", code).
		First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to find invitation by code", err, "27e5c1f8-b9a4-4d36-82e7-0c5f9a3d6148")
	}
	return entity.EtoD(), nil
}

// List implements invitation.Repository with offset pagination and
// whitelisted sorting.
func (repo *InvitationGormRepository) List(ctx context.Context, filter invitation.ListFilter) ([]*invitation.Invitation, int64, error) {
	baseQuery := repo.db.GetTx(ctx).Model(&dbschema.Invitation{}).
		Where("deleted_at IS NULL")
	if filter.TenantID != nil && *filter.TenantID != "" {
		baseQuery = baseQuery.Where("tenant_id = ?", *filter.TenantID)
	}

	var total int64
	if err := baseQuery.Count(&total).Error; err != nil {
		return nil, 0, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to count invitations", err, "f3d8a6c2-e5b9-4714-a3f8-8d1c6e9a2507")
	}

	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if filter.SortOrder == "asc" {
		direction = "ASC"
	}

	offset := (filter.Page - 1) * filter.PageSize

	var rows []dbschema.Invitation
	err := baseQuery.
		Order(fmt.Sprintf("%s %s", column, direction)).
		Offset(offset).
		Limit(filter.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list invitations", err, "81c4f7d2-a9e6-4b30-95c1-2f8d6a3e7054")
	}

	return functional.Map(rows, func(item dbschema.Invitation) *invitation.Invitation {
		return item.EtoD()
	}), total, nil
}

// ListByStatus implements invitation.Repository.
func (repo *InvitationGormRepository) ListByStatus(ctx context.Context, status invitation.Status) ([]*invitation.Invitation, error) {
	var rows []dbschema.Invitation
	err := repo.db.GetTx(ctx).
		Where("status = ? AND deleted_at IS NULL", string(status)).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list invitations by status", err, "5e9b3d71-c6f2-4a48-b0e5-d9a1f7c28536")
	}

	return functional.Map(rows, func(item dbschema.Invitation) *invitation.Invitation {
		return item.EtoD()
	}), nil
}

// CountUsage implements invitation.Repository.
func (repo *InvitationGormRepository) CountUsage(ctx context.Context, invitationID uint) (int64, error) {
	var count int64
	err := repo.db.GetTx(ctx).Model(&dbschema.InvitationRecord{}).
		Where("invitation_id = ?", invitationID).
		Count(&count).Error
	if err != nil {
		return 0, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to count invitation usage", err, "d4a7e1c9-82f5-4630-9d47-c5e8f2a1b370")
	}
	return count, nil
}

// CreateRecord implements invitation.Repository.
func (repo *InvitationGormRepository) CreateRecord(ctx context.Context, rec *invitation.Record) error {
	entity := dbschema.NewSchemaInvitationRecord(rec)
	if err := repo.db.GetTx(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to create invitation record", err, "a9c5f3e7-1b86-4d24-85a9-6f2e8d4c1073")
	}
	rec.ID = entity.ID
	rec.CreatedAt = entity.CreatedAt
	return nil
}
