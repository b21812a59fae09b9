package tenantrepo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"agenthub/services/agent-api/internal/domain/tenant"
	"agenthub/services/agent-api/internal/infrastructure/database/dbschema"
	"agenthub/services/agent-api/internal/infrastructure/database/transaction"
	"agenthub/services/agent-api/internal/utils/functional"
	"agenthub/services/agent-api/internal/utils/platformerrors"
)

// TenantGormRepository implements tenant.Repository using GORM.
type TenantGormRepository struct {
	db *transaction.Database
}

var _ tenant.Repository = (*TenantGormRepository)(nil)

func NewTenantGormRepository(db *transaction.Database) tenant.Repository {
	return &TenantGormRepository{db: db}
}

// GetTenant implements tenant.Repository.
func (repo *TenantGormRepository) GetTenant(ctx context.Context, tenantID string) (*tenant.Tenant, error) {
	var entity dbschema.Tenant
	err := repo.db.GetTx(ctx).
		Where("tenant_id = ?", tenantID).
		First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("tenant %s not found", tenantID), err, "")
	}
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to find tenant", err, "7e3c9f51-a8d2-4b64-90c7-f5e1a3d82b06")
	}
	return entity.EtoD(), nil
}

// UpsertTenant implements tenant.Repository, matching on tenant_id.
func (repo *TenantGormRepository) UpsertTenant(ctx context.Context, t *tenant.Tenant) (*tenant.Tenant, error) {
	entity := dbschema.NewSchemaTenant(t)

	assignments := map[string]any{
		"name":       entity.Name,
		"updated_at": gorm.Expr("NOW()"),
	}

	if err := repo.db.GetTx(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}},
			DoUpdates: clause.Assignments(assignments),
		}).
		Create(entity).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to upsert tenant", err, "b9d5e1a7-4c83-4f20-86b9-2e7f5c1d3a48")
	}

	var persisted dbschema.Tenant
	if err := repo.db.GetTx(ctx).
		Where("tenant_id = ?", entity.TenantID).
		First(&persisted).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to reload upserted tenant", err, "e4f8a2c6-d917-4350-b1e4-8c6a9f2d5073")
	}
	return persisted.EtoD(), nil
}

// ListGroups implements tenant.Repository.
func (repo *TenantGormRepository) ListGroups(ctx context.Context, tenantID string) ([]*tenant.Group, error) {
	var rows []dbschema.Group
	err := repo.db.GetTx(ctx).
		Where("tenant_id = ?", tenantID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list groups", err, "28c6f4d9-5a71-4e83-92d0-b3f7e5a1c864")
	}

	return functional.Map(rows, func(item dbschema.Group) *tenant.Group {
		return item.EtoD()
	}), nil
}

// ListDefaultGroups implements tenant.Repository.
func (repo *TenantGormRepository) ListDefaultGroups(ctx context.Context, tenantID string) ([]*tenant.Group, error) {
	var rows []dbschema.Group
	err := repo.db.GetTx(ctx).
		Where("tenant_id = ? AND is_default = ?", tenantID, true).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list default groups", err, "d1a7c3e9-6f52-4b08-a4c1-95e8d2f7b630")
	}

	return functional.Map(rows, func(item dbschema.Group) *tenant.Group {
		return item.EtoD()
	}), nil
}

// UpsertGroup implements tenant.Repository, matching on (tenant_id, name).
func (repo *TenantGormRepository) UpsertGroup(ctx context.Context, g *tenant.Group) (*tenant.Group, error) {
	entity := dbschema.NewSchemaGroup(g)

	assignments := map[string]any{
		"is_default": entity.IsDefault,
		"updated_at": gorm.Expr("NOW()"),
	}

	if err := repo.db.GetTx(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "name"}},
			DoUpdates: clause.Assignments(assignments),
		}).
		Create(entity).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to upsert group", err, "f5b2d8e4-a196-4c73-85f2-0d9e7a3c1b56")
	}

	var persisted dbschema.Group
	if err := repo.db.GetTx(ctx).
		Where("tenant_id = ? AND name = ?", entity.TenantID, entity.Name).
		First(&persisted).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to reload upserted group", err, "39e7a5c1-d4f8-4620-b7a9-c2f5e8d10634")
	}
	return persisted.EtoD(), nil
}

// GetMembershipByUserID implements tenant.Repository.
func (repo *TenantGormRepository) GetMembershipByUserID(ctx context.Context, userID string) (*tenant.Membership, error) {
	var entity dbschema.Membership
	err := repo.db.GetTx(ctx).
		Where("user_id = ?", userID).
		First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("membership for user %s not found", userID), err, "")
	}
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to find membership", err, "a2c8e6f4-1d95-4b37-80a2-6e3f9c5d7184")
	}
	return entity.EtoD(), nil
}

// UpsertMembership implements tenant.Repository, matching on user_id.
func (repo *TenantGormRepository) UpsertMembership(ctx context.Context, m *tenant.Membership) (*tenant.Membership, error) {
	entity := dbschema.NewSchemaMembership(m)

	assignments := map[string]any{
		"tenant_id":  entity.TenantID,
		"role":       entity.Role,
		"group_ids":  entity.GroupIDs,
		"updated_at": gorm.Expr("NOW()"),
	}

	if err := repo.db.GetTx(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(assignments),
		}).
		Create(entity).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to upsert membership", err, "c6e9d3a1-8f74-4250-9c6e-b1a5f8e2d397")
	}

	var persisted dbschema.Membership
	if err := repo.db.GetTx(ctx).
		Where("user_id = ?", entity.UserID).
		First(&persisted).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to reload upserted membership", err, "58f1c7d9-e2a6-4b84-a0d7-3c9e6f5a2b18")
	}
	return persisted.EtoD(), nil
}
