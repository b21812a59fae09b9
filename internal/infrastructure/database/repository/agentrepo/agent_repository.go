package agentrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"agenthub/services/agent-api/internal/domain/agent"
	"agenthub/services/agent-api/internal/infrastructure/database/dbschema"
	"agenthub/services/agent-api/internal/infrastructure/database/transaction"
	"agenthub/services/agent-api/internal/utils/functional"
	"agenthub/services/agent-api/internal/utils/platformerrors"
)

// AgentGormRepository implements agent.Repository using GORM. All methods
// join the transaction carried on the context when one is present.
type AgentGormRepository struct {
	db *transaction.Database
}

var _ agent.Repository = (*AgentGormRepository)(nil)

func NewAgentGormRepository(db *transaction.Database) agent.Repository {
	return &AgentGormRepository{db: db}
}

// Create implements agent.Repository. A draft created with AgentID zero
// adopts its own row id as the AgentID.
func (repo *AgentGormRepository) Create(ctx context.Context, a *agent.Agent) error {
	entity := dbschema.NewSchemaAgentInfo(a)
	tx := repo.db.GetTx(ctx)

	if err := tx.Create(entity).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to create agent", err, "3f8a2c61-7d94-4b05-9e12-c8a6f0d3b745")
	}

	if entity.AgentID == 0 {
		if err := tx.Model(&dbschema.AgentInfo{}).
			Where("id = ?", entity.ID).
			Update("agent_id", entity.ID).Error; err != nil {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
				"failed to assign agent id", err, "b4e7d920-5a13-4c86-8f4b-17d2e9c05a38")
		}
		entity.AgentID = entity.ID
	}

	a.ID = entity.ID
	a.AgentID = entity.AgentID
	a.CreatedAt = entity.CreatedAt
	a.UpdatedAt = entity.UpdatedAt
	return nil
}

// Update implements agent.Repository. Only definition fields are written;
// the published-version pointer has its own update path.
func (repo *AgentGormRepository) Update(ctx context.Context, a *agent.Agent) error {
	entity := dbschema.NewSchemaAgentInfo(a)
	now := time.Now()

	err := repo.db.GetTx(ctx).Model(&dbschema.AgentInfo{}).
		Where("agent_id = ? AND tenant_id = ? AND version_no = ? AND deleted_at IS NULL",
			a.AgentID, a.TenantID, a.Revision.Number()).
		Updates(map[string]interface{}{
			"public_id":               entity.PublicID,
			"name":                    entity.Name,
			"display_name":            entity.DisplayName,
			"description":             entity.Description,
			"business_description":    entity.BusinessDescription,
			"author":                  entity.Author,
			"model_id":                entity.ModelID,
			"business_logic_model_id": entity.BusinessLogicModelID,
			"max_steps":               entity.MaxSteps,
			"provide_run_summary":     entity.ProvideRunSummary,
			"duty_prompt":             entity.DutyPrompt,
			"constraint_prompt":       entity.ConstraintPrompt,
			"few_shots_prompt":        entity.FewShotsPrompt,
			"enabled":                 entity.Enabled,
			"is_new":                  entity.IsNew,
			"group_ids":               entity.GroupIDs,
			"updated_by":              entity.UpdatedBy,
			"updated_at":              now,
		}).Error
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to update agent", err, "9c2e5f18-063a-4d71-b5c9-4e8a1d7f2630")
	}

	a.UpdatedAt = now
	return nil
}

// Delete implements agent.Repository. Every copy of the agent is
// soft-deleted together with its tool bindings and relations in both
// directions.
func (repo *AgentGormRepository) Delete(ctx context.Context, agentID uint, tenantID, deletedBy string) error {
	tx := repo.db.GetTx(ctx)
	now := time.Now()

	result := tx.Model(&dbschema.AgentInfo{}).
		Where("agent_id = ? AND tenant_id = ? AND deleted_at IS NULL", agentID, tenantID).
		Updates(map[string]interface{}{"deleted_at": now, "updated_by": deletedBy})
	if result.Error != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to delete agent", result.Error, "e1b8c4d7-29f5-4a62-8d30-6f9c2b5e1847")
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("agent %d not found", agentID), nil, "")
	}

	if err := tx.Model(&dbschema.ToolInstance{}).
		Where("agent_id = ? AND tenant_id = ? AND deleted_at IS NULL", agentID, tenantID).
		Updates(map[string]interface{}{"deleted_at": now, "updated_by": deletedBy}).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to delete tool bindings", err, "7a4f9e2c-8b61-4d05-a3f8-92c5e7d10b64")
	}

	if err := tx.Model(&dbschema.AgentRelation{}).
		Where("tenant_id = ? AND deleted_at IS NULL AND (parent_agent_id = ? OR sub_agent_id = ?)",
			tenantID, agentID, agentID).
		Update("deleted_at", now).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to delete agent relations", err, "2d6b8f41-c3a7-49e5-b1d8-05f7a2c96e13")
	}

	return nil
}

// GetByRevision implements agent.Repository.
func (repo *AgentGormRepository) GetByRevision(ctx context.Context, agentID uint, tenantID string, rev agent.Revision) (*agent.Agent, error) {
	var entity dbschema.AgentInfo
	err := repo.db.GetTx(ctx).
		Where("agent_id = ? AND tenant_id = ? AND version_no = ? AND deleted_at IS NULL",
			agentID, tenantID, rev.Number()).
		First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to find agent", err, "c9f3a7e1-48d2-4b96-8a05-3e7d1f5c2b80")
	}
	return entity.EtoD(), nil
}

// ListDrafts implements agent.Repository.
func (repo *AgentGormRepository) ListDrafts(ctx context.Context, filter agent.AgentFilter) ([]*agent.Agent, error) {
	query := repo.db.GetTx(ctx).
		Where("version_no = 0 AND deleted_at IS NULL")
	if filter.TenantID != nil {
		query = query.Where("tenant_id = ?", *filter.TenantID)
	}
	if filter.Enabled != nil {
		query = query.Where("enabled = ?", *filter.Enabled)
	}
	if filter.IsNew != nil {
		query = query.Where("is_new = ?", *filter.IsNew)
	}

	var rows []dbschema.AgentInfo
	if err := query.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list agents", err, "5e2c8a94-d761-4f30-9b8e-c4a21d6f0573")
	}

	return functional.Map(rows, func(item dbschema.AgentInfo) *agent.Agent {
		return item.EtoD()
	}), nil
}

// MaxSnapshotNumber implements agent.Repository.
func (repo *AgentGormRepository) MaxSnapshotNumber(ctx context.Context, agentID uint, tenantID string) (int, error) {
	var max int
	err := repo.db.GetTx(ctx).Model(&dbschema.AgentInfo{}).
		Where("agent_id = ? AND tenant_id = ? AND deleted_at IS NULL", agentID, tenantID).
		Select("COALESCE(MAX(version_no), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to resolve max snapshot number", err, "a1d4f7c2-3e89-4650-b7a2-8c5f9e1d3046")
	}
	return max, nil
}

// UpdateCurrentVersion implements agent.Repository.
func (repo *AgentGormRepository) UpdateCurrentVersion(ctx context.Context, agentID uint, tenantID string, versionNo int) error {
	result := repo.db.GetTx(ctx).Model(&dbschema.AgentInfo{}).
		Where("agent_id = ? AND tenant_id = ? AND version_no = 0 AND deleted_at IS NULL", agentID, tenantID).
		Updates(map[string]interface{}{"current_version_no": versionNo, "updated_at": time.Now()})
	if result.Error != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to update current version", result.Error, "f8c2e6a0-91d5-4b37-8e64-2a7c0f5d9b18")
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("agent draft %d not found", agentID), nil, "")
	}
	return nil
}

// NamesExist implements agent.Repository.
func (repo *AgentGormRepository) NamesExist(ctx context.Context, tenantID string, names []string, excludeAgentID *uint) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}

	query := repo.db.GetTx(ctx).Model(&dbschema.AgentInfo{}).
		Select("name, display_name").
		Where("tenant_id = ? AND version_no = 0 AND deleted_at IS NULL", tenantID).
		Where("name IN ? OR display_name IN ?", names, names)
	if excludeAgentID != nil {
		query = query.Where("agent_id <> ?", *excludeAgentID)
	}

	var rows []struct {
		Name        string
		DisplayName string
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to check agent names", err, "6b9e1d45-a2c8-4f73-b0d6-5e8a3c17f924")
	}

	want := make(map[string]struct{}, len(names))
	for _, n := range names {
		want[n] = struct{}{}
	}

	var taken []string
	seen := make(map[string]struct{})
	for _, row := range rows {
		for _, candidate := range []string{row.Name, row.DisplayName} {
			if _, ok := want[candidate]; !ok {
				continue
			}
			if _, dup := seen[candidate]; dup {
				continue
			}
			seen[candidate] = struct{}{}
			taken = append(taken, candidate)
		}
	}
	return taken, nil
}

// ClearNewFlag implements agent.Repository.
func (repo *AgentGormRepository) ClearNewFlag(ctx context.Context, agentID uint, tenantID, updatedBy string) (int64, error) {
	result := repo.db.GetTx(ctx).Model(&dbschema.AgentInfo{}).
		Where("agent_id = ? AND tenant_id = ? AND version_no = 0 AND deleted_at IS NULL", agentID, tenantID).
		Updates(map[string]interface{}{"is_new": false, "updated_by": updatedBy, "updated_at": time.Now()})
	if result.Error != nil {
		return 0, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to clear new flag", result.Error, "d3a8c5f1-7e26-4940-a8b3-c1f6e9d27508")
	}
	return result.RowsAffected, nil
}

// UpsertToolInstance implements agent.Repository. A binding with a row id
// updates in place; otherwise the live binding for the same key is updated
// or a new row inserted.
func (repo *AgentGormRepository) UpsertToolInstance(ctx context.Context, ti *agent.ToolInstance) error {
	entity, err := dbschema.NewSchemaToolInstance(ti)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeInternal,
			"failed to encode tool params", err, "8e5b2f9d-c471-4a36-9c80-d2e7a5f13b69")
	}
	tx := repo.db.GetTx(ctx)
	now := time.Now()

	updates := map[string]interface{}{
		"enabled":    entity.Enabled,
		"params":     entity.Params,
		"updated_by": entity.UpdatedBy,
		"updated_at": now,
	}

	if entity.ID != 0 {
		if err := tx.Model(&dbschema.ToolInstance{}).
			Where("id = ?", entity.ID).
			Updates(updates).Error; err != nil {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
				"failed to update tool binding", err, "1f7d4a83-6c25-4e90-b3a7-f8d1c6e45209")
		}
		ti.UpdatedAt = now
		return nil
	}

	var existing dbschema.ToolInstance
	err = tx.Where("agent_id = ? AND tool_id = ? AND tenant_id = ? AND version_no = ? AND deleted_at IS NULL",
		entity.AgentID, entity.ToolID, entity.TenantID, entity.VersionNo).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := tx.Create(entity).Error; err != nil {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
				"failed to create tool binding", err, "4a8c6f20-e9d3-4571-a2c8-6b0f3e9d1745")
		}
		ti.ID = entity.ID
		ti.CreatedAt = entity.CreatedAt
		ti.UpdatedAt = entity.UpdatedAt
		return nil
	}
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to find tool binding", err, "b6d9e3a7-52f8-4c14-8b60-9a3e7d2c5f81")
	}

	if err := tx.Model(&dbschema.ToolInstance{}).
		Where("id = ?", existing.ID).
		Updates(updates).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to update tool binding", err, "1f7d4a83-6c25-4e90-b3a7-f8d1c6e45210")
	}
	ti.ID = existing.ID
	ti.UpdatedAt = now
	return nil
}

// GetToolInstance implements agent.Repository.
func (repo *AgentGormRepository) GetToolInstance(ctx context.Context, agentID, toolID uint, tenantID string, rev agent.Revision) (*agent.ToolInstance, error) {
	var entity dbschema.ToolInstance
	err := repo.db.GetTx(ctx).
		Where("agent_id = ? AND tool_id = ? AND tenant_id = ? AND version_no = ? AND deleted_at IS NULL",
			agentID, toolID, tenantID, rev.Number()).
		First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to find tool binding", err, "e7a3d9c5-1b48-4f26-80e5-7c2a9f4d6b31")
	}

	instance, err := entity.EtoD()
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeInternal,
			"failed to decode tool params", err, "92c5f8e1-a7d4-4b63-9e08-1d5a3c7f2b46")
	}
	return instance, nil
}

// ListToolInstances implements agent.Repository.
func (repo *AgentGormRepository) ListToolInstances(ctx context.Context, agentID uint, tenantID string, rev agent.Revision) ([]*agent.ToolInstance, error) {
	var rows []dbschema.ToolInstance
	err := repo.db.GetTx(ctx).
		Where("agent_id = ? AND tenant_id = ? AND version_no = ? AND deleted_at IS NULL",
			agentID, tenantID, rev.Number()).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list tool bindings", err, "0d7f3b92-6e51-4c88-a4d7-e2b9f6c13a50")
	}

	result := make([]*agent.ToolInstance, 0, len(rows))
	for i := range rows {
		instance, err := rows[i].EtoD()
		if err != nil {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeInternal,
				"failed to decode tool params", err, "85b1e4d7-f3a9-4c62-b7e0-9d4c2a6f1835")
		}
		result = append(result, instance)
	}
	return result, nil
}

// DeleteToolInstances implements agent.Repository.
func (repo *AgentGormRepository) DeleteToolInstances(ctx context.Context, agentID uint, tenantID string, rev agent.Revision) error {
	err := repo.db.GetTx(ctx).Model(&dbschema.ToolInstance{}).
		Where("agent_id = ? AND tenant_id = ? AND version_no = ? AND deleted_at IS NULL",
			agentID, tenantID, rev.Number()).
		Update("deleted_at", time.Now()).Error
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to delete tool bindings", err, "c4e8a2d6-95b1-4f73-8c2e-0a6d5f9b3e17")
	}
	return nil
}

// ReplaceRelations implements agent.Repository. The live edge set is diffed
// against subAgentIDs: missing edges are created, surplus edges soft-deleted,
// shared edges left untouched.
func (repo *AgentGormRepository) ReplaceRelations(ctx context.Context, agentID uint, tenantID string, rev agent.Revision, subAgentIDs []uint, createdBy string) error {
	tx := repo.db.GetTx(ctx)

	var rows []dbschema.AgentRelation
	err := tx.Where("parent_agent_id = ? AND tenant_id = ? AND version_no = ? AND deleted_at IS NULL",
		agentID, tenantID, rev.Number()).
		Find(&rows).Error
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list agent relations", err, "37d2f9b5-e8a4-4c16-90d3-b5e1c8f7a264")
	}

	want := make(map[uint]struct{}, len(subAgentIDs))
	for _, id := range subAgentIDs {
		want[id] = struct{}{}
	}

	now := time.Now()
	existing := make(map[uint]struct{}, len(rows))
	for _, row := range rows {
		if _, keep := want[row.SubAgentID]; keep {
			existing[row.SubAgentID] = struct{}{}
			continue
		}
		if err := tx.Model(&dbschema.AgentRelation{}).
			Where("id = ?", row.ID).
			Update("deleted_at", now).Error; err != nil {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
				"failed to remove agent relation", err, "a9f5c1e3-d782-4b40-8f6a-3c9e0d5b1728")
		}
	}

	for _, subID := range subAgentIDs {
		if _, ok := existing[subID]; ok {
			continue
		}
		existing[subID] = struct{}{}
		rel := &dbschema.AgentRelation{
			ParentAgentID: agentID,
			SubAgentID:    subID,
			TenantID:      tenantID,
			VersionNo:     rev.Number(),
			CreatedBy:     createdBy,
		}
		if err := tx.Create(rel).Error; err != nil {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
				"failed to create agent relation", err, "f2b7d4a9-1e63-4850-9c3b-d6a8e2f50714")
		}
	}
	return nil
}

// ListRelations implements agent.Repository.
func (repo *AgentGormRepository) ListRelations(ctx context.Context, agentID uint, tenantID string, rev agent.Revision) ([]*agent.Relation, error) {
	var rows []dbschema.AgentRelation
	err := repo.db.GetTx(ctx).
		Where("parent_agent_id = ? AND tenant_id = ? AND version_no = ? AND deleted_at IS NULL",
			agentID, tenantID, rev.Number()).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list agent relations", err, "68e3c9f4-a5d1-4b27-83f9-c0d7e4a2b615")
	}

	return functional.Map(rows, func(item dbschema.AgentRelation) *agent.Relation {
		return item.EtoD()
	}), nil
}

// ListRelationsBySubAgent implements agent.Repository.
func (repo *AgentGormRepository) ListRelationsBySubAgent(ctx context.Context, subAgentID uint, tenantID string, rev agent.Revision) ([]*agent.Relation, error) {
	var rows []dbschema.AgentRelation
	err := repo.db.GetTx(ctx).
		Where("sub_agent_id = ? AND tenant_id = ? AND version_no = ? AND deleted_at IS NULL",
			subAgentID, tenantID, rev.Number()).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list agent relations", err, "d1c6f8a3-4e92-4750-b8d1-6f3a9c5e2047")
	}

	return functional.Map(rows, func(item dbschema.AgentRelation) *agent.Relation {
		return item.EtoD()
	}), nil
}

// DeleteRelation implements agent.Repository. Only the draft edge is
// removable; snapshot edges are immutable.
func (repo *AgentGormRepository) DeleteRelation(ctx context.Context, parentAgentID, subAgentID uint, tenantID string) error {
	result := repo.db.GetTx(ctx).Model(&dbschema.AgentRelation{}).
		Where("parent_agent_id = ? AND sub_agent_id = ? AND tenant_id = ? AND version_no = 0 AND deleted_at IS NULL",
			parentAgentID, subAgentID, tenantID).
		Update("deleted_at", time.Now())
	if result.Error != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to remove agent relation", result.Error, "b3e9d2c7-86f4-4a15-9d60-e7c2f5a8b394")
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("relation %d -> %d not found", parentAgentID, subAgentID), nil, "")
	}
	return nil
}

// GetSnapshot implements agent.Repository.
func (repo *AgentGormRepository) GetSnapshot(ctx context.Context, agentID uint, tenantID string, rev agent.Revision) (*agent.Snapshot, error) {
	a, err := repo.GetByRevision(ctx, agentID, tenantID, rev)
	if err != nil || a == nil {
		return nil, err
	}

	tools, err := repo.ListToolInstances(ctx, agentID, tenantID, rev)
	if err != nil {
		return nil, err
	}

	relations, err := repo.ListRelations(ctx, agentID, tenantID, rev)
	if err != nil {
		return nil, err
	}

	return &agent.Snapshot{Agent: a, Tools: tools, Relations: relations}, nil
}

// WriteSnapshot implements agent.Repository. The draft row is locked FOR
// UPDATE so concurrent publishes of the same agent serialize; the unique
// index on (agent_id, tenant_id, version_no) rejects the loser outright.
func (repo *AgentGormRepository) WriteSnapshot(ctx context.Context, snap *agent.Snapshot) error {
	tx := repo.db.GetTx(ctx)
	a := snap.Agent

	var draft dbschema.AgentInfo
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("agent_id = ? AND tenant_id = ? AND version_no = 0 AND deleted_at IS NULL",
			a.AgentID, a.TenantID).
		First(&draft).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("agent draft %d not found", a.AgentID), err, "")
	}
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to lock agent draft", err, "59a7e4d2-c1f8-4b63-a0e9-8d5c3f7b2146")
	}

	entity := dbschema.NewSchemaAgentInfo(a)
	if err := tx.Create(entity).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to write agent snapshot", err, "ec2f6b91-d4a7-4580-b3c6-1f9e7a2d5038")
	}
	a.ID = entity.ID
	a.CreatedAt = entity.CreatedAt
	a.UpdatedAt = entity.UpdatedAt

	for _, ti := range snap.Tools {
		row, err := dbschema.NewSchemaToolInstance(ti)
		if err != nil {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeInternal,
				"failed to encode tool params", err, "74d8a1f6-e3c9-4b25-8a71-d0f4e6c9b352")
		}
		if err := tx.Create(row).Error; err != nil {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
				"failed to write tool binding snapshot", err, "a6c3e8f2-95d7-4104-b6e3-29f8c1d5a760")
		}
		ti.ID = row.ID
	}

	for _, rel := range snap.Relations {
		row := dbschema.NewSchemaAgentRelation(rel)
		if err := tx.Create(row).Error; err != nil {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
				"failed to write relation snapshot", err, "18f5c7a9-b2e6-4d30-97c4-ea1d8f3b5062")
		}
		rel.ID = row.ID
	}

	return nil
}
