package agent

import (
	"context"
	"fmt"

	"agenthub/services/agent-api/internal/domain/tenant"
	"agenthub/services/agent-api/internal/utils/platformerrors"
)

// TxRunner runs fn inside one database transaction. Repositories called with
// the ctx fn receives join that transaction.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ModelResolver resolves model references on snapshots to their registry
// entries. Unknown ids resolve to zero values, not errors; a snapshot may
// outlive the model it referenced.
type ModelResolver interface {
	DisplayNameByID(ctx context.Context, id uint) string
	ModelInfoByID(ctx context.Context, id uint) (name string, displayName string, found bool)
	ModelIDByName(ctx context.Context, tenantID, name string) (uint, bool)
}

// MemberDirectory exposes the membership facts version flows need.
type MemberDirectory interface {
	RoleOf(ctx context.Context, userID string) (tenant.Role, error)
	GroupIDsOf(ctx context.Context, userID string) ([]int64, error)
}

// Availability reasons reported on version details and published listings.
const (
	ReasonModelNotConfigured = "model_not_configured"
	ReasonNoTools            = "no_tools"
	ReasonAllToolsDisabled   = "all_tools_disabled"
	ReasonDuplicateName      = "duplicate_name"
)

// PublishResult reports the outcome of a publish.
type PublishResult struct {
	ID        uint   `json:"id"`
	VersionNo int    `json:"version_no"`
	Message   string `json:"message"`

	// SourceType of the created registry row, for callers that need it.
	SourceType SourceType `json:"-"`
}

// RollbackResult reports the outcome of a rollback.
type RollbackResult struct {
	Message     string  `json:"message"`
	VersionNo   int     `json:"version_no"`
	VersionName *string `json:"version_name"`
}

// VersionInfo is the metadata block nested inside a version detail.
type VersionInfo struct {
	VersionName     *string       `json:"version_name"`
	VersionStatus   VersionStatus `json:"version_status"`
	ReleaseNote     *string       `json:"release_note"`
	SourceType      SourceType    `json:"source_type"`
	SourceVersionNo int           `json:"source_version_no"`
}

// VersionDetail re-hydrates a snapshot into an agent-info shaped object.
type VersionDetail struct {
	Version                VersionInfo     `json:"version"`
	Agent                  *Agent          `json:"agent"`
	Tools                  []*ToolInstance `json:"tools"`
	SubAgentIDs            []uint          `json:"sub_agent_id_list"`
	ModelName              *string         `json:"model_name"`
	BusinessLogicModelName *string         `json:"business_logic_model_name"`
	IsAvailable            bool            `json:"is_available"`
	UnavailableReasons     []string        `json:"unavailable_reasons"`
}

// CurrentVersion describes the version the draft pointer currently selects.
type CurrentVersion struct {
	VersionNo       int           `json:"version_no"`
	VersionName     *string       `json:"version_name"`
	Status          VersionStatus `json:"status"`
	SourceType      SourceType    `json:"source_type"`
	SourceVersionNo *int          `json:"source_version_no"`
	ReleaseNote     *string       `json:"release_note"`
	CreatedBy       string        `json:"created_by"`
	CreatedAt       int64         `json:"create_time"`
}

// Difference is one field-level divergence between two compared versions.
type Difference struct {
	Field  string `json:"field"`
	Label  string `json:"label"`
	ValueA any    `json:"value_a"`
	ValueB any    `json:"value_b"`
}

// Comparison holds two hydrated versions and their field differences.
type Comparison struct {
	VersionA    *VersionDetail `json:"version_a"`
	VersionB    *VersionDetail `json:"version_b"`
	Differences []Difference   `json:"differences"`
}

// PublishedAgent is one row of the published agent listing.
type PublishedAgent struct {
	AgentID            uint     `json:"agent_id"`
	Name               string   `json:"name"`
	DisplayName        string   `json:"display_name"`
	Description        *string  `json:"description"`
	Author             *string  `json:"author"`
	ModelID            *uint    `json:"model_id"`
	ModelName          *string  `json:"model_name"`
	ModelDisplayName   *string  `json:"model_display_name"`
	IsAvailable        bool     `json:"is_available"`
	UnavailableReasons []string `json:"unavailable_reasons"`
	IsNew              bool     `json:"is_new"`
	GroupIDs           []int64  `json:"group_ids"`
	Permission         string   `json:"permission"`
	PublishedVersionNo int      `json:"published_version_no"`
}

// VersionService implements the publish / rollback / compare workflow over
// the versioned agent aggregate.
type VersionService struct {
	repo     Repository
	versions VersionRepository
	models   ModelResolver
	members  MemberDirectory
	tx       TxRunner
}

// NewVersionService constructs a VersionService with required dependencies.
func NewVersionService(repo Repository, versions VersionRepository, models ModelResolver, members MemberDirectory, tx TxRunner) *VersionService {
	return &VersionService{
		repo:     repo,
		versions: versions,
		models:   models,
		members:  members,
		tx:       tx,
	}
}

// Publish copies the draft into a new immutable snapshot, inserts the
// registry row and repoints the draft at the new version. The whole
// operation runs in one transaction with the draft row locked, so
// concurrent publishes serialize and version numbers never collide.
//
// When the draft pointer was previously rolled back (it no longer selects
// the highest snapshot), the publish materializes that rollback: the new
// registry row is tagged ROLLBACK with the rolled-back-to version as its
// source.
func (s *VersionService) Publish(ctx context.Context, agentID uint, tenantID, userID string, versionName, releaseNote *string) (*PublishResult, error) {
	var result PublishResult

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		snap, err := s.repo.GetSnapshot(txCtx, agentID, tenantID, DraftRevision())
		if err != nil || snap == nil {
			return platformerrors.NewError(txCtx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
				"Agent draft not found", err, "7c2d9e41-0b36-4f85-a1c7-d8e5f2a90b64")
		}

		maxNo, err := s.repo.MaxSnapshotNumber(txCtx, agentID, tenantID)
		if err != nil {
			return platformerrors.AsError(txCtx, platformerrors.LayerDomain, err, "failed to compute next version")
		}
		newNo := maxNo + 1

		sourceType := SourceTypeNormal
		var sourceVersionNo *int
		if cur := snap.Agent.CurrentVersionNo; cur != nil && *cur > 0 && *cur != maxNo {
			sourceType = SourceTypeRollback
			source := *cur
			sourceVersionNo = &source
		}

		copy := buildSnapshotCopy(snap, SnapshotRevision(newNo), userID)
		if err := s.repo.WriteSnapshot(txCtx, copy); err != nil {
			return platformerrors.AsError(txCtx, platformerrors.LayerDomain, err, "failed to write snapshot")
		}

		version := &Version{
			AgentID:         agentID,
			TenantID:        tenantID,
			VersionNo:       newNo,
			VersionName:     versionName,
			ReleaseNote:     releaseNote,
			SourceType:      sourceType,
			SourceVersionNo: sourceVersionNo,
			Status:          VersionStatusReleased,
			CreatedBy:       userID,
		}
		if err := s.versions.Insert(txCtx, version); err != nil {
			return platformerrors.AsError(txCtx, platformerrors.LayerDomain, err, "failed to insert version record")
		}

		if err := s.repo.UpdateCurrentVersion(txCtx, agentID, tenantID, newNo); err != nil {
			return platformerrors.AsError(txCtx, platformerrors.LayerDomain, err, "failed to update current version")
		}

		result = PublishResult{
			ID:         version.ID,
			VersionNo:  newNo,
			Message:    "Version published successfully",
			SourceType: sourceType,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// buildSnapshotCopy clones a draft snapshot under rev, stripping row ids and
// audit fields so the copy gets fresh ones.
func buildSnapshotCopy(snap *Snapshot, rev Revision, createdBy string) *Snapshot {
	agentCopy := *snap.Agent
	agentCopy.ID = 0
	agentCopy.Revision = rev
	agentCopy.CurrentVersionNo = nil
	agentCopy.CreatedBy = createdBy
	agentCopy.UpdatedBy = createdBy

	tools := make([]*ToolInstance, 0, len(snap.Tools))
	for _, ti := range snap.Tools {
		tiCopy := *ti
		tiCopy.ID = 0
		tiCopy.Revision = rev
		tiCopy.CreatedBy = createdBy
		tiCopy.UpdatedBy = createdBy
		tools = append(tools, &tiCopy)
	}

	relations := make([]*Relation, 0, len(snap.Relations))
	for _, rel := range snap.Relations {
		relCopy := *rel
		relCopy.ID = 0
		relCopy.Revision = rev
		relCopy.CreatedBy = createdBy
		relations = append(relations, &relCopy)
	}

	return &Snapshot{Agent: &agentCopy, Tools: tools, Relations: relations}
}

// VersionList returns the registry rows for an agent, newest first.
func (s *VersionService) VersionList(ctx context.Context, agentID uint, tenantID string) ([]*Version, int, error) {
	items, err := s.versions.List(ctx, agentID, tenantID)
	if err != nil {
		return nil, 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list versions")
	}
	return items, len(items), nil
}

// GetVersion returns one registry row.
func (s *VersionService) GetVersion(ctx context.Context, agentID uint, tenantID string, versionNo int) (*Version, error) {
	v, err := s.versions.GetByVersionNo(ctx, agentID, tenantID, versionNo)
	if err != nil || v == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("Version %d not found", versionNo), err, "e9a4c7d2-5f18-4b63-90ae-b2c6d1f8e305")
	}
	return v, nil
}

// UpdateVersionMetadata edits the name and release note of a published
// version without touching its snapshot.
func (s *VersionService) UpdateVersionMetadata(ctx context.Context, agentID uint, tenantID, userID string, versionNo int, versionName, releaseNote *string) error {
	if versionName == nil && releaseNote == nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"No valid fields provided for update", nil, "f1b8d3a6-7e24-4c50-9d1b-a5e2f7c48d96")
	}
	if _, err := s.GetVersion(ctx, agentID, tenantID, versionNo); err != nil {
		return err
	}
	if err := s.versions.UpdateMetadata(ctx, agentID, tenantID, versionNo, versionName, releaseNote, userID); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to update version metadata")
	}
	return nil
}

// VersionDetail hydrates the snapshot behind a registry row into an
// agent-info shaped object with resolved model names and availability.
func (s *VersionService) VersionDetail(ctx context.Context, agentID uint, tenantID string, versionNo int) (*VersionDetail, error) {
	version, err := s.GetVersion(ctx, agentID, tenantID, versionNo)
	if err != nil {
		return nil, err
	}

	snap, err := s.repo.GetSnapshot(ctx, agentID, tenantID, SnapshotRevision(versionNo))
	if err != nil || snap == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("Agent snapshot for version %d not found", versionNo), err, "b3f6a9d1-2c85-4e07-bd43-96e1f0c7a528")
	}

	detail := hydrateSnapshot(ctx, s.models, snap)
	sourceNo := 0
	if version.SourceVersionNo != nil {
		sourceNo = *version.SourceVersionNo
	}
	detail.Version = VersionInfo{
		VersionName:     version.VersionName,
		VersionStatus:   version.Status,
		ReleaseNote:     version.ReleaseNote,
		SourceType:      version.SourceType,
		SourceVersionNo: sourceNo,
	}
	return detail, nil
}

// hydrateSnapshot fills the common parts of a detail from a loaded
// snapshot: sub-agent ids, resolved model names and availability.
func hydrateSnapshot(ctx context.Context, models ModelResolver, snap *Snapshot) *VersionDetail {
	detail := &VersionDetail{
		Agent: snap.Agent,
		Tools: snap.Tools,
	}
	detail.SubAgentIDs = make([]uint, 0, len(snap.Relations))
	for _, rel := range snap.Relations {
		detail.SubAgentIDs = append(detail.SubAgentIDs, rel.SubAgentID)
	}

	if id := snap.Agent.ModelID; id != nil && *id != 0 {
		if name := models.DisplayNameByID(ctx, *id); name != "" {
			detail.ModelName = &name
		}
	}
	if id := snap.Agent.BusinessLogicModelID; id != nil && *id != 0 {
		if name := models.DisplayNameByID(ctx, *id); name != "" {
			detail.BusinessLogicModelName = &name
		}
	}

	detail.IsAvailable, detail.UnavailableReasons = snapshotAvailability(snap)
	return detail
}

// draftVersionInfo is the synthetic metadata block shown for the draft.
func draftVersionInfo() VersionInfo {
	draftName := "Draft"
	emptyNote := ""
	return VersionInfo{
		VersionName:     &draftName,
		VersionStatus:   VersionStatusDraft,
		ReleaseNote:     &emptyNote,
		SourceType:      SourceTypeDraft,
		SourceVersionNo: 0,
	}
}

// snapshotAvailability reports whether a hydrated snapshot is runnable and
// why not.
func snapshotAvailability(snap *Snapshot) (bool, []string) {
	reasons := []string{}

	if snap.Agent == nil {
		return false, []string{"agent_not_found"}
	}

	if snap.Agent.ModelID == nil || *snap.Agent.ModelID == 0 {
		reasons = append(reasons, ReasonModelNotConfigured)
	}

	if len(snap.Tools) == 0 {
		reasons = append(reasons, ReasonNoTools)
	} else {
		hasEnabled := false
		for _, ti := range snap.Tools {
			if ti.Enabled {
				hasEnabled = true
				break
			}
		}
		if !hasEnabled {
			reasons = append(reasons, ReasonAllToolsDisabled)
		}
	}

	return len(reasons) == 0, reasons
}

// Rollback repoints the draft at an existing version. It does not create a
// version row or copy data back into the draft; the next publish
// materializes the rollback.
func (s *VersionService) Rollback(ctx context.Context, agentID uint, tenantID string, targetVersionNo int) (*RollbackResult, error) {
	version, err := s.GetVersion(ctx, agentID, tenantID, targetVersionNo)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateCurrentVersion(ctx, agentID, tenantID, targetVersionNo); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"Agent draft not found", err, "a8e2d5f9-1c47-4b30-86da-f3b9e0c61a74")
	}

	return &RollbackResult{
		Message:     fmt.Sprintf("Successfully rolled back to version %d", targetVersionNo),
		VersionNo:   targetVersionNo,
		VersionName: version.VersionName,
	}, nil
}

// UpdateStatus transitions a published version to DISABLED or ARCHIVED.
func (s *VersionService) UpdateStatus(ctx context.Context, agentID uint, tenantID, userID string, versionNo int, status VersionStatus) error {
	if status != VersionStatusDisabled && status != VersionStatusArchived {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("Invalid status. Must be one of: [%s %s]", VersionStatusDisabled, VersionStatusArchived), nil,
			"c5d8f2a1-9e36-4b74-80cd-e7a3b6f19d42")
	}

	if err := s.versions.UpdateStatus(ctx, agentID, tenantID, versionNo, status, userID); err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("Version %d not found", versionNo), err, "d7a1c4e8-3f52-4960-b8de-a2c9f5b07e13")
	}
	return nil
}

// DeleteVersion soft-deletes a version. The draft and the currently
// published version are protected.
func (s *VersionService) DeleteVersion(ctx context.Context, agentID uint, tenantID, userID string, versionNo int) error {
	if versionNo == 0 {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"Cannot delete draft version", nil, "e4b7d0a3-6c19-4f82-95ab-d1f8e2c50b67")
	}

	if _, err := s.GetVersion(ctx, agentID, tenantID, versionNo); err != nil {
		return err
	}

	draft, err := s.repo.GetByRevision(ctx, agentID, tenantID, DraftRevision())
	if err == nil && draft != nil && draft.CurrentVersionNo != nil && *draft.CurrentVersionNo == versionNo {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"Cannot delete the current published version", nil, "f8c3a6d9-0e25-4b71-84fc-b5d2e9a13c80")
	}

	if err := s.versions.SoftDelete(ctx, agentID, tenantID, versionNo, userID); err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("Version %d not found", versionNo), err, "09d6b3f2-7a48-4c15-98eb-c4f0a7d25e91")
	}
	return nil
}

// Current returns the version the draft pointer selects.
func (s *VersionService) Current(ctx context.Context, agentID uint, tenantID string) (*CurrentVersion, error) {
	draft, err := s.repo.GetByRevision(ctx, agentID, tenantID, DraftRevision())
	if err != nil || draft == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"Agent draft not found", err, "1a5e8c2f-4d70-4936-b2ad-e6f3c9b08d54")
	}
	if draft.CurrentVersionNo == nil || *draft.CurrentVersionNo == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"No published version", nil, "2b6f9d3a-5e81-4047-93be-f7a4d0c19e65")
	}

	version, err := s.GetVersion(ctx, agentID, tenantID, *draft.CurrentVersionNo)
	if err != nil {
		return nil, err
	}

	return &CurrentVersion{
		VersionNo:       version.VersionNo,
		VersionName:     version.VersionName,
		Status:          version.Status,
		SourceType:      version.SourceType,
		SourceVersionNo: version.SourceVersionNo,
		ReleaseNote:     version.ReleaseNote,
		CreatedBy:       version.CreatedBy,
		CreatedAt:       version.CreatedAt.Unix(),
	}, nil
}

// Compare diffs two versions over a fixed field list. Version number 0
// selects the draft, hydrated with a synthetic metadata block.
func (s *VersionService) Compare(ctx context.Context, agentID uint, tenantID string, versionNoA, versionNoB int) (*Comparison, error) {
	a, err := s.detailOrDraft(ctx, agentID, tenantID, versionNoA)
	if err != nil {
		return nil, err
	}
	b, err := s.detailOrDraft(ctx, agentID, tenantID, versionNoB)
	if err != nil {
		return nil, err
	}

	diffs := []Difference{}
	appendDiff := func(field, label string, va, vb any) {
		diffs = append(diffs, Difference{Field: field, Label: label, ValueA: va, ValueB: vb})
	}

	if a.Agent.Name != b.Agent.Name {
		appendDiff("name", "Name", a.Agent.Name, b.Agent.Name)
	}
	if !equalStringPtr(a.ModelName, b.ModelName) {
		appendDiff("model_name", "Model", a.ModelName, b.ModelName)
	}
	if a.Agent.MaxSteps != b.Agent.MaxSteps {
		appendDiff("max_steps", "Max Steps", a.Agent.MaxSteps, b.Agent.MaxSteps)
	}
	if !equalStringPtr(a.Agent.Description, b.Agent.Description) {
		appendDiff("description", "Description", a.Agent.Description, b.Agent.Description)
	}
	if !equalStringPtr(a.Agent.DutyPrompt, b.Agent.DutyPrompt) {
		appendDiff("duty_prompt", "Duty Prompt", a.Agent.DutyPrompt, b.Agent.DutyPrompt)
	}
	if len(a.Tools) != len(b.Tools) {
		appendDiff("tools_count", "Tools Count", len(a.Tools), len(b.Tools))
	}
	if len(a.SubAgentIDs) != len(b.SubAgentIDs) {
		appendDiff("sub_agents_count", "Sub Agents Count", len(a.SubAgentIDs), len(b.SubAgentIDs))
	}

	return &Comparison{VersionA: a, VersionB: b, Differences: diffs}, nil
}

// detailOrDraft hydrates a published version, or the draft for version 0
// with a synthetic metadata block.
func (s *VersionService) detailOrDraft(ctx context.Context, agentID uint, tenantID string, versionNo int) (*VersionDetail, error) {
	if versionNo != 0 {
		return s.VersionDetail(ctx, agentID, tenantID, versionNo)
	}

	snap, err := s.repo.GetSnapshot(ctx, agentID, tenantID, DraftRevision())
	if err != nil || snap == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"Draft version not found", err, "3c7a0e4b-6f92-4158-a4cf-08b5e1d2a976")
	}

	detail := hydrateSnapshot(ctx, s.models, snap)
	detail.Version = draftVersionInfo()
	return detail, nil
}

// PublishedList returns every enabled agent whose draft pointer selects a
// published version, filtered by group visibility for members who cannot
// edit everything, with per-agent availability and permission.
func (s *VersionService) PublishedList(ctx context.Context, tenantID, userID string) ([]*PublishedAgent, error) {
	role, err := s.members.RoleOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	canEditAll := role.CanEditAll()

	var userGroups map[int64]struct{}
	if !canEditAll {
		ids, err := s.members.GroupIDsOf(ctx, userID)
		if err != nil {
			return nil, err
		}
		userGroups = make(map[int64]struct{}, len(ids))
		for _, id := range ids {
			userGroups[id] = struct{}{}
		}
	}

	enabled := true
	drafts, err := s.repo.ListDrafts(ctx, AgentFilter{TenantID: &tenantID, Enabled: &enabled})
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "Failed to list published agents")
	}

	type entry struct {
		snap    *Snapshot
		reasons []string
		current int
	}
	entries := make([]*entry, 0, len(drafts))

	for _, draft := range drafts {
		if !canEditAll && !groupsOverlap(draft.GroupIDs, userGroups) {
			continue
		}
		if draft.CurrentVersionNo == nil || *draft.CurrentVersionNo <= 0 {
			continue
		}

		snap, err := s.repo.GetSnapshot(ctx, draft.AgentID, tenantID, SnapshotRevision(*draft.CurrentVersionNo))
		if err != nil || snap == nil {
			continue
		}
		// Draft-only fields are not carried on snapshots.
		snap.Agent.IsNew = draft.IsNew

		_, reasons := snapshotAvailability(snap)
		entries = append(entries, &entry{snap: snap, reasons: reasons, current: *draft.CurrentVersionNo})
	}

	// Duplicate names keep the earliest created agent available and mark
	// later ones unavailable.
	seenNames := make(map[string]bool)
	for _, e := range entries {
		keys := nameKeys(e.snap.Agent)
		dup := false
		for _, k := range keys {
			if seenNames[k] {
				dup = true
				break
			}
		}
		if dup {
			e.reasons = append(e.reasons, ReasonDuplicateName)
		} else {
			for _, k := range keys {
				seenNames[k] = true
			}
		}
	}

	list := make([]*PublishedAgent, 0, len(entries))
	for _, e := range entries {
		a := e.snap.Agent
		item := &PublishedAgent{
			AgentID:            a.AgentID,
			Name:               a.Name,
			DisplayName:        a.DisplayName,
			Description:        a.Description,
			Author:             a.Author,
			ModelID:            a.ModelID,
			IsAvailable:        len(e.reasons) == 0,
			UnavailableReasons: dedupe(e.reasons),
			IsNew:              a.IsNew,
			GroupIDs:           a.GroupIDs,
			Permission:         tenant.PermissionFor(role, userID, a.CreatedBy),
			PublishedVersionNo: e.current,
		}
		if item.Name == "" {
			item.Name = a.DisplayName
		}
		if item.DisplayName == "" {
			item.DisplayName = a.Name
		}
		if a.ModelID != nil && *a.ModelID != 0 {
			if name, display, found := s.models.ModelInfoByID(ctx, *a.ModelID); found {
				item.ModelName = &name
				item.ModelDisplayName = &display
			}
		}
		list = append(list, item)
	}

	return list, nil
}

func nameKeys(a *Agent) []string {
	keys := make([]string, 0, 2)
	if a.Name != "" {
		keys = append(keys, "name:"+a.Name)
	}
	if a.DisplayName != "" {
		keys = append(keys, "display:"+a.DisplayName)
	}
	return keys
}

func groupsOverlap(agentGroups []int64, userGroups map[int64]struct{}) bool {
	for _, id := range agentGroups {
		if _, ok := userGroups[id]; ok {
			return true
		}
	}
	return false
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
