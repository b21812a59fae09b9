package agent

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"agenthub/services/agent-api/internal/domain/tenant"
	"agenthub/services/agent-api/internal/domain/tool"
	"agenthub/services/agent-api/internal/utils/functional"
	"agenthub/services/agent-api/internal/utils/idgen"
	"agenthub/services/agent-api/internal/utils/platformerrors"
)

const defaultMaxSteps = 5

// ToolCatalog exposes the tool-definition lookups the agent flows need.
type ToolCatalog interface {
	NamesByID(ctx context.Context, tenantID string, ids []uint) (map[uint]string, error)
	GetByName(ctx context.Context, name, tenantID string) (*tool.Tool, error)
}

// UpsertInput is a partial agent patch. Nil fields are left untouched;
// nil slices leave the corresponding bindings untouched.
type UpsertInput struct {
	Name                 *string
	DisplayName          *string
	Description          *string
	BusinessDescription  *string
	Author               *string
	ModelID              *uint
	BusinessLogicModelID *uint
	MaxSteps             *int
	ProvideRunSummary    *bool
	DutyPrompt           *string
	ConstraintPrompt     *string
	FewShotsPrompt       *string
	Enabled              *bool
	EnabledToolIDs       []uint
	RelatedAgentIDs      []uint
	GroupIDs             []int64
}

// Info is the draft rendered the same way a version detail is, plus the
// caller's permission on it.
type Info struct {
	*VersionDetail
	Permission string `json:"permission"`
}

// Summary is one row of the tenant agent listing.
type Summary struct {
	AgentID          uint    `json:"agent_id"`
	PublicID         string  `json:"public_id"`
	Name             string  `json:"name"`
	DisplayName      string  `json:"display_name"`
	Description      *string `json:"description"`
	Enabled          bool    `json:"enabled"`
	IsNew            bool    `json:"is_new"`
	CurrentVersionNo *int    `json:"current_version_no"`
	GroupIDs         []int64 `json:"group_ids"`
	CreatedBy        string  `json:"created_by"`
	Permission       string  `json:"permission"`
	CreatedAt        int64   `json:"create_time"`
}

// BoundTool is one draft tool binding merged with its catalog definition.
type BoundTool struct {
	ToolID      uint           `json:"tool_id"`
	Name        string         `json:"name"`
	ClassName   string         `json:"class_name"`
	Description string         `json:"description"`
	Source      tool.Source    `json:"source"`
	Enabled     bool           `json:"enabled"`
	IsAvailable bool           `json:"is_available"`
	Params      map[string]any `json:"params"`
}

// NameCheckItem is one entry of a batch name-conflict check.
type NameCheckItem struct {
	AgentID     *uint  `json:"agent_id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

// NameCheckResult reports per-item conflicts.
type NameCheckResult struct {
	Name                string `json:"name"`
	DisplayName         string `json:"display_name"`
	NameConflict        bool   `json:"name_conflict"`
	DisplayNameConflict bool   `json:"display_name_conflict"`
}

// NameRegenItem is one entry of a batch name-suggestion request.
type NameRegenItem struct {
	AgentID         *uint  `json:"agent_id"`
	Name            string `json:"name"`
	DisplayName     string `json:"display_name"`
	TaskDescription string `json:"task_description"`
}

// NameRegenResult carries the suggested replacement names for one item.
type NameRegenResult struct {
	Name                 string   `json:"name"`
	DisplayName          string   `json:"display_name"`
	SuggestedNames       []string `json:"suggested_names"`
	UsedFallback         bool     `json:"used_fallback"`
	SuggestedDisplayName string   `json:"suggested_display_name"`
}

// CallTool is one tool binding shown on a call-relationship node.
type CallTool struct {
	ToolID  uint   `json:"tool_id"`
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// CallNode is one agent in the call-relationship tree.
type CallNode struct {
	AgentID     uint        `json:"agent_id"`
	Name        string      `json:"name"`
	DisplayName string      `json:"display_name"`
	Tools       []CallTool  `json:"tools"`
	SubAgents   []*CallNode `json:"sub_agents"`
}

// ExportToolConfig is one tool binding in an export payload, keyed by
// catalog name so it can be rebound on import.
type ExportToolConfig struct {
	ClassName string         `json:"class_name"`
	Name      string         `json:"name"`
	Source    tool.Source    `json:"source"`
	Params    map[string]any `json:"params"`
	Enabled   bool           `json:"enabled"`
}

// ExportAgentInfo is one agent in an export payload. Models are referenced
// by registry name, sub-agents by id into the enclosing payload map.
type ExportAgentInfo struct {
	AgentID                uint               `json:"agent_id"`
	Name                   string             `json:"name"`
	DisplayName            string             `json:"display_name"`
	Description            *string            `json:"description"`
	BusinessDescription    *string            `json:"business_description"`
	Author                 *string            `json:"author"`
	MaxSteps               int                `json:"max_steps"`
	ProvideRunSummary      bool               `json:"provide_run_summary"`
	DutyPrompt             *string            `json:"duty_prompt"`
	ConstraintPrompt       *string            `json:"constraint_prompt"`
	FewShotsPrompt         *string            `json:"few_shots_prompt"`
	Enabled                bool               `json:"enabled"`
	Tools                  []ExportToolConfig `json:"tools"`
	ManagedAgents          []uint             `json:"managed_agents"`
	ModelName              *string            `json:"model_name"`
	BusinessLogicModelName *string            `json:"business_logic_model_name"`
}

/// ExportPayload is a self-contained agent tree: a flat map of agents keyed
// by stringified agent id plus the root id.
type ExportPayload struct {
	AgentID   uint                        `json:"agent_id"`
	AgentInfo map[string]*ExportAgentInfo `json:"agent_info"`
}

// AgentService implements the draft-side agent operations.
type AgentService struct {
	repo      Repository
	tools     ToolCatalog
	models    ModelResolver
	members   MemberDirectory
	suggester NameSuggester
	validator *AgentValidator
	tx        TxRunner
}

// NewAgentService constructs an AgentService with required dependencies.
func NewAgentService(repo Repository, tools ToolCatalog, models ModelResolver, members MemberDirectory, suggester NameSuggester, tx TxRunner) *AgentService {
	return &AgentService{
		repo:      repo,
		tools:     tools,
		models:    models,
		members:   members,
		suggester: suggester,
		validator: NewAgentValidator(nil),
		tx:        tx,
	}
}

// Create inserts a new draft agent with defaults applied and optional tool
// and relation bindings, all in one transaction.
func (s *AgentService) Create(ctx context.Context, tenantID, userID string, in UpsertInput) (*Agent, error) {
	publicID, err := idgen.GenerateSecureID("agent", 16)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to generate agent ID")
	}

	a := &Agent{
		PublicID:  publicID,
		TenantID:  tenantID,
		Revision:  DraftRevision(),
		MaxSteps:  defaultMaxSteps,
		Enabled:   true,
		IsNew:     true,
		CreatedBy: userID,
		UpdatedBy: userID,
	}
	applyPatch(a, in)

	if err := s.validateFor(ctx, a); err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, a); err != nil {
			return platformerrors.AsError(txCtx, platformerrors.LayerDomain, err, "failed to create agent")
		}
		if in.EnabledToolIDs != nil {
			if err := s.reconcileTools(txCtx, a.AgentID, tenantID, userID, in.EnabledToolIDs); err != nil {
				return err
			}
		}
		if in.RelatedAgentIDs != nil {
			if err := s.repo.ReplaceRelations(txCtx, a.AgentID, tenantID, DraftRevision(), in.RelatedAgentIDs, userID); err != nil {
				return platformerrors.AsError(txCtx, platformerrors.LayerDomain, err, "failed to bind sub agents")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Update patches the draft. Nil fields are skipped; tool and relation
// bindings are replaced as sets when their slices are non-nil.
func (s *AgentService) Update(ctx context.Context, agentID uint, tenantID, userID string, in UpsertInput) (*Agent, error) {
	draft, err := s.repo.GetByRevision(ctx, agentID, tenantID, DraftRevision())
	if err != nil || draft == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"Agent not found", err, "4d8b1f6a-9c23-4e57-80af-b6d2c9e14f70")
	}

	applyPatch(draft, in)
	draft.UpdatedBy = userID

	if err := s.validateFor(ctx, draft); err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Update(txCtx, draft); err != nil {
			return platformerrors.AsError(txCtx, platformerrors.LayerDomain, err, "failed to update agent")
		}
		if in.EnabledToolIDs != nil {
			if err := s.reconcileTools(txCtx, agentID, tenantID, userID, in.EnabledToolIDs); err != nil {
				return err
			}
		}
		if in.RelatedAgentIDs != nil {
			if err := s.repo.ReplaceRelations(txCtx, agentID, tenantID, DraftRevision(), in.RelatedAgentIDs, userID); err != nil {
				return platformerrors.AsError(txCtx, platformerrors.LayerDomain, err, "failed to update sub agents")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return draft, nil
}

// applyPatch copies the non-nil fields of in onto a.
func applyPatch(a *Agent, in UpsertInput) {
	if in.Name != nil {
		a.Name = *in.Name
	}
	if in.DisplayName != nil {
		a.DisplayName = *in.DisplayName
	}
	if in.Description != nil {
		a.Description = in.Description
	}
	if in.BusinessDescription != nil {
		a.BusinessDescription = in.BusinessDescription
	}
	if in.Author != nil {
		a.Author = in.Author
	}
	if in.ModelID != nil {
		a.ModelID = in.ModelID
	}
	if in.BusinessLogicModelID != nil {
		a.BusinessLogicModelID = in.BusinessLogicModelID
	}
	if in.MaxSteps != nil {
		a.MaxSteps = *in.MaxSteps
	}
	if in.ProvideRunSummary != nil {
		a.ProvideRunSummary = *in.ProvideRunSummary
	}
	if in.DutyPrompt != nil {
		a.DutyPrompt = in.DutyPrompt
	}
	if in.ConstraintPrompt != nil {
		a.ConstraintPrompt = in.ConstraintPrompt
	}
	if in.FewShotsPrompt != nil {
		a.FewShotsPrompt = in.FewShotsPrompt
	}
	if in.Enabled != nil {
		a.Enabled = *in.Enabled
	}
	if in.GroupIDs != nil {
		a.GroupIDs = in.GroupIDs
	}
}

// validateFor runs full validation for enabled agents. Disabled drafts are
// still being filled in; only their present name fields are checked.
func (s *AgentService) validateFor(ctx context.Context, a *Agent) error {
	var err error
	if a.Enabled {
		err = s.validator.ValidateAgent(a)
	} else if a.Name != "" {
		err = s.validator.ValidateAgentName(a.Name)
	}
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			err.Error(), err, "5e9c2a7d-0b34-4f68-91bc-c7e3d0a25f81")
	}
	return nil
}

// reconcileTools makes the draft's enabled tool bindings match want:
// bindings for absent tools are disabled, missing ones created enabled.
func (s *AgentService) reconcileTools(ctx context.Context, agentID uint, tenantID, userID string, want []uint) error {
	current, err := s.repo.ListToolInstances(ctx, agentID, tenantID, DraftRevision())
	if err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list tool bindings")
	}

	wanted := functional.ToSet(want)

	for _, ti := range current {
		_, keep := wanted[ti.ToolID]
		if keep == ti.Enabled {
			delete(wanted, ti.ToolID)
			continue
		}
		ti.Enabled = keep
		ti.UpdatedBy = userID
		if err := s.repo.UpsertToolInstance(ctx, ti); err != nil {
			return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to update tool binding")
		}
		delete(wanted, ti.ToolID)
	}

	for toolID := range wanted {
		ti := &ToolInstance{
			AgentID:   agentID,
			ToolID:    toolID,
			TenantID:  tenantID,
			UserID:    userID,
			Revision:  DraftRevision(),
			Enabled:   true,
			CreatedBy: userID,
			UpdatedBy: userID,
		}
		if err := s.repo.UpsertToolInstance(ctx, ti); err != nil {
			return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create tool binding")
		}
	}
	return nil
}

// ToolBindings returns the draft's tool bindings with catalog definition
// fields merged and parameter defaults overlaid.
func (s *AgentService) ToolBindings(ctx context.Context, agentID uint, tenantID string) ([]*BoundTool, error) {
	if a, err := s.repo.GetByRevision(ctx, agentID, tenantID, DraftRevision()); err != nil || a == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"Agent not found", err, "a3b4f7e8-5a69-4cb3-a4fa-e2b7c5f80a36")
	}

	instances, err := s.repo.ListToolInstances(ctx, agentID, tenantID, DraftRevision())
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list tool bindings")
	}

	toolIDs := make([]uint, 0, len(instances))
	for _, ti := range instances {
		toolIDs = append(toolIDs, ti.ToolID)
	}
	names, err := s.tools.NamesByID(ctx, tenantID, toolIDs)
	if err != nil {
		return nil, err
	}

	bound := make([]*BoundTool, 0, len(instances))
	for _, ti := range instances {
		name, known := names[ti.ToolID]
		if !known {
			continue
		}
		def, err := s.tools.GetByName(ctx, name, tenantID)
		if err != nil || def == nil {
			continue
		}
		bound = append(bound, &BoundTool{
			ToolID:      ti.ToolID,
			Name:        def.Name,
			ClassName:   def.ClassName,
			Description: def.Description,
			Source:      def.Source,
			Enabled:     ti.Enabled,
			IsAvailable: def.IsAvailable,
			Params:      tool.MergeParamDefaults(def, ti.Params),
		})
	}
	return bound, nil
}

// BindTool creates or updates the draft binding for (agentID, toolID).
func (s *AgentService) BindTool(ctx context.Context, agentID, toolID uint, tenantID, userID string, enabled bool, params map[string]any) error {
	if a, err := s.repo.GetByRevision(ctx, agentID, tenantID, DraftRevision()); err != nil || a == nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"Agent not found", err, "81f2d5c6-3e47-4a91-b2de-c0f5a3d68e14")
	}

	names, err := s.tools.NamesByID(ctx, tenantID, []uint{toolID})
	if err != nil {
		return err
	}
	if _, known := names[toolID]; !known {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"Tool not found", nil, "92a3e6d7-4f58-4ba2-93ef-d1a6b4e79f25")
	}

	existing, err := s.repo.GetToolInstance(ctx, agentID, toolID, tenantID, DraftRevision())
	if err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load tool binding")
	}

	ti := existing
	if ti == nil {
		ti = &ToolInstance{
			AgentID:   agentID,
			ToolID:    toolID,
			TenantID:  tenantID,
			UserID:    userID,
			Revision:  DraftRevision(),
			CreatedBy: userID,
		}
	}
	ti.Enabled = enabled
	if params != nil {
		ti.Params = params
	}
	ti.UpdatedBy = userID

	if err := s.repo.UpsertToolInstance(ctx, ti); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to save tool binding")
	}
	return nil
}

// SearchInfo returns the draft hydrated like a version detail, with the
// caller's permission on it.
func (s *AgentService) SearchInfo(ctx context.Context, agentID uint, tenantID, userID string) (*Info, error) {
	snap, err := s.repo.GetSnapshot(ctx, agentID, tenantID, DraftRevision())
	if err != nil || snap == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"Agent not found", err, "6f0d3b8e-1c45-4a79-82cd-d8f4e1b36a92")
	}

	detail := hydrateSnapshot(ctx, s.models, snap)
	detail.Version = draftVersionInfo()

	role, err := s.members.RoleOf(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Info{
		VersionDetail: detail,
		Permission:    tenant.PermissionFor(role, userID, snap.Agent.CreatedBy),
	}, nil
}

// Delete soft-deletes the agent, every snapshot, its tool bindings and its
// relations in both directions, in one transaction.
func (s *AgentService) Delete(ctx context.Context, agentID uint, tenantID, userID string) error {
	if a, err := s.repo.GetByRevision(ctx, agentID, tenantID, DraftRevision()); err != nil || a == nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"Agent not found", err, "70e1c4f9-2d56-4b80-93de-e9a5f2c47b03")
	}

	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Delete(txCtx, agentID, tenantID, userID); err != nil {
			return platformerrors.AsError(txCtx, platformerrors.LayerDomain, err, "failed to delete agent")
		}
		return nil
	})
}

// List returns the tenant's live drafts in creation order, with the
// caller's permission annotated per agent.
func (s *AgentService) List(ctx context.Context, tenantID, userID string) ([]*Summary, error) {
	role, err := s.members.RoleOf(ctx, userID)
	if err != nil {
		return nil, err
	}

	drafts, err := s.repo.ListDrafts(ctx, AgentFilter{TenantID: &tenantID})
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list agents")
	}

	summaries := make([]*Summary, 0, len(drafts))
	for _, a := range drafts {
		summaries = append(summaries, &Summary{
			AgentID:          a.AgentID,
			PublicID:         a.PublicID,
			Name:             a.Name,
			DisplayName:      a.DisplayName,
			Description:      a.Description,
			Enabled:          a.Enabled,
			IsNew:            a.IsNew,
			CurrentVersionNo: a.CurrentVersionNo,
			GroupIDs:         a.GroupIDs,
			CreatedBy:        a.CreatedBy,
			Permission:       tenant.PermissionFor(role, userID, a.CreatedBy),
			CreatedAt:        a.CreatedAt.Unix(),
		})
	}
	return summaries, nil
}

// CheckNames reports, per item, whether the name or display name collides
// with another agent in the tenant.
func (s *AgentService) CheckNames(ctx context.Context, tenantID string, items []NameCheckItem) ([]NameCheckResult, error) {
	if len(items) == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"items must not be empty", nil, "81f2d5a0-3e67-4c91-84ef-f0b6a3d58c14")
	}

	results := make([]NameCheckResult, 0, len(items))
	for _, item := range items {
		names := make([]string, 0, 2)
		if item.Name != "" {
			names = append(names, item.Name)
		}
		if item.DisplayName != "" {
			names = append(names, item.DisplayName)
		}

		res := NameCheckResult{Name: item.Name, DisplayName: item.DisplayName}
		if len(names) > 0 {
			taken, err := s.repo.NamesExist(ctx, tenantID, names, item.AgentID)
			if err != nil {
				return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to check agent names")
			}
			for _, name := range taken {
				if name == item.Name {
					res.NameConflict = true
				}
				if name == item.DisplayName {
					res.DisplayNameConflict = true
				}
			}
		}
		results = append(results, res)
	}
	return results, nil
}

// RegenerateNames asks the suggester for replacement names per item. A
// failed suggestion falls back to a numeric suffix instead of failing the
// batch.
func (s *AgentService) RegenerateNames(ctx context.Context, tenantID string, items []NameRegenItem) ([]NameRegenResult, error) {
	if len(items) == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"items must not be empty", nil, "92a3e6b1-4f78-4da2-95f0-a1c7b4e69d25")
	}

	results := make([]NameRegenResult, 0, len(items))
	for _, item := range items {
		res := NameRegenResult{Name: item.Name, DisplayName: item.DisplayName}

		prompt := item.TaskDescription
		if prompt == "" {
			prompt = item.Name
		}

		suggestions, err := s.suggester.SuggestNames(ctx, prompt, 3)
		if err != nil || len(suggestions) == 0 {
			res.UsedFallback = true
			res.SuggestedNames = []string{s.suffixedName(ctx, tenantID, item.Name)}
		} else {
			res.SuggestedNames = suggestions
		}
		res.SuggestedDisplayName = res.SuggestedNames[0]
		results = append(results, res)
	}
	return results, nil
}

// suffixedName finds the first _n suffix of base free in the tenant.
func (s *AgentService) suffixedName(ctx context.Context, tenantID, base string) string {
	if base == "" {
		base = "agent"
	}
	for i := 1; i <= 100; i++ {
		candidate := fmt.Sprintf("%s_%d", base, i)
		taken, err := s.repo.NamesExist(ctx, tenantID, []string{candidate}, nil)
		if err == nil && len(taken) == 0 {
			return candidate
		}
	}
	return fmt.Sprintf("%s_%d", base, 100)
}

// ClearNew resets the is_new flag on the draft.
func (s *AgentService) ClearNew(ctx context.Context, agentID uint, tenantID, userID string) (int64, error) {
	rows, err := s.repo.ClearNewFlag(ctx, agentID, tenantID, userID)
	if err != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to clear agent NEW mark")
	}
	if rows == 0 {
		return 0, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"Agent not found", nil, "a3b4f7c2-5089-4eb3-a601-b2d8c5f70e36")
	}
	return rows, nil
}

// CreatingSubAgentID returns the tenant's blank draft placeholder, creating
// one when none exists. Editors claim the placeholder before filling it in.
func (s *AgentService) CreatingSubAgentID(ctx context.Context, tenantID, userID string) (uint, error) {
	disabled := false
	blanks, err := s.repo.ListDrafts(ctx, AgentFilter{TenantID: &tenantID, Enabled: &disabled})
	if err != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to look up blank agent")
	}
	for _, b := range blanks {
		if b.Name == "" && b.DisplayName == "" {
			return b.AgentID, nil
		}
	}

	publicID, err := idgen.GenerateSecureID("agent", 16)
	if err != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to generate agent ID")
	}
	blank := &Agent{
		PublicID:  publicID,
		TenantID:  tenantID,
		Revision:  DraftRevision(),
		MaxSteps:  defaultMaxSteps,
		Enabled:   false,
		IsNew:     true,
		CreatedBy: userID,
		UpdatedBy: userID,
	}
	if err := s.repo.Create(ctx, blank); err != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create blank agent")
	}
	return blank.AgentID, nil
}

// CallRelationship builds the call tree rooted at an agent: its tools and
// its sub-agents, recursively over draft relations. Cycles are cut at the
// repeated node.
func (s *AgentService) CallRelationship(ctx context.Context, agentID uint, tenantID string) (*CallNode, error) {
	visited := make(map[uint]bool)
	node, err := s.buildCallNode(ctx, agentID, tenantID, visited)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"Agent not found", nil, "b4c5a8d3-6190-4fc4-b712-c3e9d6a81f47")
	}
	return node, nil
}

func (s *AgentService) buildCallNode(ctx context.Context, agentID uint, tenantID string, visited map[uint]bool) (*CallNode, error) {
	if visited[agentID] {
		return nil, nil
	}
	visited[agentID] = true

	a, err := s.repo.GetByRevision(ctx, agentID, tenantID, DraftRevision())
	if err != nil || a == nil {
		return nil, nil
	}

	node := &CallNode{
		AgentID:     a.AgentID,
		Name:        a.Name,
		DisplayName: a.DisplayName,
		Tools:       []CallTool{},
		SubAgents:   []*CallNode{},
	}

	instances, err := s.repo.ListToolInstances(ctx, agentID, tenantID, DraftRevision())
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list tool bindings")
	}
	toolIDs := make([]uint, 0, len(instances))
	for _, ti := range instances {
		toolIDs = append(toolIDs, ti.ToolID)
	}
	names, err := s.tools.NamesByID(ctx, tenantID, toolIDs)
	if err != nil {
		return nil, err
	}
	for _, ti := range instances {
		node.Tools = append(node.Tools, CallTool{ToolID: ti.ToolID, Name: names[ti.ToolID], Enabled: ti.Enabled})
	}

	relations, err := s.repo.ListRelations(ctx, agentID, tenantID, DraftRevision())
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list sub agents")
	}
	for _, rel := range relations {
		child, err := s.buildCallNode(ctx, rel.SubAgentID, tenantID, visited)
		if err != nil {
			return nil, err
		}
		if child != nil {
			node.SubAgents = append(node.SubAgents, child)
		}
	}
	return node, nil
}

// Export serializes the agent and its sub-agent tree into a self-contained
// payload. Tool bindings are keyed by catalog name and models by registry
// name so the payload survives crossing tenants.
func (s *AgentService) Export(ctx context.Context, agentID uint, tenantID string) (*ExportPayload, error) {
	payload := &ExportPayload{
		AgentID:   agentID,
		AgentInfo: make(map[string]*ExportAgentInfo),
	}
	if err := s.exportInto(ctx, agentID, tenantID, payload); err != nil {
		return nil, err
	}
	if len(payload.AgentInfo) == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"Agent not found", nil, "c5d6b9e4-72a1-40d5-a823-d4f0e7b92a58")
	}
	return payload, nil
}

func (s *AgentService) exportInto(ctx context.Context, agentID uint, tenantID string, payload *ExportPayload) error {
	key := strconv.FormatUint(uint64(agentID), 10)
	if _, done := payload.AgentInfo[key]; done {
		return nil
	}

	snap, err := s.repo.GetSnapshot(ctx, agentID, tenantID, DraftRevision())
	if err != nil || snap == nil {
		return nil
	}
	a := snap.Agent

	info := &ExportAgentInfo{
		AgentID:             a.AgentID,
		Name:                a.Name,
		DisplayName:         a.DisplayName,
		Description:         a.Description,
		BusinessDescription: a.BusinessDescription,
		Author:              a.Author,
		MaxSteps:            a.MaxSteps,
		ProvideRunSummary:   a.ProvideRunSummary,
		DutyPrompt:          a.DutyPrompt,
		ConstraintPrompt:    a.ConstraintPrompt,
		FewShotsPrompt:      a.FewShotsPrompt,
		Enabled:             a.Enabled,
		Tools:               []ExportToolConfig{},
		ManagedAgents:       []uint{},
	}

	if a.ModelID != nil && *a.ModelID != 0 {
		if name, _, found := s.models.ModelInfoByID(ctx, *a.ModelID); found {
			info.ModelName = &name
		}
	}
	if a.BusinessLogicModelID != nil && *a.BusinessLogicModelID != 0 {
		if name, _, found := s.models.ModelInfoByID(ctx, *a.BusinessLogicModelID); found {
			info.BusinessLogicModelName = &name
		}
	}

	toolIDs := make([]uint, 0, len(snap.Tools))
	for _, ti := range snap.Tools {
		toolIDs = append(toolIDs, ti.ToolID)
	}
	names, err := s.tools.NamesByID(ctx, tenantID, toolIDs)
	if err != nil {
		return err
	}
	for _, ti := range snap.Tools {
		name, known := names[ti.ToolID]
		if !known {
			continue
		}
		def, err := s.tools.GetByName(ctx, name, tenantID)
		if err != nil {
			continue
		}
		info.Tools = append(info.Tools, ExportToolConfig{
			ClassName: def.ClassName,
			Name:      def.Name,
			Source:    def.Source,
			Params:    ti.Params,
			Enabled:   ti.Enabled,
		})
	}

	payload.AgentInfo[key] = info

	for _, rel := range snap.Relations {
		info.ManagedAgents = append(info.ManagedAgents, rel.SubAgentID)
		if err := s.exportInto(ctx, rel.SubAgentID, tenantID, payload); err != nil {
			return err
		}
	}
	return nil
}

// Import recreates an exported agent tree in the tenant, bottom-up, in one
// transaction. Name conflicts fail the import unless force is set, in
// which case conflicting names get a numeric suffix.
func (s *AgentService) Import(ctx context.Context, tenantID, userID string, payload *ExportPayload, force bool) (uint, error) {
	if payload == nil || len(payload.AgentInfo) == 0 {
		return 0, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"agent_info must not be empty", nil, "d6e7c0f5-83b2-41e6-b934-e5a1f8c03b69")
	}

	rootKey := strconv.FormatUint(uint64(payload.AgentID), 10)
	if _, ok := payload.AgentInfo[rootKey]; !ok {
		return 0, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("agent_info missing root agent %d", payload.AgentID), nil, "e7f8d1a6-94c3-42f7-ba45-f6b2a9d14c70")
	}

	renames, err := s.resolveImportNames(ctx, tenantID, payload, force)
	if err != nil {
		return 0, err
	}

	var rootID uint
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		created := make(map[string]uint, len(payload.AgentInfo))
		inProgress := make(map[string]bool)

		var importOne func(key string) (uint, error)
		importOne = func(key string) (uint, error) {
			if id, done := created[key]; done {
				return id, nil
			}
			info, ok := payload.AgentInfo[key]
			if !ok || inProgress[key] {
				// Dangling or cyclic reference, drop the edge.
				return 0, nil
			}
			inProgress[key] = true
			defer delete(inProgress, key)

			childIDs := make([]uint, 0, len(info.ManagedAgents))
			for _, childRef := range info.ManagedAgents {
				childKey := strconv.FormatUint(uint64(childRef), 10)
				childID, err := importOne(childKey)
				if err != nil {
					return 0, err
				}
				if childID != 0 {
					childIDs = append(childIDs, childID)
				}
			}

			id, err := s.importAgent(txCtx, tenantID, userID, info, renames, childIDs)
			if err != nil {
				return 0, err
			}
			created[key] = id
			return id, nil
		}

		id, err := importOne(rootKey)
		if err != nil {
			return err
		}
		rootID = id
		return nil
	})
	if err != nil {
		return 0, err
	}
	return rootID, nil
}

// resolveImportNames checks every name in the payload against the tenant.
// Without force, any conflict fails the import; with force, conflicting
// names are mapped to suffixed replacements.
func (s *AgentService) resolveImportNames(ctx context.Context, tenantID string, payload *ExportPayload, force bool) (map[string]string, error) {
	all := make([]string, 0, len(payload.AgentInfo)*2)
	for _, info := range payload.AgentInfo {
		if info.Name != "" {
			all = append(all, info.Name)
		}
		if info.DisplayName != "" {
			all = append(all, info.DisplayName)
		}
	}

	taken, err := s.repo.NamesExist(ctx, tenantID, all, nil)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to check agent names")
	}
	if len(taken) == 0 {
		return map[string]string{}, nil
	}

	if !force {
		sort.Strings(taken)
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict,
			fmt.Sprintf("Agent names already exist: %s", strings.Join(taken, ", ")), nil,
			"f8a9e2b7-a5d4-43f8-8b56-a7c3b0e25d81")
	}

	renames := make(map[string]string, len(taken))
	claimed := make(map[string]bool, len(all))
	for _, name := range taken {
		renames[name] = s.freeImportName(ctx, tenantID, name, claimed)
	}
	return renames, nil
}

func (s *AgentService) freeImportName(ctx context.Context, tenantID, base string, claimed map[string]bool) string {
	for i := 1; i <= 100; i++ {
		candidate := fmt.Sprintf("%s_%d", base, i)
		if claimed[candidate] {
			continue
		}
		taken, err := s.repo.NamesExist(ctx, tenantID, []string{candidate}, nil)
		if err == nil && len(taken) == 0 {
			claimed[candidate] = true
			return candidate
		}
	}
	fallback, err := idgen.GenerateSecureID(base, 6)
	if err != nil {
		fallback = fmt.Sprintf("%s_import", base)
	}
	claimed[fallback] = true
	return fallback
}

// importAgent creates one agent from an export entry with its tool
// bindings and relations.
func (s *AgentService) importAgent(ctx context.Context, tenantID, userID string, info *ExportAgentInfo, renames map[string]string, childIDs []uint) (uint, error) {
	publicID, err := idgen.GenerateSecureID("agent", 16)
	if err != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to generate agent ID")
	}

	a := &Agent{
		PublicID:            publicID,
		TenantID:            tenantID,
		Revision:            DraftRevision(),
		Name:                renamed(info.Name, renames),
		DisplayName:         renamed(info.DisplayName, renames),
		Description:         info.Description,
		BusinessDescription: info.BusinessDescription,
		Author:              info.Author,
		MaxSteps:            info.MaxSteps,
		ProvideRunSummary:   info.ProvideRunSummary,
		DutyPrompt:          info.DutyPrompt,
		ConstraintPrompt:    info.ConstraintPrompt,
		FewShotsPrompt:      info.FewShotsPrompt,
		Enabled:             info.Enabled,
		IsNew:               true,
		CreatedBy:           userID,
		UpdatedBy:           userID,
	}
	if a.MaxSteps <= 0 {
		a.MaxSteps = defaultMaxSteps
	}

	if info.ModelName != nil {
		if id, found := s.models.ModelIDByName(ctx, tenantID, *info.ModelName); found {
			a.ModelID = &id
		}
	}
	if info.BusinessLogicModelName != nil {
		if id, found := s.models.ModelIDByName(ctx, tenantID, *info.BusinessLogicModelName); found {
			a.BusinessLogicModelID = &id
		}
	}

	if err := s.validateFor(ctx, a); err != nil {
		return 0, err
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to import agent")
	}

	for _, tc := range info.Tools {
		def, err := s.tools.GetByName(ctx, tc.Name, tenantID)
		if err != nil {
			// Tool not present in this tenant's catalog, skip the binding.
			continue
		}
		ti := &ToolInstance{
			AgentID:   a.AgentID,
			ToolID:    def.ID,
			TenantID:  tenantID,
			UserID:    userID,
			Revision:  DraftRevision(),
			Enabled:   tc.Enabled,
			Params:    tc.Params,
			CreatedBy: userID,
			UpdatedBy: userID,
		}
		if err := s.repo.UpsertToolInstance(ctx, ti); err != nil {
			return 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to import tool binding")
		}
	}

	if len(childIDs) > 0 {
		if err := s.repo.ReplaceRelations(ctx, a.AgentID, tenantID, DraftRevision(), childIDs, userID); err != nil {
			return 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to import sub agents")
		}
	}
	return a.AgentID, nil
}

func renamed(name string, renames map[string]string) string {
	if replacement, ok := renames[name]; ok {
		return replacement
	}
	return name
}
