package agentreq

import (
	"agenthub/services/agent-api/internal/domain/agent"
)

// CreateAgentRequest represents the request to create a draft agent
type CreateAgentRequest struct {
	Name                 string  `json:"name" binding:"required"`
	DisplayName          string  `json:"display_name"`
	Description          *string `json:"description,omitempty"`
	BusinessDescription  *string `json:"business_description,omitempty"`
	Author               *string `json:"author,omitempty"`
	ModelID              *uint   `json:"model_id,omitempty"`
	BusinessLogicModelID *uint   `json:"business_logic_model_id,omitempty"`
	MaxSteps             *int    `json:"max_steps,omitempty"`
	ProvideRunSummary    *bool   `json:"provide_run_summary,omitempty"`
	DutyPrompt           *string `json:"duty_prompt,omitempty"`
	ConstraintPrompt     *string `json:"constraint_prompt,omitempty"`
	FewShotsPrompt       *string `json:"few_shots_prompt,omitempty"`
	Enabled              *bool   `json:"enabled,omitempty"`
	EnabledToolIDs       []uint  `json:"enabled_tool_id_list,omitempty"`
	RelatedAgentIDs      []uint  `json:"related_agent_id_list,omitempty"`
	GroupIDs             []int64 `json:"group_ids,omitempty"`
}

// UpdateAgentRequest represents a partial update of a draft agent
type UpdateAgentRequest struct {
	Name                 *string `json:"name,omitempty"`
	DisplayName          *string `json:"display_name,omitempty"`
	Description          *string `json:"description,omitempty"`
	BusinessDescription  *string `json:"business_description,omitempty"`
	Author               *string `json:"author,omitempty"`
	ModelID              *uint   `json:"model_id,omitempty"`
	BusinessLogicModelID *uint   `json:"business_logic_model_id,omitempty"`
	MaxSteps             *int    `json:"max_steps,omitempty"`
	ProvideRunSummary    *bool   `json:"provide_run_summary,omitempty"`
	DutyPrompt           *string `json:"duty_prompt,omitempty"`
	ConstraintPrompt     *string `json:"constraint_prompt,omitempty"`
	FewShotsPrompt       *string `json:"few_shots_prompt,omitempty"`
	Enabled              *bool   `json:"enabled,omitempty"`
	EnabledToolIDs       []uint  `json:"enabled_tool_id_list,omitempty"`
	RelatedAgentIDs      []uint  `json:"related_agent_id_list,omitempty"`
	GroupIDs             []int64 `json:"group_ids,omitempty"`
}

// ToUpsertInput converts the create request into a domain patch.
func (r *CreateAgentRequest) ToUpsertInput() agent.UpsertInput {
	name := r.Name
	displayName := r.DisplayName
	return agent.UpsertInput{
		Name:                 &name,
		DisplayName:          &displayName,
		Description:          r.Description,
		BusinessDescription:  r.BusinessDescription,
		Author:               r.Author,
		ModelID:              r.ModelID,
		BusinessLogicModelID: r.BusinessLogicModelID,
		MaxSteps:             r.MaxSteps,
		ProvideRunSummary:    r.ProvideRunSummary,
		DutyPrompt:           r.DutyPrompt,
		ConstraintPrompt:     r.ConstraintPrompt,
		FewShotsPrompt:       r.FewShotsPrompt,
		Enabled:              r.Enabled,
		EnabledToolIDs:       r.EnabledToolIDs,
		RelatedAgentIDs:      r.RelatedAgentIDs,
		GroupIDs:             r.GroupIDs,
	}
}

// ToUpsertInput converts the update request into a domain patch.
func (r *UpdateAgentRequest) ToUpsertInput() agent.UpsertInput {
	return agent.UpsertInput{
		Name:                 r.Name,
		DisplayName:          r.DisplayName,
		Description:          r.Description,
		BusinessDescription:  r.BusinessDescription,
		Author:               r.Author,
		ModelID:              r.ModelID,
		BusinessLogicModelID: r.BusinessLogicModelID,
		MaxSteps:             r.MaxSteps,
		ProvideRunSummary:    r.ProvideRunSummary,
		DutyPrompt:           r.DutyPrompt,
		ConstraintPrompt:     r.ConstraintPrompt,
		FewShotsPrompt:       r.FewShotsPrompt,
		Enabled:              r.Enabled,
		EnabledToolIDs:       r.EnabledToolIDs,
		RelatedAgentIDs:      r.RelatedAgentIDs,
		GroupIDs:             r.GroupIDs,
	}
}

// CheckNameRequest represents a batch name-conflict check
type CheckNameRequest struct {
	Agents []agent.NameCheckItem `json:"agents" binding:"required"`
}

// NameSuggestRequest represents a batch display-name suggestion request
type NameSuggestRequest struct {
	Agents []agent.NameRegenItem `json:"agents" binding:"required"`
}

// BindToolRequest represents a draft tool binding upsert
type BindToolRequest struct {
	Enabled bool           `json:"enabled"`
	Params  map[string]any `json:"params,omitempty"`
}

// ImportAgentRequest carries an exported agent tree to recreate
type ImportAgentRequest struct {
	AgentID     uint                              `json:"agent_id" binding:"required"`
	AgentInfo   map[string]*agent.ExportAgentInfo `json:"agent_info" binding:"required"`
	ForceImport bool                              `json:"force_import"`
}
