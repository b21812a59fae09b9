package agentres

import (
	"agenthub/services/agent-api/internal/domain/agent"
)

// AgentResponse confirms a created or updated draft
type AgentResponse struct {
	AgentID     uint   `json:"agent_id"`
	PublicID    string `json:"public_id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

// NewAgentResponse creates a response from a draft row
func NewAgentResponse(a *agent.Agent) *AgentResponse {
	return &AgentResponse{
		AgentID:     a.AgentID,
		PublicID:    a.PublicID,
		Name:        a.Name,
		DisplayName: a.DisplayName,
	}
}

// AgentListResponse lists the tenant's draft agents
type AgentListResponse struct {
	Agents []*agent.Summary `json:"agents"`
	Total  int              `json:"total"`
}

// AgentDeletedResponse confirms a soft delete
type AgentDeletedResponse struct {
	AgentID uint `json:"agent_id"`
	Deleted bool `json:"deleted"`
}

// ClearNewResponse reports how many rows dropped the NEW marker
type ClearNewResponse struct {
	AgentID uint  `json:"agent_id"`
	Updated int64 `json:"updated"`
}

// CheckNameResponse reports per-item name conflicts
type CheckNameResponse struct {
	Results []agent.NameCheckResult `json:"results"`
}

// NameSuggestResponse carries per-item display-name suggestions
type NameSuggestResponse struct {
	Results []agent.NameRegenResult `json:"results"`
}

// ToolBindingsResponse lists the draft's tool bindings
type ToolBindingsResponse struct {
	AgentID uint               `json:"agent_id"`
	Tools   []*agent.BoundTool `json:"tools"`
}

// BindToolResponse confirms a binding upsert
type BindToolResponse struct {
	AgentID uint `json:"agent_id"`
	ToolID  uint `json:"tool_id"`
	Enabled bool `json:"enabled"`
}

// CreatingAgentResponse names the claimed blank draft
type CreatingAgentResponse struct {
	AgentID uint `json:"agent_id"`
}

// ImportAgentResponse names the root of an imported tree
type ImportAgentResponse struct {
	AgentID uint `json:"agent_id"`
}
