package toolres

import (
	"agenthub/services/agent-api/internal/domain/tool"
)

// ToolResponse is the wire view of one catalog tool
type ToolResponse struct {
	ID          uint         `json:"tool_id"`
	Name        string       `json:"name"`
	ClassName   string       `json:"class_name"`
	Description string       `json:"description"`
	Source      string       `json:"source"`
	Inputs      string       `json:"inputs"`
	OutputType  string       `json:"output_type"`
	Usage       *string      `json:"usage,omitempty"`
	OriginName  *string      `json:"origin_name,omitempty"`
	Category    *string      `json:"category,omitempty"`
	Params      []tool.Param `json:"params"`
	IsAvailable bool         `json:"is_available"`
	CreatedAt   int64        `json:"create_time"`
}

// NewToolResponse creates a response from a domain tool
func NewToolResponse(t *tool.Tool) *ToolResponse {
	params := t.Params
	if params == nil {
		params = []tool.Param{}
	}
	return &ToolResponse{
		ID:          t.ID,
		Name:        t.Name,
		ClassName:   t.ClassName,
		Description: t.Description,
		Source:      string(t.Source),
		Inputs:      t.Inputs,
		OutputType:  t.OutputType,
		Usage:       t.Usage,
		OriginName:  t.OriginName,
		Category:    t.Category,
		Params:      params,
		IsAvailable: t.IsAvailable,
		CreatedAt:   t.CreatedAt.Unix(),
	}
}

// ToolListResponse lists the tenant's tool catalog
type ToolListResponse struct {
	Tools []*ToolResponse `json:"tools"`
	Total int             `json:"total"`
}

// NewToolListResponse creates a list response from domain tools
func NewToolListResponse(tools []*tool.Tool) *ToolListResponse {
	out := make([]*ToolResponse, 0, len(tools))
	for _, t := range tools {
		out = append(out, NewToolResponse(t))
	}
	return &ToolListResponse{Tools: out, Total: len(out)}
}
