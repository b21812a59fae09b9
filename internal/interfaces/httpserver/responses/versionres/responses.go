package versionres

import (
	"agenthub/services/agent-api/internal/domain/agent"
)

// VersionResponse is one row of the version registry
type VersionResponse struct {
	ID              uint    `json:"id"`
	AgentID         uint    `json:"agent_id"`
	VersionNo       int     `json:"version_no"`
	VersionName     *string `json:"version_name"`
	ReleaseNote     *string `json:"release_note"`
	SourceType      string  `json:"source_type"`
	SourceVersionNo *int    `json:"source_version_no"`
	Status          string  `json:"status"`
	CreatedBy       string  `json:"created_by"`
	CreatedAt       int64   `json:"create_time"`
	UpdatedAt       int64   `json:"update_time"`
}

// NewVersionResponse creates a response from a registry row
func NewVersionResponse(v *agent.Version) *VersionResponse {
	return &VersionResponse{
		ID:              v.ID,
		AgentID:         v.AgentID,
		VersionNo:       v.VersionNo,
		VersionName:     v.VersionName,
		ReleaseNote:     v.ReleaseNote,
		SourceType:      string(v.SourceType),
		SourceVersionNo: v.SourceVersionNo,
		Status:          string(v.Status),
		CreatedBy:       v.CreatedBy,
		CreatedAt:       v.CreatedAt.Unix(),
		UpdatedAt:       v.UpdatedAt.Unix(),
	}
}

// VersionListResponse lists an agent's published versions, newest first
type VersionListResponse struct {
	Versions []*VersionResponse `json:"versions"`
	Total    int                `json:"total"`
}

// NewVersionListResponse creates a list response from registry rows
func NewVersionListResponse(versions []*agent.Version, total int) *VersionListResponse {
	out := make([]*VersionResponse, 0, len(versions))
	for _, v := range versions {
		out = append(out, NewVersionResponse(v))
	}
	return &VersionListResponse{Versions: out, Total: total}
}

// PublishedListResponse lists the tenant's published agents
type PublishedListResponse struct {
	Agents []*agent.PublishedAgent `json:"agents"`
	Total  int                     `json:"total"`
}

// VersionDeletedResponse confirms a version soft delete
type VersionDeletedResponse struct {
	AgentID   uint `json:"agent_id"`
	VersionNo int  `json:"version_no"`
	Deleted   bool `json:"deleted"`
}

// VersionUpdatedResponse confirms a metadata or status change
type VersionUpdatedResponse struct {
	AgentID   uint `json:"agent_id"`
	VersionNo int  `json:"version_no"`
	Updated   bool `json:"updated"`
}
