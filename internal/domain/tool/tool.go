// Package tool provides the catalog of tools agents can bind to.
package tool

import (
	"context"
	"time"
)

// Source identifies where a tool implementation comes from.
type Source string

const (
	SourceLocal     Source = "local"
	SourceMCP       Source = "mcp"
	SourceLangchain Source = "langchain"
)

// Param describes one configurable parameter of a tool, with its default.
type Param struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Default     any    `json:"default,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// Tool is one catalog entry. Params carries the declared parameter schema;
// per-agent values live on the binding, not here.
type Tool struct {
	ID          uint
	TenantID    string
	Name        string
	ClassName   string
	Description string
	Source      Source
	Inputs      string
	OutputType  string
	Usage       *string
	OriginName  *string
	Category    *string
	Params      []Param
	IsAvailable bool
	CreatedBy   string
	UpdatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Filter narrows catalog lookups.
type Filter struct {
	TenantID    *string
	Source      *Source
	IsAvailable *bool
}

// Repository defines storage operations for the tool catalog.
type Repository interface {
	Create(ctx context.Context, t *Tool) error
	Update(ctx context.Context, t *Tool) error
	Delete(ctx context.Context, id uint, tenantID string) error
	FindByID(ctx context.Context, id uint, tenantID string) (*Tool, error)
	FindByName(ctx context.Context, name, tenantID string) (*Tool, error)
	FindByFilter(ctx context.Context, filter Filter) ([]*Tool, error)
	UpdateAvailability(ctx context.Context, id uint, tenantID string, available bool) error
}
