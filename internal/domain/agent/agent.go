// Package agent provides the versioned agent aggregate: draft and snapshot
// rows, tool bindings, sub-agent relations and the published version
// registry.
package agent

import (
	"context"
	"fmt"
	"time"
)

// ===============================================
// Revision
// ===============================================

// Revision identifies which copy of an agent a row belongs to: the single
// mutable draft, or an immutable numbered snapshot created by publish.
type Revision struct {
	snapshot bool
	number   int
}

// DraftRevision returns the revision of the mutable draft copy.
func DraftRevision() Revision {
	return Revision{}
}

// SnapshotRevision returns the revision of published snapshot n (n >= 1).
func SnapshotRevision(n int) Revision {
	return Revision{snapshot: true, number: n}
}

// RevisionFromNumber maps the wire encoding (0 = draft, n = snapshot) back
// to a Revision.
func RevisionFromNumber(n int) Revision {
	if n <= 0 {
		return DraftRevision()
	}
	return SnapshotRevision(n)
}

// IsDraft reports whether the revision is the mutable draft.
func (r Revision) IsDraft() bool {
	return !r.snapshot
}

// Number returns the snapshot number, 0 for the draft.
func (r Revision) Number() int {
	if r.snapshot {
		return r.number
	}
	return 0
}

func (r Revision) String() string {
	if r.snapshot {
		return fmt.Sprintf("v%d", r.number)
	}
	return "draft"
}

// ===============================================
// Agent
// ===============================================

// Agent is one copy of an agent definition. Exactly one draft copy exists
// per live AgentID; snapshot copies are immutable once written.
type Agent struct {
	ID uint
	// AgentID groups every copy of one agent. It is assigned from the
	// draft row id at creation and carried unchanged onto snapshots.
	AgentID  uint
	PublicID string
	TenantID string
	Revision Revision
	// CurrentVersionNo is meaningful on the draft copy only: the snapshot
	// number currently published, nil before the first publish.
	CurrentVersionNo     *int
	Name                 string
	DisplayName          string
	Description          *string
	BusinessDescription  *string
	Author               *string
	ModelID              *uint
	BusinessLogicModelID *uint
	MaxSteps             int
	ProvideRunSummary    bool
	DutyPrompt           *string
	ConstraintPrompt     *string
	FewShotsPrompt       *string
	Enabled              bool
	IsNew                bool
	GroupIDs             []int64
	CreatedBy            string
	UpdatedBy            string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// ToolInstance binds a tool to one copy of an agent with per-agent
// parameter overrides.
type ToolInstance struct {
	ID        uint
	AgentID   uint
	ToolID    uint
	TenantID  string
	UserID    string
	Revision  Revision
	Enabled   bool
	Params    map[string]any
	CreatedBy string
	UpdatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Relation is a directed parent -> sub-agent edge on one copy of an agent.
type Relation struct {
	ID            uint
	ParentAgentID uint
	SubAgentID    uint
	TenantID      string
	Revision      Revision
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Snapshot bundles the three row sets that make up one copy of an agent.
type Snapshot struct {
	Agent     *Agent
	Tools     []*ToolInstance
	Relations []*Relation
}

// ===============================================
// Version registry
// ===============================================

// VersionStatus is the lifecycle state of a published version.
type VersionStatus string

const (
	VersionStatusReleased VersionStatus = "RELEASED"
	VersionStatusDisabled VersionStatus = "DISABLED"
	VersionStatusArchived VersionStatus = "ARCHIVED"
	// VersionStatusDraft is synthesized for the draft in comparison flows;
	// it is never stored.
	VersionStatusDraft VersionStatus = "DRAFT"
)

// SourceType records how a version came to be published.
type SourceType string

const (
	SourceTypeNormal   SourceType = "NORMAL"
	SourceTypeRollback SourceType = "ROLLBACK"
	// SourceTypeDraft is synthesized for the draft in comparison flows.
	SourceTypeDraft SourceType = "DRAFT"
)

// Version is one row of the append-only version registry: a single publish
// event for an agent.
type Version struct {
	ID              uint
	AgentID         uint
	TenantID        string
	VersionNo       int
	VersionName     *string
	ReleaseNote     *string
	SourceType      SourceType
	SourceVersionNo *int
	Status          VersionStatus
	CreatedBy       string
	UpdatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ===============================================
// Repositories
// ===============================================

// AgentFilter narrows agent lookups.
type AgentFilter struct {
	TenantID *string
	Enabled  *bool
	IsNew    *bool
}

// Repository defines storage operations for agent copies, tool bindings and
// relations. Implementations filter soft-deleted rows on every read.
type Repository interface {
	// Create inserts a copy. For a draft with AgentID zero the new row id
	// becomes the AgentID.
	Create(ctx context.Context, a *Agent) error
	Update(ctx context.Context, a *Agent) error
	// Delete soft-deletes every copy of the agent along with its tool
	// bindings and relations.
	Delete(ctx context.Context, agentID uint, tenantID, deletedBy string) error
	GetByRevision(ctx context.Context, agentID uint, tenantID string, rev Revision) (*Agent, error)
	ListDrafts(ctx context.Context, filter AgentFilter) ([]*Agent, error)
	// MaxSnapshotNumber returns the highest snapshot number that exists for
	// the agent, 0 when only the draft exists.
	MaxSnapshotNumber(ctx context.Context, agentID uint, tenantID string) (int, error)
	UpdateCurrentVersion(ctx context.Context, agentID uint, tenantID string, versionNo int) error
	// NamesExist reports which of the given names collide with an existing
	// agent name or display name in the tenant.
	NamesExist(ctx context.Context, tenantID string, names []string, excludeAgentID *uint) ([]string, error)
	// ClearNewFlag resets is_new on the draft and returns the number of
	// rows touched.
	ClearNewFlag(ctx context.Context, agentID uint, tenantID, updatedBy string) (int64, error)

	UpsertToolInstance(ctx context.Context, ti *ToolInstance) error
	GetToolInstance(ctx context.Context, agentID, toolID uint, tenantID string, rev Revision) (*ToolInstance, error)
	ListToolInstances(ctx context.Context, agentID uint, tenantID string, rev Revision) ([]*ToolInstance, error)
	DeleteToolInstances(ctx context.Context, agentID uint, tenantID string, rev Revision) error

	ReplaceRelations(ctx context.Context, agentID uint, tenantID string, rev Revision, subAgentIDs []uint, createdBy string) error
	ListRelations(ctx context.Context, agentID uint, tenantID string, rev Revision) ([]*Relation, error)
	ListRelationsBySubAgent(ctx context.Context, subAgentID uint, tenantID string, rev Revision) ([]*Relation, error)
	DeleteRelation(ctx context.Context, parentAgentID, subAgentID uint, tenantID string) error

	// GetSnapshot loads the full copy of an agent at rev in one shot.
	GetSnapshot(ctx context.Context, agentID uint, tenantID string, rev Revision) (*Snapshot, error)
	// WriteSnapshot persists a full copy under a new snapshot revision,
	// locking the draft row for the duration of the surrounding transaction.
	WriteSnapshot(ctx context.Context, snap *Snapshot) error
}

// VersionRepository defines storage operations for the version registry.
type VersionRepository interface {
	Insert(ctx context.Context, v *Version) error
	GetByVersionNo(ctx context.Context, agentID uint, tenantID string, versionNo int) (*Version, error)
	List(ctx context.Context, agentID uint, tenantID string) ([]*Version, error)
	UpdateStatus(ctx context.Context, agentID uint, tenantID string, versionNo int, status VersionStatus, updatedBy string) error
	UpdateMetadata(ctx context.Context, agentID uint, tenantID string, versionNo int, versionName, releaseNote *string, updatedBy string) error
	SoftDelete(ctx context.Context, agentID uint, tenantID string, versionNo int, deletedBy string) error
}

// NameSuggester proposes agent names from a description, backed by an LLM.
type NameSuggester interface {
	SuggestNames(ctx context.Context, description string, count int) ([]string, error)
}
