package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	RunID   string    // exact run match
	Purpose string    // exact purpose match
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	RunID        string
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a recorded LLM request as read back from the store.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates calls for one purpose label.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates calls for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns a single event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}

// Run is one pass of the pipeline as indexed in the store. State holds the
// serialized pipeline state.
type Run struct {
	ID         string
	StartedAt  time.Time
	UpdatedAt  time.Time
	SourceName string
	Language   string
	Audience   string
	Stage      string
	Composite  *float64
	State      []byte
}

// RunRepo manages the run index.
type RunRepo interface {
	// Save inserts or updates a run. StartedAt is kept from the first save.
	Save(ctx context.Context, run *Run) error

	// Get returns a run by ID, or nil if none exists.
	Get(ctx context.Context, id string) (*Run, error)

	// List returns the most recently updated runs first.
	List(ctx context.Context, limit int) ([]Run, error)
}

// Artifact records a file written for a run.
type Artifact struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	RunID     string
	Kind      string
	Path      string
}

// ArtifactRepo indexes artifact files by run.
type ArtifactRepo interface {
	Record(ctx context.Context, runID, kind, path string) error
	ForRun(ctx context.Context, runID string) ([]Artifact, error)
}
