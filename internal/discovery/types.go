package discovery

import (
	"context"

	"github.com/compasshq/fcx/internal/store"
)

// Direction controls which edges a traversal follows at a node.
type Direction int

const (
	// Forward follows outgoing edges: what does this symbol use.
	Forward Direction = iota
	// Backward follows incoming edges: who uses this symbol.
	Backward
	// Both follows edges in both directions.
	Both
)

// String returns the lowercase name of the direction.
func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	case Both:
		return "both"
	}
	return "unknown"
}

// Role is the traversal role of a symbol.
type Role int

const (
	// RoleData marks inert definitional symbols (types, variables, constants).
	RoleData Role = iota
	// RoleExecutor marks symbols that execute code (methods, functions, composables).
	RoleExecutor
	// RoleContainer marks symbols that hold executors (classes, files).
	RoleContainer
	// RoleEntity marks architecturally significant symbols that are not
	// class-like containers (stores, non-class services, ...).
	RoleEntity
)

// String returns the lowercase name of the role.
func (r Role) String() string {
	switch r {
	case RoleData:
		return "data"
	case RoleExecutor:
		return "executor"
	case RoleContainer:
		return "container"
	case RoleEntity:
		return "entity"
	}
	return "unknown"
}

// GraphStore is the read-only port into the code graph. Implementations must
// be safe for concurrent reads. *store.Store satisfies this interface.
type GraphStore interface {
	GetSymbol(id int64) (*store.Symbol, error)
	GetSymbolsBatch(ids []int64) (map[int64]*store.Symbol, error)
	EdgesFrom(id int64, depTypes []string) ([]int64, error)
	EdgesTo(id int64, depTypes []string) ([]int64, error)
	APICallsFrom(ids []int64) ([]store.ApiCall, error)
	APICallsTo(ids []int64) ([]store.ApiCall, error)
	ChildrenOf(id int64, symbolTypes []string) ([]int64, error)
	FindMethodsReferencing(containerID, sourceID int64) ([]int64, error)
	RepositoryFrameworks(repoID int64) ([]string, error)
}

// Options configures a single discovery run.
type Options struct {
	MaxDepth          int     // BFS depth limit (default 5)
	MaxSymbols        int     // stop growing the result past this size (default 500)
	IncludeComponents bool    // keep component/ui_component symbols in the result
	IncludeModels     bool    // keep model symbols in the result
	IncludeRoutes     bool    // carried for the manifest renderer
	IncludeTests      bool    // carried for the manifest renderer
	MinRelevanceScore float64 // drop symbols scoring below this (entry point always kept)
	FeatureName       string  // human label for the feature, used by post-filters
}

// DefaultOptions returns the default discovery options.
func DefaultOptions() Options {
	return Options{
		MaxDepth:          5,
		MaxSymbols:        500,
		IncludeComponents: true,
		IncludeModels:     true,
		IncludeRoutes:     true,
		IncludeTests:      false,
	}
}

// normalize clamps a negative depth limit to zero and applies the default
// symbol limit when MaxSymbols is not positive. A zero MaxDepth is kept.
func (o Options) normalize() Options {
	if o.MaxDepth < 0 {
		o.MaxDepth = 0
	}
	if o.MaxSymbols <= 0 {
		o.MaxSymbols = 500
	}
	return o
}

// Entry layers, used by strategies to adjust behavior to where in the stack
// the entry point sits.
const (
	LayerBackendLeaf = "backend-leaf"
	LayerMiddle      = "middle-layer"
)

// Context carries the engine state strategies read during one execution.
// CurrentSymbols is a snapshot; strategies return additions and never mutate it.
type Context struct {
	EntryPointID   int64
	EntryPoint     *store.Symbol
	EntryLayer     string
	RepoID         int64
	CurrentSymbols map[int64]float64
	Options        Options
	Iteration      int
}

// currentIDs returns the ids of the current symbol set.
func (c *Context) currentIDs() []int64 {
	ids := make([]int64, 0, len(c.CurrentSymbols))
	for id := range c.CurrentSymbols {
		ids = append(ids, id)
	}
	return ids
}

// Strategy is one discovery pass. Strategies run in ascending priority order;
// a strategy with priority at or below CriticalStrategyPriority aborts the
// whole run when it fails.
type Strategy interface {
	Name() string
	Priority() int
	ShouldRun(dctx *Context) bool
	Discover(ctx context.Context, dctx *Context) (map[int64]float64, error)
	Reset()
}

// PostFilter is an optional consumer-side hook the final symbol map flows
// through. Implementations may drop entries but must not raise scores; the
// structural core never depends on one.
type PostFilter interface {
	Name() string
	Filter(ctx context.Context, feature string, symbols map[int64]float64) (map[int64]float64, error)
}

// Result is the outcome of a discovery run.
type Result struct {
	Symbols map[int64]float64 `yaml:"symbols" json:"symbols"`
	Stats   Stats             `yaml:"stats" json:"stats"`
}

// Stats reports what the engine did during a run.
type Stats struct {
	Iterations          int                       `yaml:"iterations" json:"iterations"`
	SymbolsPerIteration []int                     `yaml:"symbols_per_iteration" json:"symbols_per_iteration"`
	StrategyStats       map[string]*StrategyStats `yaml:"strategy_stats" json:"strategy_stats"`
	TotalTimeMs         int64                     `yaml:"total_time_ms" json:"total_time_ms"`
	Converged           bool                      `yaml:"converged" json:"converged"`
	FailedStrategies    []StrategyFailure         `yaml:"failed_strategies,omitempty" json:"failed_strategies,omitempty"`
	Warnings            []string                  `yaml:"warnings,omitempty" json:"warnings,omitempty"`
}

// StrategyStats accumulates per-strategy execution counters.
type StrategyStats struct {
	Executions         int     `yaml:"executions" json:"executions"`
	SymbolsDiscovered  int     `yaml:"symbols_discovered" json:"symbols_discovered"`
	AvgExecutionTimeMs float64 `yaml:"avg_execution_time_ms" json:"avg_execution_time_ms"`
	totalTimeMs        float64
}

// StrategyFailure records a non-critical strategy error.
type StrategyFailure struct {
	Strategy  string `yaml:"strategy" json:"strategy"`
	Iteration int    `yaml:"iteration" json:"iteration"`
	Error     string `yaml:"error" json:"error"`
}
