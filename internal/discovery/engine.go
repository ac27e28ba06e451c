package discovery

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/compasshq/fcx/internal/store"
)

// CriticalStrategyPriority separates strategies that abort discovery on
// failure from strategies whose failures are recorded and tolerated.
const CriticalStrategyPriority = 10

// EngineOptions configures the discovery engine itself, as opposed to a
// single run.
type EngineOptions struct {
	MaxIterations        int
	ConvergenceThreshold int
	Debug                bool
}

// DefaultEngineOptions returns the default engine configuration.
func DefaultEngineOptions() EngineOptions {
	return EngineOptions{
		MaxIterations:        3,
		ConvergenceThreshold: 1,
	}
}

// Engine runs registered strategies to convergence and merges their results
// under first-write-wins.
type Engine struct {
	graph      GraphStore
	strategies []Strategy
	opts       EngineOptions
	postFilter PostFilter
}

// NewEngine returns an engine with the default strategies registered:
// cross-stack bridging and dependency traversal.
func NewEngine(graph GraphStore, opts EngineOptions) *Engine {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = 3
	}
	if opts.ConvergenceThreshold <= 0 {
		opts.ConvergenceThreshold = 1
	}

	e := &Engine{graph: graph, opts: opts}
	e.Register(NewCrossStackStrategy(graph))
	e.Register(NewDependencyTraversalStrategy(graph))
	return e
}

// Register adds a strategy, keeping the list ordered by ascending priority.
func (e *Engine) Register(s Strategy) {
	e.strategies = append(e.strategies, s)
	sort.SliceStable(e.strategies, func(i, j int) bool {
		return e.strategies[i].Priority() < e.strategies[j].Priority()
	})
}

// SetPostFilter installs an optional consumer-side filter the final symbol
// map flows through. A failing post-filter downgrades to a warning.
func (e *Engine) SetPostFilter(pf PostFilter) {
	e.postFilter = pf
}

// Discover finds the feature symbol set reachable from the entry point.
// The returned map is keyed by symbol id with relevance scores in [0, 1].
func (e *Engine) Discover(ctx context.Context, entryPointID int64, opts Options) (*Result, error) {
	start := time.Now()
	opts = opts.normalize()

	entry, err := e.graph.GetSymbol(entryPointID)
	if err != nil {
		return nil, fmt.Errorf("resolve entry point %d: %w", entryPointID, err)
	}
	if entry == nil {
		return nil, fmt.Errorf("%w: id %d", ErrEntryPointNotFound, entryPointID)
	}

	master := map[int64]float64{entryPointID: 1.0}

	// A controller method entry carries its controller class along: the
	// manifest needs the class even when traversal never walks back to it.
	if entry.SymbolType == store.SymMethod && entry.EntityType == store.EntController {
		if err := e.seedControllerClass(entry, master); err != nil {
			return nil, err
		}
	}

	layer, err := e.classifyLayer(entry)
	if err != nil {
		return nil, err
	}

	for _, s := range e.strategies {
		s.Reset()
	}

	stats := Stats{StrategyStats: make(map[string]*StrategyStats)}
	unchanged := 0

	for iter := 0; iter < e.opts.MaxIterations; iter++ {
		stats.Iterations++
		newThisIteration := 0

		for _, strat := range e.strategies {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			dctx := &Context{
				EntryPointID:   entryPointID,
				EntryPoint:     entry,
				EntryLayer:     layer,
				RepoID:         entry.RepoID,
				CurrentSymbols: copyScores(master),
				Options:        opts,
				Iteration:      iter,
			}
			if !strat.ShouldRun(dctx) {
				continue
			}

			stratStart := time.Now()
			found, err := strat.Discover(ctx, dctx)
			elapsed := float64(time.Since(stratStart).Microseconds()) / 1000.0

			ss := stats.StrategyStats[strat.Name()]
			if ss == nil {
				ss = &StrategyStats{}
				stats.StrategyStats[strat.Name()] = ss
			}
			ss.Executions++
			ss.totalTimeMs += elapsed
			ss.AvgExecutionTimeMs = ss.totalTimeMs / float64(ss.Executions)

			if err != nil {
				serr := &StrategyError{Strategy: strat.Name(), Iteration: iter, Err: err}
				if strat.Priority() <= CriticalStrategyPriority {
					return nil, serr
				}
				stats.FailedStrategies = append(stats.FailedStrategies, StrategyFailure{
					Strategy:  strat.Name(),
					Iteration: iter,
					Error:     err.Error(),
				})
				continue
			}

			added := e.merge(master, found, opts.MaxSymbols, &stats)
			ss.SymbolsDiscovered += added
			newThisIteration += added

			if warner, ok := strat.(interface{ Warnings() []string }); ok {
				stats.Warnings = append(stats.Warnings, warner.Warnings()...)
			}
		}

		stats.SymbolsPerIteration = append(stats.SymbolsPerIteration, len(master))

		if newThisIteration == 0 {
			unchanged++
			if unchanged >= e.opts.ConvergenceThreshold {
				stats.Converged = true
				break
			}
		} else {
			unchanged = 0
		}
	}

	if err := e.applyResultFilters(entryPointID, master, opts, &stats); err != nil {
		return nil, err
	}

	if e.postFilter != nil {
		filtered, err := e.postFilter.Filter(ctx, opts.FeatureName, master)
		if err != nil {
			stats.Warnings = append(stats.Warnings,
				fmt.Sprintf("post-filter %s failed: %v", e.postFilter.Name(), err))
		} else {
			if _, ok := filtered[entryPointID]; !ok {
				filtered[entryPointID] = master[entryPointID]
			}
			master = filtered
		}
	}

	stats.TotalTimeMs = time.Since(start).Milliseconds()
	return &Result{Symbols: master, Stats: stats}, nil
}

// seedControllerClass adds the controller class that shares the entry
// method's file.
func (e *Engine) seedControllerClass(entry *store.Symbol, master map[int64]float64) error {
	parents, err := e.graph.EdgesTo(entry.ID, []string{store.DepContains})
	if err != nil {
		return fmt.Errorf("entry controller class: %w", err)
	}
	for _, pid := range parents {
		parent, err := e.graph.GetSymbol(pid)
		if err != nil {
			return fmt.Errorf("entry controller class: %w", err)
		}
		if parent != nil && parent.SymbolType == store.SymClass && parent.FileID == entry.FileID {
			master[parent.ID] = 1.0
			return nil
		}
	}
	return nil
}

// frontendFrameworks marks repositories whose services live in the frontend.
var frontendFrameworks = map[string]bool{
	"vue":    true,
	"nuxt":   true,
	"react":  true,
	"svelte": true,
}

// classifyLayer tags the entry point with the stack layer strategies key off:
// models and backend services are backend leaves, everything else sits in the
// middle of the stack.
func (e *Engine) classifyLayer(entry *store.Symbol) (string, error) {
	switch entry.EntityType {
	case store.EntModel:
		return LayerBackendLeaf, nil
	case store.EntService:
		frameworks, err := e.graph.RepositoryFrameworks(entry.RepoID)
		if err != nil {
			return "", fmt.Errorf("classify entry layer: %w", err)
		}
		for _, f := range frameworks {
			if frontendFrameworks[f] {
				return LayerMiddle, nil
			}
		}
		return LayerBackendLeaf, nil
	}
	return LayerMiddle, nil
}

// merge folds strategy results into the master map. Existing scores are never
// overwritten; growth stops at maxSymbols.
func (e *Engine) merge(master, found map[int64]float64, maxSymbols int, stats *Stats) int {
	added := 0
	for id, score := range found {
		if _, ok := master[id]; ok {
			continue
		}
		if len(master) >= maxSymbols {
			stats.Warnings = append(stats.Warnings,
				fmt.Sprintf("result capped at %d symbols", maxSymbols))
			break
		}
		if score < 0 {
			score = 0
		} else if score > 1 {
			score = 1
		}
		master[id] = score
		added++
	}
	return added
}

// applyResultFilters drops symbols below the relevance floor and symbol kinds
// the caller excluded. The entry point always survives.
func (e *Engine) applyResultFilters(entryID int64, master map[int64]float64, opts Options, stats *Stats) error {
	if opts.MinRelevanceScore > 0 {
		for id, score := range master {
			if id != entryID && score < opts.MinRelevanceScore {
				delete(master, id)
			}
		}
	}

	if opts.IncludeComponents && opts.IncludeModels {
		return nil
	}

	ids := make([]int64, 0, len(master))
	for id := range master {
		ids = append(ids, id)
	}
	symbols, err := e.graph.GetSymbolsBatch(ids)
	if err != nil {
		return fmt.Errorf("filter result: %w", err)
	}

	for id, sym := range symbols {
		if id == entryID {
			continue
		}
		if !opts.IncludeComponents && (sym.EntityType == store.EntComponent || sym.EntityType == "ui_component") {
			delete(master, id)
		}
		if !opts.IncludeModels && sym.EntityType == store.EntModel {
			delete(master, id)
		}
	}
	return nil
}

// copyScores snapshots the master map for a strategy context.
func copyScores(m map[int64]float64) map[int64]float64 {
	out := make(map[int64]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
