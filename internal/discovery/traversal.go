package discovery

import (
	"context"
	"fmt"

	"github.com/compasshq/fcx/internal/store"
)

// parentDiscoveryTypes are the container entity types recorded alongside a
// discovered executor. The parent is added to the result but never enqueued:
// that keeps controller and store classes in the manifest without dragging in
// their unrelated sibling methods.
var parentDiscoveryTypes = map[string]bool{
	store.EntController: true,
	store.EntStore:      true,
	store.EntService:    true,
	store.EntComponent:  true,
}

// DependencyTraversalStrategy is the main BFS over the dependency graph:
// direction- and depth-aware, with pollution prevention delegated to the
// depth-filter, file-validation and direction policies.
type DependencyTraversalStrategy struct {
	graph      GraphStore
	resolver   *DirectionResolver
	expander   *ContainerExpander
	filePolicy FileValidationPolicy
	warnings   []string
}

// NewDependencyTraversalStrategy returns the BFS strategy.
func NewDependencyTraversalStrategy(graph GraphStore) *DependencyTraversalStrategy {
	return &DependencyTraversalStrategy{
		graph:    graph,
		resolver: NewDirectionResolver(graph),
		expander: NewContainerExpander(graph),
	}
}

// Name implements Strategy.
func (s *DependencyTraversalStrategy) Name() string { return "dependency-traversal" }

// Priority implements Strategy.
func (s *DependencyTraversalStrategy) Priority() int { return 10 }

// ShouldRun implements Strategy. The BFS runs once, on the first iteration,
// and never for component entry points: components are discovered through
// the cross-stack bridge only.
func (s *DependencyTraversalStrategy) ShouldRun(dctx *Context) bool {
	if dctx.Iteration != 0 {
		return false
	}
	if dctx.EntryPoint != nil && dctx.EntryPoint.EntityType == store.EntComponent {
		return false
	}
	return len(dctx.CurrentSymbols) > 0
}

// Reset implements Strategy.
func (s *DependencyTraversalStrategy) Reset() {
	s.warnings = nil
}

// Warnings returns limit warnings from the last run.
func (s *DependencyTraversalStrategy) Warnings() []string {
	return s.warnings
}

// traversalRun bundles the per-invocation pieces so nothing leaks across runs.
type traversalRun struct {
	state    *TraversalState
	queue    *TraversalQueue
	filter   DepthFilterPolicy
	maxDepth int
}

// relevance is the linear decay score for a target processed at the given
// source depth.
func relevance(depth, maxDepth int) float64 {
	r := 1 - float64(depth+1)/float64(maxDepth+1)
	if r < 0 {
		return 0
	}
	return r
}

// Discover implements Strategy.
func (s *DependencyTraversalStrategy) Discover(ctx context.Context, dctx *Context) (map[int64]float64, error) {
	opts := dctx.Options.normalize()

	entryEntityType := ""
	if dctx.EntryPoint != nil {
		entryEntityType = dctx.EntryPoint.EntityType
	}

	run := &traversalRun{
		state:    NewTraversalState(),
		queue:    NewTraversalQueue(),
		filter:   DepthFilterPolicy{EntryEntityType: entryEntityType},
		maxDepth: opts.MaxDepth,
	}

	if err := s.initialize(dctx, run); err != nil {
		return nil, err
	}

	for run.queue.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if run.state.HasExceeded(MaxVisitedNodes) {
			s.warnings = append(s.warnings,
				fmt.Sprintf("traversal stopped after visiting %d nodes", run.state.VisitedCount()))
			break
		}
		if run.state.Size() >= opts.MaxSymbols {
			s.warnings = append(s.warnings,
				fmt.Sprintf("traversal stopped at %d symbols", run.state.Size()))
			break
		}

		item, _ := run.queue.Pop()
		if item.Depth >= run.maxDepth {
			continue
		}

		sym, err := s.graph.GetSymbol(item.ID)
		if err != nil {
			return nil, fmt.Errorf("resolve %d: %w", item.ID, err)
		}
		if sym == nil {
			continue
		}

		targets, err := s.fetchTargets(sym, item)
		if err != nil {
			return nil, err
		}
		if len(targets) == 0 {
			continue
		}

		targetSyms, err := s.graph.GetSymbolsBatch(targets)
		if err != nil {
			return nil, fmt.Errorf("resolve targets of %d: %w", item.ID, err)
		}

		for _, t := range targets {
			if run.state.IsVisited(t) {
				continue
			}
			tsym := targetSyms[t]
			if tsym == nil {
				continue
			}
			if err := s.processTarget(tsym, item, run); err != nil {
				return nil, err
			}
		}
	}

	return run.state.Discovered(), nil
}

// initialize seeds the queue from the current symbol set. Backward containers
// (model and service classes) enqueue directly; everything else expands to
// its executors first. Model entry points additionally expand their methods —
// relationship definitions — forward one level, visited but undiscovered.
func (s *DependencyTraversalStrategy) initialize(dctx *Context, run *traversalRun) error {
	ids := dctx.currentIDs()
	symbols, err := s.graph.GetSymbolsBatch(ids)
	if err != nil {
		return fmt.Errorf("resolve start symbols: %w", err)
	}

	var expandable []int64
	for _, id := range ids {
		sym := symbols[id]
		if sym == nil {
			continue
		}
		role := Classify(sym)
		if role == RoleContainer && NaturalDirection(sym, role) == Backward {
			run.state.MarkVisited(id)
			run.queue.Push(QueueItem{ID: id, Depth: 0, Direction: Backward})

			if sym.EntityType == store.EntModel {
				methods, err := s.graph.ChildrenOf(id, []string{store.SymMethod, store.SymFunction})
				if err != nil {
					return fmt.Errorf("expand model %d: %w", id, err)
				}
				for _, m := range methods {
					if !run.state.IsVisited(m) {
						run.state.MarkVisited(m)
						run.queue.Push(QueueItem{ID: m, Depth: 1, Direction: Forward})
					}
				}
			}
			continue
		}
		expandable = append(expandable, id)
	}

	execIDs, err := s.expander.ExpandToExecutors(expandable, symbols)
	if err != nil {
		return fmt.Errorf("expand start symbols: %w", err)
	}

	execSyms, err := s.graph.GetSymbolsBatch(execIDs)
	if err != nil {
		return fmt.Errorf("resolve start executors: %w", err)
	}

	for _, id := range execIDs {
		sym := execSyms[id]
		if sym == nil {
			continue
		}
		role := Classify(sym)
		dir, err := s.resolver.InitialDirection(sym, role)
		if err != nil {
			return fmt.Errorf("initial direction of %d: %w", id, err)
		}

		run.state.AddDiscovered(id, 1.0)
		run.state.AddValidatedFile(sym.FileID)
		run.queue.Push(QueueItem{ID: id, Depth: 0, Direction: dir})

		if role != RoleExecutor {
			continue
		}
		parent, err := s.resolver.StructuralParent(id)
		if err != nil {
			return fmt.Errorf("parent of %d: %w", id, err)
		}
		if parent == nil {
			continue
		}
		if run.state.AddDiscovered(parent.ID, 1.0) {
			run.state.AddValidatedFile(parent.FileID)
			prole := Classify(parent)
			if prole == RoleContainer && NaturalDirection(parent, prole) == Backward {
				run.queue.Push(QueueItem{ID: parent.ID, Depth: 0, Direction: Backward})
			}
		}
	}

	return nil
}

// fetchTargets returns the deduplicated neighbor ids to process for one
// dequeued symbol, honoring the per-role edge-type tables.
func (s *DependencyTraversalStrategy) fetchTargets(sym *store.Symbol, item QueueItem) ([]int64, error) {
	role := Classify(sym)
	var targets []int64

	if item.Direction == Forward || item.Direction == Both {
		types := forwardEdgeTypes(sym, role, item.Depth)
		if len(types) > 0 {
			out, err := s.graph.EdgesFrom(sym.ID, types)
			if err != nil {
				return nil, fmt.Errorf("forward edges of %d: %w", sym.ID, err)
			}
			targets = append(targets, out...)
		}
	}

	if item.Direction == Backward || (item.Direction == Both && allowBackwardForBoth(sym, item.Depth)) {
		types := backwardEdgeTypes(sym, role)
		in, err := s.graph.EdgesTo(sym.ID, types)
		if err != nil {
			return nil, fmt.Errorf("backward edges of %d: %w", sym.ID, err)
		}
		targets = append(targets, in...)
	}

	return dedupeIDs(targets), nil
}

// forwardEdgeTypes picks which outgoing edges to follow. Controllers,
// services and stores follow imports and references so their requests and
// models surface; components deliberately do not.
func forwardEdgeTypes(sym *store.Symbol, role Role, depth int) []string {
	switch role {
	case RoleExecutor:
		types := []string{store.DepCalls, store.DepAPICall, store.DepContains}
		if depth <= 3 && sym.SymbolType == store.SymMethod {
			types = append(types, store.DepImports, store.DepReferences)
		}
		return types

	case RoleEntity:
		types := []string{store.DepCalls, store.DepAPICall}
		if sym.EntityType != store.EntComponent && depth <= 2 {
			types = append(types, store.DepReferences)
		}
		return types

	case RoleContainer:
		types := []string{store.DepContains}
		switch sym.EntityType {
		case store.EntService, store.EntController, store.EntStore:
			types = append(types, store.DepImports, store.DepReferences)
		}
		return types
	}
	return nil
}

// allowBackwardForBoth is the single knob that keeps transitive Both from
// recursing into every caller: models and composables chase callers at any
// depth, everything else only near the entry point.
func allowBackwardForBoth(sym *store.Symbol, depth int) bool {
	if sym.EntityType == store.EntModel || sym.EntityType == store.EntComposable {
		return true
	}
	return depth < 2
}

// backwardEdgeTypes picks which incoming edges to follow. Contains comes
// along to surface structural parents.
func backwardEdgeTypes(sym *store.Symbol, role Role) []string {
	types := []string{store.DepCalls, store.DepAPICall, store.DepContains}
	if sym.EntityType == store.EntModel || sym.EntityType == store.EntComposable ||
		(role == RoleExecutor && sym.SymbolType == store.SymFunction) {
		types = append(types, store.DepReferences)
	}
	return types
}

// processTarget runs one target through the policy gauntlet: role triage,
// depth filters, file validation, discovery, parent recording, enqueue.
func (s *DependencyTraversalStrategy) processTarget(t *store.Symbol, item QueueItem, run *traversalRun) error {
	role := Classify(t)
	if role == RoleData {
		return nil
	}
	if role == RoleContainer {
		return s.handleContainer(t, item, run)
	}

	depth := item.Depth
	dir := item.Direction

	if run.filter.ShouldFilterEntity(t.EntityType, depth, dir) {
		return nil
	}

	if role == RoleExecutor && run.filter.ShouldFilterMethod(depth, dir) {
		parent, err := s.resolver.StructuralParent(t.ID)
		if err != nil {
			return fmt.Errorf("parent of %d: %w", t.ID, err)
		}
		if parent != nil && deepEntityTypes[parent.EntityType] {
			return nil
		}
	}

	// Architectural pre-validation: a method from an unvalidated file is
	// accepted only when its class is a boundary entity, which validates the
	// file for everything after it.
	if t.SymbolType == store.SymMethod && depth >= 1 &&
		!s.filePolicy.IsValidatedEntity(t) && !run.state.IsFileValidated(t.FileID) {
		parent, err := s.resolver.StructuralParent(t.ID)
		if err != nil {
			return fmt.Errorf("parent of %d: %w", t.ID, err)
		}
		if parent == nil || !IsArchitecturalBoundary(parent.EntityType) {
			return nil
		}
		run.state.AddValidatedFile(parent.FileID)
	}

	if !s.filePolicy.ShouldValidateByFile(t, depth, run.state) {
		return nil
	}

	run.state.AddDiscovered(t.ID, relevance(depth, run.maxDepth))
	if s.filePolicy.IsValidatedEntity(t) {
		run.state.AddValidatedFile(t.FileID)
	}

	if role == RoleExecutor && depth < run.maxDepth {
		parent, err := s.resolver.StructuralParent(t.ID)
		if err != nil {
			return fmt.Errorf("parent of %d: %w", t.ID, err)
		}
		if parent != nil && parentDiscoveryTypes[parent.EntityType] {
			if run.state.AddDiscovered(parent.ID, relevance(depth+1, run.maxDepth)) {
				run.state.AddValidatedFile(parent.FileID)
			}
		}
	}

	next, err := s.resolver.NextDirection(dir, role, t, depth)
	if err != nil {
		return fmt.Errorf("next direction of %d: %w", t.ID, err)
	}
	run.queue.Push(QueueItem{ID: t.ID, Depth: depth + 1, Direction: next})
	return nil
}

// handleContainer deals with container targets, by depth and direction.
func (s *DependencyTraversalStrategy) handleContainer(t *store.Symbol, item QueueItem, run *traversalRun) error {
	depth := item.Depth
	dir := item.Direction
	et := t.EntityType

	// Shared architectural boundary: discover it, then queue a narrow
	// follow-up. Requests are leaves; models only go backward and only near
	// the entry; the rest goes forward after its imports. The entry container
	// itself never lands here — it is visited during initialization.
	if IsSharedBoundary(et) {
		if run.filter.ShouldFilterSharedBoundary(et, depth, dir) {
			return nil
		}
		run.state.AddDiscovered(t.ID, relevance(depth, run.maxDepth))
		run.state.AddValidatedFile(t.FileID)

		switch et {
		case store.EntRequest:
			// leaf
		case store.EntModel:
			if run.filter.AllowDeepModelQueue(depth) {
				run.queue.Push(QueueItem{ID: t.ID, Depth: depth + 1, Direction: Backward})
			}
		default:
			run.queue.Push(QueueItem{ID: t.ID, Depth: depth + 1, Direction: Forward})
		}
		return nil
	}

	// A non-shared container adjacent to a forward entry point: walk into its
	// executors.
	if depth == 0 && dir == Forward {
		run.state.MarkVisited(t.ID)
		execs, err := s.expander.ExpandToExecutors([]int64{t.ID}, map[int64]*store.Symbol{t.ID: t})
		if err != nil {
			return fmt.Errorf("expand container %d: %w", t.ID, err)
		}
		for _, e := range execs {
			if e != t.ID && !run.state.IsVisited(e) {
				run.queue.Push(QueueItem{ID: e, Depth: depth + 1, Direction: Forward})
			}
		}
		return nil
	}

	// Component container next to a Both entry point: a forward discovery,
	// but a leaf — component internals come from the cross-stack bridge.
	if depth == 0 && dir == Both && et == store.EntComponent {
		run.state.AddDiscovered(t.ID, relevance(depth, run.maxDepth))
		run.state.AddValidatedFile(t.FileID)
		return nil
	}

	// Backward into a container: instead of expanding every method, follow
	// only the methods that actually reference the source symbol.
	if dir == Backward || dir == Both {
		methods, err := s.graph.FindMethodsReferencing(t.ID, item.ID)
		if err != nil {
			return fmt.Errorf("methods of %d referencing %d: %w", t.ID, item.ID, err)
		}
		if len(methods) == 0 {
			run.state.MarkVisited(t.ID)
			return nil
		}

		run.state.AddDiscovered(t.ID, relevance(depth, run.maxDepth))
		run.state.AddValidatedFile(t.FileID)

		next := containerMethodDirection(et, depth, dir)
		for _, m := range methods {
			if !run.state.IsVisited(m) {
				run.queue.Push(QueueItem{ID: m, Depth: depth + 1, Direction: next})
			}
		}
		return nil
	}

	// Plain forward beyond the entry point: record, do not expand.
	run.state.AddDiscovered(t.ID, relevance(depth, run.maxDepth))
	return nil
}

// containerMethodDirection picks the direction for methods surfaced from a
// container reached backward. Service methods right next to the entry are
// bridges; deeper service and model methods must not look backward again.
func containerMethodDirection(entityType string, depth int, dir Direction) Direction {
	switch entityType {
	case store.EntService:
		if depth == 0 {
			return Both
		}
		return Forward
	case store.EntModel:
		if depth > 0 {
			return Forward
		}
		return dir
	default:
		return dir
	}
}

// dedupeIDs removes duplicates preserving first occurrence order.
func dedupeIDs(ids []int64) []int64 {
	if len(ids) < 2 {
		return ids
	}
	seen := make(map[int64]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
