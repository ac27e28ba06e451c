package discovery

import (
	"context"
	"fmt"

	"github.com/compasshq/fcx/internal/store"
)

// Relevance assigned to symbols reached across the HTTP bridge. High but
// below 1.0: the bridge is strong evidence, not the entry point itself.
const (
	bridgeRelevance        = 0.9
	composableRefRelevance = 0.8
)

// CrossStackStrategy bridges frontend and backend symbols through the
// api_calls table. It runs every iteration: other strategies keep surfacing
// new callers and endpoints that unlock further bridges.
type CrossStackStrategy struct {
	graph GraphStore
}

// NewCrossStackStrategy returns the cross-stack bridging strategy.
func NewCrossStackStrategy(graph GraphStore) *CrossStackStrategy {
	return &CrossStackStrategy{graph: graph}
}

// Name implements Strategy.
func (s *CrossStackStrategy) Name() string { return "cross-stack" }

// Priority implements Strategy. Cross-stack runs before dependency traversal
// so bridge scores win ties on shared symbols.
func (s *CrossStackStrategy) Priority() int { return 5 }

// ShouldRun implements Strategy.
func (s *CrossStackStrategy) ShouldRun(dctx *Context) bool {
	return len(dctx.CurrentSymbols) > 0
}

// Reset implements Strategy. The strategy is stateless.
func (s *CrossStackStrategy) Reset() {}

// Discover implements Strategy.
func (s *CrossStackStrategy) Discover(ctx context.Context, dctx *Context) (map[int64]float64, error) {
	found := make(map[int64]float64)
	if len(dctx.CurrentSymbols) == 0 {
		return found, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	currentIDs := dctx.currentIDs()

	// Forward bridge: endpoints called from current frontend symbols.
	fromCalls, err := s.graph.APICallsFrom(currentIDs)
	if err != nil {
		return nil, fmt.Errorf("forward bridge: %w", err)
	}
	var callerIDs []int64
	for _, call := range fromCalls {
		if call.EndpointID != nil {
			addScore(found, *call.EndpointID, bridgeRelevance)
		}
		// The caller is already part of the feature; its owning container
		// still needs to surface.
		if call.CallerID != nil {
			callerIDs = append(callerIDs, *call.CallerID)
		}
	}

	// Backward bridge: frontend callers of current backend endpoints.
	toCalls, err := s.graph.APICallsTo(currentIDs)
	if err != nil {
		return nil, fmt.Errorf("backward bridge: %w", err)
	}
	for _, call := range toCalls {
		if call.CallerID != nil {
			addScore(found, *call.CallerID, bridgeRelevance)
			callerIDs = append(callerIDs, *call.CallerID)
		}
	}

	// Owning containers of the discovered frontend callers.
	if err := s.discoverCallerParents(callerIDs, found); err != nil {
		return nil, err
	}

	// Frontend expansion: who invoked the callers, and which components own
	// those inner functions.
	if err := s.expandFrontend(callerIDs, dctx, found); err != nil {
		return nil, err
	}

	// Composables pull in the components they reference and the components
	// that call them.
	if err := s.expandComposables(found); err != nil {
		return nil, err
	}

	return found, nil
}

// discoverCallerParents finds the store/component/composable containers that
// own frontend callers. True structural parents come via contains; Vue
// components reference their inline functions via calls, so component
// parents are looked up through calls edges as well.
func (s *CrossStackStrategy) discoverCallerParents(callerIDs []int64, found map[int64]float64) error {
	for _, callerID := range callerIDs {
		parents, err := s.graph.EdgesTo(callerID, []string{store.DepContains})
		if err != nil {
			return fmt.Errorf("caller parents: %w", err)
		}
		if err := s.addFrontendParents(parents, found, map[string]bool{
			store.EntStore:      true,
			store.EntComponent:  true,
			store.EntComposable: true,
		}); err != nil {
			return err
		}

		callParents, err := s.graph.EdgesTo(callerID, []string{store.DepCalls})
		if err != nil {
			return fmt.Errorf("caller call-parents: %w", err)
		}
		if err := s.addFrontendParents(callParents, found, map[string]bool{
			store.EntComponent: true,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *CrossStackStrategy) addFrontendParents(ids []int64, found map[int64]float64, wanted map[string]bool) error {
	if len(ids) == 0 {
		return nil
	}
	symbols, err := s.graph.GetSymbolsBatch(ids)
	if err != nil {
		return fmt.Errorf("resolve parents: %w", err)
	}
	for id, sym := range symbols {
		if wanted[sym.EntityType] {
			addScore(found, id, bridgeRelevance)
		}
	}
	return nil
}

// expandFrontend lifts frontend callers to the functions that invoke them and
// the components owning those functions. For backend entry points it also
// runs the two-hop transitive lift that resolves Vue inline-handler patterns:
// caller <-contains- wrapper(function|variable) <-calls- component.
func (s *CrossStackStrategy) expandFrontend(callerIDs []int64, dctx *Context, found map[int64]float64) error {
	for _, callerID := range callerIDs {
		inner, err := s.graph.EdgesTo(callerID, []string{store.DepCalls})
		if err != nil {
			return fmt.Errorf("frontend expansion: %w", err)
		}
		for _, fnID := range inner {
			if err := s.discoverCallerParents([]int64{fnID}, found); err != nil {
				return err
			}
		}
	}

	if !s.isBackendEntry(dctx.EntryPoint) {
		return nil
	}

	for _, callerID := range callerIDs {
		wrappers, err := s.graph.EdgesTo(callerID, []string{store.DepContains})
		if err != nil {
			return fmt.Errorf("transitive lift: %w", err)
		}
		if len(wrappers) == 0 {
			continue
		}
		wrapperSyms, err := s.graph.GetSymbolsBatch(wrappers)
		if err != nil {
			return fmt.Errorf("transitive lift: %w", err)
		}
		for id, wrapper := range wrapperSyms {
			if wrapper.SymbolType != store.SymFunction && wrapper.SymbolType != store.SymVariable {
				continue
			}
			callers, err := s.graph.EdgesTo(id, []string{store.DepCalls})
			if err != nil {
				return fmt.Errorf("transitive lift: %w", err)
			}
			if err := s.addFrontendParents(callers, found, map[string]bool{
				store.EntComponent: true,
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

// isBackendEntry reports whether the entry point lives in the backend: a
// controller/service/model entity, or a method contained in a controller or
// service.
func (s *CrossStackStrategy) isBackendEntry(entry *store.Symbol) bool {
	if entry == nil {
		return false
	}
	switch entry.EntityType {
	case store.EntController, store.EntService, store.EntModel:
		return true
	}
	if entry.SymbolType != store.SymMethod {
		return false
	}
	parents, err := s.graph.EdgesTo(entry.ID, []string{store.DepContains})
	if err != nil || len(parents) == 0 {
		return false
	}
	parent, err := s.graph.GetSymbol(parents[0])
	if err != nil || parent == nil {
		return false
	}
	return parent.EntityType == store.EntController || parent.EntityType == store.EntService
}

// expandComposables follows references out of newly discovered composables to
// the components they render into, and calls/references back in from
// components using them.
func (s *CrossStackStrategy) expandComposables(found map[int64]float64) error {
	var ids []int64
	for id := range found {
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil
	}

	symbols, err := s.graph.GetSymbolsBatch(ids)
	if err != nil {
		return fmt.Errorf("composable expansion: %w", err)
	}

	for id, sym := range symbols {
		if sym.EntityType != store.EntComposable {
			continue
		}

		outgoing, err := s.graph.EdgesFrom(id, []string{store.DepReferences, store.DepImports})
		if err != nil {
			return fmt.Errorf("composable references: %w", err)
		}
		if err := s.addComposableNeighbors(outgoing, found); err != nil {
			return err
		}

		incoming, err := s.graph.EdgesTo(id, []string{store.DepCalls, store.DepReferences})
		if err != nil {
			return fmt.Errorf("composable callers: %w", err)
		}
		if err := s.addComposableNeighbors(incoming, found); err != nil {
			return err
		}
	}
	return nil
}

func (s *CrossStackStrategy) addComposableNeighbors(ids []int64, found map[int64]float64) error {
	if len(ids) == 0 {
		return nil
	}
	symbols, err := s.graph.GetSymbolsBatch(ids)
	if err != nil {
		return fmt.Errorf("resolve composable neighbors: %w", err)
	}
	for id, sym := range symbols {
		if sym.EntityType == store.EntComponent {
			addScore(found, id, composableRefRelevance)
		}
	}
	return nil
}

// addScore records a score, keeping the higher one on repeat discovery
// within this strategy run. The engine applies first-write-wins across
// strategies.
func addScore(found map[int64]float64, id int64, score float64) {
	if existing, ok := found[id]; !ok || score > existing {
		found[id] = score
	}
}
