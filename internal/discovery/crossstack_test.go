package discovery

import (
	"context"
	"testing"

	"github.com/compasshq/fcx/internal/store"
)

func crossStackContext(g *fakeGraph, entryID int64, current map[int64]float64) *Context {
	entry := g.symbols[entryID]
	return &Context{
		EntryPointID:   entryID,
		EntryPoint:     entry,
		EntryLayer:     LayerMiddle,
		CurrentSymbols: current,
		Options:        DefaultOptions(),
	}
}

func TestCrossStackEmptyCurrentSymbols(t *testing.T) {
	g := newFakeGraph()
	s := NewCrossStackStrategy(g)

	dctx := &Context{CurrentSymbols: map[int64]float64{}, Options: DefaultOptions()}
	if s.ShouldRun(dctx) {
		t.Error("ShouldRun with empty current set = true, want false")
	}

	found, err := s.Discover(context.Background(), dctx)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(found) != 0 {
		t.Errorf("Discover on empty set = %v, want empty", found)
	}
}

func TestCrossStackForwardBridgeAndParents(t *testing.T) {
	g := newFakeGraph()
	g.addSymbol(10, "useUserStore", store.SymVariable, store.EntStore, 1)
	g.addSymbol(11, "fetchUsers", store.SymFunction, store.EntStore, 1)
	g.addEdge(10, 11, store.DepContains)
	g.addSymbol(21, "index", store.SymMethod, store.EntController, 2)
	g.addAPICall(11, 21)

	s := NewCrossStackStrategy(g)
	found, err := s.Discover(context.Background(), crossStackContext(g, 11, map[int64]float64{11: 1.0}))
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	if got := found[21]; got != 0.9 {
		t.Errorf("endpoint relevance = %v, want 0.9", got)
	}
	if got := found[10]; got != 0.9 {
		t.Errorf("owning store relevance = %v, want 0.9", got)
	}
}

func TestCrossStackBackwardBridgeSymmetry(t *testing.T) {
	g := newFakeGraph()
	g.addSymbol(11, "fetchUsers", store.SymFunction, "", 1)
	g.addSymbol(21, "index", store.SymMethod, store.EntController, 2)
	g.addAPICall(11, 21)

	s := NewCrossStackStrategy(g)

	// From the caller the bridge finds the endpoint...
	found, err := s.Discover(context.Background(), crossStackContext(g, 11, map[int64]float64{11: 1.0}))
	if err != nil {
		t.Fatalf("Discover from caller: %v", err)
	}
	if _, ok := found[21]; !ok {
		t.Error("caller entry should discover the endpoint")
	}

	// ...and from the endpoint it finds the caller.
	found, err = s.Discover(context.Background(), crossStackContext(g, 21, map[int64]float64{21: 1.0}))
	if err != nil {
		t.Fatalf("Discover from endpoint: %v", err)
	}
	if got := found[11]; got != 0.9 {
		t.Errorf("caller relevance = %v, want 0.9", got)
	}
}

func TestCrossStackComponentParentViaCalls(t *testing.T) {
	// Vue components reference their inline functions with calls, not
	// contains; the parent lookup must follow both.
	g := newFakeGraph()
	g.addSymbol(40, "PostList", store.SymClass, store.EntComponent, 1)
	g.addSymbol(41, "submit", store.SymFunction, "", 1)
	g.addEdge(40, 41, store.DepCalls)
	g.addSymbol(31, "store", store.SymMethod, store.EntController, 2)
	g.addAPICall(41, 31)

	s := NewCrossStackStrategy(g)
	found, err := s.Discover(context.Background(), crossStackContext(g, 31, map[int64]float64{31: 1.0}))
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	if got := found[41]; got != 0.9 {
		t.Errorf("caller relevance = %v, want 0.9", got)
	}
	if got := found[40]; got != 0.9 {
		t.Errorf("component relevance = %v, want 0.9", got)
	}
}

func TestCrossStackTransitiveComponentLift(t *testing.T) {
	// api_calls(caller = handleSubmit_inline, endpoint = PostController.store);
	// PostListComponent -calls-> handleSubmit -contains-> handleSubmit_inline.
	g := newFakeGraph()
	g.addSymbol(30, "PostController", store.SymClass, store.EntController, 2)
	g.addSymbol(31, "store", store.SymMethod, store.EntController, 2)
	g.addEdge(30, 31, store.DepContains)

	g.addSymbol(40, "PostListComponent", store.SymClass, store.EntComponent, 1)
	g.addSymbol(41, "handleSubmit", store.SymFunction, "", 1)
	g.addSymbol(42, "handleSubmit_inline", store.SymFunction, "", 1)
	g.addEdge(40, 41, store.DepCalls)
	g.addEdge(41, 42, store.DepContains)
	g.addAPICall(42, 31)

	s := NewCrossStackStrategy(g)
	found, err := s.Discover(context.Background(), crossStackContext(g, 31, map[int64]float64{31: 1.0}))
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	if got := found[40]; got != 0.9 {
		t.Errorf("lifted component relevance = %v, want 0.9", got)
	}
}

func TestCrossStackNoLiftForFrontendEntry(t *testing.T) {
	// The two-hop lift only runs for backend entry points.
	g := newFakeGraph()
	g.addSymbol(40, "PostListComponent", store.SymClass, store.EntComponent, 1)
	g.addSymbol(41, "handleSubmit", store.SymFunction, "", 1)
	g.addSymbol(42, "handleSubmit_inline", store.SymFunction, "", 1)
	g.addEdge(40, 41, store.DepCalls)
	g.addEdge(41, 42, store.DepContains)

	g.addSymbol(50, "other", store.SymFunction, "", 3)
	g.addSymbol(31, "store", store.SymMethod, store.EntController, 2)
	g.addAPICall(42, 31)

	s := NewCrossStackStrategy(g)
	found, err := s.Discover(context.Background(), crossStackContext(g, 50, map[int64]float64{50: 1.0, 31: 0.9}))
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	if _, ok := found[40]; ok {
		t.Error("frontend entry must not trigger the transitive component lift")
	}
}

func TestCrossStackComposableExpansion(t *testing.T) {
	g := newFakeGraph()
	g.addSymbol(60, "useUsers", store.SymFunction, store.EntComposable, 1)
	g.addSymbol(61, "UserPanel", store.SymClass, store.EntComponent, 2)
	g.addEdge(60, 61, store.DepReferences)
	g.addSymbol(62, "UserBadge", store.SymClass, store.EntComponent, 3)
	g.addEdge(62, 60, store.DepCalls)

	g.addSymbol(21, "index", store.SymMethod, store.EntController, 4)
	g.addAPICall(60, 21)

	s := NewCrossStackStrategy(g)
	found, err := s.Discover(context.Background(), crossStackContext(g, 21, map[int64]float64{21: 1.0}))
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	if got := found[61]; got != composableRefRelevance {
		t.Errorf("referenced component relevance = %v, want %v", got, composableRefRelevance)
	}
	// UserBadge is also a call-parent of the caller, so the stronger bridge
	// score wins over the composable-expansion score.
	if got := found[62]; got != bridgeRelevance {
		t.Errorf("calling component relevance = %v, want %v", got, bridgeRelevance)
	}
}

func TestCrossStackStoreFailure(t *testing.T) {
	g := newFakeGraph()
	g.addSymbol(1, "f", store.SymFunction, "", 1)
	g.failAll = true

	s := NewCrossStackStrategy(g)
	_, err := s.Discover(context.Background(), crossStackContext(g, 1, map[int64]float64{1: 1.0}))
	if err == nil {
		t.Fatal("Discover with failing store should return an error")
	}
}
