package discovery

import (
	"context"
	"testing"

	"github.com/compasshq/fcx/internal/store"
)

func traversalContext(g *fakeGraph, entryID int64, maxDepth int) *Context {
	opts := DefaultOptions()
	if maxDepth > 0 {
		opts.MaxDepth = maxDepth
	}
	return &Context{
		EntryPointID:   entryID,
		EntryPoint:     g.symbols[entryID],
		EntryLayer:     LayerMiddle,
		CurrentSymbols: map[int64]float64{entryID: 1.0},
		Options:        opts,
	}
}

// modelBackwardGraph is the PostModel <- PostService.list <- PostController.index chain.
func modelBackwardGraph() *fakeGraph {
	g := newFakeGraph()
	g.addSymbol(1, "PostModel", store.SymClass, store.EntModel, 1)
	g.addSymbol(2, "save", store.SymMethod, store.EntModel, 1)
	g.addEdge(1, 2, store.DepContains)

	g.addSymbol(3, "PostService", store.SymClass, store.EntService, 2)
	g.addSymbol(4, "list", store.SymMethod, store.EntService, 2)
	g.addEdge(3, 4, store.DepContains)
	g.addEdge(4, 1, store.DepCalls)

	g.addSymbol(5, "PostController", store.SymClass, store.EntController, 3)
	g.addSymbol(6, "index", store.SymMethod, store.EntController, 3)
	g.addEdge(5, 6, store.DepContains)
	g.addEdge(6, 4, store.DepCalls)
	return g
}

func TestTraversalShouldRun(t *testing.T) {
	g := newFakeGraph()
	g.addSymbol(1, "f", store.SymFunction, "", 1)
	g.addSymbol(2, "UserList", store.SymClass, store.EntComponent, 2)
	s := NewDependencyTraversalStrategy(g)

	dctx := traversalContext(g, 1, 0)
	if !s.ShouldRun(dctx) {
		t.Error("should run on iteration 0 for a non-component entry")
	}

	dctx.Iteration = 1
	if s.ShouldRun(dctx) {
		t.Error("must not run past iteration 0")
	}

	comp := traversalContext(g, 2, 0)
	if s.ShouldRun(comp) {
		t.Error("must not run for component entry points")
	}
}

func TestTraversalBackwardCallerChain(t *testing.T) {
	g := modelBackwardGraph()
	s := NewDependencyTraversalStrategy(g)

	found, err := s.Discover(context.Background(), traversalContext(g, 1, 3))
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	want := map[int64]float64{
		4: 0.75, // PostService.list, reached backward from the model
		3: 0.5,  // PostService, recorded as the method's parent
		6: 0.5,  // PostController.index, next hop up the caller chain
		5: 0.25, // PostController
	}
	for id, score := range want {
		if got := found[id]; got != score {
			t.Errorf("symbol %d relevance = %v, want %v", id, got, score)
		}
	}
	if _, ok := found[2]; ok {
		t.Error("irrelevant model method save must not be discovered")
	}
}

func TestTraversalForwardFromControllerMethod(t *testing.T) {
	g := newFakeGraph()
	g.addSymbol(100, "UsersController", store.SymClass, store.EntController, 10)
	g.addSymbol(101, "index", store.SymMethod, store.EntController, 10)
	g.addEdge(100, 101, store.DepContains)

	g.addSymbol(102, "UsersService", store.SymClass, store.EntService, 11)
	g.addSymbol(103, "list", store.SymMethod, store.EntService, 11)
	g.addEdge(102, 103, store.DepContains)
	g.addEdge(101, 103, store.DepCalls)

	g.addSymbol(104, "UserModel", store.SymClass, store.EntModel, 12)
	g.addEdge(103, 104, store.DepCalls)
	g.addSymbol(105, "delete", store.SymMethod, store.EntModel, 12)
	g.addEdge(104, 105, store.DepContains)

	g.addSymbol(106, "IndexUsersRequest", store.SymClass, store.EntRequest, 13)
	g.addEdge(101, 106, store.DepReferences)

	s := NewDependencyTraversalStrategy(g)
	found, err := s.Discover(context.Background(), traversalContext(g, 101, 0))
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	for _, id := range []int64{101, 100, 103, 102, 104, 106} {
		if _, ok := found[id]; !ok {
			t.Errorf("symbol %d should be discovered", id)
		}
	}
	if _, ok := found[105]; ok {
		t.Error("model method delete must not be discovered")
	}
}

func TestTraversalRequestIsLeaf(t *testing.T) {
	g := newFakeGraph()
	g.addSymbol(1, "index", store.SymMethod, store.EntController, 1)
	g.addSymbol(2, "StoreUserRequest", store.SymClass, store.EntRequest, 2)
	g.addEdge(1, 2, store.DepReferences)
	// Something only reachable through the request.
	g.addSymbol(3, "helper", store.SymFunction, "", 3)
	g.addEdge(2, 3, store.DepCalls)

	s := NewDependencyTraversalStrategy(g)
	found, err := s.Discover(context.Background(), traversalContext(g, 1, 0))
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	if _, ok := found[2]; !ok {
		t.Error("request should be discovered")
	}
	if _, ok := found[3]; ok {
		t.Error("requests are leaves: nothing behind them is traversed")
	}
}

func TestTraversalSharedServicePollution(t *testing.T) {
	g := newFakeGraph()
	g.addSymbol(50, "InvoiceService", store.SymClass, store.EntService, 1)
	g.addSymbol(51, "generate", store.SymMethod, store.EntService, 1)
	g.addEdge(50, 51, store.DepContains)

	g.addSymbol(60, "BaseService", store.SymClass, store.EntService, 2)
	g.addSymbol(61, "log", store.SymMethod, store.EntService, 2)
	g.addEdge(60, 61, store.DepContains)
	g.addEdge(51, 61, store.DepCalls)

	// Twenty sibling services also call BaseService.log.
	for i := int64(0); i < 20; i++ {
		cls := 70 + i*2
		mth := 71 + i*2
		g.addSymbol(cls, "OtherService", store.SymClass, store.EntService, 10+i)
		g.addSymbol(mth, "work", store.SymMethod, store.EntService, 10+i)
		g.addEdge(cls, mth, store.DepContains)
		g.addEdge(mth, 61, store.DepCalls)
	}

	s := NewDependencyTraversalStrategy(g)
	found, err := s.Discover(context.Background(), traversalContext(g, 51, 0))
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	if _, ok := found[61]; !ok {
		t.Error("BaseService.log should be discovered")
	}
	for i := int64(0); i < 20; i++ {
		if _, ok := found[70+i*2]; ok {
			t.Errorf("sibling service %d leaked into the result", 70+i*2)
		}
		if _, ok := found[71+i*2]; ok {
			t.Errorf("sibling method %d leaked into the result", 71+i*2)
		}
	}
}

func TestTraversalContainsCycleTerminates(t *testing.T) {
	g := newFakeGraph()
	g.addSymbol(1, "A", store.SymClass, "", 1)
	g.addSymbol(2, "B", store.SymClass, "", 2)
	g.addEdge(1, 2, store.DepContains)
	g.addEdge(2, 1, store.DepContains)

	s := NewDependencyTraversalStrategy(g)
	found, err := s.Discover(context.Background(), traversalContext(g, 1, 0))
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	// Termination is the point; every id appears at most once by construction.
	for id := range found {
		if id != 1 && id != 2 {
			t.Errorf("unexpected symbol %d", id)
		}
	}
}

func TestTraversalMaxDepthZero(t *testing.T) {
	g := newFakeGraph()
	g.addSymbol(1, "f", store.SymFunction, "", 1)
	g.addSymbol(2, "g", store.SymFunction, "", 2)
	g.addEdge(1, 2, store.DepCalls)

	s := NewDependencyTraversalStrategy(g)
	dctx := traversalContext(g, 1, 0)
	dctx.Options.MaxDepth = 0

	found, err := s.Discover(context.Background(), dctx)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("found %v, want only the entry point", found)
	}
	if _, ok := found[1]; !ok {
		t.Error("entry point missing from result")
	}
}

func TestTraversalStoreFailure(t *testing.T) {
	g := newFakeGraph()
	g.addSymbol(1, "f", store.SymFunction, "", 1)
	g.failAll = true

	s := NewDependencyTraversalStrategy(g)
	_, err := s.Discover(context.Background(), traversalContext(g, 1, 0))
	if err == nil {
		t.Fatal("Discover with failing store should return an error")
	}
}

func TestTraversalCancellation(t *testing.T) {
	g := modelBackwardGraph()
	s := NewDependencyTraversalStrategy(g)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Discover(ctx, traversalContext(g, 1, 3))
	if err == nil {
		t.Fatal("Discover with canceled context should return an error")
	}
}
