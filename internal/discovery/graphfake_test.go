package discovery

import (
	"errors"

	"github.com/compasshq/fcx/internal/store"
)

// fakeGraph is an in-memory GraphStore for tests.
type fakeGraph struct {
	symbols    map[int64]*store.Symbol
	edges      []fakeEdge
	apiCalls   []store.ApiCall
	frameworks map[int64][]string
	failAll    bool
}

type fakeEdge struct {
	from, to int64
	depType  string
}

var errFakeStore = errors.New("store unavailable")

func newFakeGraph() *fakeGraph {
	return &fakeGraph{
		symbols:    make(map[int64]*store.Symbol),
		frameworks: make(map[int64][]string),
	}
}

func (g *fakeGraph) addSymbol(id int64, name, symbolType, entityType string, fileID int64) *store.Symbol {
	sym := &store.Symbol{ID: id, Name: name, SymbolType: symbolType, EntityType: entityType, FileID: fileID}
	g.symbols[id] = sym
	return sym
}

func (g *fakeGraph) addEdge(from, to int64, depType string) {
	g.edges = append(g.edges, fakeEdge{from: from, to: to, depType: depType})
}

func (g *fakeGraph) addAPICall(caller, endpoint int64) {
	g.apiCalls = append(g.apiCalls, store.ApiCall{CallerID: &caller, EndpointID: &endpoint})
}

func (g *fakeGraph) GetSymbol(id int64) (*store.Symbol, error) {
	if g.failAll {
		return nil, errFakeStore
	}
	return g.symbols[id], nil
}

func (g *fakeGraph) GetSymbolsBatch(ids []int64) (map[int64]*store.Symbol, error) {
	if g.failAll {
		return nil, errFakeStore
	}
	out := make(map[int64]*store.Symbol)
	for _, id := range ids {
		if sym, ok := g.symbols[id]; ok {
			out[id] = sym
		}
	}
	return out, nil
}

func (g *fakeGraph) EdgesFrom(id int64, depTypes []string) ([]int64, error) {
	if g.failAll {
		return nil, errFakeStore
	}
	var out []int64
	for _, e := range g.edges {
		if e.from == id && containsString(depTypes, e.depType) {
			out = append(out, e.to)
		}
	}
	return out, nil
}

func (g *fakeGraph) EdgesTo(id int64, depTypes []string) ([]int64, error) {
	if g.failAll {
		return nil, errFakeStore
	}
	var out []int64
	for _, e := range g.edges {
		if e.to == id && containsString(depTypes, e.depType) {
			out = append(out, e.from)
		}
	}
	return out, nil
}

func (g *fakeGraph) APICallsFrom(ids []int64) ([]store.ApiCall, error) {
	if g.failAll {
		return nil, errFakeStore
	}
	var out []store.ApiCall
	for _, call := range g.apiCalls {
		if call.CallerID != nil && containsID(ids, *call.CallerID) {
			out = append(out, call)
		}
	}
	return out, nil
}

func (g *fakeGraph) APICallsTo(ids []int64) ([]store.ApiCall, error) {
	if g.failAll {
		return nil, errFakeStore
	}
	var out []store.ApiCall
	for _, call := range g.apiCalls {
		if call.EndpointID != nil && containsID(ids, *call.EndpointID) {
			out = append(out, call)
		}
	}
	return out, nil
}

func (g *fakeGraph) ChildrenOf(id int64, symbolTypes []string) ([]int64, error) {
	if g.failAll {
		return nil, errFakeStore
	}
	var out []int64
	for _, e := range g.edges {
		if e.from == id && e.depType == store.DepContains {
			if child, ok := g.symbols[e.to]; ok && containsString(symbolTypes, child.SymbolType) {
				out = append(out, e.to)
			}
		}
	}
	return out, nil
}

func (g *fakeGraph) FindMethodsReferencing(containerID, sourceID int64) ([]int64, error) {
	if g.failAll {
		return nil, errFakeStore
	}
	var out []int64
	for _, e := range g.edges {
		if e.from != containerID || e.depType != store.DepContains {
			continue
		}
		member, ok := g.symbols[e.to]
		if !ok || (member.SymbolType != store.SymMethod && member.SymbolType != store.SymFunction) {
			continue
		}
		for _, r := range g.edges {
			if r.from == e.to && r.to == sourceID &&
				(r.depType == store.DepCalls || r.depType == store.DepReferences || r.depType == store.DepImports) {
				out = append(out, e.to)
				break
			}
		}
	}
	return out, nil
}

func (g *fakeGraph) RepositoryFrameworks(repoID int64) ([]string, error) {
	if g.failAll {
		return nil, errFakeStore
	}
	return g.frameworks[repoID], nil
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func containsID(haystack []int64, needle int64) bool {
	for _, id := range haystack {
		if id == needle {
			return true
		}
	}
	return false
}
