// Package semfilter implements the optional embedding-based post-filter for
// discovery results. It drops symbols whose names are semantically unrelated
// to the feature; relevance scores are never changed.
package semfilter

import (
	"context"
	"fmt"
	"math"

	"github.com/compasshq/fcx/internal/discovery"
	"github.com/compasshq/fcx/internal/embeddings"
)

// DefaultThreshold is the similarity floor below which symbols are dropped.
const DefaultThreshold = 0.35

// Filter is an embedding-backed discovery.PostFilter.
type Filter struct {
	graph     discovery.GraphStore
	embedder  embeddings.Embedder
	threshold float64
}

// New returns a semantic filter using the given embedder. A threshold of 0
// selects DefaultThreshold.
func New(graph discovery.GraphStore, embedder embeddings.Embedder, threshold float64) *Filter {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Filter{graph: graph, embedder: embedder, threshold: threshold}
}

// Name implements discovery.PostFilter.
func (f *Filter) Name() string { return "semantic" }

// Filter implements discovery.PostFilter. Symbols whose name embedding falls
// below the similarity threshold against the feature name are removed.
func (f *Filter) Filter(ctx context.Context, feature string, symbols map[int64]float64) (map[int64]float64, error) {
	if feature == "" || len(symbols) == 0 {
		return symbols, nil
	}

	featureVec, err := f.embedder.Embed(ctx, feature)
	if err != nil {
		return nil, fmt.Errorf("embed feature: %w", err)
	}

	ids := make([]int64, 0, len(symbols))
	for id := range symbols {
		ids = append(ids, id)
	}
	syms, err := f.graph.GetSymbolsBatch(ids)
	if err != nil {
		return nil, fmt.Errorf("resolve symbols: %w", err)
	}

	names := make([]string, 0, len(ids))
	nameIDs := make([]int64, 0, len(ids))
	for _, id := range ids {
		if sym := syms[id]; sym != nil {
			names = append(names, sym.Name)
			nameIDs = append(nameIDs, id)
		}
	}

	vecs, err := f.embedder.EmbedBatch(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("embed symbol names: %w", err)
	}
	if len(vecs) != len(names) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d names", len(vecs), len(names))
	}

	out := make(map[int64]float64, len(symbols))
	for id, score := range symbols {
		out[id] = score
	}
	for i, id := range nameIDs {
		if CosineSimilarity(featureVec, vecs[i]) < f.threshold {
			delete(out, id)
		}
	}
	return out, nil
}

// CosineSimilarity returns the cosine of the angle between two vectors, or 0
// when either has no magnitude.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
