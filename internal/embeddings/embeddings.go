// Package embeddings provides text embeddings for the optional semantic
// post-filter. The default implementation talks to a local Ollama instance;
// discovery itself never depends on this package.
package embeddings

import "context"

// Embedder generates vector embeddings from text.
type Embedder interface {
	// Embed generates an embedding vector for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// ModelVersion returns the model identifier.
	ModelVersion() string

	// Close releases resources held by the embedder.
	Close() error
}
