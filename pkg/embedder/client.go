// Package embedder provides the embedding encoder: free text in, fixed
// dimension vectors out. One client instance is loaded at process start
// and shared by the online query path and the offline indexer; the
// deployed vector index must have been built with the same model.
package embedder

import "context"

// Client is the embedding encoder interface. Implementations are safe
// for concurrent use.
type Client interface {
	// Embed generates embeddings for a batch of texts.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedSingle generates an embedding for a single text.
	EmbedSingle(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding dimensionality.
	Dimensions() int

	// Close cleans up any resources.
	Close() error
}

// Config holds embedding client configuration.
type Config struct {
	Model      string
	BaseURL    string
	Dimensions int
}
