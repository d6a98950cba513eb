package embedder

import (
	"context"
	"fmt"

	"github.com/soundprediction/go-embedeverything/pkg/embedder"
)

// DefaultLocalModel matches the model the offline indexer embeds with;
// its 384-dimension vectors are what the deployed index expects.
const (
	DefaultLocalModel      = "all-MiniLM-L6-v2"
	DefaultLocalDimensions = 384
)

// LocalClient runs a sentence-transformer model in process. The model is
// loaded once and reused for every query.
type LocalClient struct {
	model      *embedder.Embedder
	modelName  string
	dimensions int
}

// NewLocalClient loads the configured local embedding model.
func NewLocalClient(config Config) (*LocalClient, error) {
	modelName := config.Model
	if modelName == "" {
		modelName = DefaultLocalModel
	}
	dimensions := config.Dimensions
	if dimensions == 0 {
		dimensions = DefaultLocalDimensions
	}

	model, err := embedder.NewEmbedder(modelName)
	if err != nil {
		return nil, fmt.Errorf("failed to load embedding model %q: %w", modelName, err)
	}

	return &LocalClient{
		model:      model,
		modelName:  modelName,
		dimensions: dimensions,
	}, nil
}

// Embed encodes texts in one batch. The underlying library takes no
// context; cancellation does not interrupt an in-flight batch.
func (c *LocalClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors, err := c.model.Embed(texts)
	if err != nil {
		return nil, fmt.Errorf("embed with %s: %w", c.modelName, err)
	}
	return vectors, nil
}

// EmbedSingle encodes one text.
func (c *LocalClient) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("expected one embedding, got %d", len(vectors))
	}
	return vectors[0], nil
}

// Dimensions returns the embedding dimensionality.
func (c *LocalClient) Dimensions() int {
	return c.dimensions
}

// Close releases the model.
func (c *LocalClient) Close() error {
	c.model.Close()
	return nil
}
