package extractor

import (
	"context"
	"fmt"
	"sync"

	"github.com/sitesage/sitesage/pkg/types"
	"github.com/soundprediction/go-gline-rs/pkg/gline"
)

// GlinerClient extracts entities with a local GLiNER span model. It has
// no dependency parse, so it yields no relation triples; use the service
// backend when mining relations.
type GlinerClient struct {
	model  *gline.Model
	labels []string
	mu     sync.Mutex
}

// NewGlinerClient loads a GLiNER span model from a Hugging Face model id.
func NewGlinerClient(modelID string, labels []string) (*GlinerClient, error) {
	if err := gline.Init(); err != nil {
		return nil, fmt.Errorf("failed to init gline: %w", err)
	}
	if len(labels) == 0 {
		labels = DefaultLabels
	}

	model, err := gline.NewSpanModelFromHF(modelID)
	if err != nil {
		return nil, fmt.Errorf("failed to load gliner model %q: %w", modelID, err)
	}

	return &GlinerClient{
		model:  model,
		labels: labels,
	}, nil
}

// Extract returns entity mentions; the triple slice is always nil.
func (c *GlinerClient) Extract(ctx context.Context, text string) ([]types.Mention, []types.Triple, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	results, err := c.model.Predict([]string{text}, c.labels)
	if err != nil {
		return nil, nil, fmt.Errorf("gliner predict failed: %w", err)
	}
	if len(results) == 0 {
		return nil, nil, nil
	}

	mentions := make([]types.Mention, 0, len(results[0]))
	for _, e := range results[0] {
		mentions = append(mentions, types.Mention{Text: e.Text, Label: e.Label})
	}
	return mentions, nil, nil
}

// Close releases the model.
func (c *GlinerClient) Close() error {
	if c.model != nil {
		c.model.Close()
	}
	return nil
}
