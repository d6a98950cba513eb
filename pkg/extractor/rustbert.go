package extractor

import (
	"context"
	"fmt"
	"sync"

	"github.com/sitesage/sitesage/pkg/types"
	"github.com/soundprediction/go-rust-bert/pkg/rustbert"
)

// RustBertClient extracts entities with a local rust-bert NER model.
// Like the GLiNER backend it surfaces no relation triples.
type RustBertClient struct {
	modelID string
	model   *rustbert.NERModel
	mu      sync.Mutex
}

// NewRustBertClient creates a rust-bert NER backend. The model is loaded
// lazily on first use so startup stays cheap when another backend is
// selected at runtime.
func NewRustBertClient(modelID string) *RustBertClient {
	return &RustBertClient{modelID: modelID}
}

func (c *RustBertClient) loadLocked() error {
	if c.model != nil {
		return nil
	}

	if c.modelID != "" {
		modelPath, configPath, vocabPath, mergesPath, err := rustbert.DownloadArtifacts(c.modelID, "")
		if err != nil {
			return fmt.Errorf("failed to download artifacts for %s: %w", c.modelID, err)
		}
		m, err := rustbert.NewNERModelFromFiles(modelPath, configPath, vocabPath, mergesPath, rustbert.ModelTypeBert)
		if err != nil {
			return fmt.Errorf("failed to create NER model: %w", err)
		}
		c.model = m
		return nil
	}

	m, err := rustbert.NewNERModel()
	if err != nil {
		return fmt.Errorf("failed to create NER model: %w", err)
	}
	c.model = m
	return nil
}

// Extract returns entity mentions; the triple slice is always nil.
func (c *RustBertClient) Extract(ctx context.Context, text string) ([]types.Mention, []types.Triple, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.loadLocked(); err != nil {
		return nil, nil, err
	}

	results, err := c.model.Predict(text)
	if err != nil {
		return nil, nil, fmt.Errorf("rustbert predict failed: %w", err)
	}

	mentions := make([]types.Mention, 0, len(results))
	for _, r := range results {
		mentions = append(mentions, types.Mention{Text: r.Word, Label: r.Label})
	}
	return mentions, nil, nil
}

// Close releases the model.
func (c *RustBertClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.model != nil {
		c.model.Close()
		c.model = nil
	}
	return nil
}
