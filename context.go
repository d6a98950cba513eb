package sitesage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sitesage/sitesage/pkg/extractor"
	"github.com/sitesage/sitesage/pkg/passage"
	"github.com/sitesage/sitesage/pkg/types"
)

// BuildContext runs the retrieval half of the pipeline for one query:
// embed, nearest-neighbor search, passage resolution, entity extraction,
// and one-hop graph expansion, merged into a grounding context. It is
// read-only and performs no retries; the first stage failure is the
// invocation's terminal error.
func (c *Client) BuildContext(ctx context.Context, query string) (*types.GroundingContext, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	vector, err := c.embedder.EmbedSingle(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	neighbors, err := c.index.FindNeighbors(ctx, vector, c.config.NeighborCount)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	// Resolve in retrieval rank order. The index and the store come from
	// the same snapshot: an unknown id fails the query. Other store
	// failures (a broken Badger read, say) keep their own identity.
	passages := make([]string, 0, len(neighbors))
	for _, n := range neighbors {
		text, err := c.passages.Get(n.ID)
		if err != nil {
			if errors.Is(err, passage.ErrNotFound) {
				return nil, fmt.Errorf("resolve passage %q: %w", n.ID, ErrPassageMissing)
			}
			return nil, fmt.Errorf("resolve passage %q: %w", n.ID, err)
		}
		passages = append(passages, text)
	}

	entities, err := c.extractEntities(ctx, passages)
	if err != nil {
		return nil, err
	}

	triples, err := c.expandEntities(ctx, entities)
	if err != nil {
		return nil, err
	}

	relations := make([]string, 0, len(triples))
	for _, t := range triples {
		relations = append(relations, t.String())
	}

	return &types.GroundingContext{
		Passages:  strings.Join(passages, "\n"),
		Relations: strings.Join(relations, "\n"),
	}, nil
}

// extractEntities runs the extractor over each passage and dedupes the
// mentions by exact surface form, preserving first-seen order.
func (c *Client) extractEntities(ctx context.Context, passages []string) ([]string, error) {
	var all []types.Mention
	for i, text := range passages {
		mentions, _, err := c.extractor.Extract(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("extract entities from passage %d: %w", i, err)
		}
		all = append(all, mentions...)
	}

	unique := extractor.DedupeMentions(all)
	names := make([]string, 0, len(unique))
	for _, m := range unique {
		names = append(names, m.Text)
	}
	return names, nil
}

// expandEntities fans out one-hop graph lookups, one goroutine per
// entity bounded by a semaphore, and joins before merging. Results keep
// entity order, then the order edges were returned in. Any lookup
// failure fails the whole expansion.
func (c *Client) expandEntities(ctx context.Context, entities []string) ([]types.Triple, error) {
	if len(entities) == 0 {
		return nil, nil
	}

	type expansion struct {
		triples []types.Triple
		err     error
	}

	// Results land in the slot for their entity so merge order follows
	// entity order regardless of goroutine completion order.
	sem := make(chan struct{}, c.config.MaxConcurrentExpansions)
	results := make([]expansion, len(entities))

	var wg sync.WaitGroup
	for i, name := range entities {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			triples, err := c.graph.OneHopOut(ctx, name)
			if err != nil {
				err = fmt.Errorf("expand entity %q: %w", name, err)
			}
			results[i] = expansion{triples: triples, err: err}
		}(i, name)
	}
	wg.Wait()

	var merged []types.Triple
	for _, r := range results {
		if r.err != nil {
			return nil, r.err
		}
		merged = append(merged, r.triples...)
	}
	return merged, nil
}
