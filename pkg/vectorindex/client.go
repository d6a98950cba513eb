// Package vectorindex provides the nearest-neighbor search client. The
// index is an external service holding pre-computed passage embeddings;
// this package only issues queries against it. A search failure is
// surfaced to the caller untouched: the pipeline never retries and never
// degrades to graph-only context.
package vectorindex

import (
	"context"

	"github.com/sitesage/sitesage/pkg/types"
)

// Client issues nearest-neighbor searches. Results are ordered by
// descending similarity and may number fewer than k.
type Client interface {
	FindNeighbors(ctx context.Context, vector []float32, k int) ([]types.Neighbor, error)
}
