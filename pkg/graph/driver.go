// Package graph provides the relationship graph store: typed access to a
// property graph of Entity nodes connected by RELATION edges. Writes are
// upsert-by-merge keyed on the entity's surface form, so repeated
// observations of the same name always land on one node.
package graph

import (
	"context"

	"github.com/sitesage/sitesage/pkg/types"
)

// Driver is the access layer over a property-graph backing store. The
// online pipeline only reads (OneHopOut); the offline populator writes.
type Driver interface {
	// UpsertEntity creates the entity if absent. If present, sourceID is
	// unioned into its provenance set and an already-set type is left
	// unchanged. Safe to call concurrently for the same name; calling it
	// twice with the same sourceID is a no-op beyond the first call.
	UpsertEntity(ctx context.Context, name, entityType, sourceID string) error

	// UpsertRelation creates both endpoints if absent (bare, untyped),
	// creates the edge keyed by (from, to, predicate) if absent, and
	// unions sourceID into the edge's provenance set.
	UpsertRelation(ctx context.Context, from, to, predicate, sourceID string) error

	// OneHopOut returns all outgoing edges from the named entity as
	// (source, relation, target) triples. The match is exact and
	// case-sensitive. A missing entity yields an empty slice, not an error.
	OneHopOut(ctx context.Context, name string) ([]types.Triple, error)

	// HasSource reports whether any entity carries the given provenance
	// id. The offline populator uses it to skip already-ingested documents.
	HasSource(ctx context.Context, sourceID string) (bool, error)

	// Close releases the underlying connection.
	Close(ctx context.Context) error
}
