package graph

import (
	"context"
	"sync"

	"github.com/sitesage/sitesage/pkg/types"
)

// MemoryDriver is an in-process Driver backed by an adjacency map keyed
// by entity name. It backs tests and the dependency-free local mode, and
// implements the same merge semantics as the Neo4j driver: merges are
// keyed purely by name, never by object identity.
type MemoryDriver struct {
	mu       sync.RWMutex
	entities map[string]*types.Entity
	// edges indexed by source name; each edge is unique per
	// (source, target, predicate).
	edges map[string][]*memoryEdge
}

type memoryEdge struct {
	target    string
	predicate string
	sources   []string
}

// NewMemoryDriver creates an empty in-memory graph store.
func NewMemoryDriver() *MemoryDriver {
	return &MemoryDriver{
		entities: make(map[string]*types.Entity),
		edges:    make(map[string][]*memoryEdge),
	}
}

// UpsertEntity merges by name: provenance is unioned and an already-set
// type is never overwritten.
func (d *MemoryDriver) UpsertEntity(ctx context.Context, name, entityType, sourceID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.upsertEntityLocked(name, entityType, sourceID)
	return nil
}

func (d *MemoryDriver) upsertEntityLocked(name, entityType, sourceID string) {
	entity, ok := d.entities[name]
	if !ok {
		entity = &types.Entity{Name: name}
		d.entities[name] = entity
	}
	if entity.Type == "" {
		entity.Type = entityType
	}
	entity.Sources = appendUnique(entity.Sources, sourceID)
}

// UpsertRelation creates bare endpoints as needed and merges the edge
// keyed by (from, to, predicate).
func (d *MemoryDriver) UpsertRelation(ctx context.Context, from, to, predicate, sourceID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	// Endpoints are created bare: relation provenance lives on the edge.
	d.upsertEntityLocked(from, "", "")
	d.upsertEntityLocked(to, "", "")

	for _, edge := range d.edges[from] {
		if edge.target == to && edge.predicate == predicate {
			edge.sources = appendUnique(edge.sources, sourceID)
			return nil
		}
	}

	d.edges[from] = append(d.edges[from], &memoryEdge{
		target:    to,
		predicate: predicate,
		sources:   appendUnique(nil, sourceID),
	})
	return nil
}

// OneHopOut returns outgoing edges in insertion order; a missing entity
// yields an empty result.
func (d *MemoryDriver) OneHopOut(ctx context.Context, name string) ([]types.Triple, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	edges := d.edges[name]
	triples := make([]types.Triple, 0, len(edges))
	for _, edge := range edges {
		triples = append(triples, types.Triple{
			Source:   name,
			Relation: edge.predicate,
			Target:   edge.target,
		})
	}
	return triples, nil
}

// HasSource reports whether any entity carries the provenance id.
func (d *MemoryDriver) HasSource(ctx context.Context, sourceID string) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, entity := range d.entities {
		for _, s := range entity.Sources {
			if s == sourceID {
				return true, nil
			}
		}
	}
	return false, nil
}

// Entity returns a copy of the named entity, or nil if absent. Test helper.
func (d *MemoryDriver) Entity(name string) *types.Entity {
	d.mu.RLock()
	defer d.mu.RUnlock()

	entity, ok := d.entities[name]
	if !ok {
		return nil
	}
	copied := *entity
	copied.Sources = append([]string(nil), entity.Sources...)
	return &copied
}

// EntityCount returns the number of distinct entities.
func (d *MemoryDriver) EntityCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entities)
}

// EdgeSources returns the provenance set for the (from, to, predicate)
// edge, or nil if the edge does not exist. Test helper.
func (d *MemoryDriver) EdgeSources(from, to, predicate string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, edge := range d.edges[from] {
		if edge.target == to && edge.predicate == predicate {
			return append([]string(nil), edge.sources...)
		}
	}
	return nil
}

// Close is a no-op for the in-memory store.
func (d *MemoryDriver) Close(ctx context.Context) error {
	return nil
}

func appendUnique(set []string, value string) []string {
	if value == "" {
		return set
	}
	for _, s := range set {
		if s == value {
			return set
		}
	}
	return append(set, value)
}
