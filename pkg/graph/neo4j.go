package graph

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/sitesage/sitesage/pkg/types"
)

// readOnlyErrorToken appears in the error code Neo4j reports when a write
// is attempted against a read-only replica.
const readOnlyErrorToken = "WriteOnReadOnlyAccessDatabase"

// Neo4jDriver implements Driver against a Neo4j database. One driver
// instance holds one long-lived connection pool and is safe for
// concurrent use; sessions are opened per call.
type Neo4jDriver struct {
	client   neo4j.DriverWithContext
	database string
}

// NewNeo4jDriver connects to Neo4j with basic auth and verifies the
// connection before returning.
func NewNeo4jDriver(ctx context.Context, uri, username, password, database string) (*Neo4jDriver, error) {
	client, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	if err := client.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to neo4j: %w", err)
	}

	if database == "" {
		database = "neo4j"
	}

	return &Neo4jDriver{
		client:   client,
		database: database,
	}, nil
}

// UpsertEntity merges the entity node by name. A missing type is filled
// in, so an endpoint created bare by UpsertRelation picks up its type on
// the first typed observation; an already-set type is never overwritten.
// The source id is appended only when not already present, keeping the
// merge idempotent.
func (d *Neo4jDriver) UpsertEntity(ctx context.Context, name, entityType, sourceID string) error {
	session := d.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: d.database})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MERGE (n:Entity {name: $name})
			SET n.type = CASE WHEN coalesce(n.type, '') = '' THEN $type ELSE n.type END
			WITH n
			WHERE NOT $source_id IN coalesce(n.sources, [])
			SET n.sources = coalesce(n.sources, []) + $source_id
		`
		_, err := tx.Run(ctx, query, map[string]any{
			"name":      name,
			"type":      entityType,
			"source_id": sourceID,
		})
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("upsert entity %q: %w", name, err)
	}
	return nil
}

// UpsertRelation merges both endpoint nodes and the typed edge between
// them. Distinct predicates between the same endpoints are distinct edges.
func (d *Neo4jDriver) UpsertRelation(ctx context.Context, from, to, predicate, sourceID string) error {
	session := d.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: d.database})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MERGE (a:Entity {name: $from})
			MERGE (b:Entity {name: $to})
			MERGE (a)-[rel:RELATION {type: $predicate}]->(b)
			WITH rel
			WHERE NOT $source_id IN coalesce(rel.sources, [])
			SET rel.sources = coalesce(rel.sources, []) + $source_id
		`
		_, err := tx.Run(ctx, query, map[string]any{
			"from":      from,
			"to":        to,
			"predicate": predicate,
			"source_id": sourceID,
		})
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("upsert relation %q-[%s]->%q: %w", from, predicate, to, err)
	}
	return nil
}

// OneHopOut returns every outgoing edge from the named entity.
func (d *Neo4jDriver) OneHopOut(ctx context.Context, name string) ([]types.Triple, error) {
	session := d.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: d.database})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (a:Entity {name: $name})-[r:RELATION]->(b)
			RETURN a.name AS source, r.type AS relation, b.name AS target
		`
		res, err := tx.Run(ctx, query, map[string]any{"name": name})
		if err != nil {
			return nil, err
		}

		var triples []types.Triple
		for res.Next(ctx) {
			record := res.Record()
			source, _ := record.Get("source")
			relation, _ := record.Get("relation")
			target, _ := record.Get("target")
			triples = append(triples, types.Triple{
				Source:   asString(source),
				Relation: asString(relation),
				Target:   asString(target),
			})
		}
		return triples, res.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("one-hop query for %q: %w", name, err)
	}
	return result.([]types.Triple), nil
}

// Entity reads back the named entity node, or nil if absent.
func (d *Neo4jDriver) Entity(ctx context.Context, name string) (*types.Entity, error) {
	session := d.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: d.database})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (n:Entity {name: $name})
			RETURN n.name AS name, n.type AS type, n.sources AS sources
		`
		res, err := tx.Run(ctx, query, map[string]any{"name": name})
		if err != nil {
			return nil, err
		}
		if !res.Next(ctx) {
			return (*types.Entity)(nil), res.Err()
		}
		record := res.Record()
		entityName, _ := record.Get("name")
		entityType, _ := record.Get("type")
		sources, _ := record.Get("sources")
		return &types.Entity{
			Name:    asString(entityName),
			Type:    asString(entityType),
			Sources: asStringSlice(sources),
		}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("entity lookup for %q: %w", name, err)
	}
	entity, _ := result.(*types.Entity)
	return entity, nil
}

// HasSource reports whether any entity's provenance set contains sourceID.
func (d *Neo4jDriver) HasSource(ctx context.Context, sourceID string) (bool, error) {
	session := d.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: d.database})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (e:Entity) WHERE $source_id IN e.sources
			RETURN COUNT(e) > 0 AS exists
		`
		res, err := tx.Run(ctx, query, map[string]any{"source_id": sourceID})
		if err != nil {
			return false, err
		}

		record, err := res.Single(ctx)
		if err != nil {
			return false, err
		}
		exists, _ := record.Get("exists")
		val, ok := exists.(bool)
		return ok && val, nil
	})
	if err != nil {
		return false, fmt.Errorf("source lookup for %q: %w", sourceID, err)
	}
	return result.(bool), nil
}

// Close shuts down the connection pool.
func (d *Neo4jDriver) Close(ctx context.Context) error {
	return d.client.Close(ctx)
}

// IsReadOnlyError reports whether err is the store's rejection of a write
// against a read-only replica. The offline populator downgrades these to
// a logged skip; everything else stays fatal for the record.
func IsReadOnlyError(err error) bool {
	if err == nil {
		return false
	}

	var neo4jErr *neo4j.Neo4jError
	if errors.As(err, &neo4jErr) {
		return strings.Contains(neo4jErr.Code, readOnlyErrorToken)
	}
	return strings.Contains(err.Error(), readOnlyErrorToken)
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, asString(item))
	}
	return out
}
