package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sitesage/sitesage/pkg/extractor"
	"github.com/sitesage/sitesage/pkg/graph"
	"github.com/sitesage/sitesage/pkg/types"
)

// Populator walks scraped documents and writes their entities and
// relations into the relationship graph. Population is idempotent at
// document granularity: a document whose URL already appears as a
// provenance id is skipped wholesale.
type Populator struct {
	graph     graph.Driver
	extractor extractor.Client
	logger    *slog.Logger
}

// NewPopulator creates a Populator.
func NewPopulator(driver graph.Driver, ext extractor.Client, logger *slog.Logger) *Populator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Populator{graph: driver, extractor: ext, logger: logger}
}

// PopulateStats summarizes one population run.
type PopulateStats struct {
	Processed int
	Skipped   int
	Failed    int
}

// Populate ingests every document. Read-only-replica write rejections
// and extraction failures abort the affected document only; the batch
// continues. An idempotence check failure aborts the run, since skipping
// it could double-ingest everything.
func (p *Populator) Populate(ctx context.Context, docs []types.Document) (PopulateStats, error) {
	var stats PopulateStats

	for i, doc := range docs {
		sourceID := doc.URL
		if sourceID == "" {
			sourceID = fmt.Sprintf("doc_%d", i)
		}

		uploaded, err := p.graph.HasSource(ctx, sourceID)
		if err != nil {
			return stats, fmt.Errorf("check provenance of %s: %w", sourceID, err)
		}
		if uploaded {
			p.logger.Info("already ingested, skipping", "source", sourceID)
			stats.Skipped++
			continue
		}

		if err := p.ingestDocument(ctx, doc.Text, sourceID); err != nil {
			p.logger.Error("document ingestion failed", "source", sourceID, "error", err)
			stats.Failed++
			continue
		}
		stats.Processed++
	}

	p.logger.Info("population finished",
		"processed", stats.Processed, "skipped", stats.Skipped, "failed", stats.Failed)
	return stats, nil
}

// ingestDocument extracts and stores one document's entities and
// relations. A write rejected because the database is a read-only
// replica is logged and ends the document's writes without failing it.
func (p *Populator) ingestDocument(ctx context.Context, text, sourceID string) error {
	mentions, triples, err := p.extractor.Extract(ctx, text)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	for _, m := range mentions {
		if err := p.graph.UpsertEntity(ctx, m.Text, m.Label, sourceID); err != nil {
			if graph.IsReadOnlyError(err) {
				p.logger.Warn("skipped write: database is read-only", "source", sourceID)
				return nil
			}
			return fmt.Errorf("upsert entity %q: %w", m.Text, err)
		}
	}

	for _, t := range triples {
		if err := p.graph.UpsertRelation(ctx, t.Source, t.Target, t.Relation, sourceID); err != nil {
			if graph.IsReadOnlyError(err) {
				p.logger.Warn("skipped write: database is read-only", "source", sourceID)
				return nil
			}
			return fmt.Errorf("upsert relation %s: %w", t, err)
		}
	}

	p.logger.Debug("document ingested",
		"source", sourceID, "entities", len(mentions), "relations", len(triples))
	return nil
}
