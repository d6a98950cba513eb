package ingest

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/sitesage/sitesage/pkg/embedder"
	"github.com/sitesage/sitesage/pkg/types"
)

// snapshotLine is one JSONL record of the embedding snapshot. The same
// file feeds both the external index build and the passage store.
type snapshotLine struct {
	ID        string    `json:"id"`
	Embedding []float32 `json:"embedding"`
	Text      string    `json:"text"`
	Metadata  struct {
		SourceURL string `json:"source_url"`
	} `json:"metadata"`
}

// Indexer chunks scraped documents, embeds the chunks, and writes the
// JSONL embedding snapshot.
type Indexer struct {
	embedder embedder.Client
	logger   *slog.Logger
	maxWords int
}

// NewIndexer creates an Indexer using the given embedding client.
func NewIndexer(emb embedder.Client, logger *slog.Logger) *Indexer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Indexer{
		embedder: emb,
		logger:   logger,
		maxWords: DefaultChunkWords,
	}
}

// WriteSnapshot chunks and embeds every document and streams one JSONL
// record per chunk to w. Each chunk gets a fresh uuid and carries its
// document's URL as provenance.
func (ix *Indexer) WriteSnapshot(ctx context.Context, docs []types.Document, w io.Writer) (int, error) {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)

	written := 0
	for _, doc := range docs {
		chunks := ChunkText(doc.Text, ix.maxWords)
		if len(chunks) == 0 {
			continue
		}

		vectors, err := ix.embedder.Embed(ctx, chunks)
		if err != nil {
			return written, fmt.Errorf("embed chunks of %s: %w", doc.URL, err)
		}
		if len(vectors) != len(chunks) {
			return written, fmt.Errorf("embed chunks of %s: got %d vectors for %d chunks", doc.URL, len(vectors), len(chunks))
		}

		for i, chunk := range chunks {
			var line snapshotLine
			line.ID = uuid.New().String()
			line.Embedding = vectors[i]
			line.Text = chunk
			line.Metadata.SourceURL = doc.URL

			if err := enc.Encode(&line); err != nil {
				return written, fmt.Errorf("write snapshot record: %w", err)
			}
			written++
		}

		ix.logger.Debug("indexed document", "url", doc.URL, "chunks", len(chunks))
	}

	if err := bw.Flush(); err != nil {
		return written, fmt.Errorf("flush snapshot: %w", err)
	}

	ix.logger.Info("snapshot written", "documents", len(docs), "passages", written)
	return written, nil
}

// WriteSnapshotFile writes the snapshot to path, creating or truncating
// the file.
func (ix *Indexer) WriteSnapshotFile(ctx context.Context, docs []types.Document, path string) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create snapshot file: %w", err)
	}
	defer f.Close()

	written, err := ix.WriteSnapshot(ctx, docs, f)
	if err != nil {
		return written, err
	}
	return written, f.Close()
}
