// Package telemetry records per-query pipeline traces to Parquet files
// for offline analysis. Recording is best-effort: a telemetry failure
// never fails the query that produced it.
package telemetry

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"
)

// QueryRecord is one answered query with retrieval and generation stats.
type QueryRecord struct {
	ID            string    `parquet:"id"`
	Timestamp     time.Time `parquet:"timestamp"`
	Query         string    `parquet:"query"`
	NeighborCount int       `parquet:"neighbor_count"`
	PassageCount  int       `parquet:"passage_count"`
	EntityCount   int       `parquet:"entity_count"`
	RelationCount int       `parquet:"relation_count"`
	Model         string    `parquet:"model"`
	TotalTokens   int       `parquet:"total_tokens"`
	LatencyMillis int64     `parquet:"latency_millis"`
	Error         string    `parquet:"error"`
}

// Recorder buffers query records and writes them out in Parquet batches.
// A nil *Recorder is a valid no-op recorder.
type Recorder struct {
	outputDir string
	batchSize int
	logger    *slog.Logger

	mu     sync.Mutex
	buffer []QueryRecord
}

// NewRecorder creates a Recorder writing batches under outputDir.
func NewRecorder(outputDir string, logger *slog.Logger) (*Recorder, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create telemetry directory: %w", err)
	}
	return &Recorder{
		outputDir: outputDir,
		batchSize: 100,
		logger:    logger,
		buffer:    make([]QueryRecord, 0, 100),
	}, nil
}

// Record buffers one query record, assigning an id and timestamp if the
// caller left them empty. The buffer is flushed once it reaches the
// batch size.
func (r *Recorder) Record(rec QueryRecord) {
	if r == nil {
		return
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.buffer = append(r.buffer, rec)
	if len(r.buffer) >= r.batchSize {
		r.flushLocked()
	}
}

// Flush writes any buffered records immediately.
func (r *Recorder) Flush() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flushLocked()
}

// Close flushes the remaining buffer.
func (r *Recorder) Close() error {
	r.Flush()
	return nil
}

// flushLocked writes the buffer to a fresh Parquet file. Caller holds
// the lock.
func (r *Recorder) flushLocked() {
	if len(r.buffer) == 0 {
		return
	}

	name := fmt.Sprintf("queries_%s_%d.parquet", time.Now().Format("20060102_150405"), time.Now().UnixNano())
	path := filepath.Join(r.outputDir, name)

	if err := parquet.WriteFile(path, r.buffer); err != nil {
		if r.logger != nil {
			r.logger.Warn("failed to write telemetry batch", "path", path, "error", err)
		}
		return
	}

	r.buffer = r.buffer[:0]
}
