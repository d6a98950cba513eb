// Package passage holds the passage store: an id → text mapping built
// once from the offline embedding snapshot and read for the life of the
// process. The vector index and this store are built from the same
// corpus, so an id returned by the index that is absent here is a data
// consistency bug, never a condition to paper over.
package passage

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrNotFound is returned when a passage id is absent from the store.
var ErrNotFound = errors.New("passage not found")

// snapshotRecord is one line of the offline embedding snapshot. The
// embedding itself is only consumed by the index build and is ignored
// here.
type snapshotRecord struct {
	ID        string    `json:"id"`
	Embedding []float32 `json:"embedding"`
	Text      string    `json:"text"`
	Metadata  struct {
		SourceURL string `json:"source_url"`
	} `json:"metadata"`
}

// Store maps passage ids to their text plus provenance URL. It is
// immutable after loading and safe for concurrent reads.
type Store struct {
	texts map[string]string
}

// LoadSnapshot reads a JSONL snapshot file into a new Store.
func LoadSnapshot(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	return ReadSnapshot(f)
}

// ReadSnapshot parses a JSONL snapshot. Each passage is stored as
// "text + space + source URL" so provenance travels with the text into
// the grounding context.
func ReadSnapshot(r io.Reader) (*Store, error) {
	texts := make(map[string]string)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var record snapshotRecord
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, fmt.Errorf("snapshot line %d: %w", line, err)
		}
		if record.ID == "" {
			return nil, fmt.Errorf("snapshot line %d: missing id", line)
		}
		texts[record.ID] = Render(record.Text, record.Metadata.SourceURL)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	return &Store{texts: texts}, nil
}

// Render joins passage text with its provenance URL.
func Render(text, sourceURL string) string {
	if sourceURL == "" {
		return text
	}
	return text + " " + sourceURL
}

// Get resolves a passage id. A missing id wraps ErrNotFound.
func (s *Store) Get(id string) (string, error) {
	text, ok := s.texts[id]
	if !ok {
		return "", fmt.Errorf("passage %q: %w", id, ErrNotFound)
	}
	return text, nil
}

// Len returns the number of stored passages.
func (s *Store) Len() int {
	return len(s.texts)
}
