// Package ingest holds the offline side of the system: loading scraped
// page batches, normalizing and chunking their text, building the
// embedding snapshot the vector index is built from, and populating the
// relationship graph. Nothing here runs on the query path.
package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sitesage/sitesage/pkg/types"
)

// LoadScrapedDir reads every *.json file in dir, each holding an array
// of scraped page records, and concatenates them in directory order.
func LoadScrapedDir(dir string) ([]types.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read scraped data directory: %w", err)
	}

	var docs []types.Document
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		var batch []types.Document
		if err := json.Unmarshal(raw, &batch); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		docs = append(docs, batch...)
	}
	return docs, nil
}
