// Package extractor provides entity and relation extraction over free
// text. The online pipeline only consumes entity mentions; relation
// triples feed the offline graph population.
//
// Backends: an HTTP tagger sidecar (the default, which also supplies the
// dependency parses the relation heuristic needs), a local GLiNER span
// model, a local rust-bert NER model, and an LLM-backed extractor. The
// last three surface entities only.
package extractor

import (
	"context"
	"fmt"

	"github.com/sitesage/sitesage/pkg/nlp"
	"github.com/sitesage/sitesage/pkg/types"
)

// Client extracts entity mentions and (subject, predicate, object)
// triples from text. Extract is pure with respect to its inputs;
// implementations are safe for concurrent use.
type Client interface {
	Extract(ctx context.Context, text string) ([]types.Mention, []types.Triple, error)
	Close() error
}

// Config selects and configures an extraction backend.
type Config struct {
	Backend  string // service, gliner, rustbert, llm
	Endpoint string // tagger sidecar URL (service backend)
	Model    string // model id for local backends
	Labels   []string
}

// DefaultLabels are the entity labels requested from span-based backends.
var DefaultLabels = []string{"ORG", "PERSON", "PRODUCT", "GPE", "DATE", "MONEY"}

// New builds the configured extraction backend. The generation client is
// only consulted by the llm backend and may be nil otherwise.
func New(cfg Config, gen nlp.Client) (Client, error) {
	switch cfg.Backend {
	case "", "service":
		return NewServiceClient(cfg.Endpoint), nil
	case "gliner":
		return NewGlinerClient(cfg.Model, cfg.Labels)
	case "rustbert":
		return NewRustBertClient(cfg.Model), nil
	case "llm":
		if gen == nil {
			return nil, fmt.Errorf("llm extractor requires a generation client")
		}
		return NewLLMExtractor(gen), nil
	default:
		return nil, fmt.Errorf("unknown extractor backend: %s", cfg.Backend)
	}
}
