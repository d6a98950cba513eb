package sitesage

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sitesage/sitesage/pkg/embedder"
	"github.com/sitesage/sitesage/pkg/extractor"
	"github.com/sitesage/sitesage/pkg/graph"
	"github.com/sitesage/sitesage/pkg/nlp"
	"github.com/sitesage/sitesage/pkg/vectorindex"
)

var (
	// ErrEmptyQuery is returned when a query is blank or whitespace. The
	// pipeline rejects it before any external call is made.
	ErrEmptyQuery = errors.New("query is empty")

	// ErrPassageMissing is returned when the vector index names a passage
	// id the passage store does not hold. The index and store are built
	// from the same snapshot, so this is a data consistency failure and
	// the invocation fails closed.
	ErrPassageMissing = errors.New("passage missing from store")
)

// PassageStore resolves passage ids to their stored text. Both the
// in-memory snapshot store and the Badger-backed store satisfy it. Get
// returns an error wrapping passage.ErrNotFound for an unknown id;
// any other error is an infrastructure failure.
type PassageStore interface {
	Get(id string) (string, error)
}

// Config holds the tunables of the query pipeline.
type Config struct {
	// NeighborCount is k for the nearest-neighbor search. Defaults to 10.
	NeighborCount int
	// MaxConcurrentExpansions bounds the goroutines fanned out for
	// per-entity graph expansion. Defaults to 8.
	MaxConcurrentExpansions int
}

// Client runs the hybrid retrieval pipeline: vector search over passage
// embeddings joined with one-hop expansion of the relationship graph,
// feeding a grounded generation call.
type Client struct {
	embedder  embedder.Client
	extractor extractor.Client
	index     vectorindex.Client
	passages  PassageStore
	graph     graph.Driver
	gen       nlp.Client
	config    *Config
	logger    *slog.Logger
}

// NewClient assembles a pipeline client from its collaborators. All
// handles are constructed by the caller and shared for the process
// lifetime.
func NewClient(
	emb embedder.Client,
	ext extractor.Client,
	index vectorindex.Client,
	passages PassageStore,
	graphDriver graph.Driver,
	gen nlp.Client,
	config *Config,
	logger *slog.Logger,
) (*Client, error) {
	if emb == nil || ext == nil || index == nil || passages == nil || graphDriver == nil {
		return nil, errors.New("all pipeline collaborators are required")
	}
	if config == nil {
		config = &Config{}
	}
	if config.NeighborCount <= 0 {
		config.NeighborCount = 10
	}
	if config.MaxConcurrentExpansions <= 0 {
		config.MaxConcurrentExpansions = 8
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		embedder:  emb,
		extractor: ext,
		index:     index,
		passages:  passages,
		graph:     graphDriver,
		gen:       gen,
		config:    config,
		logger:    logger,
	}, nil
}

// Close releases the clients that hold external resources.
func (c *Client) Close(ctx context.Context) error {
	var errs []error
	if err := c.graph.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := c.embedder.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := c.extractor.Close(); err != nil {
		errs = append(errs, err)
	}
	if c.gen != nil {
		if err := c.gen.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
