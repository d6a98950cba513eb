package sitesage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	sitesage "github.com/sitesage/sitesage"
	"github.com/sitesage/sitesage/pkg/config"
	"github.com/sitesage/sitesage/pkg/embedder"
	"github.com/sitesage/sitesage/pkg/extractor"
	"github.com/sitesage/sitesage/pkg/graph"
	"github.com/sitesage/sitesage/pkg/logger"
	"github.com/sitesage/sitesage/pkg/nlp"
	"github.com/sitesage/sitesage/pkg/passage"
	"github.com/sitesage/sitesage/pkg/vectorindex"
)

func newLogger(cfg *config.Config) *slog.Logger {
	return logger.New(logger.ParseLevel(cfg.Log.Level), cfg.Log.Format)
}

func newGraphDriver(ctx context.Context, cfg *config.Config) (graph.Driver, error) {
	switch cfg.Graph.Driver {
	case "", "memory":
		return graph.NewMemoryDriver(), nil
	case "neo4j":
		if cfg.Graph.URI == "" {
			return nil, fmt.Errorf("graph.uri is required for the neo4j driver")
		}
		return graph.NewNeo4jDriver(ctx, cfg.Graph.URI, cfg.Graph.Username, cfg.Graph.Password, cfg.Graph.Database)
	default:
		return nil, fmt.Errorf("unsupported graph driver: %s", cfg.Graph.Driver)
	}
}

func newEmbedder(cfg *config.Config) (embedder.Client, error) {
	embCfg := embedder.Config{
		Model:      cfg.Embedding.Model,
		BaseURL:    cfg.Embedding.BaseURL,
		Dimensions: cfg.Embedding.Dimensions,
	}
	switch cfg.Embedding.Provider {
	case "", "local":
		return embedder.NewLocalClient(embCfg)
	case "openai":
		if cfg.Embedding.APIKey == "" {
			return nil, fmt.Errorf("embedding.api_key is required for the openai provider")
		}
		return embedder.NewOpenAIEmbedder(cfg.Embedding.APIKey, embCfg), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Embedding.Provider)
	}
}

func newGenerationClient(cfg *config.Config) (nlp.Client, error) {
	gen, err := nlp.New(cfg.Generation.Provider, nlp.Config{
		Model:       cfg.Generation.Model,
		APIKey:      cfg.Generation.APIKey,
		BaseURL:     cfg.Generation.BaseURL,
		Temperature: cfg.Generation.Temperature,
		MaxTokens:   cfg.Generation.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	if cfg.CircuitBreaker.Enabled {
		gen = nlp.NewBreakerClient(gen, "generation", nlp.BreakerSettings{
			MaxRequests:      cfg.CircuitBreaker.MaxRequests,
			Interval:         time.Duration(cfg.CircuitBreaker.Interval) * time.Second,
			Timeout:          time.Duration(cfg.CircuitBreaker.Timeout) * time.Second,
			ReadyToTripRatio: cfg.CircuitBreaker.ReadyToTripRatio,
		})
	}
	return gen, nil
}

func newVectorIndex(cfg *config.Config) vectorindex.Client {
	var client vectorindex.Client = vectorindex.NewVertexClient(vectorindex.VertexConfig{
		Endpoint:        cfg.Index.Endpoint,
		IndexEndpointID: cfg.Index.IndexEndpointID,
		DeployedIndexID: cfg.Index.DeployedIndexID,
		AccessToken:     cfg.Index.AccessToken,
	})

	if cfg.CircuitBreaker.Enabled {
		client = vectorindex.NewBreakerClient(client, "vector-index", vectorindex.BreakerSettings{
			MaxRequests:      cfg.CircuitBreaker.MaxRequests,
			Interval:         time.Duration(cfg.CircuitBreaker.Interval) * time.Second,
			Timeout:          time.Duration(cfg.CircuitBreaker.Timeout) * time.Second,
			ReadyToTripRatio: cfg.CircuitBreaker.ReadyToTripRatio,
		})
	}
	return client
}

func newPassageStore(cfg *config.Config) (sitesage.PassageStore, func() error, error) {
	if cfg.Snapshot.BadgerDir != "" {
		store, err := passage.OpenBadger(cfg.Snapshot.BadgerDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open badger store: %w", err)
		}
		return store, store.Close, nil
	}

	store, err := passage.LoadSnapshot(cfg.Snapshot.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("load snapshot: %w", err)
	}
	return store, func() error { return nil }, nil
}

// buildPipeline wires every collaborator of the query pipeline from
// configuration. The returned cleanup closes what Client.Close does not
// own (the passage store handle).
func buildPipeline(ctx context.Context, cfg *config.Config, log *slog.Logger) (*sitesage.Client, func() error, error) {
	graphDriver, err := newGraphDriver(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize graph driver: %w", err)
	}

	emb, err := newEmbedder(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize embedder: %w", err)
	}

	gen, err := newGenerationClient(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize generation client: %w", err)
	}

	ext, err := extractor.New(extractor.Config{
		Backend:  cfg.Extractor.Backend,
		Endpoint: cfg.Extractor.Endpoint,
		Model:    cfg.Extractor.Model,
		Labels:   cfg.Extractor.Labels,
	}, gen)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize extractor: %w", err)
	}

	store, closeStore, err := newPassageStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	client, err := sitesage.NewClient(emb, ext, newVectorIndex(cfg), store, graphDriver, gen,
		&sitesage.Config{NeighborCount: cfg.Index.NeighborCount}, log)
	if err != nil {
		closeStore()
		return nil, nil, err
	}

	log.Info("pipeline initialized",
		"graph", cfg.Graph.Driver,
		"embedding", cfg.Embedding.Provider,
		"extractor", cfg.Extractor.Backend,
		"generation", cfg.Generation.Provider)
	return client, closeStore, nil
}
