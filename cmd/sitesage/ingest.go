package sitesage

import (
	"context"
	"fmt"

	"github.com/sitesage/sitesage/pkg/config"
	"github.com/sitesage/sitesage/pkg/extractor"
	"github.com/sitesage/sitesage/pkg/ingest"
	"github.com/sitesage/sitesage/pkg/nlp"
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <scraped-data-dir>",
	Short: "Populate the relationship graph from scraped page data",
	Long: `Walk a directory of scraped page batches (*.json), extract entities and
relations from each page, and upsert them into the relationship graph.

Documents whose URL already appears in the graph's provenance are
skipped, so re-running ingestion is safe.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().String("graph-driver", "", "Graph driver (neo4j, memory)")
	ingestCmd.Flags().String("extractor-backend", "", "Extractor backend (service, gliner, rustbert, llm)")
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("graph-driver") {
		cfg.Graph.Driver, _ = cmd.Flags().GetString("graph-driver")
	}
	if cmd.Flags().Changed("extractor-backend") {
		cfg.Extractor.Backend, _ = cmd.Flags().GetString("extractor-backend")
	}

	log := newLogger(cfg)
	ctx := context.Background()

	docs, err := ingest.LoadScrapedDir(args[0])
	if err != nil {
		return err
	}
	log.Info("loaded scraped data", "documents", len(docs))

	driver, err := newGraphDriver(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize graph driver: %w", err)
	}
	defer driver.Close(ctx)

	// Only the llm backend needs a generation client.
	var gen nlp.Client
	if cfg.Extractor.Backend == "llm" {
		gen, err = newGenerationClient(cfg)
		if err != nil {
			return fmt.Errorf("initialize generation client: %w", err)
		}
		defer gen.Close()
	}

	ext, err := extractor.New(extractor.Config{
		Backend:  cfg.Extractor.Backend,
		Endpoint: cfg.Extractor.Endpoint,
		Model:    cfg.Extractor.Model,
		Labels:   cfg.Extractor.Labels,
	}, gen)
	if err != nil {
		return fmt.Errorf("initialize extractor: %w", err)
	}
	defer ext.Close()

	stats, err := ingest.NewPopulator(driver, ext, log).Populate(ctx, docs)
	if err != nil {
		return err
	}
	if stats.Failed > 0 {
		return fmt.Errorf("%d of %d documents failed", stats.Failed, len(docs))
	}
	return nil
}
