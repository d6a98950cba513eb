package sitesage

import (
	"context"
	"fmt"

	"github.com/sitesage/sitesage/pkg/config"
	"github.com/sitesage/sitesage/pkg/ingest"
	"github.com/sitesage/sitesage/pkg/passage"
	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index <scraped-data-dir>",
	Short: "Build the embedding snapshot from scraped page data",
	Long: `Chunk and embed every scraped page and write the JSONL embedding
snapshot. The snapshot feeds both the external vector index build and
the passage store the server loads at boot.

With --badger-dir set, a persistent Badger copy of the passage store is
built from the snapshot as well.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)

	indexCmd.Flags().String("out", "", "Snapshot output path (default from config)")
	indexCmd.Flags().String("badger-dir", "", "Also build a Badger passage store in this directory")
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("out") {
		cfg.Snapshot.Path, _ = cmd.Flags().GetString("out")
	}

	log := newLogger(cfg)
	ctx := context.Background()

	docs, err := ingest.LoadScrapedDir(args[0])
	if err != nil {
		return err
	}
	log.Info("loaded scraped data", "documents", len(docs))

	emb, err := newEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("initialize embedder: %w", err)
	}
	defer emb.Close()

	written, err := ingest.NewIndexer(emb, log).WriteSnapshotFile(ctx, docs, cfg.Snapshot.Path)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %d passages to %s\n", written, cfg.Snapshot.Path)

	if badgerDir, _ := cmd.Flags().GetString("badger-dir"); badgerDir != "" {
		if err := passage.BuildBadger(cfg.Snapshot.Path, badgerDir); err != nil {
			return fmt.Errorf("build badger store: %w", err)
		}
		fmt.Printf("Built Badger passage store in %s\n", badgerDir)
	}
	return nil
}
