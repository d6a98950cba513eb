package sitesage

import (
	"context"
	"fmt"
	"strings"

	"github.com/sitesage/sitesage/pkg/config"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a single question from the terminal",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

var askShowContext bool

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().BoolVar(&askShowContext, "show-context", false, "Print the grounding context before the answer")
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := newLogger(cfg)
	ctx := context.Background()

	client, closeStore, err := buildPipeline(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()
	defer client.Close(ctx)

	query := strings.Join(args, " ")

	if askShowContext {
		gc, err := client.BuildContext(ctx, query)
		if err != nil {
			return err
		}
		fmt.Println("### Information:")
		fmt.Println(gc.Passages)
		fmt.Println("### Related Entity-Relationships:")
		fmt.Println(gc.Relations)
		fmt.Println()
	}

	answer, err := client.Answer(ctx, query)
	if err != nil {
		return err
	}
	fmt.Println(answer)
	return nil
}
