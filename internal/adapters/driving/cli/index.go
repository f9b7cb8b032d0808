package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felt-labs/tellscan-cli/internal/adapters/driven/records"
)

var indexCmd = &cobra.Command{
	Use:   "index [records-dir]",
	Short: "Index a directory of game records",
	Long: `Loads every per-game JSON document in the directory, embeds the
action, chat and summary texts, and upserts them into the index.
Re-indexing the same records is idempotent.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}

	loader := records.NewLoader(args[0])
	docs, err := loader.LoadDocuments()
	if err != nil {
		return fmt.Errorf("loading records: %w", err)
	}
	if len(docs) == 0 {
		cmd.Println("No documents found.")
		return nil
	}

	indexed, err := indexService.Reindex(cmd.Context(), docs)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	cmd.Printf("Indexed %d of %d documents.\n", indexed, len(docs))
	return nil
}
