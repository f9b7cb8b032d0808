package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/felt-labs/tellscan-cli/internal/adapters/driven/records"
	"github.com/felt-labs/tellscan-cli/internal/logger"
)

// watchSettle is how long a file must stay quiet before it is indexed,
// so half-written records are not picked up mid-write.
const watchSettle = 500 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [records-dir]",
	Short: "Watch a directory and index new game records as they appear",
	Long: `Performs an initial index of the directory, then watches it for new
or rewritten JSON files and indexes them incrementally. Upserts are
idempotent, so rewriting a record replaces its prior documents.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}

	dir := args[0]

	if err := runIndex(cmd, args); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	cmd.Printf("Watching %s for new game records. Ctrl-C to stop.\n", dir)

	// Writes arrive in bursts; track the latest event per path and index
	// once the file has settled.
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(watchSettle)
	defer ticker.Stop()

	ctx := cmd.Context()
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, ".json") {
				continue
			}
			if event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write) {
				pending[event.Name] = time.Now()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)

		case now := <-ticker.C:
			for path, last := range pending {
				if now.Sub(last) < watchSettle {
					continue
				}
				delete(pending, path)

				record, err := records.LoadFile(path)
				if err != nil {
					logger.Warn("skipping %s: %v", path, err)
					continue
				}
				docs := records.Documents(record)
				indexed, err := indexService.Reindex(ctx, docs)
				if err != nil {
					logger.Warn("indexing %s: %v", path, err)
					continue
				}
				cmd.Printf("Indexed %d documents from %s\n", indexed, path)
			}
		}
	}
}
