package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/felt-labs/tellscan-cli/internal/core/domain"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats [participant-id]",
	Short: "Show a participant's action and sentiment distributions",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output result as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}

	stats, err := profileService.Stats(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("stats failed: %w", err)
	}

	if statsJSON {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Participant %s\n\n", args[0])
	printStatistics(cmd, stats)
	return nil
}

// printStatistics renders the distributions in a fixed order. Shared with
// the analyze command.
func printStatistics(cmd *cobra.Command, stats domain.Statistics) {
	cmd.Printf("Total actions: %d\n", stats.TotalActions)
	for _, action := range sortedStatKeys(stats.ActionPercentages) {
		cmd.Printf("  %-10s %3d  (%.1f%%)\n", action, stats.ActionCounts[action], stats.ActionPercentages[action])
	}

	cmd.Printf("Total chat messages: %d\n", stats.TotalMessages)
	for _, sentiment := range sortedStatKeys(stats.SentimentPercentages) {
		cmd.Printf("  %-10s %3d  (%.1f%%)\n", sentiment, stats.SentimentCounts[sentiment], stats.SentimentPercentages[sentiment])
	}
	cmd.Println()
}

func sortedStatKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
