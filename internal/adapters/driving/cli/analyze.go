package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felt-labs/tellscan-cli/internal/core/domain"
)

var analyzeJSON bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze [participant-id]",
	Short: "Analyze a participant's behavioral style",
	Long: `Retrieves trait evidence and statistics for a participant and
synthesizes a narrative personality analysis.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output result as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}

	result, err := profileService.Analyze(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}

	if analyzeJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printAnalysis(cmd, result)
	return nil
}

func printAnalysis(cmd *cobra.Command, result domain.AnalysisResult) {
	cmd.Printf("Participant %s\n\n", result.ParticipantID)

	if result.Error != "" {
		cmd.Printf("Note: %s\n\n", result.Error)
	}

	printStatistics(cmd, result.Statistics)

	if len(result.TraitEvidence) > 0 {
		traits := make([]string, 0, len(result.TraitEvidence))
		for trait := range result.TraitEvidence {
			traits = append(traits, trait)
		}
		sort.Strings(traits)

		cmd.Println("Trait evidence:")
		for _, trait := range traits {
			evidence := result.TraitEvidence[trait]
			cmd.Printf("  %s (%d actions, %d messages)\n",
				strings.ReplaceAll(trait, "_", " "), len(evidence.Actions), len(evidence.Chat))
		}
		cmd.Println()
	}

	if result.Narrative != "" {
		cmd.Println("Analysis:")
		cmd.Println(result.Narrative)
	}
}
