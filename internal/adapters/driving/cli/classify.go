package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var classifyJSON bool

var classifyCmd = &cobra.Command{
	Use:   "classify [participant-id]",
	Short: "Rank archetypes by similarity to a participant",
	Long: `Aggregates one embedding over all of the participant's actions and
chat messages, then ranks the archetype catalogue by cosine similarity.`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "output result as JSON")
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}

	result, err := profileService.Classify(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("classify failed: %w", err)
	}

	if classifyJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if result.Error != "" {
		cmd.Printf("Participant %s: %s\n", result.ParticipantID, result.Error)
		return nil
	}

	cmd.Printf("Participant %s\n\n", result.ParticipantID)
	cmd.Printf("Best match: %s (%.2f)\n\n", result.BestMatch, result.BestMatchScore)
	cmd.Println("All archetypes:")
	for _, score := range result.Rankings {
		cmd.Printf("  %-18s %.2f\n", score.Name, score.Similarity)
	}
	return nil
}
