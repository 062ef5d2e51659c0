package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VivekMaurya83/LawDecodes/internal/core/ports/driving"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question against the ingested documents",
	Long: `Retrieves the most relevant passages, generates an answer and
validates every quoted claim against the source text. The answer is
printed with its citations and a confidence score.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.close()

	answer, err := sess.chat.Ask(ctx, args[0])
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return outputAnswerJSON(cmd, answer)
	}
	return outputAnswer(cmd, answer)
}

func outputAnswerJSON(cmd *cobra.Command, answer *driving.Answer) error {
	data, err := json.MarshalIndent(answer, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAnswer(cmd *cobra.Command, answer *driving.Answer) error {
	cmd.Println(answer.Text)

	if len(answer.Citations) > 0 {
		cmd.Println()
		cmd.Printf("Citations (%d validated, confidence %.2f):\n",
			answer.CitationCount, answer.Confidence)
		for i, c := range answer.Citations {
			cmd.Printf("  [%d] %s (chunk %d, %s %.2f)\n",
				i+1, c.Document, c.Position+1, c.Match, c.Similarity)
			cmd.Printf("      %q\n", c.Quote)
		}
	}

	if len(answer.Retrieved) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for _, r := range answer.Retrieved {
			cmd.Printf("  - %s (chunk %d/%d) [%s]\n",
				r.Chunk.Document, r.Chunk.Position+1, r.Chunk.TotalChunks, r.Provenance)
		}
	}

	return nil
}
