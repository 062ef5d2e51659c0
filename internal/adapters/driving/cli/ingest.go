package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [directory]",
	Short: "Ingest legal documents from a directory",
	Long: `Reads every .txt file under the directory, splits the text into
overlapping chunks and builds the retrieval indices. The directory is
remembered so ask, chat and stats operate on it afterwards.

With an API key configured the chunks are embedded (cached, so repeat
ingests of unchanged text cost nothing) and the vector index snapshot is
persisted; without one the corpus is indexed for keyword search only.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	eng, err := newEngine(ctx)
	if err != nil {
		return err
	}
	defer eng.Close()

	docs, chunks, err := eng.ingest(ctx, args[0])
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Ingested %d documents (%d chunks).\n", docs, chunks)
	if eng.embedder == nil {
		cmd.Println("Semantic retrieval is disabled; set GEMINI_API_KEY to enable it.")
	}
	return nil
}
