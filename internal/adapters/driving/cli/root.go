// Package cli implements the lawdecodes command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/VivekMaurya83/LawDecodes/internal/logger"
)

// version is set at build time via -ldflags.
var version = "0.1.0-dev"

var (
	verbose      bool
	homeOverride string
)

var rootCmd = &cobra.Command{
	Use:   "lawdecodes",
	Short: "Grounded Q&A over legal documents",
	Long: `LawDecodes answers questions about ingested legal documents.
Retrieval combines keyword (BM25) and semantic (vector) search, answers
are generated by an LLM, and every quoted claim is validated against the
source text so hallucinated citations never reach the user.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&homeOverride, "home", "", "override the ~/.lawdecodes directory")
}
