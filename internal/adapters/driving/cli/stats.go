package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/VivekMaurya83/LawDecodes/internal/adapters/driven/config/file"
	"github.com/VivekMaurya83/LawDecodes/internal/adapters/driven/storage/sqlite"
	"github.com/VivekMaurya83/LawDecodes/internal/logger"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show corpus and cache statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	cfg, err := file.NewConfigStore(configDir())
	if err != nil {
		return err
	}
	settings := file.LoadAppSettings(cfg)

	dir := cfg.GetString(keyCorpusDir)
	if dir == "" {
		cmd.Println("No corpus ingested yet.")
		return nil
	}

	cmd.Printf("Corpus directory: %s\n", dir)

	docs, err := readDocuments(dir)
	if err != nil {
		cmd.Printf("Corpus unreadable: %v\n", err)
	} else {
		chunks, err := chunkDocuments(context.Background(), settings.Chunking, docs)
		if err != nil {
			return err
		}
		cmd.Printf("Documents: %d\n", len(docs))
		cmd.Printf("Chunks: %d (size %d, overlap %d)\n",
			len(chunks), settings.Chunking.ChunkSize, settings.Chunking.ChunkOverlap)
	}

	if settings.Embedding.IsConfigured() {
		cmd.Printf("Embedding model: %s (%d dims)\n",
			settings.Embedding.Model, settings.Embedding.Dimensions)
		printCacheStats(cmd)
	} else {
		cmd.Println("Embedding model: not configured")
	}

	if settings.LLM.IsConfigured() {
		cmd.Printf("LLM model: %s\n", settings.LLM.Model)
	} else {
		cmd.Println("LLM model: not configured")
	}

	return nil
}

func printCacheStats(cmd *cobra.Command) {
	dir, err := dataDir()
	if err != nil {
		return
	}

	store, err := sqlite.NewStore(dir)
	if err != nil {
		logger.Debug("Cache store unavailable: %v", err)
		return
	}
	defer store.Close()

	if n, err := store.EmbeddingCache().Len(context.Background()); err == nil {
		cmd.Printf("Cached embeddings: %d\n", n)
	}
}
