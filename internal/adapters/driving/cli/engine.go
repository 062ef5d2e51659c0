package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/VivekMaurya83/LawDecodes/internal/adapters/driven/config/file"
	"github.com/VivekMaurya83/LawDecodes/internal/adapters/driven/embedding/cached"
	embgemini "github.com/VivekMaurya83/LawDecodes/internal/adapters/driven/embedding/gemini"
	llmgemini "github.com/VivekMaurya83/LawDecodes/internal/adapters/driven/llm/gemini"
	"github.com/VivekMaurya83/LawDecodes/internal/adapters/driven/storage/sqlite"
	"github.com/VivekMaurya83/LawDecodes/internal/core/domain"
	"github.com/VivekMaurya83/LawDecodes/internal/core/ports/driven"
	"github.com/VivekMaurya83/LawDecodes/internal/core/ports/driving"
	"github.com/VivekMaurya83/LawDecodes/internal/core/services"
	"github.com/VivekMaurya83/LawDecodes/internal/index/lexical"
	"github.com/VivekMaurya83/LawDecodes/internal/index/vector"
	"github.com/VivekMaurya83/LawDecodes/internal/logger"
	"github.com/VivekMaurya83/LawDecodes/internal/postprocessors"
)

// keyCorpusDir is the config key remembering the last ingested directory.
const keyCorpusDir = "ingest.directory"

// snapshotFile is the vector index snapshot name under the data directory.
const snapshotFile = "index.ldvx"

// Test seams. When set, commands use these instead of wiring a real engine.
var (
	chatService   driving.ChatService
	memoryService driving.ConversationMemory
)

// engine bundles the wired services behind the CLI commands.
// AI providers are optional: without an API key the engine runs
// lexical-only retrieval and ask/chat are unavailable.
type engine struct {
	settings  domain.AppSettings
	config    *file.ConfigStore
	prompts   *file.PromptStore
	store     *sqlite.Store
	embedder  driven.EmbeddingService
	llm       driven.LLMService
	retrieval *services.RetrievalService
	memory    driving.ConversationMemory
	chat      driving.ChatService
}

// newEngine wires the full service stack from config and environment.
func newEngine(ctx context.Context) (*engine, error) {
	cfg, err := file.NewConfigStore(configDir())
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}

	settings := file.LoadAppSettings(cfg)
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	prompts, err := file.NewPromptStore(promptsDir())
	if err != nil {
		return nil, fmt.Errorf("open prompt store: %w", err)
	}

	e := &engine{
		settings: settings,
		config:   cfg,
		prompts:  prompts,
	}

	var vectorIdx driven.VectorIndex
	if settings.Embedding.IsConfigured() {
		dir, err := dataDir()
		if err != nil {
			return nil, err
		}

		store, err := sqlite.NewStore(dir)
		if err != nil {
			logger.Warn("Embedding cache store unavailable: %v", err)
		} else {
			e.store = store
		}
		var cacheStore driven.EmbeddingCacheStore
		if e.store != nil {
			cacheStore = e.store.EmbeddingCache()
		}

		base, err := embgemini.NewEmbeddingService(ctx, embgemini.Config{
			APIKey:     settings.Embedding.APIKey,
			Model:      settings.Embedding.Model,
			Dimensions: settings.Embedding.Dimensions,
		})
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("embedding service: %w", err)
		}
		e.embedder, err = cached.NewEmbeddingService(base, cacheStore, 0)
		if err != nil {
			base.Close()
			e.Close()
			return nil, fmt.Errorf("embedding cache: %w", err)
		}

		vectorIdx = &snapshotIndex{
			inner: vector.New(e.embedder),
			path:  filepath.Join(dir, snapshotFile),
		}
	} else {
		logger.Warn("No API key set; semantic retrieval disabled")
	}

	if settings.LLM.IsConfigured() {
		llmSvc, err := llmgemini.NewLLMService(ctx, llmgemini.Config{
			APIKey: settings.LLM.APIKey,
			Model:  settings.LLM.Model,
		})
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("llm service: %w", err)
		}
		e.llm = llmSvc
	}

	e.retrieval = services.NewRetrievalService(lexical.New(), vectorIdx, settings.Retrieval)
	e.memory = services.NewMemoryService(e.llm, prompts, settings.Memory)
	validator := services.NewCitationService(settings.Citation)
	e.chat = services.NewChatService(e.retrieval, validator, e.memory, e.llm, prompts, settings)

	return e, nil
}

// Close releases provider clients and the cache store.
func (e *engine) Close() {
	if e.embedder != nil {
		_ = e.embedder.Close()
	}
	if e.llm != nil {
		_ = e.llm.Close()
	}
	if e.store != nil {
		_ = e.store.Close()
	}
}

// ingest reads, chunks and indexes every .txt document under dir, and
// remembers dir so later commands can restore the corpus.
func (e *engine) ingest(ctx context.Context, dir string) (docs, chunks int, err error) {
	documents, err := readDocuments(dir)
	if err != nil {
		return 0, 0, err
	}
	if len(documents) == 0 {
		return 0, 0, fmt.Errorf("no .txt documents found in %s", dir)
	}

	chunked, err := chunkDocuments(ctx, e.settings.Chunking, documents)
	if err != nil {
		return 0, 0, err
	}

	if err := e.retrieval.Index(ctx, chunked); err != nil {
		return 0, 0, fmt.Errorf("index corpus: %w", err)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	if err := e.config.Set(keyCorpusDir, abs); err != nil {
		logger.Warn("Could not remember corpus directory: %v", err)
	}

	return len(documents), len(chunked), nil
}

// restore rebuilds the indices from the last ingested directory.
// The vector side loads its snapshot when valid, so no re-embedding
// happens unless the corpus changed.
func (e *engine) restore(ctx context.Context) error {
	dir := e.config.GetString(keyCorpusDir)
	if dir == "" {
		return errors.New("no corpus ingested yet; run 'lawdecodes ingest <dir>' first")
	}
	_, _, err := e.ingest(ctx, dir)
	return err
}

// session is what the interactive commands operate on.
type session struct {
	chat   driving.ChatService
	memory driving.ConversationMemory
	close  func()
}

// openSession wires an engine ready for ask/chat, restoring the corpus.
func openSession(ctx context.Context) (*session, error) {
	if chatService != nil {
		return &session{chat: chatService, memory: memoryService, close: func() {}}, nil
	}

	e, err := newEngine(ctx)
	if err != nil {
		return nil, err
	}
	if e.llm == nil {
		e.Close()
		return nil, errors.New("no LLM configured: set GEMINI_API_KEY or GOOGLE_API_KEY")
	}
	if err := e.restore(ctx); err != nil {
		e.Close()
		return nil, err
	}
	return &session{chat: e.chat, memory: e.memory, close: e.Close}, nil
}

// readDocuments loads every .txt file under dir, walking subdirectories.
// Walk order is lexical, so document order is deterministic.
func readDocuments(dir string) ([]domain.Document, error) {
	var docs []domain.Document
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".txt") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		docs = append(docs, domain.Document{
			ID:        uuid.NewString(),
			Title:     d.Name(),
			URI:       path,
			Content:   string(data),
			CreatedAt: time.Now().UTC(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	return docs, nil
}

// chunkDocuments runs every document through the ingestion pipeline.
func chunkDocuments(ctx context.Context, settings domain.ChunkingSettings, docs []domain.Document) ([]domain.Chunk, error) {
	pipeline := postprocessors.DefaultPipeline(settings)

	var chunks []domain.Chunk
	for i := range docs {
		cs, err := pipeline.Process(ctx, &docs[i])
		if err != nil {
			return nil, fmt.Errorf("chunk %s: %w", docs[i].Title, err)
		}
		chunks = append(chunks, cs...)
	}
	return chunks, nil
}

// snapshotIndex persists the vector index across runs. Build first tries
// the on-disk snapshot and only re-embeds when it is missing or stale.
type snapshotIndex struct {
	inner *vector.Index
	path  string
}

var _ driven.VectorIndex = (*snapshotIndex)(nil)

func (s *snapshotIndex) Build(ctx context.Context, chunks []domain.Chunk) error {
	if err := s.inner.LoadSnapshot(s.path, chunks); err == nil {
		logger.Debug("Vector snapshot loaded from %s", s.path)
		return nil
	} else if !errors.Is(err, os.ErrNotExist) && !errors.Is(err, domain.ErrCorruptIndex) {
		logger.Warn("Vector snapshot unusable, rebuilding: %v", err)
	}

	if err := s.inner.Build(ctx, chunks); err != nil {
		return err
	}
	if err := s.inner.SaveSnapshot(s.path); err != nil {
		logger.Warn("Saving vector snapshot failed: %v", err)
	}
	return nil
}

func (s *snapshotIndex) Query(ctx context.Context, text string, k int, diversityWeight float64) ([]domain.RetrievedChunk, error) {
	return s.inner.Query(ctx, text, k, diversityWeight)
}

func (s *snapshotIndex) Close() error {
	return s.inner.Close()
}

// Directory helpers. Empty string means the adapter default under
// ~/.lawdecodes; the --home flag overrides the whole tree.

func configDir() string {
	return homeOverride
}

func promptsDir() string {
	if homeOverride == "" {
		return ""
	}
	return filepath.Join(homeOverride, "prompts")
}

func dataDir() (string, error) {
	if homeOverride != "" {
		return filepath.Join(homeOverride, "data"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".lawdecodes", "data"), nil
}
