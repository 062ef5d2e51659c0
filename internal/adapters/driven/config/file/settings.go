package file

import (
	"os"

	"github.com/VivekMaurya83/LawDecodes/internal/core/domain"
	"github.com/VivekMaurya83/LawDecodes/internal/core/ports/driven"
)

// Configuration keys. The TOML file nests these as sections, e.g.
//
//	[retrieval]
//	top_k = 5
//	diversity_weight = 0.5
//
// which the config store flattens to dot-notation.
const (
	keyChunkSize        = "chunking.size"
	keyChunkOverlap     = "chunking.overlap"
	keyTopK             = "retrieval.top_k"
	keyPoolSize         = "retrieval.pool_size"
	keyDiversityWeight  = "retrieval.diversity_weight"
	keyLexicalWeight    = "retrieval.lexical_weight"
	keySemanticWeight   = "retrieval.semantic_weight"
	keyMinQuoteLength   = "citation.min_quote_length"
	keyFuzzyConsider    = "citation.fuzzy_consider_threshold"
	keyFuzzyAccept      = "citation.fuzzy_accept_threshold"
	keyMaxCitations     = "citation.max_citations"
	keyQuoteDisplayLen  = "citation.quote_display_length"
	keyMemoryMaxTokens  = "memory.max_tokens"
	keySummaryThreshold = "memory.summary_threshold"
	keyKeepRecentTurns  = "memory.keep_recent_turns"
	keyEmbeddingModel   = "embedding.model"
	keyEmbeddingDims    = "embedding.dimensions"
	keyLLMModel         = "llm.model"
	keyLLMMaxTokens     = "llm.max_output_tokens"
	keyLLMTemperature   = "llm.temperature"
)

// API keys come from the environment, never the config file.
const (
	envGeminiAPIKey = "GEMINI_API_KEY"
	envGoogleAPIKey = "GOOGLE_API_KEY"
)

// LoadAppSettings builds application settings from defaults, overridden
// by config file values where present, with provider API keys taken
// from the environment.
func LoadAppSettings(store driven.ConfigStore) domain.AppSettings {
	s := domain.DefaultAppSettings()
	if store == nil {
		s.Embedding.APIKey = apiKeyFromEnv()
		s.LLM.APIKey = s.Embedding.APIKey
		return s
	}

	overrideInt(store, keyChunkSize, &s.Chunking.ChunkSize)
	overrideInt(store, keyChunkOverlap, &s.Chunking.ChunkOverlap)

	overrideInt(store, keyTopK, &s.Retrieval.TopK)
	overrideInt(store, keyPoolSize, &s.Retrieval.PoolSize)
	overrideFloat(store, keyDiversityWeight, &s.Retrieval.DiversityWeight)
	overrideFloat(store, keyLexicalWeight, &s.Retrieval.LexicalWeight)
	overrideFloat(store, keySemanticWeight, &s.Retrieval.SemanticWeight)

	overrideInt(store, keyMinQuoteLength, &s.Citation.MinQuoteLength)
	overrideFloat(store, keyFuzzyConsider, &s.Citation.FuzzyConsiderThreshold)
	overrideFloat(store, keyFuzzyAccept, &s.Citation.FuzzyAcceptThreshold)
	overrideInt(store, keyMaxCitations, &s.Citation.MaxCitations)
	overrideInt(store, keyQuoteDisplayLen, &s.Citation.QuoteDisplayLength)

	overrideInt(store, keyMemoryMaxTokens, &s.Memory.MaxTokens)
	overrideInt(store, keySummaryThreshold, &s.Memory.SummaryThreshold)
	overrideInt(store, keyKeepRecentTurns, &s.Memory.KeepRecentTurns)

	overrideString(store, keyEmbeddingModel, &s.Embedding.Model)
	overrideInt(store, keyEmbeddingDims, &s.Embedding.Dimensions)

	overrideString(store, keyLLMModel, &s.LLM.Model)
	overrideInt(store, keyLLMMaxTokens, &s.LLM.MaxOutputTokens)
	overrideFloat(store, keyLLMTemperature, &s.LLM.Temperature)

	s.Embedding.APIKey = apiKeyFromEnv()
	s.LLM.APIKey = s.Embedding.APIKey
	return s
}

func apiKeyFromEnv() string {
	if key := os.Getenv(envGeminiAPIKey); key != "" {
		return key
	}
	return os.Getenv(envGoogleAPIKey)
}

func overrideInt(store driven.ConfigStore, key string, dst *int) {
	if _, ok := store.Get(key); ok {
		*dst = store.GetInt(key)
	}
}

func overrideFloat(store driven.ConfigStore, key string, dst *float64) {
	if _, ok := store.Get(key); ok {
		*dst = store.GetFloat(key)
	}
}

func overrideString(store driven.ConfigStore, key string, dst *string) {
	if _, ok := store.Get(key); ok {
		*dst = store.GetString(key)
	}
}
