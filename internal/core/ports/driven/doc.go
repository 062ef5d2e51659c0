// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - LexicalIndex: keyword (BM25) retrieval. Always required.
//   - ConfigStore: application configuration.
//
// # Optional Interfaces
//
// The engine degrades gracefully when these are nil:
//
//   - EmbeddingService: vector embeddings. Without it, semantic
//     retrieval is disabled and the retriever runs lexical-only.
//   - VectorIndex: dense-vector similarity retrieval.
//   - LLMService: text generation. Without it, answers and memory
//     compression are disabled (memory falls back to truncation).
//   - EmbeddingCacheStore: persisted embedding cache. Without it the
//     cache is memory-only and embeddings recompute across runs.
//   - PromptStore: user-customisable prompt templates.
package driven
