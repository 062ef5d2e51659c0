// Package domain contains the core business entities for the legal
// retrieval and grounding engine: documents and chunks, retrieval
// results, citations, conversation turns and tunable settings.
// It has no dependencies on adapters or infrastructure.
package domain
