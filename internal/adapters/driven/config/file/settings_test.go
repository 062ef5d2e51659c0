package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppSettings_Defaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	s := LoadAppSettings(store)

	assert.Equal(t, 800, s.Chunking.ChunkSize)
	assert.Equal(t, 5, s.Retrieval.TopK)
	assert.InDelta(t, 0.6, s.Citation.FuzzyAcceptThreshold, 0.0001)
	assert.Equal(t, 2000, s.Memory.MaxTokens)
	assert.Empty(t, s.LLM.APIKey)
	assert.NoError(t, s.Validate())
}

func TestLoadAppSettings_FileOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	content := []byte(`
[retrieval]
top_k = 8
diversity_weight = 0.7

[citation]
fuzzy_accept_threshold = 0.75

[memory]
max_tokens = 4000
`)
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), content, 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	s := LoadAppSettings(store)

	assert.Equal(t, 8, s.Retrieval.TopK)
	assert.InDelta(t, 0.7, s.Retrieval.DiversityWeight, 0.0001)
	assert.InDelta(t, 0.75, s.Citation.FuzzyAcceptThreshold, 0.0001)
	assert.Equal(t, 4000, s.Memory.MaxTokens)

	// Untouched values keep their defaults.
	assert.Equal(t, 800, s.Chunking.ChunkSize)
}

func TestLoadAppSettings_APIKeyFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gm-key")
	t.Setenv("GOOGLE_API_KEY", "gg-key")

	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	s := LoadAppSettings(store)
	assert.Equal(t, "gm-key", s.LLM.APIKey)
	assert.Equal(t, "gm-key", s.Embedding.APIKey)

	// GOOGLE_API_KEY is the fallback.
	t.Setenv("GEMINI_API_KEY", "")
	s = LoadAppSettings(store)
	assert.Equal(t, "gg-key", s.LLM.APIKey)
}

func TestLoadAppSettings_NilStore(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gm-key")

	s := LoadAppSettings(nil)
	assert.Equal(t, 5, s.Retrieval.TopK)
	assert.Equal(t, "gm-key", s.LLM.APIKey)
}
