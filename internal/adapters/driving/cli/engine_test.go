package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VivekMaurya83/LawDecodes/internal/core/domain"
)

func TestReadDocuments_FiltersAndRecurses(t *testing.T) {
	dir := writeCorpus(t, map[string]string{
		"b.txt":        "second document",
		"a.txt":        "first document",
		"sub/c.txt":    "nested document",
		"sub/skip.pdf": "binary-ish",
		"README.md":    "not corpus",
	})

	docs, err := readDocuments(dir)

	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "a.txt", docs[0].Title)
	assert.Equal(t, "b.txt", docs[1].Title)
	assert.Equal(t, "c.txt", docs[2].Title)
	assert.Equal(t, "first document", docs[0].Content)
	assert.NotEmpty(t, docs[0].ID)
}

func TestReadDocuments_MissingDirectory(t *testing.T) {
	_, err := readDocuments(t.TempDir() + "/absent")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "scan")
}

func TestChunkDocuments_DeterministicIDs(t *testing.T) {
	docs := []domain.Document{{
		ID:      "doc-1",
		Title:   "lease.txt",
		Content: "The tenant shall pay rent on the first of each month.",
	}}

	chunks, err := chunkDocuments(context.Background(), domain.DefaultAppSettings().Chunking, docs)

	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "lease.txt#0000", chunks[0].ID)
	assert.Equal(t, "lease.txt", chunks[0].Document)
	assert.Equal(t, 1, chunks[0].TotalChunks)
}
