package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupOfflineHome points the CLI at a throwaway home directory and
// clears the provider keys so commands run without any network access.
func setupOfflineHome(t *testing.T) string {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	home := t.TempDir()
	t.Cleanup(func() { homeOverride = "" })
	return home
}

func writeCorpus(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestIngestCmd_RequiresDirectoryArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ingest"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestIngestCmd_IndexesTxtDocuments(t *testing.T) {
	home := setupOfflineHome(t)
	docs := writeCorpus(t, map[string]string{
		"contract.txt": "This agreement takes effect on the Effective Date: 4 Sep 2025.",
	})

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"--home", home, "ingest", docs})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Ingested 1 documents (1 chunks).")
	assert.Contains(t, buf.String(), "Semantic retrieval is disabled")
}

func TestIngestCmd_MissingDirectory(t *testing.T) {
	home := setupOfflineHome(t)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"--home", home, "ingest", filepath.Join(home, "nope")})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ingest failed")
}

func TestIngestCmd_NoTxtFiles(t *testing.T) {
	home := setupOfflineHome(t)
	docs := writeCorpus(t, map[string]string{
		"notes.md": "not a corpus document",
	})

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"--home", home, "ingest", docs})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no .txt documents found")
}

func TestIngestCmd_RemembersCorpusDirectory(t *testing.T) {
	home := setupOfflineHome(t)
	docs := writeCorpus(t, map[string]string{
		"statute.txt": "Section 1. Definitions apply throughout this act.",
	})

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"--home", home, "ingest", docs})
	require.NoError(t, rootCmd.Execute())

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"--home", home, "stats"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "Corpus directory:")
	assert.Contains(t, buf.String(), "Documents: 1")
}
