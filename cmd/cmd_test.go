package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const photosynthesis = `Photosynthesis converts light energy into chemical energy.
Chlorophyll absorbs sunlight inside the chloroplasts of plant cells.
Plants release oxygen as a byproduct of splitting water molecules.`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func isolate(t *testing.T) (dir, db string) {
	t.Helper()
	dir = t.TempDir()
	t.Setenv("QGEN_CONFIG", filepath.Join(dir, "missing.yaml"))
	t.Setenv("QGEN_LLM_PROVIDER", "")
	return dir, filepath.Join(dir, "qgen.db")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "qgen")
}

func TestGenerate_MockProvider(t *testing.T) {
	dir, db := isolate(t)
	src := filepath.Join(dir, "source.txt")
	require.NoError(t, os.WriteFile(src, []byte(photosynthesis), 0o644))
	export := filepath.Join(dir, "quiz.json")

	out, err := execute(t, "generate", "--provider", "mock", "--db", db,
		"-f", src, "--count", "3", "--out", export)
	require.NoError(t, err)
	assert.Contains(t, out, "Question 1:")
	assert.Contains(t, out, "Saved 3 questions")

	data, err := os.ReadFile(export)
	require.NoError(t, err)
	var decoded struct {
		Questions []map[string]any `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded.Questions, 3)

	out, err = execute(t, "llm", "list", "--db", db, "--purpose", "question-gen")
	require.NoError(t, err)
	assert.Contains(t, out, "question-gen")
	assert.Contains(t, out, "mock")

	out, err = execute(t, "llm", "stats", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Usage by Purpose")
}

func TestGenerate_CountOutOfRange(t *testing.T) {
	dir, db := isolate(t)
	src := filepath.Join(dir, "source.txt")
	require.NoError(t, os.WriteFile(src, []byte(photosynthesis), 0o644))

	_, err := execute(t, "generate", "--provider", "mock", "--db", db,
		"-f", src, "--count", "21", "--out", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "between 1 and 20")
}

func TestGenerate_EmptySource(t *testing.T) {
	dir, db := isolate(t)
	src := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(src, []byte("  \n"), 0o644))

	_, err := execute(t, "generate", "--provider", "mock", "--db", db,
		"-f", src, "--count", "2", "--out", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestLLMView_NotFound(t *testing.T) {
	_, db := isolate(t)
	_, err := execute(t, "llm", "view", "999", "--db", db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
