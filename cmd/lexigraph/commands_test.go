package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/lexigraph/internal/core"
)

func writeFixture(t *testing.T, root string) {
	t.Helper()
	dir := filepath.Join(root, "data", "clean")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	vocab := `[
		{"id": "v1", "lemma": "水", "pos": "noun", "tags": ["jlpt_n5", "drink"], "meanings": ["water"]},
		{"id": "v2", "lemma": "飲む", "pos": "verb", "tags": ["jlpt_n5", "drink"], "meanings": ["to drink"]},
		{"id": "v3", "lemma": "本", "pos": "noun", "tags": ["jlpt_n5"], "meanings": ["book"]}
	]`
	grammar := `[{"id": "g1", "title": "を", "jlpt_level": "N5", "examples": [{"ja": "水を飲む"}]}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vocabulary_entry.json"), []byte(vocab), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "grammar_pattern.json"), []byte(grammar), 0o644))
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("LEXIGRAPH_ROOT", "")
	t.Setenv("LEXIGRAPH_SEED", "")
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestBuildThenEvaluate(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root)

	out, err := run(t, "build", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, out, "Nodes: 4\n")
	assert.Contains(t, out, "Seed: 42\n")
	assert.FileExists(t, filepath.Join(root, "network_output", "nodes.json"))
	assert.FileExists(t, filepath.Join(root, "network_output", "edges.json"))

	out, err = run(t, "evaluate", "--root", root, "--format", "json")
	require.NoError(t, err)
	var metrics map[string]float64
	require.NoError(t, json.Unmarshal([]byte(out), &metrics))
	assert.Equal(t, 4.0, metrics["node_count"])
	assert.Equal(t, 1.0, metrics["edge_jaccard"])

	out, err = run(t, "evaluate", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, out, "-- Reproducibility --")
}

func TestBuild_RotateKeepsPrevious(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root)

	first, err := run(t, "build", "--root", root, "--seed", "7")
	require.NoError(t, err)
	second, err := run(t, "build", "--root", root, "--seed", "7", "--rotate")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.FileExists(t, filepath.Join(root, "network_output", "edges_prev.json"))
}

func TestEvaluate_MissingInput(t *testing.T) {
	_, err := run(t, "evaluate", "--root", t.TempDir())

	assert.ErrorIs(t, err, core.ErrMissingInput)
}

func TestEvaluate_UnknownFormat(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root)
	_, err := run(t, "build", "--root", root)
	require.NoError(t, err)

	_, err = run(t, "evaluate", "--root", root, "--format", "xml")

	assert.Error(t, err)
}

func TestConfigFlag_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("seed = \"x\""), 0o644))

	_, err := run(t, "build", "--config", path, "--root", t.TempDir())

	assert.ErrorContains(t, err, "failed to parse TOML")
}
