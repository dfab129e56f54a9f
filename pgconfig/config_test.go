package pgconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsPopulated(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 100, cfg.Block.MaxGap)
	assert.Equal(t, 3, cfg.Block.ReconsensusMinDepth)
	assert.Greater(t, cfg.Aligner.DefaultK, 0)
	assert.NotEmpty(t, cfg.Store.Dir)
}

func TestLoadOverridesOnlyGivenFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("block:\n  max_gap: 250\nverbose: true\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 250, cfg.Block.MaxGap)
	assert.True(t, cfg.Verbose)
	// Everything else falls back to the built-in default.
	assert.Equal(t, Default().Block.ReconsensusMinDepth, cfg.Block.ReconsensusMinDepth)
	assert.Equal(t, Default().Aligner.DefaultK, cfg.Aligner.DefaultK)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedYAMLErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("block: [this is not a map"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
