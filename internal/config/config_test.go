package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/lox/internal/config"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "> ", cfg.Prompt)
}

func TestLoadParsesFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".loxrc.yaml")
	content := "prompt: \"lox> \"\nno_color: true\nhistory_file: \".lox_history\"\n"
	require.NoError(t, writeFile(path, content))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "lox> ", cfg.Prompt)
	assert.True(t, cfg.NoColor)
	assert.Equal(t, ".lox_history", cfg.HistoryFile)
}

func TestLoadRequiresTooNewFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".loxrc.yaml")
	require.NoError(t, writeFile(path, "requires: v99.0.0\n"))

	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestLoadRequiresSatisfiedSucceeds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".loxrc.yaml")
	require.NoError(t, writeFile(path, "requires: v0.0.1\n"))

	_, err := config.Load(path)
	assert.NoError(t, err)
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
