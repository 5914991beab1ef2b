package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644))
}

func TestLoadMissingFileYieldsZeroConfig(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestLoadFullConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
project: thesis
server_url: https://overleaf.example.org
ignore_file: .myignore
auth_file: .myauth
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "thesis", cfg.Project)
	assert.Equal(t, "https://overleaf.example.org", cfg.ServerURL)
	assert.Equal(t, ".myignore", cfg.IgnoreFile)
	assert.Equal(t, ".myauth", cfg.AuthFile)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "project: [unclosed")

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoadRejectsBadServerURL(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "server_url: not-a-url")

	_, err := Load(dir)
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Problems, 1)
	assert.Contains(t, verr.Error(), "server_url")
}

func TestValidateAcceptsEmpty(t *testing.T) {
	assert.Empty(t, (&Config{}).Validate())
}
