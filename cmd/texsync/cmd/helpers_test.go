package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texsync/texsync/internal/config"
)

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "a", firstNonEmpty("a", "b"))
	assert.Equal(t, "b", firstNonEmpty("", "b"))
	assert.Equal(t, "", firstNonEmpty("", ""))
}

func TestResolveIn(t *testing.T) {
	assert.Equal(t, filepath.Join("/proj", ".texsyncignore"), resolveIn("/proj", ".texsyncignore"))
	assert.Equal(t, "/elsewhere/rules", resolveIn("/proj", "/elsewhere/rules"))
}

func TestLoadSettingsPrecedence(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName),
		[]byte("project: from-config\nserver_url: https://cfg.example.org\n"), 0644))

	origPath, origProject, origServer := syncPath, projectName, serverURL
	t.Cleanup(func() { syncPath, projectName, serverURL = origPath, origProject, origServer })

	syncPath = dir
	projectName = ""
	serverURL = ""

	s, err := loadSettings()
	require.NoError(t, err)
	assert.Equal(t, "from-config", s.project)
	assert.Equal(t, "https://cfg.example.org", s.serverURL)
	assert.Equal(t, filepath.Join(dir, config.DefaultIgnoreFile), s.ignorePath)
	assert.Equal(t, filepath.Join(dir, config.DefaultAuthFile), s.authPath)

	// A flag beats the config file.
	projectName = "from-flag"
	s, err = loadSettings()
	require.NoError(t, err)
	assert.Equal(t, "from-flag", s.project)
}

func TestLoadSettingsDefaultsToDirectoryName(t *testing.T) {
	dir := t.TempDir()

	origPath, origProject := syncPath, projectName
	t.Cleanup(func() { syncPath, projectName = origPath, origProject })

	syncPath = dir
	projectName = ""

	s, err := loadSettings()
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(dir), s.project)
	assert.Equal(t, config.DefaultServerURL, s.serverURL)
}

func TestDecisionLabelsAreExhaustive(t *testing.T) {
	for _, d := range reportOrder {
		assert.NotEqual(t, string(d), decisionLabel(d), "missing label for %s", d)
	}
}
