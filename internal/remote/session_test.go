package remote

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth.json")
	saved := &Session{
		Cookies: map[string]string{"sharelatex.sid": "s:abc123"},
		CSRF:    "token-1",
	}
	require.NoError(t, SaveSession(path, saved))

	loaded, err := LoadSession(path)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), fi.Mode().Perm())
}

func TestLoadSessionMissing(t *testing.T) {
	_, err := LoadSession(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "texsync login")
}

func TestLoadSessionIncomplete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"cookies":{},"csrf":""}`), 0600))

	_, err := LoadSession(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incomplete")
}

func TestSaveSessionLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "auth.json")
	require.NoError(t, SaveSession(path, &Session{
		Cookies: map[string]string{"sid": "x"},
		CSRF:    "t",
	}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "auth.json", entries[0].Name())
}
