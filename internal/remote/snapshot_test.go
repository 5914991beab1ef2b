package remote

import (
	"archive/zip"
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildZip(t *testing.T, entries map[string]string, order []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range order {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(entries[name]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestSnapshotNamesKeepArchiveOrder(t *testing.T) {
	data := buildZip(t, map[string]string{
		"main.tex":           "main",
		"sections/intro.tex": "intro",
		"refs.bib":           "refs",
	}, []string{"main.tex", "sections/intro.tex", "refs.bib"})

	snap, err := NewSnapshot(data, time.Now())
	require.NoError(t, err)
	assert.Equal(t, []string{"main.tex", "sections/intro.tex", "refs.bib"}, snap.Names())
}

func TestSnapshotDropsDirectoriesAndNormalizes(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err := zw.Create("sections/")
	require.NoError(t, err)
	w, err := zw.Create("./main.tex")
	require.NoError(t, err)
	_, err = w.Write([]byte("main"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	snap, err := NewSnapshot(buf.Bytes(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, []string{"main.tex"}, snap.Names())
	assert.True(t, snap.Has("main.tex"))
	assert.False(t, snap.Has("sections"))
}

func TestSnapshotRead(t *testing.T) {
	data := buildZip(t, map[string]string{"main.tex": "\\documentclass{article}"},
		[]string{"main.tex"})

	snap, err := NewSnapshot(data, time.Now())
	require.NoError(t, err)

	content, err := snap.Read("main.tex")
	require.NoError(t, err)
	assert.Equal(t, "\\documentclass{article}", string(content))

	_, err = snap.Read("missing.tex")
	assert.Error(t, err)
}

func TestSnapshotRejectsGarbage(t *testing.T) {
	_, err := NewSnapshot([]byte("not a zip"), time.Now())
	assert.Error(t, err)
}

func TestSnapshotNamesIsACopy(t *testing.T) {
	data := buildZip(t, map[string]string{"a.tex": "a", "b.tex": "b"},
		[]string{"a.tex", "b.tex"})

	snap, err := NewSnapshot(data, time.Now())
	require.NoError(t, err)

	names := snap.Names()
	names[0] = "mutated"
	assert.Equal(t, []string{"a.tex", "b.tex"}, snap.Names())
}
