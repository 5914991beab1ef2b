package local

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorkspace(t *testing.T) *Workspace {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/project", 0755))
	return &Workspace{Fs: fs, Root: "/project"}
}

func write(t *testing.T, w *Workspace, name, content string) {
	t.Helper()
	require.NoError(t, w.Write(name, []byte(content)))
}

func TestListSortedRelativeNames(t *testing.T) {
	w := newTestWorkspace(t)
	write(t, w, "sections/intro.tex", "intro")
	write(t, w, "main.tex", "main")
	write(t, w, "bib/refs.bib", "refs")

	names, err := w.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"bib/refs.bib", "main.tex", "sections/intro.tex"}, names)
}

func TestListExcludesHiddenFilesAndDirs(t *testing.T) {
	w := newTestWorkspace(t)
	write(t, w, "main.tex", "main")
	require.NoError(t, afero.WriteFile(w.Fs, "/project/.texsync-auth", []byte("{}"), 0600))
	require.NoError(t, afero.WriteFile(w.Fs, "/project/.git/config", []byte("x"), 0644))

	names, err := w.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"main.tex"}, names)
}

func TestWriteReadRoundTrip(t *testing.T) {
	w := newTestWorkspace(t)
	write(t, w, "figures/plot.tex", "\\begin{tikzpicture}")

	content, err := w.Read("figures/plot.tex")
	require.NoError(t, err)
	assert.Equal(t, "\\begin{tikzpicture}", string(content))

	exists, err := w.Exists("figures/plot.tex")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestWriteOverwrites(t *testing.T) {
	w := newTestWorkspace(t)
	write(t, w, "main.tex", "v1")
	write(t, w, "main.tex", "v2")

	content, err := w.Read("main.tex")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(content))
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	w := newTestWorkspace(t)
	write(t, w, "main.tex", "content")

	names, err := w.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"main.tex"}, names)
}

func TestExistsFalseForMissingAndDirs(t *testing.T) {
	w := newTestWorkspace(t)
	write(t, w, "sections/intro.tex", "x")

	exists, err := w.Exists("nope.tex")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = w.Exists("sections")
	require.NoError(t, err)
	assert.False(t, exists, "directories are not files")
}

func TestRemove(t *testing.T) {
	w := newTestWorkspace(t)
	write(t, w, "old.tex", "x")

	require.NoError(t, w.Remove("old.tex"))
	exists, err := w.Exists("old.tex")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestModTime(t *testing.T) {
	w := newTestWorkspace(t)
	write(t, w, "main.tex", "x")

	stamp := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, w.Fs.Chtimes("/project/main.tex", stamp, stamp))

	mt, err := w.ModTime("main.tex")
	require.NoError(t, err)
	assert.Equal(t, stamp.Unix(), mt.Unix())
}

func TestHostileNamesRejected(t *testing.T) {
	w := newTestWorkspace(t)

	for _, name := range []string{"../escape.tex", "/etc/passwd", "a/../../b.tex", "..", ""} {
		assert.Error(t, w.Write(name, []byte("x")), "Write(%q)", name)
		_, err := w.Read(name)
		assert.Error(t, err, "Read(%q)", name)
		assert.Error(t, w.Remove(name), "Remove(%q)", name)
	}
}

func TestDotSegmentsInsideRootAreFine(t *testing.T) {
	w := newTestWorkspace(t)
	// a/../b.tex cleans to b.tex, still inside the root.
	require.NoError(t, w.Write("a/../b.tex", []byte("x")))

	names, err := w.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"b.tex"}, names)
}
