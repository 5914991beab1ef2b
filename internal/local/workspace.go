// Package local implements the local side of a sync: a directory tree
// rooted at a single path, addressed by slash-separated relative names.
package local

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// Workspace wraps the sync directory. All operations take workspace-
// relative, slash-separated names; absolute paths and traversal sequences
// are rejected since names can originate from a remote archive.
type Workspace struct {
	Fs   afero.Fs
	Root string
}

// New returns a Workspace over the operating system filesystem.
func New(root string) *Workspace {
	return &Workspace{Fs: afero.NewOsFs(), Root: root}
}

// List enumerates every regular file under the root as a sorted slice of
// slash-separated relative names. Hidden files and directories (dot
// prefix) are excluded, which also keeps the session store, config and
// ignore file out of the enumeration.
func (w *Workspace) List() ([]string, error) {
	var names []string
	err := afero.Walk(w.Fs, w.Root, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == w.Root {
			return nil
		}
		if strings.HasPrefix(fi.Name(), ".") {
			if fi.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if fi.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(w.Root, path)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", w.Root, err)
	}
	sort.Strings(names)
	return names, nil
}

// resolve validates that name stays inside the workspace root and returns
// its absolute path.
func (w *Workspace) resolve(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty file name")
	}
	clean := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(clean) || clean == "." || clean == ".." ||
		strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("name %q escapes the workspace root", name)
	}
	return filepath.Join(w.Root, clean), nil
}

// Exists reports whether name is a regular file in the workspace.
func (w *Workspace) Exists(name string) (bool, error) {
	path, err := w.resolve(name)
	if err != nil {
		return false, err
	}
	fi, err := w.Fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !fi.IsDir(), nil
}

// Read returns the content of name.
func (w *Workspace) Read(name string) ([]byte, error) {
	path, err := w.resolve(name)
	if err != nil {
		return nil, err
	}
	return afero.ReadFile(w.Fs, path)
}

// ModTime returns the last modification time of name.
func (w *Workspace) ModTime(name string) (time.Time, error) {
	path, err := w.resolve(name)
	if err != nil {
		return time.Time{}, err
	}
	fi, err := w.Fs.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return fi.ModTime(), nil
}

// Write stores content under name, creating parent directories as needed.
// The content goes to a temp file in the target directory first and is
// renamed into place, so a failure never leaves a truncated file behind.
func (w *Workspace) Write(name string, content []byte) error {
	path, err := w.resolve(name)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := w.Fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(w.Fs, dir, ".texsync-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = w.Fs.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = w.Fs.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := w.Fs.Rename(tmpPath, path); err != nil {
		_ = w.Fs.Remove(tmpPath)
		return fmt.Errorf("renaming temp file to %s: %w", path, err)
	}
	return nil
}

// Remove deletes name from the workspace.
func (w *Workspace) Remove(name string) error {
	path, err := w.resolve(name)
	if err != nil {
		return err
	}
	return w.Fs.Remove(path)
}
