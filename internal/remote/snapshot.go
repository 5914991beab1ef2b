package remote

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"
)

// Snapshot is a point-in-time copy of the remote project: the downloaded
// archive plus the project's last-modification stamp. Both direction-runs
// of an invocation share one snapshot, so they see the same remote state
// no matter what executes in between.
type Snapshot struct {
	LastUpdated time.Time

	names []string
	files map[string]*zip.File
}

// NewSnapshot parses a downloaded project zip. Directory entries are
// dropped and names normalized to slash-separated relative paths; the
// archive's own entry order is kept for deterministic reporting.
func NewSnapshot(data []byte, lastUpdated time.Time) (*Snapshot, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("reading project archive: %w", err)
	}

	s := &Snapshot{LastUpdated: lastUpdated, files: make(map[string]*zip.File)}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		name := strings.TrimPrefix(strings.TrimPrefix(f.Name, "./"), "/")
		if name == "" {
			continue
		}
		if _, ok := s.files[name]; ok {
			continue
		}
		s.names = append(s.names, name)
		s.files[name] = f
	}
	return s, nil
}

// Names returns the archived file names in archive order.
func (s *Snapshot) Names() []string {
	names := make([]string, len(s.names))
	copy(names, s.names)
	return names
}

// Has reports whether the snapshot contains name.
func (s *Snapshot) Has(name string) bool {
	_, ok := s.files[name]
	return ok
}

// Read returns the archived content of name.
func (s *Snapshot) Read(name string) ([]byte, error) {
	f, ok := s.files[name]
	if !ok {
		return nil, fmt.Errorf("%s is not in the project snapshot", name)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s in project snapshot: %w", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading %s from project snapshot: %w", name, err)
	}
	return data, nil
}
