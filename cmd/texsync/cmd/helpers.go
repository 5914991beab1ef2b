package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/texsync/texsync/internal/config"
	"github.com/texsync/texsync/internal/engine"
)

// settings is the merged view of flags, the config file and defaults, in
// that precedence order. All paths are resolved against the sync
// directory so the tool behaves the same from anywhere.
type settings struct {
	dir        string
	project    string
	serverURL  string
	ignorePath string
	authPath   string
}

func loadSettings() (*settings, error) {
	dir, err := filepath.Abs(syncPath)
	if err != nil {
		return nil, fmt.Errorf("resolving sync path: %w", err)
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}

	return &settings{
		dir:        dir,
		project:    firstNonEmpty(projectName, cfg.Project, filepath.Base(dir)),
		serverURL:  firstNonEmpty(serverURL, cfg.ServerURL, config.DefaultServerURL),
		ignorePath: resolveIn(dir, firstNonEmpty(ignoreFile, cfg.IgnoreFile, config.DefaultIgnoreFile)),
		authPath:   resolveIn(dir, firstNonEmpty(authFile, cfg.AuthFile, config.DefaultAuthFile)),
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// resolveIn anchors a relative path at dir; absolute paths pass through.
func resolveIn(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// reportOrder fixes the display order: work first, no-ops after.
var reportOrder = []engine.Decision{
	engine.DecisionNew,
	engine.DecisionRestore,
	engine.DecisionUpdate,
	engine.DecisionDelete,
	engine.DecisionSynced,
	engine.DecisionSkipped,
	engine.DecisionIgnored,
}

func decisionLabel(d engine.Decision) string {
	switch d {
	case engine.DecisionNew:
		return "created"
	case engine.DecisionRestore:
		return "restored"
	case engine.DecisionUpdate:
		return "updated"
	case engine.DecisionDelete:
		return "deleted"
	case engine.DecisionSynced:
		return "already in sync"
	case engine.DecisionSkipped:
		return "skipped"
	case engine.DecisionIgnored:
		return "left alone"
	}
	return string(d)
}

func printReport(r *engine.Report) {
	info("")
	info("%s: %d file(s)", r.Direction, r.Total())

	for _, d := range reportOrder {
		names := r.Groups[d]
		if len(names) == 0 {
			continue
		}
		if !d.Actionable() {
			// No-ops only clutter normal output; list them in verbose mode.
			detail("%s (%d):", decisionLabel(d), len(names))
			for _, name := range names {
				detail("  %s", name)
			}
			continue
		}
		info("  %s (%d):", decisionLabel(d), len(names))
		for _, name := range names {
			info("    %s", name)
		}
	}

	for _, f := range r.Failed {
		errorf("%s", f)
	}
}

// info prints a line unless quiet mode is active.
func info(format string, args ...any) {
	if !quiet {
		fmt.Printf(format+"\n", args...)
	}
}

// detail prints a line only in verbose mode.
func detail(format string, args ...any) {
	if verbose {
		fmt.Printf("  "+format+"\n", args...)
	}
}

// errorf prints an error message to stderr.
func errorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
