// Package texsync provides the public Go library API for texsync.
//
// texsync keeps a local directory and a remote Overleaf-style project in
// step. This package exposes the same operations as the CLI for
// embedding in other Go programs.
//
// # Basic Usage
//
//	client, err := texsync.New(texsync.Options{
//	    Dir:     "/path/to/project",
//	    Project: "thesis",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Authenticate once; the session is persisted.
//	err = client.Login(ctx, email, password)
//
//	// Run a bidirectional sync.
//	result, err := client.Sync(ctx, texsync.ModeBoth)
package texsync

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/texsync/texsync/internal/config"
	"github.com/texsync/texsync/internal/engine"
	"github.com/texsync/texsync/internal/ignore"
	"github.com/texsync/texsync/internal/local"
	"github.com/texsync/texsync/internal/prompt"
	"github.com/texsync/texsync/internal/remote"
	"github.com/texsync/texsync/internal/sync"
)

// Options configures a texsync client. Every field is optional: values
// fall back to the directory's config file, then to the built-in
// defaults, the same precedence the CLI applies.
type Options struct {
	// Dir is the local project directory. Default: ".".
	Dir string

	// Project is the remote project name. Default: the directory name.
	Project string

	// ServerURL is the base URL of the remote service.
	ServerURL string

	// IgnoreFile and AuthFile are resolved relative to Dir unless absolute.
	IgnoreFile string
	AuthFile   string

	// Decider answers the human decisions a sync can raise. Default: a
	// non-interactive decider that declines overwrites and ignores
	// deletion candidates.
	Decider engine.Decider

	// FailFast stops a bidirectional sync after the first failed
	// direction instead of finishing the other.
	FailFast bool
}

// Client is the main entry point for the texsync library.
type Client struct {
	dir        string
	project    string
	serverURL  string
	ignorePath string
	authPath   string
	decider    engine.Decider
	failFast   bool
}

// New creates a texsync Client, merging opts with the directory's config
// file and the built-in defaults.
func New(opts Options) (*Client, error) {
	if opts.Dir == "" {
		opts.Dir = "."
	}
	dir, err := filepath.Abs(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("resolving project directory: %w", err)
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}

	decider := opts.Decider
	if decider == nil {
		decider = prompt.NonInteractive{}
	}

	return &Client{
		dir:        dir,
		project:    firstNonEmpty(opts.Project, cfg.Project, filepath.Base(dir)),
		serverURL:  firstNonEmpty(opts.ServerURL, cfg.ServerURL, config.DefaultServerURL),
		ignorePath: resolveIn(dir, firstNonEmpty(opts.IgnoreFile, cfg.IgnoreFile, config.DefaultIgnoreFile)),
		authPath:   resolveIn(dir, firstNonEmpty(opts.AuthFile, cfg.AuthFile, config.DefaultAuthFile)),
		decider:    decider,
		failFast:   opts.FailFast,
	}, nil
}

// Login authenticates with the remote service and persists the session
// at the client's auth path.
func (c *Client) Login(ctx context.Context, email, password string) error {
	client := remote.NewClient(c.serverURL, nil)
	session, err := client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return remote.SaveSession(c.authPath, session)
}

// Projects lists the authenticated user's active remote projects.
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	client, err := c.remoteClient()
	if err != nil {
		return nil, err
	}
	return client.Projects(ctx)
}

// Sync downloads the remote project once and reconciles both sides in
// the requested mode. The returned result carries one report per
// direction-run, also on error, so partial application stays visible.
func (c *Client) Sync(ctx context.Context, mode Mode) (*Result, error) {
	client, err := c.remoteClient()
	if err != nil {
		return nil, err
	}

	project, err := client.ProjectByName(ctx, c.project)
	if err != nil {
		return nil, err
	}

	data, err := client.DownloadZip(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	snapshot, err := remote.NewSnapshot(data, project.LastUpdated)
	if err != nil {
		return nil, err
	}

	syncer := &sync.Syncer{
		Workspace: local.New(c.dir),
		Snapshot:  snapshot,
		Remote:    remote.NewProjectHandle(client, project),
		Rules:     ignore.Load(c.ignorePath),
		Decider:   c.decider,
		FailFast:  c.failFast,
	}
	return syncer.Run(ctx, mode)
}

func (c *Client) remoteClient() (*remote.Client, error) {
	session, err := remote.LoadSession(c.authPath)
	if err != nil {
		return nil, err
	}
	return remote.NewClient(c.serverURL, session), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func resolveIn(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
