// Package sync orchestrates a full invocation: it snapshots both sides,
// binds the engine's capability set per direction and runs the requested
// direction-runs.
package sync

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/texsync/texsync/internal/engine"
	"github.com/texsync/texsync/internal/ignore"
	"github.com/texsync/texsync/internal/local"
	"github.com/texsync/texsync/internal/remote"
)

// Mode selects which direction-runs an invocation performs.
type Mode int

const (
	// ModeBoth pulls remote changes first, then pushes local ones.
	ModeBoth Mode = iota
	// ModeLocalOnly pushes local files to the remote project only.
	ModeLocalOnly
	// ModeRemoteOnly pulls remote files into the local workspace only.
	ModeRemoteOnly
)

// Remote is the mutating half of the remote collaborator; reads go
// through the snapshot taken at the start of the invocation.
type Remote interface {
	Upload(ctx context.Context, name string, content []byte) error
	Delete(ctx context.Context, name string) error
}

// Syncer runs a sync between one workspace and one remote project.
type Syncer struct {
	Workspace *local.Workspace
	Snapshot  *remote.Snapshot
	Remote    Remote
	Rules     []string
	Decider   engine.Decider

	// FailFast stops the invocation after a failed direction-run instead
	// of giving the other direction its chance.
	FailFast bool
}

// Result aggregates the reports of every direction-run that executed.
type Result struct {
	Reports []*engine.Report
}

// Run performs the invocation. All enumerations are taken before the
// first action executes, so a direction-run never observes the previous
// run's effects. Deletion detection is active only in ModeBoth, on the
// local to remote run, with the unfiltered local enumeration as the
// record of what the workspace knowingly had.
//
// In ModeBoth, remote names the workspace does not have at all are the
// deletion candidates. A hidden file the enumeration skips still counts
// as present when it exists on disk. The pull run withholds the
// candidates: downloading them as
// new files first would pre-empt every answer the three-way prompt can
// give. Choosing restore downloads such a file anyway; choosing ignore
// leaves both sides untouched. Single-direction pulls download them
// unconditionally, since deletions are never proposed there.
func (s *Syncer) Run(ctx context.Context, mode Mode) (*Result, error) {
	remoteNames := s.Snapshot.Names()
	localAll, err := s.Workspace.List()
	if err != nil {
		return nil, fmt.Errorf("enumerating workspace: %w", err)
	}
	localKept := ignore.Filter(localAll, s.Rules)

	pullSource := remoteNames
	// Non-nil even for an empty workspace: a nil prior would switch
	// deletion detection off entirely.
	prior := append([]string{}, localAll...)
	if mode == ModeBoth {
		known := make(map[string]bool, len(localAll))
		for _, name := range localAll {
			known[name] = true
		}
		pullSource = nil
		for _, name := range remoteNames {
			if !known[name] {
				// The enumeration skips hidden files, but a hidden file
				// sitting on disk (a restored .latexmkrc, say) was not
				// deleted and must not be proposed as a candidate again.
				if onDisk, err := s.Workspace.Exists(name); err == nil && onDisk {
					known[name] = true
					prior = append(prior, name)
				}
			}
			if known[name] {
				pullSource = append(pullSource, name)
			}
		}
	}

	log.WithFields(log.Fields{
		"remote":         len(remoteNames),
		"local":          len(localAll),
		"local_filtered": len(localKept),
	}).Debug("enumerations snapshotted")

	result := &Result{}
	var failures []*engine.ExecutionError

	runOne := func(dir engine.Direction, source, dest, prior []string, caps engine.Capabilities) error {
		plan, err := engine.Reconcile(dir, source, dest, prior, caps, s.Decider)
		if err != nil {
			return fmt.Errorf("%s reconciliation: %w", dir, err)
		}

		report, execErr := engine.Execute(plan, caps)
		result.Reports = append(result.Reports, report)

		if execErr != nil {
			var ee *engine.ExecutionError
			if !errors.As(execErr, &ee) {
				return fmt.Errorf("%s run: %w", dir, execErr)
			}
			log.WithField("direction", dir.String()).WithError(ee).Warn("direction-run aborted")
			failures = append(failures, ee)
		}
		return nil
	}

	if mode == ModeBoth || mode == ModeRemoteOnly {
		caps := &remoteToLocal{ctx: ctx, ws: s.Workspace, snap: s.Snapshot, rem: s.Remote}
		if err := runOne(engine.RemoteToLocal, pullSource, localAll, nil, caps); err != nil {
			return result, err
		}
		if s.FailFast && len(failures) > 0 {
			return result, &engine.AbortedError{Failures: failures}
		}
	}

	if mode == ModeBoth || mode == ModeLocalOnly {
		var pushPrior []string
		if mode == ModeBoth {
			pushPrior = prior
		}
		caps := &localToRemote{ctx: ctx, ws: s.Workspace, snap: s.Snapshot, rem: s.Remote}
		if err := runOne(engine.LocalToRemote, localKept, remoteNames, pushPrior, caps); err != nil {
			return result, err
		}
	}

	if len(failures) > 0 {
		return result, &engine.AbortedError{Failures: failures}
	}
	return result, nil
}

// remoteToLocal binds the capability set for the pull direction. The
// remote side has one modification stamp for the whole project, so
// "newer" compares the project's lastUpdated against the local file's
// mtime, strictly, at second granularity.
type remoteToLocal struct {
	ctx  context.Context
	ws   *local.Workspace
	snap *remote.Snapshot
	rem  Remote
}

func (c *remoteToLocal) ExistsInDestination(name string) (bool, error) {
	return c.ws.Exists(name)
}

func (c *remoteToLocal) ContentEqual(name string) (bool, error) {
	localContent, err := c.ws.Read(name)
	if err != nil {
		return false, err
	}
	remoteContent, err := c.snap.Read(name)
	if err != nil {
		return false, err
	}
	return bytes.Equal(localContent, remoteContent), nil
}

func (c *remoteToLocal) SourceIsNewer(name string) (bool, error) {
	mt, err := c.ws.ModTime(name)
	if err != nil {
		return false, err
	}
	return c.snap.LastUpdated.Unix() > mt.Unix(), nil
}

func (c *remoteToLocal) CreateOrUpdateAtDestination(name string) error {
	content, err := c.snap.Read(name)
	if err != nil {
		return err
	}
	return c.ws.Write(name, content)
}

func (c *remoteToLocal) DeleteAtDestination(name string) error {
	return c.ws.Remove(name)
}

func (c *remoteToLocal) CreateOrUpdateAtSource(name string) error {
	content, err := c.ws.Read(name)
	if err != nil {
		return err
	}
	return c.rem.Upload(c.ctx, name, content)
}

// localToRemote binds the capability set for the push direction.
type localToRemote struct {
	ctx  context.Context
	ws   *local.Workspace
	snap *remote.Snapshot
	rem  Remote
}

func (c *localToRemote) ExistsInDestination(name string) (bool, error) {
	return c.snap.Has(name), nil
}

func (c *localToRemote) ContentEqual(name string) (bool, error) {
	localContent, err := c.ws.Read(name)
	if err != nil {
		return false, err
	}
	remoteContent, err := c.snap.Read(name)
	if err != nil {
		return false, err
	}
	return bytes.Equal(localContent, remoteContent), nil
}

func (c *localToRemote) SourceIsNewer(name string) (bool, error) {
	mt, err := c.ws.ModTime(name)
	if err != nil {
		return false, err
	}
	return mt.Unix() > c.snap.LastUpdated.Unix(), nil
}

func (c *localToRemote) CreateOrUpdateAtDestination(name string) error {
	content, err := c.ws.Read(name)
	if err != nil {
		return err
	}
	return c.rem.Upload(c.ctx, name, content)
}

func (c *localToRemote) DeleteAtDestination(name string) error {
	return c.rem.Delete(c.ctx, name)
}

func (c *localToRemote) CreateOrUpdateAtSource(name string) error {
	content, err := c.snap.Read(name)
	if err != nil {
		return err
	}
	return c.ws.Write(name, content)
}
