package cmd

import (
	"context"
	"os"

	"github.com/texsync/texsync/internal/engine"
	"github.com/texsync/texsync/internal/ignore"
	"github.com/texsync/texsync/internal/local"
	"github.com/texsync/texsync/internal/prompt"
	"github.com/texsync/texsync/internal/remote"
	"github.com/texsync/texsync/internal/sync"
)

// runSync is the root command's work: authenticate, snapshot the remote
// project, and hand everything to the orchestrator.
func runSync(ctx context.Context) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}

	session, err := remote.LoadSession(s.authPath)
	if err != nil {
		return err
	}
	client := remote.NewClient(s.serverURL, session)

	project, err := client.ProjectByName(ctx, s.project)
	if err != nil {
		return err
	}
	info("Project %s (%s), last updated %s.",
		project.Name, project.ID, project.LastUpdated.Format("2006-01-02 15:04:05"))

	data, err := client.DownloadZip(ctx, project.ID)
	if err != nil {
		return err
	}
	snapshot, err := remote.NewSnapshot(data, project.LastUpdated)
	if err != nil {
		return err
	}
	detail("downloaded snapshot: %d file(s)", len(snapshot.Names()))

	var decider engine.Decider = prompt.NewTerminal(os.Stdin, os.Stdout)
	if nonInteractive {
		decider = prompt.NonInteractive{}
	}

	syncer := &sync.Syncer{
		Workspace: local.New(s.dir),
		Snapshot:  snapshot,
		Remote:    remote.NewProjectHandle(client, project),
		Rules:     ignore.Load(s.ignorePath),
		Decider:   decider,
		FailFast:  failFast,
	}

	mode := sync.ModeBoth
	switch {
	case localOnly:
		mode = sync.ModeLocalOnly
	case remoteOnly:
		mode = sync.ModeRemoteOnly
	}

	result, runErr := syncer.Run(ctx, mode)
	if result != nil {
		for _, report := range result.Reports {
			printReport(report)
		}
	}
	if runErr != nil {
		return runErr
	}

	info("")
	info("Sync complete.")
	return nil
}
