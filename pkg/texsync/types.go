package texsync

import (
	"github.com/texsync/texsync/internal/engine"
	"github.com/texsync/texsync/internal/remote"
	"github.com/texsync/texsync/internal/sync"
)

// Re-exported types so embedders never import internal packages.
type (
	// Decision classifies a single file within one direction-run.
	Decision = engine.Decision
	// Direction identifies one (source, destination) pair of a run.
	Direction = engine.Direction
	// Report groups the outcome of one direction-run by decision.
	Report = engine.Report
	// Decider supplies the human decisions a sync can raise.
	Decider = engine.Decider
	// DeletionChoice is the answer to a three-way deletion prompt.
	DeletionChoice = engine.DeletionChoice
	// Project is one remote project as listed on the dashboard.
	Project = remote.Project
	// Mode selects which direction-runs an invocation performs.
	Mode = sync.Mode
	// Result aggregates the reports of every direction-run that executed.
	Result = sync.Result
)

const (
	DecisionNew     = engine.DecisionNew
	DecisionUpdate  = engine.DecisionUpdate
	DecisionSynced  = engine.DecisionSynced
	DecisionSkipped = engine.DecisionSkipped
	DecisionDelete  = engine.DecisionDelete
	DecisionRestore = engine.DecisionRestore
	DecisionIgnored = engine.DecisionIgnored

	ChoiceIgnore  = engine.ChoiceIgnore
	ChoiceDelete  = engine.ChoiceDelete
	ChoiceRestore = engine.ChoiceRestore

	ModeBoth       = sync.ModeBoth
	ModeLocalOnly  = sync.ModeLocalOnly
	ModeRemoteOnly = sync.ModeRemoteOnly
)
