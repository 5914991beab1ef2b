package engine

import (
	"fmt"
	"strings"
)

// Decision classifies a single file within one direction-run.
type Decision string

const (
	DecisionNew     Decision = "new"
	DecisionUpdate  Decision = "update"
	DecisionSynced  Decision = "synced"
	DecisionSkipped Decision = "skipped"
	DecisionDelete  Decision = "delete"
	DecisionRestore Decision = "restore"
	DecisionIgnored Decision = "ignored"
)

// Actionable reports whether the decision requires a capability call
// during execution. Synced, skipped and ignored entries are recorded for
// reporting only.
func (d Decision) Actionable() bool {
	switch d {
	case DecisionNew, DecisionUpdate, DecisionDelete, DecisionRestore:
		return true
	}
	return false
}

// Direction identifies one (source, destination) pair of a run.
type Direction struct {
	From string
	To   string
}

var (
	RemoteToLocal = Direction{From: "remote", To: "local"}
	LocalToRemote = Direction{From: "local", To: "remote"}
)

func (d Direction) String() string { return d.From + " to " + d.To }

// Capabilities are the operations a direction-run needs from its caller.
// The engine owns no I/O: every predicate and mutation is injected, bound
// to a concrete side (local workspace or remote project) before the run.
// Predicates may be expensive; the engine calls each at most once per
// file, in the order exists, equal, newer, stopping at the first answer
// that settles the decision.
type Capabilities interface {
	// ExistsInDestination reports whether name is present on the destination.
	ExistsInDestination(name string) (bool, error)
	// ContentEqual reports whether both sides hold identical bytes for
	// name. Called only when the name exists on both sides.
	ContentEqual(name string) (bool, error)
	// SourceIsNewer reports whether the source copy of name is strictly
	// newer than the destination copy.
	SourceIsNewer(name string) (bool, error)

	// CreateOrUpdateAtDestination writes the source copy of name to the
	// destination.
	CreateOrUpdateAtDestination(name string) error
	// DeleteAtDestination removes name from the destination.
	DeleteAtDestination(name string) error
	// CreateOrUpdateAtSource writes the destination copy of name back to
	// the source. Used only to execute restore decisions.
	CreateOrUpdateAtSource(name string) error
}

// DeletionChoice is the answer to a three-way deletion prompt.
type DeletionChoice int

const (
	ChoiceIgnore DeletionChoice = iota
	ChoiceDelete
	ChoiceRestore
)

// Decider supplies the human decisions the engine cannot make on its own.
// The engine blocks on every call; nothing else runs while a prompt is
// open. Non-interactive callers supply an implementation that always
// declines overwrites and ignores deletions.
type Decider interface {
	// ConfirmOverwrite asks whether name on the destination may be
	// overwritten by a source copy that is not newer.
	ConfirmOverwrite(name string, dir Direction) (bool, error)
	// ResolveDeletion asks what to do about name, which the source no
	// longer has but the destination still does.
	ResolveDeletion(name string, dir Direction) (DeletionChoice, error)
}

// Entry is one file's final classification within a plan.
type Entry struct {
	Name     string
	Decision Decision
}

// Plan is the finalized name-to-decision mapping for one direction-run.
// It is built once by Reconcile, consumed once by Execute, and never
// persisted.
type Plan struct {
	Direction Direction
	Entries   []Entry
	Failed    []*ComparisonError
}

// Names returns, in insertion order, the entries classified as d.
func (p *Plan) Names(d Decision) []string {
	var names []string
	for _, e := range p.Entries {
		if e.Decision == d {
			names = append(names, e.Name)
		}
	}
	return names
}

// Report groups the outcome of one direction-run for display. Actionable
// groups list only what actually executed, so a partially applied run
// shows exactly how far it got.
type Report struct {
	Direction Direction
	Groups    map[Decision][]string
	Failed    []*ComparisonError
}

// Total returns the number of files the report accounts for.
func (r *Report) Total() int {
	n := len(r.Failed)
	for _, names := range r.Groups {
		n += len(names)
	}
	return n
}

// ComparisonError records a predicate failure for a single file. It
// isolates to that file: classification of the remaining files proceeds.
type ComparisonError struct {
	Name string
	Op   string
	Err  error
}

func (e *ComparisonError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Name, e.Op, e.Err)
}

func (e *ComparisonError) Unwrap() error { return e.Err }

// ExecutionError records a failed create, update or delete. It aborts the
// remaining actions of its direction-run; entries executed before the
// failure are not rolled back.
type ExecutionError struct {
	Direction Direction
	Group     Decision
	Name      string
	Err       error
}

func (e *ExecutionError) Error() string {
	// Restores act on the source side, everything else on the destination.
	side := e.Direction.To
	if e.Group == DecisionRestore {
		side = e.Direction.From
	}
	return fmt.Sprintf("error while %s on %s: %s: %s", groupLabel(e.Group), side, e.Name, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

func groupLabel(d Decision) string {
	switch d {
	case DecisionNew:
		return "creating new files"
	case DecisionUpdate:
		return "updating files"
	case DecisionDelete:
		return "deleting files"
	case DecisionRestore:
		return "restoring files"
	}
	return "executing " + string(d)
}

// AbortedError summarizes the direction-runs that failed during an
// invocation. It is returned to the caller after every requested run has
// had its chance, so one failed direction does not hide the other's
// outcome.
type AbortedError struct {
	Failures []*ExecutionError
}

func (e *AbortedError) Error() string {
	msgs := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		msgs[i] = fmt.Sprintf("%s run failed: %s", f.Direction, f.Err)
	}
	return "sync aborted: " + strings.Join(msgs, "; ")
}
