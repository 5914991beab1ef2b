// Package engine decides and applies the minimal set of file operations
// that brings one side of a sync in line with the other. It is the only
// component with decision logic: enumerations, comparisons and mutations
// are all injected by the caller.
package engine

import (
	"errors"
	"fmt"
)

// Reconcile classifies every source name against the destination and
// returns the finalized plan for one direction-run.
//
// source is today's enumeration of the from side and dest the to side.
// prior is a looser from-side enumeration used only for deletion
// detection: destination names absent from prior are resolved through the
// decider's three-way prompt. A nil prior disables deletion detection
// entirely, which is how single-direction runs are expected to call this.
//
// A failed predicate isolates to its file: the name lands in the plan's
// Failed list and classification continues. A failed prompt aborts the
// whole classification, since nothing can be decided without answers.
func Reconcile(dir Direction, source, dest, prior []string, caps Capabilities, decider Decider) (*Plan, error) {
	plan := &Plan{Direction: dir}

	for _, name := range source {
		decision, err := classify(name, dir, caps, decider)
		if err != nil {
			var cmpErr *ComparisonError
			if errors.As(err, &cmpErr) {
				plan.Failed = append(plan.Failed, cmpErr)
				continue
			}
			return nil, err
		}
		plan.Entries = append(plan.Entries, Entry{Name: name, Decision: decision})
	}

	if prior != nil {
		if err := planDeletions(plan, dir, dest, prior, decider); err != nil {
			return nil, err
		}
	}

	return plan, nil
}

// classify runs the per-file decision ladder in its fixed order. Each
// predicate is consulted at most once and only if the previous one did
// not settle the decision.
func classify(name string, dir Direction, caps Capabilities, decider Decider) (Decision, error) {
	exists, err := caps.ExistsInDestination(name)
	if err != nil {
		return "", &ComparisonError{Name: name, Op: "checking existence on " + dir.To, Err: err}
	}
	if !exists {
		return DecisionNew, nil
	}

	equal, err := caps.ContentEqual(name)
	if err != nil {
		return "", &ComparisonError{Name: name, Op: "comparing content", Err: err}
	}
	if equal {
		return DecisionSynced, nil
	}

	newer, err := caps.SourceIsNewer(name)
	if err != nil {
		return "", &ComparisonError{Name: name, Op: "comparing timestamps", Err: err}
	}
	if newer {
		return DecisionUpdate, nil
	}

	// The source copy is older. Overwriting is the human's call.
	ok, err := decider.ConfirmOverwrite(name, dir)
	if err != nil {
		return "", fmt.Errorf("overwrite prompt for %s: %w", name, err)
	}
	if ok {
		return DecisionUpdate, nil
	}
	return DecisionSkipped, nil
}

// planDeletions resolves destination names that the prior source
// enumeration no longer contains. Names the source still has, even ones
// filtered out of today's run, are left alone: narrowed is not deleted.
func planDeletions(plan *Plan, dir Direction, dest, prior []string, decider Decider) error {
	known := make(map[string]bool, len(prior))
	for _, name := range prior {
		known[name] = true
	}

	for _, name := range dest {
		if known[name] {
			continue
		}

		choice, err := decider.ResolveDeletion(name, dir)
		if err != nil {
			return fmt.Errorf("deletion prompt for %s: %w", name, err)
		}

		switch choice {
		case ChoiceDelete:
			plan.Entries = append(plan.Entries, Entry{Name: name, Decision: DecisionDelete})
		case ChoiceRestore:
			plan.Entries = append(plan.Entries, Entry{Name: name, Decision: DecisionRestore})
		default:
			plan.Entries = append(plan.Entries, Entry{Name: name, Decision: DecisionIgnored})
		}
	}

	return nil
}
