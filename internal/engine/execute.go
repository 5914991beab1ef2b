package engine

// executionOrder fixes the order actionable groups are applied in. New
// files go first so directory-creating side effects land before updates
// touch subpaths; restores run before updates so a recreated source copy
// is not immediately clobbered; deletions come last.
var executionOrder = []Decision{DecisionNew, DecisionRestore, DecisionUpdate, DecisionDelete}

// Execute applies a plan's actionable decisions through caps and returns
// the report for the direction-run. Within each group the plan's
// insertion order is preserved. The first capability failure aborts the
// remaining actions of the run and surfaces as an ExecutionError; entries
// already executed stay in the report and are not rolled back.
func Execute(plan *Plan, caps Capabilities) (*Report, error) {
	report := &Report{
		Direction: plan.Direction,
		Groups:    make(map[Decision][]string),
		Failed:    plan.Failed,
	}

	// Terminal no-ops are part of the report from the start.
	for _, e := range plan.Entries {
		if !e.Decision.Actionable() {
			report.Groups[e.Decision] = append(report.Groups[e.Decision], e.Name)
		}
	}

	for _, group := range executionOrder {
		for _, name := range plan.Names(group) {
			if err := apply(group, name, caps); err != nil {
				return report, &ExecutionError{
					Direction: plan.Direction,
					Group:     group,
					Name:      name,
					Err:       err,
				}
			}
			report.Groups[group] = append(report.Groups[group], name)
		}
	}

	return report, nil
}

func apply(group Decision, name string, caps Capabilities) error {
	switch group {
	case DecisionNew, DecisionUpdate:
		return caps.CreateOrUpdateAtDestination(name)
	case DecisionRestore:
		return caps.CreateOrUpdateAtSource(name)
	case DecisionDelete:
		return caps.DeleteAtDestination(name)
	}
	return nil
}
