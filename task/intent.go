package task

// Intent is a (job, operation, priority) triple registered against a path
// template in a Domain: it declares that invoking job can satisfy a goal of
// the given Operation kind at that path, with priority breaking ties among
// equally-applicable intents (lower priority value wins).
type Intent struct {
	Job       Job
	Operation Operation
	Priority  int
}

// NewIntent builds an Intent.
func NewIntent(job Job, op Operation, priority int) Intent {
	return Intent{Job: job, Operation: op, Priority: priority}
}

// Less implements the deterministic intent ordering: composite (Method,
// degree 0) jobs before atomic (Action, degree 1) jobs, then by Operation,
// then by Priority ascending, then by job id as a final deterministic
// tie-break.
func (a Intent) Less(b Intent) bool {
	if da, db := a.Job.Degree(), b.Job.Degree(); da != db {
		return da < db
	}
	if a.Operation != b.Operation {
		return a.Operation < b.Operation
	}
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	return a.Job.ID() < b.Job.ID()
}

// SortIntents orders a slice of intents in place per Less.
func SortIntents(intents []Intent) {
	for i := 1; i < len(intents); i++ {
		for j := i; j > 0 && intents[j].Less(intents[j-1]); j-- {
			intents[j], intents[j-1] = intents[j-1], intents[j]
		}
	}
}
