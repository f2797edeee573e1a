package task

import "github.com/fredrikaverpil/compass"

// Task pairs a Job with the Context it is to be invoked under.
type Task struct {
	Job     Job
	Context compass.Context
}

// NewTask builds a Task from a job and a concrete path-bound context.
func NewTask(j Job, ctx compass.Context) Task {
	return Task{Job: j, Context: ctx}
}

// WithArg returns a copy of the task with an additional named arg merged
// into its context.
func (t Task) WithArg(name, value string) Task {
	t.Context = t.Context.WithArg(name, value)
	return t
}

// WithTarget returns a copy of the task with its context target set.
func (t Task) WithTarget(v any) Task {
	t.Context = t.Context.WithTarget(v)
	return t
}

// ID returns the underlying job's identity.
func (t Task) ID() string { return t.Job.ID() }

// IsAction reports whether this task's job is an atomic Action.
func (t Task) IsAction() (*Action, bool) {
	a, ok := t.Job.(*Action)
	return a, ok
}

// IsMethod reports whether this task's job is a composite Method.
func (t Task) IsMethod() (*Method, bool) {
	m, ok := t.Job.(*Method)
	return m, ok
}
