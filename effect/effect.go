// Package effect provides Effect[T], the pure/io split every Action's
// handler returns: a dry-run-safe pure projection and an optional
// asynchronous realization step.
package effect

import "context"

// Effect is the result of an Action handler: a pure projection of the next
// value (always safe to compute, what the planner calls during search) and
// an optional IO step that performs the real side effect (what the executor
// calls after planning, threading the pure result through it).
type Effect[T any] struct {
	pure func() (T, error)
	io   func(context.Context, T) (T, error)
}

// Pure builds an Effect with no IO step: the pure projection is the final
// value as-is.
func Pure[T any](fn func() (T, error)) Effect[T] {
	return Effect[T]{pure: fn}
}

// WithIO attaches an asynchronous realization step to an existing pure
// Effect, returning a new Effect. The IO step receives the pure result and
// may adjust it (e.g. filling in a server-assigned id) before it is treated
// as final.
func (e Effect[T]) WithIO(io func(context.Context, T) (T, error)) Effect[T] {
	e.io = io
	return e
}

// DryRun evaluates only the pure projection, never touching IO. This is the
// only method the planner's search is allowed to call.
func (e Effect[T]) DryRun() (T, error) {
	return e.pure()
}

// Run evaluates the pure projection, then — if an IO step is attached —
// threads the result through it. This is what the workflow executor calls.
func (e Effect[T]) Run(ctx context.Context) (T, error) {
	v, err := e.pure()
	if err != nil {
		var zero T
		return zero, err
	}
	if e.io == nil {
		return v, nil
	}
	return e.io(ctx, v)
}

// HasIO reports whether this effect carries an asynchronous realization
// step.
func (e Effect[T]) HasIO() bool { return e.io != nil }
