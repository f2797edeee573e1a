package task

import (
	"context"
	"fmt"
	"reflect"

	"github.com/fredrikaverpil/compass"
	"github.com/fredrikaverpil/compass/effect"
)

var patchEffectType = reflect.TypeOf(effect.Effect[compass.Patch]{})

// Action is an atomic job: its handler returns an effect.Effect[compass.Patch]
// (a pure dry-run projection, optionally paired with an IO realization step)
// and an error.
type Action struct {
	*binding
}

// NewAction lifts a handler func(extractors...) (effect.Effect[compass.Patch], error)
// into an Action job. Panics if the handler's signature does not match —
// this is a programmer error, equivalent to a compile-time trait-bound
// failure in the source this is ported from.
func NewAction(fn any) *Action {
	b := newBinding(fn, KindAction)
	t := b.fn.Type()
	if t.NumOut() != 2 {
		panic(fmt.Sprintf("compass/task: action handler %s must return (effect.Effect[compass.Patch], error)", b.id))
	}
	if t.Out(0) != patchEffectType {
		panic(fmt.Sprintf("compass/task: action handler %s's first return must be effect.Effect[compass.Patch], got %s", b.id, t.Out(0)))
	}
	if !t.Out(1).Implements(errorType) {
		panic(fmt.Sprintf("compass/task: action handler %s's second return must be error", b.id))
	}
	return &Action{binding: b}
}

// DryRun evaluates the action's pure projection only, as the planner does
// during search; no IO step runs.
func (a *Action) DryRun(state *compass.State, ctx compass.Context) (compass.Patch, error) {
	eff, err := a.invoke(state, ctx)
	if err != nil {
		return compass.Patch{}, err
	}
	return eff.DryRun()
}

// Run evaluates the action's pure projection and then, if present, its IO
// realization step.
func (a *Action) Run(ctx context.Context, state *compass.State, taskCtx compass.Context) (compass.Patch, error) {
	eff, err := a.invoke(state, taskCtx)
	if err != nil {
		return compass.Patch{}, err
	}
	return eff.Run(ctx)
}

func (a *Action) invoke(state *compass.State, ctx compass.Context) (effect.Effect[compass.Patch], error) {
	args, err := a.resolveArgs(state, ctx)
	if err != nil {
		return effect.Effect[compass.Patch]{}, err
	}
	out, err := a.call(args)
	if err != nil {
		return effect.Effect[compass.Patch]{}, err
	}
	if errVal := out[1].Interface(); errVal != nil {
		return effect.Effect[compass.Patch]{}, errVal.(error)
	}
	return out[0].Interface().(effect.Effect[compass.Patch]), nil
}
