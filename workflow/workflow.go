package workflow

import (
	"context"
	"strings"

	"github.com/fredrikaverpil/compass"
	"golang.org/x/sync/errgroup"
)

// Workflow is a sequence of levels: each level is a set of WorkUnits that
// may run concurrently because every unit in it is independently scoped;
// levels themselves run strictly in order.
type Workflow struct {
	Levels [][]WorkUnit
}

// Empty reports whether the workflow has no work to do.
func (w *Workflow) Empty() bool { return len(w.Levels) == 0 }

// AppendSequential appends a single-unit level, the common case emitted by
// the planner today (it does not yet discover parallel merge
// opportunities across sequential chains, per spec.md's non-goal).
func (w *Workflow) AppendSequential(u WorkUnit) {
	w.Levels = append(w.Levels, []WorkUnit{u})
}

// AppendParallel appends a level containing multiple units intended to run
// concurrently. All units in the level must be Scoped; Run will not
// parallelize an unscoped level.
func (w *Workflow) AppendParallel(units ...WorkUnit) {
	w.Levels = append(w.Levels, units)
}

// String renders the workflow using seq!/par! separators over
// "task_id(path)" nodes, topologically ordered.
func (w *Workflow) String() string {
	if len(w.Levels) == 0 {
		return ""
	}
	rendered := make([]string, len(w.Levels))
	for i, level := range w.Levels {
		rendered[i] = renderLevel(level)
	}
	if len(rendered) == 1 {
		return rendered[0]
	}
	return "seq!(" + strings.Join(rendered, ", ") + ")"
}

func renderLevel(level []WorkUnit) string {
	if len(level) == 1 {
		return level[0].String()
	}
	parts := make([]string, len(level))
	for i, u := range level {
		parts[i] = u.String()
	}
	return "par!(" + strings.Join(parts, ", ") + ")"
}

// Run executes the workflow in topological order against state, applying
// each level's resulting patches before moving to the next. A level whose
// units are all Scoped runs them concurrently via errgroup, matching the
// teacher's Serial/Parallel composition; otherwise units run one at a time.
func (w *Workflow) Run(ctx context.Context, state *compass.State) error {
	for _, level := range w.Levels {
		if allScoped(level) && len(level) > 1 {
			if err := w.runParallel(ctx, state, level); err != nil {
				return err
			}
			continue
		}
		for _, unit := range level {
			if err := w.runOne(ctx, state, unit); err != nil {
				return err
			}
		}
	}
	return nil
}

func allScoped(level []WorkUnit) bool {
	for _, u := range level {
		if !u.Scoped {
			return false
		}
	}
	return true
}

func (w *Workflow) runOne(ctx context.Context, state *compass.State, unit WorkUnit) error {
	patch, err := unit.Action.Run(ctx, state, unit.Context)
	if err != nil {
		return compass.NewTaskFailureError(unit.TaskID, err)
	}
	return state.Apply(patch)
}

// runParallel executes independently-scoped units concurrently, all reading
// the same state (which none of them writes), then applies every resulting
// patch to the shared state once all have succeeded.
func (w *Workflow) runParallel(ctx context.Context, state *compass.State, level []WorkUnit) error {
	patches := make([]compass.Patch, len(level))
	g, gctx := errgroup.WithContext(ctx)
	for i, unit := range level {
		i, unit := i, unit
		g.Go(func() error {
			patch, err := unit.Action.Run(gctx, state, unit.Context)
			if err != nil {
				return compass.NewTaskFailureError(unit.TaskID, err)
			}
			patches[i] = patch
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, patch := range patches {
		if err := state.Apply(patch); err != nil {
			return err
		}
	}
	return nil
}
