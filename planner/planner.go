// Package planner implements a greedy HTN search: starting from a distance
// (structural diff) between the current and target state, it resolves the
// first outstanding change at a time by finding a registered job that can
// address it, recursing into composite Methods and terminating on atomic
// Actions, until the distance reaches zero or the search exhausts its depth
// budget. For each change the candidate intents are tried in order and the
// first that succeeds is kept; earlier choices are never revisited, and only
// the first op of the distance is considered at each step, so a change that
// no candidate can realize ends the search with that candidate's error.
package planner

import (
	"fmt"

	"github.com/fredrikaverpil/compass"
	"github.com/fredrikaverpil/compass/domain"
	"github.com/fredrikaverpil/compass/task"
	"github.com/fredrikaverpil/compass/workflow"
)

// MaxDepth bounds the search: the planner gives up with MaxDepthReached
// after this many resolved operations, matching spec.md's 256-node cap.
const MaxDepth = 256

// Planner searches a Domain for a Workflow that carries a state from its
// current value to a target value.
type Planner struct {
	domain *domain.Domain
}

// New builds a Planner over the given domain.
func New(d *domain.Domain) *Planner {
	return &Planner{domain: d}
}

// FindWorkflow searches for a workflow that transforms state into target.
// It does not mutate state; callers that want the result applied should
// run the returned Workflow themselves.
func (p *Planner) FindWorkflow(state *compass.State, target any) (*workflow.Workflow, error) {
	cur := state.Clone()
	wf := &workflow.Workflow{}
	visited := map[string]bool{}
	depth := 0
	for {
		distance := compass.Diff(compass.MustPath("/"), cur.Root(), target)
		if distance.Empty() {
			return wf, nil
		}
		if depth >= MaxDepth {
			return nil, compass.NewMaxDepthReachedError(fmt.Sprintf("compass/planner: exceeded %d resolved operations", MaxDepth))
		}
		depth++

		op := distance.Ops[0]
		units, newState, err := p.tryOp(cur, op, visited, depth)
		if err != nil {
			return nil, err
		}
		for _, u := range units {
			wf.AppendSequential(u)
		}
		cur = newState
	}
}

func goalOperation(op compass.Op) task.Operation {
	switch op.Kind {
	case compass.OpAssign:
		return task.OperationUpdate
	case compass.OpRemove:
		return task.OperationDelete
	default:
		return task.OperationAny
	}
}

// tryOp resolves a single structural diff op by finding, among the domain's
// registered intents at op.Path, one whose job can realize it — recursing
// through composite Methods and terminating on atomic Actions. It returns
// the WorkUnits produced and the state as it would be after applying them.
func (p *Planner) tryOp(state *compass.State, op compass.Op, visited map[string]bool, depth int) ([]workflow.WorkUnit, *compass.State, error) {
	match, ok := p.domain.Resolve(op.Path)
	if !ok {
		return nil, nil, compass.NewNotFoundError(fmt.Sprintf("compass/planner: no route registered for path %q", op.Path.String()))
	}
	goal := goalOperation(op)

	var lastErr error = compass.NewNotFoundError(fmt.Sprintf("compass/planner: no applicable intent for path %q", op.Path.String()))
	for _, intent := range match.Intents {
		if intent.Operation == task.OperationNone {
			continue
		}
		if !(intent.Operation.Matches(goal) || intent.Operation != task.OperationAny) {
			continue
		}
		ctx := compass.NewContext(op.Path, match.Args)
		if op.Kind == compass.OpAssign {
			ctx = ctx.WithTarget(op.Value)
		}
		units, newState, err := p.tryTask(state, task.NewTask(intent.Job, ctx), visited, depth)
		if err == nil {
			return units, newState, nil
		}
		if !compass.IsBenign(err) {
			return nil, nil, err
		}
		lastErr = err
	}
	return nil, nil, lastErr
}

// tryTask attempts to realize a single task, branching on whether its job
// is an atomic Action or a composite Method.
func (p *Planner) tryTask(state *compass.State, t task.Task, visited map[string]bool, depth int) ([]workflow.WorkUnit, *compass.State, error) {
	if depth > MaxDepth {
		return nil, nil, compass.NewMaxDepthReachedError(fmt.Sprintf("compass/planner: exceeded %d resolved operations", MaxDepth))
	}

	if action, ok := t.IsAction(); ok {
		patch, err := action.DryRun(state, t.Context)
		if err != nil {
			return nil, nil, err
		}
		stateAtPath, _ := state.Resolve(t.Context.Path)
		unit, err := workflow.NewWorkUnit(t.ID(), t.Context.Path, action, t.Context, t.Context.Target, stateAtPath, action.Scoped())
		if err != nil {
			return nil, nil, err
		}
		if visited[unit.ID] {
			return nil, nil, compass.NewLoopDetectedError(fmt.Sprintf("compass/planner: loop detected replaying %s", unit.String()))
		}
		visited[unit.ID] = true
		next := state.Clone()
		if err := next.Apply(patch); err != nil {
			return nil, nil, err
		}
		return []workflow.WorkUnit{unit}, next, nil
	}

	method, ok := t.IsMethod()
	if !ok {
		return nil, nil, compass.NewUnexpectedError("compass/planner: task is neither Action nor Method", nil)
	}
	subtasks, err := method.Expand(state, t.Context)
	if err != nil {
		return nil, nil, err
	}
	if len(subtasks) == 0 {
		return nil, nil, compass.NewConditionFailedError(fmt.Sprintf("compass/planner: method %s not applicable at %q", t.ID(), t.Context.Path.String()))
	}
	cur := state
	var units []workflow.WorkUnit
	for _, sub := range subtasks {
		subUnits, next, err := p.tryTask(cur, sub, visited, depth+1)
		if err != nil {
			return nil, nil, err
		}
		units = append(units, subUnits...)
		cur = next
	}
	return units, cur, nil
}
