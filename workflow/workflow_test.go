package workflow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredrikaverpil/compass"
	"github.com/fredrikaverpil/compass/effect"
	"github.com/fredrikaverpil/compass/extract"
	"github.com/fredrikaverpil/compass/task"
	"github.com/fredrikaverpil/compass/workflow"
)

var setAction = task.NewAction(func(p extract.Pointer[int], target extract.Target[int]) (effect.Effect[compass.Patch], error) {
	return effect.Pure(func() (compass.Patch, error) {
		return compass.Patch{Ops: []compass.Op{p.Assign(target.Get())}}, nil
	}), nil
})

func newUnit(t *testing.T, path compass.Path, value int) workflow.WorkUnit {
	t.Helper()
	ctx := compass.NewContext(path, nil).WithTarget(value)
	u, err := workflow.NewWorkUnit(setAction.ID(), path, setAction, ctx, value, nil, true)
	require.NoError(t, err)
	return u
}

func TestWorkflowStringSequential(t *testing.T) {
	wf := &workflow.Workflow{}
	wf.AppendSequential(newUnit(t, compass.MustPath("/a"), 1))
	wf.AppendSequential(newUnit(t, compass.MustPath("/b"), 2))

	rendered := wf.String()
	assert.Contains(t, rendered, "seq!(")
	assert.Contains(t, rendered, "/a")
	assert.Contains(t, rendered, "/b")
}

func TestWorkflowStringParallel(t *testing.T) {
	wf := &workflow.Workflow{}
	wf.AppendParallel(newUnit(t, compass.MustPath("/a"), 1), newUnit(t, compass.MustPath("/b"), 2))

	rendered := wf.String()
	assert.Contains(t, rendered, "par!(")
}

func TestWorkflowRunAppliesPatchesInOrder(t *testing.T) {
	state := compass.NewState(map[string]any{})
	wf := &workflow.Workflow{}
	wf.AppendSequential(newUnit(t, compass.MustPath("/a"), 1))
	wf.AppendSequential(newUnit(t, compass.MustPath("/b"), 2))

	require.NoError(t, wf.Run(t.Context(), state))

	v, ok := state.Resolve(compass.MustPath("/a"))
	require.True(t, ok)
	assert.EqualValues(t, 1, v)
	v, ok = state.Resolve(compass.MustPath("/b"))
	require.True(t, ok)
	assert.EqualValues(t, 2, v)
}

func TestWorkflowRunParallelLevel(t *testing.T) {
	state := compass.NewState(map[string]any{})
	wf := &workflow.Workflow{}
	wf.AppendParallel(newUnit(t, compass.MustPath("/a"), 1), newUnit(t, compass.MustPath("/b"), 2))

	require.NoError(t, wf.Run(t.Context(), state))

	v, ok := state.Resolve(compass.MustPath("/a"))
	require.True(t, ok)
	assert.EqualValues(t, 1, v)
	v, ok = state.Resolve(compass.MustPath("/b"))
	require.True(t, ok)
	assert.EqualValues(t, 2, v)
}

func TestWorkUnitIDStable(t *testing.T) {
	ctx := compass.NewContext(compass.MustPath("/a"), nil).WithTarget(1)
	u1, err := workflow.NewWorkUnit("job", compass.MustPath("/a"), setAction, ctx, 1, nil, true)
	require.NoError(t, err)
	u2, err := workflow.NewWorkUnit("job", compass.MustPath("/a"), setAction, ctx, 1, nil, true)
	require.NoError(t, err)
	assert.Equal(t, u1.ID, u2.ID)

	u3, err := workflow.NewWorkUnit("job", compass.MustPath("/a"), setAction, ctx, 2, nil, true)
	require.NoError(t, err)
	assert.NotEqual(t, u1.ID, u3.ID)
}
