package task_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredrikaverpil/compass"
	"github.com/fredrikaverpil/compass/effect"
	"github.com/fredrikaverpil/compass/extract"
	"github.com/fredrikaverpil/compass/task"
)

var noop = task.NewAction(func(p extract.Pointer[int]) (effect.Effect[compass.Patch], error) {
	return effect.Pure(func() (compass.Patch, error) { return compass.Patch{}, nil }), nil
})

var noopMethod = task.NewMethod(func(p extract.Pointer[int]) ([]task.Task, error) {
	return nil, nil
})

func TestIntentOrderingCompositeBeforeAtomic(t *testing.T) {
	intents := []task.Intent{
		task.NewIntent(noop, task.OperationUpdate, 10),
		task.NewIntent(noopMethod, task.OperationUpdate, 10),
	}
	task.SortIntents(intents)
	require.Len(t, intents, 2)
	_, isMethod := intents[0].Job.(*task.Method)
	assert.True(t, isMethod, "method should sort before action at equal operation/priority")
}

func TestIntentOrderingPriorityAscending(t *testing.T) {
	low := task.NewIntent(noop, task.OperationUpdate, 1)
	high := task.NewIntent(noop, task.OperationUpdate, 100)
	assert.True(t, low.Less(high))
	assert.False(t, high.Less(low))
}

func TestJobScopedReflectsExtractors(t *testing.T) {
	assert.True(t, noop.Scoped())

	unscoped := task.NewAction(func(s extract.System[int]) (effect.Effect[compass.Patch], error) {
		return effect.Pure(func() (compass.Patch, error) { return compass.Patch{}, nil }), nil
	})
	assert.False(t, unscoped.Scoped())
}
