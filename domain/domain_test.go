package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredrikaverpil/compass"
	"github.com/fredrikaverpil/compass/domain"
	"github.com/fredrikaverpil/compass/effect"
	"github.com/fredrikaverpil/compass/extract"
	"github.com/fredrikaverpil/compass/task"
)

var dummy = task.NewAction(func(p extract.Pointer[int]) (effect.Effect[compass.Patch], error) {
	return effect.Pure(func() (compass.Patch, error) { return compass.Patch{}, nil }), nil
})

var other = task.NewAction(func(p extract.Pointer[int]) (effect.Effect[compass.Patch], error) {
	return effect.Pure(func() (compass.Patch, error) { return compass.Patch{}, nil }), nil
})

func TestResolveLongestMatch(t *testing.T) {
	d := domain.New()
	d.Job(compass.MustPath("/counters/{name}"), task.NewIntent(dummy, task.OperationUpdate, 50))
	d.Job(compass.MustPath("/counters/total"), task.NewIntent(other, task.OperationUpdate, 50))

	m, ok := d.Resolve(compass.MustPath("/counters/total"))
	require.True(t, ok)
	assert.Equal(t, "/counters/total", m.Template.String())

	m, ok = d.Resolve(compass.MustPath("/counters/alpha"))
	require.True(t, ok)
	assert.Equal(t, "/counters/{name}", m.Template.String())
	assert.Equal(t, "alpha", m.Args["name"])
}

func TestFindPathForJob(t *testing.T) {
	d := domain.New()
	d.Job(compass.MustPath("/counters/{name}"), task.NewIntent(dummy, task.OperationUpdate, 50))

	p, err := d.FindPathForJob(dummy.ID(), map[string]string{"name": "alpha"})
	require.NoError(t, err)
	assert.Equal(t, "/counters/alpha", p.String())

	_, err = d.FindPathForJob("nonexistent", nil)
	assert.Error(t, err)
}

func TestJobCannotRegisterUnderTwoTemplates(t *testing.T) {
	d := domain.New()
	d.Job(compass.MustPath("/a"), task.NewIntent(dummy, task.OperationUpdate, 0))
	assert.Panics(t, func() {
		d.Job(compass.MustPath("/b"), task.NewIntent(dummy, task.OperationUpdate, 0))
	})
}

func TestJobCannotRegisterSameRouteOperationTwice(t *testing.T) {
	d := domain.New()
	d.Job(compass.MustPath("/a"), task.NewIntent(dummy, task.OperationUpdate, 0))
	assert.Panics(t, func() {
		d.Job(compass.MustPath("/a"), task.NewIntent(dummy, task.OperationUpdate, 1))
	})
}
