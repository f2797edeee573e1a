package effect_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredrikaverpil/compass/effect"
)

func TestDryRunNeverCallsIO(t *testing.T) {
	ioCalled := false
	e := effect.Pure(func() (int, error) { return 1, nil }).
		WithIO(func(ctx context.Context, v int) (int, error) {
			ioCalled = true
			return v + 1, nil
		})

	v, err := e.DryRun()
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.False(t, ioCalled)
}

func TestRunAppliesIOAfterPure(t *testing.T) {
	e := effect.Pure(func() (int, error) { return 1, nil }).
		WithIO(func(ctx context.Context, v int) (int, error) { return v + 1, nil })

	v, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestRunWithoutIOReturnsPureValue(t *testing.T) {
	e := effect.Pure(func() (int, error) { return 7, nil })
	v, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.False(t, e.HasIO())
}
