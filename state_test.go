package compass

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateResolveAssignDelete(t *testing.T) {
	s := NewState(map[string]any{"a": map[string]any{"b": float64(1)}})

	v, ok := s.Resolve(MustPath("/a/b"))
	require.True(t, ok)
	assert.Equal(t, float64(1), v)

	require.NoError(t, s.Assign(MustPath("/a/c"), float64(2)))
	v, ok = s.Resolve(MustPath("/a/c"))
	require.True(t, ok)
	assert.Equal(t, float64(2), v)

	require.NoError(t, s.Delete(MustPath("/a/b")))
	_, ok = s.Resolve(MustPath("/a/b"))
	assert.False(t, ok)
}

func TestDiffScalarChange(t *testing.T) {
	patch := Diff(MustPath("/"), map[string]any{"x": float64(1)}, map[string]any{"x": float64(2)})
	require.Len(t, patch.Ops, 1)
	assert.Equal(t, OpAssign, patch.Ops[0].Kind)
	assert.Equal(t, "/x", patch.Ops[0].Path.String())
	assert.Equal(t, float64(2), patch.Ops[0].Value)
}

func TestDiffEmptyWhenEqual(t *testing.T) {
	patch := Diff(MustPath("/"), map[string]any{"x": float64(1)}, map[string]any{"x": float64(1)})
	assert.True(t, patch.Empty())
}

// TestArrayDeleteLastIsPlainRemove covers the simple half of the array
// delete invariant: removing the final element is a bare remove op.
func TestArrayDeleteLastIsPlainRemove(t *testing.T) {
	from := []any{"a", "b", "c"}
	to := []any{"a", "b"}
	patch := Diff(MustPath("/items"), from, to)
	require.Len(t, patch.Ops, 1)
	assert.Equal(t, OpRemove, patch.Ops[0].Kind)
	assert.Equal(t, "/items/2", patch.Ops[0].Path.String())
}

// TestArrayDeleteMiddleIsReplaceThenRemove is the scenario-F invariant:
// deleting an interior element must be modeled as assigning its successor
// into its slot, followed by removing what is now the (duplicated) last
// slot — never as a single remove at the interior index, since that would
// silently shift every later index without a corresponding recorded op.
func TestArrayDeleteMiddleIsReplaceThenRemove(t *testing.T) {
	from := []any{"a", "b", "c"}
	to := []any{"a", "c"}
	patch := Diff(MustPath("/items"), from, to)
	require.Len(t, patch.Ops, 2)
	assert.Equal(t, OpAssign, patch.Ops[0].Kind)
	assert.Equal(t, "/items/1", patch.Ops[0].Path.String())
	assert.Equal(t, "c", patch.Ops[0].Value)
	assert.Equal(t, OpRemove, patch.Ops[1].Kind)
	assert.Equal(t, "/items/2", patch.Ops[1].Path.String())

	s := NewState(map[string]any{"items": append([]any{}, from...)})
	require.NoError(t, s.Apply(patch))
	v, ok := s.Resolve(MustPath("/items"))
	require.True(t, ok)
	assert.Equal(t, to, v)
}

func TestApplyPatchRoundtrips(t *testing.T) {
	from := map[string]any{"counters": map[string]any{"a": float64(1), "b": float64(2)}}
	to := map[string]any{"counters": map[string]any{"a": float64(5)}}
	patch := Diff(MustPath("/"), from, to)

	s := NewState(from)
	require.NoError(t, s.Apply(patch))
	assert.Equal(t, to, s.Root())
}

func TestCanonicalIsOrderIndependent(t *testing.T) {
	a, err := Canonical(map[string]any{"b": 1, "a": 2})
	require.NoError(t, err)
	b, err := Canonical(map[string]any{"a": 2, "b": 1})
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}
