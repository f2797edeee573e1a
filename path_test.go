package compass

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathMatchAndRender(t *testing.T) {
	tmpl := MustPath("/counters/{name}/value")
	concrete, err := ParsePath("/counters/alpha/value")
	require.NoError(t, err)

	args, ok := tmpl.Match(concrete)
	require.True(t, ok)
	assert.Equal(t, "alpha", args["name"])

	rendered, err := tmpl.Render(map[string]string{"name": "alpha"})
	require.NoError(t, err)
	assert.Equal(t, concrete.String(), rendered.String())
}

func TestPathWildcard(t *testing.T) {
	tmpl := MustPath("/blobs/{*rest}")
	concrete := MustPath("/blobs/a/b/c")
	args, ok := tmpl.Match(concrete)
	require.True(t, ok)
	assert.Equal(t, "a/b/c", args["rest"])
}

func TestPathLiteralEscape(t *testing.T) {
	p, err := ParsePath("/{{literal}}")
	require.NoError(t, err)
	assert.False(t, p.IsTemplate())
	assert.Equal(t, []string{"{literal}"}, p.Segments())
}

func TestParsePathRejectsMissingLeadingSlash(t *testing.T) {
	_, err := ParsePath("no-leading-slash")
	assert.Error(t, err)
}

func TestMustPathPanicsOnInvalidLiteral(t *testing.T) {
	assert.Panics(t, func() {
		MustPath("not-a-path")
	})
}

func TestPathSpecificityPrefersLiteral(t *testing.T) {
	literal := MustPath("/counters/total")
	hole := MustPath("/counters/{name}")
	assert.Greater(t, literal.Specificity(), hole.Specificity())
}
