package framework

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegexFilters(t *testing.T) {
	var filters RegexFilters
	id := func(path ...string) TestID { return TestID{Path: path} }

	assert.True(t, filters.AsFilter(id("auth", "signup", "success")))

	require.NoError(t, filters.MustMatch.Set("^auth/"))
	require.NoError(t, filters.MustNotMatch.Set("duplicate"))

	assert.True(t, filters.AsFilter(id("auth", "signup", "success")))
	assert.False(t, filters.AsFilter(id("auth", "signup", "duplicate username")))
	assert.False(t, filters.AsFilter(id("nodes", "list")))

	assert.Error(t, filters.MustMatch.Set("("))
}

func TestRegexFiltersDescribe(t *testing.T) {
	var out bytes.Buffer
	var filters RegexFilters
	filters.Describe(&out)
	assert.Empty(t, out.String())

	require.NoError(t, filters.MustMatch.Set("nodes"))
	filters.Describe(&out)
	assert.Contains(t, out.String(), `skip any not matching "nodes"`)
	assert.NotContains(t, out.String(), "skip any matching")
}
