package framework

import (
	"fmt"
	"strings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// RequireField fails the check immediately if the body has no value at path, and otherwise
// returns the value.
func RequireField(t *Checker, body Body, path string) ldvalue.Value {
	v, ok := body.Lookup(path)
	if !ok {
		require.Fail(t, fmt.Sprintf("body.%s is missing", path))
	}
	return v
}

// FieldPresent requires that the body has a value at path.
func FieldPresent(path string) BodyCheck {
	return func(t *Checker, body Body) {
		RequireField(t, body, path)
	}
}

// FieldsPresent requires that the body has a value at each of the paths.
func FieldsPresent(paths ...string) BodyCheck {
	return func(t *Checker, body Body) {
		for _, p := range paths {
			if _, ok := body.Lookup(p); !ok {
				assert.Fail(t, fmt.Sprintf("body.%s is missing", p))
			}
		}
	}
}

// FieldEquals requires that the value at path is equal to the expected value.
func FieldEquals(path string, expected ldvalue.Value) BodyCheck {
	return func(t *Checker, body Body) {
		v := RequireField(t, body, path)
		assert.True(t, expected.Equal(v), "body.%s: expected %s, got %s", path, expected.JSONString(), v.JSONString())
	}
}

// FieldEqualsString requires that the value at path is the given string.
func FieldEqualsString(path, expected string) BodyCheck {
	return FieldEquals(path, ldvalue.String(expected))
}

// FieldContains requires that the value at path is a string containing substring.
func FieldContains(path, substring string) BodyCheck {
	return func(t *Checker, body Body) {
		v := requireString(t, body, path)
		assert.Contains(t, v, substring, "body.%s", path)
	}
}

// FieldContainsFold is like FieldContains but ignores case.
func FieldContainsFold(path, substring string) BodyCheck {
	return func(t *Checker, body Body) {
		v := requireString(t, body, path)
		assert.Contains(t, strings.ToLower(v), strings.ToLower(substring), "body.%s (case-insensitive)", path)
	}
}

// FieldContainsAny requires that the string at path contains at least one of the alternatives.
func FieldContainsAny(path string, alternatives ...string) BodyCheck {
	return func(t *Checker, body Body) {
		v := requireString(t, body, path)
		for _, a := range alternatives {
			if strings.Contains(v, a) {
				return
			}
		}
		assert.Fail(t, fmt.Sprintf("body.%s was %q, expected it to contain one of %q", path, v, alternatives))
	}
}

// ListField requires that the value at path is an array with at least minItems elements.
func ListField(path string, minItems int) BodyCheck {
	return func(t *Checker, body Body) {
		v := RequireField(t, body, path)
		require.Equal(t, ldvalue.ArrayType, v.Type(), "body.%s should be a list", path)
		assert.GreaterOrEqual(t, v.Count(), minItems, "body.%s should have at least %d item(s)", path, minItems)
	}
}

// ObjectHasFields requires that the value at path is an object with all of the given properties.
func ObjectHasFields(path string, fields ...string) BodyCheck {
	return func(t *Checker, body Body) {
		v := RequireField(t, body, path)
		require.Equal(t, ldvalue.ObjectType, v.Type(), "body.%s should be an object", path)
		for _, f := range fields {
			assert.True(t, hasKey(v, f), "body.%s.%s is missing", path, f)
		}
	}
}

// EveryItemHasFields requires that the value at path is an array of objects that all have the
// given properties. An empty array passes.
func EveryItemHasFields(path string, fields ...string) BodyCheck {
	return func(t *Checker, body Body) {
		v := RequireField(t, body, path)
		require.Equal(t, ldvalue.ArrayType, v.Type(), "body.%s should be a list", path)
		for i := 0; i < v.Count(); i++ {
			item := v.GetByIndex(i)
			if !assert.Equal(t, ldvalue.ObjectType, item.Type(), "body.%s.%d should be an object", path, i) {
				continue
			}
			for _, f := range fields {
				assert.True(t, hasKey(item, f), "body.%s.%d.%s is missing", path, i, f)
			}
		}
	}
}

// FirstItemHasFields is like EveryItemHasFields but only looks at the first element.
func FirstItemHasFields(path string, fields ...string) BodyCheck {
	return func(t *Checker, body Body) {
		v := RequireField(t, body, path)
		require.Equal(t, ldvalue.ArrayType, v.Type(), "body.%s should be a list", path)
		if v.Count() == 0 {
			return
		}
		first := v.GetByIndex(0)
		require.Equal(t, ldvalue.ObjectType, first.Type(), "body.%s.0 should be an object", path)
		for _, f := range fields {
			assert.True(t, hasKey(first, f), "body.%s.0.%s is missing", path, f)
		}
	}
}

func requireString(t *Checker, body Body, path string) string {
	v := RequireField(t, body, path)
	require.Equal(t, ldvalue.StringType, v.Type(), "body.%s should be a string", path)
	return v.StringValue()
}

// HeadersPresent requires that at least minimum of the named headers are present in the
// response, with any value.
func HeadersPresent(minimum int, names ...string) ResponseCheck {
	return func(t *Checker, resp *Response) {
		var missing []string
		for _, name := range names {
			if resp.Header.Get(name) == "" {
				missing = append(missing, name)
			}
		}
		present := len(names) - len(missing)
		if present < minimum {
			assert.Fail(t, fmt.Sprintf("only %d of %d expected headers present, need %d; missing: %s",
				present, len(names), minimum, strings.Join(missing, ", ")))
		}
	}
}
