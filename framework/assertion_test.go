package framework

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func responseOutcome(status int, body string) Outcome {
	return Outcome{Response: &Response{StatusCode: status, Header: http.Header{}, Body: ParseBody([]byte(body))}}
}

func TestEvaluateTransportFailure(t *testing.T) {
	tc := TestCase{Name: "list nodes", Method: "GET", Path: "/nodes", Expect: Expect(Status(200))}
	result := Evaluate(tc, Outcome{Failure: &TransportFailure{Kind: FailureConnection, Message: "connection refused"}})

	assert.False(t, result.Success)
	assert.Equal(t, KindTransportFailure, result.Kind)
	assert.Contains(t, result.Message, "connection_error")
	assert.Contains(t, result.Message, "connection refused")
	assert.Equal(t, 0, result.StatusCode)
}

func TestEvaluateWrongStatus(t *testing.T) {
	tc := TestCase{Name: "duplicate", Expect: Expect(Status(400), FieldContains("error", "already exists"))}
	result := Evaluate(tc, responseOutcome(200, `{"user":{"id":"1"}}`))

	assert.False(t, result.Success)
	assert.Equal(t, KindContractMismatch, result.Kind)
	assert.Equal(t, "expected {400}, got 200", result.Message)
	assert.Equal(t, 200, result.StatusCode)
	assert.Equal(t, `{"user":{"id":"1"}}`, result.Body)
}

func TestEvaluateWrongStatusIncludesErrorDetail(t *testing.T) {
	tc := TestCase{Name: "signup", Expect: Expect(Status(200))}
	result := Evaluate(tc, responseOutcome(500, `{"error":"Internal server error"}`))

	assert.Equal(t, "expected {200}, got 500 (Internal server error)", result.Message)
}

func TestEvaluateRequiredMessageNeedsExactStatusAndSubstring(t *testing.T) {
	tc := TestCase{Name: "missing password", Expect: Expect(Status(400), FieldContainsFold("error", "required"))}

	ok := Evaluate(tc, responseOutcome(400, `{"error":"Username and password are REQUIRED"}`))
	assert.True(t, ok.Success)
	assert.Equal(t, KindRejectedAsExpected, ok.Kind)

	wrongStatus := Evaluate(tc, responseOutcome(422, `{"error":"password is required"}`))
	assert.False(t, wrongStatus.Success)
	assert.Equal(t, KindContractMismatch, wrongStatus.Kind)

	wrongMessage := Evaluate(tc, responseOutcome(400, `{"error":"bad request"}`))
	assert.False(t, wrongMessage.Success)
	assert.Equal(t, KindBodyMismatch, wrongMessage.Kind)
	assert.Contains(t, wrongMessage.Message, "body.error")
}

func TestEvaluateLowerBoundStatus(t *testing.T) {
	tc := TestCase{Name: "malformed json", Expect: Expect(StatusAtLeast(400))}

	for _, status := range []int{400, 415, 500} {
		result := Evaluate(tc, responseOutcome(status, "Bad Request"))
		assert.True(t, result.Success, "status %d", status)
		assert.Equal(t, KindRejectedAsExpected, result.Kind)
	}
	result := Evaluate(tc, responseOutcome(200, `{}`))
	assert.False(t, result.Success)
	assert.Equal(t, "expected ≥400, got 200", result.Message)
}

func TestEvaluateNonJSONBodyWhenStructureExpected(t *testing.T) {
	tc := TestCase{Name: "nodes", Expect: Expect(Status(200), ListField("nodes", 1))}
	result := Evaluate(tc, responseOutcome(200, "<html></html>"))

	assert.False(t, result.Success)
	assert.Equal(t, KindBodyMismatch, result.Kind)
	assert.Contains(t, result.Message, "JSON")
	assert.Equal(t, "<html></html>", result.Body)
}

func TestEvaluateEmptyBodyWhenStructureExpected(t *testing.T) {
	tc := TestCase{Name: "nodes", Expect: Expect(Status(200), ListField("nodes", 1))}
	result := Evaluate(tc, responseOutcome(200, ""))

	assert.Equal(t, KindBodyMismatch, result.Kind)
}

func TestEvaluateNoBodyChecksAcceptsAnyBody(t *testing.T) {
	tc := TestCase{Name: "status only", Expect: Expect(Status(200))}
	result := Evaluate(tc, responseOutcome(200, "not json"))

	assert.True(t, result.Success)
	assert.Equal(t, KindPassed, result.Kind)
	assert.Equal(t, "HTTP 200", result.Message)
}

func TestEvaluateMarksFallbackDependencies(t *testing.T) {
	tc := TestCase{
		Name:      "referrals",
		Expect:    Expect(Status(200)),
		DependsOn: []Captured{Capture("username", "alice"), FallbackFor("userId", "", "producing step contract-mismatch")},
	}
	result := Evaluate(tc, responseOutcome(200, `{}`))

	assert.True(t, result.Success)
	assert.True(t, result.Fallback)
	assert.Equal(t, `[fallback: userId="" (producing step contract-mismatch)] HTTP 200`, result.Message)
}

func TestEvaluatePanicInBodyCheckIsBodyMismatch(t *testing.T) {
	tc := TestCase{Name: "bad check", Expect: Expect(Status(200), func(t *Checker, body Body) {
		panic("oops")
	})}
	result := Evaluate(tc, responseOutcome(200, `{}`))

	assert.Equal(t, KindBodyMismatch, result.Kind)
	assert.Contains(t, result.Message, "oops")
}

func TestCheckerStopsAtRequireFailure(t *testing.T) {
	problems := runCheck(func(t *Checker, body Body) {
		assert.Fail(t, "first")
		require.Fail(t, "second")
		assert.Fail(t, "third")
	}, ParseBody([]byte(`{}`)))

	assert.Equal(t, []string{"first", "second"}, problems)
}

func TestReformatAssertionMessage(t *testing.T) {
	message := "\n\tError Trace:\tchecks.go:12\n" +
		"\tError:      \tNot equal: \n" +
		"\t            \texpected: \"bob\"\n" +
		"\t            \tactual  : \"alice\"\n" +
		"\t            \t\n" +
		"\t            \tDiff:\n" +
		"\t            \t--- Expected\n" +
		"\tMessages:   \tbody.user.username\n"

	assert.Equal(t, `Not equal: expected: "bob" actual  : "alice" (body.user.username)`, reformatAssertionMessage(message))
	assert.Equal(t, "plain message", reformatAssertionMessage(" plain message\n"))
}

func TestStatusExpectationString(t *testing.T) {
	assert.Equal(t, "{400}", Status(400).String())
	assert.Equal(t, "{200, 201}", Status(201, 200).String())
	assert.Equal(t, "≥400", StatusAtLeast(400).String())
	assert.Equal(t, "any status", StatusExpectation{}.String())
	assert.True(t, StatusExpectation{}.Matches(503))
}
