package framework

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Checker collects the problems found by body checks. It implements require.TestingT, so testify
// assertions can be used in a BodyCheck: assert failures accumulate, and a require failure stops
// the check.
type Checker struct {
	problems []string
}

func (c *Checker) Errorf(format string, args ...interface{}) {
	c.problems = append(c.problems, reformatAssertionMessage(fmt.Sprintf(format, args...)))
}

func (c *Checker) FailNow() {
	panic(c)
}

func (c *Checker) Failed() bool {
	return len(c.problems) != 0
}

// Evaluate applies a test case's expectation to the outcome of executing it. The result's Name is
// the test case name; callers that track hierarchical IDs replace it.
func Evaluate(tc TestCase, outcome Outcome) TestResult {
	result := TestResult{
		Name:      tc.Name,
		Method:    tc.Method,
		Path:      tc.Path,
		Timestamp: time.Now(),
		Duration:  outcome.Duration,
		Curl:      outcome.Curl,
	}

	if outcome.Failure != nil {
		result.Kind = KindTransportFailure
		result.Message = fmt.Sprintf("transport failure (%s): %s", outcome.Failure.Kind, outcome.Failure.Message)
		return markFallback(result, tc.DependsOn)
	}

	resp := outcome.Response
	result.StatusCode = resp.StatusCode
	result.Body = resp.Body.Text()

	if !tc.Expect.Status.Matches(resp.StatusCode) {
		result.Kind = KindContractMismatch
		result.Message = fmt.Sprintf("expected %s, got %d", tc.Expect.Status, resp.StatusCode)
		if detail := errorDetail(resp.Body); detail != "" {
			result.Message += " (" + detail + ")"
		}
		return markFallback(result, tc.DependsOn)
	}

	if problems := checkResponse(tc.Expect.Response, resp); len(problems) != 0 {
		result.Kind = KindBodyMismatch
		result.Message = "response did not match contract: " + strings.Join(problems, "; ")
	} else if problems := checkBody(tc.Expect.Body, resp.Body); len(problems) != 0 {
		result.Kind = KindBodyMismatch
		result.Message = "response body did not match contract: " + strings.Join(problems, "; ")
	} else if resp.StatusCode >= 400 {
		result.Kind = KindRejectedAsExpected
		result.Message = fmt.Sprintf("rejected with HTTP %d as expected", resp.StatusCode)
		if detail := errorDetail(resp.Body); detail != "" {
			result.Message += " (" + detail + ")"
		}
	} else {
		result.Kind = KindPassed
		result.Message = fmt.Sprintf("HTTP %d", resp.StatusCode)
	}
	result.Success = result.Kind.Success()
	return markFallback(result, tc.DependsOn)
}

func checkBody(checks []BodyCheck, body Body) []string {
	if len(checks) == 0 {
		return nil
	}
	if !body.IsJSON() {
		return []string{fmt.Sprintf("expected a JSON body but could not parse it (%s)", body.ParseError)}
	}
	var problems []string
	for _, check := range checks {
		problems = append(problems, runCheck(check, body)...)
	}
	return problems
}

func checkResponse(checks []ResponseCheck, resp *Response) []string {
	var problems []string
	for _, check := range checks {
		problems = append(problems, runCheck(func(t *Checker, _ Body) { check(t, resp) }, resp.Body)...)
	}
	return problems
}

func runCheck(check BodyCheck, body Body) (problems []string) {
	c := &Checker{}
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(*Checker); !ok {
				c.problems = append(c.problems, fmt.Sprintf("unexpected panic in body check: %+v", r))
			} else if len(c.problems) == 0 {
				c.problems = append(c.problems, "body check failed with no failure message")
			}
		}
		problems = c.problems
	}()
	check(c, body)
	return nil
}

// errorDetail returns the "error" or "message" property of a JSON error response, if any.
func errorDetail(body Body) string {
	for _, key := range []string{"error", "message"} {
		if v, ok := body.Lookup(key); ok && v.StringValue() != "" {
			return v.StringValue()
		}
	}
	return ""
}

func markFallback(result TestResult, deps []Captured) TestResult {
	var notes []string
	for _, d := range deps {
		if d.Fallback {
			notes = append(notes, d.String())
		}
	}
	if len(notes) > 0 {
		result.Fallback = true
		result.Message = "[fallback: " + strings.Join(notes, ", ") + "] " + result.Message
	}
	return result
}

var testifyLabelRegex = regexp.MustCompile(`^\s*([A-Z][A-Za-z ]*):\s*\t(.*)$`)

// reformatAssertionMessage condenses testify's multi-line "Error Trace / Error / Messages" output
// into one line. Messages that are not in that format are returned trimmed.
func reformatAssertionMessage(message string) string {
	sections := make(map[string][]string)
	label := ""
	for _, line := range strings.Split(message, "\n") {
		if m := testifyLabelRegex.FindStringSubmatch(line); m != nil {
			label = strings.TrimSpace(m[1])
			line = m[2]
		}
		if label == "" {
			continue
		}
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			sections[label] = append(sections[label], trimmed)
		}
	}
	errorText := sections["Error"]
	if len(errorText) == 0 {
		return strings.TrimSpace(message)
	}
	if i := indexOf(errorText, "Diff:"); i >= 0 {
		errorText = errorText[:i]
	}
	out := strings.Join(errorText, " ")
	if msgs := sections["Messages"]; len(msgs) > 0 {
		out += " (" + strings.Join(msgs, " ") + ")"
	}
	return out
}

func indexOf(lines []string, s string) int {
	for i, l := range lines {
		if l == s {
			return i
		}
	}
	return -1
}
