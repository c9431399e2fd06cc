package framework

import (
	"strings"
	"time"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// ResultKind classifies the outcome of a single test case.
type ResultKind string

const (
	// KindPassed means the response matched the expected contract.
	KindPassed ResultKind = "passed"
	// KindRejectedAsExpected means the service correctly rejected a deliberately invalid request.
	// This is a success.
	KindRejectedAsExpected ResultKind = "rejected-as-expected"
	// KindTransportFailure means no HTTP response was obtained (timeout, refused or dropped
	// connection, or some other client-side error).
	KindTransportFailure ResultKind = "transport-failure"
	// KindContractMismatch means the response status was not one of the expected statuses.
	KindContractMismatch ResultKind = "contract-mismatch"
	// KindBodyMismatch means the status was right but the body did not have the expected shape.
	KindBodyMismatch ResultKind = "body-mismatch"
	// KindHarnessError means the test code itself panicked.
	KindHarnessError ResultKind = "harness-error"
)

// Success returns true for the kinds that count as a passing test.
func (k ResultKind) Success() bool {
	return k == KindPassed || k == KindRejectedAsExpected
}

type TestID struct {
	Path []string
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

// Plus returns the ID of a child of this test or group.
func (t TestID) Plus(name string) TestID {
	path := make([]string, 0, len(t.Path)+1)
	path = append(path, t.Path...)
	return TestID{Path: append(path, name)}
}

// TestResult is the recorded outcome of executing one TestCase. It is created exactly once per
// execution and never modified after it has been appended to a ResultLog.
type TestResult struct {
	TestID     TestID        `json:"-"`
	Name       string        `json:"name"`
	Success    bool          `json:"success"`
	Kind       ResultKind    `json:"kind"`
	Message    string        `json:"message"`
	Method     string        `json:"method,omitempty"`
	Path       string        `json:"path,omitempty"`
	StatusCode int           `json:"statusCode,omitempty"`
	Body       string        `json:"body,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
	Duration   time.Duration `json:"duration"`
	Curl       string        `json:"curl,omitempty"`
	Fallback   bool          `json:"fallback,omitempty"`

	// Skipped is set on the value returned to the caller when the test case was not executed,
	// because of filtering, a dry run, or an interrupted run. Skipped results are never logged.
	Skipped bool `json:"-"`
}

// JSON parses the recorded response body. It returns a null value if there was no body or the
// body was not valid JSON.
func (r TestResult) JSON() ldvalue.Value {
	if r.Body == "" {
		return ldvalue.Null()
	}
	return ldvalue.Parse([]byte(r.Body))
}

// ResultLog is the append-only, ordered record of every test case executed in a run.
type ResultLog struct {
	results []TestResult
}

// Append adds a result to the end of the log.
func (l *ResultLog) Append(result TestResult) {
	l.results = append(l.results, result)
}

func (l *ResultLog) Len() int {
	return len(l.results)
}

// Results returns a copy of the log in execution order.
func (l *ResultLog) Results() []TestResult {
	return append([]TestResult(nil), l.results...)
}

// Summary computes the aggregate counts for the log.
func (l *ResultLog) Summary() RunSummary {
	return Summarize(l.results)
}

// OK returns true if every logged result succeeded.
func (l *ResultLog) OK() bool {
	for _, r := range l.results {
		if !r.Success {
			return false
		}
	}
	return true
}

// RunSummary is derived from a result log on demand; it is never stored on its own.
type RunSummary struct {
	Total       int
	Passed      int
	Failed      int
	SuccessRate float64 // percentage, 0 when nothing was run
	Failures    []TestResult
}

// Summarize computes a RunSummary for results in the given order.
func Summarize(results []TestResult) RunSummary {
	s := RunSummary{Total: len(results)}
	for _, r := range results {
		if r.Success {
			s.Passed++
		} else {
			s.Failed++
			s.Failures = append(s.Failures, r)
		}
	}
	if s.Total > 0 {
		s.SuccessRate = float64(s.Passed) * 100 / float64(s.Total)
	}
	return s
}

func (s RunSummary) OK() bool {
	return s.Failed == 0
}
