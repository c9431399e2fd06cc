package framework

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// TestCase is one request and the contract its response must satisfy. Once built it is not
// modified; the suite builds a new TestCase for each execution.
type TestCase struct {
	Name    string
	Method  string
	Path    string
	Payload Payload
	Headers map[string]string

	// Timeout overrides the executor's default request timeout when nonzero.
	Timeout time.Duration

	Expect Expectation

	// DependsOn lists the scenario values used to build this test case. If any of them is a
	// fallback, the result message says so.
	DependsOn []Captured
}

// Payload is the optional request body: either a value to be encoded as JSON, or raw text sent
// verbatim. The zero value means no body.
type Payload struct {
	value interface{}
	raw   *string
}

func JSONPayload(value interface{}) Payload {
	return Payload{value: value}
}

func RawPayload(text string) Payload {
	return Payload{raw: &text}
}

func (p Payload) IsEmpty() bool {
	return p.value == nil && p.raw == nil
}

func (p Payload) encode() ([]byte, error) {
	switch {
	case p.raw != nil:
		return []byte(*p.raw), nil
	case p.value != nil:
		data, err := json.Marshal(p.value)
		if err != nil {
			return nil, fmt.Errorf("encoding request payload: %w", err)
		}
		return data, nil
	default:
		return nil, nil
	}
}

// StatusExpectation is the set of status codes a test case accepts. The zero value accepts any
// status.
type StatusExpectation struct {
	codes   []int
	atLeast int
}

// Status accepts exactly the given status codes.
func Status(codes ...int) StatusExpectation {
	return StatusExpectation{codes: append([]int(nil), codes...)}
}

// StatusAtLeast accepts any status code greater than or equal to the given one.
func StatusAtLeast(code int) StatusExpectation {
	return StatusExpectation{atLeast: code}
}

func (s StatusExpectation) Matches(status int) bool {
	if s.atLeast > 0 {
		return status >= s.atLeast
	}
	if len(s.codes) == 0 {
		return true
	}
	for _, c := range s.codes {
		if c == status {
			return true
		}
	}
	return false
}

func (s StatusExpectation) String() string {
	if s.atLeast > 0 {
		return fmt.Sprintf("≥%d", s.atLeast)
	}
	if len(s.codes) == 0 {
		return "any status"
	}
	sorted := append([]int(nil), s.codes...)
	sort.Ints(sorted)
	parts := make([]string, 0, len(sorted))
	for _, c := range sorted {
		parts = append(parts, fmt.Sprint(c))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// BodyCheck is a predicate on a response body. It reports problems through the Checker, which
// can be passed to testify's assert and require functions.
type BodyCheck func(t *Checker, body Body)

// ResponseCheck is a predicate on parts of the response other than the body, such as headers.
type ResponseCheck func(t *Checker, resp *Response)

// Expectation is the contract for one test case's response. Body and response checks are only
// applied if the status matches.
type Expectation struct {
	Status   StatusExpectation
	Body     []BodyCheck
	Response []ResponseCheck
}

func Expect(status StatusExpectation, checks ...BodyCheck) Expectation {
	return Expectation{Status: status, Body: checks}
}

// AndResponse returns a copy of the expectation with additional response checks.
func (e Expectation) AndResponse(checks ...ResponseCheck) Expectation {
	e.Response = append(append([]ResponseCheck(nil), e.Response...), checks...)
	return e
}
