// Package framework is an endpoint verification harness for black-box HTTP contract tests.
//
// The general model is:
//
// 1. A TestCase describes one request (method, path, payload) and the contract its response must
// satisfy: a set of acceptable status codes, or a lower bound, plus optional predicates on the
// JSON body.
//
// 2. An Executor sends the request with a bounded timeout over a session that keeps cookies
// between requests. It never returns an error: anything that prevents getting an HTTP response
// becomes a TransportFailure.
//
// 3. Evaluate compares the outcome with the contract and produces exactly one TestResult, which
// is appended to the run's ResultLog. The log can then be summarized and rendered as a report.
//
// 4. There is a general notion of a test context which is similar to Go's *testing.T, grouping
// test cases under hierarchical IDs, applying filters, and recovering from panics in test code.
// Multi-step scenarios pass values between steps as Captured values, which record whether a
// fallback had to be used because an earlier step failed.
package framework
