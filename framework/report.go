package framework

import (
	"fmt"
	"io"
	"strings"
)

// Render formats the textual report for the log: every failed test with its message and status
// code, in execution order, followed by the aggregate counts.
func (l *ResultLog) Render() string {
	var b strings.Builder
	WriteReport(&b, l.Summary())
	return b.String()
}

// WriteReport writes the report for a summary. The output depends only on the summary, so the
// same log always renders the same report.
func WriteReport(w io.Writer, s RunSummary) {
	if s.Total == 0 {
		fmt.Fprintln(w, "No tests were run.")
	}
	if len(s.Failures) > 0 {
		fmt.Fprintln(w, "FAILED TESTS:")
		for _, f := range s.Failures {
			fmt.Fprintf(w, "  FAIL %s: %s (%s)\n", f.Name, f.Message, describeStatus(f.StatusCode))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "Total Tests: %d\n", s.Total)
	fmt.Fprintf(w, "Passed: %d\n", s.Passed)
	fmt.Fprintf(w, "Failed: %d\n", s.Failed)
	fmt.Fprintf(w, "Success Rate: %.1f%%\n", s.SuccessRate)
}

func describeStatus(status int) string {
	if status == 0 {
		return "no response"
	}
	return fmt.Sprintf("status %d", status)
}
