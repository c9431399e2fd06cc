package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/trxmining/api-contract-tests/framework"
)

const maxConsoleBodyLength = 500

var (
	passColor = color.New(color.FgGreen, color.Bold)
	failColor = color.New(color.FgRed, color.Bold)
)

type ConsoleTestLogger struct {
	Out                  io.Writer
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
}

func (c *ConsoleTestLogger) TestStarted(id framework.TestID) {
	fmt.Fprintf(c.Out, "[%s]\n", id)
}

func (c *ConsoleTestLogger) TestFinished(result framework.TestResult, debugOutput framework.CapturedOutput) {
	label := passColor.Sprint("PASS")
	if !result.Success {
		label = failColor.Sprint("FAIL")
	}
	fmt.Fprintf(c.Out, "  %s: %s (%s)\n", label, result.Message, result.Duration.Round(time.Millisecond))
	if !result.Success && result.Body != "" {
		body := result.Body
		if len(body) > maxConsoleBodyLength {
			body = body[:maxConsoleBodyLength] + "..."
		}
		fmt.Fprintf(c.Out, "    Response body: %s\n", body)
	}
	if len(debugOutput) > 0 &&
		((!result.Success && c.DebugOutputOnFailure) || (result.Success && c.DebugOutputOnSuccess)) {
		debugOutput.Dump(c.Out, "    DEBUG ")
	}
}

func (c *ConsoleTestLogger) TestSkipped(id framework.TestID, reason string) {
	if reason == "" {
		fmt.Fprintf(c.Out, "  SKIPPED: %s\n", id)
	} else {
		fmt.Fprintf(c.Out, "  SKIPPED: %s (%s)\n", id, reason)
	}
}

// testLister prints the id of every test case a dry run reaches.
type testLister struct {
	out   io.Writer
	count int
}

func (l *testLister) TestStarted(framework.TestID)                                {}
func (l *testLister) TestFinished(framework.TestResult, framework.CapturedOutput) {}

func (l *testLister) TestSkipped(id framework.TestID, reason string) {
	if reason == framework.SkipReasonDryRun {
		l.count++
		fmt.Fprintln(l.out, id)
	}
}
