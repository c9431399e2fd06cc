package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/trxmining/api-contract-tests/framework"
)

// ProgressLogger is a framework.TestLogger that shows a progress bar instead of a line per test.
type ProgressLogger struct {
	bar    *progressbar.ProgressBar
	total  int
	passed int
	failed int
}

// NewProgressLogger creates a progress bar for a run of total test cases, drawn on out.
func NewProgressLogger(total int, out io.Writer) *ProgressLogger {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetDescription(describeProgress(0, 0)),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(out),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(out, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
	return &ProgressLogger{bar: bar, total: total}
}

func describeProgress(passed, failed int) string {
	return color.CyanString("Running tests: ") +
		color.GreenString("[passed: %d", passed) +
		" | " +
		color.RedString("failed: %d]", failed)
}

func (p *ProgressLogger) TestStarted(framework.TestID) {}

func (p *ProgressLogger) TestFinished(result framework.TestResult, _ framework.CapturedOutput) {
	if result.Success {
		p.passed++
	} else {
		p.failed++
	}
	done := p.passed + p.failed
	if done > p.total {
		// harness errors are not known in advance
		p.total = done
		p.bar.ChangeMax(p.total)
	}
	_ = p.bar.Set(done)
	p.bar.Describe(describeProgress(p.passed, p.failed))
}

func (p *ProgressLogger) TestSkipped(framework.TestID, string) {}

// Counts returns how many finished tests passed and failed.
func (p *ProgressLogger) Counts() (passed, failed int) {
	return p.passed, p.failed
}

// Finish completes the progress bar.
func (p *ProgressLogger) Finish() {
	_ = p.bar.Finish()
}

// TestCounter is a framework.TestLogger for dry runs that counts the test cases a real run would
// execute.
type TestCounter struct {
	Count int
}

func (c *TestCounter) TestStarted(framework.TestID)                                {}
func (c *TestCounter) TestFinished(framework.TestResult, framework.CapturedOutput) {}

func (c *TestCounter) TestSkipped(_ framework.TestID, reason string) {
	if reason == framework.SkipReasonDryRun {
		c.Count++
	}
}
