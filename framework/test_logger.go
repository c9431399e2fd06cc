package framework

// TestLogger receives progress notifications while the suite runs. TestFinished is called exactly
// once for every result appended to the log, in the same order.
type TestLogger interface {
	TestStarted(id TestID)
	TestFinished(result TestResult, debugOutput CapturedOutput)
	TestSkipped(id TestID, reason string)
}

type nullTestLogger struct{}

func (n nullTestLogger) TestStarted(TestID)                      {}
func (n nullTestLogger) TestFinished(TestResult, CapturedOutput) {}
func (n nullTestLogger) TestSkipped(TestID, string)              {}
