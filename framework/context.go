package framework

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"
)

// Reasons passed to TestLogger.TestSkipped.
const (
	SkipReasonInterrupted = "run interrupted"
	SkipReasonFiltered    = "excluded by filter parameters"
	SkipReasonDryRun      = "dry run"
)

// RunOptions controls how a suite is run.
type RunOptions struct {
	// Filter decides which test cases are executed; nil means all of them.
	Filter Filter

	TestLogger TestLogger

	// DryRun walks the suite and reports every test case to TestLogger.TestSkipped without
	// sending any requests.
	DryRun bool
}

type environment struct {
	ctx        context.Context
	log        *ResultLog
	executor   *Executor
	testLogger TestLogger
	filter     Filter
	dryRun     bool
}

// Context is the scope of a group of tests, similar to Go's *testing.T. Suite code uses Run to
// create subgroups and Verify to execute test cases.
type Context struct {
	env *environment
	id  TestID
}

// Run executes a suite. Test cases run one at a time in the order the suite code reaches them.
// Cancelling ctx stops the run before the next test case; the request in progress is allowed to
// finish. The returned log contains one result for every test case that was executed.
func Run(ctx context.Context, executor *Executor, options RunOptions, action func(*Context)) *ResultLog {
	testLogger := options.TestLogger
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	env := &environment{
		ctx:        ctx,
		log:        &ResultLog{},
		executor:   executor,
		testLogger: testLogger,
		filter:     options.Filter,
		dryRun:     options.DryRun,
	}
	c := &Context{env: env}
	c.run(action)
	return env.log
}

func (c *Context) run(action func(*Context)) {
	defer func() {
		if r := recover(); r != nil {
			result := TestResult{
				TestID:    c.id,
				Name:      c.id.String(),
				Kind:      KindHarnessError,
				Message:   fmt.Sprintf("unexpected panic in test: %+v\n%s", r, string(debug.Stack())),
				Timestamp: time.Now(),
			}
			c.env.log.Append(result)
			c.env.testLogger.TestFinished(result, nil)
		}
	}()

	action(c)
}

func (c *Context) ID() TestID {
	return c.id
}

// Interrupted returns true if the run has been cancelled.
func (c *Context) Interrupted() bool {
	return c.env.ctx.Err() != nil
}

// Run executes a group of tests. A panic within the group is recorded as a failed result for the
// group and does not stop the rest of the run.
func (c *Context) Run(name string, action func(*Context)) {
	if c.Interrupted() {
		return
	}
	c1 := &Context{
		id:  c.id.Plus(name),
		env: c.env,
	}
	c1.run(action)
}

// Verify executes one test case, records its result, and returns the result so that scenario
// steps can capture values from it. If the test case is excluded by the filter, or the run is a
// dry run or has been interrupted, nothing is sent and the returned result has Skipped set.
func (c *Context) Verify(tc TestCase) TestResult {
	id := c.id.Plus(tc.Name)
	skipped := TestResult{TestID: id, Name: id.String(), Method: tc.Method, Path: tc.Path, Skipped: true}

	switch {
	case c.Interrupted():
		c.env.testLogger.TestSkipped(id, SkipReasonInterrupted)
		return skipped
	case c.env.filter != nil && !c.env.filter(id):
		c.env.testLogger.TestSkipped(id, SkipReasonFiltered)
		return skipped
	case c.env.dryRun:
		c.env.testLogger.TestSkipped(id, SkipReasonDryRun)
		return skipped
	}

	c.env.testLogger.TestStarted(id)
	var debugLogger CapturingLogger
	for _, d := range tc.DependsOn {
		debugLogger.Printf("Using %s", d)
	}
	outcome := c.env.executor.Do(context.WithoutCancel(c.env.ctx), Request{
		Method:  tc.Method,
		Path:    tc.Path,
		Payload: tc.Payload,
		Headers: tc.Headers,
		Timeout: tc.Timeout,
	}, &debugLogger)

	result := Evaluate(tc, outcome)
	result.TestID = id
	result.Name = id.String()
	debugLogger.Printf("Result: %s: %s", result.Kind, result.Message)

	c.env.log.Append(result)
	c.env.testLogger.TestFinished(result, debugLogger.Output())
	return result
}
