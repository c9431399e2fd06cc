package framework

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTestLogger struct {
	started  []string
	finished []string
	skipped  []string
}

func (r *recordingTestLogger) TestStarted(id TestID) { r.started = append(r.started, id.String()) }

func (r *recordingTestLogger) TestFinished(result TestResult, _ CapturedOutput) {
	r.finished = append(r.finished, result.Name)
}

func (r *recordingTestLogger) TestSkipped(id TestID, reason string) {
	r.skipped = append(r.skipped, id.String()+" ("+reason+")")
}

func statusHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ok", httphelpers.HandlerWithStatus(200))
	mux.Handle("/bad", httphelpers.HandlerWithStatus(400))
	return mux
}

func sampleSuite(c *Context) {
	c.Run("group", func(c *Context) {
		c.Verify(TestCase{Name: "ok", Method: "GET", Path: "/ok", Expect: Expect(Status(200))})
		c.Verify(TestCase{Name: "rejected", Method: "GET", Path: "/bad", Expect: Expect(Status(400))})
	})
	c.Run("other", func(c *Context) {
		c.Verify(TestCase{Name: "wrong", Method: "GET", Path: "/ok", Expect: Expect(Status(404))})
	})
}

func TestRunRecordsOneResultPerCaseInOrder(t *testing.T) {
	httphelpers.WithServer(statusHandler(), func(server *httptest.Server) {
		logger := &recordingTestLogger{}
		log := Run(context.Background(), NewExecutor(server.URL, time.Second), RunOptions{TestLogger: logger}, sampleSuite)

		results := log.Results()
		require.Len(t, results, 3)
		assert.Equal(t, "group/ok", results[0].Name)
		assert.Equal(t, KindPassed, results[0].Kind)
		assert.Equal(t, "group/rejected", results[1].Name)
		assert.Equal(t, KindRejectedAsExpected, results[1].Kind)
		assert.Equal(t, "other/wrong", results[2].Name)
		assert.Equal(t, KindContractMismatch, results[2].Kind)
		assert.False(t, log.OK())

		assert.Equal(t, []string{"group/ok", "group/rejected", "other/wrong"}, logger.started)
		assert.Equal(t, logger.started, logger.finished)
	})
}

func TestRunAppliesFilter(t *testing.T) {
	httphelpers.WithServer(statusHandler(), func(server *httptest.Server) {
		var filters RegexFilters
		require.NoError(t, filters.MustNotMatch.Set("^other/"))
		logger := &recordingTestLogger{}
		log := Run(context.Background(), NewExecutor(server.URL, time.Second),
			RunOptions{Filter: filters.AsFilter, TestLogger: logger}, sampleSuite)

		assert.Equal(t, 2, log.Len())
		assert.True(t, log.OK())
		assert.Equal(t, []string{"other/wrong (excluded by filter parameters)"}, logger.skipped)
	})
}

func TestDryRunSendsNothing(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(statusHandler())
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		logger := &recordingTestLogger{}
		log := Run(context.Background(), NewExecutor(server.URL, time.Second), RunOptions{TestLogger: logger, DryRun: true}, sampleSuite)

		assert.Equal(t, 0, log.Len())
		assert.Len(t, logger.skipped, 3)
		assert.Len(t, requestsCh, 0)
	})
}

func TestPanicInGroupIsHarnessErrorAndRunContinues(t *testing.T) {
	httphelpers.WithServer(statusHandler(), func(server *httptest.Server) {
		log := Run(context.Background(), NewExecutor(server.URL, time.Second), RunOptions{}, func(c *Context) {
			c.Run("broken", func(c *Context) {
				c.Verify(TestCase{Name: "first", Method: "GET", Path: "/ok", Expect: Expect(Status(200))})
				panic("boom")
			})
			c.Run("after", func(c *Context) {
				c.Verify(TestCase{Name: "ok", Method: "GET", Path: "/ok", Expect: Expect(Status(200))})
			})
		})

		results := log.Results()
		require.Len(t, results, 3)
		assert.Equal(t, "broken/first", results[0].Name)
		assert.Equal(t, "broken", results[1].Name)
		assert.Equal(t, KindHarnessError, results[1].Kind)
		assert.False(t, results[1].Success)
		assert.Contains(t, results[1].Message, "unexpected panic")
		assert.Equal(t, "after/ok", results[2].Name)
	})
}

func TestInterruptStopsBeforeNextCase(t *testing.T) {
	httphelpers.WithServer(statusHandler(), func(server *httptest.Server) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		logger := &recordingTestLogger{}
		log := Run(ctx, NewExecutor(server.URL, time.Second), RunOptions{TestLogger: logger}, func(c *Context) {
			c.Verify(TestCase{Name: "first", Method: "GET", Path: "/ok", Expect: Expect(Status(200))})
			cancel()
			second := c.Verify(TestCase{Name: "second", Method: "GET", Path: "/ok", Expect: Expect(Status(200))})
			assert.True(t, second.Skipped)
			c.Run("group", func(c *Context) {
				t.Error("group should not run after interruption")
			})
		})

		assert.Equal(t, 1, log.Len())
		assert.Equal(t, []string{"second (run interrupted)"}, logger.skipped)
	})
}

func TestVerifyReturnsResultForCapture(t *testing.T) {
	handler := httphelpers.HandlerWithResponse(200, http.Header{"Content-Type": {"application/json"}},
		[]byte(`{"user":{"id":"u-42"}}`))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		var captured Captured
		Run(context.Background(), NewExecutor(server.URL, time.Second), RunOptions{}, func(c *Context) {
			result := c.Verify(TestCase{Name: "signup", Method: "POST", Path: "/auth/signup", Expect: Expect(Status(200))})
			captured = CaptureField(result, "userId", "user.id", "")
		})

		assert.Equal(t, Capture("userId", "u-42"), captured)
	})
}
