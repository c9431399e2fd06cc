package apitests

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trxmining/api-contract-tests/config"
	"github.com/trxmining/api-contract-tests/fakeapi"
	"github.com/trxmining/api-contract-tests/framework"
)

const suiteSize = 43

type idRecorder struct {
	finished []string
	skipped  []string
}

func (r *idRecorder) TestStarted(framework.TestID) {}

func (r *idRecorder) TestFinished(result framework.TestResult, _ framework.CapturedOutput) {
	r.finished = append(r.finished, result.Name)
}

func (r *idRecorder) TestSkipped(id framework.TestID, _ string) {
	r.skipped = append(r.skipped, id.String())
}

func testParams() Params {
	return Params{Timeouts: config.Timeouts{Default: time.Second, Purchase: time.Second, Probe: time.Second}}
}

func runAgainstFakeAPI(t *testing.T, options framework.RunOptions) *framework.ResultLog {
	var log *framework.ResultLog
	httphelpers.WithServer(fakeapi.New(nil), func(server *httptest.Server) {
		executor := framework.NewExecutor(server.URL+fakeapi.APIPrefix, time.Second)
		log = RunTestSuite(context.Background(), executor, testParams(), options)
	})
	require.NotNil(t, log)
	return log
}

func describeFailures(log *framework.ResultLog) string {
	var b strings.Builder
	for _, r := range log.Summary().Failures {
		fmt.Fprintf(&b, "%s: %s\n", r.Name, r.Message)
	}
	return b.String()
}

func TestSuitePassesAgainstFakeAPI(t *testing.T) {
	recorder := &idRecorder{}
	log := runAgainstFakeAPI(t, framework.RunOptions{TestLogger: recorder})

	assert.True(t, log.OK(), describeFailures(log))
	assert.Equal(t, suiteSize, log.Len())
	assert.Empty(t, recorder.skipped)

	summary := log.Summary()
	assert.Equal(t, suiteSize, summary.Passed)
	assert.Equal(t, 100.0, summary.SuccessRate)
	for _, r := range log.Results() {
		assert.False(t, r.Fallback, r.Name)
	}
}

func TestSuiteResultKinds(t *testing.T) {
	log := runAgainstFakeAPI(t, framework.RunOptions{})

	kinds := make(map[string]framework.ResultKind)
	for _, r := range log.Results() {
		kinds[r.Name] = r.Kind
	}
	assert.Equal(t, framework.KindPassed, kinds["auth/signup/success"])
	assert.Equal(t, framework.KindRejectedAsExpected, kinds["auth/signup/duplicate username"])
	assert.Equal(t, framework.KindRejectedAsExpected, kinds["withdraw/mine at minimum with empty balance"])
	assert.Equal(t, framework.KindRejectedAsExpected, kinds["errors/malformed json"])
	assert.Equal(t, framework.KindRejectedAsExpected, kinds["errors/unknown path"])
	assert.Equal(t, framework.KindPassed, kinds["errors/security headers"])
	assert.Equal(t, framework.KindPassed, kinds["workflows/referral round trip/referrer lists referred user"])
}

func TestDryRunListsEveryTestWithoutSendingRequests(t *testing.T) {
	handler, requests := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(500))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		recorder := &idRecorder{}
		log := RunTestSuite(context.Background(), framework.NewExecutor(server.URL, time.Second), testParams(),
			framework.RunOptions{TestLogger: recorder, DryRun: true})

		assert.Equal(t, 0, log.Len())
		assert.Empty(t, recorder.finished)
		assert.Len(t, recorder.skipped, suiteSize)
		assert.Len(t, requests, 0)

		seen := make(map[string]bool)
		for _, id := range recorder.skipped {
			assert.False(t, seen[id], "duplicate test id %s", id)
			seen[id] = true
		}
		assert.Equal(t, "auth/signup/success", recorder.skipped[0])
		assert.Contains(t, recorder.skipped, "user/referrals/with user id")
		assert.Contains(t, recorder.skipped, "errors/validation/short password")
		assert.Equal(t, "workflows/persistence/referrals", recorder.skipped[suiteSize-1])
	})
}

func TestFilteredRunMarksFallbacks(t *testing.T) {
	var filters framework.RegexFilters
	require.NoError(t, filters.MustMatch.Set("^workflows/persistence/"))
	log := runAgainstFakeAPI(t, framework.RunOptions{Filter: filters.AsFilter})

	results := log.Results()
	require.Len(t, results, 3)
	signin := results[0]
	assert.Equal(t, "workflows/persistence/sign in again", signin.Name)
	assert.False(t, signin.Success)
	assert.True(t, signin.Fallback)
	assert.Equal(t, framework.KindContractMismatch, signin.Kind)
	assert.Contains(t, signin.Message, "[fallback: username=")
	assert.Contains(t, signin.Message, "producing step was not run")
}

func TestInterruptedRunStopsBeforeNextCase(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var log *framework.ResultLog
	httphelpers.WithServer(fakeapi.New(nil), func(server *httptest.Server) {
		log = RunTestSuite(ctx, framework.NewExecutor(server.URL+fakeapi.APIPrefix, time.Second), testParams(),
			framework.RunOptions{})
	})
	assert.Equal(t, 0, log.Len())
}

func TestUniqueGenerators(t *testing.T) {
	a, b := uniqueName("testuser"), uniqueName("testuser")
	assert.NotEqual(t, a, b)
	assert.Regexp(t, "^testuser_[0-9a-f]{8}$", a)
	assert.Regexp(t, "^0x[0-9a-f]{64}$", uniqueTransactionHash())
}
