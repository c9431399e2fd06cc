package apitests

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/trxmining/api-contract-tests/framework"
	"github.com/trxmining/api-contract-tests/servicedef"
)

const (
	testPassword     = "testpassword123"
	fallbackUsername = "fallback_user"
)

type environment struct {
	params  Params
	primary *account
}

// T is the scope of a group of contract tests.
type T struct {
	context *framework.Context
	env     *environment
}

func (t *T) Run(name string, action func(*T)) {
	t.context.Run(name, func(c *framework.Context) {
		action(&T{context: c, env: t.env})
	})
}

func (t *T) Verify(tc framework.TestCase) framework.TestResult {
	return t.context.Verify(tc)
}

func (t *T) get(name, path string, expect framework.Expectation, deps ...framework.Captured) framework.TestResult {
	return t.Verify(framework.TestCase{
		Name:      name,
		Method:    http.MethodGet,
		Path:      path,
		Expect:    expect,
		DependsOn: deps,
	})
}

func (t *T) post(
	name, path string,
	payload interface{},
	expect framework.Expectation,
	deps ...framework.Captured,
) framework.TestResult {
	return t.postWithTimeout(name, path, payload, 0, expect, deps...)
}

func (t *T) postWithTimeout(
	name, path string,
	payload interface{},
	timeout time.Duration,
	expect framework.Expectation,
	deps ...framework.Captured,
) framework.TestResult {
	p, ok := payload.(framework.Payload)
	if !ok {
		p = framework.JSONPayload(payload)
	}
	return t.Verify(framework.TestCase{
		Name:      name,
		Method:    http.MethodPost,
		Path:      path,
		Payload:   p,
		Timeout:   timeout,
		Expect:    expect,
		DependsOn: deps,
	})
}

func (t *T) newName(prefix string) string {
	return t.env.params.NewName(prefix)
}

func (t *T) newTransactionHash() string {
	return t.env.params.NewTransactionHash()
}

// account is a user created by the suite. Its username and id are captures, so they may be
// fallbacks if signup did not succeed.
type account struct {
	username framework.Captured
	userID   framework.Captured
	password string
}

// signUp creates an account with a fresh username and captures its username and id from the
// response.
func (t *T) signUp(name, prefix string, referralCode ...framework.Captured) account {
	username := t.newName(prefix)
	params := servicedef.SignupParams{Username: username, Password: testPassword}
	for _, code := range referralCode {
		params.ReferralCode = code.Value
	}
	result := t.post(name, servicedef.PathSignup, params, expectAccount(username), referralCode...)
	return account{
		username: framework.CaptureField(result, "username", "user.username", username),
		userID:   framework.CaptureField(result, "userId", "user.id", ""),
		password: testPassword,
	}
}

// primaryAccount returns the account created by the auth tests, or a fallback account if they
// did not run.
func (t *T) primaryAccount() account {
	if t.env.primary != nil {
		return *t.env.primary
	}
	reason := "account was not created"
	return account{
		username: framework.FallbackFor("username", fallbackUsername, reason),
		userID:   framework.FallbackFor("userId", "", reason),
		password: testPassword,
	}
}

func expectAccount(username string) framework.Expectation {
	return framework.Expect(framework.Status(http.StatusOK),
		framework.FieldEqualsString("user.username", username),
		framework.FieldPresent("user.id"))
}

func expectProfile() framework.Expectation {
	return framework.Expect(framework.Status(http.StatusOK),
		framework.ObjectHasFields("user", servicedef.ProfileFields...))
}

func expectRejected(status int, errorContains string) framework.Expectation {
	return framework.Expect(framework.Status(status), framework.FieldContains("error", errorContains))
}

func uniqueName(prefix string) string {
	return prefix + "_" + randomHex()[:8]
}

func uniqueTransactionHash() string {
	return "0x" + randomHex() + randomHex()
}

func randomHex() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
