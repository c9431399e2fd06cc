package apitests

import (
	"net/http"
	"sort"

	"github.com/trxmining/api-contract-tests/framework"
	"github.com/trxmining/api-contract-tests/servicedef"
)

func DoErrorHandlingTests(t *T) {
	probeTimeout := t.env.params.Timeouts.Probe

	t.get("unknown path", "/nonexistent-endpoint", expectRejected(http.StatusNotFound, "Not found"))

	t.postWithTimeout("malformed json", servicedef.PathSignup, framework.RawPayload("invalid json"),
		probeTimeout, framework.Expect(framework.StatusAtLeast(http.StatusBadRequest)))

	t.Run("validation", func(t *T) {
		t.postWithTimeout("empty username", servicedef.PathSignup,
			map[string]string{"username": ""},
			probeTimeout, framework.Expect(framework.Status(http.StatusBadRequest)))
		t.postWithTimeout("short password", servicedef.PathSignup,
			servicedef.SignupParams{Username: t.newName("shortpw"), Password: "12"},
			probeTimeout, framework.Expect(framework.Status(http.StatusBadRequest)))
	})

	t.get("security headers", servicedef.PathNodes,
		framework.Expect(framework.Status(http.StatusOK)).
			AndResponse(framework.HeadersPresent(servicedef.MinimumSecurityHeaders, securityHeaderNames()...)))
}

func securityHeaderNames() []string {
	names := make([]string, 0, len(servicedef.SecurityHeaders))
	for name := range servicedef.SecurityHeaders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
