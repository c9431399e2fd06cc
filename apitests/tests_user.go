package apitests

import (
	"net/http"

	"github.com/trxmining/api-contract-tests/framework"
	"github.com/trxmining/api-contract-tests/servicedef"
)

// Each user endpoint accepts GET, which uses the session, and POST with an explicit userId.
func DoUserTests(t *T) {
	endpoints := []struct {
		name   string
		path   string
		expect framework.Expectation
	}{
		{"profile", servicedef.PathProfile, expectProfile()},
		{"nodes", servicedef.PathUserNodes,
			framework.Expect(framework.Status(http.StatusOK), framework.ListField("nodes", 0))},
		{"referrals", servicedef.PathReferrals,
			framework.Expect(framework.Status(http.StatusOK), framework.ListField("referrals", 0))},
	}

	primary := t.primaryAccount()
	for _, e := range endpoints {
		e := e
		t.Run(e.name, func(t *T) {
			t.get("with session", e.path, e.expect)
			t.post("with user id", e.path, servicedef.UserParams{UserID: primary.userID.Value}, e.expect,
				primary.userID)
		})
	}
}
