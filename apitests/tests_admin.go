package apitests

import (
	"net/http"

	"github.com/trxmining/api-contract-tests/framework"
	"github.com/trxmining/api-contract-tests/servicedef"
)

func DoAdminTests(t *T) {
	t.get("db status", servicedef.PathAdminDBStatus,
		framework.Expect(framework.Status(http.StatusOK), framework.FieldPresent("status")))
	t.get("verification stats", servicedef.PathAdminVerification,
		framework.Expect(framework.Status(http.StatusOK), framework.FieldPresent("stats")))
}
