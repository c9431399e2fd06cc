package apitests

import (
	"fmt"
	"net/http"

	"github.com/trxmining/api-contract-tests/framework"
	"github.com/trxmining/api-contract-tests/servicedef"
)

// DoWithdrawTests checks the withdrawal rules against the suite's account, whose balances are
// expected to be empty.
func DoWithdrawTests(t *T) {
	primary := t.primaryAccount()
	withdraw := func(name, kind string, amount float64, expect framework.Expectation) {
		t.post(name, servicedef.PathWithdraw,
			servicedef.WithdrawParams{Type: kind, Amount: amount, UserID: primary.userID.Value},
			expect, primary.userID)
	}
	rejected := func(check framework.BodyCheck) framework.Expectation {
		return framework.Expect(framework.Status(http.StatusBadRequest), check)
	}
	minimum := func(amount int) string {
		return fmt.Sprintf("Minimum withdrawal is %d TRX", amount)
	}

	withdraw("mine insufficient balance", servicedef.WithdrawTypeMine, 1000,
		rejected(framework.FieldContainsAny("error", "Insufficient balance", "must buy a mining node")))
	withdraw("mine below minimum", servicedef.WithdrawTypeMine, 10,
		rejected(framework.FieldContains("error", minimum(servicedef.MinimumMineWithdrawal))))
	withdraw("mine at minimum with empty balance", servicedef.WithdrawTypeMine, servicedef.MinimumMineWithdrawal,
		rejected(framework.FieldContains("error", "Insufficient balance")))
	withdraw("referral insufficient balance", servicedef.WithdrawTypeReferral, 1000,
		rejected(framework.FieldContainsAny("error", "Insufficient balance", "must buy Node 4")))
	withdraw("referral below minimum", servicedef.WithdrawTypeReferral, 25,
		rejected(framework.FieldContains("error", minimum(servicedef.MinimumReferralWithdraw))))
	withdraw("invalid type", "invalid", 100,
		rejected(framework.FieldContains("error", "Invalid withdrawal type")))
}

func DoWithdrawalListTests(t *T) {
	t.get("live list", servicedef.PathWithdrawals,
		framework.Expect(framework.Status(http.StatusOK), framework.ListField("withdrawals", 0)))
	t.get("item fields", servicedef.PathWithdrawals,
		framework.Expect(framework.Status(http.StatusOK),
			framework.FirstItemHasFields("withdrawals", servicedef.WithdrawalFields...)))
}
