package apitests

import (
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/trxmining/api-contract-tests/framework"
	"github.com/trxmining/api-contract-tests/servicedef"
)

// Substituted when the referrer's code could not be read. No account has it, so the referred
// user is created without a referrer and the membership check fails.
const invalidReferralCode = "INVALID"

func DoWorkflowTests(t *T) {
	var referrer account
	t.Run("referral round trip", func(t *T) {
		referrer = t.signUp("create referrer", "referrer")

		profile := t.post("fetch referral code", servicedef.PathProfile,
			servicedef.UserParams{UserID: referrer.userID.Value},
			framework.Expect(framework.Status(http.StatusOK), framework.FieldPresent("user.referralCode")),
			referrer.userID)
		code := framework.CaptureField(profile, "referralCode", "user.referralCode", invalidReferralCode)

		referred := t.signUp("create referred user", "referred", code)

		t.post("referrer lists referred user", servicedef.PathReferrals,
			servicedef.UserParams{UserID: referrer.userID.Value},
			framework.Expect(framework.Status(http.StatusOK), referredExactlyOnce(referred.userID.Value)),
			referrer.userID, referred.userID)
	})

	t.Run("persistence", func(t *T) {
		if referrer.username.Name == "" {
			referrer = t.primaryAccount()
		}
		t.post("sign in again", servicedef.PathSignin,
			servicedef.SigninParams{Username: referrer.username.Value, Password: referrer.password},
			expectAccount(referrer.username.Value),
			referrer.username)
		t.post("profile", servicedef.PathProfile,
			servicedef.UserParams{UserID: referrer.userID.Value},
			framework.Expect(framework.Status(http.StatusOK),
				framework.ObjectHasFields("user", servicedef.ProfileFields...),
				framework.FieldEqualsString("user.username", referrer.username.Value)),
			referrer.userID, referrer.username)
		t.post("referrals", servicedef.PathReferrals,
			servicedef.UserParams{UserID: referrer.userID.Value},
			framework.Expect(framework.Status(http.StatusOK), framework.ListField("referrals", 1)),
			referrer.userID)
	})
}

// referredExactlyOnce requires that body.referrals has exactly one entry whose referredId is
// the given user id.
func referredExactlyOnce(userID string) framework.BodyCheck {
	return func(t *framework.Checker, body framework.Body) {
		require.NotEmpty(t, userID, "referred user id was not captured")
		referrals := framework.RequireField(t, body, "referrals")
		require.Equal(t, ldvalue.ArrayType, referrals.Type(), "body.referrals should be a list")
		count := 0
		for i := 0; i < referrals.Count(); i++ {
			if referrals.GetByIndex(i).GetByKey("referredId").StringValue() == userID {
				count++
			}
		}
		assert.Equal(t, 1, count, "referred user %q should appear exactly once in body.referrals", userID)
	}
}
