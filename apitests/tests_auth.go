package apitests

import (
	"net/http"

	"github.com/trxmining/api-contract-tests/framework"
	"github.com/trxmining/api-contract-tests/servicedef"
)

func DoAuthTests(t *T) {
	t.Run("signup", doSignupTests)
	t.Run("signin", doSigninTests)
	t.Run("user", func(t *T) {
		t.get("current user has id", servicedef.PathCurrentUser,
			framework.Expect(framework.Status(http.StatusOK), framework.FieldPresent("user.id")))
	})
}

func doSignupTests(t *T) {
	primary := t.signUp("success", "testuser")
	t.env.primary = &primary

	t.post("duplicate username", servicedef.PathSignup,
		servicedef.SignupParams{Username: primary.username.Value, Password: testPassword},
		expectRejected(http.StatusBadRequest, "already exists"),
		primary.username)

	t.post("missing password", servicedef.PathSignup,
		servicedef.SignupParams{Username: t.newName("nopassword")},
		framework.Expect(framework.Status(http.StatusBadRequest), framework.FieldContainsFold("error", "required")))

	t.Run("with referral code", func(t *T) {
		referrer := t.signUp("referrer", "referrer")
		profile := t.post("referrer profile", servicedef.PathProfile,
			servicedef.UserParams{UserID: referrer.userID.Value}, expectProfile(), referrer.userID)
		code := framework.CaptureField(profile, "referralCode", "user.referralCode", invalidReferralCode)
		t.signUp("referred user", "referred", code)
	})
}

func doSigninTests(t *T) {
	primary := t.primaryAccount()

	t.post("success", servicedef.PathSignin,
		servicedef.SigninParams{Username: primary.username.Value, Password: primary.password},
		expectAccount(primary.username.Value),
		primary.username)

	t.post("invalid credentials", servicedef.PathSignin,
		servicedef.SigninParams{Username: t.newName("nonexistent"), Password: "wrongpassword"},
		framework.Expect(framework.Status(http.StatusUnauthorized),
			framework.FieldContainsFold("error", "invalid credentials")))

	t.post("missing password", servicedef.PathSignin,
		servicedef.SigninParams{Username: primary.username.Value},
		framework.Expect(framework.Status(http.StatusBadRequest), framework.FieldContainsFold("error", "required")),
		primary.username)
}
