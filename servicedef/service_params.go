// Package servicedef describes the HTTP contract of the mining platform API: paths, request
// payloads, and the response shapes the contract tests check for.
package servicedef

import "time"

const (
	PathSignup              = "/auth/signup"
	PathSignin              = "/auth/signin"
	PathCurrentUser         = "/auth/user"
	PathNodes               = "/nodes"
	PathPurchase            = "/nodes/purchase"
	PathProfile             = "/user/profile"
	PathUserNodes           = "/user/nodes"
	PathReferrals           = "/user/referrals"
	PathWithdraw            = "/withdraw"
	PathWithdrawals         = "/withdrawals"
	PathAdminDBStatus       = "/admin/db-status"
	PathAdminVerification   = "/admin/verification-stats"
	WithdrawTypeMine        = "mine"
	WithdrawTypeReferral    = "referral"
	MinimumMineWithdrawal   = 25
	MinimumReferralWithdraw = 50
)

// Property names that the contract requires in response objects.
var (
	NodeFields       = []string{"id", "name", "price", "storage", "mining", "duration"}
	ProfileFields    = []string{"id", "username", "mineBalance", "referralBalance", "referralCode"}
	WithdrawalFields = []string{"username", "amount", "timestamp"}
)

type SignupParams struct {
	Username     string `json:"username"`
	Password     string `json:"password,omitempty"`
	ReferralCode string `json:"referralCode,omitempty"`
}

type SigninParams struct {
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
}

type PurchaseParams struct {
	NodeID          string `json:"nodeId"`
	TransactionHash string `json:"transactionHash"`
	UserID          string `json:"userId,omitempty"`
}

type WithdrawParams struct {
	Type   string  `json:"type"`
	Amount float64 `json:"amount"`
	UserID string  `json:"userId,omitempty"`
}

// UserParams selects a user explicitly instead of relying on the session.
type UserParams struct {
	UserID string `json:"userId,omitempty"`
}

type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

type AuthResponse struct {
	User    UserSummary `json:"user"`
	Message string      `json:"message,omitempty"`
}

type Profile struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email,omitempty"`
	MineBalance     float64   `json:"mineBalance"`
	ReferralBalance float64   `json:"referralBalance"`
	TotalReferrals  int       `json:"totalReferrals"`
	ValidReferrals  int       `json:"validReferrals"`
	ReferralCode    string    `json:"referralCode"`
	HasActiveMining bool      `json:"hasActiveMining"`
	HasBoughtNode4  bool      `json:"hasBoughtNode4"`
	CreatedAt       time.Time `json:"createdAt"`
}

type Node struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Storage     string  `json:"storage"`
	Mining      float64 `json:"mining"`
	Duration    int     `json:"duration"`
	Description string  `json:"description,omitempty"`
}

type UserNode struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	NodeID          string    `json:"nodeId"`
	TransactionHash string    `json:"transactionHash"`
	Status          string    `json:"status"`
	Progress        float64   `json:"progress"`
	StartDate       time.Time `json:"startDate"`
	EndDate         time.Time `json:"endDate"`
	MiningAmount    float64   `json:"miningAmount"`
	DailyMining     float64   `json:"dailyMining"`
}

type Referral struct {
	ID           string    `json:"id"`
	ReferrerID   string    `json:"referrerId"`
	ReferredID   string    `json:"referredId"`
	ReferralCode string    `json:"referralCode"`
	IsValid      bool      `json:"isValid"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Withdrawal struct {
	Username  string    `json:"username"`
	Amount    float64   `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type NodesResponse struct {
	Nodes interface{} `json:"nodes"`
}

type ProfileResponse struct {
	User Profile `json:"user"`
}

type PurchaseResponse struct {
	Message string   `json:"message"`
	Node    UserNode `json:"node"`
}

type ReferralsResponse struct {
	Referrals []Referral `json:"referrals"`
}

type WithdrawalsResponse struct {
	Withdrawals []Withdrawal `json:"withdrawals"`
}

type DBStatusResponse struct {
	Status      string         `json:"status"`
	Collections map[string]int `json:"collections"`
}

type VerificationStats struct {
	TotalPurchases int `json:"totalPurchases"`
	Verified       int `json:"verified"`
	Pending        int `json:"pending"`
}

type VerificationStatsResponse struct {
	Stats VerificationStats `json:"stats"`
}

// SecurityHeaders are the response headers the platform is expected to set, with their
// recommended values.
var SecurityHeaders = map[string]string{
	"X-Content-Type-Options":  "nosniff",
	"X-Frame-Options":         "DENY",
	"X-XSS-Protection":        "1; mode=block",
	"Referrer-Policy":         "strict-origin-when-cross-origin",
	"Content-Security-Policy": "default-src 'self'",
}

// MinimumSecurityHeaders is how many of SecurityHeaders must be present.
const MinimumSecurityHeaders = 4
