package fakeapi

import (
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/trxmining/api-contract-tests/servicedef"
)

var (
	errUsernameTaken      = badRequest("Username already exists")
	errUnknownNode        = badRequest("Invalid node")
	errHashUsed           = badRequest("Transaction hash already used")
	errNodeRunning        = badRequest("You already have this node running")
	errUserNotFound       = &apiError{status: http.StatusNotFound, message: "User not found"}
	errInvalidCredentials = &apiError{status: http.StatusUnauthorized, message: "Invalid credentials"}
	errInsufficient       = badRequest("Insufficient balance")
	errNoMiningNode       = badRequest("You must buy a mining node first")
	errNoNode4            = badRequest("You must buy Node 4 (1024 GB) first")
	errInvalidWithdraw    = badRequest("Invalid withdrawal type")
)

// apiError is a rule violation reported to the client with a status code and an error message.
type apiError struct {
	status  int
	message string
}

func (e *apiError) Error() string {
	return e.message
}

func badRequest(message string) *apiError {
	return &apiError{status: http.StatusBadRequest, message: message}
}

// Catalog is the fixed list of mining nodes offered by the platform.
var Catalog = []servicedef.Node{
	{ID: "node1", Name: "64 GB Node", Price: 50, Storage: "64 GB", Mining: 500, Duration: 30, Description: "Mine 500 TRX in 30 days"},
	{ID: "node2", Name: "128 GB Node", Price: 75, Storage: "128 GB", Mining: 500, Duration: 15, Description: "Mine 500 TRX in 15 days"},
	{ID: "node3", Name: "256 GB Node", Price: 100, Storage: "256 GB", Mining: 1000, Duration: 7, Description: "Mine 1000 TRX in 7 days"},
	{ID: "node4", Name: "1024 GB Node", Price: 250, Storage: "1024 GB", Mining: 1000, Duration: 3, Description: "Mine 1000 TRX in 3 days"},
}

type account struct {
	profile  servicedef.Profile
	password string
}

// Store holds all platform state in memory. New accounts start with empty balances.
type Store struct {
	mu          sync.RWMutex
	accounts    map[string]*account // by user ID
	byUsername  map[string]string
	byCode      map[string]string
	sessions    map[string]string // session ID to user ID
	tokens      *sessionTokens
	userNodes   []servicedef.UserNode
	usedHashes  map[string]bool
	referrals   []servicedef.Referral
	withdrawals []servicedef.Withdrawal
	now         func() time.Time
}

func NewStore() *Store {
	s := &Store{
		accounts:   make(map[string]*account),
		byUsername: make(map[string]string),
		byCode:     make(map[string]string),
		sessions:   make(map[string]string),
		tokens:     newSessionTokens(),
		usedHashes: make(map[string]bool),
		now:        time.Now,
	}
	s.seedWithdrawals()
	return s
}

func (s *Store) seedWithdrawals() {
	seed := []struct {
		username string
		amount   float64
	}{
		{"user123", 150}, {"miner456", 2500}, {"crypto789", 875}, {"trx001", 1200}, {"node999", 450},
	}
	for i, w := range seed {
		s.withdrawals = append(s.withdrawals, servicedef.Withdrawal{
			Username:  w.username,
			Amount:    w.amount,
			Timestamp: s.now().Add(-time.Duration(i+1) * 5 * time.Minute),
		})
	}
}

// CreateAccount registers a user and opens a session for it. A referral code that does not
// belong to anyone is ignored.
func (s *Store) CreateAccount(username, password, referralCode string) (servicedef.Profile, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byUsername[username]; exists {
		return servicedef.Profile{}, "", errUsernameTaken
	}
	profile := servicedef.Profile{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        username + "@mock.com",
		ReferralCode: strings.ToUpper(uuid.NewString()[:8]),
		CreatedAt:    s.now(),
	}
	s.accounts[profile.ID] = &account{profile: profile, password: password}
	s.byUsername[username] = profile.ID
	s.byCode[profile.ReferralCode] = profile.ID

	if referrerID, ok := s.byCode[referralCode]; ok && referralCode != "" && referrerID != profile.ID {
		s.referrals = append(s.referrals, servicedef.Referral{
			ID:           uuid.NewString(),
			ReferrerID:   referrerID,
			ReferredID:   profile.ID,
			ReferralCode: referralCode,
			CreatedAt:    s.now(),
		})
		s.accounts[referrerID].profile.TotalReferrals++
	}
	token, err := s.openSession(profile.ID)
	if err != nil {
		return servicedef.Profile{}, "", err
	}
	return profile, token, nil
}

// Authenticate checks credentials and opens a new session. It returns errInvalidCredentials if
// the username or password is wrong.
func (s *Store) Authenticate(username, password string) (servicedef.Profile, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byUsername[username]
	if !ok || s.accounts[id].password != password {
		return servicedef.Profile{}, "", errInvalidCredentials
	}
	token, err := s.openSession(id)
	if err != nil {
		return servicedef.Profile{}, "", err
	}
	return s.accounts[id].profile, token, nil
}

func (s *Store) openSession(userID string) (string, error) {
	sessionID := uuid.NewString()
	token, err := s.tokens.issue(userID, sessionID, s.now())
	if err != nil {
		return "", err
	}
	s.sessions[sessionID] = userID
	return token, nil
}

// SessionUser returns the user ID for a session token.
func (s *Store) SessionUser(token string) (string, bool) {
	sessionID, userID, ok := s.tokens.verify(token)
	if !ok {
		return "", false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return userID, s.sessions[sessionID] == userID
}

func (s *Store) Profile(userID string) (servicedef.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[userID]
	if !ok {
		return servicedef.Profile{}, errUserNotFound
	}
	return a.profile, nil
}

// Credit adds to a user's balances. It is not reachable through the API; tests use it to set up
// successful withdrawals.
func (s *Store) Credit(userID string, mine, referral float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[userID]
	if !ok {
		return errUserNotFound
	}
	a.profile.MineBalance += mine
	a.profile.ReferralBalance += referral
	return nil
}

// Purchase starts a mining node for the user. Transaction hashes can only be used once.
func (s *Store) Purchase(userID, nodeID, hash string) (servicedef.UserNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[userID]
	if !ok {
		return servicedef.UserNode{}, errUserNotFound
	}
	node, ok := findNode(nodeID)
	if !ok {
		return servicedef.UserNode{}, errUnknownNode
	}
	if s.usedHashes[hash] {
		return servicedef.UserNode{}, errHashUsed
	}
	for _, n := range s.userNodes {
		if n.UserID == userID && n.NodeID == nodeID && n.Status == "running" {
			return servicedef.UserNode{}, errNodeRunning
		}
	}

	start := s.now()
	userNode := servicedef.UserNode{
		ID:              uuid.NewString(),
		UserID:          userID,
		NodeID:          nodeID,
		TransactionHash: hash,
		Status:          "running",
		StartDate:       start,
		EndDate:         start.Add(time.Duration(node.Duration) * 24 * time.Hour),
		MiningAmount:    node.Mining,
		DailyMining:     node.Mining / float64(node.Duration),
	}
	s.userNodes = append(s.userNodes, userNode)
	s.usedHashes[hash] = true
	a.profile.HasActiveMining = true
	if nodeID == "node4" {
		a.profile.HasBoughtNode4 = true
	}
	return userNode, nil
}

// Withdraw applies the platform's withdrawal rules in order: type, minimum amount, balance, and
// then the node ownership requirement for that balance.
func (s *Store) Withdraw(userID, kind string, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[userID]
	if !ok {
		return errUserNotFound
	}
	var balance *float64
	switch kind {
	case servicedef.WithdrawTypeMine:
		if amount < servicedef.MinimumMineWithdrawal {
			return badRequest("Minimum withdrawal is 25 TRX")
		}
		if a.profile.MineBalance < amount {
			return errInsufficient
		}
		if !a.profile.HasActiveMining {
			return errNoMiningNode
		}
		balance = &a.profile.MineBalance
	case servicedef.WithdrawTypeReferral:
		if amount < servicedef.MinimumReferralWithdraw {
			return badRequest("Minimum withdrawal is 50 TRX")
		}
		if a.profile.ReferralBalance < amount {
			return errInsufficient
		}
		if !a.profile.HasBoughtNode4 {
			return errNoNode4
		}
		balance = &a.profile.ReferralBalance
	default:
		return errInvalidWithdraw
	}
	*balance -= amount
	s.withdrawals = append([]servicedef.Withdrawal{{Username: a.profile.Username, Amount: amount, Timestamp: s.now()}},
		s.withdrawals...)
	return nil
}

func (s *Store) UserNodes(userID string) []servicedef.UserNode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []servicedef.UserNode{}
	for _, n := range s.userNodes {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

func (s *Store) Referrals(referrerID string) []servicedef.Referral {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []servicedef.Referral{}
	for _, r := range s.referrals {
		if r.ReferrerID == referrerID {
			out = append(out, r)
		}
	}
	return out
}

// Withdrawals returns the public withdrawal feed, newest first.
func (s *Store) Withdrawals() []servicedef.Withdrawal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]servicedef.Withdrawal(nil), s.withdrawals...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out
}

// Counts returns the number of records per collection, for the database status endpoint.
func (s *Store) Counts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]int{
		"users":       len(s.accounts),
		"user_nodes":  len(s.userNodes),
		"referrals":   len(s.referrals),
		"withdrawals": len(s.withdrawals),
	}
}

func findNode(id string) (servicedef.Node, bool) {
	for _, n := range Catalog {
		if n.ID == id {
			return n, true
		}
	}
	return servicedef.Node{}, false
}
