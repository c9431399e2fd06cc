package fakeapi

import (
	"net/http"
	"strings"

	"github.com/trxmining/api-contract-tests/servicedef"
)

const minimumPasswordLength = 6

func (s *Server) Signup(w http.ResponseWriter, r *http.Request) {
	var params servicedef.SignupParams
	if err := decodeBody(r, &params); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	if strings.TrimSpace(params.Username) == "" || params.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}
	if len(params.Password) < minimumPasswordLength {
		writeError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}
	profile, token, err := s.store.CreateAccount(params.Username, params.Password, params.ReferralCode)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	setSession(w, token)
	writeJSON(w, http.StatusOK, servicedef.AuthResponse{
		User:    servicedef.UserSummary{ID: profile.ID, Username: profile.Username, Email: profile.Email},
		Message: "Account created successfully!",
	})
}

func (s *Server) Signin(w http.ResponseWriter, r *http.Request) {
	var params servicedef.SigninParams
	if err := decodeBody(r, &params); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	if params.Username == "" || params.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}
	profile, token, err := s.store.Authenticate(params.Username, params.Password)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	setSession(w, token)
	writeJSON(w, http.StatusOK, servicedef.AuthResponse{
		User:    servicedef.UserSummary{ID: profile.ID, Username: profile.Username, Email: profile.Email},
		Message: "Login successful!",
	})
}

func (s *Server) CurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.resolveUser(w, r, "")
	if !ok {
		return
	}
	profile, err := s.store.Profile(userID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, servicedef.AuthResponse{
		User: servicedef.UserSummary{ID: profile.ID, Username: profile.Username, Email: profile.Email},
	})
}

func (s *Server) ListNodes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, servicedef.NodesResponse{Nodes: Catalog})
}

func (s *Server) PurchaseNode(w http.ResponseWriter, r *http.Request) {
	var params servicedef.PurchaseParams
	if err := decodeBody(r, &params); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	userID, ok := s.resolveUser(w, r, params.UserID)
	if !ok {
		return
	}
	if _, known := findNode(params.NodeID); !known {
		writeStoreError(w, errUnknownNode)
		return
	}
	if !validTransactionHash(params.TransactionHash) {
		writeError(w, http.StatusBadRequest, "Invalid transaction hash")
		return
	}
	userNode, err := s.store.Purchase(userID, params.NodeID, params.TransactionHash)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, servicedef.PurchaseResponse{Message: "Node purchased successfully!", Node: userNode})
}

// validTransactionHash accepts anything that looks like a hex transaction ID, with or without a
// 0x prefix. Real verification against the chain is not simulated.
func validTransactionHash(hash string) bool {
	hash = strings.TrimPrefix(hash, "0x")
	if len(hash) < 10 {
		return false
	}
	for _, c := range hash {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return false
		}
	}
	return true
}

func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userFromRequest(w, r)
	if !ok {
		return
	}
	profile, err := s.store.Profile(userID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, servicedef.ProfileResponse{User: profile})
}

func (s *Server) GetUserNodes(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userFromRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, servicedef.NodesResponse{Nodes: s.store.UserNodes(userID)})
}

func (s *Server) GetReferrals(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userFromRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, servicedef.ReferralsResponse{Referrals: s.store.Referrals(userID)})
}

// userFromRequest handles the user endpoints, which accept either GET with a session or POST
// with an explicit userId.
func (s *Server) userFromRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	var params servicedef.UserParams
	if r.Method == http.MethodPost {
		if err := decodeBody(r, &params); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
			return "", false
		}
	}
	return s.resolveUser(w, r, params.UserID)
}

func (s *Server) Withdraw(w http.ResponseWriter, r *http.Request) {
	var params servicedef.WithdrawParams
	if err := decodeBody(r, &params); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	userID, ok := s.resolveUser(w, r, params.UserID)
	if !ok {
		return
	}
	if err := s.store.Withdraw(userID, params.Type, params.Amount); err != nil {
		writeStoreError(w, err)
		return
	}
	msg := "Mine balance withdrawal successful!"
	if params.Type == servicedef.WithdrawTypeReferral {
		msg = "Referral balance withdrawal successful!"
	}
	writeJSON(w, http.StatusOK, servicedef.MessageResponse{Message: msg})
}

func (s *Server) ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, servicedef.WithdrawalsResponse{Withdrawals: s.store.Withdrawals()})
}

func (s *Server) DBStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, servicedef.DBStatusResponse{Status: "connected", Collections: s.store.Counts()})
}

func (s *Server) VerificationStats(w http.ResponseWriter, r *http.Request) {
	purchases := s.store.Counts()["user_nodes"]
	writeJSON(w, http.StatusOK, servicedef.VerificationStatsResponse{
		Stats: servicedef.VerificationStats{TotalPurchases: purchases, Verified: purchases},
	})
}
