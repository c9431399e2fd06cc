// Package fakeapi is an in-memory stand-in for the mining platform API. It implements the HTTP
// contract the suite checks, with simplified balances and no real transaction verification, so
// the harness can be exercised without the real backend.
package fakeapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/trxmining/api-contract-tests/framework"
	"github.com/trxmining/api-contract-tests/servicedef"
)

const (
	// APIPrefix is where the API routes are mounted.
	APIPrefix         = "/api"
	sessionCookieName = "trx_session"
)

// Server is the HTTP handler for the fake API.
type Server struct {
	store  *Store
	router *chi.Mux
	logger framework.Logger
}

// New creates a server with an empty store. Each request is logged to logger if it is not nil.
func New(logger framework.Logger) *Server {
	if logger == nil {
		logger = framework.NullLogger()
	}
	s := &Server{store: NewStore(), router: chi.NewRouter(), logger: logger}

	r := s.router
	r.Use(chimw.Recoverer)
	r.Use(s.requestLog)
	r.Use(securityHeaders)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Route(APIPrefix, func(r chi.Router) {
		r.Post(servicedef.PathSignup, s.Signup)
		r.Post(servicedef.PathSignin, s.Signin)
		r.Get(servicedef.PathCurrentUser, s.CurrentUser)

		r.Get(servicedef.PathNodes, s.ListNodes)
		r.Post(servicedef.PathPurchase, s.PurchaseNode)

		r.Get(servicedef.PathProfile, s.GetProfile)
		r.Post(servicedef.PathProfile, s.GetProfile)
		r.Get(servicedef.PathUserNodes, s.GetUserNodes)
		r.Post(servicedef.PathUserNodes, s.GetUserNodes)
		r.Get(servicedef.PathReferrals, s.GetReferrals)
		r.Post(servicedef.PathReferrals, s.GetReferrals)

		r.Post(servicedef.PathWithdraw, s.Withdraw)
		r.Get(servicedef.PathWithdrawals, s.ListWithdrawals)

		r.Get(servicedef.PathAdminDBStatus, s.DBStatus)
		r.Get(servicedef.PathAdminVerification, s.VerificationStats)
	})
	return s
}

func (s *Server) Store() *Store {
	return s.store
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Printf("%s %s -> %d (%s)", r.Method, r.URL.Path, ww.Status(), time.Since(start).Round(time.Microsecond))
	})
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for name, value := range servicedef.SecurityHeaders {
			w.Header().Set(name, value)
		}
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, servicedef.ErrorResponse{Error: message})
}

// writeStoreError reports an error from the store, using the status code of a rule violation.
func writeStoreError(w http.ResponseWriter, err error) {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		writeError(w, apiErr.status, apiErr.message)
		return
	}
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

// decodeBody reads a JSON request body into v. An empty body leaves v unchanged.
func decodeBody(r *http.Request, v interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func setSession(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// resolveUser picks the user a request is about: an explicit userId in the body wins, otherwise
// the session user. The second return value is false if neither is available, in which case an
// error response has been written.
func (s *Server) resolveUser(w http.ResponseWriter, r *http.Request, explicitID string) (string, bool) {
	if explicitID != "" {
		return explicitID, true
	}
	if c, err := r.Cookie(sessionCookieName); err == nil {
		if id, ok := s.store.SessionUser(c.Value); ok {
			return id, true
		}
	}
	writeError(w, http.StatusUnauthorized, "Not authenticated")
	return "", false
}
