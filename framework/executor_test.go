package framework

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutorReturnsParsedJSONBody(t *testing.T) {
	handler := httphelpers.HandlerWithResponse(200, http.Header{"Content-Type": {"application/json"}},
		[]byte(`{"user":{"id":"u1","username":"alice"}}`))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		e := NewExecutor(server.URL, time.Second)
		outcome := e.Do(context.Background(), Request{Method: "GET", Path: "/auth/user"}, nil)

		require.Nil(t, outcome.Failure)
		require.NotNil(t, outcome.Response)
		assert.Equal(t, 200, outcome.Response.StatusCode)
		assert.True(t, outcome.Response.Body.IsJSON())
		v, ok := outcome.Response.Body.Lookup("user.username")
		assert.True(t, ok)
		assert.Equal(t, "alice", v.StringValue())
	})
}

func TestExecutorKeepsRawTextOfNonJSONBody(t *testing.T) {
	handler := httphelpers.HandlerWithResponse(500, nil, []byte("<html>oops</html>"))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		outcome := NewExecutor(server.URL, time.Second).Do(context.Background(), Request{Method: "GET", Path: "/"}, nil)

		require.NotNil(t, outcome.Response)
		assert.Equal(t, 500, outcome.Response.StatusCode)
		assert.False(t, outcome.Response.Body.IsJSON())
		assert.Equal(t, "<html>oops</html>", outcome.Response.Body.Text())
	})
}

func TestExecutorSendsJSONPayloadAndDefaultHeaders(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(200))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		e := NewExecutor(server.URL+"/api/", time.Second, WithDefaultHeader("X-Test", "yes"))
		payload := map[string]string{"username": "alice"}
		outcome := e.Do(context.Background(), Request{Method: "POST", Path: "auth/signup", Payload: JSONPayload(payload)}, nil)
		require.NotNil(t, outcome.Response)

		r := <-requestsCh
		assert.Equal(t, "POST", r.Request.Method)
		assert.Equal(t, "/api/auth/signup", r.Request.URL.Path)
		assert.Equal(t, "application/json", r.Request.Header.Get("Content-Type"))
		assert.Equal(t, "yes", r.Request.Header.Get("X-Test"))
		assert.True(t, strings.HasPrefix(r.Request.Header.Get("User-Agent"), "trx-contract-tests/"))
		assert.JSONEq(t, `{"username":"alice"}`, string(r.Body))
	})
}

func TestExecutorSendsRawPayloadVerbatim(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(400))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		e := NewExecutor(server.URL, time.Second)
		outcome := e.Do(context.Background(), Request{Method: "POST", Path: "/auth/signup", Payload: RawPayload("invalid json")}, nil)
		require.NotNil(t, outcome.Response)

		r := <-requestsCh
		assert.Equal(t, "invalid json", string(r.Body))
	})
}

func TestExecutorKeepsSessionCookies(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/signin", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/"})
		w.WriteHeader(200)
	})
	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("session"); err == nil && c.Value == "abc" {
			w.WriteHeader(200)
			return
		}
		w.WriteHeader(401)
	})
	httphelpers.WithServer(mux, func(server *httptest.Server) {
		e := NewExecutor(server.URL, time.Second)
		first := e.Do(context.Background(), Request{Method: "POST", Path: "/signin"}, nil)
		require.NotNil(t, first.Response)
		second := e.Do(context.Background(), Request{Method: "GET", Path: "/me"}, nil)
		require.NotNil(t, second.Response)
		assert.Equal(t, 200, second.Response.StatusCode)

		other := NewExecutor(server.URL, time.Second).Do(context.Background(), Request{Method: "GET", Path: "/me"}, nil)
		require.NotNil(t, other.Response)
		assert.Equal(t, 401, other.Response.StatusCode)
	})
}

func TestExecutorTimeoutIsTransportFailure(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second * 2):
		}
	})
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		e := NewExecutor(server.URL, time.Second)
		outcome := e.Do(context.Background(), Request{Method: "GET", Path: "/", Timeout: time.Millisecond * 50}, nil)

		assert.Nil(t, outcome.Response)
		require.NotNil(t, outcome.Failure)
		assert.Equal(t, FailureTimeout, outcome.Failure.Kind)
	})
}

func TestExecutorRefusedConnectionIsTransportFailure(t *testing.T) {
	server := httptest.NewServer(httphelpers.HandlerWithStatus(200))
	url := server.URL
	server.Close()

	outcome := NewExecutor(url, time.Second).Do(context.Background(), Request{Method: "GET", Path: "/"}, nil)

	assert.Nil(t, outcome.Response)
	require.NotNil(t, outcome.Failure)
	assert.Equal(t, FailureConnection, outcome.Failure.Kind)
}

func TestExecutorBrokenConnectionIsTransportFailure(t *testing.T) {
	httphelpers.WithServer(httphelpers.BrokenConnectionHandler(), func(server *httptest.Server) {
		outcome := NewExecutor(server.URL, time.Second).Do(context.Background(), Request{Method: "GET", Path: "/"}, nil)

		assert.Nil(t, outcome.Response)
		require.NotNil(t, outcome.Failure)
		assert.Equal(t, FailureConnection, outcome.Failure.Kind)
	})
}

func TestExecutorInvalidURLIsTransportFailure(t *testing.T) {
	outcome := NewExecutor("http://[::1", time.Second).Do(context.Background(), Request{Method: "GET", Path: "/"}, nil)

	require.NotNil(t, outcome.Failure)
	assert.Equal(t, FailureOther, outcome.Failure.Kind)
}

func TestExecutorLogsCurlCommand(t *testing.T) {
	httphelpers.WithServer(httphelpers.HandlerWithStatus(200), func(server *httptest.Server) {
		var logger CapturingLogger
		outcome := NewExecutor(server.URL, time.Second).Do(context.Background(), Request{
			Method:  "POST",
			Path:    "/withdraw",
			Payload: JSONPayload(map[string]interface{}{"type": "mine", "amount": 10}),
		}, &logger)

		assert.Contains(t, outcome.Curl, "curl -sS -X POST")
		assert.Contains(t, outcome.Curl, `--data-raw '{"amount":10,"type":"mine"}'`)
		assert.Contains(t, outcome.Curl, server.URL+"/withdraw")

		var lines []string
		for _, m := range logger.Output() {
			lines = append(lines, m.Message)
		}
		assert.Contains(t, strings.Join(lines, "\n"), outcome.Curl)
	})
}
