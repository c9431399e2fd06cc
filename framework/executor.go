package framework

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

const (
	defaultRequestTimeout = time.Second * 10
	maxLoggedBodyLength   = 2000
)

// Request is what the executor needs to know to send one test case.
type Request struct {
	Method  string
	Path    string
	Payload Payload
	Headers map[string]string
	Timeout time.Duration
}

// Executor sends requests to the service under test. It holds the session for a run: cookies set
// by one response (for instance, after signing in) are sent with later requests.
type Executor struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	headers map[string]string
	logger  Logger
}

type ExecutorOption func(*Executor)

// WithDefaultHeader adds a header that is sent with every request unless the test case
// overrides it.
func WithDefaultHeader(name, value string) ExecutorOption {
	return func(e *Executor) { e.headers[name] = value }
}

// WithTransport replaces the HTTP transport, keeping the session cookie jar.
func WithTransport(transport http.RoundTripper) ExecutorOption {
	return func(e *Executor) { e.client.Transport = transport }
}

// WithDebugLogger sends a copy of every request log line to a process-level logger.
func WithDebugLogger(logger Logger) ExecutorOption {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExecutor creates an executor for the API rooted at baseURL, for instance
// "http://localhost:3000/api". A timeout of zero means the default of 10 seconds.
func NewExecutor(baseURL string, timeout time.Duration, options ...ExecutorOption) *Executor {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	jar, _ := cookiejar.New(nil) // cookiejar.New never returns an error for nil options
	e := &Executor{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Jar: jar},
		timeout: timeout,
		headers: map[string]string{
			"Content-Type": "application/json",
			"User-Agent":   "trx-contract-tests/" + Version,
		},
		logger: NullLogger(),
	}
	for _, o := range options {
		o(e)
	}
	return e
}

func (e *Executor) BaseURL() string {
	return e.baseURL
}

// URL resolves a test case path against the base URL.
func (e *Executor) URL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return e.baseURL + path
}

// Do sends one request and waits for the complete response, or until the timeout. It never
// returns an error; failures to get a response are described by Outcome.Failure.
func (e *Executor) Do(ctx context.Context, req Request, debugLogger Logger) Outcome {
	logger := teeLogger{loggers: []Logger{e.logger}}
	if debugLogger != nil {
		logger.loggers = append(logger.loggers, debugLogger)
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = e.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	data, err := req.Payload.encode()
	if err != nil {
		return Outcome{Failure: &TransportFailure{Kind: FailureOther, Message: err.Error()}}
	}
	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, e.URL(req.Path), body)
	if err != nil {
		return Outcome{Failure: &TransportFailure{Kind: FailureOther, Message: err.Error()}}
	}
	for name, value := range e.headers {
		httpReq.Header.Set(name, value)
	}
	for name, value := range req.Headers {
		httpReq.Header.Set(name, value)
	}

	curl := curlCommand(httpReq, data)
	logger.Printf("Request: %s %s (timeout %s)", req.Method, httpReq.URL, timeout)
	logger.Printf("Reproduce with: %s", curl)

	startTime := time.Now()
	resp, err := e.client.Do(httpReq)
	if err != nil {
		failure := classifyTransportError(err)
		logger.Printf("Request failed (%s): %s", failure.Kind, failure.Message)
		return Outcome{Failure: failure, Duration: time.Since(startTime), Curl: curl}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	duration := time.Since(startTime)
	if err != nil {
		failure := classifyTransportError(fmt.Errorf("reading response body: %w", err))
		logger.Printf("Response HTTP %d, but %s", resp.StatusCode, failure.Message)
		return Outcome{Failure: failure, Duration: duration, Curl: curl}
	}
	logger.Printf("Response: HTTP %d in %s: %s", resp.StatusCode, duration.Round(time.Millisecond), truncateForLog(raw))

	return Outcome{
		Response: &Response{
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Body:       ParseBody(raw),
		},
		Duration: duration,
		Curl:     curl,
	}
}

func truncateForLog(data []byte) string {
	if len(data) == 0 {
		return "<empty body>"
	}
	if len(data) > maxLoggedBodyLength {
		return string(data[:maxLoggedBodyLength]) + "...(truncated)"
	}
	return string(data)
}
