package framework

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"syscall"
	"time"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// FailureKind describes why no HTTP response was obtained.
type FailureKind string

const (
	FailureTimeout    FailureKind = "timeout"
	FailureConnection FailureKind = "connection_error"
	FailureOther      FailureKind = "other"
)

// TransportFailure is the outcome of a request that did not produce a complete HTTP response.
type TransportFailure struct {
	Kind    FailureKind
	Message string
}

func (f *TransportFailure) Error() string {
	return string(f.Kind) + ": " + f.Message
}

// Body is a captured response body. JSON is only meaningful if ParseError is nil.
type Body struct {
	Raw        []byte
	JSON       ldvalue.Value
	ParseError error
}

var errEmptyBody = errors.New("response body was empty")

// ParseBody keeps the raw bytes and, if they are valid JSON, the parsed value.
func ParseBody(raw []byte) Body {
	b := Body{Raw: raw, JSON: ldvalue.Null()}
	if len(bytes.TrimSpace(raw)) == 0 {
		b.ParseError = errEmptyBody
		return b
	}
	if err := json.Unmarshal(raw, &b.JSON); err != nil {
		b.JSON = ldvalue.Null()
		b.ParseError = err
	}
	return b
}

func (b Body) Text() string {
	return string(b.Raw)
}

func (b Body) IsJSON() bool {
	return b.ParseError == nil
}

// Lookup finds a value by a dot-separated path such as "user.id" or "nodes.0.name".
func (b Body) Lookup(path string) (ldvalue.Value, bool) {
	return Lookup(b.JSON, path)
}

// Lookup finds a value within v by a dot-separated path. Object keys and array indexes can both
// appear in the path. The second return value is false if any step of the path does not exist;
// a property that exists with a null value is found.
func Lookup(v ldvalue.Value, path string) (ldvalue.Value, bool) {
	if path == "" {
		return v, true
	}
	current := v
	for _, step := range strings.Split(path, ".") {
		switch current.Type() {
		case ldvalue.ObjectType:
			if !hasKey(current, step) {
				return ldvalue.Null(), false
			}
			current = current.GetByKey(step)
		case ldvalue.ArrayType:
			index, err := strconv.Atoi(step)
			if err != nil || index < 0 || index >= current.Count() {
				return ldvalue.Null(), false
			}
			current = current.GetByIndex(index)
		default:
			return ldvalue.Null(), false
		}
	}
	return current, true
}

func hasKey(object ldvalue.Value, key string) bool {
	for _, k := range object.Keys() {
		if k == key {
			return true
		}
	}
	return false
}

// Response is a complete HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       Body
}

// Outcome is the result of executing one request: exactly one of Response and Failure is set.
type Outcome struct {
	Response *Response
	Failure  *TransportFailure
	Duration time.Duration
	Curl     string
}

func classifyTransportError(err error) *TransportFailure {
	kind := FailureOther
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = FailureTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = FailureTimeout
	case isConnectionError(err):
		kind = FailureConnection
	}
	return &TransportFailure{Kind: kind, Message: err.Error()}
}

func isConnectionError(err error) bool {
	var opErr *net.OpError
	var dnsErr *net.DNSError
	return errors.As(err, &opErr) ||
		errors.As(err, &dnsErr) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		strings.HasSuffix(err.Error(), ": EOF")
}
