package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
)

// Kind identifies the failure class of a client operation. Every error the
// client returns carries exactly one kind; no raw transport error escapes.
type Kind int

const (
	KindHTTP Kind = iota
	KindAuthentication
	KindTimeout
	KindNetwork
	KindSerialization
	KindIO
	KindOther
)

// String returns a short lowercase label for the kind.
func (k Kind) String() string {
	switch k {
	case KindHTTP:
		return "http"
	case KindAuthentication:
		return "authentication"
	case KindTimeout:
		return "timeout"
	case KindNetwork:
		return "network"
	case KindSerialization:
		return "serialization"
	case KindIO:
		return "io"
	default:
		return "unexpected"
	}
}

// Error is the single failure type surfaced by client operations.
type Error struct {
	Kind    Kind
	Status  int    // HTTP status code, set when Kind is KindHTTP
	Code    string // API-specific error code, optional
	Message string
}

func (e *Error) Error() string {
	if e.Kind == KindHTTP {
		if e.Code != "" {
			return fmt.Sprintf("http %d (%s): %s", e.Status, e.Code, e.Message)
		}
		return fmt.Sprintf("http %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

// ErrKind reports the taxonomy kind carried by err, when err originated from
// this package.
func ErrKind(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsKind reports whether err carries the given taxonomy kind.
func IsKind(err error, kind Kind) bool {
	got, ok := ErrKind(err)
	return ok && got == kind
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// httpError builds a KindHTTP error, opportunistically lifting an
// API-specific code out of a JSON response body.
func httpError(status int, body string) *Error {
	return &Error{
		Kind:    KindHTTP,
		Status:  status,
		Code:    extractErrorCode(body),
		Message: body,
	}
}

// extractErrorCode returns the string "code" field of a JSON body, or empty
// when the body is not JSON or carries no such field.
func extractErrorCode(body string) string {
	var payload struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return ""
	}
	return payload.Code
}

// classifyTransport maps a transport-level dispatch failure into the
// taxonomy. HTTP statuses never reach here; they are classified from the
// response instead.
func classifyTransport(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return newError(KindTimeout, err.Error())
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return newError(KindTimeout, err.Error())
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return newError(KindNetwork, err.Error())
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return newError(KindNetwork, err.Error())
	}
	return newError(KindOther, err.Error())
}
