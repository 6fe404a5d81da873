package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
)

type Kind string

const (
	KindTransport    Kind = "transport"
	KindTimeout      Kind = "timeout"
	KindUnauthorized Kind = "unauthorized"
	KindNotFound     Kind = "not_found"
	KindValidation   Kind = "validation"
	KindUnknown      Kind = "unknown"
)

// Error is the normalized form of every request failure.
type Error struct {
	Kind    Kind
	Status  int // 0 when no response was received
	Payload json.RawMessage
	Method  string
	Path    string
	Err     error

	// set when the failed request carried a credential
	authenticated bool
}

func (e *Error) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("%s %s: %s (status %d)", e.Method, e.Path, e.Kind, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %s: %v", e.Method, e.Path, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// DecodePayload unmarshals the error payload into v.
func (e *Error) DecodePayload(v any) error {
	if len(e.Payload) == 0 {
		return errors.New("no payload")
	}
	return json.Unmarshal(e.Payload, v)
}

// AsError extracts the normalized error from err.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err is a normalized error of kind k.
func IsKind(err error, k Kind) bool {
	e, ok := AsError(err)
	return ok && e.Kind == k
}

// kindForStatus classifies a non-2xx answer. A 400 is a validation failure
// only for writes.
func kindForStatus(method string, code int) Kind {
	switch code {
	case http.StatusBadRequest:
		if method == http.MethodGet || method == http.MethodHead {
			return KindUnknown
		}
		return KindValidation
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusNotFound:
		return KindNotFound
	default:
		return KindUnknown
	}
}

func kindForTransport(err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return KindTimeout
	}
	return KindTransport
}

// normalizePayload keeps JSON bodies as-is and wraps anything else in a JSON
// string so Payload is always valid JSON.
func normalizePayload(body []byte) json.RawMessage {
	if len(body) == 0 {
		return nil
	}
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	quoted, _ := json.Marshal(string(body))
	return json.RawMessage(quoted)
}
