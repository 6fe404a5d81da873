package services

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/campus/internal/client/api"
)

type ErrorKind string

const (
	KindNotFound ErrorKind = "not_found"
	KindFailed   ErrorKind = "failed"
	KindInvalid  ErrorKind = "invalid"
)

// Sentinels for errors.Is on the kind of a *Error.
var (
	ErrNotFound = errors.New("resource not found")
	ErrFailed   = errors.New("operation failed")
	ErrInvalid  = errors.New("invalid input")
)

type Error struct {
	Op      string
	Kind    ErrorKind
	Message string
	Status  int
	Payload json.RawMessage
	Err     error
}

// Error returns the user-facing message.
func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrFailed:
		return e.Kind == KindFailed
	case ErrInvalid:
		return e.Kind == KindInvalid
	}
	return false
}

// Message extracts the user-facing message of err, falling back to def.
func Message(err error, def string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return def
}

// fail maps err to KindFailed. byStatus overrides the message for specific
// statuses.
func fail(op, msg string, byStatus map[int]string, err error) error {
	e := &Error{Op: op, Kind: KindFailed, Message: msg, Err: err}
	if ae, ok := api.AsError(err); ok {
		e.Status = ae.Status
		e.Payload = ae.Payload
		if m, ok := byStatus[ae.Status]; ok {
			e.Message = m
		}
	}
	return e
}

// failLookup is fail for single-resource fetches: 404 becomes KindNotFound
// with a fixed message.
func failLookup(op, notFoundMsg, msg string, err error) error {
	e := fail(op, msg, nil, err).(*Error)
	if e.Status == http.StatusNotFound {
		e.Kind = KindNotFound
		e.Message = notFoundMsg
	}
	return e
}

func invalid(op, msg string, err error) error {
	return &Error{Op: op, Kind: KindInvalid, Message: msg, Err: err}
}
