// Package apierr classifies request failures into the fixed set of kinds the
// interface layer knows how to present. Classification happens once, at the
// service boundary; the request client itself returns raw errors.
package apierr

import (
	"errors"
	"fmt"
	"time"
)

// Kind is the category of a normalized error.
type Kind string

const (
	KindNetwork    Kind = "network"
	KindAuth       Kind = "auth"
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindServer     Kind = "server"
	KindUnknown    Kind = "unknown"
)

// Sentinels matched by errors.Is against a classified *Error.
var (
	ErrNetwork    = errors.New("network error")
	ErrAuth       = errors.New("authentication error")
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrServer     = errors.New("server error")
	ErrUnknown    = errors.New("unknown error")
)

var kindSentinels = map[Kind]error{
	KindNetwork:    ErrNetwork,
	KindAuth:       ErrAuth,
	KindValidation: ErrValidation,
	KindNotFound:   ErrNotFound,
	KindServer:     ErrServer,
	KindUnknown:    ErrUnknown,
}

// User-facing messages for failures that carry no server body.
const (
	FallbackMessage = "An unexpected error occurred"
	NetworkMessage  = "Network error. Please check your connection."
	TimeoutMessage  = "Request timed out. Please try again."
)

// Error is a normalized request failure.
type Error struct {
	Kind       Kind   `json:"type"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
	Data       any    `json:"data,omitempty"`
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

// TimeoutError is returned by the request client when a call does not settle
// within its deadline.
type TimeoutError struct {
	Method string
	Path   string
	Limit  time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timeout: %s %s exceeded %s", e.Method, e.Path, e.Limit)
}

// Timeout lets net.Error-style checks recognise the error.
func (e *TimeoutError) Timeout() bool { return true }

// IsAuth reports whether err classifies as an authentication failure.
func IsAuth(err error) bool {
	ce := Classify(err)
	return ce != nil && ce.Kind == KindAuth
}

// IsTimeout reports whether err classifies as a timed-out request.
func IsTimeout(err error) bool {
	ce := Classify(err)
	return ce != nil && ce.Kind == KindNetwork && ce.StatusCode == 408
}
