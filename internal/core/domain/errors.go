package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownPlatform indicates no provider is registered for a platform.
	ErrUnknownPlatform = errors.New("unknown platform")

	// ErrAuthInProgress indicates an attempt for the platform is already running.
	ErrAuthInProgress = errors.New("authorization already in progress")

	// Listener Errors.

	// ErrNoPortAvailable indicates every candidate loopback port was taken.
	ErrNoPortAvailable = errors.New("no loopback port available")

	// ErrNotBound indicates the listener was released or never bound.
	ErrNotBound = errors.New("listener not bound")

	// Authentication Errors.

	// ErrNotLoggedIn indicates no login record exists for the platform.
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrRefreshFailed indicates the refresh grant was rejected or failed.
	ErrRefreshFailed = errors.New("token refresh failed")

	// ErrStateMismatch indicates the callback carried an unexpected anti-forgery state.
	ErrStateMismatch = errors.New("state mismatch")

	// ErrAccessDenied indicates the provider redirected back with an error.
	ErrAccessDenied = errors.New("authorization denied")
)

// FieldProblem is a single validation failure in the client configuration.
type FieldProblem struct {
	Platform Platform
	Field    string
	Message  string
}

func (p FieldProblem) String() string {
	return fmt.Sprintf("%s.%s: %s", p.Platform, p.Field, p.Message)
}

// ConfigError reports a missing, unreadable or invalid client configuration.
// Problems is empty for read and parse failures, where Err is set instead.
type ConfigError struct {
	Path     string
	Problems []FieldProblem
	Err      error
}

func (e *ConfigError) Error() string {
	if len(e.Problems) == 0 {
		return fmt.Sprintf("config %s: %v", e.Path, e.Err)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "config %s is invalid:", e.Path)
	for _, p := range e.Problems {
		b.WriteString("\n  - ")
		b.WriteString(p.String())
	}
	return b.String()
}

func (e *ConfigError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// HasProblem reports whether a specific platform field failed validation.
func (e *ConfigError) HasProblem(platform Platform, field string) bool {
	for _, p := range e.Problems {
		if p.Platform == platform && p.Field == field {
			return true
		}
	}
	return false
}

// BindError reports that no candidate loopback port could be bound.
type BindError struct {
	Ports []int
	Err   error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("bind loopback listener on ports %v: %v", e.Ports, e.Err)
}

func (e *BindError) Unwrap() error { return e.Err }

// CallbackKind classifies callback failures.
type CallbackKind string

const (
	CallbackTimedOut  CallbackKind = "timed_out"
	CallbackCancelled CallbackKind = "cancelled"
	CallbackMalformed CallbackKind = "malformed_request"
	CallbackIO        CallbackKind = "io"
)

// CallbackError reports a failure while waiting for or reading the redirect.
type CallbackError struct {
	Kind CallbackKind
	Err  error
}

func (e *CallbackError) Error() string {
	switch e.Kind {
	case CallbackTimedOut:
		return "timeout waiting for authorization callback"
	case CallbackCancelled:
		return "authorization callback cancelled"
	case CallbackMalformed:
		return fmt.Sprintf("malformed callback request: %v", e.Err)
	default:
		return fmt.Sprintf("callback: %v", e.Err)
	}
}

func (e *CallbackError) Unwrap() error { return e.Err }

// ExchangeKind classifies token endpoint failures.
type ExchangeKind string

const (
	ExchangeTransport ExchangeKind = "transport"
	ExchangeRejected  ExchangeKind = "rejected"
	ExchangeTimedOut  ExchangeKind = "timed_out"
	ExchangeMalformed ExchangeKind = "malformed_response"
)

// ExchangeError reports a failed call to a provider's token endpoint.
// Status and Body are set for ExchangeRejected.
type ExchangeError struct {
	Kind   ExchangeKind
	Status int
	Body   string
	Err    error
}

func (e *ExchangeError) Error() string {
	switch e.Kind {
	case ExchangeRejected:
		return fmt.Sprintf("token endpoint rejected request: status %d: %s", e.Status, e.Body)
	case ExchangeTimedOut:
		return "token request timeout"
	case ExchangeMalformed:
		return fmt.Sprintf("malformed token response: %v", e.Err)
	default:
		return fmt.Sprintf("token request: %v", e.Err)
	}
}

func (e *ExchangeError) Unwrap() error { return e.Err }

// StorageError reports an I/O or serialization failure of the credential file.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("credential store %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// AuthError is surfaced to callers that need a valid token.
// Err is ErrNotLoggedIn or ErrRefreshFailed.
type AuthError struct {
	Platform Platform
	Err      error
	Reason   string
}

func (e *AuthError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: %v", e.Platform, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Platform, e.Err, e.Reason)
}

func (e *AuthError) Unwrap() error { return e.Err }
