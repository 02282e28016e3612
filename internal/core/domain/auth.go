package domain

import (
	"fmt"
	"time"
)

// StatusKind enumerates the states of an authorization attempt.
type StatusKind int

const (
	// StatusNotStarted means no attempt is active.
	StatusNotStarted StatusKind = iota
	// StatusWaitingForBrowser means the authorization URL was opened and the callback is pending.
	StatusWaitingForBrowser
	// StatusProcessing means the callback arrived and the code is being exchanged.
	StatusProcessing
	// StatusTokenObtained means tokens were issued and the profile is being fetched.
	StatusTokenObtained
	// StatusCompleted means the login record was persisted.
	StatusCompleted
	// StatusFailed means the attempt ended with an error.
	StatusFailed
)

var statusKindNames = map[StatusKind]string{
	StatusNotStarted:        "not_started",
	StatusWaitingForBrowser: "waiting_for_browser",
	StatusProcessing:        "processing",
	StatusTokenObtained:     "token_obtained",
	StatusCompleted:         "completed",
	StatusFailed:            "failed",
}

// String returns the snake_case name of the kind.
func (k StatusKind) String() string {
	if name, ok := statusKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(k))
}

// ParseStatusKind converts a stored name back to a StatusKind.
func ParseStatusKind(s string) (StatusKind, error) {
	for kind, name := range statusKindNames {
		if name == s {
			return kind, nil
		}
	}
	return StatusNotStarted, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, s)
}

// AuthStatus is the current state of one platform's authorization.
// Reason is only set for StatusFailed.
type AuthStatus struct {
	Kind   StatusKind
	Reason string
}

// NotStarted returns the idle status.
func NotStarted() AuthStatus {
	return AuthStatus{Kind: StatusNotStarted}
}

// Failed returns a failed status carrying a human-readable reason.
func Failed(reason string) AuthStatus {
	return AuthStatus{Kind: StatusFailed, Reason: reason}
}

// InProgress returns true while an attempt is between start and a terminal state.
func (s AuthStatus) InProgress() bool {
	switch s.Kind {
	case StatusWaitingForBrowser, StatusProcessing, StatusTokenObtained:
		return true
	default:
		return false
	}
}

// Terminal returns true for Completed and Failed.
func (s AuthStatus) Terminal() bool {
	return s.Kind == StatusCompleted || s.Kind == StatusFailed
}

func (s AuthStatus) String() string {
	if s.Kind == StatusFailed && s.Reason != "" {
		return fmt.Sprintf("failed: %s", s.Reason)
	}
	return s.Kind.String()
}

// StatusChange is delivered to status observers on every transition.
type StatusChange struct {
	Platform Platform
	Status   AuthStatus
	At       time.Time
}

// AuthorizationSession describes one authorization attempt.
// It is never persisted; BoundPort is zero until a listener is bound.
type AuthorizationSession struct {
	ID        string
	Platform  Platform
	StartedAt time.Time
	BoundPort int
}

// AuthAttempt is the history entry written when a session ends.
type AuthAttempt struct {
	ID         string
	Platform   Platform
	StartedAt  time.Time
	FinishedAt time.Time
	Outcome    StatusKind
	Reason     string
}
