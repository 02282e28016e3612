package driving

import (
	"context"
	"net/http"

	"github.com/custodia-labs/tunebridge/internal/core/domain"
)

// AuthorizationService drives the browser-based authorization code flow.
// There is at most one active session per platform.
type AuthorizationService interface {
	// Start begins a new attempt in the background.
	// Returns domain.ErrAuthInProgress if one is already running for the platform.
	Start(platform domain.Platform) error

	// Cancel resets the platform to NotStarted and releases its listener.
	Cancel(platform domain.Platform)

	// Logout cancels any attempt and removes the platform's login record.
	Logout(platform domain.Platform) error

	// Status returns the platform's current status.
	Status(platform domain.Platform) domain.AuthStatus

	// Statuses returns a snapshot of every known platform's status.
	Statuses() map[domain.Platform]domain.AuthStatus

	// Session returns the active or last session for a platform.
	Session(platform domain.Platform) (domain.AuthorizationSession, bool)

	// Wait blocks until the platform's current session finishes.
	Wait(ctx context.Context, platform domain.Platform) (domain.AuthStatus, error)

	// Watch subscribes to status changes. Delivery never blocks the engine:
	// events are dropped when the buffer is full. Call the returned func to unsubscribe.
	Watch(buffer int) (<-chan domain.StatusChange, func())

	// Client returns an HTTP client carrying the bearer token from the last completed attempt.
	Client(platform domain.Platform) (*http.Client, bool)
}

// TokenGate hands out valid access tokens, refreshing them when expired.
type TokenGate interface {
	// EnsureValid returns a login record whose access token has not expired.
	// Fails with *domain.AuthError wrapping ErrNotLoggedIn or ErrRefreshFailed.
	EnsureValid(ctx context.Context, platform domain.Platform) (*domain.LoginRecord, error)

	// AppToken obtains an app-only token through the client credentials grant.
	AppToken(ctx context.Context, platform domain.Platform) (*domain.TokenResponse, error)
}
