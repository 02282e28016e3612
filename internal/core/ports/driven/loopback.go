package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/tunebridge/internal/core/domain"
)

// CallbackReceiver owns the loopback listener of one authorization session.
// Release may be called concurrently with AwaitCode and makes it return
// a *domain.CallbackError of kind CallbackCancelled.
type CallbackReceiver interface {
	// Acquire binds the first free candidate port and returns it.
	Acquire(ports []int) (int, error)

	// RedirectURI is the loopback redirect for the bound port.
	RedirectURI() string

	// AwaitCode waits up to timeout for one redirect and returns its code.
	AwaitCode(ctx context.Context, expectedState string, timeout time.Duration) (string, error)

	// Release closes the listener. It is idempotent.
	Release() error
}

// CallbackReceiverFactory creates a receiver for a new session.
type CallbackReceiverFactory func() CallbackReceiver

// AuthURLBuilder builds the browser authorization URL for a session.
type AuthURLBuilder func(spec domain.ProviderSpec, clientID, redirectURI, state string) (string, error)
