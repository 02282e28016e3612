package oauth

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/tunebridge/internal/core/ports/driven"
)

// Ensure Receiver implements the interface.
var _ driven.CallbackReceiver = (*Receiver)(nil)

// Receiver combines a ListenerManager with AcceptOnce for one session.
type Receiver struct {
	listener *ListenerManager
}

// NewReceiver creates a receiver with nothing bound.
func NewReceiver() *Receiver {
	return &Receiver{listener: NewListenerManager()}
}

// NewCallbackReceiver satisfies driven.CallbackReceiverFactory.
func NewCallbackReceiver() driven.CallbackReceiver {
	return NewReceiver()
}

// Acquire binds the first free candidate port.
func (r *Receiver) Acquire(ports []int) (int, error) {
	return r.listener.Acquire(ports)
}

// RedirectURI returns http://127.0.0.1:<port>/callback for the bound port.
func (r *Receiver) RedirectURI() string {
	return fmt.Sprintf("http://%s:%d%s", loopbackHost, r.listener.Port(), CallbackPath)
}

// AwaitCode accepts one redirect and validates it against expectedState.
func (r *Receiver) AwaitCode(ctx context.Context, expectedState string, timeout time.Duration) (string, error) {
	redirect, err := AcceptOnce(ctx, r.listener, timeout)
	if err != nil {
		return "", err
	}
	return redirect.AuthorizationCode(expectedState)
}

// Release closes the listener.
func (r *Receiver) Release() error {
	return r.listener.Release()
}
