//nolint:noctx // Test file uses http.Get for convenience; context not required in tests
package oauth

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tunebridge/internal/core/domain"
)

func redirectTo(t *testing.T, url string) {
	t.Helper()
	go func() {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
		}
	}()
}

func TestReceiver_AwaitCode(t *testing.T) {
	r := NewReceiver()
	port, err := r.Acquire([]int{freePort(t)})
	require.NoError(t, err)
	defer r.Release()

	assert.Equal(t, fmt.Sprintf("http://127.0.0.1:%d/callback", port), r.RedirectURI())

	redirectTo(t, r.RedirectURI()+"?code=ABC123&state=s1")

	code, err := r.AwaitCode(context.Background(), "s1", 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, "ABC123", code)
}

func TestReceiver_AwaitCode_StateMismatch(t *testing.T) {
	r := NewReceiver()
	_, err := r.Acquire([]int{freePort(t)})
	require.NoError(t, err)
	defer r.Release()

	redirectTo(t, r.RedirectURI()+"?code=ABC123&state=forged")

	_, err = r.AwaitCode(context.Background(), "s1", 5*time.Second)
	assert.ErrorIs(t, err, domain.ErrStateMismatch)
}

func TestReceiver_ReleaseDuringAwait(t *testing.T) {
	r := NewReceiver()
	port, err := r.Acquire([]int{freePort(t)})
	require.NoError(t, err)

	go func() {
		time.Sleep(150 * time.Millisecond)
		_ = r.Release()
	}()

	_, err = r.AwaitCode(context.Background(), "s1", 5*time.Second)

	var cbErr *domain.CallbackError
	require.ErrorAs(t, err, &cbErr)
	assert.Equal(t, domain.CallbackCancelled, cbErr.Kind)
	assert.True(t, canBind(port))
}

func TestNewCallbackReceiver(t *testing.T) {
	assert.IsType(t, &Receiver{}, NewCallbackReceiver())
}
