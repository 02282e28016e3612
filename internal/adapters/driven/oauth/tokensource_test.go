package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tunebridge/internal/core/domain"
)

type stubGate struct {
	record *domain.LoginRecord
	err    error
	calls  int
}

func (g *stubGate) EnsureValid(_ context.Context, _ domain.Platform) (*domain.LoginRecord, error) {
	g.calls++
	return g.record, g.err
}

func (g *stubGate) AppToken(_ context.Context, _ domain.Platform) (*domain.TokenResponse, error) {
	return nil, domain.ErrNotFound
}

func TestTokenSource(t *testing.T) {
	t.Run("returns bearer token from gate", func(t *testing.T) {
		gate := &stubGate{record: &domain.LoginRecord{
			Platform:    domain.PlatformOsu,
			AccessToken: "A",
			ExpiryTime:  time.Now().Add(time.Hour),
		}}

		ts := NewTokenSource(context.Background(), gate, domain.PlatformOsu)
		tok, err := ts.Token()
		require.NoError(t, err)
		assert.Equal(t, "A", tok.AccessToken)
		assert.Equal(t, "Bearer", tok.TokenType)

		_, err = ts.Token()
		require.NoError(t, err)
		assert.Equal(t, 1, gate.calls, "valid token should be reused")
	})

	t.Run("propagates gate errors", func(t *testing.T) {
		gate := &stubGate{err: &domain.AuthError{Platform: domain.PlatformOsu, Err: domain.ErrNotLoggedIn}}

		_, err := NewTokenSource(context.Background(), gate, domain.PlatformOsu).Token()
		assert.ErrorIs(t, err, domain.ErrNotLoggedIn)
	})
}

func TestNewClient_SetsAuthorizationHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer A", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	gate := &stubGate{record: &domain.LoginRecord{AccessToken: "A", ExpiryTime: time.Now().Add(time.Hour)}}
	resp, err := NewClient(context.Background(), gate, domain.PlatformSpotify).Get(server.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
