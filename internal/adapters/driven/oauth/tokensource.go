package oauth

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/tunebridge/internal/core/domain"
	"github.com/custodia-labs/tunebridge/internal/core/ports/driving"
)

// TokenSourceAdapter adapts the TokenGate to oauth2.TokenSource.
// This lets any oauth2-aware HTTP client use refreshed login records.
type TokenSourceAdapter struct {
	gate     driving.TokenGate
	platform domain.Platform
	ctx      context.Context
}

// NewTokenSource creates an oauth2.TokenSource for one platform.
// Tokens are reused until their expiry, then the gate is asked again.
func NewTokenSource(ctx context.Context, gate driving.TokenGate, platform domain.Platform) oauth2.TokenSource {
	return oauth2.ReuseTokenSource(nil, &TokenSourceAdapter{
		gate:     gate,
		platform: platform,
		ctx:      ctx,
	})
}

// Token implements oauth2.TokenSource interface.
func (t *TokenSourceAdapter) Token() (*oauth2.Token, error) {
	record, err := t.gate.EnsureValid(t.ctx, t.platform)
	if err != nil {
		return nil, err
	}

	return &oauth2.Token{
		AccessToken: record.AccessToken,
		TokenType:   "Bearer",
		Expiry:      record.ExpiryTime,
	}, nil
}

// NewClient returns an HTTP client that authorizes requests with the platform's login.
func NewClient(ctx context.Context, gate driving.TokenGate, platform domain.Platform) *http.Client {
	return oauth2.NewClient(ctx, NewTokenSource(ctx, gate, platform))
}
