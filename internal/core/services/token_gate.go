package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/tunebridge/internal/core/domain"
	"github.com/custodia-labs/tunebridge/internal/core/ports/driven"
	"github.com/custodia-labs/tunebridge/internal/core/ports/driving"
	"github.com/custodia-labs/tunebridge/internal/logger"
)

// Refresh throttling per platform.
const (
	refreshInterval = 2 * time.Second
	refreshBurst    = 3
)

// Ensure TokenGate implements the interface.
var _ driving.TokenGate = (*TokenGate)(nil)

// TokenGate returns stored login records, refreshing expired access tokens.
// Concurrent refreshes of the same platform collapse into one exchange.
// A failed refresh is not retried; callers start a new authorization.
type TokenGate struct {
	providers   *ProviderRegistry
	clients     domain.ClientConfigs
	credentials *CredentialsService
	exchanger   driven.TokenExchanger
	timeout     time.Duration
	now         func() time.Time

	group    singleflight.Group
	limMu    sync.Mutex
	limiters map[domain.Platform]*rate.Limiter
}

// NewTokenGate creates a refresh gate. A zero timeout uses the default exchange timeout.
func NewTokenGate(
	providers *ProviderRegistry,
	clients domain.ClientConfigs,
	credentials *CredentialsService,
	exchanger driven.TokenExchanger,
	timeout time.Duration,
) *TokenGate {
	if timeout <= 0 {
		timeout = domain.DefaultExchangeTimeout
	}
	return &TokenGate{
		providers:   providers,
		clients:     clients,
		credentials: credentials,
		exchanger:   exchanger,
		timeout:     timeout,
		now:         time.Now,
		limiters:    make(map[domain.Platform]*rate.Limiter),
	}
}

// EnsureValid returns a login record whose access token has not expired.
func (g *TokenGate) EnsureValid(ctx context.Context, platform domain.Platform) (*domain.LoginRecord, error) {
	record, err := g.load(platform)
	if err != nil {
		return nil, err
	}
	if record.IsValidAt(g.now()) {
		return record, nil
	}

	// The flight outlives any single caller; each caller waits on its own ctx.
	ch := g.group.DoChan(string(platform), func() (any, error) {
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.timeout+refreshInterval)
		defer cancel()
		return g.refresh(flightCtx, platform)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			logger.Debug("%s: joined in-flight refresh", platform)
		}
		refreshed := *res.Val.(*domain.LoginRecord)
		return &refreshed, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// refresh runs the refresh grant and persists the result.
func (g *TokenGate) refresh(ctx context.Context, platform domain.Platform) (*domain.LoginRecord, error) {
	// Re-read: a previous flight may have stored a fresh token already.
	record, err := g.load(platform)
	if err != nil {
		return nil, err
	}
	if record.IsValidAt(g.now()) {
		return record, nil
	}
	if !record.HasRefreshToken() {
		return nil, &domain.AuthError{Platform: platform, Err: domain.ErrRefreshFailed, Reason: "no refresh token stored"}
	}

	spec, err := g.providers.Spec(platform)
	if err != nil {
		return nil, err
	}
	client, ok := g.clients[platform]
	if !ok {
		return nil, &domain.AuthError{Platform: platform, Err: domain.ErrRefreshFailed, Reason: "no client credentials configured"}
	}

	if err := g.limiter(platform).Wait(ctx); err != nil {
		return nil, &domain.AuthError{Platform: platform, Err: domain.ErrRefreshFailed, Reason: err.Error()}
	}

	logger.Debug("%s: access token expired at %s, refreshing", platform, record.ExpiryTime.Format(time.RFC3339))
	token, err := g.exchanger.ExchangeRefresh(ctx, spec, client.Credentials(), record.RefreshToken, g.timeout)
	if err != nil {
		return nil, &domain.AuthError{Platform: platform, Err: domain.ErrRefreshFailed, Reason: err.Error()}
	}

	updated := *record
	updated.AccessToken = token.AccessToken
	updated.ExpiryTime = token.Expiry.UTC()
	updated.RefreshToken = rotatedRefreshToken(record.RefreshToken, token.RefreshToken)

	err = g.credentials.Replace(updated, record.RefreshToken)
	if errors.Is(err, domain.ErrNotFound) {
		// Logged out or re-authorized while the exchange ran.
		current, loadErr := g.load(platform)
		if loadErr != nil {
			return nil, loadErr
		}
		if current.IsValidAt(g.now()) {
			return current, nil
		}
		return nil, &domain.AuthError{Platform: platform, Err: domain.ErrNotLoggedIn}
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// rotatedRefreshToken keeps the stored refresh token when the provider did
// not issue a new one, which is how non-rotating providers respond.
func rotatedRefreshToken(previous, issued string) string {
	if issued == "" {
		return previous
	}
	return issued
}

// AppToken obtains an app-only token through the client credentials grant.
func (g *TokenGate) AppToken(ctx context.Context, platform domain.Platform) (*domain.TokenResponse, error) {
	spec, err := g.providers.Spec(platform)
	if err != nil {
		return nil, err
	}
	client, ok := g.clients[platform]
	if !ok {
		return nil, &domain.ConfigError{
			Path: "client configuration",
			Err:  fmt.Errorf("%w: no client credentials for %s", domain.ErrInvalidInput, platform),
		}
	}
	return g.exchanger.ExchangeClientCredentials(ctx, spec, client.Credentials(), spec.AppScopes, g.timeout)
}

func (g *TokenGate) load(platform domain.Platform) (*domain.LoginRecord, error) {
	record, err := g.credentials.Get(platform)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, &domain.AuthError{Platform: platform, Err: domain.ErrNotLoggedIn}
	}
	return record, err
}

func (g *TokenGate) limiter(platform domain.Platform) *rate.Limiter {
	g.limMu.Lock()
	defer g.limMu.Unlock()
	l, ok := g.limiters[platform]
	if !ok {
		l = rate.NewLimiter(rate.Every(refreshInterval), refreshBurst)
		g.limiters[platform] = l
	}
	return l
}
