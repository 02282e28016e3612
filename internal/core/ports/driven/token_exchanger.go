package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/tunebridge/internal/core/domain"
)

// TokenExchanger talks to a provider's token endpoint.
// Every call is bounded by timeout; failures are *domain.ExchangeError.
type TokenExchanger interface {
	// ExchangeCode performs the authorization_code grant.
	ExchangeCode(
		ctx context.Context,
		spec domain.ProviderSpec,
		client domain.ClientCredentials,
		code, redirectURI string,
		timeout time.Duration,
	) (*domain.TokenResponse, error)

	// ExchangeRefresh performs the refresh_token grant.
	ExchangeRefresh(
		ctx context.Context,
		spec domain.ProviderSpec,
		client domain.ClientCredentials,
		refreshToken string,
		timeout time.Duration,
	) (*domain.TokenResponse, error)

	// ExchangeClientCredentials performs the client_credentials grant for an app-only token.
	ExchangeClientCredentials(
		ctx context.Context,
		spec domain.ProviderSpec,
		client domain.ClientCredentials,
		scopes []string,
		timeout time.Duration,
	) (*domain.TokenResponse, error)
}
