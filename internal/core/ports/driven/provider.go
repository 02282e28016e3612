package driven

import (
	"context"
	"net/http"

	"github.com/custodia-labs/tunebridge/internal/core/domain"
)

// Provider captures what differs between OAuth providers.
// Implementations are provider-specific (Spotify, osu!) and declarative where possible.
type Provider interface {
	// Spec returns endpoints, scopes, extras and the callback port pool.
	Spec() domain.ProviderSpec

	// ValidateClient checks the application credentials' format.
	// An empty result means the config is usable.
	ValidateClient(cfg domain.OAuthClientConfig) []domain.FieldProblem

	// FetchProfile retrieves the user's display name and avatar.
	// The client already carries the bearer token.
	FetchProfile(ctx context.Context, client *http.Client) (*domain.Profile, error)
}

// BrowserOpener opens a URL in the user's default browser.
type BrowserOpener func(url string) error
