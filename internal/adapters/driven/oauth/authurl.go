// Package oauth provides OAuth token exchange functionality for external providers.
package oauth

import (
	"errors"
	"fmt"
	"net/url"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/tunebridge/internal/core/domain"
)

// Endpoint maps a provider spec onto an oauth2.Endpoint.
func Endpoint(spec domain.ProviderSpec) oauth2.Endpoint {
	style := oauth2.AuthStyleInParams
	if spec.CredentialsInHeader {
		style = oauth2.AuthStyleInHeader
	}
	return oauth2.Endpoint{
		AuthURL:   spec.AuthURL,
		TokenURL:  spec.TokenURL,
		AuthStyle: style,
	}
}

// BuildAuthURL constructs the browser authorization URL.
// It carries client_id, redirect_uri, response_type=code, scope, state and
// the provider's extra parameters. State must be non-empty.
func BuildAuthURL(spec domain.ProviderSpec, clientID, redirectURI, state string) (string, error) {
	if state == "" {
		return "", errors.New("authorization url: state is required")
	}
	if _, err := url.ParseRequestURI(spec.AuthURL); err != nil {
		return "", fmt.Errorf("authorization url: %w", err)
	}

	cfg := &oauth2.Config{
		ClientID:    clientID,
		Endpoint:    Endpoint(spec),
		RedirectURL: redirectURI,
		Scopes:      spec.Scopes,
	}

	opts := make([]oauth2.AuthCodeOption, 0, len(spec.AuthParams))
	for k, v := range spec.AuthParams {
		opts = append(opts, oauth2.SetAuthURLParam(k, v))
	}
	return cfg.AuthCodeURL(state, opts...), nil
}
