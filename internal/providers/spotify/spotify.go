// Package spotify defines the Spotify OAuth provider.
package spotify

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/custodia-labs/tunebridge/internal/core/domain"
	"github.com/custodia-labs/tunebridge/internal/core/ports/driven"
	"github.com/custodia-labs/tunebridge/internal/providers"
)

// Spotify OAuth constants.
const (
	defaultAuthURL = "https://accounts.spotify.com/authorize"
	//nolint:gosec // G101: Not credentials, OAuth endpoint URL
	defaultTokenURL = "https://accounts.spotify.com/api/token"
	defaultAPIURL   = "https://api.spotify.com"
)

// Scope grants read access to the user's currently playing track.
const Scope = "user-read-currently-playing"

// DefaultPorts returns the callback port pool.
func DefaultPorts() []int { return []int{8888, 8889, 8890, 8891, 8892} }

// Spotify application ids and secrets are 32 lowercase hex characters.
var hex32 = regexp.MustCompile(`^[0-9a-f]{32}$`)

// Ensure Provider implements the interface.
var _ driven.Provider = (*Provider)(nil)

// Provider implements driven.Provider for Spotify.
type Provider struct {
	authURL  string
	tokenURL string
	apiURL   string
	ports    []int
}

// Option configures a Provider.
type Option func(*Provider)

// WithAccountsURL points the authorize and token endpoints at another host.
func WithAccountsURL(base string) Option {
	return func(p *Provider) {
		base = strings.TrimSuffix(base, "/")
		p.authURL = base + "/authorize"
		p.tokenURL = base + "/api/token"
	}
}

// WithAPIURL points profile lookups at another host.
func WithAPIURL(base string) Option {
	return func(p *Provider) {
		p.apiURL = strings.TrimSuffix(base, "/")
	}
}

// WithPorts replaces the callback port pool.
func WithPorts(ports []int) Option {
	return func(p *Provider) {
		if len(ports) > 0 {
			p.ports = append([]int(nil), ports...)
		}
	}
}

// New creates the Spotify provider.
func New(opts ...Option) *Provider {
	p := &Provider{
		authURL:  defaultAuthURL,
		tokenURL: defaultTokenURL,
		apiURL:   defaultAPIURL,
		ports:    DefaultPorts(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Spec returns the Spotify endpoints, scope and port pool.
// Spotify expects client credentials as HTTP Basic auth.
func (p *Provider) Spec() domain.ProviderSpec {
	return domain.ProviderSpec{
		Platform:            domain.PlatformSpotify,
		AuthURL:             p.authURL,
		TokenURL:            p.tokenURL,
		Scopes:              []string{Scope},
		AuthParams:          map[string]string{"show_dialog": "true"},
		CallbackPorts:       append([]int(nil), p.ports...),
		CredentialsInHeader: true,
	}
}

// ValidateClient checks that id and secret are 32 lowercase hex characters.
func (p *Provider) ValidateClient(cfg domain.OAuthClientConfig) []domain.FieldProblem {
	var problems []domain.FieldProblem
	check := func(field, value string) {
		switch {
		case value == "":
			problems = append(problems, problem(field, "is required"))
		case len(value) != 32:
			problems = append(problems, problem(field, "must be exactly 32 characters"))
		case !hex32.MatchString(value):
			problems = append(problems, problem(field, "must contain only lowercase hex digits (0-9, a-f)"))
		}
	}
	check("client_id", cfg.ClientID)
	check("client_secret", cfg.ClientSecret)
	return problems
}

// FetchProfile reads the display name and first avatar from /v1/me.
func (p *Provider) FetchProfile(ctx context.Context, client *http.Client) (*domain.Profile, error) {
	var me struct {
		DisplayName string `json:"display_name"`
		ID          string `json:"id"`
		Images      []struct {
			URL string `json:"url"`
		} `json:"images"`
	}
	if err := providers.GetJSON(ctx, client, p.apiURL+"/v1/me", &me); err != nil {
		return nil, err
	}

	profile := &domain.Profile{UserName: me.DisplayName}
	if profile.UserName == "" {
		profile.UserName = me.ID
	}
	if len(me.Images) > 0 {
		profile.AvatarURL = me.Images[0].URL
	}
	return profile, nil
}

func problem(field, msg string) domain.FieldProblem {
	return domain.FieldProblem{Platform: domain.PlatformSpotify, Field: field, Message: msg}
}
