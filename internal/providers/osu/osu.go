// Package osu defines the osu! OAuth provider.
package osu

import (
	"context"
	"net/http"
	"strings"

	"github.com/custodia-labs/tunebridge/internal/core/domain"
	"github.com/custodia-labs/tunebridge/internal/core/ports/driven"
	"github.com/custodia-labs/tunebridge/internal/providers"
)

// osu! OAuth constants.
const (
	defaultBaseURL = "https://osu.ppy.sh"

	minClientIDLen     = 5
	minClientSecretLen = 40
)

// Scopes returns the scopes requested for user login.
func Scopes() []string { return []string{"identify", "public"} }

// AppScopes returns the scopes requested for app-only tokens.
func AppScopes() []string { return []string{"public"} }

// DefaultPorts returns the callback port pool.
func DefaultPorts() []int { return []int{8080, 8081, 8082, 8083, 8084} }

// Ensure Provider implements the interface.
var _ driven.Provider = (*Provider)(nil)

// Provider implements driven.Provider for osu!.
type Provider struct {
	baseURL string
	ports   []int
}

// Option configures a Provider.
type Option func(*Provider)

// WithBaseURL points every endpoint at another host.
func WithBaseURL(base string) Option {
	return func(p *Provider) {
		p.baseURL = strings.TrimSuffix(base, "/")
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

// New creates the osu! provider.
func New(opts ...Option) *Provider {
	p := &Provider{baseURL: defaultBaseURL, ports: DefaultPorts()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Spec returns the osu! endpoints, scopes and port pool.
// osu! expects client credentials as form fields.
func (p *Provider) Spec() domain.ProviderSpec {
	return domain.ProviderSpec{
		Platform:      domain.PlatformOsu,
		AuthURL:       p.baseURL + "/oauth/authorize",
		TokenURL:      p.baseURL + "/oauth/token",
		Scopes:        Scopes(),
		AppScopes:     AppScopes(),
		CallbackPorts: append([]int(nil), p.ports...),
	}
}

// ValidateClient checks that the id is numeric and the secret long enough.
func (p *Provider) ValidateClient(cfg domain.OAuthClientConfig) []domain.FieldProblem {
	var problems []domain.FieldProblem

	switch {
	case cfg.ClientID == "":
		problems = append(problems, problem("client_id", "is required"))
	case !isDigits(cfg.ClientID):
		problems = append(problems, problem("client_id", "must contain only digits"))
	case len(cfg.ClientID) < minClientIDLen:
		problems = append(problems, problem("client_id", "must be at least 5 digits"))
	}

	switch {
	case cfg.ClientSecret == "":
		problems = append(problems, problem("client_secret", "is required"))
	case len(cfg.ClientSecret) < minClientSecretLen:
		problems = append(problems, problem("client_secret", "must be at least 40 characters"))
	}

	return problems
}

// FetchProfile reads the username and avatar from /api/v2/me.
func (p *Provider) FetchProfile(ctx context.Context, client *http.Client) (*domain.Profile, error) {
	var me struct {
		Username  string `json:"username"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := providers.GetJSON(ctx, client, p.baseURL+"/api/v2/me", &me); err != nil {
		return nil, err
	}
	return &domain.Profile{UserName: me.Username, AvatarURL: me.AvatarURL}, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func problem(field, msg string) domain.FieldProblem {
	return domain.FieldProblem{Platform: domain.PlatformOsu, Field: field, Message: msg}
}
