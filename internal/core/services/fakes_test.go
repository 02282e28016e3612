package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/tunebridge/internal/core/domain"
	"github.com/custodia-labs/tunebridge/internal/core/ports/driven"
)

// fakeProvider is a declarative provider pointing at test endpoints.
type fakeProvider struct {
	spec       domain.ProviderSpec
	profile    *domain.Profile
	profileErr error
	problems   []domain.FieldProblem
}

func newFakeProvider(platform domain.Platform, ports ...int) *fakeProvider {
	return &fakeProvider{
		spec: domain.ProviderSpec{
			Platform:      platform,
			AuthURL:       "https://auth.example.com/authorize",
			TokenURL:      "https://auth.example.com/token",
			Scopes:        []string{"read"},
			CallbackPorts: ports,
		},
		profile: &domain.Profile{UserName: "tester", AvatarURL: "https://img.example.com/a.png"},
	}
}

func (p *fakeProvider) Spec() domain.ProviderSpec { return p.spec }

func (p *fakeProvider) ValidateClient(domain.OAuthClientConfig) []domain.FieldProblem {
	return p.problems
}

func (p *fakeProvider) FetchProfile(context.Context, *http.Client) (*domain.Profile, error) {
	if p.profileErr != nil {
		return nil, p.profileErr
	}
	profile := *p.profile
	return &profile, nil
}

// fakeExchanger counts calls and returns canned responses.
type fakeExchanger struct {
	mu            sync.Mutex
	codeResp      *domain.TokenResponse
	codeErr       error
	codeGate      chan struct{}
	refreshResp   *domain.TokenResponse
	refreshErr    error
	refreshDelay  time.Duration
	appResp       *domain.TokenResponse
	codeCalls     atomic.Int32
	refreshCalls  atomic.Int32
	appCalls      atomic.Int32
	lastRefresh   string
	lastAppScopes []string
}

var _ driven.TokenExchanger = (*fakeExchanger)(nil)

func (e *fakeExchanger) ExchangeCode(
	context.Context, domain.ProviderSpec, domain.ClientCredentials, string, string, time.Duration,
) (*domain.TokenResponse, error) {
	e.codeCalls.Add(1)
	if e.codeGate != nil {
		<-e.codeGate
	}
	if e.codeErr != nil {
		return nil, e.codeErr
	}
	resp := *e.codeResp
	return &resp, nil
}

func (e *fakeExchanger) ExchangeRefresh(
	ctx context.Context, _ domain.ProviderSpec, _ domain.ClientCredentials, refreshToken string, _ time.Duration,
) (*domain.TokenResponse, error) {
	e.refreshCalls.Add(1)
	e.mu.Lock()
	e.lastRefresh = refreshToken
	e.mu.Unlock()
	if e.refreshDelay > 0 {
		select {
		case <-time.After(e.refreshDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if e.refreshErr != nil {
		return nil, e.refreshErr
	}
	resp := *e.refreshResp
	return &resp, nil
}

func (e *fakeExchanger) ExchangeClientCredentials(
	_ context.Context, _ domain.ProviderSpec, _ domain.ClientCredentials, scopes []string, _ time.Duration,
) (*domain.TokenResponse, error) {
	e.appCalls.Add(1)
	e.mu.Lock()
	e.lastAppScopes = scopes
	e.mu.Unlock()
	if e.appResp == nil {
		return nil, errors.New("no app token")
	}
	resp := *e.appResp
	return &resp, nil
}

// memoryAttempts is an in-memory driven.AttemptStore.
type memoryAttempts struct {
	mu       sync.Mutex
	attempts []domain.AuthAttempt
	err      error
}

func (m *memoryAttempts) Record(_ context.Context, a domain.AuthAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.attempts = append(m.attempts, a)
	return nil
}

func (m *memoryAttempts) List(_ context.Context, platform domain.Platform, limit int) ([]domain.AuthAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.AuthAttempt
	for i := len(m.attempts) - 1; i >= 0; i-- {
		if platform == "" || m.attempts[i].Platform == platform {
			out = append(out, m.attempts[i])
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memoryAttempts) snapshot() []domain.AuthAttempt {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.AuthAttempt(nil), m.attempts...)
}
