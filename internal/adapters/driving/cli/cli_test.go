package cli

import (
	"bytes"
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tunebridge/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/tunebridge/internal/core/domain"
	coreservices "github.com/custodia-labs/tunebridge/internal/core/services"
	"github.com/custodia-labs/tunebridge/internal/providers/osu"
	"github.com/custodia-labs/tunebridge/internal/providers/spotify"
)

// fakeAuthorization records calls and finishes every session with final.
type fakeAuthorization struct {
	mu        sync.Mutex
	startErr  error
	final     domain.AuthStatus
	waitErr   error
	onStart   func(domain.Platform)
	started   []domain.Platform
	cancelled []domain.Platform
	loggedOut []domain.Platform
	statuses  map[domain.Platform]domain.AuthStatus
}

func (a *fakeAuthorization) Start(platform domain.Platform) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.startErr != nil {
		return a.startErr
	}
	a.started = append(a.started, platform)
	if a.onStart != nil {
		a.onStart(platform)
	}
	return nil
}

func (a *fakeAuthorization) Cancel(platform domain.Platform) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cancelled = append(a.cancelled, platform)
}

func (a *fakeAuthorization) Logout(platform domain.Platform) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.loggedOut = append(a.loggedOut, platform)
	return nil
}

func (a *fakeAuthorization) Status(platform domain.Platform) domain.AuthStatus {
	return a.Statuses()[platform]
}

func (a *fakeAuthorization) Statuses() map[domain.Platform]domain.AuthStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := map[domain.Platform]domain.AuthStatus{
		domain.PlatformOsu:     domain.NotStarted(),
		domain.PlatformSpotify: domain.NotStarted(),
	}
	for p, s := range a.statuses {
		out[p] = s
	}
	return out
}

func (a *fakeAuthorization) Session(domain.Platform) (domain.AuthorizationSession, bool) {
	return domain.AuthorizationSession{}, false
}

func (a *fakeAuthorization) Wait(ctx context.Context, _ domain.Platform) (domain.AuthStatus, error) {
	if a.waitErr != nil {
		return domain.AuthStatus{Kind: domain.StatusWaitingForBrowser}, a.waitErr
	}
	return a.final, nil
}

func (a *fakeAuthorization) Watch(int) (<-chan domain.StatusChange, func()) {
	ch := make(chan domain.StatusChange)
	var once sync.Once
	return ch, func() { once.Do(func() { close(ch) }) }
}

func (a *fakeAuthorization) Client(domain.Platform) (*http.Client, bool) {
	return nil, false
}

// fakeTokens returns canned tokens.
type fakeTokens struct {
	record *domain.LoginRecord
	err    error
	app    *domain.TokenResponse
}

func (g *fakeTokens) EnsureValid(context.Context, domain.Platform) (*domain.LoginRecord, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.record, nil
}

func (g *fakeTokens) AppToken(context.Context, domain.Platform) (*domain.TokenResponse, error) {
	if g.app == nil {
		return nil, g.err
	}
	return g.app, nil
}

// fakeHistory returns canned attempts and records the filter.
type fakeHistory struct {
	attempts []domain.AuthAttempt
	platform domain.Platform
	limit    int
}

func (h *fakeHistory) List(_ context.Context, platform domain.Platform, limit int) ([]domain.AuthAttempt, error) {
	h.platform = platform
	h.limit = limit
	return h.attempts, nil
}

type testEnv struct {
	services *Services
	auth     *fakeAuthorization
	tokens   *fakeTokens
	history  *fakeHistory
	creds    *coreservices.CredentialsService
	settings *coreservices.SettingsService
}

func newTestEnv(t *testing.T, osuOpts ...osu.Option) *testEnv {
	t.Helper()
	env := &testEnv{
		auth:     &fakeAuthorization{final: domain.AuthStatus{Kind: domain.StatusCompleted}},
		tokens:   &fakeTokens{},
		history:  &fakeHistory{},
		creds:    coreservices.NewCredentialsService(memory.NewCredentialStore()),
		settings: coreservices.NewSettingsService(memory.NewConfigStore()),
	}
	env.services = &Services{
		Providers:        coreservices.NewProviderRegistry(spotify.New(), osu.New(osuOpts...)),
		Authorization:    env.auth,
		Tokens:           env.tokens,
		Credentials:      env.creds,
		Settings:         env.settings,
		History:          env.history,
		ClientConfigPath: "/tmp/tunebridge/config.json",
		CredentialsPath:  "/tmp/tunebridge/login_info.json",
		LoadClients: func() (domain.ClientConfigs, error) {
			return domain.ClientConfigs{
				domain.PlatformOsu: {ClientID: "12345", ClientSecret: "secret"},
			}, nil
		},
	}
	SetServices(env.services)
	t.Cleanup(func() { SetServices(nil) })
	return env
}

func (e *testEnv) login(t *testing.T, platform domain.Platform, user string, expiry time.Time) {
	t.Helper()
	require.NoError(t, e.creds.Put(domain.LoginRecord{
		Platform:     platform,
		AccessToken:  "tok-" + user,
		RefreshToken: "ref-" + user,
		ExpiryTime:   expiry,
		UserName:     user,
	}))
}

// runCommand executes the root command with args and returns combined output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	statusJSON, statusWatch, tokenApp = false, false, false
	historyPlatform, historyLimit = "", 20

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
