package services

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/tunebridge/internal/core/domain"
	"github.com/custodia-labs/tunebridge/internal/core/ports/driven"
	"github.com/custodia-labs/tunebridge/internal/core/ports/driving"
	"github.com/custodia-labs/tunebridge/internal/logger"
)

// historyTimeout bounds writing one attempt to the history store.
const historyTimeout = 5 * time.Second

// Ensure AuthorizationService implements the interface.
var _ driving.AuthorizationService = (*AuthorizationService)(nil)

// AuthorizationDeps are the collaborators of an AuthorizationService.
// Attempts is optional.
type AuthorizationDeps struct {
	Providers   *ProviderRegistry
	Clients     domain.ClientConfigs
	Credentials *CredentialsService
	Exchanger   driven.TokenExchanger
	Receivers   driven.CallbackReceiverFactory
	AuthURL     driven.AuthURLBuilder
	OpenBrowser driven.BrowserOpener
	Attempts    driven.AttemptStore
	Settings    domain.AuthSettings
}

// AuthorizationService runs browser-based authorization code attempts.
// Each platform has at most one active session. Locks guard only handle
// reads and result installation; none is held across network I/O.
type AuthorizationService struct {
	deps  AuthorizationDeps
	board *statusBoard
	now   func() time.Time

	mu       sync.Mutex
	sessions map[domain.Platform]*session
	handles  map[domain.Platform]*http.Client
}

// session is one in-flight or finished attempt.
type session struct {
	info     domain.AuthorizationSession
	ctx      context.Context
	cancel   context.CancelFunc
	receiver driven.CallbackReceiver
	done     chan struct{}
	final    domain.AuthStatus
}

func (s *session) finished() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// NewAuthorizationService creates the state machine. Zero timeouts fall back to defaults.
func NewAuthorizationService(deps AuthorizationDeps) *AuthorizationService {
	if deps.Settings.CallbackTimeout <= 0 {
		deps.Settings.CallbackTimeout = domain.DefaultCallbackTimeout
	}
	if deps.Settings.ExchangeTimeout <= 0 {
		deps.Settings.ExchangeTimeout = domain.DefaultExchangeTimeout
	}
	return &AuthorizationService{
		deps:     deps,
		board:    newStatusBoard(time.Now),
		now:      time.Now,
		sessions: make(map[domain.Platform]*session),
		handles:  make(map[domain.Platform]*http.Client),
	}
}

// Start begins a new attempt in the background.
func (s *AuthorizationService) Start(platform domain.Platform) error {
	spec, err := s.deps.Providers.Spec(platform)
	if err != nil {
		return err
	}
	client, ok := s.deps.Clients[platform]
	if !ok {
		return &domain.ConfigError{
			Path: "client configuration",
			Err:  fmt.Errorf("%w: no client credentials for %s", domain.ErrInvalidInput, platform),
		}
	}

	s.mu.Lock()
	if prev, ok := s.sessions[platform]; ok && !prev.finished() {
		s.mu.Unlock()
		logger.Info("%s authorization already in progress (session %s)", platform.DisplayName(), prev.info.ID)
		return domain.ErrAuthInProgress
	}

	ctx, cancel := context.WithCancel(context.Background())
	sess := &session{
		info: domain.AuthorizationSession{
			ID:        newID(),
			Platform:  platform,
			StartedAt: s.now().UTC(),
		},
		ctx:      ctx,
		cancel:   cancel,
		receiver: s.deps.Receivers(),
		done:     make(chan struct{}),
	}
	s.sessions[platform] = sess
	delete(s.handles, platform)
	s.board.reset(platform)
	s.board.set(platform, domain.AuthStatus{Kind: domain.StatusWaitingForBrowser})
	s.mu.Unlock()

	logger.Debug("%s: session %s started", platform, sess.info.ID)
	go s.run(sess, spec, client)
	return nil
}

// run drives one session from listener bind to persisted login record.
func (s *AuthorizationService) run(sess *session, spec domain.ProviderSpec, client domain.OAuthClientConfig) {
	defer s.finish(sess)
	platform := spec.Platform

	port, err := sess.receiver.Acquire(spec.CallbackPorts)
	if err != nil {
		s.fail(sess, err)
		return
	}
	s.mu.Lock()
	live := s.sessions[platform] == sess && sess.ctx.Err() == nil
	if live {
		sess.info.BoundPort = port
	}
	s.mu.Unlock()
	if !live {
		s.release(sess)
		return
	}
	logger.Debug("%s: listening on 127.0.0.1:%d", platform, port)

	state, err := generateState()
	if err != nil {
		s.fail(sess, fmt.Errorf("generate state: %w", err))
		return
	}
	redirectURI := sess.receiver.RedirectURI()
	authURL, err := s.deps.AuthURL(spec, client.ClientID, redirectURI, state)
	if err != nil {
		s.fail(sess, err)
		return
	}
	if !s.current(sess) {
		s.release(sess)
		return
	}
	if err := s.deps.OpenBrowser(authURL); err != nil {
		s.fail(sess, fmt.Errorf("open browser: %w", err))
		return
	}

	code, err := sess.receiver.AwaitCode(sess.ctx, state, s.deps.Settings.CallbackTimeout)
	s.release(sess)
	if err != nil {
		s.fail(sess, err)
		return
	}
	if !s.transition(sess, domain.AuthStatus{Kind: domain.StatusProcessing}) {
		return
	}

	// Network calls outlive cancellation; their results are discarded by transition.
	netCtx := context.WithoutCancel(sess.ctx)

	token, err := s.deps.Exchanger.ExchangeCode(netCtx, spec, client.Credentials(), code, redirectURI,
		s.deps.Settings.ExchangeTimeout)
	if err != nil {
		s.fail(sess, err)
		return
	}
	if !s.transition(sess, domain.AuthStatus{Kind: domain.StatusTokenObtained}) {
		return
	}

	provider, err := s.deps.Providers.Provider(platform)
	if err != nil {
		s.fail(sess, err)
		return
	}
	httpClient := BearerClient(token)
	profileCtx, cancel := context.WithTimeout(netCtx, s.deps.Settings.ExchangeTimeout)
	profile, err := provider.FetchProfile(profileCtx, httpClient)
	cancel()
	if err != nil {
		s.fail(sess, fmt.Errorf("fetch profile: %w", err))
		return
	}

	if !s.current(sess) {
		return
	}
	record := domain.LoginRecord{
		Platform:     platform,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiryTime:   token.Expiry.UTC(),
		AvatarURL:    profile.AvatarURL,
		UserName:     profile.UserName,
	}
	if err := s.deps.Credentials.Put(record); err != nil {
		s.fail(sess, err)
		return
	}

	s.mu.Lock()
	if s.sessions[platform] == sess && sess.ctx.Err() == nil {
		s.handles[platform] = httpClient
		s.board.set(platform, domain.AuthStatus{Kind: domain.StatusCompleted})
	}
	s.mu.Unlock()
	logger.Info("%s: logged in as %s", platform.DisplayName(), profile.UserName)
}

// current reports whether sess is still the platform's live session.
func (s *AuthorizationService) current(sess *session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[sess.info.Platform] == sess && sess.ctx.Err() == nil
}

// transition applies status only while sess is current.
func (s *AuthorizationService) transition(sess *session, status domain.AuthStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessions[sess.info.Platform] != sess || sess.ctx.Err() != nil {
		logger.Debug("%s: session %s reset, dropping %s", sess.info.Platform, sess.info.ID, status)
		return false
	}
	s.board.set(sess.info.Platform, status)
	return true
}

// fail releases the listener before reporting the failure, so the port is
// free by the time observers see Failed.
func (s *AuthorizationService) fail(sess *session, err error) {
	s.release(sess)
	s.transition(sess, domain.Failed(err.Error()))
}

// finish releases the listener, records history and wakes waiters.
func (s *AuthorizationService) finish(sess *session) {
	s.release(sess)

	s.mu.Lock()
	final := domain.AuthStatus{Kind: domain.StatusNotStarted, Reason: "cancelled"}
	if s.sessions[sess.info.Platform] == sess && sess.ctx.Err() == nil {
		final = s.board.get(sess.info.Platform)
	}
	sess.final = final
	s.mu.Unlock()

	s.record(sess, final)
	sess.cancel()
	close(sess.done)
}

// release closes the session's listener. Releasing twice is a no-op.
func (s *AuthorizationService) release(sess *session) {
	if err := sess.receiver.Release(); err != nil {
		logger.Warn("%s: release callback listener: %v", sess.info.Platform, err)
	}
}

func (s *AuthorizationService) record(sess *session, final domain.AuthStatus) {
	if s.deps.Attempts == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
	defer cancel()

	err := s.deps.Attempts.Record(ctx, domain.AuthAttempt{
		ID:         sess.info.ID,
		Platform:   sess.info.Platform,
		StartedAt:  sess.info.StartedAt,
		FinishedAt: s.now().UTC(),
		Outcome:    final.Kind,
		Reason:     final.Reason,
	})
	if err != nil {
		logger.Warn("record %s attempt: %v", sess.info.Platform, err)
	}
}

// Cancel resets the platform to NotStarted and releases its listener.
func (s *AuthorizationService) Cancel(platform domain.Platform) {
	s.mu.Lock()
	sess := s.sessions[platform]
	delete(s.sessions, platform)
	delete(s.handles, platform)
	if sess != nil {
		sess.cancel()
	}
	s.board.reset(platform)
	s.mu.Unlock()

	if sess != nil {
		s.release(sess)
		logger.Debug("%s: session %s cancelled", platform, sess.info.ID)
	}
}

// Logout cancels any attempt and removes the platform's login record.
func (s *AuthorizationService) Logout(platform domain.Platform) error {
	if _, err := s.deps.Providers.Provider(platform); err != nil {
		return err
	}
	s.Cancel(platform)
	return s.deps.Credentials.Delete(platform)
}

// Status returns the platform's current status.
func (s *AuthorizationService) Status(platform domain.Platform) domain.AuthStatus {
	return s.board.get(platform)
}

// Statuses returns a snapshot of every registered platform's status.
func (s *AuthorizationService) Statuses() map[domain.Platform]domain.AuthStatus {
	out := make(map[domain.Platform]domain.AuthStatus)
	for _, p := range s.deps.Providers.Platforms() {
		out[p] = s.board.get(p)
	}
	return out
}

// Session returns the active or last session for a platform.
func (s *AuthorizationService) Session(platform domain.Platform) (domain.AuthorizationSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[platform]
	if !ok {
		return domain.AuthorizationSession{}, false
	}
	return sess.info, true
}

// Wait blocks until the platform's current session finishes.
// Without a session it returns the current status immediately.
func (s *AuthorizationService) Wait(ctx context.Context, platform domain.Platform) (domain.AuthStatus, error) {
	s.mu.Lock()
	sess, ok := s.sessions[platform]
	s.mu.Unlock()
	if !ok {
		return s.board.get(platform), nil
	}

	select {
	case <-sess.done:
		return sess.final, nil
	case <-ctx.Done():
		return s.board.get(platform), ctx.Err()
	}
}

// Watch subscribes to status changes.
func (s *AuthorizationService) Watch(buffer int) (<-chan domain.StatusChange, func()) {
	return s.board.watch(buffer)
}

// Client returns an HTTP client carrying the bearer token of the last completed attempt.
func (s *AuthorizationService) Client(platform domain.Platform) (*http.Client, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.handles[platform]
	return c, ok
}

// BearerClient returns an HTTP client that sends token as a bearer credential.
func BearerClient(token *domain.TokenResponse) *http.Client {
	return oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token.AccessToken,
		TokenType:   "Bearer",
		Expiry:      token.Expiry,
	}))
}

