package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/tunebridge/internal/core/domain"
	"github.com/custodia-labs/tunebridge/internal/core/ports/driven"
	"github.com/custodia-labs/tunebridge/internal/logger"
)

// maxTokenResponseBytes caps how much of a token response is read.
const maxTokenResponseBytes = 1 << 20

// Ensure Exchanger implements the interface.
var _ driven.TokenExchanger = (*Exchanger)(nil)

// tokenPayload is the JSON body of a successful token response.
type tokenPayload struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Exchanger posts form-encoded grants to provider token endpoints.
type Exchanger struct {
	client *http.Client
	now    func() time.Time
}

// NewExchanger creates an exchanger. A nil client uses a default http.Client;
// every call is bounded by its own timeout regardless of the client's.
func NewExchanger(client *http.Client) *Exchanger {
	if client == nil {
		client = &http.Client{}
	}
	return &Exchanger{client: client, now: time.Now}
}

// ExchangeCode exchanges an authorization code for tokens.
func (e *Exchanger) ExchangeCode(
	ctx context.Context,
	spec domain.ProviderSpec,
	client domain.ClientCredentials,
	code, redirectURI string,
	timeout time.Duration,
) (*domain.TokenResponse, error) {
	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("code", code)
	data.Set("redirect_uri", redirectURI)
	return e.post(ctx, spec, client, data, timeout)
}

// ExchangeRefresh obtains a new access token from a refresh token.
func (e *Exchanger) ExchangeRefresh(
	ctx context.Context,
	spec domain.ProviderSpec,
	client domain.ClientCredentials,
	refreshToken string,
	timeout time.Duration,
) (*domain.TokenResponse, error) {
	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("refresh_token", refreshToken)
	return e.post(ctx, spec, client, data, timeout)
}

// ExchangeClientCredentials obtains an app-only token.
func (e *Exchanger) ExchangeClientCredentials(
	ctx context.Context,
	spec domain.ProviderSpec,
	client domain.ClientCredentials,
	scopes []string,
	timeout time.Duration,
) (*domain.TokenResponse, error) {
	data := url.Values{}
	data.Set("grant_type", "client_credentials")
	if len(scopes) > 0 {
		data.Set("scope", strings.Join(scopes, " "))
	}
	return e.post(ctx, spec, client, data, timeout)
}

func (e *Exchanger) post(
	ctx context.Context,
	spec domain.ProviderSpec,
	client domain.ClientCredentials,
	data url.Values,
	timeout time.Duration,
) (*domain.TokenResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	endpoint := Endpoint(spec)
	if endpoint.AuthStyle == oauth2.AuthStyleInParams {
		data.Set("client_id", client.ClientID)
		data.Set("client_secret", client.ClientSecret)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, &domain.ExchangeError{Kind: domain.ExchangeTransport, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if endpoint.AuthStyle == oauth2.AuthStyleInHeader {
		req.SetBasicAuth(url.QueryEscape(client.ClientID), url.QueryEscape(client.ClientSecret))
	}

	logger.Debug("token request: grant_type=%s endpoint=%s", data.Get("grant_type"), endpoint.TokenURL)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, classify(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTokenResponseBytes))
	if err != nil {
		return nil, classify(ctx, err)
	}
	receivedAt := e.now()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.ExchangeError{
			Kind:   domain.ExchangeRejected,
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(body)),
		}
	}

	var payload tokenPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &domain.ExchangeError{Kind: domain.ExchangeMalformed, Err: fmt.Errorf("decode token response: %w", err)}
	}
	if payload.AccessToken == "" {
		return nil, &domain.ExchangeError{Kind: domain.ExchangeMalformed, Err: errors.New("access_token missing")}
	}

	return &domain.TokenResponse{
		AccessToken:  payload.AccessToken,
		RefreshToken: payload.RefreshToken,
		TokenType:    payload.TokenType,
		Scope:        payload.Scope,
		ExpiresIn:    payload.ExpiresIn,
		Expiry:       receivedAt.Add(time.Duration(payload.ExpiresIn) * time.Second).UTC(),
	}, nil
}

// classify maps a transport failure to TimedOut when the per-call budget ran out.
func classify(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &domain.ExchangeError{Kind: domain.ExchangeTimedOut, Err: err}
	}
	return &domain.ExchangeError{Kind: domain.ExchangeTransport, Err: err}
}
