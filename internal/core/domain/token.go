package domain

import "time"

// TokenResponse is the parsed result of a token endpoint call.
type TokenResponse struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	Scope        string
	// ExpiresIn is the lifetime in seconds as reported by the provider.
	ExpiresIn int64
	// Expiry is the absolute expiry computed when the response was received.
	Expiry time.Time
}

// ClientCredentials identifies an OAuth application to a provider.
type ClientCredentials struct {
	ClientID     string
	ClientSecret string
}
