package domain

// OAuthClientConfig holds the application credentials for one provider.
// It is loaded once at startup and never mutated.
type OAuthClientConfig struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// Credentials returns the config as client credentials for a token request.
func (c OAuthClientConfig) Credentials() ClientCredentials {
	return ClientCredentials{ClientID: c.ClientID, ClientSecret: c.ClientSecret}
}

// ClientConfigs maps each platform to its validated client configuration.
type ClientConfigs map[Platform]OAuthClientConfig

// ProviderSpec declares how to authorize against one provider.
type ProviderSpec struct {
	Platform Platform
	AuthURL  string
	TokenURL string
	Scopes   []string
	// AppScopes are requested by the client credentials grant.
	AppScopes []string
	// AuthParams are provider-specific extras appended to the authorization URL.
	AuthParams map[string]string
	// CallbackPorts are tried in order when binding the loopback listener.
	CallbackPorts []int
	// CredentialsInHeader selects HTTP Basic client authentication over form fields.
	CredentialsInHeader bool
}
