package domain

import "time"

// Default timeouts for an authorization attempt.
const (
	// DefaultCallbackTimeout bounds the wait for the browser redirect.
	DefaultCallbackTimeout = 180 * time.Second
	// DefaultExchangeTimeout bounds a single token endpoint call.
	DefaultExchangeTimeout = 30 * time.Second
)

// AuthSettings tunes the authorization engine.
type AuthSettings struct {
	// CallbackTimeout is the end-to-end budget for receiving the redirect.
	CallbackTimeout time.Duration
	// ExchangeTimeout is the budget for one token endpoint call.
	ExchangeTimeout time.Duration
	// Ports overrides the candidate callback ports per platform.
	Ports map[Platform][]int
}

// AppSettings holds all user-configurable settings.
type AppSettings struct {
	Auth    AuthSettings
	Verbose bool
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Auth: AuthSettings{
			CallbackTimeout: DefaultCallbackTimeout,
			ExchangeTimeout: DefaultExchangeTimeout,
			Ports: map[Platform][]int{
				PlatformSpotify: {8888, 8889, 8890, 8891, 8892},
				PlatformOsu:     {8080, 8081, 8082, 8083, 8084},
			},
		},
	}
}

// PortsFor returns the configured candidate ports for a platform, or nil.
func (s AuthSettings) PortsFor(p Platform) []int {
	ports, ok := s.Ports[p]
	if !ok || len(ports) == 0 {
		return nil
	}
	out := make([]int, len(ports))
	copy(out, ports)
	return out
}
