package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/tunebridge/internal/core/domain"
	"github.com/custodia-labs/tunebridge/internal/core/ports/driven"
	"github.com/custodia-labs/tunebridge/internal/core/ports/driving"
	"github.com/custodia-labs/tunebridge/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyCallbackTimeout = "auth.callback_timeout"
	KeyExchangeTimeout = "auth.exchange_timeout"
	KeyPortsPrefix     = "ports."
	KeyVerbose         = "log.verbose"
)

// maxPort is the highest valid TCP port.
const maxPort = 65535

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	platforms   []domain.Platform
}

// NewSettingsService creates a new settings service.
// Port pools are read for each listed platform.
func NewSettingsService(configStore driven.ConfigStore, platforms ...domain.Platform) *SettingsService {
	if len(platforms) == 0 {
		platforms = []domain.Platform{domain.PlatformOsu, domain.PlatformSpotify}
	}
	return &SettingsService{
		configStore: configStore,
		platforms:   platforms,
	}
}

// Get retrieves current application settings.
// Invalid stored values are ignored in favour of defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Auth: domain.AuthSettings{
			CallbackTimeout: s.getDuration(KeyCallbackTimeout, defaults.Auth.CallbackTimeout),
			ExchangeTimeout: s.getDuration(KeyExchangeTimeout, defaults.Auth.ExchangeTimeout),
			Ports:           make(map[domain.Platform][]int, len(s.platforms)),
		},
		Verbose: s.configStore.GetBool(KeyVerbose),
	}

	for _, p := range s.platforms {
		ports := s.getPorts(KeyPortsPrefix+p.String(), defaults.Auth.PortsFor(p))
		if ports != nil {
			settings.Auth.Ports[p] = ports
		}
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := validateTimeout(settings.Auth.CallbackTimeout); err != nil {
		return fmt.Errorf("callback timeout: %w", err)
	}
	if err := validateTimeout(settings.Auth.ExchangeTimeout); err != nil {
		return fmt.Errorf("exchange timeout: %w", err)
	}
	for platform, ports := range settings.Auth.Ports {
		if !validPorts(ports) {
			return fmt.Errorf("%w: invalid ports for %s: %v", domain.ErrInvalidInput, platform, ports)
		}
	}

	if err := s.configStore.Set(KeyCallbackTimeout, settings.Auth.CallbackTimeout.String()); err != nil {
		return fmt.Errorf("save callback timeout: %w", err)
	}
	if err := s.configStore.Set(KeyExchangeTimeout, settings.Auth.ExchangeTimeout.String()); err != nil {
		return fmt.Errorf("save exchange timeout: %w", err)
	}
	for platform, ports := range settings.Auth.Ports {
		if err := s.configStore.Set(KeyPortsPrefix+platform.String(), ports); err != nil {
			return fmt.Errorf("save %s ports: %w", platform, err)
		}
	}
	if err := s.configStore.Set(KeyVerbose, settings.Verbose); err != nil {
		return fmt.Errorf("save verbose: %w", err)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// SetCallbackTimeout updates the callback wait budget.
func (s *SettingsService) SetCallbackTimeout(d time.Duration) error {
	return s.update(func(settings *domain.AppSettings) { settings.Auth.CallbackTimeout = d })
}

// SetExchangeTimeout updates the token request budget.
func (s *SettingsService) SetExchangeTimeout(d time.Duration) error {
	return s.update(func(settings *domain.AppSettings) { settings.Auth.ExchangeTimeout = d })
}

// SetPorts replaces a platform's candidate callback ports.
func (s *SettingsService) SetPorts(platform domain.Platform, ports []int) error {
	return s.update(func(settings *domain.AppSettings) { settings.Auth.Ports[platform] = ports })
}

// SetVerbose toggles debug logging.
func (s *SettingsService) SetVerbose(v bool) error {
	return s.update(func(settings *domain.AppSettings) { settings.Verbose = v })
}

// ConfigPath returns the path to the settings file.
func (s *SettingsService) ConfigPath() string {
	return s.configStore.Path()
}

func (s *SettingsService) update(fn func(*domain.AppSettings)) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	fn(settings)
	return s.Save(settings)
}

// getDuration accepts a Go duration string or whole seconds.
func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val, ok := s.configStore.Get(key)
	if !ok {
		return defaultVal
	}

	var d time.Duration
	switch v := val.(type) {
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			logger.Warn("settings: %s=%q is not a duration, using %s", key, v, defaultVal)
			return defaultVal
		}
		d = parsed
	case int64:
		d = time.Duration(v) * time.Second
	case int:
		d = time.Duration(v) * time.Second
	default:
		return defaultVal
	}

	if validateTimeout(d) != nil {
		logger.Warn("settings: %s=%s is out of range, using %s", key, d, defaultVal)
		return defaultVal
	}
	return d
}

func (s *SettingsService) getPorts(key string, defaultVal []int) []int {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	ports := s.configStore.GetIntSlice(key)
	if !validPorts(ports) {
		logger.Warn("settings: %s is not a list of ports, using defaults", key)
		return defaultVal
	}
	return ports
}

func validateTimeout(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%w: must be positive", domain.ErrInvalidInput)
	}
	return nil
}

func validPorts(ports []int) bool {
	if len(ports) == 0 {
		return false
	}
	for _, p := range ports {
		if p < 1 || p > maxPort {
			return false
		}
	}
	return true
}
