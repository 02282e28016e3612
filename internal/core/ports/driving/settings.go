package driving

import (
	"time"

	"github.com/custodia-labs/tunebridge/internal/core/domain"
)

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	// Missing or invalid values fall back to defaults.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// SetCallbackTimeout updates the browser redirect budget.
	SetCallbackTimeout(d time.Duration) error

	// SetExchangeTimeout updates the token endpoint budget.
	SetExchangeTimeout(d time.Duration) error

	// SetPorts overrides a platform's candidate callback ports.
	SetPorts(platform domain.Platform, ports []int) error

	// SetVerbose toggles verbose logging by default.
	SetVerbose(v bool) error

	// ConfigPath returns where settings are persisted.
	ConfigPath() string
}
