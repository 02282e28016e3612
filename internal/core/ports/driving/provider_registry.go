package driving

import (
	"github.com/custodia-labs/tunebridge/internal/core/domain"
	"github.com/custodia-labs/tunebridge/internal/core/ports/driven"
)

// ProviderRegistry lists the supported OAuth providers.
type ProviderRegistry interface {
	// Platforms returns every registered platform in a stable order.
	Platforms() []domain.Platform

	// Spec returns a platform's provider spec with configured port overrides applied.
	// Returns domain.ErrUnknownPlatform for unregistered platforms.
	Spec(platform domain.Platform) (domain.ProviderSpec, error)

	// Provider returns the registered provider for a platform.
	Provider(platform domain.Platform) (driven.Provider, error)

	// ParsePlatform resolves user input such as "Spotify" to a registered platform.
	ParsePlatform(name string) (domain.Platform, error)
}
