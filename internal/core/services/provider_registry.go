package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/tunebridge/internal/core/domain"
	"github.com/custodia-labs/tunebridge/internal/core/ports/driven"
	"github.com/custodia-labs/tunebridge/internal/core/ports/driving"
)

// Ensure ProviderRegistry implements the interface.
var _ driving.ProviderRegistry = (*ProviderRegistry)(nil)

// ProviderRegistry maps platforms to their provider definitions.
// Callback ports configured in settings replace a provider's default pool.
type ProviderRegistry struct {
	providers map[domain.Platform]driven.Provider
	ports     map[domain.Platform][]int
}

// NewProviderRegistry creates a registry from provider definitions.
// A later provider for the same platform replaces an earlier one.
func NewProviderRegistry(providers ...driven.Provider) *ProviderRegistry {
	r := &ProviderRegistry{
		providers: make(map[domain.Platform]driven.Provider, len(providers)),
		ports:     make(map[domain.Platform][]int),
	}
	for _, p := range providers {
		r.providers[p.Spec().Platform] = p
	}
	return r
}

// WithPorts applies port overrides from settings.
func (r *ProviderRegistry) WithPorts(settings domain.AuthSettings) *ProviderRegistry {
	for platform := range r.providers {
		if ports := settings.PortsFor(platform); ports != nil {
			r.ports[platform] = ports
		}
	}
	return r
}

// Platforms returns every registered platform, sorted.
func (r *ProviderRegistry) Platforms() []domain.Platform {
	platforms := make([]domain.Platform, 0, len(r.providers))
	for p := range r.providers {
		platforms = append(platforms, p)
	}
	sort.Slice(platforms, func(i, j int) bool { return platforms[i] < platforms[j] })
	return platforms
}

// Provider returns the provider for a platform.
func (r *ProviderRegistry) Provider(platform domain.Platform) (driven.Provider, error) {
	p, ok := r.providers[platform]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownPlatform, platform)
	}
	return p, nil
}

// Providers returns every registered provider in platform order.
func (r *ProviderRegistry) Providers() []driven.Provider {
	out := make([]driven.Provider, 0, len(r.providers))
	for _, p := range r.Platforms() {
		out = append(out, r.providers[p])
	}
	return out
}

// Spec returns the provider spec with any port override applied.
func (r *ProviderRegistry) Spec(platform domain.Platform) (domain.ProviderSpec, error) {
	p, err := r.Provider(platform)
	if err != nil {
		return domain.ProviderSpec{}, err
	}
	spec := p.Spec()
	if ports, ok := r.ports[platform]; ok {
		spec.CallbackPorts = append([]int(nil), ports...)
	}
	return spec, nil
}

// ParsePlatform resolves user input to a registered platform, ignoring case.
func (r *ProviderRegistry) ParsePlatform(name string) (domain.Platform, error) {
	platform := domain.Platform(strings.ToLower(strings.TrimSpace(name)))
	if _, err := r.Provider(platform); err != nil {
		return "", err
	}
	return platform, nil
}
