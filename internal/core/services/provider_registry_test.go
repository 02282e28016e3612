package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tunebridge/internal/core/domain"
)

func TestProviderRegistry_Platforms(t *testing.T) {
	registry := NewProviderRegistry(
		newFakeProvider(domain.PlatformSpotify, 8888),
		newFakeProvider(domain.PlatformOsu, 8080),
	)

	assert.Equal(t, []domain.Platform{domain.PlatformOsu, domain.PlatformSpotify}, registry.Platforms())
	assert.Len(t, registry.Providers(), 2)
}

func TestProviderRegistry_UnknownPlatform(t *testing.T) {
	registry := NewProviderRegistry(newFakeProvider(domain.PlatformOsu, 8080))

	_, err := registry.Spec("deezer")
	assert.ErrorIs(t, err, domain.ErrUnknownPlatform)

	_, err = registry.ParsePlatform("deezer")
	assert.ErrorIs(t, err, domain.ErrUnknownPlatform)

	platform, err := registry.ParsePlatform("osu")
	require.NoError(t, err)
	assert.Equal(t, domain.PlatformOsu, platform)

	platform, err = registry.ParsePlatform(" OSU ")
	require.NoError(t, err)
	assert.Equal(t, domain.PlatformOsu, platform)
}

func TestProviderRegistry_PortOverrides(t *testing.T) {
	registry := NewProviderRegistry(
		newFakeProvider(domain.PlatformSpotify, 8888, 8889),
		newFakeProvider(domain.PlatformOsu, 8080),
	).WithPorts(domain.AuthSettings{
		Ports: map[domain.Platform][]int{domain.PlatformSpotify: {9000}},
	})

	spotify, err := registry.Spec(domain.PlatformSpotify)
	require.NoError(t, err)
	assert.Equal(t, []int{9000}, spotify.CallbackPorts)

	osu, err := registry.Spec(domain.PlatformOsu)
	require.NoError(t, err)
	assert.Equal(t, []int{8080}, osu.CallbackPorts)
}
