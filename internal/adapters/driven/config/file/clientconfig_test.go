package file

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tunebridge/internal/core/domain"
	"github.com/custodia-labs/tunebridge/internal/core/ports/driven"
	"github.com/custodia-labs/tunebridge/internal/providers/osu"
	"github.com/custodia-labs/tunebridge/internal/providers/spotify"
)

var testProviders = []driven.Provider{spotify.New(), osu.New()}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadClientConfigs_Valid(t *testing.T) {
	path := writeConfig(t, `{
		"spotify": {"client_id": "0123456789abcdef0123456789abcdef", "client_secret": "fedcba9876543210fedcba9876543210"},
		"osu": {"client_id": "12345", "client_secret": "`+strings.Repeat("x", 40)+`"}
	}`)

	configs, err := LoadClientConfigs(path, testProviders)
	require.NoError(t, err)
	assert.Equal(t, "12345", configs[domain.PlatformOsu].ClientID)
	assert.Equal(t, "0123456789abcdef0123456789abcdef", configs[domain.PlatformSpotify].ClientID)
}

func TestLoadClientConfigs_SpotifyClientIDProblem(t *testing.T) {
	path := writeConfig(t, `{
		"spotify": {"client_id": "0123456789ABCDEF0123456789abcdef", "client_secret": "fedcba9876543210fedcba9876543210"},
		"osu": {"client_id": "12345", "client_secret": "`+strings.Repeat("x", 40)+`"}
	}`)

	_, err := LoadClientConfigs(path, testProviders)

	var cfgErr *domain.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	require.Len(t, cfgErr.Problems, 1)
	assert.True(t, cfgErr.HasProblem(domain.PlatformSpotify, "client_id"))
	assert.Contains(t, err.Error(), "spotify.client_id:")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLoadClientConfigs_CollectsEveryProblem(t *testing.T) {
	path := writeConfig(t, `{"spotify": {"client_id": "abc", "client_secret": ""}}`)

	_, err := LoadClientConfigs(path, testProviders)

	var cfgErr *domain.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.True(t, cfgErr.HasProblem(domain.PlatformSpotify, "client_id"))
	assert.True(t, cfgErr.HasProblem(domain.PlatformSpotify, "client_secret"))
	assert.True(t, cfgErr.HasProblem(domain.PlatformOsu, "client_id"))
	assert.True(t, cfgErr.HasProblem(domain.PlatformOsu, "client_secret"))

	lines := strings.Split(err.Error(), "\n")
	assert.Len(t, lines, 5)
}

func TestLoadClientConfigs_MissingFile(t *testing.T) {
	_, err := LoadClientConfigs(filepath.Join(t.TempDir(), "nope.json"), testProviders)

	var cfgErr *domain.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Empty(t, cfgErr.Problems)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadClientConfigs_MalformedJSON(t *testing.T) {
	path := writeConfig(t, `{"spotify": `)

	_, err := LoadClientConfigs(path, testProviders)

	var cfgErr *domain.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Empty(t, cfgErr.Problems)
	assert.Contains(t, err.Error(), "parse")
}
