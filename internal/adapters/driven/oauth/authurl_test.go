package oauth

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/tunebridge/internal/core/domain"
)

func testSpec() domain.ProviderSpec {
	return domain.ProviderSpec{
		Platform:            domain.PlatformSpotify,
		AuthURL:             "https://accounts.example.com/authorize",
		TokenURL:            "https://accounts.example.com/api/token",
		Scopes:              []string{"user-read-currently-playing"},
		AuthParams:          map[string]string{"show_dialog": "true"},
		CallbackPorts:       []int{8888, 8889},
		CredentialsInHeader: true,
	}
}

func TestBuildAuthURL(t *testing.T) {
	t.Run("carries required parameters", func(t *testing.T) {
		raw, err := BuildAuthURL(testSpec(), "abc", "http://127.0.0.1:8888/callback", "xyz")
		require.NoError(t, err)

		u, err := url.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, "accounts.example.com", u.Host)
		assert.Equal(t, "/authorize", u.Path)

		q := u.Query()
		assert.Equal(t, "abc", q.Get("client_id"))
		assert.Equal(t, "code", q.Get("response_type"))
		assert.Equal(t, "http://127.0.0.1:8888/callback", q.Get("redirect_uri"))
		assert.Equal(t, "user-read-currently-playing", q.Get("scope"))
		assert.Equal(t, "true", q.Get("show_dialog"))
		assert.Equal(t, "xyz", q.Get("state"))
	})

	t.Run("joins multiple scopes with a space", func(t *testing.T) {
		spec := testSpec()
		spec.Scopes = []string{"identify", "public"}
		spec.AuthParams = nil

		raw, err := BuildAuthURL(spec, "12345", "http://127.0.0.1:8080/callback", "s")
		require.NoError(t, err)

		u, err := url.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, "identify public", u.Query().Get("scope"))
		assert.False(t, u.Query().Has("show_dialog"))
	})

	t.Run("rejects empty state", func(t *testing.T) {
		_, err := BuildAuthURL(testSpec(), "abc", "http://127.0.0.1:8888/callback", "")
		assert.Error(t, err)
	})

	t.Run("rejects invalid authorize endpoint", func(t *testing.T) {
		spec := testSpec()
		spec.AuthURL = "not a url"
		_, err := BuildAuthURL(spec, "abc", "http://127.0.0.1:8888/callback", "s")
		assert.Error(t, err)
	})
}

func TestEndpoint_AuthStyle(t *testing.T) {
	spec := testSpec()
	assert.Equal(t, oauth2.AuthStyleInHeader, Endpoint(spec).AuthStyle)

	spec.CredentialsInHeader = false
	ep := Endpoint(spec)
	assert.Equal(t, oauth2.AuthStyleInParams, ep.AuthStyle)
	assert.Equal(t, spec.TokenURL, ep.TokenURL)
}
