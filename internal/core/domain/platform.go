package domain

// Platform identifies an OAuth provider by its persisted key.
type Platform string

const (
	// PlatformSpotify is the Spotify Web API.
	PlatformSpotify Platform = "spotify"
	// PlatformOsu is the osu! API v2.
	PlatformOsu Platform = "osu"
)

// String returns the platform key.
func (p Platform) String() string {
	return string(p)
}

// DisplayName returns a human-friendly name for status output.
func (p Platform) DisplayName() string {
	switch p {
	case PlatformSpotify:
		return "Spotify"
	case PlatformOsu:
		return "osu!"
	default:
		return string(p)
	}
}
