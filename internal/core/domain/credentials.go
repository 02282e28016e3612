package domain

import "time"

// LoginRecord is the persisted credential state for one platform.
// ExpiryTime is always an absolute UTC timestamp, never a duration.
type LoginRecord struct {
	// Platform is the key this record is stored under.
	Platform Platform `json:"platform"`
	// AccessToken is the bearer token for API access.
	AccessToken string `json:"access_token"`
	// RefreshToken is used to obtain new access tokens.
	RefreshToken string `json:"refresh_token"`
	// ExpiryTime is when the access token expires.
	ExpiryTime time.Time `json:"expiry_time"`
	// AvatarURL is the profile picture reported by the provider.
	AvatarURL string `json:"avatar_url,omitempty"`
	// UserName is the display name reported by the provider.
	UserName string `json:"user_name,omitempty"`
}

// IsValidAt reports whether the access token is still usable at now.
func (r *LoginRecord) IsValidAt(now time.Time) bool {
	return now.Before(r.ExpiryTime)
}

// HasRefreshToken returns true if a refresh token is available.
func (r *LoginRecord) HasRefreshToken() bool {
	return r.RefreshToken != ""
}

// CredentialMap maps a platform to its login record.
// It is persisted as a single file; keys are unique per platform.
type CredentialMap map[Platform]LoginRecord

// Clone returns a shallow copy safe to mutate independently.
func (m CredentialMap) Clone() CredentialMap {
	out := make(CredentialMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Profile is the minimal user profile fetched after token exchange.
type Profile struct {
	UserName  string
	AvatarURL string
}
