package driven

import "github.com/custodia-labs/tunebridge/internal/core/domain"

// CredentialStore persists the credential map as a whole.
// Writes overwrite the full file; callers serialise read-modify-write cycles.
type CredentialStore interface {
	// Load reads the credential map. A missing file yields an empty map.
	Load() (domain.CredentialMap, error)

	// Save replaces the persisted credential map.
	Save(creds domain.CredentialMap) error

	// Path returns the backing file path.
	Path() string
}
