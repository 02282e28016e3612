package driving

import "github.com/custodia-labs/tunebridge/internal/core/domain"

// CredentialsService manages persisted login records.
// Each mutation is a single read-modify-write of the whole credential map.
type CredentialsService interface {
	// Get retrieves the login record for a platform.
	// Returns domain.ErrNotFound if the platform has none.
	Get(platform domain.Platform) (*domain.LoginRecord, error)

	// List returns every stored login record.
	List() (domain.CredentialMap, error)

	// Put merges a login record into the stored map, replacing the platform's entry.
	Put(record domain.LoginRecord) error

	// Replace overwrites the platform's entry only if it still carries
	// expectRefreshToken. Returns domain.ErrNotFound otherwise.
	Replace(record domain.LoginRecord, expectRefreshToken string) error

	// Delete removes a platform's entry. Deleting a missing entry is not an error.
	Delete(platform domain.Platform) error
}
