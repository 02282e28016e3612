package memory

import (
	"sync"

	"github.com/custodia-labs/tunebridge/internal/core/domain"
	"github.com/custodia-labs/tunebridge/internal/core/ports/driven"
)

// Ensure CredentialStore implements the interface.
var _ driven.CredentialStore = (*CredentialStore)(nil)

// CredentialStore is an in-memory implementation of driven.CredentialStore for testing.
// It counts saves so tests can assert nothing was written.
type CredentialStore struct {
	mu      sync.Mutex
	creds   domain.CredentialMap
	saves   int
	loadErr error
	saveErr error
}

// NewCredentialStore creates an empty in-memory credential store.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{creds: domain.CredentialMap{}}
}

// Load returns a copy of the stored map.
func (s *CredentialStore) Load() (domain.CredentialMap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.creds.Clone(), nil
}

// Save replaces the stored map with a copy of creds.
func (s *CredentialStore) Save(creds domain.CredentialMap) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.creds = creds.Clone()
	s.saves++
	return nil
}

// Path returns a placeholder path.
func (s *CredentialStore) Path() string {
	return ":memory:"
}

// Saves returns how many times Save succeeded.
func (s *CredentialStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// FailLoad makes every Load return err. A nil err restores normal behaviour.
func (s *CredentialStore) FailLoad(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadErr = err
}

// FailSave makes every Save return err. A nil err restores normal behaviour.
func (s *CredentialStore) FailSave(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = err
}
