package services

import (
	"sort"
	"sync"

	"github.com/custodia-labs/tunebridge/internal/core/domain"
	"github.com/custodia-labs/tunebridge/internal/core/ports/driven"
	"github.com/custodia-labs/tunebridge/internal/core/ports/driving"
)

// Ensure CredentialsService implements the interface.
var _ driving.CredentialsService = (*CredentialsService)(nil)

// CredentialsService owns every read-modify-write of the credential map.
// The store itself has no locking; all writers in the process go through here.
type CredentialsService struct {
	mu    sync.Mutex
	store driven.CredentialStore
}

// NewCredentialsService creates a new credentials service.
func NewCredentialsService(store driven.CredentialStore) *CredentialsService {
	return &CredentialsService{
		store: store,
	}
}

// Get retrieves the login record for a platform.
func (s *CredentialsService) Get(platform domain.Platform) (*domain.LoginRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	record, ok := creds[platform]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &record, nil
}

// List returns every stored login record.
func (s *CredentialsService) List() (domain.CredentialMap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Load()
}

// Put merges a login record into the stored map.
func (s *CredentialsService) Put(record domain.LoginRecord) error {
	if record.Platform == "" {
		return domain.ErrInvalidInput
	}
	return s.update(func(creds domain.CredentialMap) bool {
		record.ExpiryTime = record.ExpiryTime.UTC()
		creds[record.Platform] = record
		return true
	})
}

// Replace overwrites the platform's entry only while the stored entry still
// carries expectRefreshToken. Returns domain.ErrNotFound when the entry is gone
// or was replaced since it was read.
func (s *CredentialsService) Replace(record domain.LoginRecord, expectRefreshToken string) error {
	if record.Platform == "" {
		return domain.ErrInvalidInput
	}
	missing := false
	err := s.update(func(creds domain.CredentialMap) bool {
		stored, ok := creds[record.Platform]
		if !ok || stored.RefreshToken != expectRefreshToken {
			missing = true
			return false
		}
		record.ExpiryTime = record.ExpiryTime.UTC()
		creds[record.Platform] = record
		return true
	})
	if err != nil {
		return err
	}
	if missing {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a platform's entry.
func (s *CredentialsService) Delete(platform domain.Platform) error {
	return s.update(func(creds domain.CredentialMap) bool {
		if _, ok := creds[platform]; !ok {
			return false
		}
		delete(creds, platform)
		return true
	})
}

// Platforms returns the platforms with a stored record, sorted.
func (s *CredentialsService) Platforms() ([]domain.Platform, error) {
	creds, err := s.List()
	if err != nil {
		return nil, err
	}
	out := make([]domain.Platform, 0, len(creds))
	for p := range creds {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// update runs fn over the loaded map and saves it when fn reports a change.
func (s *CredentialsService) update(fn func(domain.CredentialMap) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.store.Load()
	if err != nil {
		return err
	}
	if creds == nil {
		creds = domain.CredentialMap{}
	}
	if !fn(creds) {
		return nil
	}
	return s.store.Save(creds)
}
