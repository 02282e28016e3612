package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/tunebridge/internal/core/domain"
	"github.com/custodia-labs/tunebridge/internal/core/ports/driven"
)

// CredentialFileName is the credential file inside the data directory.
const CredentialFileName = "login_info.json"

// Ensure CredentialStore implements the interface.
var _ driven.CredentialStore = (*CredentialStore)(nil)

// CredentialStore reads and writes the credential map as JSON.
type CredentialStore struct {
	dir  string
	path string
}

// NewCredentialStore creates a store for dataDir/login_info.json.
// The directory is created on first save, not here.
func NewCredentialStore(dataDir string) *CredentialStore {
	return &CredentialStore{
		dir:  dataDir,
		path: filepath.Join(dataDir, CredentialFileName),
	}
}

// Path returns the credential file path.
func (s *CredentialStore) Path() string {
	return s.path
}

// Load reads the credential map. A missing file yields an empty map.
func (s *CredentialStore) Load() (domain.CredentialMap, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.CredentialMap{}, nil
		}
		return nil, &domain.StorageError{Op: "read", Path: s.path, Err: err}
	}

	creds := domain.CredentialMap{}
	if len(data) == 0 {
		return creds, nil
	}
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, &domain.StorageError{Op: "decode", Path: s.path, Err: err}
	}
	return creds, nil
}

// Save replaces the credential file with the given map.
// The file is fully serialised before anything touches disk.
func (s *CredentialStore) Save(creds domain.CredentialMap) error {
	if creds == nil {
		creds = domain.CredentialMap{}
	}
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return &domain.StorageError{Op: "encode", Path: s.path, Err: err}
	}

	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return &domain.StorageError{Op: "mkdir", Path: s.dir, Err: err}
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return &domain.StorageError{Op: "write", Path: s.path, Err: err}
	}
	return nil
}

// writeFileAtomic writes to a temp file next to path and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
