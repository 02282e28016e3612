package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tunebridge/internal/core/domain"
)

func sampleCredentials() domain.CredentialMap {
	expiry := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return domain.CredentialMap{
		domain.PlatformSpotify: {
			Platform:     domain.PlatformSpotify,
			AccessToken:  "tok1",
			RefreshToken: "ref1",
			ExpiryTime:   expiry,
			AvatarURL:    "https://i.scdn.co/image/ab",
			UserName:     "Ada",
		},
		domain.PlatformOsu: {
			Platform:     domain.PlatformOsu,
			AccessToken:  "tok2",
			RefreshToken: "ref2",
			ExpiryTime:   expiry.Add(time.Hour),
		},
	}
}

func TestCredentialStore_LoadMissingFile(t *testing.T) {
	store := NewCredentialStore(filepath.Join(t.TempDir(), "not-yet"))

	creds, err := store.Load()
	require.NoError(t, err)
	assert.NotNil(t, creds)
	assert.Empty(t, creds)
}

func TestCredentialStore_RoundTrip(t *testing.T) {
	store := NewCredentialStore(t.TempDir())
	want := sampleCredentials()

	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestCredentialStore_SaveCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "app", "data")
	store := NewCredentialStore(dir)

	require.NoError(t, store.Save(sampleCredentials()))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, filepath.Join(dir, "login_info.json"), store.Path())
}

func TestCredentialStore_FilePermissions(t *testing.T) {
	store := NewCredentialStore(t.TempDir())
	require.NoError(t, store.Save(sampleCredentials()))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestCredentialStore_SaveOverwritesWholeFile(t *testing.T) {
	store := NewCredentialStore(t.TempDir())
	require.NoError(t, store.Save(sampleCredentials()))

	only := domain.CredentialMap{domain.PlatformOsu: sampleCredentials()[domain.PlatformOsu]}
	require.NoError(t, store.Save(only))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, only, got)
}

func TestCredentialStore_PersistedFormat(t *testing.T) {
	store := NewCredentialStore(t.TempDir())
	require.NoError(t, store.Save(sampleCredentials()))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"spotify"`)
	assert.Contains(t, string(data), `"access_token": "tok1"`)
	assert.Contains(t, string(data), `"expiry_time": "2026-03-01T12:00:00Z"`)
}

func TestCredentialStore_EmptyFile(t *testing.T) {
	store := NewCredentialStore(t.TempDir())
	require.NoError(t, os.WriteFile(store.Path(), nil, 0600))

	creds, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, creds)
}

func TestCredentialStore_CorruptedFile(t *testing.T) {
	store := NewCredentialStore(t.TempDir())
	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0600))

	_, err := store.Load()

	var storageErr *domain.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "decode", storageErr.Op)
	assert.Equal(t, store.Path(), storageErr.Path)
}

func TestCredentialStore_SaveFailsWhenDirIsFile(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	err := NewCredentialStore(filepath.Join(blocker, "data")).Save(sampleCredentials())

	var storageErr *domain.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "mkdir", storageErr.Op)
}

func TestCredentialStore_NoTempFilesLeftBehind(t *testing.T) {
	dir := t.TempDir()
	store := NewCredentialStore(dir)
	require.NoError(t, store.Save(sampleCredentials()))
	require.NoError(t, store.Save(sampleCredentials()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "login_info.json", entries[0].Name())
}

func TestWatchCredentials_SignalsOnSave(t *testing.T) {
	store := NewCredentialStore(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := WatchCredentials(ctx, store)
	require.NoError(t, err)

	require.NoError(t, store.Save(sampleCredentials()))

	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatal("expected a change notification")
	}

	cancel()
	for range changes {
	}
}

func TestWatchCredentials_MissingDirectory(t *testing.T) {
	store := NewCredentialStore(filepath.Join(t.TempDir(), "missing"))

	_, err := WatchCredentials(context.Background(), store)
	assert.Error(t, err)
}
