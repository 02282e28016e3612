package file

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/tunebridge/internal/logger"
)

// WatchCredentials signals on the returned channel whenever the credential
// file is created, replaced or removed. The directory is watched rather than
// the file so atomic renames are observed. The channel closes when ctx ends.
func WatchCredentials(ctx context.Context, store *CredentialStore) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(store.dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", store.dir, err)
	}

	target := filepath.Clean(store.path)
	changes := make(chan struct{}, 1)

	go func() {
		defer close(changes)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
					!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}
				select {
				case changes <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("credential watcher: %v", err)
			}
		}
	}()

	return changes, nil
}
