package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/tunebridge/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/tunebridge/internal/core/domain"
	"github.com/custodia-labs/tunebridge/internal/core/ports/driven"
)

// DatabaseFileName is the history database inside the data directory.
const DatabaseFileName = "history.db"

// Store is a SQLite-backed history store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (and migrates) dataDir/history.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		return nil, errors.New("history store: data directory is required")
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFileName)

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// AttemptStore returns an AttemptStore backed by this store.
func (s *Store) AttemptStore() driven.AttemptStore {
	return &attemptStore{store: s}
}

// migrate applies every pending NNN_name.up.sql in version order.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.apply(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// apply runs one migration and records its version in the same transaction.
func (s *Store) apply(version int, content string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(content); err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// ==================== Attempt Store ====================

// attemptStore implements driven.AttemptStore.
type attemptStore struct {
	store *Store
}

var _ driven.AttemptStore = (*attemptStore)(nil)

// Record stores one finished attempt. Times are kept as UTC unix nanoseconds.
func (s *attemptStore) Record(ctx context.Context, attempt domain.AuthAttempt) error {
	if attempt.ID == "" {
		return fmt.Errorf("%w: attempt id is required", domain.ErrInvalidInput)
	}
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO auth_attempts (id, platform, started_at, finished_at, outcome, reason)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			finished_at = excluded.finished_at,
			outcome = excluded.outcome,
			reason = excluded.reason
	`,
		attempt.ID,
		string(attempt.Platform),
		attempt.StartedAt.UTC().UnixNano(),
		attempt.FinishedAt.UTC().UnixNano(),
		attempt.Outcome.String(),
		attempt.Reason,
	)
	if err != nil {
		return fmt.Errorf("record attempt: %w", err)
	}
	return nil
}

// List returns the newest attempts first. An empty platform matches all.
func (s *attemptStore) List(ctx context.Context, platform domain.Platform, limit int) ([]domain.AuthAttempt, error) {
	if limit <= 0 {
		limit = -1
	}

	query := `SELECT id, platform, started_at, finished_at, outcome, reason FROM auth_attempts`
	args := []any{}
	if platform != "" {
		query += ` WHERE platform = ?`
		args = append(args, string(platform))
	}
	query += ` ORDER BY finished_at DESC, id LIMIT ?`
	args = append(args, limit)

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	var attempts []domain.AuthAttempt
	for rows.Next() {
		attempt, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, attempt)
	}
	return attempts, rows.Err()
}

func scanAttempt(rows *sql.Rows) (domain.AuthAttempt, error) {
	var (
		a                 domain.AuthAttempt
		platform, outcome string
		started, finished int64
	)
	if err := rows.Scan(&a.ID, &platform, &started, &finished, &outcome, &a.Reason); err != nil {
		return a, fmt.Errorf("scan attempt: %w", err)
	}

	kind, err := domain.ParseStatusKind(outcome)
	if err != nil {
		return a, err
	}
	a.Platform = domain.Platform(platform)
	a.Outcome = kind
	a.StartedAt = time.Unix(0, started).UTC()
	a.FinishedAt = time.Unix(0, finished).UTC()
	return a, nil
}
