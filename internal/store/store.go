package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"submerge/internal/config"
)

// Store manages run persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open connects to the run database for writing, creating it if needed. It
// fails with ErrLocked while another writer or reader holds the store.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return open(cfg.StorePath(), false)
}

// OpenReadOnly connects to the run database sharing the lock with other
// readers. It fails with ErrLocked while a writer holds the store.
func OpenReadOnly(cfg *config.Config) (*Store, error) {
	path := cfg.StorePath()
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: no run database at %s", ErrRunNotFound, path)
		}
		return nil, fmt.Errorf("stat run database: %w", err)
	}
	return open(path, true)
}

func open(dbPath string, shared bool) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	lock := flock.New(dbPath + ".lock")
	tryLock := lock.TryLock
	if shared {
		tryLock = lock.TryRLock
	}
	ok, err := tryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire store lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, lock.Path())
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, lock: lock}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}

	return store, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection and releases the lock.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	if s.lock != nil {
		if unlockErr := s.lock.Unlock(); unlockErr != nil && err == nil {
			err = fmt.Errorf("release store lock: %w", unlockErr)
		}
	}
	return err
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}
