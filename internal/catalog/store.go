package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound reports an unknown run ID.
var ErrNotFound = errors.New("run not found")

// Store manages run history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

const runColumns = "id, kind, input, output, posterization, mutation, seed, fps, width, height, frames, symbols, mutated, padded, checksum, status, error, started_at, finished_at"

// Open initializes or connects to the catalog at path and applies migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure catalog directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
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
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, now: time.Now}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Begin records a new running run and returns it with its ID and start time
// filled in.
func (s *Store) Begin(ctx context.Context, run Run) (*Run, error) {
	if run.Kind == "" {
		return nil, errors.New("run kind required")
	}
	if strings.TrimSpace(run.Input) == "" {
		return nil, errors.New("run input required")
	}
	run.ID = uuid.NewString()
	run.Status = StatusRunning
	run.StartedAt = s.now().UTC()
	run.FinishedAt = nil

	err := s.execWithRetry(ctx,
		`INSERT INTO runs (id, kind, input, output, posterization, mutation, seed, status, started_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		string(run.Kind),
		run.Input,
		nullableString(run.Output),
		nullableString(run.Posterization),
		nullableString(run.Mutation),
		strconv.FormatUint(run.Seed, 10),
		string(run.Status),
		formatTime(run.StartedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return &run, nil
}

// Finish stores the outcome of a run. A non-nil runErr marks it failed.
func (s *Store) Finish(ctx context.Context, id string, outcome Outcome, runErr error) error {
	status := StatusSucceeded
	var message any
	if runErr != nil {
		status = StatusFailed
		message = runErr.Error()
	}
	var affected int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx,
			`UPDATE runs
             SET output = COALESCE(?, output), posterization = COALESCE(?, posterization), fps = ?, width = ?, height = ?, frames = ?, symbols = ?,
                 mutated = ?, padded = ?, checksum = ?, status = ?, error = ?, finished_at = ?
             WHERE id = ?`,
			nullableString(outcome.Output),
			nullableString(outcome.Posterization),
			outcome.FPS,
			outcome.Width,
			outcome.Height,
			outcome.Frames,
			outcome.Symbols,
			outcome.Mutated,
			outcome.Padded,
			nullableString(outcome.Checksum),
			string(status),
			message,
			formatTime(s.now().UTC()),
			id,
		)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Get fetches a run by ID.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// Recent returns up to limit runs, newest first. A limit of zero or less
// returns every run.
func (s *Store) Recent(ctx context.Context, limit int) ([]*Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// AbandonStale marks runs still running that started before cutoff as
// abandoned, which happens when a process is killed mid-run.
func (s *Store) AbandonStale(ctx context.Context, cutoff time.Time) (int64, error) {
	var affected int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx,
			`UPDATE runs SET status = ?, finished_at = ? WHERE status = ? AND started_at < ?`,
			string(StatusAbandoned),
			formatTime(s.now().UTC()),
			string(StatusRunning),
			formatTime(cutoff.UTC()),
		)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("abandon stale runs: %w", err)
	}
	return affected, nil
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code()&0xff == sqliteBusyCode {
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

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) error {
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}
