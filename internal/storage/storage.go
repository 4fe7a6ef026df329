// Package storage is the connection gateway: the sole owner of the open
// handle to the embedded SQLite file. All reads, writes, and transactions
// funnel through it, and every engine error is wrapped with the failing SQL
// text and parameters before it leaves the package.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/remindme-store/internal/apperrors"
	"github.com/sbilibin2017/remindme-store/internal/logger"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// ExecResult reports the outcome of a write operation.
type ExecResult struct {
	Changes      int64
	LastInsertID int64
}

// Storage owns the single open database handle. Construct with New (or
// NewWithDB in tests), then call Initialize before any query.
type Storage struct {
	dsn string

	mu    sync.Mutex
	db    *sqlx.DB
	ready bool
}

// New returns an unopened gateway for the given SQLite DSN.
func New(dsn string) *Storage {
	return &Storage{dsn: dsn}
}

// NewWithDB wraps an already-open handle and marks the gateway ready.
// Used by tests to inject prepared or mocked connections; schema management
// is skipped.
func NewWithDB(db *sqlx.DB) *Storage {
	return &Storage{db: db, ready: true}
}

var (
	defaultOnce  sync.Once
	defaultStore *Storage
)

// Default returns the process-wide gateway, constructing it lazily on first
// use. Repeated calls return the same instance and never reopen the file.
func Default(dsn string) *Storage {
	defaultOnce.Do(func() {
		defaultStore = New(dsn)
	})
	return defaultStore
}

// Initialize opens the database file (creating it if absent), enables
// foreign-key enforcement for the connection, and brings the schema and
// indexes up to date. Idempotent: calling it on a ready gateway is a no-op.
// Any DDL failure leaves the gateway uninitialized.
func (s *Storage) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready {
		return nil
	}

	db, err := sqlx.ConnectContext(ctx, "sqlite", s.dsn)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeStorage, "failed to open database").
			WithMeta("dsn", s.dsn)
	}
	// One logical actor, one connection: serializes all access and makes the
	// foreign_keys pragma stick for every statement.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return apperrors.Wrap(err, apperrors.CodeStorage, "failed to enable foreign keys")
	}

	if err := ensureSchema(ctx, db); err != nil {
		db.Close()
		return err
	}
	if err := createIndexes(ctx, db); err != nil {
		db.Close()
		return err
	}

	s.db = db
	s.ready = true
	logger.Log.Infow("storage initialized", "dsn", s.dsn)
	return nil
}

// Close closes the handle and clears the ready flag so a subsequent
// Initialize fully reopens from scratch.
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	s.ready = false
	return err
}

func (s *Storage) handle() (*sqlx.DB, *apperrors.AppError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready || s.db == nil {
		return nil, apperrors.New(apperrors.CodeNotInitialized, "storage accessed before initialization")
	}
	return s.db, nil
}

// Select runs a read-many query into dest (a slice pointer).
func (s *Storage) Select(ctx context.Context, dest any, query string, args ...any) error {
	db, aerr := s.handle()
	if aerr != nil {
		return aerr
	}
	if err := db.SelectContext(ctx, dest, query, args...); err != nil {
		return wrapSQL(err, "select failed", query, args)
	}
	return nil
}

// Get runs a read-one query into dest. Returns false with a nil error when
// no row matches; typed not-found handling is the services' concern.
func (s *Storage) Get(ctx context.Context, dest any, query string, args ...any) (bool, error) {
	db, aerr := s.handle()
	if aerr != nil {
		return false, aerr
	}
	err := db.GetContext(ctx, dest, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, wrapSQL(err, "get failed", query, args)
	}
	return true, nil
}

// Exec runs a write statement and reports affected rows and the last
// inserted row id.
func (s *Storage) Exec(ctx context.Context, query string, args ...any) (ExecResult, error) {
	db, aerr := s.handle()
	if aerr != nil {
		return ExecResult{}, aerr
	}
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return ExecResult{}, wrapSQL(err, "exec failed", query, args)
	}

	var out ExecResult
	out.Changes, _ = res.RowsAffected()
	out.LastInsertID, _ = res.LastInsertId()
	return out, nil
}

// WithTx runs fn inside a transaction: commit on success, rollback on error
// or panic (panics are rethrown). Statements inside fn either all commit or
// none do, so services never observe partial multi-statement writes.
func (s *Storage) WithTx(ctx context.Context, fn func(ctx context.Context, tx *sqlx.Tx) error) error {
	db, aerr := s.handle()
	if aerr != nil {
		return aerr
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeStorage, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Log.Errorw("transaction rollback failed", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Wrap(err, apperrors.CodeStorage, "failed to commit transaction")
	}
	return nil
}

func wrapSQL(err error, message, query string, args []any) *apperrors.AppError {
	aerr := apperrors.Wrap(err, apperrors.CodeStorage, message).
		WithMeta("query", compact(query)).
		WithMeta("args", args)
	logger.Log.Errorw(message, "query", compact(query), "args", args, "error", err)
	return aerr
}

func compact(query string) string {
	return strings.Join(strings.Fields(query), " ")
}
