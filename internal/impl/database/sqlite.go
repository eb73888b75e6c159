package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

const DefaultMaxOpenConns = 4

// SQLite is the pooled handle on the wearables database.
type SQLite struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
}

// NewSQLite opens the database at path. ":memory:" opens a private
// in-memory database on a single connection.
func NewSQLite(path string, maxOpenConns int, logger *zap.Logger) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if maxOpenConns < 1 {
		maxOpenConns = DefaultMaxOpenConns
	}

	dsn := path
	memory := path == ":memory:" || strings.Contains(path, "mode=memory")
	if !memory && !strings.HasPrefix(path, "file:") {
		dsn = "file:" + path + "?_busy_timeout=5000&_foreign_keys=on"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		logger.Error("Failed to open SQLite database", zap.Error(err), zap.String("path", path))
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A second connection to :memory: would see an empty database.
	if memory {
		maxOpenConns = 1
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxOpenConns)

	if err := db.Ping(); err != nil {
		db.Close()
		logger.Error("Failed to ping SQLite database", zap.Error(err), zap.String("path", path))
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	logger.Info("Opened SQLite database", zap.String("path", path), zap.Int("max_open_conns", maxOpenConns))
	return &SQLite{db: db, path: path, logger: logger}, nil
}

func (s *SQLite) DB() *sql.DB {
	return s.db
}

// ReadOnly runs fn inside a read-only transaction that is always rolled back.
func (s *SQLite) ReadOnly(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return err
	}
	defer tx.Rollback()
	return fn(tx)
}

// EnsureSchema creates any missing table so an empty file is queryable.
func (s *SQLite) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
