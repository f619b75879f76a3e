// Package storage provides the client's local persistence: a small SQLite
// state database and file exports.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"maji/local-app/internal/log"
)

// SQLiteStore is the local state database
type SQLiteStore struct {
	db     *sql.DB
	logger *log.Logger
}

// OpenSQLite opens (creating if needed) the SQLite database at dataSourceName
// and brings its schema up to date
func OpenSQLite(dataSourceName string, logger *log.Logger) (*SQLiteStore, error) {
	ctx := context.Background()
	logger.Info(ctx, "Opening SQLite database", log.Fields{"dbPath": filepath.Base(dataSourceName)})

	// Ensure the directory for the database file exists
	dbDir := filepath.Dir(dataSourceName)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		logger.Error(ctx, "Failed to create database directory", log.Fields{"error": err, "directory": dbDir})
		return nil, fmt.Errorf("failed to create database directory '%s': %w", dbDir, err)
	}

	// Open the database connection with additional parameters
	db, err := sql.Open("sqlite3", dataSourceName+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		logger.Error(ctx, "Failed to open SQLite database", log.Fields{"error": err})
		return nil, fmt.Errorf("failed to open SQLite database: %v", err)
	}

	// Set pragmas for better performance and reliability
	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		db.Close()
		logger.Error(ctx, "Failed to set SQLite synchronous pragma", log.Fields{"error": err})
		return nil, fmt.Errorf("failed to set SQLite synchronous pragma: %w", err)
	}

	// Verify the connection
	if err := db.Ping(); err != nil {
		db.Close()
		logger.Error(ctx, "Failed to verify database connection", log.Fields{"error": err})
		return nil, fmt.Errorf("failed to verify database connection: %v", err)
	}

	if err := migrateDB(db); err != nil {
		db.Close()
		logger.Error(ctx, "Failed to migrate database", log.Fields{"error": err})
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info(ctx, "SQLite database opened successfully", nil)
	return &SQLiteStore{db: db, logger: logger}, nil
}

// Close closes the connection to the SQLite database
func (s *SQLiteStore) Close() error {
	s.logger.Info(context.Background(), "Closing SQLite database", nil)
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error(context.Background(), "Failed to close SQLite database", log.Fields{"error": err})
			return fmt.Errorf("failed to close SQLite database: %w", err)
		}
	}
	return nil
}
