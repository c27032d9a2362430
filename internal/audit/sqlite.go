package audit

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database holding the audit corpus and run history
type DB struct {
	db     *sql.DB
	logger *logrus.Logger
}

// Open opens (creating if needed) the audit database
func Open(dbPath string, logger *logrus.Logger) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create audit directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	a := &DB{
		db:     db,
		logger: logger,
	}

	if _, err := a.db.Exec(Schema); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.WithField("path", dbPath).Info("Audit store initialized")
	return a, nil
}

// Close closes the database connection
func (a *DB) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// SQL returns the underlying database connection (for use in store.go)
func (a *DB) SQL() *sql.DB {
	return a.db
}
