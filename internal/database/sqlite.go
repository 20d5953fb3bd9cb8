package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openSQLite(cfg Config) (*gorm.DB, error) {
	dsn := cfg.DSN
	if dsn == "" {
		built, err := sqliteDSN(cfg.Path)
		if err != nil {
			return nil, err
		}
		dsn = built
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("sqlite: enable foreign keys: %w", err)
	}

	return db, nil
}

// sqliteDSN maps the configured path onto a file DSN, creating parent
// directories for on-disk databases. An empty or ":memory:" path selects a
// shared in-memory database.
func sqliteDSN(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" || strings.EqualFold(path, ":memory:") {
		return "file::memory:?cache=shared&_foreign_keys=1", nil
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("sqlite: create data directory: %w", err)
		}
	}

	return fmt.Sprintf("file:%s?_foreign_keys=1&_busy_timeout=5000&_journal_mode=WAL",
		filepath.ToSlash(path)), nil
}
