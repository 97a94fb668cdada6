// Package testutil builds throwaway databases and configs for package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/myblog/core/internal/config"
	"github.com/myblog/core/internal/database"
	"gorm.io/gorm"
)

// Config returns the testing profile with a file database and runtime dirs under t.TempDir().
func Config(t testing.TB) *config.AppConfig {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Testing()
	cfg.Database.DSN = filepath.Join(dir, "test.db")
	cfg.Paths.Logs = filepath.Join(dir, "logs")
	cfg.Paths.Backups = filepath.Join(dir, "backups")
	return cfg
}

// NewDB opens a migrated SQLite database that is closed when the test ends.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	return OpenDB(t, Config(t))
}

// OpenDB opens and migrates the database described by cfg.
func OpenDB(t testing.TB, cfg *config.AppConfig) *gorm.DB {
	t.Helper()
	db, err := database.Connect(cfg, nil)
	if err != nil {
		t.Fatalf("connect test db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	if err := database.CreateAll(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}
