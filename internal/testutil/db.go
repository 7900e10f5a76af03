package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/xxxsen/greenhabit/internal/config"
	"github.com/xxxsen/greenhabit/internal/db"
)

// OpenTestDB opens a migrated sqlite database in a per-test temp dir.
func OpenTestDB(t *testing.T) (*db.Conn, func()) {
	t.Helper()
	conn, err := db.Open(config.DBConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "greenhabit_test.db"),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(context.Background(), conn); err != nil {
		_ = conn.Close()
		t.Fatalf("migrations: %v", err)
	}
	return conn, func() {
		_ = conn.Close()
	}
}
