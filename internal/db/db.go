package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/xxxsen/greenhabit/internal/config"
	"github.com/xxxsen/greenhabit/internal/pkg/dbutil"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// Conn is a connection pool together with the SQL dialect spoken by it.
type Conn struct {
	*sql.DB
	Dialect dbutil.Dialect
}

func Open(cfg config.DBConfig) (*Conn, error) {
	dialect := dbutil.Dialect(cfg.Driver)
	if !dialect.Valid() {
		return nil, fmt.Errorf("unsupported db driver %q", cfg.Driver)
	}
	dsn := cfg.DSN
	if dialect == dbutil.SQLite {
		dsn = sqliteDSN(cfg.Path)
	}
	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Conn{DB: db, Dialect: dialect}, nil
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "_pragma=") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + sqlitePragmas
}

// ApplyMigrations runs every embedded migration of the connection's dialect
// in file-name order. Statements are written to be idempotent.
func ApplyMigrations(ctx context.Context, conn *Conn) error {
	files, err := migrationFiles(conn.Dialect)
	if err != nil {
		return err
	}
	for _, file := range files {
		content, err := fs.ReadFile(migrationsFS, file)
		if err != nil {
			return err
		}
		for _, q := range splitStatements(string(content)) {
			if _, err := conn.ExecContext(ctx, q); err != nil {
				if strings.Contains(err.Error(), "already exists") {
					continue
				}
				return fmt.Errorf("execute query in %s: %w", file, err)
			}
		}
	}
	return nil
}

func migrationFiles(dialect dbutil.Dialect) ([]string, error) {
	dir := "migrations/" + string(dialect)
	entries, err := fs.ReadDir(migrationsFS, dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, dir+"/"+entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func splitStatements(content string) []string {
	var out []string
	for _, q := range strings.Split(content, ";") {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		out = append(out, q)
	}
	return out
}
