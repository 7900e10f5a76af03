package dbutil

import (
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

func (d Dialect) Valid() bool {
	return d == SQLite || d == Postgres
}

func (d Dialect) BindType() int {
	if d == Postgres {
		return sqlx.DOLLAR
	}
	return sqlx.QUESTION
}

// InsertSeq names a column that grows with every insert into a table:
// sqlite's implicit rowid, or the explicit seq column on postgres tables.
func (d Dialect) InsertSeq() string {
	if d == Postgres {
		return "seq"
	}
	return "rowid"
}

// Finalize rewrites the builder's "?" placeholders for the dialect.
func Finalize(d Dialect, query string, args []interface{}) (string, []interface{}) {
	return sqlx.Rebind(d.BindType(), query), args
}

func IsConflict(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var sqlErr *sqlite.Error
	if errors.As(err, &sqlErr) {
		switch sqlErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT:
			return true
		}
	}
	return false
}
