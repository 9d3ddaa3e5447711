package migrations

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	devenv "iliad-account/dev/env"

	_ "modernc.org/sqlite"
)

func wrapOpenDB(err error) error {
	return fmt.Errorf("open db: %w", err)
}

// OpenDB opens the sqlite database at `path` (which may start with <dev_state>),
// creating its parent directory if needed.
func OpenDB(path string) (*sql.DB, error) {
	path, err := devenv.ResolvePath(path)
	if err != nil {
		return nil, wrapOpenDB(err)
	}
	if path != ":memory:" {
		err = os.MkdirAll(filepath.Dir(path), 0777)
		if err != nil {
			return nil, wrapOpenDB(err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, wrapOpenDB(err)
	}

	// sqlite only allows a single writer, limiting the pool avoids SQLITE_BUSY
	// and keeps every connection on the same :memory: database
	db.SetMaxOpenConns(1)
	if path != ":memory:" {
		_, err = db.Exec("PRAGMA journal_mode=WAL")
		if err != nil {
			db.Close()
			return nil, wrapOpenDB(err)
		}
	}

	return db, nil
}

func wrapOpenAndMigrate(err error) error {
	return fmt.Errorf("open and migrate db: %w", err)
}

// OpenAndMigrateDB opens the database and applies `schema`, the schema must be
// idempotent (create ... if not exists).
func OpenAndMigrateDB(schema, path string) (*sql.DB, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, wrapOpenAndMigrate(err)
	}
	_, err = db.Exec(schema)
	if err != nil {
		db.Close()
		return nil, wrapOpenAndMigrate(err)
	}
	return db, nil
}
