package testutil

import (
	"database/sql"
	"testing"

	"iliad-account/pkg/migrations"
)

// OpenDB opens a database with `schema` applied, it is closed when the test
// ends. `path` defaults to `:memory:` and may start with <dev_state>.
func OpenDB(t testing.TB, schema, path string) *sql.DB {
	if path == "" {
		path = ":memory:"
	}
	database, err := migrations.OpenAndMigrateDB(schema, path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}
