package main

import (
	"fmt"
	"log/slog"
	"os"

	devenv "iliad-account/dev/env"
	"iliad-account/internal/db"
	"iliad-account/pkg/migrations"
)

const historyDB = "<dev_state>/iliad.db"

func CreateHistoryDB() error {
	path, err := devenv.ResolvePath(historyDB)
	if err != nil {
		return err
	}
	fmt.Println("migrating database at", path)

	database, err := migrations.OpenAndMigrateDB(db.Schema, historyDB)
	if err != nil {
		return err
	}
	return database.Close()
}

var templates = map[string]string{
	"iliad_config.json5": `{
  // credentials of a real account, used by TestAuthenticateLive
  username: "",
  password: "",
}
`,
	"config.json5": `{
  username: "",
  password: "",
  scan_interval: "15m",
  sqlite: { database: "<dev_state>/iliad.db" },
  http: { port: 8000 },
}
`,
}

func CreateConfigTemplates() error {
	for name, contents := range templates {
		path, err := devenv.GetStateFilePath(name)
		if err != nil {
			return err
		}
		_, err = os.Stat(path)
		if err == nil {
			fmt.Println("config already created at", path)
			continue
		}
		fmt.Println("creating config template at", path)
		err = os.WriteFile(path, []byte(contents), 0600)
		if err != nil {
			return err
		}
	}
	return nil
}

func PrintConfigLocations() {
	slog.Info("fill in the credentials in dev/.state/iliad_config.json5 to run the live tests, `go run ./cmd/iliad-account poll --config dev/.state/config.json5` runs the poller against the dev state.")
}
