package commands

import (
	"database/sql"

	"iliad-account/internal/components/chrono"
	"iliad-account/internal/components/state"
	"iliad-account/internal/components/telemetry"
	"iliad-account/internal/config"
	"iliad-account/internal/db"
	"iliad-account/internal/scrapers/iliad"
	"iliad-account/lib/restyutil"
	"iliad-account/lib/serviceutil"
	"iliad-account/pkg/migrations"
)

const restyOutputDir = "<dev_state>/resty/iliad"

func readConfig() config.Config {
	cfg, err := config.Read(configPath)
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	return cfg
}

func createClient(cfg config.Config, tel telemetry.API) *iliad.Client {
	var output restyutil.InstrumentOutput
	if verbose {
		fsOutput, err := restyutil.NewFilesystemOutput(restyOutputDir)
		if err != nil {
			serviceutil.Fatal("failed to create http dump directory", err)
		}
		output = fsOutput
	}

	client, err := iliad.NewClient(iliad.ClientOptions{
		BaseUrl:          cfg.BaseUrl,
		Timeout:          cfg.Timeout.Std(),
		InstrumentOutput: output,
	}, tel)
	if err != nil {
		serviceutil.Fatal("failed to create iliad client", err)
	}
	return client
}

// openHistory opens the sqlite sink, the returned database must be closed by
// the caller.
func openHistory(cfg config.Config) (state.SQLiteSink, *sql.DB) {
	database, err := migrations.OpenAndMigrateDB(db.Schema, cfg.SQLite.Database)
	if err != nil {
		serviceutil.Fatal("failed to open sqlite database", err)
	}
	clock, err := chrono.NewStandardTime()
	if err != nil {
		serviceutil.Fatal("failed to load time zone", err)
	}
	return state.NewSQLiteSink(database, clock), database
}
