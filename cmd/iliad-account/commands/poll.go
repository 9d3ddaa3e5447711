package commands

import (
	"log/slog"

	"iliad-account/internal/components/chrono"
	"iliad-account/internal/components/state"
	"iliad-account/internal/components/telemetry"
	"iliad-account/internal/config"
	"iliad-account/internal/poller"
	"iliad-account/internal/server"
	"iliad-account/lib/serviceutil"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(pollCmd)
}

var pollCmd = &cobra.Command{
	Use:   "poll [--config config.json5] [-v]",
	Short: "Polls the account page every scan interval and publishes the credit until interrupted.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := readConfig()
		tel := telemetry.SlogAPI{}

		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		promSink, err := state.NewPrometheusSink(config.Domain, registry)
		if err != nil {
			serviceutil.Fatal("failed to create prometheus sink", err)
		}

		store := state.NewMemoryStore()
		sinks := state.Fanout{store, state.SlogSink{}, promSink}

		var history server.HistorySource
		if cfg.SQLite.Database != "" {
			sqliteSink, database := openHistory(cfg)
			defer database.Close()
			sinks = append(sinks, sqliteSink)
			history = sqliteSink
		}

		cron := chrono.NewStandardCron(tel)
		p, err := poller.New(poller.Options{
			Client:   createClient(cfg, tel),
			Username: cfg.Username,
			Password: cfg.Password,
			Interval: cfg.ScanInterval.Std(),
			Domain:   config.Domain,
			Sink:     sinks,
			Cron:     cron,
			Tel:      tel,
		})
		if err != nil {
			serviceutil.Fatal("failed to create poller", err)
		}

		if cfg.Http.Port > 0 {
			handler, err := server.NewRouter(server.Options{
				States:   store,
				History:  history,
				Registry: registry,
			})
			if err != nil {
				serviceutil.Fatal("failed to create http router", err)
			}
			go func() {
				err := serviceutil.ServeHttp(ctx, cfg.Http.Port, handler)
				if err != nil {
					serviceutil.Fatal("failed to serve http", err)
				}
			}()
		}

		slog.Info("polling account page", "username", cfg.Username, "interval", cfg.ScanInterval.String())
		err = p.Start(ctx)
		if err != nil {
			serviceutil.Fatal("failed to start poller", err)
		}

		<-ctx.Done()
		slog.Info("shutting down, waiting for the running poll")
		<-p.Stop().Done()
	},
}
