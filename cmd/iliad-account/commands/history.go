package commands

import (
	"fmt"
	"time"

	"iliad-account/cmd/iliad-account/utils"
	"iliad-account/internal/components/state"
	"iliad-account/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var historyKey string
var historyLimit int

func init() {
	historyCmd.Flags().StringVar(&historyKey, "key", "", "The key to list the history of, the latest value of every key is shown when empty.")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "The maximum amount of entries to show.")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history [--config config.json5] [--key <key>] [--limit <n>]",
	Short: "Prints the states stored in the sqlite database.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		if cfg.SQLite.Database == "" {
			serviceutil.Fatal("no history available", fmt.Errorf("sqlite.database is not configured in %s", configPath))
		}
		sink, database := openHistory(cfg)
		defer database.Close()

		var stored []state.StoredState
		var err error
		if historyKey == "" {
			stored, err = sink.Latest(cmd.Context())
		} else {
			stored, err = sink.History(cmd.Context(), historyKey, historyLimit)
		}
		if err != nil {
			serviceutil.Fatal("failed to read history", err)
		}

		t := utils.NewTable()
		t.AppendHeader(table.Row{"Key", "Value", "Time"})
		for _, s := range stored {
			t.AppendRow(table.Row{s.Key, utils.FormatValue(s.Value), s.Time.Format(time.DateTime)})
		}
		t.Render()
	},
}
