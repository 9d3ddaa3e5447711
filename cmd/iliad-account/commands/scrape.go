package commands

import (
	"fmt"
	"net/http"
	"os"

	"iliad-account/cmd/iliad-account/utils"
	"iliad-account/internal/components/state"
	"iliad-account/internal/components/telemetry"
	"iliad-account/internal/config"
	"iliad-account/internal/scrapers/iliad"
	"iliad-account/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var scrapeHtml string

func init() {
	scrapeCmd.Flags().StringVar(&scrapeHtml, "html", "", "Extracts a saved account page instead of logging in.")
	rootCmd.AddCommand(scrapeCmd)
}

func loadPage(cmd *cobra.Command) []byte {
	if scrapeHtml != "" {
		body, err := os.ReadFile(scrapeHtml)
		if err != nil {
			serviceutil.Fatal("failed to read html file", err)
		}
		return body
	}

	cfg := readConfig()
	client := createClient(cfg, telemetry.SlogAPI{})
	status, body, err := client.Authenticate(cmd.Context(), cfg.Username, cfg.Password)
	if err != nil {
		serviceutil.Fatal("failed to log in", err)
	}
	if status != http.StatusOK {
		serviceutil.Fatal("failed to log in", fmt.Errorf("unexpected status %d", status))
	}
	return body
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--config config.json5] [--html <path/to/page.html>]",
	Short: "Runs a single scrape and prints the credit it found.",
	Run: func(cmd *cobra.Command, args []string) {
		body := loadPage(cmd)

		var record iliad.CreditRecord
		err := iliad.Extract(body, &record)
		if err != nil {
			serviceutil.Fatal("failed to extract credit", err)
		}

		t := utils.NewTable()
		t.AppendHeader(table.Row{"Key", "Value"})
		for _, v := range record.Values() {
			t.AppendRow(table.Row{
				state.Key(config.Domain, string(v.Field)),
				utils.FormatValue(v.Value),
			})
		}
		t.Render()
	},
}
