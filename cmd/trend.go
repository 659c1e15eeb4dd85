package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-scout-metrics/internal/report"
)

var trendColumns string

var trendCmd = &cobra.Command{
	Use:   "trend <name>",
	Short: "Chronological per-match rows for a player",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrend,
}

func init() {
	trendCmd.Flags().StringVar(&trendColumns, "columns", "passes,key_passes,shots,goals,xG,xA_total,tackles,interceptions",
		"comma-separated per-match columns")
}

func runTrend(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	rows, infos, err := db.PlayerRows(args[0])
	if err != nil {
		return fmt.Errorf("query rows: %w", err)
	}
	if len(rows) == 0 {
		fmt.Println("no matches found")
		return nil
	}
	report.PrintTrend(os.Stdout, rows, infos, strings.Split(trendColumns, ","))
	return nil
}
