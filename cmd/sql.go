package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the metrics database",
	Long: `Run an arbitrary SQL query against the metrics database and print results as a table.

Schema overview:
  matches(match_id, competition_id, season_id, match_date, home_team, away_team,
    home_score, away_score, variant, issues, loaded_at)
  player_match_values(match_id, player, team, player_ordinal, column_name,
    column_ordinal, value)
  load_runs(id, competition_id, season_id, started_at, finished_at, loaded,
    skipped, cached, issues)

Per-match statistics are stored one value per row. Pivot with, for example:
  SELECT player, SUM(value) FROM player_match_values
  WHERE column_name = 'goals' GROUP BY player ORDER BY 2 DESC LIMIT 10`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	table := newSummaryTable()

	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}

