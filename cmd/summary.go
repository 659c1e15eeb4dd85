package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

// summaryCmd is the cobra command for displaying a high-level database overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the database",
	Long: `Display aggregate statistics about everything stored in the database:
match count, date range, stored seasons, most active players and recent
load runs.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func newSummaryTable() *tablewriter.Table {
	return tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ov, err := db.GetDBOverview()
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if ov.TotalMatches == 0 {
		fmt.Fprintln(os.Stdout, "No matches stored yet. Run 'scoutmetrics load' to add a season.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n=== Database Summary ===\n\n")
	fmt.Fprintf(os.Stdout, "  Matches stored : %d\n", ov.TotalMatches)
	fmt.Fprintf(os.Stdout, "  Date range     : %s → %s\n", ov.EarliestMatch, ov.LatestMatch)
	fmt.Fprintf(os.Stdout, "  Players seen   : %d\n", ov.UniquePlayers)
	fmt.Fprintf(os.Stdout, "  Teams seen     : %d\n", ov.UniqueTeams)
	fmt.Fprintf(os.Stdout, "  Stored values  : %d\n", ov.TotalValues)

	seasons, err := db.GetSeasonCounts()
	if err != nil {
		return fmt.Errorf("get season counts: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\n--- Seasons ---\n\n")
	st := newSummaryTable()
	st.Header("COMPETITION", "SEASON", "MATCHES", "PLAYERS")
	for _, s := range seasons {
		st.Append(
			fmt.Sprintf("%d", s.CompetitionID),
			fmt.Sprintf("%d", s.SeasonID),
			fmt.Sprintf("%d", s.Matches),
			fmt.Sprintf("%d", s.Players),
		)
	}
	st.Render()

	players, err := db.GetTopPlayersByMatches(10)
	if err != nil {
		return fmt.Errorf("get top players: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\n--- Most Active Players ---\n\n")
	pt := newSummaryTable()
	pt.Header("PLAYER", "TEAM", "MATCHES")
	for _, p := range players {
		pt.Append(p.Player, p.Team, fmt.Sprintf("%d", p.Matches))
	}
	pt.Render()

	runs, err := db.ListLoadRuns(5)
	if err != nil {
		return fmt.Errorf("get load runs: %w", err)
	}
	if len(runs) > 0 {
		fmt.Fprintf(os.Stdout, "\n--- Recent Loads ---\n\n")
		rt := newSummaryTable()
		rt.Header("RUN", "STARTED", "COMP", "SEASON", "LOADED", "STORED", "SKIPPED", "ISSUES")
		for _, r := range runs {
			id := r.ID
			if len(id) > 8 {
				id = id[:8]
			}
			rt.Append(
				id,
				r.StartedAt.Local().Format("2006-01-02 15:04"),
				fmt.Sprintf("%d", r.CompetitionID),
				fmt.Sprintf("%d", r.SeasonID),
				fmt.Sprintf("%d", r.Loaded),
				fmt.Sprintf("%d", r.Cached),
				fmt.Sprintf("%d", r.Skipped),
				fmt.Sprintf("%d", r.Issues),
			)
		}
		rt.Render()
	}
	return nil
}
