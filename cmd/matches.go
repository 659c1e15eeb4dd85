package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-scout-metrics/internal/model"
	"github.com/pable/go-scout-metrics/internal/report"
)

var (
	matchesSel    seasonFlags
	matchesRemote bool
)

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List stored matches, optionally for one competition season",
	Args:  cobra.NoArgs,
	RunE:  runMatches,
}

func init() {
	matchesSel.register(matchesCmd)
	matchesCmd.Flags().BoolVar(&matchesRemote, "remote", false, "list the provider's fixture list instead of stored matches")
}

func runMatches(cmd *cobra.Command, args []string) error {
	var comp, sea int
	if matchesSel.catalog != "" || matchesSel.competition != 0 || matchesSel.season != 0 {
		var err error
		if comp, sea, err = matchesSel.resolve(); err != nil {
			return err
		}
	}

	var matches []model.MatchInfo
	if matchesRemote {
		if comp == 0 {
			return fmt.Errorf("--remote needs a competition season")
		}
		var err error
		matches, err = newClient(false).Matches(cmd.Context(), comp, sea)
		if err != nil {
			return fmt.Errorf("fetch matches: %w", err)
		}
	} else {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		if matches, err = db.ListMatches(comp, sea); err != nil {
			return fmt.Errorf("list matches: %w", err)
		}
	}

	if len(matches) == 0 {
		fmt.Fprintln(os.Stdout, "No matches stored yet. Run 'scoutmetrics load --catalog \"La Liga 2020/21\"' to add some.")
		return nil
	}
	report.PrintMatches(os.Stdout, matches)
	fmt.Fprintf(os.Stdout, "\n(%d matches)\n", len(matches))
	return nil
}
