package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-scout-metrics/internal/model"
	"github.com/pable/go-scout-metrics/internal/report"
)

var (
	playerSel  seasonFlags
	playerJSON bool
)

// playerCmd prints the scouting report of one player for a season.
var playerCmd = &cobra.Command{
	Use:   "player <name>",
	Short: "Scouting report and playing style for one player",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlayer,
}

func init() {
	playerSel.register(playerCmd)
	playerCmd.Flags().BoolVar(&playerJSON, "json", false, "print the report as JSON")
}

func runPlayer(cmd *cobra.Command, args []string) error {
	return withTable(&playerSel, func(t *model.SeasonTable) error {
		s, err := report.BuildScouting(t, args[0])
		if errors.Is(err, report.ErrPlayerNotFound) {
			return fmt.Errorf("%w (players below --min-matches are excluded)", err)
		}
		if err != nil {
			return err
		}
		if playerJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(s)
		}
		report.PrintScouting(os.Stdout, s)
		return nil
	})
}
