package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-scout-metrics/internal/report"
	"github.com/pable/go-scout-metrics/internal/statsbomb"
)

var (
	competitionsProbe  bool
	competitionsRemote bool
)

var competitionsCmd = &cobra.Command{
	Use:   "competitions",
	Short: "List known competition seasons",
	Long: `List the built-in catalog of competition seasons. With --probe each entry's
fixture list is fetched to confirm it is available; with --remote the full
competition list published by the provider is printed instead.`,
	Args: cobra.NoArgs,
	RunE: runCompetitions,
}

func init() {
	competitionsCmd.Flags().BoolVar(&competitionsProbe, "probe", false, "check each catalog entry is available")
	competitionsCmd.Flags().BoolVar(&competitionsRemote, "remote", false, "list every competition the provider publishes")
}

func runCompetitions(cmd *cobra.Command, args []string) error {
	client := newClient(false)

	if competitionsRemote {
		comps, err := client.Competitions(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetch competitions: %w", err)
		}
		for _, c := range comps {
			fmt.Fprintf(os.Stdout, "%4d %4d  %-30s %-10s %s (%s)\n",
				c.CompetitionID, c.SeasonID, c.CompetitionName, c.SeasonName, c.CountryName, c.Gender)
		}
		return nil
	}

	var results []statsbomb.ProbeResult
	if competitionsProbe {
		results = statsbomb.ProbeCatalog(cmd.Context(), client, statsbomb.Catalog, cfg.Workers)
	} else {
		for _, e := range statsbomb.Catalog {
			results = append(results, statsbomb.ProbeResult{Entry: e})
		}
	}
	report.PrintCatalog(os.Stdout, results, competitionsProbe)
	return nil
}
