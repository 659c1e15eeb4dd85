package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pable/go-scout-metrics/internal/derived"
	"github.com/pable/go-scout-metrics/internal/model"
	"github.com/pable/go-scout-metrics/internal/report"
	"github.com/pable/go-scout-metrics/internal/season"
	"github.com/pable/go-scout-metrics/internal/similarity"
	"github.com/pable/go-scout-metrics/internal/statsbomb"
	"github.com/pable/go-scout-metrics/internal/storage"
)

// seasonFlags selects a competition season either by ids or by catalog name.
type seasonFlags struct {
	competition int
	season      int
	catalog     string
	minMatches  int
}

func (s *seasonFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&s.competition, "competition", 0, "competition id (e.g. 11 for La Liga)")
	cmd.Flags().IntVar(&s.season, "season", 0, "season id (e.g. 90 for 2020/21)")
	cmd.Flags().StringVar(&s.catalog, "catalog", "", `catalog name instead of ids, e.g. "La Liga 2020/21"`)
	cmd.Flags().IntVar(&s.minMatches, "min-matches", 0, "minimum appearances (default from config)")
}

func (s *seasonFlags) resolve() (int, int, error) {
	if s.catalog != "" {
		e, ok := statsbomb.LookupCatalog(s.catalog)
		if !ok {
			return 0, 0, fmt.Errorf("unknown catalog entry %q (see 'scoutmetrics competitions')", s.catalog)
		}
		return e.CompetitionID, e.SeasonID, nil
	}
	if s.competition == 0 || s.season == 0 {
		return 0, 0, fmt.Errorf("--competition and --season (or --catalog) are required")
	}
	return s.competition, s.season, nil
}

func (s *seasonFlags) min() int {
	if s.minMatches > 0 {
		return s.minMatches
	}
	return cfg.MinMatches
}

// loadTable rebuilds the augmented season table from stored per-match rows.
// An empty table is not an error; callers decide how to report it.
func loadTable(db *storage.DB, s *seasonFlags) (*model.SeasonTable, error) {
	comp, sea, err := s.resolve()
	if err != nil {
		return nil, err
	}
	rows, err := db.SeasonRows(comp, sea)
	if err != nil {
		return nil, fmt.Errorf("load season rows: %w", err)
	}
	t := season.Aggregate(rows, season.Options{MinMatches: s.min()})
	derived.Augment(&t)
	log.WithFields(logrus.Fields{
		"competition_id": comp, "season_id": sea, "rows": len(rows), "players": len(t.Rows),
	}).Debug("season table built")
	return &t, nil
}

func withTable(s *seasonFlags, fn func(t *model.SeasonTable) error) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	t, err := loadTable(db, s)
	if err != nil {
		return err
	}
	if len(t.Rows) == 0 {
		fmt.Fprintln(os.Stdout, "No players meet the criteria. Run 'scoutmetrics load' for this season first.")
		return nil
	}
	return fn(t)
}

var (
	seasonSel     seasonFlags
	seasonSort    string
	seasonTop     int
	seasonColumns string
	seasonPos     string
)

var seasonCmd = &cobra.Command{
	Use:   "season",
	Short: "Aggregated per-player season table with derived indices",
	Args:  cobra.NoArgs,
	RunE:  runSeason,
}

func init() {
	seasonSel.register(seasonCmd)
	seasonCmd.Flags().StringVar(&seasonSort, "sort", "efficiency_score", "column to sort by (descending)")
	seasonCmd.Flags().IntVar(&seasonTop, "top", 20, "rows to print (0 = all)")
	seasonCmd.Flags().StringVar(&seasonColumns, "columns", "", "comma-separated columns to print")
	seasonCmd.Flags().StringVar(&seasonPos, "position", "", "print the feature set of a position: forward, midfielder, defender")
}

func runSeason(cmd *cobra.Command, args []string) error {
	cols := report.DefaultSeasonColumns
	switch {
	case seasonColumns != "":
		cols = strings.Split(seasonColumns, ",")
	case seasonPos != "":
		p, err := similarity.ParsePosition(seasonPos)
		if err != nil {
			return err
		}
		cols = similarity.Features(p)
	}
	return withTable(&seasonSel, func(t *model.SeasonTable) error {
		report.SortBy(t, seasonSort)
		report.PrintSeasonTable(os.Stdout, t, cols, seasonTop)
		return nil
	})
}
