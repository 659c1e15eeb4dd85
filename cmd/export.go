package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-scout-metrics/internal/model"
)

var (
	exportSel     seasonFlags
	exportOut     string
	exportColumns string
)

// seasonExport is the JSON document written by export.
type seasonExport struct {
	GeneratedAt   string         `json:"generated_at"`
	CompetitionID int            `json:"competition_id"`
	SeasonID      int            `json:"season_id"`
	MinMatches    int            `json:"min_matches"`
	Columns       []string       `json:"columns"`
	Players       []playerExport `json:"players"`
}

type playerExport struct {
	Player        string             `json:"player"`
	Team          string             `json:"team"`
	MatchesPlayed int                `json:"matches_played"`
	Values        map[string]float64 `json:"values"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the season table as JSON",
	Long: `Write the aggregated season table, including per-90 columns, ratios and
derived indices, as a JSON document. Non-finite values are written as 0.

Example:
  scoutmetrics export --catalog "La Liga 2020/21" --out laliga.json`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportSel.register(exportCmd)
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default stdout)")
	exportCmd.Flags().StringVar(&exportColumns, "columns", "", "comma-separated subset of columns")
}

func runExport(cmd *cobra.Command, args []string) error {
	comp, sea, err := exportSel.resolve()
	if err != nil {
		return err
	}
	return withTable(&exportSel, func(t *model.SeasonTable) error {
		doc := buildExport(t, comp, sea, exportSel.min(), exportColumns)

		out := os.Stdout
		if exportOut != "" {
			f, err := os.Create(exportOut)
			if err != nil {
				return fmt.Errorf("create %s: %w", exportOut, err)
			}
			defer f.Close()
			out = f
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		if exportOut != "" {
			fmt.Fprintf(os.Stderr, "Wrote %d players to %s\n", len(doc.Players), exportOut)
		}
		return nil
	})
}

func buildExport(t *model.SeasonTable, comp, sea, minMatches int, columns string) seasonExport {
	cols := t.Columns
	if columns != "" {
		cols = nil
		for _, c := range strings.Split(columns, ",") {
			if t.HasColumn(c) {
				cols = append(cols, c)
			}
		}
	}
	doc := seasonExport{
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
		CompetitionID: comp,
		SeasonID:      sea,
		MinMatches:    minMatches,
		Columns:       cols,
		Players:       make([]playerExport, 0, len(t.Rows)),
	}
	for i := range t.Rows {
		r := &t.Rows[i]
		values := make(map[string]float64, len(cols))
		for _, c := range cols {
			values[c] = r.Get(c)
		}
		doc.Players = append(doc.Players, playerExport{
			Player: r.Player, Team: r.Team, MatchesPlayed: r.MatchesPlayed, Values: values,
		})
	}
	return doc
}
