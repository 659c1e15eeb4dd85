// Package season aggregates per-match player rows into a season table.
package season

import (
	"cmp"
	"slices"

	"github.com/pable/go-scout-metrics/internal/model"
)

// Per90Suffix names the companion column of every summed counter.
const Per90Suffix = "_per_90"

// Options controls aggregation.
type Options struct {
	MinMatches int // groups with fewer contributing rows are dropped
}

// DefaultOptions keeps players with at least five appearances.
func DefaultOptions() Options {
	return Options{MinMatches: 5}
}

// Ratio is a percentage column derived from two summed counters.
type Ratio struct {
	Name        string
	Numerator   string
	Denominator string
}

// Ratios are computed as 100 * num / max(den, 1). A zero denominator
// therefore yields 0 rather than an undefined value; "never attempted" and
// "always failed" are indistinguishable in the output.
var Ratios = []Ratio{
	{"pass_completion_rate", "passes_completed", "passes"},
	{"shot_accuracy", "shots_on_target", "shots"},
	{"dribble_success_rate", "dribbles_completed", "dribbles"},
	{"goal_conversion", "goals", "shots"},
	{"duel_success_rate", "duels_won", "duels_total"},
	{"aerial_success_rate", "aerial_duels_won", "aerial_duels"},
}

type groupKey struct{ player, team string }

type group struct {
	key     groupKey
	matches int
	sums    map[string]float64
}

// Aggregate groups rows by (player, team), sums every counter column it
// discovers, and adds per-90 and ratio columns. The column set is the union
// of the input columns in first-appearance order, so any extractor variant
// is accepted. Output rows are sorted by (player, team); identical input
// produces an identical table.
func Aggregate(rows []model.MatchRow, opts Options) model.SeasonTable {
	var columns []string
	known := make(map[string]bool)
	groups := make(map[groupKey]*group)
	var order []*group

	for _, r := range rows {
		k := groupKey{r.Player, r.Team}
		g, ok := groups[k]
		if !ok {
			g = &group{key: k, sums: make(map[string]float64)}
			groups[k] = g
			order = append(order, g)
		}
		g.matches++
		for _, c := range r.Columns {
			if !known[c.Name] {
				known[c.Name] = true
				columns = append(columns, c.Name)
			}
			g.sums[c.Name] += c.Value
		}
	}

	table := model.SeasonTable{Columns: slices.Clone(columns)}
	for _, c := range columns {
		table.Columns = append(table.Columns, c+Per90Suffix)
	}
	var ratios []Ratio
	for _, rt := range Ratios {
		if known[rt.Numerator] && known[rt.Denominator] {
			ratios = append(ratios, rt)
			table.Columns = append(table.Columns, rt.Name)
		}
	}

	for _, g := range order {
		if g.matches < opts.MinMatches {
			continue
		}
		row := model.SeasonRow{
			Player:        g.key.player,
			Team:          g.key.team,
			MatchesPlayed: g.matches,
			Values:        make(map[string]float64, len(table.Columns)),
		}
		mp := float64(g.matches)
		for _, c := range columns {
			sum := g.sums[c]
			row.Values[c] = sum
			row.Values[c+Per90Suffix] = sum / mp * 90
		}
		for _, rt := range ratios {
			row.Values[rt.Name] = Percent(g.sums[rt.Numerator], g.sums[rt.Denominator])
		}
		table.Rows = append(table.Rows, row)
	}

	slices.SortFunc(table.Rows, func(a, b model.SeasonRow) int {
		if c := cmp.Compare(a.Player, b.Player); c != 0 {
			return c
		}
		return cmp.Compare(a.Team, b.Team)
	})
	return table
}

// Percent returns 100 * num / max(den, 1).
func Percent(num, den float64) float64 {
	return 100 * num / max(den, 1)
}
