// Package report renders season tables, similarity rankings, clusters and
// scouting reports for the terminal.
package report

import (
	"cmp"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-scout-metrics/internal/model"
	"github.com/pable/go-scout-metrics/internal/similarity"
	"github.com/pable/go-scout-metrics/internal/statsbomb"
)

// DefaultSeasonColumns is the column set printed when none is requested.
var DefaultSeasonColumns = []string{
	"goals_per_90", "xG_per_90", "assists_per_90", "key_passes_per_90",
	"passes_per_90", "pass_completion_rate", "dribbles_per_90",
	"tackles_per_90", "interceptions_per_90", "efficiency_score",
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

func num(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "—"
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e6 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// SortBy orders rows by column descending, ties by player name. Unknown
// columns leave the table unchanged.
func SortBy(t *model.SeasonTable, column string) {
	if column == "" || !t.HasColumn(column) {
		return
	}
	slices.SortStableFunc(t.Rows, func(a, b model.SeasonRow) int {
		av, _ := a.Value(column)
		bv, _ := b.Value(column)
		if c := cmp.Compare(bv, av); c != 0 {
			return c
		}
		return cmp.Compare(a.Player, b.Player)
	})
}

// PrintSeasonTable prints the first top rows (all when top <= 0) with the
// given columns. Columns the table lacks are skipped.
func PrintSeasonTable(w io.Writer, t *model.SeasonTable, columns []string, top int) {
	var cols []string
	for _, c := range columns {
		if t.HasColumn(c) {
			cols = append(cols, c)
		}
	}
	table := newTable(w)
	header := []any{"#", "PLAYER", "TEAM", "MP"}
	for _, c := range cols {
		header = append(header, c)
	}
	table.Header(header...)

	for i, r := range t.Rows {
		if top > 0 && i >= top {
			break
		}
		row := []any{strconv.Itoa(i + 1), r.Player, r.Team, strconv.Itoa(r.MatchesPlayed)}
		for _, c := range cols {
			v, _ := r.Value(c)
			row = append(row, num(v))
		}
		table.Append(row...)
	}
	table.Render()
	fmt.Fprintf(w, "\n(%d players, %d columns)\n", len(t.Rows), len(t.Columns))
}

// PrintMatches lists stored or fetched matches.
func PrintMatches(w io.Writer, matches []model.MatchInfo) {
	table := newTable(w)
	table.Header("MATCH", "DATE", "HOME", "SCORE", "AWAY", "COMP", "SEASON")
	for _, m := range matches {
		table.Append(
			strconv.Itoa(m.MatchID),
			m.MatchDate,
			m.HomeTeam,
			fmt.Sprintf("%d-%d", m.HomeScore, m.AwayScore),
			m.AwayTeam,
			strconv.Itoa(m.CompetitionID),
			strconv.Itoa(m.SeasonID),
		)
	}
	table.Render()
}

// PrintSimilar prints a ranked candidate list. scoreLabel names the score
// column, e.g. SIMILARITY or MATCH%.
func PrintSimilar(w io.Writer, title, scoreLabel string, matches []similarity.Match) {
	fmt.Fprintf(w, "\n%s\n\n", title)
	if len(matches) == 0 {
		fmt.Fprintln(w, "(no candidates)")
		return
	}
	table := newTable(w)
	table.Header("#", "PLAYER", "TEAM", "MP", scoreLabel)
	for i, m := range matches {
		table.Append(
			strconv.Itoa(i+1),
			m.Player,
			m.Team,
			strconv.Itoa(m.MatchesPlayed),
			fmt.Sprintf("%.1f", m.Score),
		)
	}
	table.Render()
}

// PrintClusters prints per-cluster sizes and feature means, then members.
func PrintClusters(w io.Writer, res similarity.ClusterResult) {
	fmt.Fprintf(w, "\nk=%d  features=%d  dims=%d  inertia=%.2f\n\n",
		len(res.Clusters), len(res.Features), res.Dimensions, res.Inertia)

	summary := newTable(w)
	header := []any{"CLUSTER", "SIZE"}
	for _, f := range res.Features {
		header = append(header, f)
	}
	summary.Header(header...)
	for _, c := range res.Clusters {
		row := []any{strconv.Itoa(c.Label), strconv.Itoa(c.Size)}
		for _, f := range res.Features {
			row = append(row, num(c.Means[f]))
		}
		summary.Append(row...)
	}
	summary.Render()

	members := slices.Clone(res.Assignments)
	slices.SortStableFunc(members, func(a, b similarity.Assignment) int {
		if c := cmp.Compare(a.Label, b.Label); c != 0 {
			return c
		}
		return cmp.Compare(a.Player, b.Player)
	})
	fmt.Fprintln(w)
	mt := newTable(w)
	mt.Header("CLUSTER", "PLAYER", "TEAM")
	for _, a := range members {
		mt.Append(strconv.Itoa(a.Label), a.Player, a.Team)
	}
	mt.Render()
}

// PrintScouting prints a scouting report section by section.
func PrintScouting(w io.Writer, s Scouting) {
	fmt.Fprintf(w, "\n=== %s (%s) ===\n", s.Player, s.Team)
	fmt.Fprintf(w, "  Efficiency score : %.1f / 100\n", s.EfficiencyScore)
	fmt.Fprintf(w, "  Playing style    : %s", s.PrimaryStyle)
	if len(s.Styles) > 1 {
		fmt.Fprintf(w, "  %v", s.Styles)
	}
	fmt.Fprintln(w)

	for _, sec := range s.Sections {
		if sec.Name == "Information" {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n\n", sec.Name)
		table := newTable(w)
		table.Header("METRIC", "VALUE")
		for _, it := range sec.Items {
			table.Append(it.Label, fmt.Sprint(it.Value))
		}
		table.Render()
	}
}

// PrintTrend prints one row per match for a player with the given columns,
// oldest first. infos must be parallel to rows.
func PrintTrend(w io.Writer, rows []model.MatchRow, infos []model.MatchInfo, columns []string) {
	table := newTable(w)
	header := []any{"DATE", "MATCH", "OPPONENT"}
	for _, c := range columns {
		header = append(header, c)
	}
	table.Header(header...)

	for i, r := range rows {
		info := infos[i]
		opp := info.AwayTeam
		if r.Team == info.AwayTeam {
			opp = info.HomeTeam
		}
		values := make(map[string]float64, len(r.Columns))
		for _, c := range r.Columns {
			values[c.Name] = c.Value
		}
		row := []any{info.MatchDate, strconv.Itoa(r.MatchID), opp}
		for _, c := range columns {
			v, ok := values[c]
			if !ok {
				row = append(row, "—")
				continue
			}
			row = append(row, num(v))
		}
		table.Append(row...)
	}
	table.Render()
}

// PrintCatalog prints catalog entries with optional probe results.
func PrintCatalog(w io.Writer, results []statsbomb.ProbeResult, probed bool) {
	table := newTable(w)
	if probed {
		table.Header("COMPETITION", "COMP", "SEASON", "MATCHES", "STATUS")
	} else {
		table.Header("COMPETITION", "COMP", "SEASON")
	}
	for _, r := range results {
		row := []any{r.Entry.Name, strconv.Itoa(r.Entry.CompetitionID), strconv.Itoa(r.Entry.SeasonID)}
		if probed {
			status := "ok"
			if r.Err != nil {
				status = r.Err.Error()
			}
			row = append(row, strconv.Itoa(r.Matches), status)
		}
		table.Append(row...)
	}
	table.Render()
}
