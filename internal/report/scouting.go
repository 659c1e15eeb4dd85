package report

import (
	"errors"
	"fmt"
	"math"

	"github.com/pable/go-scout-metrics/internal/derived"
	"github.com/pable/go-scout-metrics/internal/model"
)

// ErrPlayerNotFound is returned when a report is requested for a player the
// season table does not hold.
var ErrPlayerNotFound = errors.New("player not found")

// Item is one labelled value of a report section.
type Item struct {
	Label string `json:"label"`
	Value any    `json:"value"`
}

// Section groups related items.
type Section struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// Scouting is the human-readable report for one player.
type Scouting struct {
	Player          string          `json:"player"`
	Team            string          `json:"team"`
	MatchesPlayed   int             `json:"matches_played"`
	Sections        []Section       `json:"sections"`
	EfficiencyScore float64         `json:"efficiency_score"`
	PrimaryStyle    derived.Style   `json:"primary_style"`
	Styles          []derived.Style `json:"styles"`
}

type line struct {
	label  string
	column string
	digits int
}

var sections = []struct {
	name  string
	lines []line
}{
	{"Attacking", []line{
		{"Goals/90", "goals_per_90", 2},
		{"xG/90", "xG_per_90", 2},
		{"Assists/90", "assists_per_90", 2},
		{"Key passes/90", "key_passes_per_90", 2},
		{"Shots/90", "shots_per_90", 2},
		{"Shot accuracy (%)", "shot_accuracy", 1},
	}},
	{"Creation", []line{
		{"Passes/90", "passes_per_90", 1},
		{"Pass completion (%)", "pass_completion_rate", 1},
		{"Dribbles/90", "dribbles_per_90", 2},
		{"Dribble success (%)", "dribble_success_rate", 1},
	}},
	{"Defending", []line{
		{"Tackles/90", "tackles_per_90", 2},
		{"Interceptions/90", "interceptions_per_90", 2},
		{"Clearances/90", "clearances_per_90", 2},
	}},
	{"Indices", []line{
		{"Creativity", "creativity_index", 2},
		{"Defensive", "defensive_index", 2},
		{"Offensive versatility", "offensive_versatility", 2},
		{"Impact", "impact_score", 1},
		{"Attacking third (%)", "attacking_third_pct", 1},
	}},
}

// BuildScouting assembles the report for player. Lines whose column is
// absent from the table are omitted; the Indices section is computed from
// base columns when the table was not augmented.
func BuildScouting(t *model.SeasonTable, player string) (Scouting, error) {
	r, ok := t.Find(player)
	if !ok {
		return Scouting{}, fmt.Errorf("%q: %w", player, ErrPlayerNotFound)
	}
	styles := derived.PlayingStyles(r, derived.NewLeague(t))
	s := Scouting{
		Player:          r.Player,
		Team:            r.Team,
		MatchesPlayed:   r.MatchesPlayed,
		EfficiencyScore: derived.EfficiencyScore(r),
		PrimaryStyle:    styles.Primary,
		Styles:          styles.All,
	}
	s.Sections = append(s.Sections, Section{Name: "Information", Items: []Item{
		{"Player", r.Player},
		{"Team", r.Team},
		{"Matches played", r.MatchesPlayed},
	}})

	computed := make(map[string]func(*model.SeasonRow) float64, len(derived.Indices))
	for _, ix := range derived.Indices {
		computed[ix.Name] = ix.Compute
	}
	for _, sec := range sections {
		out := Section{Name: sec.name}
		for _, l := range sec.lines {
			v, ok := r.Value(l.column)
			if !ok {
				fn, isIndex := computed[l.column]
				if !isIndex {
					continue
				}
				v = fn(r)
			}
			out.Items = append(out.Items, Item{l.label, round(v, l.digits)})
		}
		if len(out.Items) > 0 {
			s.Sections = append(s.Sections, out)
		}
	}
	return s, nil
}

// Map returns the report as nested section -> label -> value mappings.
func (s Scouting) Map() map[string]map[string]any {
	out := make(map[string]map[string]any, len(s.Sections))
	for _, sec := range s.Sections {
		m := make(map[string]any, len(sec.Items))
		for _, it := range sec.Items {
			m[it.Label] = it.Value
		}
		out[sec.Name] = m
	}
	return out
}

func round(v float64, digits int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}
