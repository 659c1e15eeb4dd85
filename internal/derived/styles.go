package derived

import (
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/pable/go-scout-metrics/internal/model"
)

// Style is a playing-style label.
type Style string

const (
	Finisher  Style = "Finisher"
	Creator   Style = "Creator"
	Dribbler  Style = "Dribbler"
	Defender  Style = "Defender"
	Versatile Style = "Versatile"
	Workhorse Style = "Workhorse"
	Balanced  Style = "Balanced"
)

// League holds the table-wide reference values the relative style
// thresholds compare against.
type League struct {
	MeanCreativity float64
	MeanDefensive  float64
	Q75Versatility float64
	MeanIntensity  float64
}

// NewLeague computes reference values from every row of t. Index columns
// that were not added by Augment are computed on the fly.
func NewLeague(t *model.SeasonTable) League {
	if len(t.Rows) == 0 {
		return League{}
	}
	creativity := indexColumn(t, "creativity_index")
	versatility := indexColumn(t, "offensive_versatility")
	slices.Sort(versatility)
	return League{
		MeanCreativity: stat.Mean(creativity, nil),
		MeanDefensive:  stat.Mean(indexColumn(t, "defensive_index"), nil),
		Q75Versatility: Quantile(0.75, versatility),
		MeanIntensity:  stat.Mean(indexColumn(t, "game_intensity"), nil),
	}
}

func indexColumn(t *model.SeasonTable, name string) []float64 {
	out := make([]float64, len(t.Rows))
	for i := range t.Rows {
		out[i] = indexValue(&t.Rows[i], name)
	}
	return out
}

func indexValue(r *model.SeasonRow, name string) float64 {
	if v, ok := r.Value(name); ok {
		return finite(v)
	}
	for _, ix := range Indices {
		if ix.Name == name {
			return finite(ix.Compute(r))
		}
	}
	return 0
}

// StyleProfile is the style classification of one player.
type StyleProfile struct {
	Player     string
	Primary    Style
	All        []Style
	Offensive  float64 // offensive versatility
	Defensive  float64 // defensive index
	Creativity float64 // creativity index
}

// PlayingStyles labels a player. Several labels may apply; when none does the
// player is Balanced. Primary is the first label in declaration order.
func PlayingStyles(r *model.SeasonRow, league League) StyleProfile {
	var styles []Style
	if r.Get("goals_per_90") > 0.5 {
		styles = append(styles, Finisher)
	}
	if indexValue(r, "creativity_index") > league.MeanCreativity {
		styles = append(styles, Creator)
	}
	if r.Get("dribbles_per_90") > 3 {
		styles = append(styles, Dribbler)
	}
	if indexValue(r, "defensive_index") > league.MeanDefensive {
		styles = append(styles, Defender)
	}
	if indexValue(r, "offensive_versatility") > league.Q75Versatility {
		styles = append(styles, Versatile)
	}
	if indexValue(r, "game_intensity") > league.MeanIntensity {
		styles = append(styles, Workhorse)
	}
	if len(styles) == 0 {
		styles = []Style{Balanced}
	}
	return StyleProfile{
		Player:     r.Player,
		Primary:    styles[0],
		All:        styles,
		Offensive:  indexValue(r, "offensive_versatility"),
		Defensive:  indexValue(r, "defensive_index"),
		Creativity: indexValue(r, "creativity_index"),
	}
}
