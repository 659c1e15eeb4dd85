// Package derived computes secondary scouting indices from a season table.
// Every function here is total: missing or non-finite inputs count as zero.
package derived

import (
	"math"

	"github.com/pable/go-scout-metrics/internal/model"
)

// Index is a named linear combination of season columns.
type Index struct {
	Name    string
	Compute func(r *model.SeasonRow) float64
}

func weighted(terms ...any) func(r *model.SeasonRow) float64 {
	return func(r *model.SeasonRow) float64 {
		var sum float64
		for i := 0; i < len(terms); i += 2 {
			sum += r.Get(terms[i].(string)) * terms[i+1].(float64)
		}
		return sum
	}
}

// orOne returns v, or 1 when v is zero, so it can stand in as a divisor.
func orOne(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

// Indices lists the derived columns appended by Augment, in output order.
var Indices = []Index{
	{"goal_efficiency", func(r *model.SeasonRow) float64 {
		return r.Get("goals_per_90") / orOne(r.Get("xG_per_90"))
	}},
	{"overperformance", func(r *model.SeasonRow) float64 {
		return r.Get("goals_per_90") - r.Get("xG_per_90")
	}},
	{"creativity_index", weighted("key_passes_per_90", 0.5, "assists_per_90", 0.3, "passes_per_90", 0.2)},
	{"defensive_index", weighted("tackles_per_90", 0.6, "interceptions_per_90", 0.4)},
	{"offensive_versatility", weighted("goals_per_90", 0.4, "assists_per_90", 0.4, "dribbles_per_90", 0.2)},
	{"overall_efficiency", weighted("pass_completion_rate", 0.4, "shot_accuracy", 0.3, "dribble_success_rate", 0.3)},
	{"impact_score", func(r *model.SeasonRow) float64 {
		return (r.Get("goals_per_90")*1.5 + r.Get("assists_per_90")*1.2) * 100
	}},
	{"game_intensity", weighted("passes_per_90", 0.3, "tackles_per_90", 0.4, "dribbles_per_90", 0.3)},
	{"contribution_ratio", func(r *model.SeasonRow) float64 {
		return r.Get("goals_per_90") / orOne(r.Get("shots_per_90"))
	}},
	{"attacking_third_pct", func(r *model.SeasonRow) float64 {
		total := r.Get("actions_defensive_third") + r.Get("actions_middle_third") + r.Get("actions_attacking_third")
		if total == 0 {
			return 0
		}
		return 100 * r.Get("actions_attacking_third") / total
	}},
	{"efficiency_score", EfficiencyScore},
}

// Augment appends every derived index to the table as a column. It is safe
// to call more than once; values are recomputed from the base columns.
func Augment(t *model.SeasonTable) {
	for _, ix := range Indices {
		t.AddColumn(ix.Name)
	}
	for i := range t.Rows {
		r := &t.Rows[i]
		for _, ix := range Indices {
			r.Set(ix.Name, finite(ix.Compute(r)))
		}
	}
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ---- Efficiency score ----

type efficiencyTerm struct {
	metric string
	weight float64
	cap    float64
}

// efficiencyTerms weights sum to 1.0. Rates and accuracies are capped at 100,
// appearances at 30, everything else at 10.
var efficiencyTerms = []efficiencyTerm{
	{"goals_per_90", 0.20, 10},
	{"xG_per_90", 0.15, 10},
	{"assists_per_90", 0.10, 10},
	{"key_passes_per_90", 0.08, 10},
	{"pass_completion_rate", 0.10, 100},
	{"dribble_success_rate", 0.08, 100},
	{"tackles_per_90", 0.08, 10},
	{"interceptions_per_90", 0.08, 10},
	{"shot_accuracy", 0.08, 100},
	{"matches_played", 0.05, 30},
}

// EfficiencyScore is a 0-100 summary score rounded to one decimal. Each metric
// is divided by its cap and clamped to [0, 1] before weighting; a missing or
// NaN metric contributes 0 and weights are not renormalised, so a row with no
// usable metrics scores 0.0.
func EfficiencyScore(r *model.SeasonRow) float64 {
	if r == nil {
		return 0
	}
	var score float64
	for _, t := range efficiencyTerms {
		v, ok := r.Value(t.metric)
		if !ok || math.IsNaN(v) {
			continue
		}
		n := math.Min(math.Max(v/t.cap, 0), 1)
		score += n * t.weight
	}
	return math.Round(score*100*10) / 10
}
