package derived

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-scout-metrics/internal/model"
)

func seasonRow(player string, matches int, kv map[string]float64) model.SeasonRow {
	return model.SeasonRow{Player: player, Team: "T", MatchesPlayed: matches, Values: kv}
}

func TestEfficiencyScoreAllMissing(t *testing.T) {
	assert.Equal(t, 0.0, EfficiencyScore(&model.SeasonRow{}))
	assert.Equal(t, 0.0, EfficiencyScore(nil))

	nan := seasonRow("A", 0, map[string]float64{"goals_per_90": math.NaN(), "shot_accuracy": math.NaN()})
	assert.Equal(t, 0.0, EfficiencyScore(&nan))
}

func TestEfficiencyScoreWeightsSumToOne(t *testing.T) {
	var sum float64
	for _, term := range efficiencyTerms {
		sum += term.weight
	}
	assert.InDelta(t, 1.0, sum, 1e-12)

	maxed := seasonRow("A", 40, map[string]float64{
		"goals_per_90": 20, "xG_per_90": 20, "assists_per_90": 20, "key_passes_per_90": 20,
		"pass_completion_rate": 100, "dribble_success_rate": 100, "shot_accuracy": 150,
		"tackles_per_90": 10, "interceptions_per_90": 11,
	})
	assert.Equal(t, 100.0, EfficiencyScore(&maxed), "every metric at or over its cap scores 100")
}

func TestEfficiencyScoreNormalisation(t *testing.T) {
	r := seasonRow("A", 15, map[string]float64{
		"goals_per_90":         5,  // 0.5 * .20 = .100
		"pass_completion_rate": 80, // 0.8 * .10 = .080
		"tackles_per_90":       -3, // clamped to 0
	})
	// matches_played 15/30 * .05 = .025
	assert.Equal(t, 20.5, EfficiencyScore(&r))
}

func TestIndices(t *testing.T) {
	r := seasonRow("A", 10, map[string]float64{
		"goals_per_90": 0.6, "xG_per_90": 0.4, "assists_per_90": 0.2,
		"key_passes_per_90": 2, "passes_per_90": 40, "tackles_per_90": 1,
		"interceptions_per_90": 2, "dribbles_per_90": 3, "shots_per_90": 0,
		"pass_completion_rate": 80, "shot_accuracy": 50, "dribble_success_rate": 60,
		"actions_defensive_third": 10, "actions_middle_third": 20, "actions_attacking_third": 10,
	})
	table := model.SeasonTable{Columns: []string{"goals_per_90"}, Rows: []model.SeasonRow{r}}
	Augment(&table)
	got := table.Rows[0]

	assert.InDelta(t, 1.5, got.Get("goal_efficiency"), 1e-9)
	assert.InDelta(t, 0.2, got.Get("overperformance"), 1e-9)
	assert.InDelta(t, 0.5*2+0.3*0.2+0.2*40, got.Get("creativity_index"), 1e-9)
	assert.InDelta(t, 0.6*1+0.4*2, got.Get("defensive_index"), 1e-9)
	assert.InDelta(t, 0.4*0.6+0.4*0.2+0.2*3, got.Get("offensive_versatility"), 1e-9)
	assert.InDelta(t, 0.4*80+0.3*50+0.3*60, got.Get("overall_efficiency"), 1e-9)
	assert.InDelta(t, (0.6*1.5+0.2*1.2)*100, got.Get("impact_score"), 1e-9)
	assert.InDelta(t, 0.3*40+0.4*1+0.3*3, got.Get("game_intensity"), 1e-9)
	assert.InDelta(t, 0.6, got.Get("contribution_ratio"), 1e-9, "zero shots divides by one")
	assert.InDelta(t, 25.0, got.Get("attacking_third_pct"), 1e-9)
	assert.Equal(t, EfficiencyScore(&r), got.Get("efficiency_score"))

	for _, ix := range Indices {
		assert.True(t, table.HasColumn(ix.Name), ix.Name)
	}
}

func TestAugmentIsTotalOnEmptyRows(t *testing.T) {
	table := model.SeasonTable{Rows: []model.SeasonRow{{Player: "Nobody"}}}
	require.NotPanics(t, func() { Augment(&table) })
	for _, ix := range Indices {
		v, ok := table.Rows[0].Value(ix.Name)
		assert.True(t, ok)
		assert.Equal(t, 0.0, v, ix.Name)
	}
}

func TestPlayingStyles(t *testing.T) {
	table := model.SeasonTable{Rows: []model.SeasonRow{
		seasonRow("Striker", 10, map[string]float64{"goals_per_90": 0.9, "assists_per_90": 0.3, "dribbles_per_90": 4, "passes_per_90": 20}),
		seasonRow("Anchor", 10, map[string]float64{"tackles_per_90": 5, "interceptions_per_90": 3, "passes_per_90": 60}),
		seasonRow("Quiet", 10, map[string]float64{"passes_per_90": 10}),
		seasonRow("Bench", 10, nil),
	}}
	Augment(&table)
	league := NewLeague(&table)

	striker := PlayingStyles(&table.Rows[0], league)
	assert.Equal(t, Finisher, striker.Primary)
	assert.Contains(t, striker.All, Dribbler)
	assert.Contains(t, striker.All, Versatile)
	assert.NotContains(t, striker.All, Defender)

	anchor := PlayingStyles(&table.Rows[1], league)
	assert.Contains(t, anchor.All, Defender)
	assert.Contains(t, anchor.All, Workhorse)
	assert.NotContains(t, anchor.All, Finisher)

	bench := PlayingStyles(&table.Rows[3], league)
	assert.Equal(t, Balanced, bench.Primary)
	assert.Equal(t, []Style{Balanced}, bench.All)
}

func TestNewLeagueWithoutAugment(t *testing.T) {
	table := model.SeasonTable{Rows: []model.SeasonRow{
		seasonRow("A", 5, map[string]float64{"tackles_per_90": 1}),
		seasonRow("B", 5, map[string]float64{"tackles_per_90": 3}),
	}}
	league := NewLeague(&table)
	assert.InDelta(t, 0.6*2, league.MeanDefensive, 1e-9)
	assert.Equal(t, League{}, NewLeague(&model.SeasonTable{}))
}

func TestQuantile(t *testing.T) {
	cases := []struct {
		p    float64
		in   []float64
		want float64
	}{
		{0.75, []float64{0, 1, 2, 3}, 2.25},
		{0.5, []float64{5, 6, 7}, 6},
		{0.5, []float64{1, 2, 3, 4}, 2.5},
		{0.25, []float64{5, 6, 7}, 5.5},
		{0, []float64{1, 9}, 1},
		{1, []float64{1, 9}, 9},
		{0.75, []float64{4}, 4},
		{0.75, nil, 0},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, Quantile(c.p, c.in), 1e-12, "p=%v %v", c.p, c.in)
	}
}

func TestVersatileThresholdUsesInterpolatedQuartile(t *testing.T) {
	// offensive_versatility = 0.4 * goals_per_90 when only goals are set.
	var rows []model.SeasonRow
	for i, v := range []float64{0, 1, 2, 3} {
		rows = append(rows, seasonRow(string(rune('A'+i)), 10, map[string]float64{"goals_per_90": v / 0.4}))
	}
	table := model.SeasonTable{Rows: rows}
	league := NewLeague(&table)
	assert.InDelta(t, 2.25, league.Q75Versatility, 1e-9)

	below := seasonRow("Below", 10, map[string]float64{"goals_per_90": 2.1 / 0.4})
	assert.NotContains(t, PlayingStyles(&below, league).All, Versatile)
	above := seasonRow("Above", 10, map[string]float64{"goals_per_90": 2.3 / 0.4})
	assert.Contains(t, PlayingStyles(&above, league).All, Versatile)
}
