package similarity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/pable/go-scout-metrics/internal/model"
)

var testFeatures = []string{"goals_per_90", "passes_per_90", "tackles_per_90"}

func tableOf(rows ...model.SeasonRow) *model.SeasonTable {
	return &model.SeasonTable{Columns: append([]string(nil), testFeatures...), Rows: rows}
}

func player(name string, goals, passes, tackles float64) model.SeasonRow {
	return model.SeasonRow{
		Player: name, Team: "T", MatchesPlayed: 10,
		Values: map[string]float64{"goals_per_90": goals, "passes_per_90": passes, "tackles_per_90": tackles},
	}
}

func testOptions() Options {
	o := DefaultOptions()
	o.Features = testFeatures
	o.TopN = 0
	return o
}

func TestSimilarToOnlySelfIsEmpty(t *testing.T) {
	got, err := SimilarTo(tableOf(player("A", 1, 2, 3)), "A", testOptions())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSimilarToNotFound(t *testing.T) {
	_, err := SimilarTo(tableOf(player("A", 1, 2, 3)), "Ghost", testOptions())
	assert.True(t, errors.Is(err, ErrPlayerNotFound))
}

func TestSimilarToRanking(t *testing.T) {
	table := tableOf(
		player("Striker", 0.8, 20, 0.5),
		player("Poacher", 0.9, 18, 0.3),
		player("Anchor", 0.05, 60, 4),
		player("Regista", 0.1, 75, 2.5),
	)
	for _, m := range []Method{Cosine, Euclidean, Combined} {
		opts := testOptions()
		opts.Method = m
		got, err := SimilarTo(table, "Striker", opts)
		require.NoError(t, err, m)
		require.Len(t, got, 3, m)
		assert.Equal(t, "Poacher", got[0].Player, m)
		for i := 1; i < len(got); i++ {
			assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score, m)
		}
		for _, g := range got {
			assert.NotEqual(t, "Striker", g.Player)
		}
	}
}

func TestSimilarToTopNAndTies(t *testing.T) {
	table := tableOf(
		player("Target", 1, 1, 1),
		player("Zed", 2, 2, 2),
		player("Abe", 2, 2, 2),
		player("Far", -5, 9, 0),
	)
	opts := testOptions()
	opts.TopN = 2
	got, err := SimilarTo(table, "Target", opts)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Abe", got[0].Player, "equal scores are ordered by name")
	assert.Equal(t, "Zed", got[1].Player)
}

func TestCombinedScoreWeights(t *testing.T) {
	var rows []model.SeasonRow
	for i := 0; i < 20; i++ {
		v := float64(i)
		rows = append(rows, player(fmt.Sprintf("p%02d", i), v*0.05, 20+3*v, float64(i%4)))
	}
	table := tableOf(rows...)
	opts := testOptions()
	opts.Method = Combined

	s, err := newSpace(table, testFeatures, opts)
	require.NoError(t, err)
	target := s.points.RawRowView(7)
	terms := s.neighbourTerms(target)

	assert.InDelta(t, 1.0, terms[7], 1e-9, "the target is its own nearest neighbour")
	var neighbours, zeros int
	for _, v := range terms {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
		if v > 0 {
			neighbours++
		} else {
			zeros++
		}
	}
	assert.LessOrEqual(t, neighbours, maxNeighbours)
	assert.GreaterOrEqual(t, zeros, 20-maxNeighbours)

	got, err := SimilarTo(table, "p07", opts)
	require.NoError(t, err)
	require.Len(t, got, 19)
	for _, m := range got {
		var i int
		fmt.Sscanf(m.Player, "p%02d", &i)
		v := s.points.RawRowView(i)
		want := 100 * (0.5*cosine(target, v) + 0.3/(1+floats.Distance(target, v, 2)) + 0.2*terms[i])
		assert.InDelta(t, want, m.Score, 1e-9, m.Player)
	}
}

func TestSimilarToNoFeatures(t *testing.T) {
	opts := testOptions()
	opts.Features = []string{"not_a_column"}
	_, err := SimilarTo(tableOf(player("A", 1, 2, 3), player("B", 1, 2, 3)), "A", opts)
	assert.ErrorIs(t, err, ErrNoFeatures)
}

func TestRobustScalerHandlesZeroSpread(t *testing.T) {
	x := mat.NewDense(3, 2, []float64{1, 5, 1, 6, 1, 7})
	s := fitScaler(RobustScaler, x)
	assert.Equal(t, 1.0, s.spread[0])
	assert.Equal(t, 1.0, s.center[0])
	assert.InDelta(t, 6.0, s.center[1], 1e-12)
	assert.InDelta(t, 1.0, s.spread[1], 1e-12) // 6.5 - 5.5

	std := fitScaler(StandardScaler, x)
	assert.Equal(t, 1.0, std.spread[0])
	assert.InDelta(t, 6.0, std.center[1], 1e-12)
}

func TestMatchProfileAndRoles(t *testing.T) {
	table := tableOf(
		player("Scorer", 0.9, 20, 0.2),
		player("Destroyer", 0.0, 40, 4.5),
		player("Passer", 0.1, 80, 1.0),
	)
	got, err := MatchProfile(table, map[string]float64{"tackles_per_90": 4, "goals_per_90": 0}, testOptions())
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "Destroyer", got[0].Player)
	for _, m := range got {
		assert.GreaterOrEqual(t, m.Score, 0.0)
		assert.LessOrEqual(t, m.Score, 100.0)
	}

	opts := testOptions()
	opts.Features = nil
	_, err = MatchRole(table, "ball_winner", opts)
	require.NoError(t, err)

	_, err = MatchRole(table, "libero", opts)
	assert.ErrorIs(t, err, ErrUnknownRole)

	_, err = MatchProfile(table, nil, opts)
	assert.ErrorIs(t, err, ErrEmptyProfile)
}

func TestMatchProfileMinMatches(t *testing.T) {
	young := player("Young", 0.9, 20, 0.2)
	young.MatchesPlayed = 3
	table := tableOf(young, player("Vet", 0.8, 22, 0.3))
	opts := testOptions()
	opts.MinMatches = 5
	got, err := MatchProfile(table, map[string]float64{"goals_per_90": 1}, opts)
	require.NoError(t, err)
	for _, m := range got {
		assert.NotEqual(t, "Young", m.Player)
	}
}

func TestReplacement(t *testing.T) {
	table := tableOf(
		player("Leaving", 0.5, 40, 1),
		player("Clone", 0.55, 44, 1.1),
		player("Other", 0.0, 90, 5),
	)
	got, err := Replacement(table, "Leaving", 1.1, testOptions())
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "Clone", got[0].Player)
	for _, m := range got {
		assert.NotEqual(t, "Leaving", m.Player)
	}

	_, err = Replacement(table, "Ghost", 1, testOptions())
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestRoleProfileIsCopy(t *testing.T) {
	p, err := RoleProfile("playmaker")
	require.NoError(t, err)
	p["passes_per_90"] = 0
	assert.Equal(t, 70.0, Roles["playmaker"]["passes_per_90"])
	assert.Len(t, RoleNames(), 6)
}

// ---- Clustering ----

func blobs() *model.SeasonTable {
	var rows []model.SeasonRow
	for i := 0; i < 6; i++ {
		d := float64(i) * 0.05
		rows = append(rows, player(fmt.Sprintf("low%d", i), 0.1+d, 10+d, 0.2+d))
		rows = append(rows, player(fmt.Sprintf("high%d", i), 5+d, 90+d, 6+d))
	}
	return tableOf(rows...)
}

func TestClusterSeparatesBlobs(t *testing.T) {
	table := blobs()
	res, err := Cluster(table, 2, testOptions(), DefaultKMeansOptions())
	require.NoError(t, err)
	require.Len(t, res.Assignments, 12)
	require.Len(t, res.Clusters, 2)

	labels := make(map[string]int)
	for _, a := range res.Assignments {
		labels[a.Player] = a.Label
	}
	for i := 1; i < 6; i++ {
		assert.Equal(t, labels["low0"], labels[fmt.Sprintf("low%d", i)])
		assert.Equal(t, labels["high0"], labels[fmt.Sprintf("high%d", i)])
	}
	assert.NotEqual(t, labels["low0"], labels["high0"])
	assert.Equal(t, 6, res.Clusters[0].Size)
	assert.InDelta(t, 10.125, res.Clusters[labels["low0"]].Means["passes_per_90"], 1e-9)
}

func TestClusterDeterministic(t *testing.T) {
	a, err := Cluster(blobs(), 3, testOptions(), DefaultKMeansOptions())
	require.NoError(t, err)
	b, err := Cluster(blobs(), 3, testOptions(), DefaultKMeansOptions())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestProfileQueriesOnTableWithoutPlayers(t *testing.T) {
	// A season whose players all fall below the appearance threshold keeps
	// its schema but has no rows.
	empty := &model.SeasonTable{Columns: []string{"passes_per_90", "pass_completion_rate", "key_passes_per_90", "assists_per_90"}}

	got, err := MatchRole(empty, "playmaker", DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = MatchProfile(empty, map[string]float64{"passes_per_90": 60}, DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = SimilarTo(empty, "Anyone", DefaultOptions())
	assert.ErrorIs(t, err, ErrPlayerNotFound)
	_, err = Replacement(empty, "Anyone", 1.1, DefaultOptions())
	assert.ErrorIs(t, err, ErrPlayerNotFound)
	_, err = newSpace(empty, empty.Columns, DefaultOptions())
	assert.ErrorIs(t, err, ErrNoPlayers)

	res, err := Cluster(empty, 3, DefaultOptions(), DefaultKMeansOptions())
	require.NoError(t, err)
	assert.Empty(t, res.Assignments)
}

func TestClusterRejectsNonPositiveK(t *testing.T) {
	for _, k := range []int{0, -2} {
		_, err := Cluster(blobs(), k, testOptions(), DefaultKMeansOptions())
		assert.ErrorIs(t, err, ErrInvalidK, "k=%d", k)
		_, err = Cluster(&model.SeasonTable{}, k, testOptions(), DefaultKMeansOptions())
		assert.ErrorIs(t, err, ErrInvalidK, "k=%d on empty table", k)
	}
}

func TestClusterEdgeCases(t *testing.T) {
	res, err := Cluster(&model.SeasonTable{}, 3, testOptions(), DefaultKMeansOptions())
	require.NoError(t, err)
	assert.Empty(t, res.Assignments)

	small := tableOf(player("A", 1, 1, 1), player("B", 2, 2, 2))
	res, err = Cluster(small, 5, testOptions(), DefaultKMeansOptions())
	require.NoError(t, err)
	assert.Len(t, res.Clusters, 2, "k is clamped to the number of players")
}

// ---- PCA ----

func TestPCAKeepsAtMostFeatureCount(t *testing.T) {
	features := []string{"f1", "f2", "f3", "f4", "f5", "f6", "f7"}
	var rows []model.SeasonRow
	for i := 0; i < 20; i++ {
		v := float64(i)
		rows = append(rows, model.SeasonRow{Player: fmt.Sprintf("p%02d", i), MatchesPlayed: 5, Values: map[string]float64{
			"f1": v, "f2": 2 * v, "f3": -v, "f4": v + 1, "f5": float64(i % 3), "f6": 3 * v, "f7": float64(i % 2),
		}})
	}
	table := &model.SeasonTable{Columns: features, Rows: rows}
	opts := DefaultOptions()
	opts.Features = features
	opts.PCA = true

	s, err := newSpace(table, features, opts)
	require.NoError(t, err)
	assert.True(t, s.usePCA)
	assert.LessOrEqual(t, s.dims(), len(features))
	assert.Less(t, s.dims(), len(features), "collinear features collapse")

	got, err := SimilarTo(table, "p10", opts)
	require.NoError(t, err)
	assert.Len(t, got, 10)
}

func TestPCASkippedForFewFeatures(t *testing.T) {
	opts := testOptions()
	opts.PCA = true
	s, err := newSpace(blobs(), testFeatures, opts)
	require.NoError(t, err)
	assert.False(t, s.usePCA)
	assert.Equal(t, 3, s.dims())
}
