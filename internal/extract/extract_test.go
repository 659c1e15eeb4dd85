package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-scout-metrics/internal/model"
)

func pt(x, y float64) *model.Point { return &model.Point{X: x, Y: y} }
func f(v float64) *float64         { return &v }

// seq numbers events 1..n in the order given and stamps the match ID.
func seq(events ...model.Event) []model.Event {
	for i := range events {
		events[i].MatchID = 1
		events[i].Index = i + 1
		if events[i].Team == "" && events[i].Player != "" {
			events[i].Team = "Home"
		}
	}
	return events
}

func pass(player string, from, to *model.Point, d model.PassDetail) model.Event {
	d.EndLocation = to
	return model.Event{Type: model.TypePass, Player: player, Location: from, Payload: &d}
}

func shot(player string, at *model.Point, d model.ShotDetail) model.Event {
	return model.Event{Type: model.TypeShot, Player: player, Location: at, Payload: &d}
}

func statsFor(t *testing.T, res Result, player string) model.PlayerMatchStats {
	t.Helper()
	for _, s := range res.Stats {
		if s.Player == player {
			return s
		}
	}
	t.Fatalf("no stats for player %q", player)
	return model.PlayerMatchStats{}
}

func column(cols []model.Column, name string) (float64, bool) {
	for _, c := range cols {
		if c.Name == name {
			return c.Value, true
		}
	}
	return 0, false
}

// ---- End-to-end scenario ----

func TestProgressiveKeyPassWithLookaheadXA(t *testing.T) {
	events := seq(
		pass("A", pt(10, 40), pt(25, 40), model.PassDetail{ShotAssist: true}),
		pass("A", nil, nil, model.PassDetail{}),
		shot("A", pt(105, 40), model.ShotDetail{XG: f(0.3), Outcome: "Saved", Type: "Open Play"}),
	)

	res := Match(events, DefaultOptions())
	require.Len(t, res.Stats, 1)
	assert.Empty(t, res.Issues)

	cols := res.Stats[0].Columns(model.VariantFull)
	want := map[string]float64{
		"passes":             2,
		"progressive_passes": 1,
		"key_passes":         1,
		"shots":              1,
		"shots_on_target":    1,
	}
	for name, v := range want {
		got, ok := column(cols, name)
		require.True(t, ok, name)
		assert.Equal(t, v, got, name)
	}
	xa, ok := column(cols, "xA_total")
	require.True(t, ok)
	assert.InDelta(t, 0.3, xa, 1e-9)
}

// xaSequence builds a shot-assist pass by "P", gap filler events by "F",
// then the given shots by "S".
func xaSequence(cross bool, gap int, shots ...model.ShotDetail) []model.Event {
	events := []model.Event{pass("P", pt(60, 40), pt(100, 40), model.PassDetail{ShotAssist: true, Cross: cross})}
	for range gap {
		events = append(events, model.Event{Type: model.TypePressure, Player: "F", Location: pt(50, 40)})
	}
	for _, d := range shots {
		events = append(events, shot("S", pt(105, 40), d))
	}
	return seq(events...)
}

func TestLookaheadXAWindow(t *testing.T) {
	withXG := model.ShotDetail{XG: f(0.3), Outcome: "Saved", Type: "Open Play"}
	noXG := model.ShotDetail{Outcome: "Off T", Type: "Open Play"}

	cases := []struct {
		name      string
		events    []model.Event
		lookahead int
		xa        float64
		crosses   float64
	}{
		{"shot at i+1", xaSequence(false, 0, withXG), 5, 0.3, 0},
		{"shot at i+5 is inside the window", xaSequence(false, 4, withXG), 5, 0.3, 0},
		{"shot at i+6 is outside the window", xaSequence(false, 5, withXG), 5, 0, 0},
		{"first shot without xG ends the scan", xaSequence(false, 0, noXG, withXG), 5, 0, 0},
		{"cross fills xA_from_crosses", xaSequence(true, 1, withXG), 5, 0.3, 0.3},
		{"shorter lookahead credits at its edge", xaSequence(false, 1, withXG), 2, 0.3, 0},
		{"shorter lookahead stops before i+3", xaSequence(false, 2, withXG), 2, 0, 0},
		{"lookahead above 5 is capped", xaSequence(false, 5, withXG), 9, 0, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.XALookahead = c.lookahead
			cols := statsFor(t, Match(c.events, opts), "P").Columns(model.VariantFull)

			xa, ok := column(cols, "xA_total")
			require.True(t, ok)
			assert.InDelta(t, c.xa, xa, 1e-9)
			crosses, ok := column(cols, "xA_from_crosses")
			require.True(t, ok)
			assert.InDelta(t, c.crosses, crosses, 1e-9)
		})
	}
}

// ---- Player records ----

func TestMatchOneRecordPerPlayerInFirstAppearanceOrder(t *testing.T) {
	events := seq(
		model.Event{Type: model.TypeStartingXI, Team: "Home"},
		model.Event{Type: model.TypePressure, Player: "B", Team: "Away"},
		pass("A", pt(50, 40), pt(52, 41), model.PassDetail{}),
		model.Event{Type: model.TypeInterception, Player: "B", Team: "Home"},
	)
	res := Match(events, DefaultOptions())
	require.Len(t, res.Stats, 2)
	assert.Equal(t, "B", res.Stats[0].Player)
	assert.Equal(t, "Away", res.Stats[0].Team, "team comes from the player's first event")
	assert.Equal(t, "A", res.Stats[1].Player)
	assert.Equal(t, 2, res.Stats[0].Positional.Touches)
}

func TestMatchEmpty(t *testing.T) {
	res := Match(nil, DefaultOptions())
	assert.Empty(t, res.Stats)
	assert.Empty(t, res.Issues)

	res = Match(seq(model.Event{Type: model.TypeHalfStart}), DefaultOptions())
	assert.Empty(t, res.Stats)
}

func TestMissingAttributesCountZero(t *testing.T) {
	events := seq(
		model.Event{Type: model.TypePass, Player: "A"},
		model.Event{Type: model.TypeShot, Player: "A"},
		model.Event{Type: model.TypeDuel, Player: "A"},
		model.Event{Type: model.TypeCarry, Player: "A"},
		model.Event{Type: model.TypeDribble, Player: "A"},
	)
	res := Match(events, DefaultOptions())
	require.Len(t, res.Stats, 1)
	assert.Empty(t, res.Issues)
	s := res.Stats[0]
	assert.Equal(t, 1, s.Passing.Passes)
	assert.Equal(t, 1, s.Passing.Completed)
	assert.Equal(t, 0, s.Passing.KeyPasses)
	assert.Equal(t, 1, s.Shooting.Shots)
	assert.Equal(t, 0.0, s.Expected.XG)
	assert.Equal(t, 1, s.Defending.Tackles)
	assert.Equal(t, 1, s.Duels.Total)
	assert.Equal(t, 0.0, s.Carrying.CarryDistance)
	assert.Equal(t, 0, s.Carrying.DribblesCompleted)
}

// ---- Passing ----

func TestPassClassification(t *testing.T) {
	events := seq(
		pass("A", pt(30, 40), pt(30, 60), model.PassDetail{Length: f(20), Height: "High Pass", Switch: true}),
		pass("A", pt(60, 40), pt(40, 42), model.PassDetail{Length: f(8), Outcome: "Incomplete"}),
		pass("A", pt(60, 40), pt(95, 70), model.PassDetail{Length: f(40), Cross: true, Height: "Ground Pass"}),
	)
	res := Match(events, DefaultOptions())
	p := statsFor(t, res, "A").Passing

	assert.Equal(t, 3, p.Passes)
	assert.Equal(t, 2, p.Completed)
	assert.Equal(t, 1, p.Lateral)
	assert.Equal(t, 1, p.Backward)
	assert.Equal(t, 1, p.Forward)
	assert.Equal(t, 1, p.Short)
	assert.Equal(t, 1, p.Medium)
	assert.Equal(t, 1, p.Long)
	assert.Equal(t, 1, p.Progressive)
	assert.InDelta(t, 35.0, p.ProgressiveDistance, 1e-9)
	assert.Equal(t, 1, p.High)
	assert.Equal(t, 1, p.Ground)
	assert.Equal(t, 1, p.Crosses)
	assert.Equal(t, 1, p.Switches)
}

func TestProgressiveThresholdIsStrict(t *testing.T) {
	events := seq(
		pass("A", pt(10, 40), pt(20, 40), model.PassDetail{}), // exactly 10
		model.Event{Type: model.TypeCarry, Player: "A", Location: pt(10, 40), Payload: &model.CarryDetail{EndLocation: pt(15, 40)}},
	)
	s := statsFor(t, Match(events, DefaultOptions()), "A")
	assert.Equal(t, 0, s.Passing.Progressive)
	assert.Equal(t, 0, s.Carrying.ProgressiveCarries)
}

func TestProgressiveCountsMonotoneInThreshold(t *testing.T) {
	var events []model.Event
	for dx := -10.0; dx <= 40; dx += 2.5 {
		events = append(events,
			pass("A", pt(40, 40), pt(40+dx, 40), model.PassDetail{}),
			model.Event{Type: model.TypeCarry, Player: "A", Location: pt(40, 40), Payload: &model.CarryDetail{EndLocation: pt(40+dx, 30)}},
		)
	}
	events = seq(events...)

	prevPass, prevCarry := -1, -1
	for threshold := 40.0; threshold >= -5; threshold -= 1.25 {
		opts := DefaultOptions()
		opts.ProgressivePassMin = threshold
		opts.ProgressiveCarryMin = threshold
		s := statsFor(t, Match(events, opts), "A")
		assert.GreaterOrEqual(t, s.Passing.Progressive, prevPass, "threshold %v", threshold)
		assert.GreaterOrEqual(t, s.Carrying.ProgressiveCarries, prevCarry, "threshold %v", threshold)
		prevPass, prevCarry = s.Passing.Progressive, s.Carrying.ProgressiveCarries
	}
}

// ---- Zones ----

func TestZonesAndBox(t *testing.T) {
	events := seq(
		model.Event{Type: model.TypeBallRecovery, Player: "A", Location: pt(39.9, 26.9)},
		model.Event{Type: model.TypePressure, Player: "A", Location: pt(40, 27)},
		model.Event{Type: model.TypeMiscontrol, Player: "A", Location: pt(110, 53)},
		model.Event{Type: model.TypeFoulWon, Player: "A"},
	)
	s := statsFor(t, Match(events, DefaultOptions()), "A")

	assert.Equal(t, 4, s.Positional.Touches)
	assert.Equal(t, [3]int{1, 1, 1}, s.Positional.Thirds)
	assert.Equal(t, 1, s.Positional.Zones[model.DefensiveThird][model.LeftChannel])
	assert.Equal(t, 1, s.Positional.Zones[model.MiddleThird][model.CenterChannel])
	assert.Equal(t, 1, s.Positional.Zones[model.AttackingThird][model.RightChannel])
	assert.Equal(t, 1, s.Positional.TouchesInBox)
	assert.Equal(t, 1, s.Defending.RecoveriesDefThird)
	assert.Equal(t, 1, s.Pressing.Thirds[model.MiddleThird])
	assert.Equal(t, 1, s.Discipline.FoulsWon)
}

// ---- Shooting, duels, carries ----

func TestShotBucketsAndXGSplit(t *testing.T) {
	events := seq(
		shot("A", pt(110, 40), model.ShotDetail{XG: f(0.76), Outcome: "Goal", Type: "Penalty", BodyPart: "Right Foot"}),
		shot("A", pt(100, 30), model.ShotDetail{XG: f(0.1), Outcome: "Off T", Type: "Open Play", BodyPart: "Head", FirstTime: true}),
		shot("A", pt(100, 30), model.ShotDetail{XG: f(0.05), Outcome: "Blocked"}),
	)
	s := statsFor(t, Match(events, DefaultOptions()), "A")
	assert.Equal(t, 3, s.Shooting.Shots)
	assert.Equal(t, 1, s.Shooting.Goals)
	assert.Equal(t, 1, s.Shooting.OnTarget)
	assert.Equal(t, 1, s.Shooting.OffTarget)
	assert.Equal(t, 1, s.Shooting.Blocked)
	assert.Equal(t, 1, s.Shooting.Penalty)
	assert.Equal(t, 1, s.Shooting.FirstTime)
	assert.InDelta(t, 0.91, s.Expected.XG, 1e-9)
	assert.InDelta(t, 0.10, s.Expected.XGOpenPlay, 1e-9)
	assert.InDelta(t, 0.76, s.Expected.XGSetPiece, 1e-9)
	assert.InDelta(t, 0.76, s.Expected.XGFoot, 1e-9)
	assert.InDelta(t, 0.10, s.Expected.XGHead, 1e-9)
}

func TestOutOfRangeXGIsComputationIssue(t *testing.T) {
	events := seq(shot("A", nil, model.ShotDetail{XG: f(3.5), Outcome: "Goal"}))
	res := Match(events, DefaultOptions())
	s := statsFor(t, res, "A")
	assert.Equal(t, 1, s.Shooting.Goals, "the shot itself still counts")
	assert.Equal(t, 0.0, s.Expected.XG)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, model.IssueComputation, res.Issues[0].Kind)
	assert.Equal(t, "shot.statsbomb_xg", res.Issues[0].Field)
}

func TestDuelTypes(t *testing.T) {
	duelEv := func(typ, outcome string) model.Event {
		return model.Event{Type: model.TypeDuel, Player: "A", Payload: &model.DuelDetail{Type: typ, Outcome: outcome}}
	}
	events := seq(
		duelEv("Aerial Lost", ""),
		duelEv("Tackle", "Won"),
		duelEv("Ground Duel", "Success In Play"),
		duelEv("Loose Ball", "Lost In Play"),
		duelEv("Mystery", "Unknown"),
	)
	s := statsFor(t, Match(events, DefaultOptions()), "A")
	assert.Equal(t, 5, s.Duels.Total)
	assert.Equal(t, 5, s.Defending.Tackles)
	assert.Equal(t, 2, s.Duels.Won)
	assert.Equal(t, 1, s.Duels.Lost)
	assert.Equal(t, 1, s.Duels.Aerial)
	assert.Equal(t, 0, s.Duels.AerialWon)
	assert.Equal(t, 1, s.Duels.GroundWon)
	assert.Equal(t, 1, s.Duels.LooseBall)
}

func TestCarryDistanceFromStart(t *testing.T) {
	events := seq(model.Event{
		Type: model.TypeCarry, Player: "A", Location: pt(100, 40),
		Payload: &model.CarryDetail{EndLocation: pt(103, 44)},
	})
	c := statsFor(t, Match(events, DefaultOptions()), "A").Carrying
	assert.InDelta(t, 5.0, c.CarryDistance, 1e-9)
	assert.Equal(t, 1, c.CarriesIntoBox)
	assert.Equal(t, 1, c.CarriesIntoFinalThird)
	assert.Equal(t, 0, c.ProgressiveCarries)
}

func TestCardsAndGoalkeeper(t *testing.T) {
	events := seq(
		model.Event{Type: model.TypeFoulCommitted, Player: "A", Payload: &model.FoulDetail{Card: "Yellow Card"}},
		model.Event{Type: model.TypeBadBehaviour, Player: "A", Payload: &model.FoulDetail{Card: "Red Card"}},
		model.Event{Type: model.TypeGoalKeeper, Player: "K", Payload: &model.GoalkeeperDetail{Type: "Punch"}},
		model.Event{Type: model.TypeGoalKeeper, Player: "K", Payload: &model.GoalkeeperDetail{Type: "Shot Saved"}},
	)
	res := Match(events, DefaultOptions())
	a := statsFor(t, res, "A").Discipline
	assert.Equal(t, 1, a.FoulsCommitted)
	assert.Equal(t, 1, a.BadBehaviour)
	assert.Equal(t, 1, a.YellowCards)
	assert.Equal(t, 1, a.RedCards)

	k := statsFor(t, res, "K").Defending
	assert.Equal(t, 2, k.GKEvents)
	assert.Equal(t, 1, k.GKPunches)
}

// ---- Variants ----

func TestColumnsVariants(t *testing.T) {
	var s model.PlayerMatchStats
	basic := s.Columns(model.VariantBasic)
	full := s.Columns(model.VariantFull)
	assert.Len(t, basic, 35)
	assert.Greater(t, len(full), 100)

	seen := make(map[string]bool)
	for _, c := range full {
		assert.False(t, seen[c.Name], "duplicate column %s", c.Name)
		seen[c.Name] = true
	}
	for _, c := range basic {
		assert.True(t, seen[c.Name], "basic column %s missing from full", c.Name)
	}
}
