package model

// Variant selects how many counters a per-match record is flattened into.
type Variant string

const (
	VariantBasic Variant = "basic" // headline counters only
	VariantFull  Variant = "full"  // every category counter
)

// ParseVariant maps a user-supplied name to a Variant. Unknown names are
// reported with ok=false.
func ParseVariant(s string) (Variant, bool) {
	switch Variant(s) {
	case VariantBasic:
		return VariantBasic, true
	case VariantFull, "":
		return VariantFull, true
	default:
		return "", false
	}
}

// ---- Per-match player record ----

// PlayerMatchStats aggregates all events of one (match, player) pair.
// It is created fresh per match and not mutated once extraction returns.
type PlayerMatchStats struct {
	MatchID int
	Player  string
	Team    string

	Passing    Passing
	Shooting   Shooting
	Defending  Defending
	Carrying   Carrying
	Duels      Duels
	Positional Positional
	Pressing   Pressing
	Discipline Discipline
	Expected   Expected
}

// Merge adds every counter of o into s. Identity fields are left alone.
func (s *PlayerMatchStats) Merge(o PlayerMatchStats) {
	s.Passing.Merge(o.Passing)
	s.Shooting.Merge(o.Shooting)
	s.Defending.Merge(o.Defending)
	s.Carrying.Merge(o.Carrying)
	s.Duels.Merge(o.Duels)
	s.Positional.Merge(o.Positional)
	s.Pressing.Merge(o.Pressing)
	s.Discipline.Merge(o.Discipline)
	s.Expected.Merge(o.Expected)
}

type Passing struct {
	Passes        int
	Completed     int
	KeyPasses     int // shot-assist flagged
	Assists       int // goal-assist flagged
	Short         int
	Medium        int
	Long          int
	ThroughBalls  int
	Crosses       int
	Switches      int
	Cutbacks      int
	UnderPressure int
	Ground        int
	Low           int
	High          int
	Forward       int
	Backward      int
	Lateral       int

	Progressive         int
	ProgressiveDistance float64
}

func (p *Passing) Merge(o Passing) {
	p.Passes += o.Passes
	p.Completed += o.Completed
	p.KeyPasses += o.KeyPasses
	p.Assists += o.Assists
	p.Short += o.Short
	p.Medium += o.Medium
	p.Long += o.Long
	p.ThroughBalls += o.ThroughBalls
	p.Crosses += o.Crosses
	p.Switches += o.Switches
	p.Cutbacks += o.Cutbacks
	p.UnderPressure += o.UnderPressure
	p.Ground += o.Ground
	p.Low += o.Low
	p.High += o.High
	p.Forward += o.Forward
	p.Backward += o.Backward
	p.Lateral += o.Lateral
	p.Progressive += o.Progressive
	p.ProgressiveDistance += o.ProgressiveDistance
}

type Shooting struct {
	Shots     int
	Goals     int
	OnTarget  int // Goal or Saved
	Saved     int
	Blocked   int
	OffTarget int
	Post      int
	Wayward   int

	OpenPlay int
	FreeKick int
	Penalty  int
	Corner   int

	RightFoot int
	LeftFoot  int
	Head      int
	OtherBody int

	FirstTime int
	OneOnOne  int
}

func (s *Shooting) Merge(o Shooting) {
	s.Shots += o.Shots
	s.Goals += o.Goals
	s.OnTarget += o.OnTarget
	s.Saved += o.Saved
	s.Blocked += o.Blocked
	s.OffTarget += o.OffTarget
	s.Post += o.Post
	s.Wayward += o.Wayward
	s.OpenPlay += o.OpenPlay
	s.FreeKick += o.FreeKick
	s.Penalty += o.Penalty
	s.Corner += o.Corner
	s.RightFoot += o.RightFoot
	s.LeftFoot += o.LeftFoot
	s.Head += o.Head
	s.OtherBody += o.OtherBody
	s.FirstTime += o.FirstTime
	s.OneOnOne += o.OneOnOne
}

type Defending struct {
	Tackles       int // every Duel event, as the public metric sets count them
	Interceptions int
	Clearances    int
	Blocks        int

	Recoveries         int
	RecoveriesDefThird int
	RecoveriesMidThird int
	RecoveriesAttThird int

	Errors       int
	Dispossessed int
	Miscontrols  int

	GKEvents   int
	GKPunches  int
	GKClaims   int
	GKSmothers int
}

func (d *Defending) Merge(o Defending) {
	d.Tackles += o.Tackles
	d.Interceptions += o.Interceptions
	d.Clearances += o.Clearances
	d.Blocks += o.Blocks
	d.Recoveries += o.Recoveries
	d.RecoveriesDefThird += o.RecoveriesDefThird
	d.RecoveriesMidThird += o.RecoveriesMidThird
	d.RecoveriesAttThird += o.RecoveriesAttThird
	d.Errors += o.Errors
	d.Dispossessed += o.Dispossessed
	d.Miscontrols += o.Miscontrols
	d.GKEvents += o.GKEvents
	d.GKPunches += o.GKPunches
	d.GKClaims += o.GKClaims
	d.GKSmothers += o.GKSmothers
}

type Carrying struct {
	Dribbles            int
	DribblesCompleted   int
	Nutmegs             int
	ProgressiveDribbles int

	Carries                  int
	CarryDistance            float64
	ProgressiveCarries       int
	ProgressiveCarryDistance float64
	CarriesIntoBox           int
	CarriesIntoFinalThird    int
}

func (c *Carrying) Merge(o Carrying) {
	c.Dribbles += o.Dribbles
	c.DribblesCompleted += o.DribblesCompleted
	c.Nutmegs += o.Nutmegs
	c.ProgressiveDribbles += o.ProgressiveDribbles
	c.Carries += o.Carries
	c.CarryDistance += o.CarryDistance
	c.ProgressiveCarries += o.ProgressiveCarries
	c.ProgressiveCarryDistance += o.ProgressiveCarryDistance
	c.CarriesIntoBox += o.CarriesIntoBox
	c.CarriesIntoFinalThird += o.CarriesIntoFinalThird
}

type Duels struct {
	Total        int
	Won          int
	Lost         int
	Aerial       int
	AerialWon    int
	Ground       int
	GroundWon    int
	LooseBall    int
	LooseBallWon int
}

func (d *Duels) Merge(o Duels) {
	d.Total += o.Total
	d.Won += o.Won
	d.Lost += o.Lost
	d.Aerial += o.Aerial
	d.AerialWon += o.AerialWon
	d.Ground += o.Ground
	d.GroundWon += o.GroundWon
	d.LooseBall += o.LooseBall
	d.LooseBallWon += o.LooseBallWon
}

// Third indexes the pitch thirds along x.
type Third int

const (
	DefensiveThird Third = iota
	MiddleThird
	AttackingThird
)

// Channel indexes the pitch channels along y.
type Channel int

const (
	LeftChannel Channel = iota
	CenterChannel
	RightChannel
)

var (
	thirdNames   = [3]string{"def", "mid", "att"}
	channelNames = [3]string{"left", "center", "right"}
)

// ThirdOf classifies an x coordinate: x<40 defensive, x<80 middle, else attacking.
func ThirdOf(x float64) Third {
	switch {
	case x < 40:
		return DefensiveThird
	case x < 80:
		return MiddleThird
	default:
		return AttackingThird
	}
}

// ChannelOf classifies a y coordinate: y<27 left, y<53 center, else right.
func ChannelOf(y float64) Channel {
	switch {
	case y < 27:
		return LeftChannel
	case y < 53:
		return CenterChannel
	default:
		return RightChannel
	}
}

// InBox reports whether p lies inside the opponent penalty area.
func InBox(p Point) bool {
	return p.X > 102 && p.Y >= 18 && p.Y <= 62
}

type Positional struct {
	Thirds       [3]int    // indexed by Third
	Zones        [3][3]int // [Third][Channel]
	Touches      int       // every event, located or not
	TouchesInBox int
}

func (p *Positional) Merge(o Positional) {
	for i := range p.Thirds {
		p.Thirds[i] += o.Thirds[i]
		for j := range p.Zones[i] {
			p.Zones[i][j] += o.Zones[i][j]
		}
	}
	p.Touches += o.Touches
	p.TouchesInBox += o.TouchesInBox
}

type Pressing struct {
	Pressures    int
	Counterpress int
	Thirds       [3]int
}

func (p *Pressing) Merge(o Pressing) {
	p.Pressures += o.Pressures
	p.Counterpress += o.Counterpress
	for i := range p.Thirds {
		p.Thirds[i] += o.Thirds[i]
	}
}

type Discipline struct {
	FoulsCommitted int
	FoulsWon       int
	YellowCards    int
	SecondYellows  int
	RedCards       int
	Offsides       int
	Substitutions  int
	FiftyFifties   int
	BadBehaviour   int
}

func (d *Discipline) Merge(o Discipline) {
	d.FoulsCommitted += o.FoulsCommitted
	d.FoulsWon += o.FoulsWon
	d.YellowCards += o.YellowCards
	d.SecondYellows += o.SecondYellows
	d.RedCards += o.RedCards
	d.Offsides += o.Offsides
	d.Substitutions += o.Substitutions
	d.FiftyFifties += o.FiftyFifties
	d.BadBehaviour += o.BadBehaviour
}

// Expected holds provider xG sums and the lookahead xA approximation.
type Expected struct {
	XG            float64
	XGOpenPlay    float64
	XGSetPiece    float64
	XGFoot        float64
	XGHead        float64
	XA            float64
	XAFromCrosses float64
}

func (e *Expected) Merge(o Expected) {
	e.XG += o.XG
	e.XGOpenPlay += o.XGOpenPlay
	e.XGSetPiece += o.XGSetPiece
	e.XGFoot += o.XGFoot
	e.XGHead += o.XGHead
	e.XA += o.XA
	e.XAFromCrosses += o.XAFromCrosses
}

// ---- Flattening ----

// Column is one named numeric counter of a flattened per-match record.
type Column struct {
	Name  string
	Value float64
}

type columnSet struct {
	variant Variant
	cols    []Column
}

// add appends a column; non-basic columns are only emitted in the full variant.
func (c *columnSet) add(name string, v float64, basic bool) {
	if !basic && c.variant == VariantBasic {
		return
	}
	c.cols = append(c.cols, Column{Name: name, Value: v})
}

func (c *columnSet) addInt(name string, v int, basic bool) { c.add(name, float64(v), basic) }

// Columns flattens the record into an ordered list of named counters.
// The basic variant keeps the headline counters, the full variant emits all.
func (s *PlayerMatchStats) Columns(v Variant) []Column {
	c := &columnSet{variant: v}

	p := s.Passing
	c.addInt("passes", p.Passes, true)
	c.addInt("passes_completed", p.Completed, true)
	c.addInt("key_passes", p.KeyPasses, true)
	c.addInt("assists", p.Assists, true)
	c.addInt("progressive_passes", p.Progressive, true)
	c.add("progressive_distance", p.ProgressiveDistance, false)
	c.addInt("short_passes", p.Short, false)
	c.addInt("medium_passes", p.Medium, false)
	c.addInt("long_passes", p.Long, false)
	c.addInt("through_balls", p.ThroughBalls, true)
	c.addInt("crosses", p.Crosses, true)
	c.addInt("switches", p.Switches, false)
	c.addInt("cutbacks", p.Cutbacks, false)
	c.addInt("passes_under_pressure", p.UnderPressure, false)
	c.addInt("ground_passes", p.Ground, false)
	c.addInt("low_passes", p.Low, false)
	c.addInt("high_passes", p.High, false)
	c.addInt("forward_passes", p.Forward, false)
	c.addInt("backward_passes", p.Backward, false)
	c.addInt("lateral_passes", p.Lateral, false)

	sh := s.Shooting
	c.addInt("shots", sh.Shots, true)
	c.addInt("shots_on_target", sh.OnTarget, true)
	c.addInt("goals", sh.Goals, true)
	c.addInt("shots_saved", sh.Saved, false)
	c.addInt("shots_blocked", sh.Blocked, false)
	c.addInt("shots_off_target", sh.OffTarget, false)
	c.addInt("shots_post", sh.Post, false)
	c.addInt("shots_wayward", sh.Wayward, false)
	c.addInt("shots_open_play", sh.OpenPlay, false)
	c.addInt("shots_free_kick", sh.FreeKick, false)
	c.addInt("shots_penalty", sh.Penalty, false)
	c.addInt("shots_corner", sh.Corner, false)
	c.addInt("shots_right_foot", sh.RightFoot, false)
	c.addInt("shots_left_foot", sh.LeftFoot, false)
	c.addInt("shots_head", sh.Head, false)
	c.addInt("shots_other_body_part", sh.OtherBody, false)
	c.addInt("shots_first_time", sh.FirstTime, false)
	c.addInt("shots_one_on_one", sh.OneOnOne, false)

	x := s.Expected
	c.add("xG", x.XG, true)
	c.add("xG_open_play", x.XGOpenPlay, false)
	c.add("xG_set_piece", x.XGSetPiece, false)
	c.add("xG_foot", x.XGFoot, false)
	c.add("xG_head", x.XGHead, false)
	c.add("xA_total", x.XA, true)
	c.add("xA_from_crosses", x.XAFromCrosses, false)

	d := s.Defending
	c.addInt("tackles", d.Tackles, true)
	c.addInt("interceptions", d.Interceptions, true)
	c.addInt("clearances", d.Clearances, true)
	c.addInt("blocks", d.Blocks, true)
	c.addInt("ball_recoveries", d.Recoveries, true)
	c.addInt("ball_recoveries_defensive_third", d.RecoveriesDefThird, false)
	c.addInt("ball_recoveries_middle_third", d.RecoveriesMidThird, false)
	c.addInt("ball_recoveries_offensive_third", d.RecoveriesAttThird, false)
	c.addInt("errors", d.Errors, false)
	c.addInt("dispossessed", d.Dispossessed, true)
	c.addInt("miscontrol", d.Miscontrols, true)
	c.addInt("goalkeeper_saves", d.GKEvents, false)
	c.addInt("goalkeeper_punches", d.GKPunches, false)
	c.addInt("goalkeeper_claims", d.GKClaims, false)
	c.addInt("goalkeeper_smother", d.GKSmothers, false)

	cr := s.Carrying
	c.addInt("dribbles", cr.Dribbles, true)
	c.addInt("dribbles_completed", cr.DribblesCompleted, true)
	c.addInt("nutmegs", cr.Nutmegs, false)
	c.addInt("progressive_dribbles", cr.ProgressiveDribbles, false)
	c.addInt("carries", cr.Carries, true)
	c.add("carry_distance", cr.CarryDistance, false)
	c.addInt("progressive_carries", cr.ProgressiveCarries, true)
	c.add("progressive_carry_distance", cr.ProgressiveCarryDistance, false)
	c.addInt("carries_into_box", cr.CarriesIntoBox, false)
	c.addInt("carries_into_final_third", cr.CarriesIntoFinalThird, false)

	du := s.Duels
	c.addInt("duels_total", du.Total, true)
	c.addInt("duels_won", du.Won, true)
	c.addInt("duels_lost", du.Lost, false)
	c.addInt("aerial_duels", du.Aerial, false)
	c.addInt("aerial_duels_won", du.AerialWon, true)
	c.addInt("ground_duels", du.Ground, false)
	c.addInt("ground_duels_won", du.GroundWon, false)
	c.addInt("loose_ball_duels", du.LooseBall, false)
	c.addInt("loose_ball_duels_won", du.LooseBallWon, false)

	po := s.Positional
	c.addInt("actions_defensive_third", po.Thirds[DefensiveThird], false)
	c.addInt("actions_middle_third", po.Thirds[MiddleThird], false)
	c.addInt("actions_attacking_third", po.Thirds[AttackingThird], true)
	for t := range po.Zones {
		for ch := range po.Zones[t] {
			c.addInt("zone_"+thirdNames[t]+"_"+channelNames[ch], po.Zones[t][ch], false)
		}
	}
	c.addInt("touches", po.Touches, true)
	c.addInt("touches_in_box", po.TouchesInBox, true)

	pr := s.Pressing
	c.addInt("pressures", pr.Pressures, true)
	c.addInt("pressures_counterpress", pr.Counterpress, false)
	c.addInt("pressures_defensive_third", pr.Thirds[DefensiveThird], false)
	c.addInt("pressures_middle_third", pr.Thirds[MiddleThird], false)
	c.addInt("pressures_attacking_third", pr.Thirds[AttackingThird], false)

	di := s.Discipline
	c.addInt("fouls_committed", di.FoulsCommitted, true)
	c.addInt("fouls_won", di.FoulsWon, true)
	c.addInt("yellow_cards", di.YellowCards, true)
	c.addInt("second_yellow_cards", di.SecondYellows, false)
	c.addInt("red_cards", di.RedCards, true)
	c.addInt("offsides", di.Offsides, true)
	c.addInt("substitutions", di.Substitutions, false)
	c.addInt("50_50", di.FiftyFifties, false)
	c.addInt("bad_behaviour", di.BadBehaviour, false)

	return c.cols
}

// Row returns the flattened, persistable form of the record.
func (s *PlayerMatchStats) Row(v Variant) MatchRow {
	return MatchRow{
		MatchID: s.MatchID,
		Player:  s.Player,
		Team:    s.Team,
		Columns: s.Columns(v),
	}
}
