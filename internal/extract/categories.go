package extract

import (
	"errors"
	"math"
	"strings"

	"github.com/pable/go-scout-metrics/internal/model"
)

var (
	errNegativeLength = errors.New("negative pass length")
	errXGOutOfRange   = errors.New("xG outside [0, 1]")
)

func positional(e *model.Event) model.Positional {
	p := model.Positional{Touches: 1}
	if e.Location == nil {
		return p
	}
	t := model.ThirdOf(e.Location.X)
	p.Thirds[t] = 1
	p.Zones[t][model.ChannelOf(e.Location.Y)] = 1
	if model.InBox(*e.Location) {
		p.TouchesInBox = 1
	}
	return p
}

func passing(e *model.Event, opts Options, report reportFunc) model.Passing {
	p := model.Passing{Passes: 1}
	if e.UnderPressure {
		p.UnderPressure = 1
	}
	d, ok := e.Pass()
	if !ok {
		// No pass detail means no recorded outcome, which the provider uses for completion.
		p.Completed = 1
		return p
	}
	if d.Outcome == "" {
		p.Completed = 1
	}
	p.KeyPasses = b2i(d.ShotAssist)
	p.Assists = b2i(d.GoalAssist)
	p.ThroughBalls = b2i(d.ThroughBall)
	p.Crosses = b2i(d.Cross)
	p.Switches = b2i(d.Switch)
	p.Cutbacks = b2i(d.CutBack)

	switch d.Height {
	case "Ground Pass":
		p.Ground = 1
	case "Low Pass":
		p.Low = 1
	case "High Pass":
		p.High = 1
	}

	if d.Length != nil {
		switch l := *d.Length; {
		case l < 0:
			report("pass.length", model.IssueComputation, errNegativeLength)
		case l < 15:
			p.Short = 1
		case l < 30:
			p.Medium = 1
		default:
			p.Long = 1
		}
	}

	if e.Location != nil && d.EndLocation != nil {
		dx := d.EndLocation.X - e.Location.X
		dy := d.EndLocation.Y - e.Location.Y
		if dx > opts.ProgressivePassMin {
			p.Progressive = 1
			p.ProgressiveDistance = dx
		}
		switch {
		case math.Abs(dx) > math.Abs(dy) && dx > 0:
			p.Forward = 1
		case math.Abs(dx) > math.Abs(dy):
			p.Backward = 1
		default:
			p.Lateral = 1
		}
	}
	return p
}

func shooting(e *model.Event, report reportFunc) (model.Shooting, model.Expected) {
	s := model.Shooting{Shots: 1}
	var x model.Expected
	d, ok := e.Shot()
	if !ok {
		return s, x
	}

	switch d.Outcome {
	case "Goal":
		s.Goals = 1
		s.OnTarget = 1
	case "Saved":
		s.Saved = 1
		s.OnTarget = 1
	case "Blocked":
		s.Blocked = 1
	case "Off T":
		s.OffTarget = 1
	case "Post":
		s.Post = 1
	case "Wayward":
		s.Wayward = 1
	}

	switch d.Type {
	case "Open Play":
		s.OpenPlay = 1
	case "Free Kick":
		s.FreeKick = 1
	case "Penalty":
		s.Penalty = 1
	case "Corner":
		s.Corner = 1
	}

	switch d.BodyPart {
	case "Right Foot":
		s.RightFoot = 1
	case "Left Foot":
		s.LeftFoot = 1
	case "Head":
		s.Head = 1
	case "Other":
		s.OtherBody = 1
	}

	s.FirstTime = b2i(d.FirstTime)
	s.OneOnOne = b2i(d.OneOnOne)

	xg, ok := shotXG(d)
	if !ok {
		if d.XG != nil {
			report("shot.statsbomb_xg", model.IssueComputation, errXGOutOfRange)
		}
		return s, x
	}
	x.XG = xg
	switch {
	case d.Type == "Open Play":
		x.XGOpenPlay = xg
	case d.Type != "":
		x.XGSetPiece = xg
	}
	switch d.BodyPart {
	case "Right Foot", "Left Foot":
		x.XGFoot = xg
	case "Head":
		x.XGHead = xg
	}
	return s, x
}

// shotXG returns the shot's usable xG value, if any.
func shotXG(d *model.ShotDetail) (float64, bool) {
	if d == nil || d.XG == nil {
		return 0, false
	}
	v := *d.XG
	if math.IsNaN(v) || v < 0 || v > 1 {
		return 0, false
	}
	return v, true
}

func duel(e *model.Event) model.Duels {
	du := model.Duels{Total: 1}
	d, ok := e.Duel()
	if !ok {
		return du
	}
	won := d.Outcome == "Won" || strings.HasPrefix(d.Outcome, "Success")
	if won {
		du.Won = 1
	}
	if strings.HasPrefix(d.Outcome, "Lost") {
		du.Lost = 1
	}
	switch {
	case strings.Contains(d.Type, "Aerial"):
		du.Aerial = 1
		du.AerialWon = b2i(won)
	case strings.Contains(d.Type, "Ground"):
		du.Ground = 1
		du.GroundWon = b2i(won)
	case strings.Contains(d.Type, "Loose Ball"):
		du.LooseBall = 1
		du.LooseBallWon = b2i(won)
	}
	return du
}

func carry(e *model.Event, opts Options) model.Carrying {
	c := model.Carrying{Carries: 1}
	d, ok := e.Carry()
	if !ok || d.EndLocation == nil {
		return c
	}
	end := *d.EndLocation
	if end.X > 80 {
		c.CarriesIntoFinalThird = 1
	}
	if model.InBox(end) {
		c.CarriesIntoBox = 1
	}
	if e.Location == nil {
		return c
	}
	c.CarryDistance = math.Hypot(end.X-e.Location.X, end.Y-e.Location.Y)
	if dx := end.X - e.Location.X; dx > opts.ProgressiveCarryMin {
		c.ProgressiveCarries = 1
		c.ProgressiveCarryDistance = dx
	}
	return c
}

func dribble(e *model.Event, opts Options) model.Carrying {
	c := model.Carrying{Dribbles: 1}
	d, ok := e.Dribble()
	if !ok {
		return c
	}
	if d.Outcome == "Complete" {
		c.DribblesCompleted = 1
	}
	c.Nutmegs = b2i(d.Nutmeg)
	if e.Location != nil && d.EndLocation != nil && d.EndLocation.X-e.Location.X > opts.ProgressiveCarryMin {
		c.ProgressiveDribbles = 1
	}
	return c
}

func pressure(e *model.Event) model.Pressing {
	p := model.Pressing{Pressures: 1}
	if d, ok := e.Pressure(); ok && d.Counterpress {
		p.Counterpress = 1
	}
	if e.Location != nil {
		p.Thirds[model.ThirdOf(e.Location.X)] = 1
	}
	return p
}

func recovery(e *model.Event) model.Defending {
	d := model.Defending{Recoveries: 1}
	if e.Location == nil {
		return d
	}
	switch model.ThirdOf(e.Location.X) {
	case model.DefensiveThird:
		d.RecoveriesDefThird = 1
	case model.MiddleThird:
		d.RecoveriesMidThird = 1
	default:
		d.RecoveriesAttThird = 1
	}
	return d
}

func goalkeeper(e *model.Event) model.Defending {
	d := model.Defending{GKEvents: 1}
	gk, ok := e.Goalkeeper()
	if !ok {
		return d
	}
	switch gk.Type {
	case "Punch":
		d.GKPunches = 1
	case "Claim":
		d.GKClaims = 1
	case "Smother":
		d.GKSmothers = 1
	}
	return d
}

func discipline(e *model.Event) model.Discipline {
	var d model.Discipline
	switch e.Type {
	case model.TypeFoulCommitted:
		d.FoulsCommitted = 1
	case model.TypeFoulWon:
		d.FoulsWon = 1
	case model.TypeOffside:
		d.Offsides = 1
	case model.TypeSubstitution:
		d.Substitutions = 1
	case model.TypeFiftyFifty:
		d.FiftyFifties = 1
	case model.TypeBadBehaviour:
		d.BadBehaviour = 1
	default:
		return d
	}
	if f, ok := e.Foul(); ok {
		switch f.Card {
		case "Yellow Card":
			d.YellowCards = 1
		case "Second Yellow":
			d.SecondYellows = 1
		case "Red Card":
			d.RedCards = 1
		}
	}
	return d
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
