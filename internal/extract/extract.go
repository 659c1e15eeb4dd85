// Package extract turns one match's event stream into per-player counters.
package extract

import (
	"github.com/pable/go-scout-metrics/internal/model"
)

// MaxLookahead bounds the xA scan window.
const MaxLookahead = 5

// Options tunes the classification thresholds.
type Options struct {
	ProgressivePassMin  float64 // x-advance a pass needs to count as progressive
	ProgressiveCarryMin float64 // x-advance a carry or dribble needs
	XALookahead         int     // events scanned after a shot-assist pass, 1..5
}

// DefaultOptions returns the published thresholds: passes >10, carries >5,
// five-event xA window.
func DefaultOptions() Options {
	return Options{
		ProgressivePassMin:  10,
		ProgressiveCarryMin: 5,
		XALookahead:         MaxLookahead,
	}
}

func (o Options) lookahead() int {
	switch {
	case o.XALookahead < 1:
		return 1
	case o.XALookahead > MaxLookahead:
		return MaxLookahead
	default:
		return o.XALookahead
	}
}

// Result is the extraction output for one match.
type Result struct {
	Stats  []model.PlayerMatchStats // one per player, ordered by first appearance
	Issues []model.Issue            // sub-metrics that lost a contribution
}

// Match computes one record per unique non-empty player in events. The
// events must belong to a single match and be in chronological order.
// A match with no player events yields an empty result.
func Match(events []model.Event, opts Options) Result {
	var res Result
	byPlayer := make(map[string]int)

	for i := range events {
		e := &events[i]
		if e.Player == "" {
			continue
		}
		idx, ok := byPlayer[e.Player]
		if !ok {
			idx = len(res.Stats)
			byPlayer[e.Player] = idx
			res.Stats = append(res.Stats, model.PlayerMatchStats{
				MatchID: e.MatchID,
				Player:  e.Player,
				Team:    e.Team,
			})
		}
		contrib, issues := eventStats(e, opts)
		res.Stats[idx].Merge(contrib)
		res.Issues = append(res.Issues, issues...)
	}

	for _, a := range LookaheadXA(events, opts.lookahead()) {
		idx, ok := byPlayer[a.Passer]
		if !ok {
			continue
		}
		x := model.Expected{XA: a.XG}
		if a.Cross {
			x.XAFromCrosses = a.XG
		}
		res.Stats[idx].Expected.Merge(x)
	}
	return res
}

// eventStats returns the contribution of a single event to its player's record.
func eventStats(e *model.Event, opts Options) (model.PlayerMatchStats, []model.Issue) {
	var s model.PlayerMatchStats
	var issues []model.Issue
	report := func(field string, kind model.IssueKind, err error) {
		issues = append(issues, model.Issue{
			MatchID:    e.MatchID,
			EventIndex: e.Index,
			Player:     e.Player,
			Field:      field,
			Kind:       kind,
			Err:        err,
		})
	}

	s.Positional = positional(e)

	switch e.Type {
	case model.TypePass:
		s.Passing = passing(e, opts, report)
	case model.TypeShot:
		s.Shooting, s.Expected = shooting(e, report)
	case model.TypeDuel:
		s.Defending.Tackles = 1
		s.Duels = duel(e)
	case model.TypeCarry:
		s.Carrying = carry(e, opts)
	case model.TypeDribble:
		s.Carrying = dribble(e, opts)
	case model.TypePressure:
		s.Pressing = pressure(e)
	case model.TypeInterception:
		s.Defending.Interceptions = 1
	case model.TypeClearance:
		s.Defending.Clearances = 1
	case model.TypeBlock:
		s.Defending.Blocks = 1
	case model.TypeBallRecovery:
		s.Defending = recovery(e)
	case model.TypeError:
		s.Defending.Errors = 1
	case model.TypeDispossessed:
		s.Defending.Dispossessed = 1
	case model.TypeMiscontrol:
		s.Defending.Miscontrols = 1
	case model.TypeGoalKeeper:
		s.Defending = goalkeeper(e)
	default:
		s.Discipline = discipline(e)
	}
	return s, issues
}

type reportFunc func(field string, kind model.IssueKind, err error)
