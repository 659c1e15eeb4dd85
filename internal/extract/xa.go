package extract

import "github.com/pable/go-scout-metrics/internal/model"

// Attribution credits one shot's xG to the passer of a shot-assist pass.
type Attribution struct {
	Passer    string
	PassIndex int
	ShotIndex int
	XG        float64
	Cross     bool
}

// LookaheadXA approximates expected assists. For every shot-assist pass it
// scans the next lookahead events of the match sequence (positions, not
// timestamps) for the first Shot and, when that shot carries an xG value,
// credits it to the passer.
//
// The located shot is not guaranteed to follow from the pass: intervening
// events, the shooting team and period boundaries are not checked. A first
// shot without xG ends the scan with no credit.
func LookaheadXA(events []model.Event, lookahead int) []Attribution {
	var out []Attribution
	for i := range events {
		pass, ok := events[i].Pass()
		if events[i].Type != model.TypePass || !ok || !pass.ShotAssist || events[i].Player == "" {
			continue
		}
		end := min(i+lookahead, len(events)-1)
		for j := i + 1; j <= end; j++ {
			if events[j].Type != model.TypeShot {
				continue
			}
			shot, _ := events[j].Shot()
			if xg, ok := shotXG(shot); ok {
				out = append(out, Attribution{
					Passer:    events[i].Player,
					PassIndex: events[i].Index,
					ShotIndex: events[j].Index,
					XG:        xg,
					Cross:     pass.Cross,
				})
			}
			break
		}
	}
	return out
}
