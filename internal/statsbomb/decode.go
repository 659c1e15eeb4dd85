package statsbomb

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/pable/go-scout-metrics/internal/model"
)

var (
	errNotNumber = errors.New("not a number")
	errNotBool   = errors.New("not a boolean")
	errNotName   = errors.New("not a name or {name} object")
	errNotPoint  = errors.New("not a coordinate array")
	errNotObject = errors.New("not an object")
)

// object is one JSON object with its members left undecoded, so that each
// member can fail on its own without losing the rest of the event.
type object map[string]json.RawMessage

// decoder collects per-field issues for the event being decoded.
type decoder struct {
	matchID int
	index   int
	issues  []model.Issue
}

func (d *decoder) malformed(field string, err error) {
	d.issues = append(d.issues, model.Issue{
		MatchID:    d.matchID,
		EventIndex: d.index,
		Field:      field,
		Kind:       model.IssueMalformed,
		Err:        err,
	})
}

func present(raw json.RawMessage) bool {
	return len(raw) > 0 && !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func (d *decoder) object(o object, key, field string) object {
	raw, ok := o[key]
	if !ok || !present(raw) {
		return nil
	}
	var sub object
	if err := json.Unmarshal(raw, &sub); err != nil {
		d.malformed(field, errNotObject)
		return nil
	}
	return sub
}

// name reads a categorical value, accepted as {"id":..,"name":..} or a bare string.
func (d *decoder) name(o object, key, field string) string {
	raw, ok := o[key]
	if !ok || !present(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var tagged struct {
		Name *string `json:"name"`
	}
	if err := json.Unmarshal(raw, &tagged); err != nil || tagged.Name == nil {
		d.malformed(field, errNotName)
		return ""
	}
	return *tagged.Name
}

func (d *decoder) boolean(o object, key, field string) bool {
	raw, ok := o[key]
	if !ok || !present(raw) {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		d.malformed(field, errNotBool)
		return false
	}
	return b
}

func (d *decoder) number(o object, key, field string) *float64 {
	raw, ok := o[key]
	if !ok || !present(raw) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		d.malformed(field, errNotNumber)
		return nil
	}
	return &f
}

// point reads an [x, y] or [x, y, z] coordinate array; z is ignored.
func (d *decoder) point(o object, key, field string) *model.Point {
	raw, ok := o[key]
	if !ok || !present(raw) {
		return nil
	}
	var xs []float64
	if err := json.Unmarshal(raw, &xs); err != nil || len(xs) < 2 {
		d.malformed(field, errNotPoint)
		return nil
	}
	p := model.Point{X: xs[0], Y: xs[1]}
	if !p.Valid() {
		d.malformed(field, errNotPoint)
		return nil
	}
	return &p
}

// DecodeEvents parses one match's event document. A document that is not a
// JSON array fails the whole match; a malformed value inside an event leaves
// that field absent, records an Issue and keeps the event.
func DecodeEvents(matchID int, data []byte) ([]model.Event, []model.Issue, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, nil, fmt.Errorf("decode events for match %d: %w", matchID, err)
	}

	events := make([]model.Event, 0, len(raws))
	var issues []model.Issue
	for i, raw := range raws {
		d := &decoder{matchID: matchID, index: i + 1}
		var o object
		if err := json.Unmarshal(raw, &o); err != nil || o == nil {
			d.malformed("event", errNotObject)
			issues = append(issues, d.issues...)
			continue
		}
		e := d.event(matchID, o)
		for j := range d.issues {
			d.issues[j].Player = e.Player
		}
		events = append(events, e)
		issues = append(issues, d.issues...)
	}

	slices.SortStableFunc(events, func(a, b model.Event) int { return a.Index - b.Index })
	return events, issues, nil
}

func (d *decoder) event(matchID int, o object) model.Event {
	if idx := d.number(o, "index", "index"); idx != nil && *idx >= 1 {
		d.index = int(*idx)
	}
	e := model.Event{
		MatchID:       matchID,
		Index:         d.index,
		Timestamp:     d.name(o, "timestamp", "timestamp"),
		Type:          model.EventType(d.name(o, "type", "type")),
		Player:        d.name(o, "player", "player"),
		Team:          d.name(o, "team", "team"),
		Location:      d.point(o, "location", "location"),
		UnderPressure: d.boolean(o, "under_pressure", "under_pressure"),
	}
	if p := d.number(o, "period", "period"); p != nil {
		e.Period = int(*p)
	}

	switch e.Type {
	case model.TypePass:
		if p := d.object(o, "pass", "pass"); p != nil {
			e.Payload = d.pass(p)
		}
	case model.TypeShot:
		if s := d.object(o, "shot", "shot"); s != nil {
			e.Payload = d.shot(s)
		}
	case model.TypeCarry:
		if c := d.object(o, "carry", "carry"); c != nil {
			e.Payload = &model.CarryDetail{EndLocation: d.point(c, "end_location", "carry.end_location")}
		}
	case model.TypeDribble:
		if dr := d.object(o, "dribble", "dribble"); dr != nil {
			e.Payload = &model.DribbleDetail{
				Outcome:     d.name(dr, "outcome", "dribble.outcome"),
				Nutmeg:      d.boolean(dr, "nutmeg", "dribble.nutmeg"),
				EndLocation: d.point(dr, "end_location", "dribble.end_location"),
			}
		}
	case model.TypeDuel:
		if du := d.object(o, "duel", "duel"); du != nil {
			e.Payload = &model.DuelDetail{
				Type:    d.name(du, "type", "duel.type"),
				Outcome: d.name(du, "outcome", "duel.outcome"),
			}
		}
	case model.TypeGoalKeeper:
		if gk := d.object(o, "goalkeeper", "goalkeeper"); gk != nil {
			e.Payload = &model.GoalkeeperDetail{Type: d.name(gk, "type", "goalkeeper.type")}
		}
	case model.TypeFoulCommitted:
		if f := d.object(o, "foul_committed", "foul_committed"); f != nil {
			e.Payload = &model.FoulDetail{Card: d.name(f, "card", "foul_committed.card")}
		}
	case model.TypeBadBehaviour:
		if f := d.object(o, "bad_behaviour", "bad_behaviour"); f != nil {
			e.Payload = &model.FoulDetail{Card: d.name(f, "card", "bad_behaviour.card")}
		}
	case model.TypePressure:
		if _, ok := o["counterpress"]; ok {
			e.Payload = &model.PressureDetail{Counterpress: d.boolean(o, "counterpress", "counterpress")}
		}
	}
	return e
}

func (d *decoder) pass(o object) *model.PassDetail {
	p := &model.PassDetail{
		EndLocation: d.point(o, "end_location", "pass.end_location"),
		Length:      d.number(o, "length", "pass.length"),
		Outcome:     d.name(o, "outcome", "pass.outcome"),
		Height:      d.name(o, "height", "pass.height"),
		Cross:       d.boolean(o, "cross", "pass.cross"),
		Switch:      d.boolean(o, "switch", "pass.switch"),
		ThroughBall: d.boolean(o, "through_ball", "pass.through_ball"),
		CutBack:     d.boolean(o, "cut_back", "pass.cut_back"),
		ShotAssist:  d.boolean(o, "shot_assist", "pass.shot_assist"),
		GoalAssist:  d.boolean(o, "goal_assist", "pass.goal_assist"),
	}
	// Newer releases tag through balls as a technique instead of a flag.
	if d.name(o, "technique", "pass.technique") == "Through Ball" {
		p.ThroughBall = true
	}
	return p
}

func (d *decoder) shot(o object) *model.ShotDetail {
	return &model.ShotDetail{
		XG:          d.number(o, "statsbomb_xg", "shot.statsbomb_xg"),
		Outcome:     d.name(o, "outcome", "shot.outcome"),
		Type:        d.name(o, "type", "shot.type"),
		BodyPart:    d.name(o, "body_part", "shot.body_part"),
		FirstTime:   d.boolean(o, "first_time", "shot.first_time"),
		OneOnOne:    d.boolean(o, "one_on_one", "shot.one_on_one"),
		EndLocation: d.point(o, "end_location", "shot.end_location"),
	}
}

// ---- Catalog documents ----

type wireCompetition struct {
	CompetitionID   int    `json:"competition_id"`
	SeasonID        int    `json:"season_id"`
	CompetitionName string `json:"competition_name"`
	SeasonName      string `json:"season_name"`
	CountryName     string `json:"country_name"`
	Gender          string `json:"competition_gender"`
}

// DecodeCompetitions parses the provider's competitions listing.
func DecodeCompetitions(data []byte) ([]model.Competition, error) {
	var ws []wireCompetition
	if err := json.Unmarshal(data, &ws); err != nil {
		return nil, fmt.Errorf("decode competitions: %w", err)
	}
	out := make([]model.Competition, len(ws))
	for i, w := range ws {
		out[i] = model.Competition{
			CompetitionID:   w.CompetitionID,
			SeasonID:        w.SeasonID,
			CompetitionName: w.CompetitionName,
			SeasonName:      w.SeasonName,
			CountryName:     w.CountryName,
			Gender:          w.Gender,
		}
	}
	return out, nil
}

type wireMatch struct {
	MatchID     int    `json:"match_id"`
	MatchDate   string `json:"match_date"`
	HomeScore   *int   `json:"home_score"`
	AwayScore   *int   `json:"away_score"`
	Competition struct {
		ID int `json:"competition_id"`
	} `json:"competition"`
	Season struct {
		ID int `json:"season_id"`
	} `json:"season"`
	HomeTeam struct {
		Name string `json:"home_team_name"`
	} `json:"home_team"`
	AwayTeam struct {
		Name string `json:"away_team_name"`
	} `json:"away_team"`
}

// DecodeMatches parses the fixture list of one competition+season. Matches
// are returned in the order the provider lists them.
func DecodeMatches(competitionID, seasonID int, data []byte) ([]model.MatchInfo, error) {
	var ws []wireMatch
	if err := json.Unmarshal(data, &ws); err != nil {
		return nil, fmt.Errorf("decode matches %d/%d: %w", competitionID, seasonID, err)
	}
	out := make([]model.MatchInfo, 0, len(ws))
	for _, w := range ws {
		m := model.MatchInfo{
			MatchID:       w.MatchID,
			CompetitionID: competitionID,
			SeasonID:      seasonID,
			MatchDate:     w.MatchDate,
			HomeTeam:      w.HomeTeam.Name,
			AwayTeam:      w.AwayTeam.Name,
		}
		if w.HomeScore != nil {
			m.HomeScore = *w.HomeScore
		}
		if w.AwayScore != nil {
			m.AwayScore = *w.AwayScore
		}
		out = append(out, m)
	}
	return out, nil
}
