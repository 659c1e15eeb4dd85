package model

import "math"

// Pitch geometry in StatsBomb coordinates (yards, origin at the own goal line).
const (
	PitchLength = 120.0
	PitchWidth  = 80.0
)

// EventType is the event-type tag as published by the data provider.
type EventType string

const (
	TypePass           EventType = "Pass"
	TypeShot           EventType = "Shot"
	TypeDuel           EventType = "Duel"
	TypeCarry          EventType = "Carry"
	TypeDribble        EventType = "Dribble"
	TypePressure       EventType = "Pressure"
	TypeInterception   EventType = "Interception"
	TypeClearance      EventType = "Clearance"
	TypeBlock          EventType = "Block"
	TypeBallRecovery   EventType = "Ball Recovery"
	TypeFoulCommitted  EventType = "Foul Committed"
	TypeFoulWon        EventType = "Foul Won"
	TypeOffside        EventType = "Offside"
	TypeSubstitution   EventType = "Substitution"
	TypeGoalKeeper     EventType = "Goal Keeper"
	TypeError          EventType = "Error"
	TypeDispossessed   EventType = "Dispossessed"
	TypeMiscontrol     EventType = "Miscontrol"
	TypeFiftyFifty     EventType = "50/50"
	TypeBadBehaviour   EventType = "Bad Behaviour"
	TypeBallReceipt    EventType = "Ball Receipt*"
	TypeStartingXI     EventType = "Starting XI"
	TypeHalfStart      EventType = "Half Start"
	TypeHalfEnd        EventType = "Half End"
	TypeTacticalShift  EventType = "Tactical Shift"
	TypePlayerOn       EventType = "Player On"
	TypePlayerOff      EventType = "Player Off"
	TypeShield         EventType = "Shield"
	TypeDribbledPast   EventType = "Dribbled Past"
)

// Point is a 2-D pitch coordinate.
type Point struct{ X, Y float64 }

// Valid reports whether both coordinates are finite numbers.
func (p Point) Valid() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Event is one atomic in-match action. Events are read-only once decoded.
type Event struct {
	MatchID       int
	Index         int // 1-based position in the match's chronological sequence
	Period        int
	Timestamp     string
	Type          EventType
	Player        string // empty when the event has no acting player
	Team          string
	Location      *Point // nil when the provider did not record a location
	UnderPressure bool
	Payload       Payload // nil when the event type carries no detail object
}

// Payload is the type-specific detail of an event. It is a closed set:
// only the detail types in this package implement it.
type Payload interface {
	payload()
}

// PassDetail holds the optional attributes of a Pass event.
type PassDetail struct {
	EndLocation *Point
	Length      *float64
	Outcome     string // "" means the pass was completed
	Height      string // "Ground Pass", "Low Pass", "High Pass"
	Cross       bool
	Switch      bool
	ThroughBall bool
	CutBack     bool
	ShotAssist  bool
	GoalAssist  bool
}

// ShotDetail holds the optional attributes of a Shot event.
type ShotDetail struct {
	XG          *float64
	Outcome     string // "Goal", "Saved", "Blocked", "Off T", "Post", "Wayward", ...
	Type        string // "Open Play", "Free Kick", "Penalty", "Corner"
	BodyPart    string // "Right Foot", "Left Foot", "Head", "Other"
	FirstTime   bool
	OneOnOne    bool
	EndLocation *Point
}

// CarryDetail holds the optional attributes of a Carry event.
type CarryDetail struct {
	EndLocation *Point
}

// DribbleDetail holds the optional attributes of a Dribble event.
type DribbleDetail struct {
	Outcome     string // "Complete" or "Incomplete"
	Nutmeg      bool
	EndLocation *Point // rarely published; progressive dribbles need it
}

// DuelDetail holds the optional attributes of a Duel event.
type DuelDetail struct {
	Type    string // "Aerial Lost", "Tackle", ...
	Outcome string // "Won", "Lost", "Success In Play", ...
}

// GoalkeeperDetail holds the optional attributes of a Goal Keeper event.
type GoalkeeperDetail struct {
	Type string // "Shot Saved", "Punch", "Claim", "Smother", ...
}

// FoulDetail holds the optional attributes of Foul Committed and Bad Behaviour events.
type FoulDetail struct {
	Card string // "Yellow Card", "Second Yellow", "Red Card"
}

// PressureDetail holds the optional attributes of a Pressure event.
type PressureDetail struct {
	Counterpress bool
}

func (*PassDetail) payload()       {}
func (*ShotDetail) payload()       {}
func (*CarryDetail) payload()      {}
func (*DribbleDetail) payload()    {}
func (*DuelDetail) payload()       {}
func (*GoalkeeperDetail) payload() {}
func (*FoulDetail) payload()       {}
func (*PressureDetail) payload()   {}

// Pass returns the pass detail if the event carries one.
func (e *Event) Pass() (*PassDetail, bool) {
	d, ok := e.Payload.(*PassDetail)
	return d, ok && d != nil
}

// Shot returns the shot detail if the event carries one.
func (e *Event) Shot() (*ShotDetail, bool) {
	d, ok := e.Payload.(*ShotDetail)
	return d, ok && d != nil
}

// Carry returns the carry detail if the event carries one.
func (e *Event) Carry() (*CarryDetail, bool) {
	d, ok := e.Payload.(*CarryDetail)
	return d, ok && d != nil
}

// Dribble returns the dribble detail if the event carries one.
func (e *Event) Dribble() (*DribbleDetail, bool) {
	d, ok := e.Payload.(*DribbleDetail)
	return d, ok && d != nil
}

// Duel returns the duel detail if the event carries one.
func (e *Event) Duel() (*DuelDetail, bool) {
	d, ok := e.Payload.(*DuelDetail)
	return d, ok && d != nil
}

// Goalkeeper returns the goalkeeper detail if the event carries one.
func (e *Event) Goalkeeper() (*GoalkeeperDetail, bool) {
	d, ok := e.Payload.(*GoalkeeperDetail)
	return d, ok && d != nil
}

// Foul returns the foul/card detail if the event carries one.
func (e *Event) Foul() (*FoulDetail, bool) {
	d, ok := e.Payload.(*FoulDetail)
	return d, ok && d != nil
}

// Pressure returns the pressure detail if the event carries one.
func (e *Event) Pressure() (*PressureDetail, bool) {
	d, ok := e.Payload.(*PressureDetail)
	return d, ok && d != nil
}

// IssueKind distinguishes the ways a sub-metric can lose a contribution.
// A field that is simply absent is not an issue.
type IssueKind int

const (
	// IssueMalformed means a value was present but could not be read.
	IssueMalformed IssueKind = iota + 1
	// IssueComputation means a present value produced an unusable result.
	IssueComputation
)

func (k IssueKind) String() string {
	switch k {
	case IssueMalformed:
		return "malformed"
	case IssueComputation:
		return "computation"
	default:
		return "unknown"
	}
}

// Issue records one dropped contribution. The affected event is still
// counted for every sub-metric that did not depend on the bad value.
type Issue struct {
	MatchID    int
	EventIndex int
	Player     string
	Field      string
	Kind       IssueKind
	Err        error
}

func (i Issue) Error() string {
	if i.Err == nil {
		return i.Kind.String() + " " + i.Field
	}
	return i.Kind.String() + " " + i.Field + ": " + i.Err.Error()
}
