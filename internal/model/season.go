package model

import "math"

// MatchRow is the flattened, persisted form of one per-match player record.
// The column set is whatever the extractor variant emitted.
type MatchRow struct {
	MatchID int
	Player  string
	Team    string
	Columns []Column
}

// SeasonRow is one (player, team) aggregate within a competition+season.
type SeasonRow struct {
	Player        string
	Team          string
	MatchesPlayed int
	Values        map[string]float64
}

// Value returns the named column and whether it is present.
func (r *SeasonRow) Value(name string) (float64, bool) {
	if name == "matches_played" {
		return float64(r.MatchesPlayed), true
	}
	v, ok := r.Values[name]
	return v, ok
}

// Get returns the named column, or 0 when it is missing or not a number.
func (r *SeasonRow) Get(name string) float64 {
	v, ok := r.Value(name)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Set stores a column value, allocating the map on first use.
func (r *SeasonRow) Set(name string, v float64) {
	if r.Values == nil {
		r.Values = make(map[string]float64)
	}
	r.Values[name] = v
}

// SeasonTable is the primary in-memory output: rows ordered by (player, team),
// columns in discovery order followed by per-90, ratio and derived columns.
type SeasonTable struct {
	Columns []string
	Rows    []SeasonRow
}

// HasColumn reports whether name is part of the table schema.
func (t *SeasonTable) HasColumn(name string) bool {
	if name == "matches_played" {
		return true
	}
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// AddColumn appends name to the schema unless it is already present.
func (t *SeasonTable) AddColumn(name string) {
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
}

// Find returns the first row for player (any team).
func (t *SeasonTable) Find(player string) (*SeasonRow, bool) {
	for i := range t.Rows {
		if t.Rows[i].Player == player {
			return &t.Rows[i], true
		}
	}
	return nil, false
}

// Column returns the named column for every row, in row order.
func (t *SeasonTable) Column(name string) []float64 {
	out := make([]float64, len(t.Rows))
	for i := range t.Rows {
		out[i] = t.Rows[i].Get(name)
	}
	return out
}

// ---- Provider catalog records ----

// Competition is one (competition, season) pair offered by the provider.
type Competition struct {
	CompetitionID   int
	SeasonID        int
	CompetitionName string
	SeasonName      string
	CountryName     string
	Gender          string
}

// MatchInfo is the fixture metadata listed per competition+season.
type MatchInfo struct {
	MatchID       int
	CompetitionID int
	SeasonID      int
	MatchDate     string
	HomeTeam      string
	AwayTeam      string
	HomeScore     int
	AwayScore     int
}
