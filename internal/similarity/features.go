// Package similarity ranks and groups players in a standardised feature space.
package similarity

import (
	"errors"
	"fmt"
	"slices"

	"github.com/pable/go-scout-metrics/internal/model"
)

var (
	// ErrPlayerNotFound means the queried player is not in the table. It is
	// distinct from a query that simply has no other players to rank.
	ErrPlayerNotFound = errors.New("player not found")
	// ErrUnknownRole means a role preset name is not recognised.
	ErrUnknownRole = errors.New("unknown role")
	// ErrNoFeatures means none of the requested feature columns exist.
	ErrNoFeatures = errors.New("no usable feature columns")
	// ErrEmptyProfile means a profile query carried no target values.
	ErrEmptyProfile = errors.New("empty profile")
	// ErrNoPlayers means the table has a schema but no rows to compare.
	ErrNoPlayers = errors.New("no players in table")
	// ErrInvalidK means a clustering query asked for fewer than one cluster.
	ErrInvalidK = errors.New("cluster count must be positive")
)

// Position selects a feature set.
type Position string

const (
	PositionAll        Position = "all"
	PositionForward    Position = "forward"
	PositionMidfielder Position = "midfielder"
	PositionDefender   Position = "defender"
)

var baseFeatures = []string{"passes_per_90", "pass_completion_rate"}

var featureSets = map[Position][]string{
	PositionForward: append(slices.Clone(baseFeatures),
		"goals_per_90", "xG_per_90", "shots_per_90", "shot_accuracy", "key_passes_per_90", "dribbles_per_90"),
	PositionMidfielder: append(slices.Clone(baseFeatures),
		"key_passes_per_90", "assists_per_90", "tackles_per_90", "interceptions_per_90", "dribbles_per_90"),
	PositionDefender: append(slices.Clone(baseFeatures),
		"tackles_per_90", "interceptions_per_90", "clearances_per_90", "blocks_per_90"),
	PositionAll: {
		"passes_per_90", "pass_completion_rate", "goals_per_90", "xG_per_90",
		"assists_per_90", "key_passes_per_90", "shots_per_90", "tackles_per_90",
		"interceptions_per_90", "dribbles_per_90", "dribble_success_rate",
	},
}

// Features returns the feature columns used for a position. Unknown
// positions fall back to the full set.
func Features(p Position) []string {
	fs, ok := featureSets[p]
	if !ok {
		fs = featureSets[PositionAll]
	}
	return slices.Clone(fs)
}

// ParsePosition validates a position name; "" means all.
func ParsePosition(s string) (Position, error) {
	if s == "" {
		return PositionAll, nil
	}
	p := Position(s)
	if _, ok := featureSets[p]; !ok {
		return "", fmt.Errorf("unknown position %q (want forward, midfielder, defender or all)", s)
	}
	return p, nil
}

// available keeps the features that are part of the table schema.
func available(t *model.SeasonTable, features []string) []string {
	var out []string
	for _, f := range features {
		if t.HasColumn(f) {
			out = append(out, f)
		}
	}
	return out
}
