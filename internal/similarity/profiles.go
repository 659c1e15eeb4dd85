package similarity

import (
	"fmt"
	"math"
	"slices"

	"github.com/pable/go-scout-metrics/internal/model"
)

// Roles are preset target profiles in season-table units.
var Roles = map[string]map[string]float64{
	"box_to_box": {
		"passes_per_90": 50, "pass_completion_rate": 85,
		"tackles_per_90": 2.5, "interceptions_per_90": 1.5,
		"goals_per_90": 0.15, "key_passes_per_90": 1.5,
	},
	"playmaker": {
		"passes_per_90": 70, "pass_completion_rate": 90,
		"key_passes_per_90": 3.0, "assists_per_90": 0.3,
	},
	"target_man": {
		"goals_per_90": 0.6, "xG_per_90": 0.5,
		"shots_per_90": 3.5, "shot_accuracy": 45,
	},
	"winger": {
		"goals_per_90": 0.4, "assists_per_90": 0.4,
		"dribbles_per_90": 4.0, "dribble_success_rate": 60,
	},
	"ball_winner": {
		"tackles_per_90": 4.0, "interceptions_per_90": 2.5,
	},
	"sweeper": {
		"passes_per_90": 60, "pass_completion_rate": 88,
		"clearances_per_90": 3.0, "interceptions_per_90": 2.0,
	},
}

// RoleNames returns the preset names in sorted order.
func RoleNames() []string {
	names := make([]string, 0, len(Roles))
	for n := range Roles {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// RoleProfile returns a copy of the named preset.
func RoleProfile(role string) (map[string]float64, error) {
	p, ok := Roles[role]
	if !ok {
		return nil, fmt.Errorf("%q: %w", role, ErrUnknownRole)
	}
	out := make(map[string]float64, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out, nil
}

// MatchProfile ranks players against a target profile. The feature set is
// opts.Features when given, otherwise the profile's own keys; features the
// profile does not mention target 0. The scaler is fitted on the whole
// table before the MinMatches filter is applied. Scores are
// clip(cosine * 100, 0, 100). A table without players yields an empty,
// non-error result.
func MatchProfile(t *model.SeasonTable, profile map[string]float64, opts Options) ([]Match, error) {
	if len(profile) == 0 {
		return nil, ErrEmptyProfile
	}
	if len(t.Rows) == 0 {
		return nil, nil
	}
	features := opts.Features
	if len(features) == 0 {
		for k := range profile {
			features = append(features, k)
		}
		slices.Sort(features)
	}
	s, err := newSpace(t, features, opts)
	if err != nil {
		return nil, err
	}
	raw := make([]float64, len(s.features))
	for j, f := range s.features {
		raw[j] = profile[f]
	}
	target := s.embed(raw)
	return s.rank(target, opts, func(_ int, v []float64) float64 {
		return math.Min(math.Max(cosine(target, v)*100, 0), 100)
	}), nil
}

// MatchRole ranks players against a preset role profile.
func MatchRole(t *model.SeasonTable, role string, opts Options) ([]Match, error) {
	p, err := RoleProfile(role)
	if err != nil {
		return nil, err
	}
	return MatchProfile(t, p, opts)
}

// Replacement ranks candidates to replace name: the target profile is the
// player's own feature values multiplied by upgrade, and the player is
// excluded from the results.
func Replacement(t *model.SeasonTable, name string, upgrade float64, opts Options) ([]Match, error) {
	r, ok := t.Find(name)
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrPlayerNotFound)
	}
	features := available(t, opts.features())
	if len(features) == 0 {
		return nil, ErrNoFeatures
	}
	profile := make(map[string]float64, len(features))
	for _, f := range features {
		profile[f] = r.Get(f) * upgrade
	}
	opts.Features = features
	opts.Exclude = append(slices.Clone(opts.Exclude), name)
	return MatchProfile(t, profile, opts)
}
