package similarity

import (
	"fmt"

	"github.com/pable/go-scout-metrics/internal/model"
)

// Assignment is one player's cluster membership. Labels carry no order or
// meaning beyond membership.
type Assignment struct {
	Player string
	Team   string
	Label  int
}

// ClusterSummary describes one cluster in original feature units.
type ClusterSummary struct {
	Label int
	Size  int
	Means map[string]float64
}

// ClusterResult is the outcome of a clustering query.
type ClusterResult struct {
	Features    []string
	Dimensions  int // after optional reduction
	Assignments []Assignment
	Clusters    []ClusterSummary
	Inertia     float64
}

// Cluster groups players with k-means over the standardised feature space.
// k larger than the number of players is clamped; an empty table yields an
// empty result. k below 1 is ErrInvalidK.
func Cluster(t *model.SeasonTable, k int, opts Options, km KMeansOptions) (ClusterResult, error) {
	if k < 1 {
		return ClusterResult{}, fmt.Errorf("k=%d: %w", k, ErrInvalidK)
	}
	if len(t.Rows) == 0 {
		return ClusterResult{}, nil
	}
	s, err := newSpace(t, opts.features(), opts)
	if err != nil {
		return ClusterResult{}, err
	}
	res := kmeans(s.points, k, km)

	out := ClusterResult{Features: s.features, Dimensions: s.dims(), Inertia: res.inertia}
	out.Clusters = make([]ClusterSummary, len(res.centroids))
	for c := range out.Clusters {
		out.Clusters[c] = ClusterSummary{Label: c, Means: make(map[string]float64, len(s.features))}
	}
	for i, label := range res.labels {
		r := &t.Rows[i]
		out.Assignments = append(out.Assignments, Assignment{Player: r.Player, Team: r.Team, Label: label})
		cs := &out.Clusters[label]
		cs.Size++
		for _, f := range s.features {
			cs.Means[f] += r.Get(f)
		}
	}
	for c := range out.Clusters {
		if n := out.Clusters[c].Size; n > 0 {
			for f := range out.Clusters[c].Means {
				out.Clusters[c].Means[f] /= float64(n)
			}
		}
	}
	return out, nil
}
