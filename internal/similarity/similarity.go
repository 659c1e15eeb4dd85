package similarity

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/pable/go-scout-metrics/internal/model"
)

// Method selects the similarity measure.
type Method string

const (
	Cosine    Method = "cosine"
	Euclidean Method = "euclidean" // 1 / (1 + distance)
	Combined  Method = "combined"  // 0.5 cosine + 0.3 euclidean + 0.2 neighbour rank
)

// ParseMethod validates a method name; "" means cosine.
func ParseMethod(s string) (Method, error) {
	switch m := Method(s); m {
	case "":
		return Cosine, nil
	case Cosine, Euclidean, Combined:
		return m, nil
	default:
		return "", fmt.Errorf("unknown similarity method %q", s)
	}
}

// Options configures a similarity, profile or clustering query.
type Options struct {
	Position   Position
	Features   []string // overrides Position when set
	Scaler     ScalerKind
	PCA        bool
	Method     Method
	TopN       int // <= 0 returns every candidate
	MinMatches int // candidates below this appearance count are skipped
	Exclude    []string
}

// DefaultOptions returns cosine similarity over the full feature set.
func DefaultOptions() Options {
	return Options{Position: PositionAll, Scaler: StandardScaler, Method: Cosine, TopN: 10}
}

func (o Options) features() []string {
	if len(o.Features) > 0 {
		return o.Features
	}
	return Features(o.Position)
}

// Match is one ranked candidate.
type Match struct {
	Player        string
	Team          string
	MatchesPlayed int
	Score         float64
}

// space is a table projected into a standardised (optionally reduced)
// feature space. Row i of points corresponds to table.Rows[i].
type space struct {
	table    *model.SeasonTable
	features []string
	scaler   scaler
	pca      projection
	usePCA   bool
	points   *mat.Dense
}

func newSpace(t *model.SeasonTable, features []string, opts Options) (*space, error) {
	if len(t.Rows) == 0 {
		return nil, ErrNoPlayers
	}
	fs := available(t, features)
	if len(fs) == 0 {
		return nil, ErrNoFeatures
	}
	raw := mat.NewDense(len(t.Rows), len(fs), nil)
	for i := range t.Rows {
		raw.SetRow(i, rowVector(&t.Rows[i], fs))
	}
	s := &space{table: t, features: fs, scaler: fitScaler(opts.Scaler, raw)}
	s.points = s.scaler.transformAll(raw)
	if opts.PCA {
		if p, ok := fitPCA(s.points); ok {
			s.pca, s.usePCA = p, true
			s.points = p.applyAll(s.points)
		}
	}
	return s, nil
}

func rowVector(r *model.SeasonRow, features []string) []float64 {
	v := make([]float64, len(features))
	for j, f := range features {
		v[j] = r.Get(f)
	}
	return v
}

// embed maps a raw feature vector into the space.
func (s *space) embed(raw []float64) []float64 {
	v := s.scaler.transform(raw)
	if s.usePCA {
		v = s.pca.apply(v)
	}
	return v
}

func (s *space) dims() int {
	_, c := s.points.Dims()
	return c
}

func cosine(a, b []float64) float64 {
	na, nb := floats.Norm(a, 2), floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return floats.Dot(a, b) / (na * nb)
}

// maxNeighbours bounds the neighbourhood used by the combined method.
const maxNeighbours = 15

// score compares a and b; knn is the neighbour term of b and is only used
// by the combined method.
func score(m Method, a, b []float64, knn float64) float64 {
	switch m {
	case Euclidean:
		return 1 / (1 + floats.Distance(a, b, 2))
	case Combined:
		return 0.5*cosine(a, b) + 0.3/(1+floats.Distance(a, b, 2)) + 0.2*knn
	default:
		return cosine(a, b)
	}
}

// neighbourTerms returns, for every point, 1 - d/dmax when the point is one
// of the min(15, n-1) nearest to target by cosine distance (target's own
// row included), and 0 otherwise. dmax is the distance of the farthest
// neighbour; when it is not positive every neighbour gets 1.
func (s *space) neighbourTerms(target []float64) []float64 {
	n, _ := s.points.Dims()
	terms := make([]float64, n)
	k := min(maxNeighbours, n-1)
	if k < 1 {
		return terms
	}
	dist := make([]float64, n)
	order := make([]int, n)
	for i := range n {
		dist[i] = max(0, 1-cosine(target, s.points.RawRowView(i)))
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int { return cmp.Compare(dist[a], dist[b]) })
	dmax := dist[order[k-1]]
	for _, i := range order[:k] {
		if dmax <= 0 {
			terms[i] = 1
			continue
		}
		terms[i] = 1 - dist[i]/dmax
	}
	return terms
}

// rank scores every eligible row against target and returns the best first.
// Ties are broken by player name so results are reproducible.
func (s *space) rank(target []float64, opts Options, scoreFn func(i int, v []float64) float64) []Match {
	excluded := make(map[string]bool, len(opts.Exclude))
	for _, p := range opts.Exclude {
		excluded[p] = true
	}
	var out []Match
	for i := range s.table.Rows {
		r := &s.table.Rows[i]
		if excluded[r.Player] || r.MatchesPlayed < opts.MinMatches {
			continue
		}
		v := scoreFn(i, s.points.RawRowView(i))
		if math.IsNaN(v) {
			v = 0
		}
		out = append(out, Match{Player: r.Player, Team: r.Team, MatchesPlayed: r.MatchesPlayed, Score: v})
	}
	slices.SortStableFunc(out, func(a, b Match) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Player, b.Player)
	})
	if opts.TopN > 0 && len(out) > opts.TopN {
		out = out[:opts.TopN]
	}
	return out
}

// SimilarTo ranks every other player by similarity to name. The player
// itself is always excluded, so a table holding only that player yields an
// empty, non-error result. Scores are similarities scaled by 100.
func SimilarTo(t *model.SeasonTable, name string, opts Options) ([]Match, error) {
	idx := slices.IndexFunc(t.Rows, func(r model.SeasonRow) bool { return r.Player == name })
	if idx < 0 {
		return nil, fmt.Errorf("%q: %w", name, ErrPlayerNotFound)
	}
	s, err := newSpace(t, opts.features(), opts)
	if err != nil {
		return nil, err
	}
	target := slices.Clone(s.points.RawRowView(idx))
	var knn []float64
	if opts.Method == Combined {
		knn = s.neighbourTerms(target)
	}
	opts.Exclude = append(slices.Clone(opts.Exclude), name)
	matches := s.rank(target, opts, func(i int, v []float64) float64 {
		var term float64
		if knn != nil {
			term = knn[i]
		}
		return 100 * score(opts.Method, target, v, term)
	})
	return matches, nil
}
