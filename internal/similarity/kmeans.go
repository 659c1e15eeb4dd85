package similarity

import (
	"math"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// KMeansOptions tunes the partitioning.
type KMeansOptions struct {
	Seed    uint64
	NInit   int // independent restarts; the lowest inertia wins
	MaxIter int
}

// DefaultKMeansOptions mirrors the usual library defaults with a fixed seed.
func DefaultKMeansOptions() KMeansOptions {
	return KMeansOptions{Seed: 42, NInit: 10, MaxIter: 300}
}

// kmeansResult is one partition of the rows of a matrix.
type kmeansResult struct {
	labels    []int
	centroids [][]float64
	inertia   float64
}

// kmeans partitions the rows of x into k groups using k-means++ seeding.
// k is clamped to the number of rows. The same seed always yields the same
// partition.
func kmeans(x *mat.Dense, k int, opts KMeansOptions) kmeansResult {
	n, _ := x.Dims()
	if n == 0 || k <= 0 {
		return kmeansResult{}
	}
	k = min(k, n)
	if opts.NInit < 1 {
		opts.NInit = 1
	}
	if opts.MaxIter < 1 {
		opts.MaxIter = 300
	}
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))

	var best kmeansResult
	for run := 0; run < opts.NInit; run++ {
		res := lloyd(x, seedPlusPlus(x, k, rng), opts.MaxIter)
		if run == 0 || res.inertia < best.inertia {
			best = res
		}
	}
	return best
}

// seedPlusPlus picks k initial centroids, each new one sampled with
// probability proportional to its squared distance from the nearest chosen.
func seedPlusPlus(x *mat.Dense, k int, rng *rand.Rand) [][]float64 {
	n, _ := x.Dims()
	centroids := [][]float64{slices.Clone(x.RawRowView(rng.IntN(n)))}
	d2 := make([]float64, n)
	for len(centroids) < k {
		var total float64
		for i := 0; i < n; i++ {
			d2[i] = nearest(x.RawRowView(i), centroids).dist
			total += d2[i]
		}
		if total == 0 {
			// Every row coincides with a centroid; duplicate the first.
			centroids = append(centroids, slices.Clone(centroids[0]))
			continue
		}
		target := rng.Float64() * total
		pick := n - 1
		for i, d := range d2 {
			target -= d
			if target < 0 {
				pick = i
				break
			}
		}
		centroids = append(centroids, slices.Clone(x.RawRowView(pick)))
	}
	return centroids
}

type assignment struct {
	label int
	dist  float64 // squared distance
}

func nearest(v []float64, centroids [][]float64) assignment {
	best := assignment{label: -1, dist: math.Inf(1)}
	for c, cen := range centroids {
		d := floats.Distance(v, cen, 2)
		if d*d < best.dist {
			best = assignment{label: c, dist: d * d}
		}
	}
	return best
}

// lloyd alternates assignment and centroid update until labels are stable.
func lloyd(x *mat.Dense, centroids [][]float64, maxIter int) kmeansResult {
	n, dim := x.Dims()
	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}
	var inertia float64
	for iter := 0; iter < maxIter; iter++ {
		changed := false
		inertia = 0
		for i := 0; i < n; i++ {
			a := nearest(x.RawRowView(i), centroids)
			if a.label != labels[i] {
				labels[i] = a.label
				changed = true
			}
			inertia += a.dist
		}
		if !changed {
			break
		}
		sums := make([][]float64, len(centroids))
		counts := make([]int, len(centroids))
		for c := range sums {
			sums[c] = make([]float64, dim)
		}
		for i := 0; i < n; i++ {
			floats.Add(sums[labels[i]], x.RawRowView(i))
			counts[labels[i]]++
		}
		for c := range centroids {
			if counts[c] == 0 {
				continue // empty cluster keeps its previous centroid
			}
			floats.Scale(1/float64(counts[c]), sums[c])
			centroids[c] = sums[c]
		}
	}
	return kmeansResult{labels: labels, centroids: centroids, inertia: inertia}
}
