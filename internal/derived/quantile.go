package derived

import "math"

// Quantile returns the p-quantile of sorted using linear interpolation
// between closest ranks: h = (n-1)p, then sorted[floor(h)] moved toward
// sorted[ceil(h)] by the fractional part of h. sorted must be in ascending
// order. An empty slice yields 0.
func Quantile(p float64, sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	p = math.Min(math.Max(p, 0), 1)
	h := float64(n-1) * p
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo])
}
