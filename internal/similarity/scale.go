package similarity

import (
	"slices"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/pable/go-scout-metrics/internal/derived"
)

// ScalerKind selects how feature columns are standardised.
type ScalerKind string

const (
	StandardScaler ScalerKind = "standard" // mean / population standard deviation
	RobustScaler   ScalerKind = "robust"   // median / interquartile range
)

// scaler centres and scales each column; a zero spread is treated as 1.
type scaler struct {
	center []float64
	spread []float64
}

func fitScaler(kind ScalerKind, x *mat.Dense) scaler {
	_, c := x.Dims()
	s := scaler{center: make([]float64, c), spread: make([]float64, c)}
	for j := 0; j < c; j++ {
		col := mat.Col(nil, j, x)
		switch kind {
		case RobustScaler:
			slices.Sort(col)
			s.center[j] = derived.Quantile(0.5, col)
			s.spread[j] = derived.Quantile(0.75, col) - derived.Quantile(0.25, col)
		default:
			s.center[j], s.spread[j] = stat.PopMeanStdDev(col, nil)
		}
		if s.spread[j] == 0 {
			s.spread[j] = 1
		}
	}
	return s
}

func (s scaler) transform(v []float64) []float64 {
	out := make([]float64, len(v))
	for j := range v {
		out[j] = (v[j] - s.center[j]) / s.spread[j]
	}
	return out
}

func (s scaler) transformAll(x *mat.Dense) *mat.Dense {
	r, c := x.Dims()
	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		out.SetRow(i, s.transform(x.RawRowView(i)))
	}
	return out
}
