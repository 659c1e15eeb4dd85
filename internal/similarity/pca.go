package similarity

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const (
	pcaVarianceKept = 0.95
	pcaMinFeatures  = 5 // reduction only applies above this many features
)

// projection maps standardised vectors onto the leading principal components.
type projection struct {
	mean    []float64
	vectors *mat.Dense // features x components
}

// fitPCA keeps the fewest components explaining at least 95% of the
// variance. It returns ok=false when reduction does not apply or the
// decomposition fails, in which case vectors are used unreduced.
func fitPCA(x *mat.Dense) (projection, bool) {
	r, c := x.Dims()
	if c <= pcaMinFeatures || r < 2 {
		return projection{}, false
	}
	var pc stat.PC
	if !pc.PrincipalComponents(x, nil) {
		return projection{}, false
	}
	vars := pc.VarsTo(nil)
	var total float64
	for _, v := range vars {
		total += v
	}
	if total == 0 {
		return projection{}, false
	}
	k, acc := 0, 0.0
	for k < len(vars) {
		acc += vars[k]
		k++
		if acc/total >= pcaVarianceKept {
			break
		}
	}

	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	vr, _ := vecs.Dims()
	p := projection{
		mean:    make([]float64, c),
		vectors: mat.DenseCopyOf(vecs.Slice(0, vr, 0, k)),
	}
	for j := 0; j < c; j++ {
		p.mean[j] = stat.Mean(mat.Col(nil, j, x), nil)
	}
	return p, true
}

// components returns the number of dimensions kept.
func (p projection) components() int {
	_, k := p.vectors.Dims()
	return k
}

func (p projection) apply(v []float64) []float64 {
	centred := make([]float64, len(v))
	for j := range v {
		centred[j] = v[j] - p.mean[j]
	}
	var out mat.VecDense
	out.MulVec(p.vectors.T(), mat.NewVecDense(len(centred), centred))
	return out.RawVector().Data
}

func (p projection) applyAll(x *mat.Dense) *mat.Dense {
	r, _ := x.Dims()
	out := mat.NewDense(r, p.components(), nil)
	for i := 0; i < r; i++ {
		out.SetRow(i, p.apply(x.RawRowView(i)))
	}
	return out
}
