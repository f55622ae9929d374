package policy

import "math"

// #region adam

// adam is a standard Adam optimizer over a fixed set of parameter tensors.
type adam struct {
	lr    float64
	beta1 float64
	beta2 float64
	eps   float64
	t     int

	m [][]float64 // first moments, one slice per tensor
	v [][]float64 // second moments
}

// newAdam allocates moment buffers for tensors of the given lengths.
func newAdam(lr float64, lengths ...int) *adam {
	a := &adam{
		lr:    lr,
		beta1: 0.9,
		beta2: 0.999,
		eps:   1e-8,
		m:     make([][]float64, len(lengths)),
		v:     make([][]float64, len(lengths)),
	}
	for i, n := range lengths {
		a.m[i] = make([]float64, n)
		a.v[i] = make([]float64, n)
	}
	return a
}

// step applies one bias-corrected Adam update. params and grads must match
// the tensor layout given at construction.
func (a *adam) step(params, grads [][]float64) {
	a.t++
	c1 := 1 - math.Pow(a.beta1, float64(a.t))
	c2 := 1 - math.Pow(a.beta2, float64(a.t))

	for ti := range params {
		p, g := params[ti], grads[ti]
		m, v := a.m[ti], a.v[ti]
		for i := range p {
			m[i] = a.beta1*m[i] + (1-a.beta1)*g[i]
			v[i] = a.beta2*v[i] + (1-a.beta2)*g[i]*g[i]
			mHat := m[i] / c1
			vHat := v[i] / c2
			p[i] -= a.lr * mHat / (math.Sqrt(vHat) + a.eps)
		}
	}
}

// #endregion adam
