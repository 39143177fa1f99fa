package coneipm

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// This file implements the Jordan-algebra primitives second-order cone
// membership and complementarity rely on. A block of dimension 1 is treated
// as a degenerate SOC (a nonnegative-orthant row), so the rest of the solver
// never special-cases the positive-orthant block shape: blocks of size 1
// and blocks of size d >= 2 share the same det/arrow/product code.

// detForm returns a0^2 - ||abar||^2, the quadratic form whose positivity
// characterizes interior membership in the cone (for dim==1 this is just
// a0^2, i.e. a0 != 0).
func detForm(a []float64) float64 {
	sum := a[0] * a[0]
	for i := 1; i < len(a); i++ {
		sum -= a[i] * a[i]
	}
	return sum
}

// dotJ returns the bilinear form a0*b0 - abar.bbar associated with the cone
// (the "J-inner product"), used to expand det(s+alpha*d) as a quadratic in
// alpha.
func dotJ(a, b []float64) float64 {
	sum := a[0] * b[0]
	for i := 1; i < len(a); i++ {
		sum -= a[i] * b[i]
	}
	return sum
}

// jordanProduct returns a o b = (a.b, a0*bbar + b0*abar), the Jordan
// algebra's bilinear product for the second-order cone.
func jordanProduct(a, b []float64) []float64 {
	out := make([]float64, len(a))
	dot := 0.0
	for i := range a {
		dot += a[i] * b[i]
	}
	out[0] = dot
	for i := 1; i < len(a); i++ {
		out[i] = a[0]*b[i] + b[0]*a[i]
	}
	return out
}

// identityElement returns the Jordan algebra's multiplicative identity for a
// block of dimension d: (1, 0, ..., 0).
func identityElement(d int) []float64 {
	e := make([]float64, d)
	e[0] = 1
	return e
}

// arrowMatrix returns Arw(a), the d x d matrix representation of the Jordan
// product: Arw(a) * b == jordanProduct(a, b) for every b.
func arrowMatrix(a []float64) *mat.Dense {
	d := len(a)
	m := mat.NewDense(d, d, nil)
	m.Set(0, 0, a[0])
	for i := 1; i < d; i++ {
		m.Set(0, i, a[i])
		m.Set(i, 0, a[i])
		m.Set(i, i, a[0])
	}
	return m
}

// maxStepLength returns the largest alpha in [0, capAlpha] such that a + alpha*d
// remains in the closure of the cone (the block analogue of the LP ratio
// test). For dim==1 this is the familiar "-a0/d0 when d0<0" rule; for
// dim>1 it solves det(a+alpha*d) = 0 for its smallest non-negative root,
// since det(a+alpha d) = det(a) + 2*alpha*dotJ(a,d) + alpha^2*det(d) is
// quadratic in alpha.
func maxStepLength(a, d []float64, capAlpha float64) float64 {
	if len(a) == 1 {
		if d[0] >= 0 {
			return capAlpha
		}
		ratio := -a[0] / d[0]
		if ratio < capAlpha {
			return ratio
		}
		return capAlpha
	}

	qa := detForm(d)
	qb := 2 * dotJ(a, d)
	qc := detForm(a)

	alpha := capAlpha
	if qa == 0 {
		if qb < 0 {
			root := -qc / qb
			if root >= 0 && root < alpha {
				alpha = root
			}
		}
	} else {
		disc := qb*qb - 4*qa*qc
		if disc >= 0 {
			sq := math.Sqrt(disc)
			r1 := (-qb + sq) / (2 * qa)
			r2 := (-qb - sq) / (2 * qa)
			for _, r := range []float64{r1, r2} {
				if r >= 0 && r < alpha {
					alpha = r
				}
			}
		}
	}

	// also respect a0 + alpha*d0 > 0 for the leading coordinate.
	if d[0] < 0 {
		ratio := -a[0] / d[0]
		if ratio < alpha {
			alpha = ratio
		}
	}

	if alpha < 0 {
		return 0
	}
	return alpha
}
