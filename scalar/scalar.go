// Package scalar implements Scalar, the quadratic-capable expression type
// described in spec.md §4.3: an Affine part, a list of higher-order slots
// (squares or products of two Affines), and a Boolean sqrt flag marking a
// reconstructed Euclidean-norm form.
package scalar

import (
	"reflect"
	"strings"

	"github.com/katalvlaran/socp/affine"
	"github.com/katalvlaran/socp/operr"
	"github.com/katalvlaran/socp/param"
)

// HigherOrderSlot is either a single Affine (meaning "squared") when B is nil,
// or a pair of Affines (meaning "product") when B is non-nil.
type HigherOrderSlot struct {
	A affine.Affine
	B *affine.Affine
}

// IsSquare reports whether the slot represents A*A rather than A*B.
func (s HigherOrderSlot) IsSquare() bool { return s.B == nil }

// Scalar is the affine part plus zero or more higher-order slots plus a sqrt
// marker. The zero Scalar is the constant zero.
type Scalar struct {
	Affine affine.Affine
	Higher []HigherOrderSlot
	Sqrt   bool
}

// Par wraps an immediate constant as a Scalar.
func Par(value float64) Scalar {
	return Scalar{Affine: affine.FromConstant(param.Const(value))}
}

// DynPar wraps an externally owned cell as a Scalar, re-read on every solve.
func DynPar(cell *float64) Scalar {
	return Scalar{Affine: affine.FromConstant(param.Bound(cell))}
}

// FromAffine lifts an Affine to a (first-order or constant) Scalar.
func FromAffine(a affine.Affine) Scalar {
	return Scalar{Affine: a}
}

// Order reports 0 for constant, 1 for first-order-affine-only, 2 otherwise.
// Both terms-empty cases (zero constant and nonzero constant) are order 0 —
// the resolution of spec.md §9.1's Scalar::getOrder ambiguity.
func (s Scalar) Order() int {
	if len(s.Higher) > 0 {
		return 2
	}
	if s.Affine.IsFirstOrder() {
		return 1
	}
	return 0
}

// IsNormForm reports whether s is a valid left-hand side of a second-order
// cone constraint: sqrt is set, the affine part is constant, and every
// higher-order slot is a square.
func (s Scalar) IsNormForm() bool {
	if !s.Sqrt {
		return false
	}
	if !s.Affine.IsConstant() {
		return false
	}
	for _, slot := range s.Higher {
		if !slot.IsSquare() {
			return false
		}
	}
	return true
}

// Norm2 builds the norm-form √(Σ termᵢ²) directly, the supplemented
// constructor behind the modeling layer's norm2() helper (spec.md §6).
func Norm2(terms []affine.Affine) Scalar {
	higher := make([]HigherOrderSlot, len(terms))
	for i, t := range terms {
		higher[i] = HigherOrderSlot{A: t}
	}
	return Scalar{Affine: affine.Zero(), Higher: higher, Sqrt: true}
}

// Add concatenates higher-order slots and adds affine parts. ConfigError if
// either operand is already a norm-form (spec.md §4.3).
func (s Scalar) Add(other Scalar) (Scalar, error) {
	if s.Sqrt || other.Sqrt {
		return Scalar{}, operr.Wrap("Scalar.Add", operr.ErrNormAddition)
	}
	higher := make([]HigherOrderSlot, 0, len(s.Higher)+len(other.Higher))
	higher = append(higher, s.Higher...)
	higher = append(higher, other.Higher...)
	return Scalar{Affine: s.Affine.Add(other.Affine), Higher: higher}, nil
}

// Sub subtracts other from s. ConfigError if other has order > 1.
func (s Scalar) Sub(other Scalar) (Scalar, error) {
	if other.Order() > 1 {
		return Scalar{}, operr.Wrap("Scalar.Sub", operr.ErrHigherOrderSub)
	}
	return Scalar{
		Affine: s.Affine.Sub(other.Affine),
		Higher: s.Higher,
		Sqrt:   s.Sqrt,
	}, nil
}

// Mul multiplies two Scalars. Legal only when both operands have order <= 1
// and neither is a norm-form. Two first-order operands are promoted to a
// single higher-order slot: squared when the two Affines are structurally
// identical (x*x), a product pair otherwise (x*y).
func (s Scalar) Mul(other Scalar) (Scalar, error) {
	if s.Order() > 1 || other.Order() > 1 || s.Sqrt || other.Sqrt {
		return Scalar{}, operr.Wrap("Scalar.Mul", operr.ErrHigherOrderMul)
	}

	if s.Affine.IsConstant() || other.Affine.IsConstant() {
		product, err := affine.Mul(s.Affine, other.Affine)
		if err != nil {
			return Scalar{}, operr.Wrap("Scalar.Mul", err)
		}
		return Scalar{Affine: product}, nil
	}

	if affinesEqual(s.Affine, other.Affine) {
		return Scalar{Affine: affine.Zero(), Higher: []HigherOrderSlot{{A: s.Affine}}}, nil
	}

	rhs := other.Affine
	return Scalar{Affine: affine.Zero(), Higher: []HigherOrderSlot{{A: s.Affine, B: &rhs}}}, nil
}

// Sqrt returns a copy of s with the sqrt flag set. Legal only when the affine
// part is constant and every higher-order slot is a square (spec.md §4.3).
func Sqrt(s Scalar) (Scalar, error) {
	if !s.Affine.IsConstant() {
		return Scalar{}, operr.Wrap("scalar.Sqrt", operr.ErrInvalidSqrt)
	}
	for _, slot := range s.Higher {
		if !slot.IsSquare() {
			return Scalar{}, operr.Wrap("scalar.Sqrt", operr.ErrInvalidSqrt)
		}
	}
	return Scalar{Affine: s.Affine, Higher: s.Higher, Sqrt: true}, nil
}

// affinesEqual reports structural equality, used only to decide squared-vs-
// product when multiplying two first-order Scalars built from the same
// Affine value.
func affinesEqual(a, b affine.Affine) bool {
	return reflect.DeepEqual(a, b)
}

func (s Scalar) String() string {
	var sb strings.Builder
	sb.WriteString(s.Affine.String())
	for _, slot := range s.Higher {
		sb.WriteString(" + ")
		if slot.IsSquare() {
			sb.WriteString("(" + slot.A.String() + ")^2")
		} else {
			sb.WriteString("(" + slot.A.String() + ")*(" + slot.B.String() + ")")
		}
	}
	if s.Sqrt {
		return "sqrt(" + sb.String() + ")"
	}
	return sb.String()
}
