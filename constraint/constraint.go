// Package constraint implements the Constraint tagged union and the
// relational builders of spec.md §4.4: Equality, Positive, and
// SecondOrderCone, each carrying only Affines (no higher-order terms).
package constraint

import (
	"fmt"

	"github.com/katalvlaran/socp/affine"
	"github.com/katalvlaran/socp/operr"
	"github.com/katalvlaran/socp/scalar"
)

// Kind distinguishes the three Constraint variants.
type Kind int

const (
	// KindEquality represents Equality{Affine} (Affine == 0).
	KindEquality Kind = iota
	// KindPositive represents Positive{Affine} (Affine >= 0).
	KindPositive
	// KindSecondOrderCone represents SecondOrderCone{Norm, Affine}
	// (‖Norm‖₂ <= Affine).
	KindSecondOrderCone
)

func (k Kind) String() string {
	switch k {
	case KindEquality:
		return "Equality"
	case KindPositive:
		return "Positive"
	case KindSecondOrderCone:
		return "SecondOrderCone"
	default:
		return "Unknown"
	}
}

// Constraint is the tagged union Equality{aff} | Positive{aff} |
// SecondOrderCone{norm, aff}. Norm is populated only for KindSecondOrderCone.
type Constraint struct {
	Kind   Kind
	Affine affine.Affine
	Norm   []affine.Affine
}

func equality(a affine.Affine) Constraint {
	return Constraint{Kind: KindEquality, Affine: a}
}

func positive(a affine.Affine) Constraint {
	return Constraint{Kind: KindPositive, Affine: a}
}

func secondOrderCone(norm []affine.Affine, a affine.Affine) Constraint {
	return Constraint{Kind: KindSecondOrderCone, Norm: norm, Affine: a}
}

// normArguments extracts the square-root arguments of a norm-form Scalar
// (the Affine inside each of its higher-order square slots), used to build
// the SecondOrderCone's Norm list.
func normArguments(s scalar.Scalar) []affine.Affine {
	out := make([]affine.Affine, len(s.Higher))
	for i, slot := range s.Higher {
		out[i] = slot.A
	}
	return out
}

// Equal yields Equality{lhs.affine - rhs.affine}, regardless of either
// operand's order (the affine parts alone participate; higher-order slots on
// either side are meaningless for an equality and are ignored, matching the
// original's AffineExpression-only Equality variant).
func Equal(lhs, rhs scalar.Scalar) Constraint {
	return equality(lhs.Affine.Sub(rhs.Affine))
}

// LessEqual yields Positive{rhs.affine - lhs.affine} when lhs has order <= 1,
// or SecondOrderCone{norm: squares of lhs, aff: rhs.affine - lhs.affine} when
// lhs is a norm-form. Any other shape (a bare quadratic lhs with no sqrt, or a
// norm-form rhs) is ConfigError.
func LessEqual(lhs, rhs scalar.Scalar) (Constraint, error) {
	if rhs.Order() > 1 || rhs.Sqrt {
		return Constraint{}, operr.Wrap("constraint.LessEqual", operr.ErrUnsupportedConstraint)
	}
	if lhs.Order() <= 1 {
		return positive(rhs.Affine.Sub(lhs.Affine)), nil
	}
	if lhs.IsNormForm() {
		return secondOrderCone(normArguments(lhs), rhs.Affine.Sub(lhs.Affine)), nil
	}
	return Constraint{}, operr.Wrap("constraint.LessEqual", operr.ErrUnsupportedConstraint)
}

// GreaterEqual is LessEqual with its arguments swapped.
func GreaterEqual(lhs, rhs scalar.Scalar) (Constraint, error) {
	return LessEqual(rhs, lhs)
}

// MatrixEqual broadcasts Equal over two matrices of identical shape, or a
// scalar against every cell of a matrix.
func MatrixEqual(lhs, rhs *scalar.Matrix) ([]Constraint, error) {
	return broadcast(lhs, rhs, func(l, r scalar.Scalar) (Constraint, error) {
		return Equal(l, r), nil
	})
}

// MatrixLessEqual broadcasts LessEqual over two matrices.
func MatrixLessEqual(lhs, rhs *scalar.Matrix) ([]Constraint, error) {
	return broadcast(lhs, rhs, LessEqual)
}

// MatrixGreaterEqual broadcasts GreaterEqual over two matrices.
func MatrixGreaterEqual(lhs, rhs *scalar.Matrix) ([]Constraint, error) {
	return broadcast(lhs, rhs, GreaterEqual)
}

// broadcast applies op cell-wise. A 1x1 operand broadcasts against any shape
// on the other side; otherwise shapes must match exactly (spec.md §4.4).
func broadcast(lhs, rhs *scalar.Matrix, op func(l, r scalar.Scalar) (Constraint, error)) ([]Constraint, error) {
	lhsScalar := lhs.Rows() == 1 && lhs.Cols() == 1
	rhsScalar := rhs.Rows() == 1 && rhs.Cols() == 1

	rows, cols := lhs.Rows(), lhs.Cols()
	if lhsScalar {
		rows, cols = rhs.Rows(), rhs.Cols()
	}
	if !lhsScalar && !rhsScalar && (lhs.Rows() != rhs.Rows() || lhs.Cols() != rhs.Cols()) {
		return nil, operr.Wrapf("constraint.broadcast", "%dx%d vs %dx%d", operr.ErrShapeMismatch, lhs.Rows(), lhs.Cols(), rhs.Rows(), rhs.Cols())
	}

	out := make([]Constraint, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			l, err := cellAt(lhs, i, j, lhsScalar)
			if err != nil {
				return nil, err
			}
			r, err := cellAt(rhs, i, j, rhsScalar)
			if err != nil {
				return nil, err
			}
			c, err := op(l, r)
			if err != nil {
				return nil, operr.Wrap("constraint.broadcast", err)
			}
			out = append(out, c)
		}
	}
	return out, nil
}

func cellAt(m *scalar.Matrix, i, j int, isScalar bool) (scalar.Scalar, error) {
	if isScalar {
		return m.At(0, 0)
	}
	return m.At(i, j)
}

func (c Constraint) String() string {
	switch c.Kind {
	case KindEquality:
		return fmt.Sprintf("%s == 0", c.Affine.String())
	case KindPositive:
		return fmt.Sprintf("%s >= 0", c.Affine.String())
	case KindSecondOrderCone:
		norms := ""
		for i, n := range c.Norm {
			if i > 0 {
				norms += ", "
			}
			norms += n.String()
		}
		return fmt.Sprintf("||[%s]||_2 <= %s", norms, c.Affine.String())
	default:
		return "invalid constraint"
	}
}
