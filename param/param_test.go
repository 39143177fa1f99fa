package param_test

import (
	"testing"

	"github.com/katalvlaran/socp/param"
	"github.com/stretchr/testify/require"
)

// TestConstantArithmetic verifies the four basic operators over immediate
// constants evaluate to the expected arithmetic result.
func TestConstantArithmetic(t *testing.T) {
	a, b := param.Const(3), param.Const(4)

	sum, err := param.Add(a, b).Value()
	require.NoError(t, err)
	require.Equal(t, 7.0, sum)

	diff, err := param.Sub(a, b).Value()
	require.NoError(t, err)
	require.Equal(t, -1.0, diff)

	prod, err := param.Mul(a, b).Value()
	require.NoError(t, err)
	require.Equal(t, 12.0, prod)

	quot, err := param.Div(a, b).Value()
	require.NoError(t, err)
	require.Equal(t, 0.75, quot)
}

// TestDivideByZero ensures division failure surfaces only at Value() time.
func TestDivideByZero(t *testing.T) {
	expr := param.Div(param.Const(1), param.Const(0)) // construction never fails
	_, err := expr.Value()
	require.ErrorIs(t, err, param.ErrDivideByZero)
}

// TestSqrtNegative ensures sqrt of a negative operand reports ErrNegativeSqrt.
func TestSqrtNegative(t *testing.T) {
	_, err := param.Sqrt(param.Const(-4)).Value()
	require.ErrorIs(t, err, param.ErrNegativeSqrt)
}

// TestBoundTracksCell ensures a Bound parameter re-reads the caller's cell on
// every Value() call rather than snapshotting it at construction.
func TestBoundTracksCell(t *testing.T) {
	cell := 2.0
	p := param.Bound(&cell)

	v, err := p.Value()
	require.NoError(t, err)
	require.Equal(t, 2.0, v)

	cell = 5.0
	v, err = p.Value()
	require.NoError(t, err)
	require.Equal(t, 5.0, v)
}

// TestBoundSharedAcrossExpressions ensures one binding can appear in many
// expressions and still reflect a single live location.
func TestBoundSharedAcrossExpressions(t *testing.T) {
	cell := 1.0
	p := param.Bound(&cell)
	lhs := param.Add(p, param.Const(10))
	rhs := param.Mul(p, param.Const(3))

	cell = 4.0

	lv, err := lhs.Value()
	require.NoError(t, err)
	require.Equal(t, 14.0, lv)

	rv, err := rhs.Value()
	require.NoError(t, err)
	require.Equal(t, 12.0, rv)
}

// TestIsZeroIsOneConservative checks the conservative semantics spec.md §8
// demands: only immediate 0/1 constants qualify, never derived equalities.
func TestIsZeroIsOneConservative(t *testing.T) {
	require.True(t, param.Const(0).IsZero())
	require.False(t, param.Const(1e-300).IsZero())
	require.True(t, param.Const(1).IsOne())

	a := param.Const(3.0)
	diff := param.Sub(a, a) // evaluates to zero but is NOT Const(0)
	require.False(t, diff.IsZero())

	v, err := diff.Value()
	require.NoError(t, err)
	require.Equal(t, 0.0, v)
}
