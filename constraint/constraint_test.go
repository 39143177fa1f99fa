package constraint_test

import (
	"testing"

	"github.com/katalvlaran/socp/affine"
	"github.com/katalvlaran/socp/constraint"
	"github.com/katalvlaran/socp/operr"
	"github.com/katalvlaran/socp/param"
	"github.com/katalvlaran/socp/scalar"
	"github.com/katalvlaran/socp/variable"
	"github.com/stretchr/testify/require"
)

func firstOrder(t *testing.T, reg *variable.Registry, name string, coeff float64) scalar.Scalar {
	t.Helper()
	grid, err := reg.Create(name, 1, 1)
	require.NoError(t, err)
	return scalar.FromAffine(affine.FromTerm(affine.NewTerm(param.Const(coeff), grid[0][0])))
}

func TestEqualBuildsEquality(t *testing.T) {
	reg := variable.NewRegistry()
	x := firstOrder(t, reg, "x", 1)
	y := firstOrder(t, reg, "y", 1)

	c := constraint.Equal(x, y)
	require.Equal(t, constraint.KindEquality, c.Kind)
}

func TestLessEqualLinearYieldsPositive(t *testing.T) {
	reg := variable.NewRegistry()
	x := firstOrder(t, reg, "x", 1)
	bound := scalar.Par(5)

	c, err := constraint.LessEqual(x, bound)
	require.NoError(t, err)
	require.Equal(t, constraint.KindPositive, c.Kind)
}

func TestLessEqualNormFormYieldsCone(t *testing.T) {
	reg := variable.NewRegistry()
	x := firstOrder(t, reg, "x", 1)
	y := firstOrder(t, reg, "y", 1)

	xSq, err := x.Mul(x)
	require.NoError(t, err)
	ySq, err := y.Mul(y)
	require.NoError(t, err)
	sum, err := xSq.Add(ySq)
	require.NoError(t, err)
	norm, err := scalar.Sqrt(sum)
	require.NoError(t, err)

	bound := scalar.Par(10)
	c, err := constraint.LessEqual(norm, bound)
	require.NoError(t, err)
	require.Equal(t, constraint.KindSecondOrderCone, c.Kind)
	require.Len(t, c.Norm, 2)
}

func TestLessEqualRejectsBareQuadratic(t *testing.T) {
	reg := variable.NewRegistry()
	x := firstOrder(t, reg, "x", 1)
	xSq, err := x.Mul(x)
	require.NoError(t, err)

	_, err = constraint.LessEqual(xSq, scalar.Par(1))
	require.ErrorIs(t, err, operr.ErrUnsupportedConstraint)
}

func TestGreaterEqualSwapsArguments(t *testing.T) {
	reg := variable.NewRegistry()
	x := firstOrder(t, reg, "x", 1)
	bound := scalar.Par(5)

	c, err := constraint.GreaterEqual(bound, x)
	require.NoError(t, err)
	require.Equal(t, constraint.KindPositive, c.Kind)
}

func TestMatrixBroadcastScalarOverGrid(t *testing.T) {
	reg := variable.NewRegistry()
	grid, err := reg.Create("x", 2, 2)
	require.NoError(t, err)

	m, err := scalar.NewMatrix(2, 2)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			require.NoError(t, m.Set(i, j, scalar.FromAffine(affine.FromTerm(affine.NewTerm(param.Const(1), grid[i][j])))))
		}
	}

	bound, err := scalar.NewMatrix(1, 1)
	require.NoError(t, err)
	require.NoError(t, bound.Set(0, 0, scalar.Par(1)))

	cs, err := constraint.MatrixLessEqual(m, bound)
	require.NoError(t, err)
	require.Len(t, cs, 4)
}

func TestMatrixShapeMismatchRejected(t *testing.T) {
	a, err := scalar.NewMatrix(2, 2)
	require.NoError(t, err)
	b, err := scalar.NewMatrix(3, 3)
	require.NoError(t, err)

	_, err = constraint.MatrixEqual(a, b)
	require.ErrorIs(t, err, operr.ErrShapeMismatch)
}
