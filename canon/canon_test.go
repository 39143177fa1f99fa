package canon_test

import (
	"testing"

	"github.com/katalvlaran/socp/affine"
	"github.com/katalvlaran/socp/canon"
	"github.com/katalvlaran/socp/constraint"
	"github.com/katalvlaran/socp/operr"
	"github.com/katalvlaran/socp/param"
	"github.com/katalvlaran/socp/scalar"
	"github.com/katalvlaran/socp/socp"
	"github.com/stretchr/testify/require"
)

func TestBuildSimpleLinearProgram(t *testing.T) {
	p := socp.New()
	grid, err := p.Registry.Create("x", 1, 2)
	require.NoError(t, err)
	x, y := grid[0][0], grid[0][1]

	xs := scalar.FromAffine(affine.FromTerm(affine.NewTerm(param.Const(1), x)))
	ys := scalar.FromAffine(affine.FromTerm(affine.NewTerm(param.Const(1), y)))

	p.AddMinimizationTerm(xs)
	p.AddConstraint(constraint.Equal(xs, scalar.Par(2)))
	le, err := constraint.LessEqual(ys, scalar.Par(3))
	require.NoError(t, err)
	p.AddConstraint(le)

	can, err := canon.Build(p)
	require.NoError(t, err)
	require.Equal(t, 2, can.NVariables)
	require.Equal(t, 1, can.NEqualities)
	require.Equal(t, 1, can.NPositive)
	require.Equal(t, 0, len(can.ConeDims))
	require.Equal(t, 1, can.NConicRows)

	require.NoError(t, can.Refresh())
	require.Equal(t, []float64{1, 0}, can.C)
	require.Equal(t, []float64{-2}, can.B) // b = constant of (x - 2), i.e. -2
	require.Equal(t, []float64{3}, can.H)  // h = constant of (3 - y)
}

func TestBuildRejectsNonlinearCost(t *testing.T) {
	p := socp.New()
	grid, err := p.Registry.Create("x", 1, 1)
	require.NoError(t, err)
	xs := scalar.FromAffine(affine.FromTerm(affine.NewTerm(param.Const(1), grid[0][0])))
	squared, err := xs.Mul(xs)
	require.NoError(t, err)

	p.AddMinimizationTerm(squared)

	_, err = canon.Build(p)
	require.ErrorIs(t, err, operr.ErrNonlinearCost)
}

func TestBuildSecondOrderConeRowCount(t *testing.T) {
	p := socp.New()
	grid, err := p.Registry.Create("v", 1, 2)
	require.NoError(t, err)
	x := scalar.FromAffine(affine.FromTerm(affine.NewTerm(param.Const(1), grid[0][0])))
	y := scalar.FromAffine(affine.FromTerm(affine.NewTerm(param.Const(1), grid[0][1])))

	xSq, err := x.Mul(x)
	require.NoError(t, err)
	ySq, err := y.Mul(y)
	require.NoError(t, err)
	sum, err := xSq.Add(ySq)
	require.NoError(t, err)
	norm, err := scalar.Sqrt(sum)
	require.NoError(t, err)

	le, err := constraint.LessEqual(norm, scalar.Par(10))
	require.NoError(t, err)
	p.AddConstraint(le)

	can, err := canon.Build(p)
	require.NoError(t, err)
	require.Equal(t, []int{3}, can.ConeDims) // 1 affine row + 2 norm rows
	require.Equal(t, 3, can.NConicRows)
}

func TestRefreshTracksBoundParameterChanges(t *testing.T) {
	p := socp.New()
	grid, err := p.Registry.Create("x", 1, 1)
	require.NoError(t, err)
	x := grid[0][0]

	cell := 5.0
	xs := scalar.FromAffine(affine.FromTerm(affine.NewTerm(param.Bound(&cell), x)))
	p.AddMinimizationTerm(xs)

	can, err := canon.Build(p)
	require.NoError(t, err)

	require.NoError(t, can.Refresh())
	require.Equal(t, []float64{5.0}, can.C)

	cell = 9.0
	require.NoError(t, can.Refresh())
	require.Equal(t, []float64{9.0}, can.C)
}
