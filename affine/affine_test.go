package affine_test

import (
	"testing"

	"github.com/katalvlaran/socp/affine"
	"github.com/katalvlaran/socp/operr"
	"github.com/katalvlaran/socp/param"
	"github.com/katalvlaran/socp/variable"
	"github.com/stretchr/testify/require"
)

func registryWith(t *testing.T, values map[variable.Variable]float64) *variable.Registry {
	t.Helper()
	r := variable.NewRegistry()
	n := 0
	for v := range values {
		if v.Index()+1 > n {
			n = v.Index() + 1
		}
	}
	// force allocation of n slots by creating a dummy matrix of the right size
	_, err := r.Create("dummy", 1, n)
	require.NoError(t, err)
	r.ResizeSolution()
	sol := make([]float64, n)
	for v, val := range values {
		sol[v.Index()] = val
	}
	r.SetSolution(sol)
	return r
}

func TestAffineAddMergesLikeTerms(t *testing.T) {
	reg := variable.NewRegistry()
	grid, err := reg.Create("x", 1, 1)
	require.NoError(t, err)
	x := grid[0][0]

	a := affine.FromTerm(affine.NewTerm(param.Const(2), x))
	b := affine.FromTerm(affine.NewTerm(param.Const(3), x))

	sum := a.Add(b)
	require.Len(t, sum.Terms, 1)

	reg.ResizeSolution()
	reg.SetSolution([]float64{4})

	v, err := sum.Evaluate(reg)
	require.NoError(t, err)
	require.Equal(t, 20.0, v) // (2+3)*4
}

func TestAffineSubNegatesRHS(t *testing.T) {
	reg := variable.NewRegistry()
	grid, _ := reg.Create("x", 1, 2)
	x, y := grid[0][0], grid[0][1]

	a := affine.FromTerm(affine.NewTerm(param.Const(5), x))
	b := affine.FromTerm(affine.NewTerm(param.Const(2), y))

	diff := a.Sub(b)
	reg.ResizeSolution()
	reg.SetSolution([]float64{2, 3})

	v, err := diff.Evaluate(reg)
	require.NoError(t, err)
	require.Equal(t, 4.0, v) // 5*2 - 2*3
}

func TestAffineCleanDropsZeroTermsAndMerges(t *testing.T) {
	reg := variable.NewRegistry()
	grid, _ := reg.Create("x", 1, 1)
	x := grid[0][0]

	a := affine.Affine{
		Terms: []affine.Term{
			affine.NewTerm(param.Const(0), x),
			affine.NewTerm(param.Const(1), x),
			affine.NewTerm(param.Const(2), x),
		},
		Constant: param.Const(0),
	}

	cleaned := a.Clean()
	require.Len(t, cleaned.Terms, 1)
	require.Equal(t, x, cleaned.Terms[0].Variable)
}

func TestAffineMulRejectsTwoFirstOrder(t *testing.T) {
	reg := variable.NewRegistry()
	grid, _ := reg.Create("x", 1, 2)
	x, y := grid[0][0], grid[0][1]

	a := affine.FromTerm(affine.NewTerm(param.Const(1), x))
	b := affine.FromTerm(affine.NewTerm(param.Const(1), y))

	_, err := affine.Mul(a, b)
	require.ErrorIs(t, err, operr.ErrNonConvexProduct)
}

func TestAffineMulConstantScales(t *testing.T) {
	reg := variable.NewRegistry()
	grid, _ := reg.Create("x", 1, 1)
	x := grid[0][0]

	a := affine.FromTerm(affine.NewTerm(param.Const(3), x))
	c := affine.FromConstant(param.Const(2))

	prod, err := affine.Mul(a, c)
	require.NoError(t, err)

	reg.ResizeSolution()
	reg.SetSolution([]float64{5})

	v, err := prod.Evaluate(reg)
	require.NoError(t, err)
	require.Equal(t, 30.0, v) // 3*2*5
}
