package scalar_test

import (
	"testing"

	"github.com/katalvlaran/socp/operr"
	"github.com/katalvlaran/socp/param"
	"github.com/katalvlaran/socp/scalar"
	"github.com/stretchr/testify/require"
)

// constVal reads the constant value of a Scalar built from Par (no
// variables involved, so a nil registry is safe).
func constVal(t *testing.T, s scalar.Scalar) float64 {
	t.Helper()
	v, err := s.Affine.Evaluate(nil)
	require.NoError(t, err)
	return v
}

func grid2x2(t *testing.T) *scalar.Matrix {
	t.Helper()
	m, err := scalar.NewMatrix(2, 2)
	require.NoError(t, err)
	vals := [2][2]float64{{1, 2}, {3, 4}}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			require.NoError(t, m.Set(i, j, scalar.Par(vals[i][j])))
		}
	}
	return m
}

func TestMatrixScalarMul(t *testing.T) {
	m := grid2x2(t)
	scaled := m.ScalarMul(param.Const(2))

	v, err := scaled.At(0, 0)
	require.NoError(t, err)
	require.Equal(t, 2.0, constVal(t, v))

	v, err = scaled.At(1, 1)
	require.NoError(t, err)
	require.Equal(t, 8.0, constVal(t, v))
}

func TestMatrixTranspose(t *testing.T) {
	m := grid2x2(t)
	tr := m.Transpose()

	require.Equal(t, 2, tr.Rows())
	require.Equal(t, 2, tr.Cols())

	orig, err := m.At(0, 1)
	require.NoError(t, err)
	flipped, err := tr.At(1, 0)
	require.NoError(t, err)
	require.Equal(t, constVal(t, orig), constVal(t, flipped))
}

func TestMatrixBlock(t *testing.T) {
	m := grid2x2(t)
	b, err := m.Block(0, 1, 2, 1)
	require.NoError(t, err)
	require.Equal(t, 2, b.Rows())
	require.Equal(t, 1, b.Cols())

	top, err := b.At(0, 0)
	require.NoError(t, err)
	require.Equal(t, 2.0, constVal(t, top))
	bottom, err := b.At(1, 0)
	require.NoError(t, err)
	require.Equal(t, 4.0, constVal(t, bottom))

	_, err = m.Block(0, 0, 3, 1)
	require.ErrorIs(t, err, operr.ErrShapeMismatch)
}

func TestMatrixRowAndCol(t *testing.T) {
	m := grid2x2(t)

	row, err := m.Row(1)
	require.NoError(t, err)
	require.Equal(t, 1, row.Rows())
	require.Equal(t, 2, row.Cols())
	v, err := row.At(0, 1)
	require.NoError(t, err)
	require.Equal(t, 4.0, constVal(t, v))

	col, err := m.Col(0)
	require.NoError(t, err)
	require.Equal(t, 2, col.Rows())
	require.Equal(t, 1, col.Cols())
	v, err = col.At(1, 0)
	require.NoError(t, err)
	require.Equal(t, 3.0, constVal(t, v))
}

func TestMatrixHeadTailSegment(t *testing.T) {
	m, err := scalar.NewMatrix(4, 1)
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		require.NoError(t, m.Set(i, 0, scalar.Par(float64(i))))
	}

	head, err := m.Head(2)
	require.NoError(t, err)
	require.Equal(t, 2, head.Rows())
	v, err := head.At(1, 0)
	require.NoError(t, err)
	require.Equal(t, 1.0, constVal(t, v))

	tail, err := m.Tail(2)
	require.NoError(t, err)
	v, err = tail.At(0, 0)
	require.NoError(t, err)
	require.Equal(t, 2.0, constVal(t, v))

	seg, err := m.Segment(1, 2)
	require.NoError(t, err)
	v, err = seg.At(0, 0)
	require.NoError(t, err)
	require.Equal(t, 1.0, constVal(t, v))
	v, err = seg.At(1, 0)
	require.NoError(t, err)
	require.Equal(t, 2.0, constVal(t, v))
}

func TestMatrixStack(t *testing.T) {
	a, err := scalar.NewMatrix(1, 2)
	require.NoError(t, err)
	require.NoError(t, a.Set(0, 0, scalar.Par(1)))
	require.NoError(t, a.Set(0, 1, scalar.Par(2)))

	b, err := scalar.NewMatrix(1, 2)
	require.NoError(t, err)
	require.NoError(t, b.Set(0, 0, scalar.Par(3)))
	require.NoError(t, b.Set(0, 1, scalar.Par(4)))

	stacked, err := a.Stack(b)
	require.NoError(t, err)
	require.Equal(t, 2, stacked.Rows())
	require.Equal(t, 2, stacked.Cols())

	v, err := stacked.At(1, 1)
	require.NoError(t, err)
	require.Equal(t, 4.0, constVal(t, v))

	mismatched, err := scalar.NewMatrix(1, 3)
	require.NoError(t, err)
	_, err = a.Stack(mismatched)
	require.ErrorIs(t, err, operr.ErrShapeMismatch)
}
