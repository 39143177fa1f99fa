package variable_test

import (
	"testing"

	"github.com/katalvlaran/socp/operr"
	"github.com/katalvlaran/socp/variable"
	"github.com/stretchr/testify/require"
)

func TestCreateAssignsDenseIndices(t *testing.T) {
	r := variable.NewRegistry()

	grid, err := r.Create("x", 2, 3)
	require.NoError(t, err)
	require.Equal(t, 6, r.NumVariables())

	wantIdx := 0
	for row := 0; row < 2; row++ {
		for col := 0; col < 3; col++ {
			require.True(t, grid[row][col].HasIndex())
			require.Equal(t, wantIdx, grid[row][col].Index())
			wantIdx++
		}
	}
}

func TestCreateDuplicateNameRejected(t *testing.T) {
	r := variable.NewRegistry()
	_, err := r.Create("x", 1, 1)
	require.NoError(t, err)

	_, err = r.Create("x", 1, 1)
	require.ErrorIs(t, err, operr.ErrDuplicateName)
}

func TestReadAfterSolve(t *testing.T) {
	r := variable.NewRegistry()
	grid, err := r.Create("y", 1, 2)
	require.NoError(t, err)

	r.ResizeSolution()
	r.SetSolution([]float64{3.5, -1.0})

	v, err := r.Read(grid[0][0])
	require.NoError(t, err)
	require.Equal(t, 3.5, v)

	mat, err := r.ReadMatrix("y")
	require.NoError(t, err)
	require.Equal(t, [][]float64{{3.5, -1.0}}, mat)
}

func TestReadUnallocatedVariable(t *testing.T) {
	var v variable.Variable // zero value, never created via registry
	r := variable.NewRegistry()
	_, err := r.Read(v)
	require.ErrorIs(t, err, operr.ErrUnallocatedVariable)
}

func TestVariableEquality(t *testing.T) {
	r := variable.NewRegistry()
	grid, _ := r.Create("z", 1, 1)
	other, _ := r.Create("w", 1, 1)

	require.True(t, grid[0][0].Equal(grid[0][0]))
	require.False(t, grid[0][0].Equal(other[0][0]))
}
