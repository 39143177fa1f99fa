package scalar

import (
	"github.com/katalvlaran/socp/affine"
	"github.com/katalvlaran/socp/operr"
	"github.com/katalvlaran/socp/param"
)

// Matrix is a row-major rectangular grid of Scalar expressions, the
// hand-written dense façade spec.md §6 calls for in place of a generic
// matrix template. Modeled on the teacher's matrix.Dense: a flat backing
// slice plus bounds-checked At/Set, but over Scalar instead of float64 and
// with the documented algebraic operations instead of raw numeric ones.
type Matrix struct {
	r, c int
	data []Scalar
}

// NewMatrix returns an r x c Matrix of constant-zero Scalars.
func NewMatrix(rows, cols int) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, operr.Wrapf("scalar.NewMatrix", "dimensions must be > 0, got %dx%d", operr.ErrShapeMismatch, rows, cols)
	}
	data := make([]Scalar, rows*cols)
	for i := range data {
		data[i] = Par(0)
	}
	return &Matrix{r: rows, c: cols, data: data}, nil
}

// Rows returns the row count.
func (m *Matrix) Rows() int { return m.r }

// Cols returns the column count.
func (m *Matrix) Cols() int { return m.c }

func (m *Matrix) indexOf(row, col int) (int, error) {
	if row < 0 || row >= m.r || col < 0 || col >= m.c {
		return 0, operr.Wrapf("Matrix.indexOf", "(%d,%d) out of bounds for %dx%d", operr.ErrShapeMismatch, row, col, m.r, m.c)
	}
	return row*m.c + col, nil
}

// At retrieves the Scalar at (row, col).
func (m *Matrix) At(row, col int) (Scalar, error) {
	idx, err := m.indexOf(row, col)
	if err != nil {
		return Scalar{}, err
	}
	return m.data[idx], nil
}

// Set assigns v at (row, col).
func (m *Matrix) Set(row, col int, v Scalar) error {
	idx, err := m.indexOf(row, col)
	if err != nil {
		return err
	}
	m.data[idx] = v
	return nil
}

// Clone returns a copy with its own cell storage; the Scalar values are
// copied by value, so their inner term and slot slices are shared.
func (m *Matrix) Clone() *Matrix {
	out := make([]Scalar, len(m.data))
	copy(out, m.data)
	return &Matrix{r: m.r, c: m.c, data: out}
}

func sameShape(a, b *Matrix) error {
	if a.r != b.r || a.c != b.c {
		return operr.Wrapf("scalar.Matrix", "shape %dx%d vs %dx%d", operr.ErrShapeMismatch, a.r, a.c, b.r, b.c)
	}
	return nil
}

// Add returns the element-wise sum of m and other.
func (m *Matrix) Add(other *Matrix) (*Matrix, error) {
	if err := sameShape(m, other); err != nil {
		return nil, operr.Wrap("Matrix.Add", err)
	}
	out, _ := NewMatrix(m.r, m.c)
	for i := range m.data {
		sum, err := m.data[i].Add(other.data[i])
		if err != nil {
			return nil, operr.Wrap("Matrix.Add", err)
		}
		out.data[i] = sum
	}
	return out, nil
}

// Sub returns the element-wise difference m - other.
func (m *Matrix) Sub(other *Matrix) (*Matrix, error) {
	if err := sameShape(m, other); err != nil {
		return nil, operr.Wrap("Matrix.Sub", err)
	}
	out, _ := NewMatrix(m.r, m.c)
	for i := range m.data {
		diff, err := m.data[i].Sub(other.data[i])
		if err != nil {
			return nil, operr.Wrap("Matrix.Sub", err)
		}
		out.data[i] = diff
	}
	return out, nil
}

// ScalarMul multiplies every entry by the constant parameter p.
func (m *Matrix) ScalarMul(p param.Parameter) *Matrix {
	out, _ := NewMatrix(m.r, m.c)
	factor := Scalar{Affine: affine.FromConstant(p)}
	for i := range m.data {
		// entries are never norm-forms when scaling by a constant factor;
		// Mul against a constant Scalar cannot fail.
		product, _ := m.data[i].Mul(factor)
		out.data[i] = product
	}
	return out
}

// MatMul computes standard matrix multiplication m * other.
func (m *Matrix) MatMul(other *Matrix) (*Matrix, error) {
	if m.c != other.r {
		return nil, operr.Wrapf("Matrix.MatMul", "%dx%d * %dx%d", operr.ErrShapeMismatch, m.r, m.c, other.r, other.c)
	}
	out, _ := NewMatrix(m.r, other.c)
	for i := 0; i < m.r; i++ {
		for j := 0; j < other.c; j++ {
			acc := Par(0)
			for k := 0; k < m.c; k++ {
				a, _ := m.At(i, k)
				b, _ := other.At(k, j)
				term, err := a.Mul(b)
				if err != nil {
					return nil, operr.Wrap("Matrix.MatMul", err)
				}
				acc, err = acc.Add(term)
				if err != nil {
					return nil, operr.Wrap("Matrix.MatMul", err)
				}
			}
			_ = out.Set(i, j, acc)
		}
	}
	return out, nil
}

// Transpose returns the transpose of m.
func (m *Matrix) Transpose() *Matrix {
	out, _ := NewMatrix(m.c, m.r)
	for i := 0; i < m.r; i++ {
		for j := 0; j < m.c; j++ {
			v, _ := m.At(i, j)
			_ = out.Set(j, i, v)
		}
	}
	return out
}

// Block extracts the rows [rowStart,rowStart+rows) and cols
// [colStart,colStart+cols) sub-matrix.
func (m *Matrix) Block(rowStart, colStart, rows, cols int) (*Matrix, error) {
	if rowStart < 0 || colStart < 0 || rows <= 0 || cols <= 0 ||
		rowStart+rows > m.r || colStart+cols > m.c {
		return nil, operr.Wrap("Matrix.Block", operr.ErrShapeMismatch)
	}
	out, _ := NewMatrix(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v, _ := m.At(rowStart+i, colStart+j)
			_ = out.Set(i, j, v)
		}
	}
	return out, nil
}

// Row extracts row i as a 1xC matrix.
func (m *Matrix) Row(i int) (*Matrix, error) { return m.Block(i, 0, 1, m.c) }

// Col extracts column j as an Rx1 matrix.
func (m *Matrix) Col(j int) (*Matrix, error) { return m.Block(0, j, m.r, 1) }

// Head returns the first n rows.
func (m *Matrix) Head(n int) (*Matrix, error) { return m.Block(0, 0, n, m.c) }

// Tail returns the last n rows.
func (m *Matrix) Tail(n int) (*Matrix, error) { return m.Block(m.r-n, 0, n, m.c) }

// Segment returns n rows starting at row start, the single-column analogue
// used when m is a column vector.
func (m *Matrix) Segment(start, n int) (*Matrix, error) { return m.Block(start, 0, n, m.c) }

// Stack vertically concatenates m and other, which must share column count.
func (m *Matrix) Stack(other *Matrix) (*Matrix, error) {
	if m.c != other.c {
		return nil, operr.Wrapf("Matrix.Stack", "%d cols vs %d cols", operr.ErrShapeMismatch, m.c, other.c)
	}
	out, _ := NewMatrix(m.r+other.r, m.c)
	for i := 0; i < m.r; i++ {
		for j := 0; j < m.c; j++ {
			v, _ := m.At(i, j)
			_ = out.Set(i, j, v)
		}
	}
	for i := 0; i < other.r; i++ {
		for j := 0; j < other.c; j++ {
			v, _ := other.At(i, j)
			_ = out.Set(m.r+i, j, v)
		}
	}
	return out, nil
}

func (m *Matrix) String() string {
	s := ""
	for i := 0; i < m.r; i++ {
		s += "["
		for j := 0; j < m.c; j++ {
			v, _ := m.At(i, j)
			s += v.String()
			if j < m.c-1 {
				s += ", "
			}
		}
		s += "]\n"
	}
	return s
}
