// Package variable implements the variable registry described in spec.md
// §4.2: named scalar/vector/matrix decision variables, each cell assigned a
// globally unique problem index into the solver's primal solution vector.
//
// Registry is the thread-safety and sentinel-error pattern of the teacher's
// core.Graph (separate RWMutex-guarded maps, idempotent lookups, sentinel
// errors) applied to a name -> matrix-of-cells store instead of a
// vertex/edge graph.
package variable

import (
	"sort"
	"sync"

	"github.com/katalvlaran/socp/operr"
)

// Variable is a named handle with a (row, col) position inside its named
// matrix and, once allocated, a unique index into the primal solution
// vector. Two variables are equal iff they share name and index.
type Variable struct {
	Name string
	Row  int
	Col  int
	// idx is the problem index plus one; zero means unallocated so that the
	// zero Variable{} value (e.g. a never-registered lookup) is correctly
	// reported as having no index.
	idx int
}

// HasIndex reports whether the variable has been assigned a problem index.
func (v Variable) HasIndex() bool { return v.idx > 0 }

// Index returns the problem index, or -1 if unallocated.
func (v Variable) Index() int {
	if v.idx == 0 {
		return -1
	}
	return v.idx - 1
}

// Equal reports whether two variables share name and problem index.
func (v Variable) Equal(other Variable) bool {
	return v.Name == other.Name && v.idx == other.idx
}

func (v Variable) String() string {
	if !v.HasIndex() {
		return v.Name
	}
	return v.Name + "@" + itoa(v.Index())
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

// Registry owns every named variable matrix in a problem and the dense
// allocation of problem indices. Registry is safe for concurrent reads
// (Read/ReadMatrix) provided no mutation (Create) or solve is in flight
// concurrently, matching spec.md §5's concurrency contract.
type Registry struct {
	mu    sync.RWMutex
	names map[string][][]Variable
	count int
	// solution holds the primal value for problem index i at solution[i].
	// It is resized to len==count when a solver stores a solution (see
	// ResizeSolution).
	solution []float64
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string][][]Variable)}
}

// Create allocates a new rows x cols matrix of Variables under name, assigning
// each cell a dense problem index in row-major creation order. Returns
// operr.ErrDuplicateName if name is already registered.
func (r *Registry) Create(name string, rows, cols int) ([][]Variable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.names[name]; exists {
		return nil, operr.Wrapf("Registry.Create", "name %q already registered", operr.ErrDuplicateName, name)
	}

	grid := make([][]Variable, rows)
	for row := 0; row < rows; row++ {
		grid[row] = make([]Variable, cols)
		for col := 0; col < cols; col++ {
			grid[row][col] = Variable{Name: name, Row: row, Col: col, idx: r.count + 1}
			r.count++
		}
	}
	r.names[name] = grid

	return grid, nil
}

// Get returns the previously created matrix registered under name.
func (r *Registry) Get(name string) ([][]Variable, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	grid, ok := r.names[name]
	if !ok {
		return nil, operr.Wrapf("Registry.Get", "%q", operr.ErrUnknownVariable, name)
	}

	return grid, nil
}

// Names returns every registered variable name in lexicographic order,
// mirroring the teacher's deterministic Vertices() enumeration.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.names))
	for name := range r.names {
		out = append(out, name)
	}
	sort.Strings(out)

	return out
}

// NumVariables returns the number of allocated problem indices.
func (r *Registry) NumVariables() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.count
}

// ResizeSolution grows the internal solution buffer to exactly NumVariables
// entries, zeroing it. coneipm.Solver calls it right before SetSolution when
// a solve ends optimal, so the buffer always matches the current variable
// count.
func (r *Registry) ResizeSolution() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.solution = make([]float64, r.count)
}

// SetSolution overwrites the full primal solution vector. Called by the cone
// solver (coneipm.Solver) after an optimal solve. Panics if len(values) != NumVariables();
// this is an internal invariant, not a user-facing error path.
func (r *Registry) SetSolution(values []float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(values) != r.count {
		panic("variable: SetSolution length mismatch")
	}
	r.solution = values
}

// Read returns the solved value of a single Variable.
func (r *Registry) Read(v Variable) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !v.HasIndex() {
		return 0, operr.Wrap("Registry.Read", operr.ErrUnallocatedVariable)
	}
	if v.Index() >= len(r.solution) {
		return 0, operr.Wrap("Registry.Read", operr.ErrUnallocatedVariable)
	}

	return r.solution[v.Index()], nil
}

// ReadMatrix returns the solved values for every cell of the named variable,
// shaped like the matrix passed to Create. This is the bulk read-back
// supplemented from the original source's GenericOptimizationProblem::readSolution
// (see SPEC_FULL.md §7.3).
func (r *Registry) ReadMatrix(name string) ([][]float64, error) {
	grid, err := r.Get(name)
	if err != nil {
		return nil, operr.Wrap("Registry.ReadMatrix", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([][]float64, len(grid))
	for row := range grid {
		out[row] = make([]float64, len(grid[row]))
		for col, v := range grid[row] {
			if !v.HasIndex() || v.Index() >= len(r.solution) {
				return nil, operr.Wrap("Registry.ReadMatrix", operr.ErrUnallocatedVariable)
			}
			out[row][col] = r.solution[v.Index()]
		}
	}

	return out, nil
}
