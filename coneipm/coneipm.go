// Package coneipm implements a primal-dual interior-point cone solver for
// spec.md's canonical SOCP form, satisfying the solver.ConeSolver interface.
// The Newton system is derived in the Jordan-algebra formulation of
// jordan.go, unifying the nonnegative orthant and second-order cone blocks;
// the outer loop follows a Mehrotra predictor-corrector scheme, grounded in
// shape on gosl's LinIpm (starting point via the identity element, affine
// step, centering corrector, block ratio-test step lengths) and in KKT
// assembly on gonum's dense linear-algebra idiom used throughout
// optimize/convex/lp (VecDense.SolveVec against a dense system matrix).
package coneipm

import (
	"context"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/socp/canon"
	"github.com/katalvlaran/socp/operr"
	"github.com/katalvlaran/socp/solver"
	"github.com/katalvlaran/socp/sparse"
)

// denseFromCCS materializes ccs as a gonum dense matrix.
func denseFromCCS(ccs sparse.CCS) *mat.Dense {
	rows := ccs.Dense()
	flat := make([]float64, ccs.Rows*ccs.Cols)
	for i, row := range rows {
		copy(flat[i*ccs.Cols:(i+1)*ccs.Cols], row)
	}
	return mat.NewDense(ccs.Rows, ccs.Cols, flat)
}

// config holds the tunables a Solver is constructed with.
type config struct {
	maxIters int
	tol      float64
}

func defaultConfig() config {
	return config{maxIters: 100, tol: 1e-8}
}

// Option configures a Solver at construction time.
type Option func(*config)

// WithMaxIterations overrides the default iteration cap of 100.
func WithMaxIterations(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxIters = n
		}
	}
}

// WithTolerance overrides the default convergence tolerance of 1e-8.
func WithTolerance(eps float64) Option {
	return func(c *config) {
		if eps > 0 {
			c.tol = eps
		}
	}
}

// Solver is a Jordan-algebra primal-dual interior-point cone solver. It
// satisfies solver.ConeSolver.
type Solver struct {
	cfg config

	problem *canon.Canonical
	blocks  []int // block dimensions: NPositive 1's followed by ConeDims

	x, y, z, s []float64

	status       solver.Status
	resultString string
}

var _ solver.ConeSolver = (*Solver)(nil)

// NewSolver returns a Solver with the given options applied over the
// defaults (100 iterations, 1e-8 tolerance).
func NewSolver(opts ...Option) *Solver {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Solver{cfg: cfg, status: solver.StatusUnsolved, resultString: solver.StatusUnsolved.String()}
}

// Initialize records problem's dimensions and sets a strictly interior
// starting point: x = 0, y = 0, and s = z = the Jordan identity element per
// block, which trivially satisfies det > 0 in every block.
func (sv *Solver) Initialize(problem *canon.Canonical) error {
	sv.problem = problem

	blocks := make([]int, 0, problem.NPositive+len(problem.ConeDims))
	for i := 0; i < problem.NPositive; i++ {
		blocks = append(blocks, 1)
	}
	blocks = append(blocks, problem.ConeDims...)
	sv.blocks = blocks

	sv.x = make([]float64, problem.NVariables)
	sv.y = make([]float64, problem.NEqualities)
	sv.s = make([]float64, problem.NConicRows)
	sv.z = make([]float64, problem.NConicRows)

	row := 0
	for _, d := range blocks {
		id := identityElement(d)
		copy(sv.s[row:row+d], id)
		copy(sv.z[row:row+d], id)
		row += d
	}

	sv.status = solver.StatusUnsolved
	sv.resultString = solver.StatusUnsolved.String()
	return nil
}

// Solve runs the Mehrotra predictor-corrector loop until convergence, the
// iteration cap, or ctx cancellation, whichever comes first. It returns
// false whenever LastStatus() afterward is not StatusOptimal.
func (sv *Solver) Solve(ctx context.Context, verbose bool) (bool, error) {
	p := sv.problem
	a := denseFromCCS(p.A)
	g := denseFromCCS(p.G)

	for iter := 0; iter < sv.cfg.maxIters; iter++ {
		if err := ctx.Err(); err != nil {
			sv.setStatus(solver.StatusInterrupted)
			return false, nil
		}

		rx := residualRx(a, g, sv.y, sv.z, p.C)
		ry := residualRy(a, sv.x, p.B)
		rz := residualRz(g, sv.x, sv.s, p.H)
		mu := dot(sv.s, sv.z) / float64(maxInt(p.NConicRows, 1))

		if hasNaNOrInf(sv.x) || hasNaNOrInf(sv.s) || hasNaNOrInf(sv.z) {
			sv.setStatus(solver.StatusNumericalProblems)
			return false, nil
		}
		if !sv.inCone(sv.s) || !sv.inCone(sv.z) {
			sv.setStatus(solver.StatusOutsideCone)
			return false, nil
		}
		if norm(rx)+norm(ry)+norm(rz) < sv.cfg.tol && mu < sv.cfg.tol {
			sv.setStatus(solver.StatusOptimal)
			return true, nil
		}

		kkt := sv.assembleKKT(a, g, sv.s, sv.z)

		affRHS := sv.buildRHS(rx, ry, rz, sv.s, sv.z, nil)
		dxA, _, dzA, err := solveKKT(kkt, affRHS, p.NVariables, p.NEqualities, p.NConicRows)
		if err != nil {
			sv.setStatus(solver.StatusNumericalProblems)
			return false, nil
		}
		dsA := affineDs(g, dxA, rz)

		alphaPAff := sv.stepLength(sv.s, dsA, 1.0)
		alphaDAff := sv.stepLength(sv.z, dzA, 1.0)
		sAff := addScaled(sv.s, dsA, alphaPAff)
		zAff := addScaled(sv.z, dzA, alphaDAff)
		muAff := dot(sAff, zAff) / float64(maxInt(p.NConicRows, 1))

		sigma := 0.0
		if mu > 0 {
			ratio := muAff / mu
			sigma = ratio * ratio * ratio
		}

		corr := sv.mehrotraCorrection(dsA, dzA, sigma, mu)
		corrRHS := sv.buildRHS(rx, ry, rz, sv.s, sv.z, corr)
		dx, dy, dz, err := solveKKT(kkt, corrRHS, p.NVariables, p.NEqualities, p.NConicRows)
		if err != nil {
			sv.setStatus(solver.StatusNumericalProblems)
			return false, nil
		}
		ds := affineDs(g, dx, rz)

		alphaP := 0.99 * sv.stepLength(sv.s, ds, 1.0)
		alphaD := 0.99 * sv.stepLength(sv.z, dz, 1.0)

		sv.x = addScaled(sv.x, dx, alphaP)
		sv.s = addScaled(sv.s, ds, alphaP)
		sv.y = addScaled(sv.y, dy, alphaD)
		sv.z = addScaled(sv.z, dz, alphaD)
	}

	sv.setStatus(solver.StatusMaxIterations)
	return false, nil
}

// ResultString renders the last solve's outcome.
func (sv *Solver) ResultString() string { return sv.resultString }

// LastStatus returns the last solve's classified status.
func (sv *Solver) LastStatus() solver.Status { return sv.status }

func (sv *Solver) setStatus(st solver.Status) {
	sv.status = st
	sv.resultString = st.String()
	if st == solver.StatusOptimal {
		sv.problem.Registry.ResizeSolution()
		sv.problem.Registry.SetSolution(sv.x)
	}
}

// inCone reports whether every block of v has a nonnegative det and a
// nonnegative leading coordinate, i.e. v lies in the closure of the
// product cone.
func (sv *Solver) inCone(v []float64) bool {
	row := 0
	for _, d := range sv.blocks {
		block := v[row : row+d]
		if detForm(block) < 0 || block[0] < 0 {
			return false
		}
		row += d
	}
	return true
}

// stepLength returns the largest step in [0, capAlpha] keeping v+alpha*d in the
// closure of every block of the product cone.
func (sv *Solver) stepLength(v, d []float64, capAlpha float64) float64 {
	alpha := capAlpha
	row := 0
	for _, dim := range sv.blocks {
		block := maxStepLength(v[row:row+dim], d[row:row+dim], capAlpha)
		if block < alpha {
			alpha = block
		}
		row += dim
	}
	return alpha
}

// mehrotraCorrection computes, per block, sigma*mu*e - dsAff o dzAff, the
// second-order correction folded into the corrector right-hand side.
func (sv *Solver) mehrotraCorrection(dsAff, dzAff []float64, sigma, mu float64) []float64 {
	out := make([]float64, len(dsAff))
	row := 0
	for _, d := range sv.blocks {
		e := identityElement(d)
		prod := jordanProduct(dsAff[row:row+d], dzAff[row:row+d])
		for i := 0; i < d; i++ {
			out[row+i] = sigma*mu*e[i] - prod[i]
		}
		row += d
	}
	return out
}

// rhsVector is the stacked Newton right-hand side [bx; by; bz].
type rhsVector struct {
	bx, by, bz []float64
}

// buildRHS assembles the Newton system's right-hand side. corr is nil for
// the affine (predictor) step and mehrotraCorrection's output for the
// corrector step.
func (sv *Solver) buildRHS(rx, ry, rz, s, z []float64, corr []float64) rhsVector {
	arzRz := sv.arrowApplyBlocks(z, rz)
	sz := sv.jordanProductBlocks(s, z)

	bz := make([]float64, len(rz))
	for i := range bz {
		bz[i] = -sz[i] + arzRz[i]
		if corr != nil {
			bz[i] += corr[i]
		}
	}

	return rhsVector{bx: negate(rx), by: negate(ry), bz: bz}
}

// jordanProductBlocks applies jordanProduct block by block to a and b.
func (sv *Solver) jordanProductBlocks(a, b []float64) []float64 {
	out := make([]float64, len(a))
	row := 0
	for _, d := range sv.blocks {
		copy(out[row:row+d], jordanProduct(a[row:row+d], b[row:row+d]))
		row += d
	}
	return out
}

// arrowApplyBlocks applies Arw(v)'s per-block action to vec, i.e. the
// block-diagonal matrix whose blocks are arrowMatrix(v_block).
func (sv *Solver) arrowApplyBlocks(v, vec []float64) []float64 {
	out := make([]float64, len(vec))
	row := 0
	for _, d := range sv.blocks {
		arw := arrowMatrix(v[row : row+d])
		in := mat.NewVecDense(d, append([]float64(nil), vec[row:row+d]...))
		res := mat.NewVecDense(d, nil)
		res.MulVec(arw, in)
		for i := 0; i < d; i++ {
			out[row+i] = res.AtVec(i)
		}
		row += d
	}
	return out
}

// assembleKKT builds the dense Newton matrix
//
//	[  0          A^T   G^T     ]
//	[  A          0     0       ]
//	[ -Arw(z)*G   0     Arw(s)  ]
//
// for the current (s, z) iterate.
func (sv *Solver) assembleKKT(a, g *mat.Dense, s, z []float64) *mat.Dense {
	n := sv.problem.NVariables
	m := sv.problem.NEqualities
	r := sv.problem.NConicRows
	total := n + m + r

	kkt := mat.NewDense(total, total, nil)

	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			v := a.At(i, j)
			kkt.Set(n+i, j, v)
			kkt.Set(j, n+i, v)
		}
	}

	arwzG := sv.arrowTimesMatrix(z, g)
	for i := 0; i < r; i++ {
		for j := 0; j < n; j++ {
			kkt.Set(n+m+i, j, -arwzG.At(i, j))
			kkt.Set(j, n+m+i, g.At(i, j))
		}
	}

	row := 0
	for _, d := range sv.blocks {
		arw := arrowMatrix(s[row : row+d])
		for i := 0; i < d; i++ {
			for j := 0; j < d; j++ {
				kkt.Set(n+m+row+i, n+m+row+j, arw.At(i, j))
			}
		}
		row += d
	}

	return kkt
}

// arrowTimesMatrix returns Arw(v) * mtx, applying Arw(v) block by block to
// mtx's rows.
func (sv *Solver) arrowTimesMatrix(v []float64, mtx *mat.Dense) *mat.Dense {
	rows, cols := mtx.Dims()
	out := mat.NewDense(rows, cols, nil)
	row := 0
	for _, d := range sv.blocks {
		arw := arrowMatrix(v[row : row+d])
		for i := 0; i < d; i++ {
			for k := 0; k < cols; k++ {
				sum := 0.0
				for j := 0; j < d; j++ {
					sum += arw.At(i, j) * mtx.At(row+j, k)
				}
				out.Set(row+i, k, sum)
			}
		}
		row += d
	}
	return out
}

// solveKKT solves kkt * [dx; dy; dz] = [bx; by; bz] and splits the result
// back into its three segments.
func solveKKT(kkt *mat.Dense, rhs rhsVector, n, m, r int) (dx, dy, dz []float64, err error) {
	total := n + m + r
	bData := make([]float64, total)
	copy(bData[:n], rhs.bx)
	copy(bData[n:n+m], rhs.by)
	copy(bData[n+m:], rhs.bz)

	bVec := mat.NewVecDense(total, bData)
	solVec := mat.NewVecDense(total, nil)
	if solveErr := solVec.SolveVec(kkt, bVec); solveErr != nil {
		return nil, nil, nil, operr.Wrap("coneipm.solveKKT", solveErr)
	}

	dx = make([]float64, n)
	dy = make([]float64, m)
	dz = make([]float64, r)
	for i := 0; i < n; i++ {
		dx[i] = solVec.AtVec(i)
	}
	for i := 0; i < m; i++ {
		dy[i] = solVec.AtVec(n + i)
	}
	for i := 0; i < r; i++ {
		dz[i] = solVec.AtVec(n + m + i)
	}
	return dx, dy, dz, nil
}

func residualRx(a, g *mat.Dense, y, z, c []float64) []float64 {
	n := len(c)
	out := make([]float64, n)
	copy(out, c)
	yv := mat.NewVecDense(len(y), append([]float64(nil), y...))
	zv := mat.NewVecDense(len(z), append([]float64(nil), z...))
	aty := mat.NewVecDense(n, nil)
	aty.MulVec(a.T(), yv)
	gtz := mat.NewVecDense(n, nil)
	gtz.MulVec(g.T(), zv)
	for i := 0; i < n; i++ {
		out[i] += aty.AtVec(i) + gtz.AtVec(i)
	}
	return out
}

func residualRy(a *mat.Dense, x, b []float64) []float64 {
	m := len(b)
	xv := mat.NewVecDense(len(x), append([]float64(nil), x...))
	ax := mat.NewVecDense(m, nil)
	ax.MulVec(a, xv)
	out := make([]float64, m)
	for i := 0; i < m; i++ {
		out[i] = ax.AtVec(i) - b[i]
	}
	return out
}

func residualRz(g *mat.Dense, x, s, h []float64) []float64 {
	r := len(h)
	xv := mat.NewVecDense(len(x), append([]float64(nil), x...))
	gx := mat.NewVecDense(r, nil)
	gx.MulVec(g, xv)
	out := make([]float64, r)
	for i := 0; i < r; i++ {
		out[i] = gx.AtVec(i) + s[i] - h[i]
	}
	return out
}

func affineDs(g *mat.Dense, dx, rz []float64) []float64 {
	r, _ := g.Dims()
	dxv := mat.NewVecDense(len(dx), append([]float64(nil), dx...))
	gdx := mat.NewVecDense(r, nil)
	gdx.MulVec(g, dxv)
	out := make([]float64, r)
	for i := 0; i < r; i++ {
		out[i] = -rz[i] - gdx.AtVec(i)
	}
	return out
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func norm(v []float64) float64 {
	return math.Sqrt(dot(v, v))
}

func negate(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = -x
	}
	return out
}

func addScaled(v, d []float64, alpha float64) []float64 {
	out := make([]float64, len(v))
	for i := range v {
		out[i] = v[i] + alpha*d[i]
	}
	return out
}

func hasNaNOrInf(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return true
		}
	}
	return false
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
