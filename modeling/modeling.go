// Package modeling is the public facade gluing the lower packages (param,
// variable, affine, scalar, constraint, socp, canon, solver, coneipm) into
// the single surface spec.md §6 describes: build a model with Var/Par/
// DynPar/Norm2, add it to with Eq/Leq/Geq, Solve it, and Read the result
// back. This mirrors how the teacher's top-level doc.go and examples/
// package wrap core/matrix/builder behind a small set of entry points rather
// than asking callers to import every leaf package directly.
package modeling

import (
	"context"

	"github.com/katalvlaran/socp/affine"
	"github.com/katalvlaran/socp/canon"
	"github.com/katalvlaran/socp/coneipm"
	"github.com/katalvlaran/socp/constraint"
	"github.com/katalvlaran/socp/operr"
	"github.com/katalvlaran/socp/param"
	"github.com/katalvlaran/socp/scalar"
	"github.com/katalvlaran/socp/socp"
	"github.com/katalvlaran/socp/solver"
	"github.com/katalvlaran/socp/variable"
)

// Model owns one socp.Problem plus the canonical/solver state built for it.
// The zero Model is not usable; construct one with New.
type Model struct {
	problem *socp.Problem
	can     *canon.Canonical
	adaptor *solver.Adaptor
}

// New returns an empty Model, ready for Var/Eq/Leq/Geq/Minimize calls.
func New() *Model {
	return &Model{problem: socp.New()}
}

// Var registers a new rows x cols named matrix of decision variables.
func (m *Model) Var(name string, rows, cols int) ([][]variable.Variable, error) {
	grid, err := m.problem.Registry.Create(name, rows, cols)
	if err != nil {
		return nil, operr.Wrap("Model.Var", err)
	}
	return grid, nil
}

// Par wraps an immediate constant as a Scalar.
func Par(value float64) scalar.Scalar { return scalar.Par(value) }

// DynPar wraps an externally owned cell as a Scalar, re-read on every solve.
func DynPar(cell *float64) scalar.Scalar { return scalar.DynPar(cell) }

// VarTerm wraps a single Variable, scaled by coeff, as a first-order Scalar
// — the common case of "the scalar that is just coeff times this variable".
func VarTerm(coeff float64, v variable.Variable) scalar.Scalar {
	return scalar.FromAffine(affine.FromTerm(affine.NewTerm(param.Const(coeff), v)))
}

// Norm2 builds the Euclidean-norm Scalar sqrt(sum of termsI^2) directly,
// ready to appear on the left of Leq.
func Norm2(terms ...scalar.Scalar) (scalar.Scalar, error) {
	affines := make([]affine.Affine, len(terms))
	for i, t := range terms {
		if t.Order() > 1 {
			return scalar.Scalar{}, operr.Wrap("modeling.Norm2", operr.ErrHigherOrderMul)
		}
		affines[i] = t.Affine
	}
	return scalar.Norm2(affines), nil
}

// Eq adds lhs == rhs to the model as an equality constraint.
func (m *Model) Eq(lhs, rhs scalar.Scalar) {
	m.problem.AddConstraint(constraint.Equal(lhs, rhs))
}

// Leq adds lhs <= rhs to the model, as a Positive or SecondOrderCone
// constraint depending on lhs's shape (spec.md §4.4).
func (m *Model) Leq(lhs, rhs scalar.Scalar) error {
	c, err := constraint.LessEqual(lhs, rhs)
	if err != nil {
		return operr.Wrap("Model.Leq", err)
	}
	m.problem.AddConstraint(c)
	return nil
}

// Geq adds lhs >= rhs to the model.
func (m *Model) Geq(lhs, rhs scalar.Scalar) error {
	c, err := constraint.GreaterEqual(lhs, rhs)
	if err != nil {
		return operr.Wrap("Model.Geq", err)
	}
	m.problem.AddConstraint(c)
	return nil
}

// Minimize adds term to the accumulated cost function.
func (m *Model) Minimize(term scalar.Scalar) {
	m.problem.AddMinimizationTerm(term)
}

// IsFeasible evaluates every constraint against the last solved solution.
func (m *Model) IsFeasible(tol float64) (bool, []socp.Violation) {
	return m.problem.IsFeasible(tol)
}

// String renders the whole model (cost, then equality, positive, and cone
// constraints), mirroring the original's SecondOrderConeProgram printer.
func (m *Model) String() string {
	return m.problem.String()
}

// Solve canonicalizes the model with canon.Build and runs the configured
// ConeSolver (a fresh coneipm.Solver by default) against it. Every call
// rebuilds the canonical structure and re-initializes the solver, so bound
// Parameter cells are re-read on each call; Solve does not reuse the
// structure built by a previous call.
func (m *Model) Solve(ctx context.Context, opts ...Option) (bool, error) {
	cfg := defaultOptions()
	for _, o := range opts {
		o(&cfg)
	}

	can, err := canon.Build(m.problem)
	if err != nil {
		return false, operr.Wrap("Model.Solve", err)
	}
	m.can = can

	inner := cfg.inner
	if inner == nil {
		inner = coneipm.NewSolver(cfg.coneipmOpts...)
	}
	m.adaptor = solver.New(inner)

	if err := m.adaptor.Initialize(can); err != nil {
		return false, operr.Wrap("Model.Solve", err)
	}

	ok, err := m.adaptor.Solve(ctx, cfg.verbose)
	if err != nil {
		return false, operr.Wrap("Model.Solve", err)
	}
	return ok, nil
}

// LastStatus returns the most recent Solve's classified status. Panics if
// Solve has never been called.
func (m *Model) LastStatus() solver.Status {
	return m.adaptor.LastStatus()
}

// ResultString renders the most recent Solve's outcome as human-readable
// text. Panics if Solve has never been called.
func (m *Model) ResultString() string {
	return m.adaptor.ResultString()
}

// Read returns the solved scalar value of a single Variable.
func (m *Model) Read(v variable.Variable) (float64, error) {
	val, err := m.problem.Registry.Read(v)
	if err != nil {
		return 0, operr.Wrap("Model.Read", err)
	}
	return val, nil
}

// ReadMatrix returns the solved values for every cell of a named variable.
func (m *Model) ReadMatrix(name string) ([][]float64, error) {
	out, err := m.problem.Registry.ReadMatrix(name)
	if err != nil {
		return nil, operr.Wrap("Model.ReadMatrix", err)
	}
	return out, nil
}

// options configures a single Solve call.
type options struct {
	inner       solver.ConeSolver
	coneipmOpts []coneipm.Option
	verbose     bool
}

func defaultOptions() options {
	return options{}
}

// Option configures a Model.Solve call.
type Option func(*options)

// WithConeSolver overrides the default coneipm.Solver with any other
// solver.ConeSolver implementation (e.g. a cgo ECOS binding).
func WithConeSolver(s solver.ConeSolver) Option {
	return func(o *options) { o.inner = s }
}

// WithIterationLimit forwards to coneipm.WithMaxIterations for the default
// solver; ignored if WithConeSolver is also given.
func WithIterationLimit(n int) Option {
	return func(o *options) { o.coneipmOpts = append(o.coneipmOpts, coneipm.WithMaxIterations(n)) }
}

// WithTolerance forwards to coneipm.WithTolerance for the default solver;
// ignored if WithConeSolver is also given.
func WithTolerance(eps float64) Option {
	return func(o *options) { o.coneipmOpts = append(o.coneipmOpts, coneipm.WithTolerance(eps)) }
}

// WithVerbose enables the inner solver's verbose flag.
func WithVerbose(v bool) Option {
	return func(o *options) { o.verbose = v }
}
