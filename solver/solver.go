// Package solver implements the solver adaptor trait of spec.md §4.7: a
// ConeSolver interface any cone solver implements, and Adaptor, which wires
// a canon.Canonical to a ConeSolver, refreshes its numeric buffers, and
// handles the context-based interrupt contract. Writing the primal solution
// into the variable registry is left to the ConeSolver.
// The exact status vocabulary and result strings are grounded on the
// original ecosWrapper.cpp's getResultString switch.
package solver

import (
	"context"
	"errors"

	"github.com/katalvlaran/socp/canon"
	"github.com/katalvlaran/socp/operr"
)

// ErrFatal and ErrInterrupted are the sentinels a SolverError wraps. Callers
// distinguish the two exit conditions with errors.Is(err, solver.ErrFatal) /
// errors.Is(err, solver.ErrInterrupted) without needing to inspect a Status.
var (
	ErrFatal       = errors.New("solver: fatal error")
	ErrInterrupted = errors.New("solver: interrupted")
)

// SolverError wraps a terminal (fatal or interrupted) Status as an error.
// These are the only two Status values Solve returns false for without a
// nil error: every other non-optimal status (iteration limit, numerical
// breakdown, infeasibility certificates, ...) is reported through
// ResultString/LastStatus and is not raised.
type SolverError struct {
	Status Status
}

func (e *SolverError) Error() string { return e.Status.String() }

// Unwrap lets errors.Is(err, ErrFatal) / errors.Is(err, ErrInterrupted)
// classify the wrapped status without a type switch.
func (e *SolverError) Unwrap() error {
	if e.Status == StatusInterrupted {
		return ErrInterrupted
	}
	return ErrFatal
}

// Status classifies the outcome of a solve, 1:1 with ResultString's text.
type Status int

const (
	// StatusUnsolved means Solve has not yet been called.
	StatusUnsolved Status = iota
	StatusOptimal
	StatusOptimalInaccurate
	StatusPrimalInfeasible
	StatusPrimalInfeasibleInaccurate
	StatusDualInfeasible
	StatusDualInfeasibleInaccurate
	StatusMaxIterations
	StatusNumericalProblems
	StatusOutsideCone
	StatusInterrupted
	StatusFatal
)

// String renders the human-readable text the original wrapper returns from
// getResultString, per status.
func (s Status) String() string {
	switch s {
	case StatusUnsolved:
		return "Problem not solved yet."
	case StatusOptimal:
		return "Optimal solution found."
	case StatusOptimalInaccurate:
		return "Optimal solution found subject to reduced tolerances."
	case StatusPrimalInfeasible:
		return "Certificate of primal infeasibility found."
	case StatusPrimalInfeasibleInaccurate:
		return "Certificate of primal infeasibility found subject to reduced tolerances."
	case StatusDualInfeasible:
		return "Certificate of dual infeasibility found."
	case StatusDualInfeasibleInaccurate:
		return "Certificate of dual infeasibility found subject to reduced tolerances."
	case StatusMaxIterations:
		return "Maximum number of iterations reached."
	case StatusNumericalProblems:
		return "Numerical problems (unreliable search direction)."
	case StatusOutsideCone:
		return "Numerical problems (slacks or multipliers outside cone)."
	case StatusInterrupted:
		return "Interrupted by signal or context cancellation."
	case StatusFatal:
		return "Unknown problem in solver."
	default:
		return "Unknown problem in solver."
	}
}

// Terminal reports whether s is one of the statuses that should stop a
// calling loop from retrying the solve (fatal or interrupted), mirroring
// EcosWrapper::solveProblem's false-returning exitflag set.
func (s Status) Terminal() bool {
	return s == StatusInterrupted || s == StatusFatal
}

// ConeSolver is the trait of spec.md §4.7 that any concrete cone solver
// (e.g. coneipm.Solver) implements.
type ConeSolver interface {
	// Initialize hands the canonical sparse structure to the solver. Called
	// once, after canonicalization.
	Initialize(problem *canon.Canonical) error
	// Solve runs the solver against the problem's current numeric buffers
	// (Adaptor refreshes them first) and reports whether it produced a
	// usable solution; LastStatus classifies the outcome. A false result
	// whose LastStatus is Terminal is raised by Adaptor as a SolverError.
	Solve(ctx context.Context, verbose bool) (bool, error)
	// ResultString renders the last solve's outcome as human-readable text.
	ResultString() string
	// LastStatus returns the last solve's classified status.
	LastStatus() Status
}

// Adaptor wires a canon.Canonical to a ConeSolver (spec.md §4.7). It does
// not copy the primal solution itself; the ConeSolver writes it into the
// variable registry (coneipm.Solver does so when it ends optimal).
type Adaptor struct {
	problem *canon.Canonical
	inner   ConeSolver
}

// New returns an Adaptor wrapping inner, not yet initialized.
func New(inner ConeSolver) *Adaptor {
	return &Adaptor{inner: inner}
}

// Initialize refreshes the already-built problem's numeric buffers and hands
// it to the inner solver.
func (a *Adaptor) Initialize(problem *canon.Canonical) error {
	if err := problem.Refresh(); err != nil {
		return operr.Wrap("Adaptor.Initialize", err)
	}
	if err := a.inner.Initialize(problem); err != nil {
		return operr.Wrap("Adaptor.Initialize", err)
	}
	a.problem = problem
	return nil
}

// Solve re-evaluates the canonical problem's parameters and runs the inner
// solver, which is responsible for writing the primal solution. A
// caller-cancelled ctx is propagated as StatusInterrupted rather than
// silently swallowed, the Go analogue of the original's SIGINT-to-terminate
// contract.
func (a *Adaptor) Solve(ctx context.Context, verbose bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, operr.Wrap("Adaptor.Solve", &SolverError{Status: StatusInterrupted})
	}
	if err := a.problem.Refresh(); err != nil {
		return false, operr.Wrap("Adaptor.Solve", err)
	}

	ok, err := a.inner.Solve(ctx, verbose)
	if err != nil {
		return false, operr.Wrap("Adaptor.Solve", err)
	}

	if !ok {
		if st := a.inner.LastStatus(); st.Terminal() {
			return false, operr.Wrap("Adaptor.Solve", &SolverError{Status: st})
		}
	}

	return ok, nil
}

// ResultString forwards to the inner solver.
func (a *Adaptor) ResultString() string { return a.inner.ResultString() }

// LastStatus forwards to the inner solver.
func (a *Adaptor) LastStatus() Status { return a.inner.LastStatus() }
