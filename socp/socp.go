// Package socp implements the SOCP problem container of spec.md §4.5: the
// variable registry, the three constraint-kind lists, the cost function, and
// the solved solution vector, plus clean() structural normalization and the
// supplemented feasibility check.
package socp

import (
	"fmt"
	"math"
	"strings"

	"github.com/katalvlaran/socp/affine"
	"github.com/katalvlaran/socp/constraint"
	"github.com/katalvlaran/socp/scalar"
	"github.com/katalvlaran/socp/variable"
)

// Problem owns a variable registry, every constraint added so far (grouped
// by kind, in add order), and the accumulated cost function.
type Problem struct {
	Registry *variable.Registry

	equalities []constraint.Constraint
	positives  []constraint.Constraint
	cones      []constraint.Constraint

	cost          affine.Affine
	costNonlinear bool
}

// New returns an empty Problem with a fresh variable registry.
func New() *Problem {
	return &Problem{
		Registry: variable.NewRegistry(),
		cost:     affine.Zero(),
	}
}

// AddConstraint routes c into its variant's list, preserving add order within
// each kind (spec.md §5's ordering guarantee).
func (p *Problem) AddConstraint(c constraint.Constraint) {
	switch c.Kind {
	case constraint.KindEquality:
		p.equalities = append(p.equalities, c)
	case constraint.KindPositive:
		p.positives = append(p.positives, c)
	case constraint.KindSecondOrderCone:
		p.cones = append(p.cones, c)
	}
}

// AddConstraints is a convenience wrapper over AddConstraint for the slices
// returned by the matrix-level constraint builders.
func (p *Problem) AddConstraints(cs []constraint.Constraint) {
	for _, c := range cs {
		p.AddConstraint(c)
	}
}

// AddMinimizationTerm accumulates s into the cost function. s is accepted
// regardless of order; a term with order > 1 sets an internal flag that the
// Canonicalizer checks via CostIsLinear, rejecting the whole problem with
// ErrNonlinearCost rather than silently discarding the higher-order part.
func (p *Problem) AddMinimizationTerm(s scalar.Scalar) {
	if s.Order() > 1 {
		p.costNonlinear = true
	}
	p.cost = p.cost.Add(s.Affine)
}

// Cost returns the accumulated cost Affine.
func (p *Problem) Cost() affine.Affine { return p.cost }

// CostIsLinear reports whether every minimization term added so far had
// order <= 1.
func (p *Problem) CostIsLinear() bool { return !p.costNonlinear }

// Equalities returns the Equality constraints in add order.
func (p *Problem) Equalities() []constraint.Constraint { return p.equalities }

// Positives returns the Positive constraints in add order.
func (p *Problem) Positives() []constraint.Constraint { return p.positives }

// Cones returns the SecondOrderCone constraints in add order.
func (p *Problem) Cones() []constraint.Constraint { return p.cones }

// Clean performs the structural normalization of spec.md §4.5 in place: it
// runs Affine.Clean on the cost and on every constraint's affine/norm
// arguments, then drops any constraint whose affine and (for cones) every
// norm argument are constant, since a constant constraint cannot be violated
// by any variable setting.
func (p *Problem) Clean() {
	p.cost = p.cost.Clean()
	p.equalities = cleanAndFilter(p.equalities)
	p.positives = cleanAndFilter(p.positives)
	p.cones = cleanAndFilter(p.cones)
}

func cleanAndFilter(cs []constraint.Constraint) []constraint.Constraint {
	out := make([]constraint.Constraint, 0, len(cs))
	for _, c := range cs {
		cleaned := constraint.Constraint{
			Kind:   c.Kind,
			Affine: c.Affine.Clean(),
		}
		if len(c.Norm) > 0 {
			cleaned.Norm = make([]affine.Affine, len(c.Norm))
			for i, n := range c.Norm {
				cleaned.Norm[i] = n.Clean()
			}
		}

		if isAllConstant(cleaned) {
			continue
		}
		out = append(out, cleaned)
	}
	return out
}

func isAllConstant(c constraint.Constraint) bool {
	if !c.Affine.IsConstant() {
		return false
	}
	for _, n := range c.Norm {
		if !n.IsConstant() {
			return false
		}
	}
	return true
}

// Violation describes a single constraint that failed to hold within
// tolerance, the supplemented detail behind IsFeasible (spec.md §7.2).
type Violation struct {
	Kind   constraint.Kind
	Index  int
	Amount float64
}

func (v Violation) String() string {
	return fmt.Sprintf("%s constraint #%d violated by %.6g", v.Kind, v.Index, v.Amount)
}

// IsFeasible evaluates every constraint against the registry's current
// solution and reports whether all hold within tol, along with the list of
// violations found (empty when feasible). Equality constraints must be
// within tol of zero; Positive constraints must be >= -tol; cone constraints
// must satisfy ||norm||_2 <= aff + tol.
func (p *Problem) IsFeasible(tol float64) (bool, []Violation) {
	var violations []Violation

	for i, c := range p.equalities {
		v, err := c.Affine.Evaluate(p.Registry)
		if err != nil || math.Abs(v) > tol {
			violations = append(violations, Violation{Kind: c.Kind, Index: i, Amount: math.Abs(v)})
		}
	}
	for i, c := range p.positives {
		v, err := c.Affine.Evaluate(p.Registry)
		if err != nil || v < -tol {
			violations = append(violations, Violation{Kind: c.Kind, Index: i, Amount: -v})
		}
	}
	for i, c := range p.cones {
		aff, err := c.Affine.Evaluate(p.Registry)
		if err != nil {
			violations = append(violations, Violation{Kind: c.Kind, Index: i, Amount: 0})
			continue
		}
		sumSquares := 0.0
		for _, n := range c.Norm {
			nv, nerr := n.Evaluate(p.Registry)
			if nerr != nil {
				err = nerr
				break
			}
			sumSquares += nv * nv
		}
		if err != nil {
			violations = append(violations, Violation{Kind: c.Kind, Index: i, Amount: 0})
			continue
		}
		normVal := math.Sqrt(sumSquares)
		if normVal > aff+tol {
			violations = append(violations, Violation{Kind: c.Kind, Index: i, Amount: normVal - aff})
		}
	}

	return len(violations) == 0, violations
}

// String renders a human-readable dump of the whole problem: the cost
// function followed by every constraint grouped by kind, in add order
// (spec.md §6's pretty-printing surface).
func (p *Problem) String() string {
	var sb strings.Builder
	sb.WriteString("minimize " + p.cost.String() + "\n")
	sb.WriteString("subject to:\n")
	for _, c := range p.equalities {
		sb.WriteString("  " + c.String() + "\n")
	}
	for _, c := range p.positives {
		sb.WriteString("  " + c.String() + "\n")
	}
	for _, c := range p.cones {
		sb.WriteString("  " + c.String() + "\n")
	}
	return sb.String()
}
