// Package affine implements Term and Affine, the linear-algebra building
// blocks shared by scalar.Scalar and constraint.Constraint (spec.md §3, §4.3).
package affine

import (
	"strings"

	"github.com/katalvlaran/socp/operr"
	"github.com/katalvlaran/socp/param"
	"github.com/katalvlaran/socp/variable"
)

// Term is a pair (Parameter, Variable) meaning "parameter * variable". A term
// carrying an IsZero parameter is semantically absent.
type Term struct {
	Parameter param.Parameter
	Variable  variable.Variable
}

// NewTerm builds a Term from a parameter and a variable.
func NewTerm(p param.Parameter, v variable.Variable) Term {
	return Term{Parameter: p, Variable: v}
}

// Evaluate returns parameter.Value() * solved-value-of-variable.
func (t Term) Evaluate(registry interface {
	Read(variable.Variable) (float64, error)
}) (float64, error) {
	p, err := t.Parameter.Value()
	if err != nil {
		return 0, err
	}
	x, err := registry.Read(t.Variable)
	if err != nil {
		return 0, err
	}
	return p * x, nil
}

func (t Term) String() string {
	return t.Variable.String()
}

// Affine is a list of Terms plus a constant Parameter. After Clean, no two
// terms share the same Variable and no term has a zero parameter.
type Affine struct {
	Terms    []Term
	Constant param.Parameter
}

// Zero returns the constant-zero Affine.
func Zero() Affine {
	return Affine{Constant: param.Const(0)}
}

// FromConstant wraps a constant Parameter as a zero-term Affine.
func FromConstant(p param.Parameter) Affine {
	return Affine{Constant: p}
}

// FromTerm wraps a single Term as a one-term, zero-constant Affine.
func FromTerm(t Term) Affine {
	return Affine{Terms: []Term{t}, Constant: param.Const(0)}
}

// IsConstant reports whether the affine has no terms (order 0 per spec.md §9.1
// — both an empty-terms-nonzero-constant and an empty-terms-zero-constant
// affine are order 0).
func (a Affine) IsConstant() bool { return len(a.Terms) == 0 }

// IsFirstOrder reports whether the affine has at least one term.
func (a Affine) IsFirstOrder() bool { return len(a.Terms) > 0 }

// Add merges like terms by Variable identity (summing parameters), matching
// the original C++'s Affine::operator+=. The result's term count never
// exceeds len(a.Terms)+len(b.Terms).
func (a Affine) Add(b Affine) Affine {
	terms := make([]Term, 0, len(a.Terms)+len(b.Terms))
	terms = append(terms, a.Terms...)

	index := make(map[variable.Variable]int, len(terms))
	for i, t := range terms {
		index[t.Variable] = i
	}

	for _, t := range b.Terms {
		if i, ok := index[t.Variable]; ok {
			terms[i].Parameter = param.Add(terms[i].Parameter, t.Parameter)
		} else {
			index[t.Variable] = len(terms)
			terms = append(terms, t)
		}
	}

	return Affine{Terms: terms, Constant: param.Add(a.Constant, b.Constant)}
}

// Sub negates b's parameters before merging, per spec.md §4.3.
func (a Affine) Sub(b Affine) Affine {
	negated := make([]Term, len(b.Terms))
	for i, t := range b.Terms {
		negated[i] = Term{Parameter: param.Neg(t.Parameter), Variable: t.Variable}
	}
	return a.Add(Affine{Terms: negated, Constant: param.Neg(b.Constant)})
}

// ScaleBy returns a new Affine with every term's and the constant's parameter
// multiplied by p, used for the "constant factor times a first-order affine"
// case of Affine multiplication.
func (a Affine) ScaleBy(p param.Parameter) Affine {
	terms := make([]Term, 0, len(a.Terms))
	for _, t := range a.Terms {
		if t.Parameter.IsZero() {
			continue
		}
		terms = append(terms, Term{Parameter: param.Mul(t.Parameter, p), Variable: t.Variable})
	}
	return Affine{Terms: terms, Constant: param.Mul(a.Constant, p)}
}

// Evaluate sums the constant plus every term's evaluation against registry.
func (a Affine) Evaluate(registry interface {
	Read(variable.Variable) (float64, error)
}) (float64, error) {
	sum, err := a.Constant.Value()
	if err != nil {
		return 0, err
	}
	for _, t := range a.Terms {
		v, err := t.Evaluate(registry)
		if err != nil {
			return 0, err
		}
		sum += v
	}
	return sum, nil
}

// Clean removes zero-parameter terms and merges duplicate variables,
// returning a cleaned copy; a is not modified. Terms whose parameter is exactly
// zero (via IsZero, conservative per spec.md §4.1) are dropped.
func (a Affine) Clean() Affine {
	merged := make(map[variable.Variable]param.Parameter)
	order := make([]variable.Variable, 0, len(a.Terms))

	for _, t := range a.Terms {
		if t.Parameter.IsZero() {
			continue
		}
		if existing, ok := merged[t.Variable]; ok {
			merged[t.Variable] = param.Add(existing, t.Parameter)
		} else {
			merged[t.Variable] = t.Parameter
			order = append(order, t.Variable)
		}
	}

	terms := make([]Term, 0, len(order))
	for _, v := range order {
		p := merged[v]
		if p.IsZero() {
			continue
		}
		terms = append(terms, Term{Parameter: p, Variable: v})
	}

	return Affine{Terms: terms, Constant: a.Constant}
}

// Mul multiplies two Affines. Legal only when at least one operand is
// constant (order 0); multiplying two first-order Affines directly is
// ConfigError — that product is only representable at Scalar level as a
// higher-order slot (spec.md §4.3).
func Mul(a, b Affine) (Affine, error) {
	if a.IsFirstOrder() && b.IsFirstOrder() {
		return Affine{}, operr.Wrap("affine.Mul", operr.ErrNonConvexProduct)
	}

	if a.IsConstant() && b.IsConstant() {
		return FromConstant(param.Mul(a.Constant, b.Constant)), nil
	}

	if b.IsConstant() {
		return a.ScaleBy(b.Constant), nil
	}
	return b.ScaleBy(a.Constant), nil
}

func (a Affine) String() string {
	var sb strings.Builder
	for i, t := range a.Terms {
		if i > 0 {
			sb.WriteString(" + ")
		}
		sb.WriteString(t.String())
	}
	if len(a.Terms) == 0 || !a.Constant.IsZero() {
		if len(a.Terms) > 0 {
			sb.WriteString(" + ")
		}
		sb.WriteString("const")
	}
	return sb.String()
}
