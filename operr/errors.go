// Package operr centralizes the sentinel errors shared by the modeling
// packages (affine, scalar, constraint, socp, canon). Collecting them in one
// leaf package lets callers branch with errors.Is regardless of which layer
// raised the error, the same way lvlath centralizes its matrix sentinels in
// matrix/errors.go rather than scattering them per file.
//
// Error policy:
//   - Only sentinel variables are exported.
//   - Callers use errors.Is(err, operr.ErrX) to branch on semantics.
//   - Wrap with Wrap(method, err) to attach call-site context via %w.
package operr

import (
	"errors"
	"fmt"
)

// ConfigError sentinels — the user built something the algebra cannot
// represent. Raised as soon as the offending operation is attempted.
var (
	// ErrNonConvexProduct indicates two already first-order Affines were
	// multiplied directly (only legal at Scalar level, where it is recorded
	// as a higher-order slot instead of attempted in place).
	ErrNonConvexProduct = errors.New("operr: multiplying two first-order affines is not representable")

	// ErrInvalidSqrt indicates sqrt() was attempted on a Scalar whose affine
	// part is non-constant, or whose higher-order slots are not all squares.
	ErrInvalidSqrt = errors.New("operr: sqrt requires a constant affine part and square-only higher-order terms")

	// ErrNormAddition indicates an attempt to add two norm-form Scalars, or a
	// norm-form to an order-2 Scalar.
	ErrNormAddition = errors.New("operr: cannot add a norm-form expression to another higher-order expression")

	// ErrHigherOrderSub indicates subtraction where the right-hand operand
	// has order > 1.
	ErrHigherOrderSub = errors.New("operr: subtraction of higher-order expressions is not supported")

	// ErrHigherOrderMul indicates multiplication where either operand has
	// order > 1 or is a norm-form.
	ErrHigherOrderMul = errors.New("operr: multiplication requires both operands to have order <= 1")

	// ErrDuplicateVariable indicates the same Variable appears twice in a
	// single Affine (post-clean invariant violated).
	ErrDuplicateVariable = errors.New("operr: duplicate variable in expression")

	// ErrDuplicateName indicates two variables were registered under the
	// same name.
	ErrDuplicateName = errors.New("operr: duplicate variable name")

	// ErrShapeMismatch indicates two matrix operands have incompatible
	// shapes for the attempted element-wise or relational operation.
	ErrShapeMismatch = errors.New("operr: matrix shape mismatch")

	// ErrNonlinearCost indicates the accumulated cost function has order > 1
	// at canonicalization time.
	ErrNonlinearCost = errors.New("operr: cost function must have order <= 1")

	// ErrUnsupportedConstraint indicates a relational comparison that maps
	// to none of Equality/Positive/SecondOrderCone (e.g. quadratic on the
	// left with no sqrt, or a norm-form on the right of <=).
	ErrUnsupportedConstraint = errors.New("operr: unsupported constraint shape")

	// ErrUnallocatedVariable indicates a read was attempted on a Variable
	// that was never assigned a problem index.
	ErrUnallocatedVariable = errors.New("operr: variable has no problem index")

	// ErrUnknownVariable indicates a lookup by name found no registered
	// variable.
	ErrUnknownVariable = errors.New("operr: unknown variable name")
)

// Wrap prefixes err with a call-site method/operation name, preserving it for
// errors.Is via %w. Returns nil if err is nil.
func Wrap(method string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", method, err)
}

// Wrapf is Wrap with a formatted message inserted between the method name and
// the wrapped sentinel.
func Wrapf(method, format string, err error, args ...interface{}) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %s: %w", method, msg, err)
}
