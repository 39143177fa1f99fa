// Package socp (this module) is a small second-order cone programming
// modeling layer for Go.
//
// What is it?
//
//	A pure-Go library for building convex optimization models — linear cost,
//	linear equality/inequality constraints, and Euclidean-norm ("second-order
//	cone") constraints — and solving them with a bundled primal-dual
//	interior-point solver.
//
// Why choose it?
//
//   - Deferred parameters    — bind a constraint's coefficient to a caller-owned
//     cell and re-solve after mutating it, without rebuilding the model
//   - Fail-fast modeling     — illegal expressions (e.g. multiplying two
//     decision variables together) are rejected at construction time, not at
//     solve time
//   - Pure Go                — the bundled coneipm solver has no cgo dependency
//
// Under the hood, everything is organized under one subpackage per concern:
//
//	param/      — deferred-evaluation parameter graph
//	variable/   — named decision-variable registry
//	affine/     — linear term and affine-expression algebra
//	scalar/     — quadratic-capable scalar expressions (the norm-form building block)
//	constraint/ — constraint taxonomy and builders
//	socp/       — the problem container (variables, constraints, cost)
//	sparse/     — DOK-to-CCS sparse matrix construction
//	canon/      — canonicalization into the solver's (c, A, b, G, h) form
//	solver/     — the cone-solver adaptor trait and status vocabulary
//	coneipm/    — the bundled primal-dual interior-point cone solver
//	modeling/   — the public facade tying the above together
//
// See cmd/portfolio and cmd/facility for complete worked examples.
package socp
