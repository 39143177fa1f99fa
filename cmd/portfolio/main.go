// Command portfolio demonstrates a risk-constrained portfolio allocation
// modeled as a second-order cone program: maximize expected return subject
// to a budget constraint, no short-selling, and a cap on portfolio
// volatility expressed as a Euclidean-norm constraint.
//
// Scenario: three assets with expected returns mu and per-asset volatility
// sigma (independent risk, for simplicity — the norm constraint generalizes
// to a correlated risk model by replacing the diagonal scaling with a
// Cholesky factor of the covariance matrix).
//
// Goal: choose weights x >= 0, sum(x) == 1, minimizing -mu.x subject to
// ||sigma .* x||_2 <= riskBudget.
package main

import (
	"context"
	"log"

	"github.com/katalvlaran/socp/modeling"
	"github.com/katalvlaran/socp/scalar"
)

func main() {
	mu := []float64{0.08, 0.12, 0.05}
	sigma := []float64{0.10, 0.25, 0.04}
	const riskBudget = 0.08

	m := modeling.New()
	grid, err := m.Var("x", 1, len(mu))
	if err != nil {
		log.Fatalf("portfolio: declaring weights: %v", err)
	}
	x := grid[0]

	sum := modeling.Par(0)
	for i, xi := range x {
		term := modeling.VarTerm(1, xi)
		sum, err = sum.Add(term)
		if err != nil {
			log.Fatalf("portfolio: accumulating budget: %v", err)
		}
		m.Minimize(modeling.VarTerm(-mu[i], xi))
		if err := m.Geq(term, modeling.Par(0)); err != nil {
			log.Fatalf("portfolio: no-short-selling constraint: %v", err)
		}
	}
	m.Eq(sum, modeling.Par(1))

	scaledTerms := make([]scalar.Scalar, 0, len(x))
	for i, xi := range x {
		scaledTerms = append(scaledTerms, modeling.VarTerm(sigma[i], xi))
	}
	norm, err := modeling.Norm2(scaledTerms...)
	if err != nil {
		log.Fatalf("portfolio: building risk norm: %v", err)
	}
	if err := m.Leq(norm, modeling.Par(riskBudget)); err != nil {
		log.Fatalf("portfolio: risk cap constraint: %v", err)
	}

	ok, err := m.Solve(context.Background(), modeling.WithIterationLimit(200))
	if err != nil {
		log.Fatalf("portfolio: solve: %v", err)
	}
	log.Printf("portfolio: %s", m.ResultString())
	if !ok {
		return
	}

	weights, err := m.ReadMatrix("x")
	if err != nil {
		log.Fatalf("portfolio: reading weights: %v", err)
	}
	for i, w := range weights[0] {
		log.Printf("asset %d: weight=%.4f", i, w)
	}
}
