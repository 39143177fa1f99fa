// Command facility demonstrates the classic Fermat-Weber facility location
// problem as a second-order cone program: place a single facility to
// minimize the sum of Euclidean distances to a fixed set of demand points,
// each distance expressed through an epigraph variable and a norm
// constraint (t_i >= ||p - f_i||_2), the standard SOCP reformulation of a
// sum-of-norms objective that a linear cost function cannot represent
// directly.
package main

import (
	"context"
	"log"

	"github.com/katalvlaran/socp/modeling"
)

func main() {
	demand := [][2]float64{
		{0, 0},
		{10, 0},
		{4, 8},
		{-3, 5},
	}

	m := modeling.New()
	p, err := m.Var("p", 1, 2)
	if err != nil {
		log.Fatalf("facility: declaring facility position: %v", err)
	}
	t, err := m.Var("t", 1, len(demand))
	if err != nil {
		log.Fatalf("facility: declaring epigraph variables: %v", err)
	}

	px, py := p[0][0], p[0][1]
	for i, f := range demand {
		dx := modeling.VarTerm(1, px)
		dx, err = dx.Sub(modeling.Par(f[0]))
		if err != nil {
			log.Fatalf("facility: building dx for demand %d: %v", i, err)
		}
		dy := modeling.VarTerm(1, py)
		dy, err = dy.Sub(modeling.Par(f[1]))
		if err != nil {
			log.Fatalf("facility: building dy for demand %d: %v", i, err)
		}

		dist, err := modeling.Norm2(dx, dy)
		if err != nil {
			log.Fatalf("facility: building distance norm for demand %d: %v", i, err)
		}

		ti := modeling.VarTerm(1, t[0][i])
		if err := m.Leq(dist, ti); err != nil {
			log.Fatalf("facility: epigraph constraint for demand %d: %v", i, err)
		}
		m.Minimize(ti)
	}

	ok, err := m.Solve(context.Background(), modeling.WithIterationLimit(200))
	if err != nil {
		log.Fatalf("facility: solve: %v", err)
	}
	log.Printf("facility: %s", m.ResultString())
	if !ok {
		return
	}

	pos, err := m.ReadMatrix("p")
	if err != nil {
		log.Fatalf("facility: reading facility position: %v", err)
	}
	log.Printf("facility placed at (%.4f, %.4f)", pos[0][0], pos[0][1])
}
