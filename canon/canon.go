// Package canon implements the Canonicalizer of spec.md §4.6: it turns a
// cleaned socp.Problem into the canonical (c, A, b, G, h) form the cone
// solver expects, using sparse.DOK/CCS for the symbolic-then-numeric
// two-phase construction grounded on the original wrapperBase.cpp.
package canon

import (
	"github.com/katalvlaran/socp/affine"
	"github.com/katalvlaran/socp/operr"
	"github.com/katalvlaran/socp/param"
	"github.com/katalvlaran/socp/socp"
	"github.com/katalvlaran/socp/sparse"
	"github.com/katalvlaran/socp/variable"
)

// symbolicCell pairs a fixed (row, col) position with the live Parameter
// that must be re-evaluated before every solve.
type symbolicCell struct {
	row, col int
	p        param.Parameter
}

// Canonical holds the fixed sparse structure (row indices, column pointers)
// alongside the symbolic Parameter buffers and the numeric buffers the
// solver reads. Refresh() re-evaluates the symbolic buffers into the
// numeric ones; the structure never changes after Build.
type Canonical struct {
	Registry *variable.Registry

	NVariables int
	NEqualities int
	NPositive   int
	ConeDims    []int
	NConicRows  int

	// Numeric buffers, sign-flipped per spec.md §4.6 for A and G.
	C []float64
	A sparse.CCS
	B []float64
	G sparse.CCS
	H []float64

	cSymbolic []param.Parameter // dense, length NVariables
	bSymbolic []param.Parameter // dense, length NEqualities
	hSymbolic []param.Parameter // dense, length NConicRows

	aStruct []symbolicCell // parallel to A.Values, in A's sorted order
	gStruct []symbolicCell // parallel to G.Values, in G's sorted order
}

// Build cleans problem, validates it, and constructs the canonical form.
// It does not evaluate any Parameter; call Refresh before the first solve
// and again after any externally bound cell changes.
func Build(problem *socp.Problem) (*Canonical, error) {
	problem.Clean()

	if !problem.CostIsLinear() {
		return nil, operr.Wrap("canon.Build", operr.ErrNonlinearCost)
	}

	if err := validateNoDuplicateVariable(problem.Cost()); err != nil {
		return nil, operr.Wrap("canon.Build", err)
	}
	for _, c := range problem.Equalities() {
		if err := validateNoDuplicateVariable(c.Affine); err != nil {
			return nil, operr.Wrap("canon.Build", err)
		}
	}
	for _, c := range problem.Positives() {
		if err := validateNoDuplicateVariable(c.Affine); err != nil {
			return nil, operr.Wrap("canon.Build", err)
		}
	}
	for _, c := range problem.Cones() {
		if err := validateNoDuplicateVariable(c.Affine); err != nil {
			return nil, operr.Wrap("canon.Build", err)
		}
		for _, n := range c.Norm {
			if err := validateNoDuplicateVariable(n); err != nil {
				return nil, operr.Wrap("canon.Build", err)
			}
		}
	}

	n := problem.Registry.NumVariables()
	equalities := problem.Equalities()
	positives := problem.Positives()
	cones := problem.Cones()

	coneDims := make([]int, len(cones))
	nConicRows := len(positives)
	for i, c := range cones {
		coneDims[i] = 1 + len(c.Norm)
		nConicRows += coneDims[i]
	}

	can := &Canonical{
		Registry:    problem.Registry,
		NVariables:  n,
		NEqualities: len(equalities),
		NPositive:   len(positives),
		ConeDims:    coneDims,
		NConicRows:  nConicRows,
	}

	can.buildCost(problem.Cost(), n)
	aDok := sparse.NewDOK(len(equalities), n)
	can.bSymbolic = make([]param.Parameter, len(equalities))
	for i, c := range equalities {
		can.bSymbolic[i] = accumulateConstant(c.Affine)
		can.copyLinearPartsSymbolic(aDok, &can.aStruct, c.Affine, i)
	}
	can.A = aDok.ToCCS()
	can.aStruct = reindexStruct(can.aStruct, can.A)

	gDok := sparse.NewDOK(nConicRows, n)
	can.hSymbolic = make([]param.Parameter, nConicRows)
	row := 0
	for _, c := range positives {
		can.hSymbolic[row] = accumulateConstant(c.Affine)
		can.copyLinearPartsSymbolic(gDok, &can.gStruct, c.Affine, row)
		row++
	}
	for _, c := range cones {
		can.hSymbolic[row] = accumulateConstant(c.Affine)
		can.copyLinearPartsSymbolic(gDok, &can.gStruct, c.Affine, row)
		row++
		for _, narg := range c.Norm {
			can.hSymbolic[row] = accumulateConstant(narg)
			can.copyLinearPartsSymbolic(gDok, &can.gStruct, narg, row)
			row++
		}
	}
	can.G = gDok.ToCCS()
	can.gStruct = reindexStruct(can.gStruct, can.G)

	return can, nil
}

func (c *Canonical) buildCost(cost affine.Affine, n int) {
	c.cSymbolic = make([]param.Parameter, n)
	for i := range c.cSymbolic {
		c.cSymbolic[i] = param.Const(0)
	}
	for _, t := range cost.Terms {
		c.cSymbolic[t.Variable.Index()] = t.Parameter
	}
}

// copyLinearPartsSymbolic records every linear term of aff at row into dok
// (for structure) and struct (for the parallel symbolic Parameter list,
// re-sorted to match dok's eventual CCS order by reindexStruct).
func (c *Canonical) copyLinearPartsSymbolic(dok *sparse.DOK, cells *[]symbolicCell, aff affine.Affine, row int) {
	for _, t := range aff.Terms {
		col := t.Variable.Index()
		dok.Set(row, col, 1) // placeholder; real value filled by Refresh via aStruct/gStruct
		*cells = append(*cells, symbolicCell{row: row, col: col, p: t.Parameter})
	}
}

// reindexStruct re-sorts cells into the same (col, row) order ToCCS used,
// so cells[i].p corresponds to ccs.Values[i].
func reindexStruct(cells []symbolicCell, ccs sparse.CCS) []symbolicCell {
	lookup := make(map[[2]int]param.Parameter, len(cells))
	for _, cell := range cells {
		lookup[[2]int{cell.row, cell.col}] = cell.p
	}
	out := make([]symbolicCell, len(ccs.Values))
	for col := 0; col < ccs.Cols; col++ {
		for i := ccs.ColPtr[col]; i < ccs.ColPtr[col+1]; i++ {
			row := ccs.RowIndex[i]
			out[i] = symbolicCell{row: row, col: col, p: lookup[[2]int{row, col}]}
		}
	}
	return out
}

func accumulateConstant(aff affine.Affine) param.Parameter {
	return aff.Constant
}

// validateNoDuplicateVariable re-asserts, as a belt-and-braces contract
// beyond Clean, that no Variable appears twice in aff's linear terms.
func validateNoDuplicateVariable(aff affine.Affine) error {
	seen := make(map[int]bool, len(aff.Terms))
	for _, t := range aff.Terms {
		if !t.Variable.HasIndex() {
			continue
		}
		idx := t.Variable.Index()
		if seen[idx] {
			return operr.ErrDuplicateVariable
		}
		seen[idx] = true
	}
	return nil
}

// Refresh re-evaluates every symbolic Parameter into the numeric buffers,
// applying the sign flip for A and G (spec.md §4.6: the solver's convention
// is b - Ax = 0 and h - Gx >=_K 0, so A and G carry the negated coefficients
// of the user's affines). Structure (row indices, column pointers) is never
// rebuilt; only Values/C/B/H are overwritten.
func (c *Canonical) Refresh() error {
	cVals := make([]float64, len(c.cSymbolic))
	for i, p := range c.cSymbolic {
		v, err := p.Value()
		if err != nil {
			return operr.Wrap("Canonical.Refresh", err)
		}
		cVals[i] = v
	}
	c.C = cVals

	bVals := make([]float64, len(c.bSymbolic))
	for i, p := range c.bSymbolic {
		v, err := p.Value()
		if err != nil {
			return operr.Wrap("Canonical.Refresh", err)
		}
		bVals[i] = v
	}
	c.B = bVals

	hVals := make([]float64, len(c.hSymbolic))
	for i, p := range c.hSymbolic {
		v, err := p.Value()
		if err != nil {
			return operr.Wrap("Canonical.Refresh", err)
		}
		hVals[i] = v
	}
	c.H = hVals

	aValues := make([]float64, len(c.aStruct))
	for i, cell := range c.aStruct {
		v, err := cell.p.Value()
		if err != nil {
			return operr.Wrap("Canonical.Refresh", err)
		}
		aValues[i] = -v
	}
	c.A.Values = aValues

	gValues := make([]float64, len(c.gStruct))
	for i, cell := range c.gStruct {
		v, err := cell.p.Value()
		if err != nil {
			return operr.Wrap("Canonical.Refresh", err)
		}
		gValues[i] = -v
	}
	c.G.Values = gValues

	return nil
}
