// Package depgraph provides transient, per-calculation-pass dependency
// bookkeeping: volatile-cell tracking and precedent/dependent
// introspection for tracing tools (FORMULATEXT-style UIs, "show
// precedents"). It is explicitly NOT a persistent topological scheduler
// — spec §4.4 rejects that design in favor of the Stale/Evaluating/Fresh
// state machine driven directly off internal/ast.FormulaTable during
// evaluation (see internal/eval). Grounded on the teacher's
// DependencyGraph (vogtb/graph.go), whose bookkeeping shape (precedents,
// dependents, volatile set) is kept here as scratch state rebuilt each
// pass rather than maintained incrementally across edits.
package depgraph

import "github.com/inkcell/inkcell/internal/model"

// Graph is a throwaway snapshot of one evaluation pass's precedent/
// dependent edges and volatile-cell set, used only for introspection —
// the evaluator itself never consults it to decide what to compute.
type Graph struct {
	precedents map[model.CellAddress]map[model.CellAddress]struct{}
	dependents map[model.CellAddress]map[model.CellAddress]struct{}
	volatile   map[model.CellAddress]struct{}
}

// New creates an empty snapshot.
func New() *Graph {
	return &Graph{
		precedents: make(map[model.CellAddress]map[model.CellAddress]struct{}),
		dependents: make(map[model.CellAddress]map[model.CellAddress]struct{}),
		volatile:   make(map[model.CellAddress]struct{}),
	}
}

// Record notes that cell depends on precedent, discovered while walking
// cell's formula tree during evaluation.
func (g *Graph) Record(cell, precedent model.CellAddress) {
	if g.precedents[cell] == nil {
		g.precedents[cell] = make(map[model.CellAddress]struct{})
	}
	g.precedents[cell][precedent] = struct{}{}
	if g.dependents[precedent] == nil {
		g.dependents[precedent] = make(map[model.CellAddress]struct{})
	}
	g.dependents[precedent][cell] = struct{}{}
}

// MarkVolatile records that cell's formula calls a volatile function
// (e.g. NOW, RAND) and must be recomputed on every pass regardless of
// its Stale/Fresh state.
func (g *Graph) MarkVolatile(cell model.CellAddress) { g.volatile[cell] = struct{}{} }

// IsVolatile reports whether cell was marked volatile this pass.
func (g *Graph) IsVolatile(cell model.CellAddress) bool {
	_, ok := g.volatile[cell]
	return ok
}

// VolatileCells returns every cell marked volatile this pass.
func (g *Graph) VolatileCells() []model.CellAddress {
	out := make([]model.CellAddress, 0, len(g.volatile))
	for c := range g.volatile {
		out = append(out, c)
	}
	return out
}

// Precedents returns the cells that cell directly reads from.
func (g *Graph) Precedents(cell model.CellAddress) []model.CellAddress {
	return setToSlice(g.precedents[cell])
}

// Dependents returns the cells that directly read from cell.
func (g *Graph) Dependents(cell model.CellAddress) []model.CellAddress {
	return setToSlice(g.dependents[cell])
}

func setToSlice(set map[model.CellAddress]struct{}) []model.CellAddress {
	out := make([]model.CellAddress, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return out
}

// Reset clears the snapshot for a fresh pass.
func (g *Graph) Reset() {
	g.precedents = make(map[model.CellAddress]map[model.CellAddress]struct{})
	g.dependents = make(map[model.CellAddress]map[model.CellAddress]struct{})
	g.volatile = make(map[model.CellAddress]struct{})
}
