package ast

import "github.com/inkcell/inkcell/internal/model"

// FormulaTable centrally stores parsed expression trees and dedupes
// structurally-identical formulas so cells sharing a formula share one
// tree (spec §3: "a formula-id pointing into a per-sheet formula table so
// shared formulas share a tree"). Grounded on the teacher's FormulaTable
// (vogtb/formula.go); trimmed of the teacher's named-range/worksheet
// cross-reference bookkeeping (owningWorksheets, namedRangesUsed, ...),
// which this spec's dependency discovery (§4.4) performs per-pass from
// the tree instead of maintaining incrementally.
type FormulaTable struct {
	astIndex  map[string]uint32 // canonical RC text -> formula id
	keyByID   map[uint32]string // formula id -> canonical RC text (reverse of astIndex)
	trees     map[uint32]Node  // formula id -> tree
	source    map[uint32]string // formula id -> original user-entered text
	refCounts map[uint32]int    // formula id -> number of cells using it
	cellsByID map[uint32]map[model.CellAddress]struct{}
	formulaAt map[model.CellAddress]uint32
	nextID    uint32
}

// NewFormulaTable creates an empty table. ID 0 is reserved for "no
// formula."
func NewFormulaTable() *FormulaTable {
	return &FormulaTable{
		astIndex:  make(map[string]uint32),
		keyByID:   make(map[uint32]string),
		trees:     make(map[uint32]Node),
		source:    make(map[uint32]string),
		refCounts: make(map[uint32]int),
		cellsByID: make(map[uint32]map[model.CellAddress]struct{}),
		formulaAt: make(map[model.CellAddress]uint32),
		nextID:    1,
	}
}

// Intern stores tree (keyed by its canonical RC text, canonicalKey) for
// cell, reusing an existing entry if one is structurally identical, and
// returns the formula id.
func (ft *FormulaTable) Intern(canonicalKey, sourceText string, tree Node, cell model.CellAddress) uint32 {
	ft.detachCell(cell)

	id, exists := ft.astIndex[canonicalKey]
	if !exists {
		id = ft.nextID
		ft.astIndex[canonicalKey] = id
		ft.keyByID[id] = canonicalKey
		ft.trees[id] = tree
		ft.source[id] = sourceText
		ft.nextID++
	}
	ft.refCounts[id]++
	if ft.cellsByID[id] == nil {
		ft.cellsByID[id] = make(map[model.CellAddress]struct{})
	}
	ft.cellsByID[id][cell] = struct{}{}
	ft.formulaAt[cell] = id
	return id
}

// detachCell removes cell's current formula association, if any,
// reclaiming the formula entry once it has no remaining cells.
func (ft *FormulaTable) detachCell(cell model.CellAddress) {
	oldID, had := ft.formulaAt[cell]
	if !had {
		return
	}
	delete(ft.formulaAt, cell)
	delete(ft.cellsByID[oldID], cell)
	ft.refCounts[oldID]--
	if ft.refCounts[oldID] <= 0 {
		ft.remove(oldID)
	}
}

// Detach removes cell's formula association (used by clear operations).
func (ft *FormulaTable) Detach(cell model.CellAddress) { ft.detachCell(cell) }

func (ft *FormulaTable) remove(id uint32) {
	if _, ok := ft.trees[id]; !ok {
		return
	}
	delete(ft.astIndex, ft.keyByID[id])
	delete(ft.keyByID, id)
	delete(ft.trees, id)
	delete(ft.source, id)
	delete(ft.refCounts, id)
	delete(ft.cellsByID, id)
}

// Tree returns the parsed expression tree for a formula id.
func (ft *FormulaTable) Tree(id uint32) (Node, bool) {
	t, ok := ft.trees[id]
	return t, ok
}

// Source returns the original user-entered formula text for a formula id
// (used by GetFormula / FORMULATEXT, which must echo what the user typed
// rather than a re-stringified canonical form when they agree).
func (ft *FormulaTable) Source(id uint32) (string, bool) {
	s, ok := ft.source[id]
	return s, ok
}

// FormulaIDAt returns the formula id stored at cell, if any.
func (ft *FormulaTable) FormulaIDAt(cell model.CellAddress) (uint32, bool) {
	id, ok := ft.formulaAt[cell]
	return id, ok
}

// CellsUsing returns every cell currently sharing formula id.
func (ft *FormulaTable) CellsUsing(id uint32) []model.CellAddress {
	cells := ft.cellsByID[id]
	out := make([]model.CellAddress, 0, len(cells))
	for c := range cells {
		out = append(out, c)
	}
	return out
}

// Count returns the number of distinct formula trees stored.
func (ft *FormulaTable) Count() int { return len(ft.trees) }
