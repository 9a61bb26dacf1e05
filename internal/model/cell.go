package model

// EvalState is the per-cell slot in the Stale/Evaluating/Fresh state
// machine the evaluator drives (spec §4.4, replacing the teacher's
// persistent DependencyGraph + dirty-set scheduler with a state stored
// directly on the cell — see SPEC_FULL.md §4.4 and §9 for the rationale).
type EvalState uint8

const (
	// StateFresh means Value holds an up-to-date result (or the cell has
	// no formula at all).
	StateFresh EvalState = iota
	// StateStale means a dependency changed and Value must be recomputed
	// before it is trusted.
	StateStale
	// StateEvaluating marks a cell currently on the evaluator's call
	// stack; revisiting a StateEvaluating cell is a circular reference.
	StateEvaluating
)

// Cell is one sparse worksheet slot: a literal value, or a formula id
// plus its last-computed value and evaluation state. Grounded on the
// teacher's Cell (vogtb/cell.go), flattened from the teacher's
// type-tagged struct-of-arrays chunk encoding into one struct per
// occupied address — this spec's per-cell EvalState and StyleID need to
// travel together with the value, which the teacher's SoA chunks don't
// carry.
type Cell struct {
	Value     Value // literal value when FormulaID == 0, else last computed result
	FormulaID uint32
	StyleID   uint32
	State     EvalState

	// SpillRows/SpillCols record the dimensions of the array this cell
	// last spilled into its neighbors (spec §4.5), 0 when the cell isn't
	// a spill origin. Kept here so a later evaluation can find and clear
	// exactly the rectangle it previously ghosted before recomputing.
	SpillRows uint32
	SpillCols uint32
}

// IsFormula reports whether the cell holds a formula rather than a
// literal value.
func (c *Cell) IsFormula() bool { return c.FormulaID != 0 }

// IsEmpty reports whether the cell has no formula and no literal value.
func (c *Cell) IsEmpty() bool {
	return c.FormulaID == 0 && c.Value == nil
}
