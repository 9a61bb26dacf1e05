// Package undo records host mutations as diffs and maintains the
// bounded undo/redo stacks a UserModel replays them from. Grounded on
// broyeztony-karl/spreadsheet/server.go's UpdateRequest/UpdateResponse
// shape (one message per cell change), generalized here from "broadcast
// immediately" into "record so it can be undone, or queued for later
// broadcast" — the recording mechanism is the same, only what happens
// with a recorded change differs.
package undo

import "github.com/inkcell/inkcell/internal/model"

// CellSnapshot captures everything a Diff needs to restore a cell:
// either its raw entry text (formula source, or the literal text a
// user typed) or nothing at all for an empty cell.
type CellSnapshot struct {
	Empty bool
	Text  string
	Style uint32
}

// DiffKind distinguishes a single-cell edit from a sheet-level
// structural change, since the latter has no cell address to anchor on.
type DiffKind uint8

const (
	DiffCell DiffKind = iota
	DiffAddSheet
	DiffRemoveSheet
	DiffRenameSheet
)

// Diff is one undoable unit: a cell's before/after snapshot, or a
// sheet-level before/after name for add/remove/rename.
type Diff struct {
	Kind DiffKind

	Addr   model.CellAddress
	Before CellSnapshot
	After  CellSnapshot

	SheetID     uint32
	SheetBefore string
	SheetAfter  string
}

// Invert returns the diff that undoes d, by swapping before/after.
func (d Diff) Invert() Diff {
	inv := d
	inv.Before, inv.After = d.After, d.Before
	inv.SheetBefore, inv.SheetAfter = d.SheetAfter, d.SheetBefore
	return inv
}

// History holds two bounded stacks of diffs (or diff batches — see
// usermodel's pause/resume), the way a host's undo button and redo
// button read from opposite ends of the same edit log.
type History struct {
	limit int
	undo  [][]Diff
	redo  [][]Diff
}

// NewHistory creates a History that remembers at most limit batches on
// each stack. limit <= 0 means unbounded.
func NewHistory(limit int) *History {
	return &History{limit: limit}
}

// Push records a batch of diffs as one undoable unit and clears the
// redo stack, the way any new edit invalidates a previously undone
// branch of history.
func (h *History) Push(batch []Diff) {
	if len(batch) == 0 {
		return
	}
	h.undo = append(h.undo, batch)
	if h.limit > 0 && len(h.undo) > h.limit {
		h.undo = h.undo[len(h.undo)-h.limit:]
	}
	h.redo = nil
}

// CanUndo reports whether Undo has a batch to pop.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether Redo has a batch to pop.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Undo pops the most recent batch, pushes it unchanged onto the redo
// stack, and returns its inverted diffs in the order they should be
// replayed (reverse of recording order, so later edits are undone first).
func (h *History) Undo() ([]Diff, bool) {
	if !h.CanUndo() {
		return nil, false
	}
	batch := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, batch)

	out := make([]Diff, len(batch))
	for i, d := range batch {
		out[len(batch)-1-i] = d.Invert()
	}
	return out, true
}

// Redo pops the most recently undone batch, pushes it back onto the
// undo stack, and returns it in original recording order.
func (h *History) Redo() ([]Diff, bool) {
	if !h.CanRedo() {
		return nil, false
	}
	batch := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, batch)

	out := make([]Diff, len(batch))
	copy(out, batch)
	return out, true
}
