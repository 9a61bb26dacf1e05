// Package usermodel wraps a calculation engine with undo/redo and a
// send-queue of diffs a transport layer can drain, the host-facing
// layer spec §4.11 describes. Grounded on broyeztony-karl/spreadsheet/
// server.go's Server (Sheet + broadcast), generalized from "broadcast
// every change to every websocket client immediately" into "record a
// diff, optionally pause recomputation around a batch, and let the
// host decide when to flush the queue" — internal/webui is the thin
// transport that actually does the broadcasting.
package usermodel

import (
	"github.com/inkcell/inkcell/internal/eval"
	"github.com/inkcell/inkcell/internal/model"
	"github.com/inkcell/inkcell/internal/undo"
)

// UserModel is the unit a host (CLI, web UI, test) drives: every
// mutating call records a Diff, both for the local undo stack and for
// a caller-drained send-queue.
type UserModel struct {
	Engine  *eval.Engine
	History *undo.History

	sendQueue []undo.Diff
	paused    bool
	batch     []undo.Diff
}

// New wraps an existing engine. limit bounds the undo/redo stacks (0
// means unbounded).
func New(e *eval.Engine, limit int) *UserModel {
	return &UserModel{Engine: e, History: undo.NewHistory(limit)}
}

func (u *UserModel) snapshot(addr model.CellAddress) undo.CellSnapshot {
	if u.Engine.IsEmptyCell(addr) {
		return undo.CellSnapshot{Empty: true}
	}
	return undo.CellSnapshot{Text: u.Engine.GetCellContent(addr), Style: u.Engine.GetStyleForCell(addr)}
}

func (u *UserModel) record(d undo.Diff) {
	u.sendQueue = append(u.sendQueue, d)
	if u.paused {
		u.batch = append(u.batch, d)
		return
	}
	u.History.Push([]undo.Diff{d})
}

// SetUserInput records the before/after snapshot of addr and applies
// text through the wrapped engine.
func (u *UserModel) SetUserInput(addr model.CellAddress, text string) error {
	before := u.snapshot(addr)
	if err := u.Engine.SetUserInput(addr, text); err != nil {
		return err
	}
	u.record(undo.Diff{Kind: undo.DiffCell, Addr: addr, Before: before, After: u.snapshot(addr)})
	return nil
}

// ClearCellContents records and applies a clear-contents edit.
func (u *UserModel) ClearCellContents(addr model.CellAddress) {
	before := u.snapshot(addr)
	u.Engine.ClearCellContents(addr)
	u.record(undo.Diff{Kind: undo.DiffCell, Addr: addr, Before: before, After: u.snapshot(addr)})
}

// AddSheet records and applies adding a new worksheet.
func (u *UserModel) AddSheet(name string) (uint32, error) {
	id, err := u.Engine.AddSheet(name)
	if err != nil {
		return 0, err
	}
	u.record(undo.Diff{Kind: undo.DiffAddSheet, SheetID: id, SheetAfter: name})
	return id, nil
}

// DeleteSheet records and applies removing a worksheet.
func (u *UserModel) DeleteSheet(name string) error {
	if err := u.Engine.DeleteSheet(name); err != nil {
		return err
	}
	u.record(undo.Diff{Kind: undo.DiffRemoveSheet, SheetBefore: name})
	return nil
}

// RenameSheet records and applies a worksheet rename.
func (u *UserModel) RenameSheet(oldName, newName string) error {
	if err := u.Engine.RenameSheet(oldName, newName); err != nil {
		return err
	}
	u.record(undo.Diff{Kind: undo.DiffRenameSheet, SheetBefore: oldName, SheetAfter: newName})
	return nil
}

// apply sets live state to match d.After — used both for Redo (d is the
// original forward diff) and for Undo (d has already been inverted by
// History.Undo, so its After is the pre-edit state).
func (u *UserModel) apply(d undo.Diff) {
	switch d.Kind {
	case undo.DiffCell:
		if d.After.Empty {
			u.Engine.ClearCellAll(d.Addr)
		} else {
			_ = u.Engine.SetUserInput(d.Addr, d.After.Text)
			u.Engine.SetCellStyle(d.Addr, d.After.Style)
		}
	case undo.DiffAddSheet, undo.DiffRemoveSheet:
		// Both kinds replay the same way: a sheet moving from absent
		// (empty name) to present, or present to absent, by name —
		// Invert() swaps Before/After for either direction uniformly.
		switch {
		case d.SheetBefore == "" && d.SheetAfter != "":
			_, _ = u.Engine.AddSheet(d.SheetAfter)
		case d.SheetBefore != "" && d.SheetAfter == "":
			_ = u.Engine.DeleteSheet(d.SheetBefore)
		}
	case undo.DiffRenameSheet:
		_ = u.Engine.RenameSheet(d.SheetBefore, d.SheetAfter)
	}
}

// Undo reverts the most recently recorded batch, queuing its inverse
// diffs for FlushSendQueue to ship just like a forward edit.
func (u *UserModel) Undo() bool {
	batch, ok := u.History.Undo()
	if !ok {
		return false
	}
	for _, d := range batch {
		u.apply(d)
		u.sendQueue = append(u.sendQueue, d)
	}
	return true
}

// Redo reapplies the most recently undone batch.
func (u *UserModel) Redo() bool {
	batch, ok := u.History.Redo()
	if !ok {
		return false
	}
	for _, d := range batch {
		u.apply(d)
		u.sendQueue = append(u.sendQueue, d)
	}
	return true
}

// CanUndo reports whether Undo has anything to pop.
func (u *UserModel) CanUndo() bool { return u.History.CanUndo() }

// CanRedo reports whether Redo has anything to pop.
func (u *UserModel) CanRedo() bool { return u.History.CanRedo() }

// PauseEvaluation starts batching subsequent mutations into one
// undoable unit, deferring the recompute pass until ResumeEvaluation —
// useful for a paste or fill-down touching many cells at once.
func (u *UserModel) PauseEvaluation() {
	u.paused = true
	u.batch = nil
}

// ResumeEvaluation ends batching, pushes the accumulated batch as one
// undo unit, and runs a full recompute pass.
func (u *UserModel) ResumeEvaluation() error {
	u.paused = false
	if len(u.batch) > 0 {
		u.History.Push(u.batch)
		u.batch = nil
	}
	return u.Engine.Evaluate()
}

// FlushSendQueue drains and returns every diff accumulated since the
// last flush, for a transport layer (internal/webui) to ship.
func (u *UserModel) FlushSendQueue() []undo.Diff {
	q := u.sendQueue
	u.sendQueue = nil
	return q
}

// ApplyExternalDiffs replays diffs received from another actor without
// recording them onto the local undo stack or send-queue, avoiding the
// echo a naive "record everything" implementation would produce.
func (u *UserModel) ApplyExternalDiffs(diffs []undo.Diff) {
	for _, d := range diffs {
		u.apply(d)
	}
}
