package usermodel

import (
	"testing"

	"github.com/inkcell/inkcell/internal/eval"
	"github.com/inkcell/inkcell/internal/model"
)

func newModel(t *testing.T) *UserModel {
	t.Helper()
	e, err := eval.NewEngine("en", "en")
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if _, err := e.AddSheet("Sheet1"); err != nil {
		t.Fatalf("AddSheet: %v", err)
	}
	return New(e, 0)
}

func TestUndoRedoCellEdit(t *testing.T) {
	u := newModel(t)
	addr := model.CellAddress{WorksheetID: 1, Row: 0, Column: 0}

	if err := u.SetUserInput(addr, "10"); err != nil {
		t.Fatalf("SetUserInput: %v", err)
	}
	if err := u.SetUserInput(addr, "20"); err != nil {
		t.Fatalf("SetUserInput: %v", err)
	}
	v, err := u.Engine.GetCellValue(addr)
	if err != nil || v != 20.0 {
		t.Fatalf("GetCellValue = %v, %v, want 20", v, err)
	}

	if !u.CanUndo() {
		t.Fatalf("CanUndo() = false after two edits")
	}
	if !u.Undo() {
		t.Fatalf("Undo() = false")
	}
	v, _ = u.Engine.GetCellValue(addr)
	if v != 10.0 {
		t.Fatalf("after Undo, value = %v, want 10", v)
	}

	if !u.CanRedo() {
		t.Fatalf("CanRedo() = false after an undo")
	}
	if !u.Redo() {
		t.Fatalf("Redo() = false")
	}
	v, _ = u.Engine.GetCellValue(addr)
	if v != 20.0 {
		t.Fatalf("after Redo, value = %v, want 20", v)
	}
}

func TestPauseResumeBatchesOneUndoUnit(t *testing.T) {
	u := newModel(t)
	a := model.CellAddress{WorksheetID: 1, Row: 0, Column: 0}
	b := model.CellAddress{WorksheetID: 1, Row: 0, Column: 1}

	u.PauseEvaluation()
	if err := u.SetUserInput(a, "1"); err != nil {
		t.Fatalf("SetUserInput a: %v", err)
	}
	if err := u.SetUserInput(b, "2"); err != nil {
		t.Fatalf("SetUserInput b: %v", err)
	}
	if err := u.ResumeEvaluation(); err != nil {
		t.Fatalf("ResumeEvaluation: %v", err)
	}

	if !u.Undo() {
		t.Fatalf("Undo() = false")
	}
	if !u.Engine.IsEmptyCell(a) || !u.Engine.IsEmptyCell(b) {
		t.Fatalf("single Undo should revert the whole paused batch")
	}
	if u.CanUndo() {
		t.Fatalf("CanUndo() = true, batch should have been one undo unit")
	}
}

func TestFlushSendQueueDrainsWithoutDoubleRecording(t *testing.T) {
	u := newModel(t)
	addr := model.CellAddress{WorksheetID: 1, Row: 0, Column: 0}
	if err := u.SetUserInput(addr, "hi"); err != nil {
		t.Fatalf("SetUserInput: %v", err)
	}

	diffs := u.FlushSendQueue()
	if len(diffs) != 1 {
		t.Fatalf("len(diffs) = %d, want 1", len(diffs))
	}
	if more := u.FlushSendQueue(); len(more) != 0 {
		t.Fatalf("second flush returned %d diffs, want 0", len(more))
	}
}

func TestApplyExternalDiffsDoesNotRecordOntoLocalHistory(t *testing.T) {
	u := newModel(t)
	addr := model.CellAddress{WorksheetID: 1, Row: 0, Column: 0}

	remote := newModel(t)
	if err := remote.SetUserInput(addr, "99"); err != nil {
		t.Fatalf("remote SetUserInput: %v", err)
	}
	diffs := remote.FlushSendQueue()

	u.ApplyExternalDiffs(diffs)

	v, err := u.Engine.GetCellValue(addr)
	if err != nil || v != 99.0 {
		t.Fatalf("GetCellValue after apply = %v, %v, want 99", v, err)
	}
	if u.CanUndo() {
		t.Fatalf("CanUndo() = true, external diffs must not enter local history")
	}
}

