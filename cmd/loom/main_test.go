package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/inkcell/inkcell/internal/eval"
	"github.com/inkcell/inkcell/internal/store"
	"github.com/inkcell/inkcell/internal/usermodel"
)

func newTestREPL(t *testing.T) (*repl, *bytes.Buffer) {
	t.Helper()
	e, err := eval.NewEngine("en", "en")
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if _, err := e.AddSheet("Sheet1"); err != nil {
		t.Fatalf("AddSheet: %v", err)
	}
	s, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	var out bytes.Buffer
	return &repl{model: usermodel.New(e, 100), store: s, sheetName: "Sheet1", out: &out}, &out
}

func TestSetAndGetCell(t *testing.T) {
	r, out := newTestREPL(t)
	if err := r.dispatch("A1 10"); err != nil {
		t.Fatalf("dispatch set: %v", err)
	}
	if err := r.dispatch("B1 =A1*2"); err != nil {
		t.Fatalf("dispatch formula: %v", err)
	}
	out.Reset()
	if err := r.dispatch(":get B1"); err != nil {
		t.Fatalf("dispatch get: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "20" {
		t.Fatalf("B1 = %q, want 20", got)
	}
}

func TestUndoRestoresPreviousValue(t *testing.T) {
	r, _ := newTestREPL(t)
	if err := r.dispatch("A1 1"); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if err := r.dispatch("A1 2"); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if err := r.dispatch(":undo"); err != nil {
		t.Fatalf("dispatch undo: %v", err)
	}
	addr, err := r.resolve("A1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	v, err := r.model.Engine.GetCellValue(addr)
	if err != nil || v != 1.0 {
		t.Fatalf("A1 = %v, %v, want 1", v, err)
	}
}

func TestSheetSwitchCreatesNewSheet(t *testing.T) {
	r, _ := newTestREPL(t)
	if err := r.dispatch(":sheet Second"); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if r.sheetName != "Second" {
		t.Fatalf("sheetName = %q, want Second", r.sheetName)
	}
	if err := r.dispatch("A1 5"); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
}

func TestUnknownCommandErrors(t *testing.T) {
	r, _ := newTestREPL(t)
	if err := r.dispatch(":bogus"); err == nil {
		t.Fatalf("expected error for unknown command")
	}
}
