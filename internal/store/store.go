// Package store persists a workbook as a compact gob snapshot (spec
// §3.1), with two backends behind a common interface: local disk and
// Postgres. Grounded on aretext's file/save_unix.go for the
// write-to-temp-then-rename pattern (github.com/google/renameio/v2)
// and on broyeztony-karl's pgx/v5 dependency for the Postgres backend.
package store

import (
	"bytes"
	"encoding/gob"

	"github.com/inkcell/inkcell/internal/eval"
	"github.com/inkcell/inkcell/internal/model"
)

// Store loads, saves, and deletes a workbook by a caller-chosen id
// (filename stem, primary key, ...).
type Store interface {
	Load(id string) (*eval.Engine, error)
	Save(id string, e *eval.Engine) error
	Delete(id string) error
}

// snapshotVersion guards the gob schema; Load rejects a mismatched
// version rather than risk silently misreading an older layout.
const snapshotVersion = 1

// cellSnapshot stores the re-enterable text for one cell rather than
// its parsed ast.Node: gob cannot encode the ast.Node interface without
// registering every concrete node type, and replaying the formula
// through Engine.SetUserInput on load is both simpler and guarantees
// the restored tree is identical to what typing the formula in fresh
// would produce.
type cellSnapshot struct {
	Row, Col uint32
	Text     string
	StyleID  uint32
}

type sheetSnapshot struct {
	Name  string
	Cells []cellSnapshot
}

type workbookSnapshot struct {
	Version  int
	Locale   string
	Language string
	Sheets   []sheetSnapshot
}

func snapshot(e *eval.Engine) workbookSnapshot {
	snap := workbookSnapshot{Version: snapshotVersion, Locale: e.Locale.ID, Language: e.Language.ID}
	for _, sheetID := range e.Book.Worksheets.OrderedIDs() {
		name, _ := e.Book.Worksheets.NameByID(sheetID)
		sheet := sheetSnapshot{Name: name}
		grid := e.Book.Grid(sheetID)
		rng, ok := grid.UsedRange(sheetID)
		if ok {
			for _, addr := range rng.Cells() {
				if e.IsEmptyCell(addr) {
					continue
				}
				sheet.Cells = append(sheet.Cells, cellSnapshot{
					Row: addr.Row, Col: addr.Column,
					Text:    e.GetCellContent(addr),
					StyleID: e.GetStyleForCell(addr),
				})
			}
		}
		snap.Sheets = append(snap.Sheets, sheet)
	}
	return snap
}

func encode(snap workbookSnapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(data []byte) (workbookSnapshot, error) {
	var snap workbookSnapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
		return workbookSnapshot{}, err
	}
	return snap, nil
}

func restore(snap workbookSnapshot) (*eval.Engine, error) {
	e, err := eval.NewEngine(snap.Locale, snap.Language)
	if err != nil {
		return nil, err
	}
	for _, sheet := range snap.Sheets {
		sheetID, err := e.AddSheet(sheet.Name)
		if err != nil {
			return nil, err
		}
		for _, cell := range sheet.Cells {
			addr := model.CellAddress{WorksheetID: sheetID, Row: cell.Row, Column: cell.Col}
			if err := e.SetUserInput(addr, cell.Text); err != nil {
				return nil, err
			}
			e.SetCellStyle(addr, cell.StyleID)
		}
	}
	if err := e.Evaluate(); err != nil {
		return nil, err
	}
	return e, nil
}
