package model

// SheetMeta holds the per-worksheet presentation metadata that travels
// alongside a sheet but is never read by the evaluator: visibility,
// frozen panes, and the column/row/style overrides a host UI renders
// with. Grounded on the teacher's Worksheet struct (vogtb/worksheet.go),
// which keeps this kind of metadata on the sheet itself; kept as a
// side table here instead, since SheetGrid is deliberately just cells.
type SheetMeta struct {
	Hidden        bool
	FrozenRows    uint32
	FrozenColumns uint32
	ColumnWidths  map[uint32]float64
	RowHeights    map[uint32]float64
	ColumnStyles  map[uint32]uint32
}

func newSheetMeta() *SheetMeta {
	return &SheetMeta{
		ColumnWidths: make(map[uint32]float64),
		RowHeights:   make(map[uint32]float64),
		ColumnStyles: make(map[uint32]uint32),
	}
}

// SheetMeta returns the metadata record for sheetID, creating an empty
// one on first use.
func (wb *Workbook) SheetMeta(sheetID uint32) *SheetMeta {
	if wb.sheetMeta == nil {
		wb.sheetMeta = make(map[uint32]*SheetMeta)
	}
	m, ok := wb.sheetMeta[sheetID]
	if !ok {
		m = newSheetMeta()
		wb.sheetMeta[sheetID] = m
	}
	return m
}
