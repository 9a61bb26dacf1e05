package model

import "github.com/pkg/errors"

// Font, Fill, and Border are the style-table leaf records a CellStyle
// composes (spec §3: "style tables (fonts, fills, borders,
// number-formats, composed cell-styles)"). Kept intentionally small —
// this spec treats styling as ambient workbook metadata the evaluator
// never reads, not a rendering engine.
type Font struct {
	Name   string
	SizePt float64
	Bold   bool
	Italic bool
	Color  string // "#RRGGBB"
}

type Fill struct {
	PatternType string // "solid", "none", ...
	Color       string
}

type Border struct {
	Style string // "thin", "medium", "none", ...
	Color string
}

// NumberFormat pairs a display pattern with the id the cell stores; "General"
// is always id 0.
type NumberFormat struct {
	Pattern string
}

// CellStyle is a composed style: indices into the font/fill/border/
// number-format tables.
type CellStyle struct {
	FontID         uint32
	FillID         uint32
	BorderID       uint32
	NumberFormatID uint32
}

// StyleTable owns every style-related table in the workbook and enforces
// the invariant that every style id a cell references exists (spec §3).
type StyleTable struct {
	fonts         []Font
	fills         []Fill
	borders       []Border
	numberFormats []NumberFormat
	cellStyles    []CellStyle
}

// NewStyleTable creates a style table seeded with the default ("General",
// unstyled) entries at index 0, so a zero-valued style id is always valid.
func NewStyleTable() *StyleTable {
	return &StyleTable{
		fonts:         []Font{{Name: "Calibri", SizePt: 11}},
		fills:         []Fill{{PatternType: "none"}},
		borders:       []Border{{Style: "none"}},
		numberFormats: []NumberFormat{{Pattern: "General"}},
		cellStyles:    []CellStyle{{}},
	}
}

func (st *StyleTable) AddFont(f Font) uint32 {
	st.fonts = append(st.fonts, f)
	return uint32(len(st.fonts) - 1)
}
func (st *StyleTable) AddFill(f Fill) uint32 {
	st.fills = append(st.fills, f)
	return uint32(len(st.fills) - 1)
}
func (st *StyleTable) AddBorder(b Border) uint32 {
	st.borders = append(st.borders, b)
	return uint32(len(st.borders) - 1)
}
func (st *StyleTable) AddNumberFormat(nf NumberFormat) uint32 {
	st.numberFormats = append(st.numberFormats, nf)
	return uint32(len(st.numberFormats) - 1)
}

// AddCellStyle composes a new cell style, validating that every
// referenced sub-style id exists.
func (st *StyleTable) AddCellStyle(cs CellStyle) (uint32, error) {
	if int(cs.FontID) >= len(st.fonts) {
		return 0, errors.Errorf("style: font id %d out of range", cs.FontID)
	}
	if int(cs.FillID) >= len(st.fills) {
		return 0, errors.Errorf("style: fill id %d out of range", cs.FillID)
	}
	if int(cs.BorderID) >= len(st.borders) {
		return 0, errors.Errorf("style: border id %d out of range", cs.BorderID)
	}
	if int(cs.NumberFormatID) >= len(st.numberFormats) {
		return 0, errors.Errorf("style: number format id %d out of range", cs.NumberFormatID)
	}
	st.cellStyles = append(st.cellStyles, cs)
	return uint32(len(st.cellStyles) - 1), nil
}

// CellStyle returns the composed style for a style id.
func (st *StyleTable) CellStyle(id uint32) (CellStyle, bool) {
	if int(id) >= len(st.cellStyles) {
		return CellStyle{}, false
	}
	return st.cellStyles[id], true
}

// NumberFormat returns the number-format pattern for a number-format id.
func (st *StyleTable) NumberFormat(id uint32) (NumberFormat, bool) {
	if int(id) >= len(st.numberFormats) {
		return NumberFormat{}, false
	}
	return st.numberFormats[id], true
}

// NumberFormatFor resolves a cell style id all the way to its number
// format pattern, defaulting to "General" for an unknown or unstyled id.
func (st *StyleTable) NumberFormatFor(styleID uint32) string {
	cs, ok := st.CellStyle(styleID)
	if !ok {
		return "General"
	}
	nf, ok := st.NumberFormat(cs.NumberFormatID)
	if !ok {
		return "General"
	}
	return nf.Pattern
}

// IsValidStyleID reports whether id exists, for the garbage collector's
// invariant check (spec §3: "every style-id referenced by a cell exists").
func (st *StyleTable) IsValidStyleID(id uint32) bool {
	return int(id) < len(st.cellStyles)
}

// DeleteColumnStyle removes a previously-set column style id, falling
// back callers to the default (0) style. There is nothing to compact:
// style ids are append-only and never reused, so "deleting" a column
// style is purely a worksheet-level metadata change (see SheetMeta.ColumnStyles).
func (st *StyleTable) DeleteColumnStyle() {}
