// Package gc reclaims shared-string ids that no live cell references
// any more. Every literal string a user types is interned into the
// workbook's model.StringTable as it's written (see eval.Engine's
// SetUserInput), but overwriting or clearing a cell never decrements
// the old value's reference count — there is no per-cell StringID to
// walk back from, only the raw string the cell used to hold. Reference
// counts drift upward forever under edits unless something periodically
// recomputes them from scratch, which is this package's one job.
//
// Grounded on model.StringTable's own doc comment (internal/model/
// stringtable.go) and its Rebuild contract, written specifically for
// this mark-sweep: counts come from a full mark pass rather than from
// the incremental refCounts. The mark phase here is the scan; Rebuild
// is the sweep.
package gc

import (
	"github.com/inkcell/inkcell/internal/model"
)

// CollectStrings runs a full mark-sweep over wb's shared-string table:
// it walks every cell on every sheet, tallies how many live cells still
// hold each interned string, and rebuilds the table to keep only the
// strings with at least one live reference. It returns the table's
// old-id -> new-id remap, one entry for every surviving string (ids
// that did not move map to themselves), for a caller that
// persists ids elsewhere, e.g. internal/xlsx writing a shared-strings
// part.
func CollectStrings(wb *model.Workbook) map[uint32]uint32 {
	counts := map[uint32]int{}
	mark := func(_ model.CellAddress, cell *model.Cell) {
		s, ok := cell.Value.(string)
		if !ok {
			return
		}
		id, ok := wb.Strings.Lookup(s)
		if !ok {
			return
		}
		counts[id]++
	}
	for _, sheetID := range wb.Worksheets.OrderedIDs() {
		wb.Grid(sheetID).Each(sheetID, mark)
	}
	return wb.Strings.Rebuild(counts)
}
