package model

import "github.com/pkg/errors"

// WorksheetTable manages worksheet name <-> stable-id mappings, keeping
// ids stable across renames and never reusing an id within a workbook's
// lifetime (spec §3: "stable sheet_id, never reused"). Grounded on the
// teacher's WorksheetTable (vogtb/worksheet.go), trimmed of the
// defined/undefined reference-counting split the teacher used for lazy
// cross-sheet formula references — this spec's parser always resolves a
// worksheet name at parse time (§4.3), so every id here is defined by
// construction.
type WorksheetTable struct {
	nameToID map[string]uint32
	idToName map[uint32]string
	order    []uint32 // workbook sheet order
	nextID   uint32
}

// NewWorksheetTable creates an empty table. ID 0 is reserved for "no
// worksheet."
func NewWorksheetTable() *WorksheetTable {
	return &WorksheetTable{
		nameToID: make(map[string]uint32),
		idToName: make(map[uint32]string),
		nextID:   1,
	}
}

// Add registers a new worksheet name, returning its fresh stable id.
func (wt *WorksheetTable) Add(name string) (uint32, error) {
	if _, exists := wt.nameToID[name]; exists {
		return 0, errors.Errorf("worksheet: name %q already exists", name)
	}
	id := wt.nextID
	wt.nameToID[name] = id
	wt.idToName[id] = name
	wt.order = append(wt.order, id)
	wt.nextID++
	return id, nil
}

// Remove deletes a worksheet's name mapping (its id is never reused).
func (wt *WorksheetTable) Remove(name string) (uint32, bool) {
	id, exists := wt.nameToID[name]
	if !exists {
		return 0, false
	}
	delete(wt.nameToID, name)
	delete(wt.idToName, id)
	for i, oid := range wt.order {
		if oid == id {
			wt.order = append(wt.order[:i], wt.order[i+1:]...)
			break
		}
	}
	return id, true
}

// Rename changes a worksheet's name without changing its id.
func (wt *WorksheetTable) Rename(oldName, newName string) error {
	id, exists := wt.nameToID[oldName]
	if !exists {
		return errors.Errorf("worksheet: no such sheet %q", oldName)
	}
	if _, taken := wt.nameToID[newName]; taken {
		return errors.Errorf("worksheet: name %q already exists", newName)
	}
	delete(wt.nameToID, oldName)
	wt.nameToID[newName] = id
	wt.idToName[id] = newName
	return nil
}

// IDByName resolves a worksheet name to its stable id.
func (wt *WorksheetTable) IDByName(name string) (uint32, bool) {
	id, ok := wt.nameToID[name]
	return id, ok
}

// NameByID resolves a stable id back to its current name.
func (wt *WorksheetTable) NameByID(id uint32) (string, bool) {
	name, ok := wt.idToName[id]
	return name, ok
}

// Exists reports whether name is a currently-defined worksheet.
func (wt *WorksheetTable) Exists(name string) bool {
	_, ok := wt.nameToID[name]
	return ok
}

// OrderedIDs returns worksheet ids in workbook (tab) order.
func (wt *WorksheetTable) OrderedIDs() []uint32 {
	out := make([]uint32, len(wt.order))
	copy(out, wt.order)
	return out
}

// Count returns the number of defined worksheets.
func (wt *WorksheetTable) Count() int { return len(wt.nameToID) }

// ValidateSheetName enforces spec §3's worksheet naming rule: 1-31
// chars, no illegal characters ([ ] : * ? / \). Uniqueness is checked
// by WorksheetTable.Add, not here.
func ValidateSheetName(name string) error {
	if len(name) < 1 || len(name) > 31 {
		return errors.Errorf("worksheet: name %q must be 1-31 characters", name)
	}
	for _, r := range name {
		switch r {
		case '[', ']', ':', '*', '?', '/', '\\':
			return errors.Errorf("worksheet: name %q contains illegal character %q", name, r)
		}
	}
	return nil
}
