package model

import "github.com/pkg/errors"

// DefinedNameScope distinguishes workbook-scoped from sheet-scoped names
// (spec §3: "set of DefinedNames (workbook- or sheet-scoped)").
type DefinedNameScope uint8

const (
	ScopeWorkbook DefinedNameScope = iota
	ScopeSheet
)

// DefinedName is a named expression (cell, range, or formula) scoped to
// the workbook or to one sheet (GLOSSARY: "Defined name").
type DefinedName struct {
	Name        string
	Scope       DefinedNameScope
	SheetID     uint32 // meaningful only when Scope == ScopeSheet
	RangeAddr   *RangeAddress
	FormulaText string // set when the name refers to an arbitrary formula, not a plain range
}

// NamedRangeTable manages defined names by id, the same defined/undefined
// and reference-counted shape the teacher uses for worksheets and ranges
// alike (vogtb/range.go NamedRangeTable), since a formula can reference a
// name before it is defined and the name must still round-trip through
// persistence once it is.
type NamedRangeTable struct {
	nameToID      map[string]uint32
	idToName      map[uint32]string
	definitions   map[uint32]*DefinedName
	undefinedIDs  map[uint32]struct{}
	refCounts     map[uint32]int
	nextID        uint32
}

// NewNamedRangeTable creates an empty table. ID 0 is reserved for "no name."
func NewNamedRangeTable() *NamedRangeTable {
	return &NamedRangeTable{
		nameToID:     make(map[string]uint32),
		idToName:     make(map[uint32]string),
		definitions:  make(map[uint32]*DefinedName),
		undefinedIDs: make(map[uint32]struct{}),
		refCounts:    make(map[uint32]int),
		nextID:       1,
	}
}

// Intern references name (defining it as undefined if not already known)
// and returns its id.
func (nt *NamedRangeTable) Intern(name string) uint32 {
	if id, exists := nt.nameToID[name]; exists {
		nt.refCounts[id]++
		return id
	}
	id := nt.nextID
	nt.nameToID[name] = id
	nt.idToName[id] = name
	nt.undefinedIDs[id] = struct{}{}
	nt.refCounts[id] = 1
	nt.nextID++
	return id
}

// Define attaches a definition to name, creating it if necessary.
func (nt *NamedRangeTable) Define(def *DefinedName) uint32 {
	id, exists := nt.nameToID[def.Name]
	if !exists {
		id = nt.nextID
		nt.nameToID[def.Name] = id
		nt.idToName[id] = def.Name
		nt.refCounts[id] = 1
		nt.nextID++
	}
	nt.definitions[id] = def
	delete(nt.undefinedIDs, id)
	return id
}

// Undefine removes a name's definition; the entry is removed entirely
// once it has no remaining references.
func (nt *NamedRangeTable) Undefine(name string) error {
	id, exists := nt.nameToID[name]
	if !exists {
		return errors.Errorf("defined name: no such name %q", name)
	}
	delete(nt.definitions, id)
	if nt.refCounts[id] <= 0 {
		nt.remove(id)
		return nil
	}
	nt.undefinedIDs[id] = struct{}{}
	return nil
}

// Rename moves a definition (and all accumulated references) to a new
// name.
func (nt *NamedRangeTable) Rename(oldName, newName string) error {
	id, exists := nt.nameToID[oldName]
	if !exists {
		return errors.Errorf("defined name: no such name %q", oldName)
	}
	if _, taken := nt.nameToID[newName]; taken {
		return errors.Errorf("defined name: name %q already exists", newName)
	}
	delete(nt.nameToID, oldName)
	nt.nameToID[newName] = id
	nt.idToName[id] = newName
	if def, ok := nt.definitions[id]; ok {
		def.Name = newName
	}
	return nil
}

func (nt *NamedRangeTable) remove(id uint32) {
	name := nt.idToName[id]
	delete(nt.nameToID, name)
	delete(nt.idToName, id)
	delete(nt.definitions, id)
	delete(nt.undefinedIDs, id)
	delete(nt.refCounts, id)
}

// Lookup resolves a name to its id and definition (definition is nil if
// the name is referenced but not yet defined).
func (nt *NamedRangeTable) Lookup(name string) (id uint32, def *DefinedName, ok bool) {
	id, ok = nt.nameToID[name]
	if !ok {
		return 0, nil, false
	}
	return id, nt.definitions[id], true
}

// Exists reports whether name is known (defined or not).
func (nt *NamedRangeTable) Exists(name string) bool {
	_, ok := nt.nameToID[name]
	return ok
}

// DefinedNames returns every currently-defined name.
func (nt *NamedRangeTable) DefinedNames() []*DefinedName {
	out := make([]*DefinedName, 0, len(nt.definitions))
	for _, def := range nt.definitions {
		out = append(out, def)
	}
	return out
}

// Names returns every known name (defined or referenced-but-undefined).
func (nt *NamedRangeTable) Names() []string {
	out := make([]string, 0, len(nt.nameToID))
	for name := range nt.nameToID {
		out = append(out, name)
	}
	return out
}
