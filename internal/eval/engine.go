package eval

import (
	"sort"
	"strings"

	"github.com/inkcell/inkcell/internal/ast"
	"github.com/inkcell/inkcell/internal/clock"
	"github.com/inkcell/inkcell/internal/depgraph"
	"github.com/inkcell/inkcell/internal/functions"
	"github.com/inkcell/inkcell/internal/lexer"
	"github.com/inkcell/inkcell/internal/locale"
	"github.com/inkcell/inkcell/internal/model"
	"github.com/inkcell/inkcell/internal/parser"
	"github.com/inkcell/inkcell/internal/stringifier"
	"github.com/pkg/errors"
)

// Engine drives the Stale/Evaluating/Fresh state machine over a Book
// (spec §4.4), replacing the teacher's CalculationStack.push/pop/
// isProcessing/markCompleted (vogtb/sheet.go) with state stored directly
// on each model.Cell: evalCell transitions Stale -> Evaluating -> Fresh
// the same way calculateCell walked the teacher's explicit stack, and
// revisiting an Evaluating cell is this design's circular-reference
// detection.
type Engine struct {
	Book     *Book
	Locale   *locale.Locale
	Language *locale.Language
	Mode     lexer.ReferenceMode

	clockSrc clock.Source
	rng      functions.RandomSource
	trace *depgraph.Graph // rebuilt every Evaluate pass; introspection only

	namedCache map[string]ast.Node // parsed DefinedName.FormulaText, memoized
}

// NewEngine creates an Engine with no sheets, under the given locale and
// language ids (e.g. "en", "es").
func NewEngine(localeID, languageID string) (*Engine, error) {
	loc, err := locale.Get(localeID)
	if err != nil {
		return nil, errors.Wrap(err, "eval: locale")
	}
	lang, err := locale.GetLanguage(languageID)
	if err != nil {
		return nil, errors.Wrap(err, "eval: language")
	}
	return &Engine{
		Book:       NewBook(),
		Locale:     loc,
		Language:   lang,
		Mode:       lexer.ModeA1,
		clockSrc:   clock.Wall{},
		rng:        mathRandSource{},
		trace:      depgraph.New(),
		namedCache: map[string]ast.Node{},
	}, nil
}

// AddSheet creates a new worksheet and returns its id.
func (e *Engine) AddSheet(name string) (uint32, error) {
	return e.Book.AddSheet(name)
}

// SetUserInput parses and stores whatever a user typed into a cell: a
// formula if text begins with '=', otherwise a literal number, boolean,
// or string coerced under the engine's locale and language. It marks
// every formula cell in the workbook Stale rather than maintaining an
// incremental dirty set (spec §4.4's rejection of a persistent
// scheduler — see internal/depgraph's package doc).
func (e *Engine) SetUserInput(addr model.CellAddress, text string) error {
	grid := e.Book.Grid(addr.WorksheetID)
	e.breakSpillAt(addr)
	if strings.TrimSpace(text) == "" {
		e.Book.Formulas.Detach(addr)
		grid.Set(addr.Row, addr.Column, nil)
		e.invalidateAll()
		return nil
	}
	if strings.HasPrefix(text, "=") {
		tree, err := e.parseFormula(addr, text)
		if err != nil {
			return err
		}
		key := stringifier.Stringify(tree, addr, stringifier.Options{Form: stringifier.FormRC})
		id := e.Book.Formulas.Intern(key, text, tree, addr)
		grid.Set(addr.Row, addr.Column, &model.Cell{FormulaID: id, State: model.StateStale})
		e.invalidateAll()
		return nil
	}

	e.Book.Formulas.Detach(addr)
	lit := e.coerceLiteral(text)
	if s, ok := lit.(string); ok {
		e.Book.Strings.Intern(s)
	}
	grid.Set(addr.Row, addr.Column, &model.Cell{Value: lit, State: model.StateFresh})
	e.invalidateAll()
	return nil
}

// parseFormula lexes and parses formula text (including its leading
// '=') under the engine's locale, language, and reference mode, with
// sheet names resolved (and interned) against the workbook.
func (e *Engine) parseFormula(origin model.CellAddress, text string) (ast.Node, error) {
	tokens, err := lexer.New(text, e.Locale, e.Language, e.Mode).Tokenize()
	if err != nil {
		return nil, errors.Wrap(err, "eval: lex")
	}
	ctx := &parser.Context{
		CurrentSheet: origin.WorksheetID,
		CurrentRow:   int32(origin.Row),
		CurrentCol:   int32(origin.Column),
		Mode:         e.Mode,
		Locale:       e.Locale,
		Language:     e.Language,
		ResolveSheet: func(name string) uint32 {
			if id, ok := e.Book.Worksheets.IDByName(name); ok {
				return id
			}
			id, err := e.Book.AddSheet(name)
			if err != nil {
				return 0
			}
			return id
		},
	}
	return parser.New(tokens, ctx).Parse()
}

// coerceLiteral turns typed-in, non-formula text into a model.Value the
// way Excel's cell-entry coercion does: TRUE/FALSE under the active
// language first, then a locale-aware number parse, else the text
// itself.
func (e *Engine) coerceLiteral(text string) model.Value {
	switch strings.ToUpper(text) {
	case strings.ToUpper(e.Language.TrueName):
		return true
	case strings.ToUpper(e.Language.FalseName):
		return false
	}
	if f, ok := locale.ParseNumber(text, e.Locale); ok {
		return f
	}
	return text
}

// breakSpillAt clears the ghost at addr, if any, and marks the spill's
// origin cell Stale so the next evaluation re-checks its rectangle and
// (since addr is now occupied by whatever the caller is about to write)
// reports #SPILL! rather than silently keeping stale ghost values
// around it — "editing any ghost cell breaks the spill" (spec §4.5).
func (e *Engine) breakSpillAt(addr model.CellAddress) {
	grid := e.Book.Grid(addr.WorksheetID)
	origin, _, ok := grid.Ghost(addr.Row, addr.Column)
	if !ok {
		return
	}
	grid.ClearGhost(addr.Row, addr.Column)
	if originCell := grid.Get(origin.Row, origin.Column); originCell != nil {
		originCell.State = model.StateStale
	}
}

// invalidateAll marks every formula cell in the workbook Stale. Grounded
// on the teacher's Calculate() dirty-set rebuild (vogtb/sheet.go), but
// without the intervening DependencyGraph: recomputation is driven
// purely by evalCell's lazy recursive walk the next time a value is
// requested.
func (e *Engine) invalidateAll() {
	for _, sheetID := range e.Book.Worksheets.OrderedIDs() {
		grid := e.Book.Grid(sheetID)
		grid.Each(sheetID, func(_ model.CellAddress, cell *model.Cell) {
			if cell.IsFormula() {
				cell.State = model.StateStale
			}
		})
	}
}

// Evaluate recomputes every stale formula cell in the workbook, in a
// deterministic (sheet, row, column) order, and rebuilds the
// introspection trace. If the previous trace recorded a volatile cell
// (NOW, TODAY, RAND, RANDBETWEEN), every formula cell is marked Stale
// first, so volatile cells and their readers recompute on every pass.
// The clock is frozen for the pass, so every NOW()/TODAY() in it sees
// one instant. Individual cells are also evaluated lazily by
// GetCellValue, so calling Evaluate is only needed to force a full
// recompute up front.
func (e *Engine) Evaluate() error {
	if len(e.trace.VolatileCells()) > 0 {
		e.invalidateAll()
	}
	e.trace.Reset()
	pass := e.clockSrc
	e.clockSrc = clock.Frozen(pass)
	defer func() { e.clockSrc = pass }()
	for _, sheetID := range e.Book.Worksheets.OrderedIDs() {
		grid := e.Book.Grid(sheetID)
		var addrs []model.CellAddress
		grid.Each(sheetID, func(addr model.CellAddress, cell *model.Cell) {
			if cell.IsFormula() {
				addrs = append(addrs, addr)
			}
		})
		sort.Slice(addrs, func(i, j int) bool {
			if addrs[i].Row != addrs[j].Row {
				return addrs[i].Row < addrs[j].Row
			}
			return addrs[i].Column < addrs[j].Column
		})
		for _, addr := range addrs {
			if _, err := e.evalCell(addr); err != nil {
				return err
			}
		}
	}
	return nil
}

// GetCellValue returns addr's current value, evaluating it (and, by
// recursion, whatever it depends on) first if it is Stale.
func (e *Engine) GetCellValue(addr model.CellAddress) (model.Value, error) {
	return e.evalCell(addr)
}

// GetFormula returns the formula text a cell was entered with, for
// FORMULATEXT-style introspection.
func (e *Engine) GetFormula(addr model.CellAddress) (string, bool) {
	grid := e.Book.Grid(addr.WorksheetID)
	cell := grid.Get(addr.Row, addr.Column)
	if cell == nil || !cell.IsFormula() {
		return "", false
	}
	src, ok := e.Book.Formulas.Source(cell.FormulaID)
	tree, _ := e.Book.Formulas.Tree(cell.FormulaID)
	if !ok {
		return "", false
	}
	// A shared tree keeps the text of the cell that first entered it; that
	// text is returned only where it reads as the same tree at addr.
	rc := stringifier.Options{Form: stringifier.FormRC}
	if toks, err := lexer.New(src, e.Locale, e.Language, e.Mode).Tokenize(); err == nil {
		ctx := &parser.Context{CurrentRow: int32(addr.Row), CurrentCol: int32(addr.Column), Mode: e.Mode, Locale: e.Locale, Language: e.Language,
			ResolveSheet: func(name string) uint32 { id, _ := e.Book.Worksheets.IDByName(name); return id }}
		if re, err := parser.New(toks, ctx).Parse(); err == nil && stringifier.Stringify(re, addr, rc) == stringifier.Stringify(tree, addr, rc) {
			return src, true
		}
	}
	return stringifier.Stringify(tree, addr, stringifier.Options{Form: stringifier.FormA1Localized,
		Locale: e.Locale, Language: e.Language, ResolveSheet: e.Book.Worksheets.NameByID}), true
}

// Trace returns the precedent/dependent/volatile snapshot from the most
// recent Evaluate pass, for precedent-tracing UI features.
func (e *Engine) Trace() *depgraph.Graph { return e.trace }

// evalCell resolves addr's value under the state machine: Fresh cells
// return their stored value, Evaluating cells signal a circular
// reference, everything else is computed and memoized.
func (e *Engine) evalCell(addr model.CellAddress) (model.Value, error) {
	grid := e.Book.Grid(addr.WorksheetID)
	cell := grid.Get(addr.Row, addr.Column)
	if cell == nil {
		if _, v, ok := grid.Ghost(addr.Row, addr.Column); ok {
			return v, nil
		}
		return nil, nil
	}
	if !cell.IsFormula() {
		return cell.Value, nil
	}
	switch cell.State {
	case model.StateFresh:
		return cell.Value, nil
	case model.StateEvaluating:
		errv := model.NewError(locale.ErrCirc, addr, "")
		cell.Value = errv
		cell.State = model.StateFresh
		return errv, nil
	}

	cell.State = model.StateEvaluating
	tree, ok := e.Book.Formulas.Tree(cell.FormulaID)
	if !ok {
		cell.Value = model.NewError(locale.ErrError, addr, "missing formula tree")
		cell.State = model.StateFresh
		return cell.Value, nil
	}
	val := e.evalNode(tree, addr)
	if arr, ok := val.(*model.Array); ok {
		val = e.trySpill(addr, cell, arr)
	}
	cell.Value = val
	cell.State = model.StateFresh
	return val, nil
}

// trySpill implements spec §4.5's dynamic-array spill: a formula whose
// top-level result is an Array writes its non-origin elements into the
// grid's ghost overlay (internal/model's SheetGrid.SetGhost), after
// first retracting whatever rectangle this origin spilled into last
// time. If any cell in the new rectangle is genuinely occupied (a real
// value/formula, or another origin's ghost), no ghosts are written and
// the origin reports #SPILL! instead. When the spill is written, the
// origin cell itself holds just the array's first element, the same
// scalar a plain reference to it would read (spec §8 scenario 2: GetCellValue on the
// origin returns 1, not the array).
func (e *Engine) trySpill(origin model.CellAddress, cell *model.Cell, arr *model.Array) model.Value {
	grid := e.Book.Grid(origin.WorksheetID)
	if cell.SpillRows > 0 || cell.SpillCols > 0 {
		grid.ClearGhostsIn(origin.Row, origin.Column, cell.SpillRows, cell.SpillCols)
		cell.SpillRows, cell.SpillCols = 0, 0
	}
	if arr.Rows <= 1 && arr.Cols <= 1 {
		return arr.At(0, 0)
	}
	for r := 0; r < arr.Rows; r++ {
		for c := 0; c < arr.Cols; c++ {
			if r == 0 && c == 0 {
				continue
			}
			row, col := origin.Row+uint32(r), origin.Column+uint32(c)
			if grid.IsOccupied(row, col, origin) {
				return model.NewError(locale.ErrSpill, origin, "")
			}
		}
	}
	for r := 0; r < arr.Rows; r++ {
		for c := 0; c < arr.Cols; c++ {
			if r == 0 && c == 0 {
				continue
			}
			grid.SetGhost(origin.Row+uint32(r), origin.Column+uint32(c), origin, arr.At(r, c))
		}
	}
	cell.SpillRows, cell.SpillCols = uint32(arr.Rows), uint32(arr.Cols)
	return arr.At(0, 0)
}
