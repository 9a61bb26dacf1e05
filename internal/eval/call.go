package eval

import (
	"github.com/inkcell/inkcell/internal/ast"
	"github.com/inkcell/inkcell/internal/functions"
	"github.com/inkcell/inkcell/internal/locale"
	"github.com/inkcell/inkcell/internal/model"
)

// lazyFunctions are evaluated by evalFunctionCall itself rather than
// through functions.Call, because they must not evaluate every argument
// eagerly: an untaken IF branch, an unmatched CHOOSE/SWITCH case, or the
// fallback of IFERROR/IFNA can legitimately be a broken formula without
// the call erroring.
var lazyFunctions = map[string]bool{
	"IF": true, "IFS": true, "IFERROR": true, "IFNA": true,
	"CHOOSE": true, "SWITCH": true,
}

// volatileFunctions always force their cell to recompute on the next
// pass regardless of Stale/Fresh state: they are recorded in the
// introspection trace, which Evaluate checks to re-stale the workbook,
// and which a UI can read to flag "this cell recalculates every time"
// (spec §4.4).
var volatileFunctions = map[string]bool{
	"NOW": true, "TODAY": true, "RAND": true, "RANDBETWEEN": true,
}

func (e *Engine) evalFunctionCall(n *ast.FunctionCallNode, origin model.CellAddress) model.Value {
	if volatileFunctions[n.Name] {
		e.trace.MarkVolatile(origin)
	}
	if lazyFunctions[n.Name] {
		return e.evalLazyCall(n, origin)
	}
	if n.Name == "OFFSET" {
		return e.evalOffset(n, origin)
	}
	args := make([]model.Value, len(n.Args))
	for i, a := range n.Args {
		args[i] = e.evalNode(a, origin)
	}
	return functions.Call(n.Name, args, callCtx{e, origin})
}

func (e *Engine) evalLazyCall(n *ast.FunctionCallNode, origin model.CellAddress) model.Value {
	switch n.Name {
	case "IF":
		if len(n.Args) < 2 || len(n.Args) > 3 {
			return model.NewError(locale.ErrValue, origin, "")
		}
		cond := e.evalNode(n.Args[0], origin)
		if err, ok := model.IsError(cond); ok {
			return err
		}
		b, berr := functions.Bool(cond, callCtx{e, origin})
		if berr != nil {
			return berr
		}
		if b {
			return e.evalNode(n.Args[1], origin)
		}
		if len(n.Args) == 3 {
			return e.evalNode(n.Args[2], origin)
		}
		return false
	case "IFS":
		for i := 0; i+1 < len(n.Args); i += 2 {
			cond := e.evalNode(n.Args[i], origin)
			if err, ok := model.IsError(cond); ok {
				return err
			}
			b, berr := functions.Bool(cond, callCtx{e, origin})
			if berr != nil {
				return berr
			}
			if b {
				return e.evalNode(n.Args[i+1], origin)
			}
		}
		return model.NewError(locale.ErrNA, origin, "")
	case "IFERROR":
		if len(n.Args) != 2 {
			return model.NewError(locale.ErrValue, origin, "")
		}
		v := e.evalNode(n.Args[0], origin)
		if _, ok := model.IsError(v); ok {
			return e.evalNode(n.Args[1], origin)
		}
		return v
	case "IFNA":
		if len(n.Args) != 2 {
			return model.NewError(locale.ErrValue, origin, "")
		}
		v := e.evalNode(n.Args[0], origin)
		if err, ok := model.IsError(v); ok && err.Kind == locale.ErrNA {
			return e.evalNode(n.Args[1], origin)
		}
		return v
	case "CHOOSE":
		if len(n.Args) < 2 {
			return model.NewError(locale.ErrValue, origin, "")
		}
		idxV := e.evalNode(n.Args[0], origin)
		if err, ok := model.IsError(idxV); ok {
			return err
		}
		idx, ierr := functions.ParseIndex(idxV, callCtx{e, origin})
		if ierr != nil {
			return ierr
		}
		if idx < 0 || idx >= len(n.Args)-1 {
			return model.NewError(locale.ErrValue, origin, "")
		}
		return e.evalNode(n.Args[idx+1], origin)
	case "SWITCH":
		if len(n.Args) < 3 {
			return model.NewError(locale.ErrValue, origin, "")
		}
		expr := e.evalNode(n.Args[0], origin)
		if err, ok := model.IsError(expr); ok {
			return err
		}
		i := 1
		for ; i+1 < len(n.Args); i += 2 {
			caseV := e.evalNode(n.Args[i], origin)
			if valueEquals(expr, caseV) {
				return e.evalNode(n.Args[i+1], origin)
			}
		}
		if i < len(n.Args) {
			return e.evalNode(n.Args[i], origin)
		}
		return model.NewError(locale.ErrNA, origin, "")
	}
	return model.NewError(locale.ErrError, origin, "")
}

func valueEquals(a, b model.Value) bool {
	an, aok := a.(float64)
	bn, bok := b.(float64)
	if aok && bok {
		return an == bn
	}
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		return as == bs
	}
	ab, aok := a.(bool)
	bb, bok := b.(bool)
	if aok && bok {
		return ab == bb
	}
	return false
}

// evalOffset implements OFFSET, which (unlike an ordinary function)
// builds a brand new reference from its origin/row/col/height/width
// arguments rather than operating on already-resolved operands, so it
// is special-cased here rather than registered in internal/functions:
// its first argument must be read as a reference node (for the base
// address), not evaluated to a value the way every other argument is.
func (e *Engine) evalOffset(n *ast.FunctionCallNode, origin model.CellAddress) model.Value {
	if len(n.Args) < 3 || len(n.Args) > 5 {
		return model.NewError(locale.ErrValue, origin, "")
	}
	var base model.CellAddress
	switch ref := n.Args[0].(type) {
	case *ast.CellRefNode:
		base = ref.ToAddress(origin)
	case *ast.RangeNode:
		base = ref.Left.ToAddress(origin)
	default:
		return model.NewError(locale.ErrRef, origin, "OFFSET requires a reference as its first argument")
	}
	ctx := callCtx{e, origin}
	rowOff, err := functions.Num(e.evalNode(n.Args[1], origin), ctx)
	if err != nil {
		return err
	}
	colOff, err := functions.Num(e.evalNode(n.Args[2], origin), ctx)
	if err != nil {
		return err
	}
	height, width := 1.0, 1.0
	if len(n.Args) >= 4 {
		if height, err = functions.Num(e.evalNode(n.Args[3], origin), ctx); err != nil {
			return err
		}
	}
	if len(n.Args) == 5 {
		if width, err = functions.Num(e.evalNode(n.Args[4], origin), ctx); err != nil {
			return err
		}
	}
	startRow := int64(base.Row) + int64(rowOff)
	startCol := int64(base.Column) + int64(colOff)
	if startRow < 0 || startCol < 0 || height <= 0 || width <= 0 {
		return model.NewError(locale.ErrRef, origin, "")
	}
	rng := model.RangeAddress{
		WorksheetID: base.WorksheetID,
		StartRow:    uint32(startRow), StartColumn: uint32(startCol),
		EndRow: uint32(startRow) + uint32(height) - 1, EndColumn: uint32(startCol) + uint32(width) - 1,
	}
	if rng.IsSingleCell() {
		v, _ := e.evalCell(model.CellAddress{WorksheetID: rng.WorksheetID, Row: rng.StartRow, Column: rng.StartColumn})
		return v
	}
	return e.evalRange(rng, origin)
}

// evalImplicitIntersection reduces a range operand to the single cell
// that intersects the formula's own row or column (spec §4.5), falling
// back to the operand's value unchanged when it isn't a range at all.
func (e *Engine) evalImplicitIntersection(n *ast.ImplicitIntersectionNode, origin model.CellAddress) model.Value {
	rangeNode, ok := n.Operand.(*ast.RangeNode)
	if !ok {
		return e.evalNode(n.Operand, origin)
	}
	rng := rangeNode.ToRangeAddress(origin)
	if rng.WorksheetID != origin.WorksheetID {
		return model.NewError(locale.ErrValue, origin, "")
	}
	var addr model.CellAddress
	switch {
	case rng.IsSingleCell():
		addr = model.CellAddress{WorksheetID: rng.WorksheetID, Row: rng.StartRow, Column: rng.StartColumn}
	case rng.IsSingleRow():
		if origin.Column < rng.StartColumn || origin.Column > rng.EndColumn {
			return model.NewError(locale.ErrValue, origin, "")
		}
		addr = model.CellAddress{WorksheetID: rng.WorksheetID, Row: rng.StartRow, Column: origin.Column}
	case rng.IsSingleColumn():
		if origin.Row < rng.StartRow || origin.Row > rng.EndRow {
			return model.NewError(locale.ErrValue, origin, "")
		}
		addr = model.CellAddress{WorksheetID: rng.WorksheetID, Row: origin.Row, Column: rng.StartColumn}
	default:
		return model.NewError(locale.ErrValue, origin, "")
	}
	e.trace.Record(origin, addr)
	v, _ := e.evalCell(addr)
	return v
}
