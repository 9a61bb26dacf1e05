package eval

import (
	"math"
	"strings"

	"github.com/inkcell/inkcell/internal/ast"
	"github.com/inkcell/inkcell/internal/functions"
	"github.com/inkcell/inkcell/internal/locale"
	"github.com/inkcell/inkcell/internal/model"
)

// evalNode walks tree, recursively evaluating precedent cells through
// evalCell, with origin as the cell the formula is stored in (relative
// references resolve against it).
func (e *Engine) evalNode(tree ast.Node, origin model.CellAddress) model.Value {
	switch n := tree.(type) {
	case *ast.NumberNode:
		return n.Value
	case *ast.StringNode:
		return n.Value
	case *ast.BooleanNode:
		return n.Value
	case *ast.ErrorLitNode:
		return n.Err
	case *ast.CellRefNode:
		addr := n.ToAddress(origin)
		e.trace.Record(origin, addr)
		v, err := e.evalCell(addr)
		if err != nil {
			return model.NewError(locale.ErrError, origin, err.Error())
		}
		return v
	case *ast.RangeNode:
		return e.evalRange(n.ToRangeAddress(origin), origin)
	case *ast.NamedRangeNode:
		return e.evalNamedRange(n, origin)
	case *ast.BinaryOpNode:
		return e.evalBinary(n, origin)
	case *ast.UnaryOpNode:
		return e.evalUnary(n, origin)
	case *ast.FunctionCallNode:
		return e.evalFunctionCall(n, origin)
	case *ast.ArrayLitNode:
		arr := model.NewArray(n.Rows, n.Cols)
		for i, el := range n.Elements {
			arr.Set(i/n.Cols, i%n.Cols, e.evalNode(el, origin))
		}
		return arr
	case *ast.ImplicitIntersectionNode:
		return e.evalImplicitIntersection(n, origin)
	case *ast.StructuredRefNode:
		return model.NewError(locale.ErrRef, origin, "structured references are not supported")
	default:
		return model.NewError(locale.ErrError, origin, "unknown expression node")
	}
}

// evalRange materializes a reference range as a *model.Array, recursing
// through evalCell for every constituent cell so a range argument
// participates in the same Stale/Evaluating/Fresh machine as a direct
// cell reference.
func (e *Engine) evalRange(rng model.RangeAddress, origin model.CellAddress) *model.Array {
	rows, cols := int(rng.Rows()), int(rng.Cols())
	arr := model.NewArray(rows, cols)
	r := 0
	for row := rng.Normalized().StartRow; row <= rng.Normalized().EndRow; row++ {
		c := 0
		for col := rng.Normalized().StartColumn; col <= rng.Normalized().EndColumn; col++ {
			addr := model.CellAddress{WorksheetID: rng.WorksheetID, Row: row, Column: col}
			e.trace.Record(origin, addr)
			v, _ := e.evalCell(addr)
			arr.Set(r, c, v)
			c++
		}
		r++
	}
	return arr
}

// evalNamedRange resolves a defined name to its range or its formula
// text, parsing and memoizing the latter on first use.
func (e *Engine) evalNamedRange(n *ast.NamedRangeNode, origin model.CellAddress) model.Value {
	_, def, ok := e.Book.NamedRanges.Lookup(n.Name)
	if !ok || def == nil {
		return model.NewError(locale.ErrName, origin, "")
	}
	if def.RangeAddr != nil {
		return e.evalRange(*def.RangeAddr, origin)
	}
	tree, cached := e.namedCache[n.Name]
	if !cached {
		parsed, err := e.parseFormula(origin, "="+def.FormulaText)
		if err != nil {
			return model.NewError(locale.ErrName, origin, "")
		}
		tree = parsed
		e.namedCache[n.Name] = tree
	}
	return e.evalNode(tree, origin)
}

// evalBinary applies a binary operator with leftmost-error-wins
// propagation (spec §4.5): the left operand's error, if any, always
// takes precedence over the right's. Array operands broadcast
// elementwise (spec §4.5's array-formula semantics); a single-row or
// single-column array broadcasts across the other axis against a larger
// array, the same way a scalar broadcasts against any array.
func (e *Engine) evalBinary(n *ast.BinaryOpNode, origin model.CellAddress) model.Value {
	left := e.evalNode(n.Left, origin)
	if err, ok := model.IsError(left); ok {
		return err
	}
	right := e.evalNode(n.Right, origin)
	if err, ok := model.IsError(right); ok {
		return err
	}

	switch n.Op {
	case ast.OpUnion, ast.OpIntersect, ast.OpRange:
		// These are resolved entirely at parse/reference-address time;
		// reaching here means a range expression was used where a scalar
		// was expected.
		return model.NewError(locale.ErrValue, origin, "")
	}

	la, lok := left.(*model.Array)
	ra, rok := right.(*model.Array)
	if lok || rok {
		rows, cols := 1, 1
		if lok {
			rows, cols = la.Rows, la.Cols
		}
		if rok && ra.Rows*ra.Cols > rows*cols {
			rows, cols = ra.Rows, ra.Cols
		}
		out := model.NewArray(rows, cols)
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				lv, rv := left, right
				if lok {
					lv = elementOrBroadcast(la, r, c)
				}
				if rok {
					rv = elementOrBroadcast(ra, r, c)
				}
				out.Set(r, c, e.applyBinaryScalar(lv, rv, n.Op, origin))
			}
		}
		return out
	}

	return e.applyBinaryScalar(left, right, n.Op, origin)
}

// applyBinaryScalar computes a binary operator over two already-
// evaluated, non-array, non-error operands.
func (e *Engine) applyBinaryScalar(left, right model.Value, op ast.BinaryOp, origin model.CellAddress) model.Value {
	ctx := callCtx{e, origin}
	switch op {
	case ast.OpConcat:
		ls, lerr := functions.Text(left, ctx)
		if lerr != nil {
			return lerr
		}
		rs, rerr := functions.Text(right, ctx)
		if rerr != nil {
			return rerr
		}
		return ls + rs
	case ast.OpEqual, ast.OpNotEqual, ast.OpLess, ast.OpLessEqual, ast.OpGreater, ast.OpGreaterEqual:
		return compareValues(left, right, op)
	}

	a, aerr := functions.Num(left, ctx)
	if aerr != nil {
		return aerr
	}
	b, berr := functions.Num(right, ctx)
	if berr != nil {
		return berr
	}
	switch op {
	case ast.OpAdd:
		return a + b
	case ast.OpSub:
		return a - b
	case ast.OpMul:
		return a * b
	case ast.OpDiv:
		if b == 0 {
			return model.NewError(locale.ErrDiv, origin, "")
		}
		return a / b
	case ast.OpPower:
		return math.Pow(a, b)
	}
	return model.NewError(locale.ErrError, origin, "")
}

// elementOrBroadcast reads (r, c) from arr, clamping a single-row or
// single-column array so it broadcasts across the other axis.
func elementOrBroadcast(arr *model.Array, r, c int) model.Value {
	if arr.Rows == 1 {
		r = 0
	}
	if arr.Cols == 1 {
		c = 0
	}
	return arr.At(r, c)
}

func (e *Engine) evalUnary(n *ast.UnaryOpNode, origin model.CellAddress) model.Value {
	v := e.evalNode(n.Operand, origin)
	if err, ok := model.IsError(v); ok {
		return err
	}
	ctx := callCtx{e, origin}
	num, nerr := functions.Num(v, ctx)
	if nerr != nil {
		return nerr
	}
	switch n.Op {
	case ast.OpPlus:
		return num
	case ast.OpNegate:
		return -num
	case ast.OpPercent:
		return num / 100
	}
	return model.NewError(locale.ErrError, origin, "")
}

// compareValues implements spec §4.5's mixed-type ordering: same-type
// values compare natively, cross-type values fall back to
// model.TypeOrdinal (numbers < strings < booleans), and Empty compares
// equal only to Empty or zero/"" depending on the other operand's type.
func compareValues(a, b model.Value, op ast.BinaryOp) model.Value {
	if a == nil || b == nil {
		other := b
		if b == nil {
			other = a
		}
		var zero model.Value
		switch other.(type) {
		case float64:
			zero = 0.0
		case string:
			zero = ""
		}
		if a == nil {
			a = zero
		}
		if b == nil {
			b = zero
		}
	}
	cmp := 0
	switch {
	case model.TypeOrdinal(a) != model.TypeOrdinal(b):
		cmp = model.TypeOrdinal(a) - model.TypeOrdinal(b)
	default:
		switch av := a.(type) {
		case float64:
			bv := b.(float64)
			switch {
			case av < bv:
				cmp = -1
			case av > bv:
				cmp = 1
			}
		case string:
			cmp = strings.Compare(strings.ToUpper(av), strings.ToUpper(b.(string)))
		case bool:
			bv := b.(bool)
			switch {
			case !av && bv:
				cmp = -1
			case av && !bv:
				cmp = 1
			}
		}
	}
	switch op {
	case ast.OpEqual:
		return cmp == 0
	case ast.OpNotEqual:
		return cmp != 0
	case ast.OpLess:
		return cmp < 0
	case ast.OpLessEqual:
		return cmp <= 0
	case ast.OpGreater:
		return cmp > 0
	case ast.OpGreaterEqual:
		return cmp >= 0
	}
	return false
}
