// Package stringifier renders an internal/ast tree back to formula
// source text, in any of the three surface forms spec §4.6 names:
// canonical RC (locale-independent, used for formula-table keys),
// localized A1 (what a user in a given locale/language
// sees), and "A1-English" (A1 with English function/boolean/error
// names, used for import/export interop). Grounded on the teacher's
// ASTNode.ToString methods (vogtb/parser.go), which only ever rendered
// one fixed dialect; this package pulls that responsibility out of the
// node types entirely, consistent with ast nodes being data-only.
package stringifier

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/inkcell/inkcell/internal/ast"
	"github.com/inkcell/inkcell/internal/locale"
	"github.com/inkcell/inkcell/internal/model"
)

// Form selects the rendering dialect.
type Form int

const (
	FormRC Form = iota
	FormA1Localized
	FormA1English
)

// Options configures a render.
type Options struct {
	Form         Form
	Locale       *locale.Locale
	Language     *locale.Language
	ResolveSheet func(id uint32) (string, bool) // sheet id -> current name
}

// Stringify renders tree as formula text (including the leading '=')
// under opts.
func Stringify(tree ast.Node, origin model.CellAddress, opts Options) string {
	var sb strings.Builder
	sb.WriteByte('=')
	s := &stringifier{opts: opts, origin: origin}
	s.write(&sb, tree)
	return sb.String()
}

type stringifier struct {
	opts   Options
	origin model.CellAddress
}

func (s *stringifier) write(sb *strings.Builder, n ast.Node) {
	switch t := n.(type) {
	case *ast.NumberNode:
		sb.WriteString(s.formatNumber(t.Value))
	case *ast.StringNode:
		sb.WriteByte('"')
		sb.WriteString(strings.ReplaceAll(t.Value, `"`, `""`))
		sb.WriteByte('"')
	case *ast.BooleanNode:
		sb.WriteString(s.boolName(t.Value))
	case *ast.ErrorLitNode:
		if s.opts.Form == FormRC || s.opts.Form == FormA1English {
			sb.WriteString(errorEnglishName(t.Err.Kind))
		} else {
			sb.WriteString(locale.LocalizeError(t.Err.Kind, s.opts.Language))
		}
	case *ast.CellRefNode:
		s.writeCellRef(sb, t)
	case *ast.RangeNode:
		s.writeCellRef(sb, t.Left)
		sb.WriteByte(':')
		s.writeCellRefBare(sb, t.Right)
	case *ast.NamedRangeNode:
		sb.WriteString(t.Name)
	case *ast.BinaryOpNode:
		s.writeBinary(sb, t)
	case *ast.UnaryOpNode:
		s.writeUnary(sb, t)
	case *ast.FunctionCallNode:
		s.writeFunctionCall(sb, t)
	case *ast.ArrayLitNode:
		s.writeArrayLit(sb, t)
	case *ast.ImplicitIntersectionNode:
		sb.WriteByte('@')
		s.write(sb, t.Operand)
	case *ast.StructuredRefNode:
		sb.WriteString(t.Table)
		sb.WriteByte('[')
		sb.WriteString(t.Column)
		sb.WriteByte(']')
	default:
		sb.WriteString(fmt.Sprintf("<?%T?>", n))
	}
}

func (s *stringifier) boolName(v bool) string {
	if s.opts.Form == FormRC || s.opts.Form == FormA1English {
		if v {
			return "TRUE"
		}
		return "FALSE"
	}
	if v {
		return s.opts.Language.TrueName
	}
	return s.opts.Language.FalseName
}

func errorEnglishName(kind locale.ErrorKind) string {
	en, err := locale.GetLanguage("en")
	if err != nil {
		return "#ERROR!"
	}
	return locale.LocalizeError(kind, en)
}

func (s *stringifier) formatNumber(v float64) string {
	text := strconv.FormatFloat(v, 'g', -1, 64)
	if s.opts.Form == FormA1Localized && s.opts.Locale.DecimalSeparator != '.' {
		text = strings.Replace(text, ".", string(s.opts.Locale.DecimalSeparator), 1)
	}
	return text
}

func (s *stringifier) writeBinary(sb *strings.Builder, n *ast.BinaryOpNode) {
	sb.WriteByte('(')
	s.write(sb, n.Left)
	sb.WriteString(binaryOpText(n.Op, s.opts))
	s.write(sb, n.Right)
	sb.WriteByte(')')
}

func binaryOpText(op ast.BinaryOp, opts Options) string {
	switch op {
	case ast.OpAdd:
		return "+"
	case ast.OpSub:
		return "-"
	case ast.OpMul:
		return "*"
	case ast.OpDiv:
		return "/"
	case ast.OpPower:
		return "^"
	case ast.OpConcat:
		return "&"
	case ast.OpEqual:
		return "="
	case ast.OpNotEqual:
		return "<>"
	case ast.OpLess:
		return "<"
	case ast.OpLessEqual:
		return "<="
	case ast.OpGreater:
		return ">"
	case ast.OpGreaterEqual:
		return ">="
	case ast.OpUnion:
		if opts.Form == FormA1Localized {
			return string(opts.Locale.ListSeparator)
		}
		return ","
	case ast.OpIntersect:
		return " "
	case ast.OpRange:
		return ":"
	}
	return "?"
}

func (s *stringifier) writeUnary(sb *strings.Builder, n *ast.UnaryOpNode) {
	switch n.Op {
	case ast.OpPlus:
		sb.WriteByte('+')
		s.write(sb, n.Operand)
	case ast.OpNegate:
		sb.WriteByte('-')
		s.write(sb, n.Operand)
	case ast.OpPercent:
		s.write(sb, n.Operand)
		sb.WriteByte('%')
	}
}

func (s *stringifier) writeFunctionCall(sb *strings.Builder, n *ast.FunctionCallNode) {
	name := n.Name
	if s.opts.Form == FormA1Localized {
		name = locale.LocalizeFunction(n.Name, s.opts.Language)
	}
	sb.WriteString(name)
	sb.WriteByte('(')
	sep := ","
	if s.opts.Form == FormA1Localized {
		sep = string(s.opts.Locale.ListSeparator)
	}
	for i, arg := range n.Args {
		if i > 0 {
			sb.WriteString(sep)
		}
		s.write(sb, arg)
	}
	sb.WriteByte(')')
}

func (s *stringifier) writeArrayLit(sb *strings.Builder, n *ast.ArrayLitNode) {
	colSep, rowSep := ",", ";"
	if s.opts.Form == FormA1Localized {
		colSep = string(s.opts.Locale.ArrayColSeparator)
		rowSep = string(s.opts.Locale.ArrayRowSeparator)
	}
	sb.WriteByte('{')
	for r := 0; r < n.Rows; r++ {
		if r > 0 {
			sb.WriteString(rowSep)
		}
		for c := 0; c < n.Cols; c++ {
			if c > 0 {
				sb.WriteString(colSep)
			}
			s.write(sb, n.Elements[r*n.Cols+c])
		}
	}
	sb.WriteByte('}')
}

// writeCellRef renders a reference's sheet-qualifier (only if it differs
// from origin's sheet, in every form) plus address.
func (s *stringifier) writeCellRef(sb *strings.Builder, n *ast.CellRefNode) {
	s.writeSheetPrefix(sb, n)
	s.writeCellRefBare(sb, n)
}

func (s *stringifier) writeSheetPrefix(sb *strings.Builder, n *ast.CellRefNode) {
	if n.Sheet == 0 || n.Sheet == s.origin.WorksheetID {
		return
	}
	name := n.SheetLiteral
	if s.opts.ResolveSheet != nil {
		if resolved, ok := s.opts.ResolveSheet(n.Sheet); ok {
			name = resolved
		}
	}
	if needsQuoting(name) {
		sb.WriteByte('\'')
		sb.WriteString(strings.ReplaceAll(name, "'", "''"))
		sb.WriteByte('\'')
	} else {
		sb.WriteString(name)
	}
	sb.WriteByte('!')
}

func needsQuoting(name string) bool {
	for _, r := range name {
		if !(r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return true
		}
	}
	return len(name) == 0
}

func (s *stringifier) writeCellRefBare(sb *strings.Builder, n *ast.CellRefNode) {
	if s.opts.Form == FormRC {
		writeRCAxis(sb, 'R', n.Row, n.AbsRow)
		writeRCAxis(sb, 'C', n.Column, n.AbsColumn)
		return
	}
	row, col := n.Row, n.Column
	if !n.AbsRow {
		row += int32(s.origin.Row)
	}
	if !n.AbsColumn {
		col += int32(s.origin.Column)
	}
	if n.AbsColumn {
		sb.WriteByte('$')
	}
	sb.WriteString(columnLetters(col))
	if n.AbsRow {
		sb.WriteByte('$')
	}
	sb.WriteString(strconv.Itoa(int(row) + 1))
}

func writeRCAxis(sb *strings.Builder, letter byte, value int32, absolute bool) {
	sb.WriteByte(letter)
	if absolute {
		sb.WriteString(strconv.Itoa(int(value) + 1))
		return
	}
	if value == 0 {
		return
	}
	sb.WriteByte('[')
	sb.WriteString(strconv.Itoa(int(value)))
	sb.WriteByte(']')
}

func columnLetters(col int32) string {
	col++
	var buf []byte
	for col > 0 {
		col--
		buf = append([]byte{byte('A' + col%26)}, buf...)
		col /= 26
	}
	return string(buf)
}
