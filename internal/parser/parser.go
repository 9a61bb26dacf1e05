// Package parser builds an internal/ast expression tree from a
// internal/lexer token stream, grounded on the teacher's recursive-
// descent precedence-climbing Parser (vogtb/parser.go). Generalized to
// consume a locale's list separator, resolve sheet/defined names through
// injected callbacks instead of a concrete Spreadsheet, and to produce
// the new ast node kinds (error literals, array literals, implicit
// intersection, structured references) the teacher's dialect never had.
package parser

import (
	"strconv"
	"strings"

	"github.com/inkcell/inkcell/internal/ast"
	"github.com/inkcell/inkcell/internal/lexer"
	"github.com/inkcell/inkcell/internal/locale"
	"github.com/inkcell/inkcell/internal/model"
	"github.com/pkg/errors"
)

// Context supplies the origin cell and name-resolution callbacks a
// parse needs to turn surface text into resolved ast nodes (spec §4.3:
// "Range endpoints are resolved to CellReferenceIndex at parse time").
type Context struct {
	CurrentSheet uint32
	CurrentRow   int32
	CurrentCol   int32
	Mode         lexer.ReferenceMode
	Locale       *locale.Locale
	Language     *locale.Language

	// ResolveSheet maps a sheet name to its stable id, interning it if
	// the workbook has never seen that name before.
	ResolveSheet func(name string) uint32
}

// Parser consumes a token stream and produces one ast.Node tree per call
// to Parse.
type Parser struct {
	tokens []lexer.Token
	pos    int
	ctx    *Context
	inArgs int // >0 while inside a function-call argument list: ',' is the arg separator there, not the union operator
}

// New creates a parser over tokens (including the leading TokenEquals),
// lexed under ctx's locale/language/mode.
func New(tokens []lexer.Token, ctx *Context) *Parser {
	return &Parser{tokens: tokens, ctx: ctx}
}

// Parse parses a full `=...` formula into a tree.
func (p *Parser) Parse() (ast.Node, error) {
	if len(p.tokens) == 0 || p.tokens[0].Type != lexer.TokenEquals {
		return nil, errors.New("formula must start with '='")
	}
	p.pos = 1
	node, err := p.parseUnion()
	if err != nil {
		return nil, err
	}
	if p.cur().Type != lexer.TokenEOF {
		return nil, errors.Errorf("unexpected token after expression: %q", p.cur().Value)
	}
	return node, nil
}

func (p *Parser) cur() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Type: lexer.TokenEOF}
	}
	return p.tokens[p.pos]
}

// parseUnion handles the range-union operator, a top-level-only ','
// (spec §3 BinaryOp "OpUnion"); inside a function's argument list the
// same token is the argument separator instead.
func (p *Parser) parseUnion() (ast.Node, error) {
	left, err := p.parseIntersect()
	if err != nil {
		return nil, err
	}
	for p.inArgs == 0 && p.cur().Type == lexer.TokenComma {
		p.pos++
		right, err := p.parseIntersect()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOpNode{Op: ast.OpUnion, Left: left, Right: right, Pos: left.Position()}
	}
	return left, nil
}

// parseIntersect handles the implicit-space range-intersect operator.
// The lexer does not emit a distinct token for a bare space between two
// references, so this layer is a structural pass-through pending a
// dedicated intersect token; space-separated range intersection is
// handled at the ImplicitIntersectionNode / `@` layer instead (spec
// §4.5) for this dialect.
func (p *Parser) parseIntersect() (ast.Node, error) {
	return p.parseComparison()
}

func (p *Parser) parseComparison() (ast.Node, error) {
	left, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == lexer.TokenBinaryOp {
		var op ast.BinaryOp
		switch p.cur().Value {
		case "=":
			op = ast.OpEqual
		case "<>":
			op = ast.OpNotEqual
		case "<":
			op = ast.OpLess
		case "<=":
			op = ast.OpLessEqual
		case ">":
			op = ast.OpGreater
		case ">=":
			op = ast.OpGreaterEqual
		default:
			return left, nil
		}
		p.pos++
		right, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOpNode{Op: op, Left: left, Right: right, Pos: left.Position()}
	}
	return left, nil
}

func (p *Parser) parseConcat() (ast.Node, error) {
	left, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == lexer.TokenBinaryOp && p.cur().Value == "&" {
		p.pos++
		right, err := p.parseAdd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOpNode{Op: ast.OpConcat, Left: left, Right: right, Pos: left.Position()}
	}
	return left, nil
}

func (p *Parser) parseAdd() (ast.Node, error) {
	left, err := p.parseMul()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == lexer.TokenBinaryOp && (p.cur().Value == "+" || p.cur().Value == "-") {
		op := ast.OpAdd
		if p.cur().Value == "-" {
			op = ast.OpSub
		}
		p.pos++
		right, err := p.parseMul()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOpNode{Op: op, Left: left, Right: right, Pos: left.Position()}
	}
	return left, nil
}

func (p *Parser) parseMul() (ast.Node, error) {
	left, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == lexer.TokenBinaryOp && (p.cur().Value == "*" || p.cur().Value == "/") {
		op := ast.OpMul
		if p.cur().Value == "/" {
			op = ast.OpDiv
		}
		p.pos++
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOpNode{Op: op, Left: left, Right: right, Pos: left.Position()}
	}
	return left, nil
}

// parsePower implements exponentiation, right-associative; both operands
// are parsed through parseUnary, so a unary minus binds tighter than '^'
// — preserving the teacher's non-standard `-2^2 == (-2)^2` rule exactly (vogtb/parser.go
// parsePower calls parseUnary for its left operand before checking '^').
func (p *Parser) parsePower() (ast.Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if p.cur().Type == lexer.TokenBinaryOp && p.cur().Value == "^" {
		p.pos++
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		return &ast.BinaryOpNode{Op: ast.OpPower, Left: left, Right: right, Pos: left.Position()}, nil
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Node, error) {
	tok := p.cur()
	if tok.Type == lexer.TokenUnaryPrefixOp {
		op := ast.OpPlus
		if tok.Value == "-" {
			op = ast.OpNegate
		}
		p.pos++
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOpNode{Op: op, Operand: operand, Pos: tok.Pos}, nil
	}
	if tok.Type == lexer.TokenAt {
		p.pos++
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.ImplicitIntersectionNode{Operand: operand, Pos: tok.Pos}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.Node, error) {
	node, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.cur().Type == lexer.TokenUnaryPostfixOp && p.cur().Value == "%" {
		p.pos++
		return &ast.UnaryOpNode{Op: ast.OpPercent, Operand: node, Pos: node.Position()}, nil
	}
	return node, nil
}

func (p *Parser) parsePrimary() (ast.Node, error) {
	tok := p.cur()
	switch tok.Type {
	case lexer.TokenNumber:
		p.pos++
		v, ok := locale.ParseNumber(tok.Value, p.ctx.Locale)
		if !ok {
			return nil, errors.Errorf("invalid number literal %q", tok.Value)
		}
		return &ast.NumberNode{Value: v, Pos: tok.Pos}, nil
	case lexer.TokenString:
		p.pos++
		return &ast.StringNode{Value: tok.Value, Pos: tok.Pos}, nil
	case lexer.TokenBoolean:
		p.pos++
		return &ast.BooleanNode{Value: tok.Value == "TRUE", Pos: tok.Pos}, nil
	case lexer.TokenErrorLiteral:
		p.pos++
		kind, _ := locale.ErrorIndex(tok.Value, p.ctx.Language)
		return &ast.ErrorLitNode{Err: model.NewError(kind, model.CellAddress{}, tok.Value), Pos: tok.Pos}, nil
	case lexer.TokenRef:
		p.pos++
		return p.parseRef(tok)
	case lexer.TokenLeftParen:
		p.pos++
		inner, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		if p.cur().Type != lexer.TokenRightParen {
			return nil, errors.New("expected ')'")
		}
		p.pos++
		return inner, nil
	case lexer.TokenLeftBrace:
		return p.parseArrayLiteral(tok)
	case lexer.TokenFunction:
		return p.parseFunctionCall(tok)
	case lexer.TokenIdentifier:
		p.pos++
		return &ast.NamedRangeNode{Name: tok.Value, Pos: tok.Pos}, nil
	}
	return nil, errors.Errorf("unexpected token %q", tok.Value)
}

// parseArrayLiteral parses `{1,2;3,4}`-style rectangular array literals
// (spec §4.1's array-literal surface syntax, entirely new vs. the
// teacher's dialect).
func (p *Parser) parseArrayLiteral(open lexer.Token) (ast.Node, error) {
	p.pos++ // consume '{'
	var elements []ast.Node
	rows := 1
	cols := 0
	rowCols := 0
	for {
		el, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		elements = append(elements, el)
		rowCols++
		switch p.cur().Type {
		case lexer.TokenComma:
			p.pos++
			continue
		case lexer.TokenSemicolon:
			if cols == 0 {
				cols = rowCols
			} else if rowCols != cols {
				return nil, errors.New("array literal rows must have equal length")
			}
			rowCols = 0
			rows++
			p.pos++
			continue
		case lexer.TokenRightBrace:
			p.pos++
			if cols == 0 {
				cols = rowCols
			} else if rowCols != cols {
				return nil, errors.New("array literal rows must have equal length")
			}
			return &ast.ArrayLitNode{Rows: rows, Cols: cols, Elements: elements, Pos: open.Pos}, nil
		default:
			return nil, errors.Errorf("unexpected token %q in array literal", p.cur().Value)
		}
	}
}

func (p *Parser) parseFunctionCall(tok lexer.Token) (ast.Node, error) {
	p.pos++ // consume function name
	if p.cur().Type != lexer.TokenLeftParen {
		return nil, errors.New("expected '(' after function name")
	}
	p.pos++
	p.inArgs++
	defer func() { p.inArgs-- }()

	canonical := tok.Value
	if c, ok := locale.ResolveFunction(tok.Value, p.ctx.Language); ok {
		canonical = c
	}

	var args []ast.Node
	if p.cur().Type != lexer.TokenRightParen {
		for {
			arg, err := p.parseUnion()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.cur().Type == lexer.TokenComma {
				p.pos++
				continue
			}
			break
		}
	}
	if p.cur().Type != lexer.TokenRightParen {
		return nil, errors.New("expected ')' to close function call")
	}
	p.pos++
	return &ast.FunctionCallNode{Name: canonical, Args: args, Pos: tok.Pos}, nil
}

// parseRef converts a scanned reference token's surface text into a
// resolved CellRefNode or RangeNode, dispatching on A1 vs RC syntax.
func (p *Parser) parseRef(tok lexer.Token) (ast.Node, error) {
	text := tok.Value
	var sheetName string
	if idx := strings.LastIndex(text, "!"); idx >= 0 {
		sheetName = strings.Trim(text[:idx], "'")
		text = text[idx+1:]
	}
	var sheetID uint32
	if sheetName != "" && p.ctx.ResolveSheet != nil {
		sheetID = p.ctx.ResolveSheet(sheetName)
	}

	if strings.Contains(text, ":") {
		parts := strings.SplitN(text, ":", 2)
		left, err := p.parseOneRef(parts[0], sheetID, sheetName, tok.Pos)
		if err != nil {
			return nil, err
		}
		right, err := p.parseOneRef(parts[1], sheetID, sheetName, tok.Pos)
		if err != nil {
			return nil, err
		}
		return &ast.RangeNode{Left: left, Right: right, Pos: tok.Pos}, nil
	}
	return p.parseOneRef(text, sheetID, sheetName, tok.Pos)
}

func (p *Parser) parseOneRef(text string, sheetID uint32, sheetName string, pos int) (*ast.CellRefNode, error) {
	if p.ctx.Mode == lexer.ModeRC {
		return p.parseRCRef(text, sheetID, sheetName, pos)
	}
	return p.parseA1Ref(text, sheetID, sheetName, pos)
}

func (p *Parser) parseA1Ref(text string, sheetID uint32, sheetName string, pos int) (*ast.CellRefNode, error) {
	col, absCol, row, absRow, err := splitA1(text)
	if err != nil {
		return nil, err
	}
	if !absRow {
		row -= p.ctx.CurrentRow
	}
	if !absCol {
		col -= p.ctx.CurrentCol
	}
	return &ast.CellRefNode{
		Sheet: sheetID, Row: row, Column: col,
		AbsRow: absRow, AbsColumn: absCol,
		SheetLiteral: sheetName, Pos: pos,
	}, nil
}

func splitA1(s string) (col int32, absCol bool, row int32, absRow bool, err error) {
	i := 0
	if i < len(s) && s[i] == '$' {
		absCol = true
		i++
	}
	start := i
	for i < len(s) && ((s[i] >= 'A' && s[i] <= 'Z') || (s[i] >= 'a' && s[i] <= 'z')) {
		i++
	}
	if i == start {
		return 0, false, 0, false, errors.Errorf("invalid column in reference %q", s)
	}
	colStr := strings.ToUpper(s[start:i])
	var colNum int32
	for _, ch := range colStr {
		colNum = colNum*26 + int32(ch-'A'+1)
	}
	col = colNum - 1

	if i < len(s) && s[i] == '$' {
		absRow = true
		i++
	}
	rowStart := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == rowStart {
		return 0, false, 0, false, errors.Errorf("invalid row in reference %q", s)
	}
	rowNum, convErr := strconv.Atoi(s[rowStart:i])
	if convErr != nil {
		return 0, false, 0, false, errors.Wrapf(convErr, "invalid row in reference %q", s)
	}
	row = int32(rowNum - 1)
	return col, absCol, row, absRow, nil
}

// parseRCRef parses R[n]C[n]-style tokens, producing signed relative
// offsets (absolute when no brackets are present) per spec GLOSSARY "RC
// notation".
func (p *Parser) parseRCRef(text string, sheetID uint32, sheetName string, pos int) (*ast.CellRefNode, error) {
	row, absRow, rest, err := parseRCAxis(text, 'R')
	if err != nil {
		return nil, err
	}
	col, absCol, _, err := parseRCAxis(rest, 'C')
	if err != nil {
		return nil, err
	}
	return &ast.CellRefNode{
		Sheet: sheetID, Row: row, Column: col,
		AbsRow: absRow, AbsColumn: absCol,
		SheetLiteral: sheetName, Pos: pos,
	}, nil
}

func parseRCAxis(s string, letter byte) (value int32, absolute bool, rest string, err error) {
	if len(s) == 0 || s[0] != letter {
		return 0, false, s, errors.Errorf("expected %q in RC reference %q", string(letter), s)
	}
	i := 1
	if i < len(s) && s[i] == '[' {
		j := i + 1
		for j < len(s) && (s[j] == '-' || (s[j] >= '0' && s[j] <= '9')) {
			j++
		}
		if j >= len(s) || s[j] != ']' {
			return 0, false, s, errors.Errorf("unterminated offset in RC reference %q", s)
		}
		n, convErr := strconv.Atoi(s[i+1 : j])
		if convErr != nil {
			return 0, false, s, errors.Wrapf(convErr, "invalid offset in RC reference %q", s)
		}
		return int32(n), false, s[j+1:], nil
	}
	j := i
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	if j == i {
		// bare "R" or "C" means "this row"/"this column" (absolute, offset 0)
		return 0, true, s[i:], nil
	}
	n, convErr := strconv.Atoi(s[i:j])
	if convErr != nil {
		return 0, false, s, errors.Wrapf(convErr, "invalid index in RC reference %q", s)
	}
	return int32(n - 1), true, s[j:], nil
}
