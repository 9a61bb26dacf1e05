package parser

import (
	"testing"

	"github.com/inkcell/inkcell/internal/ast"
	"github.com/inkcell/inkcell/internal/lexer"
	"github.com/inkcell/inkcell/internal/locale"
)

func parse(t *testing.T, formula string) ast.Node {
	t.Helper()
	en, err := locale.Get("en")
	if err != nil {
		t.Fatalf("locale.Get: %v", err)
	}
	lang, err := locale.GetLanguage("en")
	if err != nil {
		t.Fatalf("locale.GetLanguage: %v", err)
	}
	tokens, err := lexer.New(formula, en, lang, lexer.ModeA1).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize(%q): %v", formula, err)
	}
	ctx := &Context{
		Mode: lexer.ModeA1, Locale: en, Language: lang,
		ResolveSheet: func(string) uint32 { return 1 },
	}
	node, err := New(tokens, ctx).Parse()
	if err != nil {
		t.Fatalf("Parse(%q): %v", formula, err)
	}
	return node
}

func TestParseSimpleSumRange(t *testing.T) {
	node := parse(t, "=SUM(A1:A3)")
	call, ok := node.(*ast.FunctionCallNode)
	if !ok {
		t.Fatalf("node = %T, want *ast.FunctionCallNode", node)
	}
	if call.Name != "SUM" || len(call.Args) != 1 {
		t.Fatalf("call = %+v", call)
	}
	if _, ok := call.Args[0].(*ast.RangeNode); !ok {
		t.Fatalf("call.Args[0] = %T, want *ast.RangeNode", call.Args[0])
	}
}

// TestNegatePowerPrecedence locks in spec §9's intentionally non-standard
// rule: unary minus binds tighter than '^' on the power operator's own
// left operand, so "-2^2" is (-2)^2, not -(2^2).
func TestNegatePowerPrecedence(t *testing.T) {
	node := parse(t, "=-2^2")
	bin, ok := node.(*ast.BinaryOpNode)
	if !ok || bin.Op != ast.OpPower {
		t.Fatalf("node = %+v, want a top-level OpPower BinaryOpNode", node)
	}
	left, ok := bin.Left.(*ast.UnaryOpNode)
	if !ok || left.Op != ast.OpNegate {
		t.Fatalf("bin.Left = %+v, want a UnaryOpNode(OpNegate, ...)", bin.Left)
	}
	if _, ok := left.Operand.(*ast.NumberNode); !ok {
		t.Fatalf("left.Operand = %T, want *ast.NumberNode", left.Operand)
	}
}

func TestParseArrayLiteral(t *testing.T) {
	node := parse(t, "={1,2;3,4}")
	arr, ok := node.(*ast.ArrayLitNode)
	if !ok {
		t.Fatalf("node = %T, want *ast.ArrayLitNode", node)
	}
	if arr.Rows != 2 || arr.Cols != 2 || len(arr.Elements) != 4 {
		t.Fatalf("arr = %+v", arr)
	}
}

func TestParseImplicitIntersection(t *testing.T) {
	node := parse(t, "=@A1:A10")
	if _, ok := node.(*ast.ImplicitIntersectionNode); !ok {
		t.Fatalf("node = %T, want *ast.ImplicitIntersectionNode", node)
	}
}

func TestParseRejectsTrailingGarbage(t *testing.T) {
	en, _ := locale.Get("en")
	lang, _ := locale.GetLanguage("en")
	tokens, err := lexer.New("=1;2", en, lang, lexer.ModeA1).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	ctx := &Context{Mode: lexer.ModeA1, Locale: en, Language: lang, ResolveSheet: func(string) uint32 { return 1 }}
	if _, err := New(tokens, ctx).Parse(); err == nil {
		t.Fatalf("expected a parse error for trailing tokens")
	}
}
