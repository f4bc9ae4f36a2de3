package parser

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/tdewolff/parse/v2/js"
	"github.com/tdewolff/test"

	"github.com/tomisinteazer/rjscompiler/ast"
)

func parseSrc(t *testing.T, src string) *ast.Program {
	t.Helper()
	program, err := ParseString(src)
	test.Error(t, err)
	return program
}

func TestStmtTypes(t *testing.T) {
	tests := []struct {
		js       string
		expected string
	}{
		{`{}`, "*ast.BlockStmt"},
		{`;`, "*ast.EmptyStmt"},
		{`a;`, "*ast.ExprStmt"},
		{`var a;`, "*ast.VarDecl"},
		{`let a;`, "*ast.VarDecl"},
		{`const a = 1;`, "*ast.VarDecl"},
		{`let.a = 1;`, "*ast.ExprStmt"},
		{`if (a) b;`, "*ast.IfStmt"},
		{`do a; while (b);`, "*ast.DoWhileStmt"},
		{`while (a) b;`, "*ast.WhileStmt"},
		{`for (;;) a;`, "*ast.ForStmt"},
		{`for (a in b) c;`, "*ast.ForInStmt"},
		{`for (a of b) c;`, "*ast.ForOfStmt"},
		{`switch (a) {}`, "*ast.SwitchStmt"},
		{`break;`, "*ast.BranchStmt"},
		{`continue;`, "*ast.BranchStmt"},
		{`throw a;`, "*ast.ThrowStmt"},
		{`try {} finally {}`, "*ast.TryStmt"},
		{`with (a) b;`, "*ast.WithStmt"},
		{`debugger;`, "*ast.DebuggerStmt"},
		{`function f() {}`, "*ast.FuncDecl"},
		{`async function f() {}`, "*ast.FuncDecl"},
		{`class c {}`, "*ast.ClassDecl"},
		{`label: a;`, "*ast.LabelledStmt"},
		{`import "m";`, "*ast.ImportStmt"},
		{`export {};`, "*ast.ExportStmt"},
		{`async();`, "*ast.ExprStmt"},
	}
	for _, tt := range tests {
		t.Run(tt.js, func(t *testing.T) {
			program := parseSrc(t, tt.js)
			test.T(t, len(program.List), 1)
			test.String(t, fmt.Sprintf("%T", program.List[0]), tt.expected)
		})
	}
}

func TestPrecedenceTree(t *testing.T) {
	program := parseSrc(t, `x = a + b * c;`)
	want := []ast.IStmt{
		&ast.ExprStmt{
			Value: &ast.BinaryExpr{
				Op: js.EqToken,
				X:  &ast.Ident{Name: []byte("x")},
				Y: &ast.BinaryExpr{
					Op: js.AddToken,
					X:  &ast.Ident{Name: []byte("a")},
					Y: &ast.BinaryExpr{
						Op: js.MulToken,
						X:  &ast.Ident{Name: []byte("b")},
						Y:  &ast.Ident{Name: []byte("c")},
					},
				},
			},
		},
	}
	if diff := cmp.Diff(want, program.List, cmpopts.IgnoreTypes(ast.Span{})); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestRightAssociative(t *testing.T) {
	program := parseSrc(t, `a ** b ** c;`)
	expr := program.List[0].(*ast.ExprStmt).Value.(*ast.BinaryExpr)
	test.T(t, expr.Op, js.ExpToken)
	_, leftNested := expr.X.(*ast.Ident)
	test.That(t, leftNested, "exponent nests to the right")
	test.T(t, expr.Y.(*ast.BinaryExpr).Op, js.ExpToken)
}

func TestShorthandPropertyKey(t *testing.T) {
	program := parseSrc(t, `({a});`)
	obj := unwrap(program.List[0].(*ast.ExprStmt).Value).(*ast.ObjectExpr)
	property := obj.List[0]
	test.That(t, property.Name != nil && property.Name.Literal != nil, "shorthand keeps an explicit key")
	test.Bytes(t, property.Name.Literal.Data, []byte("a"))
	test.T(t, property.Name.Literal.TokenType, js.IdentifierToken)
	ident := property.Value.(*ast.Ident)
	test.Bytes(t, ident.Name, []byte("a"))
}

func TestShorthandPropertyDefault(t *testing.T) {
	program := parseSrc(t, `({a = 1} = b);`)
	assign := unwrap(program.List[0].(*ast.ExprStmt).Value).(*ast.BinaryExpr)
	test.T(t, assign.Op, js.EqToken)
	property := assign.X.(*ast.ObjectExpr).List[0]
	test.Bytes(t, property.Value.(*ast.Ident).Name, []byte("a"))
	test.That(t, property.Init != nil, "shorthand keeps its default")
}

func unwrap(i ast.IExpr) ast.IExpr {
	for {
		group, ok := i.(*ast.GroupExpr)
		if !ok {
			return i
		}
		i = group.X
	}
}

func TestRegExpVsDivision(t *testing.T) {
	program := parseSrc(t, `a = /re/g;`)
	lit := program.List[0].(*ast.ExprStmt).Value.(*ast.BinaryExpr).Y.(*ast.LiteralExpr)
	test.T(t, lit.TokenType, js.RegExpToken)
	test.Bytes(t, lit.Data, []byte("/re/g"))

	program = parseSrc(t, `b = a / c / d;`)
	div := program.List[0].(*ast.ExprStmt).Value.(*ast.BinaryExpr).Y.(*ast.BinaryExpr)
	test.T(t, div.Op, js.DivToken)
}

func TestOptionalChain(t *testing.T) {
	program := parseSrc(t, `a?.b?.();`)
	call := program.List[0].(*ast.ExprStmt).Value.(*ast.CallExpr)
	test.That(t, call.Optional, "optional call")
	dot := call.X.(*ast.DotExpr)
	test.That(t, dot.Optional, "optional member")
}

func TestASI(t *testing.T) {
	program := parseSrc(t, "a\nb")
	test.T(t, len(program.List), 2)

	program = parseSrc(t, "return")
	_ = program

	program = parseSrc(t, "function f() { return\na; }")
	fn := program.List[0].(*ast.FuncDecl)
	ret := fn.Body.List[0].(*ast.ReturnStmt)
	test.That(t, ret.Value == nil, "line break ends the return")
	test.T(t, len(fn.Body.List), 2)

	program = parseSrc(t, "var a = 1\nvar b = 2")
	test.T(t, len(program.List), 2)
}

func TestModuleFlag(t *testing.T) {
	test.That(t, !parseSrc(t, `a();`).Module, "plain script")
	test.That(t, parseSrc(t, `import "m";`).Module, "import makes a module")
	test.That(t, parseSrc(t, `export {};`).Module, "export makes a module")
}

func TestSpans(t *testing.T) {
	program := parseSrc(t, `var a = 1; b();`)
	decl := program.List[0].(*ast.VarDecl)
	test.T(t, decl.Span.Start, 0)
	test.T(t, decl.Span.End, 10)
	call := program.List[1].(*ast.ExprStmt)
	test.T(t, call.Span.Start, 11)
	test.T(t, program.Span.End, 15)
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		`var;`,
		`if (a;`,
		`if a) b;`,
		`for (a;;`,
		`function (`,
		`a +`,
		`{`,
		`try {}`,
		`throw
a;`,
		`import from;`,
		`export 5;`,
		`a = /unterminated`,
		"'unterminated",
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			_, err := ParseString(src)
			test.That(t, err != nil, "expected a parse error")
		})
	}
}

func TestValidateAfterParse(t *testing.T) {
	program := parseSrc(t, `function f(a) { return a ? f(a - 1) : 0; }`)
	test.Error(t, ast.Validate(program))
}
