package analyzer

import (
	"testing"

	"github.com/tdewolff/test"

	"github.com/tomisinteazer/rjscompiler/parser"
)

func analyze(t *testing.T, src string, opts Options) *Table {
	t.Helper()
	program, err := parser.ParseString(src)
	test.Error(t, err)
	return Analyze(program, opts)
}

func TestVarHoisting(t *testing.T) {
	table := analyze(t, `function f() { if (a) { var x = 1; } }`, Options{})
	fn := table.Root.Children[0]
	test.T(t, fn.Type, FunctionScope)

	x := fn.Own("x")
	test.That(t, x != nil, "x binds in the function scope")
	test.T(t, x.Kind, KindVariable)

	block := fn.Children[0]
	test.T(t, block.Type, BlockScope)
	test.That(t, block.Own("x") == nil, "the block holds no binding for x")
}

func TestLexicalScoping(t *testing.T) {
	table := analyze(t, `{ let x = 1; const y = 2; } var z = 3;`, Options{})
	test.That(t, table.Root.Own("x") == nil, "let stays out of the enclosing scope")

	block := table.Root.Children[0]
	test.T(t, block.Own("x").Kind, KindLexical)
	test.T(t, block.Own("y").Kind, KindConst)
	test.T(t, table.Root.Own("z").Kind, KindVariable)
}

func TestShadowing(t *testing.T) {
	table := analyze(t, `var v = 1; function f() { var v = 2; return v; }`, Options{})
	outer := table.Root.Own("v")
	inner := table.Root.Children[0].Own("v")
	test.That(t, outer != inner, "inner v is a distinct symbol")
	test.T(t, len(inner.Refs), 1)
	test.T(t, len(outer.Refs), 0)
}

func TestImplicitGlobal(t *testing.T) {
	table := analyze(t, `missing();`, Options{})
	sym := table.Root.Own("missing")
	test.That(t, sym != nil && sym.Implicit(), "undeclared name becomes an implicit global")
	test.T(t, sym.Kind, KindImplicit)
	test.That(t, sym.KeepName, "implicit globals keep their name")
	test.T(t, sym.Refs[0].Access, Call)
}

func TestAccessKinds(t *testing.T) {
	table := analyze(t, `var n = 1; n; n = 2; n++;`, Options{})
	n := table.Root.Own("n")
	test.T(t, n.Uses(), 4)
	test.T(t, n.Refs[0].Access, Read)
	test.T(t, n.Refs[1].Access, Write)
	test.T(t, n.Refs[2].Access, Write)
}

func TestCaptured(t *testing.T) {
	table := analyze(t, `function f() { var x = 1; var y = 2; g(() => x); return y; }`, Options{})
	fn := table.Root.Children[0]
	test.That(t, fn.Own("x").Captured, "x crosses into the arrow")
	test.That(t, !fn.Own("y").Captured, "y is used in its own function only")
}

func TestEvalFreezesChain(t *testing.T) {
	table := analyze(t, `function f() { eval(code); } function g() { var z; }`, Options{})
	fn := table.Root.Children[0]
	test.That(t, fn.Unsafe, "scope with direct eval is unsafe")
	test.That(t, fn.Reasons&ReasonEval != 0, "reason records eval")
	test.That(t, table.Root.Unsafe, "eval reaches every enclosing binding")

	gn := table.Root.Children[1]
	test.That(t, !gn.Unsafe, "sibling scope stays renamable")
	test.That(t, !gn.Own("z").KeepName, "z may still be renamed")
}

func TestWithTaint(t *testing.T) {
	table := analyze(t, `with (o) { a(); }`, Options{})
	test.That(t, table.Root.Unsafe, "with taints the enclosing chain")

	ws := table.Root.Children[0]
	test.T(t, ws.Type, WithScope)
	body := ws.Children[0]
	test.That(t, body.Unsafe, "scopes inside with resolve against the object")
	test.That(t, body.Reasons&ReasonWith != 0, "reason records with")
}

func TestDynamicThis(t *testing.T) {
	table := analyze(t, `function f() { return this; } function g() { return () => this; }`, Options{})
	fn := table.Root.Children[0]
	test.That(t, fn.DynamicThis, "f observes its call-site this")
	test.That(t, !fn.Unsafe, "this alone does not veto renaming")

	gn := table.Root.Children[1]
	test.That(t, gn.DynamicThis, "this inside an arrow belongs to the enclosing function")
	test.That(t, !gn.Children[0].DynamicThis, "the arrow scope itself is not marked")
}

func TestExports(t *testing.T) {
	table := analyze(t, `export var a = 1;`, Options{})
	a := table.Root.Own("a")
	test.That(t, a.Exported, "exported declaration is marked")
	test.That(t, a.KeepName, "exports keep their name by default")

	table = analyze(t, `export var a = 1;`, Options{RenameExports: true})
	test.That(t, !table.Root.Own("a").KeepName, "rename-exports releases the declaration")

	table = analyze(t, `var b = 1; export {b};`, Options{RenameExports: true})
	b := table.Root.Own("b")
	test.That(t, b.Listed, "names in an export clause are listed")
	test.That(t, b.KeepName, "listed names always keep their name")
}

func TestImports(t *testing.T) {
	table := analyze(t, `import def, {x as y} from "m";`, Options{})
	for _, name := range []string{"def", "y"} {
		sym := table.Root.Own(name)
		test.That(t, sym != nil, "import binding declared")
		test.T(t, sym.Kind, KindImport)
		test.That(t, sym.KeepName, "import bindings keep their name")
	}
	test.That(t, table.Root.Own("x") == nil, "the source name of an alias binds nothing")
}

func TestIndirectGlobalAccess(t *testing.T) {
	table := analyze(t, `var data = 1; window["data"] = 2;`, Options{})
	test.That(t, table.IndirectlyAccessed("data"), "string index on window pins the global")
	test.That(t, table.Root.Own("data").KeepName, "pinned global keeps its name")

	table = analyze(t, `function f(window) { window["q"] = 1; }`, Options{})
	test.That(t, !table.IndirectlyAccessed("q"), "a shadowed window is a plain object")
}

func TestCatchParam(t *testing.T) {
	table := analyze(t, `try { f(); } catch (e) { e; }`, Options{})
	var catch *Scope
	for _, child := range table.Root.Children {
		if child.Type == CatchScope {
			catch = child
		}
	}
	test.That(t, catch != nil, "catch clause opens a scope")
	test.T(t, catch.Own("e").Kind, KindCatchParam)
	test.T(t, len(catch.Own("e").Refs), 1)
}

func TestFunctionExprName(t *testing.T) {
	table := analyze(t, `var f = function self() { return self; };`, Options{})
	test.That(t, table.Root.Own("self") == nil, "expression name does not escape")
	fn := table.Root.Children[0]
	test.That(t, fn.Own("self") != nil, "expression name binds inside the function")
}

func TestKeepVarNames(t *testing.T) {
	table := analyze(t, `var a = 1; function f(b) {}`, Options{KeepVarNames: true})
	for _, sym := range table.Symbols {
		test.That(t, sym.KeepName, "every symbol keeps its name")
	}
}
