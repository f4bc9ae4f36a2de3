package transformer

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tdewolff/parse/v2/js"
	"github.com/tdewolff/test"

	"github.com/tomisinteazer/rjscompiler/analyzer"
	"github.com/tomisinteazer/rjscompiler/generator"
	"github.com/tomisinteazer/rjscompiler/parser"
)

func rename(t *testing.T, src string, opts analyzer.Options) string {
	t.Helper()
	program, err := parser.ParseString(src)
	test.Error(t, err)
	table := analyzer.Analyze(program, opts)
	test.Error(t, Rename(table))
	b, err := generator.Generate(program, generator.Options{})
	test.Error(t, err)
	return string(b)
}

func TestNameAt(t *testing.T) {
	tests := []struct {
		i    int
		name string
	}{
		{0, "a"},
		{25, "z"},
		{26, "A"},
		{51, "Z"},
		{52, "_"},
		{53, "$"},
		{54, "aa"},
		{55, "ab"},
		{54 + 63, "a9"},
		{54 + 64, "ba"},
		{54 + 54*64 - 1, "$9"},
		{54 + 54*64, "aaa"},
	}
	for _, tt := range tests {
		test.String(t, nameAt(tt.i), tt.name)
	}
}

func TestRename(t *testing.T) {
	tests := []struct {
		js       string
		expected string
	}{
		{
			`function add(first, second) { return first + second; } add(1, 2);`,
			`function a(b,c){return b+c}a(1,2)`,
		},
		{
			`var count = 1; function tick() { count++; }`,
			`var a=1;function b(){a++}`,
		},
		{
			// higher use counts win the shorter names
			`function f(rare, busy) { busy(); busy(); busy(); rare(); }`,
			`function a(c,b){b();b();b();c()}`,
		},
		{
			// the undeclared global keeps its name and blocks a
			`function f() { a(); }`,
			`function b(){a()}`,
		},
		{
			// a shadowing binding never reuses an ancestor's final name
			`var v = 1; function f() { var v = 2; return v; }`,
			`var a=1;function b(){var c=2;return c}`,
		},
		{
			`const cb = x => x * x; cb(3);`,
			`const a=b=>b*b;a(3)`,
		},
		{
			`try { f(); } catch (error) { log(error); }`,
			`try{f()}catch(a){log(a)}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.js, func(t *testing.T) {
			test.String(t, rename(t, tt.js, analyzer.Options{}), tt.expected)
		})
	}
}

func TestRenameEvalFreezes(t *testing.T) {
	src := `function f(x) { eval("x"); } var y = 1;`
	test.String(t, rename(t, src, analyzer.Options{}), `function f(x){eval("x")}var y=1`)
}

func TestRenameIndirectGlobal(t *testing.T) {
	src := `var data = 1; window["data"] = 2;`
	test.String(t, rename(t, src, analyzer.Options{}), `var data=1;window.data=2`)
}

func TestRenameExports(t *testing.T) {
	src := `export var foo = 1; foo();`
	test.String(t, rename(t, src, analyzer.Options{}), `export var foo=1;foo()`)
	test.String(t, rename(t, src, analyzer.Options{RenameExports: true}), `export var a=1;a()`)
}

func TestRenameImportsKept(t *testing.T) {
	src := `import {parse} from "m"; parse();`
	test.String(t, rename(t, src, analyzer.Options{}), `import{parse}from"m";parse()`)
}

func TestKeepVarNames(t *testing.T) {
	src := `function add(first, second) { return first + second; }`
	test.String(t, rename(t, src, analyzer.Options{KeepVarNames: true}), `function add(first,second){return first+second}`)
}

func TestRenameSkipsReserved(t *testing.T) {
	// enough bindings to push the generator well into two-letter names,
	// past do, if and in
	var sb strings.Builder
	sb.WriteString("function f(p0")
	for i := 1; i < 300; i++ {
		fmt.Fprintf(&sb, ",p%d", i)
	}
	sb.WriteString("){return p0")
	for i := 1; i < 300; i++ {
		fmt.Fprintf(&sb, "+p%d", i)
	}
	sb.WriteString(";}")
	out := rename(t, sb.String(), analyzer.Options{})
	fields := strings.FieldsFunc(out, func(r rune) bool {
		return !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9' || r == '_' || r == '$')
	})
	for _, field := range fields {
		if field == "function" || field == "return" || field == "f" {
			continue
		}
		_, ok := js.Keywords[field]
		test.That(t, !ok, "generated name "+field+" must not be a reserved word")
	}
}

// useCounts returns the sorted use counts of all symbols in a program, a
// shape that renaming must not change.
func useCounts(t *testing.T, src string) []int {
	t.Helper()
	program, err := parser.ParseString(src)
	test.Error(t, err)
	table := analyzer.Analyze(program, analyzer.Options{})
	counts := make([]int, 0, len(table.Symbols))
	for _, sym := range table.Symbols {
		counts = append(counts, sym.Uses())
	}
	sort.Ints(counts)
	return counts
}

func TestRenameInjective(t *testing.T) {
	src := `function outer(first, second) {
		var total = first + second;
		function inner(step) { return total + step; }
		return inner(first);
	}
	outer(1, 2);`
	before := useCounts(t, src)
	out := rename(t, src, analyzer.Options{})
	after := useCounts(t, out)
	if diff := cmp.Diff(before, after); diff != "" {
		test.Fail(t, diff)
	}
}
