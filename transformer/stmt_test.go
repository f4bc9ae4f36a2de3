package transformer

import (
	"testing"

	"github.com/tdewolff/test"

	"github.com/tomisinteazer/rjscompiler/analyzer"
	"github.com/tomisinteazer/rjscompiler/generator"
	"github.com/tomisinteazer/rjscompiler/parser"
)

func cleanup(t *testing.T, src string) string {
	t.Helper()
	program, err := parser.ParseString(src)
	test.Error(t, err)
	table := analyzer.Analyze(program, analyzer.Options{})
	Cleanup(program, table)
	b, err := generator.Generate(program, generator.Options{})
	test.Error(t, err)
	return string(b)
}

func TestCleanup(t *testing.T) {
	tests := []struct {
		js       string
		expected string
	}{
		{`;;a();`, `a()`},
		{`{ a(); b(); } c();`, `a();b();c()`},
		{`{ let a = 1; } b();`, `{let a=1}b()`},
		{`{ function f() {} } f();`, `{function f(){}}f()`},
		{`if (a) { b(); }`, `if(a)b()`},
		{`if (a) { b(); c(); }`, `if(a){b();c()}`},
		{`if (a) { let b = 1; }`, `if(a){let b=1}`},
		{`if (a) {}`, `if(a);`},
		{`if (a) { b(); } else { c(); }`, `if(a)b();else c()`},
		{`while (a) { b(); }`, `while(a)b()`},
		{`for (;;) { a(); }`, `for(;;)a()`},
		{`a = (b + c);`, `a=b+c`},
		{`a = ((b));`, `a=b`},
		{`(a?.b).c;`, `(a?.b).c`},
		{`(a?.b)();`, `(a?.b)()`},
		{`var a = true, b = false;`, `var a=!0,b=!1`},
		{`if (a === true) b();`, `if(a===!0)b()`},
	}
	for _, tt := range tests {
		t.Run(tt.js, func(t *testing.T) {
			test.String(t, cleanup(t, tt.js), tt.expected)
		})
	}
}

func TestCleanupUndefined(t *testing.T) {
	// the undeclared undefined shortens, a declared one must not
	test.String(t, cleanup(t, `var a = undefined;`), `var a=void 0`)
	test.String(t, cleanup(t, `var undefined = 1, a = undefined;`), `var undefined=1,a=undefined`)
	test.String(t, cleanup(t, `undefined = 1;`), `undefined=1`)
}

func TestCleanupDanglingElse(t *testing.T) {
	// the unwrapped body regains braces so the else keeps its if
	test.String(t, cleanup(t, `if (a) { if (b) c(); } else d();`), `if(a){if(b)c()}else d()`)
	test.String(t, cleanup(t, `if (a) { if (b) c(); else d(); } else e();`), `if(a)if(b)c();else d();else e()`)
}
