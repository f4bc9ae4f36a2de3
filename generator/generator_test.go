package generator

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/tdewolff/test"

	"github.com/tomisinteazer/rjscompiler/ast"
	"github.com/tomisinteazer/rjscompiler/parser"
)

func generate(t *testing.T, src string, opts Options) string {
	t.Helper()
	program, err := parser.ParseString(src)
	test.Error(t, err)
	b, err := Generate(program, opts)
	test.Error(t, err)
	return string(b)
}

func TestStmts(t *testing.T) {
	tests := []struct {
		js       string
		expected string
	}{
		{`var a = 5;`, `var a=5`},
		{`var a = 1, b = 2;`, `var a=1,b=2`},
		{`let a = 1;`, `let a=1`},
		{`const a = 1;`, `const a=1`},
		{`a; b; c;`, `a;b;c`},
		{`if (a) b();`, `if(a)b()`},
		{`if (a) { b(); } else { c(); }`, `if(a){b()}else{c()}`},
		{`if (a) if (b) c(); else d();`, `if(a)if(b)c();else d()`},
		{`do a(); while (b);`, `do a();while(b)`},
		{`while (a) b();`, `while(a)b()`},
		{`for (var i = 0; i < 5; i++) b();`, `for(var i=0;i<5;i++)b()`},
		{`for (;;) ;`, `for(;;);`},
		{`for (var k in o) f(k);`, `for(var k in o)f(k)`},
		{`for (const v of list) f(v);`, `for(const v of list)f(v)`},
		{`switch (a) { case 1: b(); default: c(); }`, `switch(a){case 1:b();default:c()}`},
		{`try { a(); } catch (e) { b(); } finally { c(); }`, `try{a()}catch(e){b()}finally{c()}`},
		{`try { a(); } catch { b(); }`, `try{a()}catch{b()}`},
		{`loop: for (;;) break loop;`, `loop:for(;;)break loop`},
		{`for (;;) continue;`, `for(;;)continue`},
		{`throw a;`, `throw a`},
		{`debugger;`, `debugger`},
		{`with (o) { f(); }`, `with(o){f()}`},
		{`function a(b) { return b; }`, `function a(b){return b}`},
		{`async function a() {}`, `async function a(){}`},
		{`function* a() { yield b; }`, `function*a(){yield b}`},
		{`function* a() { yield* b; }`, `function*a(){yield*b}`},
		{`async function a() { await b; }`, `async function a(){await b}`},
		{`class a extends b { c() {} }`, `class a extends b{c(){}}`},
		{`class a { static b() {} get c() {} set d(e) {} }`, `class a{static b(){}get c(){}set d(e){}}`},
		{`class a { b = 1; c() {} }`, `class a{b=1;c(){}}`},
		{`var {a, b: c} = d;`, `var{a,b:c}=d`},
		{`var [a, , ...b] = c;`, `var[a,,...b]=c`},
		{`function a(b = 1, ...c) {}`, `function a(b=1,...c){}`},
	}
	for _, tt := range tests {
		t.Run(tt.js, func(t *testing.T) {
			test.String(t, generate(t, tt.js, Options{}), tt.expected)
		})
	}
}

func TestModules(t *testing.T) {
	tests := []struct {
		js       string
		expected string
	}{
		{`import "m";`, `import"m"`},
		{`import a from "m";`, `import a from"m"`},
		{`import * as a from "m";`, `import*as a from"m"`},
		{`import a, {b as c} from "m";`, `import a,{b as c}from"m"`},
		{`export {a};`, `export{a}`},
		{`export {a as b};`, `export{a as b}`},
		{`export {a} from "m";`, `export{a}from"m"`},
		{`export * from "m";`, `export*from"m"`},
		{`export * as a from "m";`, `export*as a from"m"`},
		{`export var a = 1;`, `export var a=1`},
		{`export default function () {}`, `export default function(){}`},
		{`export default 5;`, `export default 5`},
	}
	for _, tt := range tests {
		t.Run(tt.js, func(t *testing.T) {
			test.String(t, generate(t, tt.js, Options{}), tt.expected)
		})
	}
}

func TestExprPrecedence(t *testing.T) {
	tests := []struct {
		js       string
		expected string
	}{
		{`a = b + c;`, `a=b+c`},
		{`(a + b) * c;`, `(a+b)*c`},
		{`a * (b + c);`, `a*(b+c)`},
		{`a - (b - c);`, `a-(b-c)`},
		{`(a - b) - c;`, `a-b-c`},
		{`a ** b ** c;`, `a**b**c`},
		{`(a ** b) ** c;`, `(a**b)**c`},
		{`(-a) ** b;`, `(-a)**b`},
		{`-(a ** b);`, `-(a**b)`},
		{`(a - b) ** c;`, `(a-b)**c`},
		{`a ?? b ?? c;`, `a??b??c`},
		{`a ?? (b || c);`, `a??(b||c)`},
		{`(a || b) ?? c;`, `(a||b)??c`},
		{`a || b && c;`, `a||b&&c`},
		{`(a || b) && c;`, `(a||b)&&c`},
		{`a ? b : c;`, `a?b:c`},
		{`a ? b : c ? d : e;`, `a?b:c?d:e`},
		{`(a ? b : c) ? d : e;`, `(a?b:c)?d:e`},
		{`a = (b, c);`, `a=(b,c)`},
		{`a, b;`, `a,b`},
		{`(a = b) + c;`, `(a=b)+c`},
		{`typeof a === "string";`, `typeof a==="string"`},
		{`!(a && b);`, `!(a&&b)`},
		{`-(-a);`, `- -a`},
		{`a + +b;`, `a+ +b`},
		{`a++ + b;`, `a++ +b`},
		{`a + ++b;`, `a+ ++b`},
		{`void 0;`, `void 0`},
		{`delete a.b;`, `delete a.b`},
	}
	for _, tt := range tests {
		t.Run(tt.js, func(t *testing.T) {
			test.String(t, generate(t, tt.js, Options{}), tt.expected)
		})
	}
}

func TestMemberAndCall(t *testing.T) {
	tests := []struct {
		js       string
		expected string
	}{
		{`a.b.c;`, `a.b.c`},
		{`a[0];`, `a[0]`},
		{`a["b"];`, `a.b`},
		{`a["b-c"];`, `a["b-c"]`},
		{`a[b + c];`, `a[b+c]`},
		{`a(b, c);`, `a(b,c)`},
		{`a(...b);`, `a(...b)`},
		{`new a;`, `new a`},
		{`new a();`, `new a()`},
		{`new a.b();`, `new a.b()`},
		{`(new a).b;`, `(new a).b`},
		{`(new a()).b;`, `new a().b`},
		{`new (f());`, `new(f())`},
		{`new (a.b());`, `new(a.b())`},
		{`(1).toString();`, `1 .toString()`},
		{`(1.5).toString();`, `1.5.toString()`},
		{`a?.b;`, `a?.b`},
		{`a?.b.c;`, `a?.b.c`},
		{`a?.[b];`, `a?.[b]`},
		{`a?.(b);`, `a?.(b)`},
		{`(a?.b).c;`, `(a?.b).c`},
		{`(a?.b)();`, `(a?.b)()`},
		{`(f()).a;`, `f().a`},
	}
	for _, tt := range tests {
		t.Run(tt.js, func(t *testing.T) {
			test.String(t, generate(t, tt.js, Options{}), tt.expected)
		})
	}
}

func TestStmtStartConflicts(t *testing.T) {
	tests := []struct {
		js       string
		expected string
	}{
		{`({a: 1});`, `({a:1})`},
		{`({a: a});`, `({a})`},
		{`({a});`, `({a})`},
		{`({a = 1} = b);`, `({a=1}=b)`},
		{`({"b": 1});`, `({b:1})`},
		{`(function () {})();`, `(function(){}())`},
		{`(class {});`, `(class{})`},
		{`({a: 1}).a;`, `({a:1}.a)`},
	}
	for _, tt := range tests {
		t.Run(tt.js, func(t *testing.T) {
			test.String(t, generate(t, tt.js, Options{}), tt.expected)
		})
	}
}

func TestArrows(t *testing.T) {
	tests := []struct {
		js       string
		expected string
	}{
		{`a => b;`, `a=>b`},
		{`(a, b) => c;`, `(a,b)=>c`},
		{`() => a;`, `()=>a`},
		{`a => ({});`, `a=>({})`},
		{`a => { return b; };`, `a=>{return b}`},
		{`async a => b;`, `async(a)=>b`},
		{`a => b => c;`, `a=>b=>c`},
	}
	for _, tt := range tests {
		t.Run(tt.js, func(t *testing.T) {
			test.String(t, generate(t, tt.js, Options{}), tt.expected)
		})
	}
}

func TestLiterals(t *testing.T) {
	tests := []struct {
		js       string
		expected string
	}{
		{`var a = 1000.0;`, `var a=1e3`},
		{`var a = 0.5;`, `var a=.5`},
		{`var a = 1e+3;`, `var a=1e3`},
		{`var a = 1E-05;`, `var a=1e-5`},
		{`var a = 0.50e+06;`, `var a=5e5`},
		{`var a = 1000000;`, `var a=1e6`},
		{`var a = 1e1;`, `var a=10`},
		{`var a = 100;`, `var a=100`},
		{`var a = 12300;`, `var a=12300`},
		{`var a = 123.456;`, `var a=123.456`},
		{`var a = 0.00005;`, `var a=5e-5`},
		{`var a = 5.;`, `var a=5`},
		{`var a = 0.0;`, `var a=0`},
		{`var a = 0x1F;`, `var a=0x1F`},
		{`var a = 10n;`, `var a=10n`},
		{`var a = "x";`, `var a="x"`},
		{"var a = 'x';", `var a="x"`},
		{`var a = "te\"st";`, `var a='te"st'`},
		{"var a = 'it\\'s';", `var a="it's"`},
		{`var a = "\q";`, `var a="q"`},
		{`var a = "\n";`, `var a="\n"`},
		{`var a = /re/g;`, `var a=/re/g`},
		{"var a = `x${b}y`;", "var a=`x${b}y`"},
		{"var a = tag`x`;", "var a=tag`x`"},
		{`var a = [1, , ];`, `var a=[1,,]`},
		{`var a = [, ];`, `var a=[,]`},
		{`var a = [...b];`, `var a=[...b]`},
		{`a ? 0.5 : b;`, `a? .5:b`},
	}
	for _, tt := range tests {
		t.Run(tt.js, func(t *testing.T) {
			test.String(t, generate(t, tt.js, Options{}), tt.expected)
		})
	}
}

func TestQuoteStyles(t *testing.T) {
	tests := []struct {
		quote    Quote
		js       string
		expected string
	}{
		{QuoteSingle, `var a = "x";`, `var a='x'`},
		{QuoteDouble, "var a = 'x';", `var a="x"`},
		{QuoteSingle, `var a = "it's";`, `var a='it\'s'`},
	}
	for _, tt := range tests {
		t.Run(tt.js, func(t *testing.T) {
			test.String(t, generate(t, tt.js, Options{Quote: tt.quote}), tt.expected)
		})
	}
}

func TestVersionGate(t *testing.T) {
	tests := []struct {
		version  int
		js       string
		expected string
	}{
		{0, `a["class"] = 1;`, `a.class=1`},
		{5, `a["class"] = 1;`, `a["class"]=1`},
		{0, `({new: 1});`, `({new:1})`},
		{5, `({new: 1});`, `({"new":1})`},
		{2020, `a["while"] = 1;`, `a.while=1`},
	}
	for _, tt := range tests {
		t.Run(tt.js, func(t *testing.T) {
			test.String(t, generate(t, tt.js, Options{Version: tt.version}), tt.expected)
		})
	}
}

func TestFormats(t *testing.T) {
	tests := []struct {
		format   Format
		js       string
		expected string
	}{
		{Readable, `a = b;`, `a = b`},
		{Readable, `a ? b : c;`, `a ? b : c`},
		{Readable, `f(a, b);`, `f(a, b)`},
		{Pretty, `if (a) { b(); }`, "if (a) {\n  b();\n}\n"},
		{Pretty, `function f() { a(); b(); }`, "function f() {\n  a();\n  b();\n}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.js, func(t *testing.T) {
			test.String(t, generate(t, tt.js, Options{Format: tt.format}), tt.expected)
		})
	}
}

func TestForInInit(t *testing.T) {
	test.String(t, generate(t, `for ((a in b);;) c();`, Options{}), `for((a in b);;)c()`)
}

func TestIdempotent(t *testing.T) {
	tests := []string{
		`var a=5;if(a)b()`,
		`(a+b)*c`,
		`a?.b.c`,
		`function a(b){return b}`,
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			once := generate(t, src, Options{})
			test.String(t, generate(t, once, Options{}), once)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	// sources already in canonical form, so printing preserves structure
	tests := []string{
		`var a=1`,
		`if(a)b();else c()`,
		`a+b*c`,
		`function f(x){return x}`,
		`a.b.c()`,
		`x=.5`,
		"`t${a}s`",
		`for(var i=0;i<5;i++)b(i)`,
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			program, err := parser.ParseString(src)
			test.Error(t, err)
			out, err := Generate(program, Options{})
			test.Error(t, err)
			reparsed, err := parser.ParseBytes(out)
			test.Error(t, err)
			if diff := cmp.Diff(program.List, reparsed.List, cmpopts.IgnoreTypes(ast.Span{})); diff != "" {
				test.Fail(t, diff)
			}
		})
	}
}
