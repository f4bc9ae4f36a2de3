package rjscompiler

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tdewolff/test"
)

func TestBytes(t *testing.T) {
	tests := []struct {
		js       string
		expected string
	}{
		{
			"function add(first, second) { return first + second; }\nadd(1, 2);",
			`function a(b,c){return b+c}a(1,2)`,
		},
		{
			`var a = true, b = false, c = undefined;`,
			`var a=!0,b=!1,c=void 0`,
		},
		{
			`var r = (a || b) ?? c;`,
			`var r=(a||b)??c`,
		},
		{
			`if (visible) { show(); } else { hide(); }`,
			`if(visible)show();else hide()`,
		},
		{
			`var data = 1; window["data"] = 2;`,
			`var data=1;window.data=2`,
		},
		{
			`function f(x) { eval("x"); }`,
			`function f(x){eval("x")}`,
		},
		{
			`import {parse} from "lib"; export {parse};`,
			`import{parse}from"lib";export{parse}`,
		},
		{
			`const square = value => value * value; square(4);`,
			`const a=b=>b*b;a(4)`,
		},
		{
			`obj = { "name": n, "first-name": f };`,
			`obj={name:n,"first-name":f}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.js, func(t *testing.T) {
			opts := Options{}
			out, err := opts.String(tt.js)
			test.Error(t, err)
			test.String(t, out, tt.expected)
		})
	}
}

func TestIdempotent(t *testing.T) {
	opts := Options{}
	once, err := opts.String(`function add(first, second) { return first + second; }`)
	test.Error(t, err)
	twice, err := opts.String(once)
	test.Error(t, err)
	test.String(t, twice, once)
}

func TestKeepVarNames(t *testing.T) {
	opts := Options{KeepVarNames: true}
	out, err := opts.String(`function add(first, second) { return first + second; }`)
	test.Error(t, err)
	test.String(t, out, `function add(first,second){return first+second}`)
}

func TestQuoteAndVersion(t *testing.T) {
	opts := Options{Quote: QuoteSingle, KeepVarNames: true}
	out, err := opts.String(`var s = "x";`)
	test.Error(t, err)
	test.String(t, out, `var s='x'`)

	opts = Options{Version: 5, KeepVarNames: true}
	out, err = opts.String(`a["class"] = 1;`)
	test.Error(t, err)
	test.String(t, out, `a["class"]=1`)

	opts = Options{KeepVarNames: true}
	out, err = opts.String(`a["class"] = 1;`)
	test.Error(t, err)
	test.String(t, out, `a.class=1`)
}

func TestReadableFormat(t *testing.T) {
	opts := Options{Format: Readable, KeepVarNames: true}
	out, err := opts.String(`answer = condition ? left : right;`)
	test.Error(t, err)
	test.String(t, out, `answer = condition ? left : right`)
}

func TestMinify(t *testing.T) {
	var buf bytes.Buffer
	opts := Options{}
	err := opts.Minify(&buf, strings.NewReader(`var alpha = 1; alpha;`))
	test.Error(t, err)
	test.String(t, buf.String(), `var a=1;a`)
}

func TestErrors(t *testing.T) {
	opts := Options{}
	for _, src := range []string{`var;`, `a +`, `'unterminated`} {
		_, err := opts.String(src)
		test.That(t, err != nil, "expected an error")
	}
}

func TestSourceMapRun(t *testing.T) {
	sm := NewSourceMap("input.js")
	sm.File = "output.js"
	opts := Options{SourceMap: sm, Granularity: TokenGranularity}
	out, err := opts.String("var alpha = 1;\nalpha;")
	test.Error(t, err)
	test.String(t, out, `var a=1;a`)

	var buf bytes.Buffer
	test.Error(t, sm.Write(&buf))
	s := buf.String()
	test.That(t, strings.Contains(s, `"version":3`), "map declares version 3")
	test.That(t, strings.Contains(s, `"sources":["input.js"]`), "map names its source")
	test.That(t, strings.Contains(s, `"file":"output.js"`), "map names its output")
	test.That(t, strings.Contains(s, `"alpha"`), "renamed binding lands in names")
	test.That(t, strings.Contains(s, `"mappings":"`), "map carries mappings")

	test.String(t, sm.URLComment("output.js.map"), "//# sourceMappingURL=output.js.map")
}
