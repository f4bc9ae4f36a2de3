package rjscompiler

import (
	"bytes"
	"testing"

	"github.com/tdewolff/test"

	"github.com/tomisinteazer/rjscompiler/ast"
)

func TestAppendVLQ(t *testing.T) {
	tests := []struct {
		v        int
		expected string
	}{
		{0, "A"},
		{1, "C"},
		{-1, "D"},
		{2, "E"},
		{15, "e"},
		{16, "gB"},
		{511, "+f"},
		{512, "ggB"},
		{-16, "hB"},
	}
	for _, tt := range tests {
		test.String(t, string(appendVLQ(nil, tt.v)), tt.expected)
	}
}

func TestPosition(t *testing.T) {
	sm := NewSourceMap("in.js")
	sm.reset([]byte("ab\ncd\n€\U0001d7d8x"))

	tests := []struct {
		offset    int
		line, col int
	}{
		{0, 0, 0},
		{1, 0, 1},
		{3, 1, 0},
		{4, 1, 1},
		{6, 2, 0},
		{9, 2, 1},  // past the 3-byte euro sign, one UTF-16 unit
		{13, 2, 3}, // past the 4-byte digit, a surrogate pair
	}
	for _, tt := range tests {
		line, col := sm.position(tt.offset)
		test.T(t, line, tt.line)
		test.T(t, col, tt.col)
	}
}

func TestWrite(t *testing.T) {
	sm := NewSourceMap("in.js")
	sm.File = "out.js"
	sm.reset([]byte("var a = 1;"))
	sm.Map(0, 0, ast.Span{Start: 0, End: 3}, false)
	sm.Map(0, 4, ast.Span{Start: 4, End: 5}, true)

	var buf bytes.Buffer
	test.Error(t, sm.Write(&buf))
	test.String(t, buf.String(),
		`{"version":3,"file":"out.js","sources":["in.js"],"names":["a"],"mappings":"AAAA,IAAIA"}`)
}

func TestWriteEmpty(t *testing.T) {
	sm := NewSourceMap("in.js")
	sm.reset(nil)

	var buf bytes.Buffer
	test.Error(t, sm.Write(&buf))
	test.String(t, buf.String(), `{"version":3,"sources":["in.js"],"names":[],"mappings":""}`)
}

func TestWriteContent(t *testing.T) {
	sm := NewSourceMap("in.js")
	sm.IncludeContent = true
	sm.reset([]byte("x;"))
	sm.Map(0, 0, ast.Span{Start: 0, End: 1}, false)

	var buf bytes.Buffer
	test.Error(t, sm.Write(&buf))
	test.String(t, buf.String(),
		`{"version":3,"sources":["in.js"],"sourcesContent":["x;"],"names":[],"mappings":"AAAA"}`)
}

func TestEncodeLines(t *testing.T) {
	sm := NewSourceMap("in.js")
	sm.reset([]byte("a;\nb;"))
	sm.Map(0, 0, ast.Span{Start: 0, End: 1}, false)
	sm.Map(1, 0, ast.Span{Start: 3, End: 4}, false)
	// the generated column resets per line, the source position carries over
	test.String(t, string(sm.encodeMappings()), "AAAA;AACA")
}

func TestMappingsMonotonic(t *testing.T) {
	sm := NewSourceMap("in.js")
	opts := Options{SourceMap: sm, Granularity: TokenGranularity}
	_, err := opts.String("var alpha = 1;\nfunction twice(n) { return n + n; }\ntwice(alpha);")
	test.Error(t, err)
	test.That(t, 0 < len(sm.mappings), "expected mappings")
	for i := 1; i < len(sm.mappings); i++ {
		prev, cur := sm.mappings[i-1], sm.mappings[i]
		advanced := prev.dstLine < cur.dstLine ||
			prev.dstLine == cur.dstLine && prev.dstCol < cur.dstCol
		test.That(t, advanced, "generated positions must strictly advance")
	}
}

func TestNamesDeduplicated(t *testing.T) {
	sm := NewSourceMap("in.js")
	sm.reset([]byte("aa aa"))
	sm.Map(0, 0, ast.Span{Start: 0, End: 2}, true)
	sm.Map(0, 2, ast.Span{Start: 3, End: 5}, true)
	test.T(t, len(sm.names), 1)
	test.String(t, sm.names[0], "aa")
}
