package rjscompiler

import (
	"encoding/json"
	"io"
	"sort"
	"unicode/utf8"

	"github.com/tomisinteazer/rjscompiler/ast"
)

// SourceMap collects position mappings during generation and writes a
// version 3 source map. Bind it to an Options value through the SourceMap
// field; after minifying, Write emits the map.
type SourceMap struct {
	// File names the generated output, Source the input it maps back to.
	File   string
	Source string

	// IncludeContent embeds the original source in sourcesContent.
	IncludeContent bool

	src       []byte
	lines     []int // byte offset of each line start
	names     []string
	nameIndex map[string]int
	mappings  []mapping
}

type mapping struct {
	dstLine, dstCol int
	srcLine, srcCol int
	name            int // index into names, -1 for none
}

// NewSourceMap returns a map whose single source is named source.
func NewSourceMap(source string) *SourceMap {
	return &SourceMap{Source: source}
}

// reset binds the map to the source about to be minified.
func (sm *SourceMap) reset(src []byte) {
	sm.src = src
	sm.lines = sm.lines[:0]
	sm.lines = append(sm.lines, 0)
	for i, c := range src {
		if c == '\n' {
			sm.lines = append(sm.lines, i+1)
		}
	}
	sm.names = sm.names[:0]
	sm.nameIndex = map[string]int{}
	sm.mappings = sm.mappings[:0]
}

// Map implements generator.Mapper.
func (sm *SourceMap) Map(line, column int, span ast.Span, ident bool) {
	srcLine, srcCol := sm.position(span.Start)
	name := -1
	if ident && span.Start < span.End && span.End <= len(sm.src) {
		name = sm.addName(string(sm.src[span.Start:span.End]))
	}
	sm.mappings = append(sm.mappings, mapping{
		dstLine: line,
		dstCol:  column,
		srcLine: srcLine,
		srcCol:  srcCol,
		name:    name,
	})
}

// position converts a byte offset into a zero-based line and UTF-16 column.
func (sm *SourceMap) position(offset int) (int, int) {
	if len(sm.lines) == 0 || len(sm.src) < offset {
		return 0, 0
	}
	line := sort.SearchInts(sm.lines, offset+1) - 1
	col := 0
	for i := sm.lines[line]; i < offset; {
		r, n := utf8.DecodeRune(sm.src[i:])
		if r > 0xFFFF {
			col += 2
		} else {
			col++
		}
		i += n
	}
	return line, col
}

func (sm *SourceMap) addName(name string) int {
	if i, ok := sm.nameIndex[name]; ok {
		return i
	}
	i := len(sm.names)
	sm.names = append(sm.names, name)
	sm.nameIndex[name] = i
	return i
}

type sourceMapJSON struct {
	Version        int      `json:"version"`
	File           string   `json:"file,omitempty"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent,omitempty"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

// Write emits the source map as JSON.
func (sm *SourceMap) Write(w io.Writer) error {
	out := sourceMapJSON{
		Version:  3,
		File:     sm.File,
		Sources:  []string{sm.Source},
		Names:    sm.names,
		Mappings: string(sm.encodeMappings()),
	}
	if out.Names == nil {
		out.Names = []string{}
	}
	if sm.IncludeContent {
		out.SourcesContent = []string{string(sm.src)}
	}
	b, err := json.Marshal(out)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// URLComment returns the trailer that links generated output to its map.
func (sm *SourceMap) URLComment(url string) string {
	return "//# sourceMappingURL=" + url
}

// encodeMappings delta-encodes the segments. The generated column resets on
// every line; source line, column, and name indices carry across lines.
func (sm *SourceMap) encodeMappings() []byte {
	segs := make([]mapping, len(sm.mappings))
	copy(segs, sm.mappings)
	sort.SliceStable(segs, func(i, j int) bool {
		if segs[i].dstLine != segs[j].dstLine {
			return segs[i].dstLine < segs[j].dstLine
		}
		return segs[i].dstCol < segs[j].dstCol
	})

	var b []byte
	var prevDstLine, prevDstCol, prevSrcLine, prevSrcCol, prevName int
	first := true
	for _, seg := range segs {
		if seg.dstLine != prevDstLine {
			for ; prevDstLine < seg.dstLine; prevDstLine++ {
				b = append(b, ';')
			}
			prevDstCol = 0
			first = true
		}
		if !first {
			b = append(b, ',')
		}
		first = false
		b = appendVLQ(b, seg.dstCol-prevDstCol)
		prevDstCol = seg.dstCol
		b = appendVLQ(b, 0) // single source
		b = appendVLQ(b, seg.srcLine-prevSrcLine)
		prevSrcLine = seg.srcLine
		b = appendVLQ(b, seg.srcCol-prevSrcCol)
		prevSrcCol = seg.srcCol
		if seg.name != -1 {
			b = appendVLQ(b, seg.name-prevName)
			prevName = seg.name
		}
	}
	return b
}

const base64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// appendVLQ appends the base64 VLQ encoding of v: sign in the low bit, then
// five value bits per digit with a continuation flag.
func appendVLQ(b []byte, v int) []byte {
	u := uint32(v) << 1
	if v < 0 {
		u = uint32(-v)<<1 | 1
	}
	for {
		digit := u & 0x1F
		u >>= 5
		if u != 0 {
			digit |= 0x20
		}
		b = append(b, base64Chars[digit])
		if u == 0 {
			return b
		}
	}
}
