// Package rjscompiler minifies JavaScript while preserving its semantics. It
// parses the source, resolves every identifier to its binding, renames what
// is provably safe to rename, and prints the shortest equivalent program.
package rjscompiler

import (
	"io"

	"github.com/tomisinteazer/rjscompiler/analyzer"
	"github.com/tomisinteazer/rjscompiler/ast"
	"github.com/tomisinteazer/rjscompiler/generator"
	"github.com/tomisinteazer/rjscompiler/parser"
	"github.com/tomisinteazer/rjscompiler/transformer"
)

// Formats, re-exported so callers need only this package.
const (
	Compact  = generator.Compact
	Readable = generator.Readable
	Pretty   = generator.Pretty
)

// Quote styles.
const (
	QuoteAuto   = generator.QuoteAuto
	QuoteSingle = generator.QuoteSingle
	QuoteDouble = generator.QuoteDouble
)

// Source map granularities.
const (
	StmtGranularity  = generator.StmtGranularity
	TokenGranularity = generator.TokenGranularity
)

// Options configure a minification run. The zero value renames identifiers,
// prints compactly, and emits no source map.
type Options struct {
	// KeepVarNames disables identifier renaming.
	KeepVarNames bool
	// RenameExports lets exported top-level names be renamed. Off by
	// default: the module interface stays intact.
	RenameExports bool

	Format  generator.Format
	Quote   generator.Quote
	Version int // ECMAScript edition year; 0 targets the latest

	// SourceMap, when set, collects mappings for the run.
	SourceMap   *SourceMap
	Granularity generator.Granularity
}

// Minify reads a program from r and writes its minified form to w.
func (o *Options) Minify(w io.Writer, r io.Reader) error {
	src, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	out, err := o.Bytes(src)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// Bytes minifies a program held in memory.
func (o *Options) Bytes(src []byte) ([]byte, error) {
	program, err := parser.ParseBytes(src)
	if err != nil {
		return nil, err
	}
	if err := ast.Validate(program); err != nil {
		return nil, err
	}
	table := analyzer.Analyze(program, analyzer.Options{
		RenameExports: o.RenameExports,
		KeepVarNames:  o.KeepVarNames,
	})
	transformer.Cleanup(program, table)
	if !o.KeepVarNames {
		if err := transformer.Rename(table); err != nil {
			return nil, err
		}
	}
	opts := generator.Options{
		Format:      o.Format,
		Quote:       o.Quote,
		Version:     o.Version,
		Granularity: o.Granularity,
	}
	if o.SourceMap != nil {
		o.SourceMap.reset(src)
		opts.Mapper = o.SourceMap
	}
	return generator.Generate(program, opts)
}

// String minifies a program held in a string.
func (o *Options) String(src string) (string, error) {
	b, err := o.Bytes([]byte(src))
	return string(b), err
}
