// Package generator prints a program tree back to JavaScript source. The
// compact format emits the minimal token stream, inserting whitespace,
// semicolons, and parentheses only where the grammar demands them.
package generator

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/tdewolff/parse/v2/js"

	"github.com/tomisinteazer/rjscompiler/ast"
)

// Format selects the output style.
type Format int

// Output formats.
const (
	Compact  Format = iota // no insignificant whitespace
	Readable               // single spaces after punctuation
	Pretty                 // newlines and indentation
)

// Quote selects the string literal quote style.
type Quote int

// Quote styles.
const (
	QuoteAuto Quote = iota // per literal, whichever needs fewer escapes
	QuoteSingle
	QuoteDouble
)

// Granularity selects how often positions are reported to the Mapper.
type Granularity int

// Mapping granularities.
const (
	StmtGranularity  Granularity = iota // one mapping per statement
	TokenGranularity                    // plus identifiers and literals
)

// Mapper receives generated-to-original position pairs while printing.
// Line and column are zero-based; the column counts UTF-16 code units.
// Ident marks identifier tokens whose original text belongs in a source
// map names table.
type Mapper interface {
	Map(line, column int, span ast.Span, ident bool)
}

// Options control the output style of a generation.
type Options struct {
	Format  Format
	Quote   Quote
	Version int // ECMAScript edition year; 5 and lower quote reserved property keys

	Granularity Granularity
	Mapper      Mapper
}

// Generate prints the program and returns the generated source.
func Generate(program *ast.Program, opts Options) ([]byte, error) {
	p := &printer{
		opts:   opts,
		es5:    0 < opts.Version && opts.Version <= 5,
		mapCol: -1,
	}
	for _, stmt := range program.List {
		p.nl()
		p.stmt(stmt)
		if p.err != nil {
			return nil, p.err
		}
	}
	if p.opts.Format == Pretty && 0 < len(p.buf) {
		p.flushSemi('\n')
		p.push(nlBytes)
	}
	return p.buf, p.err
}

type printer struct {
	opts Options
	es5  bool

	buf      []byte
	err      error
	line     int
	col      int
	needSemi bool
	indent   int

	// position of the last emitted mapping, so segments strictly advance
	mapLine int
	mapCol  int
}

var (
	semiBytes   = []byte(";")
	nlBytes     = []byte("\n")
	spaceBytes  = []byte(" ")
	indentBytes = []byte("  ")
)

func (p *printer) fail(format string, args ...interface{}) {
	if p.err == nil {
		p.err = fmt.Errorf(format, args...)
	}
}

// push appends raw bytes and advances the output cursor. Columns count UTF-16
// code units so that source map consumers agree on positions.
func (p *printer) push(b []byte) {
	p.buf = append(p.buf, b...)
	for i := 0; i < len(b); {
		if b[i] == '\n' {
			p.line++
			p.col = 0
			i++
			continue
		}
		r, n := utf8.DecodeRune(b[i:])
		if r > 0xFFFF {
			p.col += 2
		} else {
			p.col++
		}
		i += n
	}
}

func (p *printer) flushSemi(next byte) {
	if !p.needSemi {
		return
	}
	p.needSemi = false
	if next == '}' && p.opts.Format != Pretty {
		return
	}
	p.push(semiBytes)
}

// write emits bytes, first flushing a pending semicolon and inserting a space
// when the previous and next byte would otherwise merge into one token.
func (p *printer) write(b []byte) {
	if len(b) == 0 {
		return
	}
	p.flushSemi(b[0])
	if 0 < len(p.buf) && mergeable(p.buf[len(p.buf)-1], b[0]) {
		p.push(spaceBytes)
	}
	p.push(b)
}

func (p *printer) writeByte(c byte) {
	p.write([]byte{c})
}

func (p *printer) writeString(s string) {
	p.write([]byte(s))
}

// space emits a readability space outside compact mode.
func (p *printer) space() {
	if p.opts.Format != Compact {
		p.push(spaceBytes)
	}
}

// nl starts a new indented line in pretty mode.
func (p *printer) nl() {
	if p.opts.Format != Pretty || len(p.buf) == 0 {
		return
	}
	p.flushSemi('\n')
	p.push(nlBytes)
	for i := 0; i < p.indent; i++ {
		p.push(indentBytes)
	}
}

func (p *printer) semi() {
	p.needSemi = true
}

func (p *printer) mapStmt(span ast.Span) {
	if p.opts.Mapper == nil {
		return
	}
	p.flushSemi(0) // a statement never begins with a closing brace
	p.mapPos(span, false)
}

// mapPos reports a mapping at the output cursor, dropping it when a segment
// already points there.
func (p *printer) mapPos(span ast.Span, ident bool) {
	if p.line == p.mapLine && p.col == p.mapCol {
		return
	}
	p.mapLine, p.mapCol = p.line, p.col
	p.opts.Mapper.Map(p.line, p.col, span, ident)
}

// token writes a token's bytes, reporting the exact output position at token
// granularity once pending separators are in place.
func (p *printer) token(span ast.Span, b []byte, ident bool) {
	if len(b) == 0 {
		return
	}
	p.flushSemi(b[0])
	if 0 < len(p.buf) && mergeable(p.buf[len(p.buf)-1], b[0]) {
		p.push(spaceBytes)
	}
	if p.opts.Mapper != nil && p.opts.Granularity == TokenGranularity {
		p.mapPos(span, ident)
	}
	p.push(b)
}

func isIdentChar(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' || c == '$' || c == '_' || 0x80 <= c
}

// mergeable reports whether two adjacent bytes would lex as one token.
func mergeable(prev, next byte) bool {
	if isIdentChar(prev) && isIdentChar(next) {
		return true
	}
	switch prev {
	case '+':
		return next == '+'
	case '-':
		return next == '-'
	case '/':
		return next == '/' || next == '*'
	case '<':
		return next == '!'
	case '?':
		return next == '.' // a?.5:b would lex as optional chaining
	}
	return false
}

////////////////////////////////////////////////////////////////
// statements

func (p *printer) stmt(i ast.IStmt) {
	if p.err != nil {
		return
	}
	p.mapStmt(i.Pos())
	switch stmt := i.(type) {
	case *ast.BlockStmt:
		p.blockStmt(stmt)
	case *ast.EmptyStmt:
		p.flushSemi(';')
		p.push(semiBytes)
	case *ast.ExprStmt:
		p.exprStmt(stmt.Value)
		p.semi()
	case *ast.IfStmt:
		p.ifStmt(stmt)
	case *ast.DoWhileStmt:
		p.writeString("do")
		p.bodyStmt(stmt.Body)
		p.writeString("while")
		p.writeByte('(')
		p.expr(stmt.Cond, ast.OpExpr)
		p.writeByte(')')
		p.semi()
	case *ast.WhileStmt:
		p.writeString("while")
		p.writeByte('(')
		p.expr(stmt.Cond, ast.OpExpr)
		p.writeByte(')')
		p.bodyStmt(stmt.Body)
	case *ast.ForStmt:
		p.forStmt(stmt)
	case *ast.ForInStmt:
		p.forInOf(stmt.Init, "in", stmt.Value, stmt.Body)
	case *ast.ForOfStmt:
		p.forInOf(stmt.Init, "of", stmt.Value, stmt.Body)
	case *ast.SwitchStmt:
		p.switchStmt(stmt)
	case *ast.BranchStmt:
		if stmt.Type == js.BreakToken {
			p.writeString("break")
		} else {
			p.writeString("continue")
		}
		if stmt.Label != nil {
			p.write(stmt.Label)
		}
		p.semi()
	case *ast.ReturnStmt:
		p.writeString("return")
		if stmt.Value != nil {
			p.expr(stmt.Value, ast.OpExpr)
		}
		p.semi()
	case *ast.LabelledStmt:
		p.write(stmt.Label)
		p.writeByte(':')
		p.space()
		p.bodyStmt(stmt.Value)
	case *ast.ThrowStmt:
		p.writeString("throw")
		p.expr(stmt.Value, ast.OpExpr)
		p.semi()
	case *ast.TryStmt:
		p.tryStmt(stmt)
	case *ast.WithStmt:
		p.writeString("with")
		p.writeByte('(')
		p.expr(stmt.Cond, ast.OpExpr)
		p.writeByte(')')
		p.bodyStmt(stmt.Body)
	case *ast.DebuggerStmt:
		p.writeString("debugger")
		p.semi()
	case *ast.ImportStmt:
		p.importStmt(stmt)
	case *ast.ExportStmt:
		p.exportStmt(stmt)
	case *ast.VarDecl:
		p.varDecl(stmt)
		p.semi()
	case *ast.FuncDecl:
		p.funcDecl(stmt)
	case *ast.ClassDecl:
		p.classDecl(stmt)
	default:
		p.fail("generate: unknown statement %T at offset %d", i, i.Pos().Start)
	}
}

func (p *printer) blockStmt(block *ast.BlockStmt) {
	p.writeByte('{')
	p.indent++
	for _, item := range block.List {
		p.nl()
		p.stmt(item)
	}
	p.indent--
	p.nl()
	p.flushSemi('}')
	p.push([]byte("}"))
}

// bodyStmt prints the single-statement body of a control statement.
func (p *printer) bodyStmt(i ast.IStmt) {
	if block, ok := i.(*ast.BlockStmt); ok {
		if p.opts.Format != Pretty {
			p.blockStmt(block)
			return
		}
		p.space()
		p.blockStmt(block)
		return
	}
	if p.opts.Format == Pretty {
		p.indent++
		p.nl()
		p.stmt(i)
		p.indent--
		return
	}
	p.stmt(i)
}

func (p *printer) ifStmt(stmt *ast.IfStmt) {
	p.writeString("if")
	p.space()
	p.writeByte('(')
	p.expr(stmt.Cond, ast.OpExpr)
	p.writeByte(')')
	body := stmt.Body
	if stmt.Else != nil && endsInOpenIf(body) {
		// brace the body so the else cannot attach to an inner if
		body = &ast.BlockStmt{Span: body.Pos(), List: []ast.IStmt{body}}
	}
	p.bodyStmt(body)
	if stmt.Else != nil {
		p.flushSemi('e')
		if p.opts.Format == Pretty {
			p.nl()
		}
		p.writeString("else")
		if _, ok := stmt.Else.(*ast.IfStmt); ok {
			p.space()
			p.stmt(stmt.Else)
			return
		}
		p.bodyStmt(stmt.Else)
	}
}

// endsInOpenIf reports whether the trailing statement of a body is an if
// without an else, which would capture a following else clause.
func endsInOpenIf(i ast.IStmt) bool {
	switch stmt := i.(type) {
	case *ast.IfStmt:
		if stmt.Else == nil {
			return true
		}
		return endsInOpenIf(stmt.Else)
	case *ast.DoWhileStmt:
		return false
	case *ast.WhileStmt:
		return endsInOpenIf(stmt.Body)
	case *ast.ForStmt:
		return endsInOpenIf(stmt.Body)
	case *ast.ForInStmt:
		return endsInOpenIf(stmt.Body)
	case *ast.ForOfStmt:
		return endsInOpenIf(stmt.Body)
	case *ast.WithStmt:
		return endsInOpenIf(stmt.Body)
	case *ast.LabelledStmt:
		return endsInOpenIf(stmt.Value)
	}
	return false
}

func (p *printer) forStmt(stmt *ast.ForStmt) {
	p.writeString("for")
	p.space()
	p.writeByte('(')
	if stmt.Init != nil {
		if decl, ok := stmt.Init.(*ast.VarDecl); ok {
			p.varDecl(decl)
		} else if hasInOp(stmt.Init) {
			p.writeByte('(')
			p.expr(stmt.Init, ast.OpExpr)
			p.writeByte(')')
		} else {
			p.expr(stmt.Init, ast.OpExpr)
		}
	}
	p.writeByte(';')
	if stmt.Cond != nil {
		p.space()
		p.expr(stmt.Cond, ast.OpExpr)
	}
	p.writeByte(';')
	if stmt.Post != nil {
		p.space()
		p.expr(stmt.Post, ast.OpExpr)
	}
	p.writeByte(')')
	p.bodyStmt(stmt.Body)
}

// hasInOp reports whether an in operator occurs in the expression outside of
// brackets, which a for-statement initializer must parenthesize.
func hasInOp(i ast.IExpr) bool {
	switch expr := i.(type) {
	case *ast.BinaryExpr:
		return expr.Op == js.InToken || hasInOp(expr.X) || hasInOp(expr.Y)
	case *ast.CondExpr:
		return hasInOp(expr.Cond) || hasInOp(expr.X) || hasInOp(expr.Y)
	case *ast.UnaryExpr:
		return hasInOp(expr.X)
	case *ast.GroupExpr:
		return hasInOp(expr.X)
	}
	return false
}

func (p *printer) forInOf(init ast.IExpr, op string, value ast.IExpr, body ast.IStmt) {
	p.writeString("for")
	p.space()
	p.writeByte('(')
	if decl, ok := init.(*ast.VarDecl); ok {
		p.varDecl(decl)
	} else {
		p.expr(init, ast.OpLHS)
	}
	p.writeString(op)
	p.expr(value, ast.OpAssign)
	p.writeByte(')')
	p.bodyStmt(body)
}

func (p *printer) switchStmt(stmt *ast.SwitchStmt) {
	p.writeString("switch")
	p.space()
	p.writeByte('(')
	p.expr(stmt.Init, ast.OpExpr)
	p.writeByte(')')
	p.space()
	p.writeByte('{')
	p.indent++
	for _, clause := range stmt.List {
		p.nl()
		p.flushSemi('c')
		if clause.TokenType == js.CaseToken {
			p.writeString("case")
			p.expr(clause.Cond, ast.OpExpr)
		} else {
			p.writeString("default")
		}
		p.writeByte(':')
		p.indent++
		for _, item := range clause.List {
			p.nl()
			p.stmt(item)
		}
		p.indent--
	}
	p.indent--
	p.nl()
	p.flushSemi('}')
	p.push([]byte("}"))
}

func (p *printer) tryStmt(stmt *ast.TryStmt) {
	p.writeString("try")
	p.space()
	p.blockStmt(stmt.Body)
	if stmt.Catch != nil {
		p.writeString("catch")
		if stmt.Binding != nil {
			p.writeByte('(')
			p.binding(stmt.Binding)
			p.writeByte(')')
		}
		p.space()
		p.blockStmt(stmt.Catch)
	}
	if stmt.Finally != nil {
		p.writeString("finally")
		p.space()
		p.blockStmt(stmt.Finally)
	}
}

func (p *printer) importStmt(stmt *ast.ImportStmt) {
	p.writeString("import")
	named := false
	if stmt.Default != nil {
		p.write(stmt.Default)
		named = true
	}
	if 0 < len(stmt.List) {
		if named {
			p.writeByte(',')
			p.space()
		}
		if len(stmt.List) == 1 && bytes.Equal(stmt.List[0].Name, starBytes) {
			p.writeByte('*')
			p.writeString("as")
			p.write(stmt.List[0].Binding)
		} else {
			p.aliasList(stmt.List)
		}
		named = true
	}
	if named {
		p.writeString("from")
	}
	p.write(p.stringLit(stmt.Module))
	p.semi()
}

func (p *printer) exportStmt(stmt *ast.ExportStmt) {
	p.writeString("export")
	switch {
	case stmt.Decl != nil:
		if stmt.Default {
			p.writeString("default")
		}
		p.stmt(stmt.Decl)
	case stmt.Default:
		p.writeString("default")
		p.expr(stmt.Expr, ast.OpAssign)
		p.semi()
	case len(stmt.List) == 1 && bytes.Equal(stmt.List[0].Name, starBytes):
		p.writeByte('*')
		if stmt.List[0].Binding != nil {
			p.writeString("as")
			p.write(stmt.List[0].Binding)
		}
		p.writeString("from")
		p.write(p.stringLit(stmt.Module))
		p.semi()
	default:
		p.aliasList(stmt.List)
		if stmt.Module != nil {
			p.writeString("from")
			p.write(p.stringLit(stmt.Module))
		}
		p.semi()
	}
}

func (p *printer) aliasList(list []ast.Alias) {
	p.writeByte('{')
	for i, alias := range list {
		if 0 < i {
			p.writeByte(',')
			p.space()
		}
		if alias.Name != nil {
			p.write(alias.Name)
			p.writeString("as")
		}
		p.write(alias.Binding)
	}
	p.writeByte('}')
}

var starBytes = []byte("*")

func (p *printer) varDecl(decl *ast.VarDecl) {
	switch decl.TokenType {
	case js.VarToken:
		p.writeString("var")
	case js.LetToken:
		p.writeString("let")
	case js.ConstToken:
		p.writeString("const")
	}
	for i := range decl.List {
		if 0 < i {
			p.writeByte(',')
			p.space()
		}
		p.bindingElement(decl.List[i])
	}
}

func (p *printer) funcDecl(fn *ast.FuncDecl) {
	if fn.Async {
		p.writeString("async")
	}
	p.writeString("function")
	if fn.Generator {
		p.writeByte('*')
	}
	if fn.Name != nil {
		p.token(fn.Name.Span, fn.Name.Name, true)
	}
	p.params(fn.Params)
	p.space()
	p.blockStmt(fn.Body)
}

func (p *printer) params(params ast.Params) {
	p.writeByte('(')
	for i := range params.List {
		if 0 < i {
			p.writeByte(',')
			p.space()
		}
		p.bindingElement(params.List[i])
	}
	if params.Rest != nil {
		if 0 < len(params.List) {
			p.writeByte(',')
			p.space()
		}
		p.writeString("...")
		p.binding(params.Rest)
	}
	p.writeByte(')')
}

func (p *printer) classDecl(cls *ast.ClassDecl) {
	p.writeString("class")
	if cls.Name != nil {
		p.token(cls.Name.Span, cls.Name.Name, true)
	}
	if cls.Extends != nil {
		p.writeString("extends")
		p.expr(cls.Extends, ast.OpLHS)
	}
	p.space()
	p.writeByte('{')
	p.indent++
	for _, element := range cls.List {
		p.nl()
		switch {
		case element.Method != nil:
			p.flushSemi('m')
			p.method(element.Method)
		case element.Field != nil:
			p.flushSemi('f')
			if element.Field.Static {
				p.writeString("static")
			}
			p.propertyName(element.Field.Name)
			if element.Field.Init != nil {
				p.space()
				p.writeByte('=')
				p.space()
				p.expr(element.Field.Init, ast.OpAssign)
			}
			p.semi()
		}
	}
	p.indent--
	p.nl()
	p.flushSemi('}')
	p.push([]byte("}"))
}

func (p *printer) method(m *ast.MethodDecl) {
	if m.Static {
		p.writeString("static")
	}
	if m.Async {
		p.writeString("async")
	}
	if m.Generator {
		p.writeByte('*')
	}
	if m.Get {
		p.writeString("get")
	}
	if m.Set {
		p.writeString("set")
	}
	p.propertyName(m.Name)
	p.params(m.Params)
	p.space()
	p.blockStmt(m.Body)
}

////////////////////////////////////////////////////////////////
// bindings

func (p *printer) binding(i ast.IBinding) {
	switch binding := i.(type) {
	case *ast.Ident:
		p.token(binding.Span, binding.Name, true)
	case *ast.BindingArray:
		p.writeByte('[')
		for j := range binding.List {
			if 0 < j {
				p.writeByte(',')
				p.space()
			}
			p.bindingElement(binding.List[j])
		}
		if binding.Rest != nil {
			if 0 < len(binding.List) {
				p.writeByte(',')
				p.space()
			}
			p.writeString("...")
			p.binding(binding.Rest)
		}
		p.writeByte(']')
	case *ast.BindingObject:
		p.writeByte('{')
		for j := range binding.List {
			if 0 < j {
				p.writeByte(',')
				p.space()
			}
			p.bindingObjectItem(binding.List[j])
		}
		if binding.Rest != nil {
			if 0 < len(binding.List) {
				p.writeByte(',')
				p.space()
			}
			p.writeString("...")
			p.write(binding.Rest.Name)
		}
		p.writeByte('}')
	default:
		p.fail("generate: unknown binding %T", i)
	}
}

func (p *printer) bindingElement(element ast.BindingElement) {
	if element.Binding != nil {
		p.binding(element.Binding)
	}
	if element.Default != nil {
		p.writeByte('=')
		p.expr(element.Default, ast.OpAssign)
	}
}

func (p *printer) bindingObjectItem(item ast.BindingObjectItem) {
	if item.Key != nil {
		if shorthandKey(item.Key, item.Value) {
			p.bindingElement(item.Value)
			return
		}
		p.propertyName(*item.Key)
		p.writeByte(':')
		p.space()
	}
	p.bindingElement(item.Value)
}

// shorthandKey reports whether a destructuring key still matches its binding
// name, so that {x: x} collapses to {x}.
func shorthandKey(key *ast.PropertyName, value ast.BindingElement) bool {
	if key.Computed != nil || key.Literal == nil {
		return false
	}
	ident, ok := value.Binding.(*ast.Ident)
	if !ok {
		return false
	}
	return bytes.Equal(key.Literal.Data, ident.Name)
}
