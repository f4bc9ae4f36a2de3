// Package parser turns JavaScript source text into an ast.Program. It is a
// recursive-descent parser over the tdewolff/parse/v2/js lexer; the lexer
// decides token boundaries while the parser decides the regular-expression
// versus division ambiguity by calling RegExp at expression positions.
package parser

import (
	"io"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"

	"github.com/tomisinteazer/rjscompiler/ast"
)

type token struct {
	tt     js.TokenType
	data   []byte
	start  int
	prevLT bool // line terminator between this token and the previous one
}

func (t token) end() int {
	return t.start + len(t.data)
}

// Parser holds the state of a single parse.
type Parser struct {
	r   *parse.Input
	l   *js.Lexer
	buf []token
	pos int
	err error

	prevEnd   int
	async     bool
	generator bool
	noIn      bool
}

// Parse parses a complete script or module.
func Parse(r *parse.Input) (*ast.Program, error) {
	p := &Parser{
		r: r,
		l: js.NewLexer(r),
	}
	program := p.parseProgram()
	if p.err != nil {
		return nil, p.err
	}
	return program, nil
}

// ParseBytes parses source held in memory.
func ParseBytes(b []byte) (*ast.Program, error) {
	return Parse(parse.NewInputBytes(b))
}

// ParseString parses source held in a string.
func ParseString(s string) (*ast.Program, error) {
	return Parse(parse.NewInputString(s))
}

////////////////////////////////////////////////////////////////
// token stream

func (p *Parser) read() token {
	prevLT := false
	for {
		tt, data := p.l.Next()
		switch tt {
		case js.WhitespaceToken, js.CommentToken:
			continue
		case js.LineTerminatorToken, js.CommentLineTerminatorToken:
			prevLT = true
			continue
		case js.ErrorToken:
			if p.l.Err() != io.EOF && p.err == nil {
				p.err = parse.NewErrorLexer(p.r, "%v", p.l.Err())
			}
			return token{tt: js.ErrorToken, start: p.r.Offset(), prevLT: prevLT}
		}
		return token{tt: tt, data: data, start: p.r.Offset() - len(data), prevLT: prevLT}
	}
}

func (p *Parser) fill(i int) {
	for len(p.buf) <= p.pos+i {
		if n := len(p.buf); 0 < n && p.buf[n-1].tt == js.ErrorToken {
			p.buf = append(p.buf, p.buf[n-1])
			continue
		}
		p.buf = append(p.buf, p.read())
	}
}

func (p *Parser) cur() token {
	p.fill(0)
	return p.buf[p.pos]
}

func (p *Parser) peek(i int) token {
	p.fill(i)
	return p.buf[p.pos+i]
}

func (p *Parser) tt() js.TokenType {
	return p.cur().tt
}

func (p *Parser) advance() {
	t := p.cur()
	if t.tt != js.ErrorToken {
		p.prevEnd = t.end()
		p.pos++
	}
}

// relexRegExpAt re-lexes the division token at lookahead offset i as a
// regular expression literal. The token must be the last one lexed, as the
// lexer can only rewind over its most recent token.
func (p *Parser) relexRegExpAt(i int) token {
	tt, data := p.l.RegExp()
	if tt == js.ErrorToken {
		p.fail("regular expression")
		return p.buf[p.pos+i]
	}
	t := token{tt: tt, data: data, start: p.r.Offset() - len(data), prevLT: p.buf[p.pos+i].prevLT}
	p.buf[p.pos+i] = t
	return t
}

// peekRelex peeks at lookahead offset i and turns a division token at the lex
// frontier into a regular expression when the preceding token cannot end an
// expression.
func (p *Parser) peekRelex(i int) token {
	t := p.peek(i)
	if (t.tt == js.DivToken || t.tt == js.DivEqToken) && p.pos+i == len(p.buf)-1 {
		prev := js.OpenParenToken
		if 0 < p.pos+i {
			prev = p.buf[p.pos+i-1].tt
		}
		if regExpFollows(prev) {
			return p.relexRegExpAt(i)
		}
	}
	return t
}

// regExpFollows reports whether a slash after tt starts a regular expression
// rather than a division operator.
func regExpFollows(tt js.TokenType) bool {
	switch tt {
	case js.IdentifierToken, js.ThisToken, js.SuperToken,
		js.CloseParenToken, js.CloseBracketToken, js.CloseBraceToken,
		js.DecimalToken, js.IntegerToken, js.BinaryToken, js.OctalToken, js.HexadecimalToken,
		js.StringToken, js.TemplateToken, js.TemplateEndToken, js.RegExpToken,
		js.TrueToken, js.FalseToken, js.NullToken, js.IncrToken, js.DecrToken:
		return false
	}
	return !js.IsIdentifier(tt)
}

func (p *Parser) fail(in string) {
	if p.err != nil {
		return
	}
	t := p.cur()
	p.r.Move(t.start - p.r.Offset())
	if t.tt == js.ErrorToken {
		p.err = parse.NewErrorLexer(p.r, "unexpected end of file in %s", in)
	} else {
		p.err = parse.NewErrorLexer(p.r, "unexpected '%s' in %s", string(t.data), in)
	}
}

func (p *Parser) expect(tt js.TokenType, in string) {
	if p.tt() != tt {
		p.fail(in)
		return
	}
	p.advance()
}

// semicolon consumes a statement terminator, applying automatic semicolon
// insertion at line breaks, closing braces, and end of file.
func (p *Parser) semicolon() {
	t := p.cur()
	if t.tt == js.SemicolonToken {
		p.advance()
		return
	}
	if t.tt == js.CloseBraceToken || t.tt == js.ErrorToken || t.prevLT {
		return
	}
	p.fail("statement")
}

// isIdentifierRef reports whether tt may act as an identifier reference or
// binding name in the current context.
func (p *Parser) isIdentifierRef(tt js.TokenType) bool {
	if tt == js.IdentifierToken || js.IsIdentifier(tt) || tt == js.LetToken {
		return true
	}
	if tt == js.YieldToken {
		return !p.generator
	}
	if tt == js.AwaitToken {
		return !p.async
	}
	return false
}

func (p *Parser) span(start int) ast.Span {
	return ast.Span{Start: start, End: p.prevEnd}
}

////////////////////////////////////////////////////////////////
// statements

func (p *Parser) parseProgram() *ast.Program {
	program := &ast.Program{}
	for p.err == nil {
		t := p.cur()
		if t.tt == js.ErrorToken {
			break
		}
		stmt := p.parseStmt()
		if stmt == nil {
			break
		}
		if _, ok := stmt.(*ast.ImportStmt); ok {
			program.Module = true
		} else if _, ok := stmt.(*ast.ExportStmt); ok {
			program.Module = true
		}
		program.List = append(program.List, stmt)
	}
	program.Span = ast.Span{Start: 0, End: p.prevEnd}
	return program
}

func (p *Parser) parseStmt() ast.IStmt {
	if p.err != nil {
		return nil
	}
	t := p.cur()
	start := t.start
	switch t.tt {
	case js.OpenBraceToken:
		return p.parseBlock()
	case js.SemicolonToken:
		p.advance()
		return &ast.EmptyStmt{Span: p.span(start)}
	case js.VarToken, js.ConstToken:
		decl := p.parseVarDecl(t.tt)
		p.semicolon()
		decl.Span = p.span(start)
		return decl
	case js.LetToken:
		// let is only a declaration when followed by a binding form
		next := p.peek(1)
		if p.isIdentifierRef(next.tt) || next.tt == js.OpenBracketToken || next.tt == js.OpenBraceToken {
			decl := p.parseVarDecl(t.tt)
			p.semicolon()
			decl.Span = p.span(start)
			return decl
		}
		return p.parseExprStmt()
	case js.FunctionToken:
		return p.parseFuncDecl(false)
	case js.AsyncToken:
		next := p.peek(1)
		if next.tt == js.FunctionToken && !next.prevLT {
			p.advance()
			fn := p.parseFuncDecl(true)
			fn.(*ast.FuncDecl).Span = p.span(start)
			return fn
		}
		return p.parseExprStmt()
	case js.ClassToken:
		return p.parseClassDecl()
	case js.IfToken:
		p.advance()
		p.expect(js.OpenParenToken, "if statement")
		cond := p.parseExpression()
		p.expect(js.CloseParenToken, "if statement")
		body := p.parseStmt()
		var elseStmt ast.IStmt
		if p.tt() == js.ElseToken {
			p.advance()
			elseStmt = p.parseStmt()
		}
		return &ast.IfStmt{Span: p.span(start), Cond: cond, Body: body, Else: elseStmt}
	case js.DoToken:
		p.advance()
		body := p.parseStmt()
		p.expect(js.WhileToken, "do-while statement")
		p.expect(js.OpenParenToken, "do-while statement")
		cond := p.parseExpression()
		p.expect(js.CloseParenToken, "do-while statement")
		if p.tt() == js.SemicolonToken {
			p.advance()
		}
		return &ast.DoWhileStmt{Span: p.span(start), Cond: cond, Body: body}
	case js.WhileToken:
		p.advance()
		p.expect(js.OpenParenToken, "while statement")
		cond := p.parseExpression()
		p.expect(js.CloseParenToken, "while statement")
		body := p.parseStmt()
		return &ast.WhileStmt{Span: p.span(start), Cond: cond, Body: body}
	case js.ForToken:
		return p.parseForStmt()
	case js.SwitchToken:
		return p.parseSwitchStmt()
	case js.BreakToken, js.ContinueToken:
		p.advance()
		branch := &ast.BranchStmt{Type: t.tt}
		if next := p.cur(); !next.prevLT && p.isIdentifierRef(next.tt) {
			branch.Label = next.data
			p.advance()
		}
		p.semicolon()
		branch.Span = p.span(start)
		return branch
	case js.ReturnToken:
		p.advance()
		stmt := &ast.ReturnStmt{}
		if next := p.cur(); !next.prevLT && next.tt != js.SemicolonToken && next.tt != js.CloseBraceToken && next.tt != js.ErrorToken {
			stmt.Value = p.parseExpression()
		}
		p.semicolon()
		stmt.Span = p.span(start)
		return stmt
	case js.ThrowToken:
		p.advance()
		if next := p.cur(); next.prevLT {
			p.fail("throw statement")
			return nil
		}
		value := p.parseExpression()
		p.semicolon()
		return &ast.ThrowStmt{Span: p.span(start), Value: value}
	case js.TryToken:
		return p.parseTryStmt()
	case js.WithToken:
		p.advance()
		p.expect(js.OpenParenToken, "with statement")
		cond := p.parseExpression()
		p.expect(js.CloseParenToken, "with statement")
		body := p.parseStmt()
		return &ast.WithStmt{Span: p.span(start), Cond: cond, Body: body}
	case js.DebuggerToken:
		p.advance()
		p.semicolon()
		return &ast.DebuggerStmt{Span: p.span(start)}
	case js.ImportToken:
		return p.parseImportStmt()
	case js.ExportToken:
		return p.parseExportStmt()
	case js.ErrorToken:
		p.fail("statement")
		return nil
	}
	if p.isIdentifierRef(t.tt) && p.peek(1).tt == js.ColonToken {
		p.advance()
		p.advance()
		value := p.parseStmt()
		return &ast.LabelledStmt{Span: p.span(start), Label: t.data, Value: value}
	}
	return p.parseExprStmt()
}

func (p *Parser) parseExprStmt() ast.IStmt {
	start := p.cur().start
	value := p.parseExpression()
	if p.err != nil {
		return nil
	}
	p.semicolon()
	return &ast.ExprStmt{Span: p.span(start), Value: value}
}

func (p *Parser) parseBlock() *ast.BlockStmt {
	start := p.cur().start
	p.expect(js.OpenBraceToken, "block statement")
	block := &ast.BlockStmt{}
	for p.err == nil && p.tt() != js.CloseBraceToken && p.tt() != js.ErrorToken {
		stmt := p.parseStmt()
		if stmt == nil {
			break
		}
		block.List = append(block.List, stmt)
	}
	p.expect(js.CloseBraceToken, "block statement")
	block.Span = p.span(start)
	return block
}

// parseVarDecl parses the binding list after var, let, or const. The caller
// consumes the terminator and sets the span.
func (p *Parser) parseVarDecl(tt js.TokenType) *ast.VarDecl {
	start := p.cur().start
	p.advance()
	decl := &ast.VarDecl{TokenType: tt}
	for p.err == nil {
		element := p.parseBindingElement()
		decl.List = append(decl.List, element)
		if p.tt() != js.CommaToken {
			break
		}
		p.advance()
	}
	decl.Span = p.span(start)
	return decl
}

func (p *Parser) parseBindingElement() ast.BindingElement {
	start := p.cur().start
	element := ast.BindingElement{Binding: p.parseBinding()}
	if p.tt() == js.EqToken {
		p.advance()
		element.Default = p.parseAssignExpr()
	}
	element.Span = p.span(start)
	return element
}

func (p *Parser) parseBinding() ast.IBinding {
	t := p.cur()
	start := t.start
	switch {
	case p.isIdentifierRef(t.tt):
		p.advance()
		return &ast.Ident{Span: p.span(start), Name: t.data}
	case t.tt == js.OpenBracketToken:
		p.advance()
		binding := &ast.BindingArray{}
		for p.err == nil && p.tt() != js.CloseBracketToken {
			if p.tt() == js.CommaToken {
				// elision
				binding.List = append(binding.List, ast.BindingElement{})
				p.advance()
				continue
			}
			if p.tt() == js.EllipsisToken {
				p.advance()
				binding.Rest = p.parseBinding()
				break
			}
			binding.List = append(binding.List, p.parseBindingElement())
			if p.tt() != js.CommaToken {
				break
			}
			p.advance()
		}
		p.expect(js.CloseBracketToken, "array binding pattern")
		binding.Span = p.span(start)
		return binding
	case t.tt == js.OpenBraceToken:
		p.advance()
		binding := &ast.BindingObject{}
		for p.err == nil && p.tt() != js.CloseBraceToken {
			if p.tt() == js.EllipsisToken {
				p.advance()
				rest := p.cur()
				if !p.isIdentifierRef(rest.tt) {
					p.fail("object binding pattern")
					return nil
				}
				p.advance()
				binding.Rest = &ast.Ident{Span: p.span(rest.start), Name: rest.data}
				break
			}
			item := p.parseBindingObjectItem()
			binding.List = append(binding.List, item)
			if p.tt() != js.CommaToken {
				break
			}
			p.advance()
		}
		p.expect(js.CloseBraceToken, "object binding pattern")
		binding.Span = p.span(start)
		return binding
	}
	p.fail("binding")
	return nil
}

func (p *Parser) parseBindingObjectItem() ast.BindingObjectItem {
	start := p.cur().start
	var item ast.BindingObjectItem
	name, computed, isIdent := p.parsePropertyKey("object binding pattern")
	if p.tt() == js.ColonToken {
		p.advance()
		key := &ast.PropertyName{Span: p.span(start), Computed: computed}
		if computed == nil {
			key.Literal = name
		}
		item.Key = key
		item.Value = p.parseBindingElement()
	} else {
		// shorthand; the key keeps its own literal so renaming the binding
		// cannot change the matched property
		if !isIdent {
			p.fail("object binding pattern")
			return item
		}
		item.Key = &ast.PropertyName{Span: name.Span, Literal: name}
		binding := &ast.Ident{Span: name.Span, Name: name.Data}
		element := ast.BindingElement{Span: name.Span, Binding: binding}
		if p.tt() == js.EqToken {
			p.advance()
			element.Default = p.parseAssignExpr()
			element.Span = p.span(start)
		}
		item.Value = element
	}
	item.Span = p.span(start)
	return item
}

// parsePropertyKey parses an object property key: an identifier name, string,
// number, or computed key. isIdent reports a bare identifier usable as a
// shorthand binding.
func (p *Parser) parsePropertyKey(in string) (*ast.LiteralExpr, ast.IExpr, bool) {
	t := p.cur()
	start := t.start
	if t.tt == js.OpenBracketToken {
		p.advance()
		computed := p.parseAssignExpr()
		p.expect(js.CloseBracketToken, in)
		return nil, computed, false
	}
	switch {
	case js.IsIdentifierName(t.tt) || t.tt == js.IdentifierToken:
		p.advance()
		return &ast.LiteralExpr{Span: p.span(start), TokenType: js.IdentifierToken, Data: t.data}, nil, p.isIdentifierRef(t.tt)
	case t.tt == js.StringToken || t.tt == js.DecimalToken || t.tt == js.IntegerToken ||
		t.tt == js.HexadecimalToken || t.tt == js.OctalToken || t.tt == js.BinaryToken:
		p.advance()
		return &ast.LiteralExpr{Span: p.span(start), TokenType: t.tt, Data: t.data}, nil, false
	}
	p.fail(in)
	return &ast.LiteralExpr{}, nil, false
}

func (p *Parser) parseFuncParams(in string) ast.Params {
	start := p.cur().start
	p.expect(js.OpenParenToken, in)
	params := ast.Params{}
	for p.err == nil && p.tt() != js.CloseParenToken {
		if p.tt() == js.EllipsisToken {
			p.advance()
			params.Rest = p.parseBinding()
			break
		}
		params.List = append(params.List, p.parseBindingElement())
		if p.tt() != js.CommaToken {
			break
		}
		p.advance()
	}
	p.expect(js.CloseParenToken, in)
	params.Span = p.span(start)
	return params
}

// parseFuncDecl parses a function declaration or expression; async has been
// consumed by the caller.
func (p *Parser) parseFuncDecl(async bool) ast.IStmt {
	start := p.cur().start
	p.expect(js.FunctionToken, "function declaration")
	fn := &ast.FuncDecl{Async: async}
	if p.tt() == js.MulToken {
		p.advance()
		fn.Generator = true
	}
	if t := p.cur(); p.isIdentifierRef(t.tt) {
		p.advance()
		fn.Name = &ast.Ident{Span: p.span(t.start), Name: t.data}
	}
	fn.Params = p.parseFuncParams("function declaration")
	p.parseFuncBody(fn)
	fn.Span = p.span(start)
	return fn
}

func (p *Parser) parseFuncBody(fn *ast.FuncDecl) {
	prevAsync, prevGenerator := p.async, p.generator
	p.async, p.generator = fn.Async, fn.Generator
	fn.Body = p.parseBlock()
	p.async, p.generator = prevAsync, prevGenerator
}

func (p *Parser) parseClassDecl() ast.IStmt {
	start := p.cur().start
	p.expect(js.ClassToken, "class declaration")
	cls := &ast.ClassDecl{}
	if t := p.cur(); p.isIdentifierRef(t.tt) {
		p.advance()
		cls.Name = &ast.Ident{Span: p.span(t.start), Name: t.data}
	}
	if p.tt() == js.ExtendsToken {
		p.advance()
		cls.Extends = p.parseExpr(ast.OpLHS)
	}
	p.expect(js.OpenBraceToken, "class declaration")
	for p.err == nil && p.tt() != js.CloseBraceToken && p.tt() != js.ErrorToken {
		if p.tt() == js.SemicolonToken {
			p.advance()
			continue
		}
		cls.List = append(cls.List, p.parseClassElement())
	}
	p.expect(js.CloseBraceToken, "class declaration")
	cls.Span = p.span(start)
	return cls
}

func (p *Parser) parseClassElement() ast.ClassElement {
	start := p.cur().start
	static := false
	if p.tt() == js.StaticToken && p.peek(1).tt != js.OpenParenToken && p.peek(1).tt != js.EqToken {
		p.advance()
		static = true
	}
	method := &ast.MethodDecl{Static: static}
	if p.tt() == js.AsyncToken && p.peek(1).tt != js.OpenParenToken && p.peek(1).tt != js.EqToken && !p.peek(1).prevLT {
		p.advance()
		method.Async = true
	}
	if p.tt() == js.MulToken {
		p.advance()
		method.Generator = true
	}
	if (p.tt() == js.GetToken || p.tt() == js.SetToken) && p.peek(1).tt != js.OpenParenToken && p.peek(1).tt != js.EqToken {
		if p.tt() == js.GetToken {
			method.Get = true
		} else {
			method.Set = true
		}
		p.advance()
	}
	name, computed, _ := p.parsePropertyKey("class declaration")
	propertyName := ast.PropertyName{Span: p.span(start), Literal: name, Computed: computed}
	if p.tt() == js.OpenParenToken {
		method.Name = propertyName
		method.Params = p.parseFuncParams("method definition")
		prevAsync, prevGenerator := p.async, p.generator
		p.async, p.generator = method.Async, method.Generator
		method.Body = p.parseBlock()
		p.async, p.generator = prevAsync, prevGenerator
		method.Span = p.span(start)
		return ast.ClassElement{Span: p.span(start), Method: method}
	}
	if method.Async || method.Generator || method.Get || method.Set {
		p.fail("class declaration")
		return ast.ClassElement{}
	}
	field := &ast.FieldDecl{Static: static, Name: propertyName}
	if p.tt() == js.EqToken {
		p.advance()
		field.Init = p.parseAssignExpr()
	}
	p.semicolon()
	field.Span = p.span(start)
	return ast.ClassElement{Span: p.span(start), Field: field}
}

func (p *Parser) parseForStmt() ast.IStmt {
	start := p.cur().start
	p.advance()
	p.expect(js.OpenParenToken, "for statement")

	var init ast.IExpr
	t := p.cur()
	switch {
	case t.tt == js.SemicolonToken:
		// no init
	case t.tt == js.VarToken || t.tt == js.ConstToken || t.tt == js.LetToken:
		p.noIn = true
		init = p.parseVarDecl(t.tt)
		p.noIn = false
	default:
		p.noIn = true
		init = p.parseExpression()
		p.noIn = false
	}

	switch p.tt() {
	case js.InToken:
		p.advance()
		value := p.parseExpression()
		p.expect(js.CloseParenToken, "for statement")
		body := p.parseStmt()
		return &ast.ForInStmt{Span: p.span(start), Init: init, Value: value, Body: body}
	case js.OfToken:
		p.advance()
		value := p.parseAssignExpr()
		p.expect(js.CloseParenToken, "for statement")
		body := p.parseStmt()
		return &ast.ForOfStmt{Span: p.span(start), Init: init, Value: value, Body: body}
	}

	stmt := &ast.ForStmt{Init: init}
	p.expect(js.SemicolonToken, "for statement")
	if p.tt() != js.SemicolonToken {
		stmt.Cond = p.parseExpression()
	}
	p.expect(js.SemicolonToken, "for statement")
	if p.tt() != js.CloseParenToken {
		stmt.Post = p.parseExpression()
	}
	p.expect(js.CloseParenToken, "for statement")
	stmt.Body = p.parseStmt()
	stmt.Span = p.span(start)
	return stmt
}

func (p *Parser) parseSwitchStmt() ast.IStmt {
	start := p.cur().start
	p.advance()
	p.expect(js.OpenParenToken, "switch statement")
	init := p.parseExpression()
	p.expect(js.CloseParenToken, "switch statement")
	p.expect(js.OpenBraceToken, "switch statement")
	stmt := &ast.SwitchStmt{Init: init}
	for p.err == nil && p.tt() != js.CloseBraceToken && p.tt() != js.ErrorToken {
		clauseStart := p.cur().start
		clause := ast.CaseClause{TokenType: p.tt()}
		switch p.tt() {
		case js.CaseToken:
			p.advance()
			clause.Cond = p.parseExpression()
		case js.DefaultToken:
			p.advance()
		default:
			p.fail("switch statement")
			return nil
		}
		p.expect(js.ColonToken, "switch statement")
		for p.err == nil && p.tt() != js.CaseToken && p.tt() != js.DefaultToken && p.tt() != js.CloseBraceToken && p.tt() != js.ErrorToken {
			clause.List = append(clause.List, p.parseStmt())
		}
		clause.Span = p.span(clauseStart)
		stmt.List = append(stmt.List, clause)
	}
	p.expect(js.CloseBraceToken, "switch statement")
	stmt.Span = p.span(start)
	return stmt
}

func (p *Parser) parseTryStmt() ast.IStmt {
	start := p.cur().start
	p.advance()
	stmt := &ast.TryStmt{Body: p.parseBlock()}
	if p.tt() == js.CatchToken {
		p.advance()
		if p.tt() == js.OpenParenToken {
			p.advance()
			stmt.Binding = p.parseBinding()
			p.expect(js.CloseParenToken, "try-catch statement")
		}
		stmt.Catch = p.parseBlock()
	}
	if p.tt() == js.FinallyToken {
		p.advance()
		stmt.Finally = p.parseBlock()
	}
	if stmt.Catch == nil && stmt.Finally == nil {
		p.fail("try statement")
		return nil
	}
	stmt.Span = p.span(start)
	return stmt
}

func (p *Parser) parseImportStmt() ast.IStmt {
	start := p.cur().start
	p.advance()
	stmt := &ast.ImportStmt{}
	if p.tt() == js.StringToken {
		stmt.Module = p.cur().data
		p.advance()
		p.semicolon()
		stmt.Span = p.span(start)
		return stmt
	}
	if t := p.cur(); p.isIdentifierRef(t.tt) {
		p.advance()
		stmt.Default = t.data
		if p.tt() == js.CommaToken {
			p.advance()
		} else if p.tt() != js.FromToken {
			p.fail("import statement")
			return nil
		}
	}
	switch p.tt() {
	case js.MulToken:
		aliasStart := p.cur().start
		p.advance()
		p.expect(js.AsToken, "import statement")
		t := p.cur()
		if !p.isIdentifierRef(t.tt) {
			p.fail("import statement")
			return nil
		}
		p.advance()
		stmt.List = append(stmt.List, ast.Alias{Span: p.span(aliasStart), Name: starBytes, Binding: t.data})
	case js.OpenBraceToken:
		stmt.List = p.parseAliasList("import statement")
	case js.FromToken:
		// default-only import
	default:
		p.fail("import statement")
		return nil
	}
	p.expect(js.FromToken, "import statement")
	if p.tt() != js.StringToken {
		p.fail("import statement")
		return nil
	}
	stmt.Module = p.cur().data
	p.advance()
	p.semicolon()
	stmt.Span = p.span(start)
	return stmt
}

func (p *Parser) parseAliasList(in string) []ast.Alias {
	p.expect(js.OpenBraceToken, in)
	var list []ast.Alias
	for p.err == nil && p.tt() != js.CloseBraceToken {
		t := p.cur()
		if !js.IsIdentifierName(t.tt) && t.tt != js.IdentifierToken && t.tt != js.StringToken {
			p.fail(in)
			return nil
		}
		p.advance()
		alias := ast.Alias{Binding: t.data}
		if p.tt() == js.AsToken {
			p.advance()
			binding := p.cur()
			if !js.IsIdentifierName(binding.tt) && binding.tt != js.IdentifierToken {
				p.fail(in)
				return nil
			}
			p.advance()
			alias.Name = t.data
			alias.Binding = binding.data
		}
		alias.Span = p.span(t.start)
		list = append(list, alias)
		if p.tt() != js.CommaToken {
			break
		}
		p.advance()
	}
	p.expect(js.CloseBraceToken, in)
	return list
}

func (p *Parser) parseExportStmt() ast.IStmt {
	start := p.cur().start
	p.advance()
	stmt := &ast.ExportStmt{}
	switch p.tt() {
	case js.MulToken:
		aliasStart := p.cur().start
		p.advance()
		alias := ast.Alias{Name: starBytes}
		if p.tt() == js.AsToken {
			p.advance()
			t := p.cur()
			if !js.IsIdentifierName(t.tt) && t.tt != js.IdentifierToken {
				p.fail("export statement")
				return nil
			}
			p.advance()
			alias.Binding = t.data
		}
		alias.Span = p.span(aliasStart)
		stmt.List = []ast.Alias{alias}
		p.expect(js.FromToken, "export statement")
		if p.tt() != js.StringToken {
			p.fail("export statement")
			return nil
		}
		stmt.Module = p.cur().data
		p.advance()
		p.semicolon()
	case js.OpenBraceToken:
		stmt.List = p.parseAliasList("export statement")
		if p.tt() == js.FromToken {
			p.advance()
			if p.tt() != js.StringToken {
				p.fail("export statement")
				return nil
			}
			stmt.Module = p.cur().data
			p.advance()
		}
		p.semicolon()
	case js.DefaultToken:
		p.advance()
		stmt.Default = true
		switch {
		case p.tt() == js.FunctionToken:
			stmt.Decl = p.parseFuncDecl(false)
		case p.tt() == js.AsyncToken && p.peek(1).tt == js.FunctionToken && !p.peek(1).prevLT:
			p.advance()
			stmt.Decl = p.parseFuncDecl(true)
		case p.tt() == js.ClassToken:
			stmt.Decl = p.parseClassDecl()
		default:
			stmt.Expr = p.parseAssignExpr()
			p.semicolon()
		}
	case js.VarToken, js.LetToken, js.ConstToken:
		decl := p.parseVarDecl(p.tt())
		p.semicolon()
		stmt.Decl = decl
	case js.FunctionToken:
		stmt.Decl = p.parseFuncDecl(false)
	case js.AsyncToken:
		if p.peek(1).tt != js.FunctionToken {
			p.fail("export statement")
			return nil
		}
		p.advance()
		stmt.Decl = p.parseFuncDecl(true)
	case js.ClassToken:
		stmt.Decl = p.parseClassDecl()
	default:
		p.fail("export statement")
		return nil
	}
	stmt.Span = p.span(start)
	return stmt
}

var starBytes = []byte("*")
