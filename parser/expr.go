package parser

import (
	"github.com/tdewolff/parse/v2/js"

	"github.com/tomisinteazer/rjscompiler/ast"
)

// parseExpression parses a full expression including the comma operator.
func (p *Parser) parseExpression() ast.IExpr {
	return p.parseExpr(ast.OpExpr)
}

// parseAssignExpr parses a single assignment expression, stopping at commas.
func (p *Parser) parseAssignExpr() ast.IExpr {
	return p.parseExpr(ast.OpAssign)
}

// parseEnclosedExpr parses an expression inside brackets or parentheses,
// where the in operator is always allowed.
func (p *Parser) parseEnclosedExpr() ast.IExpr {
	prevNoIn := p.noIn
	p.noIn = false
	x := p.parseExpression()
	p.noIn = prevNoIn
	return x
}

// parseExpr parses an expression by precedence climbing: a unary expression
// followed by binary operators of at least the given precedence.
func (p *Parser) parseExpr(prec ast.OpPrec) ast.IExpr {
	if p.err != nil {
		return nil
	}
	left := p.parseUnaryExpr()
	for p.err == nil {
		t := p.cur()
		if t.tt == js.QuestionToken {
			if ast.OpAssign < prec {
				break
			}
			p.advance()
			prevNoIn := p.noIn
			p.noIn = false
			cons := p.parseExpr(ast.OpAssign)
			p.noIn = prevNoIn
			p.expect(js.ColonToken, "conditional expression")
			alt := p.parseExpr(ast.OpAssign)
			left = &ast.CondExpr{Span: ast.Span{Start: left.Pos().Start, End: p.prevEnd}, Cond: left, X: cons, Y: alt}
			continue
		}
		if t.tt == js.InToken && p.noIn {
			break
		}
		opPrec, ok := ast.BinaryOpPrec(t.tt)
		if !ok || opPrec < prec {
			break
		}
		p.advance()
		rightPrec := opPrec + 1
		if opPrec == ast.OpAssign || t.tt == js.ExpToken {
			// right-associative
			rightPrec = opPrec
		}
		right := p.parseExpr(rightPrec)
		left = &ast.BinaryExpr{Span: ast.Span{Start: left.Pos().Start, End: p.prevEnd}, Op: t.tt, X: left, Y: right}
	}
	return left
}

func (p *Parser) parseUnaryExpr() ast.IExpr {
	if p.err != nil {
		return nil
	}
	t := p.cur()
	start := t.start
	switch t.tt {
	case js.NotToken, js.BitNotToken, js.TypeofToken, js.VoidToken, js.DeleteToken, js.AddToken, js.SubToken:
		p.advance()
		x := p.parseExpr(ast.OpUnary)
		return &ast.UnaryExpr{Span: p.span(start), Op: t.tt, X: x}
	case js.IncrToken, js.DecrToken:
		p.advance()
		op := js.PreIncrToken
		if t.tt == js.DecrToken {
			op = js.PreDecrToken
		}
		x := p.parseExpr(ast.OpUnary)
		return &ast.UnaryExpr{Span: p.span(start), Op: op, X: x}
	case js.AwaitToken:
		if p.async {
			p.advance()
			x := p.parseExpr(ast.OpUnary)
			return &ast.UnaryExpr{Span: p.span(start), Op: js.AwaitToken, X: x}
		}
	case js.YieldToken:
		if p.generator {
			p.advance()
			yield := &ast.YieldExpr{}
			if next := p.cur(); next.tt == js.MulToken && !next.prevLT {
				p.advance()
				yield.Delegate = true
			}
			if next := p.cur(); yield.Delegate || !next.prevLT && exprStarts(next.tt) {
				yield.X = p.parseExpr(ast.OpAssign)
			}
			yield.Span = p.span(start)
			return yield
		}
	}
	x := p.parseLHSExpr()
	if t := p.cur(); p.err == nil && (t.tt == js.IncrToken || t.tt == js.DecrToken) && !t.prevLT {
		op := js.PostIncrToken
		if t.tt == js.DecrToken {
			op = js.PostDecrToken
		}
		p.advance()
		return &ast.UnaryExpr{Span: p.span(start), Op: op, X: x}
	}
	return x
}

// exprStarts reports whether tt can begin an expression, used for the
// optional operands of yield and return-like productions.
func exprStarts(tt js.TokenType) bool {
	switch tt {
	case js.SemicolonToken, js.CloseParenToken, js.CloseBracketToken, js.CloseBraceToken,
		js.CommaToken, js.ColonToken, js.ErrorToken, js.TemplateMiddleToken, js.TemplateEndToken:
		return false
	}
	switch tt {
	case js.AddToken, js.SubToken, js.DivToken, js.DivEqToken:
		// prefix sign or the start of a regular expression
		return true
	}
	if prec, ok := ast.BinaryOpPrec(tt); ok && prec != ast.OpAssign {
		return false
	}
	return true
}

// parseLHSExpr parses a primary or new expression with its member and call
// suffixes.
func (p *Parser) parseLHSExpr() ast.IExpr {
	start := p.cur().start
	var x ast.IExpr
	if p.tt() == js.NewToken {
		x = p.parseNewExpr()
	} else {
		x = p.parsePrimaryExpr()
	}
	return p.parseCallSuffix(x, start, true)
}

func (p *Parser) parseNewExpr() ast.IExpr {
	start := p.cur().start
	p.advance()
	if p.tt() == js.DotToken {
		p.advance()
		if p.tt() != js.TargetToken {
			p.fail("new.target expression")
			return nil
		}
		p.advance()
		return &ast.NewTargetExpr{Span: p.span(start)}
	}
	var callee ast.IExpr
	if p.tt() == js.NewToken {
		callee = p.parseNewExpr()
	} else {
		callee = p.parseCallSuffix(p.parsePrimaryExpr(), start, false)
	}
	newExpr := &ast.NewExpr{X: callee}
	if p.tt() == js.OpenParenToken {
		args := p.parseArgs()
		newExpr.Args = &args
	}
	newExpr.Span = p.span(start)
	return newExpr
}

// parseCallSuffix parses trailing member accesses, calls, optional chains,
// and tagged templates. With allowCall false it parses the callee of a new
// expression, which excludes calls.
func (p *Parser) parseCallSuffix(x ast.IExpr, start int, allowCall bool) ast.IExpr {
	for p.err == nil {
		switch p.tt() {
		case js.DotToken:
			p.advance()
			name := p.cur()
			if !js.IsIdentifierName(name.tt) && name.tt != js.IdentifierToken {
				p.fail("dot expression")
				return nil
			}
			p.advance()
			x = &ast.DotExpr{Span: p.span(start), X: x, Y: ast.Ident{Span: ast.Span{Start: name.start, End: name.end()}, Name: name.data}}
		case js.OpenBracketToken:
			p.advance()
			index := p.parseEnclosedExpr()
			p.expect(js.CloseBracketToken, "index expression")
			x = &ast.IndexExpr{Span: p.span(start), X: x, Index: index}
		case js.OpenParenToken:
			if !allowCall {
				return x
			}
			args := p.parseArgs()
			x = &ast.CallExpr{Span: p.span(start), X: x, Args: args}
		case js.OptChainToken:
			if !allowCall {
				return x
			}
			p.advance()
			switch {
			case p.tt() == js.OpenParenToken:
				args := p.parseArgs()
				x = &ast.CallExpr{Span: p.span(start), X: x, Args: args, Optional: true}
			case p.tt() == js.OpenBracketToken:
				p.advance()
				index := p.parseEnclosedExpr()
				p.expect(js.CloseBracketToken, "optional chaining expression")
				x = &ast.IndexExpr{Span: p.span(start), X: x, Index: index, Optional: true}
			default:
				name := p.cur()
				if !js.IsIdentifierName(name.tt) && name.tt != js.IdentifierToken {
					p.fail("optional chaining expression")
					return nil
				}
				p.advance()
				x = &ast.DotExpr{Span: p.span(start), X: x, Y: ast.Ident{Span: ast.Span{Start: name.start, End: name.end()}, Name: name.data}, Optional: true}
			}
		case js.TemplateToken, js.TemplateStartToken:
			if !allowCall {
				return x
			}
			x = p.parseTemplate(x, start)
		default:
			return x
		}
	}
	return x
}

func (p *Parser) parseArgs() ast.Args {
	start := p.cur().start
	p.expect(js.OpenParenToken, "arguments")
	prevNoIn := p.noIn
	p.noIn = false
	args := ast.Args{}
	for p.err == nil && p.tt() != js.CloseParenToken {
		argStart := p.cur().start
		spread := false
		if p.tt() == js.EllipsisToken {
			p.advance()
			spread = true
		}
		value := p.parseAssignExpr()
		args.List = append(args.List, ast.Arg{Span: p.span(argStart), Value: value, Spread: spread})
		if p.tt() != js.CommaToken {
			break
		}
		p.advance()
	}
	p.noIn = prevNoIn
	p.expect(js.CloseParenToken, "arguments")
	args.Span = p.span(start)
	return args
}

func (p *Parser) parsePrimaryExpr() ast.IExpr {
	if p.err != nil {
		return nil
	}
	t := p.peekRelex(0)
	start := t.start
	switch t.tt {
	case js.ThisToken:
		p.advance()
		return &ast.ThisExpr{Span: p.span(start)}
	case js.SuperToken:
		p.advance()
		return &ast.SuperExpr{Span: p.span(start)}
	case js.StringToken, js.DecimalToken, js.IntegerToken, js.BinaryToken, js.OctalToken,
		js.HexadecimalToken, js.RegExpToken, js.TrueToken, js.FalseToken, js.NullToken:
		p.advance()
		return &ast.LiteralExpr{Span: p.span(start), TokenType: t.tt, Data: t.data}
	case js.TemplateToken, js.TemplateStartToken:
		return p.parseTemplate(nil, start)
	case js.OpenBracketToken:
		return p.parseArrayExpr()
	case js.OpenBraceToken:
		return p.parseObjectExpr()
	case js.OpenParenToken:
		if p.isArrowAhead(0) {
			params := p.parseFuncParams("arrow function")
			return p.parseArrowFunc(false, params, start)
		}
		p.advance()
		x := p.parseEnclosedExpr()
		p.expect(js.CloseParenToken, "parenthesized expression")
		return &ast.GroupExpr{Span: p.span(start), X: x}
	case js.FunctionToken:
		return p.parseFuncDecl(false).(*ast.FuncDecl)
	case js.ClassToken:
		return p.parseClassDecl().(*ast.ClassDecl)
	case js.AsyncToken:
		next := p.peek(1)
		switch {
		case next.tt == js.FunctionToken && !next.prevLT:
			p.advance()
			fn := p.parseFuncDecl(true).(*ast.FuncDecl)
			fn.Span = p.span(start)
			return fn
		case p.isIdentifierRef(next.tt) && !next.prevLT && p.peek(2).tt == js.ArrowToken && !p.peek(2).prevLT:
			p.advance()
			ident := p.cur()
			p.advance()
			return p.parseArrowFunc(true, singleParam(ident), start)
		case next.tt == js.OpenParenToken && !next.prevLT && p.isArrowAhead(1):
			p.advance()
			params := p.parseFuncParams("arrow function")
			return p.parseArrowFunc(true, params, start)
		}
		p.advance()
		return &ast.Ident{Span: p.span(start), Name: t.data}
	case js.ImportToken:
		// dynamic import() and import.meta continue as call or member
		if next := p.peek(1); next.tt == js.OpenParenToken || next.tt == js.DotToken {
			p.advance()
			return &ast.Ident{Span: p.span(start), Name: t.data}
		}
	}
	if p.isIdentifierRef(t.tt) {
		if next := p.peek(1); next.tt == js.ArrowToken && !next.prevLT {
			p.advance()
			return p.parseArrowFunc(false, singleParam(t), start)
		}
		p.advance()
		return &ast.Ident{Span: p.span(start), Name: t.data}
	}
	p.fail("expression")
	return nil
}

func singleParam(t token) ast.Params {
	span := ast.Span{Start: t.start, End: t.end()}
	binding := &ast.Ident{Span: span, Name: t.data}
	return ast.Params{Span: span, List: []ast.BindingElement{{Span: span, Binding: binding}}}
}

// isArrowAhead reports whether the parenthesized token run starting at
// lookahead offset from is followed by an arrow, distinguishing arrow
// function parameters from a parenthesized expression without consuming
// anything.
func (p *Parser) isArrowAhead(from int) bool {
	depth := 0
	for j := from; ; j++ {
		t := p.peekRelex(j)
		switch t.tt {
		case js.OpenParenToken, js.OpenBracketToken, js.OpenBraceToken:
			depth++
		case js.CloseParenToken, js.CloseBracketToken, js.CloseBraceToken:
			depth--
			if depth == 0 {
				next := p.peek(j + 1)
				return next.tt == js.ArrowToken && !next.prevLT
			}
		case js.ErrorToken:
			return false
		}
	}
}

func (p *Parser) parseArrowFunc(async bool, params ast.Params, start int) ast.IExpr {
	p.expect(js.ArrowToken, "arrow function")
	arrow := &ast.ArrowFunc{Async: async, Params: params}
	prevAsync, prevGenerator := p.async, p.generator
	p.async, p.generator = async, false
	if p.tt() == js.OpenBraceToken {
		arrow.Body = p.parseBlock()
	} else {
		arrow.ExprBody = p.parseExpr(ast.OpAssign)
	}
	p.async, p.generator = prevAsync, prevGenerator
	arrow.Span = p.span(start)
	return arrow
}

// parseTemplate parses a template literal; the lexer pairs every closing
// brace of a substitution with a middle or end token.
func (p *Parser) parseTemplate(tag ast.IExpr, start int) ast.IExpr {
	template := &ast.TemplateExpr{Tag: tag}
	t := p.cur()
	if t.tt == js.TemplateToken {
		p.advance()
		template.Tail = t.data
		template.Span = p.span(start)
		return template
	}
	p.advance()
	chunk := t.data
	chunkStart := t.start
	for p.err == nil {
		expr := p.parseEnclosedExpr()
		template.List = append(template.List, ast.TemplatePart{Span: p.span(chunkStart), Value: chunk, Expr: expr})
		next := p.cur()
		switch next.tt {
		case js.TemplateMiddleToken:
			p.advance()
			chunk = next.data
			chunkStart = next.start
		case js.TemplateEndToken:
			p.advance()
			template.Tail = next.data
			template.Span = p.span(start)
			return template
		default:
			p.fail("template literal")
			return nil
		}
	}
	return nil
}

func (p *Parser) parseArrayExpr() ast.IExpr {
	start := p.cur().start
	p.advance()
	array := &ast.ArrayExpr{}
	for p.err == nil && p.tt() != js.CloseBracketToken {
		if p.tt() == js.CommaToken {
			// elision
			array.List = append(array.List, ast.Element{Span: p.span(p.cur().start)})
			p.advance()
			continue
		}
		elementStart := p.cur().start
		spread := false
		if p.tt() == js.EllipsisToken {
			p.advance()
			spread = true
		}
		prevNoIn := p.noIn
		p.noIn = false
		value := p.parseAssignExpr()
		p.noIn = prevNoIn
		array.List = append(array.List, ast.Element{Span: p.span(elementStart), Value: value, Spread: spread})
		if p.tt() != js.CommaToken {
			break
		}
		p.advance()
	}
	p.expect(js.CloseBracketToken, "array literal")
	array.Span = p.span(start)
	return array
}

func (p *Parser) parseObjectExpr() ast.IExpr {
	start := p.cur().start
	p.advance()
	object := &ast.ObjectExpr{}
	prevNoIn := p.noIn
	p.noIn = false
	for p.err == nil && p.tt() != js.CloseBraceToken {
		object.List = append(object.List, p.parseObjectProperty())
		if p.tt() != js.CommaToken {
			break
		}
		p.advance()
	}
	p.noIn = prevNoIn
	p.expect(js.CloseBraceToken, "object literal")
	object.Span = p.span(start)
	return object
}

func (p *Parser) parseObjectProperty() ast.Property {
	start := p.cur().start
	if p.tt() == js.EllipsisToken {
		p.advance()
		value := p.parseAssignExpr()
		return ast.Property{Span: p.span(start), Spread: true, Value: value}
	}
	method := &ast.MethodDecl{}
	if p.tt() == js.AsyncToken && !isPropertyEnd(p.peek(1).tt) && !p.peek(1).prevLT {
		p.advance()
		method.Async = true
	}
	if p.tt() == js.MulToken {
		p.advance()
		method.Generator = true
	}
	if (p.tt() == js.GetToken || p.tt() == js.SetToken) && !isPropertyEnd(p.peek(1).tt) {
		if p.tt() == js.GetToken {
			method.Get = true
		} else {
			method.Set = true
		}
		p.advance()
	}
	keyStart := p.cur().start
	name, computed, isIdent := p.parsePropertyKey("object literal")
	propertyName := ast.PropertyName{Span: p.span(keyStart), Literal: name, Computed: computed}
	switch {
	case p.tt() == js.OpenParenToken:
		method.Name = propertyName
		method.Params = p.parseFuncParams("method definition")
		prevAsync, prevGenerator := p.async, p.generator
		p.async, p.generator = method.Async, method.Generator
		method.Body = p.parseBlock()
		p.async, p.generator = prevAsync, prevGenerator
		method.Span = p.span(start)
		return ast.Property{Span: p.span(start), Method: method}
	case method.Async || method.Generator || method.Get || method.Set:
		p.fail("object literal")
		return ast.Property{}
	case p.tt() == js.ColonToken:
		p.advance()
		value := p.parseAssignExpr()
		return ast.Property{Span: p.span(start), Name: &propertyName, Value: value}
	case isIdent:
		// shorthand property; the key keeps its own literal so renaming the
		// value reference cannot change the key
		value := &ast.Ident{Span: name.Span, Name: name.Data}
		var init ast.IExpr
		if p.tt() == js.EqToken {
			// cover grammar: a default is only meaningful once the object
			// turns out to be a destructuring target
			p.advance()
			init = p.parseAssignExpr()
		}
		return ast.Property{Span: p.span(start), Name: &propertyName, Value: value, Init: init}
	}
	p.fail("object literal")
	return ast.Property{}
}

// isPropertyEnd reports whether tt directly after a modifier word means the
// word itself was the property key.
func isPropertyEnd(tt js.TokenType) bool {
	switch tt {
	case js.OpenParenToken, js.ColonToken, js.CommaToken, js.CloseBraceToken, js.EqToken:
		return true
	}
	return false
}
