package generator

import (
	"bytes"

	"github.com/tdewolff/parse/v2/js"

	"github.com/tomisinteazer/rjscompiler/ast"
)

var opText = map[js.TokenType][]byte{
	js.EqToken:         []byte("="),
	js.MulEqToken:      []byte("*="),
	js.DivEqToken:      []byte("/="),
	js.ModEqToken:      []byte("%="),
	js.ExpEqToken:      []byte("**="),
	js.AddEqToken:      []byte("+="),
	js.SubEqToken:      []byte("-="),
	js.LtLtEqToken:     []byte("<<="),
	js.GtGtEqToken:     []byte(">>="),
	js.GtGtGtEqToken:   []byte(">>>="),
	js.BitAndEqToken:   []byte("&="),
	js.BitXorEqToken:   []byte("^="),
	js.BitOrEqToken:    []byte("|="),
	js.AndEqToken:      []byte("&&="),
	js.OrEqToken:       []byte("||="),
	js.NullishEqToken:  []byte("??="),
	js.ExpToken:        []byte("**"),
	js.MulToken:        []byte("*"),
	js.DivToken:        []byte("/"),
	js.ModToken:        []byte("%"),
	js.AddToken:        []byte("+"),
	js.SubToken:        []byte("-"),
	js.LtLtToken:       []byte("<<"),
	js.GtGtToken:       []byte(">>"),
	js.GtGtGtToken:     []byte(">>>"),
	js.LtToken:         []byte("<"),
	js.LtEqToken:       []byte("<="),
	js.GtToken:         []byte(">"),
	js.GtEqToken:       []byte(">="),
	js.InToken:         []byte("in"),
	js.InstanceofToken: []byte("instanceof"),
	js.EqEqToken:       []byte("=="),
	js.NotEqToken:      []byte("!="),
	js.EqEqEqToken:     []byte("==="),
	js.NotEqEqToken:    []byte("!=="),
	js.BitAndToken:     []byte("&"),
	js.BitXorToken:     []byte("^"),
	js.BitOrToken:      []byte("|"),
	js.AndToken:        []byte("&&"),
	js.OrToken:         []byte("||"),
	js.NullishToken:    []byte("??"),
	js.CommaToken:      []byte(","),
	js.NotToken:        []byte("!"),
	js.BitNotToken:     []byte("~"),
	js.TypeofToken:     []byte("typeof"),
	js.VoidToken:       []byte("void"),
	js.DeleteToken:     []byte("delete"),
	js.AwaitToken:      []byte("await"),
	js.PreIncrToken:    []byte("++"),
	js.PreDecrToken:    []byte("--"),
	js.PostIncrToken:   []byte("++"),
	js.PostDecrToken:   []byte("--"),
}

// unaryReq is the precedence required of a unary operand.
var unaryReq = map[js.TokenType]ast.OpPrec{
	js.PostIncrToken: ast.OpLHS,
	js.PostDecrToken: ast.OpLHS,
	js.PreIncrToken:  ast.OpUnary,
	js.PreDecrToken:  ast.OpUnary,
	js.NotToken:      ast.OpUnary,
	js.BitNotToken:   ast.OpUnary,
	js.TypeofToken:   ast.OpUnary,
	js.VoidToken:     ast.OpUnary,
	js.DeleteToken:   ast.OpUnary,
	js.AddToken:      ast.OpUnary,
	js.SubToken:      ast.OpUnary,
	js.AwaitToken:    ast.OpUnary,
}

// leftReq and rightReq are the precedences required of binary operands; they
// differ from the operator's own class for associativity and for operators
// that restrict their operand grammar.
var leftReq = map[js.TokenType]ast.OpPrec{
	js.EqToken:         ast.OpLHS,
	js.MulEqToken:      ast.OpLHS,
	js.DivEqToken:      ast.OpLHS,
	js.ModEqToken:      ast.OpLHS,
	js.ExpEqToken:      ast.OpLHS,
	js.AddEqToken:      ast.OpLHS,
	js.SubEqToken:      ast.OpLHS,
	js.LtLtEqToken:     ast.OpLHS,
	js.GtGtEqToken:     ast.OpLHS,
	js.GtGtGtEqToken:   ast.OpLHS,
	js.BitAndEqToken:   ast.OpLHS,
	js.BitXorEqToken:   ast.OpLHS,
	js.BitOrEqToken:    ast.OpLHS,
	js.AndEqToken:      ast.OpLHS,
	js.OrEqToken:       ast.OpLHS,
	js.NullishEqToken:  ast.OpLHS,
	js.ExpToken:        ast.OpUpdate, // unary operands need parentheses
	js.MulToken:        ast.OpMul,
	js.DivToken:        ast.OpMul,
	js.ModToken:        ast.OpMul,
	js.AddToken:        ast.OpAdd,
	js.SubToken:        ast.OpAdd,
	js.LtLtToken:       ast.OpShift,
	js.GtGtToken:       ast.OpShift,
	js.GtGtGtToken:     ast.OpShift,
	js.LtToken:         ast.OpCompare,
	js.LtEqToken:       ast.OpCompare,
	js.GtToken:         ast.OpCompare,
	js.GtEqToken:       ast.OpCompare,
	js.InToken:         ast.OpCompare,
	js.InstanceofToken: ast.OpCompare,
	js.EqEqToken:       ast.OpEquals,
	js.NotEqToken:      ast.OpEquals,
	js.EqEqEqToken:     ast.OpEquals,
	js.NotEqEqToken:    ast.OpEquals,
	js.BitAndToken:     ast.OpBitAnd,
	js.BitXorToken:     ast.OpBitXor,
	js.BitOrToken:      ast.OpBitOr,
	js.AndToken:        ast.OpAnd,
	js.OrToken:         ast.OpOr,
	js.NullishToken:    ast.OpBitOr, // ?? may not mix with && or || unparenthesized
	js.CommaToken:      ast.OpExpr,
}

var rightReq = map[js.TokenType]ast.OpPrec{
	js.EqToken:         ast.OpAssign,
	js.MulEqToken:      ast.OpAssign,
	js.DivEqToken:      ast.OpAssign,
	js.ModEqToken:      ast.OpAssign,
	js.ExpEqToken:      ast.OpAssign,
	js.AddEqToken:      ast.OpAssign,
	js.SubEqToken:      ast.OpAssign,
	js.LtLtEqToken:     ast.OpAssign,
	js.GtGtEqToken:     ast.OpAssign,
	js.GtGtGtEqToken:   ast.OpAssign,
	js.BitAndEqToken:   ast.OpAssign,
	js.BitXorEqToken:   ast.OpAssign,
	js.BitOrEqToken:    ast.OpAssign,
	js.AndEqToken:      ast.OpAssign,
	js.OrEqToken:       ast.OpAssign,
	js.NullishEqToken:  ast.OpAssign,
	js.ExpToken:        ast.OpExp,
	js.MulToken:        ast.OpExp,
	js.DivToken:        ast.OpExp,
	js.ModToken:        ast.OpExp,
	js.AddToken:        ast.OpMul,
	js.SubToken:        ast.OpMul,
	js.LtLtToken:       ast.OpAdd,
	js.GtGtToken:       ast.OpAdd,
	js.GtGtGtToken:     ast.OpAdd,
	js.LtToken:         ast.OpShift,
	js.LtEqToken:       ast.OpShift,
	js.GtToken:         ast.OpShift,
	js.GtEqToken:       ast.OpShift,
	js.InToken:         ast.OpShift,
	js.InstanceofToken: ast.OpShift,
	js.EqEqToken:       ast.OpCompare,
	js.NotEqToken:      ast.OpCompare,
	js.EqEqEqToken:     ast.OpCompare,
	js.NotEqEqToken:    ast.OpCompare,
	js.BitAndToken:     ast.OpCompare,
	js.BitXorToken:     ast.OpBitAnd,
	js.BitOrToken:      ast.OpBitXor,
	js.AndToken:        ast.OpAnd, // flips association but not execution order
	js.OrToken:         ast.OpOr,  // flips association but not execution order
	js.NullishToken:    ast.OpBitOr,
	js.CommaToken:      ast.OpAssign,
}

// expr prints an expression, parenthesizing it when its precedence is below
// what the context requires.
func (p *printer) expr(i ast.IExpr, prec ast.OpPrec) {
	if p.err != nil {
		return
	}
	if group, ok := i.(*ast.GroupExpr); ok {
		if endsOptionalChain(group.X) {
			// these parentheses end the chain; precedence alone would drop them
			p.writeByte('(')
			p.expr(group.X, ast.OpExpr)
			p.writeByte(')')
			return
		}
		p.expr(group.X, prec)
		return
	}
	if ast.Prec(i) < prec {
		p.writeByte('(')
		p.exprNode(i)
		p.writeByte(')')
		return
	}
	p.exprNode(i)
}

func (p *printer) exprNode(i ast.IExpr) {
	switch expr := i.(type) {
	case *ast.Ident:
		p.token(expr.Span, expr.Name, true)
	case *ast.LiteralExpr:
		p.literal(expr)
	case *ast.ThisExpr:
		p.writeString("this")
	case *ast.SuperExpr:
		p.writeString("super")
	case *ast.NewTargetExpr:
		p.writeString("new.target")
	case *ast.TemplateExpr:
		p.templateExpr(expr)
	case *ast.ArrayExpr:
		p.arrayExpr(expr)
	case *ast.ObjectExpr:
		p.objectExpr(expr)
	case *ast.ArrowFunc:
		p.arrowFunc(expr)
	case *ast.FuncDecl:
		p.funcDecl(expr)
	case *ast.ClassDecl:
		p.classDecl(expr)
	case *ast.UnaryExpr:
		p.unaryExpr(expr)
	case *ast.BinaryExpr:
		p.binaryExpr(expr)
	case *ast.CondExpr:
		p.expr(expr.Cond, ast.OpCoalesce)
		p.space()
		p.writeByte('?')
		p.space()
		p.expr(expr.X, ast.OpAssign)
		p.space()
		p.writeByte(':')
		p.space()
		p.expr(expr.Y, ast.OpAssign)
	case *ast.DotExpr:
		p.dotExpr(expr)
	case *ast.IndexExpr:
		p.indexExpr(expr)
	case *ast.CallExpr:
		p.lhsExpr(expr.X)
		if expr.Optional {
			p.writeString("?.")
		}
		p.args(expr.Args)
	case *ast.NewExpr:
		p.newExpr(expr)
	case *ast.YieldExpr:
		p.writeString("yield")
		if expr.Delegate {
			p.writeByte('*')
		}
		if expr.X != nil {
			p.expr(expr.X, ast.OpAssign)
		}
	case *ast.VarDecl:
		p.varDecl(expr)
	case *ast.GroupExpr:
		p.expr(expr.X, ast.OpExpr)
	default:
		p.fail("generate: unknown expression %T at offset %d", i, i.Pos().Start)
	}
}

// exprStmt prints an expression statement, wrapping expressions whose first
// token would be taken for a block, function, or class declaration.
func (p *printer) exprStmt(value ast.IExpr) {
	if openBraceLike(value) {
		p.writeByte('(')
		p.expr(value, ast.OpExpr)
		p.writeByte(')')
		return
	}
	p.expr(value, ast.OpExpr)
}

// openBraceLike reports whether the leftmost token of an expression starts a
// construct that is ambiguous at statement start.
func openBraceLike(i ast.IExpr) bool {
	switch expr := i.(type) {
	case *ast.ObjectExpr, *ast.FuncDecl, *ast.ClassDecl:
		return true
	case *ast.BinaryExpr:
		return openBraceLike(expr.X)
	case *ast.CondExpr:
		return openBraceLike(expr.Cond)
	case *ast.CallExpr:
		return openBraceLike(expr.X)
	case *ast.DotExpr:
		return openBraceLike(expr.X)
	case *ast.IndexExpr:
		return openBraceLike(expr.X)
	case *ast.TemplateExpr:
		if expr.Tag != nil {
			return openBraceLike(expr.Tag)
		}
	case *ast.UnaryExpr:
		switch expr.Op {
		case js.PostIncrToken, js.PostDecrToken:
			return openBraceLike(expr.X)
		}
	case *ast.GroupExpr:
		return openBraceLike(expr.X)
	}
	return false
}

func (p *printer) unaryExpr(expr *ast.UnaryExpr) {
	switch expr.Op {
	case js.PostIncrToken, js.PostDecrToken:
		p.expr(expr.X, unaryReq[expr.Op])
		p.write(opText[expr.Op])
	default:
		p.write(opText[expr.Op])
		p.expr(expr.X, unaryReq[expr.Op])
	}
}

func (p *printer) binaryExpr(expr *ast.BinaryExpr) {
	left, right := leftReq[expr.Op], rightReq[expr.Op]
	if expr.Op == js.NullishToken {
		// a??b??c associates left without parentheses
		if x, ok := expr.X.(*ast.BinaryExpr); ok && x.Op == js.NullishToken {
			left = ast.OpCoalesce
		}
	}
	p.expr(expr.X, left)
	if expr.Op == js.CommaToken {
		p.writeByte(',')
		p.space()
	} else {
		p.space()
		p.write(opText[expr.Op])
		p.space()
	}
	p.expr(expr.Y, right)
}

// lhsExpr prints the base of a member access or call. A new-expression
// without arguments would otherwise adopt the member or argument list, and
// a bare integer would swallow a following dot.
func (p *printer) lhsExpr(x ast.IExpr) {
	if n, ok := unwrapGroup(x).(*ast.NewExpr); ok && n.Args == nil {
		p.writeByte('(')
		p.exprNode(n)
		p.writeByte(')')
		return
	}
	p.expr(x, ast.OpLHS)
}

func unwrapGroup(i ast.IExpr) ast.IExpr {
	for {
		group, ok := i.(*ast.GroupExpr)
		if !ok {
			return i
		}
		i = group.X
	}
}

func (p *printer) dotExpr(expr *ast.DotExpr) {
	p.lhsExpr(expr.X)
	if expr.Optional {
		p.writeString("?.")
	} else {
		if bareInteger(expr.X) {
			p.push(spaceBytes)
		}
		p.writeByte('.')
	}
	p.token(expr.Y.Span, expr.Y.Name, false)
}

// bareInteger reports whether an expression prints as a digits-only literal,
// after which a dot would read as a decimal point.
func bareInteger(i ast.IExpr) bool {
	lit, ok := unwrapGroup(i).(*ast.LiteralExpr)
	if !ok || lit.TokenType != js.DecimalToken && lit.TokenType != js.IntegerToken {
		return false
	}
	for _, c := range minifyNumber(lit.Data) {
		if c < '0' || '9' < c {
			return false
		}
	}
	return true
}

func (p *printer) indexExpr(expr *ast.IndexExpr) {
	p.lhsExpr(expr.X)
	if lit, ok := expr.Index.(*ast.LiteralExpr); ok && lit.TokenType == js.StringToken {
		if name, ok := dottableName(lit.Data, p.es5); ok {
			if expr.Optional {
				p.writeString("?.")
			} else {
				if bareInteger(expr.X) {
					p.push(spaceBytes)
				}
				p.writeByte('.')
			}
			p.token(lit.Span, name, false)
			return
		}
	}
	if expr.Optional {
		p.writeString("?.")
	}
	p.writeByte('[')
	p.expr(expr.Index, ast.OpExpr)
	p.writeByte(']')
}

func (p *printer) newExpr(expr *ast.NewExpr) {
	p.writeString("new")
	if containsCall(expr.X) {
		p.writeByte('(')
		p.exprNode(expr.X)
		p.writeByte(')')
	} else {
		p.expr(expr.X, ast.OpMember)
	}
	if expr.Args != nil {
		p.args(*expr.Args)
	}
}

// endsOptionalChain reports whether an expression is an optional chain.
func endsOptionalChain(i ast.IExpr) bool {
	switch expr := i.(type) {
	case *ast.DotExpr:
		return expr.Optional || endsOptionalChain(expr.X)
	case *ast.IndexExpr:
		return expr.Optional || endsOptionalChain(expr.X)
	case *ast.CallExpr:
		return expr.Optional || endsOptionalChain(expr.X)
	}
	return false
}

// containsCall reports whether the member chain of a new-expression callee
// contains a call, which must be parenthesized to stay outside the new.
func containsCall(i ast.IExpr) bool {
	switch expr := i.(type) {
	case *ast.CallExpr:
		return true
	case *ast.DotExpr:
		return containsCall(expr.X)
	case *ast.IndexExpr:
		return containsCall(expr.X)
	case *ast.TemplateExpr:
		if expr.Tag != nil {
			return containsCall(expr.Tag)
		}
	case *ast.GroupExpr:
		return containsCall(expr.X)
	}
	return false
}

func (p *printer) args(args ast.Args) {
	p.writeByte('(')
	for i, arg := range args.List {
		if 0 < i {
			p.writeByte(',')
			p.space()
		}
		if arg.Spread {
			p.writeString("...")
		}
		p.expr(arg.Value, ast.OpAssign)
	}
	p.writeByte(')')
}

func (p *printer) templateExpr(expr *ast.TemplateExpr) {
	if expr.Tag != nil {
		p.expr(expr.Tag, ast.OpMember)
	}
	for _, part := range expr.List {
		p.write(part.Value)
		p.expr(part.Expr, ast.OpExpr)
	}
	p.write(expr.Tail)
}

func (p *printer) arrayExpr(expr *ast.ArrayExpr) {
	p.writeByte('[')
	for i, element := range expr.List {
		if 0 < i {
			p.writeByte(',')
			p.space()
		}
		if element.Spread {
			p.writeString("...")
		}
		if element.Value != nil {
			p.expr(element.Value, ast.OpAssign)
		}
	}
	if n := len(expr.List); 0 < n && expr.List[n-1].Value == nil && !expr.List[n-1].Spread {
		// a trailing elision needs its comma to count
		p.writeByte(',')
	}
	p.writeByte(']')
}

func (p *printer) objectExpr(expr *ast.ObjectExpr) {
	p.writeByte('{')
	for i := range expr.List {
		if 0 < i {
			p.writeByte(',')
			p.space()
		}
		p.property(expr.List[i])
	}
	p.writeByte('}')
}

func (p *printer) property(property ast.Property) {
	switch {
	case property.Spread:
		p.writeString("...")
		p.expr(property.Value, ast.OpAssign)
	case property.Method != nil:
		p.method(property.Method)
	default:
		if property.Name != nil && !shorthandProperty(property) {
			p.propertyName(*property.Name)
			p.writeByte(':')
			p.space()
		}
		p.expr(property.Value, ast.OpAssign)
		if property.Init != nil {
			p.writeByte('=')
			p.expr(property.Init, ast.OpAssign)
		}
	}
}

// shorthandProperty reports whether a property key still matches its
// identifier value, so that {x: x} collapses to {x}.
func shorthandProperty(property ast.Property) bool {
	if property.Name == nil || property.Name.Computed != nil || property.Name.Literal == nil {
		return false
	}
	if property.Name.Literal.TokenType != js.IdentifierToken {
		return false
	}
	ident, ok := property.Value.(*ast.Ident)
	if !ok {
		return false
	}
	return bytes.Equal(property.Name.Literal.Data, ident.Name)
}

func (p *printer) arrowFunc(arrow *ast.ArrowFunc) {
	if arrow.Async {
		p.writeString("async")
	}
	if name, ok := soleIdentParam(arrow.Params); ok && !arrow.Async {
		p.write(name)
	} else {
		p.params(arrow.Params)
	}
	p.space()
	p.writeString("=>")
	p.space()
	if arrow.Body != nil {
		p.blockStmt(arrow.Body)
		return
	}
	if openBraceLike(arrow.ExprBody) {
		p.writeByte('(')
		p.expr(arrow.ExprBody, ast.OpAssign)
		p.writeByte(')')
		return
	}
	p.expr(arrow.ExprBody, ast.OpAssign)
}

func soleIdentParam(params ast.Params) ([]byte, bool) {
	if len(params.List) != 1 || params.Rest != nil {
		return nil, false
	}
	element := params.List[0]
	if element.Default != nil {
		return nil, false
	}
	if ident, ok := element.Binding.(*ast.Ident); ok {
		return ident.Name, true
	}
	return nil, false
}
