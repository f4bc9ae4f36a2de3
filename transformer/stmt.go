package transformer

import (
	"github.com/tdewolff/parse/v2/js"

	"github.com/tomisinteazer/rjscompiler/analyzer"
	"github.com/tomisinteazer/rjscompiler/ast"
)

// Cleanup rewrites the program in place with size-reducing, behavior
// preserving transforms: it drops empty statements, flattens braced blocks
// that declare nothing lexical, unwraps redundant parentheses, and shortens
// true, false, and the undeclared undefined to !0, !1, and void 0.
func Cleanup(program *ast.Program, table *analyzer.Table) {
	c := &cleaner{undefined: map[*ast.Ident]bool{}}
	if sym := table.Root.Own("undefined"); sym != nil && sym.Implicit() {
		for _, ref := range sym.Refs {
			if ref.Access == analyzer.Read {
				c.undefined[ref.Ident] = true
			}
		}
	}
	program.List = c.stmtList(program.List)
}

type cleaner struct {
	undefined map[*ast.Ident]bool
}

func (c *cleaner) stmtList(list []ast.IStmt) []ast.IStmt {
	result := make([]ast.IStmt, 0, len(list))
	for _, item := range list {
		item = c.stmt(item)
		if item == nil {
			continue
		}
		if block, ok := item.(*ast.BlockStmt); ok && !hasLexicalDecl(block.List) {
			result = append(result, block.List...)
			continue
		}
		result = append(result, item)
	}
	return result
}

// hasLexicalDecl reports whether flattening the statement list into its
// parent would move a binding out of its scope.
func hasLexicalDecl(list []ast.IStmt) bool {
	for _, item := range list {
		switch stmt := item.(type) {
		case *ast.VarDecl:
			if stmt.TokenType != js.VarToken {
				return true
			}
		case *ast.FuncDecl, *ast.ClassDecl:
			return true
		}
	}
	return false
}

// body cleans a single-statement position, where dropping the statement
// entirely would leave the parent without a child. A braced body holding one
// statement and no lexical declaration loses its braces; the generator adds
// them back when an else would otherwise attach to an inner if.
func (c *cleaner) body(i ast.IStmt) ast.IStmt {
	s := c.stmt(i)
	if s == nil {
		return &ast.EmptyStmt{Span: i.Pos()}
	}
	if block, ok := s.(*ast.BlockStmt); ok && len(block.List) == 1 && !hasLexicalDecl(block.List) {
		return block.List[0]
	}
	return s
}

func (c *cleaner) stmt(i ast.IStmt) ast.IStmt {
	switch stmt := i.(type) {
	case *ast.EmptyStmt:
		return nil
	case *ast.DebuggerStmt, *ast.BranchStmt, *ast.ImportStmt:
		return i
	case *ast.BlockStmt:
		stmt.List = c.stmtList(stmt.List)
		if len(stmt.List) == 0 {
			return nil
		}
	case *ast.ExprStmt:
		stmt.Value = c.expr(stmt.Value)
	case *ast.IfStmt:
		stmt.Cond = c.expr(stmt.Cond)
		stmt.Body = c.body(stmt.Body)
		if stmt.Else != nil {
			stmt.Else = c.body(stmt.Else)
		}
	case *ast.DoWhileStmt:
		stmt.Body = c.body(stmt.Body)
		stmt.Cond = c.expr(stmt.Cond)
	case *ast.WhileStmt:
		stmt.Cond = c.expr(stmt.Cond)
		stmt.Body = c.body(stmt.Body)
	case *ast.ForStmt:
		if stmt.Init != nil {
			stmt.Init = c.expr(stmt.Init)
		}
		if stmt.Cond != nil {
			stmt.Cond = c.expr(stmt.Cond)
		}
		if stmt.Post != nil {
			stmt.Post = c.expr(stmt.Post)
		}
		stmt.Body = c.body(stmt.Body)
	case *ast.ForInStmt:
		stmt.Init = c.expr(stmt.Init)
		stmt.Value = c.expr(stmt.Value)
		stmt.Body = c.body(stmt.Body)
	case *ast.ForOfStmt:
		stmt.Init = c.expr(stmt.Init)
		stmt.Value = c.expr(stmt.Value)
		stmt.Body = c.body(stmt.Body)
	case *ast.SwitchStmt:
		stmt.Init = c.expr(stmt.Init)
		for j := range stmt.List {
			if stmt.List[j].Cond != nil {
				stmt.List[j].Cond = c.expr(stmt.List[j].Cond)
			}
			stmt.List[j].List = c.stmtList(stmt.List[j].List)
		}
	case *ast.ReturnStmt:
		if stmt.Value != nil {
			stmt.Value = c.expr(stmt.Value)
		}
	case *ast.LabelledStmt:
		stmt.Value = c.body(stmt.Value)
	case *ast.ThrowStmt:
		stmt.Value = c.expr(stmt.Value)
	case *ast.TryStmt:
		stmt.Body.List = c.stmtList(stmt.Body.List)
		if stmt.Catch != nil {
			stmt.Catch.List = c.stmtList(stmt.Catch.List)
		}
		if stmt.Finally != nil {
			stmt.Finally.List = c.stmtList(stmt.Finally.List)
		}
	case *ast.WithStmt:
		stmt.Cond = c.expr(stmt.Cond)
		stmt.Body = c.body(stmt.Body)
	case *ast.ExportStmt:
		if stmt.Decl != nil {
			stmt.Decl = c.stmt(stmt.Decl)
		}
		if stmt.Expr != nil {
			stmt.Expr = c.expr(stmt.Expr)
		}
	case *ast.VarDecl:
		c.varDecl(stmt)
	case *ast.FuncDecl:
		c.funcDecl(stmt)
	case *ast.ClassDecl:
		c.classDecl(stmt)
	}
	return i
}

func (c *cleaner) varDecl(decl *ast.VarDecl) {
	for j := range decl.List {
		c.bindingElement(&decl.List[j])
	}
}

func (c *cleaner) bindingElement(element *ast.BindingElement) {
	if element.Binding != nil {
		c.binding(element.Binding)
	}
	if element.Default != nil {
		element.Default = c.expr(element.Default)
	}
}

func (c *cleaner) binding(i ast.IBinding) {
	switch binding := i.(type) {
	case *ast.BindingArray:
		for j := range binding.List {
			c.bindingElement(&binding.List[j])
		}
		if binding.Rest != nil {
			c.binding(binding.Rest)
		}
	case *ast.BindingObject:
		for j := range binding.List {
			item := &binding.List[j]
			if item.Key != nil && item.Key.Computed != nil {
				item.Key.Computed = c.expr(item.Key.Computed)
			}
			c.bindingElement(&item.Value)
		}
	}
}

func (c *cleaner) params(params *ast.Params) {
	for j := range params.List {
		c.bindingElement(&params.List[j])
	}
	if params.Rest != nil {
		c.binding(params.Rest)
	}
}

func (c *cleaner) funcDecl(fn *ast.FuncDecl) {
	c.params(&fn.Params)
	fn.Body.List = c.stmtList(fn.Body.List)
}

func (c *cleaner) classDecl(cls *ast.ClassDecl) {
	if cls.Extends != nil {
		cls.Extends = c.expr(cls.Extends)
	}
	for j := range cls.List {
		element := &cls.List[j]
		if element.Method != nil {
			c.method(element.Method)
		}
		if element.Field != nil {
			if element.Field.Name.Computed != nil {
				element.Field.Name.Computed = c.expr(element.Field.Name.Computed)
			}
			if element.Field.Init != nil {
				element.Field.Init = c.expr(element.Field.Init)
			}
		}
	}
}

func (c *cleaner) method(m *ast.MethodDecl) {
	if m.Name.Computed != nil {
		m.Name.Computed = c.expr(m.Name.Computed)
	}
	c.params(&m.Params)
	m.Body.List = c.stmtList(m.Body.List)
}

func (c *cleaner) expr(i ast.IExpr) ast.IExpr {
	switch expr := i.(type) {
	case *ast.Ident:
		if c.undefined[expr] {
			return &ast.UnaryExpr{Span: expr.Span, Op: js.VoidToken, X: &ast.LiteralExpr{Span: expr.Span, TokenType: js.DecimalToken, Data: zeroBytes}}
		}
	case *ast.LiteralExpr:
		switch expr.TokenType {
		case js.TrueToken:
			return &ast.UnaryExpr{Span: expr.Span, Op: js.NotToken, X: &ast.LiteralExpr{Span: expr.Span, TokenType: js.DecimalToken, Data: zeroBytes}}
		case js.FalseToken:
			return &ast.UnaryExpr{Span: expr.Span, Op: js.NotToken, X: &ast.LiteralExpr{Span: expr.Span, TokenType: js.DecimalToken, Data: oneBytes}}
		}
	case *ast.TemplateExpr:
		if expr.Tag != nil {
			expr.Tag = c.expr(expr.Tag)
		}
		for j := range expr.List {
			expr.List[j].Expr = c.expr(expr.List[j].Expr)
		}
	case *ast.ArrayExpr:
		for j := range expr.List {
			if expr.List[j].Value != nil {
				expr.List[j].Value = c.expr(expr.List[j].Value)
			}
		}
	case *ast.ObjectExpr:
		for j := range expr.List {
			property := &expr.List[j]
			if property.Method != nil {
				c.method(property.Method)
				continue
			}
			if property.Name != nil && property.Name.Computed != nil {
				property.Name.Computed = c.expr(property.Name.Computed)
			}
			if property.Value != nil {
				property.Value = c.expr(property.Value)
			}
			if property.Init != nil {
				property.Init = c.expr(property.Init)
			}
		}
	case *ast.ArrowFunc:
		c.params(&expr.Params)
		if expr.Body != nil {
			expr.Body.List = c.stmtList(expr.Body.List)
		} else {
			expr.ExprBody = c.expr(expr.ExprBody)
		}
	case *ast.FuncDecl:
		c.funcDecl(expr)
	case *ast.ClassDecl:
		c.classDecl(expr)
	case *ast.UnaryExpr:
		expr.X = c.expr(expr.X)
	case *ast.BinaryExpr:
		expr.X = c.expr(expr.X)
		expr.Y = c.expr(expr.Y)
	case *ast.CondExpr:
		expr.Cond = c.expr(expr.Cond)
		expr.X = c.expr(expr.X)
		expr.Y = c.expr(expr.Y)
	case *ast.DotExpr:
		expr.X = c.expr(expr.X)
	case *ast.IndexExpr:
		expr.X = c.expr(expr.X)
		expr.Index = c.expr(expr.Index)
	case *ast.CallExpr:
		expr.X = c.expr(expr.X)
		c.args(&expr.Args)
	case *ast.NewExpr:
		expr.X = c.expr(expr.X)
		if expr.Args != nil {
			c.args(expr.Args)
		}
	case *ast.GroupExpr:
		if endsOptionalChain(expr.X) {
			// (a?.b).c does not short-circuit like a?.b.c
			expr.X = c.expr(expr.X)
			return expr
		}
		// the generator re-adds parentheses only where precedence demands
		return c.expr(expr.X)
	case *ast.YieldExpr:
		if expr.X != nil {
			expr.X = c.expr(expr.X)
		}
	case *ast.VarDecl:
		c.varDecl(expr)
	}
	return i
}

func (c *cleaner) args(args *ast.Args) {
	for j := range args.List {
		args.List[j].Value = c.expr(args.List[j].Value)
	}
}

// endsOptionalChain reports whether an expression is an optional chain, whose
// parentheses cut off short-circuiting for any enclosing member access.
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

var zeroBytes = []byte("0")
var oneBytes = []byte("1")
