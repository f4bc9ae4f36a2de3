package analyzer

import (
	"github.com/tdewolff/parse/v2/js"

	"github.com/tomisinteazer/rjscompiler/ast"
)

// Options control which renaming vetoes the analyzer applies.
type Options struct {
	// RenameExports allows renaming exported declarations. Names listed in
	// export clauses keep their names regardless.
	RenameExports bool
	// KeepVarNames disables renaming altogether while still building the
	// scope tree.
	KeepVarNames bool
}

// globalObjects are the names through which code reaches globals with a
// computed string key, defeating renaming of the accessed global.
var globalObjects = map[string]bool{
	"window":     true,
	"globalThis": true,
	"self":       true,
	"global":     true,
}

type analyzer struct {
	opts  Options
	table *Table
	scope *Scope
}

// Analyze builds the scope tree and symbol table for a program and computes
// the renaming veto of every symbol.
func Analyze(program *ast.Program, opts Options) *Table {
	a := &analyzer{
		opts:  opts,
		table: &Table{indirect: map[string]bool{}},
	}
	a.table.Root = a.table.addScope(nil, GlobalScope, program)
	a.scope = a.table.Root
	a.hoistVars(program.List)
	a.hoistLexical(program.List)
	for _, stmt := range program.List {
		a.stmt(stmt)
	}
	a.finalize()
	return a.table
}

func (a *analyzer) push(typ ScopeType, node ast.INode) *Scope {
	scope := a.table.addScope(a.scope, typ, node)
	a.scope = scope
	return scope
}

func (a *analyzer) pop() {
	a.scope = a.scope.Parent
}

func (a *analyzer) markUnsafe(reason UnsafeReason) {
	for s := a.scope; s != nil; s = s.Parent {
		s.Unsafe = true
		s.Reasons |= reason
	}
}

////////////////////////////////////////////////////////////////
// declaration hoisting

// hoistVars declares every var and function-statement binding reachable from
// the statement list without crossing a function boundary.
func (a *analyzer) hoistVars(list []ast.IStmt) {
	for _, stmt := range list {
		a.hoistVarsStmt(stmt)
	}
}

func (a *analyzer) hoistVarsStmt(i ast.IStmt) {
	switch stmt := i.(type) {
	case *ast.VarDecl:
		if stmt.TokenType == js.VarToken {
			a.declareVarDecl(stmt, a.scope.HoistTarget())
		}
	case *ast.BlockStmt:
		a.hoistVars(stmt.List)
	case *ast.IfStmt:
		a.hoistVarsStmt(stmt.Body)
		if stmt.Else != nil {
			a.hoistVarsStmt(stmt.Else)
		}
	case *ast.DoWhileStmt:
		a.hoistVarsStmt(stmt.Body)
	case *ast.WhileStmt:
		a.hoistVarsStmt(stmt.Body)
	case *ast.ForStmt:
		if decl, ok := stmt.Init.(*ast.VarDecl); ok && decl.TokenType == js.VarToken {
			a.declareVarDecl(decl, a.scope.HoistTarget())
		}
		a.hoistVarsStmt(stmt.Body)
	case *ast.ForInStmt:
		if decl, ok := stmt.Init.(*ast.VarDecl); ok && decl.TokenType == js.VarToken {
			a.declareVarDecl(decl, a.scope.HoistTarget())
		}
		a.hoistVarsStmt(stmt.Body)
	case *ast.ForOfStmt:
		if decl, ok := stmt.Init.(*ast.VarDecl); ok && decl.TokenType == js.VarToken {
			a.declareVarDecl(decl, a.scope.HoistTarget())
		}
		a.hoistVarsStmt(stmt.Body)
	case *ast.SwitchStmt:
		for _, clause := range stmt.List {
			a.hoistVars(clause.List)
		}
	case *ast.TryStmt:
		a.hoistVars(stmt.Body.List)
		if stmt.Catch != nil {
			a.hoistVars(stmt.Catch.List)
		}
		if stmt.Finally != nil {
			a.hoistVars(stmt.Finally.List)
		}
	case *ast.WithStmt:
		a.hoistVarsStmt(stmt.Body)
	case *ast.LabelledStmt:
		a.hoistVarsStmt(stmt.Value)
	case *ast.ExportStmt:
		if stmt.Decl != nil {
			a.hoistVarsStmt(stmt.Decl)
		}
	}
}

// hoistLexical declares the let, const, class, and function bindings of a
// single statement list into the current scope.
func (a *analyzer) hoistLexical(list []ast.IStmt) {
	for _, item := range list {
		switch stmt := item.(type) {
		case *ast.VarDecl:
			if stmt.TokenType != js.VarToken {
				a.declareVarDecl(stmt, a.scope)
			}
		case *ast.FuncDecl:
			if stmt.Name != nil {
				a.table.declare(a.scope, string(stmt.Name.Name), KindFunction, stmt.Name)
			}
		case *ast.ClassDecl:
			if stmt.Name != nil {
				a.table.declare(a.scope, string(stmt.Name.Name), KindClass, stmt.Name)
			}
		case *ast.ImportStmt:
			a.declareImport(stmt)
		case *ast.ExportStmt:
			if stmt.Decl != nil {
				a.hoistLexical([]ast.IStmt{stmt.Decl})
			}
		case *ast.LabelledStmt:
			if fn, ok := stmt.Value.(*ast.FuncDecl); ok && fn.Name != nil {
				a.table.declare(a.scope, string(fn.Name.Name), KindFunction, fn.Name)
			}
		}
	}
}

func (a *analyzer) declareVarDecl(decl *ast.VarDecl, target *Scope) {
	kind := KindVariable
	switch decl.TokenType {
	case js.LetToken:
		kind = KindLexical
	case js.ConstToken:
		kind = KindConst
	}
	for i := range decl.List {
		a.declareBinding(decl.List[i].Binding, kind, target)
	}
}

func (a *analyzer) declareBinding(i ast.IBinding, kind SymbolKind, target *Scope) {
	switch binding := i.(type) {
	case *ast.Ident:
		a.table.declare(target, string(binding.Name), kind, binding)
	case *ast.BindingArray:
		for j := range binding.List {
			if binding.List[j].Binding != nil {
				a.declareBinding(binding.List[j].Binding, kind, target)
			}
		}
		if binding.Rest != nil {
			a.declareBinding(binding.Rest, kind, target)
		}
	case *ast.BindingObject:
		for j := range binding.List {
			a.declareBinding(binding.List[j].Value.Binding, kind, target)
		}
		if binding.Rest != nil {
			a.declareBinding(binding.Rest, kind, target)
		}
	}
}

func (a *analyzer) declareImport(stmt *ast.ImportStmt) {
	if stmt.Default != nil {
		a.table.declare(a.scope, string(stmt.Default), KindImport, nil)
	}
	for _, alias := range stmt.List {
		a.table.declare(a.scope, string(alias.Binding), KindImport, nil)
	}
}

////////////////////////////////////////////////////////////////
// statement resolution

func (a *analyzer) stmt(i ast.IStmt) {
	switch stmt := i.(type) {
	case *ast.BlockStmt:
		a.push(BlockScope, stmt)
		a.hoistLexical(stmt.List)
		for _, item := range stmt.List {
			a.stmt(item)
		}
		a.pop()
	case *ast.EmptyStmt, *ast.DebuggerStmt, *ast.BranchStmt:
		// nothing to resolve
	case *ast.ExprStmt:
		a.expr(stmt.Value, Read)
	case *ast.IfStmt:
		a.expr(stmt.Cond, Read)
		a.stmt(stmt.Body)
		if stmt.Else != nil {
			a.stmt(stmt.Else)
		}
	case *ast.DoWhileStmt:
		a.stmt(stmt.Body)
		a.expr(stmt.Cond, Read)
	case *ast.WhileStmt:
		a.expr(stmt.Cond, Read)
		a.stmt(stmt.Body)
	case *ast.ForStmt:
		a.forStmt(stmt)
	case *ast.ForInStmt:
		a.forInOf(stmt.Init, stmt.Value, stmt.Body)
	case *ast.ForOfStmt:
		a.forInOf(stmt.Init, stmt.Value, stmt.Body)
	case *ast.SwitchStmt:
		a.expr(stmt.Init, Read)
		a.push(BlockScope, stmt)
		for _, clause := range stmt.List {
			a.hoistLexical(clause.List)
		}
		for _, clause := range stmt.List {
			if clause.Cond != nil {
				a.expr(clause.Cond, Read)
			}
			for _, item := range clause.List {
				a.stmt(item)
			}
		}
		a.pop()
	case *ast.ReturnStmt:
		if stmt.Value != nil {
			a.expr(stmt.Value, Read)
		}
	case *ast.LabelledStmt:
		a.stmt(stmt.Value)
	case *ast.ThrowStmt:
		a.expr(stmt.Value, Read)
	case *ast.TryStmt:
		a.stmt(stmt.Body)
		if stmt.Catch != nil {
			a.push(CatchScope, stmt)
			if stmt.Binding != nil {
				a.declareBinding(stmt.Binding, KindCatchParam, a.scope)
				a.resolveBindingDefaults(stmt.Binding)
			}
			a.hoistLexical(stmt.Catch.List)
			for _, item := range stmt.Catch.List {
				a.stmt(item)
			}
			a.pop()
		}
		if stmt.Finally != nil {
			a.stmt(stmt.Finally)
		}
	case *ast.WithStmt:
		a.expr(stmt.Cond, Read)
		a.markUnsafe(ReasonWith)
		scope := a.push(WithScope, stmt)
		scope.withTainted = true
		a.stmt(stmt.Body)
		a.pop()
	case *ast.ImportStmt:
		// bindings declared during hoisting
	case *ast.ExportStmt:
		a.exportStmt(stmt)
	case *ast.VarDecl:
		a.varDecl(stmt)
	case *ast.FuncDecl:
		a.enterFunc(stmt, false)
	case *ast.ClassDecl:
		a.classDecl(stmt, false)
	}
}

func (a *analyzer) varDecl(decl *ast.VarDecl) {
	for i := range decl.List {
		element := &decl.List[i]
		a.resolveBindingDefaults(element.Binding)
		if element.Default != nil {
			a.expr(element.Default, Read)
		}
	}
}

// resolveBindingDefaults resolves the computed keys and default values inside
// a binding pattern; the bound names themselves were declared during hoisting.
func (a *analyzer) resolveBindingDefaults(i ast.IBinding) {
	switch binding := i.(type) {
	case *ast.BindingArray:
		for j := range binding.List {
			if binding.List[j].Binding != nil {
				a.resolveBindingDefaults(binding.List[j].Binding)
			}
			if binding.List[j].Default != nil {
				a.expr(binding.List[j].Default, Read)
			}
		}
		if binding.Rest != nil {
			a.resolveBindingDefaults(binding.Rest)
		}
	case *ast.BindingObject:
		for j := range binding.List {
			item := &binding.List[j]
			if item.Key != nil && item.Key.Computed != nil {
				a.expr(item.Key.Computed, Read)
			}
			if item.Value.Binding != nil {
				a.resolveBindingDefaults(item.Value.Binding)
			}
			if item.Value.Default != nil {
				a.expr(item.Value.Default, Read)
			}
		}
	}
}

func (a *analyzer) forStmt(stmt *ast.ForStmt) {
	decl, lexical := stmt.Init.(*ast.VarDecl)
	lexical = lexical && decl.TokenType != js.VarToken
	if lexical {
		a.push(BlockScope, stmt)
		a.declareVarDecl(decl, a.scope)
	}
	if stmt.Init != nil {
		if d, ok := stmt.Init.(*ast.VarDecl); ok {
			a.varDecl(d)
		} else {
			a.expr(stmt.Init, Read)
		}
	}
	if stmt.Cond != nil {
		a.expr(stmt.Cond, Read)
	}
	if stmt.Post != nil {
		a.expr(stmt.Post, Read)
	}
	a.stmt(stmt.Body)
	if lexical {
		a.pop()
	}
}

func (a *analyzer) forInOf(init, value ast.IExpr, body ast.IStmt) {
	a.expr(value, Read)
	decl, isDecl := init.(*ast.VarDecl)
	lexical := isDecl && decl.TokenType != js.VarToken
	if lexical {
		a.push(BlockScope, body)
		a.declareVarDecl(decl, a.scope)
	}
	if isDecl {
		a.varDecl(decl)
	} else {
		a.assignTarget(init)
	}
	a.stmt(body)
	if lexical {
		a.pop()
	}
}

func (a *analyzer) exportStmt(stmt *ast.ExportStmt) {
	if stmt.Decl != nil {
		a.stmt(stmt.Decl)
		a.markExportedDecl(stmt.Decl)
		return
	}
	if stmt.Expr != nil {
		a.expr(stmt.Expr, Read)
		return
	}
	if stmt.Module != nil {
		// re-export, no local bindings involved
		return
	}
	for _, alias := range stmt.List {
		local := alias.Name
		if local == nil {
			local = alias.Binding
		}
		if sym := a.scope.Lookup(string(local)); sym != nil {
			sym.Exported = true
			sym.Listed = true
		}
	}
}

func (a *analyzer) markExportedDecl(i ast.IStmt) {
	switch decl := i.(type) {
	case *ast.FuncDecl:
		if decl.Name != nil {
			a.markExportedName(decl.Name.Name)
		}
	case *ast.ClassDecl:
		if decl.Name != nil {
			a.markExportedName(decl.Name.Name)
		}
	case *ast.VarDecl:
		for i := range decl.List {
			a.markExportedBinding(decl.List[i].Binding)
		}
	}
}

func (a *analyzer) markExportedBinding(i ast.IBinding) {
	switch binding := i.(type) {
	case *ast.Ident:
		a.markExportedName(binding.Name)
	case *ast.BindingArray:
		for j := range binding.List {
			if binding.List[j].Binding != nil {
				a.markExportedBinding(binding.List[j].Binding)
			}
		}
		if binding.Rest != nil {
			a.markExportedBinding(binding.Rest)
		}
	case *ast.BindingObject:
		for j := range binding.List {
			a.markExportedBinding(binding.List[j].Value.Binding)
		}
		if binding.Rest != nil {
			a.markExportedName(binding.Rest.Name)
		}
	}
}

func (a *analyzer) markExportedName(name []byte) {
	if sym := a.scope.Lookup(string(name)); sym != nil {
		sym.Exported = true
	}
}

////////////////////////////////////////////////////////////////
// functions and classes

// enterFunc resolves a function body in a fresh function scope. Expression
// functions bind their own name inside that scope.
func (a *analyzer) enterFunc(fn *ast.FuncDecl, isExpr bool) {
	a.push(FunctionScope, fn)
	if isExpr && fn.Name != nil {
		a.table.declare(a.scope, string(fn.Name.Name), KindFunction, fn.Name)
	}
	a.params(fn.Params)
	a.funcBody(fn.Body)
	a.pop()
}

func (a *analyzer) params(params ast.Params) {
	for i := range params.List {
		if params.List[i].Binding != nil {
			a.declareBinding(params.List[i].Binding, KindParameter, a.scope)
		}
	}
	if params.Rest != nil {
		a.declareBinding(params.Rest, KindParameter, a.scope)
	}
	for i := range params.List {
		if params.List[i].Binding != nil {
			a.resolveBindingDefaults(params.List[i].Binding)
		}
		if params.List[i].Default != nil {
			a.expr(params.List[i].Default, Read)
		}
	}
	if params.Rest != nil {
		a.resolveBindingDefaults(params.Rest)
	}
}

func (a *analyzer) funcBody(body *ast.BlockStmt) {
	a.hoistVars(body.List)
	a.hoistLexical(body.List)
	for _, item := range body.List {
		a.stmt(item)
	}
}

func (a *analyzer) arrowFunc(arrow *ast.ArrowFunc) {
	scope := a.push(FunctionScope, arrow)
	scope.Arrow = true
	a.params(arrow.Params)
	if arrow.Body != nil {
		a.funcBody(arrow.Body)
	} else {
		a.expr(arrow.ExprBody, Read)
	}
	a.pop()
}

func (a *analyzer) classDecl(cls *ast.ClassDecl, isExpr bool) {
	if cls.Extends != nil {
		a.expr(cls.Extends, Read)
	}
	a.push(ClassScope, cls)
	if isExpr && cls.Name != nil {
		a.table.declare(a.scope, string(cls.Name.Name), KindClass, cls.Name)
	}
	for _, element := range cls.List {
		if element.Method != nil {
			a.method(element.Method)
		}
		if element.Field != nil {
			if element.Field.Name.Computed != nil {
				a.expr(element.Field.Name.Computed, Read)
			}
			if element.Field.Init != nil {
				a.expr(element.Field.Init, Read)
			}
		}
	}
	a.pop()
}

func (a *analyzer) method(m *ast.MethodDecl) {
	if m.Name.Computed != nil {
		a.expr(m.Name.Computed, Read)
	}
	a.push(FunctionScope, m)
	a.params(m.Params)
	a.funcBody(m.Body)
	a.pop()
}

////////////////////////////////////////////////////////////////
// expression resolution

func (a *analyzer) expr(i ast.IExpr, access AccessKind) {
	switch expr := i.(type) {
	case *ast.Ident:
		a.reference(expr, access)
	case *ast.LiteralExpr, *ast.SuperExpr, *ast.NewTargetExpr:
		// nothing to resolve
	case *ast.ThisExpr:
		a.classifyThis()
	case *ast.TemplateExpr:
		if expr.Tag != nil {
			a.expr(expr.Tag, Read)
		}
		for _, part := range expr.List {
			a.expr(part.Expr, Read)
		}
	case *ast.ArrayExpr:
		for _, element := range expr.List {
			if element.Value != nil {
				a.expr(element.Value, Read)
			}
		}
	case *ast.ObjectExpr:
		for _, property := range expr.List {
			a.property(property)
		}
	case *ast.ArrowFunc:
		a.arrowFunc(expr)
	case *ast.FuncDecl:
		a.enterFunc(expr, true)
	case *ast.ClassDecl:
		a.classDecl(expr, true)
	case *ast.UnaryExpr:
		switch expr.Op {
		case js.PreIncrToken, js.PostIncrToken, js.PreDecrToken, js.PostDecrToken:
			a.assignTarget(expr.X)
		default:
			a.expr(expr.X, Read)
		}
	case *ast.BinaryExpr:
		if prec, ok := ast.BinaryOpPrec(expr.Op); ok && prec == ast.OpAssign {
			a.assignTarget(expr.X)
			a.expr(expr.Y, Read)
			return
		}
		a.expr(expr.X, Read)
		a.expr(expr.Y, Read)
	case *ast.CondExpr:
		a.expr(expr.Cond, Read)
		a.expr(expr.X, Read)
		a.expr(expr.Y, Read)
	case *ast.DotExpr:
		a.expr(expr.X, PropertyAccess)
	case *ast.IndexExpr:
		a.indexExpr(expr)
	case *ast.CallExpr:
		a.callExpr(expr)
	case *ast.NewExpr:
		a.expr(expr.X, Read)
		if expr.Args != nil {
			a.args(*expr.Args)
		}
	case *ast.GroupExpr:
		a.expr(expr.X, access)
	case *ast.YieldExpr:
		if expr.X != nil {
			a.expr(expr.X, Read)
		}
	case *ast.VarDecl:
		a.varDecl(expr)
	}
}

func (a *analyzer) property(property ast.Property) {
	if property.Method != nil {
		a.method(property.Method)
		return
	}
	if property.Name != nil && property.Name.Computed != nil {
		a.expr(property.Name.Computed, Read)
	}
	if property.Value != nil {
		a.expr(property.Value, Read)
	}
	if property.Init != nil {
		a.expr(property.Init, Read)
	}
}

func (a *analyzer) callExpr(expr *ast.CallExpr) {
	if ident, ok := expr.X.(*ast.Ident); ok {
		a.reference(ident, Call)
	} else {
		a.expr(expr.X, Read)
	}
	a.args(expr.Args)
}

func (a *analyzer) args(args ast.Args) {
	for _, arg := range args.List {
		a.expr(arg.Value, Read)
	}
}

// indexExpr resolves a bracket access and records string indexes into the
// global object, which pin the named global against renaming.
func (a *analyzer) indexExpr(expr *ast.IndexExpr) {
	a.expr(expr.X, PropertyAccess)
	a.expr(expr.Index, Read)
	ident, ok := expr.X.(*ast.Ident)
	if !ok || !globalObjects[string(ident.Name)] {
		return
	}
	if a.scope.Lookup(string(ident.Name)) != a.table.Root.Own(string(ident.Name)) {
		// shadowed by a local binding
		return
	}
	if lit, ok := expr.Index.(*ast.LiteralExpr); ok && lit.TokenType == js.StringToken && 2 <= len(lit.Data) {
		a.table.indirect[string(lit.Data[1:len(lit.Data)-1])] = true
	}
}

// assignTarget resolves the left side of an assignment or update, marking
// plain identifier targets as writes.
func (a *analyzer) assignTarget(i ast.IExpr) {
	switch expr := i.(type) {
	case *ast.Ident:
		a.reference(expr, Write)
	case *ast.GroupExpr:
		a.assignTarget(expr.X)
	case *ast.ArrayExpr:
		// destructuring assignment
		for _, element := range expr.List {
			if element.Value != nil {
				a.assignTarget(element.Value)
			}
		}
	case *ast.ObjectExpr:
		for _, property := range expr.List {
			if property.Method == nil && property.Value != nil {
				if property.Name != nil && property.Name.Computed != nil {
					a.expr(property.Name.Computed, Read)
				}
				a.assignTarget(property.Value)
				if property.Init != nil {
					a.expr(property.Init, Read)
				}
			}
		}
	case *ast.BinaryExpr:
		// default value inside a destructuring assignment
		if expr.Op == js.EqToken {
			a.assignTarget(expr.X)
			a.expr(expr.Y, Read)
			return
		}
		a.expr(expr, Read)
	default:
		a.expr(i, Read)
	}
}

func (a *analyzer) reference(ident *ast.Ident, access AccessKind) {
	name := string(ident.Name)
	sym := a.scope.Lookup(name)
	if sym == nil {
		sym = a.table.declareImplicit(name)
	}
	sym.Refs = append(sym.Refs, Reference{Ident: ident, Access: access})
	if !sym.Implicit() && sym.Scope.Func() != a.scope.Func() {
		sym.Captured = true
	}
	if name == "eval" && sym.Implicit() {
		// direct eval and any alias of it see every enclosing binding
		a.markUnsafe(ReasonEval)
	}
}

// classifyThis records on the nearest non-arrow function scope that its body
// observes a call-site dependent this. The classification is informational
// and does not veto renaming.
func (a *analyzer) classifyThis() {
	for s := a.scope; s != nil; s = s.Parent {
		if s.Type == FunctionScope && !s.Arrow {
			s.DynamicThis = true
			return
		}
	}
}

// finalize computes the KeepName veto of every symbol from the collected
// scope and usage facts.
func (a *analyzer) finalize() {
	for _, sym := range a.table.Symbols {
		switch {
		case a.opts.KeepVarNames:
			sym.KeepName = true
		case sym.Implicit():
			sym.KeepName = true
		case sym.Kind == KindImport:
			sym.KeepName = true
		case sym.Listed:
			sym.KeepName = true
		case sym.Exported && !a.opts.RenameExports:
			sym.KeepName = true
		case sym.Scope.Unsafe:
			sym.KeepName = true
		case sym.Scope == a.table.Root && a.table.indirect[sym.Name]:
			sym.KeepName = true
		}
	}
}
