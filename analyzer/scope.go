// Package analyzer builds the scope and symbol tables for a parsed program
// and classifies which bindings can be renamed without changing behavior.
package analyzer

import (
	"github.com/tomisinteazer/rjscompiler/ast"
)

// ScopeID identifies a scope within one analysis.
type ScopeID uint32

// SymbolID identifies a symbol within one analysis.
type SymbolID uint32

// ScopeType is the syntactic construct a scope belongs to.
type ScopeType int

// Scope types.
const (
	GlobalScope ScopeType = iota
	FunctionScope
	BlockScope
	ClassScope
	CatchScope
	WithScope
)

func (t ScopeType) String() string {
	switch t {
	case GlobalScope:
		return "global"
	case FunctionScope:
		return "function"
	case BlockScope:
		return "block"
	case ClassScope:
		return "class"
	case CatchScope:
		return "catch"
	case WithScope:
		return "with"
	}
	return "unknown"
}

// SymbolKind is the declaration form of a symbol.
type SymbolKind int

// Symbol kinds.
const (
	KindVariable SymbolKind = iota // var
	KindLexical                    // let
	KindConst
	KindFunction
	KindClass
	KindParameter
	KindCatchParam
	KindImport
	KindImplicit // referenced but never declared
)

func (k SymbolKind) String() string {
	switch k {
	case KindVariable:
		return "var"
	case KindLexical:
		return "let"
	case KindConst:
		return "const"
	case KindFunction:
		return "function"
	case KindClass:
		return "class"
	case KindParameter:
		return "parameter"
	case KindCatchParam:
		return "catch"
	case KindImport:
		return "import"
	case KindImplicit:
		return "implicit"
	}
	return "unknown"
}

// AccessKind classifies how a reference uses a symbol.
type AccessKind int

// Access kinds.
const (
	Read AccessKind = iota
	Write
	Call
	PropertyAccess
)

func (k AccessKind) String() string {
	switch k {
	case Read:
		return "read"
	case Write:
		return "write"
	case Call:
		return "call"
	case PropertyAccess:
		return "property"
	}
	return "unknown"
}

// UnsafeReason is a bit set of constructs that defeat renaming in a scope.
type UnsafeReason uint8

// Unsafe reasons.
const (
	ReasonEval UnsafeReason = 1 << iota
	ReasonWith
)

// Reference is one use of a symbol at an identifier node.
type Reference struct {
	Ident  *ast.Ident
	Access AccessKind
}

// Symbol is a declared name together with every identifier node that refers
// to it. Renaming rewrites Decl and all reference idents in place.
type Symbol struct {
	ID    SymbolID
	Name  string
	Kind  SymbolKind
	Scope *Scope
	Decl  *ast.Ident // nil for implicit globals
	Refs  []Reference

	Captured bool // referenced from a nested function
	Exported bool
	Listed   bool // named in an export clause, keeps its name unconditionally
	KeepName bool // final renaming veto
}

// Uses counts the occurrences a rename has to rewrite, declaration included.
func (s *Symbol) Uses() int {
	if s.Decl == nil {
		return len(s.Refs)
	}
	return len(s.Refs) + 1
}

// Implicit reports whether the symbol was referenced but never declared.
func (s *Symbol) Implicit() bool {
	return s.Kind == KindImplicit
}

// Scope is one lexical scope. Bindings are held in declaration order so that
// analysis output is deterministic.
type Scope struct {
	ID       ScopeID
	Type     ScopeType
	Parent   *Scope
	Children []*Scope
	Declared []*Symbol
	Node     ast.INode

	Arrow       bool // function scope of an arrow function
	Unsafe      bool
	Reasons     UnsafeReason
	DynamicThis bool // body evaluates this depending on the call site

	withTainted bool // nested inside a with body
	byName      map[string]*Symbol
}

// Lookup resolves a name against this scope and its ancestors.
func (s *Scope) Lookup(name string) *Symbol {
	for t := s; t != nil; t = t.Parent {
		if sym, ok := t.byName[name]; ok {
			return sym
		}
	}
	return nil
}

// Own returns the symbol declared directly in this scope, or nil.
func (s *Scope) Own(name string) *Symbol {
	return s.byName[name]
}

// Func returns the nearest enclosing function or global scope, this scope
// included.
func (s *Scope) Func() *Scope {
	for t := s; ; t = t.Parent {
		if t.Parent == nil || t.Type == FunctionScope {
			return t
		}
	}
}

// HoistTarget returns the scope var declarations bind in: the nearest
// function or global scope.
func (s *Scope) HoistTarget() *Scope {
	return s.Func()
}

// Table is the result of analyzing one program: the scope tree, all symbols,
// and the renaming vetoes that are keyed by name rather than by scope.
type Table struct {
	Root    *Scope
	Scopes  []*Scope
	Symbols []*Symbol

	indirect map[string]bool // globals accessed as window["name"] and the like
}

func (t *Table) addScope(parent *Scope, typ ScopeType, node ast.INode) *Scope {
	scope := &Scope{
		ID:     ScopeID(len(t.Scopes)),
		Type:   typ,
		Parent: parent,
		Node:   node,
		byName: map[string]*Symbol{},
	}
	if parent != nil {
		parent.Children = append(parent.Children, scope)
		if parent.withTainted {
			scope.withTainted = true
			scope.Unsafe = true
			scope.Reasons |= ReasonWith
		}
	}
	t.Scopes = append(t.Scopes, scope)
	return scope
}

func (t *Table) declare(scope *Scope, name string, kind SymbolKind, decl *ast.Ident) *Symbol {
	if sym, ok := scope.byName[name]; ok {
		// redeclaration, as with repeated var statements
		if decl != nil {
			sym.Refs = append(sym.Refs, Reference{Ident: decl, Access: Write})
		}
		return sym
	}
	sym := &Symbol{
		ID:    SymbolID(len(t.Symbols)),
		Name:  name,
		Kind:  kind,
		Scope: scope,
		Decl:  decl,
	}
	scope.byName[name] = sym
	scope.Declared = append(scope.Declared, sym)
	t.Symbols = append(t.Symbols, sym)
	return sym
}

func (t *Table) declareImplicit(name string) *Symbol {
	if sym, ok := t.Root.byName[name]; ok {
		return sym
	}
	return t.declare(t.Root, name, KindImplicit, nil)
}

// IndirectlyAccessed reports whether a global with the given name is reached
// through a string index on the global object anywhere in the program.
func (t *Table) IndirectlyAccessed(name string) bool {
	return t.indirect[name]
}
