// Package ast defines the JavaScript program tree consumed by the analyzer,
// transformer, and generator. Nodes carry byte-offset spans into the original
// source so that errors and source maps can report exact positions.
package ast

import (
	"github.com/tdewolff/parse/v2/js"
)

// Span is a half-open byte range [Start,End) into the original source.
type Span struct {
	Start int
	End   int
}

// Pos returns the span itself so that embedding Span satisfies INode.
func (s Span) Pos() Span {
	return s
}

// INode is any node in the program tree.
type INode interface {
	Pos() Span
}

// IStmt is a statement node.
type IStmt interface {
	INode
	stmtNode()
}

// IExpr is an expression node.
type IExpr interface {
	INode
	exprNode()
}

// IBinding is a binding target: a name or a destructuring pattern.
type IBinding interface {
	INode
	bindingNode()
}

// Program is the root node of a parsed script or module.
type Program struct {
	Span
	List   []IStmt
	Module bool // contains import/export declarations
}

////////////////////////////////////////////////////////////////
// statements

// BlockStmt is a braced statement list.
type BlockStmt struct {
	Span
	List []IStmt
}

// EmptyStmt is a lone semicolon.
type EmptyStmt struct {
	Span
}

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	Span
	Value IExpr
}

// IfStmt is an if statement with an optional else branch.
type IfStmt struct {
	Span
	Cond IExpr
	Body IStmt
	Else IStmt // nil when absent
}

// DoWhileStmt is a do-while iteration statement.
type DoWhileStmt struct {
	Span
	Cond IExpr
	Body IStmt
}

// WhileStmt is a while iteration statement.
type WhileStmt struct {
	Span
	Cond IExpr
	Body IStmt
}

// ForStmt is a classic three-clause for statement. Init is either a *VarDecl
// or a plain expression; any clause may be nil.
type ForStmt struct {
	Span
	Init IExpr
	Cond IExpr
	Post IExpr
	Body IStmt
}

// ForInStmt is a for-in iteration statement. Init is a *VarDecl or an
// assignment target expression.
type ForInStmt struct {
	Span
	Init  IExpr
	Value IExpr
	Body  IStmt
}

// ForOfStmt is a for-of iteration statement.
type ForOfStmt struct {
	Span
	Init  IExpr
	Value IExpr
	Body  IStmt
}

// CaseClause is a case or default clause in a switch statement.
type CaseClause struct {
	Span
	TokenType js.TokenType // CaseToken or DefaultToken
	Cond      IExpr        // nil for default
	List      []IStmt
}

// SwitchStmt is a switch statement.
type SwitchStmt struct {
	Span
	Init IExpr
	List []CaseClause
}

// BranchStmt is a break or continue statement with an optional label.
type BranchStmt struct {
	Span
	Type  js.TokenType // BreakToken or ContinueToken
	Label []byte       // nil when absent
}

// ReturnStmt is a return statement with an optional value.
type ReturnStmt struct {
	Span
	Value IExpr // nil when absent
}

// LabelledStmt is a labelled statement.
type LabelledStmt struct {
	Span
	Label []byte
	Value IStmt
}

// ThrowStmt is a throw statement.
type ThrowStmt struct {
	Span
	Value IExpr
}

// TryStmt is a try statement with optional catch binding, catch block, and
// finally block. At least one of Catch and Finally is non-nil.
type TryStmt struct {
	Span
	Body    *BlockStmt
	Binding IBinding // nil for catch without parameter or no catch
	Catch   *BlockStmt
	Finally *BlockStmt
}

// WithStmt is a with statement. Its body resolves bare names against the
// object at runtime, which defeats static scope analysis.
type WithStmt struct {
	Span
	Cond IExpr
	Body IStmt
}

// DebuggerStmt is a debugger statement.
type DebuggerStmt struct {
	Span
}

// Alias is a single name binding in an import or export clause, such as
// `name as binding`. Name is nil for a direct binding and "*" for namespaces.
type Alias struct {
	Span
	Name    []byte
	Binding []byte
}

// ImportStmt is an import declaration.
type ImportStmt struct {
	Span
	Default []byte // nil when absent
	List    []Alias
	Module  []byte // string literal including quotes
}

// ExportStmt is an export declaration. Exactly one of Decl, List, or the
// default expression form is used.
type ExportStmt struct {
	Span
	Decl    IStmt // function/class/var declaration being exported
	List    []Alias
	Module  []byte // re-export source, nil when absent
	Default bool
	Expr    IExpr // export default <expr>
}

// VarDecl is a var, let, or const declaration. It implements both IStmt and
// IExpr as it may appear in for-statement initializers.
type VarDecl struct {
	Span
	TokenType js.TokenType // VarToken, LetToken, or ConstToken
	List      []BindingElement
}

// Params is a function parameter list with an optional rest parameter.
type Params struct {
	Span
	List []BindingElement
	Rest IBinding // nil when absent
}

// FuncDecl is a function declaration or expression. Name is nil for anonymous
// function expressions.
type FuncDecl struct {
	Span
	Async     bool
	Generator bool
	Name      *Ident
	Params    Params
	Body      *BlockStmt
}

// MethodDecl is a class or object literal method.
type MethodDecl struct {
	Span
	Static    bool
	Async     bool
	Generator bool
	Get       bool
	Set       bool
	Name      PropertyName
	Params    Params
	Body      *BlockStmt
}

// FieldDecl is a class field definition.
type FieldDecl struct {
	Span
	Static bool
	Name   PropertyName
	Init   IExpr // nil when absent
}

// ClassElement is one class body element.
type ClassElement struct {
	Span
	Method *MethodDecl
	Field  *FieldDecl
}

// ClassDecl is a class declaration or expression.
type ClassDecl struct {
	Span
	Name    *Ident // nil for anonymous class expressions
	Extends IExpr  // nil when absent
	List    []ClassElement
}

func (n *BlockStmt) stmtNode()    {}
func (n *EmptyStmt) stmtNode()    {}
func (n *ExprStmt) stmtNode()     {}
func (n *IfStmt) stmtNode()       {}
func (n *DoWhileStmt) stmtNode()  {}
func (n *WhileStmt) stmtNode()    {}
func (n *ForStmt) stmtNode()      {}
func (n *ForInStmt) stmtNode()    {}
func (n *ForOfStmt) stmtNode()    {}
func (n *SwitchStmt) stmtNode()   {}
func (n *BranchStmt) stmtNode()   {}
func (n *ReturnStmt) stmtNode()   {}
func (n *LabelledStmt) stmtNode() {}
func (n *ThrowStmt) stmtNode()    {}
func (n *TryStmt) stmtNode()      {}
func (n *WithStmt) stmtNode()     {}
func (n *DebuggerStmt) stmtNode() {}
func (n *ImportStmt) stmtNode()   {}
func (n *ExportStmt) stmtNode()   {}
func (n *VarDecl) stmtNode()      {}
func (n *FuncDecl) stmtNode()     {}
func (n *ClassDecl) stmtNode()    {}

////////////////////////////////////////////////////////////////
// expressions

// Ident is an identifier, used both for references and for binding names.
// The transformer rewrites Name in place when renaming.
type Ident struct {
	Span
	Name []byte
}

// LiteralExpr is a literal token: number, string, regular expression, bigint,
// true, false, or null. Data holds the raw source text including quotes.
type LiteralExpr struct {
	Span
	TokenType js.TokenType
	Data      []byte
}

// ThisExpr is the this expression.
type ThisExpr struct {
	Span
}

// SuperExpr is the super keyword in member or call position.
type SuperExpr struct {
	Span
}

// NewTargetExpr is the new.target meta property.
type NewTargetExpr struct {
	Span
}

// TemplatePart is one `${expr}` hole with the raw text chunk preceding it.
type TemplatePart struct {
	Span
	Value []byte // raw chunk ending in ${
	Expr  IExpr
}

// TemplateExpr is a (possibly tagged) template literal. Tail is the raw chunk
// after the last substitution; for templates without substitutions it is the
// whole raw literal.
type TemplateExpr struct {
	Span
	Tag  IExpr // nil for untagged templates
	List []TemplatePart
	Tail []byte
}

// Element is one array literal element. A nil Value is an elision.
type Element struct {
	Span
	Value  IExpr
	Spread bool
}

// ArrayExpr is an array literal.
type ArrayExpr struct {
	Span
	List []Element
}

// PropertyName is a literal or computed property key.
type PropertyName struct {
	Span
	Literal  *LiteralExpr // identifier name, string, or number
	Computed IExpr        // non-nil for [expr] keys
}

// Property is one object literal property. Spread marks {...x}; Method marks
// method definitions. Name is nil only for spreads; the generator prints
// shorthand when the key equals an identifier value. Init carries the default
// of a shorthand property inside a destructuring assignment target, as in
// ({a = 1} = b).
type Property struct {
	Span
	Spread bool
	Method *MethodDecl
	Name   *PropertyName
	Value  IExpr
	Init   IExpr
}

// ObjectExpr is an object literal.
type ObjectExpr struct {
	Span
	List []Property
}

// ArrowFunc is an arrow function. Exactly one of Body and ExprBody is set.
type ArrowFunc struct {
	Span
	Async    bool
	Params   Params
	Body     *BlockStmt
	ExprBody IExpr
}

// UnaryExpr is a prefix or postfix unary expression; update operators use the
// distinct Pre/Post token types.
type UnaryExpr struct {
	Span
	Op js.TokenType
	X  IExpr
}

// BinaryExpr is a binary expression, including assignments and the comma
// operator.
type BinaryExpr struct {
	Span
	Op js.TokenType
	X  IExpr
	Y  IExpr
}

// CondExpr is a conditional expression.
type CondExpr struct {
	Span
	Cond IExpr
	X    IExpr
	Y    IExpr
}

// DotExpr is a property access with dot notation. Optional marks ?. access.
type DotExpr struct {
	Span
	X        IExpr
	Y        Ident
	Optional bool
}

// IndexExpr is a property access with bracket notation. Optional marks ?.[x].
type IndexExpr struct {
	Span
	X        IExpr
	Index    IExpr
	Optional bool
}

// Arg is one call argument.
type Arg struct {
	Span
	Value  IExpr
	Spread bool
}

// Args is a call argument list.
type Args struct {
	Span
	List []Arg
}

// CallExpr is a function call. Optional marks ?.() calls.
type CallExpr struct {
	Span
	X        IExpr
	Args     Args
	Optional bool
}

// NewExpr is a new expression; Args is nil for argument-less new.
type NewExpr struct {
	Span
	X    IExpr
	Args *Args
}

// GroupExpr is a parenthesized expression retained from the source. The
// generator drops it whenever precedence allows.
type GroupExpr struct {
	Span
	X IExpr
}

// YieldExpr is a yield expression; Delegate marks yield*.
type YieldExpr struct {
	Span
	Delegate bool
	X        IExpr // nil when absent
}

func (n *Ident) exprNode()         {}
func (n *LiteralExpr) exprNode()   {}
func (n *ThisExpr) exprNode()      {}
func (n *SuperExpr) exprNode()     {}
func (n *NewTargetExpr) exprNode() {}
func (n *TemplateExpr) exprNode()  {}
func (n *ArrayExpr) exprNode()     {}
func (n *ObjectExpr) exprNode()    {}
func (n *ArrowFunc) exprNode()     {}
func (n *FuncDecl) exprNode()      {}
func (n *ClassDecl) exprNode()     {}
func (n *UnaryExpr) exprNode()     {}
func (n *BinaryExpr) exprNode()    {}
func (n *CondExpr) exprNode()      {}
func (n *DotExpr) exprNode()       {}
func (n *IndexExpr) exprNode()     {}
func (n *CallExpr) exprNode()      {}
func (n *NewExpr) exprNode()       {}
func (n *GroupExpr) exprNode()     {}
func (n *YieldExpr) exprNode()     {}
func (n *VarDecl) exprNode()       {}

////////////////////////////////////////////////////////////////
// bindings

// BindingElement is a binding with an optional default value.
type BindingElement struct {
	Span
	Binding IBinding // nil for array pattern elisions
	Default IExpr    // nil when absent
}

// BindingArray is an array destructuring pattern.
type BindingArray struct {
	Span
	List []BindingElement
	Rest IBinding // nil when absent
}

// BindingObjectItem is one key in an object destructuring pattern. The
// generator prints shorthand when the key equals the bound name.
type BindingObjectItem struct {
	Span
	Key   *PropertyName
	Value BindingElement
}

// BindingObject is an object destructuring pattern.
type BindingObject struct {
	Span
	List []BindingObjectItem
	Rest *Ident // nil when absent
}

func (n *Ident) bindingNode()         {}
func (n *BindingArray) bindingNode()  {}
func (n *BindingObject) bindingNode() {}
