package ast

import (
	"fmt"
)

// StructuralError reports a malformed tree: a node of an unknown shape or one
// missing a required child. At is the span of the offending node.
type StructuralError struct {
	Kind string
	At   Span
}

// Error implements the error interface.
func (e *StructuralError) Error() string {
	return fmt.Sprintf("malformed tree: %s at offset %d", e.Kind, e.At.Start)
}

func structural(kind string, at Span) error {
	return &StructuralError{Kind: kind, At: at}
}

// Validate checks that every node in the program has its required children.
// It rejects dangling node shapes instead of guessing intent; analysis must
// not run on a tree that fails validation.
func Validate(p *Program) error {
	if p == nil {
		return structural("nil program", Span{})
	}
	for _, stmt := range p.List {
		if err := validateStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func validateStmt(i IStmt) error {
	switch stmt := i.(type) {
	case *BlockStmt:
		for _, item := range stmt.List {
			if err := validateStmt(item); err != nil {
				return err
			}
		}
	case *EmptyStmt, *DebuggerStmt:
		// no children
	case *ExprStmt:
		if stmt.Value == nil {
			return structural("expression statement without expression", stmt.Span)
		}
		return validateExpr(stmt.Value)
	case *IfStmt:
		if stmt.Cond == nil || stmt.Body == nil {
			return structural("if statement missing condition or body", stmt.Span)
		}
		if err := validateExpr(stmt.Cond); err != nil {
			return err
		}
		if err := validateStmt(stmt.Body); err != nil {
			return err
		}
		if stmt.Else != nil {
			return validateStmt(stmt.Else)
		}
	case *DoWhileStmt:
		if stmt.Cond == nil || stmt.Body == nil {
			return structural("do-while statement missing condition or body", stmt.Span)
		}
		if err := validateExpr(stmt.Cond); err != nil {
			return err
		}
		return validateStmt(stmt.Body)
	case *WhileStmt:
		if stmt.Cond == nil || stmt.Body == nil {
			return structural("while statement missing condition or body", stmt.Span)
		}
		if err := validateExpr(stmt.Cond); err != nil {
			return err
		}
		return validateStmt(stmt.Body)
	case *ForStmt:
		if stmt.Body == nil {
			return structural("for statement without body", stmt.Span)
		}
		for _, expr := range []IExpr{stmt.Init, stmt.Cond, stmt.Post} {
			if expr != nil {
				if err := validateExpr(expr); err != nil {
					return err
				}
			}
		}
		return validateStmt(stmt.Body)
	case *ForInStmt:
		if stmt.Init == nil || stmt.Value == nil || stmt.Body == nil {
			return structural("for-in statement missing clause", stmt.Span)
		}
		if err := validateExpr(stmt.Init); err != nil {
			return err
		}
		if err := validateExpr(stmt.Value); err != nil {
			return err
		}
		return validateStmt(stmt.Body)
	case *ForOfStmt:
		if stmt.Init == nil || stmt.Value == nil || stmt.Body == nil {
			return structural("for-of statement missing clause", stmt.Span)
		}
		if err := validateExpr(stmt.Init); err != nil {
			return err
		}
		if err := validateExpr(stmt.Value); err != nil {
			return err
		}
		return validateStmt(stmt.Body)
	case *SwitchStmt:
		if stmt.Init == nil {
			return structural("switch statement without discriminant", stmt.Span)
		}
		if err := validateExpr(stmt.Init); err != nil {
			return err
		}
		for _, clause := range stmt.List {
			if clause.Cond != nil {
				if err := validateExpr(clause.Cond); err != nil {
					return err
				}
			}
			for _, item := range clause.List {
				if err := validateStmt(item); err != nil {
					return err
				}
			}
		}
	case *BranchStmt:
		// label optional
	case *ReturnStmt:
		if stmt.Value != nil {
			return validateExpr(stmt.Value)
		}
	case *LabelledStmt:
		if len(stmt.Label) == 0 || stmt.Value == nil {
			return structural("labelled statement missing label or body", stmt.Span)
		}
		return validateStmt(stmt.Value)
	case *ThrowStmt:
		if stmt.Value == nil {
			return structural("throw statement without value", stmt.Span)
		}
		return validateExpr(stmt.Value)
	case *TryStmt:
		if stmt.Body == nil {
			return structural("try statement without body", stmt.Span)
		}
		if stmt.Catch == nil && stmt.Finally == nil {
			return structural("try statement without catch or finally", stmt.Span)
		}
		if err := validateStmt(stmt.Body); err != nil {
			return err
		}
		if stmt.Binding != nil {
			if err := validateBinding(stmt.Binding); err != nil {
				return err
			}
		}
		if stmt.Catch != nil {
			if err := validateStmt(stmt.Catch); err != nil {
				return err
			}
		}
		if stmt.Finally != nil {
			return validateStmt(stmt.Finally)
		}
	case *WithStmt:
		if stmt.Cond == nil || stmt.Body == nil {
			return structural("with statement missing object or body", stmt.Span)
		}
		if err := validateExpr(stmt.Cond); err != nil {
			return err
		}
		return validateStmt(stmt.Body)
	case *ImportStmt:
		if len(stmt.Module) == 0 {
			return structural("import declaration without module", stmt.Span)
		}
	case *ExportStmt:
		if stmt.Decl != nil {
			return validateStmt(stmt.Decl)
		}
		if stmt.Expr != nil {
			return validateExpr(stmt.Expr)
		}
	case *VarDecl:
		if len(stmt.List) == 0 {
			return structural("variable declaration without bindings", stmt.Span)
		}
		for _, item := range stmt.List {
			if err := validateBindingElement(item, false); err != nil {
				return err
			}
		}
	case *FuncDecl:
		return validateFunc(stmt)
	case *ClassDecl:
		return validateClass(stmt)
	default:
		return structural(fmt.Sprintf("unknown statement %T", i), pos(i))
	}
	return nil
}

func validateFunc(fn *FuncDecl) error {
	if fn.Body == nil {
		return structural("function without body", fn.Span)
	}
	if err := validateParams(fn.Params); err != nil {
		return err
	}
	return validateStmt(fn.Body)
}

func validateClass(cls *ClassDecl) error {
	if cls.Extends != nil {
		if err := validateExpr(cls.Extends); err != nil {
			return err
		}
	}
	for _, element := range cls.List {
		if element.Method == nil && element.Field == nil {
			return structural("empty class element", element.Span)
		}
		if element.Method != nil {
			if err := validateMethod(element.Method); err != nil {
				return err
			}
		}
		if element.Field != nil && element.Field.Init != nil {
			if err := validateExpr(element.Field.Init); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateMethod(method *MethodDecl) error {
	if method.Body == nil {
		return structural("method without body", method.Span)
	}
	if err := validatePropertyName(method.Name); err != nil {
		return err
	}
	if err := validateParams(method.Params); err != nil {
		return err
	}
	return validateStmt(method.Body)
}

func validateParams(params Params) error {
	for _, item := range params.List {
		if err := validateBindingElement(item, false); err != nil {
			return err
		}
	}
	if params.Rest != nil {
		return validateBinding(params.Rest)
	}
	return nil
}

func validatePropertyName(name PropertyName) error {
	if name.Computed != nil {
		return validateExpr(name.Computed)
	}
	if name.Literal == nil {
		return structural("property name without key", name.Span)
	}
	return nil
}

func validateBindingElement(element BindingElement, allowEmpty bool) error {
	if element.Binding == nil {
		if allowEmpty {
			return nil
		}
		return structural("binding element without target", element.Span)
	}
	if err := validateBinding(element.Binding); err != nil {
		return err
	}
	if element.Default != nil {
		return validateExpr(element.Default)
	}
	return nil
}

func validateBinding(i IBinding) error {
	switch binding := i.(type) {
	case *Ident:
		if len(binding.Name) == 0 {
			return structural("binding with empty name", binding.Span)
		}
	case *BindingArray:
		for _, item := range binding.List {
			if err := validateBindingElement(item, true); err != nil {
				return err
			}
		}
		if binding.Rest != nil {
			return validateBinding(binding.Rest)
		}
	case *BindingObject:
		for _, item := range binding.List {
			if item.Key != nil {
				if err := validatePropertyName(*item.Key); err != nil {
					return err
				}
			}
			if err := validateBindingElement(item.Value, false); err != nil {
				return err
			}
		}
	default:
		return structural(fmt.Sprintf("unknown binding %T", i), pos(i))
	}
	return nil
}

func validateExpr(i IExpr) error {
	switch expr := i.(type) {
	case *Ident:
		if len(expr.Name) == 0 {
			return structural("identifier with empty name", expr.Span)
		}
	case *LiteralExpr:
		if len(expr.Data) == 0 {
			return structural("literal without data", expr.Span)
		}
	case *ThisExpr, *SuperExpr, *NewTargetExpr:
		// no children
	case *TemplateExpr:
		if expr.Tag != nil {
			if err := validateExpr(expr.Tag); err != nil {
				return err
			}
		}
		for _, part := range expr.List {
			if part.Expr == nil {
				return structural("template substitution without expression", part.Span)
			}
			if err := validateExpr(part.Expr); err != nil {
				return err
			}
		}
	case *ArrayExpr:
		for _, element := range expr.List {
			if element.Value != nil {
				if err := validateExpr(element.Value); err != nil {
					return err
				}
			}
		}
	case *ObjectExpr:
		for _, property := range expr.List {
			if err := validateProperty(property); err != nil {
				return err
			}
		}
	case *ArrowFunc:
		if expr.Body == nil && expr.ExprBody == nil {
			return structural("arrow function without body", expr.Span)
		}
		if err := validateParams(expr.Params); err != nil {
			return err
		}
		if expr.Body != nil {
			return validateStmt(expr.Body)
		}
		return validateExpr(expr.ExprBody)
	case *FuncDecl:
		return validateFunc(expr)
	case *ClassDecl:
		return validateClass(expr)
	case *UnaryExpr:
		if expr.X == nil {
			return structural("unary expression without operand", expr.Span)
		}
		return validateExpr(expr.X)
	case *BinaryExpr:
		if expr.X == nil || expr.Y == nil {
			return structural("binary expression missing operand", expr.Span)
		}
		if err := validateExpr(expr.X); err != nil {
			return err
		}
		return validateExpr(expr.Y)
	case *CondExpr:
		if expr.Cond == nil || expr.X == nil || expr.Y == nil {
			return structural("conditional expression missing operand", expr.Span)
		}
		if err := validateExpr(expr.Cond); err != nil {
			return err
		}
		if err := validateExpr(expr.X); err != nil {
			return err
		}
		return validateExpr(expr.Y)
	case *DotExpr:
		if expr.X == nil || len(expr.Y.Name) == 0 {
			return structural("member expression missing object or name", expr.Span)
		}
		return validateExpr(expr.X)
	case *IndexExpr:
		if expr.X == nil || expr.Index == nil {
			return structural("member expression missing object or index", expr.Span)
		}
		if err := validateExpr(expr.X); err != nil {
			return err
		}
		return validateExpr(expr.Index)
	case *CallExpr:
		if expr.X == nil {
			return structural("call without callee", expr.Span)
		}
		if err := validateExpr(expr.X); err != nil {
			return err
		}
		return validateArgs(expr.Args)
	case *NewExpr:
		if expr.X == nil {
			return structural("new expression without callee", expr.Span)
		}
		if err := validateExpr(expr.X); err != nil {
			return err
		}
		if expr.Args != nil {
			return validateArgs(*expr.Args)
		}
	case *GroupExpr:
		if expr.X == nil {
			return structural("group without expression", expr.Span)
		}
		return validateExpr(expr.X)
	case *YieldExpr:
		if expr.X != nil {
			return validateExpr(expr.X)
		}
	case *VarDecl:
		return validateStmt(expr)
	default:
		return structural(fmt.Sprintf("unknown expression %T", i), pos(i))
	}
	return nil
}

func validateProperty(property Property) error {
	if property.Method != nil {
		return validateMethod(property.Method)
	}
	if property.Name != nil {
		if err := validatePropertyName(*property.Name); err != nil {
			return err
		}
	}
	if property.Value == nil {
		return structural("object property without value", property.Span)
	}
	if err := validateExpr(property.Value); err != nil {
		return err
	}
	if property.Init != nil {
		return validateExpr(property.Init)
	}
	return nil
}

func validateArgs(args Args) error {
	for _, arg := range args.List {
		if arg.Value == nil {
			return structural("call argument without value", arg.Span)
		}
		if err := validateExpr(arg.Value); err != nil {
			return err
		}
	}
	return nil
}

func pos(n INode) Span {
	if n == nil {
		return Span{}
	}
	return n.Pos()
}
