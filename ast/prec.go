package ast

import (
	"github.com/tdewolff/parse/v2/js"
)

// OpPrec is an operator precedence class, ordered from the comma operator up
// to primary expressions.
type OpPrec int

// Precedence classes, lowest first.
const (
	OpExpr OpPrec = iota // a,b
	OpAssign
	OpCoalesce
	OpOr
	OpAnd
	OpBitOr
	OpBitXor
	OpBitAnd
	OpEquals
	OpCompare
	OpShift
	OpAdd
	OpMul
	OpExp
	OpUnary
	OpUpdate
	OpLHS
	OpMember
	OpPrimary
)

var unaryOpPrec = map[js.TokenType]OpPrec{
	js.PostIncrToken: OpUpdate,
	js.PostDecrToken: OpUpdate,
	js.PreIncrToken:  OpUpdate,
	js.PreDecrToken:  OpUpdate,
	js.NotToken:      OpUnary,
	js.BitNotToken:   OpUnary,
	js.TypeofToken:   OpUnary,
	js.VoidToken:     OpUnary,
	js.DeleteToken:   OpUnary,
	js.AddToken:      OpUnary,
	js.SubToken:      OpUnary,
	js.AwaitToken:    OpUnary,
}

var binaryOpPrec = map[js.TokenType]OpPrec{
	js.EqToken:         OpAssign,
	js.MulEqToken:      OpAssign,
	js.DivEqToken:      OpAssign,
	js.ModEqToken:      OpAssign,
	js.ExpEqToken:      OpAssign,
	js.AddEqToken:      OpAssign,
	js.SubEqToken:      OpAssign,
	js.LtLtEqToken:     OpAssign,
	js.GtGtEqToken:     OpAssign,
	js.GtGtGtEqToken:   OpAssign,
	js.BitAndEqToken:   OpAssign,
	js.BitXorEqToken:   OpAssign,
	js.BitOrEqToken:    OpAssign,
	js.AndEqToken:      OpAssign,
	js.OrEqToken:       OpAssign,
	js.NullishEqToken:  OpAssign,
	js.ExpToken:        OpExp,
	js.MulToken:        OpMul,
	js.DivToken:        OpMul,
	js.ModToken:        OpMul,
	js.AddToken:        OpAdd,
	js.SubToken:        OpAdd,
	js.LtLtToken:       OpShift,
	js.GtGtToken:       OpShift,
	js.GtGtGtToken:     OpShift,
	js.LtToken:         OpCompare,
	js.LtEqToken:       OpCompare,
	js.GtToken:         OpCompare,
	js.GtEqToken:       OpCompare,
	js.InToken:         OpCompare,
	js.InstanceofToken: OpCompare,
	js.EqEqToken:       OpEquals,
	js.NotEqToken:      OpEquals,
	js.EqEqEqToken:     OpEquals,
	js.NotEqEqToken:    OpEquals,
	js.BitAndToken:     OpBitAnd,
	js.BitXorToken:     OpBitXor,
	js.BitOrToken:      OpBitOr,
	js.AndToken:        OpAnd,
	js.OrToken:         OpOr,
	js.NullishToken:    OpCoalesce,
	js.CommaToken:      OpExpr,
}

// UnaryOpPrec returns the precedence class of a unary operator.
func UnaryOpPrec(tt js.TokenType) OpPrec {
	return unaryOpPrec[tt]
}

// BinaryOpPrec returns the precedence class of a binary operator, or OpExpr
// when tt is not a binary operator.
func BinaryOpPrec(tt js.TokenType) (OpPrec, bool) {
	prec, ok := binaryOpPrec[tt]
	return prec, ok
}

// Prec returns the precedence class an expression occupies when printed.
func Prec(i IExpr) OpPrec {
	switch expr := i.(type) {
	case *Ident, *LiteralExpr, *ThisExpr, *SuperExpr, *NewTargetExpr, *ObjectExpr, *ArrayExpr, *FuncDecl, *ClassDecl:
		return OpPrimary
	case *UnaryExpr:
		return unaryOpPrec[expr.Op]
	case *BinaryExpr:
		return binaryOpPrec[expr.Op]
	case *NewExpr:
		if expr.Args == nil {
			return OpLHS
		}
		return OpMember
	case *TemplateExpr:
		if expr.Tag == nil {
			return OpPrimary
		}
		return OpMember
	case *DotExpr, *IndexExpr:
		return OpMember
	case *CallExpr:
		return OpLHS
	case *CondExpr, *YieldExpr, *ArrowFunc:
		return OpAssign
	case *GroupExpr:
		return Prec(expr.X)
	}
	return OpExpr
}
