package ast

import (
	"testing"

	"github.com/tdewolff/parse/v2/js"
	"github.com/tdewolff/test"
)

func TestBinaryOpPrec(t *testing.T) {
	tests := []struct {
		tt   js.TokenType
		prec OpPrec
	}{
		{js.CommaToken, OpExpr},
		{js.EqToken, OpAssign},
		{js.NullishEqToken, OpAssign},
		{js.NullishToken, OpCoalesce},
		{js.OrToken, OpOr},
		{js.AndToken, OpAnd},
		{js.BitOrToken, OpBitOr},
		{js.BitXorToken, OpBitXor},
		{js.BitAndToken, OpBitAnd},
		{js.EqEqEqToken, OpEquals},
		{js.InstanceofToken, OpCompare},
		{js.LtLtToken, OpShift},
		{js.SubToken, OpAdd},
		{js.ModToken, OpMul},
		{js.ExpToken, OpExp},
	}
	for _, tt := range tests {
		prec, ok := BinaryOpPrec(tt.tt)
		test.That(t, ok, "binary operator known")
		test.T(t, prec, tt.prec)
	}
	_, ok := BinaryOpPrec(js.OpenParenToken)
	test.That(t, !ok, "not a binary operator")
}

func TestUnaryOpPrec(t *testing.T) {
	test.T(t, UnaryOpPrec(js.NotToken), OpUnary)
	test.T(t, UnaryOpPrec(js.TypeofToken), OpUnary)
	test.T(t, UnaryOpPrec(js.PreIncrToken), OpUpdate)
	test.T(t, UnaryOpPrec(js.PostDecrToken), OpUpdate)
}

func TestPrec(t *testing.T) {
	ident := &Ident{Name: []byte("a")}
	tests := []struct {
		expr IExpr
		prec OpPrec
	}{
		{ident, OpPrimary},
		{&LiteralExpr{TokenType: js.DecimalToken, Data: []byte("1")}, OpPrimary},
		{&ObjectExpr{}, OpPrimary},
		{&FuncDecl{}, OpPrimary},
		{&UnaryExpr{Op: js.NotToken, X: ident}, OpUnary},
		{&BinaryExpr{Op: js.AddToken, X: ident, Y: ident}, OpAdd},
		{&CondExpr{Cond: ident, X: ident, Y: ident}, OpAssign},
		{&DotExpr{X: ident, Y: Ident{Name: []byte("b")}}, OpMember},
		{&CallExpr{X: ident}, OpLHS},
		{&NewExpr{X: ident}, OpLHS},
		{&NewExpr{X: ident, Args: &Args{}}, OpMember},
		{&TemplateExpr{}, OpPrimary},
		{&TemplateExpr{Tag: ident}, OpMember},
		{&GroupExpr{X: &BinaryExpr{Op: js.CommaToken, X: ident, Y: ident}}, OpExpr},
	}
	for _, tt := range tests {
		test.T(t, Prec(tt.expr), tt.prec)
	}
}
