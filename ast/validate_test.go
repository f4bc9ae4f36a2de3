package ast

import (
	"testing"

	"github.com/tdewolff/parse/v2/js"
	"github.com/tdewolff/test"
)

func TestValidateOK(t *testing.T) {
	a := &Ident{Name: []byte("a")}
	program := &Program{List: []IStmt{
		&VarDecl{TokenType: js.VarToken, List: []BindingElement{
			{Binding: a, Default: &LiteralExpr{TokenType: js.DecimalToken, Data: []byte("1")}},
		}},
		&IfStmt{
			Cond: &Ident{Name: []byte("a")},
			Body: &ExprStmt{Value: &CallExpr{X: &Ident{Name: []byte("b")}}},
		},
	}}
	test.Error(t, Validate(program))
}

func TestValidateErrors(t *testing.T) {
	a := &Ident{Name: []byte("a")}
	tests := []struct {
		name string
		stmt IStmt
	}{
		{"if without condition", &IfStmt{Body: &EmptyStmt{}}},
		{"expression statement without value", &ExprStmt{}},
		{"empty identifier", &ExprStmt{Value: &Ident{}}},
		{"literal without data", &ExprStmt{Value: &LiteralExpr{TokenType: js.DecimalToken}}},
		{"binary without operand", &ExprStmt{Value: &BinaryExpr{Op: js.AddToken, X: a}}},
		{"call without callee", &ExprStmt{Value: &CallExpr{}}},
		{"throw without value", &ThrowStmt{}},
		{"var without bindings", &VarDecl{TokenType: js.VarToken}},
		{"labelled without label", &LabelledStmt{Value: &EmptyStmt{}}},
		{"import without module", &ImportStmt{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&Program{List: []IStmt{tt.stmt}})
			test.That(t, err != nil, "expected a validation error")
		})
	}
}
