package fold

import (
	"testing"

	"sysyc/internal/ast"
	"sysyc/internal/symtab"
)

func TestEvalArithmeticAndLogic(t *testing.T) {
	env := symtab.New()
	cases := []struct {
		name string
		expr ast.Expr
		want int
	}{
		{"literal", &ast.IntLit{Value: 7}, 7},
		{"add", &ast.Binary{Op: "+", Left: &ast.IntLit{Value: 2}, Right: &ast.IntLit{Value: 3}}, 5},
		{"mul-precedence-already-resolved", &ast.Binary{Op: "*", Left: &ast.IntLit{Value: 2}, Right: &ast.IntLit{Value: 3}}, 6},
		{"neg", &ast.Unary{Op: "-", Value: &ast.IntLit{Value: 4}}, -4},
		{"not-zero", &ast.Unary{Op: "!", Value: &ast.IntLit{Value: 0}}, 1},
		{"not-nonzero", &ast.Unary{Op: "!", Value: &ast.IntLit{Value: 5}}, 0},
		{"and", &ast.Binary{Op: "&&", Left: &ast.IntLit{Value: 1}, Right: &ast.IntLit{Value: 0}}, 0},
		{"or", &ast.Binary{Op: "||", Left: &ast.IntLit{Value: 0}, Right: &ast.IntLit{Value: 5}}, 1},
		{"le", &ast.Binary{Op: "<=", Left: &ast.IntLit{Value: 3}, Right: &ast.IntLit{Value: 3}}, 1},
	}
	for _, c1 := range cases {
		t.Run(c1.name, func(t *testing.T) {
			got, err := Eval(c1.expr, env)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != c1.want {
				t.Errorf("expected %d, got %d", c1.want, got)
			}
		})
	}
}

func TestEvalConstIdentifier(t *testing.T) {
	env := symtab.New()
	if err := env.Insert("N", symtab.Binding{Kind: symtab.BindConst, ConstVal: 10}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := Eval(&ast.LValue{Name: "N"}, env)
	if err != nil || got != 10 {
		t.Fatalf("expected N == 10, got %d, err %v", got, err)
	}
}

func TestEvalRejectsNonConstIdentifier(t *testing.T) {
	env := symtab.New()
	if err := env.Insert("v", symtab.Binding{Kind: symtab.BindVar}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := Eval(&ast.LValue{Name: "v"}, env); err == nil {
		t.Fatalf("expected an error folding a non-constant identifier")
	}
}

func TestEvalRejectsSubscript(t *testing.T) {
	env := symtab.New()
	if err := env.Insert("a", symtab.Binding{Kind: symtab.BindConst, ConstVal: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := Eval(&ast.LValue{Name: "a", Indices: []ast.Expr{&ast.IntLit{Value: 0}}}, env)
	if err == nil {
		t.Fatalf("expected an error folding a subscripted lvalue")
	}
}

func TestEvalRejectsCall(t *testing.T) {
	env := symtab.New()
	if _, err := Eval(&ast.Call{Callee: "f"}, env); err == nil {
		t.Fatalf("expected an error folding a call expression")
	}
}

func TestEvalDivModByZero(t *testing.T) {
	env := symtab.New()
	if _, err := Eval(&ast.Binary{Op: "/", Left: &ast.IntLit{Value: 1}, Right: &ast.IntLit{Value: 0}}, env); err == nil {
		t.Fatalf("expected an error dividing by a folded zero")
	}
	if _, err := Eval(&ast.Binary{Op: "%", Left: &ast.IntLit{Value: 1}, Right: &ast.IntLit{Value: 0}}, env); err == nil {
		t.Fatalf("expected an error taking a modulus by a folded zero")
	}
}
