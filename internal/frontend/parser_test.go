package frontend

import (
	"testing"

	"sysyc/internal/ast"
)

func TestParseFunctionAndDecls(t *testing.T) {
	src := `
const int N = 3;
int g[2] = {1, 2};

int add(int a, int b[][2]) {
  int c = a + b[0][1];
  if (c > N) {
    return c;
  } else {
    return 0;
  }
}

void main() {
  int i = 0;
  while (i < N) {
    i = i + 1;
    if (i == 2) {
      continue;
    }
    if (i == 5) {
      break;
    }
  }
  return;
}
`
	cu, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if len(cu.Items) != 4 {
		t.Fatalf("expected 4 top-level items, got %d", len(cu.Items))
	}

	constDecl, ok := cu.Items[0].(*ast.Decl)
	if !ok || !constDecl.Const || constDecl.Defs[0].Name != "N" {
		t.Fatalf("expected first item to be const N, got %#v", cu.Items[0])
	}

	globalDecl, ok := cu.Items[1].(*ast.Decl)
	if !ok || globalDecl.Const || globalDecl.Defs[0].Name != "g" {
		t.Fatalf("expected second item to be var g, got %#v", cu.Items[1])
	}
	if len(globalDecl.Defs[0].Dims) != 1 {
		t.Fatalf("expected g to have one dimension, got %d", len(globalDecl.Defs[0].Dims))
	}

	add, ok := cu.Items[2].(*ast.FuncDef)
	if !ok || add.Name != "add" || add.Ret.Void {
		t.Fatalf("expected third item to be int add(...), got %#v", cu.Items[2])
	}
	if len(add.Params) != 2 || !add.Params[1].Typ.Pointer || len(add.Params[1].Typ.Dims) != 1 {
		t.Fatalf("expected add's second param to be a pointer with one trailing dim, got %#v", add.Params[1])
	}

	main, ok := cu.Items[3].(*ast.FuncDef)
	if !ok || main.Name != "main" || !main.Ret.Void {
		t.Fatalf("expected fourth item to be void main(), got %#v", cu.Items[3])
	}
	if len(main.Body.Items) != 3 {
		t.Fatalf("expected main's body to have 3 block items, got %d", len(main.Body.Items))
	}
	whileStmt, ok := main.Body.Items[1].(*ast.WhileStmt)
	if !ok {
		t.Fatalf("expected main's second block item to be a while loop, got %#v", main.Body.Items[1])
	}
	blockBody, ok := whileStmt.Body.(*ast.BlockStmt)
	if !ok || len(blockBody.Body.Items) != 3 {
		t.Fatalf("expected the while body to be a 3-item block, got %#v", whileStmt.Body)
	}
}

func TestParseExpressionPrecedence(t *testing.T) {
	src := `int f() { return 1 + 2 * 3 == 7 && !0 || 1; }`
	cu, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	fn := cu.Items[0].(*ast.FuncDef)
	ret := fn.Body.Items[0].(*ast.ReturnStmt)
	top, ok := ret.Value.(*ast.Binary)
	if !ok || top.Op != "||" {
		t.Fatalf("expected top-level operator to be ||, got %#v", ret.Value)
	}
	land, ok := top.Left.(*ast.Binary)
	if !ok || land.Op != "&&" {
		t.Fatalf("expected left of || to be &&, got %#v", top.Left)
	}
	eq, ok := land.Left.(*ast.Binary)
	if !ok || eq.Op != "==" {
		t.Fatalf("expected left of && to be ==, got %#v", land.Left)
	}
	add, ok := eq.Left.(*ast.Binary)
	if !ok || add.Op != "+" {
		t.Fatalf("expected left of == to be +, got %#v", eq.Left)
	}
	if _, ok := add.Right.(*ast.Binary); !ok {
		t.Fatalf("expected right of + to be a nested * expression, got %#v", add.Right)
	}
}

func TestParseAssignVsExprStmt(t *testing.T) {
	src := `int f(int x) { x = x + 1; f(x); return x; }`
	cu, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	fn := cu.Items[0].(*ast.FuncDef)
	if _, ok := fn.Body.Items[0].(*ast.AssignStmt); !ok {
		t.Fatalf("expected first statement to be an assignment, got %#v", fn.Body.Items[0])
	}
	exprStmt, ok := fn.Body.Items[1].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected second statement to be an expression statement, got %#v", fn.Body.Items[1])
	}
	if _, ok := exprStmt.Value.(*ast.Call); !ok {
		t.Fatalf("expected the expression statement to hold a call, got %#v", exprStmt.Value)
	}
}

func TestParseRejectsBadAssignTarget(t *testing.T) {
	_, err := Parse(`int f() { 1 = 2; return 0; }`)
	if err == nil {
		t.Fatalf("expected an error assigning to a non-lvalue")
	}
}
