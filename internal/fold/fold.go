// Package fold implements the constant folder of spec.md §4.3: a pure recursive evaluator over expression
// AST, consulting the symbol environment for constants only. It is used everywhere the grammar requires a
// compile-time constant: array dimensions, constant initializers, and global initializers.
package fold

import (
	"fmt"

	"sysyc/internal/ast"
	"sysyc/internal/symtab"
)

// ---------------------
// ----- Functions -----
// ---------------------

// Eval folds expr to an integer constant. It fails if expr references an identifier that is not bound to a
// compile-time constant, or divides/mods by a folded zero.
func Eval(expr ast.Expr, env *symtab.Env) (int, error) {
	switch n := expr.(type) {
	case *ast.IntLit:
		return n.Value, nil

	case *ast.LValue:
		if len(n.Indices) > 0 {
			return 0, fmt.Errorf("line %d: %q is not a constant: subscripted expressions are never foldable", n.Line, n.Name)
		}
		b, err := env.Lookup(n.Name)
		if err != nil {
			return 0, err
		}
		if b.Kind != symtab.BindConst {
			return 0, fmt.Errorf("line %d: %q used in a constant context is not a constant", n.Line, n.Name)
		}
		return b.ConstVal, nil

	case *ast.Unary:
		v, err := Eval(n.Value, env)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case "+":
			return v, nil
		case "-":
			return -v, nil
		case "!":
			if v == 0 {
				return 1, nil
			}
			return 0, nil
		default:
			return 0, fmt.Errorf("line %d: unknown unary operator %q", n.Line, n.Op)
		}

	case *ast.Binary:
		// Short-circuit operators still fold both operands at compile time; there is no control flow to
		// short-circuit once everything is already known (spec.md §4.3).
		l, err := Eval(n.Left, env)
		if err != nil {
			return 0, err
		}
		r, err := Eval(n.Right, env)
		if err != nil {
			return 0, err
		}
		return evalBinary(n.Op, l, r, n.Line)

	case *ast.Call:
		return 0, fmt.Errorf("line %d: call to %q is not a constant expression", n.Line, n.Callee)

	default:
		return 0, fmt.Errorf("expression is not a compile-time constant")
	}
}

func evalBinary(op string, l, r, line int) (int, error) {
	b2i := func(b bool) int {
		if b {
			return 1
		}
		return 0
	}
	switch op {
	case "*":
		return l * r, nil
	case "/":
		if r == 0 {
			return 0, fmt.Errorf("line %d: division by zero in constant expression", line)
		}
		return l / r, nil
	case "%":
		if r == 0 {
			return 0, fmt.Errorf("line %d: modulus by zero in constant expression", line)
		}
		return l % r, nil
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "<":
		return b2i(l < r), nil
	case "<=":
		return b2i(l <= r), nil
	case ">":
		return b2i(l > r), nil
	case ">=":
		return b2i(l >= r), nil
	case "==":
		return b2i(l == r), nil
	case "!=":
		return b2i(l != r), nil
	case "&&":
		return b2i(l != 0 && r != 0), nil
	case "||":
		return b2i(l != 0 || r != 0), nil
	default:
		return 0, fmt.Errorf("line %d: unknown binary operator %q", line, op)
	}
}
