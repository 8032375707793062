package lower

import (
	"fmt"

	"sysyc/internal/ast"
	"sysyc/internal/koopair"
	"sysyc/internal/label"
	"sysyc/internal/symtab"
)

// ---------------------
// ----- Functions -----
// ---------------------

// lowerExpr lowers an expression to an operand, materializing whatever instructions are needed and returning
// the result directly to its caller; the value stack (push/pop) is not used.
func (lo *Lowerer) lowerExpr(e ast.Expr) (operand, error) {
	switch n := e.(type) {
	case *ast.IntLit:
		return imm(n.Value), nil

	case *ast.LValue:
		return lo.lowerLValueRead(n)

	case *ast.Unary:
		return lo.lowerUnary(n)

	case *ast.Binary:
		switch n.Op {
		case "&&", "||":
			return lo.lowerShortCircuit(n)
		default:
			return lo.lowerBinary(n)
		}

	case *ast.Call:
		return lo.lowerCall(n)

	default:
		return operand{}, fmt.Errorf("lower: unknown expression node %T", n)
	}
}

func (lo *Lowerer) lowerUnary(n *ast.Unary) (operand, error) {
	v, err := lo.lowerExpr(n.Value)
	if err != nil {
		return operand{}, err
	}
	switch n.Op {
	case "+":
		return v, nil
	case "-":
		tmp := lo.lbl.Temp()
		lo.w.Printf("  %s = sub 0, %s\n", tmp, v.text)
		return operand{text: tmp, typ: koopair.Int32}, nil
	case "!":
		tmp := lo.lbl.Temp()
		lo.w.Printf("  %s = eq %s, 0\n", tmp, v.text)
		return operand{text: tmp, typ: koopair.Int32}, nil
	default:
		return operand{}, fmt.Errorf("line %d: unknown unary operator %q", n.Line, n.Op)
	}
}

// binaryMnemonic maps every source operator except && and || (handled by lowerShortCircuit) to its Koopa
// mnemonic.
var binaryMnemonic = map[string]string{
	"+": "add", "-": "sub", "*": "mul", "/": "div", "%": "mod",
	"<": "lt", "<=": "le", ">": "gt", ">=": "ge", "==": "eq", "!=": "ne",
}

func (lo *Lowerer) lowerBinary(n *ast.Binary) (operand, error) {
	l, err := lo.lowerExpr(n.Left)
	if err != nil {
		return operand{}, err
	}
	r, err := lo.lowerExpr(n.Right)
	if err != nil {
		return operand{}, err
	}
	mnem, ok := binaryMnemonic[n.Op]
	if !ok {
		return operand{}, fmt.Errorf("line %d: unknown binary operator %q", n.Line, n.Op)
	}
	tmp := lo.lbl.Temp()
	lo.w.Printf("  %s = %s %s, %s\n", tmp, mnem, l.text, r.text)
	return operand{text: tmp, typ: koopair.Int32}, nil
}

// lowerShortCircuit lowers && and || through the three-block diamond of spec.md §4.4: evaluate the left
// operand and branch on its truth value; on the path where the right operand decides the result, evaluate it
// and store its 0/1 value, otherwise store the constant result (0 for &&, 1 for ||), into one stack slot shared
// by every short-circuit in the current function (@_tmp_short); then load the slot as the expression's value. Both operands are normalized to 0/1 before being combined, matching C's boolean-result
// semantics for && and ||.
func (lo *Lowerer) lowerShortCircuit(n *ast.Binary) (operand, error) {
	if lo.shortSlot == "" {
		lo.shortSlot = "@_tmp_short"
		lo.w.Printf("  %s = alloc i32\n", lo.shortSlot)
	}

	l, err := lo.lowerExpr(n.Left)
	if err != nil {
		return operand{}, err
	}
	group := lo.lbl.NewGroup()
	thenL := lo.lbl.Label(label.ShortThen, group)
	elseL := lo.lbl.Label(label.ShortElse, group)
	endL := lo.lbl.Label(label.ShortEnd, group)

	lBool := lo.lbl.Temp()
	lo.w.Printf("  %s = ne %s, 0\n", lBool, l.text)

	if n.Op == "&&" {
		// Left is false: short-circuit to false without evaluating the right operand.
		lo.w.Printf("  br %s, %s, %s\n", lBool, thenL, elseL)
		lo.w.Mute()
		lo.w.Label(thenL)
		r, err := lo.lowerExpr(n.Right)
		if err != nil {
			return operand{}, err
		}
		rBool := lo.lbl.Temp()
		lo.w.Printf("  %s = ne %s, 0\n", rBool, r.text)
		lo.w.Printf("  store %s, %s\n", rBool, lo.shortSlot)
		lo.w.Printf("  jump %s\n", endL)
		lo.w.Mute()
		lo.w.Label(elseL)
		lo.w.Printf("  store 0, %s\n", lo.shortSlot)
		lo.w.Printf("  jump %s\n", endL)
		lo.w.Mute()
	} else {
		// Left is true: short-circuit to true without evaluating the right operand.
		lo.w.Printf("  br %s, %s, %s\n", lBool, thenL, elseL)
		lo.w.Mute()
		lo.w.Label(thenL)
		lo.w.Printf("  store 1, %s\n", lo.shortSlot)
		lo.w.Printf("  jump %s\n", endL)
		lo.w.Mute()
		lo.w.Label(elseL)
		r, err := lo.lowerExpr(n.Right)
		if err != nil {
			return operand{}, err
		}
		rBool := lo.lbl.Temp()
		lo.w.Printf("  %s = ne %s, 0\n", rBool, r.text)
		lo.w.Printf("  store %s, %s\n", rBool, lo.shortSlot)
		lo.w.Printf("  jump %s\n", endL)
		lo.w.Mute()
	}

	lo.w.Label(endL)
	tmp := lo.lbl.Temp()
	lo.w.Printf("  %s = load %s\n", tmp, lo.shortSlot)
	return operand{text: tmp, typ: koopair.Int32}, nil
}

func (lo *Lowerer) lowerCall(n *ast.Call) (operand, error) {
	b, err := lo.env.Lookup(n.Callee)
	if err != nil {
		return operand{}, err
	}
	if b.Kind != symtab.BindFunc {
		return operand{}, fmt.Errorf("line %d: %q is not a function", n.Line, n.Callee)
	}
	if len(n.Args) != len(b.ParamTypes) {
		return operand{}, fmt.Errorf("line %d: %q expects %d argument(s), got %d", n.Line, n.Callee, len(b.ParamTypes), len(n.Args))
	}

	// Arguments are evaluated left to right, each fully materialized before the next is lowered, matching C's
	// (and the teacher's) left-to-right evaluation order; the call instruction is only emitted once every
	// argument operand is in hand.
	argTexts := make([]string, len(n.Args))
	for i1, a1 := range n.Args {
		op, err := lo.lowerExpr(a1)
		if err != nil {
			return operand{}, err
		}
		argTexts[i1] = op.text
	}

	args := ""
	for i1, t1 := range argTexts {
		if i1 > 0 {
			args += ", "
		}
		args += t1
	}

	if b.Void {
		lo.w.Printf("  call @%s(%s)\n", n.Callee, args)
		return operand{text: "0", typ: koopair.Int32}, nil
	}
	tmp := lo.lbl.Temp()
	lo.w.Printf("  %s = call @%s(%s)\n", tmp, n.Callee, args)
	return operand{text: tmp, typ: koopair.Int32}, nil
}

// lowerLValueAddr computes the address an lvalue's subscripts denote: a pointer to the scalar the lvalue
// fully reaches, or, if fewer subscripts were given than the variable's declared depth, a pointer to the
// remaining sub-array (array-to-pointer decay, used when passing part of an array to a function).
func (lo *Lowerer) lowerLValueAddr(lv *ast.LValue) (operand, error) {
	b, err := lo.env.Lookup(lv.Name)
	if err != nil {
		return operand{}, err
	}
	if b.Kind != symtab.BindVar {
		return operand{}, fmt.Errorf("line %d: %q is not a variable", lv.Line, lv.Name)
	}

	cur := b.Storage
	curTyp := b.SlotType

	if b.IsPtrArg {
		// The slot holds an incoming pointer value, not the addressed data itself; load it once before
		// indexing, the one case where an lvalue's "address" requires a load to produce.
		tmp := lo.lbl.Temp()
		lo.w.Printf("  %s = load %s\n", tmp, cur)
		cur = tmp
		curTyp = *curTyp.Elem
	}

	for i1, idxExpr := range lv.Indices {
		idxOp, err := lo.lowerExpr(idxExpr)
		if err != nil {
			return operand{}, err
		}
		tmp := lo.lbl.Temp()
		if i1 == 0 && b.IsPtrArg {
			// Pointer arithmetic on the incoming pointer itself: steps by one whole element, staying the same
			// pointer type, rather than descending a level of array nesting.
			lo.w.Printf("  %s = getptr %s, %s\n", tmp, cur, idxOp.text)
		} else {
			lo.w.Printf("  %s = getelemptr %s, %s\n", tmp, cur, idxOp.text)
			curTyp = koopair.Ptr(*curTyp.Elem.Elem)
		}
		cur = tmp
	}
	return operand{text: cur, typ: curTyp}, nil
}

// lowerLValueRead reads an lvalue's value: a folded constant, a loaded scalar, or a decayed array address.
func (lo *Lowerer) lowerLValueRead(lv *ast.LValue) (operand, error) {
	b, err := lo.env.Lookup(lv.Name)
	if err != nil {
		return operand{}, err
	}
	if b.Kind == symtab.BindConst {
		if len(lv.Indices) != 0 {
			return operand{}, fmt.Errorf("line %d: %q is a constant, not an array", lv.Line, lv.Name)
		}
		return imm(b.ConstVal), nil
	}

	addr, err := lo.lowerLValueAddr(lv)
	if err != nil {
		return operand{}, err
	}

	// A still-array-typed address (a partially subscripted array, or the bare array name), or a zero-index
	// reference to a pointer parameter, denotes the array/pointer itself rather than a scalar to load: this is
	// SysY's array-to-pointer argument-passing rule.
	if addr.typ.Elem.Kind == koopair.KindArray || (b.IsPtrArg && len(lv.Indices) == 0) {
		return addr, nil
	}
	tmp := lo.lbl.Temp()
	lo.w.Printf("  %s = load %s\n", tmp, addr.text)
	return operand{text: tmp, typ: *addr.typ.Elem}, nil
}
