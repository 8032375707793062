// Package lower implements the AST to IR lowerer of spec.md §4.4: the single pass that walks a parsed
// compilation unit and appends Koopa IR text to an internal/emit.Writer. It is grounded throughout on the
// teacher compiler's backend/riscv tree-walking evaluator (ir.Node -> assembly), generalized one level up the
// pipeline to a tree-walking evaluator that targets Koopa IR text instead of assembly text directly.
package lower

import (
	"fmt"
	"strconv"

	"sysyc/internal/ast"
	"sysyc/internal/emit"
	"sysyc/internal/koopair"
	"sysyc/internal/label"
	"sysyc/internal/symtab"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// operand is how one already-computed IR value is handed from a child expression to its parent: the exact
// text to splice into the next instruction (a decimal literal or an IR name) plus its Koopa type, which later
// lowering steps need to decide between getelemptr and getptr, or between loading and decaying to an address.
type operand struct {
	text string
	typ  koopair.Type
}

// loopCtx records the two labels that break/continue resolve to inside one enclosing while loop.
type loopCtx struct {
	entry string // continue jumps here (the condition re-check block).
	end   string // break jumps here.
}

// Lowerer walks one compilation unit and appends Koopa IR text to w. A Lowerer is used for exactly one
// compilation unit; it is not safe for concurrent use, matching spec.md §5's single-threaded lowering pass.
type Lowerer struct {
	env  *symtab.Env
	w    *emit.Writer
	lbl  *label.Gen
	vals []operand // backing store of push/pop; no lowering helper uses it, since each returns its operand directly.
	loop []loopCtx

	curRet    koopair.Type // current function's declared return type; it picks "ret" or "ret 0" for the implicit trailing return.
	shortSlot string       // "@_tmp_short" of the function currently being lowered; allocated lazily, reset per function.
}

// ---------------------
// ----- Functions -----
// ---------------------

// Lower lowers a whole compilation unit to Koopa IR text.
func Lower(cu *ast.CompUnit) (string, error) {
	lo := &Lowerer{env: symtab.New(), w: emit.New()}

	for _, rt := range koopair.RuntimeLibrary {
		void := rt.Ret.Kind == koopair.KindUnit
		if err := lo.env.Insert(rt.Name, symtab.Binding{
			Kind: symtab.BindFunc, FuncName: rt.Name, ParamTypes: rt.Params, Void: void,
		}); err != nil {
			return "", err
		}
		lo.w.Printf("decl @%s(%s)%s\n", rt.Name, joinTypes(rt.Params), retClause(rt.Ret))
	}
	lo.w.WriteString("\n")

	// Pass 1: register every top-level function's signature up front, so a call to a function defined later in
	// the file (including mutual recursion) still resolves during pass 2.
	for _, item := range cu.Items {
		if fd, ok := item.(*ast.FuncDef); ok {
			if err := lo.registerFuncSig(fd); err != nil {
				return "", err
			}
		}
	}

	for _, item := range cu.Items {
		switch n := item.(type) {
		case *ast.Decl:
			if err := lo.lowerGlobalDecl(n); err != nil {
				return "", err
			}
		case *ast.FuncDef:
			if err := lo.lowerFuncDef(n); err != nil {
				return "", err
			}
		default:
			return "", fmt.Errorf("unknown top-level item %T", n)
		}
	}
	return lo.w.String(), nil
}

// push and pop implement a value stack over vals. No lowering helper calls them: every expression-lowering
// helper returns its operand to the caller directly, so sub-expressions hand results to their parents without
// mutating the syntax tree.
func (lo *Lowerer) push(o operand) { lo.vals = append(lo.vals, o) }

func (lo *Lowerer) pop() operand {
	n := len(lo.vals) - 1
	o := lo.vals[n]
	lo.vals = lo.vals[:n]
	return o
}

func imm(n int) operand { return operand{text: strconv.Itoa(n), typ: koopair.Int32} }

// registerFuncSig inserts fd's signature into the outermost scope without lowering its body.
func (lo *Lowerer) registerFuncSig(fd *ast.FuncDef) error {
	params := make([]koopair.Type, len(fd.Params))
	for i1, p1 := range fd.Params {
		params[i1] = paramKoopaType(p1.Typ)
	}
	return lo.env.Insert(fd.Name, symtab.Binding{
		Kind: symtab.BindFunc, FuncName: fd.Name, ParamTypes: params, Void: fd.Ret.Void,
	})
}

// paramKoopaType converts a parameter's source type to its Koopa type: a plain i32, or a pointer to a
// (possibly multi-dimensional) array built from the trailing fixed dimensions SysY requires on an array
// parameter after its first, always-omitted, dimension.
func paramKoopaType(t ast.Type) koopair.Type {
	if !t.Pointer {
		return koopair.Int32
	}
	elem := koopair.Int32
	for i1 := len(t.Dims) - 1; i1 >= 0; i1-- {
		elem = koopair.Array(elem, t.Dims[i1])
	}
	return koopair.Ptr(elem)
}

// retKoopaType converts a function's declared return type.
func retKoopaType(t ast.Type) koopair.Type {
	if t.Void {
		return koopair.Unit
	}
	return koopair.Int32
}

func joinTypes(ts []koopair.Type) string {
	s := ""
	for i1, t1 := range ts {
		if i1 > 0 {
			s += ", "
		}
		s += t1.String()
	}
	return s
}

func retClause(t koopair.Type) string {
	if t.Kind == koopair.KindUnit {
		return ""
	}
	return ": " + t.String()
}

func product(shape []int) int {
	n := 1
	for _, d1 := range shape {
		n *= d1
	}
	return n
}

// buildShapeType builds the Koopa element/array type for a declared variable of the given dimensions (empty
// for a plain scalar).
func buildShapeType(shape []int) koopair.Type {
	t := koopair.Int32
	for i1 := len(shape) - 1; i1 >= 0; i1-- {
		t = koopair.Array(t, shape[i1])
	}
	return t
}
