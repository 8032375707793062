package koopair

import (
	"fmt"
	"strings"
)

// ---------------------
// ----- Functions -----
// ---------------------

// String renders the Program as Koopa IR text, in the same textual form the lowerer itself produces (spec.md
// §2's "AST ⟶ ... ⟶ IR text" data flow step). This is a debug convenience: no driver mode calls it, and the
// frame planner and emitter walk the parsed object graph directly.
func (p *Program) String() string {
	var b strings.Builder
	for _, g := range p.Globals {
		b.WriteString(g.globalString())
		b.WriteByte('\n')
	}
	if len(p.Globals) > 0 {
		b.WriteByte('\n')
	}
	for _, f := range p.Funcs {
		b.WriteString(f.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// String renders one function as Koopa IR text: a declaration line for runtime library functions, or a full
// definition with basic blocks for everything else.
func (f *Function) String() string {
	var b strings.Builder
	if f.IsDeclaration() {
		b.WriteString("decl @" + f.Name + "(")
		for i1, p1 := range f.Params {
			if i1 > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p1.String())
		}
		b.WriteString(")")
		if f.Ret.Kind != KindUnit {
			b.WriteString(": " + f.Ret.String())
		}
		b.WriteByte('\n')
		return b.String()
	}

	b.WriteString("fun @" + f.Name + "(")
	for i1, p1 := range f.Params {
		if i1 > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.ParamNames[i1] + ": " + p1.String())
	}
	b.WriteString(")")
	if f.Ret.Kind != KindUnit {
		b.WriteString(": " + f.Ret.String())
	}
	b.WriteString(" {\n")
	for _, bb := range f.Blocks {
		b.WriteString(bb.String())
	}
	b.WriteString("}\n")
	return b.String()
}

// String renders one basic block as a label followed by its indented instructions.
func (bb *BasicBlock) String() string {
	var b strings.Builder
	b.WriteString(bb.Label + ":\n")
	for _, v := range bb.Insts {
		b.WriteString("  " + v.String() + "\n")
	}
	return b.String()
}

// globalString renders a KindGlobalAlloc value as a top level "global @name = alloc T, INIT" line.
func (v *Value) globalString() string {
	return fmt.Sprintf("global %s = alloc %s, %s", v.Name, v.Typ.Elem.String(), v.GlobalInit.String())
}

// String renders the initializer the way it appears after a global alloc: an integer, "zeroinit", or a
// brace-enclosed, comma-separated list of child initializers.
func (in *Init) String() string {
	switch in.Kind {
	case InitInt:
		return fmt.Sprintf("%d", in.Int)
	case InitZero:
		return "zeroinit"
	default:
		var b strings.Builder
		b.WriteByte('{')
		for i1, e1 := range in.Elems {
			if i1 > 0 {
				b.WriteString(", ")
			}
			b.WriteString(e1.String())
		}
		b.WriteByte('}')
		return b.String()
	}
}

// operand renders a reference to v the way an instruction operand spells it: the value's own name if bound
// to one, or its literal form for an unnamed integer constant.
func operand(v *Value) string {
	if v == nil {
		return ""
	}
	if v.Kind == KindInteger {
		return fmt.Sprintf("%d", v.IntVal)
	}
	return v.Name
}

// String renders one instruction value as a Koopa IR text line (without leading indentation).
func (v *Value) String() string {
	lhs := ""
	if v.HasResult() && v.Name != "" {
		lhs = v.Name + " = "
	}
	switch v.Kind {
	case KindAlloc:
		return fmt.Sprintf("%salloc %s", lhs, v.Typ.Elem.String())
	case KindLoad:
		return fmt.Sprintf("%sload %s", lhs, operand(v.Src))
	case KindStore:
		return fmt.Sprintf("store %s, %s", operand(v.StoreVal), operand(v.StoreDst))
	case KindBinary:
		return fmt.Sprintf("%s%s %s, %s", lhs, v.Op, operand(v.LHS), operand(v.RHS))
	case KindGetElemPtr:
		return fmt.Sprintf("%sgetelemptr %s, %s", lhs, operand(v.Base), operand(v.Index))
	case KindGetPtr:
		return fmt.Sprintf("%sgetptr %s, %s", lhs, operand(v.Base), operand(v.Index))
	case KindCall:
		args := make([]string, len(v.Args))
		for i1, a1 := range v.Args {
			args[i1] = operand(a1)
		}
		return fmt.Sprintf("%scall @%s(%s)", lhs, v.Callee.Name, strings.Join(args, ", "))
	case KindBranch:
		return fmt.Sprintf("br %s, %s, %s", operand(v.Cond), v.IfTrue.Label, v.IfFalse.Label)
	case KindJump:
		return fmt.Sprintf("jump %s", v.Target.Label)
	case KindRet:
		if v.RetVal == nil {
			return "ret"
		}
		return fmt.Sprintf("ret %s", operand(v.RetVal))
	default:
		return fmt.Sprintf("; unsupported value kind %s", v.Kind)
	}
}
