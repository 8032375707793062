package riscv

import "sysyc/internal/koopair"

// ---------------------
// ----- Functions -----
// ---------------------

// emitInst emits the assembly for one instruction, terminators (branch, jump, ret) included. alloc produces no code of its own: its slot
// was already reserved by PlanFrame, and its "value" (an address) is computed lazily by load() wherever it is
// used as an operand.
func (g *gen) emitInst(v *koopair.Value) {
	switch v.Kind {
	case koopair.KindAlloc:
		// Nothing to emit; see load()'s KindAlloc case.
	case koopair.KindLoad:
		g.emitLoad(v)
	case koopair.KindStore:
		g.emitStore(v)
	case koopair.KindBinary:
		g.emitBinary(v)
	case koopair.KindGetElemPtr:
		g.emitGetElemPtr(v)
	case koopair.KindGetPtr:
		g.emitGetPtr(v)
	case koopair.KindCall:
		g.emitCall(v)
	case koopair.KindBranch:
		g.emitBranch(v)
	case koopair.KindJump:
		g.w.Printf("  j %s\n", g.asmLabel(v.Target.Label))
	case koopair.KindRet:
		g.emitRet(v)
	}
}

func (g *gen) emitLoad(v *koopair.Value) {
	g.load(v.Src, regT0)
	g.w.Printf("  lw %s, 0(%s)\n", regT0, regT0)
	g.store(v, regT0)
}

func (g *gen) emitStore(v *koopair.Value) {
	g.load(v.StoreVal, regT0)
	g.load(v.StoreDst, regT1)
	g.w.Printf("  sw %s, 0(%s)\n", regT0, regT1)
}

// binaryMnemonic carries the direct one-instruction translations; eq/ne/le/ge need a short fixed sequence
// instead (RISC-V 32I has no direct set-if-equal/less-or-equal instruction).
var binaryMnemonic = map[koopair.BinaryOp]string{
	koopair.Add: "add", koopair.Sub: "sub", koopair.Mul: "mul", koopair.Div: "div", koopair.Mod: "rem",
	koopair.And: "and", koopair.Or: "or",
}

func (g *gen) emitBinary(v *koopair.Value) {
	g.load(v.LHS, regT0)
	g.load(v.RHS, regT1)
	switch v.Op {
	case koopair.Lt:
		g.w.Printf("  slt %s, %s, %s\n", regT0, regT0, regT1)
	case koopair.Gt:
		g.w.Printf("  slt %s, %s, %s\n", regT0, regT1, regT0)
	case koopair.Le:
		g.w.Printf("  slt %s, %s, %s\n  xori %s, %s, 1\n", regT0, regT1, regT0, regT0, regT0)
	case koopair.Ge:
		g.w.Printf("  slt %s, %s, %s\n  xori %s, %s, 1\n", regT0, regT0, regT1, regT0, regT0)
	case koopair.Eq:
		g.w.Printf("  xor %s, %s, %s\n  seqz %s, %s\n", regT0, regT0, regT1, regT0, regT0)
	case koopair.Ne:
		g.w.Printf("  xor %s, %s, %s\n  snez %s, %s\n", regT0, regT0, regT1, regT0, regT0)
	default:
		g.w.Printf("  %s %s, %s, %s\n", binaryMnemonic[v.Op], regT0, regT0, regT1)
	}
	g.store(v, regT0)
}

// emitGetElemPtr descends one level of array nesting: base must point to an array, and the result steps by
// that array's element stride (one row, not one whole array), per spec.md's getelemptr/getptr distinction.
func (g *gen) emitGetElemPtr(v *koopair.Value) {
	stride := v.Base.Typ.Elem.Stride()
	g.emitIndexedAddr(v, stride)
}

// emitGetPtr performs raw pointer arithmetic: base already points directly at the element type, and the
// result steps by one whole element, staying the same pointer type (used for the first subscript of a
// pointer-parameter lvalue).
func (g *gen) emitGetPtr(v *koopair.Value) {
	stride := v.Base.Typ.Elem.Size()
	g.emitIndexedAddr(v, stride)
}

func (g *gen) emitIndexedAddr(v *koopair.Value, stride int) {
	g.load(v.Base, regT0)
	g.load(v.Index, regT1)
	g.w.Printf("  li %s, %d\n  mul %s, %s, %s\n  add %s, %s, %s\n", regT2, stride, regT1, regT1, regT2, regT0, regT0, regT1)
	g.store(v, regT0)
}

func (g *gen) emitCall(v *koopair.Value) {
	for i1, a1 := range v.Args {
		if i1 < 8 {
			g.load(a1, argReg(i1))
		} else {
			g.load(a1, regT0)
			g.w.Printf("  sw %s, %d(sp)\n", regT0, (i1-8)*wordSize)
		}
	}
	g.w.Printf("  call %s\n", v.Callee.Name)
	if v.Typ.Kind != koopair.KindUnit {
		g.store(v, "a0")
	}
}
