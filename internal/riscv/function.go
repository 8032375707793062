package riscv

import "sysyc/internal/koopair"

// ---------------------
// ----- Functions -----
// ---------------------

// emitFunction emits one function's prologue, body, and epilogue(s). fn must not be a declaration.
func (g *gen) emitFunction(fn *koopair.Function) {
	g.w.Printf("  .globl %s\n%s:\n", fn.Name, fn.Name)
	g.emitPrologue()
	for _, bb := range fn.Blocks {
		if bb != fn.Entry() {
			g.w.Printf("%s:\n", g.asmLabel(bb.Label))
		}
		for _, inst := range bb.Insts {
			g.emitInst(inst)
		}
	}
}

func (g *gen) emitPrologue() {
	if g.frame.Size == 0 {
		return
	}
	g.w.Printf("  addi sp, sp, -%d\n", g.frame.Size)
	if g.frame.SaveRA {
		g.w.Printf("  sw %s, %d(sp)\n", regRA, g.frame.RAOffset)
	}
}

func (g *gen) emitEpilogue() {
	if g.frame.SaveRA {
		g.w.Printf("  lw %s, %d(sp)\n", regRA, g.frame.RAOffset)
	}
	if g.frame.Size != 0 {
		g.w.Printf("  addi sp, sp, %d\n", g.frame.Size)
	}
}

// emitRet loads the return value into a0 (if any), restores the frame, and returns. Every return statement
// lowers to its own ret instruction, so every return site gets its own, independent copy of the epilogue.
func (g *gen) emitRet(v *koopair.Value) {
	if v.RetVal != nil {
		g.load(v.RetVal, "a0")
	}
	g.emitEpilogue()
	g.w.WriteString("  ret\n")
}
