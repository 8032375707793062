package riscv

import "sysyc/internal/koopair"

// ---------------------
// ----- Functions -----
// ---------------------

// emitBranch lowers a two-way branch to a compare-and-branch plus an unconditional fallback jump.
func (g *gen) emitBranch(v *koopair.Value) {
	g.load(v.Cond, regT0)
	g.w.Printf("  bnez %s, %s\n  j %s\n", regT0, g.asmLabel(v.IfTrue.Label), g.asmLabel(v.IfFalse.Label))
}

// asmLabel qualifies a Koopa block label with the owning function's name, since two functions may otherwise
// generate identically numbered labels (e.g. two "%end_0"s) in the flat assembly namespace.
func (g *gen) asmLabel(koopaLabel string) string {
	return g.funcName + "_" + koopaLabel[1:]
}
