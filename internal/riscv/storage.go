package riscv

import (
	"fmt"

	"sysyc/internal/emit"
	"sysyc/internal/koopair"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// gen holds the state of one function's emission pass: the shared output sink, that function's frame plan,
// and its name (used to qualify every block label so two functions' identically-named Koopa labels, e.g. two
// "%end_0"s, never collide in the flat assembly namespace).
type gen struct {
	w        *emit.Writer
	frame    *Frame
	funcName string
}

// ---------------------
// ----- Functions -----
// ---------------------

// load materializes operand v's value into register reg. This is the abstract-storage dispatch of spec.md
// §4.6: an immediate is a pseudo "li", an incoming-parameter reference is either already in an argument
// register or a caller-pushed stack slot above this frame, a local/global alloc's "value" is its address
// rather than its contents, and everything else (load/binary/getelemptr/getptr/call results) was already
// spilled to its planned frame slot the instant it was computed, so it is reloaded from there.
func (g *gen) load(v *koopair.Value, reg string) {
	switch v.Kind {
	case koopair.KindInteger:
		g.w.Printf("  li %s, %d\n", reg, v.IntVal)
	case koopair.KindArgRef:
		if v.ArgIndex < 8 {
			if reg != argReg(v.ArgIndex) {
				g.w.Printf("  mv %s, %s\n", reg, argReg(v.ArgIndex))
			}
		} else {
			off := g.frame.Size + (v.ArgIndex-8)*wordSize
			g.w.Printf("  lw %s, %d(sp)\n", reg, off)
		}
	case koopair.KindAlloc:
		g.w.Printf("  addi %s, sp, %d\n", reg, g.mustSlot(v))
	case koopair.KindGlobalAlloc:
		g.w.Printf("  la %s, %s\n", reg, globalSymbol(v.Name))
	default:
		g.w.Printf("  lw %s, %d(sp)\n", reg, g.mustSlot(v))
	}
}

// store spills register reg into v's planned frame slot.
func (g *gen) store(v *koopair.Value, reg string) {
	g.w.Printf("  sw %s, %d(sp)\n", reg, g.mustSlot(v))
}

func (g *gen) mustSlot(v *koopair.Value) int {
	off, ok := g.frame.Slots[v]
	if !ok {
		panic(fmt.Sprintf("riscv: value of kind %s has no planned frame slot", v.Kind))
	}
	return off
}

// globalSymbol strips the Koopa "@" sigil so the name can be used as an assembler symbol.
func globalSymbol(name string) string {
	return name[1:]
}
