package riscv

import (
	"sysyc/internal/emit"
	"sysyc/internal/koopair"
)

// ---------------------
// ----- Functions -----
// ---------------------

// Gen translates a whole parsed Koopa Program into RISC-V 32I assembly text: a ".data" section for every
// global, then a ".text" section with one prologue/body/epilogue per defined function. Declarations (the
// runtime library) emit nothing here; they are resolved by the linker against the provided runtime object.
func Gen(prog *koopair.Program) (string, error) {
	w := emit.New()

	if len(prog.Globals) > 0 {
		w.WriteString("  .data\n")
		for _, g1 := range prog.Globals {
			gg := &gen{w: w}
			gg.emitGlobal(g1)
		}
		w.WriteString("\n")
	}

	w.WriteString("  .text\n")
	for _, fn := range prog.Funcs {
		if fn.IsDeclaration() {
			continue
		}
		frame := PlanFrame(fn)
		gg := &gen{w: w, frame: frame, funcName: fn.Name}
		gg.emitFunction(fn)
	}
	return w.String(), nil
}

// emitGlobal emits one global variable's assembler label and data directives.
func (g *gen) emitGlobal(v *koopair.Value) {
	name := globalSymbol(v.Name)
	g.w.Printf("  .globl %s\n%s:\n", name, name)
	g.emitInitBody(*v.GlobalInit, *v.Typ.Elem)
}

// emitInitBody recursively emits the data directives for one (sub-)initializer of static type t.
func (g *gen) emitInitBody(init koopair.Init, t koopair.Type) {
	switch init.Kind {
	case koopair.InitInt:
		g.w.Printf("  .word %d\n", init.Int)
	case koopair.InitZero:
		g.w.Printf("  .zero %d\n", t.Size())
	case koopair.InitAggregate:
		for _, e1 := range init.Elems {
			g.emitInitBody(e1, *t.Elem)
		}
	}
}
