// Package riscv implements the frame planner and IR-to-assembly emitter of spec.md §4.5 and §4.6: one pass
// assigning every IR value a fixed stack slot (spec.md deliberately specifies no register allocation), and a
// second pass walking each function's basic blocks translating every koopair.Value into RISC-V 32I text.
//
// Grounded on the teacher compiler's backend/riscv/riscv.go register-name tables, 12-bit immediate window and
// stack-alignment constants, adapted from its (incomplete, TODO-stubbed) register-allocating tree evaluator
// into a complete load/operate/store generator that spills every intermediate result to its planned stack slot
// immediately, the way a straightforward non-optimizing backend does.
package riscv

import "strconv"

// ---------------------
// ----- Constants -----
// ---------------------

// wordSize is the size in bytes of a register-width value on this 32-bit target.
const wordSize = 4

// stackAlign is the byte alignment RISC-V requires of the stack pointer at a call boundary.
const stackAlign = 16

// maxImm and minImm bound the 12-bit signed immediate window of addi/lw/sw. Nothing in this package checks an
// offset or frame size against them; they are kept for parity with the teacher's constants.
const maxImm = 2047
const minImm = -2048

// scratch registers used to stage operands for one instruction at a time. t0-t2 are always caller-saved
// temporaries under the RISC-V calling convention, so no value may be live in them across an instruction
// boundary; every operand is reloaded from its frame slot (or computed) immediately before use.
const (
	regT0 = "t0"
	regT1 = "t1"
	regT2 = "t2"
	regRA = "ra"
	regSP = "sp"
)

func argReg(i int) string {
	return "a" + strconv.Itoa(i)
}
