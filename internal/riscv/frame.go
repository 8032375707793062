package riscv

import "sysyc/internal/koopair"

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Frame is the stack layout plan for one function, produced by PlanFrame before any assembly is emitted for
// that function. Layout, low to high address from sp: the outgoing-argument area (args 9+ of the largest call
// this function makes), the saved return address (if the function makes any call), then one slot per alloc'd
// local and per other result-producing value, in instruction order.
type Frame struct {
	Slots       map[*koopair.Value]int // byte offset from sp for every value with its own stack slot.
	ArgAreaSize int                     // bytes reserved for outgoing call arguments beyond the 8 register args.
	SaveRA      bool                    // true if this function makes at least one call and must save ra.
	RAOffset    int                     // valid only if SaveRA.
	MaxCallArgc int                     // largest argument count of any call this function makes.
	Size        int                     // total frame size, 16-byte aligned; this is exactly what sp moves by.
}

// ---------------------
// ----- Functions -----
// ---------------------

// PlanFrame assigns a stack offset to every IR value in fn that needs one. fn must not be a declaration.
func PlanFrame(fn *koopair.Function) *Frame {
	fr := &Frame{Slots: make(map[*koopair.Value]int)}

	for _, bb := range fn.Blocks {
		for _, v := range bb.Insts {
			if v.Kind != koopair.KindCall {
				continue
			}
			fr.SaveRA = true
			if len(v.Args) > fr.MaxCallArgc {
				fr.MaxCallArgc = len(v.Args)
			}
		}
	}
	if fr.MaxCallArgc > 8 {
		fr.ArgAreaSize = (fr.MaxCallArgc - 8) * wordSize
	}

	offset := fr.ArgAreaSize
	if fr.SaveRA {
		fr.RAOffset = offset
		offset += wordSize
	}

	for _, bb := range fn.Blocks {
		for _, v := range bb.Insts {
			switch {
			case v.Kind == koopair.KindAlloc:
				size := v.Typ.Elem.Size()
				if size < wordSize {
					size = wordSize
				}
				fr.Slots[v] = offset
				offset += size
			case v.HasResult():
				fr.Slots[v] = offset
				offset += wordSize
			}
		}
	}

	fr.Size = align(offset, stackAlign)
	return fr
}

func align(n, to int) int {
	return (n + to - 1) &^ (to - 1)
}
