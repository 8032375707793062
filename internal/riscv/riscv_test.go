package riscv

import (
	"strings"
	"testing"

	"sysyc/internal/frontend"
	"sysyc/internal/koopair"
	"sysyc/internal/lower"
)

func buildProgram(t *testing.T, src string) *koopair.Program {
	t.Helper()
	cu, err := frontend.Parse(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	text, err := lower.Lower(cu)
	if err != nil {
		t.Fatalf("lowering error: %v", err)
	}
	prog, err := koopair.Parse(text)
	if err != nil {
		t.Fatalf("koopa parse error: %v\ntext:\n%s", err, text)
	}
	return prog
}

func TestPlanFrameSizeIsAligned(t *testing.T) {
	prog := buildProgram(t, `int f(int a, int b) { int x; int y; return a + b + x + y; }`)
	fn := prog.FuncByName("f")
	frame := PlanFrame(fn)
	if frame.Size%stackAlign != 0 {
		t.Fatalf("expected frame size to be 16-byte aligned, got %d", frame.Size)
	}
	if frame.SaveRA {
		t.Fatalf("expected f to not need to save ra, it makes no calls")
	}
}

func TestPlanFrameSavesRAWhenCallPresent(t *testing.T) {
	prog := buildProgram(t, `int g(int x) { return x; }
int f(int x) { return g(x); }`)
	fn := prog.FuncByName("f")
	frame := PlanFrame(fn)
	if !frame.SaveRA {
		t.Fatalf("expected f to save ra since it calls g")
	}
}

func TestPlanFrameArgAreaForManyArgs(t *testing.T) {
	prog := buildProgram(t, `int sum9(int a, int b, int c, int d, int e, int f1, int g1, int h, int i1) {
  return a + b + c + d + e + f1 + g1 + h + i1;
}
int caller() { return sum9(1,2,3,4,5,6,7,8,9); }`)
	fn := prog.FuncByName("caller")
	frame := PlanFrame(fn)
	if frame.ArgAreaSize != wordSize {
		t.Fatalf("expected a 1-word arg area for the 9th argument, got %d", frame.ArgAreaSize)
	}
}

func TestGenEmitsPrologueEpilogueAndRet(t *testing.T) {
	prog := buildProgram(t, `int f(int a, int b) { return a + b; }`)
	asm, err := Gen(prog)
	if err != nil {
		t.Fatalf("unexpected codegen error: %v", err)
	}
	if !strings.Contains(asm, ".globl f") || !strings.Contains(asm, "f:") {
		t.Fatalf("expected a .globl/label pair for f, got:\n%s", asm)
	}
	if !strings.Contains(asm, "add ") {
		t.Fatalf("expected an add instruction, got:\n%s", asm)
	}
	if !strings.Contains(asm, "ret") {
		t.Fatalf("expected a ret instruction, got:\n%s", asm)
	}
}

func TestGenRelationalLowerings(t *testing.T) {
	prog := buildProgram(t, `int f(int a, int b) { return a <= b; }`)
	asm, err := Gen(prog)
	if err != nil {
		t.Fatalf("unexpected codegen error: %v", err)
	}
	if !strings.Contains(asm, "slt") || !strings.Contains(asm, "xori") {
		t.Fatalf("expected <= to lower through slt+xori, got:\n%s", asm)
	}
}

func TestGenConcurrentMatchesSequentialOutput(t *testing.T) {
	prog := buildProgram(t, `int g = 7;
int add(int a, int b) { return a + b; }
int mul(int a, int b) { return a * b; }
int main() { return add(g, mul(2, 3)); }`)

	seq, err := Gen(prog)
	if err != nil {
		t.Fatalf("unexpected sequential codegen error: %v", err)
	}
	par, err := GenConcurrent(prog, 4)
	if err != nil {
		t.Fatalf("unexpected concurrent codegen error: %v", err)
	}
	if seq != par {
		t.Fatalf("expected GenConcurrent to reproduce Gen's declaration-ordered output\nsequential:\n%s\nconcurrent:\n%s", seq, par)
	}
}

func TestGenConcurrentFallsBackBelowTwoThreads(t *testing.T) {
	prog := buildProgram(t, `int f() { return 1; }`)
	asm, err := GenConcurrent(prog, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(asm, "f:") {
		t.Fatalf("expected f's label in output, got:\n%s", asm)
	}
}

func TestGenGlobalDataSection(t *testing.T) {
	prog := buildProgram(t, `int g = 7;
int f() { return g; }`)
	asm, err := Gen(prog)
	if err != nil {
		t.Fatalf("unexpected codegen error: %v", err)
	}
	if !strings.Contains(asm, ".data") || !strings.Contains(asm, ".word 7") {
		t.Fatalf("expected a .data section with .word 7, got:\n%s", asm)
	}
}
