package lower

import (
	"strings"
	"testing"

	"sysyc/internal/frontend"
	"sysyc/internal/koopair"
)

func lowerSrc(t *testing.T, src string) string {
	t.Helper()
	cu, err := frontend.Parse(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	text, err := Lower(cu)
	if err != nil {
		t.Fatalf("lowering error: %v", err)
	}
	return text
}

func TestLowerSimpleFunctionRoundTripsThroughKoopaParser(t *testing.T) {
	src := `int add(int a, int b) { return a + b; }`
	text := lowerSrc(t, src)
	if !strings.Contains(text, "fun @add") {
		t.Fatalf("expected a fun @add declaration in lowered text, got:\n%s", text)
	}
	prog, err := koopair.Parse(text)
	if err != nil {
		t.Fatalf("failed to re-parse lowered IR: %v\ntext:\n%s", err, text)
	}
	fn := prog.FuncByName("add")
	if fn == nil || fn.IsDeclaration() {
		t.Fatalf("expected a defined function add in the parsed program")
	}
	if len(fn.Blocks) == 0 || fn.Blocks[0].Terminator() == nil {
		t.Fatalf("expected add's entry block to end in a terminator")
	}
}

func TestLowerIfElseTerminatesEveryBlock(t *testing.T) {
	src := `int f(int x) { if (x > 0) { return 1; } else { return 0; } }`
	text := lowerSrc(t, src)
	prog, err := koopair.Parse(text)
	if err != nil {
		t.Fatalf("failed to re-parse lowered IR: %v\ntext:\n%s", err, text)
	}
	fn := prog.FuncByName("f")
	if fn == nil {
		t.Fatalf("expected function f")
	}
	for _, bb := range fn.Blocks {
		if bb.Terminator() == nil {
			t.Errorf("block %q has no terminator", bb.Label)
		}
	}
}

func TestLowerWhileBreakContinue(t *testing.T) {
	src := `int f() {
  int i = 0;
  while (i < 10) {
    i = i + 1;
    if (i == 5) { continue; }
    if (i == 8) { break; }
  }
  return i;
}`
	text := lowerSrc(t, src)
	prog, err := koopair.Parse(text)
	if err != nil {
		t.Fatalf("failed to re-parse lowered IR: %v\ntext:\n%s", err, text)
	}
	if prog.FuncByName("f") == nil {
		t.Fatalf("expected function f")
	}
}

func TestLowerArrayInitZeroFill(t *testing.T) {
	src := `int a[3][2] = {{1}, {}, {5, 6}};
int f() { return a[2][1]; }`
	text := lowerSrc(t, src)
	if !strings.Contains(text, "global @a") {
		t.Fatalf("expected a global @a declaration, got:\n%s", text)
	}
	prog, err := koopair.Parse(text)
	if err != nil {
		t.Fatalf("failed to re-parse lowered IR: %v\ntext:\n%s", err, text)
	}
	g := prog.Globals[0]
	if g.GlobalInit == nil {
		t.Fatalf("expected a, global initializer")
	}
}

func TestLowerPointerParamSubscript(t *testing.T) {
	src := `int sum(int a[], int n) {
  int s = 0;
  int i = 0;
  while (i < n) {
    s = s + a[i];
    i = i + 1;
  }
  return s;
}`
	text := lowerSrc(t, src)
	prog, err := koopair.Parse(text)
	if err != nil {
		t.Fatalf("failed to re-parse lowered IR: %v\ntext:\n%s", err, text)
	}
	if prog.FuncByName("sum") == nil {
		t.Fatalf("expected function sum")
	}
	if !strings.Contains(text, "getptr") {
		t.Fatalf("expected at least one getptr for the pointer-parameter subscript, got:\n%s", text)
	}
}

func TestLowerShortCircuit(t *testing.T) {
	src := `int f(int a, int b) { return a > 0 && b > 0; }`
	text := lowerSrc(t, src)
	if _, err := koopair.Parse(text); err != nil {
		t.Fatalf("failed to re-parse lowered IR: %v\ntext:\n%s", err, text)
	}
	if !strings.Contains(text, "_tmp_short") {
		t.Fatalf("expected the short-circuit temp slot to appear, got:\n%s", text)
	}
}

func TestLowerCallToEarlierAndLaterFunction(t *testing.T) {
	src := `int earlier() { return later(21); }
int later(int x) { return x * 2; }
int callsBoth() { return earlier() + later(1); }`
	text := lowerSrc(t, src)
	prog, err := koopair.Parse(text)
	if err != nil {
		t.Fatalf("failed to re-parse lowered IR (forward/mutual ref support): %v\ntext:\n%s", err, text)
	}
	if prog.FuncByName("callsBoth") == nil {
		t.Fatalf("expected function callsBoth")
	}
}
