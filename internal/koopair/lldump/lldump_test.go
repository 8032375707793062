package lldump

import (
	"strings"
	"testing"

	"sysyc/internal/koopair"
)

func TestGlobalSymbolAndBlockNameStripSigils(t *testing.T) {
	if got := globalSymbol("@g"); got != "g" {
		t.Fatalf("expected @g to strip to g, got %q", got)
	}
	if got := globalSymbol("g"); got != "g" {
		t.Fatalf("expected a bare name to pass through unchanged, got %q", got)
	}
	if got := blockName("%entry"); got != "entry" {
		t.Fatalf("expected %%entry to strip to entry, got %q", got)
	}
}

func TestDumpRendersFunctionAndGlobal(t *testing.T) {
	src := `global @g = alloc i32, 7

fun @f(): i32 {
%entry:
  %0 = load @g
  ret %0
}
`
	prog, err := koopair.Parse(src)
	if err != nil {
		t.Fatalf("unexpected koopa parse error: %v", err)
	}
	ll, err := Dump(prog, "test")
	if err != nil {
		t.Fatalf("unexpected dump error: %v", err)
	}
	if !strings.Contains(ll, "@g") {
		t.Fatalf("expected the dumped module to reference global g, got:\n%s", ll)
	}
	if !strings.Contains(ll, "define") || !strings.Contains(ll, "@f") {
		t.Fatalf("expected a defined function f, got:\n%s", ll)
	}
}
