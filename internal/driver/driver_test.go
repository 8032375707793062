package driver

import "testing"

func TestParseArgsDefaultsToRISCV(t *testing.T) {
	opt, err := ParseArgs([]string{"a.sy"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !opt.RISCV || opt.Koopa {
		t.Fatalf("expected RISC-V to be the default mode, got %+v", opt)
	}
	if opt.Src != "a.sy" {
		t.Fatalf("expected Src to be a.sy, got %q", opt.Src)
	}
	if opt.Threads != 1 {
		t.Fatalf("expected the default thread count to be 1, got %d", opt.Threads)
	}
}

func TestParseArgsKoopaAndRiscvAreExclusive(t *testing.T) {
	if _, err := ParseArgs([]string{"-koopa", "-riscv", "a.sy"}); err == nil {
		t.Fatalf("expected an error combining -koopa and -riscv")
	}
}

func TestParseArgsOutputAndThreads(t *testing.T) {
	opt, err := ParseArgs([]string{"-koopa", "-o", "out.koopa", "-j", "4", "a.sy"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !opt.Koopa || opt.Out != "out.koopa" || opt.Threads != 4 || opt.Src != "a.sy" {
		t.Fatalf("unexpected options: %+v", opt)
	}
}

func TestParseArgsRejectsBadThreadCount(t *testing.T) {
	if _, err := ParseArgs([]string{"-j", "0", "a.sy"}); err == nil {
		t.Fatalf("expected an error for a thread count of 0")
	}
	if _, err := ParseArgs([]string{"-j", "nope", "a.sy"}); err == nil {
		t.Fatalf("expected an error for a non-integer thread count")
	}
}

func TestParseArgsRejectsUnknownFlag(t *testing.T) {
	if _, err := ParseArgs([]string{"-bogus"}); err == nil {
		t.Fatalf("expected an error for an unknown flag")
	}
}
