package emit

import "testing"

func TestMuteDiscardsUntilNextLabel(t *testing.T) {
	w := New()
	w.WriteString("%entry:\n")
	w.Printf("  %%0 = add %d, %d\n", 1, 2)
	w.Mute()
	w.WriteString("  this line must never appear\n")
	w.Printf("  %s\n", "neither must this one")
	if w.Muted() != true {
		t.Fatalf("expected Writer to report muted")
	}
	w.Label("%next")
	if w.Muted() {
		t.Fatalf("expected Label to unmute the Writer")
	}
	w.WriteString("  ret\n")

	got := w.String()
	want := "%entry:\n  %0 = add 1, 2\n%next:\n  ret\n"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestLenTracksBufferedBytes(t *testing.T) {
	w := New()
	w.WriteString("abc")
	if w.Len() != 3 {
		t.Fatalf("expected length 3, got %d", w.Len())
	}
	w.Mute()
	w.WriteString("ignored")
	if w.Len() != 3 {
		t.Fatalf("expected length to stay 3 while muted, got %d", w.Len())
	}
}
