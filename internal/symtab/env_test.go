package symtab

import "testing"

func TestInsertLookupShadowing(t *testing.T) {
	e1 := New()
	if err := e1.Insert("x", Binding{Kind: BindConst, ConstVal: 1}); err != nil {
		t.Fatalf("unexpected error inserting x: %v", err)
	}
	e1.Push()
	if err := e1.Insert("x", Binding{Kind: BindConst, ConstVal: 2}); err != nil {
		t.Fatalf("unexpected error shadowing x: %v", err)
	}
	b, err := e1.Lookup("x")
	if err != nil || b.ConstVal != 2 {
		t.Fatalf("expected innermost x == 2, got %+v, err %v", b, err)
	}
	e1.Pop()
	b, err = e1.Lookup("x")
	if err != nil || b.ConstVal != 1 {
		t.Fatalf("expected outer x == 1 after pop, got %+v, err %v", b, err)
	}
}

func TestDuplicateDeclarationInSameScope(t *testing.T) {
	e1 := New()
	if err := e1.Insert("x", Binding{Kind: BindConst}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e1.Insert("x", Binding{Kind: BindConst}); err == nil {
		t.Fatalf("expected an error redeclaring x in the same scope")
	}
}

func TestLookupUndeclared(t *testing.T) {
	e1 := New()
	if _, err := e1.Lookup("nope"); err == nil {
		t.Fatalf("expected an error looking up an undeclared identifier")
	}
}

func TestPopNeverDropsOutermostFrame(t *testing.T) {
	e1 := New()
	e1.Pop()
	if e1.Depth() != 1 {
		t.Fatalf("expected Pop on a fresh Env to be a no-op, got depth %d", e1.Depth())
	}
}

func TestDepthTracksPushPop(t *testing.T) {
	e1 := New()
	e1.Push()
	e1.Push()
	if e1.Depth() != 3 {
		t.Fatalf("expected depth 3 after two pushes, got %d", e1.Depth())
	}
	e1.Pop()
	if e1.Depth() != 2 {
		t.Fatalf("expected depth 2 after one pop, got %d", e1.Depth())
	}
}
