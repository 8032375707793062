package label

import "testing"

func TestLabelSeriesGrouping(t *testing.T) {
	g := New()
	grp := g.NewGroup()
	then := g.Label(IfThen, grp)
	els := g.Label(IfElse, grp)
	end := g.Label(IfEnd, grp)
	if then != "%then_0" || els != "%else_0" || end != "%end_0" {
		t.Fatalf("expected %%then_0/%%else_0/%%end_0, got %s/%s/%s", then, els, end)
	}

	grp2 := g.NewGroup()
	if g.Label(IfThen, grp2) != "%then_1" {
		t.Fatalf("expected a fresh group to bump the series number")
	}
}

func TestTempIsMonotonic(t *testing.T) {
	g := New()
	if g.Temp() != "%0" || g.Temp() != "%1" || g.Temp() != "%2" {
		t.Fatalf("expected sequential unnamed temporaries")
	}
}

func TestLocalSuffixesByIdentifier(t *testing.T) {
	g := New()
	if g.Local("x") != "@x_0" {
		t.Fatalf("expected first x to be @x_0")
	}
	if g.Local("y") != "@y_0" {
		t.Fatalf("expected y's counter to be independent of x's")
	}
	if g.Local("x") != "@x_1" {
		t.Fatalf("expected shadowing x to bump to @x_1")
	}
}
