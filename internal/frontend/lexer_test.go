package frontend

import "testing"

// TestLexer checks that a short SysY snippet exercising every token family tokenizes as expected, the way
// the teacher compiler's lexer_test.go checks a sample program against a hand-built expectation table.
func TestLexer(t *testing.T) {
	src := `const int N = 0x1F;
int main() {
  int a[2] = {1, 2};
  if (a[0] <= N && !flag) {
    return a[0] + -1;
  }
  return 0;
}`
	exp := []itemType{
		itemKwConst, itemKwInt, itemIdent, itemAssign, itemInt, itemSemi,
		itemKwInt, itemIdent, itemLParen, itemRParen, itemLBrace,
		itemKwInt, itemIdent, itemLBracket, itemInt, itemRBracket, itemAssign,
		itemLBrace, itemInt, itemComma, itemInt, itemRBrace, itemSemi,
		itemKwIf, itemLParen, itemIdent, itemLBracket, itemInt, itemRBracket,
		itemLe, itemIdent, itemAnd, itemNot, itemIdent, itemRParen, itemLBrace,
		itemKwReturn, itemIdent, itemLBracket, itemInt, itemRBracket, itemPlus, itemMinus, itemInt, itemSemi,
		itemRBrace,
		itemKwReturn, itemInt, itemSemi,
		itemRBrace,
		itemEOF,
	}

	items := lex(src)
	for i1, want := range exp {
		got := <-items
		if got.typ == itemError {
			t.Fatalf("token %d: lexer error: %s", i1, got.val)
		}
		if got.typ != want {
			t.Fatalf("token %d: expected type %d, got %d (%q)", i1, want, got.typ, got.val)
		}
	}
}

func TestLexNumberBases(t *testing.T) {
	cases := []struct {
		src string
		val string
	}{
		{"0", "0"},
		{"42", "42"},
		{"0x2A", "0x2A"},
		{"052", "052"},
	}
	for _, c1 := range cases {
		items := lex(c1.src)
		got := <-items
		if got.typ != itemInt || got.val != c1.val {
			t.Errorf("%q: expected int %q, got %v %q", c1.src, c1.val, got.typ, got.val)
		}
	}
}

func TestIsKeyword(t *testing.T) {
	for _, kw := range []string{"if", "int", "void", "else", "while", "break", "const", "return", "continue"} {
		if ok, _ := isKeyword(kw); !ok {
			t.Errorf("%q should be a keyword", kw)
		}
	}
	for _, id := range []string{"iff", "i", "integer", "x", "returned"} {
		if ok, _ := isKeyword(id); ok {
			t.Errorf("%q should not be a keyword", id)
		}
	}
}
