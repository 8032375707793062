package frontend

// reservedItem pairs one reserved word with the token type it lexes to.
type reservedItem struct {
	val string
	typ itemType
}

// rw holds every SysY keyword bucketed by length (the first dimension is len(word)-1), the way the teacher
// compiler's lang.go does it: indexing by length before scanning the (short) bucket is faster than a hash
// table lookup for a keyword set this small.
var rw = [...][]reservedItem{
	{},                                     // One-grams: none.
	{{val: "if", typ: itemKwIf}},           // Two-grams.
	{{val: "int", typ: itemKwInt}},         // Three-grams.
	{ // Four-grams.
		{val: "void", typ: itemKwVoid},
		{val: "else", typ: itemKwElse},
	},
	{ // Five-grams.
		{val: "break", typ: itemKwBreak},
		{val: "while", typ: itemKwWhile},
		{val: "const", typ: itemKwConst},
	},
	{{val: "return", typ: itemKwReturn}},   // Six-grams.
	{},                                     // Seven-grams: none.
	{{val: "continue", typ: itemKwContinue}}, // Eight-grams.
}

// isKeyword reports whether s is a reserved SysY word, and if so, which token type it lexes to.
func isKeyword(s string) (bool, itemType) {
	if len(s) == 0 || len(s) > len(rw) {
		return false, itemIdent
	}
	for _, e1 := range rw[len(s)-1] {
		if e1.val == s {
			return true, e1.typ
		}
	}
	return false, itemIdent
}
