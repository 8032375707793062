// Package label generates fresh basic block labels and fresh value/local names for one function being
// lowered. It is grounded on the teacher compiler's util/label.go channel-serialized counter-per-kind
// generator, generalized from that generator's seven fixed conditional/jump label kinds to the families this
// compiler's structured lowering needs: function entry, if/else/end, while head/body/end, short-circuit
// then/else/end, plus unnamed temporaries and suffixed local names.
package label

import "fmt"

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Kind identifies a family of generated labels.
type Kind int

// ---------------------
// ----- Constants -----
// ---------------------

const (
	IfThen Kind = iota
	IfElse
	IfEnd
	WhileEntry
	WhileBody
	WhileEnd
	ShortThen
	ShortElse
	ShortEnd
)

// prefixes provides the textual prefix emitted before a Kind's numeric suffix.
var prefixes = [...]string{
	"%then",
	"%else",
	"%end",
	"%while_entry",
	"%while_body",
	"%while_end",
	"%then_short",
	"%else_short",
	"%end_short",
}

// Gen generates fresh label and temporary names for a single function lowering. It is not safe for concurrent
// use by design: one Gen belongs to exactly one function lowering, which is single-threaded per spec.md §5.
type Gen struct {
	labelSeq  [len(prefixes)]int // Numeric suffix per label Kind.
	tempSeq   int                // Counter for unnamed temporaries (%0, %1, ...).
	localSeq  map[string]int     // Counter for named locals, keyed by source identifier.
	groupSeq  int                // Counter for label "series": one if/while/short-circuit gets one shared suffix.
}

// New returns a ready to use label generator.
func New() *Gen {
	return &Gen{localSeq: make(map[string]int)}
}

// NewGroup returns a fresh series number shared by every label belonging to one if, while, or short-circuit
// construct, e.g. group 3 yields %then_3 / %else_3 / %end_3 for one if-else.
func (g *Gen) NewGroup() int {
	n := g.groupSeq
	g.groupSeq++
	return n
}

// Label returns the label of Kind k for series group.
func (g *Gen) Label(k Kind, group int) string {
	return fmt.Sprintf("%s_%d", prefixes[k], group)
}

// Temp returns a fresh unnamed temporary value name, e.g. "%0".
func (g *Gen) Temp() string {
	n := g.tempSeq
	g.tempSeq++
	return fmt.Sprintf("%%%d", n)
}

// Local returns a fresh IR name for the source-level local identifier name, suffixed with a monotonically
// increasing integer so that shadowing declarations in nested scopes never collide, e.g. "@x_0" then "@x_1".
func (g *Gen) Local(name string) string {
	n := g.localSeq[name]
	g.localSeq[name] = n + 1
	return fmt.Sprintf("@%s_%d", name, n)
}
