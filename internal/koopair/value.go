package koopair

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// ValueKind differentiates the kinds of Value described in spec.md §3.
type ValueKind int

// BinaryOp is one of the binary operations a Value of KindBinary performs.
type BinaryOp int

// ---------------------
// ----- Constants -----
// ---------------------

const (
	KindInteger ValueKind = iota
	KindArgRef
	KindAlloc
	KindGlobalAlloc
	KindLoad
	KindStore
	KindBinary
	KindGetElemPtr
	KindGetPtr
	KindCall
	KindBranch
	KindJump
	KindRet
)

var valueKindNames = [...]string{
	"integer",
	"arg-ref",
	"alloc",
	"global-alloc",
	"load",
	"store",
	"binary",
	"getelemptr",
	"getptr",
	"call",
	"branch",
	"jump",
	"ret",
}

// String returns a print friendly name for the ValueKind.
func (k ValueKind) String() string { return valueKindNames[k] }

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Mod
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
	And
	Or
)

var binaryOpNames = [...]string{
	"add", "sub", "mul", "div", "mod",
	"eq", "ne", "lt", "le", "gt", "ge",
	"and", "or",
}

// String returns the Koopa IR mnemonic for the BinaryOp.
func (op BinaryOp) String() string { return binaryOpNames[op] }

// Value is the single unit of identity in the IR: an integer literal, a function argument reference, a
// memory allocation, a load/store, an arithmetic or relational op, address arithmetic, a call, or one of the
// three terminators. Exactly which payload fields are meaningful is determined by Kind; this mirrors the
// teacher compiler's tagged-union ir.Node (Typ discriminates which of Node.Data/Children apply).
type Value struct {
	Kind ValueKind
	Typ  Type   // Result type. Unit for store/branch/jump/ret.
	Name string // IR-level name this value is bound to, e.g. "%3" or "@x_1"; empty if never named.

	// KindInteger
	IntVal int

	// KindArgRef
	ArgIndex int

	// KindAlloc / KindGlobalAlloc: Typ is the pointer type, the allocated type is *Typ.Elem.
	GlobalInit *Init // Initializer for KindGlobalAlloc; nil otherwise.

	// KindLoad
	Src *Value

	// KindStore
	StoreVal *Value
	StoreDst *Value

	// KindBinary
	Op   BinaryOp
	LHS  *Value
	RHS  *Value

	// KindGetElemPtr / KindGetPtr
	Base  *Value
	Index *Value

	// KindCall
	Callee            *Function
	Args              []*Value
	calleeNamePending string // Set by the text parser until resolveCallees links Callee in a final pass.

	// KindBranch
	Cond   *Value
	IfTrue *BasicBlock
	IfFalse *BasicBlock

	// KindJump
	Target *BasicBlock

	// KindRet
	RetVal *Value // nil for bare "ret".
}

// InitKind differentiates the forms a global initializer can take.
type InitKind int

const (
	InitInt InitKind = iota
	InitZero
	InitAggregate
)

// Init is a (possibly nested) global initializer: an integer literal, zeroinit, or a brace-enclosed
// aggregate of child Inits, per spec.md §4.4's "Globals" rule.
type Init struct {
	Kind  InitKind
	Int   int
	Elems []Init
}

// IsTerminator reports whether the value is one of the three terminator kinds (spec.md invariant 1).
func (v *Value) IsTerminator() bool {
	switch v.Kind {
	case KindBranch, KindJump, KindRet:
		return true
	default:
		return false
	}
}

// HasResult reports whether the value produces a usable result (as opposed to store/branch/jump/ret, which
// are unit-typed and exist only for their side effect).
func (v *Value) HasResult() bool {
	return v.Typ.Kind != KindUnit
}
