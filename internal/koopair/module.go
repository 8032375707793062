package koopair

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Program is a list of global values (global allocations) and a list of functions, including the eight
// runtime library declarations (spec.md §6), which always appear first with no body.
type Program struct {
	Globals []*Value
	Funcs   []*Function
}

// RuntimeLibrary is the fixed set of externally implemented functions every program declares, in the order
// spec.md §6 lists them.
var RuntimeLibrary = []struct {
	Name   string
	Params []Type
	Ret    Type
}{
	{"getint", nil, Int32},
	{"getch", nil, Int32},
	{"getarray", []Type{Ptr(Int32)}, Int32},
	{"putint", []Type{Int32}, Unit},
	{"putch", []Type{Int32}, Unit},
	{"putarray", []Type{Int32, Ptr(Int32)}, Unit},
	{"starttime", nil, Unit},
	{"stoptime", nil, Unit},
}

// NewProgram returns a Program pre-populated with declarations for the runtime library, so that calls to
// getint/putint/etc. resolve to a *Function from the very start of lowering.
func NewProgram() *Program {
	p := &Program{}
	for _, e1 := range RuntimeLibrary {
		p.Funcs = append(p.Funcs, &Function{
			Name:   e1.Name,
			Params: e1.Params,
			Ret:    e1.Ret,
		})
	}
	return p
}

// FuncByName returns the function named name, or nil if none exists.
func (p *Program) FuncByName(name string) *Function {
	for _, e1 := range p.Funcs {
		if e1.Name == name {
			return e1
		}
	}
	return nil
}
