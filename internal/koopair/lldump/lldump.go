// Package lldump builds an LLVM IR module mirroring a lowered Koopa program and prints its textual form. It
// is a debug side-channel only: the RISC-V backend never reads from or depends on it, the same way the
// teacher compiler's own "-ll" path (ir/llvm/transform.go) never fell through into its hand-written
// assembler. It exists to differentially check the arithmetic/comparison/branch opcodes internal/lower emits
// against a reference LLVM lowering of the same operations.
package lldump

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	"sysyc/internal/koopair"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// builder holds the state threaded through one module dump.
type builder struct {
	ctx     llvm.Context
	mod     llvm.Module
	irb     llvm.Builder
	i32     llvm.Type
	funcs   map[string]llvm.Value
	globals map[string]llvm.Value
	// locals maps a Koopa value pointer to the llvm.Value holding its address (an alloca) or its direct
	// result, mirroring the teacher's name-keyed symTab but keyed by arena pointer since Koopa values have
	// no surface-level identifier once past the parser.
	locals map[*koopair.Value]llvm.Value
	blocks map[*koopair.BasicBlock]llvm.BasicBlock
}

// ---------------------
// ----- Functions -----
// ---------------------

// Dump renders prog as LLVM IR text.
func Dump(prog *koopair.Program, moduleName string) (string, error) {
	ctx := llvm.NewContext()
	b := &builder{
		ctx:     ctx,
		mod:     ctx.NewModule(moduleName),
		irb:     ctx.NewBuilder(),
		i32:     ctx.Int32Type(),
		funcs:   make(map[string]llvm.Value),
		globals: make(map[string]llvm.Value),
		locals:  make(map[*koopair.Value]llvm.Value),
		blocks:  make(map[*koopair.BasicBlock]llvm.BasicBlock),
	}
	defer b.irb.Dispose()

	for _, g1 := range prog.Globals {
		b.declareGlobal(g1)
	}
	for _, fn := range prog.Funcs {
		b.declareFunc(fn)
	}
	for _, fn := range prog.Funcs {
		if fn.IsDeclaration() {
			continue
		}
		if err := b.defineFunc(fn); err != nil {
			return "", err
		}
	}
	return b.mod.String(), nil
}

func (b *builder) llvmType(t koopair.Type) llvm.Type {
	switch t.Kind {
	case koopair.KindUnit:
		return b.ctx.VoidType()
	case koopair.KindInt32:
		return b.i32
	case koopair.KindPointer:
		return llvm.PointerType(b.llvmType(*t.Elem), 0)
	case koopair.KindArray:
		return llvm.ArrayType(b.llvmType(*t.Elem), t.Len)
	default:
		return b.i32
	}
}

func (b *builder) declareGlobal(v *koopair.Value) {
	elemTy := b.llvmType(*v.Typ.Elem)
	g := llvm.AddGlobal(b.mod, elemTy, globalSymbol(v.Name))
	g.SetInitializer(b.constInit(*v.GlobalInit, *v.Typ.Elem))
	b.globals[v.Name] = g
}

func (b *builder) constInit(init koopair.Init, t koopair.Type) llvm.Value {
	switch init.Kind {
	case koopair.InitInt:
		return llvm.ConstInt(b.i32, uint64(int64(init.Int)), true)
	case koopair.InitZero:
		return llvm.ConstNull(b.llvmType(t))
	case koopair.InitAggregate:
		elems := make([]llvm.Value, len(init.Elems))
		for i1, e1 := range init.Elems {
			elems[i1] = b.constInit(e1, *t.Elem)
		}
		return llvm.ConstArray(b.llvmType(*t.Elem), elems)
	default:
		return llvm.ConstNull(b.llvmType(t))
	}
}

func (b *builder) declareFunc(fn *koopair.Function) {
	params := make([]llvm.Type, len(fn.Params))
	for i1, pt := range fn.Params {
		params[i1] = b.llvmType(pt)
	}
	ft := llvm.FunctionType(b.llvmType(fn.Ret), params, false)
	lf := llvm.AddFunction(b.mod, fn.Name, ft)
	b.funcs[fn.Name] = lf
}

func (b *builder) defineFunc(fn *koopair.Function) error {
	lf := b.funcs[fn.Name]
	for _, bb := range fn.Blocks {
		b.blocks[bb] = llvm.AddBasicBlock(lf, blockName(bb.Label))
	}
	for i1, ref := range fn.ArgRefs {
		b.locals[ref] = lf.Param(i1)
	}
	for _, bb := range fn.Blocks {
		b.irb.SetInsertPointAtEnd(b.blocks[bb])
		for _, inst := range bb.Insts {
			if err := b.emitInst(inst); err != nil {
				return fmt.Errorf("function %s: %w", fn.Name, err)
			}
		}
	}
	return nil
}

func (b *builder) emitInst(v *koopair.Value) error {
	switch v.Kind {
	case koopair.KindAlloc:
		b.locals[v] = b.irb.CreateAlloca(b.llvmType(*v.Typ.Elem), "")
	case koopair.KindLoad:
		b.locals[v] = b.irb.CreateLoad(b.llvmType(v.Typ), b.operand(v.Src), "")
	case koopair.KindStore:
		b.irb.CreateStore(b.operand(v.StoreVal), b.operand(v.StoreDst))
	case koopair.KindBinary:
		b.locals[v] = b.emitBinary(v)
	case koopair.KindGetElemPtr, koopair.KindGetPtr:
		idx := b.operand(v.Index)
		indices := []llvm.Value{llvm.ConstInt(b.i32, 0, false), idx}
		if v.Kind == koopair.KindGetPtr {
			indices = []llvm.Value{idx}
		}
		b.locals[v] = b.irb.CreateGEP(b.llvmType(*v.Base.Typ.Elem), b.operand(v.Base), indices, "")
	case koopair.KindCall:
		args := make([]llvm.Value, len(v.Args))
		for i1, a1 := range v.Args {
			args[i1] = b.operand(a1)
		}
		callee := b.funcs[v.Callee.Name]
		res := b.irb.CreateCall(callee.GlobalValueType(), callee, args, "")
		if v.Typ.Kind != koopair.KindUnit {
			b.locals[v] = res
		}
	case koopair.KindBranch:
		b.irb.CreateCondBr(b.operand(v.Cond), b.blocks[v.IfTrue], b.blocks[v.IfFalse])
	case koopair.KindJump:
		b.irb.CreateBr(b.blocks[v.Target])
	case koopair.KindRet:
		if v.RetVal != nil {
			b.irb.CreateRet(b.operand(v.RetVal))
		} else {
			b.irb.CreateRetVoid()
		}
	}
	return nil
}

func (b *builder) emitBinary(v *koopair.Value) llvm.Value {
	lhs, rhs := b.operand(v.LHS), b.operand(v.RHS)
	switch v.Op {
	case koopair.Add:
		return b.irb.CreateAdd(lhs, rhs, "")
	case koopair.Sub:
		return b.irb.CreateSub(lhs, rhs, "")
	case koopair.Mul:
		return b.irb.CreateMul(lhs, rhs, "")
	case koopair.Div:
		return b.irb.CreateSDiv(lhs, rhs, "")
	case koopair.Mod:
		return b.irb.CreateSRem(lhs, rhs, "")
	case koopair.And:
		return b.irb.CreateAnd(lhs, rhs, "")
	case koopair.Or:
		return b.irb.CreateOr(lhs, rhs, "")
	case koopair.Lt:
		return b.irb.CreateICmp(llvm.IntSLT, lhs, rhs, "")
	case koopair.Gt:
		return b.irb.CreateICmp(llvm.IntSGT, lhs, rhs, "")
	case koopair.Le:
		return b.irb.CreateICmp(llvm.IntSLE, lhs, rhs, "")
	case koopair.Ge:
		return b.irb.CreateICmp(llvm.IntSGE, lhs, rhs, "")
	case koopair.Eq:
		return b.irb.CreateICmp(llvm.IntEQ, lhs, rhs, "")
	case koopair.Ne:
		return b.irb.CreateICmp(llvm.IntNE, lhs, rhs, "")
	default:
		return lhs
	}
}

// operand resolves a Koopa arena value to the llvm.Value it corresponds to: an integer constant, a known
// global, or a previously emitted local/parameter.
func (b *builder) operand(v *koopair.Value) llvm.Value {
	if v == nil {
		return llvm.ConstNull(b.i32)
	}
	switch v.Kind {
	case koopair.KindInteger:
		return llvm.ConstInt(b.i32, uint64(int64(v.IntVal)), true)
	case koopair.KindGlobalAlloc:
		return b.globals[v.Name]
	default:
		if lv, ok := b.locals[v]; ok {
			return lv
		}
		return llvm.ConstNull(b.llvmType(v.Typ))
	}
}

func globalSymbol(koopaName string) string {
	if len(koopaName) > 0 && koopaName[0] == '@' {
		return koopaName[1:]
	}
	return koopaName
}

func blockName(koopaLabel string) string {
	if len(koopaLabel) > 0 && koopaLabel[0] == '%' {
		return koopaLabel[1:]
	}
	return koopaLabel
}
