package lower

import (
	"fmt"

	"sysyc/internal/ast"
	"sysyc/internal/fold"
	"sysyc/internal/koopair"
	"sysyc/internal/symtab"
)

// ---------------------
// ----- Functions -----
// ---------------------

// evalShape folds every dimension expression of an array declaration to a constant, per spec.md invariant:
// array dimensions are always compile-time constants, never runtime expressions.
func (lo *Lowerer) evalShape(dims []ast.Expr) ([]int, error) {
	shape := make([]int, len(dims))
	for i1, d1 := range dims {
		n, err := fold.Eval(d1, lo.env)
		if err != nil {
			return nil, err
		}
		shape[i1] = n
	}
	return shape, nil
}

// lowerGlobalDecl lowers one top-level const/var declaration to a sequence of "global @name = alloc T, INIT"
// lines (or, for a scalar const, to nothing but a compile-time binding with no storage at all).
func (lo *Lowerer) lowerGlobalDecl(d *ast.Decl) error {
	for _, def := range d.Defs {
		shape, err := lo.evalShape(def.Dims)
		if err != nil {
			return err
		}

		if d.Const && len(shape) == 0 {
			v, err := lo.constScalarInit(def)
			if err != nil {
				return err
			}
			if err := lo.env.Insert(def.Name, symtab.Binding{Kind: symtab.BindConst, ConstVal: v}); err != nil {
				return err
			}
			continue
		}

		name := "@" + def.Name
		allocType := buildShapeType(shape)

		var init *koopair.Init
		if def.Init != nil {
			if len(shape) == 0 {
				v, err := lo.constScalarInit(def)
				if err != nil {
					return err
				}
				init = &koopair.Init{Kind: koopair.InitInt, Int: v}
			} else {
				flat, err := lo.flattenArrayInit(def.Init, shape)
				if err != nil {
					return err
				}
				init = buildAggregate(flat, shape)
			}
		} else {
			init = zeroInit()
		}

		lo.w.Printf("global %s = alloc %s, %s\n", name, allocType.String(), init.String())
		if err := lo.env.Insert(def.Name, symtab.Binding{
			Kind: symtab.BindVar, Storage: name, Global: true,
			SlotType: koopair.Ptr(allocType), Shape: shape,
		}); err != nil {
			return err
		}
	}
	lo.w.WriteString("\n")
	return nil
}

// lowerLocalDecl lowers one const/var declaration inside a function body: a compile-time binding for a scalar
// const, or an "alloc" instruction plus, if an initializer is given, the stores that populate it.
func (lo *Lowerer) lowerLocalDecl(d *ast.Decl) error {
	for _, def := range d.Defs {
		shape, err := lo.evalShape(def.Dims)
		if err != nil {
			return err
		}

		if d.Const && len(shape) == 0 {
			v, err := lo.constScalarInit(def)
			if err != nil {
				return err
			}
			if err := lo.env.Insert(def.Name, symtab.Binding{Kind: symtab.BindConst, ConstVal: v}); err != nil {
				return err
			}
			continue
		}

		allocType := buildShapeType(shape)
		name := lo.lbl.Local(def.Name)
		lo.w.Printf("  %s = alloc %s\n", name, allocType.String())
		if err := lo.env.Insert(def.Name, symtab.Binding{
			Kind: symtab.BindVar, Storage: name, SlotType: koopair.Ptr(allocType), Shape: shape,
		}); err != nil {
			return err
		}

		if def.Init == nil {
			continue
		}
		if len(shape) == 0 {
			si, ok := def.Init.(*ast.ScalarInit)
			if !ok {
				return fmt.Errorf("line %d: %q needs a scalar initializer", def.Line, def.Name)
			}
			op, err := lo.lowerExpr(si.Value)
			if err != nil {
				return err
			}
			lo.w.Printf("  store %s, %s\n", op.text, name)
			continue
		}
		flat, err := lo.flattenArrayInit(def.Init, shape)
		if err != nil {
			return err
		}
		for i1, v1 := range flat {
			addr := lo.constIndexAddr(name, shape, i1)
			lo.w.Printf("  store %d, %s\n", v1, addr)
		}
	}
	return nil
}

// constScalarInit folds a scalar initializer to a constant. Both const declarations (always) and global var
// declarations (global initializers must be compile-time constants, unlike local var initializers) call this.
func (lo *Lowerer) constScalarInit(def *ast.Def) (int, error) {
	si, ok := def.Init.(*ast.ScalarInit)
	if !ok {
		return 0, fmt.Errorf("line %d: %q needs a scalar initializer", def.Line, def.Name)
	}
	return fold.Eval(si.Value, lo.env)
}

// flattenArrayInit flattens a possibly partial, possibly nested brace initializer into exactly product(shape)
// constant ints, zero-filling every implicit gap. This is spec.md's array initializer normalization rule: a
// nested AggregateInit at a given brace position consumes one whole sub-block, the largest inner sub-array
// that starts exactly at that position (an error if none does), while a bare scalar at that position consumes
// exactly one flat slot, and whatever neither the source nor the recursion touches is zero.
func (lo *Lowerer) flattenArrayInit(init ast.Init, shape []int) ([]int, error) {
	flat := make([]int, 0, product(shape))
	if err := lo.flattenInto(init, shape, &flat); err != nil {
		return nil, err
	}
	for len(flat) < product(shape) {
		flat = append(flat, 0)
	}
	return flat, nil
}

func (lo *Lowerer) flattenInto(init ast.Init, shape []int, out *[]int) error {
	if len(shape) == 0 {
		si, ok := init.(*ast.ScalarInit)
		if !ok {
			return fmt.Errorf("expected a scalar initializer at this brace depth")
		}
		v, err := fold.Eval(si.Value, lo.env)
		if err != nil {
			return err
		}
		*out = append(*out, v)
		return nil
	}
	agg, ok := init.(*ast.AggregateInit)
	if !ok {
		return fmt.Errorf("expected a brace-enclosed initializer for this array dimension")
	}
	total := product(shape)
	subShape := shape[1:]
	count := 0
	for _, child := range agg.Elems {
		if count >= total {
			break
		}
		if _, ok := child.(*ast.AggregateInit); ok && len(subShape) > 0 {
			// Fill the largest inner sub-array that starts exactly at the current position.
			inner := subShape
			for len(inner) > 1 && count%product(inner) != 0 {
				inner = inner[1:]
			}
			innerTotal := product(inner)
			if count%innerTotal != 0 {
				return fmt.Errorf("nested initializer does not start on a sub-array boundary")
			}
			sub := make([]int, 0, innerTotal)
			if err := lo.flattenInto(child, inner, &sub); err != nil {
				return err
			}
			for len(sub) < innerTotal {
				sub = append(sub, 0)
			}
			*out = append(*out, sub...)
			count += innerTotal
			continue
		}
		si, ok := child.(*ast.ScalarInit)
		if !ok {
			return fmt.Errorf("expected a scalar initializer at this brace depth")
		}
		v, err := fold.Eval(si.Value, lo.env)
		if err != nil {
			return err
		}
		*out = append(*out, v)
		count++
	}
	return nil
}

// buildAggregate builds a koopair.Init tree from a fully flattened, fully zero-filled value slice, collapsing
// any sub-block that is entirely zero to a single "zeroinit" the way the teacher's Koopa output does, rather
// than spelling out every individual zero.
func buildAggregate(flat []int, shape []int) *koopair.Init {
	if len(shape) == 0 {
		return &koopair.Init{Kind: koopair.InitInt, Int: flat[0]}
	}
	if allZero(flat) {
		return &koopair.Init{Kind: koopair.InitZero}
	}
	blockSize := product(shape[1:])
	elems := make([]koopair.Init, shape[0])
	for i1 := 0; i1 < shape[0]; i1++ {
		elems[i1] = *buildAggregate(flat[i1*blockSize:(i1+1)*blockSize], shape[1:])
	}
	return &koopair.Init{Kind: koopair.InitAggregate, Elems: elems}
}

func allZero(flat []int) bool {
	for _, v1 := range flat {
		if v1 != 0 {
			return false
		}
	}
	return true
}

func zeroInit() *koopair.Init {
	return &koopair.Init{Kind: koopair.InitZero}
}

// constIndexAddr computes the address of the linear-th scalar element of a local array named base with shape
// shape, using only compile-time-known indices (the element order of a normalized initializer, not a runtime
// subscript expression): one getelemptr per dimension, descending outer to inner.
func (lo *Lowerer) constIndexAddr(base string, shape []int, linear int) string {
	cur := base
	rem := linear
	for d1 := 0; d1 < len(shape); d1++ {
		blockSize := product(shape[d1+1:])
		idx := rem / blockSize
		rem = rem % blockSize
		tmp := lo.lbl.Temp()
		lo.w.Printf("  %s = getelemptr %s, %d\n", tmp, cur, idx)
		cur = tmp
	}
	return cur
}
