package lower

import (
	"fmt"

	"sysyc/internal/ast"
	"sysyc/internal/label"
)

// ---------------------
// ----- Functions -----
// ---------------------

// lowerBlock lowers a brace-enclosed block, pushing and popping its own lexical scope per spec.md §4.1.
func (lo *Lowerer) lowerBlock(b *ast.Block) error {
	lo.env.Push()
	defer lo.env.Pop()
	for _, item := range b.Items {
		if err := lo.lowerBlockItem(item); err != nil {
			return err
		}
	}
	return nil
}

// lowerBlockItem lowers one declaration or statement inside a block.
func (lo *Lowerer) lowerBlockItem(item ast.BlockItem) error {
	if d, ok := item.(*ast.Decl); ok {
		return lo.lowerLocalDecl(d)
	}
	s, ok := item.(ast.Stmt)
	if !ok {
		return fmt.Errorf("lower: block item %T is neither a declaration nor a statement", item)
	}
	return lo.lowerStmt(s)
}

// lowerStmt lowers one statement. If the writer is already muted (the straight-line code preceding this point
// already ended in a terminator), the writes this statement makes before its first label are discarded; an
// if, while or short-circuit inside it writes labels, which unmute the writer, so the blocks after those labels
// are still emitted (unreachable). Env/label bookkeeping always runs so later statements stay consistent.
func (lo *Lowerer) lowerStmt(s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.ReturnStmt:
		return lo.lowerReturn(n)
	case *ast.AssignStmt:
		return lo.lowerAssign(n)
	case *ast.ExprStmt:
		return lo.lowerExprStmt(n)
	case *ast.BlockStmt:
		return lo.lowerBlock(n.Body)
	case *ast.IfStmt:
		return lo.lowerIf(n)
	case *ast.WhileStmt:
		return lo.lowerWhile(n)
	case *ast.BreakStmt:
		return lo.lowerBreak(n)
	case *ast.ContinueStmt:
		return lo.lowerContinue(n)
	default:
		return fmt.Errorf("lower: unknown statement node %T", n)
	}
}

func (lo *Lowerer) lowerReturn(n *ast.ReturnStmt) error {
	if n.Value == nil {
		lo.w.WriteString("  ret\n")
		lo.w.Mute()
		return nil
	}
	op, err := lo.lowerExpr(n.Value)
	if err != nil {
		return err
	}
	lo.w.Printf("  ret %s\n", op.text)
	lo.w.Mute()
	return nil
}

func (lo *Lowerer) lowerAssign(n *ast.AssignStmt) error {
	val, err := lo.lowerExpr(n.Value)
	if err != nil {
		return err
	}
	addr, err := lo.lowerLValueAddr(n.Target)
	if err != nil {
		return err
	}
	lo.w.Printf("  store %s, %s\n", val.text, addr.text)
	return nil
}

func (lo *Lowerer) lowerExprStmt(n *ast.ExprStmt) error {
	if n.Value == nil {
		return nil
	}
	_, err := lo.lowerExpr(n.Value)
	return err
}

// lowerIf lowers if/else through the standard three-label diamond (or two labels when there is no else
// branch): evaluate the condition, branch to %then/%else, fall both paths through to a shared %end.
func (lo *Lowerer) lowerIf(n *ast.IfStmt) error {
	cond, err := lo.lowerExpr(n.Cond)
	if err != nil {
		return err
	}
	group := lo.lbl.NewGroup()
	thenL := lo.lbl.Label(label.IfThen, group)
	endL := lo.lbl.Label(label.IfEnd, group)

	if n.Else == nil {
		lo.w.Printf("  br %s, %s, %s\n", cond.text, thenL, endL)
		lo.w.Mute()
		lo.w.Label(thenL)
		if err := lo.lowerStmt(n.Then); err != nil {
			return err
		}
		lo.w.Printf("  jump %s\n", endL)
		lo.w.Mute()
		lo.w.Label(endL)
		return nil
	}

	elseL := lo.lbl.Label(label.IfElse, group)
	lo.w.Printf("  br %s, %s, %s\n", cond.text, thenL, elseL)
	lo.w.Mute()
	lo.w.Label(thenL)
	if err := lo.lowerStmt(n.Then); err != nil {
		return err
	}
	lo.w.Printf("  jump %s\n", endL)
	lo.w.Mute()
	lo.w.Label(elseL)
	if err := lo.lowerStmt(n.Else); err != nil {
		return err
	}
	lo.w.Printf("  jump %s\n", endL)
	lo.w.Mute()
	lo.w.Label(endL)
	return nil
}

// lowerWhile lowers a while loop into entry (re-evaluates the condition)/body/end blocks, pushing a loopCtx so
// nested break/continue resolve to this loop rather than an outer one.
func (lo *Lowerer) lowerWhile(n *ast.WhileStmt) error {
	group := lo.lbl.NewGroup()
	entryL := lo.lbl.Label(label.WhileEntry, group)
	bodyL := lo.lbl.Label(label.WhileBody, group)
	endL := lo.lbl.Label(label.WhileEnd, group)

	lo.w.Printf("  jump %s\n", entryL)
	lo.w.Mute()
	lo.w.Label(entryL)
	cond, err := lo.lowerExpr(n.Cond)
	if err != nil {
		return err
	}
	lo.w.Printf("  br %s, %s, %s\n", cond.text, bodyL, endL)
	lo.w.Mute()
	lo.w.Label(bodyL)

	lo.loop = append(lo.loop, loopCtx{entry: entryL, end: endL})
	err = lo.lowerStmt(n.Body)
	lo.loop = lo.loop[:len(lo.loop)-1]
	if err != nil {
		return err
	}

	lo.w.Printf("  jump %s\n", entryL)
	lo.w.Mute()
	lo.w.Label(endL)
	return nil
}

func (lo *Lowerer) lowerBreak(n *ast.BreakStmt) error {
	if len(lo.loop) == 0 {
		return fmt.Errorf("line %d: break outside of a loop", n.Line)
	}
	lo.w.Printf("  jump %s\n", lo.loop[len(lo.loop)-1].end)
	lo.w.Mute()
	return nil
}

func (lo *Lowerer) lowerContinue(n *ast.ContinueStmt) error {
	if len(lo.loop) == 0 {
		return fmt.Errorf("line %d: continue outside of a loop", n.Line)
	}
	lo.w.Printf("  jump %s\n", lo.loop[len(lo.loop)-1].entry)
	lo.w.Mute()
	return nil
}
