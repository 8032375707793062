// parse.go implements the "external parser of IR text" step of spec.md §2's data flow: it re-ingests the
// lowerer's Koopa IR text output into the object graph the frame planner and emitter walk. The lowerer itself
// never calls this; it only ever appends text through the emission buffer (internal/emit). Decoupling
// production (text) from consumption (object graph) through a textual round trip is a design choice per
// spec.md §2, not incidental, so this parser is kept as its own pass rather than having the lowerer build the
// object graph directly.
package koopair

import (
	"fmt"
	"strconv"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// parser holds state for one parse of a complete Koopa IR text program.
type parser struct {
	lx   *lexer
	tok  token
	vals map[string]*Value // IR name -> already parsed value, valid within the function currently being parsed.
	fn   *Function

	globals map[string]*Value // Every global parsed so far, visible inside every later function body.
}

// ---------------------
// ----- Functions -----
// ---------------------

// Parse parses Koopa IR text (as produced by internal/lower) into a Program object graph.
func Parse(src string) (*Program, error) {
	p := &parser{lx: newKoopaLexer(src), globals: make(map[string]*Value)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	prog := &Program{}
	for p.tok.kind != tokEOF {
		switch p.tok.text {
		case "global":
			g, err := p.parseGlobal()
			if err != nil {
				return nil, err
			}
			prog.Globals = append(prog.Globals, g)
			p.globals[g.Name] = g
		case "decl":
			f, err := p.parseDecl()
			if err != nil {
				return nil, err
			}
			prog.Funcs = append(prog.Funcs, f)
		case "fun":
			f, err := p.parseFunc()
			if err != nil {
				return nil, err
			}
			prog.Funcs = append(prog.Funcs, f)
		default:
			return nil, fmt.Errorf("koopa text: line %d: expected global/decl/fun, got %q", p.tok.line, p.tok.text)
		}
	}
	if err := resolveCallees(prog); err != nil {
		return nil, err
	}
	return prog, nil
}

// resolveCallees links every parsed call instruction's Callee field, now that all functions in the program
// (including ones textually defined after the call site) are known.
func resolveCallees(prog *Program) error {
	for _, f1 := range prog.Funcs {
		for _, bb := range f1.Blocks {
			for _, v := range bb.Insts {
				if v.Kind != KindCall {
					continue
				}
				callee := prog.FuncByName(v.calleeNamePending)
				if callee == nil {
					return fmt.Errorf("koopa text: call to undeclared function %q", v.calleeNamePending)
				}
				v.Callee = callee
				v.Typ = callee.Ret
			}
		}
	}
	return nil
}

func (p *parser) advance() error {
	t, err := p.lx.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) expectPunct(s string) error {
	if p.tok.kind != tokPunct || p.tok.text != s {
		return fmt.Errorf("koopa text: line %d: expected %q, got %q", p.tok.line, s, p.tok.text)
	}
	return p.advance()
}

func (p *parser) expectIdent(s string) error {
	if p.tok.kind != tokIdent || p.tok.text != s {
		return fmt.Errorf("koopa text: line %d: expected %q, got %q", p.tok.line, s, p.tok.text)
	}
	return p.advance()
}

// parseType parses "i32", "*T", or "[N x T]".
func (p *parser) parseType() (Type, error) {
	if p.tok.kind == tokPunct && p.tok.text == "*" {
		if err := p.advance(); err != nil {
			return Type{}, err
		}
		elem, err := p.parseType()
		if err != nil {
			return Type{}, err
		}
		return Ptr(elem), nil
	}
	if p.tok.kind == tokPunct && p.tok.text == "[" {
		if err := p.advance(); err != nil {
			return Type{}, err
		}
		if p.tok.kind != tokInt {
			return Type{}, fmt.Errorf("koopa text: line %d: expected array length", p.tok.line)
		}
		n, _ := strconv.Atoi(p.tok.text)
		if err := p.advance(); err != nil {
			return Type{}, err
		}
		if err := p.expectIdent("x"); err != nil {
			return Type{}, err
		}
		elem, err := p.parseType()
		if err != nil {
			return Type{}, err
		}
		if err := p.expectPunct("]"); err != nil {
			return Type{}, err
		}
		return Array(elem, n), nil
	}
	if p.tok.kind == tokIdent {
		switch p.tok.text {
		case "i32":
			return Int32, p.advance()
		case "unit":
			return Unit, p.advance()
		}
	}
	return Type{}, fmt.Errorf("koopa text: line %d: expected type, got %q", p.tok.line, p.tok.text)
}

// parseInit parses an integer literal, "zeroinit", or a brace-enclosed list of child initializers.
func (p *parser) parseInit() (*Init, error) {
	if p.tok.kind == tokInt {
		n, _ := strconv.Atoi(p.tok.text)
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Init{Kind: InitInt, Int: n}, nil
	}
	if p.tok.kind == tokIdent && p.tok.text == "zeroinit" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Init{Kind: InitZero}, nil
	}
	if p.tok.kind == tokPunct && p.tok.text == "{" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		var elems []Init
		for !(p.tok.kind == tokPunct && p.tok.text == "}") {
			e1, err := p.parseInit()
			if err != nil {
				return nil, err
			}
			elems = append(elems, *e1)
			if p.tok.kind == tokPunct && p.tok.text == "," {
				if err := p.advance(); err != nil {
					return nil, err
				}
			}
		}
		if err := p.expectPunct("}"); err != nil {
			return nil, err
		}
		return &Init{Kind: InitAggregate, Elems: elems}, nil
	}
	return nil, fmt.Errorf("koopa text: line %d: expected initializer, got %q", p.tok.line, p.tok.text)
}

// parseGlobal parses "global @name = alloc T, INIT".
func (p *parser) parseGlobal() (*Value, error) {
	if err := p.expectIdent("global"); err != nil {
		return nil, err
	}
	name := p.tok.text
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expectPunct("="); err != nil {
		return nil, err
	}
	if err := p.expectIdent("alloc"); err != nil {
		return nil, err
	}
	elem, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(","); err != nil {
		return nil, err
	}
	init, err := p.parseInit()
	if err != nil {
		return nil, err
	}
	return &Value{Kind: KindGlobalAlloc, Typ: Ptr(elem), Name: name, GlobalInit: init}, nil
}

// parseParamList parses "(@x_param: i32, @y_param: i32)" returning names and types, or just types for a decl.
func (p *parser) parseParamList(named bool) ([]string, []Type, error) {
	if err := p.expectPunct("("); err != nil {
		return nil, nil, err
	}
	var names []string
	var types []Type
	for !(p.tok.kind == tokPunct && p.tok.text == ")") {
		if named {
			names = append(names, p.tok.text)
			if err := p.advance(); err != nil {
				return nil, nil, err
			}
			if err := p.expectPunct(":"); err != nil {
				return nil, nil, err
			}
		}
		t, err := p.parseType()
		if err != nil {
			return nil, nil, err
		}
		types = append(types, t)
		if p.tok.kind == tokPunct && p.tok.text == "," {
			if err := p.advance(); err != nil {
				return nil, nil, err
			}
		}
	}
	return names, types, p.expectPunct(")")
}

// parseRet parses an optional ": T" return type clause, defaulting to Unit.
func (p *parser) parseRet() (Type, error) {
	if p.tok.kind == tokPunct && p.tok.text == ":" {
		if err := p.advance(); err != nil {
			return Type{}, err
		}
		return p.parseType()
	}
	return Unit, nil
}

// parseDecl parses "decl @name(T, T): T" with no body.
func (p *parser) parseDecl() (*Function, error) {
	if err := p.expectIdent("decl"); err != nil {
		return nil, err
	}
	name := p.tok.text
	if err := p.advance(); err != nil {
		return nil, err
	}
	_, types, err := p.parseParamList(false)
	if err != nil {
		return nil, err
	}
	ret, err := p.parseRet()
	if err != nil {
		return nil, err
	}
	return &Function{Name: name[1:], Params: types, Ret: ret}, nil
}

// parseFunc parses a full function definition with a body.
func (p *parser) parseFunc() (*Function, error) {
	if err := p.expectIdent("fun"); err != nil {
		return nil, err
	}
	name := p.tok.text
	if err := p.advance(); err != nil {
		return nil, err
	}
	names, types, err := p.parseParamList(true)
	if err != nil {
		return nil, err
	}
	ret, err := p.parseRet()
	if err != nil {
		return nil, err
	}
	fn := &Function{Name: name[1:], ParamNames: names, Params: types, Ret: ret}
	for i1 := range types {
		fn.ArgRefs = append(fn.ArgRefs, &Value{Kind: KindArgRef, Typ: types[i1], ArgIndex: i1})
	}

	p.fn = fn
	p.vals = make(map[string]*Value)
	for name, g := range p.globals {
		p.vals[name] = g
	}

	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}

	// Pass 1: scan ahead to collect every block label so forward branch/jump targets resolve. We do this by
	// scanning tokens without consuming the real parse cursor: snapshot the lexer position and restore it.
	labels, err := p.scanLabels()
	if err != nil {
		return nil, err
	}
	blocks := make(map[string]*BasicBlock, len(labels))
	for _, l1 := range labels {
		bb := &BasicBlock{Label: l1}
		blocks[l1] = bb
		fn.Blocks = append(fn.Blocks, bb)
	}

	// Pass 2: parse each block's instructions in order, filling in the stub blocks from pass 1.
	return p.parseFuncBodyBlocks(fn, blocks)
}

// scanLabels looks ahead through the function body (from the current '{' up to its matching '}') and returns
// every basic block label in order, without disturbing the parser's committed token cursor.
func (p *parser) scanLabels() ([]string, error) {
	save := *p.lx
	saveTok := p.tok
	defer func() { *p.lx = save; p.tok = saveTok }()

	var labels []string
	depth := 1
	for depth > 0 {
		if p.tok.kind == tokEOF {
			return nil, fmt.Errorf("koopa text: unterminated function body")
		}
		if p.tok.kind == tokPunct && p.tok.text == "{" {
			depth++
		} else if p.tok.kind == tokPunct && p.tok.text == "}" {
			depth--
			if depth == 0 {
				break
			}
		} else if p.tok.kind == tokIdent && len(p.tok.text) > 0 && p.tok.text[0] == '%' {
			// A label is a "%name" token immediately followed by ":".
			nameTok := p.tok
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.tok.kind == tokPunct && p.tok.text == ":" {
				labels = append(labels, nameTok.text)
			}
			continue
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	return labels, nil
}

// parseFuncBodyBlocks parses the real instruction stream of a function body, now that every label is known.
func (p *parser) parseFuncBodyBlocks(fn *Function, blocks map[string]*BasicBlock) (*Function, error) {
	for i1, name := range fn.ParamNames {
		p.vals[name] = fn.ArgRefs[i1]
	}

	var cur *BasicBlock
	for !(p.tok.kind == tokPunct && p.tok.text == "}") {
		if p.tok.kind == tokIdent && len(p.tok.text) > 0 && p.tok.text[0] == '%' && isLabelHere(p) {
			name := p.tok.text
			if err := p.advance(); err != nil {
				return nil, err
			}
			if err := p.expectPunct(":"); err != nil {
				return nil, err
			}
			cur = blocks[name]
			continue
		}
		inst, err := p.parseInstruction(blocks)
		if err != nil {
			return nil, err
		}
		cur.Insts = append(cur.Insts, inst)
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return fn, nil
}

// isLabelHere reports whether the parser's current "%name" token is immediately followed by ":", i.e. is a
// label rather than a value reference, without permanently consuming lookahead.
func isLabelHere(p *parser) bool {
	save := *p.lx
	saveTok := p.tok
	defer func() { *p.lx = save; p.tok = saveTok }()
	if err := p.advance(); err != nil {
		return false
	}
	return p.tok.kind == tokPunct && p.tok.text == ":"
}

// resolveOperand resolves an operand token already consumed into a *Value: an already-bound name, or a fresh
// unnamed integer constant.
func (p *parser) resolveOperand(tok token) (*Value, error) {
	if tok.kind == tokInt {
		n, _ := strconv.Atoi(tok.text)
		return &Value{Kind: KindInteger, Typ: Int32, IntVal: n}, nil
	}
	if v, ok := p.vals[tok.text]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("koopa text: line %d: undefined value %q", tok.line, tok.text)
}

// parseOperandTok consumes and returns one operand (an int literal or a name reference).
func (p *parser) parseOperandTok() (token, error) {
	tok := p.tok
	if tok.kind != tokInt && tok.kind != tokIdent {
		return token{}, fmt.Errorf("koopa text: line %d: expected operand, got %q", tok.line, tok.text)
	}
	return tok, p.advance()
}

// parseInstruction parses one instruction line (no leading label) and binds its result name, if any.
func (p *parser) parseInstruction(blocks map[string]*BasicBlock) (*Value, error) {
	// Optional "name = " prefix.
	var resultName string
	if p.tok.kind == tokIdent {
		save := *p.lx
		saveTok := p.tok
		name := p.tok.text
		if err := p.advance(); err == nil && p.tok.kind == tokPunct && p.tok.text == "=" {
			resultName = name
			if err := p.advance(); err != nil {
				return nil, err
			}
		} else {
			*p.lx = save
			p.tok = saveTok
		}
	}

	op := p.tok.text
	if err := p.advance(); err != nil {
		return nil, err
	}

	var v *Value
	switch op {
	case "alloc":
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		v = &Value{Kind: KindAlloc, Typ: Ptr(elem), Name: resultName}
	case "load":
		srcTok, err := p.parseOperandTok()
		if err != nil {
			return nil, err
		}
		src, err := p.resolveOperand(srcTok)
		if err != nil {
			return nil, err
		}
		v = &Value{Kind: KindLoad, Typ: *src.Typ.Elem, Name: resultName, Src: src}
	case "store":
		valTok, err := p.parseOperandTok()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(","); err != nil {
			return nil, err
		}
		dstTok, err := p.parseOperandTok()
		if err != nil {
			return nil, err
		}
		val, err := p.resolveOperand(valTok)
		if err != nil {
			return nil, err
		}
		dst, err := p.resolveOperand(dstTok)
		if err != nil {
			return nil, err
		}
		v = &Value{Kind: KindStore, Typ: Unit, StoreVal: val, StoreDst: dst}
	case "getelemptr", "getptr":
		baseTok, err := p.parseOperandTok()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(","); err != nil {
			return nil, err
		}
		idxTok, err := p.parseOperandTok()
		if err != nil {
			return nil, err
		}
		base, err := p.resolveOperand(baseTok)
		if err != nil {
			return nil, err
		}
		idx, err := p.resolveOperand(idxTok)
		if err != nil {
			return nil, err
		}
		kind := KindGetElemPtr
		var elemTyp Type
		if op == "getelemptr" {
			elemTyp = *base.Typ.Elem.Elem
		} else {
			kind = KindGetPtr
			elemTyp = *base.Typ.Elem
		}
		v = &Value{Kind: kind, Typ: Ptr(elemTyp), Name: resultName, Base: base, Index: idx}
	case "call":
		name := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expectPunct("("); err != nil {
			return nil, err
		}
		var args []*Value
		for !(p.tok.kind == tokPunct && p.tok.text == ")") {
			argTok, err := p.parseOperandTok()
			if err != nil {
				return nil, err
			}
			a1, err := p.resolveOperand(argTok)
			if err != nil {
				return nil, err
			}
			args = append(args, a1)
			if p.tok.kind == tokPunct && p.tok.text == "," {
				if err := p.advance(); err != nil {
					return nil, err
				}
			}
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		v = &Value{Kind: KindCall, Name: resultName, Args: args}
		_ = name // resolved against the program's function table by a post-pass (resolveCallees).
		v.calleeNamePending = name[1:]
	case "br":
		condTok, err := p.parseOperandTok()
		if err != nil {
			return nil, err
		}
		cond, err := p.resolveOperand(condTok)
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(","); err != nil {
			return nil, err
		}
		trueName := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expectPunct(","); err != nil {
			return nil, err
		}
		falseName := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		v = &Value{Kind: KindBranch, Typ: Unit, Cond: cond, IfTrue: blocks[trueName], IfFalse: blocks[falseName]}
	case "jump":
		target := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		v = &Value{Kind: KindJump, Typ: Unit, Target: blocks[target]}
	case "ret":
		if p.tok.kind == tokInt || (p.tok.kind == tokIdent && ((p.tok.text[0] == '%' && !isLabelHere(p)) || p.tok.text[0] == '@')) {
			valTok, err := p.parseOperandTok()
			if err != nil {
				return nil, err
			}
			val, err := p.resolveOperand(valTok)
			if err != nil {
				return nil, err
			}
			v = &Value{Kind: KindRet, Typ: Unit, RetVal: val}
		} else {
			v = &Value{Kind: KindRet, Typ: Unit}
		}
	default:
		binOp, ok := binaryOpByName(op)
		if !ok {
			return nil, fmt.Errorf("koopa text: line %d: unknown instruction %q", p.tok.line, op)
		}
		lhsTok, err := p.parseOperandTok()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(","); err != nil {
			return nil, err
		}
		rhsTok, err := p.parseOperandTok()
		if err != nil {
			return nil, err
		}
		lhs, err := p.resolveOperand(lhsTok)
		if err != nil {
			return nil, err
		}
		rhs, err := p.resolveOperand(rhsTok)
		if err != nil {
			return nil, err
		}
		v = &Value{Kind: KindBinary, Typ: Int32, Name: resultName, Op: binOp, LHS: lhs, RHS: rhs}
	}

	if resultName != "" {
		p.vals[resultName] = v
	}
	return v, nil
}

// binaryOpByName maps a Koopa IR mnemonic to its BinaryOp constant.
func binaryOpByName(s string) (BinaryOp, bool) {
	for i1, n1 := range binaryOpNames {
		if n1 == s {
			return BinaryOp(i1), true
		}
	}
	return 0, false
}
