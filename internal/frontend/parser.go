// Package frontend implements the lexer and recursive-descent parser that turn SysY source text into the
// internal/ast tree internal/lower consumes. Grounded on the teacher compiler's frontend package: lexer.go's
// channel-fed state machine (generalized here to the SysY token set) and tree.go's plain recursive node
// constructors, since goyacc table generation is out of reach without running the Go toolchain.
package frontend

import (
	"fmt"

	"sysyc/internal/ast"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

type parser struct {
	items chan item
	tok   item
}

// ---------------------
// ----- Functions -----
// ---------------------

// Parse parses a complete SysY source file into a CompUnit.
func Parse(src string) (*ast.CompUnit, error) {
	p := &parser{items: lex(src)}
	p.advance()
	cu := &ast.CompUnit{}
	for p.tok.typ != itemEOF {
		item, err := p.parseTopLevel()
		if err != nil {
			return nil, err
		}
		cu.Items = append(cu.Items, item)
	}
	return cu, nil
}

func (p *parser) advance() {
	p.tok = <-p.items
}

func (p *parser) expect(t itemType, what string) (item, error) {
	if p.tok.typ == itemError {
		return item{}, fmt.Errorf("line %d: %s", p.tok.line, p.tok.val)
	}
	if p.tok.typ != t {
		return item{}, fmt.Errorf("line %d: expected %s, got %q", p.tok.line, what, p.tok.val)
	}
	tok := p.tok
	p.advance()
	return tok, nil
}

// parseTopLevel parses one const/var declaration or one function definition. Both start with an optional
// "const" then a base type; a declaration's first Def-name is followed by ';', ',', '=' or '[' (a variable), a
// function definition's by '(' — so one token of lookahead after the identifier disambiguates them.
func (p *parser) parseTopLevel() (ast.Item, error) {
	if p.tok.typ == itemKwConst {
		d, err := p.parseDecl()
		return d, err
	}

	// "void" can only start a function definition.
	if p.tok.typ == itemKwVoid {
		p.advance()
		return p.parseFuncDef(ast.Type{Void: true})
	}

	if _, err := p.expect(itemKwInt, "a type"); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(itemIdent, "an identifier")
	if err != nil {
		return nil, err
	}
	if p.tok.typ == itemLParen {
		return p.parseFuncDefAfterName(nameTok)
	}
	return p.parseDeclAfterFirstName(false, nameTok)
}

// parseFuncDef parses a function definition whose return type has already been consumed ("void").
func (p *parser) parseFuncDef(ret ast.Type) (ast.Item, error) {
	nameTok, err := p.expect(itemIdent, "a function name")
	if err != nil {
		return nil, err
	}
	return p.parseFuncDefAfterNameRet(ret, nameTok)
}

func (p *parser) parseFuncDefAfterName(nameTok item) (ast.Item, error) {
	return p.parseFuncDefAfterNameRet(ast.Type{}, nameTok)
}

func (p *parser) parseFuncDefAfterNameRet(ret ast.Type, nameTok item) (ast.Item, error) {
	if _, err := p.expect(itemLParen, "("); err != nil {
		return nil, err
	}
	var params []*ast.Param
	for p.tok.typ != itemRParen {
		if len(params) > 0 {
			if _, err := p.expect(itemComma, ","); err != nil {
				return nil, err
			}
		}
		pr, err := p.parseParam()
		if err != nil {
			return nil, err
		}
		params = append(params, pr)
	}
	if _, err := p.expect(itemRParen, ")"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FuncDef{Name: nameTok.val, Params: params, Ret: ret, Body: body, Line: nameTok.line}, nil
}

func (p *parser) parseParam() (*ast.Param, error) {
	if _, err := p.expect(itemKwInt, "int"); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(itemIdent, "a parameter name")
	if err != nil {
		return nil, err
	}
	typ := ast.Type{}
	if p.tok.typ == itemLBracket {
		typ.Pointer = true
		p.advance()
		if _, err := p.expect(itemRBracket, "]"); err != nil {
			return nil, err
		}
		for p.tok.typ == itemLBracket {
			p.advance()
			n, err := p.parseConstInt()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(itemRBracket, "]"); err != nil {
				return nil, err
			}
			typ.Dims = append(typ.Dims, n)
		}
	}
	return &ast.Param{Name: nameTok.val, Typ: typ, Line: nameTok.line}, nil
}

// ----- Declarations -----

func (p *parser) parseDecl() (*ast.Decl, error) {
	isConst := false
	if p.tok.typ == itemKwConst {
		isConst = true
		p.advance()
	}
	if _, err := p.expect(itemKwInt, "int"); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(itemIdent, "an identifier")
	if err != nil {
		return nil, err
	}
	return p.parseDeclAfterFirstName(isConst, nameTok)
}

func (p *parser) parseDeclAfterFirstName(isConst bool, nameTok item) (*ast.Decl, error) {
	d := &ast.Decl{Const: isConst, Line: nameTok.line}
	def, err := p.parseDefAfterName(nameTok)
	if err != nil {
		return nil, err
	}
	d.Defs = append(d.Defs, def)
	for p.tok.typ == itemComma {
		p.advance()
		nt, err := p.expect(itemIdent, "an identifier")
		if err != nil {
			return nil, err
		}
		def, err := p.parseDefAfterName(nt)
		if err != nil {
			return nil, err
		}
		d.Defs = append(d.Defs, def)
	}
	if _, err := p.expect(itemSemi, ";"); err != nil {
		return nil, err
	}
	return d, nil
}

func (p *parser) parseDefAfterName(nameTok item) (*ast.Def, error) {
	def := &ast.Def{Name: nameTok.val, Line: nameTok.line}
	for p.tok.typ == itemLBracket {
		p.advance()
		e1, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(itemRBracket, "]"); err != nil {
			return nil, err
		}
		def.Dims = append(def.Dims, e1)
	}
	if p.tok.typ == itemAssign {
		p.advance()
		init, err := p.parseInit()
		if err != nil {
			return nil, err
		}
		def.Init = init
	}
	return def, nil
}

func (p *parser) parseInit() (ast.Init, error) {
	if p.tok.typ == itemLBrace {
		p.advance()
		agg := &ast.AggregateInit{}
		for p.tok.typ != itemRBrace {
			if len(agg.Elems) > 0 {
				if _, err := p.expect(itemComma, ","); err != nil {
					return nil, err
				}
			}
			child, err := p.parseInit()
			if err != nil {
				return nil, err
			}
			agg.Elems = append(agg.Elems, child)
		}
		if _, err := p.expect(itemRBrace, "}"); err != nil {
			return nil, err
		}
		return agg, nil
	}
	e1, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.ScalarInit{Value: e1}, nil
}

func (p *parser) parseConstInt() (int, error) {
	e1, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	// Parameter array dimensions are read here, before any symbol environment exists: only an integer literal is
	// accepted, and a named constant or any other expression is rejected with an error.
	if lit, ok := e1.(*ast.IntLit); ok {
		return lit.Value, nil
	}
	return 0, fmt.Errorf("line %d: array dimension must be a constant expression", p.tok.line)
}

// ----- Statements -----

func (p *parser) parseBlock() (*ast.Block, error) {
	if _, err := p.expect(itemLBrace, "{"); err != nil {
		return nil, err
	}
	b := &ast.Block{}
	for p.tok.typ != itemRBrace {
		item, err := p.parseBlockItem()
		if err != nil {
			return nil, err
		}
		b.Items = append(b.Items, item)
	}
	if _, err := p.expect(itemRBrace, "}"); err != nil {
		return nil, err
	}
	return b, nil
}

func (p *parser) parseBlockItem() (ast.BlockItem, error) {
	if p.tok.typ == itemKwConst || p.tok.typ == itemKwInt {
		return p.parseDecl()
	}
	return p.parseStmt()
}

func (p *parser) parseStmt() (ast.Stmt, error) {
	switch p.tok.typ {
	case itemSemi:
		p.advance()
		return &ast.ExprStmt{}, nil
	case itemLBrace:
		b, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &ast.BlockStmt{Body: b}, nil
	case itemKwIf:
		return p.parseIf()
	case itemKwWhile:
		return p.parseWhile()
	case itemKwBreak:
		line := p.tok.line
		p.advance()
		if _, err := p.expect(itemSemi, ";"); err != nil {
			return nil, err
		}
		return &ast.BreakStmt{Line: line}, nil
	case itemKwContinue:
		line := p.tok.line
		p.advance()
		if _, err := p.expect(itemSemi, ";"); err != nil {
			return nil, err
		}
		return &ast.ContinueStmt{Line: line}, nil
	case itemKwReturn:
		return p.parseReturn()
	default:
		return p.parseExprOrAssignStmt()
	}
}

func (p *parser) parseIf() (ast.Stmt, error) {
	line := p.tok.line
	p.advance()
	if _, err := p.expect(itemLParen, "("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(itemRParen, ")"); err != nil {
		return nil, err
	}
	then, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	var els ast.Stmt
	if p.tok.typ == itemKwElse {
		p.advance()
		els, err = p.parseStmt()
		if err != nil {
			return nil, err
		}
	}
	return &ast.IfStmt{Cond: cond, Then: then, Else: els, Line: line}, nil
}

func (p *parser) parseWhile() (ast.Stmt, error) {
	line := p.tok.line
	p.advance()
	if _, err := p.expect(itemLParen, "("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(itemRParen, ")"); err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Cond: cond, Body: body, Line: line}, nil
}

func (p *parser) parseReturn() (ast.Stmt, error) {
	line := p.tok.line
	p.advance()
	if p.tok.typ == itemSemi {
		p.advance()
		return &ast.ReturnStmt{Line: line}, nil
	}
	e1, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(itemSemi, ";"); err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{Value: e1, Line: line}, nil
}

// parseExprOrAssignStmt parses a statement that starts with an expression. Assignment's left-hand side is
// itself a valid expression (an LValue), so the grammar is only ambiguous up to the "=": parse one full
// expression, then check what is left.
func (p *parser) parseExprOrAssignStmt() (ast.Stmt, error) {
	line := p.tok.line
	e1, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.tok.typ == itemAssign {
		lv, ok := e1.(*ast.LValue)
		if !ok {
			return nil, fmt.Errorf("line %d: left-hand side of an assignment must be a variable or array element", line)
		}
		p.advance()
		rhs, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(itemSemi, ";"); err != nil {
			return nil, err
		}
		return &ast.AssignStmt{Target: lv, Value: rhs, Line: line}, nil
	}
	if _, err := p.expect(itemSemi, ";"); err != nil {
		return nil, err
	}
	return &ast.ExprStmt{Value: e1}, nil
}
