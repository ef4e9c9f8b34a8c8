// Copyright 2025 The Truk Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package parser

import (
	"fmt"

	"truklang.org/go/truk/ast"
	"truklang.org/go/truk/errors"
	"truklang.org/go/truk/scanner"
	"truklang.org/go/truk/token"
)

// The parser structure holds the parser's internal state.
type parser struct {
	file    *token.File
	errors  errors.List
	scanner scanner.Scanner

	// Tracing/debugging
	mode   mode // parsing mode
	trace  bool // == (mode & traceMode != 0)
	indent int  // indentation used for tracing output

	// Next token
	pos token.Pos   // token position
	tok token.Token // one token look-ahead
	lit string      // token literal

	// Speculative parsing
	recording bool
	recorded  []tokState
	pending   []tokState

	// Error recovery
	// (used to limit the number of calls to sync functions w/o making
	// scanning progress - avoids potential endless loops across
	// multiple parser functions during error recovery)
	syncPos token.Pos // last synchronization position
	syncCnt int       // number of calls to sync without progress

	// Non-syntactic parser control
	exprLev int // < 0: in control clause, >= 0: in expression
}

type tokState struct {
	pos token.Pos
	tok token.Token
	lit string
}

func (p *parser) init(filename string, src []byte, mode []Option) {
	p.file = token.NewFile(filename, len(src))
	for _, f := range mode {
		f(p)
	}
	var m scanner.Mode
	if p.mode&parseCommentsMode != 0 {
		m = scanner.ScanComments
	}
	eh := func(pos token.Pos, msg string) {
		p.errors.AddNewf(pos, "%s", msg)
	}
	p.scanner.Init(p.file, src, eh, m)

	p.trace = p.mode&traceMode != 0

	p.next()
}

// ----------------------------------------------------------------------------
// Parsing support

func (p *parser) printTrace(a ...interface{}) {
	const dots = ". . . . . . . . . . . . . . . . . . . . . . . . . . . . . . . . "
	const n = len(dots)
	pos := p.pos.Position()
	fmt.Printf("%5d:%3d: ", pos.Line, pos.Column)
	i := 2 * p.indent
	for i > n {
		fmt.Print(dots)
		i -= n
	}
	// i <= n
	fmt.Print(dots[0:i])
	fmt.Println(a...)
}

func trace(p *parser, msg string) *parser {
	p.printTrace(msg, "(")
	p.indent++
	return p
}

// Usage pattern: defer un(trace(p, "..."))
func un(p *parser) {
	p.indent--
	p.printTrace(")")
}

// Advance to the next token, replaying buffered tokens first when a
// speculative parse was rolled back.
func (p *parser) next() {
	if len(p.pending) > 0 {
		st := p.pending[0]
		p.pending = p.pending[1:]
		p.pos, p.tok, p.lit = st.pos, st.tok, st.lit
	} else {
		p.pos, p.tok, p.lit = p.scanner.Scan()
		for p.tok == token.COMMENT {
			p.pos, p.tok, p.lit = p.scanner.Scan()
		}
	}
	if p.recording {
		p.recorded = append(p.recorded, tokState{p.pos, p.tok, p.lit})
	}
	if p.trace && p.pos.IsValid() {
		s := p.tok.String()
		switch {
		case p.tok.IsLiteral():
			p.printTrace(s, p.lit)
		case p.tok.IsOperator(), p.tok.IsKeyword():
			p.printTrace("\"" + s + "\"")
		default:
			p.printTrace(s)
		}
	}
}

type checkpoint struct {
	cur         tokState
	nErrors     int
	replayStart int
}

// checkpoint starts recording consumed tokens so that a speculative
// parse can be rolled back with restore. Checkpoints do not nest.
func (p *parser) checkpoint() checkpoint {
	p.recording = true
	return checkpoint{
		cur:         tokState{p.pos, p.tok, p.lit},
		nErrors:     len(p.errors),
		replayStart: len(p.recorded),
	}
}

// commit accepts the speculative parse since the checkpoint.
func (p *parser) commit(cp checkpoint) {
	p.recording = false
	p.recorded = p.recorded[:0]
}

// restore rolls the parser back to the state captured by checkpoint:
// the tokens consumed since then will be replayed, and any errors
// reported during the speculative parse are discarded.
func (p *parser) restore(cp checkpoint) {
	p.recording = false
	replay := append([]tokState{}, p.recorded[cp.replayStart:]...)
	p.recorded = p.recorded[:0]
	p.pending = append(replay, p.pending...)
	p.pos, p.tok, p.lit = cp.cur.pos, cp.cur.tok, cp.cur.lit
	p.errors = p.errors[:cp.nErrors]
}

func (p *parser) errf(pos token.Pos, msg string, args ...interface{}) {
	p.errors.AddNewf(pos, msg, args...)
}

// expect consumes the current token if it matches tok; otherwise it
// reports msg at the current position. The position of the token is
// returned either way so callers can record it.
func (p *parser) expect(tok token.Token, msg string) token.Pos {
	pos := p.pos
	if p.tok != tok {
		p.errf(pos, "%s", msg)
	} else {
		p.next()
	}
	return pos
}

// got consumes the current token if it matches tok.
func (p *parser) got(tok token.Token) bool {
	if p.tok == tok {
		p.next()
		return true
	}
	return false
}

// topLevelStart reports whether the current token can begin a top-level
// declaration, used for resynchronization after an error.
func (p *parser) topLevelStart() bool {
	switch p.tok {
	case token.FN, token.STRUCT, token.VAR, token.CONST,
		token.IMPORT, token.CIMPORT, token.EXTERN:
		return true
	case token.IDENT:
		return p.lit == "enum" || p.lit == "shard"
	}
	return false
}

// syncDecl advances to the next token that may start a top-level
// declaration. Used for synchronization after an error.
func (p *parser) syncDecl() {
	for {
		if p.tok == token.EOF {
			return
		}
		if p.topLevelStart() {
			// Return only if the parser made some progress since the
			// last sync or if it has not reached 10 sync calls without
			// progress. Otherwise consume at least one token to avoid
			// an endless parser loop.
			if p.pos == p.syncPos && p.syncCnt < 10 {
				p.syncCnt++
				return
			}
			if !p.syncPos.IsValid() || p.syncPos.Before(p.pos) {
				p.syncPos = p.pos
				p.syncCnt = 0
				return
			}
		}
		p.next()
	}
}

// syncStmt advances past the current statement: to just after the next
// ';', or to a closing '}' or EOF.
func (p *parser) syncStmt() {
	for {
		switch p.tok {
		case token.SEMICOLON:
			p.next()
			return
		case token.RBRACE, token.EOF:
			return
		}
		p.next()
	}
}

// ----------------------------------------------------------------------------
// Identifiers

func (p *parser) parseIdent(msg string) *ast.Ident {
	pos := p.pos
	name := "_"
	if p.tok == token.IDENT {
		name = p.lit
		p.next()
	} else {
		p.errf(pos, "%s", msg)
	}
	return &ast.Ident{NamePos: pos, Name: name}
}

// ----------------------------------------------------------------------------
// Types

// badType is substituted when no type could be parsed, so that later
// passes never see a nil type in a required position.
func (p *parser) badType(pos token.Pos) ast.Type {
	return &ast.NamedType{Name: &ast.Ident{NamePos: pos, Name: "_"}}
}

// parseType parses a type expression. The order of prefixes matters:
// *[N]T is pointer-to-array, [N]*T is array-of-pointer.
func (p *parser) parseType() ast.Type {
	if p.trace {
		defer un(trace(p, "Type"))
	}

	pos := p.pos
	switch {
	case p.tok == token.MUL:
		p.next()
		return &ast.PointerType{Star: pos, Base: p.parseType()}

	case p.tok == token.LBRACK:
		p.next()
		var size ast.Expr
		if p.tok != token.RBRACK {
			if p.tok == token.INT {
				size = &ast.BasicLit{ValuePos: p.pos, Kind: token.INT, Value: p.lit}
				p.next()
			} else {
				p.errf(p.pos, "Expected array size")
			}
		}
		p.expect(token.RBRACK, "Expected ']'")
		return &ast.ArrayType{Lbrack: pos, Size: size, Elem: p.parseType()}

	case p.tok == token.FN:
		return p.parseFuncType()

	case p.tok == token.LPAREN:
		p.next()
		var elems []ast.Type
		for p.tok != token.RPAREN && p.tok != token.EOF {
			elems = append(elems, p.parseType())
			if !p.got(token.COMMA) {
				break
			}
		}
		rparen := p.expect(token.RPAREN, "Expected ')'")
		return &ast.TupleType{Lparen: pos, Elems: elems, Rparen: rparen}

	case p.tok.IsPrimitiveType():
		kind := p.tok
		p.next()
		return &ast.PrimitiveType{TypePos: pos, Kind: kind}

	case p.tok == token.IDENT && p.lit == "map":
		p.next()
		p.expect(token.LBRACK, "Expected '['")
		key := p.parseType()
		p.expect(token.COMMA, "Expected ','")
		value := p.parseType()
		rbrack := p.expect(token.RBRACK, "Expected ']'")
		return &ast.MapType{MapPos: pos, Key: key, Value: value, Rbrack: rbrack}

	case p.tok == token.IDENT:
		name := p.parseIdent("Expected type")
		if p.tok == token.LBRACK {
			lbrack := p.pos
			p.next()
			var args []ast.Type
			for p.tok != token.RBRACK && p.tok != token.EOF {
				args = append(args, p.parseType())
				if !p.got(token.COMMA) {
					break
				}
			}
			rbrack := p.expect(token.RBRACK, "Expected ']'")
			return &ast.GenericType{Name: name, Lbrack: lbrack, Args: args, Rbrack: rbrack}
		}
		return &ast.NamedType{Name: name}
	}

	p.errf(pos, "Expected type")
	return p.badType(pos)
}

func (p *parser) parseFuncType() *ast.FuncType {
	pos := p.expect(token.FN, "Expected 'fn'")
	p.expect(token.LPAREN, "Expected '('")
	var params []ast.Type
	variadic := false
	for p.tok != token.RPAREN && p.tok != token.EOF {
		if p.tok == token.ELLIPSIS {
			variadic = true
			p.next()
		} else {
			params = append(params, p.parseType())
		}
		if !p.got(token.COMMA) {
			break
		}
	}
	end := p.expect(token.RPAREN, "Expected ')'").Add(1)
	var result ast.Type
	if p.got(token.COLON) {
		result = p.parseType()
		end = result.End()
	}
	return &ast.FuncType{Fn: pos, Params: params, Result: result, Variadic: variadic, EndPos: end}
}

// ----------------------------------------------------------------------------
// Expressions

// parseOperand parses a primary expression.
func (p *parser) parseOperand() ast.Expr {
	if p.trace {
		defer un(trace(p, "Operand"))
	}

	switch p.tok {
	case token.IDENT:
		ident := p.parseIdent("Expected expression")
		switch {
		case p.tok == token.LBRACE && p.exprLev >= 0:
			return p.parseStructLit(ident, nil)
		case p.tok == token.LBRACK && p.exprLev >= 0:
			if lit, ok := p.tryGenericStructLit(ident); ok {
				return lit
			}
		}
		return ident

	case token.INT, token.FLOAT, token.STRING, token.CHAR,
		token.TRUE, token.FALSE, token.NIL:
		x := &ast.BasicLit{ValuePos: p.pos, Kind: p.tok, Value: p.lit}
		p.next()
		return x

	case token.LPAREN:
		lparen := p.pos
		p.next()
		p.exprLev++
		x := p.parseExpr()
		p.exprLev--
		rparen := p.expect(token.RPAREN, "Expected ')'")
		return &ast.ParenExpr{Lparen: lparen, X: x, Rparen: rparen}

	case token.LBRACK:
		return p.parseArrayLit()

	case token.FN:
		return p.parseLambda()

	case token.AT:
		at := p.pos
		p.next()
		return &ast.TypeParamExpr{At: at, Type: p.parseType()}
	}

	// we have an error
	pos := p.pos
	p.errf(pos, "Expected expression")
	p.next() // make progress
	return &ast.BadExpr{From: pos, To: p.pos}
}

// tryGenericStructLit attempts to parse "Name[T1, ...]{...}" after the
// name has been consumed and the current token is '['. It rolls the
// parser back when the brackets do not contain a type list immediately
// followed by '{', so that "name[index]" keeps parsing as an index
// expression.
func (p *parser) tryGenericStructLit(name *ast.Ident) (ast.Expr, bool) {
	cp := p.checkpoint()
	p.next() // consume '['
	var args []ast.Type
	for p.tok != token.RBRACK && p.tok != token.EOF {
		args = append(args, p.parseType())
		if !p.got(token.COMMA) {
			break
		}
	}
	if len(p.errors) != cp.nErrors || p.tok != token.RBRACK {
		p.restore(cp)
		return nil, false
	}
	p.next() // consume ']'
	if p.tok != token.LBRACE {
		p.restore(cp)
		return nil, false
	}
	p.commit(cp)
	return p.parseStructLit(name, args), true
}

func (p *parser) parseStructLit(name *ast.Ident, typeArgs []ast.Type) ast.Expr {
	if p.trace {
		defer un(trace(p, "StructLit"))
	}

	lbrace := p.expect(token.LBRACE, "Expected '{'")
	var fields []*ast.FieldValue
	p.exprLev++
	for p.tok != token.RBRACE && p.tok != token.EOF {
		fname := p.parseIdent("Expected field name")
		colon := p.expect(token.COLON, "Expected ':'")
		value := p.parseExpr()
		fields = append(fields, &ast.FieldValue{Name: fname, Colon: colon, Value: value})
		if !p.got(token.COMMA) {
			break
		}
	}
	p.exprLev--
	rbrace := p.expect(token.RBRACE, "Expected '}'")
	return &ast.StructLit{Name: name, TypeArgs: typeArgs, Lbrace: lbrace, Fields: fields, Rbrace: rbrace}
}

func (p *parser) parseArrayLit() ast.Expr {
	lbrack := p.expect(token.LBRACK, "Expected '['")
	var elts []ast.Expr
	p.exprLev++
	for p.tok != token.RBRACK && p.tok != token.EOF {
		elts = append(elts, p.parseExpr())
		if !p.got(token.COMMA) {
			break
		}
	}
	p.exprLev--
	rbrack := p.expect(token.RBRACK, "Expected ']'")
	return &ast.ArrayLit{Lbrack: lbrack, Elts: elts, Rbrack: rbrack}
}

func (p *parser) parseLambda() ast.Expr {
	pos := p.expect(token.FN, "Expected 'fn'")
	params := p.parseParams()
	var result ast.Type
	if p.got(token.COLON) {
		result = p.parseType()
	}
	prevLev := p.exprLev
	p.exprLev = 0
	body := p.parseBlock()
	p.exprLev = prevLev
	return &ast.LambdaExpr{Fn: pos, Params: params, Result: result, Body: body}
}

func (p *parser) parseCall(fun ast.Expr) ast.Expr {
	lparen := p.expect(token.LPAREN, "Expected '('")
	p.exprLev++
	var args []ast.Expr
	for p.tok != token.RPAREN && p.tok != token.EOF {
		args = append(args, p.parseExpr())
		if !p.got(token.COMMA) {
			break
		}
	}
	p.exprLev--
	rparen := p.expect(token.RPAREN, "Expected ')'")
	return &ast.CallExpr{Fun: fun, Lparen: lparen, Args: args, Rparen: rparen}
}

func (p *parser) parsePrimaryExpr() ast.Expr {
	if p.trace {
		defer un(trace(p, "PrimaryExpr"))
	}

	x := p.parseOperand()

L:
	for {
		switch p.tok {
		case token.PERIOD:
			p.next()
			sel := p.parseIdent("Expected field name")
			x = &ast.SelectorExpr{X: x, Sel: sel}
		case token.LBRACK:
			lbrack := p.pos
			p.next()
			p.exprLev++
			index := p.parseExpr()
			p.exprLev--
			rbrack := p.expect(token.RBRACK, "Expected ']'")
			x = &ast.IndexExpr{X: x, Lbrack: lbrack, Index: index, Rbrack: rbrack}
		case token.LPAREN:
			x = p.parseCall(x)
		case token.AS:
			asPos := p.pos
			p.next()
			x = &ast.CastExpr{X: x, AsPos: asPos, Target: p.parseType()}
		default:
			break L
		}
	}

	return x
}

func (p *parser) parseUnaryExpr() ast.Expr {
	if p.trace {
		defer un(trace(p, "UnaryExpr"))
	}

	switch p.tok {
	case token.SUB, token.NOT, token.TILDE, token.AND, token.MUL:
		pos, op := p.pos, p.tok
		p.next()
		return &ast.UnaryExpr{OpPos: pos, Op: op, X: p.parseUnaryExpr()}
	}

	return p.parsePrimaryExpr()
}

func (p *parser) parseBinaryExpr(prec1 int) ast.Expr {
	if p.trace {
		defer un(trace(p, "BinaryExpr"))
	}

	x := p.parseUnaryExpr()

	for {
		op := p.tok
		prec := op.Precedence()
		if prec < prec1 {
			return x
		}
		pos := p.pos
		p.next()
		y := p.parseBinaryExpr(prec + 1)
		x = &ast.BinaryExpr{X: x, OpPos: pos, Op: op, Y: y}
	}
}

func (p *parser) parseExpr() ast.Expr {
	if p.trace {
		defer un(trace(p, "Expression"))
	}

	return p.parseBinaryExpr(token.LowestPrec + 1)
}

// ----------------------------------------------------------------------------
// Statements

func (p *parser) parseBlock() *ast.BlockStmt {
	if p.trace {
		defer un(trace(p, "Block"))
	}

	lbrace := p.expect(token.LBRACE, "Expected '{'")
	var list []ast.Stmt
	for p.tok != token.RBRACE && p.tok != token.EOF {
		list = append(list, p.parseStmt())
	}
	rbrace := p.pos
	if p.tok != token.RBRACE {
		p.errf(p.pos, "Expected '}' after block")
	} else {
		p.next()
	}
	return &ast.BlockStmt{Lbrace: lbrace, List: list, Rbrace: rbrace}
}

// parseHeaderExpr parses a control-flow condition, disabling composite
// literals so that the loop/if body's '{' is not consumed as part of
// the expression.
func (p *parser) parseHeaderExpr() ast.Expr {
	prevLev := p.exprLev
	p.exprLev = -1
	x := p.parseExpr()
	p.exprLev = prevLev
	return x
}

func (p *parser) parseIfStmt() ast.Stmt {
	ifPos := p.expect(token.IF, "Expected 'if'")
	cond := p.parseHeaderExpr()
	body := p.parseBlock()
	var els ast.Stmt
	if p.got(token.ELSE) {
		if p.tok == token.IF {
			els = p.parseIfStmt()
		} else {
			els = p.parseBlock()
		}
	}
	return &ast.IfStmt{If: ifPos, Cond: cond, Body: body, Else: els}
}

func (p *parser) parseWhileStmt() ast.Stmt {
	whilePos := p.expect(token.WHILE, "Expected 'while'")
	cond := p.parseHeaderExpr()
	body := p.parseBlock()
	return &ast.WhileStmt{While: whilePos, Cond: cond, Body: body}
}

func (p *parser) parseForStmt() ast.Stmt {
	forPos := p.expect(token.FOR, "Expected 'for'")

	prevLev := p.exprLev
	p.exprLev = -1

	var init ast.Stmt
	switch {
	case p.tok == token.SEMICOLON:
		p.next()
	case p.tok == token.VAR:
		init = p.parseVarDecl(false) // consumes the ';'
	case p.tok == token.IDENT && p.lit == "let":
		init = p.parseLetDecl(true) // consumes the ';'
	default:
		init = p.parseSimpleStmt(false)
		p.expect(token.SEMICOLON, "Expected ';'")
	}

	var cond ast.Expr
	if p.tok != token.SEMICOLON {
		cond = p.parseExpr()
	}
	p.expect(token.SEMICOLON, "Expected ';'")

	var post ast.Stmt
	if p.tok != token.LBRACE {
		post = p.parseSimpleStmt(false)
	}

	p.exprLev = prevLev

	body := p.parseBlock()
	return &ast.ForStmt{For: forPos, Init: init, Cond: cond, Post: post, Body: body}
}

func (p *parser) parseReturnStmt() ast.Stmt {
	retPos := p.expect(token.RETURN, "Expected 'return'")
	var results []ast.Expr
	if p.tok != token.SEMICOLON && p.tok != token.RBRACE && p.tok != token.EOF {
		results = append(results, p.parseExpr())
		for p.got(token.COMMA) {
			results = append(results, p.parseExpr())
		}
	}
	end := p.expect(token.SEMICOLON, "Expected ';'")
	return &ast.ReturnStmt{Return: retPos, Results: results, EndPos: end}
}

func (p *parser) parseMatchStmt() ast.Stmt {
	matchPos := p.pos
	p.next() // consume "match"
	x := p.parseHeaderExpr()
	lbrace := p.expect(token.LBRACE, "Expected '{'")
	var cases []*ast.MatchCase
	for p.tok != token.RBRACE && p.tok != token.EOF {
		casePos := p.pos
		var pattern ast.Expr
		if p.tok == token.IDENT && p.lit == "_" {
			p.next()
		} else {
			p.exprLev++
			pattern = p.parseExpr()
			p.exprLev--
		}
		arrow := p.expect(token.ARROW, "Expected '=>'")
		var body ast.Stmt
		if p.tok == token.LBRACE {
			body = p.parseBlock()
		} else {
			body = p.parseStmt()
		}
		cases = append(cases, &ast.MatchCase{CasePos: casePos, Pattern: pattern, Arrow: arrow, Body: body})
		p.got(token.COMMA)
	}
	rbrace := p.expect(token.RBRACE, "Expected '}'")
	return &ast.MatchStmt{Match: matchPos, X: x, Lbrace: lbrace, Cases: cases, Rbrace: rbrace}
}

func (p *parser) parseLetDecl(wantSemi bool) ast.Stmt {
	letPos := p.pos
	p.next() // consume "let"
	names := []*ast.Ident{p.parseIdent("Expected variable name")}
	for p.got(token.COMMA) {
		names = append(names, p.parseIdent("Expected variable name"))
	}
	p.expect(token.ASSIGN, "Expected '='")
	value := p.parseExpr()
	var end token.Pos
	if wantSemi {
		end = p.expect(token.SEMICOLON, "Expected ';'")
	}
	return &ast.LetDecl{Let: letPos, Names: names, Value: value, EndPos: end}
}

// parseSimpleStmt parses an expression or assignment statement. The
// terminating ';' is consumed only when wantSemi is set; for headers
// leave it to the caller.
func (p *parser) parseSimpleStmt(wantSemi bool) ast.Stmt {
	x := p.parseExpr()

	if p.tok.IsAssignOp() {
		tokPos, tok := p.pos, p.tok
		p.next()
		value := p.parseExpr()
		if wantSemi {
			p.expect(token.SEMICOLON, "Expected ';'")
		}
		return &ast.AssignStmt{Target: x, TokPos: tokPos, Tok: tok, Value: value}
	}

	if wantSemi {
		p.expect(token.SEMICOLON, "Expected ';'")
	}
	return &ast.ExprStmt{X: x}
}

func (p *parser) parseStmt() ast.Stmt {
	if p.trace {
		defer un(trace(p, "Statement"))
	}

	switch p.tok {
	case token.VAR:
		return p.parseVarDecl(false)
	case token.CONST:
		return p.parseConstDecl()
	case token.EXTERN:
		pos := p.pos
		p.next()
		if p.tok == token.VAR {
			return p.parseVarDecl(true)
		}
		p.errf(pos, "Expected 'var' after 'extern'")
		p.syncStmt()
		return &ast.BadStmt{From: pos, To: p.pos}
	case token.IF:
		return p.parseIfStmt()
	case token.WHILE:
		return p.parseWhileStmt()
	case token.FOR:
		return p.parseForStmt()
	case token.RETURN:
		return p.parseReturnStmt()
	case token.BREAK, token.CONTINUE:
		pos, tok := p.pos, p.tok
		p.next()
		p.expect(token.SEMICOLON, "Expected ';'")
		return &ast.BranchStmt{TokPos: pos, Tok: tok}
	case token.DEFER:
		pos := p.pos
		p.next()
		return &ast.DeferStmt{Defer: pos, Body: p.parseStmt()}
	case token.LBRACE:
		return p.parseBlock()
	case token.IDENT:
		switch p.lit {
		case "let":
			return p.parseLetDecl(true)
		case "match":
			return p.parseMatchStmt()
		}
		return p.parseSimpleStmt(true)
	case token.SEMICOLON:
		pos := p.pos
		p.next()
		return &ast.ExprStmt{X: &ast.BadExpr{From: pos, To: pos}}
	}

	return p.parseSimpleStmt(true)
}

// ----------------------------------------------------------------------------
// Declarations

func (p *parser) parseParams() []*ast.Param {
	p.expect(token.LPAREN, "Expected '(' after function name")
	var params []*ast.Param
	for p.tok != token.RPAREN && p.tok != token.EOF {
		if p.tok == token.ELLIPSIS {
			params = append(params, &ast.Param{Ellipsis: p.pos})
			p.next()
		} else {
			name := p.parseIdent("Expected parameter name")
			if name.Name == "_" && p.tok != token.COLON {
				// No parameter name was present; bail out rather than
				// looping on the offending token.
				break
			}
			p.expect(token.COLON, "Expected ':' in type annotation")
			typ := p.parseType()
			params = append(params, &ast.Param{Name: name, Type: typ})
		}
		if !p.got(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN, "Expected ')'")
	return params
}

func (p *parser) parseFuncDecl(extern bool) ast.Decl {
	if p.trace {
		defer un(trace(p, "FuncDecl"))
	}

	pos := p.expect(token.FN, "Expected 'fn'")
	name := p.parseIdent("Expected function name")
	params := p.parseParams()
	var result ast.Type
	if p.got(token.COLON) {
		result = p.parseType()
	}
	d := &ast.FuncDecl{Fn: pos, Name: name, Params: params, Result: result, Extern: extern}
	if extern {
		d.EndPos = p.expect(token.SEMICOLON, "Expected ';'")
		return d
	}
	if p.tok != token.LBRACE {
		p.errf(p.pos, "Expected '{'")
		return d
	}
	d.Body = p.parseBlock()
	return d
}

func (p *parser) parseStructDecl(extern bool) ast.Decl {
	if p.trace {
		defer un(trace(p, "StructDecl"))
	}

	pos := p.expect(token.STRUCT, "Expected 'struct'")
	name := p.parseIdent("Expected struct name")

	var typeParams []*ast.Ident
	if p.got(token.LBRACK) {
		for p.tok != token.RBRACK && p.tok != token.EOF {
			typeParams = append(typeParams, p.parseIdent("Expected type parameter name"))
			if !p.got(token.COMMA) {
				break
			}
		}
		p.expect(token.RBRACK, "Expected ']'")
	}

	p.expect(token.LBRACE, "Expected '{'")
	var fields []*ast.Field
	for p.tok != token.RBRACE && p.tok != token.EOF {
		fname := p.parseIdent("Expected field name")
		if fname.Name == "_" && p.tok != token.COLON {
			break
		}
		p.expect(token.COLON, "Expected ':'")
		ftype := p.parseType()
		fields = append(fields, &ast.Field{Name: fname, Type: ftype})
		if !p.got(token.COMMA) {
			break
		}
	}
	rbrace := p.expect(token.RBRACE, "Expected '}'")
	return &ast.StructDecl{Struct: pos, Name: name, TypeParams: typeParams, Fields: fields, Rbrace: rbrace, Extern: extern}
}

func (p *parser) parseEnumDecl(extern bool) ast.Decl {
	pos := p.pos
	p.next() // consume "enum"
	name := p.parseIdent("Expected enum name")
	var backing ast.Type
	if p.got(token.COLON) {
		backing = p.parseType()
	}
	p.expect(token.LBRACE, "Expected '{'")
	var values []*ast.EnumValue
	for p.tok != token.RBRACE && p.tok != token.EOF {
		vname := p.parseIdent("Expected enum value name")
		if vname.Name == "_" && p.tok != token.ASSIGN && p.tok != token.COMMA && p.tok != token.RBRACE {
			break
		}
		v := &ast.EnumValue{Name: vname}
		if p.got(token.ASSIGN) {
			v.Value = p.parseExpr()
		}
		values = append(values, v)
		if !p.got(token.COMMA) {
			break
		}
	}
	rbrace := p.expect(token.RBRACE, "Expected '}'")
	return &ast.EnumDecl{Enum: pos, Name: name, Backing: backing, Values: values, Rbrace: rbrace, Extern: extern}
}

func (p *parser) parseVarDecl(extern bool) *ast.VarDecl {
	pos := p.expect(token.VAR, "Expected 'var'")
	name := p.parseIdent("Expected variable name")
	p.expect(token.COLON, "Expected ':' in type annotation")
	typ := p.parseType()
	d := &ast.VarDecl{VarPos: pos, Name: name, Type: typ, Extern: extern}
	if !extern && p.got(token.ASSIGN) {
		d.Value = p.parseExpr()
	}
	d.EndPos = p.expect(token.SEMICOLON, "Expected ';'")
	return d
}

func (p *parser) parseConstDecl() *ast.ConstDecl {
	pos := p.expect(token.CONST, "Expected 'const'")
	name := p.parseIdent("Expected constant name")
	p.expect(token.COLON, "Expected ':' in type annotation")
	typ := p.parseType()
	p.expect(token.ASSIGN, "Expected '='")
	value := p.parseExpr()
	end := p.expect(token.SEMICOLON, "Expected ';'")
	return &ast.ConstDecl{ConstPos: pos, Name: name, Type: typ, Value: value, EndPos: end}
}

func (p *parser) parseImportDecl() ast.Decl {
	pos := p.expect(token.IMPORT, "Expected 'import'")
	var path *ast.BasicLit
	if p.tok == token.STRING {
		path = &ast.BasicLit{ValuePos: p.pos, Kind: token.STRING, Value: p.lit}
		p.next()
	} else {
		p.errf(p.pos, "Expected import path")
		path = &ast.BasicLit{ValuePos: p.pos, Kind: token.STRING, Value: `""`}
	}
	end := p.expect(token.SEMICOLON, "Expected ';'")
	return &ast.ImportDecl{Import: pos, Path: path, EndPos: end}
}

func (p *parser) parseCImportDecl() ast.Decl {
	pos := p.expect(token.CIMPORT, "Expected 'cimport'")
	d := &ast.CImportDecl{Cimport: pos}
	switch p.tok {
	case token.STRING:
		d.Path = p.lit
		d.PathPos = p.pos
		p.next()
	case token.LSS:
		// cimport <header.h>;
		d.Angle = true
		d.PathPos = p.pos
		p.next()
		for p.tok != token.GTR && p.tok != token.SEMICOLON && p.tok != token.EOF {
			d.Path += p.lit
			if p.lit == "" {
				d.Path += p.tok.String()
			}
			p.next()
		}
		p.expect(token.GTR, "Expected '>'")
	default:
		p.errf(p.pos, "Expected import path")
	}
	d.EndPos = p.expect(token.SEMICOLON, "Expected ';'")
	return d
}

func (p *parser) parseShardDecl() ast.Decl {
	pos := p.pos
	p.next() // consume "shard"
	name := p.parseIdent("Expected shard name")
	end := p.expect(token.SEMICOLON, "Expected ';'")
	return &ast.ShardDecl{Shard: pos, Name: name, EndPos: end}
}

func (p *parser) parseDecl() ast.Decl {
	if p.trace {
		defer un(trace(p, "Declaration"))
	}

	switch p.tok {
	case token.FN:
		return p.parseFuncDecl(false)
	case token.STRUCT:
		return p.parseStructDecl(false)
	case token.VAR:
		return p.parseVarDecl(false)
	case token.CONST:
		return p.parseConstDecl()
	case token.IMPORT:
		return p.parseImportDecl()
	case token.CIMPORT:
		return p.parseCImportDecl()
	case token.EXTERN:
		pos := p.pos
		p.next()
		switch p.tok {
		case token.FN:
			return p.parseFuncDecl(true)
		case token.VAR:
			return p.parseVarDecl(true)
		case token.STRUCT:
			return p.parseStructDecl(true)
		case token.IDENT:
			if p.lit == "enum" {
				return p.parseEnumDecl(true)
			}
		}
		p.errf(p.pos, "Expected declaration after 'extern'")
		p.syncDecl()
		return &ast.BadDecl{From: pos, To: p.pos}
	case token.IDENT:
		switch p.lit {
		case "enum":
			return p.parseEnumDecl(false)
		case "shard":
			return p.parseShardDecl()
		}
	}

	pos := p.pos
	p.errf(pos, "Expected declaration")
	p.next()
	p.syncDecl()
	return &ast.BadDecl{From: pos, To: p.pos}
}

// ----------------------------------------------------------------------------
// Source files

func (p *parser) parseFile(filename string) *ast.File {
	if p.trace {
		defer un(trace(p, "File"))
	}

	var decls []ast.Decl
	for p.tok != token.EOF {
		nErrors := len(p.errors)
		d := p.parseDecl()
		decls = append(decls, d)
		if len(p.errors) > nErrors {
			// The declaration did not parse cleanly; resynchronize at
			// the next top-level keyword so one bad declaration does
			// not swallow the rest of the file.
			p.syncDecl()
		}
	}

	return &ast.File{Filename: filename, Decls: decls}
}
