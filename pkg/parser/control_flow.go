package parser

import (
	"github.com/conneroisu/esvm/internal/ast"
	"github.com/conneroisu/esvm/pkg/lexer"
)

func (p *Parser) parseIfStmt() *ast.IfStmt {
	line, col := p.pos()
	p.advance() // 'if'
	p.expect(lexer.TOKEN_LPAREN)
	test := p.parseExpression(precedenceLowest)
	p.expect(lexer.TOKEN_RPAREN)
	consequent := p.parseStatement()

	stmt := &ast.IfStmt{Test: test, Consequent: consequent}
	stmt.Line, stmt.Column = line, col

	if p.curIs(lexer.TOKEN_ELSE) {
		p.advance()
		stmt.Alternate = p.parseStatement()
	}

	return stmt
}

func (p *Parser) parseWhileStmt() *ast.WhileStmt {
	line, col := p.pos()
	p.advance() // 'while'
	p.expect(lexer.TOKEN_LPAREN)
	test := p.parseExpression(precedenceLowest)
	p.expect(lexer.TOKEN_RPAREN)
	body := p.parseStatement()

	stmt := &ast.WhileStmt{Test: test, Body: body}
	stmt.Line, stmt.Column = line, col

	return stmt
}

func (p *Parser) parseDoWhileStmt() *ast.DoWhileStmt {
	line, col := p.pos()
	p.advance() // 'do'
	body := p.parseStatement()
	p.expect(lexer.TOKEN_WHILE)
	p.expect(lexer.TOKEN_LPAREN)
	test := p.parseExpression(precedenceLowest)
	p.expect(lexer.TOKEN_RPAREN)
	p.skipSemicolon()

	stmt := &ast.DoWhileStmt{Body: body, Test: test}
	stmt.Line, stmt.Column = line, col

	return stmt
}

// snapshot captures enough parser state to backtrack out of a
// tentatively-parsed `for (...)` head: the lexer's scan position plus the
// two-token lookahead window. lexer.Lexer holds no pointers or slices
// other than its immutable input string, so copying it by value is a
// cheap, correct checkpoint.
func (p *Parser) snapshot() (lexer.Lexer, lexer.Token, lexer.Token) {
	return *p.l, p.cur, p.peek
}

func (p *Parser) restore(l lexer.Lexer, cur, peek lexer.Token) {
	*p.l = l
	p.cur = cur
	p.peek = peek
}

// tryParseForInOfHead tentatively parses a `[var|let|const] ident` head
// inside `for (...)` and reports ok=true only if it is immediately
// followed by `in` or `of`. On failure it restores the parser to its
// position before the attempt so the caller can re-parse the classic
// three-clause head instead.
func (p *Parser) tryParseForInOfHead() (declKind, target string, ok bool) {
	savedL, savedCur, savedPeek := p.snapshot()

	if p.curIs(lexer.TOKEN_VAR) || p.curIs(lexer.TOKEN_LET) || p.curIs(lexer.TOKEN_CONST) {
		declKind = p.cur.Literal
		p.advance()
	}

	if !p.curIs(lexer.TOKEN_IDENT) {
		p.restore(savedL, savedCur, savedPeek)

		return "", "", false
	}
	target = p.cur.Literal
	p.advance()

	if p.curIs(lexer.TOKEN_IN) || p.curIs(lexer.TOKEN_OF) {
		return declKind, target, true
	}

	p.restore(savedL, savedCur, savedPeek)

	return "", "", false
}

// parseForStmt disambiguates the classic three-clause `for` from
// `for (x in expr)`/`for (x of expr)` by tentatively parsing the head as
// the latter and falling back to the former on mismatch.
func (p *Parser) parseForStmt() ast.Stmt {
	line, col := p.pos()
	p.advance() // 'for'
	p.expect(lexer.TOKEN_LPAREN)

	if declKind, target, ok := p.tryParseForInOfHead(); ok {
		isOf := p.curIs(lexer.TOKEN_OF)
		p.advance() // 'in' or 'of'
		right := p.parseExpression(precedenceLowest)
		p.expect(lexer.TOKEN_RPAREN)
		body := p.parseStatement()

		stmt := &ast.ForInStmt{DeclKind: declKind, Target: target, Right: right, Body: body, IsOf: isOf}
		stmt.Line, stmt.Column = line, col

		return stmt
	}

	var init ast.Stmt
	switch {
	case p.curIs(lexer.TOKEN_VAR), p.curIs(lexer.TOKEN_LET), p.curIs(lexer.TOKEN_CONST):
		init = p.parseVarDeclaration()
	case !p.curIs(lexer.TOKEN_SEMICOLON):
		init = p.parseExpressionStmt()
	default:
		p.advance() // bare ';'
	}

	var test, update ast.Expr
	if !p.curIs(lexer.TOKEN_SEMICOLON) {
		test = p.parseExpression(precedenceLowest)
	}
	p.expect(lexer.TOKEN_SEMICOLON)
	if !p.curIs(lexer.TOKEN_RPAREN) {
		update = p.parseSequenceExpression()
	}
	p.expect(lexer.TOKEN_RPAREN)
	body := p.parseStatement()

	stmt := &ast.ForStmt{Init: init, Test: test, Update: update, Body: body}
	stmt.Line, stmt.Column = line, col

	return stmt
}

func (p *Parser) parseTryStmt() *ast.TryStmt {
	line, col := p.pos()
	p.advance() // 'try'

	stmt := &ast.TryStmt{Block: p.parseBlockStmt()}
	stmt.Line, stmt.Column = line, col

	if p.curIs(lexer.TOKEN_CATCH) {
		p.advance()
		handler := &ast.CatchClause{}
		if p.curIs(lexer.TOKEN_LPAREN) {
			p.advance()
			if p.curIs(lexer.TOKEN_IDENT) {
				handler.Param = p.cur.Literal
				p.advance()
			}
			p.expect(lexer.TOKEN_RPAREN)
		}
		handler.Body = p.parseBlockStmt()
		stmt.Handler = handler
	}

	if p.curIs(lexer.TOKEN_FINALLY) {
		p.advance()
		stmt.Finalizer = p.parseBlockStmt()
	}

	if stmt.Handler == nil && stmt.Finalizer == nil {
		p.errors.Addf(line, col, "try statement requires at least one of catch or finally")
	}

	return stmt
}
