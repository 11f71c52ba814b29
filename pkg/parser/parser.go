// Package parser implements a recursive-descent, Pratt-parsing parser
// for the ECMAScript expression/statement subset this engine's CLI
// driver evaluates (spec.md names the parser as an external
// collaborator to the core, referenced only by interface — this package
// is that interface's concrete, intentionally non-conformant
// implementation, which does not support destructuring patterns, classes, generators/async,
// template-literal interpolation, regex literals).
package parser

import (
	"strconv"

	"github.com/conneroisu/esvm/internal/ast"
	"github.com/conneroisu/esvm/pkg/lexer"
)

// Parser transforms a lexer.Lexer's token stream into an *ast.Program.
type Parser struct {
	l      *lexer.Lexer
	cur    lexer.Token
	peek   lexer.Token
	errors *ParseErrors
}

// New constructs a Parser reading from l, priming the two-token
// lookahead window.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l, errors: &ParseErrors{}}
	p.advance()
	p.advance()

	return p
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) curIs(t lexer.TokenType) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t lexer.TokenType) bool { return p.peek.Type == t }

func (p *Parser) expect(t lexer.TokenType) bool {
	if p.curIs(t) {
		p.advance()

		return true
	}
	p.errors.Addf(p.cur.Line, p.cur.Column, "expected %s, got %s (%q)", t, p.cur.Type, p.cur.Literal)

	return false
}

func (p *Parser) pos() (int, int) { return p.cur.Line, p.cur.Column }

// Errors returns every error accumulated so far.
func (p *Parser) Errors() *ParseErrors { return p.errors }

// Parse parses the entire token stream into a Program, returning
// accumulated errors if any statement failed to parse.
func (p *Parser) Parse() (*ast.Program, error) {
	line, col := p.pos()
	prog := &ast.Program{}
	prog.Line, prog.Column = line, col

	for !p.curIs(lexer.TOKEN_EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Body = append(prog.Body, stmt)
		}
	}

	if p.errors.HasErrors() {
		return nil, p.errors
	}

	return prog, nil
}

func (p *Parser) parseStatement() ast.Stmt {
	switch p.cur.Type {
	case lexer.TOKEN_VAR, lexer.TOKEN_LET, lexer.TOKEN_CONST:
		return p.parseVarDeclaration()
	case lexer.TOKEN_FUNCTION:
		return p.parseFunctionDeclaration()
	case lexer.TOKEN_LBRACE:
		return p.parseBlockStmt()
	case lexer.TOKEN_IF:
		return p.parseIfStmt()
	case lexer.TOKEN_WHILE:
		return p.parseWhileStmt()
	case lexer.TOKEN_DO:
		return p.parseDoWhileStmt()
	case lexer.TOKEN_FOR:
		return p.parseForStmt()
	case lexer.TOKEN_RETURN:
		return p.parseReturnStmt()
	case lexer.TOKEN_BREAK:
		line, col := p.pos()
		p.advance()
		p.skipSemicolon()
		stmt := &ast.BreakStmt{}
		stmt.Line, stmt.Column = line, col

		return stmt
	case lexer.TOKEN_CONTINUE:
		line, col := p.pos()
		p.advance()
		p.skipSemicolon()
		stmt := &ast.ContinueStmt{}
		stmt.Line, stmt.Column = line, col

		return stmt
	case lexer.TOKEN_THROW:
		return p.parseThrowStmt()
	case lexer.TOKEN_TRY:
		return p.parseTryStmt()
	case lexer.TOKEN_SEMICOLON:
		p.advance()

		return nil
	default:
		return p.parseExpressionStmt()
	}
}

func (p *Parser) skipSemicolon() {
	if p.curIs(lexer.TOKEN_SEMICOLON) {
		p.advance()
	}
}

func (p *Parser) parseVarDeclaration() *ast.VarDeclaration {
	line, col := p.pos()
	kind := p.cur.Literal
	p.advance()

	decl := &ast.VarDeclaration{Kind: kind}
	decl.Line, decl.Column = line, col

	for {
		if !p.curIs(lexer.TOKEN_IDENT) {
			p.errors.Addf(p.cur.Line, p.cur.Column, "expected identifier in declaration, got %q", p.cur.Literal)

			break
		}
		name := p.cur.Literal
		p.advance()

		var init ast.Expr
		if p.curIs(lexer.TOKEN_ASSIGN) {
			p.advance()
			init = p.parseExpression(precedenceAssign)
		}
		decl.Declarators = append(decl.Declarators, ast.VarDeclarator{Name: name, Init: init})

		if p.curIs(lexer.TOKEN_COMMA) {
			p.advance()

			continue
		}

		break
	}
	p.skipSemicolon()

	return decl
}

func (p *Parser) parseFunctionDeclaration() *ast.FunctionLiteral {
	fn := p.parseFunctionLiteral()
	fn.IsDeclaration = true

	return fn
}

func (p *Parser) parseFunctionLiteral() *ast.FunctionLiteral {
	line, col := p.pos()
	p.advance() // 'function'

	fn := &ast.FunctionLiteral{}
	fn.Line, fn.Column = line, col

	if p.curIs(lexer.TOKEN_IDENT) {
		fn.Name = p.cur.Literal
		p.advance()
	}

	p.expect(lexer.TOKEN_LPAREN)
	for !p.curIs(lexer.TOKEN_RPAREN) && !p.curIs(lexer.TOKEN_EOF) {
		if p.curIs(lexer.TOKEN_SPREAD) {
			p.advance()
			fn.RestParam = p.cur.Literal
			p.advance()

			break
		}
		fn.Params = append(fn.Params, p.cur.Literal)
		p.advance()
		if p.curIs(lexer.TOKEN_COMMA) {
			p.advance()
		}
	}
	p.expect(lexer.TOKEN_RPAREN)
	p.expect(lexer.TOKEN_LBRACE)
	for !p.curIs(lexer.TOKEN_RBRACE) && !p.curIs(lexer.TOKEN_EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			fn.Body = append(fn.Body, stmt)
		}
	}
	p.expect(lexer.TOKEN_RBRACE)

	return fn
}

func (p *Parser) parseBlockStmt() *ast.BlockStmt {
	line, col := p.pos()
	p.advance() // '{'

	block := &ast.BlockStmt{}
	block.Line, block.Column = line, col

	for !p.curIs(lexer.TOKEN_RBRACE) && !p.curIs(lexer.TOKEN_EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			block.Body = append(block.Body, stmt)
		}
	}
	p.expect(lexer.TOKEN_RBRACE)

	return block
}

func (p *Parser) parseReturnStmt() *ast.ReturnStmt {
	line, col := p.pos()
	p.advance()

	stmt := &ast.ReturnStmt{}
	stmt.Line, stmt.Column = line, col

	if !p.curIs(lexer.TOKEN_SEMICOLON) && !p.curIs(lexer.TOKEN_RBRACE) && !p.curIs(lexer.TOKEN_EOF) {
		stmt.Argument = p.parseSequenceExpression()
	}
	p.skipSemicolon()

	return stmt
}

func (p *Parser) parseThrowStmt() *ast.ThrowStmt {
	line, col := p.pos()
	p.advance()

	stmt := &ast.ThrowStmt{Argument: p.parseSequenceExpression()}
	stmt.Line, stmt.Column = line, col
	p.skipSemicolon()

	return stmt
}

func (p *Parser) parseExpressionStmt() *ast.ExpressionStmt {
	line, col := p.pos()
	expr := p.parseSequenceExpression()
	p.skipSemicolon()

	stmt := &ast.ExpressionStmt{Expression: expr}
	stmt.Line, stmt.Column = line, col

	return stmt
}

func (p *Parser) parseNumberLiteral() ast.Expr {
	line, col := p.pos()
	v, err := strconv.ParseFloat(p.cur.Literal, 64)
	if err != nil {
		p.errors.Addf(line, col, "invalid number literal %q: %v", p.cur.Literal, err)
	}
	p.advance()
	n := &ast.NumberLiteral{Value: v}
	n.Line, n.Column = line, col

	return n
}
