package parser

import (
	"strconv"

	"github.com/conneroisu/esvm/internal/ast"
	"github.com/conneroisu/esvm/pkg/lexer"
)

// parseExpression is the Pratt parser's entry point: it parses a prefix
// expression then repeatedly folds in infix/postfix operators whose
// precedence exceeds the caller's floor. It does not parse the comma
// operator — callers that sit in a context where a bare comma separates
// sibling expressions (call arguments, array/object literals, for-loop
// clauses) must not raise the floor above this, and statement-level
// callers that want comma-as-sequence semantics call
// parseSequenceExpression instead.
func (p *Parser) parseExpression(precedence int) ast.Expr {
	left := p.parsePrefix()
	if left == nil {
		return nil
	}

	// Assignment is right-associative: an assignment operator also folds
	// in when the floor is precedenceAssign itself.
	for !p.curIs(lexer.TOKEN_SEMICOLON) && (precedence < p.curPrecedence() ||
		(precedence == precedenceAssign && p.curPrecedence() == precedenceAssign)) {
		next := p.parseInfix(left)
		if next == nil {
			break
		}
		left = next
	}

	return left
}

// parseSequenceExpression parses one or more comma-separated
// AssignmentExpressions, wrapping more than one in a SequenceExpr.
func (p *Parser) parseSequenceExpression() ast.Expr {
	line, col := p.pos()
	first := p.parseExpression(precedenceAssign)
	if !p.curIs(lexer.TOKEN_COMMA) {
		return first
	}

	seq := &ast.SequenceExpr{Expressions: []ast.Expr{first}}
	seq.Line, seq.Column = line, col
	for p.curIs(lexer.TOKEN_COMMA) {
		p.advance()
		seq.Expressions = append(seq.Expressions, p.parseExpression(precedenceAssign))
	}

	return seq
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedenceMap[p.cur.Type]; ok {
		return pr
	}

	return precedenceLowest
}

func (p *Parser) parsePrefix() ast.Expr {
	switch p.cur.Type {
	case lexer.TOKEN_NUMBER:
		return p.parseNumberLiteral()
	case lexer.TOKEN_STRING, lexer.TOKEN_TEMPLATE_STRING:
		return p.parseStringLiteral()
	case lexer.TOKEN_TRUE, lexer.TOKEN_FALSE:
		return p.parseBoolLiteral()
	case lexer.TOKEN_NULL:
		return p.parseNullLiteral()
	case lexer.TOKEN_UNDEFINED:
		return p.parseUndefinedLiteral()
	case lexer.TOKEN_THIS:
		return p.parseThisExpr()
	case lexer.TOKEN_IDENT:
		return p.parseIdentifierOrArrow()
	case lexer.TOKEN_LPAREN:
		return p.parseParenOrArrow()
	case lexer.TOKEN_LBRACKET:
		return p.parseArrayLiteral()
	case lexer.TOKEN_LBRACE:
		return p.parseObjectLiteral()
	case lexer.TOKEN_FUNCTION:
		return p.parseFunctionLiteral()
	case lexer.TOKEN_NEW:
		return p.parseNewExpr()
	case lexer.TOKEN_MINUS, lexer.TOKEN_PLUS, lexer.TOKEN_NOT, lexer.TOKEN_TYPEOF, lexer.TOKEN_VOID, lexer.TOKEN_DELETE:
		return p.parseUnaryExpr()
	case lexer.TOKEN_INCR, lexer.TOKEN_DECR:
		return p.parsePrefixUpdateExpr()
	default:
		p.errors.Addf(p.cur.Line, p.cur.Column, "unexpected token %s (%q) in expression position", p.cur.Type, p.cur.Literal)
		p.advance()

		return nil
	}
}

func (p *Parser) parseInfix(left ast.Expr) ast.Expr {
	switch p.cur.Type {
	case lexer.TOKEN_PLUS, lexer.TOKEN_MINUS, lexer.TOKEN_STAR, lexer.TOKEN_SLASH, lexer.TOKEN_PERCENT,
		lexer.TOKEN_EQ, lexer.TOKEN_NEQ, lexer.TOKEN_STRICT_EQ, lexer.TOKEN_STRICT_NE,
		lexer.TOKEN_LT, lexer.TOKEN_GT, lexer.TOKEN_LTE, lexer.TOKEN_GTE,
		lexer.TOKEN_INSTANCEOF, lexer.TOKEN_IN:
		return p.parseBinaryExpr(left)
	case lexer.TOKEN_AND_OP, lexer.TOKEN_OR_OP, lexer.TOKEN_NULLISH:
		return p.parseLogicalExpr(left)
	case lexer.TOKEN_ASSIGN, lexer.TOKEN_PLUS_ASSIGN, lexer.TOKEN_MINUS_ASSIGN, lexer.TOKEN_STAR_ASSIGN, lexer.TOKEN_SLASH_ASSIGN:
		return p.parseAssignExpr(left)
	case lexer.TOKEN_QUESTION:
		return p.parseConditionalExpr(left)
	case lexer.TOKEN_LPAREN:
		return p.finishCallExpr(left, false)
	case lexer.TOKEN_DOT:
		return p.parseDotMemberExpr(left)
	case lexer.TOKEN_OPT_CHAIN:
		return p.parseOptionalChain(left)
	case lexer.TOKEN_LBRACKET:
		return p.parseComputedMemberExpr(left)
	case lexer.TOKEN_INCR, lexer.TOKEN_DECR:
		return p.parsePostfixUpdateExpr(left)
	default:
		return nil
	}
}

func (p *Parser) parseStringLiteral() ast.Expr {
	line, col := p.pos()
	n := &ast.StringLiteral{Value: p.cur.Literal}
	n.Line, n.Column = line, col
	p.advance()

	return n
}

func (p *Parser) parseBoolLiteral() ast.Expr {
	line, col := p.pos()
	n := &ast.BoolLiteral{Value: p.curIs(lexer.TOKEN_TRUE)}
	n.Line, n.Column = line, col
	p.advance()

	return n
}

func (p *Parser) parseNullLiteral() ast.Expr {
	line, col := p.pos()
	n := &ast.NullLiteral{}
	n.Line, n.Column = line, col
	p.advance()

	return n
}

func (p *Parser) parseUndefinedLiteral() ast.Expr {
	line, col := p.pos()
	n := &ast.UndefinedLiteral{}
	n.Line, n.Column = line, col
	p.advance()

	return n
}

func (p *Parser) parseThisExpr() ast.Expr {
	line, col := p.pos()
	n := &ast.ThisExpr{}
	n.Line, n.Column = line, col
	p.advance()

	return n
}

// parseIdentifierOrArrow handles both a bare identifier reference and the
// single-bare-param arrow form `x => ...`, which is the one arrow shape
// that doesn't start with `(`.
func (p *Parser) parseIdentifierOrArrow() ast.Expr {
	line, col := p.pos()
	name := p.cur.Literal
	p.advance()

	if p.curIs(lexer.TOKEN_ARROW) {
		return p.finishArrowFunction(line, col, []string{name}, "")
	}

	id := &ast.Identifier{Name: name}
	id.Line, id.Column = line, col

	return id
}

// parseParenOrArrow disambiguates `(expr)` from `(params) => body` by
// tentatively parsing a parameter list and checking for a following `=>`,
// backtracking to a normal parenthesized expression on mismatch.
func (p *Parser) parseParenOrArrow() ast.Expr {
	line, col := p.pos()

	if params, rest, ok := p.tryParseArrowParams(); ok {
		return p.finishArrowFunction(line, col, params, rest)
	}

	p.advance() // '('
	expr := p.parseSequenceExpression()
	p.expect(lexer.TOKEN_RPAREN)

	return expr
}

func (p *Parser) tryParseArrowParams() (params []string, rest string, ok bool) {
	savedL, savedCur, savedPeek := p.snapshot()

	p.advance() // '('
	for !p.curIs(lexer.TOKEN_RPAREN) && !p.curIs(lexer.TOKEN_EOF) {
		if p.curIs(lexer.TOKEN_SPREAD) {
			p.advance()
			if !p.curIs(lexer.TOKEN_IDENT) {
				p.restore(savedL, savedCur, savedPeek)

				return nil, "", false
			}
			rest = p.cur.Literal
			p.advance()

			break
		}
		if !p.curIs(lexer.TOKEN_IDENT) {
			p.restore(savedL, savedCur, savedPeek)

			return nil, "", false
		}
		params = append(params, p.cur.Literal)
		p.advance()
		if p.curIs(lexer.TOKEN_COMMA) {
			p.advance()

			continue
		}

		break
	}
	if !p.curIs(lexer.TOKEN_RPAREN) {
		p.restore(savedL, savedCur, savedPeek)

		return nil, "", false
	}
	p.advance() // ')'

	if !p.curIs(lexer.TOKEN_ARROW) {
		p.restore(savedL, savedCur, savedPeek)

		return nil, "", false
	}

	return params, rest, true
}

func (p *Parser) finishArrowFunction(line, col int, params []string, rest string) ast.Expr {
	p.advance() // '=>'

	fn := &ast.FunctionLiteral{Params: params, RestParam: rest, IsArrow: true}
	fn.Line, fn.Column = line, col

	if p.curIs(lexer.TOKEN_LBRACE) {
		fn.Body = p.parseBlockStmt().Body

		return fn
	}

	fn.IsExprBody = true
	fn.ExprBody = p.parseExpression(precedenceAssign)

	return fn
}

func (p *Parser) parseArrayLiteral() ast.Expr {
	line, col := p.pos()
	p.advance() // '['

	arr := &ast.ArrayLiteral{}
	arr.Line, arr.Column = line, col

	for !p.curIs(lexer.TOKEN_RBRACKET) && !p.curIs(lexer.TOKEN_EOF) {
		if p.curIs(lexer.TOKEN_COMMA) {
			arr.Elements = append(arr.Elements, nil)
			arr.Spreads = append(arr.Spreads, false)
			p.advance()

			continue
		}
		spread := false
		if p.curIs(lexer.TOKEN_SPREAD) {
			spread = true
			p.advance()
		}
		arr.Elements = append(arr.Elements, p.parseExpression(precedenceAssign))
		arr.Spreads = append(arr.Spreads, spread)
		if p.curIs(lexer.TOKEN_COMMA) {
			p.advance()
		}
	}
	p.expect(lexer.TOKEN_RBRACKET)

	return arr
}

func (p *Parser) parseObjectLiteral() ast.Expr {
	line, col := p.pos()
	p.advance() // '{'

	obj := &ast.ObjectLiteral{}
	obj.Line, obj.Column = line, col

	for !p.curIs(lexer.TOKEN_RBRACE) && !p.curIs(lexer.TOKEN_EOF) {
		if p.curIs(lexer.TOKEN_SPREAD) {
			p.advance()
			obj.Properties = append(obj.Properties, ast.ObjectProperty{
				Value:  p.parseExpression(precedenceAssign),
				Spread: true,
			})
			if p.curIs(lexer.TOKEN_COMMA) {
				p.advance()
			}

			continue
		}

		prop := ast.ObjectProperty{}
		if p.curIs(lexer.TOKEN_LBRACKET) {
			p.advance()
			prop.Key = p.parseExpression(precedenceLowest)
			prop.Computed = true
			p.expect(lexer.TOKEN_RBRACKET)
		} else {
			keyLine, keyCol := p.pos()
			switch p.cur.Type {
			case lexer.TOKEN_STRING:
				key := &ast.StringLiteral{Value: p.cur.Literal}
				key.Line, key.Column = keyLine, keyCol
				prop.Key = key
			case lexer.TOKEN_NUMBER:
				v, _ := strconv.ParseFloat(p.cur.Literal, 64)
				key := &ast.NumberLiteral{Value: v}
				key.Line, key.Column = keyLine, keyCol
				prop.Key = key
			default:
				key := &ast.Identifier{Name: p.cur.Literal}
				key.Line, key.Column = keyLine, keyCol
				prop.Key = key
			}
			p.advance()
		}

		if p.curIs(lexer.TOKEN_COLON) {
			p.advance()
			prop.Value = p.parseExpression(precedenceAssign)
		} else if id, ok := prop.Key.(*ast.Identifier); ok {
			// shorthand `{ x }` — value is a reference to the same name
			shorthand := &ast.Identifier{Name: id.Name}
			shorthand.Line, shorthand.Column = id.Line, id.Column
			prop.Value = shorthand
		}

		obj.Properties = append(obj.Properties, prop)
		if p.curIs(lexer.TOKEN_COMMA) {
			p.advance()
		}
	}
	p.expect(lexer.TOKEN_RBRACE)

	return obj
}

func (p *Parser) parseNewExpr() ast.Expr {
	line, col := p.pos()
	p.advance() // 'new'

	// precedenceCall as the floor lets member access (`.`/`[`, whose
	// precedence is strictly higher) chain onto the callee while still
	// stopping before a `(` call, whose own parenthesized arguments
	// belong to the `new` expression rather than to the callee.
	callee := p.parseExpression(precedenceCall)
	n := &ast.NewExpr{Callee: callee}
	n.Line, n.Column = line, col

	if p.curIs(lexer.TOKEN_LPAREN) {
		n.Args, _ = p.parseArgumentList()
	}

	return n
}

// parseArgumentList parses `(arg, ...rest, arg)`, returning each
// argument alongside whether it was spread with `...`.
func (p *Parser) parseArgumentList() (args []ast.Expr, spreads []bool) {
	p.advance() // '('
	for !p.curIs(lexer.TOKEN_RPAREN) && !p.curIs(lexer.TOKEN_EOF) {
		spread := false
		if p.curIs(lexer.TOKEN_SPREAD) {
			spread = true
			p.advance()
		}
		args = append(args, p.parseExpression(precedenceAssign))
		spreads = append(spreads, spread)
		if p.curIs(lexer.TOKEN_COMMA) {
			p.advance()
		}
	}
	p.expect(lexer.TOKEN_RPAREN)

	return args, spreads
}

func (p *Parser) parseUnaryExpr() ast.Expr {
	line, col := p.pos()
	op := p.cur.Literal
	p.advance()

	n := &ast.UnaryExpr{Operator: op, Operand: p.parseExpression(precedenceUnary)}
	n.Line, n.Column = line, col

	return n
}

func (p *Parser) parsePrefixUpdateExpr() ast.Expr {
	line, col := p.pos()
	op := p.cur.Literal
	p.advance()

	n := &ast.UpdateExpr{Operator: op, Operand: p.parseExpression(precedenceUnary), Prefix: true}
	n.Line, n.Column = line, col

	return n
}

func (p *Parser) parsePostfixUpdateExpr(left ast.Expr) ast.Expr {
	line, col := p.pos()
	op := p.cur.Literal
	p.advance()

	n := &ast.UpdateExpr{Operator: op, Operand: left, Prefix: false}
	n.Line, n.Column = line, col

	return n
}

func (p *Parser) parseBinaryExpr(left ast.Expr) ast.Expr {
	line, col := p.pos()
	op := p.cur.Literal
	precedence := p.curPrecedence()
	p.advance()

	n := &ast.BinaryExpr{Operator: op, Left: left, Right: p.parseExpression(precedence)}
	n.Line, n.Column = line, col

	return n
}

func (p *Parser) parseLogicalExpr(left ast.Expr) ast.Expr {
	line, col := p.pos()
	op := p.cur.Literal
	precedence := p.curPrecedence()
	p.advance()

	n := &ast.LogicalExpr{Operator: op, Left: left, Right: p.parseExpression(precedence)}
	n.Line, n.Column = line, col

	return n
}

// parseAssignExpr is right-associative: parsing the right side at
// precedenceAssign (rather than precedenceAssign+1) lets a chain like
// `a = b = c` nest as `a = (b = c)`.
func (p *Parser) parseAssignExpr(left ast.Expr) ast.Expr {
	line, col := p.pos()
	op := p.cur.Literal
	p.advance()

	n := &ast.AssignExpr{Operator: op, Target: left, Value: p.parseExpression(precedenceAssign)}
	n.Line, n.Column = line, col

	return n
}

// parseConditionalExpr is right-associative for the same reason as
// assignment: `a ? b : c ? d : e` nests as `a ? b : (c ? d : e)`.
func (p *Parser) parseConditionalExpr(left ast.Expr) ast.Expr {
	line, col := p.pos()
	p.advance() // '?'
	consequent := p.parseExpression(precedenceAssign)
	p.expect(lexer.TOKEN_COLON)
	alternate := p.parseExpression(precedenceAssign)

	n := &ast.ConditionalExpr{Test: left, Consequent: consequent, Alternate: alternate}
	n.Line, n.Column = line, col

	return n
}

func (p *Parser) finishCallExpr(callee ast.Expr, optional bool) ast.Expr {
	line, col := p.pos()

	call := &ast.CallExpr{Callee: callee, Optional: optional}
	call.Line, call.Column = line, col
	call.Args, call.Spreads = p.parseArgumentList()

	return call
}

func (p *Parser) parseDotMemberExpr(left ast.Expr) ast.Expr {
	line, col := p.pos()
	p.advance() // '.'

	if !p.curIs(lexer.TOKEN_IDENT) {
		p.errors.Addf(p.cur.Line, p.cur.Column, "expected property name after '.', got %q", p.cur.Literal)

		return left
	}
	propLine, propCol := p.pos()
	prop := &ast.Identifier{Name: p.cur.Literal}
	prop.Line, prop.Column = propLine, propCol
	p.advance()

	m := &ast.MemberExpr{Object: left, Property: prop, Computed: false}
	m.Line, m.Column = line, col

	return m
}

func (p *Parser) parseComputedMemberExpr(left ast.Expr) ast.Expr {
	line, col := p.pos()
	p.advance() // '['
	prop := p.parseExpression(precedenceLowest)
	p.expect(lexer.TOKEN_RBRACKET)

	m := &ast.MemberExpr{Object: left, Property: prop, Computed: true}
	m.Line, m.Column = line, col

	return m
}

// parseOptionalChain handles `?.` followed by a call, a computed member,
// or a regular property name — the three shapes optional chaining can
// take at this position.
func (p *Parser) parseOptionalChain(left ast.Expr) ast.Expr {
	line, col := p.pos()
	p.advance() // '?.'

	switch p.cur.Type {
	case lexer.TOKEN_LPAREN:
		return p.finishCallExpr(left, true)
	case lexer.TOKEN_LBRACKET:
		p.advance()
		prop := p.parseExpression(precedenceLowest)
		p.expect(lexer.TOKEN_RBRACKET)
		m := &ast.MemberExpr{Object: left, Property: prop, Computed: true, Optional: true}
		m.Line, m.Column = line, col

		return m
	default:
		if !p.curIs(lexer.TOKEN_IDENT) {
			p.errors.Addf(p.cur.Line, p.cur.Column, "expected property name after '?.', got %q", p.cur.Literal)

			return left
		}
		propLine, propCol := p.pos()
		prop := &ast.Identifier{Name: p.cur.Literal}
		prop.Line, prop.Column = propLine, propCol
		p.advance()

		m := &ast.MemberExpr{Object: left, Property: prop, Computed: false, Optional: true}
		m.Line, m.Column = line, col

		return m
	}
}
