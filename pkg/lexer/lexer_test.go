package lexer

import "testing"

func collect(input string) []Token {
	l := New(input)
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == TOKEN_EOF {
			return toks
		}
	}
}

func TestLexerTokenizesKeywordsAndIdentifiers(t *testing.T) {
	toks := collect("var x = function() { return x; }")
	want := []TokenType{
		TOKEN_VAR, TOKEN_IDENT, TOKEN_ASSIGN, TOKEN_FUNCTION, TOKEN_LPAREN, TOKEN_RPAREN,
		TOKEN_LBRACE, TOKEN_RETURN, TOKEN_IDENT, TOKEN_SEMICOLON, TOKEN_RBRACE, TOKEN_EOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Fatalf("token %d type = %v, want %v", i, toks[i].Type, tt)
		}
	}
}

func TestLexerDistinguishesMultiCharOperators(t *testing.T) {
	toks := collect("a === b !== c ?? d?.e ...f => g")
	want := []TokenType{
		TOKEN_IDENT, TOKEN_STRICT_EQ, TOKEN_IDENT, TOKEN_STRICT_NE, TOKEN_IDENT,
		TOKEN_NULLISH, TOKEN_IDENT, TOKEN_OPT_CHAIN, TOKEN_IDENT,
		TOKEN_SPREAD, TOKEN_IDENT, TOKEN_ARROW, TOKEN_IDENT, TOKEN_EOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Fatalf("token %d type = %v, want %v (literal %q)", i, toks[i].Type, tt, toks[i].Literal)
		}
	}
}

func TestLexerReadsNumberLiterals(t *testing.T) {
	toks := collect("42 3.14 1e10 2.5e-3")
	for i, want := range []string{"42", "3.14", "1e10", "2.5e-3"} {
		if toks[i].Type != TOKEN_NUMBER || toks[i].Literal != want {
			t.Fatalf("token %d = %+v, want NUMBER %q", i, toks[i], want)
		}
	}
}

func TestLexerUnescapesStringLiterals(t *testing.T) {
	toks := collect(`"hello\nworld" 'it\'s'`)
	if toks[0].Type != TOKEN_STRING || toks[0].Literal != "hello\nworld" {
		t.Fatalf("double-quoted string = %+v", toks[0])
	}
	if toks[1].Type != TOKEN_STRING || toks[1].Literal != "it's" {
		t.Fatalf("single-quoted string = %+v", toks[1])
	}
}

func TestLexerSkipsLineAndBlockComments(t *testing.T) {
	toks := collect("a // comment\nb /* block\ncomment */ c")
	var idents []string
	for _, tok := range toks {
		if tok.Type == TOKEN_IDENT {
			idents = append(idents, tok.Literal)
		}
	}
	if len(idents) != 3 || idents[0] != "a" || idents[1] != "b" || idents[2] != "c" {
		t.Fatalf("idents = %v, want [a b c]", idents)
	}
}

func TestLexerDotVsSpreadVsNumber(t *testing.T) {
	toks := collect("a.b 3.14 ...c")
	want := []TokenType{TOKEN_IDENT, TOKEN_DOT, TOKEN_IDENT, TOKEN_NUMBER, TOKEN_SPREAD, TOKEN_IDENT, TOKEN_EOF}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Fatalf("token %d type = %v, want %v", i, toks[i].Type, tt)
		}
	}
}

func TestLexerReportsLineAndColumn(t *testing.T) {
	toks := collect("a\nb")
	if toks[0].Line != 1 {
		t.Fatalf("first token line = %d, want 1", toks[0].Line)
	}
	if toks[1].Line != 2 {
		t.Fatalf("second token line = %d, want 2", toks[1].Line)
	}
}

func TestLexerIllegalCharacter(t *testing.T) {
	toks := collect("@")
	if toks[0].Type != TOKEN_ILLEGAL || toks[0].Literal != "@" {
		t.Fatalf("got %+v, want ILLEGAL @", toks[0])
	}
}
