package lexer

import "fmt"

// TokenType classifies one lexical element of ECMAScript source text.
type TokenType int

const (
	TOKEN_EOF TokenType = iota
	TOKEN_ILLEGAL

	TOKEN_NUMBER
	TOKEN_STRING
	TOKEN_TEMPLATE_STRING
	TOKEN_IDENT

	TOKEN_VAR
	TOKEN_LET
	TOKEN_CONST
	TOKEN_FUNCTION
	TOKEN_RETURN
	TOKEN_IF
	TOKEN_ELSE
	TOKEN_FOR
	TOKEN_WHILE
	TOKEN_DO
	TOKEN_BREAK
	TOKEN_CONTINUE
	TOKEN_TRUE
	TOKEN_FALSE
	TOKEN_NULL
	TOKEN_UNDEFINED
	TOKEN_NEW
	TOKEN_THIS
	TOKEN_TYPEOF
	TOKEN_INSTANCEOF
	TOKEN_IN
	TOKEN_OF
	TOKEN_TRY
	TOKEN_CATCH
	TOKEN_FINALLY
	TOKEN_THROW
	TOKEN_DELETE
	TOKEN_VOID

	TOKEN_ASSIGN       // =
	TOKEN_PLUS_ASSIGN  // +=
	TOKEN_MINUS_ASSIGN // -=
	TOKEN_STAR_ASSIGN  // *=
	TOKEN_SLASH_ASSIGN // /=

	TOKEN_PLUS     // +
	TOKEN_MINUS    // -
	TOKEN_STAR     // *
	TOKEN_SLASH    // /
	TOKEN_PERCENT  // %
	TOKEN_INCR     // ++
	TOKEN_DECR     // --

	TOKEN_EQ        // ==
	TOKEN_STRICT_EQ // ===
	TOKEN_NEQ       // !=
	TOKEN_STRICT_NE // !==
	TOKEN_LT        // <
	TOKEN_GT        // >
	TOKEN_LTE       // <=
	TOKEN_GTE       // >=

	TOKEN_AND_OP    // &&
	TOKEN_OR_OP     // ||
	TOKEN_NOT       // !
	TOKEN_NULLISH   // ??
	TOKEN_OPT_CHAIN // ?.

	TOKEN_ARROW // =>
	TOKEN_SPREAD // ...

	TOKEN_SEMICOLON // ;
	TOKEN_COLON     // :
	TOKEN_COMMA     // ,
	TOKEN_DOT       // .
	TOKEN_QUESTION  // ?

	TOKEN_LPAREN   // (
	TOKEN_RPAREN   // )
	TOKEN_LBRACE   // {
	TOKEN_RBRACE   // }
	TOKEN_LBRACKET // [
	TOKEN_RBRACKET // ]
)

// Token is one lexical unit: its classification, source text, and
// 1-based line / 1-based column for diagnostics.
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

var tokenNames = map[TokenType]string{
	TOKEN_EOF: "EOF", TOKEN_ILLEGAL: "ILLEGAL",
	TOKEN_NUMBER: "NUMBER", TOKEN_STRING: "STRING", TOKEN_TEMPLATE_STRING: "TEMPLATE_STRING", TOKEN_IDENT: "IDENT",
	TOKEN_VAR: "VAR", TOKEN_LET: "LET", TOKEN_CONST: "CONST", TOKEN_FUNCTION: "FUNCTION",
	TOKEN_RETURN: "RETURN", TOKEN_IF: "IF", TOKEN_ELSE: "ELSE", TOKEN_FOR: "FOR", TOKEN_WHILE: "WHILE",
	TOKEN_DO: "DO", TOKEN_BREAK: "BREAK", TOKEN_CONTINUE: "CONTINUE",
	TOKEN_TRUE: "TRUE", TOKEN_FALSE: "FALSE", TOKEN_NULL: "NULL", TOKEN_UNDEFINED: "UNDEFINED",
	TOKEN_NEW: "NEW", TOKEN_THIS: "THIS", TOKEN_TYPEOF: "TYPEOF", TOKEN_INSTANCEOF: "INSTANCEOF",
	TOKEN_IN: "IN", TOKEN_OF: "OF", TOKEN_TRY: "TRY", TOKEN_CATCH: "CATCH", TOKEN_FINALLY: "FINALLY",
	TOKEN_THROW: "THROW", TOKEN_DELETE: "DELETE", TOKEN_VOID: "VOID",
	TOKEN_ASSIGN: "ASSIGN", TOKEN_PLUS_ASSIGN: "PLUS_ASSIGN", TOKEN_MINUS_ASSIGN: "MINUS_ASSIGN",
	TOKEN_STAR_ASSIGN: "STAR_ASSIGN", TOKEN_SLASH_ASSIGN: "SLASH_ASSIGN",
	TOKEN_PLUS: "PLUS", TOKEN_MINUS: "MINUS", TOKEN_STAR: "STAR", TOKEN_SLASH: "SLASH", TOKEN_PERCENT: "PERCENT",
	TOKEN_INCR: "INCR", TOKEN_DECR: "DECR",
	TOKEN_EQ: "EQ", TOKEN_STRICT_EQ: "STRICT_EQ", TOKEN_NEQ: "NEQ", TOKEN_STRICT_NE: "STRICT_NE",
	TOKEN_LT: "LT", TOKEN_GT: "GT", TOKEN_LTE: "LTE", TOKEN_GTE: "GTE",
	TOKEN_AND_OP: "AND_OP", TOKEN_OR_OP: "OR_OP", TOKEN_NOT: "NOT", TOKEN_NULLISH: "NULLISH", TOKEN_OPT_CHAIN: "OPT_CHAIN",
	TOKEN_ARROW: "ARROW", TOKEN_SPREAD: "SPREAD",
	TOKEN_SEMICOLON: "SEMICOLON", TOKEN_COLON: "COLON", TOKEN_COMMA: "COMMA", TOKEN_DOT: "DOT", TOKEN_QUESTION: "QUESTION",
	TOKEN_LPAREN: "LPAREN", TOKEN_RPAREN: "RPAREN", TOKEN_LBRACE: "LBRACE", TOKEN_RBRACE: "RBRACE",
	TOKEN_LBRACKET: "LBRACKET", TOKEN_RBRACKET: "RBRACKET",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}

	return fmt.Sprintf("TokenType(%d)", int(t))
}

var keywords = map[string]TokenType{
	"var": TOKEN_VAR, "let": TOKEN_LET, "const": TOKEN_CONST, "function": TOKEN_FUNCTION,
	"return": TOKEN_RETURN, "if": TOKEN_IF, "else": TOKEN_ELSE, "for": TOKEN_FOR, "while": TOKEN_WHILE,
	"do": TOKEN_DO, "break": TOKEN_BREAK, "continue": TOKEN_CONTINUE,
	"true": TOKEN_TRUE, "false": TOKEN_FALSE, "null": TOKEN_NULL, "undefined": TOKEN_UNDEFINED,
	"new": TOKEN_NEW, "this": TOKEN_THIS, "typeof": TOKEN_TYPEOF, "instanceof": TOKEN_INSTANCEOF,
	"in": TOKEN_IN, "of": TOKEN_OF, "try": TOKEN_TRY, "catch": TOKEN_CATCH, "finally": TOKEN_FINALLY,
	"throw": TOKEN_THROW, "delete": TOKEN_DELETE, "void": TOKEN_VOID,
}

// LookupIdent classifies ident as a keyword token or a plain TOKEN_IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}

	return TOKEN_IDENT
}

func isLetter(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_' || ch == '$'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
