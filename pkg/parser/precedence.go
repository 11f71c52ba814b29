package parser

import "github.com/conneroisu/esvm/pkg/lexer"

// Operator precedence levels, lowest to highest.
const (
	precedenceLowest = iota
	precedenceAssign
	precedenceConditional
	precedenceNullish
	precedenceOr
	precedenceAnd
	precedenceEquals
	precedenceCompare
	precedenceSum
	precedenceProduct
	precedenceUnary
	precedenceCall
	precedenceMember
)

var precedenceMap = map[lexer.TokenType]int{
	lexer.TOKEN_ASSIGN:       precedenceAssign,
	lexer.TOKEN_PLUS_ASSIGN:  precedenceAssign,
	lexer.TOKEN_MINUS_ASSIGN: precedenceAssign,
	lexer.TOKEN_STAR_ASSIGN:  precedenceAssign,
	lexer.TOKEN_SLASH_ASSIGN: precedenceAssign,
	lexer.TOKEN_QUESTION:     precedenceConditional,
	lexer.TOKEN_NULLISH:      precedenceNullish,
	lexer.TOKEN_OR_OP:        precedenceOr,
	lexer.TOKEN_AND_OP:       precedenceAnd,
	lexer.TOKEN_EQ:           precedenceEquals,
	lexer.TOKEN_NEQ:          precedenceEquals,
	lexer.TOKEN_STRICT_EQ:    precedenceEquals,
	lexer.TOKEN_STRICT_NE:    precedenceEquals,
	lexer.TOKEN_LT:           precedenceCompare,
	lexer.TOKEN_GT:           precedenceCompare,
	lexer.TOKEN_LTE:          precedenceCompare,
	lexer.TOKEN_GTE:          precedenceCompare,
	lexer.TOKEN_INSTANCEOF:   precedenceCompare,
	lexer.TOKEN_IN:           precedenceCompare,
	lexer.TOKEN_PLUS:         precedenceSum,
	lexer.TOKEN_MINUS:        precedenceSum,
	lexer.TOKEN_STAR:         precedenceProduct,
	lexer.TOKEN_SLASH:        precedenceProduct,
	lexer.TOKEN_PERCENT:      precedenceProduct,
	lexer.TOKEN_LPAREN:       precedenceCall,
	lexer.TOKEN_DOT:          precedenceMember,
	lexer.TOKEN_OPT_CHAIN:    precedenceMember,
	lexer.TOKEN_LBRACKET:     precedenceMember,
	lexer.TOKEN_INCR:         precedenceCall,
	lexer.TOKEN_DECR:         precedenceCall,
}
