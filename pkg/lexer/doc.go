// Package lexer tokenizes ECMAScript source text: keywords, identifiers,
// number/string/template literals, operators, and punctuation, with
// 1-based line / 1-based column tracking for parser diagnostics.
package lexer
