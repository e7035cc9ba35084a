package token

import "fmt"

const (
	// ILLEGAL signifies a token/character we don't know about (or a string which never got closed)
	ILLEGAL = "ILLEGAL"
	// EOF stands for "end of file" -> Tells our parser later on it can stop
	EOF = "EOF"

	// Identifiers + literals
	IDENT  = "IDENT"
	NUMBER = "NUMBER"
	STRING = "STRING"

	// Operators
	ASSIGN   = "="
	PLUS     = "+"
	MINUS    = "-"
	BANG     = "!"
	ASTERISK = "*"
	SLASH    = "/"
	LT       = "<"
	LT_EQ    = "<="
	GT       = ">"
	GT_EQ    = ">="
	EQ       = "=="
	NOT_EQ   = "!="

	// Delimiters
	COMMA     = ","
	SEMICOLON = ";"
	LPAREN    = "("
	RPAREN    = ")"
	LBRACE    = "{"
	RBRACE    = "}"

	// Keywords
	FUNCTION = "FUNCTION"
	VAR      = "VAR"
	TRUE     = "TRUE"
	FALSE    = "FALSE"
	NIL      = "NIL"
	IF       = "IF"
	ELSE     = "ELSE"
	WHILE    = "WHILE"
	FOR      = "FOR"
	RETURN   = "RETURN"
	AND      = "AND"
	OR       = "OR"
)

type TokenType string

// keywords variable is a map of string -> TokenType which contains keywords in lox.
// Both "fun" and the shorter "fn" introduce a function.
var keywords = map[string]TokenType{
	"fun":    FUNCTION,
	"fn":     FUNCTION,
	"var":    VAR,
	"true":   TRUE,
	"false":  FALSE,
	"nil":    NIL,
	"if":     IF,
	"else":   ELSE,
	"while":  WHILE,
	"for":    FOR,
	"return": RETURN,
	"and":    AND,
	"or":     OR,
}

type Token struct {
	Type    TokenType
	Literal string
	Line    int // Line is the 1-based line the token starts on
	Column  int // Column is the 0-based byte offset of the token inside its line
}

// String renders the token the way the REPL lex mode prints it: (TYPE, 'lexeme') line:start-end
func (t Token) String() string {
	return fmt.Sprintf("(%s, '%s') %d:%d-%d", t.Type, t.Literal, t.Line, t.Column, t.Column+len(t.Literal))
}

// LookupIdent accepts an identifier and checks if it's a language keyword
// If it is it returns appropriate keyword identifier from keywords map
// If it's not it returns IDENT constant
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
