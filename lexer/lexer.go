package lexer

import "github.com/blazskufca/lox_in_go/token"

// TODO: Support full unicode input streams instead of ASCII. Identifiers are ASCII only right now; unicode inside
// string literals already passes through untouched since readString slices the input.

type Lexer struct {
	input        string
	position     int  // position is the current position in input (points to current char/corresponds to ch byte)
	readPosition int  // readPosition current reading position in input (after current character = position + 1)
	ch           byte // ch is the current character under examination
	line         int  // line is the 1-based line of Lexer.ch
	lineStart    int  // lineStart is the input offset where the current line begins
}

// NewLexer return a new pointer to a Lexer
func NewLexer(input string) *Lexer {
	lexer := &Lexer{input: input, line: 1}
	// Initialize the Lexer at the start by calling readChar
	lexer.readChar()
	return lexer
}

// Tokenize runs the lexer over the whole input and returns every token up to and including token.EOF.
func Tokenize(input string) []token.Token {
	l := NewLexer(input)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens
		}
	}
}

// readChar tries to give us the next char (assigns it to Lexer.ch) and advances Lexer.position and Lexer.readPosition
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.lineStart = l.readPosition
	}
	// Guard against out of bounds
	if l.readPosition >= len(l.input) {
		l.ch = 0 // Byte 0 in ASCII is "NUL"
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition += 1
}

// NextToken looks at Lexer.ch, the current byte under examination, and returns the appropriate token.Token
// It also advances the Lexer pointers by calling Lexer.readChar()
func (l *Lexer) NextToken() token.Token {
	var tok token.Token

	l.skipWhitespaceAndComments()

	line, column := l.line, l.position-l.lineStart

	switch l.ch {
	case '=':
		tok = l.oneOrTwoCharToken(token.ASSIGN, token.EQ)
	case '!':
		tok = l.oneOrTwoCharToken(token.BANG, token.NOT_EQ)
	case '<':
		tok = l.oneOrTwoCharToken(token.LT, token.LT_EQ)
	case '>':
		tok = l.oneOrTwoCharToken(token.GT, token.GT_EQ)
	case ';':
		tok = newToken(token.SEMICOLON, l.ch)
	case '(':
		tok = newToken(token.LPAREN, l.ch)
	case ')':
		tok = newToken(token.RPAREN, l.ch)
	case ',':
		tok = newToken(token.COMMA, l.ch)
	case '+':
		tok = newToken(token.PLUS, l.ch)
	case '{':
		tok = newToken(token.LBRACE, l.ch)
	case '}':
		tok = newToken(token.RBRACE, l.ch)
	case '-':
		tok = newToken(token.MINUS, l.ch)
	case '/':
		tok = newToken(token.SLASH, l.ch)
	case '*':
		tok = newToken(token.ASTERISK, l.ch)
	case '"':
		literal, ok := l.readString()
		tok.Literal = literal
		tok.Type = token.STRING
		if !ok {
			tok.Type = token.ILLEGAL
		}
	case 0:
		tok.Type = token.EOF
		tok.Literal = ""
	default:
		if isLetter(l.ch) {
			tok.Literal = l.readIdentifier()
			tok.Type = token.LookupIdent(tok.Literal)
			tok.Line, tok.Column = line, column
			return tok
		} else if isDigit(l.ch) {
			tok.Type = token.NUMBER
			tok.Literal = l.readNumber()
			tok.Line, tok.Column = line, column
			return tok
		} else {
			tok = newToken(token.ILLEGAL, l.ch)
		}
	}
	tok.Line, tok.Column = line, column
	l.readChar()
	return tok
}

// oneOrTwoCharToken produces the two character token (==, !=, <=, >=) when the next character is a "=" and the
// single character token otherwise.
func (l *Lexer) oneOrTwoCharToken(single, double token.TokenType) token.Token {
	if l.peekChar() == '=' {
		ch := l.ch
		l.readChar()
		return token.Token{Type: double, Literal: string(ch) + string(l.ch)}
	}
	return newToken(single, l.ch)
}

// readIdentifier method returns a read identifier as a string, as the name might suggest
// Note that is advances Lexer pointers while doing so...
func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// skipWhitespaceAndComments skips whitespace and "//" line comments, neither carries any significance in lox.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		default:
			return
		}
	}
}

// readNumber reads a number literal, an optional fractional part included (1, 1.5 but not "1." or ".5").
func (l *Lexer) readNumber() string {
	position := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[position:l.position]
}

// peekChar is very similar to readChar except for the fact that it does NOT increment the Lexer.position and Lexer.readPosition.
// It only returns the next byte/char, that is the byte at Lexer.readPosition
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// newToken is a simple helper function. It accepts token.TokenType and ch Byte and returns a new token.Token
func newToken(tokenType token.TokenType, ch byte) token.Token {
	return token.Token{Type: tokenType, Literal: string(ch)}
}

// isLetter determines if the byte is a ASCII alphabet character or '_', so identifiers can have underscores in them
func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

// readString reads characters between enclosing " as a string. The second return value is false when the input ended
// before the closing quote.
func (l *Lexer) readString() (string, bool) {
	position := l.position + 1
	for {
		l.readChar()
		if l.ch == '"' {
			return l.input[position:l.position], true
		}
		if l.ch == 0 {
			return l.input[position:l.position], false
		}
	}
}
