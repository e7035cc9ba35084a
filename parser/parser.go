package parser

import (
	"fmt"
	"strconv"

	"github.com/blazskufca/lox_in_go/ast"
	"github.com/blazskufca/lox_in_go/lexer"
	"github.com/blazskufca/lox_in_go/token"
)

/*
The parser is a Pratt parser ("Top Down Operator Precedence", Vaughan Pratt).

Every token type can have up to two parsing functions associated with it:
	- a prefixParseFn, used when the token starts an expression (e.g. "-" in -5, an identifier, "(" of a grouping)
	- an infixParseFn, used when the token sits between two operands (e.g. "+" in 1 + 2, "(" of a call)

parseExpression calls the prefix function of the current token and then keeps folding the result into the infix function
of the next token for as long as the next token binds tighter than the precedence it was called with:

										1    +    2    *    3    ;
										^    ^
										|    |
										|    Parser.peekToken
										Parser.curToken

produces (1 + (2 * 3)) because PRODUCT > SUM, while 1 - 2 - 3 produces ((1 - 2) - 3) because an operator never binds
tighter than itself. Assignment is the one right associative operator: its right side is parsed with its own precedence
minus one, so a = b = 1 becomes (a = (b = 1)).

Statements are parsed with plain recursive descent in parseStatement.
Every parse method leaves Parser.curToken on the LAST token of the construct it parsed.
*/

// These constants define the precedence/order of operations.
// The actual iota value does not matter, however the ORDERING does!!!
const (
	_ int = iota
	LOWEST
	ASSIGNMENT  // x = 5
	LOGICAL_OR  // or
	LOGICAL_AND // and
	EQUALS      // == or !=
	LESSGREATER // > or < or >= or <=
	SUM         // + or -
	PRODUCT     // * or /
	PREFIX      // -X or !X
	CALL        // myFunction(X)
)

// precedences associates the token types with their precedence.
var precedences = map[token.TokenType]int{
	token.ASSIGN:   ASSIGNMENT,
	token.OR:       LOGICAL_OR,
	token.AND:      LOGICAL_AND,
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       LESSGREATER,
	token.LT_EQ:    LESSGREATER,
	token.GT:       LESSGREATER,
	token.GT_EQ:    LESSGREATER,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.SLASH:    PRODUCT,
	token.ASTERISK: PRODUCT,
	token.LPAREN:   CALL,
}

type (
	prefixParseFn func() ast.Expression
	// infixParseFn receives the already parsed left side of the operator
	infixParseFn func(ast.Expression) ast.Expression
)

type Parser struct {
	lex            *lexer.Lexer
	curToken       token.Token
	peekToken      token.Token
	errors         []string // errors is a slice of errors (of type string!) encountered during parsing
	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

// NewParser accepts a pointer to lexer.Lexer and returns a new pointer to Parser after initializing it
// (assures Parser.curToken and Parser.peekToken are set).
func NewParser(lex *lexer.Lexer) *Parser {
	p := &Parser{lex: lex, errors: []string{}, prefixParseFns: make(map[token.TokenType]prefixParseFn), infixParseFns: make(map[token.TokenType]infixParseFn)}

	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.NUMBER, p.parseNumberLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.TRUE, p.parseBoolean)
	p.registerPrefix(token.FALSE, p.parseBoolean)
	p.registerPrefix(token.NIL, p.parseNilLiteral)
	p.registerPrefix(token.BANG, p.parsePrefixExpression)
	p.registerPrefix(token.MINUS, p.parsePrefixExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.FUNCTION, p.parseFunctionLiteral)

	for _, op := range []token.TokenType{token.PLUS, token.MINUS, token.SLASH, token.ASTERISK, token.EQ, token.NOT_EQ,
		token.LT, token.LT_EQ, token.GT, token.GT_EQ} {
		p.registerInfix(op, p.parseInfixExpression)
	}
	p.registerInfix(token.AND, p.parseLogicalExpression)
	p.registerInfix(token.OR, p.parseLogicalExpression)
	p.registerInfix(token.ASSIGN, p.parseAssignExpression)
	p.registerInfix(token.LPAREN, p.parseCallExpression)

	// Read two tokens, so Parser.curToken and Parser.peekToken are both set
	for i := 0; i < 2; i++ {
		p.nextToken()
	}
	return p
}

// Parse is a shorthand for lexing and parsing a whole program out of source.
func Parse(source string) (*ast.Program, []string) {
	p := NewParser(lexer.NewLexer(source))
	program := p.ParseProgram()
	return program, p.Errors()
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.lex.NextToken()
}

// ParseProgram is the "main loop" of the parser.
// It initializes the root node, i.e. ast.Program structure, parses child nodes and then returns a pointer to the root node.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{Statements: []ast.Statement{}}
	for !p.curTokenIs(token.EOF) {
		statement := p.parseStatement()
		if statement != nil {
			program.Statements = append(program.Statements, statement)
		}
		p.nextToken()
	}
	return program
}

// ParseExpression parses the whole input as exactly one expression (an optional trailing ";" is allowed).
// The REPL uses it to decide whether a line can be evaluated for its value.
func (p *Parser) ParseExpression() ast.Expression {
	expression := p.parseExpression(LOWEST)
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	if !p.peekTokenIs(token.EOF) {
		p.errorf(p.peekToken, "unexpected %s after expression", p.peekToken.Type)
		return nil
	}
	return expression
}

// Errors Return slice Parser.errors
func (p *Parser) Errors() []string {
	return p.errors
}

// parseStatement looks at the current token, Parser.curToken, decides on how it should be parsed and then returns the
// parsed ast.Statement.
// A lone ";" is an empty statement and produces nil.
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.VAR:
		return p.parseVarStatement()
	case token.FUNCTION:
		// "fun name(...)" declares, "fun (...)" is a lambda used as an expression
		if p.peekTokenIs(token.IDENT) {
			return p.parseFunctionStatement()
		}
		return p.parseExpressionStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.LBRACE:
		return p.parseBlockStatement()
	case token.SEMICOLON:
		return nil
	default:
		return p.parseExpressionStatement()
	}
}

// parseVarStatement parses "var <ident> [= <expression>];"
func (p *Parser) parseVarStatement() ast.Statement {
	statement := &ast.VarStatement{Token: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	statement.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		statement.Value = p.parseExpression(LOWEST)
		if statement.Value == nil {
			return nil
		}
	}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return statement
}

// parseReturnStatement parses "return [<expression>];". The value is left out when the statement ends right away.
func (p *Parser) parseReturnStatement() ast.Statement {
	statement := &ast.ReturnStatement{Token: p.curToken}
	if !p.peekTokenIs(token.SEMICOLON) && !p.peekTokenIs(token.RBRACE) && !p.peekTokenIs(token.EOF) {
		p.nextToken()
		statement.ReturnValue = p.parseExpression(LOWEST)
		if statement.ReturnValue == nil {
			return nil
		}
	}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return statement
}

// parseExpressionStatement tries to parse Parser.curToken as an ast.ExpressionStatement.
// The trailing semicolon is optional.
func (p *Parser) parseExpressionStatement() ast.Statement {
	statement := &ast.ExpressionStatement{Token: p.curToken}
	statement.Expression = p.parseExpression(LOWEST)
	if statement.Expression == nil {
		return nil
	}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return statement
}

// parseBlockStatement parses "{ <statement>* }". Parser.curToken must be the "{".
func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken, Statements: []ast.Statement{}}
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		statement := p.parseStatement()
		if statement != nil {
			block.Statements = append(block.Statements, statement)
		}
		p.nextToken()
	}
	if p.curTokenIs(token.EOF) {
		p.errorf(block.Token, "expected } to close the block opened here")
	}
	return block
}

// parseIfStatement parses "if (<condition>) <statement> [else <statement>]"
func (p *Parser) parseIfStatement() ast.Statement {
	statement := &ast.IfStatement{Token: p.curToken}
	condition, ok := p.parseParenthesizedCondition()
	if !ok {
		return nil
	}
	statement.Condition = condition

	p.nextToken()
	if statement.Consequence = p.parseStatement(); statement.Consequence == nil {
		p.errorf(statement.Token, "expected a statement after the if condition")
		return nil
	}
	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		p.nextToken()
		if statement.Alternative = p.parseStatement(); statement.Alternative == nil {
			p.errorf(statement.Token, "expected a statement after else")
			return nil
		}
	}
	return statement
}

// parseWhileStatement parses "while (<condition>) <statement>"
func (p *Parser) parseWhileStatement() ast.Statement {
	statement := &ast.WhileStatement{Token: p.curToken}
	condition, ok := p.parseParenthesizedCondition()
	if !ok {
		return nil
	}
	statement.Condition = condition

	p.nextToken()
	if statement.Body = p.parseStatement(); statement.Body == nil {
		p.errorf(statement.Token, "expected a statement as the while body")
		return nil
	}
	return statement
}

// parseParenthesizedCondition parses "(<expression>)" following an if/while keyword and leaves Parser.curToken on ")".
func (p *Parser) parseParenthesizedCondition() (ast.Expression, bool) {
	if !p.expectPeek(token.LPAREN) {
		return nil, false
	}
	p.nextToken()
	condition := p.parseExpression(LOWEST)
	if condition == nil || !p.expectPeek(token.RPAREN) {
		return nil, false
	}
	return condition, true
}

/*
parseForStatement parses "for (<init>; <condition>; <increment>) <body>" and desugars it on the spot, there is no
for statement in the AST:

	for (var i = 0; i < 3; i = i + 1) print(i);

becomes

	{
		var i = 0;
		while (i < 3) {
			print(i);
			i = i + 1;
		}
	}

Any of the three clauses can be left out, a missing condition loops forever.
*/
func (p *Parser) parseForStatement() ast.Statement {
	forToken := p.curToken
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()

	var initializer ast.Statement
	switch {
	case p.curTokenIs(token.SEMICOLON):
	case p.curTokenIs(token.VAR):
		initializer = p.parseVarStatement()
	default:
		initializer = p.parseExpressionStatement()
	}
	if !p.curTokenIs(token.SEMICOLON) {
		p.errorf(p.curToken, "expected ; after the for loop initializer, got %s", p.curToken.Type)
		return nil
	}

	var condition ast.Expression
	p.nextToken()
	if !p.curTokenIs(token.SEMICOLON) {
		if condition = p.parseExpression(LOWEST); condition == nil || !p.expectPeek(token.SEMICOLON) {
			return nil
		}
	}

	var increment ast.Expression
	p.nextToken()
	if !p.curTokenIs(token.RPAREN) {
		if increment = p.parseExpression(LOWEST); increment == nil || !p.expectPeek(token.RPAREN) {
			return nil
		}
	}

	p.nextToken()
	body := p.parseStatement()
	if body == nil {
		p.errorf(forToken, "expected a statement as the for body")
		return nil
	}

	braceToken := token.Token{Type: token.LBRACE, Literal: "{", Line: forToken.Line, Column: forToken.Column}
	if increment != nil {
		body = &ast.BlockStatement{Token: braceToken, Statements: []ast.Statement{
			body,
			&ast.ExpressionStatement{Token: forToken, Expression: increment},
		}}
	}
	if condition == nil {
		condition = &ast.Boolean{Token: token.Token{Type: token.TRUE, Literal: "true", Line: forToken.Line}, Value: true}
	}
	var loop ast.Statement = &ast.WhileStatement{Token: forToken, Condition: condition, Body: body}
	if initializer != nil {
		loop = &ast.BlockStatement{Token: braceToken, Statements: []ast.Statement{initializer, loop}}
	}
	return loop
}

// parseFunctionStatement parses "fun <name>(<parameters>) { <body> }"
func (p *Parser) parseFunctionStatement() ast.Statement {
	statement := &ast.FunctionStatement{Token: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	statement.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	parameters, ok := p.parseFunctionParameters()
	if !ok {
		return nil
	}
	statement.Parameters = parameters

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	statement.Body = p.parseBlockStatement()
	return statement
}

// parseFunctionLiteral is the prefixParseFn for token.FUNCTION -> "fun (<parameters>) { <body> }" as an expression.
func (p *Parser) parseFunctionLiteral() ast.Expression {
	literal := &ast.FunctionLiteral{Token: p.curToken}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	parameters, ok := p.parseFunctionParameters()
	if !ok {
		return nil
	}
	literal.Parameters = parameters

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	literal.Body = p.parseBlockStatement()
	return literal
}

// parseFunctionParameters parses a comma separated list of identifiers. Parser.curToken must be the "(" and is left on
// the ")".
func (p *Parser) parseFunctionParameters() ([]*ast.Identifier, bool) {
	identifiers := []*ast.Identifier{}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return identifiers, true
	}

	if !p.expectPeek(token.IDENT) {
		return nil, false
	}
	identifiers = append(identifiers, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil, false
		}
		identifiers = append(identifiers, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})
	}

	if !p.expectPeek(token.RPAREN) {
		return nil, false
	}
	return identifiers, true
}

// parseExpression is the heart of the Pratt parser, see the comment at the top of this file.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	leftExp := prefix()
	for leftExp != nil && !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
	}
	return leftExp
}

// parseIdentifier is an associated prefixParseFn for the token.IDENT type.
// It doesn’t advance the tokens, it doesn’t call nextToken.
func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

// parseNumberLiteral turns the token literal into a float64, every number in lox is one.
func (p *Parser) parseNumberLiteral() ast.Expression {
	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.errorf(p.curToken, "could not parse %q as number", p.curToken.Literal)
		return nil
	}
	return &ast.NumberLiteral{Token: p.curToken, Value: value}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseBoolean() ast.Expression {
	return &ast.Boolean{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseNilLiteral() ast.Expression {
	return &ast.NilLiteral{Token: p.curToken}
}

// parsePrefixExpression is the prefixParseFn for "!" and "-". It advances past the operator and parses the operand
// with PREFIX precedence, so -a * b is ((-a) * b).
func (p *Parser) parsePrefixExpression() ast.Expression {
	expression := &ast.PrefixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
	}
	p.nextToken()
	expression.Right = p.parseExpression(PREFIX)
	if expression.Right == nil {
		return nil
	}
	return expression
}

// parseGroupedExpression is the prefixParseFn for "(" -> "(<expression>)"
func (p *Parser) parseGroupedExpression() ast.Expression {
	group := &ast.GroupingExpression{Token: p.curToken}
	p.nextToken()
	group.Expression = p.parseExpression(LOWEST)
	if group.Expression == nil || !p.expectPeek(token.RPAREN) {
		return nil
	}
	return group
}

// parseInfixExpression creates an ast.InfixExpression with the already parsed left side and parses the right side
// with the operator's own precedence.
func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expression := &ast.InfixExpression{Token: p.curToken, Left: left, Operator: p.curToken.Literal}
	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)
	if expression.Right == nil {
		return nil
	}
	return expression
}

// parseLogicalExpression is parseInfixExpression for "and" / "or".
func (p *Parser) parseLogicalExpression(left ast.Expression) ast.Expression {
	expression := &ast.LogicalExpression{Token: p.curToken, Left: left, Operator: p.curToken.Literal}
	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)
	if expression.Right == nil {
		return nil
	}
	return expression
}

// parseAssignExpression is the infixParseFn for "=". The left side must be a plain identifier.
func (p *Parser) parseAssignExpression(left ast.Expression) ast.Expression {
	assignToken := p.curToken
	name, ok := left.(*ast.Identifier)
	if !ok {
		p.errorf(assignToken, "invalid assignment target %s", left.String())
		return nil
	}
	precedence := p.curPrecedence()
	p.nextToken()
	value := p.parseExpression(precedence - 1)
	if value == nil {
		return nil
	}
	return &ast.AssignExpression{Token: assignToken, Name: name, Value: value}
}

// parseCallExpression is the infixParseFn for "(" -> <callee>(<arguments>)
func (p *Parser) parseCallExpression(function ast.Expression) ast.Expression {
	expression := &ast.CallExpression{Token: p.curToken, Function: function}
	arguments, ok := p.parseCallArguments()
	if !ok {
		return nil
	}
	expression.Arguments = arguments
	return expression
}

// parseCallArguments parses comma separated expressions up to the closing ")".
func (p *Parser) parseCallArguments() ([]ast.Expression, bool) {
	args := []ast.Expression{}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return args, true
	}

	p.nextToken()
	arg := p.parseExpression(LOWEST)
	if arg == nil {
		return nil, false
	}
	args = append(args, arg)
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		if arg = p.parseExpression(LOWEST); arg == nil {
			return nil, false
		}
		args = append(args, arg)
	}

	if !p.expectPeek(token.RPAREN) {
		return nil, false
	}
	return args, true
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

// expectPeek advances the tokens when Parser.peekToken is of type t and reports true.
// Otherwise, an error is recorded and the tokens are NOT advanced!
func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

// peekError adds an error into Parser.errors if Parser.peekToken is not the expected token.
func (p *Parser) peekError(t token.TokenType) {
	p.errorf(p.peekToken, "expected next token to be %s, got %s instead", t, p.peekToken.Type)
}

// noPrefixParseFnError records that the token can't start an expression.
func (p *Parser) noPrefixParseFnError(tok token.Token) {
	if tok.Type == token.ILLEGAL {
		p.errorf(tok, "illegal token %q", tok.Literal)
		return
	}
	p.errorf(tok, "no prefix parse function for %s found", tok.Type)
}

// errorf records a parser error prefixed with the line of the offending token.
func (p *Parser) errorf(tok token.Token, format string, a ...any) {
	p.errors = append(p.errors, fmt.Sprintf("line %d: ", tok.Line)+fmt.Sprintf(format, a...))
}

func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

// peekPrecedence returns the precedence of Parser.peekToken, LOWEST when the token is not an operator.
func (p *Parser) peekPrecedence() int {
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}
	return LOWEST
}

// curPrecedence is peekPrecedence for Parser.curToken.
func (p *Parser) curPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}
	return LOWEST
}
