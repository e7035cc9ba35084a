package ast

import (
	"bytes"
	"strings"

	"github.com/blazskufca/lox_in_go/token"
)

/*
As an example and a demonstration of the general idea, the following lox code:
									  var x = 5;

Could be represented in the AST as:
						            +------------+
						            |*ast.Program|
						            |------------|
						            | Statements |
						            +-----+------+
						                  |
						                  v
						           +-----------------+
						           |*ast.VarStatement|
						           |-----------------|
						           |    Name         |
						           |    Value        |
						           +-------+---------+
						                   |
						        +----------+--------+
						        |                   |
						        v                   v
						+--------------+    +---------------+
						|*ast.Identifer|    |*ast.Expression|
						+--------------+    +---------------+
*/

// Node is the most basic type of a tree node in our AST.
// Each subtype of a node must implement the Node interface.
type Node interface {
	TokenLiteral() string // TokenLiteral returns the literal value associated with the token. Will be used for only debugging and testing.
	String() string
}

// Statement is a AST Node which represents a Statement in lox, as the name might suggest
type Statement interface {
	Node
	statementNode()
}

// Expression is a AST Node which represents an Expression in lox, as the name might suggest
type Expression interface {
	Node
	expressionNode()
}

// The Program node is the root node of every AST the parser produces!
type Program struct {
	Statements []Statement // Every valid Program is a series of Statements
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

// String on Program type satisfies the Node interface (and consequently the fmt.Stringer)
// It returns stringified contents of Program.Statements slice.
func (p *Program) String() string {
	var out bytes.Buffer
	for _, s := range p.Statements {
		out.WriteString(s.String())
	}
	return out.String()
}

// Line returns the source line a statement starts on, or 0 when the statement carries no token.
func Line(s Statement) int {
	switch s := s.(type) {
	case *VarStatement:
		return s.Token.Line
	case *ExpressionStatement:
		return s.Token.Line
	case *BlockStatement:
		return s.Token.Line
	case *IfStatement:
		return s.Token.Line
	case *WhileStatement:
		return s.Token.Line
	case *FunctionStatement:
		return s.Token.Line
	case *ReturnStatement:
		return s.Token.Line
	}
	return 0
}

// Identifier holds the identifier of the binding. It implements the Expression interface
type Identifier struct {
	Token token.Token // the token.IDENT token
	Value string
}

// expressionNode satisfies the Expression interface on the Identifier structure.
func (i *Identifier) expressionNode() {}

// TokenLiteral satisfies the Node interface on Identifier structure.
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }

// String on Identifier returns Identifier.Value.
func (i *Identifier) String() string { return i.Value }

// VarStatement is "var <Name> = <Value>;". Value is nil when the initializer is left out.
type VarStatement struct {
	Token token.Token // Token is the token.VAR token
	Name  *Identifier // Name holds the identifier of the binding.
	Value Expression  // Value holds the Expression that produces the value, may be nil
}

func (vs *VarStatement) statementNode()       {}
func (vs *VarStatement) TokenLiteral() string { return vs.Token.Literal }

// String on VarStatement returns "var <name> = <value>;" or "var <name>;" without an initializer.
func (vs *VarStatement) String() string {
	var out bytes.Buffer
	out.WriteString(vs.TokenLiteral() + " ")
	out.WriteString(vs.Name.String())
	if vs.Value != nil {
		out.WriteString(" = ")
		out.WriteString(vs.Value.String())
	}
	out.WriteString(";")
	return out.String()
}

type ReturnStatement struct {
	Token       token.Token // Token should be the token.RETURN token
	ReturnValue Expression  // ReturnValue Expression is the expression in "return <expression>;", nil for a bare "return;"
}

func (rs *ReturnStatement) statementNode()       {}
func (rs *ReturnStatement) TokenLiteral() string { return rs.Token.Literal }

func (rs *ReturnStatement) String() string {
	var out bytes.Buffer
	out.WriteString(rs.TokenLiteral())
	if rs.ReturnValue != nil {
		out.WriteString(" " + rs.ReturnValue.String())
	}
	out.WriteString(";")
	return out.String()
}

/*
ExpressionStatement encompasses the following code structure in lox:

	var x = 5;
	x + 10; // This line is an expression statement.
*/
type ExpressionStatement struct {
	Token      token.Token // Token here will be the first token of the expression
	Expression Expression  // Expression is the actual expression in "expression" statement
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Literal }

func (es *ExpressionStatement) String() string {
	if es.Expression != nil {
		return es.Expression.String()
	}
	return ""
}

type BlockStatement struct {
	Token      token.Token // Token is the "{" token
	Statements []Statement // Statements contained inside the {...}
}

func (bs *BlockStatement) statementNode()       {}
func (bs *BlockStatement) TokenLiteral() string { return bs.Token.Literal }

// String on BlockStatement returns the stringified statements wrapped in braces.
func (bs *BlockStatement) String() string {
	var out bytes.Buffer
	out.WriteString("{ ")
	for _, s := range bs.Statements {
		out.WriteString(s.String())
		out.WriteString(" ")
	}
	out.WriteString("}")
	return out.String()
}

// IfStatement follows the structure -> if (<condition>) <consequence> else <alternative>
type IfStatement struct {
	Token       token.Token // Token is the "if" token
	Condition   Expression  // Condition decides which branch runs
	Consequence Statement   // Consequence runs when Condition is true
	Alternative Statement   // Alternative runs otherwise, may be nil
}

func (is *IfStatement) statementNode()       {}
func (is *IfStatement) TokenLiteral() string { return is.Token.Literal }

func (is *IfStatement) String() string {
	var out bytes.Buffer
	out.WriteString("if ")
	out.WriteString(is.Condition.String())
	out.WriteString(" ")
	out.WriteString(is.Consequence.String())
	if is.Alternative != nil {
		out.WriteString(" else ")
		out.WriteString(is.Alternative.String())
	}
	return out.String()
}

// WhileStatement follows the structure -> while (<condition>) <body>
type WhileStatement struct {
	Token     token.Token // Token is the "while" token (or the "for" token the loop was desugared from)
	Condition Expression
	Body      Statement
}

func (ws *WhileStatement) statementNode()       {}
func (ws *WhileStatement) TokenLiteral() string { return ws.Token.Literal }

func (ws *WhileStatement) String() string {
	return "while " + ws.Condition.String() + " " + ws.Body.String()
}

// FunctionStatement is a named function declaration -> fun <Name>(<Parameters>) <Body>
type FunctionStatement struct {
	Token      token.Token // Token is the "fun" token
	Name       *Identifier
	Parameters []*Identifier
	Body       *BlockStatement
}

func (fs *FunctionStatement) statementNode()       {}
func (fs *FunctionStatement) TokenLiteral() string { return fs.Token.Literal }

func (fs *FunctionStatement) String() string {
	return fs.TokenLiteral() + " " + fs.Name.String() + "(" + joinIdentifiers(fs.Parameters) + ") " + fs.Body.String()
}

// NumberLiteral holds every number in lox, they are all float64.
type NumberLiteral struct {
	Token token.Token
	Value float64
}

func (nl *NumberLiteral) expressionNode()      {}
func (nl *NumberLiteral) TokenLiteral() string { return nl.Token.Literal }
func (nl *NumberLiteral) String() string       { return nl.Token.Literal }

type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Literal }

// String on StringLiteral puts the quotes back, so the printed AST reads like source.
func (sl *StringLiteral) String() string { return `"` + sl.Value + `"` }

type Boolean struct {
	Token token.Token // Token is the token containing the boolean literal
	Value bool
}

func (b *Boolean) expressionNode()      {}
func (b *Boolean) TokenLiteral() string { return b.Token.Literal }
func (b *Boolean) String() string       { return b.Token.Literal }

// NilLiteral is the "nil" keyword used as a value.
type NilLiteral struct {
	Token token.Token
}

func (n *NilLiteral) expressionNode()      {}
func (n *NilLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NilLiteral) String() string       { return "nil" }

// GroupingExpression is a parenthesized expression, kept in the tree so the printed AST shows where the source had
// parentheses.
type GroupingExpression struct {
	Token      token.Token // Token is the "(" token
	Expression Expression
}

func (ge *GroupingExpression) expressionNode()      {}
func (ge *GroupingExpression) TokenLiteral() string { return ge.Token.Literal }
func (ge *GroupingExpression) String() string       { return "(group " + ge.Expression.String() + ")" }

type PrefixExpression struct {
	Token    token.Token // Token is the prefix token, e.g. "!"
	Operator string      // Operator is "!" or "-"
	Right    Expression  // Right contains the Expression on the right side of the Operator
}

func (pe *PrefixExpression) expressionNode()      {}
func (pe *PrefixExpression) TokenLiteral() string { return pe.Token.Literal }

func (pe *PrefixExpression) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(pe.Operator)
	out.WriteString(pe.Right.String())
	out.WriteString(")")
	return out.String()
}

// InfixExpression covers the arithmetic, comparison and equality operators.
type InfixExpression struct {
	Token    token.Token // Token is the operator token, e.g. +
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) expressionNode()      {}
func (ie *InfixExpression) TokenLiteral() string { return ie.Token.Literal }

func (ie *InfixExpression) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(ie.Left.String())
	out.WriteString(" " + ie.Operator + " ")
	out.WriteString(ie.Right.String())
	out.WriteString(")")
	return out.String()
}

// LogicalExpression is "and" / "or". It is separate from InfixExpression because the right side is evaluated lazily.
type LogicalExpression struct {
	Token    token.Token
	Left     Expression
	Operator string // Operator is "and" or "or"
	Right    Expression
}

func (le *LogicalExpression) expressionNode()      {}
func (le *LogicalExpression) TokenLiteral() string { return le.Token.Literal }

func (le *LogicalExpression) String() string {
	return "(" + le.Left.String() + " " + le.Operator + " " + le.Right.String() + ")"
}

// AssignExpression is "<Name> = <Value>". Only plain identifiers can be assigned to.
type AssignExpression struct {
	Token token.Token // Token is the "=" token
	Name  *Identifier
	Value Expression
}

func (ae *AssignExpression) expressionNode()      {}
func (ae *AssignExpression) TokenLiteral() string { return ae.Token.Literal }
func (ae *AssignExpression) String() string       { return "(" + ae.Name.String() + " = " + ae.Value.String() + ")" }

type CallExpression struct {
	Token     token.Token // Token is the "(" token
	Function  Expression  // Function is an Identifier, a FunctionLiteral or any other expression producing a callable
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Literal }

func (ce *CallExpression) String() string {
	args := make([]string, 0, len(ce.Arguments))
	for _, a := range ce.Arguments {
		args = append(args, a.String())
	}
	return ce.Function.String() + "(" + strings.Join(args, ", ") + ")"
}

// FunctionLiteral is an anonymous function (a lambda) -> fun (<Parameters>) <Body>
type FunctionLiteral struct {
	Token      token.Token // Token is the "fun" token
	Parameters []*Identifier
	Body       *BlockStatement
}

func (fl *FunctionLiteral) expressionNode()      {}
func (fl *FunctionLiteral) TokenLiteral() string { return fl.Token.Literal }

func (fl *FunctionLiteral) String() string {
	return fl.TokenLiteral() + "(" + joinIdentifiers(fl.Parameters) + ") " + fl.Body.String()
}

func joinIdentifiers(idents []*Identifier) string {
	names := make([]string, 0, len(idents))
	for _, p := range idents {
		names = append(names, p.String())
	}
	return strings.Join(names, ", ")
}
