package ast

import (
	"testing"

	"github.com/blazskufca/lox_in_go/token"
)

func TestString(t *testing.T) {
	// This test manually constructs the AST for the following lox code and then test the AST stringification:
	//									var myVar = anotherVar;
	program := &Program{
		Statements: []Statement{
			&VarStatement{
				Token: token.Token{Type: token.VAR, Literal: "var"},
				Name: &Identifier{
					Token: token.Token{Type: token.IDENT, Literal: "myVar"},
					Value: "myVar",
				},
				Value: &Identifier{
					Token: token.Token{Type: token.IDENT, Literal: "anotherVar"},
					Value: "anotherVar",
				},
			},
		},
	}
	if program.String() != "var myVar = anotherVar;" {
		t.Errorf("program.String() wrong. got=%q", program.String())
	}
}

func TestFunctionString(t *testing.T) {
	ident := func(name string) *Identifier {
		return &Identifier{Token: token.Token{Type: token.IDENT, Literal: name}, Value: name}
	}
	fn := &FunctionStatement{
		Token:      token.Token{Type: token.FUNCTION, Literal: "fun"},
		Name:       ident("add"),
		Parameters: []*Identifier{ident("a"), ident("b")},
		Body: &BlockStatement{
			Token: token.Token{Type: token.LBRACE, Literal: "{"},
			Statements: []Statement{
				&ReturnStatement{
					Token: token.Token{Type: token.RETURN, Literal: "return", Line: 3},
					ReturnValue: &InfixExpression{
						Token:    token.Token{Type: token.PLUS, Literal: "+"},
						Left:     ident("a"),
						Operator: "+",
						Right:    ident("b"),
					},
				},
			},
		},
	}
	if got := fn.String(); got != "fun add(a, b) { return (a + b); }" {
		t.Errorf("fn.String() wrong. got=%q", got)
	}
	if got := Line(fn.Body.Statements[0]); got != 3 {
		t.Errorf("Line() wrong. got=%d", got)
	}
}

func TestVarWithoutInitializerString(t *testing.T) {
	vs := &VarStatement{
		Token: token.Token{Type: token.VAR, Literal: "var"},
		Name:  &Identifier{Token: token.Token{Type: token.IDENT, Literal: "x"}, Value: "x"},
	}
	if vs.String() != "var x;" {
		t.Errorf("vs.String() wrong. got=%q", vs.String())
	}
}
