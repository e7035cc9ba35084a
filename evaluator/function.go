package evaluator

import (
	"github.com/blazskufca/lox_in_go/ast"
	"github.com/blazskufca/lox_in_go/object"
)

// Function is a user defined lox function, either declared with a name or created by a function literal.
// It captures the environment it was created in, every call runs the body in a fresh environment enclosed by it.
type Function struct {
	Name       string // Name is empty for function literals
	Parameters []string
	Body       []ast.Statement
	Env        *object.Environment

	interpreter *Interpreter
}

func (in *Interpreter) newFunction(name string, params []*ast.Identifier, body *ast.BlockStatement, env *object.Environment) *Function {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Value
	}
	var statements []ast.Statement
	if body != nil {
		statements = append(statements, body.Statements...)
	}
	return &Function{Name: name, Parameters: names, Body: statements, Env: env, interpreter: in}
}

func (f *Function) Type() object.ObjectType { return object.FUNCTION_OBJ }

func (f *Function) Inspect() string {
	if f.Name == "" {
		return "<fn>"
	}
	return "<fn " + f.Name + ">"
}

// Call binds args to the parameters and executes the body.
// Parameters without an argument are bound to nil and surplus arguments are dropped.
// A return statement anywhere in the body ends the call with its value, falling off the end yields nil.
func (f *Function) Call(args []object.Object) (object.Object, error) {
	in := f.interpreter
	if in.depth >= in.maxCallDepth {
		return nil, object.ErrStackOverflow
	}
	in.depth++
	defer func() { in.depth-- }()

	env := object.NewEnclosedEnvironment(f.Env)
	for i, name := range f.Parameters {
		if i < len(args) {
			env.Define(name, args[i])
		} else {
			env.Define(name, NULL)
		}
	}

	_, returned, err := in.execStatements(f.Body, env)
	if err != nil {
		return nil, err
	}
	if returned != nil {
		return returned.Value, nil
	}
	return NULL, nil
}
