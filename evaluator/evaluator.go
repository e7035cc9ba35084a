package evaluator

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/blazskufca/lox_in_go/ast"
	"github.com/blazskufca/lox_in_go/object"
)

// DefaultMaxCallDepth bounds how deeply lox functions may call each other before ErrStackOverflow is returned.
const DefaultMaxCallDepth = 1000

// Booleans and nil carry no identity, so the evaluator shares one object for each of them instead of allocating a new
// one every time a literal or a comparison produces one.
var (
	TRUE  = &object.Boolean{Value: true}
	FALSE = &object.Boolean{Value: false}
	NULL  = &object.Nil{}
)

// Interpreter walks the AST. It owns the pieces of host state the evaluation needs: where print() writes to, the
// logger, the clock and the current call depth.
// An Interpreter is not safe for concurrent use.
type Interpreter struct {
	out          io.Writer
	logger       *slog.Logger
	now          func() time.Time
	maxCallDepth int
	depth        int
}

// Option configures an Interpreter created with New.
type Option func(*Interpreter)

// WithOutput sets the writer print() writes to. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(in *Interpreter) { in.out = w }
}

// WithLogger sets the logger. Defaults to slog.Default() at the time of logging.
func WithLogger(l *slog.Logger) Option {
	return func(in *Interpreter) { in.logger = l }
}

// WithMaxCallDepth sets the maximum call depth, values < 1 are ignored.
func WithMaxCallDepth(n int) Option {
	return func(in *Interpreter) {
		if n > 0 {
			in.maxCallDepth = n
		}
	}
}

// WithClock replaces the time source used by the clock() native.
func WithClock(now func() time.Time) Option {
	return func(in *Interpreter) { in.now = now }
}

// New returns an Interpreter configured by opts.
func New(opts ...Option) *Interpreter {
	in := &Interpreter{
		out:          os.Stdout,
		now:          time.Now,
		maxCallDepth: DefaultMaxCallDepth,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

var defaultInterpreter = New()

// Execute runs statements with an Interpreter that prints to os.Stdout. See (*Interpreter).Execute.
func Execute(env *object.Environment, statements []ast.Statement) error {
	return defaultInterpreter.Execute(env, statements)
}

// EvaluateExpression evaluates expression with an Interpreter that prints to os.Stdout.
// See (*Interpreter).EvaluateExpression.
func EvaluateExpression(env *object.Environment, expression ast.Expression) (object.Object, error) {
	return defaultInterpreter.EvaluateExpression(env, expression)
}

func (in *Interpreter) log() *slog.Logger {
	if in.logger != nil {
		return in.logger
	}
	return slog.Default()
}

// NewGlobalEnvironment returns a root Environment with every native function bound in it.
func (in *Interpreter) NewGlobalEnvironment() *object.Environment {
	env := object.NewEnvironment()
	for _, builtin := range in.builtins() {
		env.Define(builtin.Name, builtin)
	}
	return env
}

// Execute runs statements in order against env, a nil env gets a fresh global environment.
// It returns the first error encountered. A return statement outside of any function stops the execution without an
// error, the rest of the statements are skipped.
func (in *Interpreter) Execute(env *object.Environment, statements []ast.Statement) error {
	_, err := in.Run(env, statements)
	return err
}

// Run is Execute, but it also hands back the environment the last statement ran in.
// Every var declaration wraps the rest of its statement list in a new environment, so the environment passed in never
// sees those declarations; an interactive session passes the returned environment to the next Run to keep them.
// The returned environment is valid even when an error is returned, it holds everything declared before the failure.
func (in *Interpreter) Run(env *object.Environment, statements []ast.Statement) (*object.Environment, error) {
	if env == nil {
		env = in.NewGlobalEnvironment()
	}
	in.log().Debug("executing statements", "count", len(statements))

	current, returned, err := in.execStatements(statements, env)
	if err != nil {
		if errors.Is(err, object.ErrStackOverflow) {
			in.log().Warn("call depth limit reached", "max_call_depth", in.maxCallDepth)
		}
		in.log().Debug("execution failed", "error", err)
		return current, err
	}
	if returned != nil {
		in.log().Debug("return outside of a function ended execution", "value", returned.Value.Inspect())
	}
	return current, nil
}

// EvaluateExpression evaluates a single expression against env (a fresh global environment when nil) and returns its
// value.
func (in *Interpreter) EvaluateExpression(env *object.Environment, expression ast.Expression) (object.Object, error) {
	if env == nil {
		env = in.NewGlobalEnvironment()
	}
	return in.evalExpression(expression, env)
}

/*
execStatements is the one place statement lists get executed: programs, blocks and function bodies all go through it.

Its outcome is one of three things:
	- (nil, nil): every statement ran normally
	- (*object.ReturnValue, nil): a return statement ran somewhere inside, the remaining statements are skipped and the
	  value travels up until a function call (callFunction) turns it back into an ordinary value
	- (_, err): a statement failed, the remaining statements are skipped

The environment it runs in is not fixed. Every var declaration first wraps the current environment in a new one and the
declaration, together with all statements after it, runs in that new environment:

	var a = 1;      // runs in env1 = wrap(env)
	var b = a + 1;  // runs in env2 = wrap(env1)
	print(b);       // runs in env2

So a declared name is only visible to the statements that follow it, and every name gets its own layer.
*/
func (in *Interpreter) execStatements(statements []ast.Statement, env *object.Environment) (*object.Environment, *object.ReturnValue, error) {
	current := env
	for _, statement := range statements {
		if _, ok := statement.(*ast.VarStatement); ok {
			current = object.NewEnclosedEnvironment(current)
		}
		returned, err := in.execStatement(statement, current)
		if err != nil {
			return current, nil, withLine(statement, err)
		}
		if returned != nil {
			return current, returned, nil
		}
	}
	return current, nil, nil
}

// withLine wraps err in an *object.RuntimeError pointing at statement, unless a statement nested deeper already did.
func withLine(statement ast.Statement, err error) error {
	var runtimeErr *object.RuntimeError
	if errors.As(err, &runtimeErr) {
		return err
	}
	return &object.RuntimeError{Line: ast.Line(statement), Err: err}
}

// execStatement executes a single statement in env. A non-nil *object.ReturnValue means a return statement ran.
func (in *Interpreter) execStatement(statement ast.Statement, env *object.Environment) (*object.ReturnValue, error) {
	switch statement := statement.(type) {
	case *ast.VarStatement:
		return nil, in.execVarStatement(statement, env)
	case *ast.ExpressionStatement:
		_, err := in.evalExpression(statement.Expression, env)
		return nil, err
	case *ast.BlockStatement:
		_, returned, err := in.execStatements(statement.Statements, object.NewEnclosedEnvironment(env))
		return returned, err
	case *ast.IfStatement:
		return in.execIfStatement(statement, env)
	case *ast.WhileStatement:
		return in.execWhileStatement(statement, env)
	case *ast.FunctionStatement:
		fn := in.newFunction(statement.Name.Value, statement.Parameters, statement.Body, env)
		env.Define(statement.Name.Value, fn)
		return nil, nil
	case *ast.ReturnStatement:
		return in.execReturnStatement(statement, env)
	}
	return nil, fmt.Errorf("unknown statement %T", statement)
}

// execVarStatement evaluates the initializer (nil when there is none) and defines the name in env.
// env is the layer execStatements just created for this declaration and it does not bind the name yet, so reading
// the name in its own initializer finds an outer binding or fails, while a function created by the initializer
// captures env and can see the name once it is defined.
func (in *Interpreter) execVarStatement(statement *ast.VarStatement, env *object.Environment) error {
	var value object.Object = NULL
	if statement.Value != nil {
		evaluated, err := in.evalExpression(statement.Value, env)
		if err != nil {
			return err
		}
		value = evaluated
	}
	env.Define(statement.Name.Value, value)
	return nil
}

// execIfStatement runs the consequence only when the condition is exactly the boolean true. Any other value, truthy
// or not, selects the alternative. This is stricter than the truthiness used by while, and, or and !.
func (in *Interpreter) execIfStatement(statement *ast.IfStatement, env *object.Environment) (*object.ReturnValue, error) {
	condition, err := in.evalExpression(statement.Condition, env)
	if err != nil {
		return nil, err
	}
	if boolean, ok := condition.(*object.Boolean); ok && boolean.Value {
		return in.execStatement(statement.Consequence, env)
	}
	if statement.Alternative != nil {
		return in.execStatement(statement.Alternative, env)
	}
	return nil, nil
}

func (in *Interpreter) execWhileStatement(statement *ast.WhileStatement, env *object.Environment) (*object.ReturnValue, error) {
	for {
		condition, err := in.evalExpression(statement.Condition, env)
		if err != nil {
			return nil, err
		}
		if !IsTruthy(condition) {
			return nil, nil
		}
		returned, err := in.execStatement(statement.Body, env)
		if err != nil || returned != nil {
			return returned, err
		}
	}
}

func (in *Interpreter) execReturnStatement(statement *ast.ReturnStatement, env *object.Environment) (*object.ReturnValue, error) {
	var value object.Object = NULL
	if statement.ReturnValue != nil {
		evaluated, err := in.evalExpression(statement.ReturnValue, env)
		if err != nil {
			return nil, err
		}
		value = evaluated
	}
	return &object.ReturnValue{Value: value}, nil
}
