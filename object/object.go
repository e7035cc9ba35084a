package object

import (
	"math"
	"strconv"
)

/*
The object system is how values are represented while the AST is being executed.

Lox is dynamically typed and has exactly five kinds of values: nil, booleans, numbers, strings and callables. Each kind
is its own Go type and they all fulfil the Object interface, so the evaluator can pass values around without knowing
what they are and type switch only where an operator actually cares.

Callables come in two independent flavours, user functions (defined in the evaluator, since calling them means executing
statements) and host natives (Builtin, below). Both satisfy Callable and a call expression never needs to know which
one it holds.
*/

type ObjectType string

const (
	NIL_OBJ          = "NIL"
	BOOLEAN_OBJ      = "BOOLEAN"
	NUMBER_OBJ       = "NUMBER"
	STRING_OBJ       = "STRING"
	FUNCTION_OBJ     = "FUNCTION"
	BUILTIN_OBJ      = "BUILTIN"
	RETURN_VALUE_OBJ = "RETURN_VALUE"
)

// Object is how any value is represented when evaluating the AST internally. Note that it's an interface!
type Object interface {
	Type() ObjectType
	// Inspect returns the canonical string form, the one print() writes out.
	Inspect() string
}

// Callable is an Object which can be invoked with a list of already evaluated arguments.
type Callable interface {
	Object
	Call(args []Object) (Object, error)
}

// Nil represents the absence of a value. There is no payload, so one shared instance is enough.
type Nil struct{}

func (n *Nil) Type() ObjectType { return NIL_OBJ }
func (n *Nil) Inspect() string  { return "nil" }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }

// Number is the only numeric type in lox, a double-precision float.
type Number struct {
	Value float64
}

func (n *Number) Type() ObjectType { return NUMBER_OBJ }

// Inspect prints whole numbers without a fractional part (3 rather than 3.0) and everything else in its shortest
// round-trip form.
func (n *Number) Inspect() string {
	switch {
	case math.IsInf(n.Value, 1):
		return "inf"
	case math.IsInf(n.Value, -1):
		return "-inf"
	case math.IsNaN(n.Value):
		return "NaN"
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }

// ReturnValue wraps the value of an executed return statement while it travels up through nested statement lists
// towards the call that has to produce it. It never ends up stored in an Environment.
type ReturnValue struct {
	Value Object
}

func (rv *ReturnValue) Type() ObjectType { return RETURN_VALUE_OBJ }
func (rv *ReturnValue) Inspect() string  { return rv.Value.Inspect() }

// BuiltinFunction is the Go signature of a native function.
type BuiltinFunction func(args ...Object) (Object, error)

// Builtin is a function provided by the host (clock, print, ...) rather than written in lox.
type Builtin struct {
	Name string
	Fn   BuiltinFunction
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return "<native fn " + b.Name + ">" }

// Call on Builtin fulfils the Callable interface.
func (b *Builtin) Call(args []Object) (Object, error) {
	return b.Fn(args...)
}
