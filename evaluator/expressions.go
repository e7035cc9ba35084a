package evaluator

import (
	"fmt"

	"github.com/blazskufca/lox_in_go/ast"
	"github.com/blazskufca/lox_in_go/object"
)

// evalExpression evaluates an expression in env. Expressions never change which environment is current, they can only
// mutate existing bindings through assignment.
func (in *Interpreter) evalExpression(node ast.Expression, env *object.Environment) (object.Object, error) {
	switch node := node.(type) {
	case *ast.NumberLiteral:
		return &object.Number{Value: node.Value}, nil
	case *ast.StringLiteral:
		return &object.String{Value: node.Value}, nil
	case *ast.Boolean:
		return nativeBoolToBooleanObject(node.Value), nil
	case *ast.NilLiteral:
		return NULL, nil
	case *ast.GroupingExpression:
		return in.evalExpression(node.Expression, env)
	case *ast.Identifier:
		return env.Get(node.Value)
	case *ast.AssignExpression:
		value, err := in.evalExpression(node.Value, env)
		if err != nil {
			return nil, err
		}
		return env.Assign(node.Name.Value, value)
	case *ast.PrefixExpression:
		right, err := in.evalExpression(node.Right, env)
		if err != nil {
			return nil, err
		}
		return evalPrefixExpression(node.Operator, right)
	case *ast.InfixExpression:
		left, err := in.evalExpression(node.Left, env)
		if err != nil {
			return nil, err
		}
		right, err := in.evalExpression(node.Right, env)
		if err != nil {
			return nil, err
		}
		return evalInfixExpression(node.Operator, left, right)
	case *ast.LogicalExpression:
		return in.evalLogicalExpression(node, env)
	case *ast.CallExpression:
		return in.evalCallExpression(node, env)
	case *ast.FunctionLiteral:
		return in.newFunction("", node.Parameters, node.Body, env), nil
	}
	return nil, fmt.Errorf("unknown expression %T", node)
}

func evalPrefixExpression(operator string, right object.Object) (object.Object, error) {
	switch operator {
	case "!":
		return nativeBoolToBooleanObject(!IsTruthy(right)), nil
	case "-":
		number, ok := right.(*object.Number)
		if !ok {
			return nil, object.NewTypeMismatch("Can't negate a %s value", typeName(right))
		}
		return &object.Number{Value: -number.Value}, nil
	}
	return nil, fmt.Errorf("unknown operator: %s%s", operator, typeName(right))
}

func evalInfixExpression(operator string, left, right object.Object) (object.Object, error) {
	switch operator {
	case "==":
		return nativeBoolToBooleanObject(Equal(left, right)), nil
	case "!=":
		return nativeBoolToBooleanObject(!Equal(left, right)), nil
	case "+":
		return evalAddition(left, right)
	}

	l, lok := left.(*object.Number)
	r, rok := right.(*object.Number)
	if !lok || !rok {
		return nil, object.NewTypeMismatch("Operands of '%s' must be numbers, got %s and %s",
			operator, typeName(left), typeName(right))
	}
	return evalNumberInfixExpression(operator, l.Value, r.Value)
}

// evalAddition adds two numbers or concatenates two strings. Mixing the two is an error, numbers are never implicitly
// converted.
func evalAddition(left, right object.Object) (object.Object, error) {
	switch l := left.(type) {
	case *object.Number:
		if r, ok := right.(*object.Number); ok {
			return &object.Number{Value: l.Value + r.Value}, nil
		}
	case *object.String:
		if r, ok := right.(*object.String); ok {
			return &object.String{Value: l.Value + r.Value}, nil
		}
	}
	return nil, object.NewTypeMismatch("Can only add two numbers or two strings, got %s and %s",
		typeName(left), typeName(right))
}

// evalNumberInfixExpression follows IEEE 754, so division by zero yields an infinity (or NaN) rather than an error.
func evalNumberInfixExpression(operator string, left, right float64) (object.Object, error) {
	switch operator {
	case "-":
		return &object.Number{Value: left - right}, nil
	case "*":
		return &object.Number{Value: left * right}, nil
	case "/":
		return &object.Number{Value: left / right}, nil
	case "<":
		return nativeBoolToBooleanObject(left < right), nil
	case "<=":
		return nativeBoolToBooleanObject(left <= right), nil
	case ">":
		return nativeBoolToBooleanObject(left > right), nil
	case ">=":
		return nativeBoolToBooleanObject(left >= right), nil
	}
	return nil, fmt.Errorf("unknown operator: %s", operator)
}

// evalLogicalExpression short-circuits: the right operand is only evaluated when the left one does not decide the
// result. The result is one of the operands itself, not a coerced boolean, so `nil or "default"` is "default".
func (in *Interpreter) evalLogicalExpression(node *ast.LogicalExpression, env *object.Environment) (object.Object, error) {
	left, err := in.evalExpression(node.Left, env)
	if err != nil {
		return nil, err
	}
	switch node.Operator {
	case "and":
		if !IsTruthy(left) {
			return left, nil
		}
	case "or":
		if IsTruthy(left) {
			return left, nil
		}
	default:
		return nil, fmt.Errorf("unknown logical operator: %s", node.Operator)
	}
	return in.evalExpression(node.Right, env)
}

// evalCallExpression evaluates the callee first and then the arguments left to right.
func (in *Interpreter) evalCallExpression(node *ast.CallExpression, env *object.Environment) (object.Object, error) {
	callee, err := in.evalExpression(node.Function, env)
	if err != nil {
		return nil, err
	}
	args, err := in.evalExpressions(node.Arguments, env)
	if err != nil {
		return nil, err
	}
	callable, ok := callee.(object.Callable)
	if !ok {
		return nil, object.NewTypeMismatch("Can't call a %s value", typeName(callee))
	}
	return callable.Call(args)
}

func (in *Interpreter) evalExpressions(exps []ast.Expression, env *object.Environment) ([]object.Object, error) {
	result := make([]object.Object, 0, len(exps))
	for _, e := range exps {
		evaluated, err := in.evalExpression(e, env)
		if err != nil {
			return nil, err
		}
		result = append(result, evaluated)
	}
	return result, nil
}

// IsTruthy reports whether obj counts as true for while, and, or and !: nil and false are falsy, every other value
// (0 and "" included) is truthy.
func IsTruthy(obj object.Object) bool {
	switch obj := obj.(type) {
	case *object.Nil:
		return false
	case *object.Boolean:
		return obj.Value
	default:
		return true
	}
}

// Equal is lox equality. It is defined for every pair of values and never fails: values of different kinds are
// unequal, numbers, strings and booleans compare by value, and callables compare by identity.
// Numbers follow IEEE 754, so NaN is not equal to itself.
func Equal(left, right object.Object) bool {
	switch l := left.(type) {
	case *object.Nil:
		_, ok := right.(*object.Nil)
		return ok
	case *object.Boolean:
		r, ok := right.(*object.Boolean)
		return ok && l.Value == r.Value
	case *object.Number:
		r, ok := right.(*object.Number)
		return ok && l.Value == r.Value
	case *object.String:
		r, ok := right.(*object.String)
		return ok && l.Value == r.Value
	}
	return left == right
}

func nativeBoolToBooleanObject(input bool) *object.Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

// typeName is the lowercase kind name used in error messages and by type_of().
func typeName(obj object.Object) string {
	switch obj.(type) {
	case *object.Nil:
		return "nil"
	case *object.Boolean:
		return "boolean"
	case *object.Number:
		return "number"
	case *object.String:
		return "string"
	case object.Callable:
		return "function"
	}
	return string(obj.Type())
}
