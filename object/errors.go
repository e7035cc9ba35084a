package object

import (
	"errors"
	"fmt"
)

var (
	ErrUndefinedVariable = errors.New("undefined variable")
	ErrTypeMismatch      = errors.New("type mismatch")
	ErrStackOverflow     = errors.New("stack overflow")
)

// UndefinedVariableError is returned when a name is read or assigned but no environment in the chain binds it.
type UndefinedVariableError struct {
	Name string
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("undefined variable '%s'", e.Name)
}

func (e *UndefinedVariableError) Is(target error) bool {
	return target == ErrUndefinedVariable
}

// TypeMismatchError is returned when an operator or a call is applied to a value of the wrong kind.
type TypeMismatchError struct {
	Message string
}

func (e *TypeMismatchError) Error() string {
	return e.Message
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// NewTypeMismatch builds a *TypeMismatchError from a format string.
func NewTypeMismatch(format string, a ...any) *TypeMismatchError {
	return &TypeMismatchError{Message: fmt.Sprintf(format, a...)}
}

// RuntimeError attaches the source line of the failing statement to an error.
type RuntimeError struct {
	Line int
	Err  error
}

func (e *RuntimeError) Error() string {
	if e.Line <= 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("[line %d] %s", e.Line, e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}
