package evaluator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/blazskufca/lox_in_go/object"
)

// This file contains the native functions bound in every global environment.

// builtins returns the natives of in. They are built per Interpreter because print and clock use its writer and
// clock.
func (in *Interpreter) builtins() []*object.Builtin {
	return []*object.Builtin{
		// clock returns the current time as fractional seconds since the Unix epoch. Arguments are ignored.
		{Name: "clock", Fn: func(args ...object.Object) (object.Object, error) {
			nanos := in.now().UnixNano()
			return &object.Number{Value: float64(nanos) / 1e9}, nil
		}},
		// print writes its arguments space separated on one line.
		{Name: "print", Fn: func(args ...object.Object) (object.Object, error) {
			parts := make([]string, len(args))
			for i, arg := range args {
				parts[i] = arg.Inspect()
			}
			if _, err := fmt.Fprintln(in.out, strings.Join(parts, " ")); err != nil {
				return nil, fmt.Errorf("print: %w", err)
			}
			return NULL, nil
		}},
		{Name: "type_of", Fn: func(args ...object.Object) (object.Object, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("wrong number of arguments to `type_of`. got=%d, want=1", len(args))
			}
			return &object.String{Value: typeName(args[0])}, nil
		}},
		// len counts characters, not bytes.
		{Name: "len", Fn: func(args ...object.Object) (object.Object, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("wrong number of arguments to `len`. got=%d, want=1", len(args))
			}
			str, ok := args[0].(*object.String)
			if !ok {
				return nil, object.NewTypeMismatch("argument to `len` not supported, got %s", typeName(args[0]))
			}
			return &object.Number{Value: float64(utf8.RuneCountInString(str.Value))}, nil
		}},
	}
}
