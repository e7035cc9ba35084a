package evaluator

import (
	"bytes"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/blazskufca/lox_in_go/lexer"
	"github.com/blazskufca/lox_in_go/object"
	"github.com/blazskufca/lox_in_go/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes input in a fresh global environment and returns what print() wrote, the final environment and the
// error, if any.
func run(t *testing.T, input string, opts ...Option) (string, *object.Environment, error) {
	t.Helper()
	program, errs := parser.Parse(input)
	require.Empty(t, errs, "parser errors for %q", input)

	var out bytes.Buffer
	in := New(append([]Option{WithOutput(&out)}, opts...)...)
	env, err := in.Run(nil, program.Statements)
	return out.String(), env, err
}

func evalExpr(t *testing.T, env *object.Environment, input string) (object.Object, error) {
	t.Helper()
	p := parser.NewParser(lexer.NewLexer(input))
	expression := p.ParseExpression()
	require.Empty(t, p.Errors(), "parser errors for %q", input)
	return New(WithOutput(&bytes.Buffer{})).EvaluateExpression(env, expression)
}

func TestExpressions(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"5", "5"},
		{"-(5 - 3) * 2", "-4"},
		{"1 + 2 * 3", "7"},
		{"(1 + 2) * 3", "9"},
		{"10 / 4", "2.5"},
		{"1 / 0", "inf"},
		{"-1 / 0", "-inf"},
		{"\"foo\" + \"bar\"", "foobar"},
		{"1 < 2", "true"},
		{"2 <= 2", "true"},
		{"3 > 4", "false"},
		{"4 >= 5", "false"},
		{"1 < 2 and 2 < 3", "true"},
		{"1 < 2 and 3 < 2", "false"},
		{"false or nil", "nil"},
		{"1 or 2", "1"},
		{"nil or \"default\"", "default"},
		{"nil and 1", "nil"},
		{"1 and \"two\"", "two"},
		{"!true", "false"},
		{"!nil", "true"},
		{"!0", "false"},
		{"!\"\"", "false"},
		{"nil", "nil"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := evalExpr(t, nil, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got.Inspect())
		})
	}
}

func TestLogicalShortCircuit(t *testing.T) {
	// the right side would fail with an undefined variable if it was evaluated
	got, err := evalExpr(t, nil, "false and missing")
	require.NoError(t, err)
	assert.Same(t, FALSE, got)

	got, err = evalExpr(t, nil, "0 or missing")
	require.NoError(t, err)
	assert.Equal(t, "0", got.Inspect())

	_, err = evalExpr(t, nil, "true and missing")
	assert.ErrorIs(t, err, object.ErrUndefinedVariable)
}

func TestEquality(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"1 == 1", true},
		{"1 == 2", false},
		{"1 == \"1\"", false},
		{"\"a\" == \"a\"", true},
		{"nil == nil", true},
		{"nil == false", false},
		{"false == false", true},
		{"true != false", true},
		{"0 == false", false},
		{"\"\" == nil", false},
		{"clock == clock", true},
		{"clock == print", false},
		{"fun () {} == fun () {}", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := evalExpr(t, nil, tt.input)
			require.NoError(t, err)
			assert.Equal(t, nativeBoolToBooleanObject(tt.expected), got)
		})
	}
}

func TestEqualNaN(t *testing.T) {
	nan := &object.Number{Value: math.NaN()}
	assert.False(t, Equal(nan, nan))
}

func TestIsTruthy(t *testing.T) {
	assert.False(t, IsTruthy(NULL))
	assert.False(t, IsTruthy(FALSE))
	assert.True(t, IsTruthy(TRUE))
	assert.True(t, IsTruthy(&object.Number{Value: 0}))
	assert.True(t, IsTruthy(&object.String{Value: ""}))
	assert.True(t, IsTruthy(&Function{}))
}

func TestSequentialVarScoping(t *testing.T) {
	_, env, err := run(t, "var a = 1; var b = a + 1;")
	require.NoError(t, err)
	got, err := evalExpr(t, env, "b")
	require.NoError(t, err)
	assert.Equal(t, "2", got.Inspect())

	// a function declared before a var does not see it
	_, _, err = run(t, "fun f() { return a; } var a = 1; f();")
	assert.ErrorIs(t, err, object.ErrUndefinedVariable)

	// block bindings are gone once the block ends
	_, env, err = run(t, "{ var a = 1; }")
	require.NoError(t, err)
	_, err = evalExpr(t, env, "a")
	assert.ErrorIs(t, err, object.ErrUndefinedVariable)
}

func TestVarInitializerScoping(t *testing.T) {
	out, _, err := run(t, "var a = 1; { var a = a + 1; print(a); } print(a);")
	require.NoError(t, err)
	assert.Equal(t, "2\n1\n", out)

	_, _, err = run(t, "var a = a;")
	assert.ErrorIs(t, err, object.ErrUndefinedVariable)

	out, _, err = run(t, `
var fact = fun (n) {
	if (n <= 1) return 1;
	return n * fact(n - 1);
};
print(fact(5));`)
	require.NoError(t, err)
	assert.Equal(t, "120\n", out)

	out, _, err = run(t, "var x; print(x);")
	require.NoError(t, err)
	assert.Equal(t, "nil\n", out)
}

func TestAssignment(t *testing.T) {
	out, _, err := run(t, "var a = 1; { a = 2; var a = 3; a = 4; print(a); } print(a);")
	require.NoError(t, err)
	assert.Equal(t, "4\n2\n", out)

	out, _, err = run(t, "var a; var b; a = b = 5; print(a, b);")
	require.NoError(t, err)
	assert.Equal(t, "5 5\n", out)

	_, _, err = run(t, "missing = 1;")
	assert.ErrorIs(t, err, object.ErrUndefinedVariable)
}

func TestClosures(t *testing.T) {
	out, _, err := run(t, `
fun makeCounter() {
	var i = 0;
	fun count() {
		i = i + 1;
		return i;
	}
	return count;
}
var c = makeCounter();
print(c());
print(c());
var d = makeCounter();
print(d());`)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n1\n", out)
}

func TestRecursion(t *testing.T) {
	out, _, err := run(t, `
fun fib(n) {
	if (n < 2) return n;
	return fib(n - 1) + fib(n - 2);
}
print(fib(15));`)
	require.NoError(t, err)
	assert.Equal(t, "610\n", out)
}

func TestReturn(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"from nested loop", "fun f() { var i = 0; while (true) { i = i + 1; if (i == 3) return i; } } print(f());", "3\n"},
		{"from block", "fun f() { { { return 1; } } return 2; } print(f());", "1\n"},
		{"bare", "fun f() { return; } print(f());", "nil\n"},
		{"falling off the end", "fun f() { 1; } print(f());", "nil\n"},
		{"skips the rest", "fun f() { print(1); return 2; print(3); } print(f());", "1\n2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestTopLevelReturnEndsExecution(t *testing.T) {
	out, _, err := run(t, "print(1); return 5; print(2);")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
}

func TestIfRequiresTrue(t *testing.T) {
	tests := []struct {
		condition string
		expected  string
	}{
		{"true", "then\n"},
		{"false", "else\n"},
		{"nil", "else\n"},
		{"1", "else\n"},
		{"\"yes\"", "else\n"},
		{"1 < 2", "then\n"},
	}
	for _, tt := range tests {
		t.Run(tt.condition, func(t *testing.T) {
			out, _, err := run(t, "if ("+tt.condition+") print(\"then\"); else print(\"else\");")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}

	out, _, err := run(t, "if (false) print(\"then\");")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestWhileUsesTruthiness(t *testing.T) {
	out, _, err := run(t, "var x = \"s\"; while (x) { print(x); x = nil; }")
	require.NoError(t, err)
	assert.Equal(t, "s\n", out)

	out, _, err = run(t, "for (var i = 0; i < 3; i = i + 1) print(i);")
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestArity(t *testing.T) {
	out, _, err := run(t, `
fun f(a, b) { return b; }
print(f(1));
print(f(1, 2, 3));
print(f());`)
	require.NoError(t, err)
	assert.Equal(t, "nil\n2\nnil\n", out)
}

func TestStackOverflow(t *testing.T) {
	_, _, err := run(t, "fun f() { return f(); } f();", WithMaxCallDepth(50))
	assert.ErrorIs(t, err, object.ErrStackOverflow)

	// the depth is released again once calls return
	out, _, err := run(t, `
fun down(n) { if (n == 0) return 0; return down(n - 1); }
down(40);
down(40);
print("ok");`, WithMaxCallDepth(50))
	require.NoError(t, err)
	assert.Equal(t, "ok\n", out)
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		sentinel error
		message  string
	}{
		{"negate string", "-\"x\";", object.ErrTypeMismatch, "[line 1] Can't negate a string value"},
		{"add mismatch", "var a = 1;\nvar b = a + \"x\";", object.ErrTypeMismatch,
			"[line 2] Can only add two numbers or two strings, got number and string"},
		{"compare strings", "\n\n\"a\" < \"b\";", object.ErrTypeMismatch,
			"[line 3] Operands of '<' must be numbers, got string and string"},
		{"call non-callable", "\"abc\"();", object.ErrTypeMismatch, "[line 1] Can't call a string value"},
		{"call nil", "var f;\nf();", object.ErrTypeMismatch, "[line 2] Can't call a nil value"},
		{"undefined", "print(nope);", object.ErrUndefinedVariable, "[line 1] undefined variable 'nope'"},
		{"inside function", "fun f() {\n  return -\"x\";\n}\nf();", object.ErrTypeMismatch,
			"[line 2] Can't negate a string value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)
			var runtimeErr *object.RuntimeError
			require.True(t, errors.As(err, &runtimeErr))
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestErrorStopsExecution(t *testing.T) {
	out, env, err := run(t, "var a = 1; print(a); nope; print(2);")
	require.Error(t, err)
	assert.Equal(t, "1\n", out)

	// bindings made before the failure survive in the returned environment
	got, err := evalExpr(t, env, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", got.Inspect())
}

func TestRunKeepsBindings(t *testing.T) {
	var out bytes.Buffer
	in := New(WithOutput(&out))

	first, _ := parser.Parse("var a = 1; fun inc() { a = a + 1; }")
	env, err := in.Run(nil, first.Statements)
	require.NoError(t, err)

	second, _ := parser.Parse("inc(); print(a);")
	_, err = in.Run(env, second.Statements)
	require.NoError(t, err)
	assert.Equal(t, "2\n", out.String())
}

func TestExecuteNilEnvironment(t *testing.T) {
	var out bytes.Buffer
	program, _ := parser.Parse("print(\"hi\");")
	require.NoError(t, New(WithOutput(&out)).Execute(nil, program.Statements))
	assert.Equal(t, "hi\n", out.String())
}

func TestPrint(t *testing.T) {
	out, _, err := run(t, `
fun f() {}
print(1, "a", true, nil, 2.5);
print();
print(f, fun () {}, clock);
print(print(1));`)
	require.NoError(t, err)
	assert.Equal(t, "1 a true nil 2.5\n\n<fn f> <fn> <native fn clock>\n1\nnil\n", out)
}

func TestClock(t *testing.T) {
	fixed := time.Unix(1700000000, 500000000)
	_, env, err := run(t, "var t = clock();", WithClock(func() time.Time { return fixed }))
	require.NoError(t, err)
	got, err := env.Get("t")
	require.NoError(t, err)
	number, ok := got.(*object.Number)
	require.True(t, ok, "clock returned %T", got)
	assert.InDelta(t, 1700000000.5, number.Value, 1e-6)

	got, err = evalExpr(t, nil, "clock() > 0")
	require.NoError(t, err)
	assert.Same(t, TRUE, got)
}

func TestTypeOfAndLen(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"type_of(1)", "number"},
		{"type_of(\"s\")", "string"},
		{"type_of(nil)", "nil"},
		{"type_of(true)", "boolean"},
		{"type_of(clock)", "function"},
		{"type_of(fun () {})", "function"},
		{"len(\"hello\")", "5"},
		{"len(\"\")", "0"},
		{"len(\"héllo\")", "5"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := evalExpr(t, nil, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got.Inspect())
		})
	}

	_, err := evalExpr(t, nil, "len(1)")
	assert.ErrorIs(t, err, object.ErrTypeMismatch)
	_, err = evalExpr(t, nil, "len()")
	assert.Error(t, err)
	_, err = evalExpr(t, nil, "type_of(1, 2)")
	assert.Error(t, err)
}
