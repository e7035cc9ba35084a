package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/blazskufca/lox_in_go/ast"
	"github.com/blazskufca/lox_in_go/evaluator"
	"github.com/blazskufca/lox_in_go/lexer"
	"github.com/blazskufca/lox_in_go/object"
	"github.com/blazskufca/lox_in_go/parser"
)

const PROMPT = ">> "

// Mode selects what the REPL does with every line it reads.
type Mode int

const (
	ModeEval  Mode = iota // ModeEval executes the input
	ModeLex               // ModeLex prints the tokens of the input
	ModeParse             // ModeParse prints the parsed statements of the input
)

// Options configure a REPL session.
type Options struct {
	Mode        Mode
	Prompt      string // Prompt defaults to PROMPT
	Color       bool
	HistoryFile string // HistoryFile is only used by StartInteractive, empty disables history
	Logger      *slog.Logger
	// Interpreter is applied after the session routed print() output to the session writer.
	Interpreter []evaluator.Option
}

// Session is the state shared by all inputs of one REPL run: one interpreter and the environment its bindings live in.
type Session struct {
	out         io.Writer
	mode        Mode
	logger      *slog.Logger
	interpreter *evaluator.Interpreter
	env         *object.Environment

	errorColor *color.Color
	valueColor *color.Color
}

// NewSession creates a Session writing to out.
func NewSession(out io.Writer, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	interpreterOpts := append([]evaluator.Option{evaluator.WithOutput(out), evaluator.WithLogger(logger)}, opts.Interpreter...)
	interpreter := evaluator.New(interpreterOpts...)

	s := &Session{
		out:         out,
		mode:        opts.Mode,
		logger:      logger,
		interpreter: interpreter,
		env:         interpreter.NewGlobalEnvironment(),
		errorColor:  color.New(color.FgRed),
		valueColor:  color.New(color.FgCyan),
	}
	if opts.Color {
		s.errorColor.EnableColor()
		s.valueColor.EnableColor()
	} else {
		s.errorColor.DisableColor()
		s.valueColor.DisableColor()
	}
	return s
}

// Environment returns the environment the next input will run in.
func (s *Session) Environment() *object.Environment {
	return s.env
}

// Handle processes one input and reports whether the session should continue.
func (s *Session) Handle(input string) bool {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return true
	}
	if strings.HasPrefix(trimmed, ":") {
		return s.command(trimmed)
	}

	switch s.mode {
	case ModeLex:
		for _, tok := range lexer.Tokenize(input) {
			s.println(tok.String())
		}
	case ModeParse:
		program, errs := parser.Parse(input)
		if len(errs) != 0 {
			s.printParserErrors(errs)
			return true
		}
		for _, statement := range program.Statements {
			s.println(statement.String())
		}
	default:
		s.eval(input)
	}
	return true
}

// eval evaluates input for its value when it is a single expression and executes it as a program otherwise.
func (s *Session) eval(input string) {
	p := parser.NewParser(lexer.NewLexer(input))
	if expression := p.ParseExpression(); expression != nil && len(p.Errors()) == 0 {
		value, err := s.interpreter.EvaluateExpression(s.env, expression)
		if err != nil {
			s.printRuntimeError(err)
			return
		}
		// print(...) already wrote its output, its nil result is noise
		if _, isCall := expression.(*ast.CallExpression); isCall && value == evaluator.NULL {
			return
		}
		s.println(s.valueColor.Sprint(value.Inspect()))
		return
	}

	program, errs := parser.Parse(input)
	if len(errs) != 0 {
		s.printParserErrors(errs)
		return
	}
	env, err := s.interpreter.Run(s.env, program.Statements)
	// bindings made before a failure are kept
	s.env = env
	if err != nil {
		s.printRuntimeError(err)
	}
}

func (s *Session) command(cmd string) bool {
	switch strings.ToLower(cmd) {
	case ":quit", ":q", ":exit":
		return false
	case ":env":
		s.printEnvironment()
	case ":help":
		s.println(":env   list the bindings visible to the next input")
		s.println(":quit  leave the REPL")
	default:
		s.println(fmt.Sprintf("unknown command %s. Type :help for the list of commands.", cmd))
	}
	return true
}

// printEnvironment lists every visible binding, innermost first. Shadowed bindings are skipped.
func (s *Session) printEnvironment() {
	seen := make(map[string]bool)
	for env := s.env; env != nil; env = env.Outer() {
		for _, name := range env.Names() {
			if seen[name] {
				continue
			}
			seen[name] = true
			value, err := env.Get(name)
			if err != nil {
				continue
			}
			s.println(fmt.Sprintf("%s = %s", name, value.Inspect()))
		}
	}
}

func (s *Session) println(line string) {
	if _, err := io.WriteString(s.out, line+"\n"); err != nil {
		s.logger.Error("failed to write to output", "error", err)
	}
}

func (s *Session) printParserErrors(errs []string) {
	s.println(s.errorColor.Sprint("Woops! The input does not parse:"))
	for _, msg := range errs {
		s.println(s.errorColor.Sprint("\t" + msg))
	}
}

func (s *Session) printRuntimeError(err error) {
	if errors.Is(err, object.ErrStackOverflow) {
		s.logger.Warn("call depth limit reached", "error", err)
	}
	s.println(s.errorColor.Sprint("runtime error: " + err.Error()))
}

// Start creates a new bufio.Scanner which reads lines from in and hands each of them to a Session writing to out.
// It returns when in is exhausted or a :quit command is read.
func Start(in io.Reader, out io.Writer, opts Options) {
	session := NewSession(out, opts)
	prompt := opts.Prompt
	if prompt == "" {
		prompt = PROMPT
	}
	scanner := bufio.NewScanner(in)
	for {
		if _, err := fmt.Fprint(out, prompt); err != nil {
			session.logger.Error("failed to write to output", "error", err)
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				session.logger.Error("failed to read input", "error", err)
			}
			return
		}
		if !session.Handle(scanner.Text()) {
			return
		}
	}
}

// StartInteractive runs a Session on the terminal with line editing. History is read from and written back to
// opts.HistoryFile when it is set.
func StartInteractive(out io.Writer, opts Options) error {
	session := NewSession(out, opts)
	prompt := opts.Prompt
	if prompt == "" {
		prompt = PROMPT
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if opts.HistoryFile != "" {
		if f, err := os.Open(opts.HistoryFile); err == nil {
			if _, err := ln.ReadHistory(f); err != nil {
				session.logger.Debug("failed to read history", "file", opts.HistoryFile, "error", err)
			}
			_ = f.Close()
		}
		defer func() {
			f, err := os.Create(opts.HistoryFile)
			if err != nil {
				session.logger.Warn("failed to save history", "file", opts.HistoryFile, "error", err)
				return
			}
			defer f.Close()
			if _, err := ln.WriteHistory(f); err != nil {
				session.logger.Warn("failed to save history", "file", opts.HistoryFile, "error", err)
			}
		}()
	}

	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			_, _ = fmt.Fprintln(out)
			return nil
		}
		if err != nil {
			return fmt.Errorf("repl: read input: %w", err)
		}
		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}
		if !session.Handle(line) {
			return nil
		}
	}
}
