package commands

import (
	"fmt"
	"os"
	"os/user"

	"github.com/spf13/cobra"

	"github.com/blazskufca/lox_in_go/repl"
)

var (
	lexOnly   bool
	parseOnly bool
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Starts an interactive session",
	Long: `The repl command reads input line by line. Bindings persist between lines.

By default every line is executed and the value of a lone expression is printed.
--lex prints the tokens of every line instead, --parse prints the parsed statements.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := repl.ModeEval
		switch {
		case lexOnly:
			mode = repl.ModeLex
		case parseOnly:
			mode = repl.ModeParse
		}
		return runREPL(cmd, mode)
	},
}

func init() {
	replCmd.Flags().BoolVar(&lexOnly, "lex", false, "print tokens instead of evaluating")
	replCmd.Flags().BoolVar(&parseOnly, "parse", false, "print the parsed statements instead of evaluating")
	replCmd.MarkFlagsMutuallyExclusive("lex", "parse")
	AddCommand(replCmd)
}

func runREPL(cmd *cobra.Command, mode repl.Mode) error {
	opts := repl.Options{
		Mode:        mode,
		Prompt:      cfg.Prompt,
		Color:       cfg.Color,
		HistoryFile: cfg.HistoryFile,
		Logger:      logger,
		Interpreter: cfg.InterpreterOptions(logger),
	}

	out := cmd.OutOrStdout()
	if cmd.InOrStdin() != os.Stdin || !isTerminal(os.Stdin) {
		repl.Start(cmd.InOrStdin(), out, opts)
		return nil
	}

	name := "there"
	if currUser, err := user.Current(); err == nil {
		name = currUser.Username
	}
	fmt.Fprintf(out, "Hello %s! This is the Lox programming language!\n", name)
	fmt.Fprintf(out, "Feel free to type in commands, :help lists the REPL commands\n")
	return repl.StartInteractive(out, opts)
}

// isTerminal reports whether f is a character device, i.e. not a pipe or a file.
func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
