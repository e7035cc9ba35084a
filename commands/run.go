package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blazskufca/lox_in_go/evaluator"
	"github.com/blazskufca/lox_in_go/parser"
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Runs a Lox program",
	Long: `The run command parses the whole file and, when it parses cleanly, executes it.
Use "-" to read the program from standard input.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := readSource(cmd, args[0])
		if err != nil {
			return err
		}
		return runSource(cmd.OutOrStdout(), args[0], source)
	},
}

func init() {
	AddCommand(runCmd)
}

func readSource(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func runSource(out io.Writer, name, source string) error {
	program, errs := parser.Parse(source)
	if len(errs) != 0 {
		return fmt.Errorf("%s: %d parser error(s):\n\t%s", name, len(errs), strings.Join(errs, "\n\t"))
	}
	logger.Debug("parsed program", "file", name, "statements", len(program.Statements))

	opts := append([]evaluator.Option{evaluator.WithOutput(out)}, cfg.InterpreterOptions(logger)...)
	if err := evaluator.New(opts...).Execute(nil, program.Statements); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
