package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/blazskufca/lox_in_go/config"
	"github.com/blazskufca/lox_in_go/repl"
)

// Persistent flags. Zero values mean "not given", the configuration decides.
var (
	cfgFile      string
	logLevel     string
	noColor      bool
	maxCallDepth int
)

// cfg and logger are resolved once per invocation, before any command runs.
var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "lox",
	Short: "lox is a tree-walking interpreter for the Lox language",
	Long: `lox runs Lox programs from files or interactively.

Without a subcommand it starts the REPL.`,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runREPL(cmd, repl.ModeEval)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a YAML config file (default: ./lox.yaml when present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "DEBUG, INFO, WARN, ERROR or OFF (default: LOX_LOG_LEVEL or WARN)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().IntVar(&maxCallDepth, "max-call-depth", 0, "maximum depth of nested function calls (default: LOX_MAX_CALL_DEPTH or 1000)")
}

// AddCommand allows adding subcommands from other files.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// setup loads the configuration, applies the command line flags on top of it and installs the logger.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		loaded.LogLevel = logLevel
	}
	if noColor {
		loaded.Color = false
	}
	if maxCallDepth != 0 {
		loaded.MaxCallDepth = maxCallDepth
	}
	if err := loaded.Validate(); err != nil {
		return err
	}

	l, err := loaded.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	slog.SetDefault(l)
	cfg, logger = loaded, l
	logger.Debug("configuration loaded", "config", cfgFile, "log_level", cfg.LogLevel, "max_call_depth", cfg.MaxCallDepth)
	return nil
}
