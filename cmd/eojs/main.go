package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"eojs/internal/logging"
	"eojs/internal/observ"
	"eojs/internal/version"
)

// logger is replaced in PersistentPreRunE; commands may log before that in tests.
var logger = zap.NewNop()

// timer is non-nil when --timings is set.
var timer *observ.Timer

var rootCmd = &cobra.Command{
	Use:   "eojs",
	Short: "Express application scaffolding",
	Long: `eojs scaffolds Express applications and wires generated modules,
middleware and roles into existing source files. Every edit is idempotent:
running a command twice leaves the files as running it once.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupRun,
	PersistentPostRun: finishRun,
}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(addMiddlewareCmd)
	rootCmd.AddCommand(addRoleCmd)
	rootCmd.AddCommand(rolesCmd)
	rootCmd.AddCommand(canCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("verbose", false, "log anchor choices and file writes")
	rootCmd.PersistentFlags().String("ui", "auto", "progress UI for new (auto|on|off)")
	rootCmd.PersistentFlags().StringP("dir", "C", "", "run as if started in this directory")
	rootCmd.PersistentFlags().Bool("timings", false, "print phase timings to stderr")
}

// main executes the root command; any error is printed and exits with status 1.
func main() {
	if err := rootCmd.Execute(); err != nil {
		var silent silentError
		if !errors.As(err, &silent) {
			printError(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func setupRun(cmd *cobra.Command, args []string) error {
	flags := cmd.Root().PersistentFlags()
	colorFlag, err := flags.GetString("color")
	if err != nil {
		return err
	}
	if err := applyColorMode(colorFlag); err != nil {
		return err
	}
	uiFlag, err := flags.GetString("ui")
	if err != nil {
		return err
	}
	if _, err := readUIMode(uiFlag); err != nil {
		return err
	}
	verbose, err := flags.GetBool("verbose")
	if err != nil {
		return err
	}
	quiet, err := flags.GetBool("quiet")
	if err != nil {
		return err
	}
	logger = logging.New(logging.Options{Verbose: verbose, Quiet: quiet, Output: cmd.ErrOrStderr()})
	timings, err := flags.GetBool("timings")
	if err != nil {
		return err
	}
	timer = nil
	if timings {
		timer = observ.NewTimer()
	}
	return nil
}

func finishRun(cmd *cobra.Command, args []string) {
	if timer != nil {
		logger.Debug("timings", timer.Fields()...)
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}
	_ = logger.Sync()
}

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func workDir(cmd *cobra.Command) (string, error) {
	dir, err := cmd.Root().PersistentFlags().GetString("dir")
	if err != nil {
		return "", err
	}
	if dir != "" {
		return filepath.Abs(dir)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return wd, nil
}
