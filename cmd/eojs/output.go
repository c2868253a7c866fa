package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"eojs/internal/diag"
	"eojs/internal/diagfmt"
	"eojs/internal/scaffold"
)

var (
	successColor = color.New(color.FgGreen)
	infoColor    = color.New(color.FgCyan)
	warnColor    = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	dimColor     = color.New(color.Faint)
)

func applyColorMode(mode string) error {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		// fatih/color already honours NO_COLOR and non-tty stdout
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
	return nil
}

func isQuiet(cmd *cobra.Command) bool {
	q, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	return q
}

// printError prints err in red, or in yellow when it is a warning diagnostic.
// Diagnostics that carry their source text are shown with the offending line.
func printError(w io.Writer, err error) {
	var located *diagfmt.Located
	if errors.As(err, &located) {
		diagfmt.One(w, located.Diag, located.Text, diagfmt.PrettyOpts{Color: !color.NoColor, Context: 1})
		return
	}
	var d *diag.Diagnostic
	if errors.As(err, &d) && d.Severity < diag.SevError {
		fmt.Fprintf(w, "%s %v\n", warnColor.Sprint(d.Severity.Label()+":"), err)
		return
	}
	fmt.Fprintf(w, "%s %v\n", errorColor.Sprint("error:"), err)
}

func printStatus(w io.Writer, status, path string) {
	var label string
	switch status {
	case "created", "updated":
		label = successColor.Sprintf("%10s", status)
	case "overwritten", "restored", "removed":
		label = warnColor.Sprintf("%10s", status)
	default:
		label = dimColor.Sprintf("%10s", status)
	}
	fmt.Fprintf(w, "%s  %s\n", label, path)
}

func printWriteResults(cmd *cobra.Command, results []scaffold.WriteResult) {
	if isQuiet(cmd) {
		return
	}
	for _, r := range results {
		printStatus(cmd.OutOrStdout(), r.Status.String(), r.Path)
	}
}
