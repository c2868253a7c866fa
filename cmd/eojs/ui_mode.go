package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// uiMode selects the bubbletea progress view for `new`.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

// shouldUseTUI resolves auto against stdout; quiet runs never get the view.
func shouldUseTUI(cmd *cobra.Command) bool {
	if isQuiet(cmd) {
		return false
	}
	mode := uiModeOf(cmd)
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return isTerminal(os.Stdout)
	}
}

// uiModeOf reads --ui, treating a bad value as off. setupRun has already
// rejected bad values for real runs.
func uiModeOf(cmd *cobra.Command) uiMode {
	value, _ := cmd.Root().PersistentFlags().GetString("ui")
	mode, err := readUIMode(value)
	if err != nil {
		return uiModeOff
	}
	return mode
}
