package main

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"eojs/internal/journal"
)

var undoCmd = &cobra.Command{
	Use:   "undo [file]",
	Short: "Restore files changed by the last command",
	Long: `Restore every file changed by the most recent eojs command, or only the
most recent snapshot of [file]. Files the command created are removed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUndo,
}

func runUndo(cmd *cobra.Command, args []string) error {
	proj, err := loadProject(cmd)
	if err != nil {
		return err
	}
	j, err := journal.Open(proj.Root)
	if err != nil {
		return err
	}
	var target string
	if len(args) == 1 {
		target = args[0]
		if !filepath.IsAbs(target) {
			wd, err := workDir(cmd)
			if err != nil {
				return err
			}
			target = filepath.Join(wd, target)
		}
	}
	entries, err := j.Undo(target)
	if err != nil {
		return err
	}
	for _, e := range entries {
		logger.Debug("snapshot restored",
			zap.String("path", e.Path),
			zap.String("command", e.Command),
			zap.Time("taken", e.Time))
		if isQuiet(cmd) {
			continue
		}
		status := "restored"
		if !e.Existed {
			status = "removed"
		}
		printStatus(cmd.OutOrStdout(), status, e.Path)
	}
	return nil
}
