package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"eojs/internal/naming"
	"eojs/internal/scaffold"
	"eojs/templates"
)

// installRunner runs the npm steps; tests replace it.
var installRunner scaffold.Runner = scaffold.ExecRunner{}

var newCmd = &cobra.Command{
	Use:   "new <app-name>",
	Short: "Create a new Express application",
	Long: `Create a new Express application in ./<app-name> with configuration,
authentication, role based access control and API docs wired up, then install
its npm dependencies.`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

func init() {
	newCmd.Flags().String("database", "", "MongoDB connection URL (default mongodb://localhost:27017/<app-name>)")
	newCmd.Flags().Bool("skip-install", false, "do not run npm")
	newCmd.Flags().Int("jobs", 0, "max parallel file writes (0=auto)")
}

func runNew(cmd *cobra.Command, args []string) error {
	name := args[0]
	if err := naming.Validate(name); err != nil {
		return err
	}
	dir, err := workDir(cmd)
	if err != nil {
		return err
	}
	database, _ := cmd.Flags().GetString("database")
	skipInstall, _ := cmd.Flags().GetBool("skip-install")
	jobs, _ := cmd.Flags().GetInt("jobs")
	if database == "" {
		database = fmt.Sprintf("mongodb://localhost:27017/%s", naming.Kebab(name))
	}

	spec := scaffold.AppSpec{
		Name:        name,
		DatabaseURL: database,
		Dest:        filepath.Join(dir, name),
		Jobs:        jobs,
	}
	steps := scaffold.InstallSteps()
	if skipInstall {
		steps = nil
	}
	logger.Debug("creating application", zap.String("dest", spec.Dest), zap.Int("install_steps", len(steps)))

	job := func(ctx context.Context, sink scaffold.ProgressSink) ([]scaffold.WriteResult, error) {
		stop := timer.Track("write files")
		results, err := scaffold.NewApp(ctx, templates.FS(), spec, sink)
		stop(fmt.Sprintf("%d files", len(results)))
		if err != nil {
			return nil, err
		}
		if len(steps) > 0 {
			defer timer.Track("npm")("")
			if err := scaffold.Install(ctx, spec.Dest, steps, installRunner, sink); err != nil {
				return results, fmt.Errorf("application created but npm failed: %w", err)
			}
		}
		return results, nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	var results []scaffold.WriteResult
	if shouldUseTUI(cmd) {
		items := []string{scaffold.FilesItem}
		for _, s := range steps {
			items = append(items, s.Label())
		}
		results, err = runNewWithUI(ctx, name, items, job)
	} else {
		results, err = job(ctx, lineSink(cmd))
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !isQuiet(cmd) {
		fmt.Fprintf(out, "%s %s (%d files)\n", successColor.Sprint("Created"), name, len(results))
		fmt.Fprintln(out, "\nNext steps:")
		fmt.Fprintf(out, "  cd %s\n", name)
		if skipInstall {
			fmt.Fprintln(out, "  npm install")
		}
		fmt.Fprintln(out, "  npm run dev")
	}
	return nil
}

// lineSink prints finished steps as plain lines.
func lineSink(cmd *cobra.Command) scaffold.ProgressSink {
	if isQuiet(cmd) {
		return nil
	}
	out := cmd.OutOrStdout()
	return scaffold.FuncSink(func(ev scaffold.Event) {
		switch ev.Status {
		case scaffold.StatusWorking:
			if ev.Stage == scaffold.StageInstall {
				fmt.Fprintf(out, "%s %s\n", infoColor.Sprint("running"), ev.Item)
			}
		case scaffold.StatusDone:
			fmt.Fprintf(out, "%s %s %s\n", successColor.Sprint("done"), ev.Item, dimColor.Sprint(ev.Elapsed.Round(time.Millisecond)))
		case scaffold.StatusSkipped:
			fmt.Fprintf(out, "%s %s\n", dimColor.Sprint("skipped"), ev.Item)
		}
	})
}
