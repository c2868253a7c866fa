package scaffold

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Dependencies are installed into every new application.
var Dependencies = []string{
	"express", "mongoose", "passport", "passport-jwt", "winston",
	"swagger-jsdoc", "swagger-ui-express", "dotenv", "bcrypt", "jsonwebtoken",
}

// DevDependencies are installed with --save-dev.
var DevDependencies = []string{"nodemon"}

// Step is one package manager invocation.
type Step struct {
	Name string
	Args []string
}

// Label is the command line shown to the user.
func (s Step) Label() string {
	return strings.Join(append([]string{s.Name}, s.Args...), " ")
}

// InstallSteps returns the npm steps run after the tree is written.
func InstallSteps() []Step {
	return []Step{
		{Name: "npm", Args: []string{"init", "-y"}},
		{Name: "npm", Args: append([]string{"install"}, Dependencies...)},
		{Name: "npm", Args: append([]string{"install", "--save-dev"}, DevDependencies...)},
	}
}

// Runner executes a command in dir.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	// #nosec G204 -- fixed npm invocations
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.Bytes(), err
}

// Install runs steps in order, stopping at the first failure. The failing
// step's output is included in the error.
func Install(ctx context.Context, dir string, steps []Step, runner Runner, sink ProgressSink) error {
	if runner == nil {
		runner = ExecRunner{}
	}
	for _, s := range steps {
		emit(sink, Event{Item: s.Label(), Stage: StageInstall, Status: StatusQueued})
	}
	for i, s := range steps {
		start := time.Now()
		emit(sink, Event{Item: s.Label(), Stage: StageInstall, Status: StatusWorking})
		out, err := runner.Run(ctx, dir, s.Name, s.Args...)
		if err != nil {
			err = fmt.Errorf("%s: %w\n%s", s.Label(), err, strings.TrimSpace(string(out)))
			emit(sink, Event{Item: s.Label(), Stage: StageInstall, Status: StatusError, Err: err, Elapsed: time.Since(start)})
			for _, rest := range steps[i+1:] {
				emit(sink, Event{Item: rest.Label(), Stage: StageInstall, Status: StatusSkipped})
			}
			return err
		}
		emit(sink, Event{Item: s.Label(), Stage: StageInstall, Status: StatusDone, Elapsed: time.Since(start)})
	}
	return nil
}
