package scaffold

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"time"

	"eojs/internal/diag"
	"eojs/internal/project"
)

// ErrTargetExists is returned by NewApp when the destination exists.
var ErrTargetExists = diag.New(diag.PreconditionFailed, "target directory already exists")

// AppSpec describes one `eojs new` run.
type AppSpec struct {
	Name        string
	DatabaseURL string
	Dest        string
	Jobs        int
}

// FilesItem is the progress item of the tree copy.
const FilesItem = "application files"

// NewApp writes the application tree and its manifest into spec.Dest,
// which must not exist yet.
func NewApp(ctx context.Context, fsys fs.FS, spec AppSpec, sink ProgressSink) ([]WriteResult, error) {
	if _, err := os.Stat(spec.Dest); err == nil {
		return nil, ErrTargetExists.At(spec.Dest)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	start := time.Now()
	emit(sink, Event{Item: FilesItem, Stage: StageFiles, Status: StatusWorking})
	results, err := writeApp(ctx, fsys, spec)
	if err != nil {
		emit(sink, Event{Item: FilesItem, Stage: StageFiles, Status: StatusError, Err: err, Elapsed: time.Since(start)})
		return nil, err
	}
	emit(sink, Event{Item: FilesItem, Stage: StageFiles, Status: StatusDone, Elapsed: time.Since(start)})
	return results, nil
}

func writeApp(ctx context.Context, fsys fs.FS, spec AppSpec) ([]WriteResult, error) {
	files, err := RenderTree(fsys, "app", Data{Vars: map[string]string{
		"APP_NAME":     spec.Name,
		"DATABASE_URL": spec.DatabaseURL,
	}})
	if err != nil {
		return nil, err
	}
	manifest, err := project.Encode(project.DefaultConfig(spec.Name))
	if err != nil {
		return nil, err
	}
	files = append(files, File{Path: project.ManifestName, Data: manifest})
	if err := os.MkdirAll(spec.Dest, 0o755); err != nil {
		return nil, err
	}
	return WriteFiles(ctx, spec.Dest, files, WriteOptions{Jobs: spec.Jobs})
}
