package scaffold

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"eojs/internal/diag"
)

// ErrFileConflict is returned when a generated file would replace a file
// with different content and overwriting was not requested.
var ErrFileConflict = diag.New(diag.FileConflict, "file already exists with different content")

// File is one rendered output, Path relative to the destination root and
// slash separated.
type File struct {
	Path string
	Data []byte
}

// WriteStatus says what happened to a file.
type WriteStatus uint8

const (
	Created WriteStatus = iota
	Unchanged
	Overwritten
)

func (s WriteStatus) String() string {
	switch s {
	case Created:
		return "created"
	case Unchanged:
		return "unchanged"
	case Overwritten:
		return "overwritten"
	}
	return "unknown"
}

// WriteResult reports the outcome for one file.
type WriteResult struct {
	Path   string
	Status WriteStatus
}

// WriteOptions tunes WriteFiles.
type WriteOptions struct {
	// Force overwrites files whose content differs.
	Force bool
	// Jobs bounds parallel writes; <= 0 means GOMAXPROCS.
	Jobs int
}

// RenderTree renders every file below root in fsys. Output paths are
// relative to root.
func RenderTree(fsys fs.FS, root string, data Data) ([]File, error) {
	var files []File
	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		out, err := RenderFile(fsys, p, data)
		if err != nil {
			return err
		}
		rel := p
		if root != "." {
			rel = p[len(root)+1:]
		}
		files = append(files, File{Path: rel, Data: out})
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrTemplateMissing.At(root).Wrap(diag.NoSpan, "%v", err)
		}
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// Plan reports what WriteFiles would do with files without writing any.
// It fails on the first conflict unless opts.Force is set.
func Plan(dest string, files []File, opts WriteOptions) ([]WriteResult, error) {
	results := make([]WriteResult, len(files))
	for i, f := range files {
		if !fs.ValidPath(f.Path) {
			return nil, fmt.Errorf("invalid output path %q", f.Path)
		}
		results[i].Path = f.Path
		existing, err := os.ReadFile(filepath.Join(dest, filepath.FromSlash(f.Path)))
		switch {
		case errors.Is(err, fs.ErrNotExist):
			results[i].Status = Created
		case err != nil:
			return nil, err
		case bytes.Equal(existing, f.Data):
			results[i].Status = Unchanged
		case !opts.Force:
			return nil, ErrFileConflict.At(f.Path).Wrap(diag.NoSpan, "use --force to overwrite")
		default:
			results[i].Status = Overwritten
		}
	}
	return results, nil
}

// WriteFiles writes files below dest. Conflicts are checked for every file
// before anything is written, so a conflict leaves the tree untouched.
func WriteFiles(ctx context.Context, dest string, files []File, opts WriteOptions) ([]WriteResult, error) {
	results, err := Plan(dest, files, opts)
	if err != nil {
		return nil, err
	}
	pending := make([]int, 0, len(files))
	for i, r := range results {
		if r.Status != Unchanged {
			pending = append(pending, i)
		}
	}
	if len(pending) == 0 {
		return results, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(pending)))
	for _, i := range pending {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			return writeAtomic(filepath.Join(dest, filepath.FromSlash(files[i].Path)), files[i].Data)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// writeAtomic writes data through a temp file in the target directory and
// renames it into place.
func writeAtomic(target string, data []byte) error {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".eojs-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		_ = os.Remove(tmp) // no-op after a successful rename
	}()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", target, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, target)
}

// Join prefixes the paths of files with dir.
func Join(dir string, files ...File) []File {
	out := make([]File, len(files))
	for i, f := range files {
		out[i] = File{Path: path.Join(dir, f.Path), Data: f.Data}
	}
	return out
}
