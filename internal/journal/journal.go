// Package journal keeps msgpack snapshots of files taken before a command
// edits them, so `eojs undo` can put them back.
package journal

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/vmihailenco/msgpack/v5"

	"eojs/internal/diag"
)

// bump when the Entry layout changes; older entries are ignored
const schemaVersion uint16 = 1

const ext = ".mp"

// ErrNoSnapshot is returned when there is nothing to restore.
var ErrNoSnapshot = diag.New(diag.NoSnapshot, "nothing to undo")

// Entry is one pre-edit snapshot.
type Entry struct {
	Schema uint16
	ID     string
	// Batch groups the entries recorded by one command.
	Batch   string
	Command string
	// Path is relative to the journal root, slash separated.
	Path    string
	Time    time.Time
	Existed bool
	Mode    uint32
	Content []byte
	Hash    [32]byte
}

// Journal stores entries for the files below root. Safe for concurrent use.
type Journal struct {
	mu   sync.Mutex
	root string
	dir  string
}

// Dir is the journal directory of an application root.
func Dir(root string) string {
	return filepath.Join(root, ".eojs", "journal")
}

// Open returns the journal of root, creating its directory.
func Open(root string) (*Journal, error) {
	dir := Dir(root)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Journal{root: root, dir: dir}, nil
}

// Batch records the snapshots of one command.
type Batch struct {
	j       *Journal
	id      string
	command string
	seen    map[string]bool
}

// Begin starts a batch for command.
func (j *Journal) Begin(command string) *Batch {
	return &Batch{j: j, id: ulid.Make().String(), command: command, seen: map[string]bool{}}
}

// ID is the batch id.
func (b *Batch) ID() string { return b.id }

// Record snapshots path unless this batch already did. A file that does not
// exist yet is recorded too; restoring it removes the file.
func (b *Batch) Record(path string) error {
	if b == nil {
		return nil
	}
	rel, err := b.j.rel(path)
	if err != nil {
		return err
	}
	if b.seen[rel] {
		return nil
	}
	e := &Entry{
		Schema:  schemaVersion,
		ID:      ulid.Make().String(),
		Batch:   b.id,
		Command: b.command,
		Path:    rel,
		Time:    time.Now().UTC(),
	}
	full := b.j.abs(rel)
	content, err := os.ReadFile(full)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return err
	default:
		info, err := os.Stat(full)
		if err != nil {
			return err
		}
		e.Existed = true
		e.Mode = uint32(info.Mode().Perm())
		e.Content = content
		e.Hash = sha256.Sum256(content)
	}
	if err := b.j.put(e); err != nil {
		return err
	}
	b.seen[rel] = true
	return nil
}

func (j *Journal) rel(path string) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(j.root, path)
	}
	rel, err := filepath.Rel(j.root, path)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("%s is outside %s", path, j.root)
	}
	return rel, nil
}

func (j *Journal) abs(rel string) string {
	return filepath.Join(j.root, filepath.FromSlash(rel))
}

func (j *Journal) put(e *Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	f, err := os.CreateTemp(j.dir, "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(f.Name())
	}()
	if err := msgpack.NewEncoder(f).Encode(e); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), filepath.Join(j.dir, e.ID+ext))
}

// Entries returns every readable entry, oldest first.
func (j *Journal) Entries() ([]*Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	des, err := os.ReadDir(j.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var out []*Entry
	for _, de := range des {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ext) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(j.dir, de.Name()))
		if err != nil {
			return nil, err
		}
		var e Entry
		if err := msgpack.NewDecoder(bytes.NewReader(data)).Decode(&e); err != nil || e.Schema != schemaVersion {
			continue
		}
		out = append(out, &e)
	}
	// ulids sort by creation time
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, nil
}

// Latest returns the entries to restore: the newest entry for path, or the
// whole newest batch when path is empty.
func (j *Journal) Latest(path string) ([]*Entry, error) {
	entries, err := j.Entries()
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNoSnapshot
	}
	if path != "" {
		rel, err := j.rel(path)
		if err != nil {
			return nil, err
		}
		for i := len(entries) - 1; i >= 0; i-- {
			if entries[i].Path == rel {
				return entries[i : i+1], nil
			}
		}
		return nil, ErrNoSnapshot.Wrap(diag.NoSpan, "no snapshot of %s", rel)
	}
	batch := entries[len(entries)-1].Batch
	var out []*Entry
	for _, e := range entries {
		if e.Batch == batch {
			out = append(out, e)
		}
	}
	return out, nil
}

// Restore writes the snapshots back and drops them from the journal.
func (j *Journal) Restore(entries ...*Entry) error {
	for _, e := range entries {
		full := j.abs(e.Path)
		if e.Existed {
			mode := fs.FileMode(e.Mode)
			if mode == 0 {
				mode = 0o644
			}
			if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(full, e.Content, mode); err != nil {
				return fmt.Errorf("restore %s: %w", e.Path, err)
			}
		} else if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("restore %s: %w", e.Path, err)
		}
		if err := j.drop(e); err != nil {
			return err
		}
	}
	return nil
}

// Undo restores Latest(path) and returns what was restored.
func (j *Journal) Undo(path string) ([]*Entry, error) {
	entries, err := j.Latest(path)
	if err != nil {
		return nil, err
	}
	return entries, j.Restore(entries...)
}

// Prune keeps the newest keep batches.
func (j *Journal) Prune(keep int) error {
	entries, err := j.Entries()
	if err != nil {
		return err
	}
	batches := map[string]bool{}
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if !batches[e.Batch] && len(batches) >= keep {
			if err := j.drop(e); err != nil {
				return err
			}
			continue
		}
		batches[e.Batch] = true
	}
	return nil
}

func (j *Journal) drop(e *Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	err := os.Remove(filepath.Join(j.dir, e.ID+ext))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
