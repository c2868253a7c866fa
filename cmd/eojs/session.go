package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"eojs/internal/diagfmt"
	"eojs/internal/journal"
	"eojs/internal/project"
	"eojs/internal/scaffold"
	"eojs/internal/source"
)

// journalKeep is how many commands `eojs undo` can step back through.
const journalKeep = 20

// editStep transforms a document's text; changed is false when the step was
// a no-op.
type editStep func(text string) (out string, changed bool, err error)

// session groups the writes of one command under one journal batch.
type session struct {
	cmd   *cobra.Command
	proj  *project.Project
	jrn   *journal.Journal
	batch *journal.Batch
}

func openSession(cmd *cobra.Command, proj *project.Project) (*session, error) {
	j, err := journal.Open(proj.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	return &session{cmd: cmd, proj: proj, jrn: j, batch: j.Begin(cmd.CommandPath())}, nil
}

func loadProject(cmd *cobra.Command) (*project.Project, error) {
	dir, err := workDir(cmd)
	if err != nil {
		return nil, err
	}
	stop := timer.Track("load project")
	proj, err := project.Load(dir)
	stop("")
	if err != nil {
		return nil, err
	}
	logger.Debug("project loaded",
		zap.String("root", proj.Root),
		zap.String("manifest", proj.Manifest),
		zap.String("entry", proj.Config.App.Entry))
	return proj, nil
}

// pendingEdit is a document whose new text is computed but not yet saved.
type pendingEdit struct {
	doc *source.Document
	rel string
}

// prepare loads path and runs steps over it. Nothing is written.
func (s *session) prepare(path string, missing error, steps ...editStep) (*pendingEdit, error) {
	rel := s.proj.Rel(path)
	stop := timer.Track("edit " + rel)
	defer stop("")
	doc, err := source.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && missing != nil {
			return nil, missing
		}
		return nil, err
	}
	text := doc.Text
	for _, step := range steps {
		out, changed, err := step(text)
		if err != nil {
			if located, ok := diagfmt.WithSource(err, rel, text); ok {
				return nil, located
			}
			return nil, fmt.Errorf("%s: %w", rel, err)
		}
		if changed {
			text = out
		}
	}
	doc.Apply(text)
	return &pendingEdit{doc: doc, rel: rel}, nil
}

// commit journals and saves p when its text changed.
func (s *session) commit(p *pendingEdit) error {
	if !p.doc.Changed() {
		logger.Debug("file unchanged", zap.String("path", p.rel))
		s.report("unchanged", p.rel)
		return nil
	}
	if err := s.batch.Record(p.doc.Path); err != nil {
		return fmt.Errorf("failed to journal %s: %w", p.rel, err)
	}
	if err := p.doc.Save(); err != nil {
		return err
	}
	logger.Debug("file updated", zap.String("path", p.rel))
	s.report("updated", p.rel)
	return nil
}

// edit is prepare followed by commit.
func (s *session) edit(path string, missing error, steps ...editStep) error {
	p, err := s.prepare(path, missing, steps...)
	if err != nil {
		return err
	}
	return s.commit(p)
}

// write journals and writes generated files below the project root.
func (s *session) write(ctx context.Context, files []scaffold.File, force bool) error {
	defer timer.Track("write files")("")
	opts := scaffold.WriteOptions{Force: force}
	plan, err := scaffold.Plan(s.proj.Root, files, opts)
	if err != nil {
		return err
	}
	for _, r := range plan {
		if r.Status == scaffold.Unchanged {
			continue
		}
		if err := s.batch.Record(s.proj.Path(r.Path)); err != nil {
			return fmt.Errorf("failed to journal %s: %w", r.Path, err)
		}
	}
	results, err := scaffold.WriteFiles(ctx, s.proj.Root, files, opts)
	if err != nil {
		return err
	}
	for _, r := range results {
		logger.Debug("file written", zap.String("path", r.Path), zap.Stringer("status", r.Status))
	}
	printWriteResults(s.cmd, results)
	return nil
}

func (s *session) report(status, rel string) {
	if isQuiet(s.cmd) {
		return
	}
	printStatus(s.cmd.OutOrStdout(), status, rel)
}

// close trims old journal batches.
func (s *session) close() {
	if err := s.jrn.Prune(journalKeep); err != nil {
		logger.Warn("failed to prune journal", zap.Error(err))
	}
}
