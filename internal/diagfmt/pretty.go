// Package diagfmt renders diagnostics for the terminal, with the offending
// source line underlined when the text is known.
package diagfmt

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"eojs/internal/diag"
	"eojs/internal/source"
)

// Source returns the text of the file at path as the diagnostic saw it.
type Source func(path string) (string, bool)

// Located attaches the text a diagnostic's span points into.
type Located struct {
	Diag *diag.Diagnostic
	Text string
}

func (e *Located) Error() string { return e.Diag.Error() }

func (e *Located) Unwrap() error { return e.Diag }

// WithSource attaches text to err when it carries a diagnostic with a span.
// The diagnostic is attributed to path unless it already names a file.
func WithSource(err error, path, text string) (*Located, bool) {
	var d *diag.Diagnostic
	if !errors.As(err, &d) || d.Primary == diag.NoSpan {
		return nil, false
	}
	if d.Path == "" {
		d = d.At(path)
	}
	return &Located{Diag: d, Text: text}, true
}

// Pretty prints every diagnostic of bag. Call bag.Sort() first for a stable
// order.
func Pretty(w io.Writer, bag *diag.Bag, src Source, opts PrettyOpts) {
	for _, d := range bag.Items() {
		text, ok := "", false
		if src != nil && d.Path != "" {
			text, ok = src(d.Path)
		}
		if ok && d.Primary != diag.NoSpan {
			One(w, &d, text, opts)
		} else {
			header(w, &d, nil, opts)
		}
	}
}

// One prints d with the lines of text around its span.
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//	  12 |   editor: { permissions: 'all' },
//	     |   ^~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
func One(w io.Writer, d *diag.Diagnostic, text string, opts PrettyOpts) {
	doc := source.NewDocument(d.Path, []byte(text))
	start := min(int(d.Primary.Start), len(text))
	pos := doc.Position(start)
	header(w, d, &pos, opts)

	line := int(pos.Line)
	first := max(line-opts.Context, 1)
	gutter := len(fmt.Sprint(line))
	dim := painter(opts.Color, color.Faint)
	for n := first; n <= line; n++ {
		fmt.Fprintf(w, "%s %s\n", dim.Sprintf("%*d |", gutter+2, n), doc.Line(n))
	}

	lineText := doc.Line(line)
	col := int(pos.Col) - 1
	width := int(d.Primary.End) - start
	if width < 1 {
		width = 1
	}
	if col+width > len(lineText) {
		width = max(len(lineText)-col, 1)
	}
	// keep tabs so the marker lines up with the source
	pad := []byte(lineText[:min(col, len(lineText))])
	for i, c := range pad {
		if c != '\t' {
			pad[i] = ' '
		}
	}
	marker := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, "%s %s%s\n", dim.Sprintf("%*s |", gutter+2, ""), pad, severityColor(d.Severity, opts.Color).Sprint(marker))
}

func header(w io.Writer, d *diag.Diagnostic, pos *source.LineCol, opts PrettyOpts) {
	loc := d.Path
	if pos != nil {
		loc = fmt.Sprintf("%s:%d:%d", d.Path, pos.Line, pos.Col)
	}
	msg := d.Message
	if msg == "" {
		msg = d.Code.Title()
	}
	sev := severityColor(d.Severity, opts.Color).Sprintf("%s %s", d.Severity, d.Code.ID())
	if loc == "" {
		fmt.Fprintf(w, "%s: %s\n", sev, msg)
		return
	}
	fmt.Fprintf(w, "%s: %s: %s\n", loc, sev, msg)
}

func severityColor(sev diag.Severity, enabled bool) *color.Color {
	switch sev {
	case diag.SevError:
		return painter(enabled, color.FgRed, color.Bold)
	case diag.SevWarning:
		return painter(enabled, color.FgYellow, color.Bold)
	default:
		return painter(enabled, color.FgCyan)
	}
}

func painter(enabled bool, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}
