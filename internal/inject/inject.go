// Package inject adds import statements and app registrations to a bootstrap
// file. Every operation is a pure text transform keyed on the inserted line:
// when an equal line is already present the text is returned unchanged, so
// running an operation twice equals running it once.
package inject

import (
	"errors"
	"strings"

	"eojs/internal/anchor"
	"eojs/internal/fix"
	"eojs/internal/source"
)

// Spec is one line to insert and the anchor that places it. Line doubles as
// the idempotence key.
type Spec struct {
	Line string
	Kind anchor.Kind
}

// Result is the outcome of one injection. Point is zero when nothing changed.
type Result struct {
	Text    string
	Changed bool
	Point   anchor.Point
}

// Injector inserts lines for one dialect.
type Injector struct {
	loc *anchor.Locator
}

// New builds an Injector for d.
func New(d anchor.Dialect) *Injector {
	return &Injector{loc: anchor.New(d)}
}

// Dialect returns the identifiers used in rendered lines.
func (in *Injector) Dialect() anchor.Dialect {
	return in.loc.Dialect()
}

// AddImport ensures `import <binding> from '<modulePath>';` is present.
// Without any import statement the line goes to the top of the document.
func (in *Injector) AddImport(text, modulePath, binding string) (Result, error) {
	if err := checkBinding(binding); err != nil {
		return Result{Text: text}, err
	}
	if err := checkPath(modulePath); err != nil {
		return Result{Text: text}, err
	}
	return in.Insert(text, Spec{Line: ImportLine(modulePath, binding), Kind: anchor.LastImport})
}

// AddMiddlewareUse ensures `app.use(<binding>);` is present, grouped with the
// other middleware registrations.
func (in *Injector) AddMiddlewareUse(text, binding string) (Result, error) {
	if err := checkBinding(binding); err != nil {
		return Result{Text: text}, err
	}
	line := UseLine(in.Dialect().App, binding)
	return in.Insert(text, Spec{Line: line, Kind: anchor.MiddlewareInsertionPoint})
}

// AddRouteMount ensures `app.use('<routePath>', <binding>);` is present after
// the existing route mounts.
func (in *Injector) AddRouteMount(text, routePath, binding string) (Result, error) {
	if err := checkBinding(binding); err != nil {
		return Result{Text: text}, err
	}
	if err := checkPath(routePath); err != nil {
		return Result{Text: text}, err
	}
	if !strings.HasPrefix(routePath, "/") {
		return Result{Text: text}, ErrInvalidPath.Wrap(source.Span{}, "route path %q must start with '/'", routePath)
	}
	line := MountLine(in.Dialect().App, routePath, binding)
	return in.Insert(text, Spec{Line: line, Kind: anchor.RouteInsertionPoint})
}

// Insert places spec.Line at the anchor of spec.Kind unless a line equal to
// it (ignoring surrounding whitespace) already exists. On error the text is
// returned unchanged.
func (in *Injector) Insert(text string, spec Spec) (Result, error) {
	if source.HasLine(text, spec.Line) {
		return Result{Text: text}, nil
	}
	pt, err := in.loc.Locate(text, spec.Kind)
	if err != nil {
		if spec.Kind != anchor.LastImport || !errors.Is(err, anchor.ErrNoImports) {
			return Result{Text: text}, err
		}
		pt = topOfDocument(text)
	}

	off, ins := render(text, pt, strings.TrimSpace(spec.Line))
	out, err := fix.Apply(text, fix.InsertText(off, ins, fix.WithTitle(spec.Kind.String())))
	if err != nil {
		return Result{Text: text}, err
	}
	return Result{Text: out, Changed: true, Point: pt}, nil
}

// topOfDocument is the insertion point for the first import: line one, or
// line two when the file starts with a shebang.
func topOfDocument(text string) anchor.Point {
	pt := anchor.Point{Placement: anchor.Before, Probe: "top-of-document"}
	if strings.HasPrefix(text, "#!") {
		pt.Offset = source.LineEnd(text, 0)
		pt.Placement = anchor.After
	}
	return pt
}

// render returns the offset and text to insert for pt.
func render(text string, pt anchor.Point, line string) (int, string) {
	nl := source.NewlineOf(text)
	line = pt.Indent + line

	switch pt.Placement {
	case anchor.Before:
		if pt.Detached {
			return pt.Offset, line + nl + nl
		}
		return pt.Offset, line + nl
	case anchor.End:
		var b strings.Builder
		if text != "" && !strings.HasSuffix(text, "\n") {
			b.WriteString(nl)
		}
		b.WriteString(line)
		b.WriteString(nl)
		return len(text), b.String()
	}

	sep := nl
	if pt.Detached {
		sep = nl + nl
	}
	off := pt.Offset
	if rest := restOfLine(text, off); isTrailingTrivia(rest) {
		// keep a trailing comment attached to the anchor statement
		return off + len(rest), sep + line
	}
	// code follows the anchor on the same line: end the inserted line too
	return off, sep + line + nl
}

func restOfLine(text string, off int) string {
	return text[off:source.LineEnd(text, off)]
}

// isTrailingTrivia reports whether rest holds only blanks and an optional
// line comment.
func isTrailingTrivia(rest string) bool {
	rest = strings.TrimLeft(rest, " \t")
	return rest == "" || strings.HasPrefix(rest, "//")
}

var defaultInjector = New(anchor.Express)

// AddImport is Injector.AddImport for the Express dialect.
func AddImport(text, modulePath, binding string) (Result, error) {
	return defaultInjector.AddImport(text, modulePath, binding)
}

// AddMiddlewareUse is Injector.AddMiddlewareUse for the Express dialect.
func AddMiddlewareUse(text, binding string) (Result, error) {
	return defaultInjector.AddMiddlewareUse(text, binding)
}

// AddRouteMount is Injector.AddRouteMount for the Express dialect.
func AddRouteMount(text, routePath, binding string) (Result, error) {
	return defaultInjector.AddRouteMount(text, routePath, binding)
}
