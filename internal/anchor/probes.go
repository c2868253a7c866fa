package anchor

import (
	"eojs/internal/scan"
	"eojs/internal/source"
)

// Probe is one strategy of a chain. Locate reports false when the probe does
// not apply to the document.
type Probe interface {
	Name() string
	Locate(d *document) (Point, bool)
}

type probeFunc struct {
	name string
	fn   func(d *document) (Point, bool)
}

func (p probeFunc) Name() string { return p.name }

func (p probeFunc) Locate(d *document) (Point, bool) {
	pt, ok := p.fn(d)
	if ok {
		pt.Probe = p.name
	}
	return pt, ok
}

// lastImport: after the terminator of the import statement with the greatest
// start offset.
var lastImport = probeFunc{name: "last-import", fn: func(d *document) (Point, bool) {
	found := false
	var pt Point
	for _, m := range importRE.FindAllStringSubmatchIndex(d.text, -1) {
		start := m[0]
		for start < len(d.text) && (d.text[start] == ' ' || d.text[start] == '\t') {
			start++
		}
		if !d.mask.InCode(start) {
			continue
		}
		found = true
		pt = Point{
			Offset:    terminatorAfter(d.text, m[1]),
			Placement: After,
			Indent:    source.Indentation(d.text, start),
		}
	}
	return pt, found
}}

// lastMiddleware: after the last non-route registration that comes before the
// first route mount, so generic middleware stays grouped above the routes.
var lastMiddleware = probeFunc{name: "last-middleware", fn: func(d *document) (Point, bool) {
	regs := d.registrations()
	limit := len(regs)
	if i := firstRoute(regs); i >= 0 {
		limit = i
	}
	for i := limit - 1; i >= 0; i-- {
		if !regs[i].Route {
			return Point{
				Offset:    regs[i].End,
				Placement: After,
				Indent:    source.Indentation(d.text, regs[i].Start),
			}, true
		}
	}
	return Point{}, false
}}

// beforeFirstRoute: before the statement holding the first route mount.
var beforeFirstRoute = probeFunc{name: "before-first-route", fn: func(d *document) (Point, bool) {
	regs := d.registrations()
	i := firstRoute(regs)
	if i < 0 {
		return Point{}, false
	}
	off := d.statementAnchor(regs[i].Start)
	return Point{
		Offset:    off,
		Placement: Before,
		Detached:  true,
		Indent:    source.Indentation(d.text, off),
	}, true
}}

// afterFramework: after the first `app.use(express...)` registration.
var afterFramework = probeFunc{name: "after-framework-init", fn: func(d *document) (Point, bool) {
	for _, r := range d.registrations() {
		if r.Framework {
			return Point{
				Offset:    r.End,
				Placement: After,
				Indent:    source.Indentation(d.text, r.Start),
			}, true
		}
	}
	return Point{}, false
}}

// afterAppDeclaration: after the `const app = ...;` statement.
var afterAppDeclaration = probeFunc{name: "after-app-declaration", fn: func(d *document) (Point, bool) {
	for _, m := range d.pat.decl.FindAllStringIndex(d.text, -1) {
		if !d.mask.InCode(m[1] - 1) {
			continue
		}
		return Point{
			Offset:    statementEnd(d.text, m[1]),
			Placement: After,
			Detached:  true,
			Indent:    source.Indentation(d.text, m[0]),
		}, true
	}
	return Point{}, false
}}

// lastRoute: after the route mount with the greatest start offset.
var lastRoute = probeFunc{name: "last-route", fn: func(d *document) (Point, bool) {
	regs := d.registrations()
	for i := len(regs) - 1; i >= 0; i-- {
		if regs[i].Route {
			return Point{
				Offset:    regs[i].End,
				Placement: After,
				Indent:    source.Indentation(d.text, regs[i].Start),
			}, true
		}
	}
	return Point{}, false
}}

// beforeListen: before the statement holding the first `app.listen(` call,
// so `const server = app.listen(...)` keeps its binding.
var beforeListen = probeFunc{name: "before-listen", fn: func(d *document) (Point, bool) {
	for _, m := range d.pat.listen.FindAllStringSubmatchIndex(d.text, -1) {
		start := m[4]
		if !d.mask.InCode(start) {
			continue
		}
		off := d.statementAnchor(start)
		return Point{
			Offset:    off,
			Placement: Before,
			Detached:  true,
			Indent:    source.Indentation(d.text, off),
		}, true
	}
	return Point{}, false
}}

// endOfDocument always matches.
var endOfDocument = probeFunc{name: "end-of-document", fn: func(d *document) (Point, bool) {
	return Point{Offset: len(d.text), Placement: End}, true
}}

// roleTable: the brace block of `roles = {` or `roles: {`.
var roleTable = probeFunc{name: "role-table", fn: func(d *document) (Point, bool) {
	for _, m := range d.pat.table.FindAllStringSubmatchIndex(d.text, -1) {
		start, open := m[4], m[5]-1
		if !d.mask.InCode(start) {
			continue
		}
		block, err := scan.BlockAt(d.text, open)
		if err != nil {
			return Point{}, false
		}
		return Point{
			Offset:    block.Close,
			Placement: Before,
			Indent:    source.Indentation(d.text, start),
			Block:     block,
		}, true
	}
	return Point{}, false
}}
