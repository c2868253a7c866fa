package anchor

import (
	"eojs/internal/scan"
	"eojs/internal/source"
)

// Chain is an ordered fallback list of probes.
type Chain struct {
	kind   Kind
	probes []Probe
}

// Names lists the probes in evaluation order.
func (c Chain) Names() []string {
	out := make([]string, 0, len(c.probes))
	for _, p := range c.probes {
		out = append(out, p.Name())
	}
	return out
}

func (c Chain) locate(d *document) (Point, error) {
	for _, p := range c.probes {
		if pt, ok := p.Locate(d); ok {
			return pt, nil
		}
	}
	switch c.kind {
	case LastImport:
		return Point{}, ErrNoImports
	case RoleTableBlock:
		return Point{}, ErrContainerNotFound
	}
	return Point{}, ErrAnchorNotFound.Wrap(source.Span{}, "no %s anchor found (tried %v)", c.kind, c.Names())
}

// Locator resolves anchors for one dialect. It is stateless and safe to
// reuse; every call scans the text it is given.
type Locator struct {
	dialect Dialect
	pat     patterns
	chains  map[Kind]Chain
}

// New builds a Locator for d, filling unset identifiers from Express.
func New(d Dialect) *Locator {
	d = d.WithDefaults()
	return &Locator{
		dialect: d,
		pat:     d.compile(),
		chains: map[Kind]Chain{
			LastImport: {kind: LastImport, probes: []Probe{lastImport}},
			MiddlewareInsertionPoint: {kind: MiddlewareInsertionPoint, probes: []Probe{
				lastMiddleware,
				beforeFirstRoute,
				afterFramework,
				afterAppDeclaration,
			}},
			RouteInsertionPoint: {kind: RouteInsertionPoint, probes: []Probe{
				lastRoute,
				beforeListen,
				endOfDocument,
			}},
			RoleTableBlock: {kind: RoleTableBlock, probes: []Probe{roleTable}},
		},
	}
}

var defaultLocator = New(Express)

// Dialect returns the identifiers the locator matches.
func (l *Locator) Dialect() Dialect {
	return l.dialect
}

// Chain returns the probe chain used for kind.
func (l *Locator) Chain(kind Kind) Chain {
	return l.chains[kind]
}

// Locate resolves kind in text.
func (l *Locator) Locate(text string, kind Kind) (Point, error) {
	chain, ok := l.chains[kind]
	if !ok {
		return Point{}, ErrAnchorNotFound.Wrap(source.Span{}, "unknown anchor kind %s", kind)
	}
	return chain.locate(newDocument(text, l.pat))
}

// Probe runs a single named probe of kind's chain, for callers that need to
// test or report one strategy in isolation.
func (l *Locator) Probe(text string, kind Kind, name string) (Point, bool) {
	for _, p := range l.chains[kind].probes {
		if p.Name() == name {
			return p.Locate(newDocument(text, l.pat))
		}
	}
	return Point{}, false
}

// Table resolves the role table container block.
func (l *Locator) Table(text string) (scan.Block, error) {
	pt, err := l.Locate(text, RoleTableBlock)
	if err != nil {
		return scan.Block{}, err
	}
	return pt.Block, nil
}

// Locate resolves kind in text for the Express dialect.
func Locate(text string, kind Kind) (Point, error) {
	return defaultLocator.Locate(text, kind)
}
