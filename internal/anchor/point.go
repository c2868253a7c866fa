// Package anchor finds insertion points in an application bootstrap file and
// the role table in a role configuration file.
//
// Each anchor kind is resolved by a Chain: an ordered list of Probe values
// evaluated left to right, the first match winning. Probes only look at
// matches that start in code; registrations in comments or strings are
// ignored.
package anchor

import (
	"fmt"

	"eojs/internal/diag"
	"eojs/internal/scan"
)

// Kind selects the chain used by Locate.
type Kind uint8

const (
	LastImport Kind = iota
	MiddlewareInsertionPoint
	RouteInsertionPoint
	RoleTableBlock
)

func (k Kind) String() string {
	switch k {
	case LastImport:
		return "last-import"
	case MiddlewareInsertionPoint:
		return "middleware"
	case RouteInsertionPoint:
		return "route"
	case RoleTableBlock:
		return "role-table"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Placement says on which side of Offset new content goes.
type Placement uint8

const (
	// After: Offset is just past a statement terminator.
	After Placement = iota
	// Before: Offset is the start of the line holding the anchor statement.
	Before
	// End: Offset is len(text); there was nothing better to attach to.
	End
)

func (p Placement) String() string {
	switch p {
	case After:
		return "after"
	case Before:
		return "before"
	case End:
		return "end"
	}
	return "unknown"
}

// Point is a resolved insertion site.
type Point struct {
	Offset    int
	Placement Placement
	// Detached asks for a blank line between the anchor statement and the
	// inserted line.
	Detached bool
	// Indent is the indentation of the anchor statement's line.
	Indent string
	// Probe names the probe that produced the point.
	Probe string
	// Block is set for RoleTableBlock: the container's brace block.
	Block scan.Block
}

var (
	// ErrNoImports is returned by LastImport when the document has no import
	// statement; callers insert at the top of the document instead.
	ErrNoImports = diag.New(diag.NoImports, "no import statement found")
	// ErrAnchorNotFound is returned when every probe of a chain failed.
	ErrAnchorNotFound = diag.New(diag.AnchorNotFound, "no insertion anchor found")
	// ErrContainerNotFound is returned when the role table literal is absent or
	// its braces do not balance.
	ErrContainerNotFound = diag.New(diag.RoleTableContainerNotFound, "role table container not found")
)
