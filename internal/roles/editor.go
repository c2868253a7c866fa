// Package roles edits the role table of an RBAC configuration file and
// evaluates permissions against it.
//
// The table is an object literal whose direct properties are roles:
//
//	roles = {
//	  admin: { permissions: ['*'] },
//	  user: { permissions: ['read:own', 'update:own'] },
//	};
//
// Edits touch only the permission array of one role or add a role after
// the last one; everything else in the file stays byte-identical.
package roles

import (
	"slices"
	"strings"

	"eojs/internal/anchor"
	"eojs/internal/diag"
	"eojs/internal/fix"
	"eojs/internal/scan"
	"eojs/internal/source"
)

var (
	// ErrRoleTableMissing is returned by commands when the RBAC file is absent.
	ErrRoleTableMissing = diag.New(diag.RoleTableMissing, "RBAC configuration file not found")
	// ErrContainerNotFound is returned when the table literal is absent or its
	// braces do not balance.
	ErrContainerNotFound = anchor.ErrContainerNotFound
	// ErrMalformedEntry is returned when a role entry cannot be edited safely.
	// The text is left unchanged.
	ErrMalformedEntry = diag.Warning(diag.MalformedEntry, "malformed role entry")
	// ErrRoleNotFound is returned when adding permissions to a missing role.
	ErrRoleNotFound = diag.New(diag.RoleNotFound, "role not found")
	// ErrInvalidName is returned for role names that are not valid keys.
	ErrInvalidName = diag.New(diag.InvalidName, "invalid role name")
	// ErrInvalidPermission is returned for tags not of the form action:scope.
	ErrInvalidPermission = diag.New(diag.InvalidPermission, "invalid permission")
)

// Result is the outcome of one edit.
type Result struct {
	Text    string
	Changed bool
	// Created is set when the role did not exist before.
	Created bool
	// Permissions is the role's permission list after the edit.
	Permissions []string
}

// Editor edits the role table named by its dialect.
type Editor struct {
	loc      *anchor.Locator
	defaults []string
}

// NewEditor builds an Editor. defaults replaces DefaultPermissions when
// non-empty.
func NewEditor(d anchor.Dialect, defaults []string) *Editor {
	if len(defaults) == 0 {
		defaults = DefaultPermissions
	}
	return &Editor{loc: anchor.New(d), defaults: append([]string(nil), defaults...)}
}

// UpsertRole sets the permissions of role name, creating the role when it
// does not exist. Empty perms means the editor defaults.
func (ed *Editor) UpsertRole(text, name string, perms []string) (Result, error) {
	if len(perms) == 0 {
		perms = ed.defaults
	}
	if err := validate(name, perms); err != nil {
		return Result{Text: text}, err
	}
	table, list, err := ed.table(text)
	if err != nil {
		return Result{Text: text}, err
	}
	perms = append([]string(nil), perms...)

	e, ok := find(list, name)
	if !ok {
		out, err := fix.Apply(text, insertRole(text, table, list, name, perms)...)
		if err != nil {
			return Result{Text: text}, err
		}
		return Result{Text: out, Changed: true, Created: true, Permissions: perms}, nil
	}

	arr, err := permissionsArray(text, e)
	if err != nil {
		return Result{Text: text}, err
	}
	return replaceArray(text, arr, perms)
}

// AddPermissions merges perms into the permissions of an existing role,
// keeping the existing order and appending new tags.
func (ed *Editor) AddPermissions(text, name string, perms []string) (Result, error) {
	if err := validate(name, perms); err != nil {
		return Result{Text: text}, err
	}
	_, list, err := ed.table(text)
	if err != nil {
		return Result{Text: text}, err
	}
	e, ok := find(list, name)
	if !ok {
		return Result{Text: text}, ErrRoleNotFound.Wrap(source.Span{}, "role %q does not exist", name)
	}
	arr, err := permissionsArray(text, e)
	if err != nil {
		return Result{Text: text}, err
	}
	current, ok := parseArray(text, arr)
	if !ok {
		return Result{Text: text}, malformed(e, "permissions must be string literals")
	}
	return replaceArray(text, arr, Union(current, perms))
}

// Parse reads the role table into a Table.
func (ed *Editor) Parse(text string) (*Table, error) {
	_, list, err := ed.table(text)
	if err != nil {
		return nil, err
	}
	init := make(map[string][]string, len(list))
	for _, e := range list {
		if e.Name == "" && !e.Opaque {
			return nil, malformed(e, "spread or computed keys cannot be resolved")
		}
		arr, err := permissionsArray(text, e)
		if err != nil {
			return nil, err
		}
		perms, ok := parseArray(text, arr)
		if !ok {
			return nil, malformed(e, "permissions must be string literals")
		}
		init[e.Name] = perms
	}
	return NewTable(init), nil
}

func (ed *Editor) table(text string) (scan.Block, []entry, error) {
	block, err := ed.loc.Table(text)
	if err != nil {
		return scan.Block{}, nil, err
	}
	// unreadable entries are listed as opaque; only editing one fails
	list := entries(text, block)
	return block, list, nil
}

func validate(name string, perms []string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	for _, p := range perms {
		if err := ValidatePermission(p); err != nil {
			return err
		}
	}
	return nil
}

func malformed(e entry, reason string) error {
	name := e.Name
	if name == "" {
		name = "<unnamed>"
	}
	return ErrMalformedEntry.Wrap(source.NewSpan(e.KeyStart, e.End()), "role %q: %s", name, reason)
}

// permissionsArray locates the `permissions: [...]` array of a role entry.
func permissionsArray(text string, e entry) (scan.Block, error) {
	if e.Opaque {
		return scan.Block{}, malformed(e, "entry is not a `key: value` property")
	}
	if !e.Object(text) {
		return scan.Block{}, malformed(e, "value is not an object literal")
	}
	body, err := scan.BlockAt(text, e.ValueStart)
	if err != nil {
		return scan.Block{}, malformed(e, "unbalanced braces")
	}
	props := entries(text, body)
	p, ok := find(props, "permissions")
	if !ok || p.Opaque || p.ValueStart < 0 || text[p.ValueStart] != '[' {
		return scan.Block{}, malformed(e, "no permissions array")
	}
	arr, err := scan.BlockAt(text, p.ValueStart)
	if err != nil {
		return scan.Block{}, malformed(e, "unterminated permissions array")
	}
	return arr, nil
}

func replaceArray(text string, arr scan.Block, perms []string) (Result, error) {
	res := Result{Text: text, Permissions: perms}
	// same tags in the same order: keep the existing quoting and layout
	if current, ok := parseArray(text, arr); ok && slices.Equal(current, perms) {
		return res, nil
	}
	old := text[arr.Open : arr.Close+1]
	rendered := renderArray(perms)
	out, err := fix.Apply(text, fix.ReplaceSpan(arr.Span(), rendered, old, fix.WithTitle("permissions")))
	if err != nil {
		return res, err
	}
	res.Text, res.Changed = out, true
	return res, nil
}

// insertRole builds the edits adding a role entry after the last entry of
// the table, following the indentation and trailing-comma style of the
// existing entries.
func insertRole(text string, table scan.Block, list []entry, name string, perms []string) []fix.Edit {
	nl := source.NewlineOf(text)
	closeIndent := source.Indentation(text, table.Open)
	if lineLeading(text, table.Close) {
		closeIndent = source.Indentation(text, table.Close)
	}
	indent, inner := indentation(text, list, closeIndent)

	body := renderKey(name) + ": {" + nl +
		inner + "permissions: " + renderArray(perms) + nl +
		indent + "}"
	title := fix.WithTitle("role " + name)

	if len(list) == 0 {
		innerText := table.Inner(text)
		if strings.TrimSpace(innerText) == "" && !strings.Contains(innerText, "\n") {
			return []fix.Edit{fix.ReplaceSpan(
				source.NewSpan(table.Open+1, table.Close),
				nl+indent+body+","+nl+closeIndent,
				innerText,
				title,
			)}
		}
		return []fix.Edit{fix.InsertText(table.Open+1, nl+indent+body+",", title)}
	}

	last := list[len(list)-1]
	if last.Comma >= 0 {
		return []fix.Edit{fix.InsertText(lineTail(text, last.Comma+1), nl+indent+body+",", title)}
	}
	return []fix.Edit{
		fix.InsertText(last.End(), ",", fix.WithTitle("separator")),
		fix.InsertText(lineTail(text, last.End()), nl+indent+body, title),
	}
}

// indentation detects the indentation of entries and of their properties.
func indentation(text string, list []entry, closeIndent string) (string, string) {
	unit := "  "
	indent := closeIndent + unit
	if len(list) > 0 && lineLeading(text, list[0].KeyStart) {
		indent = source.Indentation(text, list[0].KeyStart)
		if strings.HasPrefix(indent, closeIndent) && len(indent) > len(closeIndent) {
			unit = indent[len(closeIndent):]
		}
	}
	for _, e := range list {
		if !e.Object(text) {
			continue
		}
		body, err := scan.BlockAt(text, e.ValueStart)
		if err != nil {
			continue
		}
		props := entries(text, body)
		if len(props) > 0 && lineLeading(text, props[0].KeyStart) {
			return indent, source.Indentation(text, props[0].KeyStart)
		}
	}
	return indent, indent + unit
}

// lineLeading reports whether only blanks precede off on its line.
func lineLeading(text string, off int) bool {
	return strings.TrimSpace(text[source.LineStart(text, off):off]) == ""
}

// lineTail moves off to the end of its line when only blanks and a line
// comment follow it, keeping such a comment with the preceding entry.
func lineTail(text string, off int) int {
	end := source.LineEnd(text, off)
	rest := strings.TrimLeft(text[off:end], " \t")
	if rest == "" || strings.HasPrefix(rest, "//") {
		return end
	}
	return off
}

var defaultEditor = NewEditor(anchor.Express, nil)

// UpsertRole is Editor.UpsertRole for the `roles` table.
func UpsertRole(text, name string, perms []string) (Result, error) {
	return defaultEditor.UpsertRole(text, name, perms)
}

// AddPermissions is Editor.AddPermissions for the `roles` table.
func AddPermissions(text, name string, perms []string) (Result, error) {
	return defaultEditor.AddPermissions(text, name, perms)
}

// ParseTable reads the `roles` table of text.
func ParseTable(text string) (*Table, error) {
	return defaultEditor.Parse(text)
}
