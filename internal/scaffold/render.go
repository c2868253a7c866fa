// Package scaffold renders the embedded templates and writes them into an
// application: the full tree for `eojs new`, the module files for
// `eojs generate` and the middleware stub for `eojs add:middleware`.
package scaffold

import (
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strings"

	"eojs/internal/diag"
)

var (
	// ErrTemplateMissing is returned when a named template is not embedded.
	ErrTemplateMissing = diag.New(diag.TemplateMissing, "template missing")
	// ErrUnresolvedPlaceholder is returned when rendered output still holds
	// a {{NAME}} token.
	ErrUnresolvedPlaceholder = diag.New(diag.UnresolvedPlaceholder, "unresolved template placeholder")
)

// Data is what a template is rendered with. Vars replace {{NAME}} tokens;
// Sections keep or drop {{#NAME}}...{{/NAME}} blocks ({{^NAME}} inverts).
type Data struct {
	Vars     map[string]string
	Sections map[string]bool
}

var (
	placeholderRE = regexp.MustCompile(`\{\{([A-Z][A-Z0-9_]*)\}\}`)
	sectionRE     = regexp.MustCompile(`(?s)\{\{([#^])([A-Z][A-Z0-9_]*)\}\}\r?\n?(.*?)\{\{/([A-Z][A-Z0-9_]*)\}\}\r?\n?`)
	danglingRE    = regexp.MustCompile(`\{\{[#^/][A-Z][A-Z0-9_]*\}\}`)
)

// Render expands src. Every token must resolve; the names of those that do
// not are reported in one error.
func Render(name string, src []byte, data Data) ([]byte, error) {
	text := string(src)
	var sectionErr error
	text = sectionRE.ReplaceAllStringFunc(text, func(m string) string {
		sm := sectionRE.FindStringSubmatch(m)
		kind, open, body, closeName := sm[1], sm[2], sm[3], sm[4]
		if open != closeName {
			sectionErr = ErrUnresolvedPlaceholder.At(name).Wrap(diag.NoSpan, "section {{%s%s}} closed by {{/%s}}", kind, open, closeName)
			return m
		}
		on, ok := data.Sections[open]
		if !ok {
			sectionErr = ErrUnresolvedPlaceholder.At(name).Wrap(diag.NoSpan, "unknown section %s", open)
			return m
		}
		if on == (kind == "#") {
			return body
		}
		return ""
	})
	if sectionErr != nil {
		return nil, sectionErr
	}
	if m := danglingRE.FindString(text); m != "" {
		return nil, ErrUnresolvedPlaceholder.At(name).Wrap(diag.NoSpan, "unbalanced section tag %s", m)
	}

	missing := map[string]struct{}{}
	text = placeholderRE.ReplaceAllStringFunc(text, func(m string) string {
		key := m[2 : len(m)-2]
		if v, ok := data.Vars[key]; ok {
			return v
		}
		missing[key] = struct{}{}
		return m
	})
	if len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for k := range missing {
			names = append(names, k)
		}
		sort.Strings(names)
		return nil, ErrUnresolvedPlaceholder.At(name).Wrap(diag.NoSpan, "no value for %s", strings.Join(names, ", "))
	}
	return []byte(text), nil
}

// RenderFile reads one template from fsys and renders it.
func RenderFile(fsys fs.FS, name string, data Data) ([]byte, error) {
	src, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, ErrTemplateMissing.At(name).Wrap(diag.NoSpan, "%v", err)
	}
	out, err := Render(name, src, data)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return out, nil
}
