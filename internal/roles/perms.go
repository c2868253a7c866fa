package roles

import (
	"regexp"
	"strings"

	"eojs/internal/scan"
	"eojs/internal/source"
)

// Wildcard grants every action on every resource.
const Wildcard = "*"

// DefaultPermissions is used when a role is created without permissions.
var DefaultPermissions = []string{"read:own"}

var (
	permRE = regexp.MustCompile(`^[A-Za-z_][\w.-]*:[\w.*-]+$`)
	nameRE = regexp.MustCompile(`^[A-Za-z_$][\w$-]*$`)
)

// ValidatePermission checks the `action:scope` form.
func ValidatePermission(p string) error {
	if p == Wildcard || permRE.MatchString(p) {
		return nil
	}
	return ErrInvalidPermission.Wrap(source.Span{}, "permission %q is not of the form action:scope", p)
}

// ValidateName checks that a role name can be written as an object key.
func ValidateName(name string) error {
	if nameRE.MatchString(name) {
		return nil
	}
	return ErrInvalidName.Wrap(source.Span{}, "role name %q is not a valid key", name)
}

// ParsePermissions splits a comma separated flag value, trimming blanks and
// dropping empty items.
func ParsePermissions(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Union returns base followed by the items of extra not already present,
// keeping first occurrences.
func Union(base, extra []string) []string {
	seen := make(map[string]struct{}, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, p := range list {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

// renderArray renders perms as a single-quoted array literal.
func renderArray(perms []string) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, p := range perms {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('\'')
		b.WriteString(strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(p))
		b.WriteByte('\'')
	}
	b.WriteByte(']')
	return b.String()
}

// renderKey quotes names that are not plain identifiers.
func renderKey(name string) string {
	if strings.Contains(name, "-") {
		return "'" + name + "'"
	}
	return name
}

// parseArray reads the string literals of the array block. It reports false
// when an element is anything but a plain string literal.
func parseArray(text string, block scan.Block) ([]string, bool) {
	out := []string{}
	i, limit := block.Open+1, block.Close
	for {
		i = skipTrivia(text, i, limit)
		if i >= limit {
			return out, true
		}
		q := text[i]
		if q != '\'' && q != '"' && q != '`' {
			return nil, false
		}
		end, _ := scan.SkipNonCode(text, i)
		if end > limit || end-i < 2 || text[end-1] != q {
			return nil, false
		}
		lit := text[i+1 : end-1]
		if q == '`' && strings.Contains(lit, "${") {
			return nil, false
		}
		out = append(out, unescape(lit))
		i = skipTrivia(text, end, limit)
		if i < limit {
			if text[i] != ',' {
				return nil, false
			}
			i++
		}
	}
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
