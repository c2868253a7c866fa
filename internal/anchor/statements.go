package anchor

import (
	"strings"

	"eojs/internal/scan"
	"eojs/internal/source"
)

// registration is one `app.use(...)` call found in code.
type registration struct {
	Start     int // offset of the application identifier
	Open      int // offset of '('
	End       int // just past ';' or ')' when no ';' follows
	Route     bool
	Framework bool
}

// document caches what the probes of one Locate call share.
type document struct {
	text string
	mask *scan.Mask
	pat  patterns

	regs    []registration
	scanned bool
}

func newDocument(text string, pat patterns) *document {
	return &document{text: text, mask: scan.NewMask(text), pat: pat}
}

func (d *document) registrations() []registration {
	if d.scanned {
		return d.regs
	}
	d.scanned = true
	for _, m := range d.pat.use.FindAllStringSubmatchIndex(d.text, -1) {
		start, open := m[4], m[5]-1
		if !d.mask.InCode(start) {
			continue
		}
		d.regs = append(d.regs, d.registrationAt(start, open))
	}
	return d.regs
}

func (d *document) registrationAt(start, open int) registration {
	reg := registration{Start: start, Open: open}
	arg := strings.TrimLeft(d.text[open+1:], " \t\r\n")
	if len(arg) >= 2 && strings.ContainsRune("'\"`", rune(arg[0])) && arg[1] == '/' {
		reg.Route = true
	}
	reg.Framework = d.pat.framework.MatchString(arg)

	closeIdx, err := scan.MatchDelim(d.text, open)
	if err != nil {
		reg.End = statementEnd(d.text, open)
		return reg
	}
	reg.End = terminatorAfter(d.text, closeIdx+1)
	return reg
}

// firstRoute returns the index in regs of the first route mount, or -1.
func firstRoute(regs []registration) int {
	for i, r := range regs {
		if r.Route {
			return i
		}
	}
	return -1
}

// terminatorAfter returns the offset just past a ';' that follows off on the
// same line (spaces and tabs allowed in between), or off itself.
func terminatorAfter(text string, off int) int {
	i := off
	for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		i++
	}
	if i < len(text) && text[i] == ';' {
		return i + 1
	}
	return off
}

// statementEnd finds the end of the statement that contains from: just past
// the first ';' at nesting depth zero, or the end of the line when the
// statement relies on automatic semicolon insertion.
func statementEnd(text string, from int) int {
	i := from
	for i < len(text) {
		if end, ok := scan.SkipNonCode(text, i); ok {
			i = end
			continue
		}
		switch text[i] {
		case '(', '{', '[':
			if end, err := scan.MatchDelim(text, i); err == nil {
				i = end + 1
				continue
			}
		case ';':
			return i + 1
		case '\n':
			return source.LineEnd(text, i)
		}
		i++
	}
	return len(text)
}

// statementAnchor returns where a line inserted before the statement
// holding off goes: the start of that statement's line when only blanks
// precede it there, otherwise the statement's first byte.
func (d *document) statementAnchor(off int) int {
	start := d.statementStart(off)
	ls := source.LineStart(d.text, start)
	if strings.TrimSpace(d.text[ls:start]) == "" {
		return ls
	}
	return start
}

// statementStart walks back from off to the first byte of the statement
// that contains it. The walk stops at a ';', '{' or '}' at depth zero and at
// a line break the previous line cannot continue; an enclosing call or
// array belongs to the statement.
func (d *document) statementStart(off int) int {
	depth := 0
	for i := off - 1; i >= 0; i-- {
		if !d.mask.InCode(i) {
			continue
		}
		switch d.text[i] {
		case ')', ']':
			depth++
		case '}':
			if depth == 0 {
				return d.skipBlank(i+1, off)
			}
			depth++
		case '{':
			if depth == 0 {
				return d.skipBlank(i+1, off)
			}
			depth--
		case '(', '[':
			if depth > 0 {
				depth--
			}
		case ';':
			if depth == 0 {
				return d.skipBlank(i+1, off)
			}
		case '\n':
			if depth == 0 && !d.continues(i) {
				return d.skipBlank(i+1, off)
			}
		}
	}
	return d.skipBlank(0, off)
}

// continues reports whether the line break at nl sits inside an expression:
// the code before it ends with an operator, or the code after it starts with
// a member access or operator.
func (d *document) continues(nl int) bool {
	for i := nl - 1; i >= 0; i-- {
		c := d.text[i]
		if !d.mask.InCode(i) || c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			continue
		}
		if strings.IndexByte("=+-*/%&|^!?:,.<>([", c) >= 0 {
			return true
		}
		break
	}
	for i := nl + 1; i < len(d.text); i++ {
		c := d.text[i]
		if !d.mask.InCode(i) || c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			continue
		}
		return strings.IndexByte(".?", c) >= 0
	}
	return false
}

// skipBlank returns the first code byte in [from, limit) that is not
// whitespace, or limit.
func (d *document) skipBlank(from, limit int) int {
	for i := from; i < limit; i++ {
		c := d.text[i]
		if d.mask.InCode(i) && c != ' ' && c != '\t' && c != '\r' && c != '\n' {
			return i
		}
	}
	return limit
}
