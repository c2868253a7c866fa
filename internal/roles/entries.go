package roles

import (
	"strings"

	"eojs/internal/scan"
)

// entry is one property of an object literal.
type entry struct {
	Name     string // "" for spreads and computed keys
	Quoted   bool
	KeyStart int
	// ValueStart and ValueEnd bound the value without surrounding blanks.
	// Both are -1 for shorthand properties.
	ValueStart int
	ValueEnd   int
	// Comma is the offset of the separating ',' or -1 for the last entry
	// without one.
	Comma int
	// Opaque entries could not be read as `key: value`; ValueStart is then
	// KeyStart and the value spans the whole entry.
	Opaque bool
}

// Object reports whether the value is an object literal.
func (e entry) Object(text string) bool {
	return !e.Opaque && e.ValueStart >= 0 && text[e.ValueStart] == '{'
}

// End is the offset just past the entry's text, excluding the comma.
func (e entry) End() int {
	if e.ValueEnd >= 0 {
		return e.ValueEnd
	}
	return e.KeyStart + len(e.Name)
}

// entries enumerates the direct properties of the object literal block.
// A property that is not a plain `key: value` pair (a method, an accessor)
// is kept as an opaque entry running to the next top-level comma, named by
// its leading key when one can be read.
func entries(text string, block scan.Block) []entry {
	var list []entry
	i, limit := block.Open+1, block.Close
	for {
		i = skipTrivia(text, i, limit)
		if i >= limit {
			return list
		}
		e := entry{KeyStart: i, ValueStart: -1, ValueEnd: -1, Comma: -1}
		next, ok := property(text, &e, i, limit)
		if !ok {
			end := valueEnd(text, i, limit)
			e.Opaque = true
			e.ValueStart, e.ValueEnd, e.Comma = i, trimEnd(text, i, end), -1
			if end < limit {
				e.Comma = end
				end++
			}
			next = end
		}
		list = append(list, e)
		i = next
	}
}

// property reads the property starting at i into e and returns the offset
// past it and its comma. It reports false when the text is not a plain
// property.
func property(text string, e *entry, i, limit int) (int, bool) {
	switch c := text[i]; {
	case c == '\'' || c == '"':
		end, _ := scan.SkipNonCode(text, i)
		if end > limit || text[end-1] != c {
			return i, false
		}
		e.Name, e.Quoted = text[i+1:end-1], true
		i = end
	case strings.HasPrefix(text[i:], "..."), c == '[':
		// spread or computed key: take everything up to the separator
		end := valueEnd(text, i, limit)
		e.ValueStart, e.ValueEnd = i, trimEnd(text, i, end)
		i = end
	case isIdentStart(c):
		j := i + 1
		for j < limit && isIdentPart(text[j]) {
			j++
		}
		e.Name = text[i:j]
		i = j
	case isDigit(c):
		// numeric key: 0, 1.5, 0x1f
		j := i + 1
		for j < limit && (isIdentPart(text[j]) || text[j] == '.') {
			j++
		}
		e.Name = text[i:j]
		i = j
	default:
		return i, false
	}

	i = skipTrivia(text, i, limit)
	if e.ValueStart < 0 && i < limit && text[i] == ':' {
		start := skipTrivia(text, i+1, limit)
		end := valueEnd(text, start, limit)
		if start >= end {
			return i, false
		}
		e.ValueStart, e.ValueEnd = start, trimEnd(text, start, end)
		i = end
	}
	if i < limit && text[i] == ',' {
		e.Comma = i
		i++
	} else if i < limit {
		return i, false
	}
	return i, true
}

// valueEnd returns the offset of the ',' ending the value starting at from,
// or limit.
func valueEnd(text string, from, limit int) int {
	i := from
	for i < limit {
		if end, ok := scan.SkipNonCode(text, i); ok {
			i = end
			continue
		}
		switch text[i] {
		case ',':
			return i
		case '{', '(', '[':
			end, err := scan.MatchDelim(text, i)
			if err != nil || end >= limit {
				return limit
			}
			i = end + 1
			continue
		}
		i++
	}
	return limit
}

// trimEnd steps back over blanks and comments preceding end.
func trimEnd(text string, start, end int) int {
	last := start
	for i := start; i < end; {
		if next, ok := scan.SkipNonCode(text, i); ok {
			if !isComment(text, i) {
				last = next
			}
			i = next
			continue
		}
		if !isBlank(text[i]) {
			last = i + 1
		}
		i++
	}
	return last
}

// skipTrivia skips blanks and comments.
func skipTrivia(text string, i, limit int) int {
	for i < limit {
		if isBlank(text[i]) {
			i++
			continue
		}
		if isComment(text, i) {
			end, _ := scan.SkipNonCode(text, i)
			i = end
			continue
		}
		break
	}
	return i
}

func isComment(text string, i int) bool {
	return strings.HasPrefix(text[i:], "//") || strings.HasPrefix(text[i:], "/*")
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= 0x80
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// find returns the entry named name. A repeated key resolves to its last
// occurrence, the one that wins at runtime.
func find(list []entry, name string) (entry, bool) {
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].Name != "" && list[i].Name == name {
			return list[i], true
		}
	}
	return entry{}, false
}
