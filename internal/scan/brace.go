// Package scan finds structural boundaries in JavaScript source text without
// parsing it. Delimiters inside string literals, template literals and
// comments are not counted.
package scan

import (
	"errors"
	"fmt"

	"eojs/internal/source"
)

var (
	// ErrNotFound is returned when the text ends before the delimiter closes.
	ErrNotFound = errors.New("no matching closing delimiter")
	// ErrNotOpening is returned when the given offset is not an opening delimiter.
	ErrNotOpening = errors.New("offset is not an opening delimiter")
)

// Block is a text span from an opening delimiter to its matching closer,
// both offsets inclusive.
type Block struct {
	Open  int
	Close int
}

// Inner returns the text between the delimiters.
func (b Block) Inner(text string) string {
	return text[b.Open+1 : b.Close]
}

// Span covers the block including both delimiters.
func (b Block) Span() source.Span {
	return source.NewSpan(b.Open, b.Close+1)
}

func closerFor(open byte) (byte, bool) {
	switch open {
	case '{':
		return '}', true
	case '(':
		return ')', true
	case '[':
		return ']', true
	}
	return 0, false
}

// MatchBrace returns the index of the '}' that closes the '{' at open.
func MatchBrace(text string, open int) (int, error) {
	if open < 0 || open >= len(text) || text[open] != '{' {
		return -1, fmt.Errorf("%w: %d", ErrNotOpening, open)
	}
	return MatchDelim(text, open)
}

// MatchDelim returns the index of the delimiter closing the '{', '(' or '['
// found at open. Depth starts at one just after open; only the delimiter
// pair found at open is counted.
func MatchDelim(text string, open int) (int, error) {
	if open < 0 || open >= len(text) {
		return -1, fmt.Errorf("%w: %d", ErrNotOpening, open)
	}
	closer, ok := closerFor(text[open])
	if !ok {
		return -1, fmt.Errorf("%w: %q at %d", ErrNotOpening, text[open], open)
	}
	c := NewCursor(text, open+1)
	if !c.skipBalanced(text[open], closer) {
		return -1, ErrNotFound
	}
	return c.Off - 1, nil
}

// BlockAt is MatchDelim returning a Block.
func BlockAt(text string, open int) (Block, error) {
	end, err := MatchDelim(text, open)
	if err != nil {
		return Block{}, err
	}
	return Block{Open: open, Close: end}, nil
}

// SkipNonCode reports whether a string literal, template literal or comment
// starts at off and, if so, the offset just past it.
func SkipNonCode(text string, off int) (int, bool) {
	c := NewCursor(text, off)
	if !c.skipNonCode() {
		return off, false
	}
	return c.Off, true
}
