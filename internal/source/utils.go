package source

import (
	"path/filepath"
	"strings"
)

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}

	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}

	return content, false
}

func buildLineIndex(content string) []uint32 {
	out := make([]uint32, 0, strings.Count(content, "\n"))
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			out = append(out, uint32(i)) // #nosec G115 -- document size is checked in NewSpan
		}
	}
	return out
}

func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// no line breaks: the whole document is line 1
	if len(lineIdx) == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}

	// binary search for the last lineIdx[i] < off
	lo, hi := 0, len(lineIdx)-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		if lineIdx[mid] < off {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	line := lo // line breaks before off

	var startOff uint32
	if line > 0 {
		startOff = lineIdx[line-1] + 1
	}

	return LineCol{Line: uint32(line + 1), Col: off - startOff + 1} // #nosec G115
}

func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}

// NewlineOf reports the line terminator used by text: "\r\n" when its first
// line break is CRLF, "\n" otherwise (including text without line breaks).
func NewlineOf(text string) string {
	i := strings.IndexByte(text, '\n')
	if i > 0 && text[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// LineStart returns the offset of the first byte of the line containing off.
func LineStart(text string, off int) int {
	if off > len(text) {
		off = len(text)
	}
	return strings.LastIndexByte(text[:off], '\n') + 1
}

// LineEnd returns the offset of the line break ending the line containing off,
// or len(text) on the last line. A trailing '\r' is not part of the line.
func LineEnd(text string, off int) int {
	if off >= len(text) {
		return len(text)
	}
	i := strings.IndexByte(text[off:], '\n')
	if i < 0 {
		return len(text)
	}
	end := off + i
	if end > off && text[end-1] == '\r' {
		end--
	}
	return end
}

// Indentation returns the leading spaces and tabs of the line containing off.
func Indentation(text string, off int) string {
	start := LineStart(text, off)
	end := start
	for end < len(text) && (text[end] == ' ' || text[end] == '\t') {
		end++
	}
	return text[start:end]
}

// HasLine reports whether text contains a line equal to line once surrounding
// whitespace is trimmed on both sides.
func HasLine(text, line string) bool {
	want := strings.TrimSpace(line)
	for len(text) > 0 {
		i := strings.IndexByte(text, '\n')
		var cur string
		if i < 0 {
			cur, text = text, ""
		} else {
			cur, text = text[:i], text[i+1:]
		}
		if strings.TrimSpace(cur) == want {
			return true
		}
	}
	return false
}
