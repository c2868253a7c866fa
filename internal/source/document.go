package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"strings"

	"fortio.org/safecast"
)

// Document is an immutable snapshot of a file taken at the start of an edit,
// paired with the text derived from it by the injections applied so far.
// The engine packages only ever see Text; loading and persisting stay with
// the command that owns the document.
type Document struct {
	Path     string
	Original string
	Text     string
	Hash     [32]byte
	Flags    Flags

	lineIdx []uint32
}

// NewDocument wraps content that did not come from disk.
func NewDocument(path string, content []byte) *Document {
	return newDocument(path, content, Virtual)
}

// Load reads a file and strips a UTF-8 BOM; Bytes puts it back on persist.
// Line endings are left untouched so the untouched parts of the file stay
// byte-identical.
func Load(path string) (*Document, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	content, hadBOM := removeBOM(content)
	flags := Flags(0)
	if hadBOM {
		flags |= HadBOM
	}
	return newDocument(path, content, flags), nil
}

func newDocument(path string, content []byte, flags Flags) *Document {
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		panic(fmt.Errorf("document %s too large: %w", path, err))
	}
	text := string(content)
	if NewlineOf(text) == "\r\n" {
		flags |= CRLF
	}
	return &Document{
		Path:     normalizePath(path),
		Original: text,
		Text:     text,
		Hash:     sha256.Sum256(content),
		Flags:    flags,
	}
}

// Apply replaces the derived text with the output of the next injection.
func (d *Document) Apply(text string) {
	d.Text = text
	d.lineIdx = nil
}

// Changed reports whether any injection modified the original text.
func (d *Document) Changed() bool {
	return d.Text != d.Original
}

// Bytes returns the derived text in its on-disk form.
func (d *Document) Bytes() []byte {
	if d.Flags&HadBOM != 0 {
		return append([]byte{0xEF, 0xBB, 0xBF}, d.Text...)
	}
	return []byte(d.Text)
}

// Save writes the derived text back to Path, keeping the file mode.
func (d *Document) Save() error {
	if d.Flags&Virtual != 0 {
		return fmt.Errorf("document %s is virtual", d.Path)
	}
	mode := os.FileMode(0o644)
	if info, err := os.Stat(d.Path); err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(d.Path, d.Bytes(), mode); err != nil {
		return fmt.Errorf("write %s: %w", d.Path, err)
	}
	return nil
}

// Position resolves a byte offset in the derived text to line and column.
func (d *Document) Position(off int) LineCol {
	if d.lineIdx == nil {
		d.lineIdx = buildLineIndex(d.Text)
	}
	if off > len(d.Text) {
		off = len(d.Text)
	}
	return toLineCol(d.lineIdx, At(off).Start)
}

// Line returns the 1-based line of the derived text without its terminator.
func (d *Document) Line(n int) string {
	if n <= 0 {
		return ""
	}
	lines := strings.SplitAfter(d.Text, "\n")
	if n > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[n-1], "\r\n")
}
