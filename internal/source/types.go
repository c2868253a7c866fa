package source

// Flags encodes metadata about how a document was read from disk.
type Flags uint8

const (
	// Virtual marks a document built from memory (tests, stdin, generated text).
	Virtual Flags = 1 << iota
	HadBOM
	CRLF
)

// LineCol represents a human-readable position in a document.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}
