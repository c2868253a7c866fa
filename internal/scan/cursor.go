package scan

// Cursor is a byte position in a text document.
type Cursor struct {
	Text string
	Off  int
	// Limit is the exclusive upper bound for Off; defaults to len(Text).
	Limit int
}

// NewCursor creates a cursor positioned at off.
func NewCursor(text string, off int) Cursor {
	return Cursor{Text: text, Off: off, Limit: len(text)}
}

func (c *Cursor) limit() int {
	if c.Limit > 0 && c.Limit <= len(c.Text) {
		return c.Limit
	}
	return len(c.Text)
}

// EOF reports whether the cursor reached its limit.
func (c *Cursor) EOF() bool {
	return c.Off >= c.limit()
}

// Peek returns the current byte or 0 at EOF.
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.Text[c.Off]
}

// Peek2 returns the current and the next byte.
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if c.Off+1 >= c.limit() {
		return 0, 0, false
	}
	return c.Text[c.Off], c.Text[c.Off+1], true
}

// Bump advances one byte and returns the byte it stepped over.
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.Text[c.Off]
	c.Off++
	return b
}

// Eat consumes the next byte if it matches b.
func (c *Cursor) Eat(b byte) bool {
	if !c.EOF() && c.Text[c.Off] == b {
		c.Off++
		return true
	}
	return false
}
