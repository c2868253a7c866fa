package scan

// skipNonCode steps over a string literal, a template literal or a comment
// starting at the cursor. It reports false, without moving, when the cursor
// is on ordinary code.
//
// Regular expression literals are not recognised: a quote or brace inside
// /.../ is scanned as code.
func (c *Cursor) skipNonCode() bool {
	switch c.Peek() {
	case '\'', '"':
		c.skipQuoted()
		return true
	case '`':
		c.skipTemplate()
		return true
	case '/':
		_, b1, ok := c.Peek2()
		if !ok {
			return false
		}
		switch b1 {
		case '/':
			for !c.EOF() && c.Peek() != '\n' {
				c.Bump()
			}
			return true
		case '*':
			c.Off += 2
			for !c.EOF() {
				if b0, b1, ok := c.Peek2(); ok && b0 == '*' && b1 == '/' {
					c.Off += 2
					return true
				}
				c.Bump()
			}
			return true
		}
	}
	return false
}

// '...' and "..." with backslash escapes; an unterminated literal ends at
// the line break like it does for a JS tokenizer.
func (c *Cursor) skipQuoted() {
	quote := c.Bump()
	for !c.EOF() {
		switch c.Peek() {
		case '\\':
			c.Bump()
			c.Bump()
		case quote:
			c.Bump()
			return
		case '\n':
			return
		default:
			c.Bump()
		}
	}
}

// `...` with ${ ... } placeholders scanned as code, so a brace inside a
// nested string does not close the placeholder.
func (c *Cursor) skipTemplate() {
	c.Bump()
	for !c.EOF() {
		switch c.Peek() {
		case '\\':
			c.Bump()
			c.Bump()
		case '`':
			c.Bump()
			return
		case '$':
			c.Bump()
			if c.Eat('{') {
				c.skipBalanced('{', '}')
			}
		default:
			c.Bump()
		}
	}
}

// skipBalanced consumes code up to and including the closer that brings the
// depth (1 on entry) back to zero. It reports false at EOF.
func (c *Cursor) skipBalanced(open, close byte) bool {
	depth := 1
	for !c.EOF() {
		if c.skipNonCode() {
			continue
		}
		switch c.Bump() {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return true
			}
		}
	}
	return false
}
