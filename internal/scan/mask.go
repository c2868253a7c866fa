package scan

import "sort"

// Mask records the spans of a text that are string literals, template
// literals or comments.
type Mask struct {
	spans [][2]int
}

// NewMask scans text once and returns its non-code spans.
func NewMask(text string) *Mask {
	m := &Mask{}
	c := NewCursor(text, 0)
	for !c.EOF() {
		start := c.Off
		if c.skipNonCode() {
			m.spans = append(m.spans, [2]int{start, c.Off})
			continue
		}
		c.Bump()
	}
	return m
}

// InCode reports whether off is outside every string and comment.
func (m *Mask) InCode(off int) bool {
	if m == nil {
		return true
	}
	i := sort.Search(len(m.spans), func(i int) bool {
		return m.spans[i][1] > off
	})
	return i == len(m.spans) || m.spans[i][0] > off
}
