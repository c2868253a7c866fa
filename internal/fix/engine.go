// Package fix applies batches of text edits to a document snapshot.
package fix

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrNoFixes is returned when Apply is given no edits.
	ErrNoFixes = errors.New("no applicable edits")
	// ErrConflict is returned when two edits of one batch overlap.
	ErrConflict = errors.New("edits overlap")
	// ErrStale is returned when an edit's guard no longer matches the text.
	ErrStale = errors.New("existing text does not match expected content")
	// ErrOutOfRange is returned when an edit span lies outside the text.
	ErrOutOfRange = errors.New("edit span out of range")
)

// Apply applies edits to text as one batch: either every edit applies or the
// text is returned unchanged with an error. Spans refer to the input text.
// Insertions at the same offset keep their relative order.
func Apply(text string, edits ...Edit) (string, error) {
	if len(edits) == 0 {
		return text, ErrNoFixes
	}
	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Span.Start != sorted[j].Span.Start {
			return sorted[i].Span.Start < sorted[j].Span.Start
		}
		return sorted[i].Span.End < sorted[j].Span.End
	})

	// reach is the earlier edit extending furthest to the right
	var reach Edit
	for i, e := range sorted {
		start, end := int(e.Span.Start), int(e.Span.End)
		if end < start || end > len(text) {
			return text, fmt.Errorf("%w: %s in %d bytes", ErrOutOfRange, e.Span, len(text))
		}
		if e.OldText != "" && text[start:end] != e.OldText {
			return text, fmt.Errorf("%w: %s", ErrStale, describe(e))
		}
		if i > 0 && spansConflict(reach, e) {
			return text, fmt.Errorf("%w: %s and %s", ErrConflict, describe(reach), describe(e))
		}
		if i == 0 || e.Span.End > reach.Span.End {
			reach = e
		}
	}

	out := make([]byte, 0, len(text)+delta(sorted))
	prev := 0
	for _, e := range sorted {
		out = append(out, text[prev:e.Span.Start]...)
		out = append(out, e.NewText...)
		prev = int(e.Span.End)
	}
	out = append(out, text[prev:]...)
	return string(out), nil
}

// spansConflict reports whether two edits' spans overlap.
// Spans are half-open. Two insertions never conflict; an insertion conflicts
// with a replacement whose span strictly contains its position.
func spansConflict(a, b Edit) bool {
	aStart, aEnd := a.Span.Start, a.Span.End
	bStart, bEnd := b.Span.Start, b.Span.End

	switch {
	case a.Span.Empty() && b.Span.Empty():
		return false
	case a.Span.Empty():
		return bStart < aStart && aStart < bEnd
	case b.Span.Empty():
		return aStart < bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}

func delta(edits []Edit) int {
	d := 0
	for _, e := range edits {
		d += len(e.NewText) - int(e.Span.Len())
	}
	if d < 0 {
		return 0
	}
	return d
}

func describe(e Edit) string {
	if e.Title != "" {
		return fmt.Sprintf("%q at %s", e.Title, e.Span)
	}
	return "edit at " + e.Span.String()
}
