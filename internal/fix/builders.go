package fix

import "eojs/internal/source"

// Edit replaces the text covered by Span with NewText. When OldText is set
// the edit only applies if the covered text still equals it.
type Edit struct {
	Title   string
	Span    source.Span
	NewText string
	OldText string
}

// Option mutates an edit during construction.
type Option func(*Edit)

// WithTitle names the edit for logs and reports.
func WithTitle(title string) Option {
	return func(e *Edit) {
		e.Title = title
	}
}

func applyOptions(e Edit, opts []Option) Edit {
	for _, opt := range opts {
		if opt != nil {
			opt(&e)
		}
	}
	return e
}

// InsertText inserts text at offset at.
func InsertText(at int, text string, opts ...Option) Edit {
	return applyOptions(Edit{Span: source.At(at), NewText: text}, opts)
}

// ReplaceSpan replaces text covered by span with newText, guarded by expect.
func ReplaceSpan(span source.Span, newText, expect string, opts ...Option) Edit {
	return applyOptions(Edit{Span: span, NewText: newText, OldText: expect}, opts)
}
