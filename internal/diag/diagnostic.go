package diag

import (
	"fmt"

	"eojs/internal/source"
)

// NoSpan marks diagnostics that are not tied to a location in a document.
var NoSpan source.Span

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Path     string
	Primary  source.Span
}

// New builds an error-severity diagnostic, typically a package sentinel.
func New(code Code, msg string) *Diagnostic {
	return &Diagnostic{Severity: SevError, Code: code, Message: msg}
}

// Warning builds a warning-severity diagnostic.
func Warning(code Code, msg string) *Diagnostic {
	return &Diagnostic{Severity: SevWarning, Code: code, Message: msg}
}

func (d *Diagnostic) Error() string {
	msg := d.Message
	if msg == "" {
		msg = d.Code.Title()
	}
	if d.Path != "" {
		return fmt.Sprintf("%s: %s: %s", d.Code.ID(), d.Path, msg)
	}
	return fmt.Sprintf("%s: %s", d.Code.ID(), msg)
}

// Is matches any diagnostic with the same code, so package sentinels work
// with errors.Is whatever message or span a returned copy carries.
func (d *Diagnostic) Is(target error) bool {
	t, ok := target.(*Diagnostic)
	if !ok {
		return false
	}
	return t.Code == d.Code
}

// Wrap copies d with a more specific message and span.
func (d *Diagnostic) Wrap(sp source.Span, format string, args ...any) *Diagnostic {
	out := *d
	out.Primary = sp
	if format != "" {
		out.Message = fmt.Sprintf(format, args...)
	}
	return &out
}

// At copies d and attributes it to the document at path.
func (d *Diagnostic) At(path string) *Diagnostic {
	out := *d
	out.Path = path
	return &out
}
