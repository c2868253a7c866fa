// Package diag defines the error taxonomy shared by the injection engine and
// the CLI.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity - tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code - compact numeric identifier (see codes.go) with stable string form.
//   - Message - human oriented text; keep it short and actionable.
//   - Path - the document the finding refers to, empty for command-level errors.
//   - Primary span - the byte range in that document, empty when unknown.
//
// Diagnostic implements error. Engine packages export sentinel values built
// with New (for example anchor.ErrAnchorNotFound) and return Wrap-ed copies
// carrying the span; callers match them with errors.Is, which compares codes.
//
// # Consumers
//
// Commands collect non-fatal findings in a Bag and print them once the
// command finishes; fatal ones travel as ordinary error values up to the
// cobra boundary.
package diag
