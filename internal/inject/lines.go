package inject

import (
	"fmt"
	"regexp"
	"strings"

	"eojs/internal/diag"
	"eojs/internal/source"
)

var (
	// ErrInvalidBinding is returned for a binding that is not a plain identifier.
	ErrInvalidBinding = diag.New(diag.InvalidName, "binding is not a valid identifier")
	// ErrInvalidPath is returned for a module or route path that cannot be
	// written as a single-quoted literal.
	ErrInvalidPath = diag.New(diag.InvalidName, "path cannot be quoted")
)

var identRE = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)

func checkBinding(binding string) error {
	if !identRE.MatchString(binding) {
		return ErrInvalidBinding.Wrap(source.Span{}, "binding %q is not a valid identifier", binding)
	}
	return nil
}

func checkPath(p string) error {
	if p == "" || strings.ContainsAny(p, "'\"`\\\r\n") {
		return ErrInvalidPath.Wrap(source.Span{}, "path %q cannot be written as a single-quoted literal", p)
	}
	return nil
}

// ImportLine renders `import <binding> from '<modulePath>';`.
func ImportLine(modulePath, binding string) string {
	return fmt.Sprintf("import %s from '%s';", binding, modulePath)
}

// UseLine renders `<app>.use(<binding>);`.
func UseLine(app, binding string) string {
	return fmt.Sprintf("%s.use(%s);", app, binding)
}

// MountLine renders `<app>.use('<routePath>', <binding>);`.
func MountLine(app, routePath, binding string) string {
	return fmt.Sprintf("%s.use('%s', %s);", app, routePath, binding)
}
