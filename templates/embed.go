// Package templates holds the JavaScript sources written by eojs: the
// application tree copied by `eojs new`, the per-module files of
// `eojs generate` and the middleware stub of `eojs add:middleware`.
package templates

import (
	"embed"
	"io/fs"
)

//go:embed all:app module middleware
var templateFS embed.FS

// FS exposes the embedded templates.
func FS() fs.FS {
	return templateFS
}
