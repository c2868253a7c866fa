package scaffold

import (
	"io/fs"
	"path"

	"eojs/internal/naming"
	"eojs/internal/project"
)

// Parts selects the files of a generated module. The zero value means all.
type Parts struct {
	Controller bool
	Service    bool
	Model      bool
	Routes     bool
}

// All reports whether no single part was requested.
func (p Parts) All() bool {
	return !p.Controller && !p.Service && !p.Model && !p.Routes
}

func (p Parts) has(part bool) bool {
	return p.All() || part
}

// ModuleSpec describes one `eojs generate` run.
type ModuleSpec struct {
	Name    string
	Parts   Parts
	Swagger bool
	// Prefix is the route prefix, e.g. "/api".
	Prefix string
}

// Module is the rendered output of ModuleSpec.
type Module struct {
	Files []File
	// Binding is the identifier the routes file is imported as.
	Binding string
	// RoutesFile is the routes file path relative to the app root, empty when
	// routes were not generated.
	RoutesFile string
	// RoutePath is the mount path of the routes.
	RoutePath string
}

// GenerateModule renders the files selected by spec into the directories of
// paths.
func GenerateModule(fsys fs.FS, paths project.PathsConfig, spec ModuleSpec) (*Module, error) {
	if err := naming.Validate(spec.Name); err != nil {
		return nil, err
	}
	camel, kebab := naming.Camel(spec.Name), naming.Kebab(spec.Name)
	routePath := path.Join("/", spec.Prefix, kebab)
	data := Data{
		Vars: map[string]string{
			"MODULE_NAME":             camel,
			"MODULE_NAME_CAPITALIZED": naming.Pascal(spec.Name),
			"MODULE_NAME_KEBAB":       kebab,
			"ROUTE_PATH":              routePath,
			"INCLUDE_SWAGGER":         boolString(spec.Swagger),
		},
		Sections: map[string]bool{"INCLUDE_SWAGGER": spec.Swagger},
	}

	parts := []struct {
		on       bool
		template string
		dir      string
		suffix   string
	}{
		{spec.Parts.has(spec.Parts.Controller), "module/controller.js", paths.Controllers, ".controller.js"},
		{spec.Parts.has(spec.Parts.Service), "module/service.js", paths.Services, ".service.js"},
		{spec.Parts.has(spec.Parts.Model), "module/model.js", paths.Models, ".model.js"},
		{spec.Parts.has(spec.Parts.Routes), "module/routes.js", paths.Routes, ".routes.js"},
	}
	mod := &Module{Binding: camel + "Routes", RoutePath: routePath}
	for _, p := range parts {
		if !p.on {
			continue
		}
		out, err := RenderFile(fsys, p.template, data)
		if err != nil {
			return nil, err
		}
		f := File{Path: path.Join(p.dir, kebab+p.suffix), Data: out}
		mod.Files = append(mod.Files, f)
		if p.suffix == ".routes.js" {
			mod.RoutesFile = f.Path
		}
	}
	return mod, nil
}

// Middleware is the rendered output of a middleware stub.
type Middleware struct {
	File    File
	Binding string
}

// GenerateMiddleware renders the middleware stub for name into dir.
func GenerateMiddleware(fsys fs.FS, dir, name string) (*Middleware, error) {
	if err := naming.Validate(name); err != nil {
		return nil, err
	}
	camel := naming.Camel(name)
	out, err := RenderFile(fsys, "middleware/middleware.js", Data{
		Vars: map[string]string{"MIDDLEWARE_NAME": camel},
	})
	if err != nil {
		return nil, err
	}
	return &Middleware{
		File:    File{Path: path.Join(dir, naming.Kebab(name)+".js"), Data: out},
		Binding: camel + "Middleware",
	}, nil
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
