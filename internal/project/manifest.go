package project

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"eojs/internal/anchor"
	"eojs/internal/diag"
)

// ErrNotAnApp is returned when neither a manifest nor an entry file is found.
var ErrNotAnApp = diag.New(diag.PreconditionFailed, "not in an eojs application directory")

// Config mirrors eojs.toml.
type Config struct {
	App    AppConfig    `toml:"app"`
	RBAC   RBACConfig   `toml:"rbac"`
	Paths  PathsConfig  `toml:"paths"`
	Routes RoutesConfig `toml:"routes"`
}

type AppConfig struct {
	Name      string `toml:"name"`
	Entry     string `toml:"entry"`
	Object    string `toml:"object"`
	Framework string `toml:"framework"`
}

type RBACConfig struct {
	Path               string   `toml:"path"`
	Table              string   `toml:"table"`
	DefaultPermissions []string `toml:"default_permissions"`
}

type PathsConfig struct {
	Middleware  string `toml:"middleware"`
	Controllers string `toml:"controllers"`
	Services    string `toml:"services"`
	Models      string `toml:"models"`
	Routes      string `toml:"routes"`
}

type RoutesConfig struct {
	Prefix string `toml:"prefix"`
}

// DefaultConfig is the layout produced by `eojs new`.
func DefaultConfig(name string) Config {
	return Config{
		App: AppConfig{
			Name:      name,
			Entry:     "src/app.js",
			Object:    anchor.Express.App,
			Framework: anchor.Express.Framework,
		},
		RBAC: RBACConfig{
			Path:               "src/config/rbac.js",
			Table:              anchor.Express.RoleTable,
			DefaultPermissions: []string{"read:own"},
		},
		Paths: PathsConfig{
			Middleware:  "src/middleware",
			Controllers: "src/controllers",
			Services:    "src/services",
			Models:      "src/models",
			Routes:      "src/routes",
		},
		Routes: RoutesConfig{Prefix: "/api"},
	}
}

// Dialect returns the identifiers the injectors should match.
func (c Config) Dialect() anchor.Dialect {
	return anchor.Dialect{
		App:       c.App.Object,
		Framework: c.App.Framework,
		RoleTable: c.RBAC.Table,
	}.WithDefaults()
}

// Project is a resolved application root.
type Project struct {
	Root string
	// Manifest is the path of eojs.toml, empty for apps without one.
	Manifest string
	Config   Config
}

// Load resolves the application containing startDir. With a manifest its
// values override the defaults; without one startDir is the root and the
// entry is app.js or src/app.js, whichever exists.
func Load(startDir string) (*Project, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil {
		return nil, err
	}
	if ok {
		cfg, err := LoadConfig(manifestPath)
		if err != nil {
			return nil, err
		}
		return &Project{Root: filepath.Dir(manifestPath), Manifest: manifestPath, Config: cfg}, nil
	}

	root, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	cfg := DefaultConfig(filepath.Base(root))
	switch {
	case fileExists(filepath.Join(root, "app.js")):
		cfg.App.Entry = "app.js"
	case fileExists(filepath.Join(root, "src", "app.js")):
		cfg.App.Entry = "src/app.js"
	default:
		return nil, ErrNotAnApp.Wrap(diag.NoSpan, "no %s, app.js or src/app.js in %s", ManifestName, root)
	}
	return &Project{Root: root, Config: cfg}, nil
}

// LoadConfig decodes the manifest at path on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig("")
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("app") {
		return Config{}, fmt.Errorf("%s: missing [app]", path)
	}
	if !meta.IsDefined("app", "name") || strings.TrimSpace(cfg.App.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing [app].name", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	for key, val := range map[string]string{
		"app.entry": cfg.App.Entry,
		"rbac.path": cfg.RBAC.Path,
	} {
		if strings.TrimSpace(val) == "" || filepath.IsAbs(val) || strings.HasPrefix(filepath.Clean(val), "..") {
			return Config{}, fmt.Errorf("%s: [%s] must be a path inside the application", path, key)
		}
	}
	if !strings.HasPrefix(cfg.Routes.Prefix, "/") {
		return Config{}, fmt.Errorf("%s: [routes].prefix must start with '/'", path)
	}
	return cfg, nil
}

// Encode renders cfg as a manifest.
func Encode(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# eojs application manifest\n")
	enc := toml.NewEncoder(&buf)
	enc.Indent = ""
	if err := enc.Encode(cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Path joins a manifest-relative path onto the root.
func (p *Project) Path(rel string) string {
	return filepath.Join(p.Root, filepath.FromSlash(rel))
}

// Entry is the absolute path of the bootstrap file.
func (p *Project) Entry() string {
	return p.Path(p.Config.App.Entry)
}

// RBACFile is the absolute path of the role configuration file.
func (p *Project) RBACFile() string {
	return p.Path(p.Config.RBAC.Path)
}

// Rel returns path relative to the root, slash separated, for messages and
// generated import specifiers.
func (p *Project) Rel(path string) string {
	rel, err := filepath.Rel(p.Root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// ImportPath returns the relative module specifier for importing target
// from the file at from, e.g. "./routes/user.routes.js".
func ImportPath(from, target string) string {
	rel, err := filepath.Rel(filepath.Dir(from), target)
	if err != nil {
		return filepath.ToSlash(target)
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasPrefix(rel, "../") {
		rel = "./" + rel
	}
	return rel
}
