package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), "[app]\nname = \"shop\"\n")
	nested := filepath.Join(root, "src", "routes")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	manifest, ok, err := FindManifest(nested)
	if err != nil || !ok {
		t.Fatalf("FindManifest: ok=%v err=%v", ok, err)
	}
	want, _ := filepath.Abs(root)
	if got := filepath.Dir(manifest); got != want {
		t.Fatalf("expected root %q, got %q", want, got)
	}
}

func TestLoadManifestOverridesDefaults(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), `[app]
name = "shop"
object = "server"

[rbac]
path = "config/rbac.js"

[routes]
prefix = "/v1"
`)
	p, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := DefaultConfig("shop")
	want.App.Object = "server"
	want.RBAC.Path = "config/rbac.js"
	want.Routes.Prefix = "/v1"
	if diff := cmp.Diff(want, p.Config); diff != "" {
		t.Fatalf("config (-want +got):\n%s", diff)
	}
	if p.RBACFile() != filepath.Join(p.Root, "config", "rbac.js") {
		t.Fatalf("unexpected rbac path %q", p.RBACFile())
	}
	if d := p.Config.Dialect(); d.App != "server" || d.Framework != "express" || d.RoleTable != "roles" {
		t.Fatalf("unexpected dialect %+v", d)
	}
}

func TestLoadManifestErrors(t *testing.T) {
	cases := []struct {
		name, body string
	}{
		{"no app", "[rbac]\npath = \"x.js\"\n"},
		{"no name", "[app]\nentry = \"app.js\"\n"},
		{"unknown key", "[app]\nname = \"x\"\nport = 3000\n"},
		{"escaping entry", "[app]\nname = \"x\"\nentry = \"../app.js\"\n"},
		{"bad prefix", "[app]\nname = \"x\"\n[routes]\nprefix = \"api\"\n"},
		{"syntax", "[app\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ManifestName)
			writeFile(t, path, tc.body)
			if _, err := LoadConfig(path); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadWithoutManifest(t *testing.T) {
	root := t.TempDir()
	if _, err := Load(root); !errors.Is(err, ErrNotAnApp) {
		t.Fatalf("expected ErrNotAnApp, got %v", err)
	}

	writeFile(t, filepath.Join(root, "src", "app.js"), "const app = express();\n")
	p, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Manifest != "" || p.Config.App.Entry != "src/app.js" {
		t.Fatalf("unexpected project %+v", p)
	}

	writeFile(t, filepath.Join(root, "app.js"), "const app = express();\n")
	p, err = Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Config.App.Entry != "app.js" {
		t.Fatalf("expected root app.js to win, got %q", p.Config.App.Entry)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ManifestName)
	want := DefaultConfig("blog")
	data, err := Encode(want)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	writeFile(t, path, string(data))
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestImportPath(t *testing.T) {
	cases := []struct {
		from, target, want string
	}{
		{"/app/src/app.js", "/app/src/routes/user.routes.js", "./routes/user.routes.js"},
		{"/app/app.js", "/app/src/middleware/auth.js", "./src/middleware/auth.js"},
		{"/app/src/server/app.js", "/app/src/routes/a.js", "../routes/a.js"},
	}
	for _, tc := range cases {
		if got := ImportPath(filepath.FromSlash(tc.from), filepath.FromSlash(tc.target)); got != tc.want {
			t.Errorf("ImportPath(%s, %s) = %q, want %q", tc.from, tc.target, got, tc.want)
		}
	}
}
