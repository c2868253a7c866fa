package diagfmt

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"eojs/internal/diag"
	"eojs/internal/source"
)

const rbacText = "const roles = {\n  editor: { permissions: 'all' },\n};\n"

func malformedAt(text, what string) *diag.Diagnostic {
	start := strings.Index(text, what)
	return diag.Warning(diag.MalformedEntry, "").Wrap(source.NewSpan(start, start+len(what)), "role %q: permissions must be an array", "editor")
}

func TestOneUnderlinesSpan(t *testing.T) {
	d := malformedAt(rbacText, "editor: { permissions: 'all' }").At("src/config/rbac.js")
	var buf bytes.Buffer
	One(&buf, d, rbacText, PrettyOpts{Context: 1})

	want := strings.Join([]string{
		`src/config/rbac.js:2:3: WARNING ROL4003: role "editor": permissions must be an array`,
		"  1 | const roles = {",
		"  2 |   editor: { permissions: 'all' },",
		"    |   ^" + strings.Repeat("~", 29),
		"",
	}, "\n")
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("output (-want +got):\n%s", diff)
	}
}

func TestOneClampsMarkerToLine(t *testing.T) {
	text := "a\n\tbroken {\n  more\n"
	start := strings.Index(text, "broken")
	d := diag.New(diag.AnchorNotFound, "x").Wrap(source.NewSpan(start, len(text)), "")
	var buf bytes.Buffer
	One(&buf, d, text, PrettyOpts{})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if got, want := lines[len(lines)-1], "    | \t^"+strings.Repeat("~", 7); got != want {
		t.Fatalf("marker line = %q, want %q", got, want)
	}
}

func TestWithSource(t *testing.T) {
	d := malformedAt(rbacText, "editor")
	located, ok := WithSource(fmt.Errorf("upsert: %w", d), "rbac.js", rbacText)
	if !ok {
		t.Fatal("expected a located error")
	}
	if located.Diag.Path != "rbac.js" || d.Path != "" {
		t.Fatalf("expected a copy attributed to rbac.js, got %q (orig %q)", located.Diag.Path, d.Path)
	}
	if !errors.Is(located, diag.Warning(diag.MalformedEntry, "")) {
		t.Fatal("expected the diagnostic code to survive wrapping")
	}

	if _, ok := WithSource(diag.New(diag.AnchorNotFound, "none"), "app.js", ""); ok {
		t.Fatal("diagnostics without a span have nothing to show")
	}
	if _, ok := WithSource(errors.New("plain"), "app.js", ""); ok {
		t.Fatal("plain errors must pass through")
	}
}

func TestPrettyFallsBackWithoutSource(t *testing.T) {
	bag := diag.NewBag(0)
	bag.Add(*diag.New(diag.RoleTableMissing, "").At("src/config/rbac.js"))
	bag.Add(*malformedAt(rbacText, "editor").At("a.js"))
	bag.Sort()

	var buf bytes.Buffer
	Pretty(&buf, bag, func(path string) (string, bool) {
		if path == "a.js" {
			return rbacText, true
		}
		return "", false
	}, PrettyOpts{})
	out := buf.String()
	if !strings.HasPrefix(out, "a.js:2:3: WARNING ROL4003") {
		t.Fatalf("expected a.js first with position:\n%s", out)
	}
	if !strings.Contains(out, "src/config/rbac.js: ERROR ROL4001: Role table file missing\n") {
		t.Fatalf("expected header-only line:\n%s", out)
	}
}
