package scan

import (
	"strings"
	"testing"
)

func TestMaskInCode(t *testing.T) {
	text := "app.use(a);\n// app.use(b);\nconst s = 'app.use(c)';\n/* app.use(d) */ app.use(e);"
	m := NewMask(text)

	cases := map[string]bool{
		"app.use(a)":  true,
		"app.use(b)":  false,
		"app.use(c)":  false,
		"app.use(d)":  false,
		"app.use(e)":  true,
		"const s = '": true,
	}
	for needle, want := range cases {
		off := strings.Index(text, needle)
		if off < 0 {
			t.Fatalf("needle %q not found", needle)
		}
		if got := m.InCode(off); got != want {
			t.Errorf("InCode(%q at %d) = %v, want %v", needle, off, got, want)
		}
	}
}

func TestNilMaskIsAllCode(t *testing.T) {
	var m *Mask
	if !m.InCode(3) {
		t.Fatal("nil mask must treat every offset as code")
	}
}
