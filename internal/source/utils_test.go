package source

import (
	"testing"
)

func TestNewlineOf(t *testing.T) {
	cases := map[string]string{
		"":              "\n",
		"one line":      "\n",
		"a\nb\n":        "\n",
		"a\r\nb\r\n":    "\r\n",
		"\nleading":     "\n",
		"a\nb\r\nmixed": "\n",
	}
	for in, want := range cases {
		if got := NewlineOf(in); got != want {
			t.Errorf("NewlineOf(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLineBounds(t *testing.T) {
	text := "first\n  second;\r\nthird"
	off := 9 // inside "second"

	if got := LineStart(text, off); got != 6 {
		t.Fatalf("LineStart = %d, want 6", got)
	}
	if got := LineEnd(text, off); got != 15 {
		t.Fatalf("LineEnd = %d, want 15 (before \\r)", got)
	}
	if got := Indentation(text, off); got != "  " {
		t.Fatalf("Indentation = %q, want two spaces", got)
	}
	if got := LineEnd(text, 18); got != len(text) {
		t.Fatalf("LineEnd on last line = %d, want %d", got, len(text))
	}
}

func TestHasLine(t *testing.T) {
	text := "import a from 'a';\n  app.use(a);\r\nconst x = 1; app.use(b);\n"

	if !HasLine(text, "app.use(a);") {
		t.Error("expected indented CRLF line to match after trimming")
	}
	if HasLine(text, "app.use(b);") {
		t.Error("a statement sharing its line with other code is not a line match")
	}
	if HasLine(text, "app.use(c);") {
		t.Error("unexpected match for absent line")
	}
}

func TestToLineCol(t *testing.T) {
	text := "ab\ncd\n\nef"
	idx := buildLineIndex(text)

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}},
		{3, LineCol{2, 1}},
		{6, LineCol{3, 1}},
		{7, LineCol{4, 1}},
		{8, LineCol{4, 2}},
	}
	for _, tt := range tests {
		if got := toLineCol(idx, tt.off); got != tt.want {
			t.Errorf("toLineCol(%d) = %+v, want %+v", tt.off, got, tt.want)
		}
	}
}

func TestRemoveBOM(t *testing.T) {
	in := []byte{0xEF, 0xBB, 0xBF, 'x'}
	out, had := removeBOM(in)
	if !had || string(out) != "x" {
		t.Fatalf("expected BOM to be stripped, got %q (had=%v)", out, had)
	}
	out, had = removeBOM([]byte("xy"))
	if had || string(out) != "xy" {
		t.Fatalf("expected short input untouched, got %q (had=%v)", out, had)
	}
}
