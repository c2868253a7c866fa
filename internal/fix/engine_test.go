package fix

import (
	"errors"
	"testing"

	"eojs/internal/source"
)

func TestApplyInsertAndReplace(t *testing.T) {
	text := "const roles = { admin: ['x'] };"
	edits := []Edit{
		ReplaceSpan(source.NewSpan(23, 28), "['*']", "['x']", WithTitle("permissions")),
		InsertText(0, "// rbac\n"),
		InsertText(len(text), "\n"),
	}
	got, err := Apply(text, edits...)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want := "// rbac\nconst roles = { admin: ['*'] };\n"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestApplyKeepsInsertionOrder(t *testing.T) {
	got, err := Apply("ab", InsertText(1, "1"), InsertText(1, "2"), InsertText(1, "3"))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got != "a123b" {
		t.Fatalf("expected a123b, got %q", got)
	}
}

func TestApplyInsertAtReplacementStart(t *testing.T) {
	got, err := Apply("abcd", ReplaceSpan(source.NewSpan(1, 3), "X", ""), InsertText(1, "+"))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got != "a+Xd" {
		t.Fatalf("expected a+Xd, got %q", got)
	}
}

func TestApplyErrorsLeaveTextUnchanged(t *testing.T) {
	text := "abcdef"
	cases := []struct {
		name  string
		edits []Edit
		want  error
	}{
		{"none", nil, ErrNoFixes},
		{"stale", []Edit{ReplaceSpan(source.NewSpan(0, 2), "zz", "xy")}, ErrStale},
		{"range", []Edit{ReplaceSpan(source.NewSpan(4, 9), "", "")}, ErrOutOfRange},
		{"overlap", []Edit{ReplaceSpan(source.NewSpan(0, 4), "", ""), ReplaceSpan(source.NewSpan(2, 5), "", "")}, ErrConflict},
		{"nested", []Edit{ReplaceSpan(source.NewSpan(0, 5), "", ""), ReplaceSpan(source.NewSpan(1, 2), "", ""), InsertText(3, "!")}, ErrConflict},
		{"insert inside", []Edit{ReplaceSpan(source.NewSpan(1, 4), "", ""), InsertText(2, "!")}, ErrConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Apply(text, tc.edits...)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if got != text {
				t.Fatalf("expected text unchanged, got %q", got)
			}
		})
	}
}

func TestSpansConflict(t *testing.T) {
	at := func(s, e int) Edit { return Edit{Span: source.NewSpan(s, e)} }
	cases := []struct {
		a, b Edit
		want bool
	}{
		{at(1, 1), at(1, 1), false},
		{at(0, 3), at(3, 3), false},
		{at(0, 3), at(2, 2), true},
		{at(0, 3), at(3, 5), false},
		{at(0, 3), at(2, 5), true},
	}
	for i, tc := range cases {
		if got := spansConflict(tc.a, tc.b); got != tc.want {
			t.Errorf("case %d: expected %v, got %v", i, tc.want, got)
		}
	}
}
