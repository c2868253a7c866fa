package scan

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
)

func TestMatchBrace(t *testing.T) {
	tests := []struct {
		name string
		text string
		open int
		want int
	}{
		{"flat", "{}", 0, 1},
		{"nested", "{ a: { b: {} } }", 0, 15},
		{"inner block", "{ a: { b: {} } }", 5, 13},
		{"single quoted brace", "{ s: '}' }", 0, 9},
		{"double quoted brace", `{ s: "{{" }`, 0, 10},
		{"escaped quote", `{ s: '\'}' }`, 0, 11},
		{"line comment", "{ // }\n}", 0, 7},
		{"block comment", "{ /* } { */ }", 0, 12},
		{"template text", "{ t: `}` }", 0, 9},
		{"template placeholder", "{ t: `${ {a: '}'}.a }` }", 0, 23},
		{"division is code", "{ x: a / b }", 0, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MatchBrace(tt.text, tt.open)
			if err != nil {
				t.Fatalf("MatchBrace(%q, %d) error: %v", tt.text, tt.open, err)
			}
			if got != tt.want {
				t.Fatalf("MatchBrace(%q, %d) = %d, want %d", tt.text, tt.open, got, tt.want)
			}
		})
	}
}

func TestMatchBraceNotFound(t *testing.T) {
	for _, text := range []string{"{", "{ { }", "{ '}' ", "{ // }"} {
		if _, err := MatchBrace(text, 0); !errors.Is(err, ErrNotFound) {
			t.Errorf("MatchBrace(%q) err = %v, want ErrNotFound", text, err)
		}
	}
}

func TestMatchBraceRejectsNonBrace(t *testing.T) {
	for _, open := range []int{-1, 1, 10} {
		if _, err := MatchBrace("a{}", open); !errors.Is(err, ErrNotOpening) {
			t.Errorf("MatchBrace at %d err = %v, want ErrNotOpening", open, err)
		}
	}
}

func TestMatchDelimParensAndBrackets(t *testing.T) {
	text := "app.use(cors({ origin: ')' }));"
	got, err := MatchDelim(text, 7)
	if err != nil {
		t.Fatalf("MatchDelim: %v", err)
	}
	if got != len(text)-2 {
		t.Fatalf("MatchDelim = %d, want %d", got, len(text)-2)
	}

	arr := "permissions: ['a]', ['b']]"
	open := strings.IndexByte(arr, '[')
	got, err = MatchDelim(arr, open)
	if err != nil {
		t.Fatalf("MatchDelim: %v", err)
	}
	if got != len(arr)-1 {
		t.Fatalf("MatchDelim = %d, want %d", got, len(arr)-1)
	}
}

// Removing the opening brace together with the returned closer must leave
// the remaining braces balanced.
func TestMatchBraceBalancedProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		text := randomBalanced(rng, 6)
		for open := 0; open < len(text); open++ {
			if text[open] != '{' {
				continue
			}
			closeIdx, err := MatchBrace(text, open)
			if err != nil {
				t.Fatalf("MatchBrace(%q, %d): %v", text, open, err)
			}
			rest := text[:open] + text[open+1:closeIdx] + text[closeIdx+1:]
			if !balanced(rest) {
				t.Fatalf("removing %d and %d from %q leaves %q unbalanced", open, closeIdx, text, rest)
			}
			if !balanced(text[open+1 : closeIdx]) {
				t.Fatalf("block body %q is not balanced", text[open+1:closeIdx])
			}
		}
	}
}

func randomBalanced(rng *rand.Rand, depth int) string {
	var b strings.Builder
	n := rng.Intn(4)
	for i := 0; i < n; i++ {
		b.WriteString("x")
		if depth > 0 && rng.Intn(2) == 0 {
			b.WriteByte('{')
			b.WriteString(randomBalanced(rng, depth-1))
			b.WriteByte('}')
		}
	}
	return "{" + b.String() + "}"
}

func balanced(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

func TestBlockAt(t *testing.T) {
	text := "roles = { a: {} };"
	b, err := BlockAt(text, 8)
	if err != nil {
		t.Fatalf("BlockAt: %v", err)
	}
	if got := b.Inner(text); got != " a: {} " {
		t.Fatalf("Inner = %q", got)
	}
	if sp := b.Span(); sp.Start != 8 || sp.End != 17 {
		t.Fatalf("Span = %s", sp)
	}
}
