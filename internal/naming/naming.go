// Package naming converts user supplied module and middleware names into
// the file names and JavaScript identifiers used by generated code.
package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"eojs/internal/diag"
)

// ErrInvalidName is returned for names without letters or starting with a
// digit.
var ErrInvalidName = diag.New(diag.InvalidName, "invalid name")

var (
	lower = cases.Lower(language.Und)
	title = cases.Title(language.Und, cases.NoLower)
)

// Words splits s on separators and case changes: "blogPost", "blog_post",
// "Blog Post" and "blog-post" all give [blog post]. Acronyms stay together,
// so "HTTPServer" gives [http server].
func Words(s string) []string {
	runes := []rune(norm.NFC.String(s))
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, lower.String(string(cur)))
			cur = cur[:0]
		}
	}
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if unicode.IsUpper(r) && len(cur) > 0 {
			prev := cur[len(cur)-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

// Kebab joins the words of s with '-': "blogPost" -> "blog-post".
func Kebab(s string) string {
	return strings.Join(Words(s), "-")
}

// Camel joins the words of s in lower camel case: "blog-post" -> "blogPost".
func Camel(s string) string {
	words := Words(s)
	for i := 1; i < len(words); i++ {
		words[i] = title.String(words[i])
	}
	return strings.Join(words, "")
}

// Pascal joins the words of s in upper camel case: "blog-post" -> "BlogPost".
func Pascal(s string) string {
	return Capitalize(Camel(s))
}

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	return title.String(s)
}

// Validate checks that s yields a usable identifier.
func Validate(s string) error {
	words := Words(s)
	if len(words) == 0 {
		return ErrInvalidName.Wrap(diag.NoSpan, "name %q has no letters", s)
	}
	if first := []rune(words[0]); unicode.IsDigit(first[0]) {
		return ErrInvalidName.Wrap(diag.NoSpan, "name %q must not start with a digit", s)
	}
	return nil
}
