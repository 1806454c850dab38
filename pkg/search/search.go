// Package search implements the admin list filters: accent-insensitive
// name matching plus digit-only matching for documents and phones.
package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"taxifrota/pkg/validation"
)

// Fold lower-cases s and strips diacritics, so "João" and "joao" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// Fields is what a record exposes to the search box.
type Fields struct {
	Text   []string // names, emails, permit numbers
	Digits []string // cpf, phone
}

// Match reports whether term hits any field. An empty term matches
// everything. Digit fields only match when the term carries digits.
func Match(term string, f Fields) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return true
	}

	folded := Fold(term)
	for _, v := range f.Text {
		if v != "" && strings.Contains(Fold(v), folded) {
			return true
		}
	}

	digits := validation.OnlyDigits(term)
	if digits == "" {
		return false
	}
	for _, v := range f.Digits {
		if strings.Contains(validation.OnlyDigits(v), digits) {
			return true
		}
	}
	return false
}
