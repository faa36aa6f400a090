package patent

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// normalizeLabel converts label text into a camel case key.
//
// Words are joined with the first one lower-cased and the others
// capitalized. A word starting with punctuation ends the label before it,
// trailing punctuation ends it after the word: "Cited By (12)" and
// "Cited By:" both become "citedBy".
func normalizeLabel(text string) string {
	var b strings.Builder
	for i, word := range strings.Fields(text) {
		r, _ := utf8.DecodeRuneInString(word)
		if !isAlnum(r) {
			break
		}

		trimmed := strings.TrimRightFunc(word, func(r rune) bool { return !isAlnum(r) })
		if i == 0 {
			b.WriteString(strings.ToLower(trimmed))
		} else {
			b.WriteString(capitalize(trimmed))
		}

		if trimmed != word {
			break
		}
	}
	return b.String()
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

// capitalize upper-cases the first rune and lower-cases the rest.
// Acronyms are not kept: "DNA" becomes "Dna".
func capitalize(word string) string {
	if word == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(word)
	return string(unicode.ToTitle(r)) + strings.ToLower(word[size:])
}
