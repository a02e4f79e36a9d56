package route

import (
	"strings"
	"unicode"

	"github.com/dgallion1/fnolgest/internal/claim"
)

// FraudKeywords trigger investigation when they appear un-negated in the
// incident description.
var FraudKeywords = []string{"fraud", "inconsistent", "staged", "suspicious"}

// NegationWords suppress a keyword that follows them closely.
var NegationWords = []string{"no", "not", "without"}

// NegationWindow is the maximum number of characters allowed between a
// negation word and the keyword it suppresses.
const NegationWindow = 20

// HasFraudIndicator reports whether the incident description contains a
// fraud keyword that is not negated.
func HasFraudIndicator(f claim.Fields) bool {
	desc := []rune(strings.ToLower(f.Text(claim.KeyIncidentDescription)))
	for _, kw := range FraudKeywords {
		hits := wordIndexes(desc, kw)
		if len(hits) == 0 {
			continue
		}
		if !negated(desc, kw) {
			return true
		}
	}
	return false
}

// negated reports whether any occurrence of kw in desc is preceded by a
// negation word with at most NegationWindow word or space characters
// between them.
func negated(desc []rune, kw string) bool {
	target := []rune(kw)
	for _, neg := range NegationWords {
		for _, start := range wordIndexes(desc, neg) {
			from := start + len([]rune(neg))
			for gap := 0; gap <= NegationWindow && from+gap <= len(desc); gap++ {
				pos := from + gap
				if gap > 0 && !isGapRune(desc[pos-1]) {
					break
				}
				if wordAt(desc, target, pos) {
					return true
				}
			}
		}
	}
	return false
}

// wordIndexes returns the start of every whole-word occurrence of word.
func wordIndexes(text []rune, word string) []int {
	target := []rune(word)
	var out []int
	for i := 0; i+len(target) <= len(text); i++ {
		if wordAt(text, target, i) {
			out = append(out, i)
		}
	}
	return out
}

// wordAt reports whether target occurs at i bounded by non-word runes.
func wordAt(text, target []rune, i int) bool {
	if i+len(target) > len(text) {
		return false
	}
	for j, r := range target {
		if text[i+j] != r {
			return false
		}
	}
	if i > 0 && isWordRune(text[i-1]) {
		return false
	}
	end := i + len(target)
	return end == len(text) || !isWordRune(text[end])
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isGapRune(r rune) bool {
	return isWordRune(r) || unicode.IsSpace(r)
}
