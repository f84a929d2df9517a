package brain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalizer canonicalizes raw question text: collapsed whitespace, no
// punctuation (any rune in a Unicode P* category), NFC, lower case and no
// stop words. The result is idempotent under a second pass.
type Normalizer struct {
	stopWords map[string]struct{}
}

// NewNormalizer cleans the stop words the same way questions are cleaned,
// so "The" or "place," in a vocabulary file still match.
func NewNormalizer(stopWords []string) *Normalizer {
	sw := make(map[string]struct{}, len(stopWords))
	for _, w := range stopWords {
		for _, token := range strings.Fields(clean(w)) {
			sw[token] = struct{}{}
		}
	}
	return &Normalizer{stopWords: sw}
}

func (n *Normalizer) Normalize(raw string) string {
	words := strings.Fields(clean(raw))
	kept := words[:0]
	for _, w := range words {
		if _, stop := n.stopWords[w]; stop {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

// clean drops punctuation and lower cases. Lower casing runs on the
// decomposed text, before NFC, so the result stays NFC.
func clean(raw string) string {
	cooked := strings.Join(strings.Fields(raw), " ")

	// transformers are stateful, so every call builds its own chain
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.Predicate(unicode.IsPunct)),
		runes.Map(unicode.ToLower),
		norm.NFC,
	)
	cooked, _, err := transform.String(t, cooked)
	if err != nil {
		return ""
	}
	return cooked
}
