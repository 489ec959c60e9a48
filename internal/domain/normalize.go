package domain

import (
	"strings"
)

// NormalizeLemma prepares a lemma for storage and lookup:
//   - trims leading/trailing whitespace
//   - converts to lowercase
//   - compresses internal runs of spaces into one (multi-word phrases)
//
// Diacritics, hyphens, and apostrophes are preserved.
func NormalizeLemma(lemma string) string {
	lemma = strings.TrimSpace(lemma)
	if lemma == "" {
		return ""
	}
	lemma = strings.ToLower(lemma)

	var b strings.Builder
	b.Grow(len(lemma))
	prevSpace := false
	for _, r := range lemma {
		if r == ' ' {
			if prevSpace {
				continue
			}
			prevSpace = true
		} else {
			prevSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeLanguage canonicalizes a language code (BCP-47 primary subtag,
// lowercase). Region subtags are dropped: scheduling state is per target
// language, not per dialect.
func NormalizeLanguage(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if i := strings.IndexAny(code, "-_"); i > 0 {
		code = code[:i]
	}
	return code
}
