package slugify

import (
	"regexp"
	"strings"

	"github.com/gosimple/unidecode"
)

const separator = "-"

var (
	quotePattern      = regexp.MustCompile(`[']+`)
	disallowedPattern = regexp.MustCompile(`[^-a-z0-9]+`)
	duplicateDash     = regexp.MustCompile(`-{2,}`)
)

// Make - транслитерация в ASCII, нижний регистр, слова через дефис
func Make(text string) string {
	text = quotePattern.ReplaceAllString(text, separator)
	text = unidecode.Unidecode(text)
	text = strings.ToLower(text)
	text = disallowedPattern.ReplaceAllString(text, separator)
	text = duplicateDash.ReplaceAllString(text, separator)
	return strings.Trim(text, separator)
}

// MakeMax - как Make, но с ограничением длины.
// При wordBoundary обрезка происходит только по границе слов.
func MakeMax(text string, maxLength int, wordBoundary bool) string {
	return truncate(Make(text), maxLength, wordBoundary)
}

// truncate skips words that do not fit and keeps trying the following ones.
func truncate(s string, maxLength int, wordBoundary bool) string {
	s = strings.Trim(s, separator)
	if maxLength <= 0 || len(s) < maxLength {
		return s
	}
	if !wordBoundary {
		return strings.Trim(s[:maxLength], separator)
	}
	if !strings.Contains(s, separator) {
		return s[:maxLength]
	}

	var b strings.Builder
	for _, word := range strings.Split(s, separator) {
		if word == "" {
			continue
		}
		next := b.Len() + len(word)
		if next < maxLength {
			b.WriteString(word)
			b.WriteString(separator)
		} else if next == maxLength {
			b.WriteString(word)
			break
		}
	}
	if b.Len() == 0 {
		return strings.Trim(s[:maxLength], separator)
	}
	return strings.Trim(b.String(), separator)
}
