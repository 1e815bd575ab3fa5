package guess

import (
	"regexp"
	"strings"

	"github.com/hut-services/internal/pkg/slugify"
)

const (
	DefaultSlugMaxLength = 25
	DefaultSlugMinLength = 4
)

// слова, которые вырезаются из частей slug
var replaceInSlug = []string{
	"alpage", "alpina", "huette", "cabanne", "cabane", "capanna", "chamana", "chamanna",
	"chamonna", "chalet", "capanna", "biwak", "bivouac", "bivacco", "berghotel", "chalets",
	"camona", "hotel", "huette", "naturfreundehaus", "naturfreunde", "berghuette",
	"berggasthaus", "waldhuette", "berghaus", "cascina", "rifugio", "refuge", "citta", "guide",
}

var notInSlug = func() map[string]bool {
	m := map[string]bool{}
	for _, w := range replaceInSlug {
		m[w] = true
	}
	for _, w := range []string{
		"alp", "alpe", "gite", "casa", "sac", "cas", "caf", "cai", "del", "des",
		"rif", "abri", "sur", "ski", "aacz", "aacb",
	} {
		m[w] = true
	}
	return m
}()

var (
	digits          = regexp.MustCompile(`[0-9]`)
	umlautsReplacer = strings.NewReplacer("ä", "ae", "ü", "ue", "ö", "oe")
)

// SlugName возвращает короткий slug для имени хижины.
// Общие слова ("hütte", "refuge", "sac") убираются, если остается достаточно текста.
func SlugName(hutName string, maxLength, minLength int) string {
	name := umlautsReplacer.Replace(strings.ToLower(hutName))

	slug := digits.ReplaceAllString(slugify.Make(name), "")
	slug = strings.Trim(slug, " -")

	var words []string
	for _, w := range strings.Split(slug, "-") {
		if !notInSlug[w] && len(w) >= 3 {
			words = append(words, w)
		}
	}
	for _, r := range replaceInSlug {
		kept := words[:0]
		for _, w := range words {
			replaced := strings.ReplaceAll(w, r, "")
			if replaced == "" {
				continue
			}
			if len(replaced) > 4 {
				w = replaced
			}
			kept = append(kept, w)
		}
		words = kept
	}

	if len(words) == 0 || len(strings.Join(words, "-")) < minLength {
		words = strings.Split(slugify.Make(name), "-")
	}
	return slugify.MakeMax(strings.Join(words, " "), maxLength, true)
}

// SlugNameDefault - SlugName с длинами по умолчанию
func SlugNameDefault(hutName string) string {
	return SlugName(hutName, DefaultSlugMaxLength, DefaultSlugMinLength)
}
