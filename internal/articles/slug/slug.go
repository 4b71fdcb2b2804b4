// Package slug turns article titles into URL-safe identifiers.
package slug

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// cyrillicToLatin is the fixed transliteration table for lower-case Cyrillic letters.
var cyrillicToLatin = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "yo",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "h", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "sch", 'ъ': "",
	'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
}

var (
	disallowed  = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespaces = regexp.MustCompile(`\s+`)
	hyphens     = regexp.MustCompile(`-+`)
)

const fallbackPrefix = "article-"

// Generator produces slugs; Now is used only for the fallback form.
type Generator struct {
	Now func() time.Time
}

// Slugify converts title into a slug using the wall clock for the fallback.
func Slugify(title string) string {
	return Generator{}.Slugify(title)
}

// Slugify lower-cases and transliterates title, keeps [a-z0-9-] and collapses separators.
// A title without any usable character yields "article-<unix millis>".
func (g Generator) Slugify(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if latin, ok := cyrillicToLatin[r]; ok {
			b.WriteString(latin)
			continue
		}
		b.WriteRune(r)
	}

	s := disallowed.ReplaceAllString(b.String(), "")
	s = whitespaces.ReplaceAllString(s, "-")
	s = hyphens.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s != "" {
		return s
	}

	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	return fallbackPrefix + strconv.FormatInt(now().UnixMilli(), 10)
}
