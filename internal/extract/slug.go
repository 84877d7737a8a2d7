package extract

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// translit maps Cyrillic letters onto Latin for slug construction.
// Lower-case only; input is lowered before lookup.
var translit = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "e",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "h", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "sch",
	'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
}

var slugSeparatorRe = regexp.MustCompile(`-{2,}`)

// stripMarks removes combining diacritical marks after NFD decomposition,
// so "é" and "e" normalize to the same slug rune.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify derives the stable identity key for a title: lower-cased,
// transliterated, punctuation-stripped, hyphen-separated. Two titles that
// differ only in markup, case, or punctuation produce the same slug.
func Slugify(title string) string {
	lowered := strings.ToLower(strings.TrimSpace(title))
	if lowered == "" {
		return ""
	}

	if flat, _, err := transform.String(stripMarks, lowered); err == nil {
		lowered = flat
	}

	var b strings.Builder
	for _, r := range lowered {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			if lat, ok := translit[r]; ok {
				b.WriteString(lat)
				continue
			}
			b.WriteByte('-')
		}
	}

	slug := slugSeparatorRe.ReplaceAllString(b.String(), "-")
	return strings.Trim(slug, "-")
}

// SlugLetters counts the alphanumeric runes of a slug. Used to decide
// whether a title carries enough identity to survive extraction.
func SlugLetters(slug string) int {
	n := 0
	for _, r := range slug {
		if r != '-' {
			n++
		}
	}
	return n
}
