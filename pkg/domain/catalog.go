package domain

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CatalogItem is a reference unit price, used to ground generated budgets.
type CatalogItem struct {
	Code        string
	Description string
	Unit        string

	// in cents of BRL.
	UnitPrice int64
	Stage     string

	UpdatedAt time.Time
}

// stopwords of pt-BR which never narrow a catalog search.
var stopwords = map[string]struct{}{
	"de": {}, "da": {}, "do": {}, "das": {}, "dos": {}, "e": {}, "em": {},
	"com": {}, "para": {}, "por": {}, "a": {}, "o": {}, "as": {}, "os": {},
	"um": {}, "uma": {}, "no": {}, "na": {}, "nos": {}, "nas": {},
}

// Fold lowercases s and strips its accents ("Fundação" -> "fundacao").
func Fold(s string) string {
	// a Chain has state. It is not shared between goroutines.
	foldAccents := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(foldAccents, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// Keywords picks distinct search words from texts: folded, at least 3
// letters long and not a stopword. The order of first appearance is kept.
func Keywords(texts ...string) []string {
	seen := map[string]struct{}{}
	ret := []string{}
	for _, text := range texts {
		words := strings.FieldsFunc(Fold(text), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		for _, w := range words {
			if len([]rune(w)) < 3 {
				continue
			}
			if _, ok := stopwords[w]; ok {
				continue
			}
			if _, ok := seen[w]; ok {
				continue
			}
			seen[w] = struct{}{}
			ret = append(ret, w)
		}
	}
	return ret
}
