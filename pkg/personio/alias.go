package personio

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var umlauts = strings.NewReplacer("ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss")

// AttributeName derives a snake_case alias from a custom attribute label,
// e.g. "Größe (cm)" becomes "groesse_cm". Leading digits and underscores are
// removed. It returns "" for blank labels.
func AttributeName(label string) string {
	if strings.TrimSpace(label) == "" {
		return ""
	}
	s := umlauts.Replace(strings.ToLower(label))

	t := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
	ascii, _, err := transform.String(t, s)
	if err != nil {
		return ""
	}

	kept := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, ascii)

	return strings.TrimLeft(strings.Join(strings.Fields(kept), "_"), "0123456789_")
}
