package expansion

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var replacer = strings.NewReplacer(
	// Quotes and commas and whatnot
	"\"", "",
	"'", "",
	"’", "",
	"“", "",
	"”", "",
	",", "",
	":", "",
	".", "",
	"!", "",
	"?", "",

	// Separators
	" // ", " ",
	"/", " ",
	"-", " ",

	// Ancient ligature
	"æ", "ae",
)

// Normalize lowercases str, drops accents and punctuation, and collapses
// spaces, so that "Lim-Dûl's Vault" becomes "lim duls vault".
func Normalize(str string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, str)
	if err == nil {
		str = stripped
	}
	str = strings.ToLower(str)
	str = replacer.Replace(str)
	return strings.Join(strings.Fields(str), " ")
}

