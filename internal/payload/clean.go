package payload

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// Letras que a decomposição Unicode não separa do acento
	ligatures = strings.NewReplacer(
		"Æ", "AE", "æ", "ae",
		"Œ", "OE", "œ", "oe",
		"Ø", "O", "ø", "o",
		"Đ", "D", "đ", "d",
		"Ð", "D", "ð", "d",
		"Ł", "L", "ł", "l",
		"Ħ", "H", "ħ", "h",
		"Þ", "TH", "þ", "th",
		"ß", "ss", "ı", "i",
	)

	invalidChars    = regexp.MustCompile(`[^A-Za-z0-9 \-]+`)
	invalidTIDChars = regexp.MustCompile(`[^A-Za-z0-9*]+`)
	amountPattern   = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
)

// cleanString remove acentos e mantém apenas letras, dígitos, espaço e hífen
func cleanString(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, ligatures.Replace(s))
	if err != nil {
		folded = s
	}
	return invalidChars.ReplaceAllString(folded, "")
}

// cleanUpper é cleanString seguido de caixa alta
func cleanUpper(s string) string {
	return strings.ToUpper(cleanString(s))
}

// cleanTID mantém apenas letras, dígitos e asterisco
func cleanTID(s string) string {
	return invalidTIDChars.ReplaceAllString(s, "")
}
