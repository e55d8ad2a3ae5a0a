package util

import (
	"bytes"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

var (
	reSpaces   = regexp.MustCompile(`\s+`)
	reNonAlnum = regexp.MustCompile(`[^A-Z0-9]`)
)

func NormalizeSpaces(input string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(input, " "))
}

// TitleCase lowercases everything but the first letter of each word.
func TitleCase(input string) string {
	return cases.Title(language.English).String(NormalizeSpaces(input))
}

// SquashKey uppercases and strips everything but letters and digits, so
// "Van Wert", "VAN-WERT" and "VANWERT" share one key.
func SquashKey(input string) string {
	return reNonAlnum.ReplaceAllString(strings.ToUpper(input), "")
}

// DecodeText turns raw export bytes into text, dropping a BOM and any
// byte sequence that is not valid UTF-8. BOMOverride passes BOM-prefixed
// input through untouched, so ill-formed bytes are replaced after it.
func DecodeText(raw []byte) string {
	decoder := transform.Chain(
		unicode.BOMOverride(unicode.UTF8.NewDecoder()),
		runes.ReplaceIllFormed(),
	)
	out, _, err := transform.Bytes(decoder, raw)
	if err != nil {
		out = bytes.ToValidUTF8(bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf")), nil)
	}
	return strings.ReplaceAll(string(out), "\uFFFD", "")
}
