package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MaskRune     = '•'
	maxMaskRunes = 20
)

// NormalizeName lowercases s and strips hyphens and underscores, so that
// "Casa-Link" and "casa_link" compare equal.
func NormalizeName(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || r == '_' {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}

// Titleize turns a slug such as "casa-link" into "Casa Link".
func Titleize(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool {
		return r == '-' || r == '_' || r == '.' || unicode.IsSpace(r)
	})
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// CensorText keeps the first visible runes of s and masks the rest with at
// most 20 mask runes.
func CensorText(s string, visible int) string {
	runes := []rune(s)
	if len(runes) <= visible {
		return s
	}
	hidden := min(len(runes)-visible, maxMaskRunes)
	return string(runes[:visible]) + strings.Repeat(string(MaskRune), hidden)
}

// CensorWords keeps the first visible words of s and replaces the remainder
// with a short mask. Empty input yields placeholder.
func CensorWords(s string, visible int, placeholder string) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return placeholder
	}
	if len(words) <= visible {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:visible], " ") + " " + strings.Repeat(string(MaskRune), 3)
}
