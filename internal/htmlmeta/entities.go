package htmlmeta

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var namedEntities = map[string]string{
	"amp":    "&",
	"lt":     "<",
	"gt":     ">",
	"quot":   `"`,
	"apos":   "'",
	"nbsp":   " ",
	"copy":   "©",
	"reg":    "®",
	"trade":  "™",
	"hellip": "…",
}

var reEntity = regexp.MustCompile(`&(#[0-9]{1,7}|#[xX][0-9a-fA-F]{1,6}|[a-zA-Z]+);`)

// DecodeEntities decodes a fixed set of named entities and all numeric
// character references in a single pass. Unknown or invalid references are
// left untouched.
func DecodeEntities(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	return reEntity.ReplaceAllStringFunc(s, func(m string) string {
		body := m[1 : len(m)-1]
		if body[0] != '#' {
			if v, ok := namedEntities[strings.ToLower(body)]; ok {
				return v
			}
			return m
		}
		var (
			n   int64
			err error
		)
		if body[1] == 'x' || body[1] == 'X' {
			n, err = strconv.ParseInt(body[2:], 16, 32)
		} else {
			n, err = strconv.ParseInt(body[1:], 10, 32)
		}
		if err != nil || n == 0 || !utf8.ValidRune(rune(n)) {
			return m
		}
		return string(rune(n))
	})
}
