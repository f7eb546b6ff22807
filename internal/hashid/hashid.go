// Package hashid maps project names to short opaque identifiers.
//
// The identifier is a 32-bit rolling hash (h = h*31 + c over UTF-16 code
// units) rendered in base 36. It is stable across processes and compatible
// with identifiers already handed out to browsers. It is not collision
// resistant: two names with the same hash are indistinguishable.
package hashid

import (
	"strconv"
	"unicode/utf16"

	"github.com/arwindpianist/showcase/internal/entity"
)

// Hash returns the opaque identifier for name.
func Hash(name string) entity.ID {
	var h int32
	for _, c := range utf16.Encode([]rune(name)) {
		h = h*31 + int32(c)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return entity.ID(strconv.FormatInt(v, 36))
}
