package grammar

import (
	"bytes"

	"github.com/ghettovoice/gouri/internal/constraints"
	"github.com/ghettovoice/gouri/internal/types"
)

// Unescape unescapes s by converting each 3-byte encoded substring of the form
// "% HEXDIG HEXDIG" into the hex-decoded byte. Malformed sequences are kept as-is.
func Unescape[T constraints.Byteseq](s T) T {
	if !hasPct(s) {
		return s
	}

	var b bytes.Buffer
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && ishex(s[i+1]) && ishex(s[i+2]) {
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
		} else {
			b.WriteByte(s[i])
		}
	}
	return T(b.Bytes())
}

// Escape escapes s by replacing each char matched by shouldEscape callback to
// the hex form "% HEXDIG HEXDIG". Well-formed pct-encoded triplets pass through
// untouched, a bare '%' is always re-encoded.
func Escape[T constraints.Byteseq](s T, shouldEscape func(c byte) bool) T {
	if len(s) == 0 {
		return s
	}

	if shouldEscape == nil {
		shouldEscape = func(c byte) bool { return !IsCharUnreserved(c) }
	}

	var b bytes.Buffer
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '%' && i+2 < len(s) && ishex(s[i+1]) && ishex(s[i+2]):
			b.WriteByte(s[i])
			b.WriteByte(s[i+1])
			b.WriteByte(s[i+2])
			i += 2
		case s[i] == '%' || shouldEscape(s[i]):
			b.WriteByte('%')
			b.WriteByte(upperhex[s[i]>>4])
			b.WriteByte(upperhex[s[i]&15])
		default:
			b.WriteByte(s[i])
		}
	}
	return T(b.Bytes())
}

// EscapeAll escapes every char of s matched by shouldEscape and every '%',
// including those opening a well-formed pct-encoded triplet.
// It is meant for fully decoded values where a '%' is always a literal char.
func EscapeAll[T constraints.Byteseq](s T, shouldEscape func(c byte) bool) T {
	if len(s) == 0 {
		return s
	}

	if shouldEscape == nil {
		shouldEscape = func(c byte) bool { return !IsCharUnreserved(c) }
	}

	var b bytes.Buffer
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' || shouldEscape(s[i]) {
			b.WriteByte('%')
			b.WriteByte(upperhex[s[i]>>4])
			b.WriteByte(upperhex[s[i]&15])
		} else {
			b.WriteByte(s[i])
		}
	}
	return T(b.Bytes())
}

// Decode unescapes pct-encoded triplets of s except those encoding gen-delims,
// sub-delims, '%' or ASCII controls, whose decoding would change the meaning
// of the component. Kept triplets get their hex digits normalized to upper case.
func Decode[T constraints.Byteseq](s T) T {
	if !hasPct(s) {
		return s
	}

	var b bytes.Buffer
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && ishex(s[i+1]) && ishex(s[i+2]) {
			if c := unhex(s[i+1])<<4 | unhex(s[i+2]); c == '%' || c < 0x20 || c == 0x7f || IsReservedChar(c) {
				b.WriteByte('%')
				b.WriteByte(upperhex[c>>4])
				b.WriteByte(upperhex[c&15])
			} else {
				b.WriteByte(c)
			}
			i += 2
			continue
		}
		b.WriteByte(s[i])
	}
	return T(b.Bytes())
}

// EscapeMode returns a shouldEscape callback combining the component char set
// given by isValid with the escaping rules of the encoding mode:
// [types.EncodingRFC1738] additionally escapes '+' and '~',
// [types.EncodingRFC3987] keeps non-ASCII bytes raw.
func EscapeMode(isValid func(c byte) bool, mode types.EncodingMode) func(c byte) bool {
	switch mode {
	case types.EncodingRFC1738:
		return func(c byte) bool { return c == '+' || c == '~' || !isValid(c) }
	case types.EncodingRFC3987:
		return func(c byte) bool { return c < 0x80 && !isValid(c) }
	default:
		return func(c byte) bool { return !isValid(c) }
	}
}

const upperhex = "0123456789ABCDEF"

func hasPct[T constraints.Byteseq](s T) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '%' {
			return true
		}
	}
	return false
}

func ishex(c byte) bool {
	switch {
	case '0' <= c && c <= '9':
		return true
	case 'a' <= c && c <= 'f':
		return true
	case 'A' <= c && c <= 'F':
		return true
	}
	return false
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}
