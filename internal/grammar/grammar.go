// Package grammar implements the generic URI syntax rules of RFC3986:
// character classes, percent-encoding and IP literal forms shared by all
// URI components.
package grammar

//go:generate go tool errtrace -w .

import (
	"braces.dev/errtrace"

	"github.com/ghettovoice/gouri/internal/constraints"
	"github.com/ghettovoice/gouri/internal/errorutil"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrEmptyInput     Error = "empty input"
	ErrMalformedInput Error = "malformed input"
)

func newMalformedInputErr(args ...any) error {
	return errorutil.NewWrapperError(ErrMalformedInput, args...) //errtrace:skip
}

// ValidateEscaped checks that s contains only chars matched by the isValid
// callback, non-ASCII bytes or well-formed pct-encoded triplets.
func ValidateEscaped[T constraints.Byteseq](s T, isValid func(c byte) bool) error {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '%' {
			if i+2 >= len(s) || !ishex(s[i+1]) || !ishex(s[i+2]) {
				return errtrace.Wrap(newMalformedInputErr("malformed pct-encoded sequence at position %d", i))
			}
			i += 2
			continue
		}
		if c < 0x80 && !isValid(c) {
			return errtrace.Wrap(newMalformedInputErr("invalid character %q at position %d", c, i))
		}
	}
	return nil
}

// ValidateComponent checks that s holds no ASCII control chars.
// It is the loose validation applied to components that re-encode
// forbidden chars on rendering.
func ValidateComponent[T constraints.Byteseq](s T) error {
	for i := 0; i < len(s); i++ {
		if c := s[i]; c < 0x20 || c == 0x7f {
			return errtrace.Wrap(newMalformedInputErr("control character %q at position %d", c, i))
		}
	}
	return nil
}

// ValidateZoneID checks a decoded IPv6 zone identifier:
// it must be a non-empty sequence of printable ASCII chars excluding gen-delims.
func ValidateZoneID[T constraints.Byteseq](s T) error {
	if len(s) == 0 {
		return errtrace.Wrap(ErrEmptyInput)
	}
	for i := 0; i < len(s); i++ {
		if !IsZoneIDChar(s[i]) {
			return errtrace.Wrap(newMalformedInputErr("invalid character %q at position %d", s[i], i))
		}
	}
	return nil
}
