package uri

//go:generate go tool mockgen -destination ../internal/testutil/idnamock/idnamock.go -package idnamock . IDNACodec

import (
	"braces.dev/errtrace"
	"golang.org/x/net/idna"
)

// IDNACodec converts internationalized domain names between their Unicode
// and ASCII (ACE) forms. [ParseHostWithCodec] accepts a custom codec,
// the other constructors use [DefaultIDNACodec].
type IDNACodec interface {
	// ToASCII converts a Unicode domain name to its punycode ASCII form.
	ToASCII(domain string) (string, error)
	// ToUnicode converts an ASCII (ACE) domain name back to Unicode.
	ToUnicode(domain string) (string, error)
}

// DefaultIDNACodec returns the package default [IDNACodec] built on the
// golang.org/x/net/idna UTS46 lookup rules.
func DefaultIDNACodec() IDNACodec { return idnaCodec{} }

// UTS46 lookup profiles. DNS length checks are off: hosts are URI
// components, not necessarily resolvable names.
var (
	idnaToASCII = idna.New(
		idna.MapForLookup(),
		idna.CheckHyphens(true),
		idna.CheckJoiners(true),
		idna.BidiRule(),
		idna.ValidateLabels(true),
		idna.VerifyDNSLength(false),
	)
	idnaToUnicode = idna.New(
		idna.MapForLookup(),
		idna.CheckHyphens(false),
		idna.CheckJoiners(true),
		idna.BidiRule(),
		idna.ValidateLabels(false),
	)
)

type idnaCodec struct{}

func (idnaCodec) ToASCII(domain string) (string, error) {
	return errtrace.Wrap2(idnaToASCII.ToASCII(domain))
}

func (idnaCodec) ToUnicode(domain string) (string, error) {
	return errtrace.Wrap2(idnaToUnicode.ToUnicode(domain))
}
