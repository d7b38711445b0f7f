package grammar

import (
	"net/netip"

	"github.com/ghettovoice/gouri/internal/constraints"
)

// IsIPv4 reports whether s is a valid dotted-quad IPv4 literal.
func IsIPv4[T constraints.Byteseq](s T) bool {
	addr, err := netip.ParseAddr(string(s))
	return err == nil && addr.Is4()
}

// IsIPv6 reports whether s is a valid IPv6 address literal without a zone.
func IsIPv6[T constraints.Byteseq](s T) bool {
	addr, err := netip.ParseAddr(string(s))
	return err == nil && addr.Is6() && addr.Zone() == ""
}

// IsLinkLocalIPv6 reports whether s is an IPv6 address within the fe80::/10 block.
func IsLinkLocalIPv6[T constraints.Byteseq](s T) bool {
	addr, err := netip.ParseAddr(string(s))
	return err == nil && addr.Is6() && addr.IsLinkLocalUnicast()
}

// SplitZone splits an IPv6 literal on the first '%' into the address part
// and the raw zone identifier. ok is false when there is no '%'.
func SplitZone[T constraints.Byteseq](s T) (addr, zone T, ok bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == '%' {
			return s[:i], s[i+1:], true
		}
	}
	return s, s[len(s):], false
}

// IPvFutureVersion returns the hex version string of an IPvFuture literal
// matching "v" 1*HEXDIG "." 1*( unreserved / sub-delims / ":" ).
func IPvFutureVersion[T constraints.Byteseq](s T) (T, bool) {
	if len(s) < 4 || (s[0] != 'v' && s[0] != 'V') {
		return s[:0], false
	}
	i := 1
	for ; i < len(s) && ishex(s[i]); i++ {
	}
	if i == 1 || i >= len(s)-1 || s[i] != '.' {
		return s[:0], false
	}
	for j := i + 1; j < len(s); j++ {
		if c := s[j]; !IsCharUnreserved(c) && !IsSubDelimChar(c) && c != ':' {
			return s[:0], false
		}
	}
	return s[1:i], true
}
