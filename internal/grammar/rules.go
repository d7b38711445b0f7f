package grammar

import "github.com/ghettovoice/gouri/internal/constraints"

// IsAlphaChar checks ALPHA rule.
func IsAlphaChar(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

// IsDigitChar checks DIGIT rule.
func IsDigitChar(c byte) bool {
	return '0' <= c && c <= '9'
}

// IsAlphanumChar checks alphanum rule.
func IsAlphanumChar(c byte) bool {
	return IsAlphaChar(c) || IsDigitChar(c)
}

// IsHexDigitChar checks HEXDIG rule.
func IsHexDigitChar(c byte) bool {
	return ishex(c)
}

var unreservedChars = map[byte]bool{
	'-': true,
	'.': true,
	'_': true,
	'~': true,
}

// IsCharUnreserved checks on unreserved rule.
func IsCharUnreserved(c byte) bool {
	return unreservedChars[c] || IsAlphanumChar(c)
}

var genDelimChars = map[byte]bool{
	':': true,
	'/': true,
	'?': true,
	'#': true,
	'[': true,
	']': true,
	'@': true,
}

// IsGenDelimChar checks on gen-delims rule.
func IsGenDelimChar(c byte) bool {
	return genDelimChars[c]
}

var subDelimChars = map[byte]bool{
	'!':  true,
	'$':  true,
	'&':  true,
	'\'': true,
	'(':  true,
	')':  true,
	'*':  true,
	'+':  true,
	',':  true,
	';':  true,
	'=':  true,
}

// IsSubDelimChar checks on sub-delims rule.
func IsSubDelimChar(c byte) bool {
	return subDelimChars[c]
}

// IsReservedChar checks on reserved rule.
func IsReservedChar(c byte) bool {
	return genDelimChars[c] || subDelimChars[c]
}

var schemeChars = map[byte]bool{
	'+': true,
	'-': true,
	'.': true,
}

// IsSchemeChar checks chars allowed in a scheme after the first one.
func IsSchemeChar(c byte) bool {
	return schemeChars[c] || IsAlphanumChar(c)
}

// IsScheme checks the scheme rule: ALPHA *( ALPHA / DIGIT / "+" / "-" / "." ).
func IsScheme[T constraints.Byteseq](s T) bool {
	if len(s) == 0 || !IsAlphaChar(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !IsSchemeChar(s[i]) {
			return false
		}
	}
	return true
}

// IsUserChar checks chars the user part of userinfo may hold unescaped.
func IsUserChar(c byte) bool {
	return IsCharUnreserved(c) || IsSubDelimChar(c)
}

// IsUserInfoChar checks the userinfo rule.
func IsUserInfoChar(c byte) bool {
	return IsUserChar(c) || c == ':'
}

// IsRegNameChar checks the reg-name rule.
func IsRegNameChar(c byte) bool {
	return IsCharUnreserved(c) || IsSubDelimChar(c)
}

// IsPChar checks the pchar rule.
func IsPChar(c byte) bool {
	return IsCharUnreserved(c) || IsSubDelimChar(c) || c == ':' || c == '@'
}

// IsPathChar checks chars allowed in a path.
func IsPathChar(c byte) bool {
	return IsPChar(c) || c == '/'
}

// IsQueryChar checks the query rule.
func IsQueryChar(c byte) bool {
	return IsPChar(c) || c == '/' || c == '?'
}

// IsFragmentChar checks the fragment rule.
func IsFragmentChar(c byte) bool {
	return IsQueryChar(c)
}

var queryDelimChars = map[byte]bool{
	'&': true,
	';': true,
	'=': true,
}

// IsQueryKeyChar checks chars a query pair key may hold unescaped.
func IsQueryKeyChar(c byte) bool {
	return !queryDelimChars[c] && IsQueryChar(c)
}

// IsQueryValueChar checks chars a query pair value may hold unescaped.
func IsQueryValueChar(c byte) bool {
	return (c == '=' || !queryDelimChars[c]) && IsQueryChar(c)
}

var tokenChars = map[byte]bool{
	'!':  true,
	'#':  true,
	'$':  true,
	'%':  true,
	'&':  true,
	'\'': true,
	'*':  true,
	'+':  true,
	'-':  true,
	'.':  true,
	'^':  true,
	'_':  true,
	'`':  true,
	'|':  true,
	'~':  true,
}

// IsTokenChar checks the RFC2045 token rule used by data mediatype parameters.
func IsTokenChar(c byte) bool {
	return tokenChars[c] || IsAlphanumChar(c)
}

// IsZoneIDChar checks chars allowed in a decoded IPv6 zone identifier.
func IsZoneIDChar(c byte) bool {
	return 0x21 <= c && c <= 0x7e && !genDelimChars[c]
}
