package uri

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"braces.dev/errtrace"
	"github.com/miekg/dns"
	"golang.org/x/text/unicode/norm"

	"github.com/ghettovoice/gouri/internal/errorutil"
	"github.com/ghettovoice/gouri/internal/grammar"
	"github.com/ghettovoice/gouri/internal/util"
)

// HostKind enumerates the literal forms a host can take.
type HostKind int

const (
	// HostUndefined is the kind of the zero value host.
	HostUndefined HostKind = iota
	// HostEmpty is a present but empty host ("file:///etc/hosts").
	HostEmpty
	// HostIPv4 is a dotted-quad IPv4 literal.
	HostIPv4
	// HostIPv6 is a bracketed IPv6 literal, optionally zoned.
	HostIPv6
	// HostIPvFuture is a bracketed future IP version literal.
	HostIPvFuture
	// HostDomain is a dot-separated domain name.
	HostDomain
	// HostRegName is a registered name that is not a domain name.
	HostRegName
)

// String returns the name of the host kind.
func (k HostKind) String() string {
	switch k {
	case HostUndefined:
		return "undefined"
	case HostEmpty:
		return "empty"
	case HostIPv4:
		return "ipv4"
	case HostIPv6:
		return "ipv6"
	case HostIPvFuture:
		return "ipvfuture"
	case HostDomain:
		return "domain"
	case HostRegName:
		return "regname"
	default:
		return "unknown(" + strconv.Itoa(int(k)) + ")"
	}
}

// Host represents the URI host component: a domain name, a registered name
// or an IP literal.
//
// The content is stored in its canonical ASCII form: names are pct-decoded,
// lowercased and, when they hold non-ASCII chars, converted to punycode via
// IDNA, IP literals keep their brackets with the zone identifier attached in
// the RFC6874 "%25" form. The zero value is the undefined host.
type Host struct {
	content string
	labels  []string
	version string
	kind    HostKind
	hasZone bool
}

// ParseHost parses a host from the given input src (string or []byte)
// using [DefaultIDNACodec] for internationalized names.
func ParseHost[T ~string | ~[]byte](src T) (Host, error) {
	return errtrace.Wrap2(parseHost(string(src), DefaultIDNACodec()))
}

// ParseHostWithCodec parses a host like [ParseHost] does, converting
// internationalized names with the provided codec.
func ParseHostWithCodec[T ~string | ~[]byte](src T, codec IDNACodec) (Host, error) {
	return errtrace.Wrap2(parseHost(string(src), codec))
}

// HostFrom creates a host from v.
// Accepted types: nil, string, []byte, [Component], [fmt.Stringer].
func HostFrom(v any) (Host, error) {
	s, ok, err := contentOf(v)
	if err != nil {
		return Host{}, errtrace.Wrap(err)
	}
	if !ok {
		return Host{}, nil
	}
	return errtrace.Wrap2(ParseHost(s))
}

func parseHost(s string, codec IDNACodec) (Host, error) {
	if s == "" {
		return Host{kind: HostEmpty}, nil
	}
	if grammar.IsIPv4(s) {
		return Host{content: s, kind: HostIPv4, version: "4"}, nil
	}
	if len(s) >= 2 && s[0] == '[' && s[len(s)-1] == ']' {
		return errtrace.Wrap2(parseIPLiteral(s[1 : len(s)-1]))
	}
	return errtrace.Wrap2(parseHostName(s, codec))
}

func parseIPLiteral(inner string) (Host, error) {
	if addr, zone, ok := grammar.SplitZone(inner); ok {
		if !grammar.IsLinkLocalIPv6(addr) {
			return Host{}, errtrace.Wrap(newSyntaxErr("zoned IP literal %q is not a link-local IPv6 address", inner))
		}
		zoneDec := string(grammar.Unescape(strings.TrimPrefix(zone, "25")))
		if err := grammar.ValidateZoneID(zoneDec); err != nil {
			return Host{}, errtrace.Wrap(newSyntaxErr("zone of IP literal %q: %v", inner, err))
		}
		content := "[" + util.LCase(addr) + "%25" + string(grammar.EscapeAll(zoneDec, nil)) + "]"
		return Host{content: content, kind: HostIPv6, version: "6", hasZone: true}, nil
	}
	if grammar.IsIPv6(inner) {
		return Host{content: "[" + util.LCase(inner) + "]", kind: HostIPv6, version: "6"}, nil
	}
	if v, ok := grammar.IPvFutureVersion(inner); ok {
		ver := util.LCase(v)
		if ver == "4" || ver == "6" {
			return Host{}, errtrace.Wrap(newSyntaxErr("IP literal %q mimics version %s", inner, ver))
		}
		return Host{content: "[" + util.LCase(inner) + "]", kind: HostIPvFuture, version: ver}, nil
	}
	return Host{}, errtrace.Wrap(newSyntaxErr("invalid IP literal %q", inner))
}

func parseHostName(s string, codec IDNACodec) (Host, error) {
	dec := string(grammar.Unescape(s))
	if util.IsASCII(dec) {
		if err := grammar.ValidateEscaped(dec, grammar.IsRegNameChar); err != nil {
			return Host{}, errtrace.Wrap(newSyntaxErr("host %q: %v", s, err))
		}
		return hostFromName(util.LCase(dec)), nil
	}

	// Internationalized name: NFC normalize, then convert to the ACE form.
	ascii, err := codec.ToASCII(norm.NFC.String(dec))
	if err != nil {
		return Host{}, errtrace.Wrap(newSyntaxErr(errorutil.NewWrapperError(ErrIDNA, err)))
	}
	return hostFromName(util.LCase(ascii)), nil
}

func hostFromName(name string) Host {
	if isDomainName(name) {
		return Host{content: name, kind: HostDomain, labels: domainLabels(name)}
	}
	return Host{content: name, kind: HostRegName}
}

func isDomainName(s string) bool {
	if _, ok := dns.IsDomainName(s); !ok {
		return false
	}
	for _, l := range strings.Split(strings.TrimSuffix(s, "."), ".") {
		if !isLDHLabel(l) {
			return false
		}
	}
	return true
}

// isLDHLabel checks the letter-digit-hyphen label rule of RFC1034 section 3.5,
// relaxed to allow digits first per RFC1123.
func isLDHLabel(s string) bool {
	if len(s) == 0 || len(s) > 63 {
		return false
	}
	if !grammar.IsAlphanumChar(s[0]) || !grammar.IsAlphanumChar(s[len(s)-1]) {
		return false
	}
	for i := 1; i < len(s)-1; i++ {
		if c := s[i]; !grammar.IsAlphanumChar(c) && c != '-' {
			return false
		}
	}
	return true
}

// domainLabels splits a domain into its labels, reversed so that offset 0
// is the rightmost label. An absolute domain gets the empty root label first.
func domainLabels(s string) []string {
	ls := strings.Split(s, ".")
	slices.Reverse(ls)
	return ls
}

// Kind returns the host kind.
func (h Host) Kind() HostKind { return h.kind }

// Defined reports whether the host is present.
func (h Host) Defined() bool { return h.kind != HostUndefined }

// IsIP reports whether the host is an IP literal of any version.
func (h Host) IsIP() bool {
	return h.kind == HostIPv4 || h.kind == HostIPv6 || h.kind == HostIPvFuture
}

// IsIPv4 reports whether the host is an IPv4 literal.
func (h Host) IsIPv4() bool { return h.kind == HostIPv4 }

// IsIPv6 reports whether the host is an IPv6 literal.
func (h Host) IsIPv6() bool { return h.kind == HostIPv6 }

// IsIPvFuture reports whether the host is a future IP version literal.
func (h Host) IsIPvFuture() bool { return h.kind == HostIPvFuture }

// IsDomain reports whether the host is a domain name.
func (h Host) IsDomain() bool { return h.kind == HostDomain }

// IsRegisteredName reports whether the host is a registered name,
// domain names included.
func (h Host) IsRegisteredName() bool {
	return h.kind == HostDomain || h.kind == HostRegName || h.kind == HostEmpty
}

// IsAbsolute reports whether the host is a fully qualified domain name
// carrying the root dot.
func (h Host) IsAbsolute() bool {
	return h.kind == HostDomain && dns.IsFqdn(h.content)
}

// HasZone reports whether the host is an IPv6 literal with a zone identifier.
func (h Host) HasZone() bool { return h.hasZone }

// IPVersion returns the IP version token: "4", "6" or the hex version of an
// IPvFuture literal. ok is false when the host is not an IP literal.
func (h Host) IPVersion() (string, bool) {
	return h.version, h.version != ""
}

// IP returns the IP address without brackets. A zone identifier is attached
// in the decoded "addr%zone" form, an IPvFuture address goes without its
// version prefix. Non-IP hosts return the empty string.
func (h Host) IP() string {
	switch h.kind {
	case HostIPv4:
		return h.content
	case HostIPv6:
		inner := h.content[1 : len(h.content)-1]
		addr, _, ok := grammar.SplitZone(inner)
		if !ok {
			return inner
		}
		zone, _ := h.Zone()
		return addr + "%" + zone
	case HostIPvFuture:
		inner := h.content[1 : len(h.content)-1]
		if i := strings.IndexByte(inner, '.'); i >= 0 {
			return inner[i+1:]
		}
		return inner
	default:
		return ""
	}
}

// Zone returns the decoded IPv6 zone identifier, false when there is none.
func (h Host) Zone() (string, bool) {
	if !h.hasZone {
		return "", false
	}
	_, zone, _ := grammar.SplitZone(h.content[1 : len(h.content)-1])
	return string(grammar.Unescape(strings.TrimPrefix(zone, "25"))), true
}

// Unicode returns the host with punycoded labels converted back to their
// Unicode form. Hosts without the "xn--" ACE prefix are returned as-is.
func (h Host) Unicode() (string, error) {
	if !strings.Contains(h.content, "xn--") {
		return h.content, nil
	}
	u, err := DefaultIDNACodec().ToUnicode(h.content)
	if err != nil {
		return "", errtrace.Wrap(errorutil.NewWrapperError(ErrIDNA, err))
	}
	return u, nil
}

// Labels returns the domain labels, reversed so that offset 0 is the
// rightmost label. An absolute domain holds the empty root label at offset 0.
// Non-domain hosts return nil.
func (h Host) Labels() []string {
	return slices.Clone(h.labels)
}

// Label returns the domain label at the given offset, counting from the
// rightmost label. Negative offsets count from the leftmost label backwards.
// ok is false when the offset is out of range or the host is not a domain.
func (h Host) Label(offset int) (string, bool) {
	if offset < 0 {
		offset += len(h.labels)
	}
	if offset < 0 || offset >= len(h.labels) {
		return "", false
	}
	return h.labels[offset], true
}

// LabelCount returns the number of domain labels, the root label included.
func (h Host) LabelCount() int { return len(h.labels) }

// Content returns the canonical ASCII form of the host,
// false when the host is undefined.
func (h Host) Content() (string, bool) {
	if h.kind == HostUndefined {
		return "", false
	}
	return h.content, true
}

// URIComponent returns the host as it appears inside an authority,
// empty when the host is undefined.
func (h Host) URIComponent() string {
	return h.content
}

// Render returns the string representation of the host.
// The RFC3987 mode renders domain names in their Unicode form.
func (h Host) Render(opts *RenderOptions) string {
	if renderMode(opts) == EncodingRFC3987 && h.kind == HostDomain {
		if u, err := h.Unicode(); err == nil {
			return u
		}
	}
	return h.content
}

// RenderTo writes the host to the provided writer.
func (h Host) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if h.content == "" {
		return 0, nil
	}
	return errtrace.Wrap2(io.WriteString(w, h.Render(opts)))
}

// String returns the string representation of the host.
func (h Host) String() string { return h.Render(nil) }

// Format implements fmt.Formatter for custom formatting of the host.
func (h Host) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, h.String())
	case 'q':
		fmt.Fprint(f, strconv.Quote(h.String()))
	default:
		type hideMethods Host
		type Host hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), Host(h))
	}
}

// Equal compares this host with another for equality.
func (h Host) Equal(val any) bool {
	var other Host
	switch v := val.(type) {
	case Host:
		other = v
	case *Host:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return h.content == other.content && h.kind == other.kind
}

// IsValid checks whether the host content matches its kind.
func (h Host) IsValid() bool {
	switch h.kind {
	case HostUndefined, HostEmpty:
		return h.content == ""
	case HostIPv4:
		return grammar.IsIPv4(h.content)
	case HostIPv6, HostIPvFuture:
		h2, err := parseIPLiteral(strings.Trim(h.content, "[]"))
		return err == nil && h2.kind == h.kind
	case HostDomain:
		return isDomainName(h.content)
	case HostRegName:
		return util.IsASCII(h.content) && grammar.ValidateEscaped(h.content, grammar.IsRegNameChar) == nil
	default:
		return false
	}
}

// WithContent returns a host with the given content.
// The receiver is returned unchanged when the new content equals the current one.
func (h Host) WithContent(v any) (Host, error) {
	h2, err := HostFrom(v)
	if err != nil {
		return Host{}, errtrace.Wrap(err)
	}
	if h.Equal(h2) {
		return h, nil
	}
	return h2, nil
}

// WithLabel returns a host with the domain label at the given offset replaced.
// Offsets count from the rightmost label, negative ones from the leftmost
// backwards. The offset equal to [Host.LabelCount] inserts a new leftmost
// label, -(count+1) inserts a new rightmost one.
// Domain name operations fail on IP and opaque registered name hosts.
func (h Host) WithLabel(offset int, label any) (Host, error) {
	if err := h.requireDomain(); err != nil {
		return Host{}, errtrace.Wrap(err)
	}
	s, ok, err := contentOf(label)
	if err != nil {
		return Host{}, errtrace.Wrap(err)
	}
	if !ok {
		return Host{}, errtrace.Wrap(errorutil.NewInvalidArgumentError("nil label"))
	}

	n := len(h.labels)
	ls := slices.Clone(h.labels)
	switch {
	case 0 <= offset && offset < n:
		ls[offset] = s
	case offset == n:
		ls = append(ls, s)
	case -n <= offset && offset < 0:
		ls[offset+n] = s
	case offset == -(n + 1):
		ls = slices.Insert(ls, 0, s)
	default:
		return Host{}, errtrace.Wrap(newRangeErr("label offset %d is out of [%d, %d]", offset, -(n + 1), n))
	}
	return errtrace.Wrap2(h.withLabels(ls))
}

// WithoutLabels returns a host with the domain labels at the given offsets
// removed. Duplicate offsets collapse, out of range ones fail.
// Domain name operations fail on IP and opaque registered name hosts.
func (h Host) WithoutLabels(offsets ...int) (Host, error) {
	if err := h.requireDomain(); err != nil {
		return Host{}, errtrace.Wrap(err)
	}

	n := len(h.labels)
	drop := make(map[int]bool, len(offsets))
	for _, o := range offsets {
		i := o
		if i < 0 {
			i += n
		}
		if i < 0 || i >= n {
			return Host{}, errtrace.Wrap(newRangeErr("label offset %d is out of [%d, %d]", o, -n, n-1))
		}
		drop[i] = true
	}
	if len(drop) == 0 {
		return h, nil
	}

	ls := make([]string, 0, n-len(drop))
	for i, l := range h.labels {
		if !drop[i] {
			ls = append(ls, l)
		}
	}
	return errtrace.Wrap2(h.withLabels(ls))
}

// PrependLabel returns a host with the given label attached on the left.
// A nil label is a no-op.
// Domain name operations fail on IP and opaque registered name hosts.
func (h Host) PrependLabel(label any) (Host, error) {
	if err := h.requireDomain(); err != nil {
		return Host{}, errtrace.Wrap(err)
	}
	s, ok, err := contentOf(label)
	if err != nil {
		return Host{}, errtrace.Wrap(err)
	}
	if !ok {
		return h, nil
	}
	if h.content == "" {
		return errtrace.Wrap2(h.reparseDomain(s))
	}
	return errtrace.Wrap2(h.reparseDomain(s + "." + h.content))
}

// AppendLabel returns a host with the given label attached on the right,
// before the root label of an absolute domain. A nil label is a no-op.
// Domain name operations fail on IP and opaque registered name hosts.
func (h Host) AppendLabel(label any) (Host, error) {
	if err := h.requireDomain(); err != nil {
		return Host{}, errtrace.Wrap(err)
	}
	s, ok, err := contentOf(label)
	if err != nil {
		return Host{}, errtrace.Wrap(err)
	}
	if !ok {
		return h, nil
	}
	switch {
	case h.content == "":
		return errtrace.Wrap2(h.reparseDomain(s))
	case dns.IsFqdn(h.content):
		return errtrace.Wrap2(h.reparseDomain(h.content[:len(h.content)-1] + "." + s + "."))
	default:
		return errtrace.Wrap2(h.reparseDomain(h.content + "." + s))
	}
}

// WithRootLabel returns an absolute host carrying the root dot.
// Domain name operations fail on IP and opaque registered name hosts.
func (h Host) WithRootLabel() (Host, error) {
	if h.kind != HostDomain {
		return Host{}, errtrace.Wrap(newSyntaxErr(newNotDomainErr("%q", h.content)))
	}
	if dns.IsFqdn(h.content) {
		return h, nil
	}
	return errtrace.Wrap2(h.reparseDomain(dns.Fqdn(h.content)))
}

// WithoutRootLabel returns a host with the root dot removed.
// Domain name operations fail on IP and opaque registered name hosts.
func (h Host) WithoutRootLabel() (Host, error) {
	if h.kind != HostDomain {
		return Host{}, errtrace.Wrap(newSyntaxErr(newNotDomainErr("%q", h.content)))
	}
	if !dns.IsFqdn(h.content) {
		return h, nil
	}
	return errtrace.Wrap2(h.reparseDomain(strings.TrimSuffix(h.content, ".")))
}

// WithoutZone returns a host with the IPv6 zone identifier removed.
// Hosts without a zone are returned unchanged.
func (h Host) WithoutZone() Host {
	if !h.hasZone {
		return h
	}
	addr, _, _ := grammar.SplitZone(h.content[1 : len(h.content)-1])
	return Host{content: "[" + addr + "]", kind: HostIPv6, version: "6"}
}

func (h Host) requireDomain() error {
	switch h.kind {
	case HostUndefined, HostEmpty, HostDomain:
		return nil
	default:
		return newSyntaxErr(newNotDomainErr("%q", h.content)) //errtrace:skip
	}
}

func (h Host) withLabels(ls []string) (Host, error) {
	if len(ls) == 0 {
		return Host{kind: HostEmpty}, nil
	}
	rev := slices.Clone(ls)
	slices.Reverse(rev)
	return errtrace.Wrap2(h.reparseDomain(strings.Join(rev, ".")))
}

// reparseDomain rebuilds a host from a domain name candidate and checks the
// result still is a domain: an empty or malformed label would silently
// degrade the host into an opaque registered name.
func (h Host) reparseDomain(name string) (Host, error) {
	h2, err := ParseHost(name)
	if err != nil {
		return Host{}, errtrace.Wrap(err)
	}
	if h2.kind != HostDomain {
		return Host{}, errtrace.Wrap(newSyntaxErr(newNotDomainErr("%q", name)))
	}
	return h2, nil
}

// MarshalText implements [encoding.TextMarshaler].
func (h Host) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
// An empty text produces the undefined host.
func (h *Host) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*h = Host{}
		return nil
	}
	h1, err := ParseHost(text)
	if err != nil {
		*h = Host{}
		return errtrace.Wrap(err)
	}
	*h = h1
	return nil
}
