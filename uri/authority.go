package uri

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gouri/internal/ioutil"
	"github.com/ghettovoice/gouri/internal/util"
)

// Authority represents the URI authority component composed of optional
// userinfo, host and port.
//
// An empty but present authority ("file:///") holds an empty host and is
// distinct from an absent one. The zero value is the undefined authority.
type Authority struct {
	userinfo UserInfo
	host     Host
	port     Port
	defined  bool
}

// ParseAuthority parses an authority from the given input src
// (string or []byte). The input goes without the leading "//" marker.
// The input is split on the first '@' into userinfo and host-port, the
// latter is split on the port ':' with IPv6 brackets taken into account.
// An empty port token after ':' counts as an absent port.
func ParseAuthority[T ~string | ~[]byte](src T) (Authority, error) {
	s := string(src)
	a := Authority{defined: true}

	rest := s
	if i := strings.IndexByte(s, '@'); i >= 0 {
		ui, err := ParseUserInfo(s[:i])
		if err != nil {
			return Authority{}, errtrace.Wrap(err)
		}
		a.userinfo = ui
		rest = s[i+1:]
	}

	hostTok, portTok, hasPort := splitHostPort(rest)
	h, err := ParseHost(hostTok)
	if err != nil {
		return Authority{}, errtrace.Wrap(err)
	}
	a.host = h
	if hasPort && portTok != "" {
		p, err := ParsePort(portTok)
		if err != nil {
			return Authority{}, errtrace.Wrap(err)
		}
		a.port = p
	}
	return a, nil
}

// splitHostPort splits "host[:port]" on the port delimiter. A bracketed
// host may hold colons, so the delimiter is looked up after the closing
// bracket first.
func splitHostPort(s string) (host, port string, hasPort bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] != ']' {
			continue
		}
		rest := s[i+1:]
		if rest == "" {
			return s, "", false
		}
		if rest[0] == ':' {
			return s[:i+1], rest[1:], true
		}
	}
	if i := strings.IndexByte(s, ':'); i >= 0 {
		return s[:i], s[i+1:], true
	}
	return s, "", false
}

// AuthorityFrom creates an authority from v.
// Accepted types: nil, string, []byte, [Component], [fmt.Stringer].
func AuthorityFrom(v any) (Authority, error) {
	s, ok, err := contentOf(v)
	if err != nil {
		return Authority{}, errtrace.Wrap(err)
	}
	if !ok {
		return Authority{}, nil
	}
	return errtrace.Wrap2(ParseAuthority(s))
}

// AuthorityFromComponents assembles an authority from separate userinfo,
// host and port values. Each value is resolved like [UserInfoFrom],
// [HostFrom] and [PortFrom] do, nil stands for an absent sub-component.
// A defined userinfo or port with an undefined host fails.
func AuthorityFromComponents(userinfo, host, port any) (Authority, error) {
	ui, err := UserInfoFrom(userinfo)
	if err != nil {
		return Authority{}, errtrace.Wrap(err)
	}
	h, err := HostFrom(host)
	if err != nil {
		return Authority{}, errtrace.Wrap(err)
	}
	p, err := PortFrom(port)
	if err != nil {
		return Authority{}, errtrace.Wrap(err)
	}
	a := Authority{userinfo: ui, host: h, port: p, defined: true}
	if err := a.validate(); err != nil {
		return Authority{}, errtrace.Wrap(err)
	}
	return a, nil
}

func (a Authority) validate() error {
	if (a.userinfo.Defined() || a.port.Defined()) && !a.host.Defined() {
		return newSyntaxErr("authority with userinfo or port requires a host") //errtrace:skip
	}
	return nil
}

// UserInfo returns the userinfo sub-component.
func (a Authority) UserInfo() UserInfo { return a.userinfo }

// Host returns the host sub-component.
func (a Authority) Host() Host { return a.host }

// Port returns the port sub-component.
func (a Authority) Port() Port { return a.port }

// Defined reports whether the authority is present.
func (a Authority) Defined() bool { return a.defined }

// Content returns the authority in RFC3986-encoded form,
// false when the authority is undefined.
func (a Authority) Content() (string, bool) {
	if !a.defined {
		return "", false
	}
	return a.Render(nil), true
}

// URIComponent returns the authority with its leading "//" marker,
// empty when the authority is undefined.
func (a Authority) URIComponent() string {
	if !a.defined {
		return ""
	}
	return "//" + a.Render(nil)
}

// Render returns the string representation of the authority.
func (a Authority) Render(opts *RenderOptions) string {
	if !a.defined {
		return ""
	}

	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)

	if a.userinfo.Defined() {
		sb.WriteString(a.userinfo.Render(opts))
		sb.WriteByte('@')
	}
	sb.WriteString(a.host.Render(opts))
	if a.port.Defined() {
		sb.WriteByte(':')
		sb.WriteString(a.port.Render(opts))
	}
	return sb.String()
}

// RenderTo writes the authority to the provided writer.
func (a Authority) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if !a.defined {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)

	if a.userinfo.Defined() {
		cw.Call(func(w io.Writer) (int, error) { return a.userinfo.RenderTo(w, opts) })
		cw.Fprint("@")
	}
	cw.Call(func(w io.Writer) (int, error) { return a.host.RenderTo(w, opts) })
	if a.port.Defined() {
		cw.Fprint(":")
		cw.Call(func(w io.Writer) (int, error) { return a.port.RenderTo(w, opts) })
	}
	return errtrace.Wrap2(cw.Result())
}

// String returns the string representation of the authority.
func (a Authority) String() string { return a.Render(nil) }

// Format implements fmt.Formatter for custom formatting of the authority.
func (a Authority) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, a.String())
	case 'q':
		fmt.Fprint(f, strconv.Quote(a.String()))
	default:
		type hideMethods Authority
		type Authority hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), Authority(a))
	}
}

// Equal compares this authority with another for equality.
func (a Authority) Equal(val any) bool {
	var other Authority
	switch v := val.(type) {
	case Authority:
		other = v
	case *Authority:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return a.defined == other.defined &&
		a.userinfo.Equal(other.userinfo) &&
		a.host.Equal(other.host) &&
		a.port.Equal(other.port)
}

// IsValid checks whether the authority and its sub-components are valid.
func (a Authority) IsValid() bool {
	return a.validate() == nil &&
		a.userinfo.IsValid() && a.host.IsValid() && a.port.IsValid()
}

// WithContent returns an authority with the given content.
// The receiver is returned unchanged when the new content equals the current one.
func (a Authority) WithContent(v any) (Authority, error) {
	a2, err := AuthorityFrom(v)
	if err != nil {
		return Authority{}, errtrace.Wrap(err)
	}
	if a.Equal(a2) {
		return a, nil
	}
	return a2, nil
}

// WithUserInfo returns an authority with the given user name and password.
// Accepted types are those of [UserInfoFrom], nil drops the userinfo.
// The receiver is returned unchanged when nothing changes.
func (a Authority) WithUserInfo(user, pass any) (Authority, error) {
	ui, err := UserInfo{}.WithUserInfo(user, pass)
	if err != nil {
		return Authority{}, errtrace.Wrap(err)
	}
	if a.userinfo.Equal(ui) {
		return a, nil
	}
	a2 := a
	a2.userinfo, a2.defined = ui, true
	if err := a2.validate(); err != nil {
		return Authority{}, errtrace.Wrap(err)
	}
	return a2, nil
}

// WithHost returns an authority with the given host.
// Accepted types are those of [HostFrom], nil drops the host.
// The receiver is returned unchanged when nothing changes.
func (a Authority) WithHost(host any) (Authority, error) {
	h, err := HostFrom(host)
	if err != nil {
		return Authority{}, errtrace.Wrap(err)
	}
	if a.host.Equal(h) {
		return a, nil
	}
	a2 := a
	a2.host, a2.defined = h, true
	if err := a2.validate(); err != nil {
		return Authority{}, errtrace.Wrap(err)
	}
	return a2, nil
}

// WithPort returns an authority with the given port.
// Accepted types are those of [PortFrom], nil drops the port.
// The receiver is returned unchanged when nothing changes.
func (a Authority) WithPort(port any) (Authority, error) {
	p, err := PortFrom(port)
	if err != nil {
		return Authority{}, errtrace.Wrap(err)
	}
	if a.port.Equal(p) {
		return a, nil
	}
	a2 := a
	a2.port, a2.defined = p, true
	if err := a2.validate(); err != nil {
		return Authority{}, errtrace.Wrap(err)
	}
	return a2, nil
}

// MarshalText implements [encoding.TextMarshaler].
func (a Authority) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
// An empty text produces the undefined authority.
func (a *Authority) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*a = Authority{}
		return nil
	}
	a1, err := ParseAuthority(text)
	if err != nil {
		*a = Authority{}
		return errtrace.Wrap(err)
	}
	*a = a1
	return nil
}
