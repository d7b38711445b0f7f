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

// Reference is a decomposed URI reference, the five components of
// RFC3986 appendix B with absent and empty kept distinct.
//
// A Reference only decomposes and recomposes, it does not resolve
// against a base. The zero value is the empty relative reference.
type Reference struct {
	scheme    Scheme
	authority Authority
	path      Path
	query     Query
	fragment  Fragment
}

// Split cracks a URI reference from the given input src (string or []byte)
// into its components. Scanning follows the appendix B decomposition,
// the fragment goes after the first '#', the query after the first '?'
// before it, the scheme before the first ':' not preceded by '/', '?'
// or '#', an authority after a leading "//".
// Every component then goes through its own parser.
func Split[T ~string | ~[]byte](src T) (Reference, error) {
	var (
		r   Reference
		err error
	)
	s := string(src)

	if i := strings.IndexByte(s, '#'); i >= 0 {
		if r.fragment, err = ParseFragment(s[i+1:]); err != nil {
			return Reference{}, errtrace.Wrap(err)
		}
		s = s[:i]
	}
	if i := strings.IndexByte(s, '?'); i >= 0 {
		if r.query, err = ParseQuery(s[i+1:]); err != nil {
			return Reference{}, errtrace.Wrap(err)
		}
		s = s[:i]
	}
	if i := strings.IndexAny(s, ":/"); i >= 0 && s[i] == ':' && i > 0 {
		if r.scheme, err = ParseScheme(s[:i]); err != nil {
			return Reference{}, errtrace.Wrap(err)
		}
		s = s[i+1:]
	}
	if rest, found := strings.CutPrefix(s, "//"); found {
		auth := rest
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			auth, s = rest[:i], rest[i:]
		} else {
			s = ""
		}
		if r.authority, err = ParseAuthority(auth); err != nil {
			return Reference{}, errtrace.Wrap(err)
		}
	}
	if r.path, err = ParsePath(s); err != nil {
		return Reference{}, errtrace.Wrap(err)
	}

	if err = r.validate(); err != nil {
		return Reference{}, errtrace.Wrap(err)
	}
	return r, nil
}

// ReferenceFrom creates a reference from v.
// Accepted types: nil, string, []byte, [Component], [fmt.Stringer].
// A nil value produces the empty relative reference.
func ReferenceFrom(v any) (Reference, error) {
	s, ok, err := contentOf(v)
	if err != nil {
		return Reference{}, errtrace.Wrap(err)
	}
	if !ok {
		return Reference{}, nil
	}
	return errtrace.Wrap2(Split(s))
}

// validate checks the cross-component constraints a reference must hold
// to recompose without changing meaning.
func (r Reference) validate() error {
	if r.authority.Defined() {
		if p := r.path.Render(nil); p != "" && !r.path.IsAbsolute() {
			return newSyntaxErr("path %q must be empty or absolute when an authority is present", p)
		}
		return nil
	}
	p := r.path.Render(nil)
	if strings.HasPrefix(p, "//") {
		return newSyntaxErr("path %q must not start with %q when no authority is present", p, "//")
	}
	if !r.scheme.Defined() {
		if seg, _, _ := strings.Cut(p, "/"); strings.Contains(seg, ":") {
			return newSyntaxErr("the first segment of the relative path %q must not hold a colon", p)
		}
	}
	return nil
}

// Scheme returns the scheme component.
func (r Reference) Scheme() Scheme { return r.scheme }

// Authority returns the authority component.
func (r Reference) Authority() Authority { return r.authority }

// UserInfo returns the userinfo component of the authority.
func (r Reference) UserInfo() UserInfo { return r.authority.UserInfo() }

// Host returns the host component of the authority.
func (r Reference) Host() Host { return r.authority.Host() }

// Port returns the port component of the authority.
func (r Reference) Port() Port { return r.authority.Port() }

// Path returns the path component.
func (r Reference) Path() Path { return r.path }

// HierarchicalPath returns the path component split into segments.
func (r Reference) HierarchicalPath() (HierarchicalPath, error) {
	return errtrace.Wrap2(ParseHierarchicalPath(r.path.Render(nil)))
}

// Query returns the query component.
func (r Reference) Query() Query { return r.query }

// Fragment returns the fragment component.
func (r Reference) Fragment() Fragment { return r.fragment }

// IsAbsolute reports whether the reference is an absolute URI,
// a scheme is present and a fragment is not.
func (r Reference) IsAbsolute() bool {
	return r.scheme.Defined() && !r.fragment.Defined()
}

// IsNetworkPath reports whether the reference is a network-path reference,
// no scheme but an authority.
func (r Reference) IsNetworkPath() bool {
	return !r.scheme.Defined() && r.authority.Defined()
}

// IsAbsolutePath reports whether the reference is an absolute-path
// reference, no scheme, no authority, a path starting with '/'.
func (r Reference) IsAbsolutePath() bool {
	return !r.scheme.Defined() && !r.authority.Defined() && r.path.IsAbsolute()
}

// IsRelativePath reports whether the reference is a relative-path
// reference, no scheme, no authority, no leading '/'.
func (r Reference) IsRelativePath() bool {
	return !r.scheme.Defined() && !r.authority.Defined() && !r.path.IsAbsolute()
}

// WithScheme returns a reference with the scheme component replaced.
// A nil value removes it.
func (r Reference) WithScheme(v any) (Reference, error) {
	s, err := SchemeFrom(v)
	if err != nil {
		return Reference{}, errtrace.Wrap(err)
	}
	r.scheme = s
	if err = r.validate(); err != nil {
		return Reference{}, errtrace.Wrap(err)
	}
	return r, nil
}

// WithAuthority returns a reference with the authority component replaced.
// A nil value removes it.
func (r Reference) WithAuthority(v any) (Reference, error) {
	a, err := AuthorityFrom(v)
	if err != nil {
		return Reference{}, errtrace.Wrap(err)
	}
	r.authority = a
	if err = r.validate(); err != nil {
		return Reference{}, errtrace.Wrap(err)
	}
	return r, nil
}

// WithUserInfo returns a reference with the userinfo of the authority
// replaced. Removing the last defined authority component removes the
// authority itself.
func (r Reference) WithUserInfo(user, pass any) (Reference, error) {
	a, err := r.authority.WithUserInfo(user, pass)
	if err != nil {
		return Reference{}, errtrace.Wrap(err)
	}
	return errtrace.Wrap2(r.withNormalizedAuthority(a))
}

// WithHost returns a reference with the host of the authority replaced.
// Removing the last defined authority component removes the authority
// itself.
func (r Reference) WithHost(v any) (Reference, error) {
	a, err := r.authority.WithHost(v)
	if err != nil {
		return Reference{}, errtrace.Wrap(err)
	}
	return errtrace.Wrap2(r.withNormalizedAuthority(a))
}

// WithPort returns a reference with the port of the authority replaced.
// Removing the last defined authority component removes the authority
// itself.
func (r Reference) WithPort(v any) (Reference, error) {
	a, err := r.authority.WithPort(v)
	if err != nil {
		return Reference{}, errtrace.Wrap(err)
	}
	return errtrace.Wrap2(r.withNormalizedAuthority(a))
}

func (r Reference) withNormalizedAuthority(a Authority) (Reference, error) {
	if !a.UserInfo().Defined() && !a.Host().Defined() && !a.Port().Defined() {
		a = Authority{}
	}
	r.authority = a
	if err := r.validate(); err != nil {
		return Reference{}, errtrace.Wrap(err)
	}
	return r, nil
}

// WithPath returns a reference with the path component replaced.
// A nil value sets the empty path.
func (r Reference) WithPath(v any) (Reference, error) {
	p, err := PathFrom(v)
	if err != nil {
		return Reference{}, errtrace.Wrap(err)
	}
	r.path = p
	if err = r.validate(); err != nil {
		return Reference{}, errtrace.Wrap(err)
	}
	return r, nil
}

// WithQuery returns a reference with the query component replaced.
// A nil value removes it.
func (r Reference) WithQuery(v any) (Reference, error) {
	q, err := QueryFrom(v)
	if err != nil {
		return Reference{}, errtrace.Wrap(err)
	}
	r.query = q
	return r, nil
}

// WithFragment returns a reference with the fragment component replaced.
// A nil value removes it.
func (r Reference) WithFragment(v any) (Reference, error) {
	f, err := FragmentFrom(v)
	if err != nil {
		return Reference{}, errtrace.Wrap(err)
	}
	r.fragment = f
	return r, nil
}

// Render returns the reference recomposed from its components.
func (r Reference) Render(opts *RenderOptions) string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)

	if r.scheme.Defined() {
		sb.WriteString(r.scheme.Render(opts))
		sb.WriteByte(':')
	}
	if r.authority.Defined() {
		sb.WriteString("//")
		sb.WriteString(r.authority.Render(opts))
	}
	sb.WriteString(r.path.Render(opts))
	if r.query.Defined() {
		sb.WriteByte('?')
		sb.WriteString(r.query.Render(opts))
	}
	if r.fragment.Defined() {
		sb.WriteByte('#')
		sb.WriteString(r.fragment.Render(opts))
	}
	return sb.String()
}

// RenderTo writes the recomposed reference to the provided writer.
func (r Reference) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)

	if r.scheme.Defined() {
		cw.Call(func(w io.Writer) (int, error) { return r.scheme.RenderTo(w, opts) })
		cw.Fprint(":")
	}
	if r.authority.Defined() {
		cw.Fprint("//")
		cw.Call(func(w io.Writer) (int, error) { return r.authority.RenderTo(w, opts) })
	}
	cw.Call(func(w io.Writer) (int, error) { return r.path.RenderTo(w, opts) })
	if r.query.Defined() {
		cw.Fprint("?")
		cw.Call(func(w io.Writer) (int, error) { return r.query.RenderTo(w, opts) })
	}
	if r.fragment.Defined() {
		cw.Fprint("#")
		cw.Call(func(w io.Writer) (int, error) { return r.fragment.RenderTo(w, opts) })
	}
	return errtrace.Wrap2(cw.Result())
}

// String returns the string representation of the reference.
func (r Reference) String() string { return r.Render(nil) }

// Format implements fmt.Formatter for custom formatting of the reference.
func (r Reference) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, r.String())
	case 'q':
		fmt.Fprint(f, strconv.Quote(r.String()))
	default:
		type hideMethods Reference
		type Reference hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), Reference(r))
	}
}

// Equal compares this reference with another for equality.
// References are equal when all their components are.
func (r Reference) Equal(val any) bool {
	var other Reference
	switch v := val.(type) {
	case Reference:
		other = v
	case *Reference:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return r.scheme.Equal(other.scheme) &&
		r.authority.Equal(other.authority) &&
		r.path.Equal(other.path) &&
		r.query.Equal(other.query) &&
		r.fragment.Equal(other.fragment)
}

// IsValid checks whether the reference and all its components are valid.
func (r Reference) IsValid() bool {
	return r.validate() == nil &&
		r.scheme.IsValid() &&
		r.authority.IsValid() &&
		r.path.IsValid() &&
		r.query.IsValid() &&
		r.fragment.IsValid()
}

// MarshalText implements [encoding.TextMarshaler].
func (r Reference) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (r *Reference) UnmarshalText(text []byte) error {
	r1, err := Split(text)
	if err != nil {
		*r = Reference{}
		return errtrace.Wrap(err)
	}
	*r = r1
	return nil
}
