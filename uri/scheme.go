package uri

import (
	"fmt"
	"io"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gouri/internal/grammar"
	"github.com/ghettovoice/gouri/internal/util"
)

// Scheme represents the URI scheme component.
//
// The zero value is the undefined scheme.
type Scheme struct {
	scheme  string
	defined bool
}

// ParseScheme parses a scheme from the given input src (string or []byte).
// The scheme must match ALPHA *( ALPHA / DIGIT / "+" / "-" / "." )
// and is stored lowercased.
func ParseScheme[T ~string | ~[]byte](src T) (Scheme, error) {
	if !grammar.IsScheme(src) {
		return Scheme{}, errtrace.Wrap(newSyntaxErr("scheme %q", string(src)))
	}
	return Scheme{scheme: util.LCase(string(src)), defined: true}, nil
}

// SchemeFrom creates a scheme from v.
// Accepted types: nil, string, []byte, [Component], [fmt.Stringer].
func SchemeFrom(v any) (Scheme, error) {
	s, ok, err := contentOf(v)
	if err != nil {
		return Scheme{}, errtrace.Wrap(err)
	}
	if !ok {
		return Scheme{}, nil
	}
	return errtrace.Wrap2(ParseScheme(s))
}

// Defined reports whether the scheme is present.
func (s Scheme) Defined() bool { return s.defined }

// Content returns the scheme value, false when the scheme is undefined.
func (s Scheme) Content() (string, bool) {
	if !s.defined {
		return "", false
	}
	return s.scheme, true
}

// URIComponent returns the scheme with its trailing ':' delimiter,
// empty when the scheme is undefined.
func (s Scheme) URIComponent() string {
	if !s.defined {
		return ""
	}
	return s.scheme + ":"
}

// Render returns the string representation of the scheme.
func (s Scheme) Render(_ *RenderOptions) string { return s.scheme }

// RenderTo writes the scheme to the provided writer.
func (s Scheme) RenderTo(w io.Writer, _ *RenderOptions) (num int, err error) {
	if !s.defined {
		return 0, nil
	}
	return errtrace.Wrap2(io.WriteString(w, s.scheme))
}

// String returns the string representation of the scheme.
func (s Scheme) String() string { return s.Render(nil) }

// Format implements fmt.Formatter for custom formatting of the scheme.
func (s Scheme) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, s.String())
	case 'q':
		fmt.Fprint(f, strconv.Quote(s.String()))
	default:
		type hideMethods Scheme
		type Scheme hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), Scheme(s))
	}
}

// Equal compares this scheme with another for equality.
func (s Scheme) Equal(val any) bool {
	var other Scheme
	switch v := val.(type) {
	case Scheme:
		other = v
	case *Scheme:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return s == other
}

// IsValid checks whether the scheme is syntactically valid.
func (s Scheme) IsValid() bool {
	return !s.defined || grammar.IsScheme(s.scheme)
}

// WithContent returns a scheme with the given content.
// The receiver is returned unchanged when the new content equals the current one.
func (s Scheme) WithContent(v any) (Scheme, error) {
	s2, err := SchemeFrom(v)
	if err != nil {
		return Scheme{}, errtrace.Wrap(err)
	}
	if s.Equal(s2) {
		return s, nil
	}
	return s2, nil
}

// MarshalText implements [encoding.TextMarshaler].
func (s Scheme) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (s *Scheme) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*s = Scheme{}
		return nil
	}
	s1, err := ParseScheme(text)
	if err != nil {
		*s = Scheme{}
		return errtrace.Wrap(err)
	}
	*s = s1
	return nil
}
