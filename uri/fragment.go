package uri

import (
	"fmt"
	"io"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gouri/internal/grammar"
)

// Fragment represents the URI fragment component.
//
// The content is stored with pct-encoded sequences decoded, except those
// encoding reserved chars. An empty but present fragment ("http://h#") is
// distinct from an absent one. The zero value is the undefined fragment.
type Fragment struct {
	fragment string
	defined  bool
}

// ParseFragment parses a fragment from the given input src (string or []byte).
// The input goes without the leading '#' delimiter.
// Any char except ASCII controls is accepted, chars outside the fragment
// set are pct-encoded on rendering.
func ParseFragment[T ~string | ~[]byte](src T) (Fragment, error) {
	if err := grammar.ValidateComponent(src); err != nil {
		return Fragment{}, errtrace.Wrap(newSyntaxErr("fragment %q: %v", string(src), err))
	}
	return Fragment{fragment: string(grammar.Decode(src)), defined: true}, nil
}

// FragmentFrom creates a fragment from v.
// Accepted types: nil, string, []byte, [Component], [fmt.Stringer].
func FragmentFrom(v any) (Fragment, error) {
	s, ok, err := contentOf(v)
	if err != nil {
		return Fragment{}, errtrace.Wrap(err)
	}
	if !ok {
		return Fragment{}, nil
	}
	return errtrace.Wrap2(ParseFragment(s))
}

// Defined reports whether the fragment is present.
func (f Fragment) Defined() bool { return f.defined }

// Content returns the fragment in RFC3986-encoded form,
// false when the fragment is undefined.
func (f Fragment) Content() (string, bool) {
	if !f.defined {
		return "", false
	}
	return f.Render(nil), true
}

// Decoded returns the fragment with all pct-encoded sequences decoded.
func (f Fragment) Decoded() string {
	return string(grammar.Unescape(f.fragment))
}

// URIComponent returns the fragment with its leading '#' delimiter,
// empty when the fragment is undefined.
func (f Fragment) URIComponent() string {
	if !f.defined {
		return ""
	}
	return "#" + f.Render(nil)
}

// Render returns the string representation of the fragment.
func (f Fragment) Render(opts *RenderOptions) string {
	if f.fragment == "" {
		return ""
	}
	return string(grammar.Escape(f.fragment, grammar.EscapeMode(grammar.IsFragmentChar, renderMode(opts))))
}

// RenderTo writes the fragment to the provided writer.
func (f Fragment) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if f.fragment == "" {
		return 0, nil
	}
	return errtrace.Wrap2(io.WriteString(w, f.Render(opts)))
}

// String returns the string representation of the fragment.
func (f Fragment) String() string { return f.Render(nil) }

// Format implements fmt.Formatter for custom formatting of the fragment.
func (f Fragment) Format(fs fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(fs, f.String())
	case 'q':
		fmt.Fprint(fs, strconv.Quote(f.String()))
	default:
		type hideMethods Fragment
		type Fragment hideMethods
		fmt.Fprintf(fs, fmt.FormatString(fs, verb), Fragment(f))
	}
}

// Equal compares this fragment with another for equality.
func (f Fragment) Equal(val any) bool {
	var other Fragment
	switch v := val.(type) {
	case Fragment:
		other = v
	case *Fragment:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return f == other
}

// IsValid checks whether the fragment is syntactically valid.
func (f Fragment) IsValid() bool {
	return grammar.ValidateComponent(f.fragment) == nil
}

// WithContent returns a fragment with the given content.
// The receiver is returned unchanged when the new content equals the current one.
func (f Fragment) WithContent(v any) (Fragment, error) {
	f2, err := FragmentFrom(v)
	if err != nil {
		return Fragment{}, errtrace.Wrap(err)
	}
	if f.Equal(f2) {
		return f, nil
	}
	return f2, nil
}

// MarshalText implements [encoding.TextMarshaler].
func (f Fragment) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
// An empty text produces the undefined fragment.
func (f *Fragment) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*f = Fragment{}
		return nil
	}
	f1, err := ParseFragment(text)
	if err != nil {
		*f = Fragment{}
		return errtrace.Wrap(err)
	}
	*f = f1
	return nil
}
