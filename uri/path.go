package uri

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gouri/internal/grammar"
)

// Path represents the URI path component as a flat string.
//
// The content is stored with pct-encoded sequences decoded, except those
// encoding reserved chars, so an encoded '/' never turns into a segment
// separator. A URI always has a path, possibly empty: the zero value is the
// empty path. See [HierarchicalPath] for segment-level operations.
type Path struct {
	path string
}

// ParsePath parses a path from the given input src (string or []byte).
// Any char except ASCII controls is accepted, chars outside the path set
// are pct-encoded on rendering.
func ParsePath[T ~string | ~[]byte](src T) (Path, error) {
	if err := grammar.ValidateComponent(src); err != nil {
		return Path{}, errtrace.Wrap(newSyntaxErr("path %q: %v", string(src), err))
	}
	return Path{path: string(grammar.Decode(src))}, nil
}

// PathFrom creates a path from v.
// Accepted types: nil, string, []byte, [Component], [fmt.Stringer].
// A nil value produces the empty path.
func PathFrom(v any) (Path, error) {
	s, ok, err := contentOf(v)
	if err != nil {
		return Path{}, errtrace.Wrap(err)
	}
	if !ok {
		return Path{}, nil
	}
	return errtrace.Wrap2(ParsePath(s))
}

// IsAbsolute reports whether the path starts with a '/'.
func (p Path) IsAbsolute() bool {
	return strings.HasPrefix(p.path, "/")
}

// WithLeadingSlash returns an absolute path.
func (p Path) WithLeadingSlash() Path {
	if p.IsAbsolute() {
		return p
	}
	return Path{path: "/" + p.path}
}

// WithoutLeadingSlash returns a relative path.
func (p Path) WithoutLeadingSlash() Path {
	if !p.IsAbsolute() {
		return p
	}
	return Path{path: p.path[1:]}
}

// WithTrailingSlash returns a path ending with a '/'.
func (p Path) WithTrailingSlash() Path {
	if strings.HasSuffix(p.path, "/") {
		return p
	}
	return Path{path: p.path + "/"}
}

// WithoutTrailingSlash returns a path without the trailing '/'.
func (p Path) WithoutTrailingSlash() Path {
	if !strings.HasSuffix(p.path, "/") {
		return p
	}
	return Path{path: p.path[:len(p.path)-1]}
}

// WithoutDotSegments returns a path with the "." and ".." segments applied
// and removed: "." segments drop, ".." segments pop the previously retained
// segment if there is one. A trailing dot segment keeps the trailing slash.
func (p Path) WithoutDotSegments() Path {
	if !strings.Contains(p.path, ".") {
		return p
	}

	segs := strings.Split(p.path, "/")
	out := make([]string, 0, len(segs))
	for _, seg := range segs {
		switch seg {
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		case ".":
		default:
			out = append(out, seg)
		}
	}
	res := strings.Join(out, "/")
	if last := segs[len(segs)-1]; last == "." || last == ".." {
		res += "/"
	}
	return Path{path: res}
}

// Defined reports whether the path is present. A path always is.
func (p Path) Defined() bool { return true }

// Content returns the path in RFC3986-encoded form. ok is always true.
func (p Path) Content() (string, bool) {
	return p.Render(nil), true
}

// Decoded returns the path with all pct-encoded sequences decoded.
func (p Path) Decoded() string {
	return string(grammar.Unescape(p.path))
}

// URIComponent returns the path as it appears inside a URI.
func (p Path) URIComponent() string {
	return p.Render(nil)
}

// Render returns the string representation of the path.
func (p Path) Render(opts *RenderOptions) string {
	if p.path == "" {
		return ""
	}
	return string(grammar.Escape(p.path, grammar.EscapeMode(grammar.IsPathChar, renderMode(opts))))
}

// RenderTo writes the path to the provided writer.
func (p Path) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if p.path == "" {
		return 0, nil
	}
	return errtrace.Wrap2(io.WriteString(w, p.Render(opts)))
}

// String returns the string representation of the path.
func (p Path) String() string { return p.Render(nil) }

// Format implements fmt.Formatter for custom formatting of the path.
func (p Path) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, p.String())
	case 'q':
		fmt.Fprint(f, strconv.Quote(p.String()))
	default:
		type hideMethods Path
		type Path hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), Path(p))
	}
}

// Equal compares this path with another for equality.
func (p Path) Equal(val any) bool {
	var other Path
	switch v := val.(type) {
	case Path:
		other = v
	case *Path:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return p == other
}

// IsValid checks whether the path is syntactically valid.
func (p Path) IsValid() bool {
	return grammar.ValidateComponent(p.path) == nil
}

// WithContent returns a path with the given content.
// The receiver is returned unchanged when the new content equals the current one.
func (p Path) WithContent(v any) (Path, error) {
	p2, err := PathFrom(v)
	if err != nil {
		return Path{}, errtrace.Wrap(err)
	}
	if p.Equal(p2) {
		return p, nil
	}
	return p2, nil
}

// MarshalText implements [encoding.TextMarshaler].
func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (p *Path) UnmarshalText(text []byte) error {
	p1, err := ParsePath(text)
	if err != nil {
		*p = Path{}
		return errtrace.Wrap(err)
	}
	*p = p1
	return nil
}
