package uri

//go:generate go tool errtrace -w .

import (
	"fmt"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gouri/internal/types"
)

// EncodingMode selects the encoding applied to chars outside a component
// char set on rendering.
type EncodingMode = types.EncodingMode

// Supported encoding modes.
const (
	// EncodingRFC3986 pct-encodes every char outside the component char set.
	EncodingRFC3986 = types.EncodingRFC3986
	// EncodingRFC1738 additionally encodes '+' and '~'.
	EncodingRFC1738 = types.EncodingRFC1738
	// EncodingRFC3987 leaves non-ASCII chars raw, producing an IRI.
	EncodingRFC3987 = types.EncodingRFC3987
)

// RenderOptions customizes component rendering.
type RenderOptions = types.RenderOptions

// Component is the interface implemented by all URI components.
//
// A component distinguishes the undefined state from the defined but empty
// one: an undefined component renders to nothing and drops its delimiter,
// a defined empty one still emits the delimiter ("http://h#" keeps the '#').
type Component interface {
	types.Renderer
	types.Equalable
	types.ValidFlag

	// Defined reports whether the component is present in a URI.
	Defined() bool
	// Content returns the component content in RFC3986-encoded form,
	// false when the component is undefined.
	Content() (string, bool)
	// URIComponent returns the component together with its delimiter,
	// ready to be concatenated into a URI reference.
	URIComponent() string
}

func renderMode(opts *RenderOptions) EncodingMode {
	if opts == nil {
		return EncodingRFC3986
	}
	return opts.Mode
}

// contentOf resolves v into raw component content.
// The ok result is false when v is nil or an undefined [Component].
func contentOf(v any) (s string, ok bool, err error) {
	switch v := v.(type) {
	case nil:
		return "", false, nil
	case string:
		return v, true, nil
	case []byte:
		return string(v), true, nil
	case Component:
		s, ok := v.Content()
		return s, ok, nil
	case fmt.Stringer:
		return v.String(), true, nil
	default:
		return "", false, errtrace.Wrap(newTypeErr("cannot resolve %T into component content", v))
	}
}
