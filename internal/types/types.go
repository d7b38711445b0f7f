// Package types contains common types used across the uri package.
package types

import (
	"io"
)

// EncodingMode selects the escaping rules applied when a component is
// rendered back to its string form.
type EncodingMode uint8

const (
	// EncodingRFC3986 is the default canonical percent-encoding.
	EncodingRFC3986 EncodingMode = iota
	// EncodingRFC1738 additionally escapes '+' and '~'; the query codec
	// maps the space character to '+'.
	EncodingRFC1738
	// EncodingRFC3987 keeps non-ASCII bytes raw to produce an IRI.
	EncodingRFC3987
)

func (m EncodingMode) String() string {
	if m > EncodingRFC3987 {
		return "unknown"
	}
	return [...]string{"rfc3986", "rfc1738", "rfc3987"}[m]
}

// Renderer is an interface that is used to render a type to a string or a writer.
type Renderer interface {
	// Render renders the type to a string with the given options.
	Render(opts *RenderOptions) string
	// RenderTo renders the type to a writer with the given options.
	RenderTo(w io.Writer, opts *RenderOptions) (int, error)
}

// RenderOptions is a struct that is used to pass options to rendering methods.
type RenderOptions struct {
	// Mode selects the escaping rules, [EncodingRFC3986] by default.
	Mode EncodingMode `json:"mode,omitempty"`
}

// ValidFlag reports whether a value holds its invariants.
type ValidFlag interface {
	IsValid() bool
}

// Equalable compares a value with another for equality.
// Implementations accept the value form or a pointer to it.
type Equalable interface {
	Equal(val any) bool
}
