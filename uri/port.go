package uri

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gouri/internal/grammar"
)

// Port represents the URI port component as a non-negative integer.
//
// The zero value is the undefined port.
type Port struct {
	num     int
	defined bool
}

// ParsePort parses a port from the given input src (string or []byte).
// The input must be a plain decimal integer without sign or leading zeros.
func ParsePort[T ~string | ~[]byte](src T) (Port, error) {
	if len(src) == 0 {
		return Port{}, errtrace.Wrap(newSyntaxErr("empty port"))
	}
	for i := 0; i < len(src); i++ {
		if !grammar.IsDigitChar(src[i]) {
			return Port{}, errtrace.Wrap(newSyntaxErr("port %q", string(src)))
		}
	}
	if len(src) > 1 && src[0] == '0' {
		return Port{}, errtrace.Wrap(newSyntaxErr("port %q has a leading zero", string(src)))
	}
	num, err := strconv.Atoi(string(src))
	if err != nil {
		return Port{}, errtrace.Wrap(newRangeErr("port %q overflows", string(src)))
	}
	return Port{num: num, defined: true}, nil
}

// PortFrom creates a port from v.
// Accepted types: nil, string, []byte, [Component], [fmt.Stringer]
// and any integer type. Negative values are rejected.
func PortFrom(v any) (Port, error) {
	switch v := v.(type) {
	case nil:
		return Port{}, nil
	case int:
		return errtrace.Wrap2(portFromInt(int64(v)))
	case int8:
		return errtrace.Wrap2(portFromInt(int64(v)))
	case int16:
		return errtrace.Wrap2(portFromInt(int64(v)))
	case int32:
		return errtrace.Wrap2(portFromInt(int64(v)))
	case int64:
		return errtrace.Wrap2(portFromInt(v))
	case uint:
		return errtrace.Wrap2(portFromUint(uint64(v)))
	case uint8:
		return errtrace.Wrap2(portFromUint(uint64(v)))
	case uint16:
		return errtrace.Wrap2(portFromUint(uint64(v)))
	case uint32:
		return errtrace.Wrap2(portFromUint(uint64(v)))
	case uint64:
		return errtrace.Wrap2(portFromUint(v))
	}
	s, ok, err := contentOf(v)
	if err != nil {
		return Port{}, errtrace.Wrap(err)
	}
	if !ok {
		return Port{}, nil
	}
	return errtrace.Wrap2(ParsePort(s))
}

func portFromInt(num int64) (Port, error) {
	if num < 0 {
		return Port{}, errtrace.Wrap(newRangeErr("negative port %d", num))
	}
	if num > math.MaxInt {
		return Port{}, errtrace.Wrap(newRangeErr("port %d overflows", num))
	}
	return Port{num: int(num), defined: true}, nil
}

func portFromUint(num uint64) (Port, error) {
	if num > math.MaxInt {
		return Port{}, errtrace.Wrap(newRangeErr("port %d overflows", num))
	}
	return Port{num: int(num), defined: true}, nil
}

// Number returns the port number, false when the port is undefined.
func (p Port) Number() (int, bool) { return p.num, p.defined }

// Defined reports whether the port is present.
func (p Port) Defined() bool { return p.defined }

// Content returns the port as a decimal string, false when the port is undefined.
func (p Port) Content() (string, bool) {
	if !p.defined {
		return "", false
	}
	return strconv.Itoa(p.num), true
}

// URIComponent returns the port with its leading ':' delimiter,
// empty when the port is undefined.
func (p Port) URIComponent() string {
	if !p.defined {
		return ""
	}
	return ":" + strconv.Itoa(p.num)
}

// Render returns the string representation of the port.
func (p Port) Render(_ *RenderOptions) string {
	if !p.defined {
		return ""
	}
	return strconv.Itoa(p.num)
}

// RenderTo writes the port to the provided writer.
func (p Port) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if !p.defined {
		return 0, nil
	}
	return errtrace.Wrap2(io.WriteString(w, p.Render(opts)))
}

// String returns the string representation of the port.
func (p Port) String() string { return p.Render(nil) }

// Format implements fmt.Formatter for custom formatting of the port.
func (p Port) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, p.String())
	case 'q':
		fmt.Fprint(f, strconv.Quote(p.String()))
	case 'd':
		fmt.Fprint(f, p.num)
	default:
		type hideMethods Port
		type Port hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), Port(p))
	}
}

// Equal compares this port with another for equality.
func (p Port) Equal(val any) bool {
	var other Port
	switch v := val.(type) {
	case Port:
		other = v
	case *Port:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return p == other
}

// IsValid checks whether the port is valid.
func (p Port) IsValid() bool {
	return !p.defined || p.num >= 0
}

// WithContent returns a port with the given content.
// The receiver is returned unchanged when the new content equals the current one.
func (p Port) WithContent(v any) (Port, error) {
	p2, err := PortFrom(v)
	if err != nil {
		return Port{}, errtrace.Wrap(err)
	}
	if p.Equal(p2) {
		return p, nil
	}
	return p2, nil
}

// MarshalText implements [encoding.TextMarshaler].
func (p Port) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (p *Port) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*p = Port{}
		return nil
	}
	p1, err := ParsePort(text)
	if err != nil {
		*p = Port{}
		return errtrace.Wrap(err)
	}
	*p = p1
	return nil
}
