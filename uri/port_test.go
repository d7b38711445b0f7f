package uri_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ghettovoice/gouri/uri"
)

func TestParsePort(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{"well known", "80", "80", nil},
		{"ephemeral", "49152", "49152", nil},
		{"zero", "0", "0", nil},
		{"beyond uint16", "65536", "65536", nil},
		{"empty", "", "", uri.ErrSyntax},
		{"leading zero", "080", "", uri.ErrSyntax},
		{"signed", "+80", "", uri.ErrSyntax},
		{"negative", "-80", "", uri.ErrSyntax},
		{"letters", "8080a", "", uri.ErrSyntax},
		{"overflow", "99999999999999999999", "", uri.ErrRange},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			p, err := uri.ParsePort(c.in)
			if !errors.Is(err, c.wantErr) {
				t.Fatalf("ParsePort(%q) error = %v, want %v", c.in, err, c.wantErr)
			}
			if got := p.String(); got != c.want {
				t.Errorf("ParsePort(%q) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}

func TestPortFrom(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		val     any
		wantNum int
		wantDef bool
		wantErr error
	}{
		{"nil", nil, 0, false, nil},
		{"int", 8080, 8080, true, nil},
		{"int zero", 0, 0, true, nil},
		{"int16", int16(443), 443, true, nil},
		{"uint16", uint16(65535), 65535, true, nil},
		{"uint64", uint64(70000), 70000, true, nil},
		{"string", "8042", 8042, true, nil},
		{"bytes", []byte("21"), 21, true, nil},
		{"component", must(uri.ParsePort("3478")), 3478, true, nil},
		{"negative int", -1, 0, false, uri.ErrRange},
		{"negative int64", int64(-65536), 0, false, uri.ErrRange},
		{"bad string", "80a", 0, false, uri.ErrSyntax},
		{"unsupported type", 3.14, 0, false, uri.ErrType},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			p, err := uri.PortFrom(c.val)
			if !errors.Is(err, c.wantErr) {
				t.Fatalf("PortFrom(%#v) error = %v, want %v", c.val, err, c.wantErr)
			}
			num, def := p.Number()
			if def != c.wantDef {
				t.Errorf("p.Number() defined = %v, want %v", def, c.wantDef)
			}
			if num != c.wantNum {
				t.Errorf("p.Number() = %d, want %d", num, c.wantNum)
			}
		})
	}
}

func TestPort_Content(t *testing.T) {
	t.Parallel()

	t.Run("undefined", func(t *testing.T) {
		t.Parallel()

		var p uri.Port
		if got, ok := p.Content(); ok || got != "" {
			t.Errorf("p.Content() = %q, %v, want %q, false", got, ok, "")
		}
		if got := p.URIComponent(); got != "" {
			t.Errorf("p.URIComponent() = %q, want %q", got, "")
		}
	})

	t.Run("defined", func(t *testing.T) {
		t.Parallel()

		p := must(uri.PortFrom(8042))
		if got, ok := p.Content(); !ok || got != "8042" {
			t.Errorf("p.Content() = %q, %v, want %q, true", got, ok, "8042")
		}
		if got := p.URIComponent(); got != ":8042" {
			t.Errorf("p.URIComponent() = %q, want %q", got, ":8042")
		}
	})
}

func TestPort_Format(t *testing.T) {
	t.Parallel()

	p := must(uri.ParsePort("8080"))

	cases := []struct {
		name string
		verb string
		want string
	}{
		{"string", "%s", "8080"},
		{"quoted", "%q", `"8080"`},
		{"decimal", "%d", "8080"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := fmt.Sprintf(c.verb, p); got != c.want {
				t.Errorf("Sprintf(%q, p) = %q, want %q", c.verb, got, c.want)
			}
		})
	}
}

func TestPort_Equal(t *testing.T) {
	t.Parallel()

	p := must(uri.ParsePort("80"))

	cases := []struct {
		name string
		port uri.Port
		val  any
		want bool
	}{
		{"zero to zero", uri.Port{}, uri.Port{}, true},
		{"same number", p, must(uri.PortFrom(80)), true},
		{"pointer", p, &p, true},
		{"other number", p, must(uri.PortFrom(8080)), false},
		{"defined to zero", p, uri.Port{}, false},
		{"type mismatch", p, 80, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := c.port.Equal(c.val); got != c.want {
				t.Errorf("port.Equal(%#v) = %v, want %v", c.val, got, c.want)
			}
		})
	}
}

func TestPort_WithContent(t *testing.T) {
	t.Parallel()

	p := must(uri.ParsePort("80"))

	t.Run("replace", func(t *testing.T) {
		t.Parallel()

		p2, err := p.WithContent(8080)
		if err != nil {
			t.Fatalf("p.WithContent(8080) error = %v, want nil", err)
		}
		if got := p2.URIComponent(); got != ":8080" {
			t.Errorf("p2.URIComponent() = %q, want %q", got, ":8080")
		}
	})

	t.Run("remove", func(t *testing.T) {
		t.Parallel()

		p2, err := p.WithContent(nil)
		if err != nil {
			t.Fatalf("p.WithContent(nil) error = %v, want nil", err)
		}
		if p2.Defined() {
			t.Errorf("p2.Defined() = true, want false")
		}
	})

	t.Run("out of range", func(t *testing.T) {
		t.Parallel()

		if _, err := p.WithContent(-443); !errors.Is(err, uri.ErrRange) {
			t.Errorf("p.WithContent(-443) error = %v, want %v", err, uri.ErrRange)
		}
	})
}
