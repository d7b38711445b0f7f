package uri_test

import (
	"errors"
	"testing"

	"github.com/ghettovoice/gouri/uri"
)

func TestParseFragment(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{"empty", "", "", nil},
		{"plain", "heading-1", "heading-1", nil},
		{"decodes unreserved", "%41%7Ez", "A~z", nil},
		{"keeps reserved encoded", "a%2Fb", "a%2Fb", nil},
		{"normalizes hex case", "a%2fb%3f", "a%2Fb%3F", nil},
		{"space round trip", "section%202", "section%202", nil},
		{"raw space", "section 2", "section%202", nil},
		{"bare percent", "100%", "100%25", nil},
		{"unicode", "héllo", "h%C3%A9llo", nil},
		{"control char", "a\x00b", "", uri.ErrSyntax},
		{"delete char", "a\x7fb", "", uri.ErrSyntax},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			f, err := uri.ParseFragment(c.in)
			if !errors.Is(err, c.wantErr) {
				t.Fatalf("ParseFragment(%q) error = %v, want %v", c.in, err, c.wantErr)
			}
			if got := f.String(); got != c.want {
				t.Errorf("ParseFragment(%q) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}

func TestFragment_Decoded(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "top", "top"},
		{"reserved", "a%2Fb%3Fc", "a/b?c"},
		{"unreserved", "%41z", "Az"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			f := must(uri.ParseFragment(c.in))
			if got := f.Decoded(); got != c.want {
				t.Errorf("f.Decoded() = %q, want %q", got, c.want)
			}
		})
	}
}

func TestFragment_URIComponent(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		fragment uri.Fragment
		want     string
	}{
		{"undefined", uri.Fragment{}, ""},
		{"present but empty", must(uri.ParseFragment("")), "#"},
		{"value", must(uri.ParseFragment("nose")), "#nose"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := c.fragment.URIComponent(); got != c.want {
				t.Errorf("fragment.URIComponent() = %q, want %q", got, c.want)
			}
		})
	}
}

func TestFragment_Render(t *testing.T) {
	t.Parallel()

	f := must(uri.ParseFragment("héllo/wörld"))

	cases := []struct {
		name string
		opts *uri.RenderOptions
		want string
	}{
		{"default", nil, "h%C3%A9llo/w%C3%B6rld"},
		{"rfc3986", &uri.RenderOptions{Mode: uri.EncodingRFC3986}, "h%C3%A9llo/w%C3%B6rld"},
		{"rfc3987", &uri.RenderOptions{Mode: uri.EncodingRFC3987}, "héllo/wörld"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := f.Render(c.opts); got != c.want {
				t.Errorf("f.Render(%+v) = %q, want %q", c.opts, got, c.want)
			}
		})
	}
}

func TestFragment_Equal(t *testing.T) {
	t.Parallel()

	nose := must(uri.ParseFragment("nose"))

	cases := []struct {
		name     string
		fragment uri.Fragment
		val      any
		want     bool
	}{
		{"zero to zero", uri.Fragment{}, uri.Fragment{}, true},
		{"zero to empty", uri.Fragment{}, must(uri.ParseFragment("")), false},
		{"same content", nose, must(uri.ParseFragment("nose")), true},
		{"same decoded content", must(uri.ParseFragment("a b")), must(uri.ParseFragment("a%20b")), true},
		{"pointer", nose, &nose, true},
		{"other content", nose, must(uri.ParseFragment("ear")), false},
		{"type mismatch", nose, "nose", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := c.fragment.Equal(c.val); got != c.want {
				t.Errorf("fragment.Equal(%#v) = %v, want %v", c.val, got, c.want)
			}
		})
	}
}

func TestFragment_WithContent(t *testing.T) {
	t.Parallel()

	f := must(uri.ParseFragment("intro"))

	t.Run("replace", func(t *testing.T) {
		t.Parallel()

		f2, err := f.WithContent("outro")
		if err != nil {
			t.Fatalf("f.WithContent(outro) error = %v, want nil", err)
		}
		if got := f2.String(); got != "outro" {
			t.Errorf("f2.String() = %q, want %q", got, "outro")
		}
	})

	t.Run("remove", func(t *testing.T) {
		t.Parallel()

		f2, err := f.WithContent(nil)
		if err != nil {
			t.Fatalf("f.WithContent(nil) error = %v, want nil", err)
		}
		if f2.Defined() {
			t.Errorf("f2.Defined() = true, want false")
		}
	})

	t.Run("from component", func(t *testing.T) {
		t.Parallel()

		f2, err := f.WithContent(must(uri.ParseFragment("a%20b")))
		if err != nil {
			t.Fatalf("f.WithContent(a%%20b) error = %v, want nil", err)
		}
		if got := f2.String(); got != "a%20b" {
			t.Errorf("f2.String() = %q, want %q", got, "a%20b")
		}
	})
}
