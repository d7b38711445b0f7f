package uri_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ghettovoice/gouri/uri"
)

func TestParseQuery(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		in        string
		wantPairs []uri.Pair
		wantErr   error
	}{
		{"empty", "", []uri.Pair{uri.KeyOnly("")}, nil},
		{"single pair", "a=1", []uri.Pair{uri.KV("a", "1")}, nil},
		{"duplicate keys", "a=1&a=2", []uri.Pair{uri.KV("a", "1"), uri.KV("a", "2")}, nil},
		{"valueless", "flag", []uri.Pair{uri.KeyOnly("flag")}, nil},
		{"empty value", "flag=", []uri.Pair{uri.KV("flag", "")}, nil},
		{"mixed", "a=1&flag&b=2", []uri.Pair{uri.KV("a", "1"), uri.KeyOnly("flag"), uri.KV("b", "2")}, nil},
		{"decodes keys and values", "a%20b=c%26d", []uri.Pair{uri.KV("a b", "c&d")}, nil},
		{"plus stays literal", "a+b=c", []uri.Pair{uri.KV("a+b", "c")}, nil},
		{"value keeps extra equals", "a=1=2", []uri.Pair{uri.KV("a", "1=2")}, nil},
		{"control char", "a=\x01", nil, uri.ErrSyntax},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			q, err := uri.ParseQuery(c.in)
			if !errors.Is(err, c.wantErr) {
				t.Fatalf("ParseQuery(%q) error = %v, want %v", c.in, err, c.wantErr)
			}
			if err != nil {
				return
			}
			if diff := cmp.Diff(c.wantPairs, q.Pairs()); diff != "" {
				t.Errorf("q.Pairs() mismatch (-want +got):\n%s", diff)
			}
			if !q.Defined() {
				t.Errorf("q.Defined() = false, want true")
			}
		})
	}
}

func TestParseQueryRFC1738(t *testing.T) {
	t.Parallel()

	q, err := uri.ParseQueryRFC1738("a+b=c+d&plus=%2B", 0)
	if err != nil {
		t.Fatalf("ParseQueryRFC1738() error = %v, want nil", err)
	}
	want := []uri.Pair{uri.KV("a b", "c d"), uri.KV("plus", "+")}
	if diff := cmp.Diff(want, q.Pairs()); diff != "" {
		t.Errorf("q.Pairs() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseQueryRFC3986_Separator(t *testing.T) {
	t.Parallel()

	t.Run("semicolon", func(t *testing.T) {
		t.Parallel()

		q, err := uri.ParseQueryRFC3986("a=1;b=2", ';')
		if err != nil {
			t.Fatalf("ParseQueryRFC3986() error = %v, want nil", err)
		}
		want := []uri.Pair{uri.KV("a", "1"), uri.KV("b", "2")}
		if diff := cmp.Diff(want, q.Pairs()); diff != "" {
			t.Errorf("q.Pairs() mismatch (-want +got):\n%s", diff)
		}
		if got := q.Separator(); got != ';' {
			t.Errorf("q.Separator() = %q, want ';'", got)
		}
		if got, want := q.String(), "a=1;b=2"; got != want {
			t.Errorf("q.String() = %q, want %q", got, want)
		}
	})

	t.Run("equals separator", func(t *testing.T) {
		t.Parallel()

		if _, err := uri.ParseQueryRFC3986("a=1", '='); !errors.Is(err, uri.ErrSyntax) {
			t.Errorf("ParseQueryRFC3986('=') error = %v, want %v", err, uri.ErrSyntax)
		}
	})

	t.Run("non-printable separator", func(t *testing.T) {
		t.Parallel()

		if _, err := uri.ParseQueryRFC3986("a=1", '\n'); !errors.Is(err, uri.ErrSyntax) {
			t.Errorf("ParseQueryRFC3986('\\n') error = %v, want %v", err, uri.ErrSyntax)
		}
	})
}

func TestQueryFromPairs(t *testing.T) {
	t.Parallel()

	pairs := []uri.Pair{uri.KV("a", "1"), uri.KeyOnly("flag"), uri.KV("sp ace", "c&d")}

	q, err := uri.QueryFromPairs(0, pairs...)
	if err != nil {
		t.Fatalf("QueryFromPairs() error = %v, want nil", err)
	}
	if got, want := q.String(), "a=1&flag&sp%20ace=c%26d"; got != want {
		t.Errorf("q.String() = %q, want %q", got, want)
	}
	if got := q.Separator(); got != uri.DefaultQuerySeparator {
		t.Errorf("q.Separator() = %q, want %q", got, uri.DefaultQuerySeparator)
	}

	q2 := must(uri.ParseQuery(q.String()))
	if diff := cmp.Diff(pairs, q2.Pairs()); diff != "" {
		t.Errorf("reparsed pairs mismatch (-want +got):\n%s", diff)
	}
}

func TestQuery_Get(t *testing.T) {
	t.Parallel()

	q := must(uri.ParseQuery("a=1&a=2&flag&empty="))

	cases := []struct {
		name   string
		key    string
		want   string
		wantOK bool
	}{
		{"first of duplicates", "a", "1", true},
		{"valueless", "flag", "", false},
		{"empty value", "empty", "", true},
		{"missing", "nope", "", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got, ok := q.Get(c.key); ok != c.wantOK || got != c.want {
				t.Errorf("q.Get(%q) = %q, %v, want %q, %v", c.key, got, ok, c.want, c.wantOK)
			}
		})
	}

	t.Run("has", func(t *testing.T) {
		t.Parallel()

		if !q.Has("flag") {
			t.Errorf("q.Has(flag) = false, want true")
		}
		if q.Has("nope") {
			t.Errorf("q.Has(nope) = true, want false")
		}
	})

	t.Run("get all", func(t *testing.T) {
		t.Parallel()

		if got, want := q.GetAll("a"), []string{"1", "2"}; !slices.Equal(got, want) {
			t.Errorf("q.GetAll(a) = %q, want %q", got, want)
		}
		if got, want := q.GetAll("flag"), []string{""}; !slices.Equal(got, want) {
			t.Errorf("q.GetAll(flag) = %q, want %q", got, want)
		}
		if got := q.GetAll("nope"); len(got) != 0 {
			t.Errorf("q.GetAll(nope) = %q, want none", got)
		}
	})

	t.Run("keys", func(t *testing.T) {
		t.Parallel()

		if got, want := q.Keys(), []string{"a", "flag", "empty"}; !slices.Equal(got, want) {
			t.Errorf("q.Keys() = %q, want %q", got, want)
		}
	})
}

func TestQuery_WithPair(t *testing.T) {
	t.Parallel()

	q := must(uri.ParseQuery("a=1&b=2&a=3"))

	t.Run("replace first and drop the rest", func(t *testing.T) {
		t.Parallel()

		q2, err := q.WithPair("a", "9")
		if err != nil {
			t.Fatalf("q.WithPair() error = %v, want nil", err)
		}
		if got, want := q2.String(), "a=9&b=2"; got != want {
			t.Errorf("q2.String() = %q, want %q", got, want)
		}
	})

	t.Run("append new key", func(t *testing.T) {
		t.Parallel()

		q2, err := q.WithPair("c", "4")
		if err != nil {
			t.Fatalf("q.WithPair() error = %v, want nil", err)
		}
		if got, want := q2.String(), "a=1&b=2&a=3&c=4"; got != want {
			t.Errorf("q2.String() = %q, want %q", got, want)
		}
	})

	t.Run("nil value makes the pair valueless", func(t *testing.T) {
		t.Parallel()

		q2, err := q.WithPair("b", nil)
		if err != nil {
			t.Fatalf("q.WithPair() error = %v, want nil", err)
		}
		if got, want := q2.String(), "a=1&b&a=3"; got != want {
			t.Errorf("q2.String() = %q, want %q", got, want)
		}
	})

	t.Run("decoded input is stored verbatim", func(t *testing.T) {
		t.Parallel()

		q2, err := uri.Query{}.WithPair("a b", "c&d")
		if err != nil {
			t.Fatalf("q.WithPair() error = %v, want nil", err)
		}
		if got, ok := q2.Get("a b"); !ok || got != "c&d" {
			t.Errorf("q2.Get(a b) = %q, %v, want %q, true", got, ok, "c&d")
		}
		if got, want := q2.String(), "a%20b=c%26d"; got != want {
			t.Errorf("q2.String() = %q, want %q", got, want)
		}
	})
}

func TestQuery_Merge(t *testing.T) {
	t.Parallel()

	q := must(uri.ParseQuery("a=1&b=2"))

	t.Run("pairs", func(t *testing.T) {
		t.Parallel()

		q2, err := q.Merge("b=3&c=4")
		if err != nil {
			t.Fatalf("q.Merge() error = %v, want nil", err)
		}
		if got, want := q2.String(), "a=1&b=3&c=4"; got != want {
			t.Errorf("q2.String() = %q, want %q", got, want)
		}
	})

	t.Run("valueless pair", func(t *testing.T) {
		t.Parallel()

		q2, err := q.Merge("a")
		if err != nil {
			t.Fatalf("q.Merge() error = %v, want nil", err)
		}
		if got, want := q2.String(), "a&b=2"; got != want {
			t.Errorf("q2.String() = %q, want %q", got, want)
		}
	})

	t.Run("nil is a no-op", func(t *testing.T) {
		t.Parallel()

		q2, err := q.Merge(nil)
		if err != nil {
			t.Fatalf("q.Merge(nil) error = %v, want nil", err)
		}
		if !q2.Equal(q) {
			t.Errorf("q2 = %v, want %v", q2, q)
		}
	})
}

func TestQuery_Append(t *testing.T) {
	t.Parallel()

	t.Run("keeps duplicates", func(t *testing.T) {
		t.Parallel()

		q2, err := must(uri.ParseQuery("a=1")).Append("a=2&flag")
		if err != nil {
			t.Fatalf("q.Append() error = %v, want nil", err)
		}
		if got, want := q2.String(), "a=1&a=2&flag"; got != want {
			t.Errorf("q2.String() = %q, want %q", got, want)
		}
	})

	t.Run("drops bare empty pairs", func(t *testing.T) {
		t.Parallel()

		q2, err := must(uri.ParseQuery("")).Append("a=1")
		if err != nil {
			t.Fatalf("q.Append() error = %v, want nil", err)
		}
		if got, want := q2.String(), "a=1"; got != want {
			t.Errorf("q2.String() = %q, want %q", got, want)
		}
	})
}

func TestQuery_Sort(t *testing.T) {
	t.Parallel()

	q := must(uri.ParseQuery("b=2&a=1&b=1&c&a=3"))
	if got, want := q.Sort().String(), "b=2&b=1&a=1&a=3&c"; got != want {
		t.Errorf("q.Sort() = %q, want %q", got, want)
	}
}

func TestQuery_WithoutDuplicates(t *testing.T) {
	t.Parallel()

	q := must(uri.ParseQuery("a=1&a=1&a=2&flag&flag"))
	if got, want := q.WithoutDuplicates().String(), "a=1&a=2&flag"; got != want {
		t.Errorf("q.WithoutDuplicates() = %q, want %q", got, want)
	}
}

func TestQuery_WithoutEmptyPairs(t *testing.T) {
	t.Parallel()

	q := must(uri.ParseQuery("&&a=1&=&=x&b="))
	if got, want := q.WithoutEmptyPairs().String(), "a=1&=x&b="; got != want {
		t.Errorf("q.WithoutEmptyPairs() = %q, want %q", got, want)
	}
}

func TestQuery_WithoutNumericIndices(t *testing.T) {
	t.Parallel()

	q := must(uri.ParseQuery("a[0][b][1]=x&plain=1&b[]=2"))
	if got, want := q.WithoutNumericIndices().String(), "a%5B%5D%5Bb%5D%5B%5D=x&plain=1&b%5B%5D=2"; got != want {
		t.Errorf("q.WithoutNumericIndices() = %q, want %q", got, want)
	}

	q2 := q.WithoutNumericIndices()
	if got, want := q2.Keys(), []string{"a[][b][]", "plain", "b[]"}; !slices.Equal(got, want) {
		t.Errorf("q2.Keys() = %q, want %q", got, want)
	}
}

func TestQuery_WithoutParams(t *testing.T) {
	t.Parallel()

	q := must(uri.ParseQuery("foo=1&foo[1]=2&foo[a][b]=3&foobar=4&bar=5"))
	if got, want := q.WithoutParams("foo").Keys(), []string{"foobar", "bar"}; !slices.Equal(got, want) {
		t.Errorf("q.WithoutParams(foo).Keys() = %q, want %q", got, want)
	}
	if got := q.WithoutParams(); !got.Equal(q) {
		t.Errorf("q.WithoutParams() = %v, want %v", got, q)
	}
}

func TestQuery_Params(t *testing.T) {
	t.Parallel()

	q := must(uri.ParseQuery("a=1&b[]=2&b[]=3&c[x]=4&c[y][]=5&d[1]=z&flag&e%5B=6"))

	want := map[string]any{
		"a": "1",
		"b": []any{"2", "3"},
		"c": map[string]any{
			"x": "4",
			"y": []any{"5"},
		},
		"d":    []any{nil, "z"},
		"flag": "",
		"e[":   "6",
	}
	if diff := cmp.Diff(want, q.Params()); diff != "" {
		t.Errorf("q.Params() mismatch (-want +got):\n%s", diff)
	}

	if got := q.Param("a"); got != "1" {
		t.Errorf("q.Param(a) = %v, want %q", got, "1")
	}
	if got := q.Param("nope"); got != nil {
		t.Errorf("q.Param(nope) = %v, want nil", got)
	}
}

func TestQuery_Render(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		q    uri.Query
		opts *uri.RenderOptions
		want string
	}{
		{
			"equals encoded in key only",
			must(uri.QueryFromPairs(0, uri.KV("a=b", "c=d"))),
			nil,
			"a%3Db=c=d",
		},
		{
			"separator encoded inside tokens",
			must(uri.QueryFromPairs(',', uri.KV("a,b", "c,d"), uri.KV("x", "y"))),
			nil,
			"a%2Cb=c%2Cd,x=y",
		},
		{
			"default separator encoded in value",
			must(uri.QueryFromPairs(0, uri.KV("a", "b&c"))),
			nil,
			"a=b%26c",
		},
		{
			"rfc1738 space as plus",
			must(uri.QueryFromPairs(0, uri.KV("a b", "c+d"))),
			&uri.RenderOptions{Mode: uri.EncodingRFC1738},
			"a+b=c%2Bd",
		},
		{
			"rfc3986 space escaped",
			must(uri.QueryFromPairs(0, uri.KV("a b", "c+d"))),
			nil,
			"a%20b=c+d",
		},
		{
			"iri keeps unicode",
			must(uri.QueryFromPairs(0, uri.KV("ключ", "значение"))),
			&uri.RenderOptions{Mode: uri.EncodingRFC3987},
			"ключ=значение",
		},
		{
			"unicode escaped by default",
			must(uri.QueryFromPairs(0, uri.KV("k", "é"))),
			nil,
			"k=%C3%A9",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := c.q.Render(c.opts); got != c.want {
				t.Errorf("q.Render(%+v) = %q, want %q", c.opts, got, c.want)
			}
		})
	}
}

func TestQuery_URIComponent(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		q    uri.Query
		want string
	}{
		{"undefined", uri.Query{}, ""},
		{"empty", must(uri.ParseQuery("")), "?"},
		{"pairs", must(uri.ParseQuery("a=1&flag")), "?a=1&flag"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := c.q.URIComponent(); got != c.want {
				t.Errorf("q.URIComponent() = %q, want %q", got, c.want)
			}
		})
	}

	t.Run("content", func(t *testing.T) {
		t.Parallel()

		if _, ok := (uri.Query{}).Content(); ok {
			t.Errorf("zero.Content() ok = true, want false")
		}
		if content, ok := must(uri.ParseQuery("")).Content(); !ok || content != "" {
			t.Errorf("empty.Content() = %q, %v, want %q, true", content, ok, "")
		}
	})
}

func TestQuery_WithSeparator(t *testing.T) {
	t.Parallel()

	q := must(uri.ParseQuery("a=1&b=2"))

	t.Run("change", func(t *testing.T) {
		t.Parallel()

		q2, err := q.WithSeparator(';')
		if err != nil {
			t.Fatalf("q.WithSeparator(';') error = %v, want nil", err)
		}
		if got, want := q2.String(), "a=1;b=2"; got != want {
			t.Errorf("q2.String() = %q, want %q", got, want)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()

		if _, err := q.WithSeparator('='); !errors.Is(err, uri.ErrSyntax) {
			t.Errorf("q.WithSeparator('=') error = %v, want %v", err, uri.ErrSyntax)
		}
		if _, err := q.WithSeparator(0); !errors.Is(err, uri.ErrSyntax) {
			t.Errorf("q.WithSeparator(0) error = %v, want %v", err, uri.ErrSyntax)
		}
	})
}

func TestQuery_Equal(t *testing.T) {
	t.Parallel()

	q := must(uri.ParseQuery("a=1&b=2"))

	cases := []struct {
		name string
		q    uri.Query
		val  any
		want bool
	}{
		{"zero to zero", uri.Query{}, uri.Query{}, true},
		{"zero to empty", uri.Query{}, must(uri.ParseQuery("")), false},
		{"same", q, must(uri.ParseQuery("a=1&b=2")), true},
		{"pointer", q, &q, true},
		{"order matters", q, must(uri.ParseQuery("b=2&a=1")), false},
		{"valueless differs from empty", must(uri.ParseQuery("a")), must(uri.ParseQuery("a=")), false},
		{"separator matters", q, must(uri.ParseQueryRFC3986("a=1;b=2", ';')), false},
		{"type mismatch", q, "a=1&b=2", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := c.q.Equal(c.val); got != c.want {
				t.Errorf("q.Equal(%#v) = %v, want %v", c.val, got, c.want)
			}
		})
	}
}

func TestQuery_UnmarshalText(t *testing.T) {
	t.Parallel()

	var q uri.Query
	if err := q.UnmarshalText([]byte("a=1&b=2")); err != nil {
		t.Fatalf("q.UnmarshalText() error = %v, want nil", err)
	}
	if got, want := q.String(), "a=1&b=2"; got != want {
		t.Errorf("q.String() = %q, want %q", got, want)
	}

	if err := q.UnmarshalText(nil); err != nil {
		t.Fatalf("q.UnmarshalText(nil) error = %v, want nil", err)
	}
	if q.Defined() {
		t.Errorf("q.Defined() = true, want false")
	}
}

func BenchmarkParseQuery(b *testing.B) {
	for b.Loop() {
		if _, err := uri.ParseQuery("a=1&b=two%20words&c[]=3&c[]=4&flag"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkQuery_Render(b *testing.B) {
	q, err := uri.ParseQuery("a=1&b=two%20words&c[]=3&c[]=4&flag")
	if err != nil {
		b.Fatal(err)
	}
	for b.Loop() {
		_ = q.Render(nil)
	}
}
